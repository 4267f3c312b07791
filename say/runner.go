package say

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ArtifactSink receives the audio stream of a synthesis job. A job writes
// into a staging slot and only Commit makes the artifact visible, so a
// half-written file is never observable as the current artifact.
type ArtifactSink interface {
	// Create opens the staging slot for writing.
	Create() (io.WriteCloser, error)

	// Commit promotes the staged audio and returns the artifact path.
	Commit(jobID string) (string, error)

	// Abort discards the staged audio after a failure.
	Abort()
}

// Runner executes synthesis jobs asynchronously. At most one job runs at a
// time; a request dispatched while one is in flight parks in a depth-1
// pending slot where a newer request supersedes it. Each started job
// reaches exactly one terminal status, recorded in the store and surfaced
// through the notifier strictly after the process has exited and the
// artifact check has run.
type Runner struct {
	planner   *Planner
	exec      Executor
	store     *Store
	artifacts ArtifactSink
	notifier  Notifier
	timeout   time.Duration

	mu       sync.Mutex
	running  bool
	shutdown bool
	pending  pendingSlot

	wg sync.WaitGroup
}

// NewRunner creates a runner with its injected collaborators.
func NewRunner(planner *Planner, exec Executor, store *Store, artifacts ArtifactSink, notifier Notifier, timeout time.Duration) *Runner {
	if timeout <= 0 {
		timeout = 3 * time.Minute
	}
	return &Runner{
		planner:   planner,
		exec:      exec,
		store:     store,
		artifacts: artifacts,
		notifier:  notifier,
		timeout:   timeout,
	}
}

// Dispatch validates and starts (or parks) a synthesis request. It returns
// the started job, or parked=true when the request is waiting behind an
// in-flight job. Configuration errors are returned before any process is
// spawned and produce no job.
func (r *Runner) Dispatch(req SynthesisRequest) (job *Job, parked bool, err error) {
	// Planning is pure; it surfaces configuration errors up front.
	if _, err := r.planner.PlanSynthesis(req); err != nil {
		return nil, false, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.shutdown {
		return nil, false, ErrRunnerShutdown
	}

	if r.running {
		if r.pending.park(req) {
			log.Debug("superseded a parked request", "text_length", len(req.Text))
		}
		return nil, true, nil
	}

	return r.startLocked(req), false, nil
}

// startLocked creates and launches a job. Caller holds mu.
func (r *Runner) startLocked(req SynthesisRequest) *Job {
	job := NewJob(req)
	job.transition(StatusRunning)
	r.running = true
	r.wg.Add(1)
	go r.run(job)
	return job
}

// Wait blocks until the runner is idle: no running job and nothing parked.
func (r *Runner) Wait() {
	r.wg.Wait()
}

// Shutdown stops accepting new requests and waits for the in-flight job.
// A parked request that has not started yet is discarded.
func (r *Runner) Shutdown() {
	r.mu.Lock()
	r.shutdown = true
	r.pending.drop()
	r.mu.Unlock()
	r.wg.Wait()
}

// PendingStats exposes pending-slot counters.
func (r *Runner) PendingStats() PendingStats {
	return r.pending.Stats()
}

// run executes one job to its terminal status, then starts any parked
// request.
func (r *Runner) run(job *Job) {
	defer r.finish()

	m := StartSynthesis(job.Request.Backend.String(), job.Request.Text)

	plan, err := r.planner.PlanSynthesis(job.Request)
	if err != nil {
		// Dispatch already planned this request; only a config change
		// between dispatch and start could land here.
		job.fail(DescribeError(err))
		m.End(0, err)
		r.settle(job)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), r.timeout)
	defer cancel()

	sink, err := r.artifacts.Create()
	if err != nil {
		job.fail(fmt.Sprintf("unable to open artifact sink: %v", err))
		m.End(0, err)
		r.settle(job)
		return
	}

	log.Debug("starting synthesis process", "plan", plan.String(), "job", job.ID)
	stderr, runErr := r.exec.StreamTo(ctx, sink, plan.Script, plan.Command(), plan.Args()...)
	closeErr := sink.Close()

	if runErr != nil || closeErr != nil {
		r.artifacts.Abort()
		job.fail(r.failureMessage(runErr, closeErr, stderr))
		m.End(0, runErr)
		r.settle(job)
		return
	}

	path, err := r.artifacts.Commit(job.ID)
	if err != nil {
		job.fail(fmt.Sprintf("%s: %v", DescribeError(ErrMissingArtifact), err))
		m.End(0, ErrMissingArtifact)
		r.settle(job)
		return
	}

	job.succeed(path)
	m.End(sizeOf(path), nil)
	r.settle(job)
}

// settle records the terminal job and emits its single notification.
func (r *Runner) settle(job *Job) {
	r.store.Record(job)
	r.notifier.JobFinished(*job)
	log.Info("job settled", "job", job.ID, "status", job.Status.String())
}

// finish starts a parked request, if any, before releasing the slot.
func (r *Runner) finish() {
	r.mu.Lock()
	if req, ok := r.pending.take(); ok && !r.shutdown {
		next := NewJob(req)
		next.transition(StatusRunning)
		r.wg.Add(1)
		go r.run(next)
	} else {
		r.running = false
	}
	r.mu.Unlock()
	r.wg.Done()
}

// failureMessage builds a terminal error message from process failure
// details, distinguishing timeouts.
func (r *Runner) failureMessage(runErr, closeErr error, stderr string) string {
	if runErr != nil && errors.Is(runErr, context.DeadlineExceeded) {
		return fmt.Sprintf("%s after %v", DescribeError(ErrSynthesisTimeout), r.timeout)
	}

	var b strings.Builder
	b.WriteString(DescribeError(ErrSynthesisFailed))
	if runErr != nil {
		fmt.Fprintf(&b, ": %v", runErr)
	} else if closeErr != nil {
		fmt.Fprintf(&b, ": %v", closeErr)
	}
	if msg := strings.TrimSpace(stderr); msg != "" && runErr != nil && !strings.Contains(runErr.Error(), msg) {
		fmt.Fprintf(&b, " (%s)", lastLine(msg))
	}
	return b.String()
}

// lastLine returns the final non-empty line of backend stderr, usually the
// actual error.
func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		if l := strings.TrimSpace(lines[i]); l != "" {
			return l
		}
	}
	return s
}
