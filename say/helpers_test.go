package say_test

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/dgnsrekt/says/say"
)

// fakeExecutor implements say.Executor without spawning processes.
type fakeExecutor struct {
	mu sync.Mutex

	// StreamTo behavior (synthesis path)
	streamPayload []byte // Bytes written to the sink
	streamStderr  string
	streamErr     error
	streamDelay   func() // Called inside StreamTo before returning, if set

	// Execute behavior keyed by command name (playback/query paths)
	results map[string]fakeResult

	streamCalls  int
	executeCalls []string // Command names in invocation order
	stdinSeen    []string
	argvSeen     [][]string
}

type fakeResult struct {
	output []byte
	err    error
}

func newFakeExecutor() *fakeExecutor {
	return &fakeExecutor{results: make(map[string]fakeResult)}
}

func (f *fakeExecutor) setResult(command string, output []byte, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.results[command] = fakeResult{output: output, err: err}
}

func (f *fakeExecutor) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	return f.ExecuteWithStdin(ctx, "", name, args...)
}

func (f *fakeExecutor) ExecuteWithStdin(_ context.Context, input string, name string, args ...string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.executeCalls = append(f.executeCalls, name)
	f.stdinSeen = append(f.stdinSeen, input)
	f.argvSeen = append(f.argvSeen, append([]string{name}, args...))

	res, ok := f.results[name]
	if !ok {
		return nil, fmt.Errorf("no fake result for %q", name)
	}
	return res.output, res.err
}

func (f *fakeExecutor) StreamTo(_ context.Context, w io.Writer, input string, name string, args ...string) (string, error) {
	f.mu.Lock()
	f.streamCalls++
	f.stdinSeen = append(f.stdinSeen, input)
	f.argvSeen = append(f.argvSeen, append([]string{name}, args...))
	payload := f.streamPayload
	stderr := f.streamStderr
	err := f.streamErr
	delay := f.streamDelay
	f.mu.Unlock()

	if delay != nil {
		delay()
	}
	if len(payload) > 0 {
		if _, werr := w.Write(payload); werr != nil {
			return stderr, werr
		}
	}
	return stderr, err
}

func (f *fakeExecutor) synthesisCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.streamCalls
}

func (f *fakeExecutor) playerCalls(player string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, name := range f.executeCalls {
		if name == player {
			n++
		}
	}
	return n
}

// recordingNotifier implements say.Notifier, collecting every emission.
type recordingNotifier struct {
	mu        sync.Mutex
	jobs      []say.Job
	playbacks []say.PlaybackAttempt
	failures  []error
}

func (n *recordingNotifier) JobFinished(job say.Job) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.jobs = append(n.jobs, job)
}

func (n *recordingNotifier) PlaybackFinished(attempt say.PlaybackAttempt) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.playbacks = append(n.playbacks, attempt)
}

func (n *recordingNotifier) Failure(err error) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.failures = append(n.failures, err)
}

func (n *recordingNotifier) total() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.jobs) + len(n.playbacks) + len(n.failures)
}

func (n *recordingNotifier) lastJob() (say.Job, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if len(n.jobs) == 0 {
		return say.Job{}, false
	}
	return n.jobs[len(n.jobs)-1], true
}
