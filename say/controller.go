// Package say implements the synthesis dispatch and playback core: planning
// local or remote backend invocations, running synthesis jobs asynchronously,
// tracking the last result for replay, and playing artifacts through
// external audio players.
package say

import (
	"context"

	"github.com/charmbracelet/log"

	"github.com/dgnsrekt/says/internal/artifact"
)

// Controller wires the planner, runner, job store, playback manager and
// notifier into the operations the CLI exposes. The job store is the only
// mutable shared state; it is injected into the runner (writer) and read by
// the replay path here.
type Controller struct {
	cfg       Config
	planner   *Planner
	exec      Executor
	store     *Store
	runner    *Runner
	playback  *PlaybackManager
	catalog   *ModelCatalog
	artifacts *artifact.Store
	profiles  *ProfileStore
	notifier  Notifier
}

// Option overrides a controller collaborator, mainly for tests.
type Option func(*Controller)

// WithExecutor replaces the subprocess executor.
func WithExecutor(exec Executor) Option {
	return func(c *Controller) { c.exec = exec }
}

// NewController assembles a controller from configuration and the two
// stateful boundaries: the on-disk artifact store and the notifier.
func NewController(cfg Config, artifacts *artifact.Store, profiles *ProfileStore, notifier Notifier, opts ...Option) *Controller {
	c := &Controller{
		cfg:       cfg,
		planner:   NewPlanner(cfg.Backend),
		exec:      NewSubprocessManager(cfg.SynthesisTimeout),
		store:     NewStore(),
		artifacts: artifacts,
		profiles:  profiles,
		notifier:  notifier,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.runner = NewRunner(c.planner, c.exec, c.store, artifacts, notifier, cfg.SynthesisTimeout)
	c.playback = NewPlaybackManager(cfg.Playback, c.exec)
	c.catalog = NewModelCatalog(c.planner, c.exec, cfg.Backend)
	return c
}

// Speak dispatches synthesis of the given text. The call returns once the
// job is started or parked; the terminal outcome arrives through the
// notifier. Synchronous failures (validation, configuration) are notified
// here so every dispatch yields exactly one notification.
func (c *Controller) Speak(text string) error {
	profile, err := c.profiles.Load()
	if err != nil {
		log.Warn("ignoring unreadable profile", "error", err)
	}

	req := c.cfg.NewRequest(text, profile)
	job, parked, err := c.runner.Dispatch(req)
	if err != nil {
		c.notifier.Failure(err)
		if IsConfigError(err) {
			log.Warn("dispatch rejected by configuration", "error", err)
		} else {
			log.Error("dispatch failed", "error", err)
		}
		return err
	}
	if parked {
		log.Debug("request parked behind in-flight job")
		return nil
	}
	log.Debug("job dispatched", "job", job.ID)
	return nil
}

// PlayAgain replays the most recent successfully synthesized artifact
// without re-invoking synthesis. Within a process the job store decides;
// a fresh process falls back to the durable artifact on disk, which is the
// only state that survives restarts.
func (c *Controller) PlayAgain(ctx context.Context) error {
	job, ok := c.store.Current()
	if !ok {
		if !c.artifacts.HasCurrent() {
			c.notifier.Failure(ErrNoPriorJob)
			return ErrNoPriorJob
		}
		// Reconstruct the replayable result from the durable artifact.
		job = Job{Status: StatusSucceeded, ArtifactPath: c.artifacts.CurrentPath()}
	}

	if !job.Replayable() {
		c.notifier.Failure(ErrNoPriorJob)
		return ErrNoPriorJob
	}

	attempt, err := c.playback.Play(ctx, job)
	c.notifier.PlaybackFinished(attempt)
	return err
}

// PlayArchived replays an archived artifact by job ID.
func (c *Controller) PlayArchived(ctx context.Context, id string) error {
	path, err := c.artifacts.Restore(id)
	if err != nil {
		c.notifier.Failure(err)
		return err
	}

	job := Job{ID: id, Status: StatusSucceeded, ArtifactPath: path}
	attempt, err := c.playback.Play(ctx, job)
	c.notifier.PlaybackFinished(attempt)
	return err
}

// History returns the archived artifacts, newest first.
func (c *Controller) History() []artifact.Entry {
	return c.artifacts.History()
}

// ListModels queries the backend for available models.
func (c *Controller) ListModels(ctx context.Context) ([]ModelInfo, error) {
	return c.catalog.ListModels(ctx)
}

// ListSpeakers queries the backend for the speakers of the given model.
func (c *Controller) ListSpeakers(ctx context.Context, model string) ([]string, error) {
	return c.catalog.ListSpeakers(ctx, model)
}

// Profiles exposes the profile store for the save/check commands.
func (c *Controller) Profiles() *ProfileStore {
	return c.profiles
}

// Store exposes the job store for the replay path and tests.
func (c *Controller) Store() *Store {
	return c.store
}

// Wait blocks until no job is running or parked.
func (c *Controller) Wait() {
	c.runner.Wait()
}

// Shutdown drains the runner and releases artifact store resources.
func (c *Controller) Shutdown() {
	c.runner.Shutdown()
	if err := c.artifacts.Close(); err != nil {
		log.Warn("artifact store close failed", "error", err)
	}
}
