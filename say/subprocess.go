package say

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"
)

// Executor abstracts subprocess execution so the runner and playback
// manager can be exercised without spawning real processes.
type Executor interface {
	// Execute runs a command and returns its stdout.
	Execute(ctx context.Context, name string, args ...string) ([]byte, error)

	// ExecuteWithStdin runs a command with the given stdin and returns stdout.
	ExecuteWithStdin(ctx context.Context, input string, name string, args ...string) ([]byte, error)

	// StreamTo runs a command, copying stdout into w, and returns captured
	// stderr alongside any execution error.
	StreamTo(ctx context.Context, w io.Writer, input string, name string, args ...string) (string, error)
}

// SubprocessManager handles subprocess execution for backend invocations.
// Stdin is always attached before the process starts to avoid races between
// process startup and script delivery.
type SubprocessManager struct {
	defaultTimeout time.Duration
}

// NewSubprocessManager creates a subprocess manager with the given default
// timeout for operations whose context carries no deadline.
func NewSubprocessManager(timeout time.Duration) *SubprocessManager {
	if timeout <= 0 {
		timeout = 2 * time.Minute
	}
	return &SubprocessManager{defaultTimeout: timeout}
}

// withDeadline derives a context with the default timeout unless the caller
// already set one.
func (sm *SubprocessManager) withDeadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, sm.defaultTimeout)
}

// Execute runs a command and returns its combined output.
func (sm *SubprocessManager) Execute(ctx context.Context, name string, args ...string) ([]byte, error) {
	return sm.ExecuteWithStdin(ctx, "", name, args...)
}

// ExecuteWithStdin runs a command with the given stdin and returns stdout.
func (sm *SubprocessManager) ExecuteWithStdin(ctx context.Context, input string, name string, args ...string) ([]byte, error) {
	ctx, cancel := sm.withDeadline(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("subprocess %s: %w", name, ctxErr)
	}
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("subprocess %s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("subprocess %s: %w", name, err)
	}
	return stdout.Bytes(), nil
}

// StreamTo runs a command, copying its stdout into w while the process
// runs. It returns the captured stderr alongside any execution error, so
// callers can surface backend diagnostics on failure.
func (sm *SubprocessManager) StreamTo(ctx context.Context, w io.Writer, input string, name string, args ...string) (string, error) {
	ctx, cancel := sm.withDeadline(ctx)
	defer cancel()

	cmd := exec.CommandContext(ctx, name, args...)
	if input != "" {
		cmd.Stdin = strings.NewReader(input)
	}
	cmd.Stdout = w

	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	err := cmd.Run()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return stderr.String(), fmt.Errorf("subprocess %s: %w", name, ctxErr)
	}
	if err != nil {
		return stderr.String(), fmt.Errorf("subprocess %s: %w", name, err)
	}
	return stderr.String(), nil
}
