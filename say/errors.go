package say

import "errors"

// Common errors for the synthesis and playback pipeline.
var (
	// Configuration errors
	ErrInvalidConfig  = errors.New("invalid configuration")
	ErrMissingBackend = errors.New("backend executable path is not configured")
	ErrMissingHost    = errors.New("remote backend selected but no host configured")
	ErrEmptyText      = errors.New("empty text provided")

	// Synthesis errors
	ErrSynthesisFailed  = errors.New("synthesis process failed")
	ErrSynthesisTimeout = errors.New("synthesis process timed out")
	ErrMissingArtifact  = errors.New("synthesis produced no audio artifact")

	// Playback errors
	ErrPlaybackFailed = errors.New("all audio players failed")
	ErrNoPriorJob     = errors.New("no previously synthesized result to play")
	ErrNotReplayable  = errors.New("last job did not produce a playable result")

	// Runner errors
	ErrRunnerShutdown = errors.New("job runner has been shut down")
)

// IsConfigError reports whether err belongs to the configuration error class.
func IsConfigError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrMissingBackend) ||
		errors.Is(err, ErrMissingHost) ||
		errors.Is(err, ErrEmptyText)
}
