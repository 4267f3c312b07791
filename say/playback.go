package say

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
)

// PlayerKind identifies which configured player handled an attempt.
type PlayerKind int

const (
	// PlayerPreferred is the first-choice player.
	PlayerPreferred PlayerKind = iota
	// PlayerFallback is tried exactly once when the preferred player fails.
	PlayerFallback
)

// String returns the string representation of the player kind.
func (p PlayerKind) String() string {
	switch p {
	case PlayerPreferred:
		return "preferred"
	case PlayerFallback:
		return "fallback"
	default:
		return "unknown"
	}
}

// PlaybackOutcome is the result of a playback attempt chain.
type PlaybackOutcome int

const (
	// PlaybackOK indicates audible playback completed.
	PlaybackOK PlaybackOutcome = iota
	// PlaybackFailure indicates both players failed.
	PlaybackFailure
)

// PlaybackAttempt records one playback of a succeeded job. Transient, not
// persisted beyond the attempt.
type PlaybackAttempt struct {
	Job     Job
	Player  PlayerKind
	Outcome PlaybackOutcome
}

// PlaybackManager plays a succeeded job's artifact through external player
// executables, retrying once with the fallback player. Playback failures
// never flip the underlying job to failed: synthesis success and playback
// success are independent outcomes.
type PlaybackManager struct {
	cfg  PlaybackConfig
	exec Executor
}

// NewPlaybackManager creates a playback manager using the given executor.
func NewPlaybackManager(cfg PlaybackConfig, exec Executor) *PlaybackManager {
	return &PlaybackManager{cfg: cfg, exec: exec}
}

// Play plays the job's artifact. It returns the attempt that settled the
// outcome; on PlaybackFailure the error is ErrPlaybackFailed.
func (pm *PlaybackManager) Play(ctx context.Context, job Job) (PlaybackAttempt, error) {
	if !job.Replayable() {
		return PlaybackAttempt{Job: job, Outcome: PlaybackFailure}, ErrNotReplayable
	}

	path := pm.maybeTranscode(ctx, job.ArtifactPath)

	ctx, cancel := context.WithTimeout(ctx, pm.cfg.Timeout)
	defer cancel()

	if err := pm.invoke(ctx, pm.cfg.Preferred, pm.cfg.PreferredArgs, path); err == nil {
		return PlaybackAttempt{Job: job, Player: PlayerPreferred, Outcome: PlaybackOK}, nil
	} else {
		log.Warn("preferred player failed, trying fallback",
			"player", pm.cfg.Preferred, "error", err)
	}

	if pm.cfg.Fallback != "" {
		if err := pm.invoke(ctx, pm.cfg.Fallback, pm.cfg.FallbackArgs, path); err == nil {
			return PlaybackAttempt{Job: job, Player: PlayerFallback, Outcome: PlaybackOK}, nil
		} else {
			log.Error("fallback player failed", "player", pm.cfg.Fallback, "error", err)
		}
	}

	return PlaybackAttempt{Job: job, Player: PlayerFallback, Outcome: PlaybackFailure}, ErrPlaybackFailed
}

// invoke runs one player with the artifact path appended.
func (pm *PlaybackManager) invoke(ctx context.Context, player string, args []string, path string) error {
	argv := append(append([]string{}, args...), path)
	_, err := pm.exec.Execute(ctx, player, argv...)
	return err
}

// maybeTranscode converts the artifact with the configured transcoder,
// returning the converted path, or the original path when no transcoder is
// configured or conversion fails. Player compatibility is the only reason
// to transcode, so a conversion failure falls back to the raw artifact.
func (pm *PlaybackManager) maybeTranscode(ctx context.Context, path string) string {
	if pm.cfg.Transcoder == "" {
		return path
	}

	out := strings.TrimSuffix(path, filepath.Ext(path)) + ".mp3"
	if _, err := pm.exec.Execute(ctx, pm.cfg.Transcoder, "-y", "-i", path, out); err != nil {
		log.Warn("transcode failed, playing original artifact",
			"transcoder", pm.cfg.Transcoder, "error", err)
		return path
	}
	return out
}
