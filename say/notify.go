package say

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Item is one entry in a launcher script-filter response.
type Item struct {
	UID      string    `json:"uid,omitempty"`
	Title    string    `json:"title"`
	Subtitle string    `json:"subtitle,omitempty"`
	Arg      string    `json:"arg,omitempty"`
	Match    string    `json:"match,omitempty"`
	Valid    *bool     `json:"valid,omitempty"`
	Text     *ItemText `json:"text,omitempty"`
}

// ItemText carries the copy/largetype payloads of a script-filter item.
type ItemText struct {
	Copy      string `json:"copy"`
	LargeType string `json:"largetype"`
}

// Response is a complete script-filter response.
type Response struct {
	Items []Item `json:"items"`
}

// WriteTo encodes the response without a trailing newline, as the launcher
// expects.
func (r Response) WriteTo(w io.Writer) error {
	b, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("unable to encode response: %w", err)
	}
	_, err = w.Write(b)
	return err
}

// invalid marks an item non-actionable.
func invalid() *bool {
	v := false
	return &v
}

// Notifier surfaces terminal job outcomes and playback results to the user
// interface layer. Implementations are stateless boundary adapters: one
// call, one visible notification, no retries.
type Notifier interface {
	// JobFinished reports a job that reached a terminal status.
	JobFinished(job Job)

	// PlaybackFinished reports the outcome of a playback attempt chain.
	PlaybackFinished(attempt PlaybackAttempt)

	// Failure reports an error that terminated the user action before a
	// job reached a terminal status (configuration, replay, playback).
	Failure(err error)
}

// DescribeError renders a short, per-kind message for any error in the
// pipeline's taxonomy.
func DescribeError(err error) string {
	switch {
	case errors.Is(err, ErrEmptyText):
		return "Nothing to say: the message was empty."
	case errors.Is(err, ErrMissingBackend):
		return "No TTS backend configured. Set backend.executable."
	case errors.Is(err, ErrMissingHost):
		return "Remote synthesis selected but no host configured."
	case errors.Is(err, ErrInvalidConfig):
		return "Configuration error: " + err.Error()
	case errors.Is(err, ErrSynthesisTimeout):
		return "Synthesis timed out."
	case errors.Is(err, ErrMissingArtifact):
		return "The backend produced no audio."
	case errors.Is(err, ErrSynthesisFailed):
		return "Synthesis failed."
	case errors.Is(err, ErrPlaybackFailed):
		return "Could not play the audio: all players failed."
	case errors.Is(err, ErrNoPriorJob), errors.Is(err, ErrNotReplayable):
		return "Nothing to replay yet."
	default:
		return err.Error()
	}
}

// ScriptFilterNotifier emits launcher script-filter JSON, the boundary
// format the desktop launcher renders directly.
type ScriptFilterNotifier struct {
	w io.Writer
}

// NewScriptFilterNotifier creates a notifier writing to w.
func NewScriptFilterNotifier(w io.Writer) *ScriptFilterNotifier {
	return &ScriptFilterNotifier{w: w}
}

// JobFinished implements Notifier.
func (n *ScriptFilterNotifier) JobFinished(job Job) {
	var resp Response
	switch job.Status {
	case StatusSucceeded:
		resp.Items = []Item{{
			Title:    "Received result",
			Subtitle: "Press enter to play.",
			Arg:      job.ArtifactPath,
		}}
	default:
		subtitle := job.ErrorMessage
		if subtitle == "" {
			subtitle = "Open the launcher debug panel to investigate."
		}
		resp.Items = []Item{{
			Title:    "Synthesis failed",
			Subtitle: subtitle,
			Valid:    invalid(),
		}}
	}
	_ = resp.WriteTo(n.w)
}

// PlaybackFinished implements Notifier.
func (n *ScriptFilterNotifier) PlaybackFinished(attempt PlaybackAttempt) {
	var resp Response
	if attempt.Outcome == PlaybackOK {
		resp.Items = []Item{{
			Title:    "Played result",
			Subtitle: fmt.Sprintf("via %s player", attempt.Player),
			Arg:      attempt.Job.ArtifactPath,
		}}
	} else {
		resp.Items = []Item{{
			Title:    "Playback failed",
			Subtitle: DescribeError(ErrPlaybackFailed),
			Valid:    invalid(),
		}}
	}
	_ = resp.WriteTo(n.w)
}

// Failure implements Notifier.
func (n *ScriptFilterNotifier) Failure(err error) {
	resp := Response{Items: []Item{{
		Title:    "Error occurs",
		Subtitle: DescribeError(err),
		Valid:    invalid(),
	}}}
	_ = resp.WriteTo(n.w)
}

// TextNotifier emits plain lines for terminal use.
type TextNotifier struct {
	w io.Writer
}

// NewTextNotifier creates a notifier writing plain text to w.
func NewTextNotifier(w io.Writer) *TextNotifier {
	return &TextNotifier{w: w}
}

// JobFinished implements Notifier.
func (n *TextNotifier) JobFinished(job Job) {
	if job.Status == StatusSucceeded {
		fmt.Fprintf(n.w, "synthesized: %s\n", job.ArtifactPath)
		return
	}
	fmt.Fprintf(n.w, "synthesis failed: %s\n", job.ErrorMessage)
}

// PlaybackFinished implements Notifier.
func (n *TextNotifier) PlaybackFinished(attempt PlaybackAttempt) {
	if attempt.Outcome == PlaybackOK {
		fmt.Fprintf(n.w, "played %s via %s player\n", attempt.Job.ArtifactPath, attempt.Player)
		return
	}
	fmt.Fprintln(n.w, DescribeError(ErrPlaybackFailed))
}

// Failure implements Notifier.
func (n *TextNotifier) Failure(err error) {
	fmt.Fprintln(n.w, DescribeError(err))
}
