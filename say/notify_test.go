package say_test

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/dgnsrekt/says/say"
)

func decodeResponse(t *testing.T, data []byte) say.Response {
	t.Helper()
	if len(data) == 0 {
		t.Fatal("notifier wrote nothing")
	}
	if data[len(data)-1] == '\n' {
		t.Error("script-filter output must not end with a newline")
	}
	var resp say.Response
	if err := json.Unmarshal(data, &resp); err != nil {
		t.Fatalf("invalid script-filter JSON: %v\n%s", err, data)
	}
	return resp
}

func TestScriptFilterJobSucceeded(t *testing.T) {
	var buf bytes.Buffer
	n := say.NewScriptFilterNotifier(&buf)

	n.JobFinished(say.Job{
		Status:       say.StatusSucceeded,
		ArtifactPath: "/cache/speech.wav",
	})

	resp := decodeResponse(t, buf.Bytes())
	if len(resp.Items) != 1 {
		t.Fatalf("items = %d, want 1", len(resp.Items))
	}
	item := resp.Items[0]
	if item.Title != "Received result" {
		t.Errorf("title = %q", item.Title)
	}
	if item.Subtitle != "Press enter to play." {
		t.Errorf("subtitle = %q", item.Subtitle)
	}
	if item.Arg != "/cache/speech.wav" {
		t.Errorf("arg = %q, want the artifact path", item.Arg)
	}
	if item.Valid != nil {
		t.Error("successful result should stay actionable")
	}
}

func TestScriptFilterJobFailed(t *testing.T) {
	var buf bytes.Buffer
	n := say.NewScriptFilterNotifier(&buf)

	n.JobFinished(say.Job{
		Status:       say.StatusFailed,
		ErrorMessage: "Synthesis failed: exit status 1",
	})

	resp := decodeResponse(t, buf.Bytes())
	item := resp.Items[0]
	if item.Title != "Synthesis failed" {
		t.Errorf("title = %q", item.Title)
	}
	if !strings.Contains(item.Subtitle, "exit status 1") {
		t.Errorf("subtitle %q should carry the error message", item.Subtitle)
	}
	if item.Valid == nil || *item.Valid {
		t.Error("failed result must be marked invalid")
	}
}

func TestScriptFilterFailure(t *testing.T) {
	var buf bytes.Buffer
	n := say.NewScriptFilterNotifier(&buf)

	n.Failure(say.ErrMissingBackend)

	resp := decodeResponse(t, buf.Bytes())
	item := resp.Items[0]
	if item.Title != "Error occurs" {
		t.Errorf("title = %q", item.Title)
	}
	if !strings.Contains(item.Subtitle, "backend") {
		t.Errorf("subtitle = %q", item.Subtitle)
	}
}

func TestScriptFilterPlayback(t *testing.T) {
	var buf bytes.Buffer
	n := say.NewScriptFilterNotifier(&buf)

	n.PlaybackFinished(say.PlaybackAttempt{
		Job:     say.Job{Status: say.StatusSucceeded, ArtifactPath: "/cache/speech.wav"},
		Player:  say.PlayerFallback,
		Outcome: say.PlaybackOK,
	})

	resp := decodeResponse(t, buf.Bytes())
	item := resp.Items[0]
	if item.Title != "Played result" {
		t.Errorf("title = %q", item.Title)
	}
	if !strings.Contains(item.Subtitle, "fallback") {
		t.Errorf("subtitle %q should name the player used", item.Subtitle)
	}
}

func TestDescribeErrorDistinguishesKinds(t *testing.T) {
	errs := []error{
		say.ErrEmptyText,
		say.ErrMissingBackend,
		say.ErrMissingHost,
		say.ErrSynthesisTimeout,
		say.ErrSynthesisFailed,
		say.ErrMissingArtifact,
		say.ErrPlaybackFailed,
		say.ErrNoPriorJob,
	}

	seen := make(map[string]error, len(errs))
	for _, err := range errs {
		msg := say.DescribeError(err)
		if msg == "" {
			t.Errorf("DescribeError(%v) is empty", err)
			continue
		}
		if prev, ok := seen[msg]; ok {
			t.Errorf("%v and %v share the message %q", prev, err, msg)
		}
		seen[msg] = err
	}
}

func TestTextNotifier(t *testing.T) {
	var buf bytes.Buffer
	n := say.NewTextNotifier(&buf)

	n.JobFinished(say.Job{Status: say.StatusSucceeded, ArtifactPath: "/cache/speech.wav"})
	n.Failure(say.ErrNoPriorJob)

	out := buf.String()
	if !strings.Contains(out, "/cache/speech.wav") {
		t.Errorf("output %q missing artifact path", out)
	}
	if !strings.Contains(out, "Nothing to replay") {
		t.Errorf("output %q missing replay failure line", out)
	}
}
