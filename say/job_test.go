package say

import "testing"

func TestJobLifecycle(t *testing.T) {
	job := NewJob(SynthesisRequest{Text: "hello"})

	if job.Status != StatusPending {
		t.Fatalf("new job should be pending, got %v", job.Status)
	}
	if job.ID == "" {
		t.Error("new job should have an ID")
	}
	if job.CreatedAt.IsZero() {
		t.Error("new job should have a creation time")
	}

	if !job.transition(StatusRunning) {
		t.Fatal("pending -> running should be valid")
	}
	if !job.succeed("/tmp/speech.wav") {
		t.Fatal("running -> succeeded should be valid")
	}
	if job.ArtifactPath != "/tmp/speech.wav" {
		t.Errorf("artifact path not set: %q", job.ArtifactPath)
	}
	if job.FinishedAt.IsZero() {
		t.Error("terminal job should have a finish time")
	}
}

func TestJobTerminalStatesAreFinal(t *testing.T) {
	job := NewJob(SynthesisRequest{Text: "hello"})
	job.transition(StatusRunning)
	job.succeed("/tmp/speech.wav")

	if job.transition(StatusRunning) || job.transition(StatusFailed) || job.transition(StatusPending) {
		t.Error("no transition out of succeeded may be valid")
	}

	failed := NewJob(SynthesisRequest{Text: "hello"})
	failed.transition(StatusRunning)
	failed.fail("boom")
	if failed.transition(StatusSucceeded) {
		t.Error("no transition out of failed may be valid")
	}
}

func TestJobArtifactInvariant(t *testing.T) {
	// artifactPath is set if and only if status == succeeded.
	success := NewJob(SynthesisRequest{Text: "x"})
	success.transition(StatusRunning)
	success.succeed("/tmp/a.wav")
	if success.Status == StatusSucceeded && success.ArtifactPath == "" {
		t.Error("succeeded job must carry an artifact path")
	}

	failure := NewJob(SynthesisRequest{Text: "x"})
	failure.transition(StatusRunning)
	failure.fail("exit status 1")
	if failure.ArtifactPath != "" {
		t.Error("failed job must not carry an artifact path")
	}
	if failure.ErrorMessage == "" {
		t.Error("failed job must carry an error message")
	}
}

func TestJobInvalidTransitions(t *testing.T) {
	job := NewJob(SynthesisRequest{Text: "x"})

	// pending -> succeeded skips running
	if job.succeed("/tmp/a.wav") {
		t.Error("pending -> succeeded should be invalid")
	}
	if job.ArtifactPath != "" {
		t.Error("rejected transition must not set the artifact path")
	}
}

func TestJobReplayable(t *testing.T) {
	var nilJob *Job
	if nilJob.Replayable() {
		t.Error("nil job is not replayable")
	}

	job := NewJob(SynthesisRequest{Text: "x"})
	if job.Replayable() {
		t.Error("pending job is not replayable")
	}
	job.transition(StatusRunning)
	job.succeed("/tmp/a.wav")
	if !job.Replayable() {
		t.Error("succeeded job with artifact is replayable")
	}
}

func TestStatusString(t *testing.T) {
	for status, want := range map[JobStatus]string{
		StatusPending:   "pending",
		StatusRunning:   "running",
		StatusSucceeded: "succeeded",
		StatusFailed:    "failed",
		JobStatus(99):   "unknown",
	} {
		if got := status.String(); got != want {
			t.Errorf("JobStatus(%d).String() = %q, want %q", status, got, want)
		}
	}
}
