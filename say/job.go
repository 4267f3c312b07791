package say

import (
	"time"

	"github.com/google/uuid"
)

// JobStatus represents the lifecycle state of a synthesis job.
type JobStatus int

const (
	// StatusPending indicates the job has been created but not started.
	StatusPending JobStatus = iota
	// StatusRunning indicates the synthesis process is in flight.
	StatusRunning
	// StatusSucceeded indicates synthesis completed and an artifact exists.
	StatusSucceeded
	// StatusFailed indicates synthesis failed, timed out, or produced no artifact.
	StatusFailed
)

// String returns the string representation of the status.
func (s JobStatus) String() string {
	switch s {
	case StatusPending:
		return "pending"
	case StatusRunning:
		return "running"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Terminal reports whether no further transition may occur from s.
func (s JobStatus) Terminal() bool {
	return s == StatusSucceeded || s == StatusFailed
}

// jobTransitions is the set of valid status transitions. Terminal states
// have no successors; a new request always creates a fresh Job.
var jobTransitions = map[JobStatus][]JobStatus{
	StatusPending: {StatusRunning, StatusFailed},
	StatusRunning: {StatusSucceeded, StatusFailed},
}

// Job records one synthesis request and its outcome.
// ArtifactPath is set if and only if Status == StatusSucceeded.
type Job struct {
	ID           string
	Request      SynthesisRequest
	Status       JobStatus
	ArtifactPath string
	ErrorMessage string
	CreatedAt    time.Time
	FinishedAt   time.Time
}

// NewJob creates a pending job for the given request.
func NewJob(req SynthesisRequest) *Job {
	return &Job{
		ID:        uuid.NewString(),
		Request:   req,
		Status:    StatusPending,
		CreatedAt: time.Now(),
	}
}

// transition attempts to move the job to the given status, reporting
// whether the transition was valid.
func (j *Job) transition(to JobStatus) bool {
	for _, next := range jobTransitions[j.Status] {
		if next == to {
			j.Status = to
			if to.Terminal() {
				j.FinishedAt = time.Now()
			}
			return true
		}
	}
	return false
}

// succeed marks the job succeeded with the artifact it produced.
func (j *Job) succeed(artifactPath string) bool {
	if !j.transition(StatusSucceeded) {
		return false
	}
	j.ArtifactPath = artifactPath
	return true
}

// fail marks the job failed with the given message.
func (j *Job) fail(message string) bool {
	if !j.transition(StatusFailed) {
		return false
	}
	j.ArtifactPath = ""
	j.ErrorMessage = message
	return true
}

// Replayable reports whether the job's artifact can be played back.
func (j *Job) Replayable() bool {
	return j != nil && j.Status == StatusSucceeded && j.ArtifactPath != ""
}
