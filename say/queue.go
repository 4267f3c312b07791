package say

import "sync"

// PendingStats tracks pending-slot activity.
type PendingStats struct {
	TotalParked     int64 // Requests that entered the slot
	TotalStarted    int64 // Requests taken from the slot and started
	TotalSuperseded int64 // Requests replaced before they could start
}

// pendingSlot is a FIFO queue of depth one. A request parked while another
// job runs waits in the slot; parking again supersedes the waiting request,
// which is never started. This matches launcher behavior where the latest
// utterance is the one the user wants.
type pendingSlot struct {
	mu      sync.Mutex
	pending *SynthesisRequest
	stats   PendingStats
}

// park places a request in the slot, replacing any waiting request.
// It reports whether a previous request was superseded.
func (q *pendingSlot) park(req SynthesisRequest) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	superseded := q.pending != nil
	if superseded {
		q.stats.TotalSuperseded++
	}
	q.pending = &req
	q.stats.TotalParked++
	return superseded
}

// take removes and returns the waiting request, if any.
func (q *pendingSlot) take() (SynthesisRequest, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.pending == nil {
		return SynthesisRequest{}, false
	}
	req := *q.pending
	q.pending = nil
	q.stats.TotalStarted++
	return req, true
}

// drop discards the waiting request without counting it as started.
func (q *pendingSlot) drop() {
	q.mu.Lock()
	q.pending = nil
	q.mu.Unlock()
}

// Stats returns a snapshot of pending-slot counters.
func (q *pendingSlot) Stats() PendingStats {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.stats
}
