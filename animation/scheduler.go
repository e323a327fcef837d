// Package animation drives renderers through a visibility-aware frame lifecycle.
//
// The lifecycle controller never talks to a display directly. It asks a
// Scheduler for the next frame, so the same state machine runs under a real
// window loop, an offscreen renderer or a test that advances time by hand.
package animation

import "sort"

// FrameID identifies a scheduled frame request. Zero is never a valid ID.
type FrameID uint64

// FrameFunc is invoked with the frame timestamp in milliseconds.
type FrameFunc func(nowMs float64)

// Scheduler requests display-refresh callbacks.
type Scheduler interface {
	// ScheduleFrame registers cb to run on the next frame tick.
	ScheduleFrame(cb FrameFunc) FrameID
	// Cancel drops a pending request. Unknown or already-run IDs are ignored.
	Cancel(id FrameID)
}

// ManualScheduler runs pending callbacks only when Advance is called.
// Callbacks scheduled during Advance run on the following Advance, like
// requestAnimationFrame.
type ManualScheduler struct {
	nextID  FrameID
	pending map[FrameID]FrameFunc
	now     float64
}

// NewManualScheduler creates an empty scheduler at time 0.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{pending: make(map[FrameID]FrameFunc)}
}

// ScheduleFrame implements Scheduler.
func (s *ManualScheduler) ScheduleFrame(cb FrameFunc) FrameID {
	s.nextID++
	s.pending[s.nextID] = cb
	return s.nextID
}

// Cancel implements Scheduler.
func (s *ManualScheduler) Cancel(id FrameID) {
	delete(s.pending, id)
}

// Pending returns the number of outstanding frame requests.
func (s *ManualScheduler) Pending() int {
	return len(s.pending)
}

// Now returns the timestamp of the latest Advance.
func (s *ManualScheduler) Now() float64 {
	return s.now
}

// Advance sets the clock to nowMs and runs every callback pending at entry,
// in scheduling order. Returns the number of callbacks run.
func (s *ManualScheduler) Advance(nowMs float64) int {
	s.now = nowMs
	if len(s.pending) == 0 {
		return 0
	}

	ids := make([]FrameID, 0, len(s.pending))
	for id := range s.pending {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	ran := 0
	for _, id := range ids {
		cb, ok := s.pending[id]
		if !ok {
			// Cancelled by an earlier callback in this batch
			continue
		}
		delete(s.pending, id)
		cb(nowMs)
		ran++
	}
	return ran
}
