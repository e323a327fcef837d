package animation

// Throttle rate-limits a handler to once per interval with one trailing call.
//
// It is driven by the owning event loop instead of timers: Trigger reports an
// event, Poll fires a due trailing call. Both take the loop's clock in ms.
type Throttle struct {
	waitMs float64
	fn     func()

	last    float64
	fired   bool // fn has run at least once
	pending bool
	due     float64
}

// NewThrottle wraps fn so it runs at most once per waitMs.
func NewThrottle(waitMs float64, fn func()) *Throttle {
	return &Throttle{waitMs: waitMs, fn: fn}
}

// Trigger reports an event at nowMs. If the interval has elapsed since the
// last run, fn runs immediately (dropping any armed trailing call) and
// Trigger returns true. Otherwise exactly one trailing call is armed for the
// end of the interval.
func (t *Throttle) Trigger(nowMs float64) bool {
	remaining := t.waitMs - (nowMs - t.last)
	if !t.fired || remaining <= 0 {
		t.pending = false
		t.run(nowMs)
		return true
	}
	if !t.pending {
		t.pending = true
		t.due = nowMs + remaining
	}
	return false
}

// Poll runs the armed trailing call if it is due. Returns true if fn ran.
func (t *Throttle) Poll(nowMs float64) bool {
	if !t.pending || nowMs < t.due {
		return false
	}
	t.pending = false
	t.run(nowMs)
	return true
}

// Pending reports whether a trailing call is armed.
func (t *Throttle) Pending() bool { return t.pending }

func (t *Throttle) run(nowMs float64) {
	t.last = nowMs
	t.fired = true
	t.fn()
}
