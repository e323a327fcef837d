package animation

import "log/slog"

// SizeFunc reports the current canvas size when a resize is applied.
type SizeFunc func() (width, height, dpr float64)

// ResizeListeners fans throttled resize events out to attached controllers.
// A controller stays attached until it is torn down.
type ResizeListeners struct {
	throttle *Throttle
	size     SizeFunc
	logger   *slog.Logger
	ctrls    []*Controller
}

// NewResizeListeners creates a listener list whose resizes run at most once per waitMs.
func NewResizeListeners(waitMs float64, size SizeFunc, logger *slog.Logger) *ResizeListeners {
	if logger == nil {
		logger = slog.Default()
	}
	l := &ResizeListeners{size: size, logger: logger}
	l.throttle = NewThrottle(waitMs, l.apply)
	return l
}

// Attach subscribes c and registers its detach on c's teardown.
func (l *ResizeListeners) Attach(c *Controller) {
	l.ctrls = append(l.ctrls, c)
	c.OnTeardown(func() { l.detach(c) })
}

// Len returns the number of attached controllers.
func (l *ResizeListeners) Len() int { return len(l.ctrls) }

// Trigger reports a resize event at nowMs.
func (l *ResizeListeners) Trigger(nowMs float64) { l.throttle.Trigger(nowMs) }

// Poll runs a due trailing resize.
func (l *ResizeListeners) Poll(nowMs float64) { l.throttle.Poll(nowMs) }

func (l *ResizeListeners) detach(c *Controller) {
	for i, other := range l.ctrls {
		if other == c {
			l.ctrls = append(l.ctrls[:i], l.ctrls[i+1:]...)
			return
		}
	}
}

func (l *ResizeListeners) apply() {
	width, height, dpr := l.size()
	if width <= 0 || height <= 0 {
		return
	}
	for _, c := range l.ctrls {
		if err := c.Resize(width, height, dpr); err != nil {
			l.logger.Warn("resize_failed", "animation", c.Name(), "error", err)
		}
	}
}
