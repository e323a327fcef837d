package animation

import (
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"
)

// Lifecycle errors.
var (
	ErrTornDown    = errors.New("animation torn down")
	ErrNotSized    = errors.New("animation not sized")
	ErrInvalidSize = errors.New("invalid canvas size")
)

// State is a lifecycle state of a Controller.
type State int

const (
	StateUninitialized State = iota
	StateSized
	StateRunning
	StatePaused
	StateHalted // a frame faulted; no further frames are scheduled
	StateTornDown
)

func (s State) String() string {
	switch s {
	case StateUninitialized:
		return "uninitialized"
	case StateSized:
		return "sized"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	case StateHalted:
		return "halted"
	case StateTornDown:
		return "torn_down"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Animator is the renderer side of the lifecycle.
type Animator interface {
	// Resize applies a new logical canvas size and device pixel ratio.
	Resize(width, height, dpr float64)
	// Resume resets the animator's time baseline; nothing is simulated for the gap.
	Resume(nowMs float64)
	// Frame computes and paints one frame.
	Frame(nowMs float64) error
	// Teardown releases per-instance state.
	Teardown()
}

// Size is a canvas size in logical pixels plus its backing-store scale.
type Size struct {
	Width, Height float64
	DPR           float64
}

// Backing returns the device-pixel size of the canvas backing store.
func (s Size) Backing() (width, height int) {
	return int(math.Round(s.Width * s.DPR)), int(math.Round(s.Height * s.DPR))
}

// FrameHook observes completed frames.
type FrameHook func(nowMs float64, took time.Duration)

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets the controller's logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(c *Controller) { c.logger = l }
}

// WithFrameHook registers a hook run after every successful frame.
func WithFrameHook(h FrameHook) Option {
	return func(c *Controller) { c.hooks = append(c.hooks, h) }
}

// Controller runs one Animator through the frame lifecycle:
//
//	uninitialized -> sized -> running <-> paused -> torn_down
//
// A faulting frame moves any running controller to halted. All methods must
// be called from the thread that runs the scheduler's callbacks.
type Controller struct {
	name     string
	animator Animator
	sched    Scheduler
	logger   *slog.Logger
	hooks    []FrameHook

	state   State
	visible bool
	size    Size
	frameID FrameID
	frames  uint64
	fault   error
	detach  []func()
}

// NewController creates an uninitialized controller.
func NewController(name string, animator Animator, sched Scheduler, opts ...Option) *Controller {
	c := &Controller{
		name:     name,
		animator: animator,
		sched:    sched,
		logger:   slog.Default(),
		visible:  true,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With("animation", name)
	return c
}

// Name returns the controller's name.
func (c *Controller) Name() string { return c.name }

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.state }

// Size returns the last applied canvas size.
func (c *Controller) Size() Size { return c.size }

// Frames returns the number of frames completed successfully.
func (c *Controller) Frames() uint64 { return c.frames }

// Fault returns the error that halted the controller, if any.
func (c *Controller) Fault() error { return c.fault }

// OnTeardown registers fn to run during Teardown, e.g. to detach an event source.
func (c *Controller) OnTeardown(fn func()) {
	c.detach = append(c.detach, fn)
}

// Resize applies a new canvas size. A dpr <= 0 is treated as 1.
func (c *Controller) Resize(width, height, dpr float64) error {
	if c.state == StateTornDown {
		return ErrTornDown
	}
	if math.IsNaN(width) || math.IsNaN(height) || width < 0 || height < 0 {
		return fmt.Errorf("%w: %vx%v", ErrInvalidSize, width, height)
	}
	if dpr <= 0 || math.IsNaN(dpr) {
		dpr = 1
	}

	c.size = Size{Width: width, Height: height, DPR: dpr}
	c.animator.Resize(width, height, dpr)

	if c.state == StateUninitialized {
		c.transition(StateSized)
	}
	return nil
}

// Start begins animating. The controller must have been sized.
// Starting while hidden enters the paused state instead.
func (c *Controller) Start(nowMs float64) error {
	switch c.state {
	case StateUninitialized:
		return ErrNotSized
	case StateTornDown:
		return ErrTornDown
	case StateSized:
	default:
		// Already started (running, paused or halted)
		return nil
	}

	c.animator.Resume(nowMs)
	if !c.visible {
		c.transition(StatePaused)
		return nil
	}
	c.transition(StateRunning)
	c.schedule()
	return nil
}

// SetVisible reports a page visibility change.
// Hiding stops frame scheduling; showing resets the time baseline and resumes.
func (c *Controller) SetVisible(visible bool, nowMs float64) {
	if c.visible == visible {
		return
	}
	c.visible = visible

	switch {
	case !visible && c.state == StateRunning:
		c.cancel()
		c.transition(StatePaused)
	case visible && c.state == StatePaused:
		c.animator.Resume(nowMs)
		c.transition(StateRunning)
		c.schedule()
	}
}

// Visible reports the last visibility passed to SetVisible (true initially).
func (c *Controller) Visible() bool { return c.visible }

// Teardown cancels the pending frame, runs detach hooks and releases the animator.
// Teardown is idempotent.
func (c *Controller) Teardown() {
	if c.state == StateTornDown {
		return
	}
	c.cancel()
	for _, fn := range c.detach {
		fn()
	}
	c.detach = nil
	c.animator.Teardown()
	c.transition(StateTornDown)
}

func (c *Controller) schedule() {
	c.frameID = c.sched.ScheduleFrame(c.tick)
}

func (c *Controller) cancel() {
	if c.frameID != 0 {
		c.sched.Cancel(c.frameID)
		c.frameID = 0
	}
}

// tick is the frame callback.
func (c *Controller) tick(nowMs float64) {
	c.frameID = 0
	// Cancellation is cooperative: hidden or torn-down controllers drop the frame.
	if c.state != StateRunning {
		return
	}

	start := time.Now()
	if err := c.runFrame(nowMs); err != nil {
		c.fault = err
		c.logger.Error("frame_fault",
			"error", err,
			"frame", c.frames,
			"now_ms", nowMs,
		)
		c.transition(StateHalted)
		return
	}
	c.frames++

	took := time.Since(start)
	for _, h := range c.hooks {
		h(nowMs, took)
	}

	c.schedule()
}

// runFrame converts a panicking frame into an error.
func (c *Controller) runFrame(nowMs float64) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("frame panicked: %v", r)
		}
	}()
	return c.animator.Frame(nowMs)
}

func (c *Controller) transition(to State) {
	if c.state == to {
		return
	}
	c.logger.Debug("lifecycle_transition", "from", c.state.String(), "to", to.String())
	c.state = to
}
