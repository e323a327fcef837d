package animation

import (
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

// recordingAnimator records lifecycle calls for assertions.
type recordingAnimator struct {
	resizes  []Size
	resumes  []float64
	frames   []float64
	torndown bool
	failAt   int // 1-based frame index that returns an error (0 = never)
	panicAt  int
	frameErr error
}

func (a *recordingAnimator) Resize(width, height, dpr float64) {
	a.resizes = append(a.resizes, Size{Width: width, Height: height, DPR: dpr})
}

func (a *recordingAnimator) Resume(nowMs float64) {
	a.resumes = append(a.resumes, nowMs)
}

func (a *recordingAnimator) Frame(nowMs float64) error {
	a.frames = append(a.frames, nowMs)
	n := len(a.frames)
	if n == a.panicAt {
		panic("boom")
	}
	if n == a.failAt {
		return a.frameErr
	}
	return nil
}

func (a *recordingAnimator) Teardown() { a.torndown = true }

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestController(a Animator) (*Controller, *ManualScheduler) {
	sched := NewManualScheduler()
	return NewController("test", a, sched, WithLogger(quietLogger())), sched
}

func TestControllerLifecycle(t *testing.T) {
	a := &recordingAnimator{}
	c, sched := newTestController(a)

	if c.State() != StateUninitialized {
		t.Fatalf("expected uninitialized, got %v", c.State())
	}
	if err := c.Start(0); !errors.Is(err, ErrNotSized) {
		t.Fatalf("expected ErrNotSized, got %v", err)
	}

	if err := c.Resize(800, 600, 2); err != nil {
		t.Fatal(err)
	}
	if c.State() != StateSized {
		t.Fatalf("expected sized, got %v", c.State())
	}
	if w, h := c.Size().Backing(); w != 1600 || h != 1200 {
		t.Errorf("expected 1600x1200 backing store, got %dx%d", w, h)
	}

	if err := c.Start(100); err != nil {
		t.Fatal(err)
	}
	if c.State() != StateRunning {
		t.Fatalf("expected running, got %v", c.State())
	}

	for i := 1; i <= 5; i++ {
		sched.Advance(100 + float64(i)*16)
	}
	if len(a.frames) != 5 || c.Frames() != 5 {
		t.Fatalf("expected 5 frames, got %d (controller %d)", len(a.frames), c.Frames())
	}
	if sched.Pending() != 1 {
		t.Errorf("expected exactly one pending frame, got %d", sched.Pending())
	}

	detached := false
	c.OnTeardown(func() { detached = true })
	c.Teardown()

	if c.State() != StateTornDown {
		t.Errorf("expected torn_down, got %v", c.State())
	}
	if !a.torndown || !detached {
		t.Error("expected teardown to release the animator and run detach hooks")
	}
	if sched.Pending() != 0 {
		t.Errorf("expected pending frame cancelled, got %d", sched.Pending())
	}
	if err := c.Resize(10, 10, 1); !errors.Is(err, ErrTornDown) {
		t.Errorf("expected ErrTornDown on resize after teardown, got %v", err)
	}
	if err := c.Start(0); !errors.Is(err, ErrTornDown) {
		t.Errorf("expected ErrTornDown on start after teardown, got %v", err)
	}

	// Idempotent
	c.Teardown()
}

func TestControllerPauseResume(t *testing.T) {
	a := &recordingAnimator{}
	c, sched := newTestController(a)
	_ = c.Resize(800, 600, 1)
	_ = c.Start(0)

	sched.Advance(16)
	sched.Advance(32)

	c.SetVisible(false, 40)
	if c.State() != StatePaused {
		t.Fatalf("expected paused, got %v", c.State())
	}
	if sched.Pending() != 0 {
		t.Fatalf("expected no frames scheduled while hidden, got %d", sched.Pending())
	}

	// Five seconds of display ticks while hidden run nothing
	for now := 48.0; now < 5040; now += 16 {
		sched.Advance(now)
	}
	if len(a.frames) != 2 {
		t.Fatalf("expected no frames while hidden, got %d total", len(a.frames))
	}

	c.SetVisible(true, 5040)
	if c.State() != StateRunning {
		t.Fatalf("expected running after show, got %v", c.State())
	}
	if got := a.resumes[len(a.resumes)-1]; got != 5040 {
		t.Errorf("expected resume baseline 5040, got %v", got)
	}
	sched.Advance(5056)
	if len(a.frames) != 3 {
		t.Errorf("expected frames to resume, got %d", len(a.frames))
	}

	// Repeated visibility reports are ignored
	c.SetVisible(true, 5060)
	if len(a.resumes) != 2 {
		t.Errorf("expected 2 resumes, got %d", len(a.resumes))
	}
}

func TestControllerStartHidden(t *testing.T) {
	a := &recordingAnimator{}
	c, sched := newTestController(a)
	_ = c.Resize(300, 200, 1)
	c.SetVisible(false, 0)

	if err := c.Start(0); err != nil {
		t.Fatal(err)
	}
	if c.State() != StatePaused {
		t.Fatalf("expected paused start when hidden, got %v", c.State())
	}
	if sched.Pending() != 0 {
		t.Errorf("expected nothing scheduled, got %d", sched.Pending())
	}

	c.SetVisible(true, 50)
	sched.Advance(66)
	if len(a.frames) != 1 {
		t.Errorf("expected 1 frame after becoming visible, got %d", len(a.frames))
	}
}

func TestControllerHaltsOnError(t *testing.T) {
	frameErr := errors.New("paint failed")
	a := &recordingAnimator{failAt: 3, frameErr: frameErr}
	c, sched := newTestController(a)
	_ = c.Resize(800, 600, 1)
	_ = c.Start(0)

	for i := 1; i <= 10; i++ {
		sched.Advance(float64(i) * 16)
	}

	if c.State() != StateHalted {
		t.Fatalf("expected halted, got %v", c.State())
	}
	if len(a.frames) != 3 {
		t.Errorf("expected loop to stop after the faulting frame, got %d frames", len(a.frames))
	}
	if !errors.Is(c.Fault(), frameErr) {
		t.Errorf("expected fault %v, got %v", frameErr, c.Fault())
	}
	if c.Frames() != 2 {
		t.Errorf("expected 2 successful frames, got %d", c.Frames())
	}

	// Visibility changes do not revive a halted controller
	c.SetVisible(false, 200)
	c.SetVisible(true, 300)
	sched.Advance(316)
	if len(a.frames) != 3 || c.State() != StateHalted {
		t.Errorf("halted controller resumed: %d frames, state %v", len(a.frames), c.State())
	}
}

func TestControllerHaltsOnPanic(t *testing.T) {
	a := &recordingAnimator{panicAt: 1}
	c, sched := newTestController(a)
	_ = c.Resize(800, 600, 1)
	_ = c.Start(0)

	sched.Advance(16)
	sched.Advance(32)

	if c.State() != StateHalted {
		t.Fatalf("expected halted after panic, got %v", c.State())
	}
	if c.Fault() == nil {
		t.Error("expected fault to be recorded")
	}
	if sched.Pending() != 0 {
		t.Errorf("expected no frames after panic, got %d", sched.Pending())
	}
}

func TestControllerResizeWhileRunning(t *testing.T) {
	a := &recordingAnimator{}
	c, sched := newTestController(a)
	_ = c.Resize(800, 600, 1)
	_ = c.Start(0)
	sched.Advance(16)

	if err := c.Resize(1024, 768, 0); err != nil {
		t.Fatal(err)
	}
	if c.State() != StateRunning {
		t.Errorf("resize changed state to %v", c.State())
	}
	last := a.resizes[len(a.resizes)-1]
	if last.Width != 1024 || last.DPR != 1 {
		t.Errorf("unexpected resize %+v (dpr <= 0 should become 1)", last)
	}

	if err := c.Resize(-1, 10, 1); !errors.Is(err, ErrInvalidSize) {
		t.Errorf("expected ErrInvalidSize, got %v", err)
	}
}

func TestControllerFrameHook(t *testing.T) {
	a := &recordingAnimator{}
	var seen []float64
	sched := NewManualScheduler()
	c := NewController("hooked", a, sched,
		WithLogger(quietLogger()),
		WithFrameHook(func(nowMs float64, took time.Duration) {
			if took < 0 {
				t.Errorf("negative frame duration %v", took)
			}
			seen = append(seen, nowMs)
		}),
	)
	_ = c.Resize(100, 100, 1)
	_ = c.Start(0)
	sched.Advance(16)
	sched.Advance(32)

	if len(seen) != 2 || seen[1] != 32 {
		t.Errorf("expected hook at 16 and 32, got %v", seen)
	}
}

func TestStateString(t *testing.T) {
	if StateTornDown.String() != "torn_down" || StateHalted.String() != "halted" {
		t.Error("unexpected state names")
	}
	if State(99).String() != "state(99)" {
		t.Errorf("unexpected unknown state name %q", State(99).String())
	}
}
