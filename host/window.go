package host

import (
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/backdrop/animation"
	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/renderer"
	"github.com/pthm-cable/backdrop/scene"
	"github.com/pthm-cable/backdrop/systems"
	"github.com/pthm-cable/backdrop/telemetry"
	"github.com/pthm-cable/backdrop/ui"
)

const legend = "[H] hud  [C] controls  [P] hide page  [R] reseed  [Esc] quit"

// WindowOptions configures the live window.
type WindowOptions struct {
	Config *config.Config
	Seed   int64
	Title  string

	Output *telemetry.OutputManager // optional perf.csv output
	Logger *slog.Logger
}

// Window runs scenes in a raylib window. The window is the page: its client
// area is the canvas, minimising hides the page and closing unloads it.
// All methods run on the thread that opened the window.
type Window struct {
	opts   WindowOptions
	cfg    *config.Config
	logger *slog.Logger

	sched  *animation.ManualScheduler
	resize *animation.ResizeListeners
	live   []*liveScene

	width, height float64
	dpr           float64
	pageHidden    bool
	bg            rl.Color

	hud      *ui.HUD
	controls *ui.Controls
}

// liveScene is a scene attached to the window.
type liveScene struct {
	scene  scene.Scene
	ctrl   *animation.Controller
	perf   *telemetry.PerfCollector
	shown  bool // layer toggle from the control strip
	logged uint64
}

// RunWindow opens the window and blocks until it is closed.
func RunWindow(opts WindowOptions) error {
	cfg := opts.Config
	title := opts.Title
	if title == "" {
		title = "backdrop"
	}

	if cfg.Screen.Resizable {
		rl.SetConfigFlags(rl.FlagWindowResizable)
	}
	rl.InitWindow(int32(cfg.Screen.Width), int32(cfg.Screen.Height), title)
	defer rl.CloseWindow()
	rl.SetTargetFPS(int32(cfg.Screen.TargetFPS))
	rl.SetExitKey(rl.KeyEscape)

	w, err := newWindow(opts)
	if err != nil {
		return err
	}
	defer w.unload()

	for !rl.WindowShouldClose() {
		w.update()
		w.draw()
	}
	return nil
}

func newWindow(opts WindowOptions) (*Window, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	bg := systems.ThemeColor("theme.background", opts.Config.Theme.Background, systems.FallbackInk)

	w := &Window{
		opts:   opts,
		cfg:    opts.Config,
		logger: logger,
		sched:  animation.NewManualScheduler(),
		width:  float64(rl.GetScreenWidth()),
		height: float64(rl.GetScreenHeight()),
		dpr:    opts.Config.Screen.DPR,
		bg:     rl.Color{R: bg.R, G: bg.G, B: bg.B, A: 255},
		hud:    ui.NewHUD(),
	}
	if w.dpr <= 0 {
		w.dpr = float64(rl.GetWindowScaleDPI().X)
	}
	w.resize = animation.NewResizeListeners(float64(opts.Config.Throttle.ResizeMs), w.currentSize, logger)

	if err := w.attach(opts.Seed); err != nil {
		return nil, err
	}
	names := make([]string, len(w.live))
	for i, ls := range w.live {
		names[i] = ls.scene.Name()
	}
	w.controls = ui.NewControls(names)
	return w, nil
}

// attach builds and starts every enabled scene.
func (w *Window) attach(seed int64) error {
	env := scene.Env{
		Config: w.cfg,
		Seed:   seed,
		Width:  w.width,
		Height: w.height,
		DPR:    w.dpr,
		NewSurface: func(width, height, dpr float64) (renderer.Surface, error) {
			return renderer.NewWindowSurface(width, height, dpr)
		},
	}
	scenes := scene.Build(env, w.logger)
	if len(scenes) == 0 {
		return ErrNoScenes
	}

	now := w.now()
	for _, s := range scenes {
		ls := &liveScene{scene: s, perf: telemetry.NewPerfCollector(w.cfg.Telemetry.PerfWindow), shown: true}
		s.SetPerf(ls.perf)
		ls.ctrl = animation.NewController(s.Name(), s, w.sched, animation.WithLogger(w.logger))
		w.resize.Attach(ls.ctrl)
		if err := ls.ctrl.Resize(w.width, w.height, w.dpr); err != nil {
			return fmt.Errorf("sizing %s: %w", s.Name(), err)
		}
		ls.ctrl.SetVisible(!w.pageHidden, now)
		if err := ls.ctrl.Start(now); err != nil {
			return fmt.Errorf("starting %s: %w", s.Name(), err)
		}
		w.live = append(w.live, ls)
	}
	w.logger.Info("scenes_attached", "count", len(w.live), "seed", seed, "width", w.width, "height", w.height, "dpr", w.dpr)
	return nil
}

// now is the window clock in milliseconds.
func (w *Window) now() float64 {
	return rl.GetTime() * 1000
}

func (w *Window) update() {
	now := w.now()

	if rl.IsWindowResized() {
		w.resize.Trigger(now)
	}
	w.resize.Poll(now)

	w.handleKeys(now)
	w.updateVisibility(now)
	w.updatePointer()

	w.sched.Advance(now)
	w.logPerf()
}

// currentSize reads the client area for a throttled resize.
func (w *Window) currentSize() (width, height, dpr float64) {
	width = float64(rl.GetScreenWidth())
	height = float64(rl.GetScreenHeight())
	if width > 0 && height > 0 {
		w.width, w.height = width, height
	}
	return width, height, w.dpr
}

func (w *Window) handleKeys(now float64) {
	switch {
	case rl.IsKeyPressed(rl.KeyH):
		w.hud.Toggle()
	case rl.IsKeyPressed(rl.KeyC):
		w.controls.Toggle()
	case rl.IsKeyPressed(rl.KeyP):
		w.controls.SetHidden(!w.controls.Hidden())
	case rl.IsKeyPressed(rl.KeyR):
		w.reseed(now)
	}
}

// updateVisibility maps window state and layer toggles onto controller visibility.
func (w *Window) updateVisibility(now float64) {
	w.pageHidden = rl.IsWindowMinimized() || rl.IsWindowHidden() || w.controls.Hidden()
	for _, ls := range w.live {
		ls.ctrl.SetVisible(!w.pageHidden && ls.shown, now)
	}
}

func (w *Window) updatePointer() {
	inside := rl.IsCursorOnScreen()
	pos := rl.GetMousePosition()
	for _, ls := range w.live {
		p := ls.scene.Pointer()
		if p == nil {
			continue
		}
		if inside {
			p.Move(float64(pos.X), float64(pos.Y))
		} else if p.Inside {
			p.Leave()
		}
	}
}

func (w *Window) reseed(now float64) {
	seed := rand.Int63()
	for _, ls := range w.live {
		ls.ctrl.Teardown()
	}
	w.live = nil
	if err := w.attach(seed); err != nil {
		w.logger.Error("reseed_failed", "error", err)
		return
	}
	// Keep the layer toggles
	for _, ls := range w.live {
		ls.shown = w.controls.Enabled(ls.scene.Name())
	}
	w.updateVisibility(now)
}

func (w *Window) logPerf() {
	every := uint64(w.cfg.Telemetry.LogEvery)
	if every == 0 {
		return
	}
	for _, ls := range w.live {
		frames := ls.perf.Frames()
		if frames == 0 || frames%every != 0 || frames == ls.logged {
			continue
		}
		ls.logged = frames
		stats := ls.perf.Stats()
		stats.LogStats(ls.scene.Name())
		if err := w.opts.Output.WritePerf(stats.ToCSV(ls.scene.Name(), frames)); err != nil {
			w.logger.Warn("perf_write_failed", "error", err)
		}
	}
}

func (w *Window) draw() {
	sw, sh := rl.GetScreenWidth(), rl.GetScreenHeight()
	dst := rl.Rectangle{X: 0, Y: 0, Width: float32(sw), Height: float32(sh)}

	rl.BeginDrawing()
	rl.ClearBackground(w.bg)
	for _, ls := range w.live {
		if !ls.shown {
			continue
		}
		if ws, ok := ls.scene.Surface().(*renderer.WindowSurface); ok {
			start := time.Now()
			ws.Draw(dst)
			if ls.ctrl.State() == animation.StateRunning {
				ls.perf.RecordPresent(time.Since(start))
			}
		}
	}

	w.hud.Draw(w.hudData())
	w.hud.DrawLegend(int32(sh), legend)
	ev := w.controls.Draw(int32(sw), int32(sh))
	rl.EndDrawing()

	w.applyControls(ev)
}

func (w *Window) applyControls(ev ui.ControlEvent) {
	if ev.ToggledScene != "" {
		for _, ls := range w.live {
			if ls.scene.Name() == ev.ToggledScene {
				ls.shown = w.controls.Enabled(ev.ToggledScene)
			}
		}
	}
	if ev.ToggledHide {
		w.logger.Info("page_visibility", "hidden", w.controls.Hidden())
		w.updateVisibility(w.now())
	}
	if ev.Reseed {
		w.reseed(w.now())
	}
}

func (w *Window) hudData() ui.HUDData {
	data := ui.HUDData{
		Title:  "backdrop",
		FPS:    rl.GetFPS(),
		Width:  w.width,
		Height: w.height,
		DPR:    w.dpr,
		Hidden: w.pageHidden,
	}
	for _, ls := range w.live {
		stats := ls.perf.Stats()
		data.Scenes = append(data.Scenes, ui.SceneStatus{
			Name:   ls.scene.Name(),
			State:  ls.ctrl.State().String(),
			Frames: ls.ctrl.Frames(),
			Detail: Describe(ls.scene),
			MeanMs: stats.Frames.MeanMs,
			P95Ms:  stats.Frames.P95Ms,
			Fault:  ls.ctrl.Fault(),
		})
	}
	return data
}

// unload tears every scene down, as on page unload.
func (w *Window) unload() {
	for _, ls := range w.live {
		ls.ctrl.Teardown()
	}
	w.live = nil
}
