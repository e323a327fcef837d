// Package host drives scenes through their lifecycle controllers, either in a
// live raylib window or offscreen on a virtual clock.
package host

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/pthm-cable/backdrop/animation"
	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/renderer"
	"github.com/pthm-cable/backdrop/scene"
	"github.com/pthm-cable/backdrop/systems"
	"github.com/pthm-cable/backdrop/telemetry"
)

// ErrNoScenes is returned when no enabled scene could be created.
var ErrNoScenes = errors.New("no scenes enabled")

// OffscreenOptions configures an offscreen run.
type OffscreenOptions struct {
	Config *config.Config
	Seed   int64

	Width, Height, DPR float64

	Frames  int
	FrameMs float64 // 0 = Config.Derived.FrameMs

	// PNGDir receives composited frames; empty disables image output.
	PNGDir string
	// Every writes every Nth frame (0 or 1 = all). The last frame is always written.
	Every int

	Output *telemetry.OutputManager // optional CSV output
	Logger *slog.Logger
}

// SceneReport summarises one scene after a run.
type SceneReport struct {
	Name    string
	State   animation.State
	Frames  uint64
	Fault   error
	Stats   telemetry.PerfStats
	FrameMs []float64 // wall time per frame, in order
	Detail  string
}

// OffscreenResult is the outcome of RunOffscreen.
type OffscreenResult struct {
	Frames int // virtual frames advanced
	Scenes []SceneReport
	Images []string
}

// RunOffscreen renders opts.Frames frames into raster surfaces.
// Cancelling ctx stops the run between frames; the partial result is returned
// together with the context error.
func RunOffscreen(ctx context.Context, opts OffscreenOptions) (*OffscreenResult, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	frameMs := opts.FrameMs
	if frameMs <= 0 {
		frameMs = opts.Config.Derived.FrameMs
	}
	if opts.PNGDir != "" {
		if err := os.MkdirAll(opts.PNGDir, 0755); err != nil {
			return nil, fmt.Errorf("creating png directory: %w", err)
		}
	}

	env := scene.Env{
		Config: opts.Config,
		Seed:   opts.Seed,
		Width:  opts.Width,
		Height: opts.Height,
		DPR:    opts.DPR,
		NewSurface: func(w, h, dpr float64) (renderer.Surface, error) {
			return renderer.NewRasterSurface(w, h, dpr)
		},
	}
	scenes := scene.Build(env, logger)
	if len(scenes) == 0 {
		return nil, ErrNoScenes
	}

	sched := animation.NewManualScheduler()
	runs := make([]*sceneRun, 0, len(scenes))
	for _, s := range scenes {
		run, err := newSceneRun(s, sched, opts, logger)
		if err != nil {
			teardownAll(runs)
			return nil, err
		}
		runs = append(runs, run)
	}
	defer teardownAll(runs)

	bg := systems.ThemeColor("theme.background", opts.Config.Theme.Background, systems.FallbackInk)
	result := &OffscreenResult{}

	var runErr error
	for i := 1; i <= opts.Frames; i++ {
		if err := ctx.Err(); err != nil {
			runErr = fmt.Errorf("offscreen run stopped at frame %d: %w", i, err)
			break
		}
		sched.Advance(float64(i) * frameMs)
		result.Frames = i

		if opts.PNGDir != "" && (opts.Every <= 1 || i%opts.Every == 0 || i == opts.Frames) {
			path := filepath.Join(opts.PNGDir, fmt.Sprintf("frame_%05d.png", i))
			if err := writeComposite(path, bg, runs); err != nil {
				runErr = err
				break
			}
			result.Images = append(result.Images, path)
		}
	}

	for _, run := range runs {
		report := run.report()
		result.Scenes = append(result.Scenes, report)
		if err := opts.Output.WritePerf(report.Stats.ToCSV(report.Name, report.Frames)); err != nil {
			logger.Warn("perf_write_failed", "scene", report.Name, "error", err)
		}
		if err := opts.Output.WriteFrames(run.records); err != nil {
			logger.Warn("frames_write_failed", "scene", report.Name, "error", err)
		}
	}
	return result, runErr
}

// sceneRun is one scene with its controller and timing.
type sceneRun struct {
	scene   scene.Scene
	ctrl    *animation.Controller
	perf    *telemetry.PerfCollector
	frameMs []float64
	records []telemetry.FrameRecord
}

func newSceneRun(s scene.Scene, sched animation.Scheduler, opts OffscreenOptions, logger *slog.Logger) (*sceneRun, error) {
	window := opts.Frames
	if window < 1 {
		window = 1
	}
	run := &sceneRun{scene: s, perf: telemetry.NewPerfCollector(window)}
	s.SetPerf(run.perf)

	run.ctrl = animation.NewController(s.Name(), s, sched,
		animation.WithLogger(logger),
		animation.WithFrameHook(func(nowMs float64, took time.Duration) {
			ms := float64(took) / float64(time.Millisecond)
			run.frameMs = append(run.frameMs, ms)
			if opts.Output != nil {
				run.records = append(run.records, telemetry.FrameRecord{
					Scene:  s.Name(),
					Frame:  uint64(len(run.frameMs)),
					NowMs:  nowMs,
					TookUS: took.Microseconds(),
				})
			}
		}),
	)

	if err := run.ctrl.Resize(opts.Width, opts.Height, opts.DPR); err != nil {
		return nil, fmt.Errorf("sizing %s: %w", s.Name(), err)
	}
	if err := run.ctrl.Start(0); err != nil {
		return nil, fmt.Errorf("starting %s: %w", s.Name(), err)
	}
	return run, nil
}

func (r *sceneRun) report() SceneReport {
	return SceneReport{
		Name:    r.scene.Name(),
		State:   r.ctrl.State(),
		Frames:  r.ctrl.Frames(),
		Fault:   r.ctrl.Fault(),
		Stats:   r.perf.Stats(),
		FrameMs: r.frameMs,
		Detail:  Describe(r.scene),
	}
}

// Describe returns a short scene-specific status string.
func Describe(s scene.Scene) string {
	switch v := s.(type) {
	case *scene.FlowScene:
		return fmt.Sprintf("%d particles", len(v.Field().Particles))
	case *scene.GridScene:
		cols, rows := v.Grid().Dimensions()
		return fmt.Sprintf("%dx%d grid", cols, rows)
	case *scene.TypographyScene:
		return fmt.Sprintf("%d words", len(v.Typography().Words))
	default:
		return ""
	}
}

func writeComposite(path string, bg systems.RGB, runs []*sceneRun) error {
	layers := make([]*renderer.RasterSurface, 0, len(runs))
	for _, run := range runs {
		if rs, ok := run.scene.Surface().(*renderer.RasterSurface); ok {
			layers = append(layers, rs)
		}
	}
	out, err := renderer.Composite(bg, layers...)
	if err != nil {
		return fmt.Errorf("compositing %s: %w", path, err)
	}
	defer out.Close()
	if err := out.SavePNG(path); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func teardownAll(runs []*sceneRun) {
	for _, run := range runs {
		run.ctrl.Teardown()
	}
}
