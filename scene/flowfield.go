package scene

import (
	"fmt"
	"log/slog"

	"github.com/pthm-cable/backdrop/renderer"
	"github.com/pthm-cable/backdrop/systems"
	"github.com/pthm-cable/backdrop/telemetry"
)

// FlowScene animates the Perlin flow field with fading particle trails.
type FlowScene struct {
	field   *systems.FlowField
	painter *renderer.FlowRenderer
	surface renderer.Surface
	perf    *telemetry.PerfCollector
}

func newFlowScene(env Env, surface renderer.Surface) Scene {
	cfg := env.Config
	bg := systems.ThemeColor("theme.background", cfg.Theme.Background, systems.FallbackInk)

	rng := rngFor(env.Seed, FlowFieldName)
	noise := systems.NewPerlinNoise(rng.Int63())

	return &FlowScene{
		field:   systems.NewFlowField(cfg.FlowField, cfg.Screen.MobileMax, systems.ThemeFlowPalette(cfg.Theme), noise, rng),
		painter: renderer.NewFlowRenderer(bg, cfg.FlowField.TrailFade),
		surface: surface,
	}
}

// Name implements Scene.
func (s *FlowScene) Name() string { return FlowFieldName }

// Surface implements Scene.
func (s *FlowScene) Surface() renderer.Surface { return s.surface }

// Pointer implements Scene.
func (s *FlowScene) Pointer() *systems.Pointer { return s.field.Pointer }

// SetPerf implements Scene.
func (s *FlowScene) SetPerf(p *telemetry.PerfCollector) { s.perf = p }

// Field exposes the simulation for inspection.
func (s *FlowScene) Field() *systems.FlowField { return s.field }

// Resize rebuilds the particle pool and repaints the opaque background.
func (s *FlowScene) Resize(width, height, dpr float64) {
	if !resizeSurface(FlowFieldName, s.surface, width, height, dpr) {
		return
	}
	s.field.Resize(width, height)
	if err := paint(s.surface, func() error { return s.painter.Reset(s.surface) }); err != nil {
		// The next frame repaints over whatever is there.
		slog.Warn("background_reset_failed", "scene", FlowFieldName, "error", err)
	}
}

// Resume sets the time baseline so the hidden interval is skipped.
func (s *FlowScene) Resume(nowMs float64) {
	s.field.ResetClock(nowMs)
}

// Frame advances the particles and paints their latest segments.
func (s *FlowScene) Frame(nowMs float64) error {
	s.perf.StartFrame()
	defer s.perf.EndFrame()

	s.perf.StartPhase(telemetry.PhaseSimulate)
	if err := s.field.Step(nowMs); err != nil {
		return fmt.Errorf("flow step: %w", err)
	}

	s.perf.StartPhase(telemetry.PhasePaint)
	return paint(s.surface, func() error {
		return s.painter.Draw(s.surface, s.field.Particles)
	})
}

// Teardown drops the particles and releases the surface.
func (s *FlowScene) Teardown() {
	s.field.Clear()
	releaseSurface(s.surface)
}
