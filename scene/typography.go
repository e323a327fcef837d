package scene

import (
	"github.com/pthm-cable/backdrop/renderer"
	"github.com/pthm-cable/backdrop/systems"
	"github.com/pthm-cable/backdrop/telemetry"
)

// TypographyScene draws the drifting word layer.
type TypographyScene struct {
	typo    *systems.Typography
	painter *renderer.TypographyRenderer
	surface renderer.Surface
	perf    *telemetry.PerfCollector
}

func newTypographyScene(env Env, surface renderer.Surface) Scene {
	cfg := env.Config
	wine := systems.ThemeColor("theme.accent_wine", cfg.Theme.AccentWine, systems.FallbackWine)
	steel := systems.ThemeColor("theme.accent_steel", cfg.Theme.AccentSteel, systems.FallbackSteel)

	return &TypographyScene{
		typo:    systems.NewTypography(cfg.Typography, rngFor(env.Seed, TypographyName)),
		painter: renderer.NewTypographyRenderer(systems.NewGridPalette(steel).Soft, wine, float64(cfg.Typography.FontSize)),
		surface: surface,
	}
}

// Name implements Scene.
func (s *TypographyScene) Name() string { return TypographyName }

// Surface implements Scene.
func (s *TypographyScene) Surface() renderer.Surface { return s.surface }

// Pointer returns nil: the word layer ignores the cursor.
func (s *TypographyScene) Pointer() *systems.Pointer { return nil }

// SetPerf implements Scene.
func (s *TypographyScene) SetPerf(p *telemetry.PerfCollector) { s.perf = p }

// Typography exposes the layout for inspection.
func (s *TypographyScene) Typography() *systems.Typography { return s.typo }

// Resize reallocates the surface. Word positions are relative, so the layout is kept.
func (s *TypographyScene) Resize(width, height, dpr float64) {
	resizeSurface(TypographyName, s.surface, width, height, dpr)
}

// Resume sets the time baseline so the words do not jump after a pause.
func (s *TypographyScene) Resume(nowMs float64) {
	s.typo.ResetClock(nowMs)
}

// Frame advances the drift clock and redraws the words.
func (s *TypographyScene) Frame(nowMs float64) error {
	s.perf.StartFrame()
	defer s.perf.EndFrame()

	s.perf.StartPhase(telemetry.PhaseSimulate)
	s.typo.Step(nowMs)

	s.perf.StartPhase(telemetry.PhasePaint)
	return paint(s.surface, func() error {
		s.painter.Draw(s.surface, s.typo)
		return nil
	})
}

// Teardown releases the surface.
func (s *TypographyScene) Teardown() {
	releaseSurface(s.surface)
}
