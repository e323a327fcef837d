package scene

import (
	"github.com/pthm-cable/backdrop/renderer"
	"github.com/pthm-cable/backdrop/systems"
	"github.com/pthm-cable/backdrop/telemetry"
)

// GridScene animates the deforming mesh. It keeps no time state, so Resume
// has nothing to reset: every frame is a pure function of the frame time.
type GridScene struct {
	grid    *systems.Grid
	painter *renderer.GridRenderer
	surface renderer.Surface
	perf    *telemetry.PerfCollector
}

func newGridScene(env Env, surface renderer.Surface) Scene {
	cfg := env.Config
	steel := systems.ThemeColor("theme.accent_steel", cfg.Theme.AccentSteel, systems.FallbackSteel)

	return &GridScene{
		grid:    systems.NewGrid(cfg.Grid, cfg.Screen.MobileMax),
		painter: renderer.NewGridRenderer(systems.NewGridPalette(steel), cfg.Grid.TimeScale),
		surface: surface,
	}
}

// Name implements Scene.
func (s *GridScene) Name() string { return GridName }

// Surface implements Scene.
func (s *GridScene) Surface() renderer.Surface { return s.surface }

// Pointer implements Scene.
func (s *GridScene) Pointer() *systems.Pointer { return s.grid.Pointer }

// SetPerf implements Scene.
func (s *GridScene) SetPerf(p *telemetry.PerfCollector) { s.perf = p }

// Grid exposes the simulation for inspection.
func (s *GridScene) Grid() *systems.Grid { return s.grid }

// Resize recomputes the grid dimensions.
func (s *GridScene) Resize(width, height, dpr float64) {
	if !resizeSurface(GridName, s.surface, width, height, dpr) {
		return
	}
	s.grid.Resize(width, height)
}

// Resume implements animation.Animator.
func (s *GridScene) Resume(float64) {}

// Frame displaces the mesh for nowMs and strokes it.
func (s *GridScene) Frame(nowMs float64) error {
	s.perf.StartFrame()
	defer s.perf.EndFrame()

	s.perf.StartPhase(telemetry.PhaseSimulate)
	points := s.grid.Points(nowMs)

	s.perf.StartPhase(telemetry.PhasePaint)
	return paint(s.surface, func() error {
		return s.painter.Draw(s.surface, points, nowMs)
	})
}

// Teardown releases the surface.
func (s *GridScene) Teardown() {
	releaseSurface(s.surface)
}
