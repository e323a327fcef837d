// Package scene binds simulations, renderers and drawing surfaces into
// animators that a lifecycle controller can drive.
package scene

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand"

	"github.com/pthm-cable/backdrop/animation"
	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/renderer"
	"github.com/pthm-cable/backdrop/systems"
	"github.com/pthm-cable/backdrop/telemetry"
)

// Scene names as used in config and on the command line.
const (
	FlowFieldName  = "flowfield"
	GridName       = "grid"
	TypographyName = "typography"
)

// Names lists every known scene, bottom layer first.
var Names = []string{FlowFieldName, GridName, TypographyName}

// ErrUnknownScene is returned for a name that is not in Names.
var ErrUnknownScene = errors.New("unknown scene")

// SurfaceFactory creates a drawing surface for a scene.
type SurfaceFactory func(width, height, dpr float64) (renderer.Surface, error)

// Env is what a host provides to build scenes.
type Env struct {
	Config *config.Config
	Seed   int64

	// Initial logical size and device pixel ratio
	Width, Height, DPR float64

	NewSurface SurfaceFactory
}

// Scene is an animator with its own surface and pointer.
type Scene interface {
	animation.Animator
	Name() string
	Surface() renderer.Surface
	// Pointer returns the scene's cursor state, or nil if it ignores the cursor.
	Pointer() *systems.Pointer
	// SetPerf attaches a frame timing collector. Nil detaches.
	SetPerf(p *telemetry.PerfCollector)
}

// New builds the named scene. A host without a usable surface yields an
// error wrapping renderer.ErrNoSurface.
func New(name string, env Env) (Scene, error) {
	if env.NewSurface == nil {
		return nil, fmt.Errorf("scene %s: %w", name, renderer.ErrNoSurface)
	}

	var build func(Env, renderer.Surface) Scene
	switch name {
	case FlowFieldName:
		build = newFlowScene
	case GridName:
		build = newGridScene
	case TypographyName:
		build = newTypographyScene
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownScene, name)
	}

	surface, err := env.NewSurface(env.Width, env.Height, env.DPR)
	if err != nil {
		return nil, fmt.Errorf("scene %s: %w", name, err)
	}
	return build(env, surface), nil
}

// Build creates every scene enabled in the config, bottom layer first.
// Scenes that cannot be created are logged and skipped; they are inert.
func Build(env Env, logger *slog.Logger) []Scene {
	if logger == nil {
		logger = slog.Default()
	}
	var out []Scene
	for _, name := range Names {
		if !env.Config.Derived.SceneEnabled[name] {
			continue
		}
		s, err := New(name, env)
		if err != nil {
			logger.Warn("scene_disabled", "scene", name, "error", err)
			continue
		}
		out = append(out, s)
	}
	for _, name := range env.Config.Scenes {
		if !known(name) {
			logger.Warn("scene_disabled", "scene", name, "error", ErrUnknownScene)
		}
	}
	return out
}

func known(name string) bool {
	for _, n := range Names {
		if n == name {
			return true
		}
	}
	return false
}

// rngFor derives an independent random stream per scene from the run seed.
func rngFor(seed int64, name string) *rand.Rand {
	var h int64
	for _, c := range name {
		h = h*31 + int64(c)
	}
	return rand.New(rand.NewSource(seed ^ h))
}

// releaseSurface frees whatever the surface holds.
func releaseSurface(s renderer.Surface) {
	switch v := s.(type) {
	case interface{ Unload() }:
		v.Unload()
	case io.Closer:
		if err := v.Close(); err != nil {
			slog.Warn("surface_close_failed", "error", err)
		}
	}
}

// resizeSurface applies a size to the surface, logging instead of failing:
// a zero-size window keeps the previous backing store.
func resizeSurface(name string, s renderer.Surface, width, height, dpr float64) bool {
	if err := s.Resize(width, height, dpr); err != nil {
		slog.Warn("surface_resize_skipped", "scene", name, "width", width, "height", height, "error", err)
		return false
	}
	return true
}

// paint runs draw between BeginFrame and EndFrame.
func paint(s renderer.Surface, draw func() error) error {
	s.BeginFrame()
	err := draw()
	if endErr := s.EndFrame(); err == nil {
		err = endErr
	}
	return err
}
