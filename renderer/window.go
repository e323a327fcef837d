package renderer

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/backdrop/systems"
)

// WindowSurface is a Surface backed by a raylib render texture.
// The texture persists between frames, which is what lets trails accumulate.
// It must be used on the thread that owns the raylib window.
type WindowSurface struct {
	target        rl.RenderTexture2D
	loaded        bool
	width, height float64
	dpr           float64
}

// NewWindowSurface allocates a render texture. The window must be open.
func NewWindowSurface(width, height, dpr float64) (*WindowSurface, error) {
	if !rl.IsWindowReady() {
		return nil, fmt.Errorf("window not ready: %w", ErrNoSurface)
	}
	s := &WindowSurface{}
	if err := s.Resize(width, height, dpr); err != nil {
		return nil, err
	}
	return s, nil
}

// Size returns the logical size.
func (s *WindowSurface) Size() (width, height float64) {
	return s.width, s.height
}

// Resize reallocates the render texture at width*dpr x height*dpr.
func (s *WindowSurface) Resize(width, height, dpr float64) error {
	if dpr <= 0 {
		dpr = 1
	}
	bw := int32(math.Round(width * dpr))
	bh := int32(math.Round(height * dpr))
	if bw <= 0 || bh <= 0 {
		return fmt.Errorf("render texture %vx%v at dpr %v: %w", width, height, dpr, ErrNoSurface)
	}

	s.Unload()
	s.target = rl.LoadRenderTexture(bw, bh)
	s.loaded = true
	s.width, s.height, s.dpr = width, height, dpr

	rl.BeginTextureMode(s.target)
	rl.ClearBackground(rl.Blank)
	rl.EndTextureMode()
	return nil
}

// BeginFrame redirects raylib drawing into the texture.
func (s *WindowSurface) BeginFrame() {
	rl.BeginTextureMode(s.target)
}

// EndFrame restores drawing to the screen.
func (s *WindowSurface) EndFrame() error {
	rl.EndTextureMode()
	return nil
}

// Clear makes every pixel transparent.
func (s *WindowSurface) Clear() {
	rl.ClearBackground(rl.Blank)
}

// Fill composites a translucent colour over the whole texture.
func (s *WindowSurface) Fill(c systems.RGB, alpha float64) error {
	rl.DrawRectangle(0, 0, s.target.Texture.Width, s.target.Texture.Height, toColor(c, alpha))
	return nil
}

// StrokeSegment draws a line; ends are capped with discs once thick enough to show.
func (s *WindowSurface) StrokeSegment(x0, y0, x1, y1 float64, st Stroke) error {
	col := toColor(st.Color, st.Alpha)
	thick := float32(st.Width * s.dpr)
	a := s.vec(x0, y0)
	b := s.vec(x1, y1)
	rl.DrawLineEx(a, b, thick, col)
	if thick >= 2 {
		rl.DrawCircleV(a, thick/2, col)
		rl.DrawCircleV(b, thick/2, col)
	}
	return nil
}

// StrokePolyline draws connected segments.
func (s *WindowSurface) StrokePolyline(pts []systems.Point, st Stroke) error {
	if len(pts) < 2 {
		return nil
	}
	col := toColor(st.Color, st.Alpha)
	thick := float32(st.Width * s.dpr)
	prev := s.vec(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		next := s.vec(p.X, p.Y)
		rl.DrawLineEx(prev, next, thick, col)
		prev = next
	}
	return nil
}

// Text draws s with raylib's default font.
func (s *WindowSurface) Text(str string, x, y, size float64, c systems.RGB, alpha float64) {
	rl.DrawText(str, int32(x*s.dpr), int32(y*s.dpr), int32(size*s.dpr), toColor(c, alpha))
}

// Draw blits the texture onto the current target at dst.
// Render textures are stored bottom-up, hence the negative source height.
func (s *WindowSurface) Draw(dst rl.Rectangle) {
	tex := s.target.Texture
	src := rl.Rectangle{X: 0, Y: 0, Width: float32(tex.Width), Height: -float32(tex.Height)}
	rl.DrawTexturePro(tex, src, dst, rl.Vector2{}, 0, rl.White)
}

// Unload frees the render texture.
func (s *WindowSurface) Unload() {
	if s.loaded {
		rl.UnloadRenderTexture(s.target)
		s.loaded = false
	}
}

func (s *WindowSurface) vec(x, y float64) rl.Vector2 {
	return rl.Vector2{X: float32(x * s.dpr), Y: float32(y * s.dpr)}
}

func toColor(c systems.RGB, alpha float64) rl.Color {
	return rl.Color{R: c.R, G: c.G, B: c.B, A: uint8(math.Round(clampAlpha(alpha) * 255))}
}
