package renderer

import (
	"fmt"
	"image"
	"log/slog"
	"math"

	"github.com/gogpu/gg"
	"github.com/gogpu/gg/text"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/pthm-cable/backdrop/systems"
)

// RasterSurface is an offscreen Surface backed by a gg software context.
type RasterSurface struct {
	ctx           *gg.Context
	width, height float64

	font  *text.FontSource
	faces map[float64]text.Face
}

// NewRasterSurface creates a surface of width x height logical pixels.
func NewRasterSurface(width, height, dpr float64) (*RasterSurface, error) {
	s := &RasterSurface{faces: make(map[float64]text.Face)}
	if err := s.Resize(width, height, dpr); err != nil {
		return nil, err
	}
	return s, nil
}

// Size returns the logical size.
func (s *RasterSurface) Size() (width, height float64) {
	return s.width, s.height
}

// Resize reallocates the pixel buffer at width*dpr x height*dpr.
func (s *RasterSurface) Resize(width, height, dpr float64) error {
	if dpr <= 0 {
		dpr = 1
	}
	bw := int(math.Round(width * dpr))
	bh := int(math.Round(height * dpr))
	if bw <= 0 || bh <= 0 {
		return fmt.Errorf("raster %vx%v at dpr %v: %w", width, height, dpr, ErrNoSurface)
	}

	if s.ctx == nil {
		s.ctx = gg.NewContext(bw, bh)
	} else if err := s.ctx.Resize(bw, bh); err != nil {
		return fmt.Errorf("resize raster: %w", err)
	}
	s.ctx.Clear()
	s.ctx.Identity()
	s.ctx.Scale(dpr, dpr)
	s.ctx.SetLineCap(gg.LineCapRound)
	s.ctx.SetLineJoin(gg.LineJoinRound)

	s.width, s.height = width, height
	return nil
}

// BeginFrame is a no-op; the context is always drawable.
func (s *RasterSurface) BeginFrame() {}

// EndFrame flushes pending accelerated shapes into the pixel buffer.
func (s *RasterSurface) EndFrame() error {
	return s.ctx.FlushGPU()
}

// Clear makes every pixel transparent.
func (s *RasterSurface) Clear() {
	s.ctx.Clear()
}

// Fill composites a translucent colour over the whole surface.
func (s *RasterSurface) Fill(c systems.RGB, alpha float64) error {
	s.setColor(c, alpha)
	s.ctx.DrawRectangle(0, 0, s.width, s.height)
	if err := s.ctx.Fill(); err != nil {
		return fmt.Errorf("fill: %w", err)
	}
	return nil
}

// StrokeSegment draws a round-capped line.
func (s *RasterSurface) StrokeSegment(x0, y0, x1, y1 float64, st Stroke) error {
	s.setColor(st.Color, st.Alpha)
	s.ctx.SetLineWidth(st.Width)
	s.ctx.MoveTo(x0, y0)
	s.ctx.LineTo(x1, y1)
	if err := s.ctx.Stroke(); err != nil {
		return fmt.Errorf("stroke segment: %w", err)
	}
	return nil
}

// StrokePolyline draws connected segments as a single path.
func (s *RasterSurface) StrokePolyline(pts []systems.Point, st Stroke) error {
	if len(pts) < 2 {
		return nil
	}
	s.setColor(st.Color, st.Alpha)
	s.ctx.SetLineWidth(st.Width)
	s.ctx.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		s.ctx.LineTo(p.X, p.Y)
	}
	if err := s.ctx.Stroke(); err != nil {
		return fmt.Errorf("stroke polyline: %w", err)
	}
	return nil
}

// Text draws s with its top-left corner at (x, y) using Go Regular.
func (s *RasterSurface) Text(str string, x, y, size float64, c systems.RGB, alpha float64) {
	face := s.face(size)
	if face == nil {
		return
	}
	s.ctx.SetFont(face)
	s.setColor(c, alpha)
	s.ctx.DrawStringAnchored(str, x, y, 0, 1)
}

func (s *RasterSurface) face(size float64) text.Face {
	if f, ok := s.faces[size]; ok {
		return f
	}
	if s.font == nil {
		src, err := text.NewFontSource(goregular.TTF)
		if err != nil {
			slog.Warn("font_unavailable", "error", err)
			s.faces[size] = nil
			return nil
		}
		s.font = src
	}
	f := s.font.Face(size)
	s.faces[size] = f
	return f
}

func (s *RasterSurface) setColor(c systems.RGB, alpha float64) {
	s.ctx.SetRGBA(float64(c.R)/255, float64(c.G)/255, float64(c.B)/255, clampAlpha(alpha))
}

// Image returns the backing pixels.
func (s *RasterSurface) Image() image.Image {
	_ = s.ctx.FlushGPU()
	return s.ctx.Image()
}

// SavePNG writes the backing pixels to path.
func (s *RasterSurface) SavePNG(path string) error {
	return s.ctx.SavePNG(path)
}

// Close releases the context.
func (s *RasterSurface) Close() error {
	return s.ctx.Close()
}

// Composite flattens layers bottom to top over a solid background.
// All layers must share one backing size.
func Composite(bg systems.RGB, layers ...*RasterSurface) (*gg.Context, error) {
	if len(layers) == 0 {
		return nil, ErrNoSurface
	}
	w, h := layers[0].ctx.Width(), layers[0].ctx.Height()

	out := gg.NewContext(w, h)
	out.ClearWithColor(gg.RGBA2(float64(bg.R)/255, float64(bg.G)/255, float64(bg.B)/255, 1))
	for i, l := range layers {
		if l.ctx.Width() != w || l.ctx.Height() != h {
			return nil, fmt.Errorf("layer %d is %dx%d, want %dx%d", i, l.ctx.Width(), l.ctx.Height(), w, h)
		}
		out.DrawImage(gg.ImageBufFromImage(l.Image()), 0, 0)
	}
	return out, nil
}
