package renderer

import (
	"errors"
	"math"
	"testing"

	"github.com/pthm-cable/backdrop/systems"
)

type call struct {
	op     string
	stroke Stroke
	alpha  float64
	points int
	text   string
}

// recordingSurface records drawing calls instead of painting.
type recordingSurface struct {
	width, height float64
	calls         []call
	failStroke    error
}

func (s *recordingSurface) Size() (float64, float64) { return s.width, s.height }

func (s *recordingSurface) Resize(w, h, _ float64) error {
	s.width, s.height = w, h
	return nil
}

func (s *recordingSurface) BeginFrame() {}

func (s *recordingSurface) EndFrame() error { return nil }

func (s *recordingSurface) Clear() { s.calls = append(s.calls, call{op: "clear"}) }

func (s *recordingSurface) Fill(_ systems.RGB, alpha float64) error {
	s.calls = append(s.calls, call{op: "fill", alpha: alpha})
	return nil
}

func (s *recordingSurface) StrokeSegment(_, _, _, _ float64, st Stroke) error {
	if s.failStroke != nil {
		return s.failStroke
	}
	s.calls = append(s.calls, call{op: "segment", stroke: st})
	return nil
}

func (s *recordingSurface) StrokePolyline(pts []systems.Point, st Stroke) error {
	s.calls = append(s.calls, call{op: "polyline", stroke: st, points: len(pts)})
	return nil
}

func (s *recordingSurface) Text(str string, _, _, _ float64, _ systems.RGB, alpha float64) {
	s.calls = append(s.calls, call{op: "text", text: str, alpha: alpha})
}

func (s *recordingSurface) count(op string) int {
	n := 0
	for _, c := range s.calls {
		if c.op == op {
			n++
		}
	}
	return n
}

func TestFlowRendererDraw(t *testing.T) {
	s := &recordingSurface{width: 100, height: 100}
	r := NewFlowRenderer(systems.FallbackInk, 0.08)

	particles := []systems.FlowParticle{
		{X: 1, Y: 1, PrevX: 0, PrevY: 0, Alpha: 0.3, Width: 0.5},
		{X: 5, Y: 5, PrevX: 5, PrevY: 5, Fresh: true},
		{X: 9, Y: 9, PrevX: 8, PrevY: 8, Alpha: 0.2, Width: 0.7},
	}
	if err := r.Draw(s, particles); err != nil {
		t.Fatal(err)
	}

	if s.calls[0].op != "fill" || s.calls[0].alpha != 0.08 {
		t.Errorf("expected trail fade fill first, got %+v", s.calls[0])
	}
	if got := s.count("segment"); got != 2 {
		t.Errorf("expected 2 segments (fresh particle skipped), got %d", got)
	}
	if s.calls[2].stroke.Width != 0.7 {
		t.Errorf("expected particle width carried to stroke, got %v", s.calls[2].stroke.Width)
	}
}

func TestFlowRendererPropagatesErrors(t *testing.T) {
	boom := errors.New("boom")
	s := &recordingSurface{width: 10, height: 10, failStroke: boom}
	r := NewFlowRenderer(systems.FallbackInk, 0.08)

	err := r.Draw(s, []systems.FlowParticle{{X: 1, Y: 1}})
	if !errors.Is(err, boom) {
		t.Errorf("expected wrapped stroke error, got %v", err)
	}
}

func TestFlowRendererReset(t *testing.T) {
	s := &recordingSurface{}
	r := NewFlowRenderer(systems.FallbackInk, 0.08)
	if err := r.Reset(s); err != nil {
		t.Fatal(err)
	}
	if len(s.calls) != 1 || s.calls[0].alpha != 1 {
		t.Errorf("expected one opaque fill, got %+v", s.calls)
	}
}

func TestGridRendererStrokeGradient(t *testing.T) {
	r := NewGridRenderer(systems.NewGridPalette(systems.FallbackSteel), 0.00018)

	first := r.RowStroke(0, 5)
	last := r.RowStroke(4, 5)
	if first.Alpha != 0.12 || first.Width != 0.3 {
		t.Errorf("unexpected first row stroke %+v", first)
	}
	if math.Abs(last.Alpha-0.32) > 1e-12 || math.Abs(last.Width-1.0) > 1e-12 {
		t.Errorf("unexpected last row stroke %+v", last)
	}
	if last.Color != systems.FallbackSteel {
		t.Errorf("expected last row in main colour, got %+v", last.Color)
	}

	col := r.ColumnStroke(0, 10, 0)
	if col.Alpha != 0.10 || col.Width != 0.3 {
		t.Errorf("unexpected first column stroke %+v", col)
	}
	end := r.ColumnStroke(9, 10, 0)
	if math.Abs(end.Alpha-0.30) > 1e-12 || math.Abs(end.Width-0.9) > 1e-12 {
		t.Errorf("unexpected last column stroke %+v", end)
	}
}

func TestGridRendererHighlightNonNegative(t *testing.T) {
	palette := systems.NewGridPalette(systems.FallbackSteel)
	r := NewGridRenderer(palette, 0.00018)

	// With sin(...) <= 0 the column keeps its gradient colour
	for i := 0; i < 20; i++ {
		for _, ts := range []float64{0, 5000, 12345, 40000} {
			s := r.ColumnStroke(i, 20, ts)
			if s.Color.B < palette.Main.B {
				t.Errorf("column %d at %v moved away from the highlight: %+v", i, ts, s.Color)
			}
		}
	}
}

func TestGridRendererDraw(t *testing.T) {
	s := &recordingSurface{width: 200, height: 100}
	r := NewGridRenderer(systems.NewGridPalette(systems.FallbackSteel), 0.00018)

	points := make([][]systems.Point, 4)
	for j := range points {
		points[j] = make([]systems.Point, 6)
	}
	if err := r.Draw(s, points, 0); err != nil {
		t.Fatal(err)
	}

	if s.calls[0].op != "clear" {
		t.Errorf("expected clear first, got %s", s.calls[0].op)
	}
	if got := s.count("polyline"); got != 4+6 {
		t.Errorf("expected 10 polylines, got %d", got)
	}
	// Rows come first with cols points each, then columns with rows points.
	if s.calls[1].points != 6 || s.calls[len(s.calls)-1].points != 4 {
		t.Errorf("unexpected polyline lengths: first %d, last %d", s.calls[1].points, s.calls[len(s.calls)-1].points)
	}
}

func TestTypographyRendererDraw(t *testing.T) {
	s := &recordingSurface{width: 800, height: 600}
	r := NewTypographyRenderer(systems.FallbackSteel, systems.FallbackWine, 22)

	typo := &systems.Typography{Words: []systems.Word{
		{Text: "signal", Duration: 10},
		{Text: "noise", Accent: true, Duration: 10},
	}}
	// Words need a wobble source only once their delay has passed.
	typo.Words[0].Delay = 100
	typo.Words[1].Delay = 100

	r.Draw(s, typo)
	if s.count("text") != 2 {
		t.Fatalf("expected 2 words, got %d", s.count("text"))
	}
	if s.calls[2].alpha != accentAlpha {
		t.Errorf("expected accent alpha for accent word, got %v", s.calls[2].alpha)
	}
}

func TestRasterSurface(t *testing.T) {
	s, err := NewRasterSurface(10, 8, 2)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()

	b := s.Image().Bounds()
	if b.Dx() != 20 || b.Dy() != 16 {
		t.Errorf("expected 20x16 backing store, got %dx%d", b.Dx(), b.Dy())
	}

	if err := s.Fill(systems.RGB{R: 200, G: 100, B: 50}, 1); err != nil {
		t.Fatal(err)
	}
	r, g, bl, a := s.Image().At(10, 8).RGBA()
	if a>>8 != 255 || absDiff(r>>8, 200) > 2 || absDiff(g>>8, 100) > 2 || absDiff(bl>>8, 50) > 2 {
		t.Errorf("unexpected pixel after opaque fill: %d,%d,%d,%d", r>>8, g>>8, bl>>8, a>>8)
	}

	s.Clear()
	if _, _, _, a := s.Image().At(10, 8).RGBA(); a != 0 {
		t.Errorf("expected transparent pixel after clear, alpha %d", a)
	}

	if err := s.Resize(5, 5, 1); err != nil {
		t.Fatal(err)
	}
	if w, h := s.Size(); w != 5 || h != 5 {
		t.Errorf("expected 5x5 after resize, got %vx%v", w, h)
	}
}

func TestRasterSurfaceZeroSize(t *testing.T) {
	if _, err := NewRasterSurface(0, 100, 1); !errors.Is(err, ErrNoSurface) {
		t.Errorf("expected ErrNoSurface, got %v", err)
	}
}

func TestComposite(t *testing.T) {
	a, _ := NewRasterSurface(4, 4, 1)
	b, _ := NewRasterSurface(4, 4, 1)
	c, _ := NewRasterSurface(3, 4, 1)

	out, err := Composite(systems.FallbackInk, a, b)
	if err != nil {
		t.Fatal(err)
	}
	if out.Width() != 4 || out.Height() != 4 {
		t.Errorf("unexpected composite size %dx%d", out.Width(), out.Height())
	}
	// Transparent layers leave the background
	r, _, _, al := out.Image().At(1, 1).RGBA()
	if al>>8 != 255 || absDiff(r>>8, 10) > 2 {
		t.Errorf("expected background pixel, got r=%d a=%d", r>>8, al>>8)
	}

	if _, err := Composite(systems.FallbackInk, a, c); err == nil {
		t.Error("expected size mismatch error")
	}
	if _, err := Composite(systems.FallbackInk); !errors.Is(err, ErrNoSurface) {
		t.Errorf("expected ErrNoSurface for no layers, got %v", err)
	}
}

func absDiff(a, b uint32) uint32 {
	if a > b {
		return a - b
	}
	return b - a
}
