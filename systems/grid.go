package systems

import (
	"math"

	"github.com/pthm-cable/backdrop/config"
)

// gridRestX and gridRestY park the grid pointer far off-canvas so it has no influence.
const (
	gridRestX = -1000
	gridRestY = -1000
)

// Point is a 2D position in logical pixels.
type Point struct {
	X, Y float64
}

// Grid is a rows x cols mesh whose vertices are displaced every frame.
// No mesh is retained between frames; Points recomputes from scratch.
type Grid struct {
	Pointer *Pointer

	cfg       config.GridConfig
	mobileMax int

	width, height float64
	cols, rows    int

	points [][]Point // reused backing storage for Points
}

// NewGrid creates an unsized grid. Call Resize before Points.
func NewGrid(cfg config.GridConfig, mobileMax int) *Grid {
	return &Grid{
		Pointer:   NewPointer(gridRestX, gridRestY),
		cfg:       cfg,
		mobileMax: mobileMax,
	}
}

// GridDimensions returns the column and row counts for a logical canvas size.
func GridDimensions(cfg config.GridConfig, mobileMax int, width, height float64) (cols, rows int) {
	usableW := math.Max(1, width-cfg.Padding*2)
	usableH := math.Max(1, height-cfg.Padding*2)

	spacing := cfg.TargetSpacing
	if width < float64(mobileMax) {
		spacing = cfg.MobileSpacing
	}

	cols = clampInt(roundHalfUp(usableW/spacing), cfg.MinCols, cfg.MaxCols)
	rows = roundHalfUp(usableH / spacing)
	if rows < cfg.MinRows {
		rows = cfg.MinRows
	}
	return cols, rows
}

// Resize sets the logical canvas size and recomputes the grid dimensions.
func (g *Grid) Resize(width, height float64) {
	g.width = width
	g.height = height
	g.cols, g.rows = GridDimensions(g.cfg, g.mobileMax, width, height)

	g.points = make([][]Point, g.rows)
	for j := range g.points {
		g.points[j] = make([]Point, g.cols)
	}
}

// Dimensions returns the current column and row counts.
func (g *Grid) Dimensions() (cols, rows int) {
	return g.cols, g.rows
}

// Size returns the logical canvas size.
func (g *Grid) Size() (width, height float64) {
	return g.width, g.height
}

// noise2 is a layered trig pseudo-noise in [0, 1].
func (g *Grid) noise2(nx, ny, timeMs float64) float64 {
	t := timeMs * g.cfg.TimeScale
	s1 := g.cfg.Scale1
	s2 := g.cfg.Scale2

	v1 := math.Sin(nx*s1+t*0.9) + math.Cos(ny*s1*1.1-t*0.6)
	v2 := math.Sin((nx+ny)*s2+t*0.45) + math.Cos((nx-ny)*(s2*0.6)-t*0.35)

	v := (v1 + v2) * 0.25
	v = v*0.5 + 0.5
	return math.Pow(v, 1.4)
}

// Displace maps a rest position to its deformed position at timeMs.
func (g *Grid) Displace(x, y, timeMs float64) Point {
	pad := g.cfg.Padding
	nx := (x - pad) / math.Max(1, g.width-pad*2)
	ny := (y - pad) / math.Max(1, g.height-pad*2)

	n1 := g.noise2(nx*2.1, ny*2.1, timeMs)
	n2 := g.noise2(nx*3.3+12.7, ny*2.9-4.3, timeMs+8000)

	angle1 := (n1 - 0.5) * math.Pi * 2
	angle2 := (n2 - 0.5) * math.Pi * 2
	mag1 := (n1 - 0.5) * 2
	mag2 := (n2 - 0.5) * 2

	amp := g.cfg.Amplitude
	dx := (math.Cos(angle1)*mag1 + math.Sin(angle2)*mag2) * amp * 0.7
	dy := (math.Sin(angle1)*mag1 - math.Cos(angle2)*mag2) * amp

	rx, ry := g.Ripple(x, y)
	dx += rx
	dy += ry

	falloff := EdgeFalloff(nx, ny)
	return Point{X: x + dx*falloff, Y: y + dy*falloff}
}

// Ripple returns the cursor push at (x, y): linear falloff to 0 at MouseRadius,
// directed away from the cursor.
func (g *Grid) Ripple(x, y float64) (dx, dy float64) {
	mx := x - g.Pointer.X
	my := y - g.Pointer.Y
	dist := math.Sqrt(mx*mx + my*my)
	if dist >= g.cfg.MouseRadius {
		return 0, 0
	}

	influence := 1 - dist/g.cfg.MouseRadius
	// atan2(0, 0) is 0, so a vertex under the cursor is pushed along +x.
	angle := math.Atan2(my, mx)
	return math.Cos(angle) * influence * g.cfg.MouseDeformStrength,
		math.Sin(angle) * influence * g.cfg.MouseDeformStrength
}

// EdgeFalloff returns the displacement multiplier for normalized coordinates:
// 1 at the centre, easing to 0.5 once the distance from centre reaches 1/1.4.
func EdgeFalloff(nx, ny float64) float64 {
	d := math.Hypot(nx-0.5, ny-0.5)
	return lerp(math.Min(d*1.4, 1), 1.0, 0.5)
}

// Points returns the displaced rows x cols vertex matrix for timeMs.
// The returned slices are reused by the next call.
func (g *Grid) Points(timeMs float64) [][]Point {
	pad := g.cfg.Padding
	usableW := g.width - pad*2
	usableH := g.height - pad*2

	dx := usableW / float64(g.cols-1)
	dy := usableH / float64(g.rows-1)

	for j := 0; j < g.rows; j++ {
		row := g.points[j]
		for i := 0; i < g.cols; i++ {
			x := pad + float64(i)*dx
			y := pad + float64(j)*dy
			row[i] = g.Displace(x, y, timeMs)
		}
	}
	return g.points
}
