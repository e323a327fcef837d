package renderer

import (
	"fmt"
	"math"

	"github.com/pthm-cable/backdrop/systems"
)

// GridRenderer strokes a displaced mesh with a strength gradient across rows and columns.
type GridRenderer struct {
	palette   systems.GridPalette
	timeScale float64

	column []systems.Point // scratch for column polylines
}

// NewGridRenderer creates a renderer. timeScale drives the column highlight shimmer.
func NewGridRenderer(palette systems.GridPalette, timeScale float64) *GridRenderer {
	return &GridRenderer{palette: palette, timeScale: timeScale}
}

// RowStroke returns the style of row j of rows.
func (r *GridRenderer) RowStroke(j, rows int) Stroke {
	strength := float64(j) / float64(rows-1)
	return Stroke{
		Color: r.palette.Soft.Lerp(r.palette.Main, strength),
		Alpha: lerpf(0.12, 0.32, strength),
		Width: lerpf(0.3, 1.0, strength),
	}
}

// ColumnStroke returns the style of column i of cols at timeMs.
func (r *GridRenderer) ColumnStroke(i, cols int, timeMs float64) Stroke {
	strength := float64(i) / float64(cols-1)
	base := r.palette.Soft.Lerp(r.palette.Main, strength)

	highlight := 0.04 * math.Sin(timeMs*r.timeScale*0.5+float64(i)*0.7)
	return Stroke{
		Color: base.Lerp(r.palette.Highlight, math.Max(0, highlight)),
		Alpha: lerpf(0.10, 0.30, strength),
		Width: lerpf(0.3, 0.9, strength),
	}
}

// Draw clears the surface and strokes every row, then every column.
func (r *GridRenderer) Draw(s Surface, points [][]systems.Point, timeMs float64) error {
	s.Clear()

	rows := len(points)
	if rows < 2 {
		return nil
	}
	cols := len(points[0])

	for j, row := range points {
		if err := s.StrokePolyline(row, r.RowStroke(j, rows)); err != nil {
			return fmt.Errorf("row %d: %w", j, err)
		}
	}

	if cap(r.column) < rows {
		r.column = make([]systems.Point, rows)
	}
	column := r.column[:rows]
	for i := 0; i < cols; i++ {
		for j := range points {
			column[j] = points[j][i]
		}
		if err := s.StrokePolyline(column, r.ColumnStroke(i, cols, timeMs)); err != nil {
			return fmt.Errorf("column %d: %w", i, err)
		}
	}
	return nil
}

func lerpf(a, b, t float64) float64 {
	return a + (b-a)*t
}
