// Package renderer paints simulation state onto drawing surfaces.
package renderer

import (
	"errors"

	"github.com/pthm-cable/backdrop/systems"
)

// ErrNoSurface is returned when a drawing surface cannot be created.
var ErrNoSurface = errors.New("no drawing surface")

// Stroke describes a line style.
type Stroke struct {
	Color systems.RGB
	Alpha float64
	Width float64 // logical pixels
}

// Surface is a persistent 2D canvas addressed in logical pixels.
// Implementations scale to their backing store by the device pixel ratio.
// Contents persist between frames until cleared or resized.
type Surface interface {
	// Size returns the logical size.
	Size() (width, height float64)
	// Resize reallocates the backing store. Contents are discarded.
	Resize(width, height, dpr float64) error

	// BeginFrame and EndFrame bracket the drawing calls of one frame.
	BeginFrame()
	EndFrame() error

	// Clear makes every pixel transparent.
	Clear()
	// Fill composites a translucent colour over the whole surface.
	Fill(c systems.RGB, alpha float64) error
	// StrokeSegment draws a round-capped line.
	StrokeSegment(x0, y0, x1, y1 float64, s Stroke) error
	// StrokePolyline draws connected segments with round joins.
	StrokePolyline(pts []systems.Point, s Stroke) error
	// Text draws s with its top-left corner at (x, y).
	Text(s string, x, y, size float64, c systems.RGB, alpha float64)
}

func clampAlpha(a float64) float64 {
	if a < 0 {
		return 0
	}
	if a > 1 {
		return 1
	}
	return a
}
