package renderer

import (
	"fmt"

	"github.com/pthm-cable/backdrop/systems"
)

// FlowRenderer paints flow particles as short segments over a fading trail.
type FlowRenderer struct {
	background systems.RGB
	trailFade  float64
}

// NewFlowRenderer creates a renderer. Each frame the background is laid over
// the previous one at trailFade opacity, so old segments decay geometrically.
func NewFlowRenderer(background systems.RGB, trailFade float64) *FlowRenderer {
	return &FlowRenderer{background: background, trailFade: trailFade}
}

// Reset paints the opaque background, as after a resize.
func (r *FlowRenderer) Reset(s Surface) error {
	return s.Fill(r.background, 1)
}

// Draw fades the trail and strokes each particle's latest step.
// Particles recycled this frame have no segment yet and are skipped.
func (r *FlowRenderer) Draw(s Surface, particles []systems.FlowParticle) error {
	if err := s.Fill(r.background, r.trailFade); err != nil {
		return fmt.Errorf("trail fade: %w", err)
	}

	for i := range particles {
		p := &particles[i]
		if p.Fresh {
			continue
		}
		err := s.StrokeSegment(p.PrevX, p.PrevY, p.X, p.Y, Stroke{
			Color: p.Color,
			Alpha: p.Alpha,
			Width: p.Width,
		})
		if err != nil {
			return fmt.Errorf("particle %d: %w", i, err)
		}
	}
	return nil
}
