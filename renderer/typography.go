package renderer

import "github.com/pthm-cable/backdrop/systems"

// Word opacities. The layer sits behind content and stays faint.
const (
	wordAlpha   = 0.07
	accentAlpha = 0.16
)

// TypographyRenderer paints the drifting word layer.
type TypographyRenderer struct {
	plain    systems.RGB
	accent   systems.RGB
	fontSize float64
}

// NewTypographyRenderer creates a renderer. Accent words use the accent colour.
func NewTypographyRenderer(plain, accent systems.RGB, fontSize float64) *TypographyRenderer {
	return &TypographyRenderer{plain: plain, accent: accent, fontSize: fontSize}
}

// Draw clears the surface and draws every word at its current position.
func (r *TypographyRenderer) Draw(s Surface, t *systems.Typography) {
	s.Clear()
	w, h := s.Size()
	for i := range t.Words {
		word := &t.Words[i]
		p := t.Position(i, w, h)
		if word.Accent {
			s.Text(word.Text, p.X, p.Y, r.fontSize, r.accent, accentAlpha)
			continue
		}
		s.Text(word.Text, p.X, p.Y, r.fontSize, r.plain, wordAlpha)
	}
}
