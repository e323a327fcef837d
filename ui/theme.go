// Package ui draws the live window's overlays: the HUD and the control strip.
package ui

import rl "github.com/gen2brain/raylib-go/raylib"

// Theme holds UI styling constants.
type Theme struct {
	PanelBg     rl.Color
	PanelBorder rl.Color
	Title       rl.Color
	LabelColor  rl.Color
	ValueColor  rl.Color
	Warning     rl.Color
	Padding     int32
	LineHeight  int32
	LabelWidth  int32
	FontSize    int32
	TitleSize   int32
}

// DefaultTheme returns the default UI theme.
func DefaultTheme() Theme {
	return Theme{
		PanelBg:     rl.Color{R: 14, G: 16, B: 20, A: 220},
		PanelBorder: rl.Color{R: 60, G: 70, B: 80, A: 255},
		Title:       rl.Color{R: 200, G: 205, B: 215, A: 255},
		LabelColor:  rl.LightGray,
		ValueColor:  rl.RayWhite,
		Warning:     rl.Color{R: 220, G: 120, B: 110, A: 255},
		Padding:     10,
		LineHeight:  16,
		LabelWidth:  90,
		FontSize:    12,
		TitleSize:   16,
	}
}

// Renderer draws widgets with consistent styling.
type Renderer struct {
	Theme Theme
}

// NewRenderer creates a renderer with the default theme.
func NewRenderer() *Renderer {
	return &Renderer{Theme: DefaultTheme()}
}

// DrawPanel draws a panel background with border.
func (r *Renderer) DrawPanel(x, y, width, height int32) {
	rl.DrawRectangle(x, y, width, height, r.Theme.PanelBg)
	rl.DrawRectangleLines(x, y, width, height, r.Theme.PanelBorder)
}

// DrawLabelValue draws a label and value on one line and returns the next Y.
func (r *Renderer) DrawLabelValue(x, y int32, label, value string) int32 {
	rl.DrawText(label, x, y, r.Theme.FontSize, r.Theme.LabelColor)
	rl.DrawText(value, x+r.Theme.LabelWidth, y, r.Theme.FontSize, r.Theme.ValueColor)
	return y + r.Theme.LineHeight
}

// DrawWarning draws a highlighted line and returns the next Y.
func (r *Renderer) DrawWarning(x, y int32, text string) int32 {
	rl.DrawText(text, x, y, r.Theme.FontSize, r.Theme.Warning)
	return y + r.Theme.LineHeight
}
