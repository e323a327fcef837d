package ui

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// SceneStatus is one scene's line in the HUD.
type SceneStatus struct {
	Name   string
	State  string
	Frames uint64
	Detail string // scene-specific, e.g. particle count or grid size
	MeanMs float64
	P95Ms  float64
	Fault  error
}

// HUDData holds what the HUD shows for one frame.
type HUDData struct {
	Title  string
	FPS    int32
	Width  float64
	Height float64
	DPR    float64
	Hidden bool
	Scenes []SceneStatus
}

// HUD renders the top-left status panel.
type HUD struct {
	renderer *Renderer
	visible  bool
}

// NewHUD creates a visible HUD.
func NewHUD() *HUD {
	return &HUD{renderer: NewRenderer(), visible: true}
}

// Toggle switches HUD visibility.
func (h *HUD) Toggle() bool {
	h.visible = !h.visible
	return h.visible
}

// Visible reports whether the HUD is drawn.
func (h *HUD) Visible() bool { return h.visible }

// Draw renders the HUD.
func (h *HUD) Draw(data HUDData) {
	if !h.visible {
		return
	}
	r := h.renderer
	t := r.Theme

	lines := int32(3 + len(data.Scenes)*2)
	for _, s := range data.Scenes {
		if s.Fault != nil {
			lines++
		}
	}
	width := int32(300)
	height := lines*t.LineHeight + t.Padding*2 + t.TitleSize
	r.DrawPanel(8, 8, width, height)

	x := 8 + t.Padding
	y := 8 + t.Padding
	rl.DrawText(data.Title, x, y, t.TitleSize, t.Title)
	y += t.TitleSize + 4

	y = r.DrawLabelValue(x, y, "canvas", fmt.Sprintf("%.0fx%.0f @%.2gx", data.Width, data.Height, data.DPR))
	y = r.DrawLabelValue(x, y, "fps", fmt.Sprintf("%d", data.FPS))
	status := "visible"
	if data.Hidden {
		status = "hidden (paused)"
	}
	y = r.DrawLabelValue(x, y, "page", status)

	for _, s := range data.Scenes {
		y = r.DrawLabelValue(x, y, s.Name, fmt.Sprintf("%s  %d frames  %s", s.State, s.Frames, s.Detail))
		y = r.DrawLabelValue(x, y, "", fmt.Sprintf("mean %.2fms  p95 %.2fms", s.MeanMs, s.P95Ms))
		if s.Fault != nil {
			y = r.DrawWarning(x, y, s.Fault.Error())
		}
	}
}

// DrawLegend renders the key legend at the bottom of the screen.
func (h *HUD) DrawLegend(screenHeight int32, legend string) {
	rl.DrawText(legend, 10, screenHeight-22, 12, rl.Gray)
}
