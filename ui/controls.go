package ui

import (
	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"
)

const (
	buttonWidth  = 120
	buttonHeight = 26
	buttonGap    = 6
)

// ControlEvent reports what the user clicked this frame.
type ControlEvent struct {
	ToggledScene string // name of the scene toggled, or ""
	ToggledHide  bool   // simulated page hide/show
	Reseed       bool
}

// Controls is the bottom-right button strip of the live window.
type Controls struct {
	renderer *Renderer
	scenes   []string
	enabled  map[string]bool
	hidden   bool
	visible  bool
}

// NewControls creates a strip with one toggle per scene, all enabled.
func NewControls(scenes []string) *Controls {
	c := &Controls{
		renderer: NewRenderer(),
		scenes:   scenes,
		enabled:  make(map[string]bool, len(scenes)),
		visible:  true,
	}
	for _, s := range scenes {
		c.enabled[s] = true
	}
	return c
}

// Toggle switches strip visibility.
func (c *Controls) Toggle() bool {
	c.visible = !c.visible
	return c.visible
}

// Enabled reports whether a scene's toggle is on.
func (c *Controls) Enabled(scene string) bool { return c.enabled[scene] }

// Hidden reports whether the simulated page hide is active.
func (c *Controls) Hidden() bool { return c.hidden }

// SetHidden forces the simulated hide state, e.g. from a key binding.
func (c *Controls) SetHidden(hidden bool) { c.hidden = hidden }

// Draw renders the strip and applies clicks to the toggle state.
func (c *Controls) Draw(screenWidth, screenHeight int32) ControlEvent {
	var ev ControlEvent
	if !c.visible {
		return ev
	}

	n := int32(len(c.scenes) + 2)
	pad := c.renderer.Theme.Padding
	panelW := buttonWidth + pad*2
	panelH := n*(buttonHeight+buttonGap) - buttonGap + pad*2
	panelX := screenWidth - panelW - 8
	panelY := screenHeight - panelH - 8
	c.renderer.DrawPanel(panelX, panelY, panelW, panelH)

	x := float32(panelX + pad)
	y := float32(panelY + pad)
	next := func() rl.Rectangle {
		r := rl.Rectangle{X: x, Y: y, Width: buttonWidth, Height: buttonHeight}
		y += buttonHeight + buttonGap
		return r
	}

	for _, s := range c.scenes {
		if gui.Button(next(), toggleText(c.enabled[s], "Hide "+s, "Show "+s)) {
			c.enabled[s] = !c.enabled[s]
			ev.ToggledScene = s
		}
	}
	if gui.Button(next(), toggleText(c.hidden, "Show page", "Hide page")) {
		c.hidden = !c.hidden
		ev.ToggledHide = true
	}
	if gui.Button(next(), "Reseed") {
		ev.Reseed = true
	}
	return ev
}

func toggleText(on bool, onText, offText string) string {
	if on {
		return onText
	}
	return offText
}
