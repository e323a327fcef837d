// Flow field preview tool - tune the noise field with sliders and watch particles follow it.
//
// Usage: go run ./cmd/fieldpreview
package main

import (
	"fmt"
	"math"
	"math/rand"

	rl "github.com/gen2brain/raylib-go/raylib"
	gui "github.com/gen2brain/raylib-go/raygui"

	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/systems"
)

const (
	windowWidth  = 1100
	windowHeight = 720
	previewSize  = 600
	panelWidth   = windowWidth - previewSize - 30
	arrowStep    = 30
)

// FieldParams holds the tunable flow field parameters.
type FieldParams struct {
	FieldScale    float32
	TimeScale     float32
	BaseSpeed     float32
	RepelRadius   float32
	RepelStrength float32
	Seed          int64
}

func defaultParams() FieldParams {
	ff := config.Default().FlowField
	return FieldParams{
		FieldScale:    float32(ff.FieldScale),
		TimeScale:     float32(ff.TimeScale),
		BaseSpeed:     float32(ff.BaseSpeed),
		RepelRadius:   float32(ff.MouseRadius),
		RepelStrength: float32(ff.MouseRepelStrength),
		Seed:          12345,
	}
}

// buildField creates a sized flow field for the preview square.
func buildField(params FieldParams) *systems.FlowField {
	cfg := config.Default()
	ff := cfg.FlowField
	ff.FieldScale = float64(params.FieldScale)
	ff.TimeScale = float64(params.TimeScale)
	ff.BaseSpeed = float64(params.BaseSpeed)
	ff.MouseRadius = float64(params.RepelRadius)
	ff.MouseRepelStrength = float64(params.RepelStrength)

	field := systems.NewFlowField(ff, cfg.Screen.MobileMax, systems.ThemeFlowPalette(cfg.Theme),
		systems.NewPerlinNoise(params.Seed), rand.New(rand.NewSource(params.Seed)))
	field.Resize(previewSize, previewSize)
	return field
}

func main() {
	rl.InitWindow(windowWidth, windowHeight, "Flow Field Preview")
	defer rl.CloseWindow()
	rl.SetTargetFPS(60)

	params := defaultParams()
	field := buildField(params)

	var clock float64
	animating := true
	showArrows := true
	showParticles := true

	origin := rl.Vector2{X: 10, Y: 10}

	for !rl.WindowShouldClose() {
		needsRebuild := false

		if animating {
			clock += float64(rl.GetFrameTime()) * 1000
		}

		mouse := rl.GetMousePosition()
		mx, my := float64(mouse.X-origin.X), float64(mouse.Y-origin.Y)
		if mx >= 0 && my >= 0 && mx < previewSize && my < previewSize {
			field.Pointer.Move(mx, my)
		} else if field.Pointer.Inside {
			field.Pointer.Leave()
		}

		if animating {
			if err := field.Step(clock); err != nil {
				field = buildField(params)
			}
		}

		rl.BeginDrawing()
		rl.ClearBackground(rl.RayWhite)

		rl.DrawRectangle(int32(origin.X), int32(origin.Y), previewSize, previewSize, rl.Color{R: 10, G: 10, B: 10, A: 255})
		if showArrows {
			drawArrows(field, clock, origin)
		}
		if showParticles {
			drawParticles(field, origin)
		}
		rl.DrawRectangleLines(int32(origin.X), int32(origin.Y), previewSize, previewSize, rl.DarkGray)

		statsY := int32(previewSize + 25)
		rl.DrawText(fmt.Sprintf("Particles: %d  z: %.4f", len(field.Particles), field.ZOffset()), 15, statsY, 16, rl.DarkGray)
		rl.DrawText(fmt.Sprintf("Time: %.1fs", clock/1000), 15, statsY+20, 16, rl.DarkGray)

		panelX := float32(previewSize + 20)
		panelY := float32(10)

		rl.DrawText("Flow Field Parameters", int32(panelX), int32(panelY), 20, rl.DarkGray)
		panelY += 35

		slider := func(label, format string, value, lo, hi float32) float32 {
			rl.DrawText(label, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 18
			v := gui.SliderBar(
				rl.Rectangle{X: panelX, Y: panelY, Width: float32(panelWidth - 90), Height: 20},
				"", "", value, lo, hi,
			)
			rl.DrawText(fmt.Sprintf(format, value), int32(panelX+float32(panelWidth-80)), int32(panelY+2), 16, rl.DarkGray)
			panelY += 35
			if v != value {
				needsRebuild = true
			}
			return v
		}

		params.FieldScale = slider("Field scale (spatial frequency)", "%.4f", params.FieldScale, 0.0002, 0.01)
		params.TimeScale = slider("Time scale (noise z per ms)", "%.5f", params.TimeScale, 0, 0.0005)
		params.BaseSpeed = slider("Base speed", "%.2f", params.BaseSpeed, 0.1, 3)
		params.RepelRadius = slider("Mouse radius", "%.0f", params.RepelRadius, 20, 400)
		params.RepelStrength = slider("Mouse repel strength", "%.2f", params.RepelStrength, 0, 8)

		rl.DrawText(fmt.Sprintf("Seed: %d", params.Seed), int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 30

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, toggleText(animating, "Pause", "Animate")) {
			animating = !animating
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, toggleText(showArrows, "Hide Arrows", "Show Arrows")) {
			showArrows = !showArrows
		}
		if gui.Button(rl.Rectangle{X: panelX + 260, Y: panelY, Width: 120, Height: 30}, toggleText(showParticles, "Hide Trails", "Show Trails")) {
			showParticles = !showParticles
		}
		panelY += 45

		if gui.Button(rl.Rectangle{X: panelX, Y: panelY, Width: 120, Height: 30}, "Random Seed") {
			params.Seed = int64(rl.GetRandomValue(0, 99999))
			needsRebuild = true
		}
		if gui.Button(rl.Rectangle{X: panelX + 130, Y: panelY, Width: 120, Height: 30}, "Reset All") {
			params = defaultParams()
			clock = 0
			needsRebuild = true
		}
		panelY += 55

		rl.DrawText("YAML Config:", int32(panelX), int32(panelY), 16, rl.DarkGray)
		panelY += 25
		yaml := fieldYAML(params)
		for _, line := range yaml {
			rl.DrawText(line, int32(panelX), int32(panelY), 14, rl.Gray)
			panelY += 16
		}

		rl.DrawText("Press C to copy YAML to clipboard", int32(panelX), int32(windowHeight-30), 12, rl.LightGray)
		if rl.IsKeyPressed(rl.KeyC) {
			out := ""
			for _, line := range yaml {
				out += line + "\n"
			}
			rl.SetClipboardText(out)
		}

		rl.EndDrawing()

		if needsRebuild {
			field = buildField(params)
			field.ResetClock(clock)
		}
	}
}

// drawArrows draws the sampled flow vector on a coarse lattice.
func drawArrows(field *systems.FlowField, clock float64, origin rl.Vector2) {
	col := rl.Color{R: 90, G: 110, B: 140, A: 160}
	for y := arrowStep / 2; y < previewSize; y += arrowStep {
		for x := arrowStep / 2; x < previewSize; x += arrowStep {
			vx, vy := field.Sample(float64(x), float64(y), clock)
			mag := math.Hypot(vx, vy)
			if mag == 0 {
				continue
			}
			l := math.Min(mag, 2) * arrowStep * 0.35
			ex := float64(x) + vx/mag*l
			ey := float64(y) + vy/mag*l
			start := rl.Vector2{X: origin.X + float32(x), Y: origin.Y + float32(y)}
			end := rl.Vector2{X: origin.X + float32(ex), Y: origin.Y + float32(ey)}
			rl.DrawLineEx(start, end, 1, col)
			rl.DrawCircleV(end, 1.5, col)
		}
	}
}

func drawParticles(field *systems.FlowField, origin rl.Vector2) {
	for _, p := range field.Particles {
		if p.Fresh {
			continue
		}
		col := rl.Color{R: p.Color.R, G: p.Color.G, B: p.Color.B, A: uint8(p.Alpha * 255)}
		rl.DrawLineEx(
			rl.Vector2{X: origin.X + float32(p.PrevX), Y: origin.Y + float32(p.PrevY)},
			rl.Vector2{X: origin.X + float32(p.X), Y: origin.Y + float32(p.Y)},
			float32(math.Max(p.Width, 1)), col,
		)
	}
}

func fieldYAML(params FieldParams) []string {
	return []string{
		"flowfield:",
		fmt.Sprintf("  field_scale: %.4f", params.FieldScale),
		fmt.Sprintf("  time_scale: %.5f", params.TimeScale),
		fmt.Sprintf("  base_speed: %.2f", params.BaseSpeed),
		fmt.Sprintf("  mouse_radius: %.0f", params.RepelRadius),
		fmt.Sprintf("  mouse_repel_strength: %.2f", params.RepelStrength),
	}
}

func toggleText(cond bool, ifTrue, ifFalse string) string {
	if cond {
		return ifTrue
	}
	return ifFalse
}
