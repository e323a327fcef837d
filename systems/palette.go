package systems

import (
	"log/slog"
	"strings"

	colorful "github.com/lucasb-eyer/go-colorful"

	"github.com/pthm-cable/backdrop/config"
)

// RGB is an 8-bit colour triple.
type RGB struct {
	R, G, B uint8
}

// Fallback accents used when the theme value is missing or malformed.
var (
	FallbackWine  = RGB{R: 107, G: 39, B: 55}
	FallbackSteel = RGB{R: 74, G: 95, B: 122}
	FallbackInk   = RGB{R: 10, G: 10, B: 10}
)

// ParseHexColor parses "#RRGGBB" (leading '#' optional).
// Returns fallback and false if the value is not a 6-digit hex colour.
func ParseHexColor(hex string, fallback RGB) (RGB, bool) {
	hex = strings.TrimSpace(hex)
	if !strings.HasPrefix(hex, "#") {
		hex = "#" + hex
	}
	// colorful also accepts the 3-digit shorthand; the theme contract is 6 digits.
	if len(hex) != 7 {
		return fallback, false
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return fallback, false
	}
	r, g, b := c.RGB255()
	return RGB{R: r, G: g, B: b}, true
}

// ThemeColor resolves a theme property, logging when the fallback is used.
func ThemeColor(name, hex string, fallback RGB) RGB {
	c, ok := ParseHexColor(hex, fallback)
	if !ok {
		slog.Warn("theme_color_fallback", "property", name, "value", hex)
	}
	return c
}

// Shift adds per-channel offsets, saturating at 0 and 255.
func (c RGB) Shift(dr, dg, db int) RGB {
	return RGB{
		R: clampChannel(int(c.R) + dr),
		G: clampChannel(int(c.G) + dg),
		B: clampChannel(int(c.B) + db),
	}
}

// Lerp interpolates toward other, rounding each channel to the nearest integer.
func (c RGB) Lerp(other RGB, t float64) RGB {
	return RGB{
		R: clampChannel(roundHalfUp(lerp(t, float64(c.R), float64(other.R)))),
		G: clampChannel(roundHalfUp(lerp(t, float64(c.G), float64(other.G)))),
		B: clampChannel(roundHalfUp(lerp(t, float64(c.B), float64(other.B)))),
	}
}

func clampChannel(v int) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v)
}

// FlowPalette holds the five wine variations used by flow particles.
type FlowPalette struct {
	Base    RGB
	Lighter RGB
	Darker  RGB
	Bright  RGB
	Mid     RGB
}

// NewFlowPalette derives the particle palette from the wine accent.
func NewFlowPalette(base RGB) FlowPalette {
	return FlowPalette{
		Base:    base,
		Lighter: base.Shift(57, 46, 53),
		Darker:  base.Shift(-33, -13, -18),
		Bright:  base.Shift(93, 51, 55),
		Mid:     base.Shift(23, 11, 15),
	}
}

// ThemeFlowPalette derives the flow palette from the theme's wine accent.
func ThemeFlowPalette(theme config.ThemeConfig) FlowPalette {
	return NewFlowPalette(ThemeColor("theme.accent_wine", theme.AccentWine, FallbackWine))
}

// Pick maps a uniform sample r in [0, 1) onto the weighted palette:
// 40% base, 25% lighter, 20% darker, 10% mid, 5% bright.
func (p FlowPalette) Pick(r float64) RGB {
	switch {
	case r < 0.4:
		return p.Base
	case r < 0.65:
		return p.Lighter
	case r < 0.85:
		return p.Darker
	case r < 0.95:
		return p.Mid
	default:
		return p.Bright
	}
}

// GridPalette holds the steel gradient endpoints and highlight.
type GridPalette struct {
	Main      RGB
	Soft      RGB
	Highlight RGB
}

// NewGridPalette derives the mesh palette from the steel accent.
func NewGridPalette(main RGB) GridPalette {
	return GridPalette{
		Main:      main,
		Soft:      main.Shift(26, 25, 23),
		Highlight: main.Shift(46, 55, 58),
	}
}
