package systems

import (
	"math"
	"testing"

	"github.com/pthm-cable/backdrop/config"
)

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		name   string
		in     string
		want   RGB
		wantOK bool
	}{
		{"wine", "#6B2737", RGB{107, 39, 55}, true},
		{"lowercase no hash", "4a5f7a", RGB{74, 95, 122}, true},
		{"padded", "  #0A0A0A ", RGB{10, 10, 10}, true},
		{"empty", "", FallbackWine, false},
		{"shorthand", "#abc", FallbackWine, false},
		{"garbage", "#zzzzzz", FallbackWine, false},
		{"too long", "#1234567", FallbackWine, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseHexColor(tt.in, FallbackWine)
			if got != tt.want || ok != tt.wantOK {
				t.Errorf("ParseHexColor(%q) = %v, %v; want %v, %v", tt.in, got, ok, tt.want, tt.wantOK)
			}
		})
	}
}

func TestShiftSaturates(t *testing.T) {
	c := RGB{R: 250, G: 5, B: 128}.Shift(10, -10, 0)
	if c != (RGB{R: 255, G: 0, B: 128}) {
		t.Errorf("expected saturated shift, got %v", c)
	}
}

func TestFlowPaletteFromWine(t *testing.T) {
	p := NewFlowPalette(FallbackWine)
	if p.Lighter != (RGB{164, 85, 108}) {
		t.Errorf("unexpected lighter variant %v", p.Lighter)
	}
	if p.Darker != (RGB{74, 26, 37}) {
		t.Errorf("unexpected darker variant %v", p.Darker)
	}
	if p.Bright != (RGB{200, 90, 110}) {
		t.Errorf("unexpected bright variant %v", p.Bright)
	}
}

func TestFlowPalettePickWeights(t *testing.T) {
	p := NewFlowPalette(FallbackWine)
	counts := map[RGB]int{}
	const n = 10000
	for i := 0; i < n; i++ {
		counts[p.Pick((float64(i)+0.5)/n)]++
	}

	want := map[RGB]float64{
		p.Base:    0.40,
		p.Lighter: 0.25,
		p.Darker:  0.20,
		p.Mid:     0.10,
		p.Bright:  0.05,
	}
	for c, frac := range want {
		got := float64(counts[c]) / n
		if math.Abs(got-frac) > 0.001 {
			t.Errorf("colour %v picked %.3f of the time, want %.2f", c, got, frac)
		}
	}
}

func TestGridPaletteAndLerp(t *testing.T) {
	p := NewGridPalette(FallbackSteel)
	if p.Soft != (RGB{100, 120, 145}) {
		t.Errorf("unexpected soft colour %v", p.Soft)
	}
	if got := p.Soft.Lerp(p.Main, 0); got != p.Soft {
		t.Errorf("Lerp(0) = %v, want %v", got, p.Soft)
	}
	if got := p.Soft.Lerp(p.Main, 1); got != p.Main {
		t.Errorf("Lerp(1) = %v, want %v", got, p.Main)
	}
	// 100 -> 74 halfway is 87; 145 -> 122 halfway is 133.5, rounded up
	if got := p.Soft.Lerp(p.Main, 0.5); got != (RGB{87, 108, 134}) {
		t.Errorf("Lerp(0.5) = %v", got)
	}
}

func TestThemeColorFallback(t *testing.T) {
	if c := ThemeColor("accent_steel", "not-a-colour", FallbackSteel); c != FallbackSteel {
		t.Errorf("expected fallback steel, got %v", c)
	}
	if c := ThemeColor("accent_steel", "#112233", FallbackSteel); c != (RGB{17, 34, 51}) {
		t.Errorf("expected parsed colour, got %v", c)
	}
}

func TestThemeFlowPaletteUsesWine(t *testing.T) {
	theme := config.ThemeConfig{AccentWine: "#6B2737", AccentSteel: "#4A5F7A"}
	if p := ThemeFlowPalette(theme); p.Base != FallbackWine {
		t.Errorf("expected wine base %v, got %v", FallbackWine, p.Base)
	}

	theme.AccentWine = "bogus"
	if p := ThemeFlowPalette(theme); p != NewFlowPalette(FallbackWine) {
		t.Errorf("expected fallback wine palette, got %+v", p)
	}
}
