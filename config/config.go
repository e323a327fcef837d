// Package config provides configuration loading and access for the backdrop renderers.
package config

import (
	_ "embed"
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed defaults.yaml
var defaultsYAML []byte

// Config holds all renderer configuration parameters.
type Config struct {
	Screen     ScreenConfig     `yaml:"screen"`
	Theme      ThemeConfig      `yaml:"theme"`
	FlowField  FlowFieldConfig  `yaml:"flowfield"`
	Grid       GridConfig       `yaml:"grid"`
	Typography TypographyConfig `yaml:"typography"`
	Throttle   ThrottleConfig   `yaml:"throttle"`
	Telemetry  TelemetryConfig  `yaml:"telemetry"`
	Scenes     []string         `yaml:"scenes"`

	// Derived values computed after loading
	Derived DerivedConfig `yaml:"-"`
}

// ScreenConfig holds display settings.
type ScreenConfig struct {
	Width     int     `yaml:"width"`
	Height    int     `yaml:"height"`
	TargetFPS int     `yaml:"target_fps"`
	DPR       float64 `yaml:"dpr"`        // Device pixel ratio (0 = ask the window)
	MobileMax int     `yaml:"mobile_max"` // Widths below this use the mobile budget
	Resizable bool    `yaml:"resizable"`
}

// ThemeConfig holds the accent colours the palettes are derived from.
// Values are hex strings like "#6B2737"; malformed values fall back to built-in triples.
type ThemeConfig struct {
	AccentWine  string `yaml:"accent_wine"`
	AccentSteel string `yaml:"accent_steel"`
	Background  string `yaml:"background"`
}

// FlowFieldConfig holds flow field simulation parameters.
type FlowFieldConfig struct {
	FieldScale         float64 `yaml:"field_scale"`          // Spatial noise frequency
	TimeScale          float64 `yaml:"time_scale"`           // Noise z advance per ms of wall time
	ZOffsetSpeed       float64 `yaml:"z_offset_speed"`       // Additional z drift per elapsed ms
	MouseRadius        float64 `yaml:"mouse_radius"`         // Repulsion radius in logical px
	MouseRepelStrength float64 `yaml:"mouse_repel_strength"` // Repulsion magnitude at the cursor
	BaseSpeed          float64 `yaml:"base_speed"`
	TrailFade          float64 `yaml:"trail_fade"`   // Alpha of the per-frame background wash
	SpawnMargin        float64 `yaml:"spawn_margin"` // Spawn area grows by this much on each side
	ExitMargin         float64 `yaml:"exit_margin"`  // Particles beyond this are recycled
	DesktopDivisor     float64 `yaml:"desktop_divisor"`
	MobileDivisor      float64 `yaml:"mobile_divisor"`
	DesktopMin         int     `yaml:"desktop_min"`
	DesktopMax         int     `yaml:"desktop_max"`
	MobileMin          int     `yaml:"mobile_min"`
	MobileMax          int     `yaml:"mobile_max"`
}

// GridConfig holds grid deformation parameters.
type GridConfig struct {
	Padding             float64 `yaml:"padding"`
	TargetSpacing       float64 `yaml:"target_spacing"`
	MobileSpacing       float64 `yaml:"mobile_spacing"`
	MinCols             int     `yaml:"min_cols"`
	MaxCols             int     `yaml:"max_cols"`
	MinRows             int     `yaml:"min_rows"`
	Amplitude           float64 `yaml:"amplitude"`
	TimeScale           float64 `yaml:"time_scale"`
	Scale1              float64 `yaml:"scale1"`
	Scale2              float64 `yaml:"scale2"`
	MouseRadius         float64 `yaml:"mouse_radius"`
	MouseDeformStrength float64 `yaml:"mouse_deform_strength"`
}

// TypographyConfig holds the drifting background words layer.
type TypographyConfig struct {
	WordCount    int      `yaml:"word_count"`
	AccentChance float64  `yaml:"accent_chance"`
	FontSize     int      `yaml:"font_size"`
	Words        []string `yaml:"words"`
}

// ThrottleConfig holds event throttling intervals.
type ThrottleConfig struct {
	ResizeMs int `yaml:"resize_ms"`
}

// TelemetryConfig holds performance telemetry parameters.
type TelemetryConfig struct {
	PerfWindow int `yaml:"perf_window"` // Frames in the rolling perf window
	LogEvery   int `yaml:"log_every"`   // Log perf stats every N frames (0 = never)
}

// DerivedConfig holds computed values derived from the loaded config.
type DerivedConfig struct {
	FrameMs      float64         // Whole-ms frame interval, also the offscreen virtual step
	SceneEnabled map[string]bool // scene name -> enabled
}

// global holds the loaded configuration.
var global *Config

// Init loads configuration from the given path, or uses embedded defaults if path is empty.
// Must be called before Cfg().
func Init(path string) error {
	cfg, err := Load(path)
	if err != nil {
		return err
	}
	global = cfg
	return nil
}

// Cfg returns the global configuration. Panics if Init was not called.
func Cfg() *Config {
	if global == nil {
		panic("config: Cfg() called before Init()")
	}
	return global
}

// Default returns a fresh copy of the embedded defaults.
func Default() *Config {
	cfg, err := Load("")
	if err != nil {
		// The embedded file is part of the binary; failing here is a build defect.
		panic(fmt.Sprintf("config: embedded defaults: %v", err))
	}
	return cfg
}

// Load loads configuration from a YAML file, merging with embedded defaults.
// If path is empty, only embedded defaults are used.
func Load(path string) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(defaultsYAML, cfg); err != nil {
		return nil, fmt.Errorf("parsing embedded defaults: %w", err)
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
		// Unmarshal into same struct - only overwrites fields present in file
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	cfg.computeDerived()

	return cfg, nil
}

// validate rejects values that would break the sizing bounds.
func (c *Config) validate() error {
	if c.Screen.Width <= 0 || c.Screen.Height <= 0 {
		return fmt.Errorf("screen size must be positive, got %dx%d", c.Screen.Width, c.Screen.Height)
	}
	if c.FlowField.DesktopMin > c.FlowField.DesktopMax {
		return fmt.Errorf("flowfield: desktop_min %d > desktop_max %d", c.FlowField.DesktopMin, c.FlowField.DesktopMax)
	}
	if c.FlowField.MobileMin > c.FlowField.MobileMax {
		return fmt.Errorf("flowfield: mobile_min %d > mobile_max %d", c.FlowField.MobileMin, c.FlowField.MobileMax)
	}
	if c.FlowField.DesktopDivisor <= 0 || c.FlowField.MobileDivisor <= 0 {
		return fmt.Errorf("flowfield: divisors must be positive")
	}
	if c.Grid.TargetSpacing <= 0 || c.Grid.MobileSpacing <= 0 {
		return fmt.Errorf("grid: spacing must be positive")
	}
	if c.Grid.MinCols < 2 || c.Grid.MinCols > c.Grid.MaxCols {
		return fmt.Errorf("grid: invalid column bounds [%d, %d]", c.Grid.MinCols, c.Grid.MaxCols)
	}
	if c.Grid.MinRows < 2 {
		return fmt.Errorf("grid: min_rows must be at least 2, got %d", c.Grid.MinRows)
	}
	return nil
}

// computeDerived calculates values derived from loaded config.
func (c *Config) computeDerived() {
	fps := c.Screen.TargetFPS
	if fps <= 0 {
		fps = 60
	}
	c.Derived.FrameMs = math.Floor(1000.0 / float64(fps))

	c.Derived.SceneEnabled = make(map[string]bool, len(c.Scenes))
	for _, name := range c.Scenes {
		c.Derived.SceneEnabled[name] = true
	}
}

// WriteYAML writes the configuration to a YAML file.
func (c *Config) WriteYAML(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}
