package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/host"
	"github.com/pthm-cable/backdrop/scene"
	"github.com/pthm-cable/backdrop/telemetry"
)

var (
	configPath   string
	seed         int64
	scenes       []string
	renderFrames int
	benchFrames  int
	outDir       string
	pngDir       string
	every        int
	width        int
	height       int
	dpr          float64
	logLevel     string
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// newRootCmd builds the command tree and binds flags to the package variables.
func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "backdrop",
		Short: "generative flow-field and grid backdrops",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
		RunE: runView,
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configPath, "config", "", "path to config.yaml (empty = use defaults)")
	pf.Int64Var(&seed, "seed", 0, "RNG seed (0 = time-based)")
	pf.StringSliceVar(&scenes, "scene", nil, "scenes to enable (default from config): "+strings.Join(scene.Names, ", "))
	pf.IntVar(&width, "width", 0, "canvas width in logical px (0 = config)")
	pf.IntVar(&height, "height", 0, "canvas height in logical px (0 = config)")
	pf.Float64Var(&dpr, "dpr", 0, "device pixel ratio (0 = config)")
	pf.StringVar(&outDir, "out", "", "output directory for CSV logs and config snapshot")
	pf.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, error")

	viewCmd := &cobra.Command{
		Use:   "view",
		Short: "open the live window (default)",
		RunE:  runView,
	}

	renderCmd := &cobra.Command{
		Use:   "render",
		Short: "render frames offscreen into PNG files",
		RunE:  runRender,
	}
	renderCmd.Flags().IntVar(&renderFrames, "frames", 120, "frames to render at the config frame step")
	renderCmd.Flags().StringVar(&pngDir, "png", "frames", "directory for PNG frames")
	renderCmd.Flags().IntVar(&every, "every", 1, "write every Nth frame")

	benchCmd := &cobra.Command{
		Use:   "bench",
		Short: "time frames offscreen and print a summary",
		RunE:  runBench,
	}
	benchCmd.Flags().IntVar(&benchFrames, "frames", 600, "frames to time")

	rootCmd.AddCommand(viewCmd, renderCmd, benchCmd)
	return rootCmd
}

// setup loads config, applies flag overrides and installs the JSON logger.
func setup() error {
	var level slog.Level
	if err := level.UnmarshalText([]byte(logLevel)); err != nil {
		return fmt.Errorf("invalid --log-level: %w", err)
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: level}))
	slog.SetDefault(logger)

	if err := config.Init(configPath); err != nil {
		slog.Error("failed to load config", "error", err)
		return err
	}
	cfg := config.Cfg()

	if len(scenes) > 0 {
		cfg.Scenes = scenes
		cfg.Derived.SceneEnabled = make(map[string]bool, len(scenes))
		for _, s := range scenes {
			cfg.Derived.SceneEnabled[s] = true
		}
	}
	if width > 0 {
		cfg.Screen.Width = width
	}
	if height > 0 {
		cfg.Screen.Height = height
	}
	if dpr > 0 {
		cfg.Screen.DPR = dpr
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return nil
}

func openOutput(cfg *config.Config) (*telemetry.OutputManager, error) {
	om, err := telemetry.NewOutputManager(outDir)
	if err != nil {
		return nil, err
	}
	if err := om.WriteConfig(cfg); err != nil {
		om.Close()
		return nil, err
	}
	return om, nil
}

func runView(cmd *cobra.Command, args []string) error {
	cfg := config.Cfg()
	om, err := openOutput(cfg)
	if err != nil {
		return err
	}
	defer om.Close()

	slog.Info("starting window", "seed", seed, "scenes", cfg.Scenes)
	return host.RunWindow(host.WindowOptions{
		Config: cfg,
		Seed:   seed,
		Title:  "backdrop",
		Output: om,
	})
}

// offscreenOptions builds the shared options of render and bench.
func offscreenOptions(cfg *config.Config, om *telemetry.OutputManager, frames int) host.OffscreenOptions {
	d := cfg.Screen.DPR
	if d <= 0 {
		d = 1
	}
	return host.OffscreenOptions{
		Config: cfg,
		Seed:   seed,
		Width:  float64(cfg.Screen.Width),
		Height: float64(cfg.Screen.Height),
		DPR:    d,
		Frames: frames,
		Output: om,
	}
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg := config.Cfg()
	om, err := openOutput(cfg)
	if err != nil {
		return err
	}
	defer om.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := offscreenOptions(cfg, om, renderFrames)
	opts.PNGDir = pngDir
	opts.Every = every

	slog.Info("render_started", "seed", seed, "frames", renderFrames, "png_dir", pngDir)
	res, err := host.RunOffscreen(ctx, opts)
	if res != nil {
		slog.Info("render_finished", "frames", res.Frames, "images", len(res.Images))
		logFaults(res)
	}
	return err
}

func runBench(cmd *cobra.Command, args []string) error {
	cfg := config.Cfg()
	om, err := openOutput(cfg)
	if err != nil {
		return err
	}
	defer om.Close()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := host.RunOffscreen(ctx, offscreenOptions(cfg, om, benchFrames))
	if res != nil {
		fmt.Fprintln(cmd.OutOrStdout(), renderBenchReport(res, benchHeader{
			Width:  cfg.Screen.Width,
			Height: cfg.Screen.Height,
			Seed:   seed,
		}))
		logFaults(res)
	}
	return err
}

func logFaults(res *host.OffscreenResult) {
	for _, s := range res.Scenes {
		if s.Fault != nil {
			slog.Error("scene_halted", "scene", s.Name, "frames", s.Frames, "error", s.Fault)
		}
	}
}
