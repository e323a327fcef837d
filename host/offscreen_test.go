package host

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/gocarina/gocsv"

	"github.com/pthm-cable/backdrop/animation"
	"github.com/pthm-cable/backdrop/config"
	"github.com/pthm-cable/backdrop/telemetry"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func smallConfig(scenes ...string) *config.Config {
	cfg := config.Default()
	cfg.Scenes = scenes
	cfg.Derived.SceneEnabled = make(map[string]bool)
	for _, s := range scenes {
		cfg.Derived.SceneEnabled[s] = true
	}
	return cfg
}

func TestRunOffscreen(t *testing.T) {
	dir := t.TempDir()
	res, err := RunOffscreen(context.Background(), OffscreenOptions{
		Config: smallConfig("flowfield", "grid"),
		Seed:   7,
		Width:  160,
		Height: 120,
		DPR:    1,
		Frames: 6,
		PNGDir: dir,
		Every:  3,
		Logger: quietLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}

	if res.Frames != 6 {
		t.Errorf("expected 6 frames, got %d", res.Frames)
	}
	if len(res.Scenes) != 2 {
		t.Fatalf("expected 2 scene reports, got %d", len(res.Scenes))
	}
	for _, s := range res.Scenes {
		if s.State != animation.StateRunning || s.Fault != nil {
			t.Errorf("%s: state %v fault %v", s.Name, s.State, s.Fault)
		}
		if s.Frames != 6 || len(s.FrameMs) != 6 {
			t.Errorf("%s: expected 6 frames, got %d (%d timings)", s.Name, s.Frames, len(s.FrameMs))
		}
	}
	// 160 is below the mobile width, so the flow field uses the mobile floor
	if res.Scenes[0].Detail != "300 particles" {
		t.Errorf("unexpected flow detail %q", res.Scenes[0].Detail)
	}

	if len(res.Images) != 2 {
		t.Fatalf("expected frames 3 and 6 written, got %v", res.Images)
	}
	for _, p := range res.Images {
		if _, err := os.Stat(p); err != nil {
			t.Errorf("missing image: %v", err)
		}
	}
	if filepath.Base(res.Images[1]) != "frame_00006.png" {
		t.Errorf("unexpected image name %s", res.Images[1])
	}
}

func TestRunOffscreenCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := RunOffscreen(ctx, OffscreenOptions{
		Config: smallConfig("grid"),
		Width:  100,
		Height: 100,
		DPR:    1,
		Frames: 100,
		Logger: quietLogger(),
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if res == nil || res.Frames != 0 {
		t.Errorf("expected partial result with 0 frames, got %+v", res)
	}
}

func TestRunOffscreenNoScenes(t *testing.T) {
	_, err := RunOffscreen(context.Background(), OffscreenOptions{
		Config: smallConfig("aurora"),
		Width:  100,
		Height: 100,
		Frames: 1,
		Logger: quietLogger(),
	})
	if !errors.Is(err, ErrNoScenes) {
		t.Errorf("expected ErrNoScenes, got %v", err)
	}

	// A zero-size canvas disables every scene instead of failing hard
	_, err = RunOffscreen(context.Background(), OffscreenOptions{
		Config: smallConfig("grid"),
		Frames: 1,
		Logger: quietLogger(),
	})
	if !errors.Is(err, ErrNoScenes) {
		t.Errorf("expected ErrNoScenes for zero-size canvas, got %v", err)
	}
}

func TestRunOffscreenWritesCSV(t *testing.T) {
	dir := t.TempDir()
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	_, err = RunOffscreen(context.Background(), OffscreenOptions{
		Config: smallConfig("grid"),
		Width:  100,
		Height: 100,
		DPR:    1,
		Frames: 4,
		Output: om,
		Logger: quietLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	for _, name := range []string{"perf.csv", "frames.csv"} {
		info, err := os.Stat(filepath.Join(dir, name))
		if err != nil {
			t.Fatal(err)
		}
		if info.Size() == 0 {
			t.Errorf("%s is empty", name)
		}
	}
}

func TestRunOffscreenFrameStepFromConfig(t *testing.T) {
	dir := t.TempDir()
	om, err := telemetry.NewOutputManager(dir)
	if err != nil {
		t.Fatal(err)
	}

	cfg := smallConfig("grid")
	cfg.Derived.FrameMs = 20
	_, err = RunOffscreen(context.Background(), OffscreenOptions{
		Config: cfg,
		Width:  100,
		Height: 100,
		DPR:    1,
		Frames: 3,
		Output: om,
		Logger: quietLogger(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := om.Close(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, "frames.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	var rows []*telemetry.FrameRecord
	if err := gocsv.UnmarshalFile(f, &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 frame rows, got %d", len(rows))
	}
	for i, r := range rows {
		if want := float64(i+1) * 20; r.NowMs != want {
			t.Errorf("frame %d: now_ms = %v, want %v", i+1, r.NowMs, want)
		}
	}
}
