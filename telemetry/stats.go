package telemetry

import (
	"log/slog"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// FrameStats summarises a series of frame durations in milliseconds.
type FrameStats struct {
	Count    int
	MeanMs   float64
	StdDevMs float64
	MinMs    float64
	P50Ms    float64
	P95Ms    float64
	P99Ms    float64
	MaxMs    float64
}

// ComputeFrameStats returns summary statistics of frame durations.
// The input is not modified. An empty series yields zero stats.
func ComputeFrameStats(ms []float64) FrameStats {
	n := len(ms)
	if n == 0 {
		return FrameStats{}
	}

	sorted := make([]float64, n)
	copy(sorted, ms)
	sort.Float64s(sorted)

	fs := FrameStats{
		Count: n,
		MinMs: sorted[0],
		MaxMs: floats.Max(sorted),
		P50Ms: stat.Quantile(0.50, stat.Empirical, sorted, nil),
		P95Ms: stat.Quantile(0.95, stat.Empirical, sorted, nil),
		P99Ms: stat.Quantile(0.99, stat.Empirical, sorted, nil),
	}
	if n > 1 {
		fs.MeanMs, fs.StdDevMs = stat.MeanStdDev(sorted, nil)
	} else {
		fs.MeanMs = sorted[0]
	}
	return fs
}

// LogValue groups the stats under one key in perf logs.
func (s FrameStats) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("count", s.Count),
		slog.Float64("mean_ms", s.MeanMs),
		slog.Float64("stddev_ms", s.StdDevMs),
		slog.Float64("p50_ms", s.P50Ms),
		slog.Float64("p95_ms", s.P95Ms),
		slog.Float64("max_ms", s.MaxMs),
	)
}
