package telemetry

import (
	"log/slog"
	"time"
)

// Phase names within a frame.
const (
	PhaseSimulate = "simulate"
	PhasePaint    = "paint"
	PhasePresent  = "present"
)

var phaseOrder = []string{PhaseSimulate, PhasePaint, PhasePresent}

// PerfSample holds timing data for a single frame.
type PerfSample struct {
	FrameDuration time.Duration
	Phases        map[string]time.Duration
}

// PerfCollector tracks frame timings over a rolling window.
// A nil collector ignores every call, so scenes can time unconditionally.
type PerfCollector struct {
	windowSize  int
	samples     []PerfSample
	writeIndex  int
	sampleCount int
	frames      uint64

	current    map[string]time.Duration
	frameStart time.Time
	phaseStart time.Time
	lastPhase  string

	// Wall-clock interval between presented frames (window host only)
	lastPresent     time.Time
	presentInterval time.Duration
}

// NewPerfCollector creates a collector averaging over windowSize frames.
func NewPerfCollector(windowSize int) *PerfCollector {
	if windowSize < 1 {
		windowSize = 60
	}
	return &PerfCollector{
		windowSize: windowSize,
		samples:    make([]PerfSample, windowSize),
		current:    make(map[string]time.Duration),
	}
}

// StartFrame begins timing a frame.
func (p *PerfCollector) StartFrame() {
	if p == nil {
		return
	}
	p.frameStart = time.Now()
	p.current = make(map[string]time.Duration, len(phaseOrder))
	p.lastPhase = ""
}

// StartPhase ends the running phase, if any, and starts timing phase.
func (p *PerfCollector) StartPhase(phase string) {
	if p == nil {
		return
	}
	now := time.Now()
	if p.lastPhase != "" {
		p.current[p.lastPhase] += now.Sub(p.phaseStart)
	}
	p.phaseStart = now
	p.lastPhase = phase
}

// EndFrame closes the running phase and records the sample.
func (p *PerfCollector) EndFrame() {
	if p == nil {
		return
	}
	now := time.Now()
	if p.lastPhase != "" {
		p.current[p.lastPhase] += now.Sub(p.phaseStart)
		p.lastPhase = ""
	}

	p.samples[p.writeIndex] = PerfSample{
		FrameDuration: now.Sub(p.frameStart),
		Phases:        p.current,
	}
	p.writeIndex = (p.writeIndex + 1) % p.windowSize
	if p.sampleCount < p.windowSize {
		p.sampleCount++
	}
	p.frames++
}

// RecordPresent marks the latest frame reaching the screen after took.
// The time is charged to the present phase of the latest sample.
func (p *PerfCollector) RecordPresent(took time.Duration) {
	if p == nil {
		return
	}
	now := time.Now()
	if !p.lastPresent.IsZero() {
		p.presentInterval = now.Sub(p.lastPresent)
	}
	p.lastPresent = now

	if p.sampleCount == 0 {
		return
	}
	last := &p.samples[(p.writeIndex-1+p.windowSize)%p.windowSize]
	if last.Phases == nil {
		last.Phases = make(map[string]time.Duration, 1)
	}
	last.Phases[PhasePresent] += took
	last.FrameDuration += took
}

// Frames returns the number of frames recorded since creation.
func (p *PerfCollector) Frames() uint64 {
	if p == nil {
		return 0
	}
	return p.frames
}

// FrameTimesMs returns the frame durations in the window, oldest first, in milliseconds.
func (p *PerfCollector) FrameTimesMs() []float64 {
	if p == nil || p.sampleCount == 0 {
		return nil
	}
	out := make([]float64, 0, p.sampleCount)
	start := 0
	if p.sampleCount == p.windowSize {
		start = p.writeIndex
	}
	for i := 0; i < p.sampleCount; i++ {
		s := p.samples[(start+i)%p.windowSize]
		out = append(out, float64(s.FrameDuration)/float64(time.Millisecond))
	}
	return out
}

// PerfStats holds aggregated frame statistics for the current window.
type PerfStats struct {
	Frames FrameStats

	// Average time per phase and its share of the frame, in percent
	PhaseAvg map[string]time.Duration
	PhasePct map[string]float64

	PresentInterval time.Duration
	FPS             float64
}

// Stats aggregates the current window.
func (p *PerfCollector) Stats() PerfStats {
	stats := PerfStats{
		PhaseAvg: make(map[string]time.Duration),
		PhasePct: make(map[string]float64),
	}
	if p == nil {
		return stats
	}

	stats.PresentInterval = p.presentInterval
	if p.presentInterval > 0 {
		stats.FPS = float64(time.Second) / float64(p.presentInterval)
	}
	if p.sampleCount == 0 {
		return stats
	}

	stats.Frames = ComputeFrameStats(p.FrameTimesMs())

	phaseSum := make(map[string]time.Duration)
	for i := 0; i < p.sampleCount; i++ {
		for phase, d := range p.samples[i].Phases {
			phaseSum[phase] += d
		}
	}
	avgFrame := stats.Frames.MeanMs
	for phase, sum := range phaseSum {
		avg := sum / time.Duration(p.sampleCount)
		stats.PhaseAvg[phase] = avg
		if avgFrame > 0 {
			stats.PhasePct[phase] = float64(avg) / float64(time.Millisecond) / avgFrame * 100
		}
	}
	return stats
}

// LogStats logs the window summary.
func (s PerfStats) LogStats(scene string) {
	attrs := []any{
		"scene", scene,
		"frames", s.Frames,
	}
	if s.FPS > 0 {
		attrs = append(attrs, "fps", int(s.FPS))
	}
	for _, phase := range phaseOrder {
		if pct, ok := s.PhasePct[phase]; ok && pct > 0.1 {
			attrs = append(attrs, phase+"_pct", float64(int(pct*10))/10)
		}
	}
	slog.Info("perf", attrs...)
}

// PerfStatsCSV is a flat row of perf.csv.
type PerfStatsCSV struct {
	Scene       string  `csv:"scene"`
	FrameEnd    uint64  `csv:"frame_end"`
	MeanUS      int64   `csv:"mean_us"`
	StdDevUS    int64   `csv:"stddev_us"`
	P50US       int64   `csv:"p50_us"`
	P95US       int64   `csv:"p95_us"`
	MaxUS       int64   `csv:"max_us"`
	FPS         float64 `csv:"fps"`
	SimulatePct float64 `csv:"simulate_pct"`
	PaintPct    float64 `csv:"paint_pct"`
	PresentPct  float64 `csv:"present_pct"`
}

// ToCSV flattens the stats into a perf.csv row.
func (s PerfStats) ToCSV(scene string, frameEnd uint64) PerfStatsCSV {
	us := func(ms float64) int64 { return int64(ms * 1000) }
	return PerfStatsCSV{
		Scene:       scene,
		FrameEnd:    frameEnd,
		MeanUS:      us(s.Frames.MeanMs),
		StdDevUS:    us(s.Frames.StdDevMs),
		P50US:       us(s.Frames.P50Ms),
		P95US:       us(s.Frames.P95Ms),
		MaxUS:       us(s.Frames.MaxMs),
		FPS:         s.FPS,
		SimulatePct: s.PhasePct[PhaseSimulate],
		PaintPct:    s.PhasePct[PhasePaint],
		PresentPct:  s.PhasePct[PhasePresent],
	}
}
