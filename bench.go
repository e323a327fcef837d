package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"

	"github.com/pthm-cable/backdrop/host"
)

var (
	panelStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#4A5F7A")).
			Padding(0, 1)

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#C9A0AA"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#888899")).
			Width(10)

	valueStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#E0E4EA"))

	faultStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF5555"))
)

// chartWidth caps the frame-time chart; longer series are downsampled.
const chartWidth = 72

type benchHeader struct {
	Width, Height int
	Seed          int64
}

// renderBenchReport formats one panel per scene with a frame-time chart.
func renderBenchReport(res *host.OffscreenResult, h benchHeader) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("backdrop bench  %dx%d  seed %d  %d frames",
		h.Width, h.Height, h.Seed, res.Frames)))
	b.WriteString("\n")

	for _, s := range res.Scenes {
		b.WriteString(panelStyle.Render(scenePanel(s)))
		b.WriteString("\n")
	}
	return b.String()
}

func scenePanel(s host.SceneReport) string {
	f := s.Stats.Frames
	row := func(label, value string) string {
		return labelStyle.Render(label) + valueStyle.Render(value)
	}

	lines := []string{
		titleStyle.Render(s.Name) + "  " + valueStyle.Render(s.Detail),
		row("state", s.State.String()),
		row("frames", fmt.Sprintf("%d", s.Frames)),
		row("mean", fmt.Sprintf("%.3f ms (sd %.3f)", f.MeanMs, f.StdDevMs)),
		row("p50/p95", fmt.Sprintf("%.3f / %.3f ms", f.P50Ms, f.P95Ms)),
		row("max", fmt.Sprintf("%.3f ms", f.MaxMs)),
	}
	if s.Fault != nil {
		lines = append(lines, faultStyle.Render("halted: "+s.Fault.Error()))
	}
	if len(s.FrameMs) > 1 {
		lines = append(lines, "", asciigraph.Plot(downsample(s.FrameMs, chartWidth),
			asciigraph.Height(8),
			asciigraph.Caption("frame time (ms)"),
		))
	}
	return strings.Join(lines, "\n")
}

// downsample reduces xs to at most n points by taking the max of each bucket,
// so spikes survive.
func downsample(xs []float64, n int) []float64 {
	if len(xs) <= n || n <= 0 {
		return xs
	}
	out := make([]float64, n)
	for i := range out {
		lo := i * len(xs) / n
		hi := (i + 1) * len(xs) / n
		m := xs[lo]
		for _, v := range xs[lo:hi] {
			if v > m {
				m = v
			}
		}
		out[i] = m
	}
	return out
}
