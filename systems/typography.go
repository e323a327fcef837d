package systems

import (
	"math"
	"math/rand"

	"github.com/ojrac/opensimplex-go"

	"github.com/pthm-cable/backdrop/config"
)

// wobbleAmplitude is the opensimplex jitter added on top of the drift, in px.
const wobbleAmplitude = 2.0

// Word is one drifting background word.
// X and Y are fractions of the canvas size; the drift values are pixels.
type Word struct {
	Text     string
	Accent   bool
	X, Y     float64
	TX, TY   float64
	Duration float64 // seconds per full back-and-forth cycle half
	Delay    float64 // seconds; negative values start mid-cycle
}

// Typography lays out the drifting word layer and animates it over a paused-aware clock.
type Typography struct {
	Words []Word

	wobble   opensimplex.Noise
	elapsed  float64 // seconds of visible time
	lastTime float64
}

// NewTypography lays out cfg.WordCount words. Words cycle through cfg.Words.
func NewTypography(cfg config.TypographyConfig, rng *rand.Rand) *Typography {
	t := &Typography{wobble: opensimplex.New(rng.Int63())}
	if len(cfg.Words) == 0 {
		return t
	}

	t.Words = make([]Word, cfg.WordCount)
	for i := range t.Words {
		accent := rng.Float64() < cfg.AccentChance
		t.Words[i] = Word{
			Text:     cfg.Words[i%len(cfg.Words)],
			Accent:   accent,
			X:        randRange(rng, -10, 100) / 100,
			Y:        randRange(rng, -10, 100) / 100,
			TX:       randRange(rng, -20, 20),
			TY:       randRange(rng, -30, 30),
			Duration: randRange(rng, 8, 38),
			Delay:    randRange(rng, -30, 10),
		}
	}
	return t
}

// ResetClock sets the frame time baseline without advancing the animation.
func (t *Typography) ResetClock(nowMs float64) {
	t.lastTime = nowMs
}

// Step advances the animation clock to nowMs.
func (t *Typography) Step(nowMs float64) {
	dt := nowMs - t.lastTime
	t.lastTime = nowMs
	if dt > 0 {
		t.elapsed += dt / 1000
	}
}

// Elapsed returns the visible animation time in seconds.
func (t *Typography) Elapsed() float64 {
	return t.elapsed
}

// Position returns word i's position on a width x height canvas at the current time.
// Before its delay has passed a word rests at its origin.
func (t *Typography) Position(i int, width, height float64) Point {
	w := &t.Words[i]
	x := w.X * width
	y := w.Y * height

	local := t.elapsed - w.Delay
	if local < 0 {
		return Point{X: x, Y: y}
	}

	e := DriftEase(local, w.Duration)
	x += w.TX * e
	y += w.TY * e

	x += t.wobble.Eval2(float64(i)*7.31, local*0.15) * wobbleAmplitude
	y += t.wobble.Eval2(float64(i)*7.31+50, local*0.15) * wobbleAmplitude
	return Point{X: x, Y: y}
}

// DriftEase maps time into an alternating ease-in-out in [0, 1]:
// 0 -> 1 over one duration, back to 0 over the next.
func DriftEase(tSec, duration float64) float64 {
	if duration <= 0 {
		return 0
	}
	cycle := math.Mod(tSec, 2*duration)
	if cycle < 0 {
		cycle += 2 * duration
	}
	p := cycle / duration
	if p > 1 {
		p = 2 - p
	}
	return 0.5 - 0.5*math.Cos(math.Pi*p)
}
