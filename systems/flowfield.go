package systems

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"github.com/pthm-cable/backdrop/config"
)

// ErrNonFinite is returned by Step when integration produced NaN or Inf.
var ErrNonFinite = errors.New("non-finite particle position")

// FlowParticle is a single trail-drawing particle.
type FlowParticle struct {
	X, Y         float64
	PrevX, PrevY float64
	Color        RGB
	Alpha        float64
	Width        float64
	SpeedMul     float64

	// Fresh marks a slot recycled during the latest Step; it has no segment to draw yet.
	Fresh bool
}

// FlowField owns a particle pool advected through a noise vector field.
// All state is per instance; two fields never share particles, noise or pointer.
type FlowField struct {
	Particles []FlowParticle
	Pointer   *Pointer

	cfg       config.FlowFieldConfig
	mobileMax int
	noise     *PerlinNoise
	palette   FlowPalette
	rng       *rand.Rand

	width, height float64
	zOffset       float64
	lastTime      float64
}

// NewFlowField creates an unsized flow field. Call Resize before Step.
func NewFlowField(cfg config.FlowFieldConfig, mobileMax int, palette FlowPalette, noise *PerlinNoise, rng *rand.Rand) *FlowField {
	return &FlowField{
		Pointer:   NewPointer(0, 0),
		cfg:       cfg,
		mobileMax: mobileMax,
		noise:     noise,
		palette:   palette,
		rng:       rng,
	}
}

// ParticleCountFor returns the pool size for a logical canvas size.
// Narrow canvases use the mobile divisor and bounds.
func ParticleCountFor(cfg config.FlowFieldConfig, mobileMax int, width, height float64) int {
	divisor := cfg.DesktopDivisor
	lo, hi := float64(cfg.DesktopMin), float64(cfg.DesktopMax)
	if width < float64(mobileMax) {
		divisor = cfg.MobileDivisor
		lo, hi = float64(cfg.MobileMin), float64(cfg.MobileMax)
	}
	base := width * height / divisor
	// A fractional budget still gets its partial particle.
	return int(math.Ceil(clampFloat(base, lo, hi)))
}

// Resize sets the logical canvas size and rebuilds the particle pool.
func (f *FlowField) Resize(width, height float64) {
	f.width = width
	f.height = height
	f.Pointer.SetRest(width/2, height/2)

	n := ParticleCountFor(f.cfg, f.mobileMax, width, height)
	f.Particles = make([]FlowParticle, n)
	for i := range f.Particles {
		f.Particles[i] = f.spawn()
	}
}

// Size returns the logical canvas size.
func (f *FlowField) Size() (width, height float64) {
	return f.width, f.height
}

// ZOffset returns the accumulated time offset of the noise field.
func (f *FlowField) ZOffset() float64 {
	return f.zOffset
}

// ResetClock sets the frame time baseline without advancing the field.
// Called when animation resumes so the hidden interval is not simulated.
func (f *FlowField) ResetClock(nowMs float64) {
	f.lastTime = nowMs
}

// Clear drops the particle pool.
func (f *FlowField) Clear() {
	f.Particles = nil
}

// spawn creates a particle at a random position inside the spawn margin.
func (f *FlowField) spawn() FlowParticle {
	m := f.cfg.SpawnMargin
	x := randRange(f.rng, -m, f.width+m)
	y := randRange(f.rng, -m, f.height+m)

	return FlowParticle{
		X:        x,
		Y:        y,
		PrevX:    x,
		PrevY:    y,
		Color:    f.palette.Pick(f.rng.Float64()),
		Alpha:    randRange(f.rng, 0.18, 0.5),
		Width:    randRange(f.rng, 0.25, 0.85),
		SpeedMul: randRange(f.rng, 0.5, 1.3),
	}
}

// Sample returns the flow vector at (x, y) for the given frame time.
func (f *FlowField) Sample(x, y, timeMs float64) (vx, vy float64) {
	t := timeMs*f.cfg.TimeScale + f.zOffset
	nx := x * f.cfg.FieldScale
	ny := y * f.cfg.FieldScale

	angleNoise := f.noise.Noise3(nx, ny, t)
	magNoise := f.noise.Noise3(nx+100.5, ny-123.8, t+21.7)

	angle := angleNoise * math.Pi * 2
	mag := 0.7 + magNoise*0.8

	vx = math.Cos(angle) * mag
	vy = math.Sin(angle) * mag

	rx, ry := f.Repulsion(x, y)
	return vx + rx, vy + ry
}

// Repulsion returns the cursor's contribution at (x, y).
// Its magnitude falls linearly from MouseRepelStrength at the cursor to 0 at
// MouseRadius and is zero outside; it points away from the cursor.
func (f *FlowField) Repulsion(x, y float64) (rx, ry float64) {
	dx := x - f.Pointer.X
	dy := y - f.Pointer.Y
	dist := math.Sqrt(dx*dx + dy*dy)

	if dist >= f.cfg.MouseRadius || dist <= 0 {
		return 0, 0
	}

	influence := 1 - dist/f.cfg.MouseRadius
	repelAngle := math.Atan2(dy, dx)
	repelMag := influence * f.cfg.MouseRepelStrength
	return math.Cos(repelAngle) * repelMag, math.Sin(repelAngle) * repelMag
}

// Step advances every particle by one frame and recycles those that left the
// canvas. Pool length never changes.
func (f *FlowField) Step(nowMs float64) error {
	dt := nowMs - f.lastTime
	f.lastTime = nowMs
	f.zOffset += dt * f.cfg.ZOffsetSpeed

	m := f.cfg.ExitMargin
	speed := f.cfg.BaseSpeed

	for i := range f.Particles {
		p := &f.Particles[i]
		p.Fresh = false
		p.PrevX = p.X
		p.PrevY = p.Y

		vx, vy := f.Sample(p.X, p.Y, nowMs)
		p.X += vx * speed * p.SpeedMul
		p.Y += vy * speed * p.SpeedMul

		if math.IsNaN(p.X) || math.IsNaN(p.Y) || math.IsInf(p.X, 0) || math.IsInf(p.Y, 0) {
			return fmt.Errorf("particle %d at t=%.1fms: %w", i, nowMs, ErrNonFinite)
		}

		if p.X < -m || p.X > f.width+m || p.Y < -m || p.Y > f.height+m {
			f.Particles[i] = f.spawn()
			f.Particles[i].Fresh = true
		}
	}
	return nil
}

// InBounds reports whether (x, y) lies within the canvas expanded by the exit margin.
func (f *FlowField) InBounds(x, y float64) bool {
	m := f.cfg.ExitMargin
	return x >= -m && x <= f.width+m && y >= -m && y <= f.height+m
}
