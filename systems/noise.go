package systems

import (
	"math"
	"math/rand"
)

// grad3 holds the 12 cube-edge gradient directions of improved Perlin noise.
var grad3 = [12][3]float64{
	{1, 1, 0}, {-1, 1, 0}, {1, -1, 0}, {-1, -1, 0},
	{1, 0, 1}, {-1, 0, 1}, {1, 0, -1}, {-1, 0, -1},
	{0, 1, 1}, {0, -1, 1}, {0, 1, -1}, {0, -1, -1},
}

// PerlinNoise generates coherent noise values.
// The permutation table is fixed at construction; a PerlinNoise is safe to
// share read-only between goroutines.
type PerlinNoise struct {
	perm [512]uint8
}

// NewPerlinNoise creates a new Perlin noise generator with a table shuffled from seed.
func NewPerlinNoise(seed int64) *PerlinNoise {
	rng := rand.New(rand.NewSource(seed))

	var perm [256]uint8
	for i := range perm {
		perm[i] = uint8(i)
	}

	// Fisher-Yates
	for i := len(perm) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		perm[i], perm[j] = perm[j], perm[i]
	}

	return NewPerlinNoiseFromPerm(perm)
}

// NewPerlinNoiseFromPerm creates a generator from an explicit permutation table.
// The table is expected to hold each of 0..255 exactly once; other tables still
// produce valid (bounded) noise, just with visible repetition.
func NewPerlinNoiseFromPerm(perm [256]uint8) *PerlinNoise {
	p := &PerlinNoise{}
	for i := 0; i < 256; i++ {
		p.perm[i] = perm[i]
		p.perm[i+256] = perm[i]
	}
	return p
}

// Perm returns a copy of the base permutation table.
func (p *PerlinNoise) Perm() [256]uint8 {
	var out [256]uint8
	copy(out[:], p.perm[:256])
	return out
}

// Noise3 returns smooth noise at (x, y, z) mapped to [0, 1].
func (p *PerlinNoise) Noise3(x, y, z float64) float64 {
	fx := math.Floor(x)
	fy := math.Floor(y)
	fz := math.Floor(z)

	// Unit cube containing the point
	X := int(fx) & 255
	Y := int(fy) & 255
	Z := int(fz) & 255

	// Relative position in cube
	x -= fx
	y -= fy
	z -= fz

	u := fade(x)
	v := fade(y)
	w := fade(z)

	// Hash coordinates of cube corners
	A := int(p.perm[X]) + Y
	AA := int(p.perm[A]) + Z
	AB := int(p.perm[A+1]) + Z
	B := int(p.perm[X+1]) + Y
	BA := int(p.perm[B]) + Z
	BB := int(p.perm[B+1]) + Z

	x1 := lerp(u, grad(p.perm[AA], x, y, z), grad(p.perm[BA], x-1, y, z))
	x2 := lerp(u, grad(p.perm[AB], x, y-1, z), grad(p.perm[BB], x-1, y-1, z))
	y1 := lerp(v, x1, x2)

	x3 := lerp(u, grad(p.perm[AA+1], x, y, z-1), grad(p.perm[BA+1], x-1, y, z-1))
	x4 := lerp(u, grad(p.perm[AB+1], x, y-1, z-1), grad(p.perm[BB+1], x-1, y-1, z-1))
	y2 := lerp(v, x3, x4)

	return (lerp(w, y1, y2) + 1) * 0.5
}

// fade is the quintic smoothstep 6t^5 - 15t^4 + 10t^3.
func fade(t float64) float64 {
	return t * t * t * (t*(t*6-15) + 10)
}

func lerp(t, a, b float64) float64 {
	return a + t*(b-a)
}

func grad(hash uint8, x, y, z float64) float64 {
	g := &grad3[int(hash)%len(grad3)]
	return g[0]*x + g[1]*y + g[2]*z
}
