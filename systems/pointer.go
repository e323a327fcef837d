package systems

// Pointer tracks the cursor in canvas-local logical pixels.
// It has a single writer (the host's input step) and a single reader (the
// per-frame sampler); both run on the render thread.
type Pointer struct {
	X, Y   float64
	Inside bool

	// rest is where the pointer goes when it leaves the canvas.
	restX, restY float64
}

// NewPointer creates a pointer parked at its rest position.
func NewPointer(restX, restY float64) *Pointer {
	return &Pointer{X: restX, Y: restY, restX: restX, restY: restY}
}

// Move records a pointer position inside the canvas.
func (p *Pointer) Move(x, y float64) {
	p.X = x
	p.Y = y
	p.Inside = true
}

// Leave parks the pointer at its rest position.
func (p *Pointer) Leave() {
	p.X = p.restX
	p.Y = p.restY
	p.Inside = false
}

// SetRest changes the rest position. A pointer outside the canvas moves with it.
func (p *Pointer) SetRest(x, y float64) {
	p.restX = x
	p.restY = y
	if !p.Inside {
		p.X = x
		p.Y = y
	}
}
