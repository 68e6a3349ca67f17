package render

import "github.com/taigrr/softshade/pkg/fixed"

// FarDepth marks a depth sample that nothing has been drawn to yet.
const FarDepth = fixed.Max

// DepthBuffer is a depth-only texture. Values hold camera-space view
// distance, so smaller is closer.
type DepthBuffer struct {
	Width  int
	Height int
	Values []fixed.Fixed // Row-major depth samples
}

// NewDepthBuffer creates a cleared depth buffer.
func NewDepthBuffer(width, height int) *DepthBuffer {
	d := &DepthBuffer{
		Width:  width,
		Height: height,
		Values: make([]fixed.Fixed, width*height),
	}
	d.Clear()
	return d
}

// Clear resets every sample to FarDepth.
func (d *DepthBuffer) Clear() {
	n := len(d.Values)
	if n == 0 {
		return
	}
	// Copy-doubling is faster than a per-element loop.
	d.Values[0] = FarDepth
	for i := 1; i < n; i *= 2 {
		copy(d.Values[i:], d.Values[:i])
	}
}

// At returns the depth at (x, y), or FarDepth outside the buffer.
func (d *DepthBuffer) At(x, y int) fixed.Fixed {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return FarDepth
	}
	return d.Values[y*d.Width+x]
}

// Set stores z at (x, y). Out-of-bounds writes are ignored.
func (d *DepthBuffer) Set(x, y int, z fixed.Fixed) {
	if x < 0 || x >= d.Width || y < 0 || y >= d.Height {
		return
	}
	d.Values[y*d.Width+x] = z
}
