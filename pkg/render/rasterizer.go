package render

import (
	"image"
	"math"
	"math/bits"

	"github.com/taigrr/softshade/pkg/fixed"
	"github.com/taigrr/softshade/pkg/math3d"
)

// MaxVaryings is the number of attribute vectors a triangle can carry.
const MaxVaryings = 4

const (
	// weightBits is the precision of the normalized barycentric weights.
	weightBits = 24
	weightOne  = 1 << weightBits
	// recipBits scales the reciprocal depth 1/W.
	recipBits = 36
)

// FaceCull selects which winding the rasterizer discards.
type FaceCull int

const (
	CullBack  FaceCull = iota // Discard triangles with negative screen area
	CullNone                  // Draw both windings
	CullFront                 // Discard triangles with positive screen area
)

// Triangle is one draw call: three screen vertices and up to MaxVaryings
// attribute vectors, each given per corner.
type Triangle struct {
	V           [3]ScreenVertex
	Varyings    [MaxVaryings][3]math3d.Vec3
	NumVaryings int
}

// swapWinding exchanges corners 1 and 2 together with their attributes.
func (t *Triangle) swapWinding() {
	t.V[1], t.V[2] = t.V[2], t.V[1]
	for k := range t.NumVaryings {
		t.Varyings[k][1], t.Varyings[k][2] = t.Varyings[k][2], t.Varyings[k][1]
	}
}

// Fragment is a covered pixel handed to a FragmentShader. Weights are the
// perspective-correct barycentric weights, summing to 1<<24.
type Fragment struct {
	X, Y     int
	Z        fixed.Fixed
	Weights  [3]int64
	Varyings [MaxVaryings]math3d.Vec3
}

// Interpolate blends three per-corner vectors with the fragment's weights.
func (f *Fragment) Interpolate(a0, a1, a2 math3d.Vec3) math3d.Vec3 {
	return math3d.Vec3{
		X: f.InterpolateFixed(a0.X, a1.X, a2.X),
		Y: f.InterpolateFixed(a0.Y, a1.Y, a2.Y),
		Z: f.InterpolateFixed(a0.Z, a1.Z, a2.Z),
	}
}

// InterpolateFixed blends three per-corner scalars with the fragment's
// weights.
func (f *Fragment) InterpolateFixed(a0, a1, a2 fixed.Fixed) fixed.Fixed {
	w := &f.Weights
	return fixed.Fixed((w[0]*int64(a0) + w[1]*int64(a1) + w[2]*int64(a2)) >> weightBits)
}

// FragmentShader receives every covered pixel. The rasterizer never writes
// pixels itself; depth testing and color output belong to the shader.
type FragmentShader interface {
	Fragment(f *Fragment)
}

// RasterStats counts what happened to the triangles drawn.
type RasterStats struct {
	Triangles  int // Draw calls
	Culled     int // Rejected by the size, frustum or face test
	Degenerate int // Zero screen area
	Fragments  int // Fragment callbacks issued
}

// Rasterizer converts screen-space triangles into fragments. It is a pure
// coverage and interpolation engine; each worker owns its own instance.
type Rasterizer struct {
	FaceCull    FaceCull
	FrustumCull bool
	Stats       RasterStats

	viewport  image.Rectangle
	near, far fixed.Fixed
	bandMin   int
	bandMax   int
	frag      Fragment
}

// NewRasterizer creates a rasterizer with back-face and frustum culling
// enabled.
func NewRasterizer(viewport image.Rectangle, near, far fixed.Fixed) *Rasterizer {
	r := &Rasterizer{
		FaceCull:    CullBack,
		FrustumCull: true,
	}
	r.SetViewport(viewport, near, far)
	r.ClearBand()
	return r
}

// SetViewport sets the pixel rectangle and depth range triangles are
// tested and clamped against.
func (r *Rasterizer) SetViewport(viewport image.Rectangle, near, far fixed.Fixed) {
	r.viewport = viewport
	r.near = near
	r.far = far
}

// SetFrustum takes the viewport and depth range from a frustum.
func (r *Rasterizer) SetFrustum(f *Frustum) {
	r.SetViewport(f.Viewport(), f.Near, f.Far)
}

// SetBand restricts output to scanlines y0 <= y < y1.
func (r *Rasterizer) SetBand(y0, y1 int) {
	r.bandMin = y0
	r.bandMax = y1
}

// ClearBand removes any scanline restriction.
func (r *Rasterizer) ClearBand() {
	r.SetBand(math.MinInt, math.MaxInt)
}

// ResetStats zeroes the counters.
func (r *Rasterizer) ResetStats() {
	r.Stats = RasterStats{}
}

// edgeCoeffs returns A, B, C for the edge function A*x + B*y + C of the
// edge running from (x0, y0) to (x1, y1).
func edgeCoeffs(x0, y0, x1, y1 int64) (A, B, C int64) {
	A = y0 - y1
	B = x1 - x0
	C = x0*y1 - x1*y0
	return
}

// Draw rasterizes tri and calls fs for every covered pixel. A pixel is
// covered when all three edge functions are non-negative, so pixels on an
// edge belong to the triangle. Draw may swap corners 1 and 2 of tri when
// face culling is disabled.
func (r *Rasterizer) Draw(tri *Triangle, fs FragmentShader) {
	r.Stats.Triangles++
	v := &tri.V

	if r.isCulled(v) {
		r.Stats.Culled++
		return
	}

	x0, y0 := int64(v[0].X), int64(v[0].Y)
	x1, y1 := int64(v[1].X), int64(v[1].Y)
	x2, y2 := int64(v[2].X), int64(v[2].Y)

	area := (x1-x0)*(y2-y0) - (y1-y0)*(x2-x0)
	if area == 0 {
		r.Stats.Degenerate++
		return
	}
	if (r.FaceCull == CullBack && area < 0) || (r.FaceCull == CullFront && area > 0) {
		r.Stats.Culled++
		return
	}
	if area < 0 {
		tri.swapWinding()
		x1, y1, x2, y2 = x2, y2, x1, y1
		area = -area
	}

	// Bounding box clamped to the viewport and this rasterizer's band.
	minX := max(min(v[0].X, v[1].X, v[2].X), r.viewport.Min.X)
	maxX := min(max(v[0].X, v[1].X, v[2].X), r.viewport.Max.X-1)
	minY := max(min(v[0].Y, v[1].Y, v[2].Y), r.viewport.Min.Y, r.bandMin)
	maxY := min(max(v[0].Y, v[1].Y, v[2].Y), r.viewport.Max.Y-1, r.bandMax-1)
	if minX > maxX || minY > maxY {
		return
	}

	// Edge 0: v1 -> v2, Edge 1: v2 -> v0, Edge 2: v0 -> v1
	A0, B0, C0 := edgeCoeffs(x1, y1, x2, y2)
	A1, B1, C1 := edgeCoeffs(x2, y2, x0, y0)
	A2, B2, C2 := edgeCoeffs(x0, y0, x1, y1)

	var recip [3]uint64
	for i := range 3 {
		w := max(v[i].W, 1)
		recip[i] = (1 << recipBits) / uint64(w)
	}

	px, py := int64(minX), int64(minY)
	w0Row := A0*px + B0*py + C0
	w1Row := A1*px + B1*py + C1
	w2Row := A2*px + B2*py + C2

	for y := minY; y <= maxY; y++ {
		w0, w1, w2 := w0Row, w1Row, w2Row

		for x := minX; x <= maxX; x++ {
			if w0 >= 0 && w1 >= 0 && w2 >= 0 {
				r.emit(tri, fs, x, y, [3]int64{w0, w1, w2}, area, &recip)
			}

			w0 += A0
			w1 += A1
			w2 += A2
		}

		w0Row += B0
		w1Row += B1
		w2Row += B2
	}
}

// emit turns edge values into perspective-correct weights, interpolates
// depth and varyings, and invokes the fragment shader.
func (r *Rasterizer) emit(tri *Triangle, fs FragmentShader, x, y int, edge [3]int64, area int64, recip *[3]uint64) {
	var pw [3]uint64
	var sum uint64
	for i := range 3 {
		bc := uint64(edge[i]<<weightBits) / uint64(area)
		pw[i] = bc * recip[i]
		sum += pw[i]
	}
	if sum == 0 {
		return
	}

	q0 := mulDiv(pw[0], weightOne, sum)
	q1 := mulDiv(pw[1], weightOne, sum)
	q2 := weightOne - q0 - q1

	f := &r.frag
	f.X, f.Y = x, y
	f.Weights = [3]int64{int64(q0), int64(q1), int64(q2)}
	f.Z = f.InterpolateFixed(tri.V[0].Z, tri.V[1].Z, tri.V[2].Z)
	for k := range tri.NumVaryings {
		a := &tri.Varyings[k]
		f.Varyings[k] = f.Interpolate(a[0], a[1], a[2])
	}

	r.Stats.Fragments++
	fs.Fragment(f)
}

// mulDiv returns a*b/c through a 128-bit intermediate. a must not exceed c.
func mulDiv(a, b, c uint64) uint64 {
	hi, lo := bits.Mul64(a, b)
	q, _ := bits.Div64(hi, lo, c)
	return q
}

func (r *Rasterizer) isCulled(v *[3]ScreenVertex) bool {
	if r.isBiggerThanViewport(v) {
		return true
	}
	return r.FrustumCull && !r.anyVertexInside(v)
}

// isBiggerThanViewport rejects triangles wider or taller than the viewport;
// they come from vertices projected from behind or very near the camera.
func (r *Rasterizer) isBiggerThanViewport(v *[3]ScreenVertex) bool {
	width := max(v[0].X, v[1].X, v[2].X) - min(v[0].X, v[1].X, v[2].X)
	height := max(v[0].Y, v[1].Y, v[2].Y) - min(v[0].Y, v[1].Y, v[2].Y)
	return width > r.viewport.Dx() || height > r.viewport.Dy()
}

// anyVertexInside reports whether at least one vertex lies inside the
// viewport and depth range. Triangles crossing the viewport with every
// vertex outside are rejected.
func (r *Rasterizer) anyVertexInside(v *[3]ScreenVertex) bool {
	for i := range v {
		p := &v[i]
		if p.X >= r.viewport.Min.X && p.X < r.viewport.Max.X &&
			p.Y >= r.viewport.Min.Y && p.Y < r.viewport.Max.Y &&
			p.Z > r.near && p.Z < r.far {
			return true
		}
	}
	return false
}
