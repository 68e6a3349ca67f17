package render

import (
	"image"

	"github.com/taigrr/softshade/pkg/fixed"
	"github.com/taigrr/softshade/pkg/math3d"
)

// Projection selects how a frustum maps camera space onto the screen.
type Projection int

const (
	Perspective Projection = iota
	Orthographic
)

func (p Projection) String() string {
	if p == Orthographic {
		return "orthographic"
	}
	return "perspective"
}

// ScreenVertex is a vertex after the screenport step. X and Y are pixel
// coordinates; Z is the camera-space view distance used for depth testing;
// W is the perspective divisor (One for orthographic projection).
type ScreenVertex struct {
	X, Y int
	Z, W fixed.Fixed
}

// Frustum describes a camera's or light's viewing volume. The viewport is
// given as fractions (0..One) of the render target and resolved to pixels
// whenever the target size or bounds change.
type Frustum struct {
	Projection  Projection
	Left, Right fixed.Fixed
	Top, Bottom fixed.Fixed
	Near, Far   fixed.Fixed
	FocalLength fixed.Fixed

	width, height int
	viewport      image.Rectangle
	matrix        math3d.Mat4
}

// NewFrustum creates a perspective frustum covering the given fraction of a
// width x height render target.
func NewFrustum(left, right, top, bottom, near, far fixed.Fixed, width, height int) *Frustum {
	f := &Frustum{
		Projection:  Perspective,
		Left:        left,
		Right:       right,
		Top:         top,
		Bottom:      bottom,
		Near:        near,
		Far:         far,
		FocalLength: fixed.One,
		width:       width,
		height:      height,
	}
	f.recalculate()
	return f
}

// NewFullFrustum creates a perspective frustum covering the whole target.
func NewFullFrustum(near, far fixed.Fixed, width, height int) *Frustum {
	return NewFrustum(0, fixed.One, 0, fixed.One, near, far, width, height)
}

// SetBounds changes the viewport fractions and clip distances.
func (f *Frustum) SetBounds(left, right, top, bottom, near, far fixed.Fixed) {
	f.Left, f.Right, f.Top, f.Bottom = left, right, top, bottom
	f.Near, f.Far = near, far
	f.recalculate()
}

// SetScreenSize changes the render target size.
func (f *Frustum) SetScreenSize(width, height int) {
	if f.width == width && f.height == height {
		return
	}
	f.width, f.height = width, height
	f.recalculate()
}

// SetFocalLength changes the focal length, a fraction of the viewport height.
func (f *Frustum) SetFocalLength(focal fixed.Fixed) {
	if f.FocalLength == focal {
		return
	}
	f.FocalLength = focal
	f.recalculate()
}

// SetProjection changes the projection type.
func (f *Frustum) SetProjection(p Projection) {
	if f.Projection == p {
		return
	}
	f.Projection = p
	f.recalculate()
}

// Viewport returns the frustum's pixel rectangle on the render target.
func (f *Frustum) Viewport() image.Rectangle {
	return f.viewport
}

// ProjectionMatrix returns the matrix mapping camera space to clip space.
func (f *Frustum) ProjectionMatrix() math3d.Mat4 {
	return f.matrix
}

// ScreenSize returns the render target size the frustum was built for.
func (f *Frustum) ScreenSize() (width, height int) {
	return f.width, f.height
}

func (f *Frustum) recalculate() {
	f.viewport = image.Rect(
		f.Left.MulInt(f.width).Int(),
		f.Top.MulInt(f.height).Int(),
		f.Right.MulInt(f.width).Int(),
		f.Bottom.MulInt(f.height).Int(),
	)
	switch f.Projection {
	case Orthographic:
		f.matrix = OrthographicMatrix(f.FocalLength, f.viewport.Dy())
	default:
		f.matrix = PerspectiveMatrix(f.FocalLength, f.viewport.Dy())
	}
}

// PerspectiveMatrix builds a projection whose clip W carries the view
// distance. Screen Y grows downward, so the Y scale is negated.
func PerspectiveMatrix(focal fixed.Fixed, viewportHeight int) math3d.Mat4 {
	s := focal.MulInt(viewportHeight)
	return math3d.Mat4{
		s, 0, 0, 0,
		0, -s, 0, 0,
		0, 0, -fixed.One, -fixed.One,
		0, 0, 0, 0,
	}
}

// OrthographicMatrix builds a projection with a constant clip W, so the
// screenport step performs no perspective divide.
func OrthographicMatrix(focal fixed.Fixed, viewportHeight int) math3d.Mat4 {
	s := focal.MulInt(viewportHeight)
	return math3d.Mat4{
		s, 0, 0, 0,
		0, -s, 0, 0,
		0, 0, -fixed.One, 0,
		0, 0, 0, fixed.One,
	}
}

// Screenport maps a clip-space position into the frustum's pixel
// rectangle. This is the only place pixel coordinates are produced.
func (f *Frustum) Screenport(clip math3d.Vec4) ScreenVertex {
	x, y := clip.X, clip.Y
	if f.Projection == Perspective {
		w := clip.W
		if w == 0 {
			w = 1
		}
		x = x.Div(w)
		y = y.Div(w)
	}
	c := f.viewport.Min.Add(f.viewport.Max).Div(2)
	return ScreenVertex{
		X: x.Round() + c.X,
		Y: y.Round() + c.Y,
		Z: clip.Z,
		W: clip.W,
	}
}

// Contains reports whether a screen vertex lies inside the viewport and
// between the near and far planes.
func (f *Frustum) Contains(v ScreenVertex) bool {
	return v.X >= f.viewport.Min.X && v.X < f.viewport.Max.X &&
		v.Y >= f.viewport.Min.Y && v.Y < f.viewport.Max.Y &&
		v.Z > f.Near && v.Z < f.Far
}

// Project transforms a camera-space point and applies the screenport step.
func (f *Frustum) Project(p math3d.Vec3) ScreenVertex {
	return f.Screenport(f.matrix.MulVec4(math3d.Point(p)))
}
