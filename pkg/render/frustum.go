package render

import (
	"github.com/taigrr/softshade/pkg/fixed"
	"github.com/taigrr/softshade/pkg/math3d"
)

// Plane represents a plane in 3D space using the equation: Ax + By + Cz + D = 0
// where (A, B, C) is the normal and D is the distance from origin.
type Plane struct {
	Normal math3d.Vec3
	D      fixed.Fixed
}

// Normalize normalizes the plane equation so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.DivScalar(l)
	p.D = p.D.Div(l)
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = in front (same side as normal), negative = behind.
func (p Plane) DistanceToPoint(point math3d.Vec3) fixed.Fixed {
	return p.Normal.Dot(point) + p.D
}

// Planes holds the six bounding planes of a viewing volume, ordered Left,
// Right, Bottom, Top, Near, Far. Each normal points inward.
type Planes [6]Plane

// Plane indices for clarity.
const (
	PlaneLeft = iota
	PlaneRight
	PlaneBottom
	PlaneTop
	PlaneNear
	PlaneFar
)

// Planes extracts the world-space bounding planes of the frustum seen
// through the given view matrix. A point is inside when its screenport
// position lies within the viewport and its view distance within near/far.
func (f *Frustum) Planes(view math3d.Mat4) Planes {
	m := f.matrix.Mul(view)
	row := func(i int) (math3d.Vec3, fixed.Fixed) {
		return math3d.V3(m[i], m[i+4], m[i+8]), m[i+12]
	}
	r0, d0 := row(0)
	r1, d1 := row(1)
	r2, d2 := row(2)
	r3, d3 := row(3)

	halfW := f.viewport.Dx() / 2
	halfH := f.viewport.Dy() / 2
	edgeW := math3d.V3(r3.X.MulInt(halfW), r3.Y.MulInt(halfW), r3.Z.MulInt(halfW))
	edgeH := math3d.V3(r3.X.MulInt(halfH), r3.Y.MulInt(halfH), r3.Z.MulInt(halfH))

	p := Planes{
		PlaneLeft:   {Normal: edgeW.Add(r0), D: d3.MulInt(halfW) + d0},
		PlaneRight:  {Normal: edgeW.Sub(r0), D: d3.MulInt(halfW) - d0},
		PlaneBottom: {Normal: edgeH.Sub(r1), D: d3.MulInt(halfH) - d1},
		PlaneTop:    {Normal: edgeH.Add(r1), D: d3.MulInt(halfH) + d1},
		PlaneNear:   {Normal: r2, D: d2 - f.Near},
		PlaneFar:    {Normal: r2.Negate(), D: f.Far - d2},
	}
	for i := range p {
		p[i].Normalize()
	}
	return p
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(lo, hi math3d.Vec3) AABB {
	return AABB{Min: lo, Max: hi}
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(fixed.Half)
}

// Size returns the dimensions of the AABB.
func (b AABB) Size() math3d.Vec3 {
	return b.Max.Sub(b.Min)
}

// Transform returns the axis-aligned box bounding b after m is applied.
// This computes a new AABB that contains all 8 transformed corners.
func (b AABB) Transform(m math3d.Mat4) AABB {
	corners := [8]math3d.Vec3{
		{X: b.Min.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Min.Z},
		{X: b.Min.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Min.Y, Z: b.Max.Z},
		{X: b.Min.X, Y: b.Max.Y, Z: b.Max.Z},
		{X: b.Max.X, Y: b.Max.Y, Z: b.Max.Z},
	}

	first := m.MulVec3(corners[0])
	out := AABB{Min: first, Max: first}
	for _, c := range corners[1:] {
		p := m.MulVec3(c)
		out.Min = out.Min.Min(p)
		out.Max = out.Max.Max(p)
	}
	return out
}

// ContainsPoint returns true if the point is inside the AABB.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectAABB tests if the AABB intersects or is inside the planes.
// Uses the "positive vertex" optimization for faster rejection.
func (p *Planes) IntersectAABB(box AABB) bool {
	for i := range p {
		plane := &p[i]

		// The corner furthest along the normal is the last to leave the plane.
		pVertex := math3d.V3(
			selectComponent(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			selectComponent(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			selectComponent(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if plane.DistanceToPoint(pVertex) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint tests if a point is inside all six planes.
func (p *Planes) ContainsPoint(point math3d.Vec3) bool {
	for i := range p {
		if p[i].DistanceToPoint(point) < 0 {
			return false
		}
	}
	return true
}

// IntersectsSphere tests if a sphere intersects the volume.
func (p *Planes) IntersectsSphere(center math3d.Vec3, radius fixed.Fixed) bool {
	for i := range p {
		if p[i].DistanceToPoint(center) < -radius {
			return false
		}
	}
	return true
}

func selectComponent(cond bool, a, b fixed.Fixed) fixed.Fixed {
	if cond {
		return a
	}
	return b
}
