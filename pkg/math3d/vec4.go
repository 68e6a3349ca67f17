package math3d

import "github.com/taigrr/softshade/pkg/fixed"

// Vec4 represents a 4D vector (or homogeneous 3D point).
type Vec4 struct {
	X, Y, Z, W fixed.Fixed
}

// V4 creates a new Vec4.
func V4(x, y, z, w fixed.Fixed) Vec4 {
	return Vec4{x, y, z, w}
}

// V4FromV3 creates a Vec4 from Vec3 with specified W.
func V4FromV3(v Vec3, w fixed.Fixed) Vec4 {
	return Vec4{v.X, v.Y, v.Z, w}
}

// Point returns v as an affine point (W = 1).
func Point(v Vec3) Vec4 {
	return Vec4{v.X, v.Y, v.Z, fixed.One}
}

// Direction returns v as a direction (W = 0).
func Direction(v Vec3) Vec4 {
	return Vec4{v.X, v.Y, v.Z, 0}
}

// Vec3 returns the Vec3 portion (ignoring W).
func (v Vec4) Vec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// PerspectiveDivide returns Vec3 after dividing by W. A zero W leaves the
// components unchanged.
func (v Vec4) PerspectiveDivide() Vec3 {
	if v.W == 0 || v.W == fixed.One {
		return Vec3{v.X, v.Y, v.Z}
	}
	return Vec3{v.X.Div(v.W), v.Y.Div(v.W), v.Z.Div(v.W)}
}

// Add returns the vector sum.
//
//nolint:st1016 // a+b naming convention is clearer for vector operations
func (a Vec4) Add(b Vec4) Vec4 {
	return Vec4{a.X + b.X, a.Y + b.Y, a.Z + b.Z, a.W + b.W}
}

// Sub returns the vector difference.
//
//nolint:st1016 // a-b naming convention is clearer for vector operations
func (a Vec4) Sub(b Vec4) Vec4 {
	return Vec4{a.X - b.X, a.Y - b.Y, a.Z - b.Z, a.W - b.W}
}

// Scale returns the scalar product.
func (v Vec4) Scale(s fixed.Fixed) Vec4 {
	return Vec4{v.X.Mul(s), v.Y.Mul(s), v.Z.Mul(s), v.W.Mul(s)}
}

// Dot returns the dot product.
//
//nolint:st1016 // a·b naming convention is clearer for vector operations
func (a Vec4) Dot(b Vec4) fixed.Fixed {
	return a.X.Mul(b.X) + a.Y.Mul(b.Y) + a.Z.Mul(b.Z) + a.W.Mul(b.W)
}
