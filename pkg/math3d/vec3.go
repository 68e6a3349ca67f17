// Package math3d provides fixed-point 3D math primitives for the softshade
// renderer.
package math3d

import "github.com/taigrr/softshade/pkg/fixed"

// Vec3 represents a 3D vector.
type Vec3 struct {
	X, Y, Z fixed.Fixed
}

// V3 creates a new Vec3.
func V3(x, y, z fixed.Fixed) Vec3 {
	return Vec3{x, y, z}
}

// V3i creates a Vec3 from whole numbers.
func V3i(x, y, z int) Vec3 {
	return Vec3{fixed.FromInt(x), fixed.FromInt(y), fixed.FromInt(z)}
}

// V3f creates a Vec3 from floats.
func V3f(x, y, z float64) Vec3 {
	return Vec3{fixed.FromFloat(x), fixed.FromFloat(y), fixed.FromFloat(z)}
}

// Zero3 returns the zero vector.
func Zero3() Vec3 {
	return Vec3{}
}

// Up returns the world up vector (0, 1, 0).
func Up() Vec3 {
	return Vec3{0, fixed.One, 0}
}

// Forward returns the world forward vector (0, 0, -1).
func Forward() Vec3 {
	return Vec3{0, 0, -fixed.One}
}

// Right returns the world right vector (1, 0, 0).
func Right() Vec3 {
	return Vec3{fixed.One, 0, 0}
}

// Add returns the vector sum a + b.
func (a Vec3) Add(b Vec3) Vec3 {
	return Vec3{a.X + b.X, a.Y + b.Y, a.Z + b.Z}
}

// Sub returns the vector difference a - b.
func (a Vec3) Sub(b Vec3) Vec3 {
	return Vec3{a.X - b.X, a.Y - b.Y, a.Z - b.Z}
}

// Mul returns the component-wise product a * b.
func (a Vec3) Mul(b Vec3) Vec3 {
	return Vec3{a.X.Mul(b.X), a.Y.Mul(b.Y), a.Z.Mul(b.Z)}
}

// Div returns the component-wise quotient a / b. No component of b may be
// zero.
func (a Vec3) Div(b Vec3) Vec3 {
	return Vec3{a.X.Div(b.X), a.Y.Div(b.Y), a.Z.Div(b.Z)}
}

// Scale returns the scalar product a * s.
func (a Vec3) Scale(s fixed.Fixed) Vec3 {
	return Vec3{a.X.Mul(s), a.Y.Mul(s), a.Z.Mul(s)}
}

// DivScalar returns the scalar division a / s. s must not be zero.
func (a Vec3) DivScalar(s fixed.Fixed) Vec3 {
	return Vec3{a.X.Div(s), a.Y.Div(s), a.Z.Div(s)}
}

// Dot returns the dot product a · b.
func (a Vec3) Dot(b Vec3) fixed.Fixed {
	return a.X.Mul(b.X) + a.Y.Mul(b.Y) + a.Z.Mul(b.Z)
}

// Cross returns the cross product a × b.
func (a Vec3) Cross(b Vec3) Vec3 {
	return Vec3{
		a.Y.Mul(b.Z) - a.Z.Mul(b.Y),
		a.Z.Mul(b.X) - a.X.Mul(b.Z),
		a.X.Mul(b.Y) - a.Y.Mul(b.X),
	}
}

// Len returns the length (magnitude) of the vector.
func (a Vec3) Len() fixed.Fixed {
	return fixed.Sqrt(a.Dot(a))
}

// LenSq returns the squared length.
func (a Vec3) LenSq() fixed.Fixed {
	return a.Dot(a)
}

// Normalize returns the unit vector in the same direction. The zero vector
// is returned unchanged.
func (a Vec3) Normalize() Vec3 {
	l := a.Len()
	if l == 0 {
		return a
	}
	return a.DivScalar(l)
}

// Negate returns the negated vector.
func (a Vec3) Negate() Vec3 {
	return Vec3{-a.X, -a.Y, -a.Z}
}

// Lerp returns the linear interpolation between a and b by t.
func (a Vec3) Lerp(b Vec3, t fixed.Fixed) Vec3 {
	return Vec3{
		fixed.Lerp(a.X, b.X, t),
		fixed.Lerp(a.Y, b.Y, t),
		fixed.Lerp(a.Z, b.Z, t),
	}
}

// Distance returns the distance between two points.
func (a Vec3) Distance(b Vec3) fixed.Fixed {
	return a.Sub(b).Len()
}

// Reflect returns the reflection of a around normal n.
func (a Vec3) Reflect(n Vec3) Vec3 {
	return a.Sub(n.Scale(2 * a.Dot(n)))
}

// Min returns the component-wise minimum.
func (a Vec3) Min(b Vec3) Vec3 {
	return Vec3{min(a.X, b.X), min(a.Y, b.Y), min(a.Z, b.Z)}
}

// Max returns the component-wise maximum.
func (a Vec3) Max(b Vec3) Vec3 {
	return Vec3{max(a.X, b.X), max(a.Y, b.Y), max(a.Z, b.Z)}
}

// Abs returns the component-wise absolute value.
func (a Vec3) Abs() Vec3 {
	return Vec3{fixed.Abs(a.X), fixed.Abs(a.Y), fixed.Abs(a.Z)}
}

// RotateX rotates the vector around the X axis by deg degrees.
func (a Vec3) RotateX(deg fixed.Fixed) Vec3 {
	s, c := fixed.Sin(deg), fixed.Cos(deg)
	return Vec3{
		a.X,
		a.Y.Mul(c) - a.Z.Mul(s),
		a.Z.Mul(c) + a.Y.Mul(s),
	}
}

// RotateY rotates the vector around the Y axis by deg degrees.
func (a Vec3) RotateY(deg fixed.Fixed) Vec3 {
	s, c := fixed.Sin(deg), fixed.Cos(deg)
	return Vec3{
		a.X.Mul(c) + a.Z.Mul(s),
		a.Y,
		a.Z.Mul(c) - a.X.Mul(s),
	}
}

// RotateZ rotates the vector around the Z axis by deg degrees.
func (a Vec3) RotateZ(deg fixed.Fixed) Vec3 {
	s, c := fixed.Sin(deg), fixed.Cos(deg)
	return Vec3{
		a.X.Mul(c) - a.Y.Mul(s),
		a.Y.Mul(c) + a.X.Mul(s),
		a.Z,
	}
}

// RotateXYZ applies the X, Y and Z rotations in that order.
func (a Vec3) RotateXYZ(rot Vec3) Vec3 {
	return a.RotateX(rot.X).RotateY(rot.Y).RotateZ(rot.Z)
}

// RotateZYX applies the Z, Y and X rotations in that order.
func (a Vec3) RotateZYX(rot Vec3) Vec3 {
	return a.RotateZ(rot.Z).RotateY(rot.Y).RotateX(rot.X)
}
