package math3d

import "github.com/taigrr/softshade/pkg/fixed"

// Mat4 is a 4x4 fixed-point matrix stored in column-major order.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
//
// For a transform matrix:
// | Xx Yx Zx Tx |   X,Y,Z = basis vectors (rotation/scale)
// | Xy Yy Zy Ty |   T = translation
// | Xz Yz Zz Tz |
// | 0  0  0  1  |
type Mat4 [16]fixed.Fixed

const one = fixed.One

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		one, 0, 0, 0,
		0, one, 0, 0,
		0, 0, one, 0,
		0, 0, 0, one,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	return Mat4{
		one, 0, 0, 0,
		0, one, 0, 0,
		0, 0, one, 0,
		v.X, v.Y, v.Z, one,
	}
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	return Mat4{
		v.X, 0, 0, 0,
		0, v.Y, 0, 0,
		0, 0, v.Z, 0,
		0, 0, 0, one,
	}
}

// ScaleUniform creates a uniform scaling matrix.
func ScaleUniform(s fixed.Fixed) Mat4 {
	return Scale(V3(s, s, s))
}

// RotateX creates a rotation matrix around the X axis. The angle is in
// fixed-point degrees.
func RotateX(deg fixed.Fixed) Mat4 {
	c, s := fixed.Cos(deg), fixed.Sin(deg)
	return Mat4{
		one, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, one,
	}
}

// RotateY creates a rotation matrix around the Y axis.
func RotateY(deg fixed.Fixed) Mat4 {
	c, s := fixed.Cos(deg), fixed.Sin(deg)
	return Mat4{
		c, 0, -s, 0,
		0, one, 0, 0,
		s, 0, c, 0,
		0, 0, 0, one,
	}
}

// RotateZ creates a rotation matrix around the Z axis.
func RotateZ(deg fixed.Fixed) Mat4 {
	c, s := fixed.Cos(deg), fixed.Sin(deg)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, one, 0,
		0, 0, 0, one,
	}
}

// Mul multiplies two matrices: a * b. Each term is rescaled through the
// 128-bit product before being accumulated.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := range 4 {
		for row := range 4 {
			var sum fixed.Fixed
			for k := range 4 {
				sum += a[row+k*4].Mul(b[k+col*4])
			}
			m[row+col*4] = sum
		}
	}
	return m
}

// MulVec4 transforms a Vec4. No perspective divide is applied; callers
// divide by W when they need a projected point.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0].Mul(v.X) + m[4].Mul(v.Y) + m[8].Mul(v.Z) + m[12].Mul(v.W),
		m[1].Mul(v.X) + m[5].Mul(v.Y) + m[9].Mul(v.Z) + m[13].Mul(v.W),
		m[2].Mul(v.X) + m[6].Mul(v.Y) + m[10].Mul(v.Z) + m[14].Mul(v.W),
		m[3].Mul(v.X) + m[7].Mul(v.Y) + m[11].Mul(v.Z) + m[15].Mul(v.W),
	}
}

// MulVec3 transforms a Vec3 as a point (w=1), ignoring the W row.
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return Vec3{
		m[0].Mul(v.X) + m[4].Mul(v.Y) + m[8].Mul(v.Z) + m[12],
		m[1].Mul(v.X) + m[5].Mul(v.Y) + m[9].Mul(v.Z) + m[13],
		m[2].Mul(v.X) + m[6].Mul(v.Y) + m[10].Mul(v.Z) + m[14],
	}
}

// MulVec3Dir transforms a Vec3 as a direction (w=0, no translation).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return Vec3{
		m[0].Mul(v.X) + m[4].Mul(v.Y) + m[8].Mul(v.Z),
		m[1].Mul(v.X) + m[5].Mul(v.Y) + m[9].Mul(v.Z),
		m[2].Mul(v.X) + m[6].Mul(v.Y) + m[10].Mul(v.Z),
	}
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) fixed.Fixed {
	return m[row+col*4]
}

// Set sets the element at (row, col).
func (m *Mat4) Set(row, col int, val fixed.Fixed) {
	m[row+col*4] = val
}

// Translation extracts the translation component.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// SetTranslation sets the translation component.
func (m *Mat4) SetTranslation(v Vec3) {
	m[12] = v.X
	m[13] = v.Y
	m[14] = v.Z
}
