package math3d

import "github.com/taigrr/softshade/pkg/fixed"

// Transform places an object in its parent space. Rotation holds Euler
// angles in fixed-point degrees, applied X first, then Y, then Z.
type Transform struct {
	Location Vec3
	Rotation Vec3
	Scale    Vec3
}

// NewTransform returns a transform at the origin with unit scale.
func NewTransform() Transform {
	return Transform{Scale: V3(fixed.One, fixed.One, fixed.One)}
}

// RotationMatrix returns the rotation part of the transform.
func (t Transform) RotationMatrix() Mat4 {
	return RotateZ(t.Rotation.Z).Mul(RotateY(t.Rotation.Y)).Mul(RotateX(t.Rotation.X))
}

// ModelMatrix maps local space into parent space: scale, rotate, then
// translate.
func (t Transform) ModelMatrix() Mat4 {
	return Translate(t.Location).Mul(t.RotationMatrix()).Mul(Scale(t.Scale))
}

// ViewMatrix maps parent space into the local space of the transform. Scale
// is ignored; cameras and lights are never scaled.
func (t Transform) ViewMatrix() Mat4 {
	r := RotateX(-t.Rotation.X).Mul(RotateY(-t.Rotation.Y)).Mul(RotateZ(-t.Rotation.Z))
	return r.Mul(Translate(t.Location.Negate()))
}

// NormalMatrix transforms normals: the rotation combined with the
// reciprocal scale. Zero scale components collapse that axis.
func (t Transform) NormalMatrix() Mat4 {
	inv := Vec3{reciprocal(t.Scale.X), reciprocal(t.Scale.Y), reciprocal(t.Scale.Z)}
	return t.RotationMatrix().Mul(Scale(inv))
}

// Forward returns the direction the transform faces (local -Z).
func (t Transform) Forward() Vec3 {
	return Forward().RotateXYZ(t.Rotation)
}

func reciprocal(s fixed.Fixed) fixed.Fixed {
	if s == 0 {
		return 0
	}
	return fixed.One.Div(s)
}

// FocalLengthForFOV returns the focal length, as a fraction of the viewport
// height, that yields the given vertical field of view in degrees.
func FocalLengthForFOV(fov fixed.Fixed) fixed.Fixed {
	t := fixed.Tan(fov / 2)
	if t == 0 {
		return fixed.One
	}
	return fixed.Half.Div(t)
}
