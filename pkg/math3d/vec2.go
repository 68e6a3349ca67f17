package math3d

import "github.com/taigrr/softshade/pkg/fixed"

// Vec2 represents a 2D vector, used for texture coordinates.
type Vec2 struct {
	X, Y fixed.Fixed
}

// V2 creates a new Vec2.
func V2(x, y fixed.Fixed) Vec2 {
	return Vec2{x, y}
}

// V2f creates a Vec2 from floats.
func V2f(x, y float64) Vec2 {
	return Vec2{fixed.FromFloat(x), fixed.FromFloat(y)}
}

// Add returns the vector sum.
func (a Vec2) Add(b Vec2) Vec2 {
	return Vec2{a.X + b.X, a.Y + b.Y}
}

// Sub returns the vector difference.
func (a Vec2) Sub(b Vec2) Vec2 {
	return Vec2{a.X - b.X, a.Y - b.Y}
}

// Scale returns the scalar product.
func (a Vec2) Scale(s fixed.Fixed) Vec2 {
	return Vec2{a.X.Mul(s), a.Y.Mul(s)}
}
