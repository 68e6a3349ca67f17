package render

import (
	"image/color"

	"github.com/taigrr/softshade/pkg/fixed"
	"github.com/taigrr/softshade/pkg/math3d"
)

// Color is an alias for color.RGBA for convenience.
type Color = color.RGBA

// Colors for convenience
var (
	ColorBlack   = color.RGBA{0, 0, 0, 255}
	ColorWhite   = color.RGBA{255, 255, 255, 255}
	ColorRed     = color.RGBA{255, 0, 0, 255}
	ColorGreen   = color.RGBA{0, 255, 0, 255}
	ColorBlue    = color.RGBA{0, 0, 255, 255}
	ColorYellow  = color.RGBA{255, 255, 0, 255}
	ColorGray    = color.RGBA{128, 128, 128, 255}
	ColorSky     = color.RGBA{135, 206, 235, 255}
	ColorGrass   = color.RGBA{34, 139, 34, 255}
	ColorAmbient = color.RGBA{30, 30, 30, 255}
)

// RGB creates an opaque color from RGB values.
func RGB(r, g, b uint8) Color {
	return Color{r, g, b, 255}
}

// RGBA creates a color from RGBA values.
func RGBA(r, g, b, a uint8) Color {
	return Color{r, g, b, a}
}

func saturate(v int) uint8 {
	return uint8(min(255, max(0, v)))
}

// AddColor adds two colors channel by channel, saturating at 255.
func AddColor(a, b Color) Color {
	return Color{
		R: saturate(int(a.R) + int(b.R)),
		G: saturate(int(a.G) + int(b.G)),
		B: saturate(int(a.B) + int(b.B)),
		A: saturate(int(a.A) + int(b.A)),
	}
}

// ScaleColor multiplies the RGB channels by a fixed-point factor. Alpha is
// kept.
func ScaleColor(c Color, f fixed.Fixed) Color {
	return Color{
		R: saturate(fixed.FromInt(int(c.R)).Mul(f).Int()),
		G: saturate(fixed.FromInt(int(c.G)).Mul(f).Int()),
		B: saturate(fixed.FromInt(int(c.B)).Mul(f).Int()),
		A: c.A,
	}
}

// ModulateColor modulates one color by another (texture * vertex color).
func ModulateColor(a, b Color) Color {
	return Color{
		R: uint8((int(a.R) * int(b.R)) / 255),
		G: uint8((int(a.G) * int(b.G)) / 255),
		B: uint8((int(a.B) * int(b.B)) / 255),
		A: uint8((int(a.A) * int(b.A)) / 255),
	}
}

// ColorToVec3 returns the RGB channels as a fixed-point vector in 0..255,
// the form the rasterizer interpolates.
func ColorToVec3(c Color) math3d.Vec3 {
	return math3d.V3i(int(c.R), int(c.G), int(c.B))
}

// ColorFromVec3 converts an interpolated channel vector back to an opaque
// color, saturating each channel.
func ColorFromVec3(v math3d.Vec3) Color {
	return Color{
		R: saturate(v.X.Round()),
		G: saturate(v.Y.Round()),
		B: saturate(v.Z.Round()),
		A: 255,
	}
}

// lerpColor linearly interpolates between two colors by t (0..One).
func lerpColor(a, b Color, t fixed.Fixed) Color {
	mix := func(x, y uint8) uint8 {
		return saturate(fixed.Lerp(fixed.FromInt(int(x)), fixed.FromInt(int(y)), t).Round())
	}
	return Color{
		R: mix(a.R, b.R),
		G: mix(a.G, b.G),
		B: mix(a.B, b.B),
		A: mix(a.A, b.A),
	}
}
