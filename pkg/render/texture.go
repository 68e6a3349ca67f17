package render

import (
	"fmt"
	"image"
	_ "image/gif"  // Register GIF decoder
	_ "image/jpeg" // Register JPEG decoder
	_ "image/png"  // Register PNG decoder
	"io"
	"os"

	_ "golang.org/x/image/bmp"  // Register BMP decoder
	_ "golang.org/x/image/tiff" // Register TIFF decoder
	_ "golang.org/x/image/webp" // Register WebP decoder

	"github.com/taigrr/softshade/pkg/fixed"
)

// WrapMode determines how texture coordinates outside [0,1] are handled.
type WrapMode int

const (
	WrapRepeat WrapMode = iota // Tile the texture
	WrapClamp                  // Clamp to edge
)

// FilterMode determines how texture sampling is performed.
type FilterMode int

const (
	FilterNearest  FilterMode = iota // Nearest-neighbor (pixelated)
	FilterBilinear                   // Bilinear interpolation (smooth)
)

// Texture holds a 2D image for texture mapping.
type Texture struct {
	Width      int
	Height     int
	Pixels     []Color    // Row-major pixel data
	WrapU      WrapMode   // Horizontal wrap mode
	WrapV      WrapMode   // Vertical wrap mode
	FilterMode FilterMode // Sampling filter mode
}

// NewTexture creates an empty texture with the given dimensions.
func NewTexture(width, height int) *Texture {
	return &Texture{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
	}
}

// LoadTexture loads a texture from an image file. PNG, JPEG, GIF, BMP, TIFF
// and WebP are understood.
func LoadTexture(path string) (*Texture, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open texture: %w", err)
	}
	defer f.Close()

	tex, err := DecodeTexture(f)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return tex, nil
}

// DecodeTexture decodes an image stream into a texture.
func DecodeTexture(r io.Reader) (*Texture, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("decode image: %w", err)
	}
	return TextureFromImage(img), nil
}

// TextureFromImage creates a texture from an image.Image.
func TextureFromImage(img image.Image) *Texture {
	bounds := img.Bounds()
	tex := NewTexture(bounds.Dx(), bounds.Dy())

	for y := range tex.Height {
		for x := range tex.Width {
			r, g, b, a := img.At(bounds.Min.X+x, bounds.Min.Y+y).RGBA()
			// RGBA returns 16-bit values, scale to 8-bit
			tex.Pixels[y*tex.Width+x] = Color{
				R: uint8(r >> 8),
				G: uint8(g >> 8),
				B: uint8(b >> 8),
				A: uint8(a >> 8),
			}
		}
	}

	return tex
}

// NewCheckerTexture creates a procedural checkerboard texture.
func NewCheckerTexture(width, height, checkSize int, c1, c2 Color) *Texture {
	tex := NewTexture(width, height)
	for y := range height {
		for x := range width {
			if (x/checkSize+y/checkSize)%2 == 0 {
				tex.SetPixel(x, y, c1)
			} else {
				tex.SetPixel(x, y, c2)
			}
		}
	}
	return tex
}

// NewGradientTexture creates a horizontal gradient texture.
func NewGradientTexture(width, height int, left, right Color) *Texture {
	tex := NewTexture(width, height)
	span := max(1, width-1)
	for y := range height {
		for x := range width {
			tex.SetPixel(x, y, lerpColor(left, right, fixed.Ratio(x, span)))
		}
	}
	return tex
}

// SetPixel sets a pixel in the texture.
func (t *Texture) SetPixel(x, y int, c Color) {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return
	}
	t.Pixels[y*t.Width+x] = c
}

// GetPixel returns the pixel at (x, y) with bounds checking.
func (t *Texture) GetPixel(x, y int) Color {
	if x < 0 || x >= t.Width || y < 0 || y >= t.Height {
		return Color{}
	}
	return t.Pixels[y*t.Width+x]
}

// Texel returns the pixel at integer texel coordinates, applying the wrap
// modes to coordinates outside the texture.
func (t *Texture) Texel(x, y int) Color {
	x = wrapPixelCoord(x, t.Width, t.WrapU)
	y = wrapPixelCoord(y, t.Height, t.WrapV)
	return t.Pixels[y*t.Width+x]
}

// Sample samples the texture at fixed-point UV coordinates (0..One).
func (t *Texture) Sample(u, v fixed.Fixed) Color {
	u = wrapCoord(u, t.WrapU)
	v = wrapCoord(v, t.WrapV)

	// Flip V coordinate (image Y=0 at top, UV V=0 at bottom)
	v = fixed.One - v

	switch t.FilterMode {
	case FilterBilinear:
		return t.sampleBilinear(u, v)
	default:
		return t.sampleNearest(u, v)
	}
}

func wrapCoord(c fixed.Fixed, mode WrapMode) fixed.Fixed {
	if mode == WrapClamp {
		return fixed.Clamp(c, 0, fixed.One)
	}
	return c.Frac()
}

func (t *Texture) sampleNearest(u, v fixed.Fixed) Color {
	x := min(u.MulInt(t.Width).Int(), t.Width-1)
	y := min(v.MulInt(t.Height).Int(), t.Height-1)
	return t.Pixels[y*t.Width+x]
}

func (t *Texture) sampleBilinear(u, v fixed.Fixed) Color {
	fx := u.MulInt(t.Width) - fixed.Half
	fy := v.MulInt(t.Height) - fixed.Half

	x0, y0 := fx.Int(), fy.Int()
	tx, ty := fx.Frac(), fy.Frac()

	c00 := t.Texel(x0, y0)
	c10 := t.Texel(x0+1, y0)
	c01 := t.Texel(x0, y0+1)
	c11 := t.Texel(x0+1, y0+1)

	top := lerpColor(c00, c10, tx)
	bot := lerpColor(c01, c11, tx)
	return lerpColor(top, bot, ty)
}

func wrapPixelCoord(x, size int, mode WrapMode) int {
	switch mode {
	case WrapRepeat:
		x %= size
		if x < 0 {
			x += size
		}
	case WrapClamp:
		x = min(size-1, max(0, x))
	}
	return x
}
