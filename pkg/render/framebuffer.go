// Package render holds the pixel-level half of the softshade pipeline: the
// color and depth targets, textures, the camera frustum with its screenport
// step, and the barycentric rasterizer.
package render

import (
	"fmt"
	"image"
	"image/png"
	"io"
	"os"

	"golang.org/x/image/draw"
)

// Framebuffer is a render target with a color plane and a depth plane of the
// same size.
type Framebuffer struct {
	Width  int          // Width in pixels
	Height int          // Height in pixels
	Pixels []Color      // Row-major pixel data
	Depth  *DepthBuffer // Per-pixel view distance
}

// NewFramebuffer creates a new framebuffer with the given dimensions. For
// terminal output the height should be 2x the desired terminal rows.
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]Color, width*height),
		Depth:  NewDepthBuffer(width, height),
	}
}

// Bounds returns the pixel rectangle of the framebuffer.
func (fb *Framebuffer) Bounds() image.Rectangle {
	return image.Rect(0, 0, fb.Width, fb.Height)
}

// Clear fills the color plane with a solid color.
func (fb *Framebuffer) Clear(c Color) {
	n := len(fb.Pixels)
	if n == 0 {
		return
	}
	fb.Pixels[0] = c
	for i := 1; i < n; i *= 2 {
		copy(fb.Pixels[i:], fb.Pixels[:i])
	}
}

// ClearDepth resets the depth plane to FarDepth.
func (fb *Framebuffer) ClearDepth() {
	fb.Depth.Clear()
}

// SetPixel sets a pixel at (x, y) to the given color.
// Bounds checking is performed.
func (fb *Framebuffer) SetPixel(x, y int, c Color) {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return
	}
	fb.Pixels[y*fb.Width+x] = c
}

// GetPixel returns the color at (x, y).
// Returns transparent black if out of bounds.
func (fb *Framebuffer) GetPixel(x, y int) Color {
	if x < 0 || x >= fb.Width || y < 0 || y >= fb.Height {
		return Color{}
	}
	return fb.Pixels[y*fb.Width+x]
}

// ToImage converts the framebuffer to a standard Go image.RGBA.
func (fb *Framebuffer) ToImage() *image.RGBA {
	img := image.NewRGBA(fb.Bounds())
	for y := 0; y < fb.Height; y++ {
		for x := 0; x < fb.Width; x++ {
			img.SetRGBA(x, y, fb.Pixels[y*fb.Width+x])
		}
	}
	return img
}

// Scaled returns the color plane enlarged by an integer factor with
// nearest-neighbor sampling, keeping the pixels sharp.
func (fb *Framebuffer) Scaled(factor int) *image.RGBA {
	src := fb.ToImage()
	if factor <= 1 {
		return src
	}
	dst := image.NewRGBA(image.Rect(0, 0, fb.Width*factor, fb.Height*factor))
	draw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Src, nil)
	return dst
}

// EncodePNG writes the color plane, enlarged by factor, as PNG.
func (fb *Framebuffer) EncodePNG(w io.Writer, factor int) error {
	if err := png.Encode(w, fb.Scaled(factor)); err != nil {
		return fmt.Errorf("encode png: %w", err)
	}
	return nil
}

// SavePNG saves the framebuffer as a PNG file.
func (fb *Framebuffer) SavePNG(path string, factor int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := fb.EncodePNG(f, factor); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
