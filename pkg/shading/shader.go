// Package shading runs the softshade pipeline: shaders with vertex,
// geometry and fragment stages, the per-frame context they share, the
// worker pool that executes them, and the shadow-pass ordering that lets
// the lit shader read depth maps filled earlier in the same frame.
package shading

import (
	"github.com/taigrr/softshade/pkg/models"
	"github.com/taigrr/softshade/pkg/render"
)

// Shader is a shading algorithm. A pipeline holds shaders in order and
// runs each over the visible models once per camera per frame.
type Shader interface {
	Name() string
	// Global shaders process every face regardless of its material, on
	// every active model including those outside the camera frustum.
	Global() bool
	// NewInstance returns fresh per-worker state. Instances are never
	// shared between goroutines.
	NewInstance() Instance
}

// Instance holds one worker's private state for a Shader.
//
// Initialize runs once per pass before any other call. Vertex runs for
// the worker's share of the vertices; after every worker finishes the
// vertex stage, Geometry runs for every selected face in order and drives
// the rasterizer, which calls back into Fragment.
type Instance interface {
	Initialize(frame *FrameContext, part Partition)
	Vertex(mesh *models.Mesh, v *models.Vertex)
	Geometry(mesh *models.Mesh, f *models.Face)
	render.FragmentShader
}

// Partition identifies a worker within a pass.
type Partition struct {
	Index int
	Count int
}

// Range splits n items into Count contiguous ranges and returns the
// half-open range [lo, hi) owned by this partition.
func (p Partition) Range(n int) (lo, hi int) {
	if p.Count <= 1 {
		return 0, n
	}
	return n * p.Index / p.Count, n * (p.Index + 1) / p.Count
}

// Band returns the scanlines [y0, y1) of a height-row target owned by this
// partition. Bands of different partitions never overlap, so workers can
// write the same target without locking.
func (p Partition) Band(height int) (y0, y1 int) {
	return p.Range(height)
}

// canUse reports whether the shader at index may shade geometry with
// material mat. def is the index of the pipeline's default shader.
func canUse(mat *models.Material, index, def int, global bool) bool {
	if global {
		return true
	}
	if mat.Shader == models.DefaultShader {
		return index == def
	}
	return mat.Shader == index
}
