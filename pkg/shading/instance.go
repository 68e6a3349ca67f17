package shading

import (
	"github.com/taigrr/softshade/pkg/math3d"
	"github.com/taigrr/softshade/pkg/models"
	"github.com/taigrr/softshade/pkg/render"
)

// rasterInstance is the state shared by the built-in shader instances: the
// frame, a private rasterizer and a scratch triangle.
type rasterInstance struct {
	frame *FrameContext
	rast  *render.Rasterizer
	tri   render.Triangle
}

// bind points the rasterizer at frustum f and limits it to this worker's
// band of a height-row target.
func (b *rasterInstance) bind(frame *FrameContext, f *render.Frustum, part Partition, height int) {
	b.frame = frame
	if b.rast == nil {
		b.rast = render.NewRasterizer(f.Viewport(), f.Near, f.Far)
	} else {
		b.rast.SetFrustum(f)
	}
	b.rast.SetBand(part.Band(height))
	b.rast.ResetStats()
}

// RasterStats returns the rasterizer counters for the current pass.
func (b *rasterInstance) RasterStats() render.RasterStats {
	if b.rast == nil {
		return render.RasterStats{}
	}
	return b.rast.Stats
}

// project runs the camera transform and screenport step for v, once per
// frame serial.
func (b *rasterInstance) project(v *models.Vertex) {
	if v.ScreenSerial == b.frame.Serial {
		return
	}
	v.Screen = b.frame.Camera.Frustum.Screenport(b.frame.ViewProjection.MulVec4(math3d.Point(v.WorldLocation)))
	v.ScreenSerial = b.frame.Serial
}

// lightSpace stores v's position in the shadow map of c at slot, once per
// frame serial.
func (b *rasterInstance) lightSpace(v *models.Vertex, slot int, c *ShadowCaster) {
	if v.LightSerial[slot] == b.frame.Serial {
		return
	}
	v.LightSpace[slot] = c.Project(v.WorldLocation)
	v.LightSerial[slot] = b.frame.Serial
}

// corners loads the screen positions of f's vertices into the scratch
// triangle.
func (b *rasterInstance) corners(mesh *models.Mesh, f *models.Face, screen func(v *models.Vertex) render.ScreenVertex) {
	for i, vi := range f.V {
		b.tri.V[i] = screen(&mesh.Vertices[vi])
	}
}

func cameraScreen(v *models.Vertex) render.ScreenVertex {
	return v.Screen
}

// closer reports whether the fragment passes the depth test.
func (b *rasterInstance) closer(f *render.Fragment) bool {
	return b.frame.Target.Depth.At(f.X, f.Y) > f.Z
}

// put writes the fragment's color and depth to the target.
func (b *rasterInstance) put(f *render.Fragment, c render.Color) {
	b.frame.Target.SetPixel(f.X, f.Y, c)
	b.frame.Target.Depth.Set(f.X, f.Y, f.Z)
}

func uvVarying(uv math3d.Vec2) math3d.Vec3 {
	return math3d.V3(uv.X, uv.Y, 0)
}

func screenVarying(v render.ScreenVertex) math3d.Vec3 {
	return math3d.V3i(v.X, v.Y, 0).Add(math3d.V3(0, 0, v.Z))
}
