package shading

import (
	"github.com/taigrr/softshade/pkg/fixed"
	"github.com/taigrr/softshade/pkg/models"
	"github.com/taigrr/softshade/pkg/render"
)

// Varying slots of the Gouraud triangle.
const (
	gouraudUV = iota
	gouraudLight
	gouraudDirectional
	gouraudSpot
	gouraudVaryings
)

// GouraudShader lights vertices and interpolates the result across faces.
// Fragments that lie behind an occluder in the directional or spot shadow
// map are drawn at half brightness.
type GouraudShader struct{}

// NewGouraudShader creates a Gouraud shader.
func NewGouraudShader() *GouraudShader {
	return &GouraudShader{}
}

func (s *GouraudShader) Name() string { return "gouraud" }

func (s *GouraudShader) Global() bool { return false }

func (s *GouraudShader) NewInstance() Instance {
	return &gouraudInstance{}
}

type gouraudInstance struct {
	rasterInstance
	texture *render.Texture
}

func (g *gouraudInstance) Initialize(frame *FrameContext, part Partition) {
	g.bind(frame, frame.Camera.Frustum, part, frame.Target.Height)
}

func (g *gouraudInstance) Vertex(mesh *models.Mesh, v *models.Vertex) {
	frame := g.frame
	g.project(v)
	v.LightColor = VertexLight(frame.Lights, frame.Camera.Transform.Location,
		v.WorldLocation, v.WorldNormal, mesh.Material(v.Material))

	if frame.Directional.Active() {
		g.lightSpace(v, models.DirectionalSlot, &frame.Directional)
	}
	if frame.Spot.Active() {
		g.lightSpace(v, models.SpotSlot, &frame.Spot)
	}
}

func (g *gouraudInstance) Geometry(mesh *models.Mesh, f *models.Face) {
	g.texture = mesh.Material(f.Material).Texture
	g.corners(mesh, f, cameraScreen)

	t := &g.tri
	t.NumVaryings = gouraudVaryings
	for i, vi := range f.V {
		v := &mesh.Vertices[vi]
		t.Varyings[gouraudUV][i] = uvVarying(f.UV[i])
		t.Varyings[gouraudLight][i] = render.ColorToVec3(v.LightColor)
		t.Varyings[gouraudDirectional][i] = screenVarying(v.LightSpace[models.DirectionalSlot])
		t.Varyings[gouraudSpot][i] = screenVarying(v.LightSpace[models.SpotSlot])
	}
	g.rast.Draw(t, g)
}

func (g *gouraudInstance) Fragment(f *render.Fragment) {
	if !g.closer(f) {
		return
	}

	c := render.ColorFromVec3(f.Varyings[gouraudLight])
	if g.texture != nil {
		uv := f.Varyings[gouraudUV]
		c = render.ModulateColor(c, g.texture.Sample(uv.X, uv.Y))
	}
	if g.shadowed(f) {
		c = render.ScaleColor(c, fixed.Half)
	}
	g.put(f, c)
}

func (g *gouraudInstance) shadowed(f *render.Fragment) bool {
	if d := &g.frame.Directional; d.Active() {
		p := f.Varyings[gouraudDirectional]
		if d.Shadowed(p.X.Round(), p.Y.Round(), p.Z) {
			return true
		}
	}
	if s := &g.frame.Spot; s.Active() {
		p := f.Varyings[gouraudSpot]
		if s.Shadowed(p.X.Round(), p.Y.Round(), p.Z) {
			return true
		}
	}
	return false
}
