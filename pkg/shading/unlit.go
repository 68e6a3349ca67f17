package shading

import (
	"github.com/taigrr/softshade/pkg/models"
	"github.com/taigrr/softshade/pkg/render"
)

// UnlitShader draws faces with their material color and texture, ignoring
// lights and shadows.
type UnlitShader struct{}

// NewUnlitShader creates an unlit shader.
func NewUnlitShader() *UnlitShader {
	return &UnlitShader{}
}

func (s *UnlitShader) Name() string { return "unlit" }

func (s *UnlitShader) Global() bool { return false }

func (s *UnlitShader) NewInstance() Instance {
	return &unlitInstance{}
}

type unlitInstance struct {
	rasterInstance
	mat *models.Material
}

func (u *unlitInstance) Initialize(frame *FrameContext, part Partition) {
	u.bind(frame, frame.Camera.Frustum, part, frame.Target.Height)
}

func (u *unlitInstance) Vertex(mesh *models.Mesh, v *models.Vertex) {
	u.project(v)
}

func (u *unlitInstance) Geometry(mesh *models.Mesh, f *models.Face) {
	u.mat = mesh.Material(f.Material)
	u.corners(mesh, f, cameraScreen)
	u.tri.NumVaryings = 1
	for i := range 3 {
		u.tri.Varyings[0][i] = uvVarying(f.UV[i])
	}
	u.rast.Draw(&u.tri, u)
}

func (u *unlitInstance) Fragment(f *render.Fragment) {
	if !u.closer(f) {
		return
	}
	c := u.mat.Diffuse
	if u.mat.Texture != nil {
		uv := f.Varyings[0]
		c = render.ModulateColor(u.mat.Texture.Sample(uv.X, uv.Y), c)
	}
	u.put(f, c)
}
