package shading

import (
	"image"

	"github.com/taigrr/softshade/pkg/fixed"
	"github.com/taigrr/softshade/pkg/models"
	"github.com/taigrr/softshade/pkg/render"
)

// shadowMargin widens the camera viewport when deciding whether a face can
// throw a visible shadow.
const shadowMargin = 1024

// ShadowShader renders the depth map of the frame's directional or spot
// shadow caster. It is global: every face is a potential occluder no
// matter which shader colors it.
type ShadowShader struct {
	Kind models.LightType
}

// NewShadowShader creates a shadow shader for lights of the given type.
// Only directional and spot lights cast shadows.
func NewShadowShader(kind models.LightType) *ShadowShader {
	return &ShadowShader{Kind: kind}
}

func (s *ShadowShader) Name() string { return "shadow-" + s.Kind.String() }

func (s *ShadowShader) Global() bool { return true }

func (s *ShadowShader) NewInstance() Instance {
	return &shadowInstance{kind: s.Kind}
}

type shadowInstance struct {
	rasterInstance
	kind   models.LightType
	slot   int
	caster *ShadowCaster
	bias   fixed.Fixed
	bounds image.Rectangle
}

func (s *shadowInstance) Initialize(frame *FrameContext, part Partition) {
	s.frame = frame
	s.caster = frame.Caster(s.kind)
	if s.caster == nil || !s.caster.Active() {
		s.caster = nil
		if s.rast != nil {
			s.rast.ResetStats()
		}
		return
	}

	s.slot = models.DirectionalSlot
	if s.kind == models.LightSpot {
		s.slot = models.SpotSlot
	}
	s.bias = s.caster.Light.ShadowBias
	s.bounds = frame.Camera.Frustum.Viewport().Inset(-shadowMargin)

	s.bind(frame, s.caster.Frustum, part, s.caster.Map.Height)
	s.rast.FaceCull = render.CullNone
	s.rast.FrustumCull = false
}

func (s *shadowInstance) Vertex(mesh *models.Mesh, v *models.Vertex) {
	if s.caster == nil {
		return
	}
	s.project(v)
	s.lightSpace(v, s.slot, s.caster)
}

func (s *shadowInstance) Geometry(mesh *models.Mesh, f *models.Face) {
	if s.caster == nil {
		return
	}
	s.corners(mesh, f, cameraScreen)
	if s.outsideCamera() {
		return
	}
	s.corners(mesh, f, func(v *models.Vertex) render.ScreenVertex {
		return v.LightSpace[s.slot]
	})
	s.tri.NumVaryings = 0
	s.rast.Draw(&s.tri, s)
}

// outsideCamera reports whether the scratch triangle, in camera screen
// space, lies entirely beyond one side of the widened viewport or outside
// the camera's depth range.
func (s *shadowInstance) outsideCamera() bool {
	r := s.bounds
	cam := s.frame.Camera.Frustum
	left, right, above, below, near, far := true, true, true, true, true, true
	for _, p := range s.tri.V {
		left = left && p.X < r.Min.X
		right = right && p.X >= r.Max.X
		above = above && p.Y < r.Min.Y
		below = below && p.Y >= r.Max.Y
		near = near && p.Z <= cam.Near
		far = far && p.Z >= cam.Far
	}
	return left || right || above || below || near || far
}

func (s *shadowInstance) Fragment(f *render.Fragment) {
	z := f.Z + s.bias
	if s.caster.Map.At(f.X, f.Y) > z {
		s.caster.Map.Set(f.X, f.Y, z)
	}
}
