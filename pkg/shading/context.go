package shading

import (
	"errors"

	"github.com/taigrr/softshade/pkg/fixed"
	"github.com/taigrr/softshade/pkg/math3d"
	"github.com/taigrr/softshade/pkg/models"
	"github.com/taigrr/softshade/pkg/render"
)

// ErrFrameNotReady is returned when a pass runs before the frame context
// was set up for the current camera.
var ErrFrameNotReady = errors.New("frame context not set up")

// Shadow map defaults.
const (
	DefaultDirectionalMapSize = 512
	DefaultSpotMapSize        = 256
)

// DefaultLightRange is the distance from the camera beyond which lights
// are culled for the frame.
var DefaultLightRange = fixed.FromInt(150)

// directionalFocal covers 64 world units across a directional shadow map.
var directionalFocal = fixed.Ratio(1, 64)

// ShadowCaster is the light a shadow map is rendered from, together with
// the map and the projection into it.
type ShadowCaster struct {
	Light   *models.Light
	Frustum *render.Frustum
	Matrix  math3d.Mat4 // World to light clip space
	Map     *render.DepthBuffer
}

func newShadowCaster(kind models.LightType, size int) ShadowCaster {
	f := render.NewFullFrustum(render.DefaultNear, render.DefaultFar, size, size)
	if kind == models.LightDirectional {
		f.SetProjection(render.Orthographic)
		f.SetFocalLength(directionalFocal)
	} else {
		f.SetFocalLength(fixed.Half)
	}
	return ShadowCaster{
		Frustum: f,
		Map:     render.NewDepthBuffer(size, size),
	}
}

// Active reports whether a light was selected for this caster.
func (c *ShadowCaster) Active() bool {
	return c.Light != nil
}

// Project maps a world point into shadow map space.
func (c *ShadowCaster) Project(p math3d.Vec3) render.ScreenVertex {
	return c.Frustum.Screenport(c.Matrix.MulVec4(math3d.Point(p)))
}

// Shadowed reports whether a point at light-space position (x, y, z) lies
// behind the nearest occluder in the map.
func (c *ShadowCaster) Shadowed(x, y int, z fixed.Fixed) bool {
	return c.Map.At(x, y) < z
}

func (c *ShadowCaster) attach(l *models.Light) {
	c.Light = l
	if l == nil {
		return
	}
	if l.Type == models.LightSpot {
		c.Frustum.SetFocalLength(math3d.FocalLengthForFOV(l.SpotSize))
	}
	c.Matrix = c.Frustum.ProjectionMatrix().Mul(l.Transform.ViewMatrix())
	c.Map.Clear()
}

// FrameContext is the state every shader instance reads during a pass:
// the camera and its matrices, the render target, the lights, and the
// shadow casters selected for the frame. It is written only between
// passes.
type FrameContext struct {
	Camera         *render.Camera
	Target         *render.Framebuffer
	Lights         []*models.Light
	View           math3d.Mat4
	ViewProjection math3d.Mat4
	LightRange     fixed.Fixed
	// Serial changes on every Setup. It is never zero after the first.
	Serial uint64

	Directional ShadowCaster
	Spot        ShadowCaster

	ready bool
}

// NewFrameContext allocates a context with shadow maps of the given sizes.
func NewFrameContext(directionalSize, spotSize int, lightRange fixed.Fixed) *FrameContext {
	return &FrameContext{
		LightRange:  lightRange,
		Directional: newShadowCaster(models.LightDirectional, directionalSize),
		Spot:        newShadowCaster(models.LightSpot, spotSize),
	}
}

// Setup prepares the context for rendering cam into target. It culls
// lights beyond LightRange, picks the shadow casters and clears their
// maps.
func (c *FrameContext) Setup(cam *render.Camera, lights []*models.Light, target *render.Framebuffer) {
	c.Camera = cam
	c.Target = target
	c.Lights = lights
	c.View = cam.ViewMatrix()
	c.ViewProjection = cam.Frustum.ProjectionMatrix().Mul(c.View)
	c.Serial++

	eye := cam.Transform.Location
	var sun, spot *models.Light
	spotDist := fixed.Max
	for _, l := range lights {
		d := l.Transform.Location.Distance(eye)
		// Directional lights have no position worth measuring.
		l.Culled = l.Type != models.LightDirectional && d > c.LightRange
		if !l.Active || l.Culled || !l.Shadows {
			continue
		}
		switch l.Type {
		case models.LightDirectional:
			if sun == nil || (l.Main && !sun.Main) {
				sun = l
			}
		case models.LightSpot:
			if spot == nil || (l.Main && !spot.Main) || (l.Main == spot.Main && d < spotDist) {
				spot, spotDist = l, d
			}
		}
	}
	c.Directional.attach(sun)
	c.Spot.attach(spot)
	c.ready = true
}

// Caster returns the shadow caster for a light type, or nil when the type
// casts no shadow maps.
func (c *FrameContext) Caster(kind models.LightType) *ShadowCaster {
	switch kind {
	case models.LightDirectional:
		return &c.Directional
	case models.LightSpot:
		return &c.Spot
	}
	return nil
}

// Validate reports whether the context can be used for a pass.
func (c *FrameContext) Validate() error {
	if !c.ready || c.Camera == nil || c.Target == nil {
		return ErrFrameNotReady
	}
	return nil
}

// Reset marks the context stale until the next Setup.
func (c *FrameContext) Reset() {
	c.ready = false
}
