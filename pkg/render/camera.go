package render

import (
	"github.com/taigrr/softshade/pkg/fixed"
	"github.com/taigrr/softshade/pkg/math3d"
)

// Camera is a viewpoint with its own frustum. Transform.Rotation holds
// pitch (X), yaw (Y) and roll (Z) in fixed-point degrees.
type Camera struct {
	Name      string
	Transform math3d.Transform
	Frustum   *Frustum
	Active    bool
}

// Default clip distances, in world units.
var (
	DefaultNear = fixed.Ratio(1, 10)
	DefaultFar  = fixed.FromInt(1000)
)

const maxPitch = 89 * fixed.One

// NewCamera creates an active perspective camera covering a width x height
// target.
func NewCamera(name string, width, height int) *Camera {
	return &Camera{
		Name:      name,
		Transform: math3d.NewTransform(),
		Frustum:   NewFullFrustum(DefaultNear, DefaultFar, width, height),
		Active:    true,
	}
}

// SetPosition sets the camera position.
func (c *Camera) SetPosition(pos math3d.Vec3) {
	c.Transform.Location = pos
}

// SetRotation sets pitch, yaw and roll in fixed-point degrees.
func (c *Camera) SetRotation(pitch, yaw, roll fixed.Fixed) {
	c.Transform.Rotation = math3d.V3(pitch, yaw, roll)
}

// SetFOV sets the vertical field of view in fixed-point degrees.
func (c *Camera) SetFOV(fov fixed.Fixed) {
	c.Frustum.SetFocalLength(math3d.FocalLengthForFOV(fov))
}

// Forward returns the direction the camera looks along.
func (c *Camera) Forward() math3d.Vec3 {
	return c.Transform.Forward()
}

// ViewMatrix returns the world-to-camera matrix.
func (c *Camera) ViewMatrix() math3d.Mat4 {
	return c.Transform.ViewMatrix()
}

// ViewProjectionMatrix returns the combined world-to-clip matrix.
func (c *Camera) ViewProjectionMatrix() math3d.Mat4 {
	return c.Frustum.ProjectionMatrix().Mul(c.ViewMatrix())
}

// MoveForward moves the camera along its view direction.
func (c *Camera) MoveForward(distance fixed.Fixed) {
	c.Transform.Location = c.Transform.Location.Add(c.Forward().Scale(distance))
}

// Rotate rotates the camera by the given angles (in degrees).
func (c *Camera) Rotate(deltaPitch, deltaYaw, deltaRoll fixed.Fixed) {
	r := &c.Transform.Rotation
	r.X = fixed.Clamp(r.X+deltaPitch, -maxPitch, maxPitch)
	r.Y += deltaYaw
	r.Z += deltaRoll
}

// LookAt turns the camera toward a target point.
func (c *Camera) LookAt(target math3d.Vec3) {
	dir := target.Sub(c.Transform.Location).Normalize()
	c.Transform.Rotation = math3d.V3(
		fixed.Clamp(fixed.Asin(dir.Y), -maxPitch, maxPitch),
		fixed.Atan2(-dir.X, -dir.Z),
		0,
	)
}

// WorldToScreen projects a world point. visible is false when the point
// falls outside the viewport or clip distances.
func (c *Camera) WorldToScreen(p math3d.Vec3) (v ScreenVertex, visible bool) {
	v = c.Frustum.Screenport(c.ViewProjectionMatrix().MulVec4(math3d.Point(p)))
	return v, c.Frustum.Contains(v)
}
