package shading

import (
	"errors"
	"testing"

	"github.com/taigrr/softshade/pkg/fixed"
	"github.com/taigrr/softshade/pkg/math3d"
	"github.com/taigrr/softshade/pkg/models"
	"github.com/taigrr/softshade/pkg/render"
)

func newTestFrame() (*FrameContext, *render.Camera, *render.Framebuffer) {
	frame := NewFrameContext(64, 32, DefaultLightRange)
	cam := render.NewCamera("test", 32, 24)
	target := render.NewFramebuffer(32, 24)
	return frame, cam, target
}

func TestFrameContextValidate(t *testing.T) {
	frame, cam, target := newTestFrame()

	if err := frame.Validate(); !errors.Is(err, ErrFrameNotReady) {
		t.Fatalf("Validate() before Setup = %v, want ErrFrameNotReady", err)
	}

	frame.Setup(cam, nil, target)
	if err := frame.Validate(); err != nil {
		t.Fatalf("Validate() after Setup = %v", err)
	}

	frame.Reset()
	if err := frame.Validate(); !errors.Is(err, ErrFrameNotReady) {
		t.Fatalf("Validate() after Reset = %v, want ErrFrameNotReady", err)
	}
}

func TestFrameContextCasterSelection(t *testing.T) {
	at := func(name string, kind models.LightType, x int) *models.Light {
		l := models.NewLight(name, kind)
		l.Transform.Location = math3d.V3i(x, 0, 0)
		return l
	}

	tests := []struct {
		name     string
		lights   func() []*models.Light
		wantSun  string
		wantSpot string
	}{
		{
			name: "nearest spot",
			lights: func() []*models.Light {
				return []*models.Light{at("far", models.LightSpot, 50), at("near", models.LightSpot, 5)}
			},
			wantSpot: "near",
		},
		{
			name: "main spot wins over nearer",
			lights: func() []*models.Light {
				main := at("main", models.LightSpot, 50)
				main.Main = true
				return []*models.Light{at("near", models.LightSpot, 5), main}
			},
			wantSpot: "main",
		},
		{
			name: "spot out of range",
			lights: func() []*models.Light {
				return []*models.Light{at("distant", models.LightSpot, 500)}
			},
		},
		{
			name: "directional ignores range",
			lights: func() []*models.Light {
				return []*models.Light{at("sun", models.LightDirectional, 500)}
			},
			wantSun: "sun",
		},
		{
			name: "main directional",
			lights: func() []*models.Light {
				main := at("main", models.LightDirectional, 0)
				main.Main = true
				return []*models.Light{at("first", models.LightDirectional, 0), main}
			},
			wantSun: "main",
		},
		{
			name: "shadowless and inactive lights are skipped",
			lights: func() []*models.Light {
				off := at("off", models.LightDirectional, 0)
				off.Active = false
				flat := at("flat", models.LightSpot, 0)
				flat.Shadows = false
				return []*models.Light{off, flat}
			},
		},
		{
			name: "point lights cast no maps",
			lights: func() []*models.Light {
				return []*models.Light{at("bulb", models.LightPoint, 0)}
			},
		},
	}

	name := func(c *ShadowCaster) string {
		if !c.Active() {
			return ""
		}
		return c.Light.Name
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			frame, cam, target := newTestFrame()
			frame.Setup(cam, tt.lights(), target)
			if got := name(&frame.Directional); got != tt.wantSun {
				t.Errorf("directional caster = %q, want %q", got, tt.wantSun)
			}
			if got := name(&frame.Spot); got != tt.wantSpot {
				t.Errorf("spot caster = %q, want %q", got, tt.wantSpot)
			}
		})
	}
}

func TestFrameContextCullsDistantLights(t *testing.T) {
	frame, cam, target := newTestFrame()
	near := models.NewLight("near", models.LightPoint)
	far := models.NewLight("far", models.LightPoint)
	far.Transform.Location = math3d.V3i(0, 0, 200)

	frame.Setup(cam, []*models.Light{near, far}, target)
	if near.Culled {
		t.Error("light at the camera was culled")
	}
	if !far.Culled {
		t.Error("light beyond range was not culled")
	}

	frame.LightRange = fixed.FromInt(500)
	frame.Setup(cam, []*models.Light{near, far}, target)
	if far.Culled {
		t.Error("light within the widened range stayed culled")
	}
}

func TestShadowCasterShadowed(t *testing.T) {
	frame, cam, target := newTestFrame()
	sun := models.NewLight("sun", models.LightDirectional)
	frame.Setup(cam, []*models.Light{sun}, target)

	c := &frame.Directional
	for _, v := range c.Map.Values {
		if v != render.FarDepth {
			t.Fatal("Setup did not clear the shadow map")
		}
	}

	c.Map.Set(3, 4, fixed.FromInt(10))

	tests := []struct {
		name string
		x, y int
		z    fixed.Fixed
		want bool
	}{
		{"behind occluder", 3, 4, fixed.FromInt(12), true},
		{"in front of occluder", 3, 4, fixed.FromInt(8), false},
		{"same depth", 3, 4, fixed.FromInt(10), false},
		{"empty texel", 5, 5, fixed.FromInt(900), false},
		{"outside map", -1, 4, fixed.FromInt(12), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := c.Shadowed(tt.x, tt.y, tt.z); got != tt.want {
				t.Errorf("Shadowed(%d, %d, %v) = %v, want %v", tt.x, tt.y, tt.z, got, tt.want)
			}
		})
	}
}

func TestShadowCasterProjection(t *testing.T) {
	frame, cam, target := newTestFrame()
	sun := models.NewLight("sun", models.LightDirectional)
	sun.Transform.Location = math3d.V3i(0, 20, 0)
	sun.Transform.Rotation = math3d.V3i(-90, 0, 0)
	frame.Setup(cam, []*models.Light{sun}, target)

	// 64 pixel map covering 64 world units: one pixel per unit.
	center := frame.Directional.Project(math3d.Zero3())
	if center.X != 32 || center.Y != 32 {
		t.Errorf("origin projects to (%d, %d), want (32, 32)", center.X, center.Y)
	}
	if center.Z != fixed.FromInt(20) {
		t.Errorf("origin depth = %v, want 20", center.Z)
	}

	off := frame.Directional.Project(math3d.V3i(4, 0, 0))
	if off.X != 36 {
		t.Errorf("(4, 0, 0) projects to x = %d, want 36", off.X)
	}
}

func TestProjectionsCachedPerSetup(t *testing.T) {
	frame, cam, target := newTestFrame()
	sun := models.NewLight("sun", models.LightDirectional)
	sun.Transform.Location = math3d.V3i(0, 20, 0)
	sun.Transform.Rotation = math3d.V3i(-90, 0, 0)
	lights := []*models.Light{sun}

	inst := &rasterInstance{}
	v := &models.Vertex{WorldLocation: math3d.V3i(0, 0, -10)}
	project := func() {
		inst.frame = frame
		inst.project(v)
		inst.lightSpace(v, models.DirectionalSlot, &frame.Directional)
	}

	frame.Setup(cam, lights, target)
	project()
	screen, light := v.Screen, v.LightSpace[models.DirectionalSlot]

	// A second pass in the same frame reuses the first projection.
	v.WorldLocation = math3d.V3i(2, 0, -10)
	project()
	if v.Screen != screen || v.LightSpace[models.DirectionalSlot] != light {
		t.Errorf("projections changed within one setup: screen %v -> %v, light %v -> %v",
			screen, v.Screen, light, v.LightSpace[models.DirectionalSlot])
	}

	frame.Setup(cam, lights, target)
	project()
	if v.Screen.X <= screen.X {
		t.Errorf("screen x after setup = %d, want right of %d", v.Screen.X, screen.X)
	}
	if got := v.LightSpace[models.DirectionalSlot].X; got <= light.X {
		t.Errorf("light-space x after setup = %d, want right of %d", got, light.X)
	}
}
