package render

import (
	"image"
	"testing"

	"github.com/taigrr/softshade/pkg/fixed"
	"github.com/taigrr/softshade/pkg/math3d"
)

func TestPlaneDistanceToPoint(t *testing.T) {
	// Plane at Z=0, normal pointing +Z
	plane := Plane{Normal: math3d.V3(0, 0, fixed.One), D: 0}

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected fixed.Fixed
	}{
		{"origin", math3d.V3i(0, 0, 0), 0},
		{"in front", math3d.V3i(0, 0, 5), fixed.FromInt(5)},
		{"behind", math3d.V3i(0, 0, -3), fixed.FromInt(-3)},
		{"offset XY", math3d.V3i(10, -5, 2), fixed.FromInt(2)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if dist := plane.DistanceToPoint(tc.point); dist != tc.expected {
				t.Errorf("got %v, want %v", dist, tc.expected)
			}
		})
	}
}

func TestPlaneNormalize(t *testing.T) {
	plane := Plane{Normal: math3d.V3i(0, 3, 4), D: fixed.FromInt(10)}
	plane.Normalize()

	const tol = 2
	if l := plane.Normal.Len(); fixed.Abs(l-fixed.One) > tol {
		t.Errorf("normalized normal length = %v, want 1.0", l)
	}
	if fixed.Abs(plane.Normal.Y-fixed.FromFloat(0.6)) > tol {
		t.Errorf("normal.Y = %v, want 0.6", plane.Normal.Y)
	}
	if fixed.Abs(plane.Normal.Z-fixed.FromFloat(0.8)) > tol {
		t.Errorf("normal.Z = %v, want 0.8", plane.Normal.Z)
	}
	if plane.D != fixed.FromInt(2) {
		t.Errorf("D = %v, want 2.0", plane.D)
	}
}

func TestAABBBasics(t *testing.T) {
	box := NewAABB(math3d.V3i(-1, -2, -3), math3d.V3i(1, 2, 3))

	if c := box.Center(); c != math3d.Zero3() {
		t.Errorf("center = %v, want (0, 0, 0)", c)
	}
	if s := box.Size(); s != math3d.V3i(2, 4, 6) {
		t.Errorf("size = %v, want (2, 4, 6)", s)
	}
}

func TestAABBContainsPoint(t *testing.T) {
	box := NewAABB(math3d.V3i(0, 0, 0), math3d.V3i(10, 10, 10))

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected bool
	}{
		{"center", math3d.V3i(5, 5, 5), true},
		{"corner min", math3d.V3i(0, 0, 0), true},
		{"corner max", math3d.V3i(10, 10, 10), true},
		{"edge", math3d.V3i(5, 0, 5), true},
		{"outside X", math3d.V3i(11, 5, 5), false},
		{"outside Y", math3d.V3i(5, -1, 5), false},
		{"outside Z", math3d.V3i(5, 5, 15), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := box.ContainsPoint(tc.point); got != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.expected)
			}
		})
	}
}

func TestAABBTransform(t *testing.T) {
	box := NewAABB(math3d.V3i(-1, -1, -1), math3d.V3i(1, 1, 1))

	t.Run("translation", func(t *testing.T) {
		got := box.Transform(math3d.Translate(math3d.V3i(10, 20, 30)))
		if got.Min != math3d.V3i(9, 19, 29) || got.Max != math3d.V3i(11, 21, 31) {
			t.Errorf("translated = %v, want (9,19,29)-(11,21,31)", got)
		}
	})

	t.Run("scale", func(t *testing.T) {
		got := box.Transform(math3d.ScaleUniform(fixed.FromInt(2)))
		if got.Min != math3d.V3i(-2, -2, -2) || got.Max != math3d.V3i(2, 2, 2) {
			t.Errorf("scaled = %v, want (-2,-2,-2)-(2,2,2)", got)
		}
	})

	t.Run("rotation", func(t *testing.T) {
		got := box.Transform(math3d.RotateY(fixed.FromInt(45)))
		// The rotated cube's corners reach sqrt(2) along X.
		if got.Max.X < fixed.FromFloat(1.4) || got.Min.X > fixed.FromFloat(-1.4) {
			t.Errorf("rotated = %v, want |x| ~ 1.41", got)
		}
	})
}

// originPlanes returns the planes of a camera at the origin looking down -Z.
func originPlanes() Planes {
	f := NewFullFrustum(fixed.One, fixed.FromInt(100), 160, 120)
	return f.Planes(math3d.Identity())
}

func TestPlanesNormalized(t *testing.T) {
	p := originPlanes()
	for i, plane := range p {
		if l := plane.Normal.Len(); fixed.Abs(l-fixed.One) > 4 {
			t.Errorf("plane %d normal length = %v, want 1.0", i, l)
		}
	}
}

func TestPlanesContainsPoint(t *testing.T) {
	p := originPlanes()

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected bool
	}{
		{"center near", math3d.V3i(0, 0, -2), true},
		{"center mid", math3d.V3i(0, 0, -50), true},
		{"center far", math3d.V3i(0, 0, -99), true},
		{"behind camera", math3d.V3i(0, 0, 1), false},
		{"too far", math3d.V3i(0, 0, -200), false},
		{"too close", math3d.V3(0, 0, -fixed.Half), false},
		{"far right", math3d.V3i(100, 0, -10), false},
		{"far above", math3d.V3i(0, 100, -10), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.ContainsPoint(tc.point); got != tc.expected {
				t.Errorf("ContainsPoint(%v) = %v, want %v", tc.point, got, tc.expected)
			}
		})
	}
}

func TestPlanesIntersectAABB(t *testing.T) {
	p := originPlanes()

	tests := []struct {
		name     string
		box      AABB
		expected bool
	}{
		{"fully inside", NewAABB(math3d.V3i(-1, -1, -10), math3d.V3i(1, 1, -5)), true},
		{"crosses near plane", NewAABB(math3d.V3i(-1, -1, -2), math3d.V3i(1, 1, 2)), true},
		{"behind camera", NewAABB(math3d.V3i(-1, -1, 5), math3d.V3i(1, 1, 10)), false},
		{"beyond far plane", NewAABB(math3d.V3i(-1, -1, -150), math3d.V3i(1, 1, -120)), false},
		{"far to the right", NewAABB(math3d.V3i(100, -1, -10), math3d.V3i(110, 1, -5)), false},
		{"contains frustum", NewAABB(math3d.V3i(-200, -200, -200), math3d.V3i(200, 200, 200)), true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.IntersectAABB(tc.box); got != tc.expected {
				t.Errorf("IntersectAABB(%v) = %v, want %v", tc.box, got, tc.expected)
			}
		})
	}
}

func TestPlanesIntersectsSphere(t *testing.T) {
	p := originPlanes()

	tests := []struct {
		name     string
		center   math3d.Vec3
		expected bool
	}{
		{"inside", math3d.V3i(0, 0, -10), true},
		{"touching near plane", math3d.V3(0, 0, -fixed.Half), true},
		{"behind", math3d.V3i(0, 0, 5), false},
		{"far behind", math3d.V3i(0, 0, 20), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := p.IntersectsSphere(tc.center, fixed.One); got != tc.expected {
				t.Errorf("IntersectsSphere(%v) = %v, want %v", tc.center, got, tc.expected)
			}
		})
	}
}

func TestFrustumViewport(t *testing.T) {
	f := NewFrustum(fixed.Half, fixed.One, 0, fixed.Half, fixed.One, fixed.FromInt(10), 200, 100)
	if got, want := f.Viewport(), image.Rect(100, 0, 200, 50); got != want {
		t.Errorf("Viewport() = %v, want %v", got, want)
	}

	f.SetScreenSize(400, 200)
	if got, want := f.Viewport(), image.Rect(200, 0, 400, 100); got != want {
		t.Errorf("Viewport() after resize = %v, want %v", got, want)
	}

	sv := f.Project(math3d.V3i(0, 0, -5))
	if sv.X != 300 || sv.Y != 50 {
		t.Errorf("center projects to (%d, %d), want (300, 50)", sv.X, sv.Y)
	}
}

func TestScreenportPerspective(t *testing.T) {
	f := NewFullFrustum(fixed.One, fixed.FromInt(100), 100, 100)

	tests := []struct {
		name string
		in   math3d.Vec3
		x, y int
	}{
		{"center", math3d.V3i(0, 0, -5), 50, 50},
		{"right", math3d.V3i(1, 0, -4), 75, 50},
		{"up is screen top", math3d.V3i(0, 1, -4), 50, 25},
		{"further is smaller", math3d.V3i(1, 0, -8), 63, 50},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sv := f.Project(tt.in)
			if sv.X != tt.x || sv.Y != tt.y {
				t.Errorf("Project(%v) = (%d, %d), want (%d, %d)", tt.in, sv.X, sv.Y, tt.x, tt.y)
			}
			dist := -tt.in.Z
			if sv.Z != dist || sv.W != dist {
				t.Errorf("Z, W = %v, %v, want both %v", sv.Z, sv.W, dist)
			}
		})
	}
}

func TestScreenportOrthographic(t *testing.T) {
	f := NewFullFrustum(fixed.One, fixed.FromInt(100), 100, 100)
	f.SetProjection(Orthographic)
	f.SetFocalLength(fixed.Ratio(1, 10))

	sv := f.Project(math3d.V3i(1, 2, -7))
	if sv.X != 60 || sv.Y != 30 {
		t.Errorf("Project = (%d, %d), want (60, 30)", sv.X, sv.Y)
	}
	if sv.Z != fixed.FromInt(7) || sv.W != fixed.One {
		t.Errorf("Z, W = %v, %v, want 7, 1", sv.Z, sv.W)
	}

	// Distance does not change the size under orthographic projection.
	if far := f.Project(math3d.V3i(1, 2, -70)); far.X != sv.X || far.Y != sv.Y {
		t.Errorf("far point = (%d, %d), want (%d, %d)", far.X, far.Y, sv.X, sv.Y)
	}
}

func TestFrustumContains(t *testing.T) {
	f := NewFullFrustum(fixed.One, fixed.FromInt(100), 100, 100)

	tests := []struct {
		name string
		sv   ScreenVertex
		want bool
	}{
		{"inside", ScreenVertex{X: 50, Y: 50, Z: fixed.FromInt(5)}, true},
		{"left edge", ScreenVertex{X: 0, Y: 50, Z: fixed.FromInt(5)}, true},
		{"right edge", ScreenVertex{X: 100, Y: 50, Z: fixed.FromInt(5)}, false},
		{"too near", ScreenVertex{X: 50, Y: 50, Z: fixed.Half}, false},
		{"at near", ScreenVertex{X: 50, Y: 50, Z: fixed.One}, false},
		{"too far", ScreenVertex{X: 50, Y: 50, Z: fixed.FromInt(100)}, false},
		{"above", ScreenVertex{X: 50, Y: -1, Z: fixed.FromInt(5)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := f.Contains(tt.sv); got != tt.want {
				t.Errorf("Contains(%+v) = %v, want %v", tt.sv, got, tt.want)
			}
		})
	}
}

func TestCameraWorldToScreen(t *testing.T) {
	cam := NewCamera("main", 100, 100)
	cam.SetPosition(math3d.V3i(0, 0, 10))
	cam.LookAt(math3d.Zero3())

	sv, ok := cam.WorldToScreen(math3d.Zero3())
	if !ok {
		t.Fatal("origin should be visible")
	}
	if sv.X != 50 || sv.Y != 50 || sv.Z != fixed.FromInt(10) {
		t.Errorf("origin = %+v, want center at distance 10", sv)
	}

	if _, ok := cam.WorldToScreen(math3d.V3i(0, 0, 20)); ok {
		t.Error("point behind the camera should not be visible")
	}
}

func TestCameraYaw(t *testing.T) {
	cam := NewCamera("main", 100, 100)
	cam.SetRotation(0, fixed.FromInt(90), 0)

	if fwd := cam.Forward(); fwd.X > -fixed.One+4 {
		t.Errorf("Forward() = %v, want -X", fwd)
	}

	sv, ok := cam.WorldToScreen(math3d.V3i(-10, 0, 0))
	if !ok || sv.X != 50 || sv.Y != 50 {
		t.Errorf("point along -X = %+v (visible %v), want center", sv, ok)
	}
}

func TestCameraRotateClampsPitch(t *testing.T) {
	cam := NewCamera("main", 10, 10)
	cam.Rotate(fixed.FromInt(200), 0, 0)
	if got := cam.Transform.Rotation.X; got != maxPitch {
		t.Errorf("pitch = %v, want %v", got, maxPitch)
	}
}

func BenchmarkPlanesIntersectAABB(b *testing.B) {
	p := originPlanes()
	box := NewAABB(math3d.V3i(-1, -1, -10), math3d.V3i(1, 1, -5))

	for b.Loop() {
		_ = p.IntersectAABB(box)
	}
}

func BenchmarkPlanesExtraction(b *testing.B) {
	cam := NewCamera("bench", 160, 120)
	cam.SetPosition(math3d.V3i(0, 10, 20))
	cam.LookAt(math3d.Zero3())
	view := cam.ViewMatrix()

	for b.Loop() {
		_ = cam.Frustum.Planes(view)
	}
}

func BenchmarkAABBTransform(b *testing.B) {
	box := NewAABB(math3d.V3i(-1, -1, -1), math3d.V3i(1, 1, 1))
	trans := math3d.Translate(math3d.V3i(10, 0, 0)).Mul(math3d.RotateY(fixed.FromInt(30)))

	for b.Loop() {
		_ = box.Transform(trans)
	}
}
