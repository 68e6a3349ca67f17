package models

import (
	"testing"

	"github.com/taigrr/softshade/pkg/fixed"
	"github.com/taigrr/softshade/pkg/math3d"
	"github.com/taigrr/softshade/pkg/render"
)

func TestLightDefaults(t *testing.T) {
	l := NewLight("sun", LightDirectional)

	if !l.Active || !l.Shadows {
		t.Error("new lights should be active and cast shadows")
	}
	if l.Ambient != render.ColorAmbient {
		t.Errorf("ambient = %v, want %v", l.Ambient, render.ColorAmbient)
	}
	if l.Constant != fixed.One {
		t.Errorf("constant attenuation = %v, want 1", l.Constant)
	}
	if l.ShadowBias != DirectionalBias {
		t.Errorf("bias = %v, want directional default", l.ShadowBias)
	}
	if got := l.Direction(); got != math3d.Forward() {
		t.Errorf("direction = %v, want forward", got)
	}
}

func TestLightSetTypeBias(t *testing.T) {
	l := NewLight("spot", LightSpot)
	if l.ShadowBias != SpotBias {
		t.Errorf("spot bias = %v, want %v", l.ShadowBias, SpotBias)
	}

	l.ShadowBias = fixed.One
	l.SetType(LightDirectional)
	if l.ShadowBias != fixed.One {
		t.Errorf("custom bias replaced with %v", l.ShadowBias)
	}
}

func TestSpotIntensity(t *testing.T) {
	l := NewLight("spot", LightSpot)

	tests := []struct {
		name  string
		angle int // Off-axis angle in degrees
		want  fixed.Fixed
	}{
		{"on axis", 0, fixed.One},
		{"inside inner cone", 15, fixed.One},
		{"outside outer cone", 30, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := l.SpotIntensity(fixed.Cos(fixed.FromInt(tt.angle))); got != tt.want {
				t.Errorf("SpotIntensity(cos %d) = %v, want %v", tt.angle, got, tt.want)
			}
		})
	}

	// Between the cones the light fades.
	mid := l.SpotIntensity(fixed.Cos(fixed.FromInt(20)))
	if mid <= 0 || mid >= fixed.One {
		t.Errorf("fade at 20 degrees = %v, want strictly between 0 and 1", mid)
	}
}

func TestAttenuation(t *testing.T) {
	l := NewLight("bulb", LightPoint)

	if got := l.Attenuation(0); got != fixed.One {
		t.Errorf("Attenuation(0) = %v, want 1", got)
	}

	// 1 / (1 + 0.09*10 + 0.032*100) = 1/5.1
	got := l.Attenuation(fixed.FromInt(10)).Float()
	if want := 1 / 5.1; got < want-0.002 || got > want+0.002 {
		t.Errorf("Attenuation(10) = %v, want %v", got, want)
	}

	var prev fixed.Fixed = fixed.Max
	for d := range 50 {
		a := l.Attenuation(fixed.FromInt(d))
		if a > prev {
			t.Fatalf("attenuation rises at distance %d", d)
		}
		prev = a
	}
}

func TestLightTypeString(t *testing.T) {
	if LightSpot.String() != "spot" || LightType(9).String() != "unknown" {
		t.Error("unexpected LightType names")
	}
}
