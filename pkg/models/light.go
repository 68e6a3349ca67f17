package models

import (
	"github.com/taigrr/softshade/pkg/fixed"
	"github.com/taigrr/softshade/pkg/math3d"
	"github.com/taigrr/softshade/pkg/render"
)

// LightType selects how a light illuminates the scene.
type LightType int

const (
	LightDirectional LightType = iota // Parallel rays along the light's forward axis
	LightPoint                        // Omnidirectional, attenuated by distance
	LightSpot                         // Point light limited to a cone
)

func (t LightType) String() string {
	switch t {
	case LightDirectional:
		return "directional"
	case LightPoint:
		return "point"
	case LightSpot:
		return "spot"
	default:
		return "unknown"
	}
}

// Default shadow biases, in world units of depth.
var (
	DirectionalBias = fixed.Ratio(1, 10)
	SpotBias        = fixed.Ratio(2, 10)
)

// Light is a light source. Directional and spot lights shine along
// Transform.Forward.
type Light struct {
	Name      string
	Type      LightType
	Transform math3d.Transform
	Color     render.Color
	Ambient   render.Color
	Intensity fixed.Fixed

	// Attenuation is One / (Constant + Linear*d + Quadratic*d*d).
	Constant  fixed.Fixed
	Linear    fixed.Fixed
	Quadratic fixed.Fixed

	// Full cone angles in degrees. Light fades between the inner and
	// outer cone.
	SpotSize      fixed.Fixed
	InnerSpotSize fixed.Fixed

	ShadowBias fixed.Fixed
	Shadows    bool
	Main       bool // Preferred shadow caster of its type
	Active     bool
	Culled     bool // Set per frame when the light is out of range
}

// NewLight creates an active, shadow-casting white light.
func NewLight(name string, kind LightType) *Light {
	l := &Light{
		Name:          name,
		Transform:     math3d.NewTransform(),
		Color:         render.ColorWhite,
		Ambient:       render.ColorAmbient,
		Intensity:     fixed.One,
		Constant:      fixed.One,
		Linear:        fixed.FromFloat(0.09),
		Quadratic:     fixed.FromFloat(0.032),
		SpotSize:      fixed.FromInt(45),
		InnerSpotSize: fixed.FromInt(35),
		ShadowBias:    DirectionalBias,
		Shadows:       true,
		Active:        true,
	}
	l.SetType(kind)
	return l
}

// SetType changes the light type. A bias still at the default of the old
// type is switched to the default of the new one.
func (l *Light) SetType(kind LightType) {
	l.Type = kind
	if l.ShadowBias != DirectionalBias && l.ShadowBias != SpotBias {
		return
	}
	switch kind {
	case LightDirectional:
		l.ShadowBias = DirectionalBias
	case LightSpot:
		l.ShadowBias = SpotBias
	}
}

// Direction returns the unit direction the light shines along.
func (l *Light) Direction() math3d.Vec3 {
	return l.Transform.Forward()
}

// SpotSizeCos returns the cosine of half the outer cone angle.
func (l *Light) SpotSizeCos() fixed.Fixed {
	return fixed.Cos(l.SpotSize / 2)
}

// InnerSpotSizeCos returns the cosine of half the inner cone angle.
func (l *Light) InnerSpotSizeCos() fixed.Fixed {
	return fixed.Cos(l.InnerSpotSize / 2)
}

// SpotSoftness returns the cosine range over which the cone fades out.
func (l *Light) SpotSoftness() fixed.Fixed {
	return max(l.InnerSpotSizeCos()-l.SpotSizeCos(), 1)
}

// SpotIntensity returns the cone factor for theta, the cosine between the
// spot axis and the direction from the light to the lit point.
func (l *Light) SpotIntensity(theta fixed.Fixed) fixed.Fixed {
	return fixed.Clamp((theta - l.SpotSizeCos()).Div(l.SpotSoftness()), 0, fixed.One)
}

// Attenuation returns the distance falloff factor at distance d. The
// coefficients must not all be zero.
func (l *Light) Attenuation(d fixed.Fixed) fixed.Fixed {
	return fixed.One.Div(l.Constant + l.Linear.Mul(d) + l.Quadratic.Mul(d.Mul(d)))
}
