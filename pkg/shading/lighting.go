package shading

import (
	"github.com/taigrr/softshade/pkg/fixed"
	"github.com/taigrr/softshade/pkg/math3d"
	"github.com/taigrr/softshade/pkg/models"
	"github.com/taigrr/softshade/pkg/render"
)

// VertexLight computes the lit color at a world position with the given
// normal. Every active light that survived range culling adds its diffuse
// and specular terms scaled by its intensity, then its ambient color
// unscaled. The sum does not depend on the order of lights.
func VertexLight(lights []*models.Light, eye, p, n math3d.Vec3, mat *models.Material) render.Color {
	n = n.Normalize()
	view := eye.Sub(p).Normalize()

	c := render.ColorBlack
	for _, l := range lights {
		if !l.Active || l.Culled {
			continue
		}
		c = render.AddColor(c, render.ScaleColor(lightContribution(l, p, n, view, mat), l.Intensity))
		c = render.AddColor(c, l.Ambient)
	}
	return c
}

func lightContribution(l *models.Light, p, n, view math3d.Vec3, mat *models.Material) render.Color {
	var dir math3d.Vec3 // Surface to light
	factor := fixed.One

	switch l.Type {
	case models.LightDirectional:
		dir = l.Direction().Negate()
	case models.LightPoint, models.LightSpot:
		toLight := l.Transform.Location.Sub(p)
		dir = toLight.Normalize()
		factor = l.Attenuation(toLight.Len())
		if l.Type == models.LightSpot {
			theta := dir.Dot(l.Direction().Negate())
			factor = factor.Mul(l.SpotIntensity(theta))
		}
	default:
		return render.ColorBlack
	}

	if factor <= 0 {
		return render.ColorBlack
	}

	diff := max(n.Dot(dir), 0)
	c := render.ModulateColor(render.ScaleColor(mat.Diffuse, diff), l.Color)

	if mat.Shininess > 0 {
		spec := max(dir.Negate().Reflect(n).Dot(view), 0)
		spec = fixed.Pow(spec, mat.Shininess)
		c = render.AddColor(c, render.ModulateColor(render.ScaleColor(mat.Specular, spec), l.Color))
	}

	if factor != fixed.One {
		c = render.ScaleColor(c, factor)
	}
	return c
}
