package main

import (
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/spf13/pflag"

	"github.com/taigrr/softshade/pkg/fixed"
	"github.com/taigrr/softshade/pkg/math3d"
	"github.com/taigrr/softshade/pkg/models"
	"github.com/taigrr/softshade/pkg/render"
	"github.com/taigrr/softshade/pkg/shading"
)

// colorValue is a pflag.Value holding a hex color such as "#87ceeb".
type colorValue struct {
	c render.Color
}

var _ pflag.Value = (*colorValue)(nil)

func newColorValue(c render.Color) *colorValue {
	return &colorValue{c: c}
}

func (v *colorValue) String() string {
	return colorful.Color{
		R: float64(v.c.R) / 255,
		G: float64(v.c.G) / 255,
		B: float64(v.c.B) / 255,
	}.Hex()
}

func (v *colorValue) Set(s string) error {
	c, err := colorful.Hex(s)
	if err != nil {
		return fmt.Errorf("parse color %q: %w", s, err)
	}
	r, g, b := c.Clamped().RGB255()
	v.c = render.RGB(r, g, b)
	return nil
}

func (v *colorValue) Type() string {
	return "color"
}

// sceneOptions holds the flags shared by render and view.
type sceneOptions struct {
	width, height int
	workers       int
	fov           float64
	texturePath   string
	unlit         bool
	lightColor    *colorValue
	background    *colorValue
}

func newSceneOptions() *sceneOptions {
	return &sceneOptions{
		width:      320,
		height:     240,
		fov:        60,
		lightColor: newColorValue(render.ColorWhite),
		background: newColorValue(render.ColorSky),
	}
}

func (o *sceneOptions) register(fs *pflag.FlagSet) {
	fs.IntVar(&o.workers, "workers", 0, "render goroutines (0 = one per CPU)")
	fs.Float64Var(&o.fov, "fov", o.fov, "vertical field of view in degrees")
	fs.StringVar(&o.texturePath, "texture", "", "texture image applied to the model")
	fs.BoolVar(&o.unlit, "unlit", false, "draw the model without lighting")
	fs.Var(o.lightColor, "light-color", "light color")
	fs.Var(o.background, "background", "background color")
}

func (o *sceneOptions) pipeline() *shading.Pipeline {
	return shading.New(
		shading.WithWorkers(o.workers),
		shading.WithBackground(o.background.c),
	)
}

// demo is the scene both commands draw: a model floating over a ground
// plane, lit by a sun and a spot light.
type demo struct {
	scene  *shading.Scene
	model  *models.Model
	camera *render.Camera
}

var modelHeight = fixed.FromFloat(1.2)

func buildScene(o *sceneOptions, pipe *shading.Pipeline, modelPath string) (*demo, error) {
	var mesh *models.Mesh
	if modelPath != "" {
		m, err := models.LoadGLB(modelPath)
		if err != nil {
			return nil, fmt.Errorf("load model: %w", err)
		}
		mesh = m
	} else {
		mesh = models.Box("box", fixed.FromInt(2))
		mesh.Materials[0].Diffuse = render.RGB(200, 200, 200)
	}
	mesh.Normalize(fixed.FromInt(2))

	if o.texturePath != "" || o.unlit {
		ensureMaterial(mesh)
	}
	if o.texturePath != "" {
		tex, err := render.LoadTexture(o.texturePath)
		if err != nil {
			return nil, fmt.Errorf("load texture: %w", err)
		}
		for i := range mesh.Materials {
			mesh.Materials[i].Texture = tex
		}
	}
	if o.unlit {
		idx := pipe.AddShader(shading.NewUnlitShader())
		for i := range mesh.Materials {
			mesh.Materials[i].Shader = idx
		}
	}

	model := models.NewModel(mesh.Name, mesh)
	model.Transform.Location = math3d.V3(0, modelHeight, 0)

	ground := models.NewModel("ground", models.Plane("ground", fixed.FromInt(20), 8))
	ground.Mesh.Materials[0].Diffuse = render.ColorGrass

	focus := math3d.V3(0, fixed.One, 0)

	sun := models.NewLight("sun", models.LightDirectional)
	sun.Transform.Rotation = math3d.V3i(-60, 30, 0)
	sun.Transform.Location = focus.Sub(sun.Direction().Scale(fixed.FromInt(30)))
	sun.Color = o.lightColor.c
	sun.Main = true

	spot := models.NewLight("spot", models.LightSpot)
	spot.Transform.Location = math3d.V3i(4, 6, 4)
	aim(&spot.Transform, focus)
	spot.Color = o.lightColor.c

	cam := render.NewCamera("main", o.width, o.height)
	cam.SetFOV(fixed.FromFloat(o.fov))
	cam.SetPosition(math3d.V3i(0, 4, 7))
	cam.LookAt(focus)

	return &demo{
		scene: &shading.Scene{
			Models:  []*models.Model{ground, model},
			Cameras: []*render.Camera{cam},
			Lights:  []*models.Light{sun, spot},
		},
		model:  model,
		camera: cam,
	}, nil
}

// ensureMaterial gives a mesh without materials one of its own, so edits
// never touch models.DefaultMaterial.
func ensureMaterial(mesh *models.Mesh) {
	if len(mesh.Materials) > 0 {
		return
	}
	mesh.AddMaterial(models.NewMaterial(mesh.Name))
	for i := range mesh.Faces {
		mesh.Faces[i].Material = 0
	}
	for i := range mesh.Vertices {
		mesh.Vertices[i].Material = 0
	}
}

// aim turns a transform so its forward axis points at target.
func aim(t *math3d.Transform, target math3d.Vec3) {
	dir := target.Sub(t.Location).Normalize()
	t.Rotation = math3d.V3(fixed.Asin(dir.Y), fixed.Atan2(-dir.X, -dir.Z), 0)
}
