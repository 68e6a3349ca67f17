package models

import "github.com/taigrr/softshade/pkg/render"

// DefaultShader in Material.Shader selects the pipeline's default shader.
const DefaultShader = -1

// Material describes how a face is shaded.
type Material struct {
	Name      string
	Diffuse   render.Color
	Specular  render.Color
	Shininess int             // Specular exponent, 0 disables specular
	Texture   *render.Texture // Optional, sampled with the face UVs
	Shader    int             // Index into the pipeline's shaders, or DefaultShader
}

// DefaultMaterial is used by faces without a material.
var DefaultMaterial = NewMaterial("default")

// NewMaterial returns a white, non-specular material owned by the default
// shader.
func NewMaterial(name string) Material {
	return Material{
		Name:     name,
		Diffuse:  render.ColorWhite,
		Specular: render.ColorWhite,
		Shader:   DefaultShader,
	}
}
