package models

import (
	"github.com/taigrr/softshade/pkg/math3d"
	"github.com/taigrr/softshade/pkg/render"
)

// Model places a mesh in the world.
type Model struct {
	Name      string
	Mesh      *Mesh
	Transform math3d.Transform
	Active    bool
}

// NewModel creates an active model at the origin.
func NewModel(name string, mesh *Mesh) *Model {
	return &Model{
		Name:      name,
		Mesh:      mesh,
		Transform: math3d.NewTransform(),
		Active:    true,
	}
}

// WorldBounds returns the mesh bounds moved into world space.
func (m *Model) WorldBounds() render.AABB {
	return m.Mesh.Bounds().Transform(m.Transform.ModelMatrix())
}

// UpdateWorld writes the world-space location and normal of every vertex
// and the world normal of every face.
func (m *Model) UpdateWorld() {
	model := m.Transform.ModelMatrix()
	normal := m.Transform.NormalMatrix()

	mesh := m.Mesh
	for i := range mesh.Vertices {
		v := &mesh.Vertices[i]
		v.WorldLocation = model.MulVec3(v.Location)
		v.WorldNormal = normal.MulVec3Dir(v.Normal).Normalize()
	}
	for i := range mesh.Faces {
		f := &mesh.Faces[i]
		f.WorldNormal = normal.MulVec3Dir(f.Normal).Normalize()
	}
}
