// Package models holds the scene data the softshade pipeline consumes:
// meshes with their vertices, faces and materials, placed models, and
// lights. It also carries the glTF import adapter and a few procedural
// meshes.
package models

import (
	"github.com/taigrr/softshade/pkg/fixed"
	"github.com/taigrr/softshade/pkg/math3d"
	"github.com/taigrr/softshade/pkg/render"
)

// Shadow map slots in Vertex.LightSpace.
const (
	DirectionalSlot = iota
	SpotSlot
	lightSlots
)

// Vertex is a mesh vertex. Location, Normal and Material persist for the
// life of the mesh; the remaining fields are rewritten every frame by the
// pipeline and its shaders.
type Vertex struct {
	Index    int
	Location math3d.Vec3 // Local space
	Normal   math3d.Vec3 // Local space
	Material int         // Index into Mesh.Materials, -1 for none

	WorldLocation math3d.Vec3
	WorldNormal   math3d.Vec3
	Screen        render.ScreenVertex
	LightColor    render.Color
	LightSpace    [lightSlots]render.ScreenVertex

	// Frame serials Screen and LightSpace were last computed for. Passes
	// sharing a serial reuse the projections.
	ScreenSerial uint64
	LightSerial  [lightSlots]uint64
}

// Face is a triangle referencing three vertices of its mesh.
type Face struct {
	Index    int
	V        [3]int // Indices into Mesh.Vertices
	Material int    // Index into Mesh.Materials, -1 for none
	Normal   math3d.Vec3
	UV       [3]math3d.Vec2

	WorldNormal math3d.Vec3
}

// Mesh is a triangle mesh with its materials.
type Mesh struct {
	Name      string
	Vertices  []Vertex
	Faces     []Face
	Materials []Material

	// Bounding box in local space
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// AddVertex appends a vertex and returns its index.
func (m *Mesh) AddVertex(location, normal math3d.Vec3) int {
	i := len(m.Vertices)
	m.Vertices = append(m.Vertices, Vertex{
		Index:    i,
		Location: location,
		Normal:   normal,
		Material: -1,
	})
	return i
}

// AddFace appends a triangle and returns its index. The face normal is
// derived from the vertex locations; call CalculateFaceNormals again if
// the vertices move.
func (m *Mesh) AddFace(v0, v1, v2, material int, uv [3]math3d.Vec2) int {
	i := len(m.Faces)
	f := Face{
		Index:    i,
		V:        [3]int{v0, v1, v2},
		Material: material,
		UV:       uv,
	}
	f.Normal = m.faceNormal(&f).Normalize()
	m.Faces = append(m.Faces, f)
	for _, vi := range f.V {
		if m.Vertices[vi].Material < 0 {
			m.Vertices[vi].Material = material
		}
	}
	return i
}

// AddMaterial appends a material and returns its index.
func (m *Mesh) AddMaterial(mat Material) int {
	m.Materials = append(m.Materials, mat)
	return len(m.Materials) - 1
}

// Material returns the material at index i, or DefaultMaterial when i is
// -1 or out of range.
func (m *Mesh) Material(i int) *Material {
	if i < 0 || i >= len(m.Materials) {
		return &DefaultMaterial
	}
	return &m.Materials[i]
}

// FaceMaterial returns the material of face i.
func (m *Mesh) FaceMaterial(i int) *Material {
	return m.Material(m.Faces[i].Material)
}

// CalculateBounds computes the local axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Location
	m.BoundsMax = m.Vertices[0].Location

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Location)
		m.BoundsMax = m.BoundsMax.Max(v.Location)
	}
}

// Bounds returns the local bounding box.
func (m *Mesh) Bounds() render.AABB {
	return render.NewAABB(m.BoundsMin, m.BoundsMax)
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(fixed.Half)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// faceNormal returns the unnormalized normal of f. Faces wind clockwise
// when seen from the front, so the normal is (v2-v0) x (v1-v0).
func (m *Mesh) faceNormal(f *Face) math3d.Vec3 {
	v0 := m.Vertices[f.V[0]].Location
	v1 := m.Vertices[f.V[1]].Location
	v2 := m.Vertices[f.V[2]].Location
	return v2.Sub(v0).Cross(v1.Sub(v0))
}

// CalculateFaceNormals recomputes every face normal from its vertices.
func (m *Mesh) CalculateFaceNormals() {
	for i := range m.Faces {
		m.Faces[i].Normal = m.faceNormal(&m.Faces[i]).Normalize()
	}
}

// CalculateFlatNormals assigns each face's normal to its vertices. Shared
// vertices end up with the normal of the last face touching them.
func (m *Mesh) CalculateFlatNormals() {
	m.CalculateFaceNormals()
	for _, f := range m.Faces {
		for _, vi := range f.V {
			m.Vertices[vi].Normal = f.Normal
		}
	}
}

// CalculateSmoothNormals sets every vertex normal to the average of the
// normals of the faces that share it.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Zero3()
	}

	m.CalculateFaceNormals()
	for _, f := range m.Faces {
		for _, vi := range f.V {
			m.Vertices[vi].Normal = m.Vertices[vi].Normal.Add(f.Normal)
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

// Transform bakes a transformation matrix into the local vertex data.
func (m *Mesh) Transform(mat math3d.Mat4) {
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.Location = mat.MulVec3(v.Location)
		v.Normal = mat.MulVec3Dir(v.Normal).Normalize()
	}
	m.CalculateFaceNormals()
	m.CalculateBounds()
}

// Normalize scales and moves the mesh so it fits a cube of edge length
// size centered at the origin.
func (m *Mesh) Normalize(size fixed.Fixed) {
	m.CalculateBounds()
	extent := m.Size()
	longest := max(extent.X, extent.Y, extent.Z)
	if longest == 0 {
		return
	}
	s := size.Div(longest)
	m.Transform(math3d.ScaleUniform(s).Mul(math3d.Translate(m.Center().Negate())))
}

// ResetTransient clears the per-frame vertex and face fields.
func (m *Mesh) ResetTransient() {
	for i := range m.Vertices {
		v := &m.Vertices[i]
		v.WorldLocation = math3d.Vec3{}
		v.WorldNormal = math3d.Vec3{}
		v.Screen = render.ScreenVertex{}
		v.LightColor = render.Color{}
		v.LightSpace = [lightSlots]render.ScreenVertex{}
		v.ScreenSerial = 0
		v.LightSerial = [lightSlots]uint64{}
	}
	for i := range m.Faces {
		m.Faces[i].WorldNormal = math3d.Vec3{}
	}
}

// Clone creates a deep copy of the mesh. Textures are shared.
func (m *Mesh) Clone() *Mesh {
	clone := &Mesh{
		Name:      m.Name,
		Vertices:  make([]Vertex, len(m.Vertices)),
		Faces:     make([]Face, len(m.Faces)),
		Materials: make([]Material, len(m.Materials)),
		BoundsMin: m.BoundsMin,
		BoundsMax: m.BoundsMax,
	}
	copy(clone.Vertices, m.Vertices)
	copy(clone.Faces, m.Faces)
	copy(clone.Materials, m.Materials)
	return clone
}
