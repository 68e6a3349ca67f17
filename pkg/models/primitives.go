package models

import (
	"github.com/taigrr/softshade/pkg/fixed"
	"github.com/taigrr/softshade/pkg/math3d"
)

// Box creates an axis-aligned cube centered at the origin with edge length
// size. Each side has its own vertices so the normals stay flat.
func Box(name string, size fixed.Fixed) *Mesh {
	m := NewMesh(name)
	mat := m.AddMaterial(NewMaterial(name))
	h := size / 2

	x := math3d.V3(h, 0, 0)
	y := math3d.V3(0, h, 0)
	z := math3d.V3(0, 0, h)

	m.addGrid(z, x, y, 1, mat)                   // front
	m.addGrid(z.Negate(), x.Negate(), y, 1, mat) // back
	m.addGrid(x, z.Negate(), y, 1, mat)          // right
	m.addGrid(x.Negate(), z, y, 1, mat)          // left
	m.addGrid(y, x, z.Negate(), 1, mat)          // top
	m.addGrid(y.Negate(), x, z, 1, mat)          // bottom

	m.CalculateBounds()
	return m
}

// Plane creates a square in the XZ plane facing +Y, split into
// segments x segments quads. Finer grids give per-vertex lighting more
// samples.
func Plane(name string, size fixed.Fixed, segments int) *Mesh {
	m := NewMesh(name)
	mat := m.AddMaterial(NewMaterial(name))
	h := size / 2

	m.addGrid(math3d.Zero3(), math3d.V3(h, 0, 0), math3d.V3(0, 0, -h), max(segments, 1), mat)

	m.CalculateBounds()
	return m
}

// addGrid adds a subdivided quad centered at c spanning ±right and ±up.
// Seen from the side right x up points to, right is to the right and up is
// up, and every triangle winds clockwise.
func (m *Mesh) addGrid(c, right, up math3d.Vec3, segments, material int) {
	n := segments
	normal := right.Cross(up).Normalize()
	base := len(m.Vertices)

	for j := 0; j <= n; j++ {
		for i := 0; i <= n; i++ {
			p := c.Add(right.Scale(fixed.Ratio(2*i-n, n))).Add(up.Scale(fixed.Ratio(2*j-n, n)))
			m.AddVertex(p, normal)
		}
	}

	uv := func(i, j int) math3d.Vec2 {
		return math3d.V2(fixed.Ratio(i, n), fixed.Ratio(j, n))
	}
	idx := func(i, j int) int {
		return base + j*(n+1) + i
	}

	for j := range n {
		for i := range n {
			bl, tl := idx(i, j), idx(i, j+1)
			tr, br := idx(i+1, j+1), idx(i+1, j)
			m.AddFace(bl, tl, tr, material, [3]math3d.Vec2{uv(i, j), uv(i, j+1), uv(i+1, j+1)})
			m.AddFace(bl, tr, br, material, [3]math3d.Vec2{uv(i, j), uv(i+1, j+1), uv(i+1, j)})
		}
	}
}
