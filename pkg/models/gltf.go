package models

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/qmuntal/gltf"
	"github.com/qmuntal/gltf/modeler"

	"github.com/taigrr/softshade/pkg/math3d"
	"github.com/taigrr/softshade/pkg/render"
)

// ErrNoGeometry is returned when a document holds no triangle primitives.
var ErrNoGeometry = errors.New("no triangle geometry")

// GLTFLoader loads glTF and GLB files into a Mesh.
type GLTFLoader struct {
	// Compute normals when the file carries none.
	CalculateNormals bool
	// Average normals across faces instead of using flat face normals.
	SmoothNormals bool
	// Decode base color textures.
	LoadTextures bool
}

// NewGLTFLoader creates a loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
		LoadTextures:     true,
	}
}

// LoadGLB loads a glTF or GLB file with the default options.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load reads a glTF or GLB file and returns its meshes merged into one.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}

	mesh, err := l.FromDocument(doc, filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", filepath.Base(path), err)
	}
	mesh.Name = filepath.Base(path)
	return mesh, nil
}

// FromDocument converts a decoded document. dir resolves image URIs.
func (l *GLTFLoader) FromDocument(doc *gltf.Document, dir string) (*Mesh, error) {
	mesh := NewMesh("gltf")

	for i, mat := range doc.Materials {
		mesh.AddMaterial(l.material(doc, mat, i, dir))
	}

	hasNormals := true
	for _, m := range doc.Meshes {
		found, err := l.processMesh(doc, m, mesh)
		if err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
		hasNormals = hasNormals && found
	}

	if len(mesh.Faces) == 0 {
		return nil, ErrNoGeometry
	}

	if l.CalculateNormals && !hasNormals {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateFlatNormals()
		}
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// processMesh appends the triangle primitives of m. It reports whether
// every primitive carried normals.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) (bool, error) {
	hasNormals := true
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Lines and points are not drawable.
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := modeler.ReadPosition(doc, doc.Accessors[posIdx], nil)
		if err != nil {
			return false, fmt.Errorf("read positions: %w", err)
		}

		var normals [][3]float32
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			normals, err = modeler.ReadNormal(doc, doc.Accessors[idx], nil)
			if err != nil {
				return false, fmt.Errorf("read normals: %w", err)
			}
		} else {
			hasNormals = false
		}

		var uvs [][2]float32
		if idx, ok := prim.Attributes[gltf.TEXCOORD_0]; ok {
			uvs, err = modeler.ReadTextureCoord(doc, doc.Accessors[idx], nil)
			if err != nil {
				return false, fmt.Errorf("read uvs: %w", err)
			}
		}

		var indices []uint32
		if prim.Indices != nil {
			indices, err = modeler.ReadIndices(doc, doc.Accessors[*prim.Indices], nil)
			if err != nil {
				return false, fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]uint32, len(positions))
			for i := range indices {
				indices[i] = uint32(i)
			}
		}

		material := -1
		if prim.Material != nil && *prim.Material < len(mesh.Materials) {
			material = *prim.Material
		}

		base := len(mesh.Vertices)
		for i, p := range positions {
			var n math3d.Vec3
			if i < len(normals) {
				n = vec3(normals[i])
			}
			mesh.AddVertex(vec3(p), n)
		}

		uvAt := func(i uint32) math3d.Vec2 {
			if int(i) >= len(uvs) {
				return math3d.Vec2{}
			}
			// glTF puts V=0 at the top of the image; textures sample with
			// V=0 at the bottom.
			return math3d.V2f(float64(uvs[i][0]), 1-float64(uvs[i][1]))
		}

		// glTF front faces wind counter-clockwise; ours wind clockwise.
		for i := 0; i+2 < len(indices); i += 3 {
			a, b, c := indices[i], indices[i+2], indices[i+1]
			if int(max(a, b, c)) >= len(positions) {
				return false, fmt.Errorf("index %d out of range", max(a, b, c))
			}
			mesh.AddFace(base+int(a), base+int(b), base+int(c), material,
				[3]math3d.Vec2{uvAt(a), uvAt(b), uvAt(c)})
		}
	}
	return hasNormals, nil
}

// material converts a glTF PBR material. Only the base color and its
// texture are used; metallic and roughness factors have no counterpart.
func (l *GLTFLoader) material(doc *gltf.Document, src *gltf.Material, i int, dir string) Material {
	name := src.Name
	if name == "" {
		name = fmt.Sprintf("material%d", i)
	}
	mat := NewMaterial(name)

	pbr := src.PBRMetallicRoughness
	if pbr == nil {
		return mat
	}
	if f := pbr.BaseColorFactor; f != nil {
		// Factors are linear; colors are stored in sRGB.
		r, g, b := colorful.LinearRgb(f[0], f[1], f[2]).Clamped().RGB255()
		mat.Diffuse = render.RGB(r, g, b)
	}
	if l.LoadTextures && pbr.BaseColorTexture != nil {
		if tex, err := loadTexture(doc, pbr.BaseColorTexture.Index, dir); err == nil {
			mat.Texture = tex
		}
	}
	return mat
}

// loadTexture decodes the image behind texture index idx.
func loadTexture(doc *gltf.Document, idx int, dir string) (*render.Texture, error) {
	if idx < 0 || idx >= len(doc.Textures) || doc.Textures[idx].Source == nil {
		return nil, fmt.Errorf("texture %d has no image", idx)
	}
	img := doc.Images[*doc.Textures[idx].Source]

	var data []byte
	switch {
	case img.BufferView != nil:
		bv := doc.BufferViews[*img.BufferView]
		buf := doc.Buffers[bv.Buffer].Data
		if bv.ByteOffset+bv.ByteLength > len(buf) {
			return nil, fmt.Errorf("image %q: buffer view out of range", img.Name)
		}
		data = buf[bv.ByteOffset : bv.ByteOffset+bv.ByteLength]
	case img.IsEmbeddedResource():
		var err error
		if data, err = img.MarshalData(); err != nil {
			return nil, fmt.Errorf("image %q: %w", img.Name, err)
		}
	case img.URI != "":
		var err error
		if data, err = os.ReadFile(filepath.Join(dir, img.URI)); err != nil {
			return nil, fmt.Errorf("image %q: %w", img.Name, err)
		}
	default:
		return nil, fmt.Errorf("image %q has no data", img.Name)
	}

	return render.DecodeTexture(bytes.NewReader(data))
}

func vec3(v [3]float32) math3d.Vec3 {
	return math3d.V3f(float64(v[0]), float64(v[1]), float64(v[2]))
}
