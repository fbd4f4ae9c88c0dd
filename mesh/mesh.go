// Package mesh loads and builds the static triangle meshes the particles are
// rendered against.
package mesh

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl32"
)

// MaxVertices is the largest vertex count addressable by uint16 indices.
const MaxVertices = 1 << 16

// MaxFaces bounds the triangle count accepted from mesh files.
const MaxFaces = 4 * MaxVertices

// Mesh is an indexed triangle list. Normals and TexCoords are nil when the
// source did not provide them.
type Mesh struct {
	Positions []mgl32.Vec3
	Normals   []mgl32.Vec3
	TexCoords []mgl32.Vec2
	Indices   []uint16
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Positions)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the three corners of triangle i.
func (m *Mesh) Triangle(i int) (a, b, c mgl32.Vec3) {
	return m.Positions[m.Indices[3*i]], m.Positions[m.Indices[3*i+1]], m.Positions[m.Indices[3*i+2]]
}

// FaceNormal returns the unit normal of triangle i using counter-clockwise winding.
func (m *Mesh) FaceNormal(i int) mgl32.Vec3 {
	a, b, c := m.Triangle(i)
	n := b.Sub(a).Cross(c.Sub(a))
	if n.Len() == 0 {
		return mgl32.Vec3{0, 1, 0}
	}
	return n.Normalize()
}

// Bounds returns the axis-aligned bounding box of the mesh.
func (m *Mesh) Bounds() (min, max mgl32.Vec3) {
	if len(m.Positions) == 0 {
		return
	}
	min, max = m.Positions[0], m.Positions[0]
	for _, p := range m.Positions[1:] {
		for k := 0; k < 3; k++ {
			if p[k] < min[k] {
				min[k] = p[k]
			}
			if p[k] > max[k] {
				max[k] = p[k]
			}
		}
	}
	return min, max
}

// Validate checks that every index refers to an existing vertex and that the
// optional attribute slices match the vertex count.
func (m *Mesh) Validate() error {
	n := len(m.Positions)
	if n > MaxVertices {
		return fmt.Errorf("%d vertices exceed the uint16 index limit", n)
	}
	if m.Normals != nil && len(m.Normals) != n {
		return fmt.Errorf("%d normals for %d vertices", len(m.Normals), n)
	}
	if m.TexCoords != nil && len(m.TexCoords) != n {
		return fmt.Errorf("%d texture coordinates for %d vertices", len(m.TexCoords), n)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= n {
			return fmt.Errorf("index %d references vertex %d of %d", i, idx, n)
		}
	}
	return nil
}

// Pyramid returns a square pyramid with its base centered on the origin,
// used as the emitter when no mesh file is configured.
func Pyramid(size float32) *Mesh {
	h := size / 2
	apex := mgl32.Vec3{0, size, 0}
	corners := [4]mgl32.Vec3{
		{-h, 0, h},
		{h, 0, h},
		{h, 0, -h},
		{-h, 0, -h},
	}

	m := &Mesh{}
	for i := 0; i < 4; i++ {
		a, b := corners[i], corners[(i+1)%4]
		base := uint16(len(m.Positions))
		m.Positions = append(m.Positions, a, b, apex)
		m.Indices = append(m.Indices, base, base+1, base+2)
	}

	// Base, facing down
	base := uint16(len(m.Positions))
	m.Positions = append(m.Positions, corners[0], corners[3], corners[2], corners[1])
	m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)

	return m
}

// Plane returns a flat square of the given size on the XZ plane at height y,
// facing up.
func Plane(size, y float32) *Mesh {
	h := size / 2
	return &Mesh{
		Positions: []mgl32.Vec3{
			{-h, y, h},
			{h, y, h},
			{h, y, -h},
			{-h, y, -h},
		},
		Normals: []mgl32.Vec3{
			{0, 1, 0}, {0, 1, 0}, {0, 1, 0}, {0, 1, 0},
		},
		TexCoords: []mgl32.Vec2{
			{0, 0}, {1, 0}, {1, 1}, {0, 1},
		},
		Indices: []uint16{0, 1, 2, 0, 2, 3},
	}
}
