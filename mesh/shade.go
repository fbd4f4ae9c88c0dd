package mesh

import "github.com/go-gl/mathgl/mgl32"

// Lambert returns the diffuse intensity for a surface normal lit from
// lightDir, in [ambient, 1]. lightDir points from the surface toward the light.
func Lambert(normal, lightDir mgl32.Vec3, ambient float32) float32 {
	d := normal.Normalize().Dot(lightDir.Normalize())
	if d < 0 {
		d = 0
	}
	return ambient + (1-ambient)*d
}

// FaceIntensities returns one Lambert intensity per triangle. Vertex normals
// are averaged when present; otherwise the face normal is used.
func (m *Mesh) FaceIntensities(lightDir mgl32.Vec3, ambient float32) []float32 {
	out := make([]float32, m.TriangleCount())
	for i := range out {
		n := m.FaceNormal(i)
		if len(m.Normals) == len(m.Positions) {
			a, b, c := m.Indices[3*i], m.Indices[3*i+1], m.Indices[3*i+2]
			if sum := m.Normals[a].Add(m.Normals[b]).Add(m.Normals[c]); sum.Len() > 1e-6 {
				n = sum
			}
		}
		out[i] = Lambert(n, lightDir, ambient)
	}
	return out
}
