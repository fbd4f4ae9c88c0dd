package renderer

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fountain/components"
	"github.com/pthm-cable/fountain/mesh"
)

// Light direction (toward the light) and ambient term shared by all meshes.
var (
	lightDir = mgl32.Vec3{0.4, 1, 0.3}
	ambient  = float32(0.25)
)

// shadedMesh is a mesh baked into world-space triangles with flat colors.
type shadedMesh struct {
	transform components.Transform
	tint      color.RGBA
	verts     []rl.Vector3 // 3 per triangle
	colors    []rl.Color   // 1 per triangle
}

// MeshRenderer draws static scene meshes. Shading is computed on the CPU
// once per mesh and re-baked only when the mesh, transform or tint changes.
type MeshRenderer struct {
	cache map[*mesh.Mesh]*shadedMesh
}

// NewMeshRenderer creates a new mesh renderer.
func NewMeshRenderer() *MeshRenderer {
	return &MeshRenderer{cache: make(map[*mesh.Mesh]*shadedMesh)}
}

// Draw renders a model. Must be called inside BeginMode3D.
func (r *MeshRenderer) Draw(model *components.Model, tr *components.Transform) {
	if model.Hidden || model.Mesh == nil {
		return
	}

	sm := r.bake(model, tr)
	for i, c := range sm.colors {
		rl.DrawTriangle3D(sm.verts[3*i], sm.verts[3*i+1], sm.verts[3*i+2], c)
	}

	if model.Wireframe {
		edge := rl.Color{R: 20, G: 20, B: 20, A: 160}
		for i := 0; i < len(sm.verts); i += 3 {
			a, b, c := sm.verts[i], sm.verts[i+1], sm.verts[i+2]
			rl.DrawLine3D(a, b, edge)
			rl.DrawLine3D(b, c, edge)
			rl.DrawLine3D(c, a, edge)
		}
	}
}

func (r *MeshRenderer) bake(model *components.Model, tr *components.Transform) *shadedMesh {
	if sm, ok := r.cache[model.Mesh]; ok && sm.transform == *tr && sm.tint == model.Tint {
		return sm
	}

	m := model.Mesh
	intensities := m.FaceIntensities(lightDir, ambient)
	sm := &shadedMesh{
		transform: *tr,
		tint:      model.Tint,
		verts:     make([]rl.Vector3, 0, len(m.Indices)),
		colors:    make([]rl.Color, len(intensities)),
	}

	for i, k := range intensities {
		a, b, c := m.Triangle(i)
		for _, p := range [3]mgl32.Vec3{a, b, c} {
			w := tr.Apply(p)
			sm.verts = append(sm.verts, rl.Vector3{X: w[0], Y: w[1], Z: w[2]})
		}
		sm.colors[i] = rl.Color{
			R: uint8(float32(model.Tint.R) * k),
			G: uint8(float32(model.Tint.G) * k),
			B: uint8(float32(model.Tint.B) * k),
			A: model.Tint.A,
		}
	}

	r.cache[m] = sm
	return sm
}

// Unload drops cached geometry.
func (r *MeshRenderer) Unload() {
	clear(r.cache)
}
