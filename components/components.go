// Package components defines ECS components for the scene.
package components

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/pthm-cable/fountain/mesh"
)

// Kind identifies what a scene entity represents.
type Kind uint8

const (
	KindGround  Kind = iota // Flat plane under the fountain
	KindTerrain             // Procedural heightmap around the plane
	KindEmitter             // Marker mesh at the particle origin
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindGround:
		return "ground"
	case KindTerrain:
		return "terrain"
	case KindEmitter:
		return "emitter"
	}
	return "unknown"
}

// Transform places a mesh in the world. Meshes are authored in model space
// and scaled uniformly before being translated.
type Transform struct {
	Position mgl32.Vec3
	Scale    float32
}

// Apply maps a model-space point to world space.
func (t Transform) Apply(p mgl32.Vec3) mgl32.Vec3 {
	s := t.Scale
	if s == 0 {
		s = 1
	}
	return p.Mul(s).Add(t.Position)
}

// Model holds the renderable state of a scene entity.
type Model struct {
	Kind      Kind
	Mesh      *mesh.Mesh
	Tint      color.RGBA
	Wireframe bool // Draw triangle edges on top of the fill
	Hidden    bool
}
