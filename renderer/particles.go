package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// PositionUploader receives particle positions once per frame. The slice is
// only valid for the duration of the call.
type PositionUploader interface {
	Upload(positions []mgl32.Vec3)
}

// ParticleRenderer draws particles as points in world space.
type ParticleRenderer struct {
	points []rl.Vector3
	color  rl.Color
}

// NewParticleRenderer creates a renderer with room for capacity particles.
func NewParticleRenderer(capacity int) *ParticleRenderer {
	return &ParticleRenderer{
		points: make([]rl.Vector3, 0, capacity),
		color:  rl.Color{R: 120, G: 190, B: 255, A: 255},
	}
}

// Upload copies positions into the point buffer.
func (r *ParticleRenderer) Upload(positions []mgl32.Vec3) {
	if cap(r.points) < len(positions) {
		r.points = make([]rl.Vector3, len(positions))
	}
	r.points = r.points[:len(positions)]
	for i, p := range positions {
		r.points[i] = rl.Vector3{X: p[0], Y: p[1], Z: p[2]}
	}
}

// Count returns the number of uploaded points.
func (r *ParticleRenderer) Count() int {
	return len(r.points)
}

// Draw renders all uploaded points. Must be called inside BeginMode3D.
func (r *ParticleRenderer) Draw() {
	for _, p := range r.points {
		rl.DrawPoint3D(p, r.color)
	}
}
