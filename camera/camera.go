// Package camera provides an orbit camera that circles the emitter.
package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

const tau = 2 * math.Pi

// Camera orbits a fixed target. Dragging the mouse across the full viewport
// width turns it once around the target; the distance is clamped to
// [MinDistance, MaxDistance].
type Camera struct {
	// Orbit angle around the Y axis and pitch above the XZ plane, in radians
	OrbitAngle, PitchAngle float32

	// Distance from the target
	Distance float32

	// Distance constraints
	MinDistance, MaxDistance float32

	// Viewport dimensions (screen size), used to scale mouse deltas
	ViewportW, ViewportH float32

	// Target is the point the camera looks at
	Target mgl32.Vec3

	// Initial values restored by Reset
	homeOrbit, homePitch, homeDistance float32
}

// New creates a camera looking at the origin.
func New(viewportW, viewportH, distance, orbit, pitch float32) *Camera {
	c := &Camera{
		OrbitAngle:   orbit,
		PitchAngle:   pitch,
		Distance:     distance,
		MinDistance:  5,
		MaxDistance:  250,
		ViewportW:    viewportW,
		ViewportH:    viewportH,
		homeOrbit:    orbit,
		homePitch:    pitch,
		homeDistance: distance,
	}
	c.Distance = clamp(c.Distance, c.MinDistance, c.MaxDistance)
	return c
}

// SetDistanceLimits sets the zoom range and re-clamps the current distance.
func (c *Camera) SetDistanceLimits(min, max float32) {
	c.MinDistance = min
	c.MaxDistance = max
	c.Distance = clamp(c.Distance, min, max)
}

// Rotate applies a mouse delta in screen pixels. Moving right orbits
// clockwise seen from above; moving down raises the pitch.
func (c *Camera) Rotate(dx, dy float32) {
	if c.ViewportW > 0 {
		c.OrbitAngle += -tau * (dx / c.ViewportW)
	}
	if c.ViewportH > 0 {
		c.PitchAngle += tau * (dy / c.ViewportH)
	}
}

// Zoom scales the distance by factor, clamped to the distance limits.
func (c *Camera) Zoom(factor float32) {
	c.Distance = clamp(c.Distance*factor, c.MinDistance, c.MaxDistance)
}

// Position returns the camera position in world space.
func (c *Camera) Position() mgl32.Vec3 {
	c.Distance = clamp(c.Distance, c.MinDistance, c.MaxDistance)

	sinO, cosO := math.Sincos(float64(c.OrbitAngle))
	dir := mgl32.Vec3{
		float32(cosO),
		float32(math.Sin(float64(c.PitchAngle))),
		float32(-sinO),
	}.Normalize()

	return c.Target.Add(dir.Mul(c.Distance))
}

// Up returns the camera's up vector.
func (c *Camera) Up() mgl32.Vec3 {
	return mgl32.Vec3{0, 1, 0}
}

// WorldToView returns the look-at matrix from the camera position to the target.
func (c *Camera) WorldToView() mgl32.Mat4 {
	return mgl32.LookAtV(c.Position(), c.Target, c.Up())
}

// ViewToClip returns a perspective projection for the current viewport.
func (c *Camera) ViewToClip(fovyDeg, near, far float32) mgl32.Mat4 {
	aspect := float32(1)
	if c.ViewportH > 0 {
		aspect = c.ViewportW / c.ViewportH
	}
	return mgl32.Perspective(mgl32.DegToRad(fovyDeg), aspect, near, far)
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float32) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}

// Reset returns the camera to its initial orbit, pitch and distance.
func (c *Camera) Reset() {
	c.OrbitAngle = c.homeOrbit
	c.PitchAngle = c.homePitch
	c.Distance = clamp(c.homeDistance, c.MinDistance, c.MaxDistance)
}

// clamp restricts a value to a range.
func clamp(x, min, max float32) float32 {
	if x < min {
		return min
	}
	if x > max {
		return max
	}
	return x
}
