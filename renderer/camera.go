package renderer

import (
	"github.com/go-gl/mathgl/mgl32"

	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fountain/camera"
)

func vec3(v mgl32.Vec3) rl.Vector3 {
	return rl.Vector3{X: v[0], Y: v[1], Z: v[2]}
}

// Camera3D converts the orbit camera into a raylib perspective camera.
func Camera3D(cam *camera.Camera, fovy float32) rl.Camera3D {
	return rl.Camera3D{
		Position:   vec3(cam.Position()),
		Target:     vec3(cam.Target),
		Up:         vec3(cam.Up()),
		Fovy:       fovy,
		Projection: rl.CameraPerspective,
	}
}
