package game

import rl "github.com/gen2brain/raylib-go/raylib"

// handleInput processes keyboard and mouse input.
func (g *Game) handleInput() {
	// Window resize propagation
	g.handleResize()

	// Fullscreen toggle
	if rl.IsKeyPressed(rl.KeyF11) {
		rl.ToggleFullscreen()
	}

	if rl.IsKeyPressed(rl.KeySpace) {
		g.TogglePause()
	}
	if rl.IsKeyPressed(rl.KeyS) {
		g.Snapshot()
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.camera.Reset()
	}
	if rl.IsKeyPressed(rl.KeyT) {
		g.ToggleTerrain()
	}

	// Camera controls
	g.handleCameraInput()
}

// handleResize checks for window resize and propagates new dimensions.
func (g *Game) handleResize() {
	if !rl.IsWindowResized() {
		return
	}
	w := float32(rl.GetScreenWidth())
	h := float32(rl.GetScreenHeight())
	if w == g.screenWidth && h == g.screenHeight {
		return
	}
	g.screenWidth = w
	g.screenHeight = h

	g.camera.Resize(w, h)
	g.background.Resize(int32(w), int32(h))
}

// handleCameraInput orbits with a right-button drag and zooms with the wheel.
func (g *Game) handleCameraInput() {
	if rl.IsMouseButtonDown(rl.MouseButtonRight) {
		d := rl.GetMouseDelta()
		g.camera.Rotate(d.X, d.Y)
	}

	step := float32(g.cfg.Camera.ZoomStep)
	if wheel := rl.GetMouseWheelMove(); wheel > 0 {
		g.camera.Zoom(1 / step)
	} else if wheel < 0 {
		g.camera.Zoom(step)
	}
}
