package ui

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// HUDData holds all the data needed to render the main HUD.
type HUDData struct {
	Title        string
	Particles    int
	Threads      int
	Frame        uint64
	FPS          int32
	UpdateRate   float64 // particles advanced per second
	SimulatePct  float64 // share of frame time spent in Update
	Paused       bool
	TerrainShown bool
	Distance     float32
	MinDistance  float32
	MaxDistance  float32
	Snapshots    int
	ScreenWidth  int32
	ScreenHeight int32
}

// HUDActions reports which controls were used this frame.
type HUDActions struct {
	TogglePause   bool
	ResetCamera   bool
	Snapshot      bool
	ToggleTerrain bool
	Distance      float32 // Slider value; equals HUDData.Distance when untouched
}

// HUD renders the main heads-up display.
type HUD struct {
	renderer *Renderer
	width    int32
}

// NewHUD creates a new HUD renderer.
func NewHUD() *HUD {
	return &HUD{
		renderer: NewRenderer(),
		width:    260,
	}
}

// Draw renders the HUD and its buttons, returning the actions taken.
func (h *HUD) Draw(data HUDData) HUDActions {
	r := h.renderer
	th := r.Theme
	x, y := th.Padding, th.Padding

	r.DrawPanel(x-4, y-4, h.width, 224)

	rl.DrawText(data.Title, x, y, 20, rl.White)
	y += 26

	y = r.DrawLabelValue(x, y, "Particles", fmt.Sprintf("%d on %d threads", data.Particles, data.Threads))
	y = r.DrawLabelValue(x, y, "Frame", fmt.Sprintf("%d", data.Frame))
	y = r.DrawLabelValue(x, y, "FPS", fmt.Sprintf("%d", data.FPS))
	y = r.DrawLabelValue(x, y, "Update rate", fmt.Sprintf("%.2fM/s", data.UpdateRate/1e6))
	y = r.DrawBar(x, y, "Simulate", float32(data.SimulatePct/100), 0.5, h.width-8)

	status := "Running"
	if data.Paused {
		status = "PAUSED"
	}
	rl.DrawText(status, x, y, 16, rl.Yellow)
	y += 22

	actions := HUDActions{Distance: data.Distance}

	bx, by := float32(x), float32(y)
	if gui.Button(rl.Rectangle{X: bx, Y: by, Width: th.ButtonWidth, Height: th.ButtonHeight}, toggleText(data.Paused, "Resume", "Pause")) {
		actions.TogglePause = true
	}
	if gui.Button(rl.Rectangle{X: bx + th.ButtonWidth + 8, Y: by, Width: th.ButtonWidth, Height: th.ButtonHeight}, "Reset Camera") {
		actions.ResetCamera = true
	}
	by += th.ButtonHeight + 6

	if gui.Button(rl.Rectangle{X: bx, Y: by, Width: th.ButtonWidth, Height: th.ButtonHeight}, fmt.Sprintf("Snapshot (%d)", data.Snapshots)) {
		actions.Snapshot = true
	}
	actions.Distance = gui.SliderBar(
		rl.Rectangle{X: bx + th.ButtonWidth + 8, Y: by + 4, Width: th.ButtonWidth, Height: th.ButtonHeight - 8},
		"", "",
		data.Distance, data.MinDistance, data.MaxDistance,
	)
	by += th.ButtonHeight + 6

	if gui.Button(rl.Rectangle{X: bx, Y: by, Width: th.ButtonWidth, Height: th.ButtonHeight}, toggleText(data.TerrainShown, "Hide Terrain", "Show Terrain")) {
		actions.ToggleTerrain = true
	}

	return actions
}

// DrawControls renders the control legend at the bottom of the screen.
func (h *HUD) DrawControls(screenHeight int32) {
	rl.DrawText("[Right drag] orbit  [Wheel] zoom  [Space] pause  [S] snapshot  [R] reset camera  [T] terrain", 10, screenHeight-25, 14, rl.Gray)
}

func toggleText(on bool, whenOn, whenOff string) string {
	if on {
		return whenOn
	}
	return whenOff
}
