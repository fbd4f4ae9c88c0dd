package game

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"github.com/pthm-cable/fountain/components"
	"github.com/pthm-cable/fountain/renderer"
	"github.com/pthm-cable/fountain/telemetry"
	"github.com/pthm-cable/fountain/ui"
)

// Draw renders the frame and applies HUD button actions.
func (g *Game) Draw() {
	g.perf.StartPhase(telemetry.PhaseRender)

	rl.BeginDrawing()
	g.background.Draw()

	rl.BeginMode3D(renderer.Camera3D(g.camera, g.cfg.Derived.Fovy32))
	g.scene.Each(func(tr *components.Transform, model *components.Model) {
		g.meshes.Draw(model, tr)
	})
	g.points.Draw()
	rl.EndMode3D()

	stats := g.perf.Stats()
	actions := g.hud.Draw(ui.HUDData{
		Title:        g.cfg.Screen.Title,
		Particles:    g.particles.Count(),
		Threads:      g.particles.Threads(),
		Frame:        g.particles.Frames(),
		FPS:          rl.GetFPS(),
		UpdateRate:   stats.ParticlesPerSecond,
		SimulatePct:  stats.PhasePct[telemetry.PhaseSimulate],
		Paused:       g.paused,
		TerrainShown: !g.terrainHidden,
		Distance:     g.camera.Distance,
		MinDistance:  g.camera.MinDistance,
		MaxDistance:  g.camera.MaxDistance,
		Snapshots:    g.output.Snapshots(),
		ScreenWidth:  int32(g.screenWidth),
		ScreenHeight: int32(g.screenHeight),
	})
	g.hud.DrawControls(int32(g.screenHeight))

	rl.EndDrawing()

	g.applyHUD(actions)
	g.perf.EndTick()
}

// applyHUD applies the button presses reported by the HUD.
func (g *Game) applyHUD(a ui.HUDActions) {
	if a.TogglePause {
		g.TogglePause()
	}
	if a.ResetCamera {
		g.camera.Reset()
	}
	if a.Snapshot {
		g.Snapshot()
	}
	if a.ToggleTerrain {
		g.ToggleTerrain()
	}
	if a.Distance != g.camera.Distance && g.camera.Distance > 0 {
		g.camera.Zoom(a.Distance / g.camera.Distance)
	}
}
