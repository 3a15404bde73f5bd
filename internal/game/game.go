package game

import (
	"fmt"
	"log"
	"time"

	rl "github.com/gen2brain/raylib-go/raylib"

	"springbone/internal/camera"
	"springbone/internal/springbone"
	"springbone/internal/world"
)

// Game is the interactive spring bone viewer.
type Game struct {
	World     *world.World
	Camera    *camera.OrbitCamera
	Renderer  *world.Renderer
	ScenePath string // where Ctrl+S saves, empty disables saving
	PrefsPath string
	DebugMode bool

	settings  springbone.Settings // edited by the panel, pushed to every rig
	applied   springbone.Settings
	showPanel bool

	// Debug timing (ms)
	updateMs float64
	drawMs   float64

	message     string
	messageTime float64
}

// New wraps a started world. Settings shown in the panel start from the first
// manager's.
func New(w *world.World, scenePath string) *Game {
	g := &Game{
		World:     w,
		Camera:    camera.New(rl.Vector3{Y: 1.2}, 4),
		Renderer:  world.NewRenderer(),
		ScenePath: scenePath,
		PrefsPath: DefaultPrefsFile,
		settings:  springbone.DefaultSettings(),
		showPanel: true,
	}
	if managers := w.Managers(); len(managers) > 0 {
		g.settings = managers[0].Settings
	}
	g.applied = g.settings
	return g
}

func (g *Game) Run() {
	prefs := LoadPrefs(g.PrefsPath)
	width, height := int32(1280), int32(720)
	if prefs != nil && prefs.WindowWidth > 0 && prefs.WindowHeight > 0 {
		width, height = int32(prefs.WindowWidth), int32(prefs.WindowHeight)
	}

	rl.SetConfigFlags(rl.FlagWindowHighdpi | rl.FlagWindowResizable | rl.FlagMsaa4xHint)
	rl.InitWindow(width, height, "Spring Bones")
	defer rl.CloseWindow()
	rl.SetTargetFPS(120)

	initRayguiStyle()
	g.ApplyPrefs(prefs)

	for !rl.WindowShouldClose() {
		g.Update()
		g.Draw()
	}

	if err := SavePrefs(g.PrefsPath, g.Prefs()); err != nil {
		log.Printf("Viewer: %v", err)
	}
}

func (g *Game) Update() {
	updateStart := time.Now()
	deltaTime := rl.GetFrameTime()

	if !g.panelHovered() {
		g.Camera.Update(deltaTime)
	}

	if rl.IsKeyPressed(rl.KeyF1) {
		g.DebugMode = !g.DebugMode
	}
	if rl.IsKeyPressed(rl.KeyTab) {
		g.showPanel = !g.showPanel
	}
	if rl.IsKeyPressed(rl.KeySpace) {
		g.settings.Paused = !g.settings.Paused
	}
	if rl.IsKeyPressed(rl.KeyR) {
		g.World.Reset()
		g.notify("Reset")
	}
	if rl.IsKeyDown(rl.KeyLeftControl) && rl.IsKeyPressed(rl.KeyS) {
		g.save()
	}

	if g.settings != g.applied {
		if err := g.World.SetSettings(g.settings); err != nil {
			g.notify(err.Error())
			g.settings = g.applied
		} else {
			g.applied = g.settings
		}
	}
	g.World.Update(deltaTime)

	g.updateMs = float64(time.Since(updateStart).Microseconds()) / 1000.0
}

func (g *Game) Draw() {
	camera := g.Camera.GetRaylibCamera()
	aspect := float32(rl.GetScreenWidth()) / float32(max(rl.GetScreenHeight(), 1))

	rl.BeginDrawing()
	rl.ClearBackground(rl.NewColor(20, 20, 30, 255))

	drawStart := time.Now()
	rl.BeginMode3D(camera)
	g.Renderer.Draw(g.World, camera, aspect)
	rl.EndMode3D()
	g.drawMs = float64(time.Since(drawStart).Microseconds()) / 1000.0

	g.DrawUI()
	rl.EndDrawing()
}

func (g *Game) DrawUI() {
	rl.DrawText("Right drag to orbit, wheel to zoom, WASD/QE to pan", 10, 10, 20, rl.Gray)
	rl.DrawText("Space pause, R reset, Tab panel, F1 debug, Ctrl+S save", 10, 35, 20, rl.Gray)
	rl.DrawFPS(10, 60)

	if g.settings.Paused {
		rl.DrawText("PAUSED", 10, 85, 20, rl.Orange)
	}

	if g.DebugMode {
		st := g.World.Stats()
		y := int32(110)
		for _, line := range []string{
			fmt.Sprintf("Bones:      %d", g.World.BoneCount()),
			fmt.Sprintf("Frame:      %d", st.Frames),
			fmt.Sprintf("Collisions: %d", st.Collisions),
			fmt.Sprintf("Ground:     %d", st.GroundHits),
			fmt.Sprintf("Recoveries: %d", st.Recoveries),
			fmt.Sprintf("Culled:     %d", g.Renderer.Culled()),
		} {
			rl.DrawText(line, 10, y, 16, rl.Yellow)
			y += 20
		}
		rl.DrawText(fmt.Sprintf("Update: %.2f ms", g.updateMs), 10, y, 16, rl.Green)
		rl.DrawText(fmt.Sprintf("Draw:   %.2f ms", g.drawMs), 10, y+20, 16, rl.Green)
		rl.DrawText(fmt.Sprintf("Total:  %.2f ms", g.updateMs+g.drawMs), 10, y+40, 16, rl.Lime)
	}

	if g.showPanel {
		g.drawSettingsPanel()
	}

	if g.message != "" && rl.GetTime()-g.messageTime < 2 {
		rl.DrawText(g.message, 10, int32(rl.GetScreenHeight())-30, 20, colorAccentLight)
	}
}

func (g *Game) save() {
	if g.ScenePath == "" {
		g.notify("No scene path to save to")
		return
	}
	if err := g.World.SaveScene(g.ScenePath); err != nil {
		g.notify(fmt.Sprintf("Save failed: %v", err))
		return
	}
	g.notify("Saved " + g.ScenePath)
}

func (g *Game) notify(msg string) {
	g.message = msg
	g.messageTime = rl.GetTime()
	log.Printf("Viewer: %s", msg)
}
