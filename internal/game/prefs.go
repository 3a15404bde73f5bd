package game

import (
	"encoding/json"
	"fmt"
	"os"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Prefs holds viewer preferences saved between sessions.
type Prefs struct {
	WindowWidth    int        `json:"windowWidth"`
	WindowHeight   int        `json:"windowHeight"`
	CameraTarget   rl.Vector3 `json:"cameraTarget"`
	CameraDistance float32    `json:"cameraDistance"`
	CameraYaw      float32    `json:"cameraYaw"`
	CameraPitch    float32    `json:"cameraPitch"`
	ShowPanel      bool       `json:"showPanel"`
	ShowColliders  bool       `json:"showColliders"`
	DebugMode      bool       `json:"debugMode"`
}

const DefaultPrefsFile = ".springviewer_prefs.json"

// LoadPrefs loads preferences from disk. A missing or broken file yields nil.
func LoadPrefs(path string) *Prefs {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil
	}

	var prefs Prefs
	if err := json.Unmarshal(data, &prefs); err != nil {
		fmt.Printf("Failed to parse viewer prefs: %v\n", err)
		return nil
	}

	return &prefs
}

func SavePrefs(path string, prefs Prefs) error {
	data, err := json.MarshalIndent(prefs, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}
	return nil
}

// Prefs captures the current viewer state. Window size is read from raylib
// only while a window is open.
func (g *Game) Prefs() Prefs {
	p := Prefs{
		CameraTarget:   g.Camera.Target,
		CameraDistance: g.Camera.Distance,
		CameraYaw:      g.Camera.Yaw,
		CameraPitch:    g.Camera.Pitch,
		ShowPanel:      g.showPanel,
		ShowColliders:  g.Renderer.ShowColliders,
		DebugMode:      g.DebugMode,
	}
	if rl.IsWindowReady() {
		p.WindowWidth = rl.GetScreenWidth()
		p.WindowHeight = rl.GetScreenHeight()
	}
	return p
}

// ApplyPrefs applies loaded preferences to the viewer
func (g *Game) ApplyPrefs(prefs *Prefs) {
	if prefs == nil {
		return
	}

	g.Camera.Target = prefs.CameraTarget
	if prefs.CameraDistance > 0 {
		g.Camera.Distance = prefs.CameraDistance
	}
	g.Camera.Yaw = prefs.CameraYaw
	g.Camera.Pitch = prefs.CameraPitch
	g.showPanel = prefs.ShowPanel
	g.Renderer.ShowColliders = prefs.ShowColliders
	g.DebugMode = prefs.DebugMode
}
