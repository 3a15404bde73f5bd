package game

import (
	"fmt"

	gui "github.com/gen2brain/raylib-go/raygui"
	rl "github.com/gen2brain/raylib-go/raylib"
)

// Theme colors - indigo dark theme
var (
	colorBgDark    = rl.NewColor(10, 10, 15, 255)
	colorBgPanel   = rl.NewColor(18, 18, 24, 245)
	colorBgElement = rl.NewColor(28, 28, 38, 255)
	colorBgHover   = rl.NewColor(38, 38, 52, 255)

	colorAccent      = rl.NewColor(108, 99, 255, 255)  // #6c63ff
	colorAccentLight = rl.NewColor(167, 139, 250, 255) // #a78bfa

	colorTextPrimary   = rl.NewColor(255, 255, 255, 255)
	colorTextSecondary = rl.NewColor(200, 200, 208, 255)
	colorTextMuted     = rl.NewColor(119, 119, 119, 255)
)

const (
	panelWidth  = 260
	panelMargin = 10
	rowHeight   = 22
	labelWidth  = 90
)

func initRayguiStyle() {
	gui.SetStyle(gui.DEFAULT, gui.BACKGROUND_COLOR, gui.NewColorPropertyValue(colorBgDark))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_NORMAL, gui.NewColorPropertyValue(colorBgElement))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_FOCUSED, gui.NewColorPropertyValue(colorBgHover))
	gui.SetStyle(gui.DEFAULT, gui.BASE_COLOR_PRESSED, gui.NewColorPropertyValue(colorAccent))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_NORMAL, gui.NewColorPropertyValue(colorTextSecondary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_FOCUSED, gui.NewColorPropertyValue(colorTextPrimary))
	gui.SetStyle(gui.DEFAULT, gui.TEXT_COLOR_PRESSED, gui.NewColorPropertyValue(colorTextPrimary))

	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_NORMAL, gui.NewColorPropertyValue(rl.NewColor(50, 50, 65, 255)))
	gui.SetStyle(gui.DEFAULT, gui.BORDER_COLOR_FOCUSED, gui.NewColorPropertyValue(colorAccent))
	gui.SetStyle(gui.DEFAULT, gui.LINE_COLOR, gui.NewColorPropertyValue(rl.NewColor(40, 40, 55, 255)))

	gui.SetStyle(gui.DEFAULT, gui.TEXT_SIZE, 15)
}

func (g *Game) panelBounds() rl.Rectangle {
	return rl.Rectangle{
		X:      float32(rl.GetScreenWidth() - panelWidth - panelMargin),
		Y:      panelMargin,
		Width:  panelWidth,
		Height: 17 * rowHeight,
	}
}

func (g *Game) panelHovered() bool {
	return g.showPanel && rl.CheckCollisionPointRec(rl.GetMousePosition(), g.panelBounds())
}

// drawSettingsPanel edits g.settings in place; Update pushes them to the world.
func (g *Game) drawSettingsPanel() {
	bounds := g.panelBounds()
	rl.DrawRectangleRec(bounds, colorBgPanel)
	rl.DrawRectangleLinesEx(bounds, 1, colorAccent)

	x := int32(bounds.X) + 10
	y := int32(bounds.Y) + 8
	rl.DrawText("Simulation", x, y, 18, colorAccentLight)
	y += rowHeight + 4

	s := &g.settings
	slider := func(label string, value, lo, hi float32) float32 {
		rl.DrawText(label, x, y+4, 15, colorTextMuted)
		r := rl.Rectangle{X: float32(x + labelWidth), Y: float32(y), Width: panelWidth - labelWidth - 60, Height: rowHeight - 4}
		value = gui.Slider(r, "", fmt.Sprintf("%.2f", value), value, lo, hi)
		y += rowHeight
		return value
	}
	check := func(label string, value bool) bool {
		r := rl.Rectangle{X: float32(x), Y: float32(y), Width: rowHeight - 6, Height: rowHeight - 6}
		value = gui.CheckBox(r, label, value)
		y += rowHeight
		return value
	}

	s.DynamicRatio = slider("Dynamic", s.DynamicRatio, 0, 1)
	s.Bounce = slider("Bounce", s.Bounce, 0, 1)
	s.Friction = slider("Friction", s.Friction, 0, 1)
	s.GroundHeight = slider("Ground", s.GroundHeight, -1, 2)
	s.Gravity.Y = slider("Gravity Y", s.Gravity.Y, -20, 0)
	y += 4

	s.Paused = check("Paused", s.Paused)
	s.ApplyGravity = check("Apply gravity", s.ApplyGravity)
	s.EnableCollision = check("Collision", s.EnableCollision)
	s.CollideWithGround = check("Ground collision", s.CollideWithGround)
	s.EnableAngleLimits = check("Angle limits", s.EnableAngleLimits)
	s.EnableLengthLimits = check("Length limits", s.EnableLengthLimits)
	y += 4

	g.Renderer.ShowBones = check("Show bones", g.Renderer.ShowBones)
	g.Renderer.ShowColliders = check("Show colliders", g.Renderer.ShowColliders)
	g.Renderer.ShowGround = check("Show ground", g.Renderer.ShowGround)
}
