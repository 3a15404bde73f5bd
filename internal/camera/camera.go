package camera

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// OrbitCamera circles a target point. Yaw and Pitch are in degrees.
type OrbitCamera struct {
	Target      rl.Vector3
	Distance    float32
	Yaw         float32
	Pitch       float32
	MinDistance float32
	MaxDistance float32
	LookSpeed   float32 // degrees per pixel of mouse drag
	ZoomSpeed   float32 // fraction of distance per wheel step
	PanSpeed    float32 // units per second
}

func New(target rl.Vector3, distance float32) *OrbitCamera {
	return &OrbitCamera{
		Target:      target,
		Distance:    distance,
		Yaw:         30,
		Pitch:       15,
		MinDistance: 0.5,
		MaxDistance: 50,
		LookSpeed:   0.3,
		ZoomSpeed:   0.1,
		PanSpeed:    2,
	}
}

// Update reads mouse and keyboard: right drag orbits, wheel zooms and
// WASD/QE move the target.
func (c *OrbitCamera) Update(deltaTime float32) {
	if rl.IsMouseButtonDown(rl.MouseRightButton) {
		delta := rl.GetMouseDelta()
		c.Orbit(-delta.X*c.LookSpeed, delta.Y*c.LookSpeed)
	}
	if wheel := rl.GetMouseWheelMove(); wheel != 0 {
		c.Zoom(wheel)
	}

	forward, right := c.groundAxes()
	var move rl.Vector3
	if rl.IsKeyDown(rl.KeyW) {
		move = rl.Vector3Add(move, forward)
	}
	if rl.IsKeyDown(rl.KeyS) {
		move = rl.Vector3Subtract(move, forward)
	}
	if rl.IsKeyDown(rl.KeyD) {
		move = rl.Vector3Add(move, right)
	}
	if rl.IsKeyDown(rl.KeyA) {
		move = rl.Vector3Subtract(move, right)
	}
	if rl.IsKeyDown(rl.KeyE) {
		move.Y++
	}
	if rl.IsKeyDown(rl.KeyQ) {
		move.Y--
	}
	if rl.Vector3LengthSqr(move) > 0 {
		c.Pan(rl.Vector3Scale(rl.Vector3Normalize(move), c.PanSpeed*deltaTime))
	}
}

// Orbit turns the camera around the target.
func (c *OrbitCamera) Orbit(yaw, pitch float32) {
	c.Yaw = float32(math.Mod(float64(c.Yaw+yaw), 360))
	c.Pitch = rl.Clamp(c.Pitch+pitch, -89, 89)
}

// Zoom moves toward the target for positive steps.
func (c *OrbitCamera) Zoom(steps float32) {
	c.Distance = rl.Clamp(c.Distance*(1-steps*c.ZoomSpeed), c.MinDistance, c.MaxDistance)
}

func (c *OrbitCamera) Pan(offset rl.Vector3) {
	c.Target = rl.Vector3Add(c.Target, offset)
}

// Position is the eye point on the orbit sphere.
func (c *OrbitCamera) Position() rl.Vector3 {
	yawRad := float64(c.Yaw) * math.Pi / 180
	pitchRad := float64(c.Pitch) * math.Pi / 180
	offset := rl.Vector3{
		X: float32(math.Sin(yawRad) * math.Cos(pitchRad)),
		Y: float32(math.Sin(pitchRad)),
		Z: float32(math.Cos(yawRad) * math.Cos(pitchRad)),
	}
	return rl.Vector3Add(c.Target, rl.Vector3Scale(offset, c.Distance))
}

// groundAxes are the horizontal view directions used for panning.
func (c *OrbitCamera) groundAxes() (forward, right rl.Vector3) {
	yawRad := float64(c.Yaw) * math.Pi / 180
	forward = rl.Vector3{X: -float32(math.Sin(yawRad)), Z: -float32(math.Cos(yawRad))}
	right = rl.Vector3{X: float32(math.Cos(yawRad)), Z: -float32(math.Sin(yawRad))}
	return
}

func (c *OrbitCamera) GetRaylibCamera() rl.Camera3D {
	return rl.Camera3D{
		Position:   c.Position(),
		Target:     c.Target,
		Up:         rl.Vector3{X: 0, Y: 1, Z: 0},
		Fovy:       45,
		Projection: rl.CameraPerspective,
	}
}
