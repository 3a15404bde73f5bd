package components

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"springbone/internal/engine"
)

func init() {
	engine.RegisterComponent("SwayAnimator", func() engine.Serializable {
		return NewSwayAnimator(rl.Vector3{Y: 1}, 0, 0, 0, 0)
	})
}

// SwayAnimator plays a procedural idle on its GameObject: a circular drift
// with a vertical bob, plus a rocking rotation about SwayAxis. It stands in
// for skeletal animation so spring bones have something to follow.
type SwayAnimator struct {
	engine.BaseComponent
	SwayAxis       rl.Vector3
	SwayAngle      float32 // degrees either side of the bind pose
	SwaySpeed      float32 // radians per second
	MovementRadius float32
	MovementSpeed  float32
	BobHeight      float32
	Phase          float32

	startPosition rl.Vector3
	startRotation rl.Quaternion
	started       bool
	time          float32
}

func NewSwayAnimator(axis rl.Vector3, angle, swaySpeed, moveRadius, moveSpeed float32) *SwayAnimator {
	return &SwayAnimator{
		SwayAxis:       axis,
		SwayAngle:      angle,
		SwaySpeed:      swaySpeed,
		MovementRadius: moveRadius,
		MovementSpeed:  moveSpeed,
	}
}

func (s *SwayAnimator) Start() {
	g := s.GetGameObject()
	if g == nil {
		return
	}
	s.startPosition = g.Transform.Position
	s.startRotation = g.Transform.Rotation
	s.started = true
}

func (s *SwayAnimator) Update(deltaTime float32) {
	g := s.GetGameObject()
	if g == nil {
		return
	}
	if !s.started {
		s.Start()
	}

	s.time += deltaTime

	t := s.time*s.MovementSpeed + s.Phase
	offset := rl.Vector3{
		X: float32(math.Cos(float64(t))) * s.MovementRadius,
		Y: float32(math.Sin(float64(t*2))) * s.BobHeight,
		Z: float32(math.Sin(float64(t))) * s.MovementRadius,
	}
	g.Transform.Position = rl.Vector3Add(s.startPosition, offset)

	if s.SwayAngle == 0 || rl.Vector3LengthSqr(s.SwayAxis) == 0 {
		return
	}
	angle := float32(math.Sin(float64(s.time*s.SwaySpeed+s.Phase))) * s.SwayAngle * rl.Deg2rad
	sway := rl.QuaternionFromAxisAngle(rl.Vector3Normalize(s.SwayAxis), angle)
	g.Transform.Rotation = rl.QuaternionMultiply(s.startRotation, sway)
}

// Reset returns the object to where it started.
func (s *SwayAnimator) Reset() {
	g := s.GetGameObject()
	if g == nil || !s.started {
		return
	}
	s.time = 0
	g.Transform.Position = s.startPosition
	g.Transform.Rotation = s.startRotation
}

// TypeName implements engine.Serializable
func (s *SwayAnimator) TypeName() string {
	return "SwayAnimator"
}

// Serialize implements engine.Serializable
func (s *SwayAnimator) Serialize() map[string]any {
	return map[string]any{
		"type":           "SwayAnimator",
		"swayAxis":       vec3Data(s.SwayAxis),
		"swayAngle":      s.SwayAngle,
		"swaySpeed":      s.SwaySpeed,
		"movementRadius": s.MovementRadius,
		"movementSpeed":  s.MovementSpeed,
		"bobHeight":      s.BobHeight,
		"phase":          s.Phase,
	}
}

// Deserialize implements engine.Serializable
func (s *SwayAnimator) Deserialize(data map[string]any) {
	readVec3(data, "swayAxis", &s.SwayAxis)
	readFloat(data, "swayAngle", &s.SwayAngle)
	readFloat(data, "swaySpeed", &s.SwaySpeed)
	readFloat(data, "movementRadius", &s.MovementRadius)
	readFloat(data, "movementSpeed", &s.MovementSpeed)
	readFloat(data, "bobHeight", &s.BobHeight)
	readFloat(data, "phase", &s.Phase)
}
