package springbone

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Settings are the global knobs read at the start of every pass.
type Settings struct {
	Paused              bool
	SimulationFrameRate int     // fixed steps per second, 0 uses the frame delta
	DynamicRatio        float32 // 0 = animation only, 1 = simulation only
	Gravity             rl.Vector3
	ApplyGravity        bool // add Gravity to every bone's spring force
	Bounce              float32
	Friction            float32

	EnableAngleLimits  bool
	EnableCollision    bool
	EnableLengthLimits bool
	CollideWithGround  bool
	GroundHeight       float32
}

func DefaultSettings() Settings {
	return Settings{
		SimulationFrameRate: 60,
		DynamicRatio:        0.5,
		Gravity:             rl.Vector3{Y: -10},
		Bounce:              0,
		Friction:            1,
		EnableAngleLimits:   true,
		EnableCollision:     true,
		EnableLengthLimits:  true,
		CollideWithGround:   true,
		GroundHeight:        0,
	}
}

func (s Settings) Validate() error {
	if s.SimulationFrameRate < 0 {
		return fmt.Errorf("simulation frame rate %d: %w", s.SimulationFrameRate, ErrInvalidSettings)
	}
	for _, f := range []struct {
		name  string
		value float32
	}{
		{"dynamic ratio", s.DynamicRatio},
		{"bounce", s.Bounce},
		{"friction", s.Friction},
	} {
		if f.value < 0 || f.value > 1 || !isFinite32(f.value) {
			return fmt.Errorf("%s %v outside [0, 1]: %w", f.name, f.value, ErrInvalidSettings)
		}
	}
	if !isFinite(s.Gravity) || !isFinite32(s.GroundHeight) {
		return fmt.Errorf("non-finite gravity or ground height: %w", ErrInvalidSettings)
	}
	return nil
}

// TimeStep returns the step length for a frame that took frameDelta seconds.
func (s Settings) TimeStep(frameDelta float32) float32 {
	if s.SimulationFrameRate > 0 {
		return 1 / float32(s.SimulationFrameRate)
	}
	return frameDelta
}
