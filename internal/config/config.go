package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	rl "github.com/gen2brain/raylib-go/raylib"

	"springbone/internal/springbone"
)

// Config holds the scene to load, output settings for the headless tools and
// overrides for the simulation settings.
type Config struct {
	// Paths
	BaseDir   string `json:"base_dir"`
	Scene     string `json:"scene"`
	OutputDir string `json:"output_dir"`

	// Simulation
	Frames     int        `json:"frames"`
	Workers    int        `json:"workers"`
	Simulation Simulation `json:"simulation"`

	// Demo rig used when no scene is given
	Characters    int `json:"characters"`
	Chains        int `json:"chains"`
	BonesPerChain int `json:"bones_per_chain"`

	// Snapshot output
	ImageSize   int    `json:"image_size"`
	Supersample int    `json:"supersample"`
	Format      string `json:"format"`
}

// Simulation overrides springbone.DefaultSettings. Unset fields keep the default.
type Simulation struct {
	Paused             *bool       `json:"paused,omitempty"`
	FrameRate          *int        `json:"frame_rate,omitempty"`
	DynamicRatio       *float32    `json:"dynamic_ratio,omitempty"`
	Gravity            *[3]float32 `json:"gravity,omitempty"`
	ApplyGravity       *bool       `json:"apply_gravity,omitempty"`
	Bounce             *float32    `json:"bounce,omitempty"`
	Friction           *float32    `json:"friction,omitempty"`
	EnableAngleLimits  *bool       `json:"enable_angle_limits,omitempty"`
	EnableCollision    *bool       `json:"enable_collision,omitempty"`
	EnableLengthLimits *bool       `json:"enable_length_limits,omitempty"`
	CollideWithGround  *bool       `json:"collide_with_ground,omitempty"`
	GroundHeight       *float32    `json:"ground_height,omitempty"`
}

// Formats accepted for snapshot output.
var Formats = []string{"webp", "png", "tga"}

// Load reads a JSON config file and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
	}

	return cfg, nil
}

// Flags holds CLI flag values that override config file settings.
type Flags struct {
	Scene     string
	OutputDir string
	Format    string
	Frames    int
	Workers   int
	Size      int
	Gravity   bool
	Paused    bool
}

// Resolve fills in any empty fields with defaults.
// CLI flags take priority when non-zero/non-empty.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.Scene != "" {
		c.Scene = flags.Scene
	}
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Size > 0 {
		c.ImageSize = flags.Size
	}
	if flags.Gravity {
		on := true
		c.Simulation.ApplyGravity = &on
	}
	if flags.Paused {
		on := true
		c.Simulation.Paused = &on
	}

	// Resolve relative paths against base dir
	if c.BaseDir != "" {
		if c.Scene != "" && !filepath.IsAbs(c.Scene) {
			c.Scene = filepath.Join(c.BaseDir, c.Scene)
		}
		if c.OutputDir != "" && !filepath.IsAbs(c.OutputDir) {
			c.OutputDir = filepath.Join(c.BaseDir, c.OutputDir)
		}
	}
	if c.OutputDir == "" {
		c.OutputDir = "."
	}

	if c.Frames <= 0 {
		c.Frames = 120
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Characters <= 0 {
		c.Characters = 1
	}
	if c.Chains <= 0 {
		c.Chains = 12
	}
	if c.BonesPerChain <= 0 {
		c.BonesPerChain = 5
	}
	if c.ImageSize <= 0 {
		c.ImageSize = 512
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	c.Format = strings.ToLower(strings.TrimPrefix(c.Format, "."))
	if c.Format == "" {
		c.Format = "webp"
	}
}

// Validate reports settings the tools cannot run with.
func (c Config) Validate() error {
	valid := false
	for _, f := range Formats {
		if c.Format == f {
			valid = true
		}
	}
	if !valid {
		return fmt.Errorf("config: unknown format %q, want one of %s", c.Format, strings.Join(Formats, ", "))
	}
	if _, err := c.Settings(); err != nil {
		return err
	}
	return nil
}

// Settings applies the simulation overrides to the default settings.
func (c Config) Settings() (springbone.Settings, error) {
	return c.Simulation.Apply(springbone.DefaultSettings())
}

// Apply returns s with every set override replacing its field.
func (o Simulation) Apply(s springbone.Settings) (springbone.Settings, error) {
	if o.Paused != nil {
		s.Paused = *o.Paused
	}
	if o.FrameRate != nil {
		s.SimulationFrameRate = *o.FrameRate
	}
	if o.DynamicRatio != nil {
		s.DynamicRatio = *o.DynamicRatio
	}
	if o.Gravity != nil {
		s.Gravity = rl.Vector3{X: o.Gravity[0], Y: o.Gravity[1], Z: o.Gravity[2]}
	}
	if o.ApplyGravity != nil {
		s.ApplyGravity = *o.ApplyGravity
	}
	if o.Bounce != nil {
		s.Bounce = *o.Bounce
	}
	if o.Friction != nil {
		s.Friction = *o.Friction
	}
	if o.EnableAngleLimits != nil {
		s.EnableAngleLimits = *o.EnableAngleLimits
	}
	if o.EnableCollision != nil {
		s.EnableCollision = *o.EnableCollision
	}
	if o.EnableLengthLimits != nil {
		s.EnableLengthLimits = *o.EnableLengthLimits
	}
	if o.CollideWithGround != nil {
		s.CollideWithGround = *o.CollideWithGround
	}
	if o.GroundHeight != nil {
		s.GroundHeight = *o.GroundHeight
	}
	if err := s.Validate(); err != nil {
		return s, fmt.Errorf("config: simulation: %w", err)
	}
	return s, nil
}
