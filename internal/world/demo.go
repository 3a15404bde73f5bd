package world

import (
	"fmt"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"springbone/internal/components"
	"springbone/internal/engine"
	"springbone/internal/springbone"
)

// DemoOptions shape the procedural character built by CreateDemo.
type DemoOptions struct {
	Characters    int // placed side by side along X
	Chains        int // hair strands per character
	BonesPerChain int
	SegmentLength float32
	Workers       int
	Wind          bool
	Sway          bool
	Settings      springbone.Settings
}

func DefaultDemoOptions() DemoOptions {
	return DemoOptions{
		Characters:    1,
		Chains:        12,
		BonesPerChain: 5,
		SegmentLength: 0.12,
		Workers:       1,
		Wind:          true,
		Sway:          true,
		Settings:      springbone.DefaultSettings(),
	}
}

const (
	headHeight   = 1.6
	headRadius   = 0.25
	hairRadius   = 0.02
	bodyHeight   = 0.6
	bodyRadius   = 0.2
	bodyLength   = 0.8
	characterGap = 2.0
	wallDistance = 0.6
)

// CreateDemo adds characters with hair chains, a head sphere, a body capsule
// and a wall panel behind them, plus an optional wind volume.
func (w *World) CreateDemo(opts DemoOptions) {
	for c := range max(opts.Characters, 1) {
		w.createCharacter(c, opts)
	}

	if opts.Wind {
		wind := engine.NewGameObject("Wind")
		wind.Transform.Position = rl.Vector3{Y: headHeight, Z: -3}
		volume := components.NewWindVolume()
		volume.Strength = 2
		wind.AddComponent(volume)
		w.Scene.AddGameObject(wind)
	}
}

func (w *World) add(parent, g *engine.GameObject) *engine.GameObject {
	if parent != nil {
		parent.AddChild(g)
	}
	w.Scene.AddGameObject(g)
	return g
}

func (w *World) createCharacter(index int, opts DemoOptions) {
	root := engine.NewGameObject(fmt.Sprintf("Character%d", index))
	root.Transform.Position = rl.Vector3{X: float32(index) * characterGap}

	manager := components.NewSpringManager()
	manager.Settings = opts.Settings
	manager.Workers = opts.Workers
	manager.LayerNames = []string{"hair", "body"}
	root.AddComponent(manager)
	if opts.Sway {
		sway := components.NewSwayAnimator(rl.Vector3{Y: 1}, 25, 1.5, 0.3, 0.8)
		sway.BobHeight = 0.05
		sway.Phase = float32(index)
		root.AddComponent(sway)
	}
	w.add(nil, root)

	body := engine.NewGameObject(fmt.Sprintf("Body%d", index))
	body.Transform.Position = rl.Vector3{Y: bodyHeight}
	bodyCollider := components.NewCapsuleCollider(bodyRadius, bodyLength)
	bodyCollider.Layers = []string{"hair"}
	body.AddComponent(bodyCollider)
	w.add(root, body)

	wall := engine.NewGameObject(fmt.Sprintf("Wall%d", index))
	wall.Transform.Position = rl.Vector3{Y: headHeight, Z: -wallDistance}
	wallCollider := components.NewPanelCollider(characterGap, 2*headHeight)
	wallCollider.Layers = []string{"hair"}
	wall.AddComponent(wallCollider)
	w.add(root, wall)

	head := engine.NewGameObject(fmt.Sprintf("Head%d", index))
	head.Transform.Position = rl.Vector3{Y: headHeight}
	headCollider := components.NewSpringCollider(springbone.ColliderSphere, headRadius)
	headCollider.Layers = []string{"hair"}
	head.AddComponent(headCollider)
	w.add(root, head)

	for s := range opts.Chains {
		w.createStrand(head, index, s, opts)
	}
}

// createStrand hangs a chain of bones from a point just outside the head.
func (w *World) createStrand(head *engine.GameObject, character, strand int, opts DemoOptions) {
	angle := 2 * math.Pi * float64(strand) / float64(max(opts.Chains, 1))
	anchorRadius := float32(headRadius + 2*hairRadius)
	anchor := engine.NewGameObject(fmt.Sprintf("Hair%d_%d", character, strand))
	anchor.Transform.Position = rl.Vector3{
		X: anchorRadius * float32(math.Sin(angle)),
		Y: 0.1,
		Z: anchorRadius * float32(math.Cos(angle)),
	}
	w.add(head, anchor)
	parent := anchor

	for b := range opts.BonesPerChain {
		bone := engine.NewGameObject(fmt.Sprintf("Hair%d_%d_%d", character, strand, b))
		if b > 0 {
			bone.Transform.Position = rl.Vector3{Y: -opts.SegmentLength}
		}
		sb := components.NewSpringBone()
		sb.Radius = hairRadius
		sb.Layers = []string{"hair"}
		sb.ZAngleLimits = springbone.AngleLimit{Active: true, Min: -60, Max: 60}
		bone.AddComponent(sb)
		w.add(parent, bone)
		parent = bone
	}

	tip := engine.NewGameObject(fmt.Sprintf("Hair%d_%d_tip", character, strand))
	tip.Transform.Position = rl.Vector3{Y: -opts.SegmentLength}
	w.add(parent, tip)
}
