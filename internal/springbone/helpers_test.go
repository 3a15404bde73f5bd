package springbone

import (
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"springbone/internal/engine"
)

func near(a, b, tol float32) bool {
	return float32(math.Abs(float64(a-b))) <= tol
}

func nearVec(a, b rl.Vector3, tol float32) bool {
	return near(a.X, b.X, tol) && near(a.Y, b.Y, tol) && near(a.Z, b.Z, tol)
}

func requireNearVec(t *testing.T, what string, got, want rl.Vector3, tol float32) {
	t.Helper()
	if !nearVec(got, want, tol) {
		t.Errorf("Expected %s %v, got %v", what, want, got)
	}
}

// singleBone builds a one-bone rig hanging from a parent at head. The bone's
// rest tip is restTip; the simulated tip starts at startTip.
func singleBone(head, restTip, startTip rl.Vector3, prop BoneProperties) (*Rig, *engine.GameObject) {
	parent := engine.NewGameObject("parent")
	parent.Transform.Position = head
	bone := engine.NewGameObject("bone")
	parent.AddChild(bone)

	offset := rl.Vector3Subtract(restTip, head)
	prop.BoneAxis = rl.Vector3Normalize(offset)
	prop.SpringLength = rl.Vector3Length(offset)
	if prop.Layer == 0 {
		prop.Layer = DefaultLayer
	}

	rig := &Rig{
		Bones:       []BoneProperties{prop},
		States:      []BoneState{NewBoneState(bone.LocalRotation(), startTip)},
		Transforms:  []Transform{bone},
		Parents:     []Transform{parent},
		ParentIndex: []int{-1},
	}
	return rig, bone
}

// chainRig builds count independent chains of length bones each, hanging down
// from roots spaced along X.
func chainRig(count, length int, prop BoneProperties) *Rig {
	const segment = 0.5
	rig := &Rig{}
	prop.BoneAxis = rl.Vector3{Y: -1}
	prop.SpringLength = segment
	prop.Layer = DefaultLayer

	for c := range count {
		root := engine.NewGameObject("root")
		root.Transform.Position = rl.Vector3{X: float32(c) * 2, Y: 3}
		parent := root
		for b := range length {
			bone := engine.NewGameObject("bone")
			parent.AddChild(bone)
			if b > 0 {
				bone.Transform.Position = rl.Vector3{Y: -segment}
			}
			tip := rl.Vector3Add(bone.WorldPosition(), rl.Vector3{Y: -segment})

			parentIndex := -1
			if b > 0 {
				parentIndex = len(rig.Bones) - 1
			}
			rig.Bones = append(rig.Bones, prop)
			rig.States = append(rig.States, NewBoneState(bone.LocalRotation(), tip))
			rig.Transforms = append(rig.Transforms, bone)
			rig.Parents = append(rig.Parents, parent)
			rig.ParentIndex = append(rig.ParentIndex, parentIndex)
			parent = bone
		}
	}
	return rig
}

// testSettings isolates the spring: full simulation output, no ground, no limits.
func testSettings() Settings {
	s := DefaultSettings()
	s.DynamicRatio = 1
	s.CollideWithGround = false
	s.EnableAngleLimits = false
	return s
}
