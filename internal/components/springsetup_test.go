package components

import (
	"errors"
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"springbone/internal/engine"
	"springbone/internal/springbone"
)

func vecNear(a, b rl.Vector3, eps float32) bool {
	return rl.Vector3Distance(a, b) <= eps
}

// hairScene builds root -> hair1 -> hair2 -> tip, each link 0.5 below the last.
func hairScene() (*engine.Scene, *engine.GameObject) {
	scene := engine.NewScene("hair")
	root := engine.NewGameObject("root")
	root.Transform.Position = rl.Vector3{Y: 2}
	scene.AddGameObject(root)

	parent := root
	for i, name := range []string{"hair1", "hair2", "tip"} {
		g := engine.NewGameObject(name)
		if i > 0 {
			g.Transform.Position = rl.Vector3{Y: -0.5}
		}
		parent.AddChild(g)
		scene.AddGameObject(g)
		if name != "tip" {
			g.AddComponent(NewSpringBone())
		}
		parent = g
	}
	return scene, root
}

func TestBuildRigOrdersChain(t *testing.T) {
	scene, root := hairScene()
	rig, err := BuildRig(root, nil)
	if err != nil {
		t.Fatalf("BuildRig failed: %v", err)
	}

	if rig.BoneCount() != 2 {
		t.Fatalf("Expected 2 bones, got %d", rig.BoneCount())
	}
	hair1 := scene.FindByName("hair1")
	hair2 := scene.FindByName("hair2")
	if rig.Transforms[0] != springbone.Transform(hair1) || rig.Transforms[1] != springbone.Transform(hair2) {
		t.Error("Expected bones ordered hair1, hair2")
	}
	if rig.ParentIndex[0] != -1 || rig.ParentIndex[1] != 0 {
		t.Errorf("Expected parent indices [-1 0], got %v", rig.ParentIndex)
	}
	for i, bone := range rig.Bones {
		if !vecNear(bone.BoneAxis, rl.Vector3{Y: -1}, 1e-5) {
			t.Errorf("Expected bone %d axis (0,-1,0), got %v", i, bone.BoneAxis)
		}
		if math.Abs(float64(bone.SpringLength-0.5)) > 1e-5 {
			t.Errorf("Expected bone %d length 0.5, got %f", i, bone.SpringLength)
		}
		if bone.Layer != springbone.DefaultLayer {
			t.Errorf("Expected default layer, got %v", bone.Layer)
		}
	}
	if !vecNear(rig.States[1].CurrentTip, rl.Vector3{Y: 1}, 1e-5) {
		t.Errorf("Expected hair2 tip at (0,1,0), got %v", rig.States[1].CurrentTip)
	}
}

func TestBuildRigDefaultPivots(t *testing.T) {
	scene, root := hairScene()
	rig, err := BuildRig(root, nil)
	if err != nil {
		t.Fatalf("BuildRig failed: %v", err)
	}

	if rig.Pivots[0] != springbone.Transform(root) || rig.Bones[0].Pivot != springbone.UseRootTransform {
		t.Error("Expected a chain root to pivot on the rig root")
	}
	if rig.Pivots[1] != springbone.Transform(scene.FindByName("hair1")) || rig.Bones[1].Pivot != springbone.UseParentInChain {
		t.Error("Expected a chained bone to pivot on its parent")
	}
}

func TestBuildRigExplicitPivot(t *testing.T) {
	scene, root := hairScene()
	hair2 := scene.FindByName("hair2")
	engine.GetComponent[*SpringBone](hair2).Pivot = "own"

	rig, err := BuildRig(root, nil)
	if err != nil {
		t.Fatalf("BuildRig failed: %v", err)
	}
	if rig.Pivots[1] != springbone.Transform(hair2) || rig.Bones[1].Pivot != springbone.UseOwnTransform {
		t.Error("Expected hair2 to pivot on itself")
	}

	engine.GetComponent[*SpringBone](hair2).Pivot = "sideways"
	if _, err := BuildRig(root, nil); err == nil {
		t.Error("Expected an unknown pivot mode to fail")
	}
}

func TestBuildRigChildlessTip(t *testing.T) {
	root := engine.NewGameObject("root")
	bone := engine.NewGameObject("bone")
	bone.AddComponent(NewSpringBone())
	root.AddChild(bone)

	rig, err := BuildRig(root, nil)
	if err != nil {
		t.Fatalf("BuildRig failed: %v", err)
	}
	if !vecNear(rig.Bones[0].BoneAxis, rl.Vector3{X: -1}, 1e-5) {
		t.Errorf("Expected axis (-1,0,0), got %v", rig.Bones[0].BoneAxis)
	}
	if math.Abs(float64(rig.Bones[0].SpringLength-childlessTipLength)) > 1e-5 {
		t.Errorf("Expected length %f, got %f", childlessTipLength, rig.Bones[0].SpringLength)
	}
}

func TestBuildRigAveragesChildrenAndSkipsPivots(t *testing.T) {
	root := engine.NewGameObject("root")
	bone := engine.NewGameObject("bone")
	bone.AddComponent(NewSpringBone())
	root.AddChild(bone)

	a := engine.NewGameObject("a")
	a.Transform.Position = rl.Vector3{X: 1}
	b := engine.NewGameObject("b")
	b.Transform.Position = rl.Vector3{Y: 1}
	pivot := engine.NewGameObject("pivot")
	pivot.Transform.Position = rl.Vector3{Z: -5}
	pivot.AddComponent(&SpringBonePivot{})
	bone.AddChild(a)
	bone.AddChild(b)
	bone.AddChild(pivot)

	rig, err := BuildRig(root, nil)
	if err != nil {
		t.Fatalf("BuildRig failed: %v", err)
	}
	h := float32(math.Sqrt(0.5))
	if !vecNear(rig.States[0].CurrentTip, rl.Vector3{X: h, Y: h}, 1e-5) {
		t.Errorf("Expected tip (%f,%f,0), got %v", h, h, rig.States[0].CurrentTip)
	}
}

func TestBuildRigRotatedBoneAxisIsLocal(t *testing.T) {
	root := engine.NewGameObject("root")
	bone := engine.NewGameObject("bone")
	bone.AddComponent(NewSpringBone())
	bone.Transform.SetEuler(rl.Vector3{Z: 90})
	root.AddChild(bone)
	child := engine.NewGameObject("child")
	child.Transform.Position = rl.Vector3{X: 2}
	bone.AddChild(child)

	rig, err := BuildRig(root, nil)
	if err != nil {
		t.Fatalf("BuildRig failed: %v", err)
	}
	if !vecNear(rig.Bones[0].BoneAxis, rl.Vector3{X: 1}, 1e-4) {
		t.Errorf("Expected local axis (1,0,0), got %v", rig.Bones[0].BoneAxis)
	}
	if !vecNear(rig.States[0].CurrentTip, rl.Vector3{Y: 2}, 1e-4) {
		t.Errorf("Expected world tip (0,2,0), got %v", rig.States[0].CurrentTip)
	}
}

func TestBuildRigErrors(t *testing.T) {
	if _, err := BuildRig(nil, nil); !errors.Is(err, springbone.ErrNilTransform) {
		t.Errorf("Expected ErrNilTransform for nil root, got %v", err)
	}

	orphan := engine.NewGameObject("orphan")
	orphan.AddComponent(NewSpringBone())
	if _, err := BuildRig(orphan, nil); !errors.Is(err, springbone.ErrNilTransform) {
		t.Errorf("Expected ErrNilTransform for a parentless bone, got %v", err)
	}

	_, root := hairScene()
	layers, err := springbone.NewLayerTable("hair")
	if err != nil {
		t.Fatalf("NewLayerTable failed: %v", err)
	}
	engine.GetComponent[*SpringBone](root.Children[0]).Layers = []string{"cloth"}
	if _, err := BuildRig(root, layers); !errors.Is(err, springbone.ErrUnknownLayer) {
		t.Errorf("Expected ErrUnknownLayer, got %v", err)
	}
}

func TestBuildRigCollidersAndLayers(t *testing.T) {
	_, root := hairScene()
	layers, err := springbone.NewLayerTable("hair", "body")
	if err != nil {
		t.Fatalf("NewLayerTable failed: %v", err)
	}
	engine.GetComponent[*SpringBone](root.Children[0]).Layers = []string{"hair", "body"}

	head := engine.NewGameObject("head")
	sphere := NewSpringCollider(springbone.ColliderSphere, 0.3)
	sphere.Layers = []string{"body"}
	head.AddComponent(sphere)
	root.AddChild(head)

	skirt := engine.NewGameObject("skirt")
	skirt.AddComponent(NewCapsuleCollider(0.1, 0.8))
	root.AddChild(skirt)

	rig, err := BuildRig(root, layers)
	if err != nil {
		t.Fatalf("BuildRig failed: %v", err)
	}
	if len(rig.Colliders) != 2 {
		t.Fatalf("Expected 2 colliders, got %d", len(rig.Colliders))
	}
	if rig.Colliders[0].Type != springbone.ColliderSphere || rig.Colliders[0].Layer != 2 {
		t.Errorf("Expected sphere on layer bit 1, got %v on %v", rig.Colliders[0].Type, rig.Colliders[0].Layer)
	}
	if rig.Colliders[1].Type != springbone.ColliderCapsule || rig.Colliders[1].Height != 0.8 {
		t.Errorf("Expected capsule of height 0.8, got %v height %f", rig.Colliders[1].Type, rig.Colliders[1].Height)
	}
	if rig.Bones[0].Layer != 3 {
		t.Errorf("Expected bone mask 3, got %v", rig.Bones[0].Layer)
	}
	if rig.ColliderTransforms[0] != springbone.Transform(head) {
		t.Error("Expected collider transform to be its GameObject")
	}
}

func TestBuildRigLengthTargets(t *testing.T) {
	scene, root := hairScene()
	anchor := engine.NewGameObject("anchor")
	anchor.Transform.Position = rl.Vector3{X: 1, Y: 1}
	root.AddChild(anchor)
	scene.AddGameObject(anchor)

	bone := engine.GetComponent[*SpringBone](scene.FindByName("hair2"))
	var ref engine.GameObjectRef
	ref.Set(anchor)
	bone.LengthTargets = []engine.GameObjectRef{ref}

	rig, err := BuildRig(root, nil)
	if err != nil {
		t.Fatalf("BuildRig failed: %v", err)
	}
	limits := rig.Bones[1].LengthLimits
	if len(limits) != 1 {
		t.Fatalf("Expected 1 length limit, got %d", len(limits))
	}
	// anchor is at (1,3,0), hair2's tip at (0,1,0)
	want := float32(math.Sqrt(5))
	if math.Abs(float64(limits[0].Length-want)) > 1e-4 {
		t.Errorf("Expected length %f, got %f", want, limits[0].Length)
	}
}
