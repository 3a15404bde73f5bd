package components

import (
	"fmt"
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"

	"springbone/internal/engine"
	"springbone/internal/springbone"
)

// Tip distance used for a bone without children, along its local -X.
const childlessTipLength = 0.1

// BuildRig gathers every SpringBone and SpringCollider under root into a rig.
// Bones are ordered by hierarchy depth so parents always precede children.
func BuildRig(root *engine.GameObject, layers *springbone.LayerTable) (*springbone.Rig, error) {
	if root == nil {
		return nil, fmt.Errorf("build rig: %w", springbone.ErrNilTransform)
	}

	bones := engine.GetComponentsInChildren[*SpringBone](root)
	slices.SortStableFunc(bones, func(a, b *SpringBone) int {
		return a.GetGameObject().Depth() - b.GetGameObject().Depth()
	})

	index := make(map[*engine.GameObject]int, len(bones))
	rig := &springbone.Rig{}
	for i, b := range bones {
		g := b.GetGameObject()
		index[g] = i
		if g.Parent == nil {
			return nil, fmt.Errorf("bone %q has no parent: %w", g.Name, springbone.ErrNilTransform)
		}

		prop, err := b.Properties(layers)
		if err != nil {
			return nil, fmt.Errorf("bone %q: %w", g.Name, err)
		}

		head := g.WorldPosition()
		tip := boneTip(g)
		offset := rl.Vector3Subtract(tip, head)
		local := rl.Vector3RotateByQuaternion(offset, rl.QuaternionInvert(g.WorldRotation()))
		prop.BoneAxis = rl.Vector3Normalize(local)
		prop.SpringLength = rl.Vector3Length(offset)

		parentIndex := springParent(g, root, index)
		pivot, mode, err := resolvePivot(b, g, root, parentIndex)
		if err != nil {
			return nil, fmt.Errorf("bone %q: %w", g.Name, err)
		}
		prop.Pivot = mode

		for _, ref := range b.LengthTargets {
			target := ref.Get(g.Scene)
			if target == nil {
				continue
			}
			prop.LengthLimits = append(prop.LengthLimits, springbone.LengthLimit{
				Target: target,
				Length: rl.Vector3Distance(target.WorldPosition(), tip),
			})
		}

		rig.Bones = append(rig.Bones, prop)
		rig.States = append(rig.States, springbone.NewBoneState(g.LocalRotation(), tip))
		rig.Transforms = append(rig.Transforms, g)
		rig.Parents = append(rig.Parents, g.Parent)
		rig.Pivots = append(rig.Pivots, pivot)
		rig.ParentIndex = append(rig.ParentIndex, parentIndex)
	}

	for _, c := range engine.GetComponentsInChildren[*SpringCollider](root) {
		col, err := c.Collider(layers)
		if err != nil {
			return nil, fmt.Errorf("collider %q: %w", c.GetGameObject().Name, err)
		}
		rig.Colliders = append(rig.Colliders, col)
		rig.ColliderTransforms = append(rig.ColliderTransforms, c.GetGameObject())
	}

	if err := rig.Validate(); err != nil {
		return nil, err
	}
	return rig, nil
}

// boneTip averages the child positions. Multiple children give the mean
// direction scaled by the mean distance.
func boneTip(g *engine.GameObject) rl.Vector3 {
	head := g.WorldPosition()
	var dirSum rl.Vector3
	var distSum float32
	count := 0
	for _, child := range g.Children {
		if engine.GetComponent[*SpringBonePivot](child) != nil {
			continue
		}
		offset := rl.Vector3Subtract(child.WorldPosition(), head)
		dirSum = rl.Vector3Add(dirSum, rl.Vector3Normalize(offset))
		distSum += rl.Vector3Length(offset)
		count++
	}

	fallback := rl.Vector3Add(head, rl.Vector3Scale(g.Right(), -childlessTipLength))
	if count == 0 {
		return fallback
	}
	if count == 1 {
		if distSum < 1e-4 {
			return fallback
		}
		return rl.Vector3Add(head, rl.Vector3Scale(rl.Vector3Normalize(dirSum), distSum))
	}
	dir := rl.Vector3Scale(dirSum, 1/float32(count))
	if rl.Vector3Length(dir) < 1e-4 || distSum < 1e-4 {
		return fallback
	}
	return rl.Vector3Add(head, rl.Vector3Scale(rl.Vector3Normalize(dir), distSum/float32(count)))
}

// springParent returns the index of the nearest ancestor below root that is a
// spring bone, or -1.
func springParent(g, root *engine.GameObject, index map[*engine.GameObject]int) int {
	for n := g.Parent; n != nil; n = n.Parent {
		if i, ok := index[n]; ok {
			return i
		}
		if n == root {
			break
		}
	}
	return -1
}

// resolvePivot picks the angle-limit frame. Without an explicit mode, chain
// roots measure against the rig root and the rest against their parent.
func resolvePivot(b *SpringBone, g, root *engine.GameObject, parentIndex int) (springbone.Transform, springbone.PivotMode, error) {
	if b.Pivot == "" {
		if parentIndex < 0 {
			return root, springbone.UseRootTransform, nil
		}
		return g.Parent, springbone.UseParentInChain, nil
	}

	mode, err := springbone.ParsePivotMode(b.Pivot)
	if err != nil {
		return nil, 0, err
	}
	switch mode {
	case springbone.UseOwnTransform:
		return g, mode, nil
	case springbone.UseRootTransform:
		return root, mode, nil
	}
	return g.Parent, mode, nil
}
