package springbone

import "fmt"

// Rig is the flat, index-addressed input to a System. Bones are ordered parent
// before child. Parents[i] is the host node whose rotation defines bone i's rest
// frame; ParentIndex[i] is the nearest ancestor that is itself a bone, or -1.
// Pivots may be nil, in which case Parents are used for angle limits.
// A Rig's slices must not be resized once a System is built from it.
type Rig struct {
	Bones       []BoneProperties
	States      []BoneState
	Transforms  []Transform
	Parents     []Transform
	Pivots      []Transform
	ParentIndex []int

	Colliders          []Collider
	ColliderTransforms []Transform
}

func (r *Rig) BoneCount() int { return len(r.Bones) }

// Validate checks the rig's structural invariants.
func (r *Rig) Validate() error {
	n := len(r.Bones)
	if len(r.States) != n || len(r.Transforms) != n || len(r.Parents) != n || len(r.ParentIndex) != n {
		return fmt.Errorf("bones=%d states=%d transforms=%d parents=%d parentIndex=%d: %w",
			n, len(r.States), len(r.Transforms), len(r.Parents), len(r.ParentIndex), ErrLengthMismatch)
	}
	if r.Pivots != nil && len(r.Pivots) != n {
		return fmt.Errorf("bones=%d pivots=%d: %w", n, len(r.Pivots), ErrLengthMismatch)
	}
	if len(r.Colliders) != len(r.ColliderTransforms) {
		return fmt.Errorf("colliders=%d colliderTransforms=%d: %w",
			len(r.Colliders), len(r.ColliderTransforms), ErrLengthMismatch)
	}

	for i := range n {
		if r.Transforms[i] == nil || r.Parents[i] == nil || (r.Pivots != nil && r.Pivots[i] == nil) {
			return fmt.Errorf("bone %d: %w", i, ErrNilTransform)
		}
		if p := r.ParentIndex[i]; p >= i || p < -1 {
			return fmt.Errorf("bone %d has parent %d: %w", i, p, ErrBoneOrder)
		}
		if err := r.Bones[i].Validate(); err != nil {
			return fmt.Errorf("bone %d: %w", i, err)
		}
	}
	for i, t := range r.ColliderTransforms {
		if t == nil {
			return fmt.Errorf("collider %d: %w", i, ErrNilTransform)
		}
	}
	return nil
}

func (r *Rig) pivot(i int) Transform {
	if r.Pivots == nil {
		return r.Parents[i]
	}
	return r.Pivots[i]
}

// Chains partitions bones into groups connected through ParentIndex. Each group
// keeps parent-before-child order and shares no bone with any other group.
func (r *Rig) Chains() [][]int {
	chainOf := make([]int, len(r.Bones))
	var chains [][]int
	for i, p := range r.ParentIndex {
		if p < 0 {
			chainOf[i] = len(chains)
			chains = append(chains, []int{i})
			continue
		}
		c := chainOf[p]
		chainOf[i] = c
		chains[c] = append(chains[c], i)
	}
	return chains
}
