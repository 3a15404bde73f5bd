package springbone

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Transform is the host-side view of a scene node. engine.GameObject satisfies it.
type Transform interface {
	WorldPosition() rl.Vector3
	WorldRotation() rl.Quaternion
	WorldScale() rl.Vector3
	LocalRotation() rl.Quaternion
	SetLocalRotation(q rl.Quaternion)
}

// PivotMode selects the frame that angle limits are measured in.
type PivotMode int

const (
	UseParentInChain PivotMode = iota // host parent of the bone
	UseOwnTransform                   // the bone itself
	UseRootTransform                  // the rig root
)

func (m PivotMode) String() string {
	switch m {
	case UseParentInChain:
		return "parent"
	case UseOwnTransform:
		return "own"
	case UseRootTransform:
		return "root"
	}
	return fmt.Sprintf("PivotMode(%d)", int(m))
}

// ParsePivotMode accepts the names produced by String.
func ParsePivotMode(s string) (PivotMode, error) {
	switch s {
	case "parent", "":
		return UseParentInChain, nil
	case "own":
		return UseOwnTransform, nil
	case "root":
		return UseRootTransform, nil
	}
	return 0, fmt.Errorf("unknown pivot mode %q", s)
}

// LengthLimit pulls the tip toward a fixed distance from Target.
type LengthLimit struct {
	Target Transform
	Length float32
}

// BoneProperties is the authored, read-only description of one bone.
type BoneProperties struct {
	Stiffness        float32
	Drag             float32
	SpringForce      rl.Vector3 // constant external force
	WindInfluence    float32
	AngularStiffness float32
	YAngleLimits     AngleLimit
	ZAngleLimits     AngleLimit
	Radius           float32
	SpringLength     float32
	BoneAxis         rl.Vector3 // unit rest direction in the bone's local frame
	Layer            LayerMask
	Pivot            PivotMode
	LengthLimits     []LengthLimit
}

const axisTolerance = 1e-3

func (p BoneProperties) Validate() error {
	if p.SpringLength < 0 || !isFinite32(p.SpringLength) {
		return fmt.Errorf("spring length %v: %w", p.SpringLength, ErrInvalidBone)
	}
	if p.Radius < 0 || !isFinite32(p.Radius) {
		return fmt.Errorf("radius %v: %w", p.Radius, ErrInvalidBone)
	}
	if l := rl.Vector3Length(p.BoneAxis); abs32(l-1) > axisTolerance {
		return fmt.Errorf("bone axis %v has length %v: %w", p.BoneAxis, l, ErrInvalidBone)
	}
	for i, limit := range []AngleLimit{p.YAngleLimits, p.ZAngleLimits} {
		if limit.Active && limit.Min > limit.Max {
			return fmt.Errorf("angle limit %d min %v > max %v: %w", i, limit.Min, limit.Max, ErrInvalidBone)
		}
	}
	for i, ll := range p.LengthLimits {
		if ll.Target == nil {
			return fmt.Errorf("length limit %d: %w", i, ErrNilTransform)
		}
	}
	return nil
}

// BoneState is the simulated state of one bone. Tips are in world space.
type BoneState struct {
	CurrentTip  rl.Vector3
	PreviousTip rl.Vector3

	InitialLocalRotation   rl.Quaternion // bind pose
	SkinLocalRotation      rl.Quaternion // last animated pose
	SimulatedLocalRotation rl.Quaternion
	AppliedLocalRotation   rl.Quaternion // what was written to the transform
}

// NewBoneState starts a bone at rest with tip at the given world position.
func NewBoneState(initialLocal rl.Quaternion, tip rl.Vector3) BoneState {
	return BoneState{
		CurrentTip:             tip,
		PreviousTip:            tip,
		InitialLocalRotation:   initialLocal,
		SkinLocalRotation:      initialLocal,
		SimulatedLocalRotation: initialLocal,
		AppliedLocalRotation:   initialLocal,
	}
}

// Velocity is the implicit per-step tip displacement.
func (s BoneState) Velocity() rl.Vector3 {
	return rl.Vector3Subtract(s.CurrentTip, s.PreviousTip)
}
