package springbone

import (
	"fmt"

	rl "github.com/gen2brain/raylib-go/raylib"

	"springbone/internal/physics"
)

type ColliderType int

const (
	ColliderSphere ColliderType = iota
	ColliderCapsule
	ColliderPanel
)

func (t ColliderType) String() string {
	switch t {
	case ColliderSphere:
		return "sphere"
	case ColliderCapsule:
		return "capsule"
	case ColliderPanel:
		return "panel"
	}
	return fmt.Sprintf("ColliderType(%d)", int(t))
}

// ParseColliderType is the inverse of ColliderType.String.
func ParseColliderType(s string) (ColliderType, error) {
	switch s {
	case "sphere":
		return ColliderSphere, nil
	case "capsule":
		return ColliderCapsule, nil
	case "panel":
		return ColliderPanel, nil
	}
	return 0, fmt.Errorf("unknown collider type %q", s)
}

// Collider describes a primitive in its own local frame.
//   - Sphere: centered at the origin.
//   - Capsule: axis along local +Y from 0 to Height, caps of Radius.
//   - Panel: Width x Height rectangle in the local XY plane, solid side is -Z.
type Collider struct {
	Type   ColliderType
	Layer  LayerMask
	Radius float32
	Width  float32
	Height float32
}

type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

// Intersection is a circle in 3D: the set of points at Radius from Origin in the
// plane orthogonal to Up.
type Intersection struct {
	Origin rl.Vector3
	Up     rl.Vector3
	Radius float32
}

// ColliderTransform caches a collider's world frame for one simulation pass.
type ColliderTransform struct {
	Position     rl.Vector3
	Rotation     rl.Quaternion
	Scale        rl.Vector3
	LocalToWorld rl.Matrix
	WorldToLocal rl.Matrix
}

func NewColliderTransform(position rl.Vector3, rotation rl.Quaternion, scale rl.Vector3) ColliderTransform {
	localToWorld := rl.MatrixMultiply(
		rl.MatrixMultiply(rl.MatrixScale(scale.X, scale.Y, scale.Z), rl.QuaternionToMatrix(rotation)),
		rl.MatrixTranslate(position.X, position.Y, position.Z),
	)
	return ColliderTransform{
		Position:     position,
		Rotation:     rotation,
		Scale:        scale,
		LocalToWorld: localToWorld,
		WorldToLocal: rl.MatrixInvert(localToWorld),
	}
}

// ColliderTransformOf samples a host transform.
func ColliderTransformOf(t Transform) ColliderTransform {
	return NewColliderTransform(t.WorldPosition(), t.WorldRotation(), t.WorldScale())
}

func (x ColliderTransform) ToLocal(p rl.Vector3) rl.Vector3 {
	return rl.Vector3Transform(p, x.WorldToLocal)
}

func (x ColliderTransform) ToWorld(p rl.Vector3) rl.Vector3 {
	return rl.Vector3Transform(p, x.LocalToWorld)
}

// NormalToWorld maps a local surface normal to a unit world direction.
func (x ColliderTransform) NormalToWorld(n rl.Vector3) rl.Vector3 {
	scaled := rl.Vector3{X: safeDiv(n.X, x.Scale.X), Y: safeDiv(n.Y, x.Scale.Y), Z: safeDiv(n.Z, x.Scale.Z)}
	return rl.Vector3Normalize(rotate(scaled, x.Rotation))
}

// localLength converts a world distance into local units using the X-axis scale.
func (x ColliderTransform) localLength(d float32) float32 {
	return safeDiv(d, abs32(x.Scale.X))
}

func (x ColliderTransform) maxScale() float32 {
	return max(abs32(x.Scale.X), abs32(x.Scale.Y), abs32(x.Scale.Z))
}

// ColliderBounds returns a conservative world-space box around a sphere or capsule.
// Panels report ok=false and are always tested.
func ColliderBounds(c Collider, x ColliderTransform) (bounds physics.AABB, ok bool) {
	r := c.Radius * x.maxScale()
	switch c.Type {
	case ColliderSphere:
		return physics.NewAABBFromSphere(x.Position, r), true
	case ColliderCapsule:
		top := x.ToWorld(rl.Vector3{Y: c.Height})
		return physics.NewAABBFromSegment(x.Position, top, r), true
	}
	return physics.AABB{}, false
}

func safeDiv(a, b float32) float32 {
	if b == 0 {
		return a
	}
	return a / b
}
