package engine

import (
	"sync/atomic"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// Transform is a local TRS relative to the parent GameObject.
type Transform struct {
	Position rl.Vector3
	Rotation rl.Quaternion
	Scale    rl.Vector3
}

// SetEuler sets the local rotation from Euler angles in degrees (X, Y, Z).
func (t *Transform) SetEuler(degrees rl.Vector3) {
	t.Rotation = rl.QuaternionFromEuler(degrees.X*rl.Deg2rad, degrees.Y*rl.Deg2rad, degrees.Z*rl.Deg2rad)
}

// Euler returns the local rotation as Euler angles in degrees.
func (t Transform) Euler() rl.Vector3 {
	return rl.Vector3Scale(rl.QuaternionToEuler(t.Rotation), rl.Rad2deg)
}

var nextUID atomic.Uint64

type GameObject struct {
	UID        uint64
	Name       string
	Tags       []string
	Transform  Transform
	Active     bool
	Scene      *Scene
	Parent     *GameObject
	Children   []*GameObject
	components []Component
	started    bool
}

func NewGameObject(name string) *GameObject {
	return &GameObject{
		UID:    nextUID.Add(1),
		Name:   name,
		Active: true,
		Transform: Transform{
			Position: rl.Vector3{},
			Rotation: rl.QuaternionIdentity(),
			Scale:    rl.Vector3{X: 1, Y: 1, Z: 1},
		},
		components: make([]Component, 0),
		Children:   make([]*GameObject, 0),
	}
}

func (g *GameObject) AddComponent(c Component) {
	c.SetGameObject(g)
	g.components = append(g.components, c)
}

// GetComponent returns the first component of type T, or the zero value.
func GetComponent[T Component](g *GameObject) T {
	var zero T
	for _, c := range g.components {
		if typed, ok := c.(T); ok {
			return typed
		}
	}
	return zero
}

// GetComponentsInChildren collects every component of type T on g and its
// descendants, depth-first in child order.
func GetComponentsInChildren[T Component](g *GameObject) []T {
	var result []T
	var walk func(n *GameObject)
	walk = func(n *GameObject) {
		for _, c := range n.components {
			if typed, ok := c.(T); ok {
				result = append(result, typed)
			}
		}
		for _, child := range n.Children {
			walk(child)
		}
	}
	walk(g)
	return result
}

func (g *GameObject) Start() {
	if g.started {
		return
	}
	for _, c := range g.components {
		c.Start()
	}
	g.started = true
}

func (g *GameObject) Update(deltaTime float32) {
	if !g.Active {
		return
	}
	for _, c := range g.components {
		c.Update(deltaTime)
	}
}

func (g *GameObject) LateUpdate(deltaTime float32) {
	if !g.Active {
		return
	}
	for _, c := range g.components {
		if late, ok := c.(LateUpdater); ok {
			late.LateUpdate(deltaTime)
		}
	}
}

func (g *GameObject) Components() []Component {
	return g.components
}

func (g *GameObject) HasTag(tag string) bool {
	for _, t := range g.Tags {
		if t == tag {
			return true
		}
	}
	return false
}

func (g *GameObject) AddChild(child *GameObject) {
	if child.Parent != nil {
		child.Parent.RemoveChild(child)
	}
	child.Parent = g
	g.Children = append(g.Children, child)
}

func (g *GameObject) RemoveChild(child *GameObject) {
	for i, c := range g.Children {
		if c == child {
			g.Children = append(g.Children[:i], g.Children[i+1:]...)
			child.Parent = nil
			return
		}
	}
}

// Depth is the number of GameObjects from g up to its root, inclusive.
func (g *GameObject) Depth() int {
	depth := 0
	for n := g; n != nil; n = n.Parent {
		depth++
	}
	return depth
}

// Root returns the topmost ancestor of g.
func (g *GameObject) Root() *GameObject {
	n := g
	for n.Parent != nil {
		n = n.Parent
	}
	return n
}

// IsDescendantOf reports whether ancestor appears above g in the hierarchy.
func (g *GameObject) IsDescendantOf(ancestor *GameObject) bool {
	for n := g.Parent; n != nil; n = n.Parent {
		if n == ancestor {
			return true
		}
	}
	return false
}

func (g *GameObject) WorldPosition() rl.Vector3 {
	if g.Parent == nil {
		return g.Transform.Position
	}
	return g.Parent.TransformPoint(g.Transform.Position)
}

func (g *GameObject) WorldRotation() rl.Quaternion {
	if g.Parent == nil {
		return g.Transform.Rotation
	}
	return rl.QuaternionMultiply(g.Parent.WorldRotation(), g.Transform.Rotation)
}

// WorldScale is the component-wise product of scales up the hierarchy. Like
// any TRS chain it is lossy under non-uniform scale combined with rotation.
func (g *GameObject) WorldScale() rl.Vector3 {
	if g.Parent == nil {
		return g.Transform.Scale
	}
	return rl.Vector3Multiply(g.Parent.WorldScale(), g.Transform.Scale)
}

func (g *GameObject) LocalRotation() rl.Quaternion {
	return g.Transform.Rotation
}

func (g *GameObject) SetLocalRotation(q rl.Quaternion) {
	g.Transform.Rotation = q
}

// TransformPoint maps a point from g's local space into world space.
func (g *GameObject) TransformPoint(p rl.Vector3) rl.Vector3 {
	scaled := rl.Vector3Multiply(p, g.WorldScale())
	return rl.Vector3Add(g.WorldPosition(), rl.Vector3RotateByQuaternion(scaled, g.WorldRotation()))
}

// InverseTransformPoint maps a world-space point into g's local space.
func (g *GameObject) InverseTransformPoint(p rl.Vector3) rl.Vector3 {
	offset := rl.Vector3Subtract(p, g.WorldPosition())
	local := rl.Vector3RotateByQuaternion(offset, rl.QuaternionInvert(g.WorldRotation()))
	return divideSafe(local, g.WorldScale())
}

// TransformDirection rotates a local direction into world space, ignoring scale.
func (g *GameObject) TransformDirection(d rl.Vector3) rl.Vector3 {
	return rl.Vector3RotateByQuaternion(d, g.WorldRotation())
}

// Right is the world-space +X axis of g.
func (g *GameObject) Right() rl.Vector3 {
	return g.TransformDirection(rl.Vector3{X: 1})
}

func divideSafe(v, s rl.Vector3) rl.Vector3 {
	out := v
	if s.X != 0 {
		out.X /= s.X
	}
	if s.Y != 0 {
		out.Y /= s.Y
	}
	if s.Z != 0 {
		out.Z /= s.Z
	}
	return out
}
