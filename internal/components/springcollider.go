package components

import (
	"log"

	"springbone/internal/engine"
	"springbone/internal/springbone"
)

func init() {
	engine.RegisterComponent("SpringCollider", func() engine.Serializable {
		return NewSpringCollider(springbone.ColliderSphere, 0.1)
	})
}

// SpringCollider is a collision primitive spring bones are pushed out of. The
// shape lives in the GameObject's local frame.
type SpringCollider struct {
	engine.BaseComponent
	Type   springbone.ColliderType
	Radius float32
	Width  float32 // panel only
	Height float32 // capsule length between cap centers, or panel height
	Layers []string
}

func NewSpringCollider(t springbone.ColliderType, radius float32) *SpringCollider {
	return &SpringCollider{
		Type:   t,
		Radius: radius,
	}
}

func NewCapsuleCollider(radius, height float32) *SpringCollider {
	c := NewSpringCollider(springbone.ColliderCapsule, radius)
	c.Height = height
	return c
}

func NewPanelCollider(width, height float32) *SpringCollider {
	c := NewSpringCollider(springbone.ColliderPanel, 0)
	c.Width = width
	c.Height = height
	return c
}

func (c *SpringCollider) Collider(layers *springbone.LayerTable) (springbone.Collider, error) {
	col := springbone.Collider{
		Type:   c.Type,
		Layer:  springbone.DefaultLayer,
		Radius: c.Radius,
		Width:  c.Width,
		Height: c.Height,
	}
	if len(c.Layers) > 0 {
		mask, err := layers.ParseLayerMask(c.Layers)
		if err != nil {
			return col, err
		}
		col.Layer = mask
	}
	return col, nil
}

// TypeName implements engine.Serializable
func (c *SpringCollider) TypeName() string {
	return "SpringCollider"
}

// Serialize implements engine.Serializable
func (c *SpringCollider) Serialize() map[string]any {
	data := map[string]any{
		"type":   "SpringCollider",
		"shape":  c.Type.String(),
		"radius": c.Radius,
	}
	if c.Width != 0 {
		data["width"] = c.Width
	}
	if c.Height != 0 {
		data["height"] = c.Height
	}
	if len(c.Layers) > 0 {
		data["layers"] = c.Layers
	}
	return data
}

// Deserialize implements engine.Serializable
func (c *SpringCollider) Deserialize(data map[string]any) {
	if s, ok := data["shape"].(string); ok {
		t, err := springbone.ParseColliderType(s)
		if err != nil {
			log.Printf("SpringCollider: %v", err)
		} else {
			c.Type = t
		}
	}
	readFloat(data, "radius", &c.Radius)
	readFloat(data, "width", &c.Width)
	readFloat(data, "height", &c.Height)
	readStrings(data, "layers", &c.Layers)
}
