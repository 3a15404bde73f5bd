package components

import (
	"log"

	rl "github.com/gen2brain/raylib-go/raylib"

	"springbone/internal/engine"
	"springbone/internal/springbone"
)

func init() {
	engine.RegisterComponent("SpringBone", func() engine.Serializable {
		return NewSpringBone()
	})
	engine.RegisterComponent("SpringBonePivot", func() engine.Serializable {
		return &SpringBonePivot{}
	})
}

// SpringBone marks a GameObject as a simulated bone. Its tip is the average of
// its children, ignoring children that carry a SpringBonePivot.
type SpringBone struct {
	engine.BaseComponent
	Stiffness        float32
	Drag             float32
	SpringForce      rl.Vector3
	WindInfluence    float32
	AngularStiffness float32
	YAngleLimits     springbone.AngleLimit
	ZAngleLimits     springbone.AngleLimit
	Radius           float32
	Layers           []string // collision layer names, empty means the default layer
	Pivot            string   // "", "own", "root" or "parent"

	// Tip is pulled toward its bind distance from each target.
	LengthTargets []engine.GameObjectRef
	targetNames   []string
}

func NewSpringBone() *SpringBone {
	return &SpringBone{
		Stiffness:        100,
		Drag:             0.4,
		WindInfluence:    1,
		AngularStiffness: 100,
		YAngleLimits:     springbone.AngleLimit{Min: -30, Max: 30},
		ZAngleLimits:     springbone.AngleLimit{Min: -30, Max: 30},
		Radius:           0.05,
	}
}

// Properties converts the authored values into solver properties. Axis, length
// and length limits are filled in by BuildRig.
func (b *SpringBone) Properties(layers *springbone.LayerTable) (springbone.BoneProperties, error) {
	prop := springbone.BoneProperties{
		Stiffness:        b.Stiffness,
		Drag:             b.Drag,
		SpringForce:      b.SpringForce,
		WindInfluence:    b.WindInfluence,
		AngularStiffness: b.AngularStiffness,
		YAngleLimits:     b.YAngleLimits,
		ZAngleLimits:     b.ZAngleLimits,
		Radius:           b.Radius,
		Layer:            springbone.DefaultLayer,
	}
	if len(b.Layers) > 0 {
		mask, err := layers.ParseLayerMask(b.Layers)
		if err != nil {
			return prop, err
		}
		prop.Layer = mask
	}
	return prop, nil
}

// ResolveReferences links length targets read from a scene file by name.
func (b *SpringBone) ResolveReferences(scene *engine.Scene) {
	if len(b.targetNames) == 0 {
		return
	}
	b.LengthTargets = b.LengthTargets[:0]
	for _, name := range b.targetNames {
		target := scene.FindByName(name)
		if target == nil {
			log.Printf("SpringBone: length target %q not found", name)
			continue
		}
		var ref engine.GameObjectRef
		ref.Set(target)
		b.LengthTargets = append(b.LengthTargets, ref)
	}
	b.targetNames = nil
}

// TypeName implements engine.Serializable
func (b *SpringBone) TypeName() string {
	return "SpringBone"
}

// Serialize implements engine.Serializable
func (b *SpringBone) Serialize() map[string]any {
	data := map[string]any{
		"type":             "SpringBone",
		"stiffness":        b.Stiffness,
		"drag":             b.Drag,
		"springForce":      vec3Data(b.SpringForce),
		"windInfluence":    b.WindInfluence,
		"angularStiffness": b.AngularStiffness,
		"yAngleLimits":     angleLimitData(b.YAngleLimits),
		"zAngleLimits":     angleLimitData(b.ZAngleLimits),
		"radius":           b.Radius,
	}
	if len(b.Layers) > 0 {
		data["layers"] = b.Layers
	}
	if b.Pivot != "" {
		data["pivot"] = b.Pivot
	}

	var names []string
	var scene *engine.Scene
	if g := b.GetGameObject(); g != nil {
		scene = g.Scene
	}
	for _, ref := range b.LengthTargets {
		if target := ref.Get(scene); target != nil {
			names = append(names, target.Name)
		}
	}
	if len(names) > 0 {
		data["lengthTargets"] = names
	}
	return data
}

// Deserialize implements engine.Serializable
func (b *SpringBone) Deserialize(data map[string]any) {
	readFloat(data, "stiffness", &b.Stiffness)
	readFloat(data, "drag", &b.Drag)
	readVec3(data, "springForce", &b.SpringForce)
	readFloat(data, "windInfluence", &b.WindInfluence)
	readFloat(data, "angularStiffness", &b.AngularStiffness)
	readAngleLimit(data, "yAngleLimits", &b.YAngleLimits)
	readAngleLimit(data, "zAngleLimits", &b.ZAngleLimits)
	readFloat(data, "radius", &b.Radius)
	readStrings(data, "layers", &b.Layers)
	readString(data, "pivot", &b.Pivot)
	readStrings(data, "lengthTargets", &b.targetNames)
}

// SpringBonePivot marks a helper child, such as a pivot node, that must not be
// treated as a bone tip.
type SpringBonePivot struct {
	engine.BaseComponent
}

// TypeName implements engine.Serializable
func (p *SpringBonePivot) TypeName() string {
	return "SpringBonePivot"
}

// Serialize implements engine.Serializable
func (p *SpringBonePivot) Serialize() map[string]any {
	return map[string]any{"type": "SpringBonePivot"}
}

// Deserialize implements engine.Serializable
func (p *SpringBonePivot) Deserialize(data map[string]any) {}
