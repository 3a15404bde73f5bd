package components

import (
	"log"

	"springbone/internal/engine"
	"springbone/internal/springbone"
)

func init() {
	engine.RegisterComponent("SpringManager", func() engine.Serializable {
		return NewSpringManager()
	})
}

// SpringManager owns the simulation for every SpringBone beneath its
// GameObject. It steps in LateUpdate so animated poses are already applied.
type SpringManager struct {
	engine.BaseComponent
	Settings   springbone.Settings
	Workers    int
	MaxForces  int
	LayerNames []string

	layers *springbone.LayerTable
	system *springbone.System
	err    error
}

func NewSpringManager() *SpringManager {
	return &SpringManager{
		Settings:  springbone.DefaultSettings(),
		Workers:   1,
		MaxForces: springbone.DefaultForceCapacity,
	}
}

func (m *SpringManager) Start() {
	if err := m.Build(); err != nil {
		log.Printf("SpringManager: %v", err)
	}
}

// Build (re)creates the system from the current hierarchy. The error is also
// kept for Err.
func (m *SpringManager) Build() error {
	m.system = nil
	m.err = m.build()
	return m.err
}

func (m *SpringManager) build() error {
	g := m.GetGameObject()
	if g == nil {
		return springbone.ErrNilTransform
	}

	layers, err := springbone.NewLayerTable(m.LayerNames...)
	if err != nil {
		return err
	}
	m.layers = layers

	rig, err := BuildRig(g, layers)
	if err != nil {
		return err
	}

	forces := springbone.NewForceList(m.MaxForces)
	for _, provider := range m.forceProviders() {
		if err := forces.Add(provider); err != nil {
			log.Printf("SpringManager: %v", err)
			break
		}
	}

	system, err := springbone.NewSystem(rig, m.Settings,
		springbone.WithWorkers(m.Workers),
		springbone.WithForces(forces))
	if err != nil {
		return err
	}
	m.system = system
	log.Printf("SpringManager: %d bones, %d colliders, %d forces, %d chains",
		rig.BoneCount(), len(rig.Colliders), forces.Len(), len(rig.Chains()))
	return nil
}

// forceProviders collects force components from the whole scene, or from the
// manager's own subtree when it is not in a scene.
func (m *SpringManager) forceProviders() []springbone.ForceProvider {
	g := m.GetGameObject()
	var result []springbone.ForceProvider
	collect := func(obj *engine.GameObject) {
		for _, c := range obj.Components() {
			if p, ok := c.(springbone.ForceProvider); ok {
				result = append(result, p)
			}
		}
	}
	if g.Scene != nil {
		for _, obj := range g.Scene.GameObjects {
			collect(obj)
		}
		return result
	}
	var walk func(obj *engine.GameObject)
	walk = func(obj *engine.GameObject) {
		collect(obj)
		for _, child := range obj.Children {
			walk(child)
		}
	}
	walk(g)
	return result
}

func (m *SpringManager) LateUpdate(deltaTime float32) {
	if m.system == nil {
		return
	}
	m.system.Update(deltaTime)
}

// SetSettings applies new global settings, to the running system as well.
func (m *SpringManager) SetSettings(settings springbone.Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	m.Settings = settings
	if m.system != nil {
		return m.system.SetSettings(settings)
	}
	return nil
}

// System is nil until Start succeeds.
func (m *SpringManager) System() *springbone.System {
	return m.system
}

func (m *SpringManager) Layers() *springbone.LayerTable {
	return m.layers
}

// Err reports why the last build failed, or why the running system stopped.
func (m *SpringManager) Err() error {
	if m.err == nil && m.system != nil {
		return m.system.Err()
	}
	return m.err
}

// TypeName implements engine.Serializable
func (m *SpringManager) TypeName() string {
	return "SpringManager"
}

// Serialize implements engine.Serializable
func (m *SpringManager) Serialize() map[string]any {
	s := m.Settings
	data := map[string]any{
		"type":                "SpringManager",
		"paused":              s.Paused,
		"simulationFrameRate": s.SimulationFrameRate,
		"dynamicRatio":        s.DynamicRatio,
		"gravity":             vec3Data(s.Gravity),
		"applyGravity":        s.ApplyGravity,
		"bounce":              s.Bounce,
		"friction":            s.Friction,
		"enableAngleLimits":   s.EnableAngleLimits,
		"enableCollision":     s.EnableCollision,
		"enableLengthLimits":  s.EnableLengthLimits,
		"collideWithGround":   s.CollideWithGround,
		"groundHeight":        s.GroundHeight,
		"workers":             m.Workers,
		"maxForces":           m.MaxForces,
	}
	if len(m.LayerNames) > 0 {
		data["layers"] = m.LayerNames
	}
	return data
}

// Deserialize implements engine.Serializable
func (m *SpringManager) Deserialize(data map[string]any) {
	s := &m.Settings
	readBool(data, "paused", &s.Paused)
	readInt(data, "simulationFrameRate", &s.SimulationFrameRate)
	readFloat(data, "dynamicRatio", &s.DynamicRatio)
	readVec3(data, "gravity", &s.Gravity)
	readBool(data, "applyGravity", &s.ApplyGravity)
	readFloat(data, "bounce", &s.Bounce)
	readFloat(data, "friction", &s.Friction)
	readBool(data, "enableAngleLimits", &s.EnableAngleLimits)
	readBool(data, "enableCollision", &s.EnableCollision)
	readBool(data, "enableLengthLimits", &s.EnableLengthLimits)
	readBool(data, "collideWithGround", &s.CollideWithGround)
	readFloat(data, "groundHeight", &s.GroundHeight)
	readInt(data, "workers", &m.Workers)
	readInt(data, "maxForces", &m.MaxForces)
	readStrings(data, "layers", &m.LayerNames)
}
