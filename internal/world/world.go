package world

import (
	"springbone/internal/components"
	"springbone/internal/engine"
	"springbone/internal/springbone"
)

// World holds the scene and drives it one frame at a time. Spring managers
// step in LateUpdate, after animators have posed their GameObjects.
type World struct {
	Scene *engine.Scene
}

func New() *World {
	return &World{
		Scene: engine.NewScene("Main"),
	}
}

// Open loads scenePath, or builds the demo from opts when it is empty, and
// starts the result.
func Open(scenePath string, opts DemoOptions) (*World, error) {
	w := New()
	if scenePath == "" {
		w.CreateDemo(opts)
	} else if err := w.LoadScene(scenePath); err != nil {
		return nil, err
	}
	w.Start()
	return w, nil
}

// Start starts every GameObject, which builds the spring systems.
func (w *World) Start() {
	w.Scene.Start()
}

func (w *World) Update(deltaTime float32) {
	w.Scene.Update(deltaTime)
}

// Managers returns every SpringManager in the scene, in scene order.
func (w *World) Managers() []*components.SpringManager {
	var result []*components.SpringManager
	for _, g := range w.Scene.GameObjects {
		if m := engine.GetComponent[*components.SpringManager](g); m != nil {
			result = append(result, m)
		}
	}
	return result
}

// Systems returns the running systems of all managers that built successfully.
func (w *World) Systems() []*springbone.System {
	var result []*springbone.System
	for _, m := range w.Managers() {
		if s := m.System(); s != nil {
			result = append(result, s)
		}
	}
	return result
}

// Stats sums the counters of every running system.
func (w *World) Stats() springbone.Stats {
	var total springbone.Stats
	for _, s := range w.Systems() {
		st := s.Stats()
		total.Frames = max(total.Frames, st.Frames)
		total.BonesStepped += st.BonesStepped
		total.Collisions += st.Collisions
		total.GroundHits += st.GroundHits
		total.Recoveries += st.Recoveries
	}
	return total
}

// BoneCount is the number of simulated bones across all systems.
func (w *World) BoneCount() int {
	n := 0
	for _, s := range w.Systems() {
		n += s.Rig().BoneCount()
	}
	return n
}

// SetSettings applies settings to every manager.
func (w *World) SetSettings(settings springbone.Settings) error {
	for _, m := range w.Managers() {
		if err := m.SetSettings(settings); err != nil {
			return err
		}
	}
	return nil
}

// Reset returns animators to their start pose and bones to rest.
func (w *World) Reset() {
	for _, g := range w.Scene.GameObjects {
		if a := engine.GetComponent[*components.SwayAnimator](g); a != nil {
			a.Reset()
		}
	}
	for _, s := range w.Systems() {
		s.Reset()
	}
}
