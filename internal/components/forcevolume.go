package components

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"springbone/internal/engine"
	"springbone/internal/springbone"
)

func init() {
	engine.RegisterComponent("ForceVolume", func() engine.Serializable {
		return NewForceVolume(1)
	})
	engine.RegisterComponent("WindVolume", func() engine.Serializable {
		return NewWindVolume()
	})
}

// ForceVolume pushes every bone along the GameObject's forward (+Z) axis.
type ForceVolume struct {
	engine.BaseComponent
	Strength float32
}

func NewForceVolume(strength float32) *ForceVolume {
	return &ForceVolume{Strength: strength}
}

func (f *ForceVolume) ForceOnBone(pos rl.Vector3, windInfluence float32, t float64) rl.Vector3 {
	g := f.GetGameObject()
	if g == nil {
		return rl.Vector3{}
	}
	return springbone.DirectionalForce{
		Direction: g.TransformDirection(rl.Vector3{Z: 1}),
		Strength:  f.Strength,
	}.ForceOnBone(pos, windInfluence, t)
}

// TypeName implements engine.Serializable
func (f *ForceVolume) TypeName() string {
	return "ForceVolume"
}

// Serialize implements engine.Serializable
func (f *ForceVolume) Serialize() map[string]any {
	return map[string]any{
		"type":     "ForceVolume",
		"strength": f.Strength,
	}
}

// Deserialize implements engine.Serializable
func (f *ForceVolume) Deserialize(data map[string]any) {
	readFloat(data, "strength", &f.Strength)
}

// WindVolume blows gusting wind along the GameObject's forward (+Z) axis,
// scaled by each bone's wind influence.
type WindVolume struct {
	engine.BaseComponent
	Strength     float32
	Weight       float32
	Amplitude    float32 // gust strength relative to the mean
	Period       float32 // seconds per gust
	SpinPeriod   float32 // seconds per full turn about Y, 0 disables
	PeakDistance float32 // distance between gust peaks
	Offset       rl.Vector3
}

func NewWindVolume() *WindVolume {
	return &WindVolume{
		Strength:     5,
		Weight:       1,
		Amplitude:    0.5,
		Period:       2,
		PeakDistance: 4,
	}
}

func (w *WindVolume) Force() springbone.WindForce {
	wind := springbone.WindForce{
		Direction:    rl.Vector3{Z: 1},
		Strength:     w.Strength,
		Weight:       w.Weight,
		Amplitude:    w.Amplitude,
		Period:       w.Period,
		SpinPeriod:   w.SpinPeriod,
		PeakDistance: w.PeakDistance,
		Offset:       w.Offset,
	}
	if g := w.GetGameObject(); g != nil {
		wind.Origin = g.WorldPosition()
		wind.Direction = g.TransformDirection(rl.Vector3{Z: 1})
	}
	return wind
}

func (w *WindVolume) ForceOnBone(pos rl.Vector3, windInfluence float32, t float64) rl.Vector3 {
	return w.Force().ForceOnBone(pos, windInfluence, t)
}

// TypeName implements engine.Serializable
func (w *WindVolume) TypeName() string {
	return "WindVolume"
}

// Serialize implements engine.Serializable
func (w *WindVolume) Serialize() map[string]any {
	return map[string]any{
		"type":         "WindVolume",
		"strength":     w.Strength,
		"weight":       w.Weight,
		"amplitude":    w.Amplitude,
		"period":       w.Period,
		"spinPeriod":   w.SpinPeriod,
		"peakDistance": w.PeakDistance,
		"offset":       vec3Data(w.Offset),
	}
}

// Deserialize implements engine.Serializable
func (w *WindVolume) Deserialize(data map[string]any) {
	readFloat(data, "strength", &w.Strength)
	readFloat(data, "weight", &w.Weight)
	readFloat(data, "amplitude", &w.Amplitude)
	readFloat(data, "period", &w.Period)
	readFloat(data, "spinPeriod", &w.SpinPeriod)
	readFloat(data, "peakDistance", &w.PeakDistance)
	readVec3(data, "offset", &w.Offset)
}
