package springbone

import (
	"fmt"
	"math"
	"slices"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// ForceProvider contributes an external force to a bone at world position pos.
// t is the simulated time in seconds.
type ForceProvider interface {
	ForceOnBone(pos rl.Vector3, windInfluence float32, t float64) rl.Vector3
}

const DefaultForceCapacity = 16

// ForceList is a bounded set of force providers. It is read concurrently during a
// pass and must only be modified between passes.
type ForceList struct {
	providers []ForceProvider
	capacity  int
}

func NewForceList(capacity int) *ForceList {
	if capacity <= 0 {
		capacity = DefaultForceCapacity
	}
	return &ForceList{
		providers: make([]ForceProvider, 0, capacity),
		capacity:  capacity,
	}
}

// Add registers p. It fails with ErrForceCapacity once the list is full.
func (l *ForceList) Add(p ForceProvider) error {
	if p == nil {
		return fmt.Errorf("nil force provider")
	}
	if len(l.providers) >= l.capacity {
		return fmt.Errorf("%d providers: %w", l.capacity, ErrForceCapacity)
	}
	l.providers = append(l.providers, p)
	return nil
}

// Remove unregisters p and reports whether it was present.
func (l *ForceList) Remove(p ForceProvider) bool {
	i := slices.Index(l.providers, p)
	if i < 0 {
		return false
	}
	l.providers = slices.Delete(l.providers, i, i+1)
	return true
}

func (l *ForceList) Len() int      { return len(l.providers) }
func (l *ForceList) Capacity() int { return l.capacity }

// Sum adds up every provider's force at pos. A nil list contributes nothing.
func (l *ForceList) Sum(pos rl.Vector3, windInfluence float32, t float64) rl.Vector3 {
	var total rl.Vector3
	if l == nil {
		return total
	}
	for _, p := range l.providers {
		total = rl.Vector3Add(total, p.ForceOnBone(pos, windInfluence, t))
	}
	return total
}

// DirectionalForce pushes every bone the same way.
type DirectionalForce struct {
	Direction rl.Vector3
	Strength  float32
}

func (f DirectionalForce) ForceOnBone(pos rl.Vector3, windInfluence float32, t float64) rl.Vector3 {
	return rl.Vector3Scale(rl.Vector3Normalize(f.Direction), f.Strength)
}

// WindForce is a gusting wind. Gusts travel along Direction as a sine wave with
// wavelength PeakDistance and period Period; with SpinPeriod > 0 the direction
// also turns about world Y.
type WindForce struct {
	Origin       rl.Vector3
	Direction    rl.Vector3
	Strength     float32
	Weight       float32
	Amplitude    float32
	Period       float32
	SpinPeriod   float32
	PeakDistance float32
	Offset       rl.Vector3
}

func (w WindForce) ForceOnBone(pos rl.Vector3, windInfluence float32, t float64) rl.Vector3 {
	full := w.Weight * w.Strength * windInfluence
	if full <= falloffThreshold || w.Period <= magnitudeThreshold {
		return rl.Vector3{}
	}

	dir := directionOr(w.Direction, rl.Vector3{Z: 1})
	if w.SpinPeriod > magnitudeThreshold {
		spin := float32(2 * math.Pi * math.Mod(t/float64(w.SpinPeriod), 1))
		dir = rotate(dir, rl.QuaternionFromAxisAngle(rl.Vector3{Y: 1}, spin))
	}

	phase := t / float64(w.Period)
	if w.PeakDistance > magnitudeThreshold {
		along := rl.Vector3DotProduct(rl.Vector3Subtract(pos, w.Origin), dir)
		phase -= float64(along / w.PeakDistance)
	}
	gust := 1 + w.Amplitude*float32(math.Sin(2*math.Pi*phase))

	force := rl.Vector3Scale(dir, full*gust)
	return rl.Vector3Add(force, rl.Vector3Scale(w.Offset, full))
}
