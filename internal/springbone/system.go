package springbone

import (
	"fmt"
	"log"
	"sync"
	"sync/atomic"

	rl "github.com/gen2brain/raylib-go/raylib"

	"springbone/internal/engine"
	"springbone/internal/physics"
)

// Recovery reports a bone whose tip became non-finite and was reset to rest.
type Recovery struct {
	Bone  int
	Frame uint64
}

// Stats are cumulative counters since the System was created.
type Stats struct {
	Frames       uint64
	BonesStepped uint64
	Collisions   uint64
	GroundHits   uint64
	Recoveries   uint64
}

type Option func(*System)

// WithWorkers runs independent bone chains on up to n goroutines.
func WithWorkers(n int) Option {
	return func(s *System) {
		if n < 1 {
			n = 1
		}
		s.workers = n
	}
}

// WithForces attaches external force providers to every bone.
func WithForces(forces *ForceList) Option {
	return func(s *System) {
		s.forces = forces
	}
}

// System advances a Rig one pass per Update.
type System struct {
	rig      *Rig
	settings Settings
	forces   *ForceList
	workers  int
	chains   [][]int

	colliderXf     []ColliderTransform
	colliderBounds []physics.AABB
	colliderBoxed  []bool

	// Length-limit targets may belong to bones of another chain, so their
	// positions are sampled before workers start. Bone i owns
	// targetPos[targetStart[i]:targetStart[i+1]].
	targetPos   []rl.Vector3
	targetStart []int

	err   error
	frame uint64
	time  float64

	bonesStepped atomic.Uint64
	collisions   atomic.Uint64
	groundHits   atomic.Uint64
	recoveries   atomic.Uint64

	mu        sync.Mutex
	pending   []Recovery
	announced []bool

	// OnRecovered fires on the Update goroutine after the pass that reset a bone.
	OnRecovered engine.Event[Recovery]
}

// NewSystem validates rig and settings and prepares a simulation.
func NewSystem(rig *Rig, settings Settings, opts ...Option) (*System, error) {
	if rig == nil {
		return nil, fmt.Errorf("nil rig")
	}
	if err := rig.Validate(); err != nil {
		return nil, fmt.Errorf("validate rig: %w", err)
	}
	if err := settings.Validate(); err != nil {
		return nil, err
	}

	s := &System{
		rig:            rig,
		settings:       settings,
		workers:        1,
		chains:         rig.Chains(),
		colliderXf:     make([]ColliderTransform, len(rig.Colliders)),
		colliderBounds: make([]physics.AABB, len(rig.Colliders)),
		colliderBoxed:  make([]bool, len(rig.Colliders)),
		announced:      make([]bool, len(rig.Bones)),
		targetStart:    make([]int, len(rig.Bones)+1),
	}
	for i := range rig.Bones {
		s.targetStart[i+1] = s.targetStart[i] + len(rig.Bones[i].LengthLimits)
	}
	s.targetPos = make([]rl.Vector3, s.targetStart[len(rig.Bones)])
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func (s *System) Rig() *Rig { return s.rig }

func (s *System) Settings() Settings { return s.settings }

// SetSettings replaces the global settings; they apply from the next Update.
func (s *System) SetSettings(settings Settings) error {
	if err := settings.Validate(); err != nil {
		return err
	}
	s.settings = settings
	return nil
}

func (s *System) Forces() *ForceList { return s.forces }

func (s *System) Frame() uint64 { return s.frame }

// Time is the simulated time in seconds.
func (s *System) Time() float64 { return s.time }

func (s *System) Stats() Stats {
	return Stats{
		Frames:       s.frame,
		BonesStepped: s.bonesStepped.Load(),
		Collisions:   s.collisions.Load(),
		GroundHits:   s.groundHits.Load(),
		Recoveries:   s.recoveries.Load(),
	}
}

// ColliderTransforms returns the collider frames cached by the last Update.
func (s *System) ColliderTransforms() []ColliderTransform {
	return s.colliderXf
}

// Err reports why Update stopped stepping, or nil.
func (s *System) Err() error { return s.err }

// Update runs one simulation pass. frameDelta is only used when no fixed
// simulation rate is configured. The rig's slices are frozen once the System
// is built; if they changed length, Update records ErrLengthMismatch in Err
// and does nothing.
func (s *System) Update(frameDelta float32) {
	if s.err != nil {
		return
	}
	if err := s.checkRig(); err != nil {
		s.err = err
		log.Printf("SpringBone: %v, simulation stopped", err)
		return
	}

	s.frame++
	p := &pass{
		settings:       s.settings,
		dt:             s.settings.TimeStep(frameDelta),
		forces:         s.forces,
		colliders:      s.rig.Colliders,
		colliderXf:     s.colliderXf,
		colliderBounds: s.colliderBounds,
		colliderBoxed:  s.colliderBoxed,
	}
	s.time += float64(p.dt)
	p.time = s.time

	s.refreshColliders()
	s.refreshTargets()

	if s.workers <= 1 || len(s.chains) <= 1 {
		for _, chain := range s.chains {
			s.stepChain(p, chain)
		}
	} else {
		s.runParallel(p)
	}

	s.flushRecoveries()
}

// refreshColliders samples every collider once before any bone reads them.
func (s *System) refreshColliders() {
	for i, t := range s.rig.ColliderTransforms {
		xf := ColliderTransformOf(t)
		s.colliderXf[i] = xf
		bounds, ok := ColliderBounds(s.rig.Colliders[i], xf)
		s.colliderBoxed[i] = ok && uniformScale(xf)
		s.colliderBounds[i] = bounds.Expand(magnitudeThreshold)
	}
}

// refreshTargets samples every length-limit target before any bone moves.
func (s *System) refreshTargets() {
	for i := range s.rig.Bones {
		start := s.targetStart[i]
		for j, limit := range s.rig.Bones[i].LengthLimits {
			s.targetPos[start+j] = limit.Target.WorldPosition()
		}
	}
}

// checkRig compares the rig's slice lengths with those sized by NewSystem.
func (s *System) checkRig() error {
	r := s.rig
	n := len(s.announced)
	if len(r.Bones) != n || len(r.States) != n || len(r.Transforms) != n ||
		len(r.Parents) != n || len(r.ParentIndex) != n || (r.Pivots != nil && len(r.Pivots) != n) {
		return fmt.Errorf("rig bones changed after NewSystem: %w", ErrLengthMismatch)
	}
	if len(r.Colliders) != len(s.colliderXf) || len(r.ColliderTransforms) != len(s.colliderXf) {
		return fmt.Errorf("rig colliders changed after NewSystem: %w", ErrLengthMismatch)
	}
	for i := range r.Bones {
		if len(r.Bones[i].LengthLimits) != s.targetStart[i+1]-s.targetStart[i] {
			return fmt.Errorf("bone %d length limits changed after NewSystem: %w", i, ErrLengthMismatch)
		}
	}
	return nil
}

func uniformScale(xf ColliderTransform) bool {
	sx, sy, sz := abs32(xf.Scale.X), abs32(xf.Scale.Y), abs32(xf.Scale.Z)
	return abs32(sx-sy) <= 1e-4 && abs32(sx-sz) <= 1e-4
}

func (s *System) runParallel(p *pass) {
	jobs := make(chan int, len(s.chains))
	for i := range s.chains {
		jobs <- i
	}
	close(jobs)

	workers := min(s.workers, len(s.chains))
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for c := range jobs {
				s.stepChain(p, s.chains[c])
			}
		}()
	}
	wg.Wait()
}

func (s *System) stepChain(p *pass, chain []int) {
	rig := s.rig
	for _, i := range chain {
		result := p.stepBone(&rig.Bones[i], &rig.States[i], boneRefs{
			self:    rig.Transforms[i],
			parent:  rig.Parents[i],
			pivot:   rig.pivot(i),
			targets: s.targetPos[s.targetStart[i]:s.targetStart[i+1]],
		})
		s.bonesStepped.Add(1)
		if result.collided {
			s.collisions.Add(1)
		}
		if result.groundHit {
			s.groundHits.Add(1)
		}
		if result.recovered {
			s.recoveries.Add(1)
			s.mu.Lock()
			s.pending = append(s.pending, Recovery{Bone: i, Frame: s.frame})
			s.mu.Unlock()
		}
	}
}

func (s *System) flushRecoveries() {
	s.mu.Lock()
	pending := s.pending
	s.pending = nil
	s.mu.Unlock()

	for _, r := range pending {
		if !s.announced[r.Bone] {
			s.announced[r.Bone] = true
			log.Printf("SpringBone: bone %d produced a non-finite tip at frame %d, reset to rest pose", r.Bone, r.Frame)
		}
		s.OnRecovered.Invoke(r)
	}
}

// Reset puts every bone back at its rest tip with zero velocity and restores
// the initial local rotations.
func (s *System) Reset() {
	rig := s.rig
	for i := range rig.Bones {
		state := &rig.States[i]
		head := rig.Transforms[i].WorldPosition()
		base := rl.QuaternionMultiply(rig.Parents[i].WorldRotation(), state.InitialLocalRotation)
		tip := restTipPosition(&rig.Bones[i], head, base)
		*state = NewBoneState(state.InitialLocalRotation, tip)
		rig.Transforms[i].SetLocalRotation(state.InitialLocalRotation)
	}
}
