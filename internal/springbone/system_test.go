package springbone

import (
	"errors"
	"math"
	"testing"

	rl "github.com/gen2brain/raylib-go/raylib"

	"springbone/internal/engine"
)

func TestEquilibriumHasNoDrift(t *testing.T) {
	head := rl.Vector3{Y: 2}
	rest := rl.Vector3{Y: 0.5}
	rig, bone := singleBone(head, rest, rest, BoneProperties{})

	sys, err := NewSystem(rig, testSettings())
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}
	for range 240 {
		sys.Update(1.0 / 60)
	}

	requireNearVec(t, "tip", rig.States[0].CurrentTip, rest, 1e-4)
	q := bone.LocalRotation()
	if !near(q.W, 1, 1e-4) && !near(q.W, -1, 1e-4) {
		t.Errorf("Expected identity local rotation, got %v", q)
	}
	if got := sys.Stats().Recoveries; got != 0 {
		t.Errorf("Expected no recoveries, got %d", got)
	}
}

// displacedTip places a tip on the bone's sphere at chord distance 1 from rest.
func displacedTip(head rl.Vector3, length float32) rl.Vector3 {
	theta := 2 * math.Asin(0.5/float64(length))
	return rl.Vector3Add(head, rl.Vector3{
		X: length * float32(math.Sin(theta)),
		Y: -length * float32(math.Cos(theta)),
	})
}

func TestSpringReturnsTowardRest(t *testing.T) {
	head := rl.Vector3{Y: 2}
	rest := rl.Vector3{}
	start := displacedTip(head, 2)
	rig, _ := singleBone(head, rest, start, BoneProperties{Stiffness: 1, Drag: 0})

	sys, err := NewSystem(rig, testSettings())
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}

	initial := rl.Vector3Distance(start, rest)
	if !near(initial, 1, 1e-4) {
		t.Fatalf("Expected initial displacement 1, got %v", initial)
	}
	prev := initial
	for frame := 1; frame <= 100; frame++ {
		sys.Update(1.0 / 60)
		d := rl.Vector3Distance(rig.States[0].CurrentTip, rest)
		if d > prev+1e-6 {
			t.Fatalf("frame %d: displacement grew from %v to %v", frame, prev, d)
		}
		prev = d
	}
	if prev > 0.6*initial {
		t.Errorf("Expected displacement to shrink below %v, got %v", 0.6*initial, prev)
	}
}

func TestDistantSphereDoesNotAlterMotion(t *testing.T) {
	head := rl.Vector3{Y: 2}
	rest := rl.Vector3{}
	start := displacedTip(head, 2)
	prop := BoneProperties{Stiffness: 1, Radius: 0.1}

	free, _ := singleBone(head, rest, start, prop)
	blocked, _ := singleBone(head, rest, start, prop)

	sphere := engine.NewGameObject("sphere")
	sphere.Transform.Position = rl.Vector3{Y: -0.8}
	blocked.Colliders = []Collider{{Type: ColliderSphere, Layer: DefaultLayer, Radius: 0.5}}
	blocked.ColliderTransforms = []Transform{sphere}

	freeSys, err := NewSystem(free, testSettings())
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}
	blockedSys, err := NewSystem(blocked, testSettings())
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}

	for frame := range 150 {
		freeSys.Update(1.0 / 60)
		blockedSys.Update(1.0 / 60)
		if free.States[0].CurrentTip != blocked.States[0].CurrentTip {
			t.Fatalf("frame %d: expected %v, got %v", frame, free.States[0].CurrentTip, blocked.States[0].CurrentTip)
		}
	}
	if got := blockedSys.Stats().Collisions; got != 0 {
		t.Errorf("Expected no collisions, got %d", got)
	}
}

func TestPenetratingSphereIsResolved(t *testing.T) {
	head := rl.Vector3{Y: 2}
	rest := rl.Vector3{}
	rig, _ := singleBone(head, rest, rest, BoneProperties{Stiffness: 1, Radius: 0.1})

	sphere := engine.NewGameObject("sphere")
	sphere.Transform.Position = rl.Vector3{X: 0.2, Y: -0.3}
	rig.Colliders = []Collider{{Type: ColliderSphere, Layer: DefaultLayer, Radius: 0.5}}
	rig.ColliderTransforms = []Transform{sphere}

	sys, err := NewSystem(rig, testSettings())
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}
	sys.Update(1.0 / 60)

	tip := rig.States[0].CurrentTip
	if d := rl.Vector3Distance(tip, sphere.Transform.Position); d < 0.6-1e-3 {
		t.Errorf("Expected tip outside the inflated sphere, got distance %v", d)
	}
	if d := rl.Vector3Distance(tip, head); !near(d, 2, 1e-3) {
		t.Errorf("Expected bone length 2, got %v", d)
	}
	if got := sys.Stats().Collisions; got != 1 {
		t.Errorf("Expected 1 collision, got %d", got)
	}
}

func TestLayerMaskFiltersColliders(t *testing.T) {
	head := rl.Vector3{Y: 2}
	rest := rl.Vector3{}
	rig, _ := singleBone(head, rest, rest, BoneProperties{Stiffness: 1, Radius: 0.1, Layer: 1})

	sphere := engine.NewGameObject("sphere")
	sphere.Transform.Position = rl.Vector3{X: 0.2, Y: -0.3}
	rig.Colliders = []Collider{{Type: ColliderSphere, Layer: 2, Radius: 0.5}}
	rig.ColliderTransforms = []Transform{sphere}

	sys, err := NewSystem(rig, testSettings())
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}
	sys.Update(1.0 / 60)

	if got := sys.Stats().Collisions; got != 0 {
		t.Errorf("Expected the collider on another layer to be ignored, got %d collisions", got)
	}
	requireNearVec(t, "tip", rig.States[0].CurrentTip, rest, 1e-4)
}

func TestGroundCollisionThroughSystem(t *testing.T) {
	head := rl.Vector3{Y: 1}
	rest := rl.Vector3{Y: -0.5}
	rig, _ := singleBone(head, rest, rest, BoneProperties{Stiffness: 1})

	settings := testSettings()
	settings.CollideWithGround = true
	sys, err := NewSystem(rig, settings)
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}
	sys.Update(1.0 / 60)

	tip := rig.States[0].CurrentTip
	if tip.Y < -1e-4 {
		t.Errorf("Expected tip above ground, got y=%v", tip.Y)
	}
	length := rl.Vector3Distance(tip, head)
	if length < 0.75-1e-4 || length > 1.5+1e-4 {
		t.Errorf("Expected length in [0.75, 1.5], got %v", length)
	}
	if got := sys.Stats().GroundHits; got != 1 {
		t.Errorf("Expected 1 ground hit, got %d", got)
	}
	if rig.States[0].PreviousTip != tip {
		t.Error("Expected a ground hit to cancel the tip velocity")
	}
}

func TestNonFiniteTipRecovers(t *testing.T) {
	head := rl.Vector3{Y: 2}
	rest := rl.Vector3{}
	rig, bone := singleBone(head, rest, rest, BoneProperties{Stiffness: 1})
	nan := float32(math.NaN())
	rig.States[0].CurrentTip = rl.Vector3{X: nan, Y: nan, Z: nan}

	sys, err := NewSystem(rig, testSettings())
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}
	var recoveries []Recovery
	sys.OnRecovered.AddListener(func(r Recovery) {
		recoveries = append(recoveries, r)
	})

	sys.Update(1.0 / 60)

	if len(recoveries) != 1 || recoveries[0] != (Recovery{Bone: 0, Frame: 1}) {
		t.Fatalf("Expected one recovery for bone 0 at frame 1, got %v", recoveries)
	}
	if got := sys.Stats().Recoveries; got != 1 {
		t.Errorf("Expected 1 recovery in stats, got %d", got)
	}
	requireNearVec(t, "tip", rig.States[0].CurrentTip, rest, 1e-5)
	if q := bone.LocalRotation(); !isFinite(rl.Vector3{X: q.X, Y: q.Y, Z: q.Z}) || !isFinite32(q.W) {
		t.Errorf("Expected a finite rotation, got %v", q)
	}

	sys.Update(1.0 / 60)
	if len(recoveries) != 1 {
		t.Errorf("Expected no further recoveries, got %d", len(recoveries))
	}
}

func TestPausedSkipsIntegration(t *testing.T) {
	head := rl.Vector3{Y: 2}
	rest := rl.Vector3{}
	start := displacedTip(head, 2)
	rig, _ := singleBone(head, rest, start, BoneProperties{Stiffness: 1})

	settings := testSettings()
	settings.Paused = true
	sys, err := NewSystem(rig, settings)
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}
	for range 10 {
		sys.Update(1.0 / 60)
	}

	if rig.States[0].CurrentTip != start {
		t.Errorf("Expected tip to stay at %v while paused, got %v", start, rig.States[0].CurrentTip)
	}
	if got := sys.Stats().BonesStepped; got != 10 {
		t.Errorf("Expected rotations written for 10 passes, got %d", got)
	}
	// The written rotation must aim the bone at the held tip.
	q := rig.States[0].AppliedLocalRotation
	aimed := rotate(rig.Bones[0].BoneAxis, q)
	requireNearVec(t, "aim", aimed, rl.Vector3Normalize(rl.Vector3Subtract(start, head)), 1e-4)
}

func TestDynamicRatioZeroKeepsAnimation(t *testing.T) {
	head := rl.Vector3{Y: 2}
	rest := rl.Vector3{}
	rig, bone := singleBone(head, rest, displacedTip(head, 2), BoneProperties{Stiffness: 1})

	settings := testSettings()
	settings.DynamicRatio = 0
	sys, err := NewSystem(rig, settings)
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}

	animated := rl.QuaternionFromAxisAngle(rl.Vector3{Z: 1}, 0.3)
	bone.SetLocalRotation(animated)
	for range 5 {
		sys.Update(1.0 / 60)
	}

	got := bone.LocalRotation()
	if !near(got.Z, animated.Z, 1e-5) || !near(got.W, animated.W, 1e-5) {
		t.Errorf("Expected animated rotation %v, got %v", animated, got)
	}
}

func TestDirectionalForcePushesTip(t *testing.T) {
	head := rl.Vector3{Y: 2}
	rest := rl.Vector3{}
	rig, _ := singleBone(head, rest, rest, BoneProperties{Stiffness: 1, Drag: 0.2})

	forces := NewForceList(4)
	if err := forces.Add(DirectionalForce{Direction: rl.Vector3{X: 1}, Strength: 20}); err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	sys, err := NewSystem(rig, testSettings(), WithForces(forces))
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}
	for range 30 {
		sys.Update(1.0 / 60)
	}

	if tip := rig.States[0].CurrentTip; tip.X <= 0.05 {
		t.Errorf("Expected the tip pushed toward +X, got %v", tip)
	}
}

func TestGravityIsOptIn(t *testing.T) {
	head := rl.Vector3{Y: 2}
	rest := rl.Vector3{X: 2, Y: 2}

	off, _ := singleBone(head, rest, rest, BoneProperties{})
	on, _ := singleBone(head, rest, rest, BoneProperties{})

	settings := testSettings()
	offSys, _ := NewSystem(off, settings)
	settings.ApplyGravity = true
	onSys, _ := NewSystem(on, settings)
	for range 20 {
		offSys.Update(1.0 / 60)
		onSys.Update(1.0 / 60)
	}

	requireNearVec(t, "tip without gravity", off.States[0].CurrentTip, rest, 1e-4)
	if on.States[0].CurrentTip.Y >= 2-1e-3 {
		t.Errorf("Expected gravity to pull the tip down, got %v", on.States[0].CurrentTip)
	}
}

func TestAngleLimitsHoldThroughSystem(t *testing.T) {
	head := rl.Vector3{Y: 2}
	// Pivot -X is forward, so a bone hanging toward -X sits at angle zero.
	rest := rl.Vector3{X: -1, Y: 2}
	limit := AngleLimit{Active: true, Min: -10, Max: 10}
	rig, _ := singleBone(head, rest, rest, BoneProperties{Stiffness: 0, ZAngleLimits: limit})

	forces := NewForceList(1)
	_ = forces.Add(DirectionalForce{Direction: rl.Vector3{Z: -1}, Strength: 400})
	settings := testSettings()
	settings.EnableAngleLimits = true
	sys, err := NewSystem(rig, settings, WithForces(forces))
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}

	for frame := range 60 {
		sys.Update(1.0 / 60)
		v := rl.Vector3Subtract(rig.States[0].CurrentTip, head)
		angle := SignedAngle(rl.Vector3{Z: -1}, rl.Vector3{Y: -1}, v)
		if angle < -10.01 || angle > 10.01 {
			t.Fatalf("frame %d: expected angle within [-10, 10], got %v", frame, angle)
		}
	}
}

func TestParallelMatchesSequential(t *testing.T) {
	prop := BoneProperties{Stiffness: 2, Drag: 0.1}
	seqRig := chainRig(8, 4, prop)
	parRig := chainRig(8, 4, prop)

	newForces := func() *ForceList {
		f := NewForceList(2)
		_ = f.Add(DirectionalForce{Direction: rl.Vector3{X: 1, Z: 0.5}, Strength: 6})
		_ = f.Add(WindForce{Direction: rl.Vector3{Z: 1}, Strength: 3, Weight: 1, Amplitude: 0.5, Period: 1.5, PeakDistance: 4})
		return f
	}
	for i := range seqRig.Bones {
		seqRig.Bones[i].WindInfluence = 1
		parRig.Bones[i].WindInfluence = 1
	}

	seq, err := NewSystem(seqRig, testSettings(), WithForces(newForces()))
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}
	par, err := NewSystem(parRig, testSettings(), WithForces(newForces()), WithWorkers(4))
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}

	for range 45 {
		seq.Update(1.0 / 60)
		par.Update(1.0 / 60)
	}
	for i := range seqRig.States {
		if seqRig.States[i].CurrentTip != parRig.States[i].CurrentTip {
			t.Errorf("bone %d: expected %v, got %v", i, seqRig.States[i].CurrentTip, parRig.States[i].CurrentTip)
		}
	}
	if s, p := seq.Stats(), par.Stats(); s != p {
		t.Errorf("Expected identical stats, got %+v and %+v", s, p)
	}
}

func TestChains(t *testing.T) {
	rig := &Rig{ParentIndex: []int{-1, 0, -1, 2, 1}}
	rig.Bones = make([]BoneProperties, 5)

	chains := rig.Chains()
	if len(chains) != 2 {
		t.Fatalf("Expected 2 chains, got %v", chains)
	}
	want := [][]int{{0, 1, 4}, {2, 3}}
	for c := range want {
		if len(chains[c]) != len(want[c]) {
			t.Fatalf("Expected chain %d to be %v, got %v", c, want[c], chains[c])
		}
		for i := range want[c] {
			if chains[c][i] != want[c][i] {
				t.Errorf("Expected chain %d to be %v, got %v", c, want[c], chains[c])
			}
		}
	}
}

func TestNewSystemValidation(t *testing.T) {
	valid := func() *Rig {
		rig, _ := singleBone(rl.Vector3{Y: 1}, rl.Vector3{}, rl.Vector3{}, BoneProperties{})
		return rig
	}

	tests := []struct {
		name   string
		mutate func(r *Rig, s *Settings)
		want   error
	}{
		{"states mismatch", func(r *Rig, _ *Settings) { r.States = nil }, ErrLengthMismatch},
		{"pivots mismatch", func(r *Rig, _ *Settings) { r.Pivots = []Transform{r.Parents[0], r.Parents[0]} }, ErrLengthMismatch},
		{"colliders mismatch", func(r *Rig, _ *Settings) { r.Colliders = []Collider{{}} }, ErrLengthMismatch},
		{"nil transform", func(r *Rig, _ *Settings) { r.Transforms[0] = nil }, ErrNilTransform},
		{"nil parent", func(r *Rig, _ *Settings) { r.Parents[0] = nil }, ErrNilTransform},
		{"bad order", func(r *Rig, _ *Settings) { r.ParentIndex[0] = 0 }, ErrBoneOrder},
		{"bad axis", func(r *Rig, _ *Settings) { r.Bones[0].BoneAxis = rl.Vector3{Y: 2} }, ErrInvalidBone},
		{"negative length", func(r *Rig, _ *Settings) { r.Bones[0].SpringLength = -1 }, ErrInvalidBone},
		{"negative radius", func(r *Rig, _ *Settings) { r.Bones[0].Radius = -0.1 }, ErrInvalidBone},
		{"bad limits", func(r *Rig, _ *Settings) { r.Bones[0].YAngleLimits = AngleLimit{Active: true, Min: 5, Max: -5} }, ErrInvalidBone},
		{"nil length target", func(r *Rig, _ *Settings) { r.Bones[0].LengthLimits = []LengthLimit{{Length: 1}} }, ErrNilTransform},
		{"bad ratio", func(_ *Rig, s *Settings) { s.DynamicRatio = 1.5 }, ErrInvalidSettings},
		{"bad friction", func(_ *Rig, s *Settings) { s.Friction = -0.1 }, ErrInvalidSettings},
		{"bad rate", func(_ *Rig, s *Settings) { s.SimulationFrameRate = -1 }, ErrInvalidSettings},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rig := valid()
			settings := DefaultSettings()
			tt.mutate(rig, &settings)

			_, err := NewSystem(rig, settings)
			if !errors.Is(err, tt.want) {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}

	if _, err := NewSystem(valid(), DefaultSettings()); err != nil {
		t.Errorf("Expected a valid rig to pass, got %v", err)
	}
}

func TestTimeStep(t *testing.T) {
	s := DefaultSettings()
	if got := s.TimeStep(0.5); !near(got, 1.0/60, 1e-7) {
		t.Errorf("Expected fixed step 1/60, got %v", got)
	}
	s.SimulationFrameRate = 0
	if got := s.TimeStep(0.5); got != 0.5 {
		t.Errorf("Expected frame delta 0.5, got %v", got)
	}
}

func TestLengthLimitPullsTip(t *testing.T) {
	head := rl.Vector3{Y: 2}
	rest := rl.Vector3{}
	target := engine.NewGameObject("target")
	target.Transform.Position = rl.Vector3{X: 3}

	rig, _ := singleBone(head, rest, rest, BoneProperties{
		LengthLimits: []LengthLimit{{Target: target, Length: 1}},
	})
	sys, err := NewSystem(rig, testSettings())
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}
	before := rl.Vector3Distance(rig.States[0].CurrentTip, target.Transform.Position)
	for range 60 {
		sys.Update(1.0 / 60)
	}
	after := rl.Vector3Distance(rig.States[0].CurrentTip, target.Transform.Position)
	if after >= before {
		t.Errorf("Expected tip to move toward the target, distance %v -> %v", before, after)
	}
}

func TestReset(t *testing.T) {
	head := rl.Vector3{Y: 2}
	rest := rl.Vector3{}
	rig, bone := singleBone(head, rest, displacedTip(head, 2), BoneProperties{Stiffness: 1})
	sys, _ := NewSystem(rig, testSettings())
	for range 10 {
		sys.Update(1.0 / 60)
	}

	sys.Reset()

	requireNearVec(t, "tip", rig.States[0].CurrentTip, rest, 1e-5)
	if rig.States[0].Velocity() != (rl.Vector3{}) {
		t.Errorf("Expected zero velocity, got %v", rig.States[0].Velocity())
	}
	if bone.LocalRotation() != rl.QuaternionIdentity() {
		t.Errorf("Expected identity rotation, got %v", bone.LocalRotation())
	}
}

func TestCrossChainLengthLimitsParallelMatchesSequential(t *testing.T) {
	const length = 20
	build := func() *Rig {
		rig := chainRig(2, length, BoneProperties{Stiffness: 2, Drag: 0.1})
		for i := range length {
			rig.Bones[i].LengthLimits = []LengthLimit{{Target: rig.Transforms[length+i], Length: 2.2}}
			rig.Bones[length+i].LengthLimits = []LengthLimit{{Target: rig.Transforms[i], Length: 2.2}}
		}
		return rig
	}
	newForces := func() *ForceList {
		f := NewForceList(1)
		_ = f.Add(DirectionalForce{Direction: rl.Vector3{X: 1, Z: 1}, Strength: 8})
		return f
	}

	seqRig, parRig := build(), build()
	seq, err := NewSystem(seqRig, testSettings(), WithForces(newForces()))
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}
	par, err := NewSystem(parRig, testSettings(), WithForces(newForces()), WithWorkers(2))
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}

	for range 45 {
		seq.Update(1.0 / 60)
		par.Update(1.0 / 60)
	}
	for i := range seqRig.States {
		if seqRig.States[i].CurrentTip != parRig.States[i].CurrentTip {
			t.Errorf("bone %d: expected %v, got %v", i, seqRig.States[i].CurrentTip, parRig.States[i].CurrentTip)
		}
	}
}

func TestLengthLimitTargetsAreSampledBeforeThePass(t *testing.T) {
	// Bone 2 targets bone 1, which moves when chain 0 swings bone 0.
	rig := chainRig(2, 2, BoneProperties{})
	rig.Bones[2].LengthLimits = []LengthLimit{{Target: rig.Transforms[1], Length: 1}}
	rig.States[0].CurrentTip = rl.Vector3Add(rig.States[0].CurrentTip, rl.Vector3{X: 0.3})

	before := rig.Transforms[1].WorldPosition()
	sys, err := NewSystem(rig, testSettings())
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}
	sys.Update(1.0 / 60)

	if after := rig.Transforms[1].WorldPosition(); nearVec(after, before, 1e-4) {
		t.Fatalf("Expected the target to move during the pass, stayed at %v", after)
	}
	if got := len(sys.targetPos); got != 1 {
		t.Fatalf("Expected 1 sampled target, got %d", got)
	}
	requireNearVec(t, "sampled target", sys.targetPos[0], before, 1e-6)
}

func TestCollisionResponse(t *testing.T) {
	tests := []struct {
		name     string
		bounce   float32
		friction float32
		previous rl.Vector3
		want     rl.Vector3 // velocity after the contact
	}{
		{"full bounce reflects along the normal", 1, 1, rl.Vector3{Y: 0.5}, rl.Vector3{Y: 0.5}},
		{"full bounce drops tangential motion", 1, 1, rl.Vector3{X: -0.3, Y: 0.4}, rl.Vector3{Y: 0.4}},
		{"no friction keeps tangential motion", 0, 0, rl.Vector3{X: -0.3, Y: 0.4}, rl.Vector3{X: 0.3}},
		{"half bounce half friction", 0.5, 0.5, rl.Vector3{X: -0.3, Y: 0.4}, rl.Vector3{X: 0.15, Y: 0.2}},
		{"defaults stick", 0, 1, rl.Vector3{X: -0.3, Y: 0.4}, rl.Vector3{}},
		{"below threshold sticks", 1, 0, rl.Vector3{Y: 0.005}, rl.Vector3{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &pass{settings: Settings{Bounce: tt.bounce, Friction: tt.friction}}
			state := BoneState{PreviousTip: tt.previous}
			p.applyCollisionResponse(&state, rl.Vector3{Y: 1})

			requireNearVec(t, "tip", state.CurrentTip, rl.Vector3{}, 1e-6)
			requireNearVec(t, "velocity", state.Velocity(), tt.want, 1e-6)
			if tt.want == (rl.Vector3{}) && state.PreviousTip != state.CurrentTip {
				t.Errorf("Expected previous tip %v, got %v", state.CurrentTip, state.PreviousTip)
			}
		})
	}
}

func TestSphereCollisionResponseThroughSystem(t *testing.T) {
	center := rl.Vector3{X: 0.5}
	tests := []struct {
		name     string
		bounce   float32
		friction float32
	}{
		{"bounce", 1, 1},
		{"defaults", 0, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			head := rl.Vector3{Y: 2}
			rest := rl.Vector3{}
			rig, _ := singleBone(head, rest, rest, BoneProperties{})
			rig.States[0].PreviousTip = rl.Vector3{X: -0.1}

			sphere := engine.NewGameObject("sphere")
			sphere.Transform.Position = center
			rig.Colliders = []Collider{{Type: ColliderSphere, Layer: DefaultLayer, Radius: 0.45}}
			rig.ColliderTransforms = []Transform{sphere}

			settings := testSettings()
			settings.Bounce = tt.bounce
			settings.Friction = tt.friction
			sys, err := NewSystem(rig, settings)
			if err != nil {
				t.Fatalf("NewSystem failed: %v", err)
			}
			sys.Update(1.0 / 60)

			if got := sys.Stats().Collisions; got != 1 {
				t.Fatalf("Expected 1 collision, got %d", got)
			}
			state := rig.States[0]
			velocity := state.Velocity()
			if tt.bounce == 0 {
				if state.PreviousTip != state.CurrentTip {
					t.Errorf("Expected previous tip %v, got %v", state.CurrentTip, state.PreviousTip)
				}
				return
			}
			normal := rl.Vector3Normalize(rl.Vector3Subtract(state.CurrentTip, center))
			if rl.Vector3LengthSqr(velocity) <= bounceThreshold {
				t.Fatalf("Expected the tip to bounce, got velocity %v", velocity)
			}
			if d := rl.Vector3DotProduct(rl.Vector3Normalize(velocity), normal); d < 0.999 {
				t.Errorf("Expected velocity along the hit normal %v, got %v (dot %v)", normal, velocity, d)
			}
		})
	}
}

func TestGroundBounce(t *testing.T) {
	head := rl.Vector3{Y: 0.5}
	rest := rl.Vector3{X: 1, Y: 0.5}
	rig, _ := singleBone(head, rest, rest, BoneProperties{})
	rig.States[0].PreviousTip = rl.Vector3{X: 1, Y: 1.5}

	settings := testSettings()
	settings.CollideWithGround = true
	settings.Bounce = 1
	settings.Friction = 1
	sys, err := NewSystem(rig, settings)
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}
	sys.Update(1.0 / 60)

	if got := sys.Stats().GroundHits; got != 1 {
		t.Fatalf("Expected 1 ground hit, got %d", got)
	}
	requireNearVec(t, "tip", rig.States[0].CurrentTip, rl.Vector3{X: float32(math.Sqrt(0.75))}, 1e-4)
	requireNearVec(t, "velocity", rig.States[0].Velocity(), rl.Vector3{Y: 0.5}, 1e-4)
}

func TestUpdateStopsWhenRigChanges(t *testing.T) {
	head := rl.Vector3{Y: 2}
	rest := rl.Vector3{}
	rig, _ := singleBone(head, rest, rest, BoneProperties{Stiffness: 1})
	sys, err := NewSystem(rig, testSettings())
	if err != nil {
		t.Fatalf("NewSystem failed: %v", err)
	}
	sys.Update(1.0 / 60)

	rig.Colliders = append(rig.Colliders, Collider{Type: ColliderSphere, Layer: DefaultLayer, Radius: 1})
	rig.ColliderTransforms = append(rig.ColliderTransforms, engine.NewGameObject("late"))
	sys.Update(1.0 / 60)
	sys.Update(1.0 / 60)

	if !errors.Is(sys.Err(), ErrLengthMismatch) {
		t.Errorf("Expected ErrLengthMismatch, got %v", sys.Err())
	}
	if got := sys.Frame(); got != 1 {
		t.Errorf("Expected frame 1, got %d", got)
	}
}
