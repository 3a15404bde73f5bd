package springbone

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"springbone/internal/physics"
)

// pass holds everything a bone step reads but does not own. It is built once
// per frame and shared read-only by all workers.
type pass struct {
	settings       Settings
	dt             float32
	time           float64
	forces         *ForceList
	colliders      []Collider
	colliderXf     []ColliderTransform
	colliderBounds []physics.AABB
	colliderBoxed  []bool
}

type stepResult struct {
	collided  bool
	groundHit bool
	recovered bool
}

// boneRefs are the host nodes a bone step queries. targets holds the
// length-limit target positions sampled before the pass, one per limit.
type boneRefs struct {
	self    Transform
	parent  Transform
	pivot   Transform
	targets []rl.Vector3
}

// stepBone advances one bone by one pass and writes its local rotation back.
func (p *pass) stepBone(prop *BoneProperties, state *BoneState, refs boneRefs) stepResult {
	sampleSkinRotation(state, refs.self)

	head := refs.self.WorldPosition()
	baseRotation := rl.QuaternionMultiply(refs.parent.WorldRotation(), state.InitialLocalRotation)
	restTip := restTipPosition(prop, head, baseRotation)

	var result stepResult
	if !p.settings.Paused {
		boneForward := rotate(prop.BoneAxis, refs.self.WorldRotation())
		p.integrateSpring(prop, state, head, restTip, boneForward)
		result = p.satisfyConstraints(prop, state, head, boneForward, refs)
	}

	if !isFinite(state.CurrentTip) || !isFinite(state.PreviousTip) {
		state.CurrentTip = restTip
		state.PreviousTip = restTip
		result.recovered = true
	}

	state.SimulatedLocalRotation = computeLocalRotation(prop, state, head, baseRotation)
	state.AppliedLocalRotation = blendRotation(state.SkinLocalRotation, state.SimulatedLocalRotation, p.settings.DynamicRatio)
	refs.self.SetLocalRotation(state.AppliedLocalRotation)
	return result
}

// sampleSkinRotation takes the host's local rotation as the new animated pose
// unless it is still the rotation written last pass, in which case nothing
// animated the bone since and the previous pose stands.
func sampleSkinRotation(state *BoneState, self Transform) {
	local := self.LocalRotation()
	if local != state.AppliedLocalRotation {
		state.SkinLocalRotation = local
	}
}

func restTipPosition(prop *BoneProperties, head rl.Vector3, baseRotation rl.Quaternion) rl.Vector3 {
	return rl.Vector3Add(head, rl.Vector3Scale(rotate(prop.BoneAxis, baseRotation), prop.SpringLength))
}

func (p *pass) integrateSpring(prop *BoneProperties, state *BoneState, head, restTip, boneForward rl.Vector3) {
	force := rl.Vector3Scale(rl.Vector3Subtract(restTip, state.CurrentTip), prop.Stiffness)
	force = rl.Vector3Add(force, prop.SpringForce)
	force = rl.Vector3Add(force, p.forces.Sum(head, prop.WindInfluence, p.time))
	if p.settings.ApplyGravity {
		force = rl.Vector3Add(force, p.settings.Gravity)
	}
	force = rl.Vector3Scale(force, 0.5*p.dt*p.dt)

	velocity := rl.Vector3Scale(state.Velocity(), 1-prop.Drag)
	previous := state.CurrentTip
	state.CurrentTip = rl.Vector3Add(state.CurrentTip, rl.Vector3Add(force, velocity))
	state.PreviousTip = previous

	dir := directionOr(rl.Vector3Subtract(state.CurrentTip, head), boneForward)
	state.CurrentTip = rl.Vector3Add(head, rl.Vector3Scale(dir, prop.SpringLength))
}

func (p *pass) satisfyConstraints(prop *BoneProperties, state *BoneState, head, boneForward rl.Vector3, refs boneRefs) stepResult {
	var result stepResult

	if p.settings.EnableLengthLimits && len(refs.targets) > 0 {
		state.CurrentTip = p.applyLengthLimits(prop, state.CurrentTip, refs.targets)
	}

	if p.settings.CollideWithGround {
		if ResolveGround(head, &state.CurrentTip, prop.SpringLength, prop.Radius, p.settings.GroundHeight, boneForward) {
			p.applyCollisionResponse(state, rl.Vector3{Y: 1})
			result.groundHit = true
		}
	}

	if p.settings.EnableCollision && !result.groundHit {
		var hitNormal rl.Vector3
		if p.resolveColliders(prop, head, &state.CurrentTip, &hitNormal) {
			p.applyCollisionResponse(state, hitNormal)
			result.collided = true
		}
	}

	if p.settings.EnableAngleLimits {
		state.CurrentTip = p.applyAngleLimits(prop, head, state.CurrentTip, refs.pivot)
	}
	return result
}

func (p *pass) applyLengthLimits(prop *BoneProperties, tip rl.Vector3, targets []rl.Vector3) rl.Vector3 {
	accel := 0.5 * p.dt * p.dt
	var movement rl.Vector3
	for i, limit := range prop.LengthLimits {
		toTip := rl.Vector3Subtract(tip, targets[i])
		distance := rl.Vector3Length(toTip)
		stretch := distance - limit.Length
		movement = rl.Vector3Subtract(movement, rl.Vector3Scale(rl.Vector3Normalize(toTip), accel*stretch))
	}
	return rl.Vector3Add(tip, movement)
}

// resolveColliders runs every layer-compatible collider in order. The last
// contact wins the hit normal.
func (p *pass) resolveColliders(prop *BoneProperties, head rl.Vector3, tip *rl.Vector3, hitNormal *rl.Vector3) bool {
	collided := false
	for i, c := range p.colliders {
		if !c.Layer.Overlaps(prop.Layer) {
			continue
		}
		if p.colliderBoxed[i] {
			tipBounds := physics.NewAABBFromSphere(*tip, prop.Radius)
			if !p.colliderBounds[i].Intersects(tipBounds) {
				continue
			}
		}

		xf := p.colliderXf[i]
		var hit bool
		switch c.Type {
		case ColliderSphere:
			hit = ResolveSphere(c, xf, head, tip, hitNormal, prop.Radius)
		case ColliderCapsule:
			hit = ResolveCapsule(c, xf, head, tip, hitNormal, prop.Radius)
		case ColliderPanel:
			hit = ResolvePanel(c, xf, head, tip, hitNormal, prop.SpringLength, prop.Radius)
		}
		collided = collided || hit
	}
	return collided
}

// applyCollisionResponse reflects the tip's last displacement off the contact,
// keeping Bounce of the normal part and 1-Friction of the tangential part.
func (p *pass) applyCollisionResponse(state *BoneState, normal rl.Vector3) {
	incident := state.Velocity()
	reflected := rl.Vector3Reflect(incident, normal)
	normalPart := rl.Vector3Scale(normal, rl.Vector3DotProduct(reflected, normal))
	tangentPart := rl.Vector3Subtract(reflected, normalPart)
	bounce := rl.Vector3Add(
		rl.Vector3Scale(normalPart, p.settings.Bounce),
		rl.Vector3Scale(tangentPart, 1-p.settings.Friction),
	)

	if rl.Vector3LengthSqr(bounce) <= bounceThreshold {
		state.PreviousTip = state.CurrentTip
		return
	}
	travelled := rl.Vector3Length(incident)
	speed := rl.Vector3Length(bounce)
	state.PreviousTip = rl.Vector3Subtract(state.CurrentTip, bounce)
	state.CurrentTip = rl.Vector3Add(state.CurrentTip, rl.Vector3Scale(bounce, max(0, speed-travelled)/speed))
}

// applyAngleLimits measures the bone against the pivot frame, whose -X is
// forward. Y limits swing toward -Y about -Z; Z limits swing toward -Z about -Y.
func (p *pass) applyAngleLimits(prop *BoneProperties, head, tip rl.Vector3, pivot Transform) rl.Vector3 {
	if !prop.YAngleLimits.Active && !prop.ZAngleLimits.Active {
		return tip
	}
	q := pivot.WorldRotation()
	forward := rotate(rl.Vector3{X: -1}, q)
	down := rotate(rl.Vector3{Y: -1}, q)
	back := rotate(rl.Vector3{Z: -1}, q)

	vector := rl.Vector3Subtract(tip, head)
	if prop.YAngleLimits.Active {
		vector = prop.YAngleLimits.ConstrainVector(down, back, forward, prop.AngularStiffness, p.dt, vector)
	}
	if prop.ZAngleLimits.Active {
		vector = prop.ZAngleLimits.ConstrainVector(back, down, forward, prop.AngularStiffness, p.dt, vector)
	}
	return rl.Vector3Add(head, vector)
}

// computeLocalRotation aims the bone axis at the tip, expressed relative to the
// bone's rest frame.
func computeLocalRotation(prop *BoneProperties, state *BoneState, head rl.Vector3, baseRotation rl.Quaternion) rl.Quaternion {
	worldBone := rl.Vector3Subtract(state.CurrentTip, head)
	localBone := rotate(worldBone, rl.QuaternionInvert(baseRotation))
	if rl.Vector3Length(localBone) <= magnitudeThreshold*magnitudeThreshold {
		return state.InitialLocalRotation
	}
	aim := fromToRotation(rl.Vector3Normalize(prop.BoneAxis), rl.Vector3Normalize(localBone))
	return rl.QuaternionMultiply(state.InitialLocalRotation, aim)
}
