package springbone

import rl "github.com/gen2brain/raylib-go/raylib"

// ResolveSphere pushes tail out of a sphere collider. tailRadius is the mover
// radius in world units. On contact tail and hitNormal are updated and true is
// returned; otherwise both are left untouched.
//
// When the head is inside the sphere the tail is pushed straight out and the bone
// length is not preserved. Otherwise the tail is moved along the circle where the
// head sphere (radius |tail-head|) meets the inflated collider, which keeps the
// bone length.
func ResolveSphere(c Collider, xf ColliderTransform, head rl.Vector3, tail *rl.Vector3, hitNormal *rl.Vector3, tailRadius float32) bool {
	localHead := xf.ToLocal(head)
	localTail := xf.ToLocal(*tail)
	localRadius := xf.localLength(tailRadius)

	normal, hit := resolveSphereLocal(rl.Vector3{}, c.Radius, localHead, &localTail, localRadius)
	if !hit {
		return false
	}
	*tail = xf.ToWorld(localTail)
	*hitNormal = xf.NormalToWorld(normal)
	return true
}

// resolveSphereLocal works entirely in collider space and returns the local hit normal.
func resolveSphereLocal(origin rl.Vector3, radius float32, head rl.Vector3, tail *rl.Vector3, moverRadius float32) (rl.Vector3, bool) {
	combined := radius + moverRadius
	originToTail := rl.Vector3Subtract(*tail, origin)
	if rl.Vector3LengthSqr(originToTail) >= combined*combined {
		return rl.Vector3{}, false
	}

	originToHead := rl.Vector3Subtract(head, origin)
	pushOut := func() rl.Vector3 {
		n := directionOr(originToTail, directionOr(originToHead, rl.Vector3{Y: 1}))
		*tail = rl.Vector3Add(origin, rl.Vector3Scale(n, combined))
		return n
	}

	if rl.Vector3LengthSqr(originToHead) <= radius*radius {
		return pushOut(), true
	}

	headRadius := rl.Vector3Distance(*tail, head)
	circle, ok := sphereIntersection(head, headRadius, origin, combined)
	if !ok {
		return pushOut(), true
	}
	*tail = closestPointOnCircle(circle, *tail)
	return directionOr(rl.Vector3Subtract(*tail, origin), rl.Vector3{Y: 1}), true
}

// sphereIntersection computes the circle shared by two sphere surfaces. It fails
// when the centers coincide or the spheres do not touch.
func sphereIntersection(originA rl.Vector3, radiusA float32, originB rl.Vector3, radiusB float32) (Intersection, bool) {
	aToB := rl.Vector3Subtract(originB, originA)
	dSqr := rl.Vector3LengthSqr(aToB)
	d := sqrt32(dSqr)
	if d <= 0 {
		return Intersection{}, false
	}

	// Place A at the origin and B at (d, 0, 0).
	sub := dSqr - radiusB*radiusB + radiusA*radiusA
	discriminant := 4*dSqr*radiusA*radiusA - sub*sub
	if discriminant < 0 {
		return Intersection{}, false
	}
	denominator := 0.5 / d
	up := rl.Vector3Scale(aToB, 1/d)
	return Intersection{
		Origin: rl.Vector3Add(originA, rl.Vector3Scale(up, sub*denominator)),
		Up:     up,
		Radius: sqrt32(discriminant) * denominator,
	}, true
}

func closestPointOnCircle(circle Intersection, p rl.Vector3) rl.Vector3 {
	height := rl.Vector3DotProduct(circle.Up, rl.Vector3Subtract(p, circle.Origin))
	onPlane := rl.Vector3Subtract(p, rl.Vector3Scale(circle.Up, height))
	dir := directionOr(rl.Vector3Subtract(onPlane, circle.Origin), perpendicular(circle.Up))
	return rl.Vector3Add(circle.Origin, rl.Vector3Scale(dir, circle.Radius))
}
