package springbone

import rl "github.com/gen2brain/raylib-go/raylib"

// ResolvePanel keeps tail on the +Z side of a finite panel. The panel spans
// [-Width/2, Width/2] x [-Height/2, Height/2] in its local XY plane. A tail further
// than tailRadius in front of the plane, or outside the rectangle grown by
// tailRadius, is not in contact. length is the bone rest length in world units.
func ResolvePanel(c Collider, xf ColliderTransform, head rl.Vector3, tail *rl.Vector3, hitNormal *rl.Vector3, length, tailRadius float32) bool {
	localTail := xf.ToLocal(*tail)
	localRadius := xf.localLength(tailRadius)
	if localTail.Z >= localRadius {
		return false
	}

	halfWidth := 0.5 * c.Width
	halfHeight := 0.5 * c.Height
	if abs32(localTail.Y) >= halfHeight+localRadius || abs32(localTail.X) >= halfWidth+localRadius {
		return false
	}

	localHead := xf.ToLocal(head)
	localLength := xf.localLength(length)

	switch {
	case localHead.Z <= 0 && localTail.Z <= 0:
		// Entirely behind: pull the tail back onto the panel.
		switch {
		case abs32(localHead.Y) > halfHeight:
			localTail.Y = signedExtent(halfHeight, localTail.Y)
		case abs32(localHead.X) > halfWidth:
			localTail.X = signedExtent(halfWidth, localTail.X)
		default:
			localTail = localHead
			localTail.Z = localRadius
		}
	case abs32(localTail.Y) > halfHeight:
		edge := signedExtent(halfHeight, localTail.Y)
		normal := directionOr(rl.Vector3{Y: localTail.Y - edge, Z: localTail.Z}, rl.Vector3{Z: 1})
		localTail = rl.Vector3Add(rl.Vector3{X: localTail.X, Y: edge}, rl.Vector3Scale(normal, localRadius))
	case abs32(localTail.X) > halfWidth:
		edge := signedExtent(halfWidth, localTail.X)
		normal := directionOr(rl.Vector3{X: localTail.X - edge, Z: localTail.Z}, rl.Vector3{Z: 1})
		localTail = rl.Vector3Add(rl.Vector3{X: edge, Y: localTail.Y}, rl.Vector3Scale(normal, localRadius))
	default:
		ResolvePanelOnAxis(localHead, &localTail, localLength, localRadius, AxisZ)
	}

	*tail = xf.ToWorld(localTail)
	*hitNormal = xf.NormalToWorld(rl.Vector3{Z: 1})
	return true
}

// ResolvePanelOnAxis resolves a tail against the infinite plane component(up) == 0
// with its solid side below. A bone that fits entirely below tailRadius is stood
// straight up; otherwise the tail is placed at height tailRadius, keeping length
// and the bone's heading in the plane.
func ResolvePanelOnAxis(head rl.Vector3, tail *rl.Vector3, length, tailRadius float32, up Axis) bool {
	if component(*tail, up) >= tailRadius {
		return false
	}

	headHeight := component(head, up)
	newTail := head
	if headHeight+length <= tailRadius {
		setComponent(&newTail, up, headHeight+length)
		*tail = newTail
		return true
	}

	side := (up + 1) % 3
	forward := (up + 2) % 3

	heightAboveRadius := headHeight - tailRadius
	projectionLength := sqrt32(max(0, length*length-heightAboveRadius*heightAboveRadius))
	bone := rl.Vector3Subtract(*tail, head)
	ps, pf := component(bone, side), component(bone, forward)
	planar := sqrt32(ps*ps + pf*pf)
	if planar > magnitudeThreshold {
		scale := projectionLength / planar
		setComponent(&newTail, side, component(head, side)+ps*scale)
		setComponent(&newTail, forward, component(head, forward)+pf*scale)
	} else {
		// Bone points straight down: lay it along the first in-plane axis.
		setComponent(&newTail, side, component(head, side)+projectionLength)
	}
	setComponent(&newTail, up, tailRadius)
	*tail = newTail
	return true
}

// ResolveGround keeps tail above the horizontal plane y = groundHeight and then
// clamps the bone length into [restLength/2, restLength]. fallbackAxis is the
// world direction used when the bone collapses to a point.
func ResolveGround(head rl.Vector3, tail *rl.Vector3, restLength, tailRadius, groundHeight float32, fallbackAxis rl.Vector3) bool {
	offset := rl.Vector3{Y: groundHeight}
	localHead := rl.Vector3Subtract(head, offset)
	localTail := rl.Vector3Subtract(*tail, offset)
	if !ResolvePanelOnAxis(localHead, &localTail, restLength, tailRadius, AxisY) {
		return false
	}
	*tail = FixBoneLength(head, rl.Vector3Add(localTail, offset), 0.5*restLength, restLength, fallbackAxis)
	return true
}

// FixBoneLength moves tail along head->tail so the bone length lies in
// [minLength, maxLength]. A degenerate bone is rebuilt along fallbackAxis.
func FixBoneLength(head, tail rl.Vector3, minLength, maxLength float32, fallbackAxis rl.Vector3) rl.Vector3 {
	headToTail := rl.Vector3Subtract(tail, head)
	length := rl.Vector3Length(headToTail)
	if length <= magnitudeThreshold {
		return rl.Vector3Add(head, rl.Vector3Scale(rl.Vector3Normalize(fallbackAxis), minLength))
	}
	clamped := rl.Clamp(length, minLength, maxLength)
	return rl.Vector3Add(head, rl.Vector3Scale(headToTail, clamped/length))
}
