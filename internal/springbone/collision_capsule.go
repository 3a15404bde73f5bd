package springbone

import rl "github.com/gen2brain/raylib-go/raylib"

// ResolveCapsule pushes tail out of a capsule collider. Beyond either end the
// matching cap is handled exactly like ResolveSphere; between them the tail is
// pushed radially out of the cylinder at its current height.
func ResolveCapsule(c Collider, xf ColliderTransform, head rl.Vector3, tail *rl.Vector3, hitNormal *rl.Vector3, tailRadius float32) bool {
	localHead := xf.ToLocal(head)
	localTail := xf.ToLocal(*tail)
	localRadius := xf.localLength(tailRadius)

	aboveTop := localTail.Y >= c.Height
	if aboveTop || localTail.Y <= 0 {
		var capCenter rl.Vector3
		if aboveTop {
			capCenter.Y = c.Height
		}
		normal, hit := resolveSphereLocal(capCenter, c.Radius, localHead, &localTail, localRadius)
		if !hit {
			return false
		}
		*tail = xf.ToWorld(localTail)
		*hitNormal = xf.NormalToWorld(normal)
		return true
	}

	combined := c.Radius + localRadius
	radial := rl.Vector3{X: localTail.X, Z: localTail.Z}
	if rl.Vector3LengthSqr(radial) > combined*combined {
		return false
	}
	normal := directionOr(radial, rl.Vector3{X: 1})
	localTail.X = normal.X * combined
	localTail.Z = normal.Z * combined
	*tail = xf.ToWorld(localTail)
	*hitNormal = xf.NormalToWorld(normal)
	return true
}
