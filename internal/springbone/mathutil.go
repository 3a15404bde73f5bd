package springbone

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

const (
	magnitudeThreshold = 0.001  // below this a direction is considered degenerate
	bounceThreshold    = 0.0001 // squared bounce speed below which contacts just stick
	falloffThreshold   = 0.0001 // angle-limit bounds smaller than this collapse to zero
)

func sqrt32(x float32) float32 {
	return float32(math.Sqrt(float64(x)))
}

func abs32(x float32) float32 {
	if x < 0 {
		return -x
	}
	return x
}

func clamp01(x float32) float32 {
	return rl.Clamp(x, 0, 1)
}

func isFinite32(x float32) bool {
	f := float64(x)
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func isFinite(v rl.Vector3) bool {
	return isFinite32(v.X) && isFinite32(v.Y) && isFinite32(v.Z)
}

// project returns the component of v along onto. onto does not need to be unit length.
func project(v, onto rl.Vector3) rl.Vector3 {
	lenSqr := rl.Vector3LengthSqr(onto)
	if lenSqr <= 0 {
		return rl.Vector3{}
	}
	return rl.Vector3Scale(onto, rl.Vector3DotProduct(v, onto)/lenSqr)
}

// directionOr normalizes v, or returns fallback when v is too short to carry a direction.
func directionOr(v, fallback rl.Vector3) rl.Vector3 {
	length := rl.Vector3Length(v)
	if length <= magnitudeThreshold {
		return fallback
	}
	return rl.Vector3Scale(v, 1/length)
}

// perpendicular returns some unit vector orthogonal to v.
func perpendicular(v rl.Vector3) rl.Vector3 {
	ax, ay, az := abs32(v.X), abs32(v.Y), abs32(v.Z)
	axis := rl.Vector3{X: 1}
	switch {
	case ay < ax && ay <= az:
		axis = rl.Vector3{Y: 1}
	case az < ax && az < ay:
		axis = rl.Vector3{Z: 1}
	}
	return rl.Vector3Normalize(rl.Vector3CrossProduct(v, axis))
}

// fromToRotation is the shortest-arc rotation taking direction from onto direction to.
// Both inputs must be unit length. Opposite directions rotate half a turn about an
// arbitrary perpendicular axis.
func fromToRotation(from, to rl.Vector3) rl.Quaternion {
	d := rl.Vector3DotProduct(from, to)
	if d >= 1-1e-6 {
		return rl.QuaternionIdentity()
	}
	if d <= -1+1e-6 {
		return rl.QuaternionFromAxisAngle(perpendicular(from), math.Pi)
	}
	c := rl.Vector3CrossProduct(from, to)
	q := rl.Quaternion{X: c.X, Y: c.Y, Z: c.Z, W: 1 + d}
	return rl.QuaternionNormalize(q)
}

// blendRotation interpolates from a to b along the shorter arc and renormalizes.
func blendRotation(a, b rl.Quaternion, t float32) rl.Quaternion {
	if a.X*b.X+a.Y*b.Y+a.Z*b.Z+a.W*b.W < 0 {
		b = rl.Quaternion{X: -b.X, Y: -b.Y, Z: -b.Z, W: -b.W}
	}
	return rl.QuaternionNlerp(a, b, clamp01(t))
}

func rotate(v rl.Vector3, q rl.Quaternion) rl.Vector3 {
	return rl.Vector3RotateByQuaternion(v, q)
}

func component(v rl.Vector3, axis Axis) float32 {
	switch axis {
	case AxisX:
		return v.X
	case AxisY:
		return v.Y
	default:
		return v.Z
	}
}

func setComponent(v *rl.Vector3, axis Axis, value float32) {
	switch axis {
	case AxisX:
		v.X = value
	case AxisY:
		v.Y = value
	default:
		v.Z = value
	}
}

// signedExtent returns extent with the sign of v; zero counts as positive.
func signedExtent(extent, v float32) float32 {
	if v < 0 {
		return -extent
	}
	return extent
}
