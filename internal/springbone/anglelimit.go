package springbone

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
)

// AngleLimit clamps the swing of a bone about one axis to [Min, Max] degrees.
type AngleLimit struct {
	Active bool
	Min    float32
	Max    float32
}

// Falloff eases value toward bound. The result is normalized to [0, 1] and never
// decreases as value approaches bound.
func Falloff(value, bound float32) float32 {
	if abs32(bound) <= falloffThreshold {
		return 0
	}
	t := clamp01(value / bound)
	return min(t, sqrt32(t))
}

// ConstrainVector limits the angle between vector and basisForward, measured in the
// plane orthogonal to basisUp and signed toward basisSide. The component along
// basisUp and the in-plane length are preserved.
func (a AngleLimit) ConstrainVector(basisSide, basisUp, basisForward rl.Vector3, stiffness, dt float32, vector rl.Vector3) rl.Vector3 {
	upProjection := project(vector, basisUp)
	inPlane := rl.Vector3Subtract(vector, upProjection)
	planeLength := rl.Vector3Length(inPlane)
	if planeLength <= magnitudeThreshold {
		return vector
	}

	sine := rl.Clamp(rl.Vector3DotProduct(rl.Vector3Scale(inPlane, 1/planeLength), basisSide), -1, 1)
	angle := float32(math.Asin(float64(sine))) * rl.Rad2deg

	// Soft spring toward the forward axis, then the hard limit.
	angle += -angle * stiffness * dt * dt
	angle = rl.Clamp(angle, a.Min, a.Max)

	bound := a.Max
	if angle < 0 {
		bound = a.Min
	}
	angle = Falloff(angle, bound) * bound

	sin, cos := math.Sincos(float64(angle * rl.Deg2rad))
	rebuilt := rl.Vector3Add(
		rl.Vector3Scale(basisSide, float32(sin)),
		rl.Vector3Scale(basisForward, float32(cos)),
	)
	return rl.Vector3Add(rl.Vector3Scale(rebuilt, planeLength), upProjection)
}

// SignedAngle measures vector the same way ConstrainVector does, in degrees.
func SignedAngle(basisSide, basisUp, vector rl.Vector3) float32 {
	inPlane := rl.Vector3Subtract(vector, project(vector, basisUp))
	planeLength := rl.Vector3Length(inPlane)
	if planeLength <= magnitudeThreshold {
		return 0
	}
	sine := rl.Clamp(rl.Vector3DotProduct(rl.Vector3Scale(inPlane, 1/planeLength), basisSide), -1, 1)
	return float32(math.Asin(float64(sine))) * rl.Rad2deg
}
