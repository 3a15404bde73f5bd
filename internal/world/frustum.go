package world

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"springbone/internal/physics"
)

// Frustum holds inward-facing planes for culling
type Frustum struct {
	planes [6]Plane // left, right, bottom, top, near, far
}

// Plane is n·p + distance = 0
type Plane struct {
	normal   rl.Vector3
	distance float32
}

const (
	frustumNear float32 = 0.01
	frustumFar  float32 = 1000.0
)

// ExtractFrustum builds the planes for camera. aspect is width over height of
// the viewport it renders into.
func ExtractFrustum(camera rl.Camera3D, aspect float32) Frustum {
	view := rl.MatrixLookAt(camera.Position, camera.Target, camera.Up)

	var proj rl.Matrix
	if camera.Projection == rl.CameraPerspective {
		proj = rl.MatrixPerspective(camera.Fovy*rl.Deg2rad, aspect, frustumNear, frustumFar)
	} else {
		halfH := camera.Fovy / 2.0
		halfW := halfH * aspect
		proj = rl.MatrixOrtho(-halfW, halfW, -halfH, halfH, frustumNear, frustumFar)
	}

	vp := rl.MatrixMultiply(view, proj)

	// Rows of the clip matrix as (x, y, z, w).
	rows := [4][4]float32{
		{vp.M0, vp.M4, vp.M8, vp.M12},
		{vp.M1, vp.M5, vp.M9, vp.M13},
		{vp.M2, vp.M6, vp.M10, vp.M14},
		{vp.M3, vp.M7, vp.M11, vp.M15},
	}

	// Gribb/Hartmann: each clip axis gives w+axis and w-axis.
	var f Frustum
	for axis := range 3 {
		for side, sign := range [2]float32{1, -1} {
			r := rows[axis]
			w := rows[3]
			f.planes[2*axis+side] = normalizePlane(Plane{
				normal:   rl.Vector3{X: w[0] + sign*r[0], Y: w[1] + sign*r[1], Z: w[2] + sign*r[2]},
				distance: w[3] + sign*r[3],
			})
		}
	}
	return f
}

func normalizePlane(p Plane) Plane {
	length := rl.Vector3Length(p.normal)
	if length == 0 {
		return p
	}
	return Plane{
		normal:   rl.Vector3Scale(p.normal, 1.0/length),
		distance: p.distance / length,
	}
}

// ContainsSphere tests if a sphere is inside or intersects the frustum
func (f *Frustum) ContainsSphere(center rl.Vector3, radius float32) bool {
	for i := range f.planes {
		dist := rl.Vector3DotProduct(f.planes[i].normal, center) + f.planes[i].distance
		if dist < -radius {
			return false
		}
	}
	return true
}

func (f *Frustum) ContainsPoint(point rl.Vector3) bool {
	return f.ContainsSphere(point, 0)
}

// ContainsAABB rejects boxes entirely behind any plane. Boxes straddling a
// corner may pass even when outside.
func (f *Frustum) ContainsAABB(box physics.AABB) bool {
	for i := range f.planes {
		n := f.planes[i].normal
		// Corner furthest along the plane normal.
		p := box.Min
		if n.X >= 0 {
			p.X = box.Max.X
		}
		if n.Y >= 0 {
			p.Y = box.Max.Y
		}
		if n.Z >= 0 {
			p.Z = box.Max.Z
		}
		if rl.Vector3DotProduct(n, p)+f.planes[i].distance < 0 {
			return false
		}
	}
	return true
}
