package world

import (
	rl "github.com/gen2brain/raylib-go/raylib"

	"springbone/internal/springbone"
)

// Renderer draws spring rigs as debug geometry. It must be used between
// rl.BeginMode3D and rl.EndMode3D.
type Renderer struct {
	BoneColor     rl.Color
	TipColor      rl.Color
	ColliderColor rl.Color
	HitColor      rl.Color
	GroundColor   rl.Color
	ShowBones     bool
	ShowColliders bool
	ShowGround    bool
	GroundSize    int32

	frustum Frustum
	culled  int
}

func NewRenderer() *Renderer {
	return &Renderer{
		BoneColor:     rl.Orange,
		TipColor:      rl.Maroon,
		ColliderColor: rl.SkyBlue,
		HitColor:      rl.Red,
		GroundColor:   rl.LightGray,
		ShowBones:     true,
		ShowColliders: true,
		ShowGround:    true,
		GroundSize:    20,
	}
}

// Culled is the number of primitives skipped by the last Draw.
func (r *Renderer) Culled() int {
	return r.culled
}

func (r *Renderer) Draw(w *World, camera rl.Camera3D, aspect float32) {
	r.frustum = ExtractFrustum(camera, aspect)
	r.culled = 0

	if r.ShowGround {
		height := float32(0)
		if systems := w.Systems(); len(systems) > 0 {
			height = systems[0].Settings().GroundHeight
		}
		rl.PushMatrix()
		rl.Translatef(0, height, 0)
		rl.DrawGrid(r.GroundSize, 1.0)
		rl.PopMatrix()
	}

	for _, s := range w.Systems() {
		if r.ShowColliders {
			r.drawColliders(s)
		}
		if r.ShowBones {
			r.drawBones(s)
		}
	}
}

func (r *Renderer) drawBones(s *springbone.System) {
	rig := s.Rig()
	for i := range rig.Bones {
		head := rig.Transforms[i].WorldPosition()
		tip := rig.States[i].CurrentTip
		radius := max(rig.Bones[i].Radius, 0.01)
		if !r.frustum.ContainsSphere(tip, rig.Bones[i].SpringLength+radius) {
			r.culled++
			continue
		}
		rl.DrawLine3D(head, tip, r.BoneColor)
		rl.DrawSphere(tip, radius, r.TipColor)
	}
}

func (r *Renderer) drawColliders(s *springbone.System) {
	rig := s.Rig()
	for i, xf := range s.ColliderTransforms() {
		c := rig.Colliders[i]
		if bounds, ok := springbone.ColliderBounds(c, xf); ok && !r.frustum.ContainsAABB(bounds) {
			r.culled++
			continue
		}

		scale := max(abs(xf.Scale.X), abs(xf.Scale.Y), abs(xf.Scale.Z))
		switch c.Type {
		case springbone.ColliderSphere:
			rl.DrawSphereWires(xf.Position, c.Radius*scale, 8, 12, r.ColliderColor)
		case springbone.ColliderCapsule:
			top := xf.ToWorld(rl.Vector3{Y: c.Height})
			rl.DrawCapsuleWires(xf.Position, top, c.Radius*scale, 8, 4, r.ColliderColor)
		case springbone.ColliderPanel:
			r.drawPanel(c, xf)
		}
	}
}

func (r *Renderer) drawPanel(c springbone.Collider, xf springbone.ColliderTransform) {
	hw, hh := 0.5*c.Width, 0.5*c.Height
	corners := [4]rl.Vector3{
		xf.ToWorld(rl.Vector3{X: -hw, Y: -hh}),
		xf.ToWorld(rl.Vector3{X: hw, Y: -hh}),
		xf.ToWorld(rl.Vector3{X: hw, Y: hh}),
		xf.ToWorld(rl.Vector3{X: -hw, Y: hh}),
	}
	for i := range corners {
		rl.DrawLine3D(corners[i], corners[(i+1)%4], r.ColliderColor)
	}
	// Facing direction.
	center := xf.Position
	normal := xf.NormalToWorld(rl.Vector3{Z: 1})
	rl.DrawLine3D(center, rl.Vector3Add(center, rl.Vector3Scale(normal, 0.25)), r.HitColor)
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
