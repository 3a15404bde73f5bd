package main

import (
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"

	"springbone/internal/snapshot"
	"springbone/internal/springbone"
)

type cellKind uint8

const (
	cellEmpty cellKind = iota
	cellGround
	cellCollider
	cellBone
	cellTip
)

var cellRunes = [...]rune{' ', '_', '@', '.', 'o'}

// grid is a character raster of the front view. Terminal cells are about
// twice as tall as wide, so rows use half the column scale.
type grid struct {
	width, height int
	cells         []cellKind
	center        rl.Vector3
	scale         float32 // columns per world unit
}

func newGrid(systems []*springbone.System, width, height int) *grid {
	g := &grid{width: width, height: height, cells: make([]cellKind, width*height)}
	opts := snapshot.DefaultOptions()
	opts.Size = min(width, 2*height)
	opts.Margin = 0.05
	g.center, g.scale = snapshot.Fit(systems, opts)
	return g
}

func (g *grid) project(p rl.Vector3) (int, int) {
	d := rl.Vector3Subtract(p, g.center)
	x := float32(g.width)/2 + d.X*g.scale
	y := float32(g.height)/2 - d.Y*g.scale/2
	return int(math.Floor(float64(x))), int(math.Floor(float64(y)))
}

// set keeps the highest-priority kind per cell.
func (g *grid) set(x, y int, kind cellKind) {
	if x < 0 || y < 0 || x >= g.width || y >= g.height {
		return
	}
	i := y*g.width + x
	if kind > g.cells[i] {
		g.cells[i] = kind
	}
}

func (g *grid) at(x, y int) cellKind {
	return g.cells[y*g.width+x]
}

func (g *grid) line(a, b rl.Vector3, kind cellKind) {
	x0, y0 := g.project(a)
	x1, y1 := g.project(b)
	steps := max(abs(x1-x0), abs(y1-y0), 1)
	for i := 0; i <= steps; i++ {
		t := float32(i) / float32(steps)
		x := float32(x0) + t*float32(x1-x0)
		y := float32(y0) + t*float32(y1-y0)
		g.set(int(math.Round(float64(x))), int(math.Round(float64(y))), kind)
	}
}

func (g *grid) plot(systems []*springbone.System) {
	for _, s := range systems {
		if s.Settings().CollideWithGround {
			_, y := g.project(rl.Vector3{Y: s.Settings().GroundHeight})
			for x := range g.width {
				g.set(x, y, cellGround)
			}
		}

		rig := s.Rig()
		for i, t := range rig.ColliderTransforms {
			xf := springbone.ColliderTransformOf(t)
			c := rig.Colliders[i]
			switch c.Type {
			case springbone.ColliderCapsule:
				g.line(xf.Position, xf.ToWorld(rl.Vector3{Y: c.Height}), cellCollider)
			case springbone.ColliderPanel:
				hw := 0.5 * c.Width
				g.line(xf.ToWorld(rl.Vector3{X: -hw}), xf.ToWorld(rl.Vector3{X: hw}), cellCollider)
			default:
				x, y := g.project(xf.Position)
				g.set(x, y, cellCollider)
			}
		}

		for i := range rig.Bones {
			g.line(rig.Transforms[i].WorldPosition(), rig.States[i].CurrentTip, cellBone)
		}
		for i := range rig.Bones {
			x, y := g.project(rig.States[i].CurrentTip)
			g.set(x, y, cellTip)
		}
	}
}

// String renders the grid as newline-separated rows.
func (g *grid) String() string {
	out := make([]rune, 0, (g.width+1)*g.height)
	for y := range g.height {
		for x := range g.width {
			out = append(out, cellRunes[g.at(x, y)])
		}
		out = append(out, '\n')
	}
	return string(out)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
