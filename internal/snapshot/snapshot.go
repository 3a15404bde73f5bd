// Package snapshot rasterizes spring rigs into images without a window, for
// regression pictures and batch runs.
package snapshot

import (
	"image"
	"image/color"
	"math"

	rl "github.com/gen2brain/raylib-go/raylib"
	"golang.org/x/image/vector"

	"springbone/internal/physics"
	"springbone/internal/springbone"
)

// Plane selects the world axes mapped to the image.
type Plane int

const (
	PlaneFront Plane = iota // X right, Y up
	PlaneSide               // Z right, Y up
	PlaneTop                // X right, Z down
)

const circleSegments = 24

// Options control framing and colors. Zero Scale fits the rigs in view.
type Options struct {
	Size        int // output width and height in pixels
	Supersample int
	Plane       Plane
	Center      rl.Vector3
	Scale       float32 // pixels per world unit at output size
	Margin      float32 // fraction of the image kept free when fitting

	Background color.NRGBA
	Bone       color.NRGBA
	Tip        color.NRGBA
	Collider   color.NRGBA
	Ground     color.NRGBA
}

func DefaultOptions() Options {
	return Options{
		Size:        512,
		Supersample: 2,
		Plane:       PlaneFront,
		Margin:      0.1,
		Background:  color.NRGBA{R: 245, G: 245, B: 245, A: 255},
		Bone:        color.NRGBA{R: 255, G: 161, B: 0, A: 255},
		Tip:         color.NRGBA{R: 190, G: 33, B: 55, A: 255},
		Collider:    color.NRGBA{R: 40, G: 120, B: 200, A: 96},
		Ground:      color.NRGBA{R: 130, G: 130, B: 130, A: 255},
	}
}

type canvas struct {
	img    *image.RGBA
	raster *vector.Rasterizer
	plane  Plane
	center rl.Vector3
	scale  float32 // pixels per unit at canvas size
	half   float32
}

// Render draws every bone, collider and the ground of each system.
func Render(systems []*springbone.System, opts Options) *image.RGBA {
	if opts.Size <= 0 {
		opts.Size = DefaultOptions().Size
	}
	if opts.Supersample <= 0 {
		opts.Supersample = 1
	}
	if opts.Scale <= 0 {
		opts.Center, opts.Scale = Fit(systems, opts)
	}

	size := opts.Size * opts.Supersample
	c := &canvas{
		img:    image.NewRGBA(image.Rect(0, 0, size, size)),
		raster: vector.NewRasterizer(size, size),
		plane:  opts.Plane,
		center: opts.Center,
		scale:  opts.Scale * float32(opts.Supersample),
		half:   float32(size) / 2,
	}
	fill(c.img, opts.Background)

	lineWidth := float32(opts.Supersample)
	for _, s := range systems {
		if s.Settings().CollideWithGround && opts.Plane != PlaneTop {
			y := s.Settings().GroundHeight
			far := float32(size) / c.scale
			a := rl.Vector3{X: c.center.X - far, Y: y, Z: c.center.Z - far}
			b := rl.Vector3{X: c.center.X + far, Y: y, Z: c.center.Z + far}
			c.line(a, b, lineWidth, opts.Ground)
		}
	}
	for _, s := range systems {
		c.colliders(s, opts.Collider)
	}
	for _, s := range systems {
		rig := s.Rig()
		for i := range rig.Bones {
			head := rig.Transforms[i].WorldPosition()
			tip := rig.States[i].CurrentTip
			c.line(head, tip, 2*lineWidth, opts.Bone)
			c.disc(tip, max(rig.Bones[i].Radius, 2/c.scale*float32(opts.Supersample)), opts.Tip)
		}
	}

	if opts.Supersample > 1 {
		return Downsample(c.img, opts.Size)
	}
	return c.img
}

// Fit returns a center and scale that frame all bones and colliders.
func Fit(systems []*springbone.System, opts Options) (rl.Vector3, float32) {
	var bounds physics.AABB
	first := true
	grow := func(b physics.AABB) {
		if first {
			bounds = b
			first = false
			return
		}
		bounds = bounds.Union(b)
	}

	for _, s := range systems {
		rig := s.Rig()
		for i := range rig.Bones {
			grow(physics.NewAABBFromSegment(rig.Transforms[i].WorldPosition(), rig.States[i].CurrentTip, rig.Bones[i].Radius))
		}
		for i, t := range rig.ColliderTransforms {
			xf := springbone.ColliderTransformOf(t)
			if b, ok := springbone.ColliderBounds(rig.Colliders[i], xf); ok {
				grow(b)
			}
		}
	}
	if first {
		return rl.Vector3{}, float32(opts.Size) / 4
	}

	size := bounds.Size()
	var extent float32
	switch opts.Plane {
	case PlaneSide:
		extent = max(size.Z, size.Y)
	case PlaneTop:
		extent = max(size.X, size.Z)
	default:
		extent = max(size.X, size.Y)
	}
	extent = max(extent, 0.01)
	usable := float32(opts.Size) * (1 - 2*opts.Margin)
	return bounds.Center(), usable / extent
}

// project maps a world point to canvas pixels.
func (c *canvas) project(p rl.Vector3) (float32, float32) {
	d := rl.Vector3Subtract(p, c.center)
	var u, v float32
	switch c.plane {
	case PlaneSide:
		u, v = d.Z, d.Y
	case PlaneTop:
		u, v = d.X, -d.Z
	default:
		u, v = d.X, d.Y
	}
	return c.half + u*c.scale, c.half - v*c.scale
}

func (c *canvas) colliders(s *springbone.System, col color.NRGBA) {
	rig := s.Rig()
	for i, t := range rig.ColliderTransforms {
		collider := rig.Colliders[i]
		xf := springbone.ColliderTransformOf(t)
		scale := max(abs(xf.Scale.X), abs(xf.Scale.Y), abs(xf.Scale.Z))
		switch collider.Type {
		case springbone.ColliderSphere:
			c.disc(xf.Position, collider.Radius*scale, col)
		case springbone.ColliderCapsule:
			top := xf.ToWorld(rl.Vector3{Y: collider.Height})
			r := collider.Radius * scale
			c.line(xf.Position, top, 2*r*c.scale, col)
			c.disc(xf.Position, r, col)
			c.disc(top, r, col)
		case springbone.ColliderPanel:
			hw, hh := 0.5*collider.Width, 0.5*collider.Height
			c.polygon([]rl.Vector3{
				xf.ToWorld(rl.Vector3{X: -hw, Y: -hh}),
				xf.ToWorld(rl.Vector3{X: hw, Y: -hh}),
				xf.ToWorld(rl.Vector3{X: hw, Y: hh}),
				xf.ToWorld(rl.Vector3{X: -hw, Y: hh}),
			}, col)
		}
	}
}

// line draws a segment width pixels wide.
func (c *canvas) line(a, b rl.Vector3, width float32, col color.NRGBA) {
	ax, ay := c.project(a)
	bx, by := c.project(b)
	dx, dy := bx-ax, by-ay
	length := float32(math.Hypot(float64(dx), float64(dy)))
	if length < 1e-3 {
		return
	}
	nx, ny := -dy/length*width/2, dx/length*width/2

	c.raster.Reset(c.img.Bounds().Dx(), c.img.Bounds().Dy())
	c.raster.MoveTo(ax+nx, ay+ny)
	c.raster.LineTo(bx+nx, by+ny)
	c.raster.LineTo(bx-nx, by-ny)
	c.raster.LineTo(ax-nx, ay-ny)
	c.raster.ClosePath()
	c.draw(col)
}

// disc draws a filled circle of world radius r.
func (c *canvas) disc(center rl.Vector3, r float32, col color.NRGBA) {
	cx, cy := c.project(center)
	pr := r * c.scale
	if pr < 0.5 {
		pr = 0.5
	}

	c.raster.Reset(c.img.Bounds().Dx(), c.img.Bounds().Dy())
	for i := range circleSegments {
		angle := 2 * math.Pi * float64(i) / circleSegments
		x := cx + pr*float32(math.Cos(angle))
		y := cy + pr*float32(math.Sin(angle))
		if i == 0 {
			c.raster.MoveTo(x, y)
		} else {
			c.raster.LineTo(x, y)
		}
	}
	c.raster.ClosePath()
	c.draw(col)
}

func (c *canvas) polygon(points []rl.Vector3, col color.NRGBA) {
	if len(points) < 3 {
		return
	}
	c.raster.Reset(c.img.Bounds().Dx(), c.img.Bounds().Dy())
	for i, p := range points {
		x, y := c.project(p)
		if i == 0 {
			c.raster.MoveTo(x, y)
		} else {
			c.raster.LineTo(x, y)
		}
	}
	c.raster.ClosePath()
	c.draw(col)
}

func (c *canvas) draw(col color.NRGBA) {
	c.raster.Draw(c.img, c.img.Bounds(), image.NewUniform(col), image.Point{})
}

func fill(img *image.RGBA, col color.NRGBA) {
	pm := color.RGBAModel.Convert(col).(color.RGBA)
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i] = pm.R
		img.Pix[i+1] = pm.G
		img.Pix[i+2] = pm.B
		img.Pix[i+3] = pm.A
	}
}

func abs(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
