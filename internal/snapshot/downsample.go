package snapshot

import (
	"image"

	"golang.org/x/image/draw"
)

// Downsample shrinks a supersampled canvas to size x size. image.RGBA is
// already premultiplied, so filtering does not darken translucent edges.
func Downsample(img *image.RGBA, size int) *image.RGBA {
	b := img.Bounds()
	if b.Dx() <= size && b.Dy() <= size {
		return img
	}

	// CatmullRom approximates Lanczos
	dst := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.CatmullRom.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
