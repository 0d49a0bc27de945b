package render

import (
	"image"
	"image/color"
	"image/draw"
)

// Composite flattens layers, bottom first, over an opaque background.
func Composite(bg color.NRGBA, layers ...image.Image) *image.RGBA {
	var bounds image.Rectangle
	for _, l := range layers {
		bounds = bounds.Union(l.Bounds())
	}
	out := image.NewRGBA(bounds)
	draw.Draw(out, bounds, image.NewUniform(bg), image.Point{}, draw.Src)
	for _, l := range layers {
		draw.Draw(out, l.Bounds(), l, l.Bounds().Min, draw.Over)
	}
	return out
}

// Offset returns a view of img translated by (x, y). The view shares img's
// pixels.
func Offset(img *image.RGBA, x, y int) *image.RGBA {
	return &image.RGBA{
		Pix:    img.Pix,
		Stride: img.Stride,
		Rect:   img.Rect.Add(image.Pt(x, y)),
	}
}
