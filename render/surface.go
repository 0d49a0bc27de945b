// Package render defines the raster surface the map draws onto and its
// software backend. The raylib backend lives in renderer.
package render

import "image/color"

// Align is horizontal text alignment relative to the anchor point.
type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Surface is an addressable 2D raster target. Coordinates are pixels with the
// origin at the top left. Text is anchored at its baseline.
type Surface interface {
	Size() (w, h int)

	FillRect(x, y, w, h float64, c color.NRGBA)
	StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA)
	FillCircle(x, y, r float64, c color.NRGBA)
	StrokeCircle(x, y, r, width float64, c color.NRGBA)
	FillText(s string, x, y, size float64, align Align, c color.NRGBA)
	// MeasureText returns the advance width of s, or 0 if it cannot be measured.
	MeasureText(s string, size float64) float64

	// Clear makes the whole surface transparent.
	Clear()
	// Snapshot copies the current raster into an offscreen buffer.
	Snapshot()
	// DrawSnapshot blits the last snapshot scaled into the given rectangle.
	DrawSnapshot(x, y, w, h float64)
}

// RGB returns an opaque color.
func RGB(r, g, b uint8) color.NRGBA {
	return color.NRGBA{R: r, G: g, B: b, A: 255}
}

// WithAlpha returns c with alpha set from a in [0, 1].
func WithAlpha(c color.NRGBA, a float64) color.NRGBA {
	if a < 0 {
		a = 0
	}
	if a > 1 {
		a = 1
	}
	c.A = uint8(a*255 + 0.5)
	return c
}

// Alpha returns c's alpha in [0, 1].
func Alpha(c color.NRGBA) float64 {
	return float64(c.A) / 255
}
