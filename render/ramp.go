package render

import (
	"image/color"
	"math"
)

// RampSize is the number of entries in a color ramp.
const RampSize = 256

// Ramp is a lookup table from speed index to stroke color.
type Ramp [RampSize]color.NRGBA

// rampAnchors are sampled every 16 entries of the wind speed palette; the
// entries between are linear blends.
var rampAnchors = []struct {
	index   int
	r, g, b uint8
}{
	{0, 232, 151, 254},
	{16, 188, 25, 250},
	{32, 124, 0, 237},
	{48, 93, 49, 231},
	{64, 84, 137, 248},
	{80, 73, 223, 245},
	{96, 36, 254, 180},
	{112, 8, 231, 78},
	{128, 21, 212, 6},
	{144, 98, 247, 0},
	{160, 200, 255, 0},
	{176, 250, 228, 0},
	{192, 255, 145, 0},
	{208, 237, 66, 0},
	{224, 214, 38, 23},
	{240, 224, 96, 91},
	{255, 255, 189, 132},
}

// DefaultRamp builds the wind speed palette.
func DefaultRamp() *Ramp {
	var r Ramp
	for k := 0; k < len(rampAnchors)-1; k++ {
		a, b := rampAnchors[k], rampAnchors[k+1]
		span := float64(b.index - a.index)
		for i := a.index; i <= b.index; i++ {
			t := float64(i-a.index) / span
			r[i] = color.NRGBA{
				R: blend(a.r, b.r, t),
				G: blend(a.g, b.g, t),
				B: blend(a.b, b.b, t),
				A: 255,
			}
		}
	}
	return &r
}

func blend(a, b uint8, t float64) uint8 {
	return uint8(math.Round(float64(a)*(1-t) + float64(b)*t))
}

// At returns the entry at i, clamped to the table.
func (r *Ramp) At(i int) color.NRGBA {
	if i < 0 {
		i = 0
	}
	if i >= RampSize {
		i = RampSize - 1
	}
	return r[i]
}

// SpeedIndex maps a speed fraction of the field maximum to a ramp index:
// 90 + round(70·s), capped at the top of the ramp.
func SpeedIndex(s float64) int {
	c := 90 + int(math.Round(70*s))
	if c > RampSize-1 {
		c = RampSize - 1
	}
	return c
}
