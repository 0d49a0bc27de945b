package field

import (
	"math"

	"github.com/ojrac/opensimplex-go"
)

// Synthetic builds a smooth, noise-driven wind descriptor. It stands in for
// real observations when no field file is configured.
func Synthetic(seed int64, w, h int, b Bounds, maxSpeed float64) *Descriptor {
	angleNoise := opensimplex.New(seed)
	speedNoise := opensimplex.New(seed + 1)

	const freq = 0.035
	out := make([]float64, 0, 2*w*h)
	for i := 0; i < w; i++ {
		for j := 0; j < h; j++ {
			x := float64(i) * freq
			y := float64(j) * freq
			// Prevailing southerly flow bent by the noise
			theta := math.Pi/2 + angleNoise.Eval2(x, y)*math.Pi*0.6
			speed := maxSpeed * (0.55 + 0.45*speedNoise.Eval2(x+100, y+100))
			out = append(out, speed*math.Cos(theta), speed*math.Sin(theta))
		}
	}

	return &Descriptor{
		Timestamp:  "synthetic on unknown",
		X0:         b.X0,
		Y0:         b.Y0,
		X1:         b.X1,
		Y1:         b.Y1,
		GridWidth:  w,
		GridHeight: h,
		Field:      out,
	}
}
