package field

import (
	"errors"
	"fmt"
	"math"
	"os"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/floats"
)

var ErrNoStations = errors.New("field: no station observations")

// Station is a single surface observation. Direction is where the wind
// blows from, in degrees clockwise from north.
type Station struct {
	Name      string  `csv:"name"`
	Lat       float64 `csv:"lat"`
	Lon       float64 `csv:"lon"`
	Speed     float64 `csv:"speed"`
	Direction float64 `csv:"direction"`
}

// UV converts the observation to eastward/northward components.
func (s Station) UV() (u, v float64) {
	rad := math.Pi / 180 * s.Direction
	return -s.Speed * math.Sin(rad), -s.Speed * math.Cos(rad)
}

// LoadStations reads observations from a CSV file with a header row.
func LoadStations(path string) ([]Station, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening stations: %w", err)
	}
	defer f.Close()

	var stations []Station
	if err := gocsv.UnmarshalFile(f, &stations); err != nil {
		return nil, fmt.Errorf("parsing stations: %w", err)
	}
	return stations, nil
}

// GridOptions controls inverse-distance weighting.
type GridOptions struct {
	Width, Height int
	Bounds        Bounds
	Power         float64 // distance exponent
	Smoothing     float64 // in grid cells, added in quadrature to every distance
	Timestamp     string
}

// DefaultGridOptions matches the 100×100, power 8, smoothing 8 gridding.
func DefaultGridOptions(b Bounds) GridOptions {
	return GridOptions{Width: 100, Height: 100, Bounds: b, Power: 8, Smoothing: 8}
}

// GridStations interpolates station observations onto a regular grid by
// inverse-distance weighting of the u and v components. Distances are
// measured in grid cells.
func GridStations(stations []Station, opts GridOptions) (*Descriptor, error) {
	if len(stations) == 0 {
		return nil, ErrNoStations
	}
	w, h := opts.Width, opts.Height
	if w < 2 || h < 2 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrGridTooSmall, w, h)
	}
	b := opts.Bounds
	if !(b.X1 > b.X0) || !(b.Y1 > b.Y0) {
		return nil, fmt.Errorf("%w: %+v", ErrBounds, b)
	}

	n := len(stations)
	sx := make([]float64, n)
	sy := make([]float64, n)
	us := make([]float64, n)
	vs := make([]float64, n)
	for k, s := range stations {
		sx[k] = (s.Lon - b.X0) / (b.X1 - b.X0) * float64(w-1)
		sy[k] = (s.Lat - b.Y0) / (b.Y1 - b.Y0) * float64(h-1)
		us[k], vs[k] = s.UV()
	}

	weights := make([]float64, n)
	out := make([]float64, 0, 2*w*h)
	for i := 0; i < w; i++ {
		for j := 0; j < h; j++ {
			if k, exact := idwWeights(weights, sx, sy, float64(i), float64(j), opts.Power, opts.Smoothing); exact {
				out = append(out, us[k], vs[k])
				continue
			}
			total := floats.Sum(weights)
			out = append(out, floats.Dot(weights, us)/total, floats.Dot(weights, vs)/total)
		}
	}

	return &Descriptor{
		Timestamp:  opts.Timestamp,
		X0:         b.X0,
		Y0:         b.Y0,
		X1:         b.X1,
		Y1:         b.Y1,
		GridWidth:  w,
		GridHeight: h,
		Field:      out,
	}, nil
}

// idwWeights fills weights for the point (x, y). If a station coincides with
// the point its index is returned with exact set.
func idwWeights(weights, sx, sy []float64, x, y, power, smoothing float64) (int, bool) {
	for k := range weights {
		dx := x - sx[k]
		dy := y - sy[k]
		dist := math.Sqrt(dx*dx + dy*dy + smoothing*smoothing)
		if dist < 1e-10 {
			return k, true
		}
		weights[k] = 1 / math.Pow(dist, power)
	}
	return 0, false
}
