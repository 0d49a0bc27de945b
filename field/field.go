// Package field holds gridded 2D vector fields over a geographic bounding
// box and their bilinear sampling.
package field

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/pthm-cable/windmap/geom"
)

// indexEpsilon keeps fractional indices strictly below the last grid line.
const indexEpsilon = 1e-6

var (
	ErrGridTooSmall = errors.New("field: grid must be at least 2x2")
	ErrSampleCount  = errors.New("field: sample count does not match grid")
	ErrBounds       = errors.New("field: empty bounding box")
	ErrNotFinite    = errors.New("field: non-finite sample")
)

// Bounds is a geographic bounding box, half-open on the upper edges.
type Bounds struct {
	X0, Y0, X1, Y1 float64
}

// Contains reports whether (x, y) lies in [X0,X1)×[Y0,Y1).
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.X0 && x < b.X1 && y >= b.Y0 && y < b.Y1
}

// Intersect clips b to o.
func (b Bounds) Intersect(o Bounds) Bounds {
	return Bounds{
		X0: math.Max(b.X0, o.X0),
		Y0: math.Max(b.Y0, o.Y0),
		X1: math.Min(b.X1, o.X1),
		Y1: math.Min(b.Y1, o.Y1),
	}
}

// Sampler is what the particle engine needs from a field.
type Sampler interface {
	Bounds() Bounds
	InBounds(x, y float64) bool
	Value(x, y float64) geom.Vector
	MaxLength() float64
}

// Field is an immutable w×h grid of vectors. Cell (i, j) sits at
// longitude X0 + i/(w-1)·(X1-X0) and latitude Y0 + j/(h-1)·(Y1-Y0).
type Field struct {
	bounds    Bounds
	w, h      int
	cells     []geom.Vector // cells[i*h+j]
	maxLength float64

	averageLength float64
	hasAverage    bool
}

// New builds a field from a grid laid out as cells[i*h+j].
// The average length is left undefined.
func New(cells []geom.Vector, w, h int, bounds Bounds) (*Field, error) {
	if w < 2 || h < 2 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrGridTooSmall, w, h)
	}
	if len(cells) != w*h {
		return nil, fmt.Errorf("%w: %d cells for %dx%d", ErrSampleCount, len(cells), w, h)
	}
	if !(bounds.X1 > bounds.X0) || !(bounds.Y1 > bounds.Y0) {
		return nil, fmt.Errorf("%w: %+v", ErrBounds, bounds)
	}

	lengths := make([]float64, len(cells))
	for k, v := range cells {
		if math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0) {
			return nil, fmt.Errorf("%w: cell %d", ErrNotFinite, k)
		}
		lengths[k] = v.Length()
	}

	return &Field{
		bounds:    bounds,
		w:         w,
		h:         h,
		cells:     cells,
		maxLength: floats.Max(lengths),
	}, nil
}

// Read builds a field from a descriptor. When correctForSphere is set each
// sample's x component is divided by cos(latitude) and the vector rescaled to
// its original length; the cos(latitude)-weighted average length of non-zero
// samples is recorded.
func Read(d *Descriptor, correctForSphere bool) (*Field, error) {
	w, h := d.GridWidth, d.GridHeight
	if w < 2 || h < 2 {
		return nil, fmt.Errorf("%w: got %dx%d", ErrGridTooSmall, w, h)
	}
	if len(d.Field) != 2*w*h {
		return nil, fmt.Errorf("%w: %d values for %dx%d", ErrSampleCount, len(d.Field), w, h)
	}

	cells := make([]geom.Vector, w*h)
	var lengths, weights []float64

	k := 0
	for i := 0; i < w; i++ {
		for j := 0; j < h; j++ {
			v := geom.Vector{X: d.Field[k], Y: d.Field[k+1]}
			k += 2

			if correctForSphere {
				uy := float64(j) / float64(h-1)
				lat := d.Y0*(1-uy) + d.Y1*uy
				m := math.Pi * lat / 180
				length := v.Length()
				if length != 0 {
					lengths = append(lengths, length)
					weights = append(weights, math.Cos(m))
				}
				v.X /= math.Cos(m)
				v = v.SetLength(length)
			}
			cells[i*h+j] = v
		}
	}

	f, err := New(cells, w, h, d.Bounds())
	if err != nil {
		return nil, err
	}

	if len(lengths) > 0 && floats.Sum(weights) != 0 {
		f.averageLength = stat.Mean(lengths, weights)
		f.hasAverage = true
	}
	return f, nil
}

// Bounds returns the field's bounding box.
func (f *Field) Bounds() Bounds { return f.bounds }

// Size returns the grid dimensions.
func (f *Field) Size() (w, h int) { return f.w, f.h }

// Cell returns the stored vector at grid index (i, j).
func (f *Field) Cell(i, j int) geom.Vector { return f.cells[i*f.h+j] }

// MaxLength returns the largest cell magnitude.
func (f *Field) MaxLength() float64 { return f.maxLength }

// AverageLength returns the latitude-weighted mean magnitude, if defined.
func (f *Field) AverageLength() (float64, bool) {
	return f.averageLength, f.hasAverage
}

// InBounds reports whether (x, y) may be sampled.
func (f *Field) InBounds(x, y float64) bool {
	return f.bounds.Contains(x, y)
}

// Value bilinearly interpolates the field at (x, y).
// Callers must check InBounds first; sampling outside panics.
func (f *Field) Value(x, y float64) geom.Vector {
	if !f.InBounds(x, y) {
		panic(fmt.Sprintf("field: Value(%g, %g) outside %+v", x, y, f.bounds))
	}
	b := f.bounds
	a := (float64(f.w) - 1 - indexEpsilon) * (x - b.X0) / (b.X1 - b.X0)
	c := (float64(f.h) - 1 - indexEpsilon) * (y - b.Y0) / (b.Y1 - b.Y0)
	return f.bilinear(a, c)
}

func (f *Field) bilinear(a, b float64) geom.Vector {
	na := int(math.Floor(a))
	nb := int(math.Floor(b))
	ma := int(math.Ceil(a))
	mb := int(math.Ceil(b))
	fa := a - float64(na)
	fb := b - float64(nb)

	v00 := f.cells[na*f.h+nb]
	v10 := f.cells[ma*f.h+nb]
	v01 := f.cells[na*f.h+mb]
	v11 := f.cells[ma*f.h+mb]

	w00 := (1 - fa) * (1 - fb)
	w10 := fa * (1 - fb)
	w01 := (1 - fa) * fb
	w11 := fa * fb

	return geom.Vector{
		X: v00.X*w00 + v10.X*w10 + v01.X*w01 + v11.X*w11,
		Y: v00.Y*w00 + v10.Y*w10 + v01.Y*w01 + v11.Y*w11,
	}
}

// Constant is a field with the same vector everywhere inside its bounds.
type Constant struct {
	bounds    Bounds
	v         geom.Vector
	maxLength float64
}

// NewConstant returns a uniform field of (dx, dy) over bounds.
func NewConstant(dx, dy float64, bounds Bounds) *Constant {
	v := geom.Vector{X: dx, Y: dy}
	return &Constant{bounds: bounds, v: v, maxLength: v.Length()}
}

// Bounds returns the field's bounding box.
func (c *Constant) Bounds() Bounds { return c.bounds }

// InBounds reports whether (x, y) lies inside the field.
func (c *Constant) InBounds(x, y float64) bool { return c.bounds.Contains(x, y) }

// Value returns the constant vector.
func (c *Constant) Value(x, y float64) geom.Vector { return c.v }

// MaxLength returns the vector's magnitude.
func (c *Constant) MaxLength() float64 { return c.maxLength }
