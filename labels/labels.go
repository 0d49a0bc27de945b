// Package labels places weighted point labels (cities) on the map without
// overlap and crossfades them while the view zooms.
package labels

import (
	"image/color"
	"math"
	"sort"

	"github.com/pthm-cable/windmap/animator"
	"github.com/pthm-cable/windmap/projection"
	"github.com/pthm-cable/windmap/render"
)

// Point is a labeled map feature. Weight orders placement and sizes the dot.
type Point struct {
	Name   string
	State  string
	Lon    float64
	Lat    float64
	Weight float64
}

// Options tunes label placement and styling.
type Options struct {
	MaxInView      int     // accepted points per pass
	Pad            float64 // padding around claimed rectangles
	RadiusScale    float64 // dot radius = RadiusScale·weight^RadiusExponent
	RadiusExponent float64
	FontSize       float64
	TextOffset     float64 // baseline distance below the dot center
	TextHeight     float64
	HaloAlpha      float64 // halo alpha relative to the label alpha
	HaloRadius     int     // halo offsets span ±HaloRadius pixels
	StrokeWidth    float64
}

// DefaultOptions returns the stock label settings.
func DefaultOptions() Options {
	return Options{
		MaxInView:      10,
		Pad:            3,
		RadiusScale:    0.075,
		RadiusExponent: 0.3,
		FontSize:       12,
		TextOffset:     15,
		TextHeight:     15,
		HaloAlpha:      0.25,
		HaloRadius:     2,
		StrokeWidth:    1,
	}
}

var (
	white = render.RGB(255, 255, 255)
	black = render.RGB(0, 0, 0)
)

// Placer greedily selects non-overlapping labels, heaviest first.
type Placer struct {
	animator.BaseObserver

	surface render.Surface
	proj    projection.Projector
	opts    Options

	points []Point
	alpha  []float64 // accumulated per pass, reset every layout
	taken  []render.Rect
}

// NewPlacer sorts points by descending weight and lays them out at the
// identity transform.
func NewPlacer(s render.Surface, p projection.Projector, points []Point, opts Options) *Placer {
	sorted := make([]Point, len(points))
	copy(sorted, points)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Weight > sorted[j].Weight
	})

	pl := &Placer{
		surface: s,
		proj:    p,
		opts:    opts,
		points:  sorted,
		alpha:   make([]float64, len(sorted)),
	}
	pl.Layout(projection.IdentityTransform)
	return pl
}

// Points returns the points in placement order.
func (pl *Placer) Points() []Point { return pl.points }

// Alpha returns the clamped visibility of the i-th point in placement order.
func (pl *Placer) Alpha(i int) float64 {
	return math.Min(1, pl.alpha[i])
}

// Shown returns how many points have non-zero visibility.
func (pl *Placer) Shown() int {
	n := 0
	for _, a := range pl.alpha {
		if a > 0 {
			n++
		}
	}
	return n
}

// radius returns a point's dot radius.
func (pl *Placer) radius(p Point) float64 {
	return pl.opts.RadiusScale * math.Pow(p.Weight, pl.opts.RadiusExponent)
}

func (pl *Placer) reset() {
	for i := range pl.alpha {
		pl.alpha[i] = 0
	}
}

// mark runs one placement pass at t, adding weight to every accepted point.
func (pl *Placer) mark(t projection.Transform, weight float64) {
	w, h := pl.surface.Size()
	pad := pl.opts.Pad
	pl.taken = pl.taken[:0]
	inView := 0

	for i, p := range pl.points {
		if inView >= pl.opts.MaxInView {
			break
		}
		s := t.ToScreen(pl.proj, p.Lon, p.Lat)
		if !projection.OnCanvas(s, float64(w), float64(h)) {
			continue
		}

		r := pl.radius(p)
		tx, ty := s.X, s.Y+pl.opts.TextOffset
		tw := pl.surface.MeasureText(p.Name, pl.opts.FontSize)

		dot := render.Rect{X: s.X - r - pad, Y: s.Y - r - pad, W: 2 * (r + pad), H: 2 * (r + pad)}
		text := render.Rect{
			X: tx - tw/2 - pad,
			Y: ty - pl.opts.TextHeight - pad,
			W: tw + 2*pad,
			H: pl.opts.TextHeight + 2*pad,
		}
		if !pl.isFree(dot) || !pl.isFree(text) {
			continue
		}

		pl.taken = append(pl.taken, text, dot)
		pl.alpha[i] += weight
		inView++
	}
}

func (pl *Placer) isFree(r render.Rect) bool {
	for _, o := range pl.taken {
		if r.Overlaps(o) {
			return false
		}
	}
	return true
}

// Layout places labels for a settled view at t and redraws.
func (pl *Placer) Layout(t projection.Transform) {
	pl.reset()
	pl.mark(t, 1)
	pl.Draw(t)
}

// Move recomputes visibility for the animator's transform. During a zoom the
// start and target views are both placed, weighted by progress, so labels
// crossfade.
func (pl *Placer) Move(a *animator.Animator) {
	if a.State() != animator.StateZoom {
		pl.Layout(a.Transform())
		return
	}
	pl.reset()
	u := a.ZoomProgress()
	pl.mark(a.StartTransform(), 1-u)
	pl.mark(a.TargetTransform(), u)
	pl.Draw(a.Transform())
}

func (pl *Placer) EndMove(a *animator.Animator) {
	pl.Move(a)
}

// Draw clears the surface and renders every visible label at t.
func (pl *Placer) Draw(t projection.Transform) {
	pl.surface.Clear()
	w, h := pl.surface.Size()

	for i, p := range pl.points {
		alpha := pl.Alpha(i)
		if alpha == 0 {
			continue
		}
		s := t.ToScreen(pl.proj, p.Lon, p.Lat)
		if !projection.OnCanvas(s, float64(w), float64(h)) {
			continue
		}

		r := pl.radius(p)
		pl.surface.FillCircle(s.X, s.Y, r, render.WithAlpha(white, alpha))
		pl.surface.StrokeCircle(s.X, s.Y, r, pl.opts.StrokeWidth, render.WithAlpha(black, alpha))

		tx, ty := s.X, s.Y+pl.opts.TextOffset
		pl.drawHalo(p.Name, tx, ty, render.WithAlpha(white, pl.opts.HaloAlpha*alpha))
		pl.surface.FillText(p.Name, tx, ty, pl.opts.FontSize, render.AlignCenter, render.WithAlpha(black, alpha))
	}
}

// drawHalo paints the soft outline behind a label.
func (pl *Placer) drawHalo(name string, x, y float64, c color.NRGBA) {
	n := pl.opts.HaloRadius
	for a := -n; a <= n; a++ {
		for b := -n; b <= n; b++ {
			pl.surface.FillText(name, x+float64(a), y+float64(b), pl.opts.FontSize, render.AlignCenter, c)
		}
	}
}
