// Package rendertest provides a recording render.Surface for tests.
package rendertest

import (
	"image/color"

	"github.com/pthm-cable/windmap/render"
)

// Op names a recorded draw call.
type Op string

const (
	OpFillRect     Op = "fillRect"
	OpStrokeLine   Op = "strokeLine"
	OpFillCircle   Op = "fillCircle"
	OpStrokeCircle Op = "strokeCircle"
	OpFillText     Op = "fillText"
	OpClear        Op = "clear"
	OpSnapshot     Op = "snapshot"
	OpDrawSnapshot Op = "drawSnapshot"
)

// Call is one recorded draw call. Args holds the numeric arguments in call
// order.
type Call struct {
	Op    Op
	Args  []float64
	Text  string
	Align render.Align
	Color color.NRGBA
}

// Recorder records draw calls instead of rasterizing them. Text measures
// CharWidth per rune at every size.
type Recorder struct {
	W, H      int
	CharWidth float64
	Calls     []Call
}

// New returns a w×h recorder with 6-pixel characters.
func New(w, h int) *Recorder {
	return &Recorder{W: w, H: h, CharWidth: 6}
}

// Reset drops recorded calls.
func (r *Recorder) Reset() { r.Calls = r.Calls[:0] }

// Count returns how many calls of op were recorded.
func (r *Recorder) Count(op Op) int {
	n := 0
	for _, c := range r.Calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

// Filter returns the recorded calls of op.
func (r *Recorder) Filter(op Op) []Call {
	var out []Call
	for _, c := range r.Calls {
		if c.Op == op {
			out = append(out, c)
		}
	}
	return out
}

func (r *Recorder) add(c Call) { r.Calls = append(r.Calls, c) }

func (r *Recorder) Size() (w, h int) { return r.W, r.H }

func (r *Recorder) FillRect(x, y, w, h float64, c color.NRGBA) {
	r.add(Call{Op: OpFillRect, Args: []float64{x, y, w, h}, Color: c})
}

func (r *Recorder) StrokeLine(x0, y0, x1, y1, width float64, c color.NRGBA) {
	r.add(Call{Op: OpStrokeLine, Args: []float64{x0, y0, x1, y1, width}, Color: c})
}

func (r *Recorder) FillCircle(x, y, radius float64, c color.NRGBA) {
	r.add(Call{Op: OpFillCircle, Args: []float64{x, y, radius}, Color: c})
}

func (r *Recorder) StrokeCircle(x, y, radius, width float64, c color.NRGBA) {
	r.add(Call{Op: OpStrokeCircle, Args: []float64{x, y, radius, width}, Color: c})
}

func (r *Recorder) FillText(s string, x, y, size float64, align render.Align, c color.NRGBA) {
	r.add(Call{Op: OpFillText, Args: []float64{x, y, size}, Text: s, Align: align, Color: c})
}

func (r *Recorder) MeasureText(s string, size float64) float64 {
	return float64(len([]rune(s))) * r.CharWidth
}

func (r *Recorder) Clear() { r.add(Call{Op: OpClear}) }

func (r *Recorder) Snapshot() { r.add(Call{Op: OpSnapshot}) }

func (r *Recorder) DrawSnapshot(x, y, w, h float64) {
	r.add(Call{Op: OpDrawSnapshot, Args: []float64{x, y, w, h}})
}

var _ render.Surface = (*Recorder)(nil)
