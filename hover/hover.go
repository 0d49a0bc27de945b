// Package hover shows the wind speed and location under a resting pointer.
package hover

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/pthm-cable/windmap/animator"
	"github.com/pthm-cable/windmap/display"
	"github.com/pthm-cable/windmap/field"
	"github.com/pthm-cable/windmap/projection"
	"github.com/pthm-cable/windmap/render"
)

// Readout is what the callout reports for one pointer position.
type Readout struct {
	X, Y     float64 // pointer, screen pixels
	Lon, Lat float64
	SpeedMPH float64
}

// Lines returns the callout text.
func (r Readout) Lines() []string {
	return []string{
		Format(r.SpeedMPH) + " mph wind speed",
		Minutes(r.Lat) + " N, " + Minutes(-r.Lon) + " W",
		"click to zoom",
	}
}

// Details tracks the pointer and decides when the callout is shown. The
// callout appears once the pointer has rested for the dwell time over
// moving air.
type Details struct {
	animator.BaseObserver

	field field.Sampler
	proj  projection.Projector
	dwell time.Duration
	fade  time.Duration
	now   func() time.Time

	moveTime time.Time
	shownAt  time.Time
	readout  Readout
	ok       bool
	showing  bool
	hasLast  bool
	lastX    float64
	lastY    float64
}

// New returns a hover tracker over f drawn through p.
func New(f field.Sampler, p projection.Projector, dwell, fade time.Duration) *Details {
	return &Details{
		field:    f,
		proj:     p,
		dwell:    dwell,
		fade:     fade,
		now:      time.Now,
		moveTime: time.Now(),
	}
}

// Hover samples the field under the animator's pointer.
func (d *Details) Hover(a *animator.Animator) {
	x, y := a.Pointer()
	if d.hasLast && x == d.lastX && y == d.lastY {
		return
	}
	d.hasLast = true
	d.lastX, d.lastY = x, y
	d.moveTime = d.now()
	d.readout = d.Sample(a.Transform(), x, y)
	d.ok = d.readout.SpeedMPH != 0
}

// Sample reports the wind at screen point (x, y) under transform t.
func (d *Details) Sample(t projection.Transform, x, y float64) Readout {
	loc := t.FromScreen(d.proj, x, y)
	r := Readout{X: x, Y: y, Lon: loc.X, Lat: loc.Y}
	if d.field.InBounds(loc.X, loc.Y) {
		r.SpeedMPH = d.field.Value(loc.X, loc.Y).Length() * display.MPHPerMPS
	}
	return r
}

// Leave hides the callout when the pointer leaves the map.
func (d *Details) Leave() {
	d.moveTime = d.now()
	d.ok = false
}

// Update advances the show/hide state. It returns the readout and the
// callout's alpha, which is 0 while hidden.
func (d *Details) Update() (Readout, float64) {
	now := d.now()
	if now.Sub(d.moveTime) > d.dwell && d.ok {
		if !d.showing {
			d.showing = true
			d.shownAt = now
		}
	} else if d.showing {
		d.showing = false
	}

	if !d.showing {
		return d.readout, 0
	}
	if d.fade <= 0 {
		return d.readout, 1
	}
	return d.readout, math.Min(1, float64(now.Sub(d.shownAt))/float64(d.fade))
}

// Draw renders the callout to the right of the pointer.
func Draw(s render.Surface, r Readout, alpha, size float64) {
	if alpha <= 0 {
		return
	}
	lines := r.Lines()
	width := 0.0
	for _, l := range lines {
		width = math.Max(width, s.MeasureText(l, size))
	}
	pad := size / 2
	lineHeight := size * 1.4
	x := r.X + 20
	y := r.Y

	s.FillRect(x, y, width+2*pad, lineHeight*float64(len(lines))+2*pad, render.WithAlpha(render.RGB(255, 255, 255), 0.9*alpha))
	for i, l := range lines {
		s.FillText(l, x+pad, y+pad+lineHeight*float64(i+1)-0.3*size, size, render.AlignLeft, render.WithAlpha(render.RGB(0, 0, 0), alpha))
	}
}

// Summary returns the HUD lines for f: the top speed and the average speed
// in mph. The average line is omitted when it is undefined.
func Summary(f *field.Field) []string {
	lines := []string{"top speed: " + Format(f.MaxLength()*display.MPHPerMPS) + " mph"}
	if avg, ok := f.AverageLength(); ok {
		lines = append(lines, "average: "+Format(avg*display.MPHPerMPS)+" mph")
	}
	return lines
}

var monthAbbrev = strings.NewReplacer(
	"September", "Sept.",
	"November", "Nov.",
	"December", "Dec.",
)

// Dateline returns the HUD day and time for a field timestamp, with long
// month names shortened.
func Dateline(timestamp string) (day, timeOfDay string) {
	timeOfDay, day = field.SplitTimestamp(timestamp)
	return monthAbbrev.Replace(day), timeOfDay
}

// Format renders x with one decimal.
func Format(x float64) string {
	tenths := int(math.Round(x * 10))
	return fmt.Sprintf("%d.%d", tenths/10, tenths%10)
}

// Minutes renders a non-negative angle in whole degrees and minutes, rounded
// to the nearest minute: 38.0833 becomes 38° 05'.
func Minutes(x float64) string {
	total := int(math.Round(x * 60))
	return fmt.Sprintf("%d° %02d'", total/60, total%60)
}
