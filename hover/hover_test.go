package hover

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/pthm-cable/windmap/animator"
	"github.com/pthm-cable/windmap/field"
	"github.com/pthm-cable/windmap/projection"
	"github.com/pthm-cable/windmap/render/rendertest"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestDetails(f field.Sampler) (*Details, *fakeClock) {
	clock := &fakeClock{t: time.Unix(1000, 0)}
	d := New(f, projection.Identity{}, 200*time.Millisecond, 0)
	d.now = clock.now
	d.moveTime = clock.now()
	return d, clock
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{0, "0.0"},
		{12.34, "12.3"},
		{0.96, "1.0"},
		{22.3693629, "22.4"},
		{7, "7.0"},
	}
	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMinutes(t *testing.T) {
	tests := []struct {
		in   float64
		want string
	}{
		{38, "38° 00'"},
		{38.0833333, "38° 05'"},
		{97.5, "97° 30'"},
		{37.999, "38° 00'"},
		{101.26, "101° 16'"},
	}
	for _, tt := range tests {
		if got := Minutes(tt.in); got != tt.want {
			t.Errorf("Minutes(%v) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestReadoutLines(t *testing.T) {
	r := Readout{Lon: -97.5, Lat: 38.0833333, SpeedMPH: 12.34}
	want := []string{"12.3 mph wind speed", "38° 05' N, 97° 30' W", "click to zoom"}
	got := r.Lines()
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("line %d: got %q, want %q", i, got[i], want[i])
		}
	}
}

func TestCalloutAfterDwell(t *testing.T) {
	f := field.NewConstant(3, 4, field.Bounds{X1: 100, Y1: 100})
	d, clock := newTestDetails(f)
	a := animator.New(animator.DefaultOptions())
	a.Add(d)

	a.MouseMove(50, 40)
	a.Step()
	if _, alpha := d.Update(); alpha != 0 {
		t.Fatalf("expected hidden before dwell, alpha %f", alpha)
	}

	clock.advance(150 * time.Millisecond)
	a.Step()
	if _, alpha := d.Update(); alpha != 0 {
		t.Fatalf("expected hidden at 150ms, alpha %f", alpha)
	}

	clock.advance(100 * time.Millisecond)
	a.Step()
	r, alpha := d.Update()
	if alpha != 1 {
		t.Fatalf("expected callout shown after dwell, alpha %f", alpha)
	}
	if math.Abs(r.SpeedMPH-5*2.23693629) > 1e-9 {
		t.Errorf("expected 5 m/s in mph, got %f", r.SpeedMPH)
	}
	if r.Lon != 50 || r.Lat != 40 {
		t.Errorf("unexpected location (%f, %f)", r.Lon, r.Lat)
	}

	a.MouseMove(51, 40)
	a.Step()
	if _, alpha := d.Update(); alpha != 0 {
		t.Errorf("expected callout hidden after the pointer moves, alpha %f", alpha)
	}
}

func TestNoCalloutOverStillAir(t *testing.T) {
	f := field.NewConstant(0, 0, field.Bounds{X1: 100, Y1: 100})
	d, clock := newTestDetails(f)
	a := animator.New(animator.DefaultOptions())
	a.Add(d)

	a.MouseMove(10, 10)
	a.Step()
	clock.advance(time.Second)
	if _, alpha := d.Update(); alpha != 0 {
		t.Errorf("expected no callout over still air, alpha %f", alpha)
	}
}

func TestNoCalloutOutsideField(t *testing.T) {
	f := field.NewConstant(1, 0, field.Bounds{X1: 100, Y1: 100})
	d, clock := newTestDetails(f)

	r := d.Sample(projection.IdentityTransform, 150, 10)
	if r.SpeedMPH != 0 {
		t.Errorf("expected zero speed outside the field, got %f", r.SpeedMPH)
	}

	a := animator.New(animator.DefaultOptions())
	a.Add(d)
	a.MouseMove(150, 10)
	a.Step()
	clock.advance(time.Second)
	if _, alpha := d.Update(); alpha != 0 {
		t.Errorf("expected no callout outside the field, alpha %f", alpha)
	}
}

func TestSampleUsesZoomTransform(t *testing.T) {
	f := field.NewConstant(1, 0, field.Bounds{X1: 100, Y1: 100})
	d, _ := newTestDetails(f)

	tr := projection.Transform{DX: -50, DY: -20, Scale: 2}
	r := d.Sample(tr, 50, 40)
	if r.Lon != 50 || r.Lat != 30 {
		t.Errorf("expected (50, 30), got (%f, %f)", r.Lon, r.Lat)
	}
}

func TestLeaveHides(t *testing.T) {
	f := field.NewConstant(1, 0, field.Bounds{X1: 100, Y1: 100})
	d, clock := newTestDetails(f)
	a := animator.New(animator.DefaultOptions())
	a.Add(d)

	a.MouseMove(10, 10)
	a.Step()
	clock.advance(time.Second)
	if _, alpha := d.Update(); alpha == 0 {
		t.Fatal("expected callout shown")
	}
	d.Leave()
	clock.advance(time.Second)
	if _, alpha := d.Update(); alpha != 0 {
		t.Errorf("expected callout hidden after leaving, alpha %f", alpha)
	}
}

func TestFadeIn(t *testing.T) {
	f := field.NewConstant(1, 0, field.Bounds{X1: 100, Y1: 100})
	d, clock := newTestDetails(f)
	d.fade = 400 * time.Millisecond
	a := animator.New(animator.DefaultOptions())
	a.Add(d)

	a.MouseMove(10, 10)
	a.Step()
	clock.advance(250 * time.Millisecond)
	if _, alpha := d.Update(); alpha != 0 {
		t.Fatalf("expected alpha 0 on the first shown frame, got %f", alpha)
	}
	clock.advance(200 * time.Millisecond)
	if _, alpha := d.Update(); math.Abs(alpha-0.5) > 1e-9 {
		t.Errorf("expected alpha 0.5 halfway through the fade, got %f", alpha)
	}
}

func TestDraw(t *testing.T) {
	rec := rendertest.New(300, 200)
	r := Readout{X: 40, Y: 30, Lon: -97, Lat: 38, SpeedMPH: 10}

	Draw(rec, r, 0, 12)
	if len(rec.Calls) != 0 {
		t.Fatalf("expected nothing drawn at alpha 0, got %d calls", len(rec.Calls))
	}

	Draw(rec, r, 1, 12)
	texts := rec.Filter(rendertest.OpFillText)
	if len(texts) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(texts))
	}
	if !strings.HasPrefix(texts[0].Text, "10.0 mph") {
		t.Errorf("unexpected first line %q", texts[0].Text)
	}
	box := rec.Filter(rendertest.OpFillRect)
	if len(box) != 1 || box[0].Args[0] != 60 {
		t.Errorf("expected box at x=60, got %+v", box)
	}
}

func TestSummary(t *testing.T) {
	desc := field.Synthetic(3, 6, 5, field.Bounds{X0: -102, Y0: 37, X1: -94.6, Y1: 40}, 10)
	f, err := field.Read(desc, true)
	if err != nil {
		t.Fatalf("field.Read: %v", err)
	}
	lines := Summary(f)
	if len(lines) != 2 {
		t.Fatalf("expected top and average lines, got %v", lines)
	}
	if !strings.HasPrefix(lines[0], "top speed: ") || !strings.HasSuffix(lines[1], " mph") {
		t.Errorf("unexpected summary %v", lines)
	}
}

func TestDateline(t *testing.T) {
	day, tod := Dateline("1:05 pm on December 09, 2016")
	if day != "Dec. 9, 2016" || tod != "1:05 pm" {
		t.Errorf("got %q / %q", day, tod)
	}
	day, tod = Dateline("")
	if day != "unknown" || tod != "unknown" {
		t.Errorf("got %q / %q", day, tod)
	}
}
