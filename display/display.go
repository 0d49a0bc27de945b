// Package display advects particles through a wind field and draws their
// fading, speed-colored trails.
package display

import (
	"image/color"
	"math"
	"math/rand"

	"github.com/mlange-42/ark/ecs"

	"github.com/pthm-cable/windmap/animator"
	"github.com/pthm-cable/windmap/field"
	"github.com/pthm-cable/windmap/geom"
	"github.com/pthm-cable/windmap/projection"
	"github.com/pthm-cable/windmap/render"
)

// Options tunes the particle engine.
type Options struct {
	Particles   int
	SpeedScale  float64 // multiplier on the base advection factor
	SpeedFactor float64 // base advection factor, degrees per unit speed per tick
	SpawnTries  int     // rejected spawn attempts before a point is forced
	MaxAge      int     // ages are drawn from [1, MaxAge]
	LineWidth   float64

	Background color.NRGBA
	FadeAlpha  float64 // alpha of the per-frame background overpaint
	Outside    color.NRGBA

	ResetScale float64 // below this scale the viewport is the whole field
	TopMargin  float64 // fraction of the canvas height added above and left of the view
}

// DefaultOptions returns the map display settings.
func DefaultOptions() Options {
	return Options{
		Particles:   5000,
		SpeedScale:  0.5,
		SpeedFactor: 0.01,
		SpawnTries:  10,
		MaxAge:      40,
		LineWidth:   0.75,
		Background:  render.RGB(40, 40, 40),
		FadeAlpha:   0.02,
		Outside:     render.RGB(255, 255, 255),
		ResetScale:  1.1,
		TopMargin:   0.2,
	}
}

// Counter counts events. Prometheus counters satisfy it.
type Counter interface {
	Add(float64)
}

// Display is the particle engine for one surface. The particle pool lives in
// an ECS world with one entity per particle; entities are recycled in place.
type Display struct {
	animator.BaseObserver

	surface render.Surface
	field   field.Sampler
	proj    projection.Projector
	ramp    *render.Ramp
	opts    Options
	rng     *rand.Rand

	maxLength float64
	viewport  field.Bounds
	first     bool

	world     *ecs.World
	pool      *ecs.Map3[GeoPos, Trail, Life]
	particles *ecs.Filter3[GeoPos, Trail, Life]

	respawns Counter
}

// New creates a display drawing f onto s through p. Particles are seeded at
// the identity transform.
func New(s render.Surface, f field.Sampler, p projection.Projector, ramp *render.Ramp, opts Options, seed int64) *Display {
	world := ecs.NewWorld()
	d := &Display{
		surface:   s,
		field:     f,
		proj:      p,
		ramp:      ramp,
		opts:      opts,
		rng:       rand.New(rand.NewSource(seed)),
		maxLength: f.MaxLength(),
		viewport:  f.Bounds(),
		first:     true,
		world:     world,
		pool:      ecs.NewMap3[GeoPos, Trail, Life](world),
		particles: ecs.NewFilter3[GeoPos, Trail, Life](world),
	}

	t := projection.IdentityTransform
	for i := 0; i < opts.Particles; i++ {
		pos, life := d.spawn(t)
		trail := Trail{}
		d.pool.NewEntity(&pos, &trail, &life)
	}
	return d
}

// SetMaxLength overrides the speed that maps to the top of the color scale.
func (d *Display) SetMaxLength(m float64) { d.maxLength = m }

// SetRespawnCounter reports every particle respawn to c.
func (d *Display) SetRespawnCounter(c Counter) { d.respawns = c }

// Viewport returns the geographic box new particles are drawn from.
func (d *Display) Viewport() field.Bounds { return d.viewport }

// Particles returns a copy of every particle's state.
func (d *Display) Particles() []Particle {
	out := make([]Particle, 0, d.opts.Particles)
	query := d.particles.Query()
	for query.Next() {
		pos, trail, life := query.Get()
		out = append(out, Particle{Pos: *pos, Trail: *trail, Life: *life})
	}
	return out
}

// spawn picks a new particle position by rejection sampling inside the
// viewport, biased toward slow air. Every rejected attempt counts toward
// SpawnTries, after which the next candidate is taken as is.
func (d *Display) spawn(t projection.Transform) (GeoPos, Life) {
	vp := d.viewport
	maxLength := d.field.MaxLength()
	w, h := d.surface.Size()

	for tries := 0; ; tries++ {
		force := tries >= d.opts.SpawnTries

		a := d.rng.Float64()
		b := d.rng.Float64()
		x := a*vp.X0 + (1-a)*vp.X1
		y := b*vp.Y0 + (1-b)*vp.Y1

		if !d.field.InBounds(x, y) {
			if force {
				return d.newParticle(x, y)
			}
			continue
		}
		if maxLength == 0 {
			return d.newParticle(x, y)
		}

		v := d.field.Value(x, y)
		m := v.Length() / maxLength
		if !force && (v.IsZero() || d.rng.Float64() <= m*0.9) {
			continue
		}

		s := t.ToScreen(d.proj, x, y)
		if force || projection.OnCanvas(s, float64(w), float64(h)) {
			return d.newParticle(x, y)
		}
	}
}

func (d *Display) newParticle(x, y float64) (GeoPos, Life) {
	return GeoPos{X: x, Y: y}, Life{
		Age:  1 + int(float64(d.opts.MaxAge)*d.rng.Float64()),
		Seed: d.rng.Float64(),
	}
}

// regenerate respawns every particle.
func (d *Display) regenerate(t projection.Transform) {
	query := d.particles.Query()
	n := 0
	for query.Next() {
		pos, trail, life := query.Get()
		*pos, *life = d.spawn(t)
		*trail = Trail{}
		n++
	}
	d.countRespawns(n)
}

func (d *Display) countRespawns(n int) {
	if d.respawns != nil && n > 0 {
		d.respawns.Add(float64(n))
	}
}

// Animate advances and draws one frame.
func (d *Display) Animate(a *animator.Animator) {
	t := a.Transform()
	d.advect(t)
	d.draw(t)
}

// advect moves live particles along the field and respawns the rest. The step
// is divided by the zoom scale so on-screen speed stays constant.
func (d *Display) advect(t projection.Transform) {
	speed := d.opts.SpeedFactor * d.opts.SpeedScale / t.Scale
	respawned := 0

	query := d.particles.Query()
	for query.Next() {
		pos, trail, life := query.Get()
		if life.Age > 0 && d.field.InBounds(pos.X, pos.Y) {
			v := d.field.Value(pos.X, pos.Y)
			pos.X += speed * v.X
			pos.Y += speed * v.Y
			life.Age--
			continue
		}
		*pos, *life = d.spawn(t)
		*trail = Trail{}
		respawned++
	}
	d.countRespawns(respawned)
}

func (d *Display) draw(t projection.Transform) {
	w, h := d.surface.Size()
	fw, fh := float64(w), float64(h)

	bg := d.opts.Background
	if d.first {
		d.first = false
	} else {
		bg = render.WithAlpha(bg, d.opts.FadeAlpha)
	}
	d.surface.FillRect(t.DX, t.DY, fw*t.Scale, fh*t.Scale, bg)

	query := d.particles.Query()
	for query.Next() {
		pos, trail, life := query.Get()
		if !d.field.InBounds(pos.X, pos.Y) {
			life.Age = -2
			continue
		}
		s := t.ToScreen(d.proj, pos.X, pos.Y)
		if !projection.OnCanvas(s, fw, fh) {
			life.Age = -2
			continue
		}
		if trail.Valid {
			c := d.ramp.At(render.SpeedIndex(d.speedFraction(d.field.Value(pos.X, pos.Y))))
			d.surface.StrokeLine(s.X, s.Y, trail.X, trail.Y, d.opts.LineWidth, c)
		}
		*trail = Trail{X: s.X, Y: s.Y, Valid: true}
	}
}

func (d *Display) speedFraction(v geom.Vector) float64 {
	if d.maxLength == 0 {
		return 0
	}
	return v.Length() / d.maxLength
}

// StartMove keeps the current frame as the drag backdrop.
func (d *Display) StartMove(a *animator.Animator) {
	d.surface.Snapshot()
}

// Move redraws the backdrop under the in-progress transform.
func (d *Display) Move(a *animator.Animator) {
	w, h := d.surface.Size()
	fw, fh := float64(w), float64(h)
	t := a.Transform()
	start := a.StartTransform()

	d.surface.FillRect(0, 0, fw, fh, d.opts.Outside)
	d.surface.FillRect(t.DX, t.DY, fw*t.Scale, fh*t.Scale, d.opts.Background)

	z := a.RelativeZoom()
	d.surface.DrawSnapshot(t.DX-z*start.DX, t.DY-z*start.DY, z*fw, z*fh)
}

// EndMove recomputes the viewport for the settled transform and respawns
// every particle inside it.
func (d *Display) EndMove(a *animator.Animator) {
	t := a.Transform()
	d.viewport = d.visibleBounds(t)
	d.regenerate(t)
}

// visibleBounds returns the geographic box under the screen at t, clipped to
// the field. Near the unzoomed view it is the whole field.
func (d *Display) visibleBounds(t projection.Transform) field.Bounds {
	fb := d.field.Bounds()
	if t.Scale < d.opts.ResetScale {
		return fb
	}

	w, h := d.surface.Size()
	fw, fh := float64(w), float64(h)
	top := -d.opts.TopMargin * fh

	loc := t.FromScreen(d.proj, 0, 0)
	b := field.Bounds{X0: loc.X, Y0: loc.Y, X1: loc.X, Y1: loc.Y}
	for _, p := range [][2]float64{{top, fh}, {fw, top}, {fw, fh}} {
		v := t.FromScreen(d.proj, p[0], p[1])
		b.X0 = math.Min(b.X0, v.X)
		b.X1 = math.Max(b.X1, v.X)
		b.Y0 = math.Min(b.Y0, v.Y)
		b.Y1 = math.Max(b.Y1, v.Y)
	}
	return b.Intersect(fb)
}
