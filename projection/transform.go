package projection

import "github.com/pthm-cable/windmap/geom"

// Transform is the pan/zoom applied on top of a projection:
// screen = scale*p + (DX, DY).
type Transform struct {
	DX, DY float64
	Scale  float64
}

// IdentityTransform is the unpanned, unzoomed view.
var IdentityTransform = Transform{Scale: 1}

// Apply maps a projected point to the screen.
func (t Transform) Apply(p geom.Vector) geom.Vector {
	return geom.Vector{X: p.X*t.Scale + t.DX, Y: p.Y*t.Scale + t.DY}
}

// Unapply maps a screen point back to projected coordinates.
func (t Transform) Unapply(x, y float64) geom.Vector {
	return geom.Vector{X: (x - t.DX) / t.Scale, Y: (y - t.DY) / t.Scale}
}

// ToScreen projects (lon, lat) and applies the transform.
func (t Transform) ToScreen(p Projector, lon, lat float64) geom.Vector {
	return t.Apply(p.Project(lon, lat))
}

// FromScreen reverses the transform and inverts the projection.
func (t Transform) FromScreen(p Projector, x, y float64) geom.Vector {
	q := t.Unapply(x, y)
	return p.Invert(q.X, q.Y)
}

// OnCanvas reports whether a screen point lies inside a w×h canvas (edges included).
func OnCanvas(s geom.Vector, w, h float64) bool {
	return !(s.X < 0 || s.Y < 0 || s.X > w || s.Y > h)
}
