package render

// Rect is an axis-aligned rectangle in screen pixels.
type Rect struct {
	X, Y, W, H float64
}

// Overlaps reports whether r and o intersect. Touching edges count.
func (r Rect) Overlaps(o Rect) bool {
	return !(r.X+r.W < o.X || r.X > o.X+o.W ||
		r.Y+r.H < o.Y || r.Y > o.Y+o.H)
}
