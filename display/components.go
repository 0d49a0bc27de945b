package display

// GeoPos is a particle's geographic position (longitude, latitude).
type GeoPos struct {
	X, Y float64
}

// Trail is the screen position a particle was last drawn at. Valid is false
// after a respawn so no segment joins the old and new positions.
type Trail struct {
	X, Y  float64
	Valid bool
}

// Life is a particle's remaining age in ticks and its per-particle seed.
type Life struct {
	Age  int
	Seed float64
}

// Particle is a copy of one particle's state.
type Particle struct {
	Pos   GeoPos
	Trail Trail
	Life  Life
}
