// Package geom provides the 2D vector type shared by the field, projection
// and particle packages.
package geom

import "math"

// Vector is a 2D value type. Methods never mutate the receiver.
type Vector struct {
	X, Y float64
}

// Polar builds a vector of length r pointing at angle theta (radians).
func Polar(r, theta float64) Vector {
	return Vector{X: r * math.Cos(theta), Y: r * math.Sin(theta)}
}

// Length returns the Euclidean norm.
func (v Vector) Length() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

// SetLength returns v rescaled to the given length.
// A zero vector is returned unchanged.
func (v Vector) SetLength(length float64) Vector {
	current := v.Length()
	if current == 0 {
		return v
	}
	scale := length / current
	return Vector{X: v.X * scale, Y: v.Y * scale}
}

// Angle returns the direction of v in radians.
func (v Vector) Angle() float64 {
	return math.Atan2(v.Y, v.X)
}

// SetAngle returns a vector with v's length pointing at theta.
func (v Vector) SetAngle(theta float64) Vector {
	return Polar(v.Length(), theta)
}

// Distance returns the Euclidean distance between v and o.
func (v Vector) Distance(o Vector) float64 {
	dx := o.X - v.X
	dy := o.Y - v.Y
	return math.Sqrt(dx*dx + dy*dy)
}

// Scale multiplies both components by k.
func (v Vector) Scale(k float64) Vector {
	return Vector{X: v.X * k, Y: v.Y * k}
}

// IsZero reports whether both components are zero.
func (v Vector) IsZero() bool {
	return v.X == 0 && v.Y == 0
}
