// Package projection maps geographic coordinates (degrees) to planar and
// screen coordinates and back.
package projection

import (
	"math"

	"github.com/pthm-cable/windmap/geom"
)

// Projector is an invertible mapping between (lon, lat) and the plane.
type Projector interface {
	Project(lon, lat float64) geom.Vector
	Invert(x, y float64) geom.Vector
}

// Identity passes coordinates through unchanged.
type Identity struct{}

// Project returns (x, y) as given.
func (Identity) Project(x, y float64) geom.Vector { return geom.Vector{X: x, Y: y} }

// Invert returns (x, y) as given.
func (Identity) Invert(x, y float64) geom.Vector { return geom.Vector{X: x, Y: y} }

// AlbersParams fixes an Albers conic equal-area projection. All values are degrees.
type AlbersParams struct {
	Parallel1       float64
	Parallel2       float64
	OriginLat       float64
	CentralMeridian float64
}

// Albers is the conic equal-area projection on the unit sphere.
type Albers struct {
	n       float64 // cone constant
	c       float64
	rho0    float64
	lambda0 float64
}

// NewAlbers derives the projection constants from the standard parallels.
func NewAlbers(p AlbersParams) *Albers {
	phi1 := radians(p.Parallel1)
	phi2 := radians(p.Parallel2)
	n := (math.Sin(phi1) + math.Sin(phi2)) / 2
	c := math.Cos(phi1)*math.Cos(phi1) + 2*n*math.Sin(phi1)
	rho0 := math.Sqrt(c-2*n*math.Sin(radians(p.OriginLat))) / n
	return &Albers{
		n:       n,
		c:       c,
		rho0:    rho0,
		lambda0: radians(p.CentralMeridian),
	}
}

// Project converts (lon, lat) in degrees to planar coordinates.
func (a *Albers) Project(lon, lat float64) geom.Vector {
	theta := a.n * (radians(lon) - a.lambda0)
	rho := math.Sqrt(a.c-2*a.n*math.Sin(radians(lat))) / a.n
	return geom.Vector{
		X: rho * math.Sin(theta),
		Y: a.rho0 - rho*math.Cos(theta),
	}
}

// Invert converts planar coordinates back to (lon, lat) in degrees.
// The result is an exact algebraic inverse of Project.
func (a *Albers) Invert(x, y float64) geom.Vector {
	dy := a.rho0 - y
	rho2 := x*x + dy*dy
	var theta float64
	if a.n < 0 {
		theta = math.Atan2(-x, -dy)
	} else {
		theta = math.Atan2(x, dy)
	}
	lon := a.lambda0 + theta/a.n
	lat := math.Asin((a.c/a.n - rho2*a.n) / 2)
	return geom.Vector{X: degrees(lon), Y: degrees(lat)}
}

// Scaled places a base projection in pixel space: the south-west corner of
// the region maps to the offset, x grows east and y grows south.
type Scaled struct {
	base     Projector
	scale    float64
	offsetX  float64
	offsetY  float64
	swCorner geom.Vector
}

// NewScaled wraps base with a pixel scale and offset anchored at (lonMin, latMin).
func NewScaled(base Projector, scale, offsetX, offsetY, lonMin, latMin float64) *Scaled {
	return &Scaled{
		base:     base,
		scale:    scale,
		offsetX:  offsetX,
		offsetY:  offsetY,
		swCorner: base.Project(lonMin, latMin),
	}
}

// Project converts (lon, lat) to pixel coordinates.
func (s *Scaled) Project(lon, lat float64) geom.Vector {
	p := s.base.Project(lon, lat)
	return geom.Vector{
		X: s.scale*(p.X-s.swCorner.X) + s.offsetX,
		Y: -s.scale*(p.Y-s.swCorner.Y) + s.offsetY,
	}
}

// Invert converts pixel coordinates back to (lon, lat).
func (s *Scaled) Invert(x, y float64) geom.Vector {
	a := (x-s.offsetX)/s.scale + s.swCorner.X
	b := (y-s.offsetY)/-s.scale + s.swCorner.Y
	return s.base.Invert(a, b)
}

func radians(deg float64) float64 { return math.Pi * deg / 180 }

func degrees(rad float64) float64 { return rad * 180 / math.Pi }
