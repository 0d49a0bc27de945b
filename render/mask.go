package render

import (
	"image/color"

	"github.com/pthm-cable/windmap/animator"
)

// MapMask keeps the base-map frame aligned with the pan/zoom transform.
type MapMask struct {
	animator.BaseObserver

	width, height float64
	rect          Rect
}

// NewMapMask returns a mask for a w×h base map at the identity transform.
func NewMapMask(w, h int) *MapMask {
	return &MapMask{
		width:  float64(w),
		height: float64(h),
		rect:   Rect{W: float64(w), H: float64(h)},
	}
}

// Rect returns where the base map currently sits.
func (m *MapMask) Rect() Rect { return m.rect }

func (m *MapMask) Move(a *animator.Animator) {
	m.rect = Rect{
		X: a.DX(),
		Y: a.DY(),
		W: float64(int(a.Scale() * m.width)),
		H: float64(int(a.Scale() * m.height)),
	}
}

func (m *MapMask) EndMove(a *animator.Animator) { m.Move(a) }

// Draw outlines the base-map frame.
func (m *MapMask) Draw(s Surface, width float64, c color.NRGBA) {
	r := m.rect
	s.StrokeLine(r.X, r.Y, r.X+r.W, r.Y, width, c)
	s.StrokeLine(r.X+r.W, r.Y, r.X+r.W, r.Y+r.H, width, c)
	s.StrokeLine(r.X+r.W, r.Y+r.H, r.X, r.Y+r.H, width, c)
	s.StrokeLine(r.X, r.Y+r.H, r.X, r.Y, width, c)
}
