// Package animator turns pointer input into pan and eased zoom transitions
// and notifies observers on a fixed tick.
//
// An Animator is not safe for concurrent use. Pointer events and Step must be
// called from the same goroutine.
package animator

import (
	"math"

	"github.com/pthm-cable/windmap/projection"
)

// resetEpsilon is how far from identity the transform must be before the
// reset control is offered.
const resetEpsilon = 0.001

// Options tunes the interaction constants.
type Options struct {
	DragThreshold float64 // |dx|+|dy| in pixels before a press becomes a pan
	ZoomFactor    float64 // scale multiplier for click-to-zoom
	ZoomStep      float64 // progress added per zoom tick
}

// DefaultOptions returns the stock interaction constants.
func DefaultOptions() Options {
	return Options{DragThreshold: 2, ZoomFactor: 1.7, ZoomStep: 0.07}
}

// Animator holds the pan/zoom transform and the interaction state machine.
type Animator struct {
	opts      Options
	observers []Observer

	// Gate, when set, is consulted on every notification. Returning false
	// suppresses delivery.
	Gate func() bool
	// OnResetVisible, when set, is told on every notification whether the
	// transform differs from identity.
	OnResetVisible func(visible bool)

	state     State
	mouseDown bool
	mouseX    float64
	mouseY    float64
	landingX  float64
	landingY  float64

	dx, dy, scale             float64
	dxStart, dyStart          float64
	scaleStart                float64
	dxTarget, dyTarget        float64
	scaleTarget, zoomProgress float64
}

// New creates an Animator at the identity transform in the animate state.
func New(opts Options) *Animator {
	return &Animator{
		opts:        opts,
		state:       StateAnimate,
		mouseX:      -1,
		mouseY:      -1,
		scale:       1,
		scaleStart:  1,
		scaleTarget: 1,
	}
}

// Add attaches an observer. Observers are notified in the order added.
func (a *Animator) Add(o Observer) {
	a.observers = append(a.observers, o)
}

// State returns the current interaction state.
func (a *Animator) State() State { return a.state }

// DX returns the horizontal pan offset in pixels.
func (a *Animator) DX() float64 { return a.dx }

// DY returns the vertical pan offset in pixels.
func (a *Animator) DY() float64 { return a.dy }

// Scale returns the current zoom scale.
func (a *Animator) Scale() float64 { return a.scale }

// Transform returns the current pan/zoom.
func (a *Animator) Transform() projection.Transform {
	return projection.Transform{DX: a.dx, DY: a.dy, Scale: a.scale}
}

// StartTransform returns the transform in effect when the current move began.
func (a *Animator) StartTransform() projection.Transform {
	return projection.Transform{DX: a.dxStart, DY: a.dyStart, Scale: a.scaleStart}
}

// TargetTransform returns the destination of the current zoom.
func (a *Animator) TargetTransform() projection.Transform {
	return projection.Transform{DX: a.dxTarget, DY: a.dyTarget, Scale: a.scaleTarget}
}

// ZoomProgress returns the zoom progress fraction in [0, 1].
func (a *Animator) ZoomProgress() float64 { return a.zoomProgress }

// Pointer returns the last known pointer position.
func (a *Animator) Pointer() (x, y float64) { return a.mouseX, a.mouseY }

// MouseIsDown reports whether a button is held.
func (a *Animator) MouseIsDown() bool { return a.mouseDown }

// RelativeZoom is the scale relative to the start of the current move.
func (a *Animator) RelativeZoom() float64 { return a.scale / a.scaleStart }

// RelativeDX is the horizontal offset relative to the start of the current move.
func (a *Animator) RelativeDX() float64 { return a.dx - a.dxStart }

// RelativeDY is the vertical offset relative to the start of the current move.
func (a *Animator) RelativeDY() float64 { return a.dy - a.dyStart }

// ResetVisible reports whether the transform differs from identity.
func (a *Animator) ResetVisible() bool {
	return math.Abs(a.scale-1) > resetEpsilon || math.Abs(a.dx) > resetEpsilon || math.Abs(a.dy) > resetEpsilon
}

// MouseDown handles a pointer press at (x, y).
func (a *Animator) MouseDown(x, y float64) {
	a.mouseX, a.mouseY = x, y
	a.state = StateMouseDown
	a.notify(EventStartMove)
	a.landingX, a.landingY = x, y
	a.dxStart, a.dyStart = a.dx, a.dy
	a.scaleStart = a.scale
	a.mouseDown = true
}

// MouseMove handles pointer motion to (x, y).
func (a *Animator) MouseMove(x, y float64) {
	a.mouseX, a.mouseY = x, y
	if !a.mouseDown {
		a.notify(EventHover)
		return
	}
	ddx := x - a.landingX
	ddy := y - a.landingY
	if math.Abs(ddx)+math.Abs(ddy) > a.opts.DragThreshold || a.state == StatePan {
		a.state = StatePan
		a.dx += ddx
		a.dy += ddy
		a.landingX, a.landingY = x, y
		a.notify(EventMove)
	}
}

// MouseUp handles a pointer release at (x, y). A release that never became a
// pan is a click and zooms in around (x, y).
func (a *Animator) MouseUp(x, y float64) {
	a.mouseX, a.mouseY = x, y
	a.mouseDown = false
	if a.state == StatePan {
		a.state = StateAnimate
		a.notify(EventEndMove)
		return
	}
	a.ZoomClick(x, y)
}

// ZoomClick zooms in by the zoom factor keeping screen point (x, y) fixed.
func (a *Animator) ZoomClick(x, y float64) {
	z := a.opts.ZoomFactor
	a.Zoom(x-z*(x-a.dx), y-z*(y-a.dy), z*a.scale)
}

// Unzoom animates back to the identity transform.
func (a *Animator) Unzoom() {
	a.Zoom(0, 0, 1)
}

// Zoom starts an eased transition to the given transform. A zoom already in
// progress is abandoned.
func (a *Animator) Zoom(dx, dy, scale float64) {
	a.state = StateZoom
	a.zoomProgress = 0
	a.scaleStart = a.scale
	a.scaleTarget = scale
	a.dxTarget, a.dyTarget = dx, dy
	a.dxStart, a.dyStart = a.dx, a.dy
	a.notify(EventStartMove)
}

// Ease maps zoom progress to the weight of the start value:
// 1 at progress 0, 0 at progress 1.
func Ease(progress float64) float64 {
	return (1 + math.Cos(math.Pi*progress)) / 2
}

// Step runs one animation tick.
func (a *Animator) Step() {
	switch a.state {
	case StateMouseDown, StatePan:
		return
	case StateAnimate:
		a.notify(EventAnimate)
	case StateZoom:
		a.zoomProgress = math.Min(1, a.zoomProgress+a.opts.ZoomStep)
		u := Ease(a.zoomProgress)
		lerp := func(start, target float64) float64 {
			return u*start + (1-u)*target
		}
		a.scale = lerp(a.scaleStart, a.scaleTarget)
		a.dx = lerp(a.dxStart, a.dxTarget)
		a.dy = lerp(a.dyStart, a.dyTarget)

		if a.zoomProgress < 1 {
			a.notify(EventMove)
			return
		}
		a.state = StateAnimate
		a.notify(EventEndMove)
	}
}

func (a *Animator) notify(e Event) {
	if a.OnResetVisible != nil {
		a.OnResetVisible(a.ResetVisible())
	}
	if a.Gate != nil && !a.Gate() {
		return
	}
	for _, o := range a.observers {
		dispatch(o, e, a)
	}
}
