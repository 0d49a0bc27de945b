package display

import (
	"errors"
	"fmt"

	"github.com/pthm-cable/windmap/animator"
	"github.com/pthm-cable/windmap/field"
	"github.com/pthm-cable/windmap/projection"
	"github.com/pthm-cable/windmap/render"
)

// MPHPerMPS converts meters per second to miles per hour.
const MPHPerMPS = 2.23693629

// legendSpeedFactor exaggerates legend speeds so the small panels show motion.
const legendSpeedFactor = 10 * MPHPerMPS

var ErrLegendPanels = errors.New("display: one surface per legend speed required")

// Legend animates one small panel per sample wind speed, colored on the same
// scale as the main map.
type Legend struct {
	animator.BaseObserver

	SpeedsMPH []float64
	Panels    []*Display
}

// NewLegend builds a panel on each surface. fieldMax is the main field's
// maximum speed in field units.
func NewLegend(surfaces []render.Surface, speedsMPH []float64, fieldMax float64, ramp *render.Ramp, opts Options, seed int64) (*Legend, error) {
	if len(surfaces) != len(speedsMPH) {
		return nil, fmt.Errorf("%w: %d surfaces for %d speeds", ErrLegendPanels, len(surfaces), len(speedsMPH))
	}

	l := &Legend{SpeedsMPH: speedsMPH}
	for i, s := range surfaces {
		w, h := s.Size()
		mps := speedsMPH[i] / MPHPerMPS
		f := field.NewConstant(mps*legendSpeedFactor, 0, field.Bounds{X1: float64(w), Y1: float64(h)})

		d := New(s, f, projection.Identity{}, ramp, opts, seed+int64(i))
		d.SetMaxLength(fieldMax * legendSpeedFactor)
		l.Panels = append(l.Panels, d)
	}
	return l, nil
}

// Animate advances every panel.
func (l *Legend) Animate(a *animator.Animator) {
	for _, d := range l.Panels {
		d.Animate(a)
	}
}
