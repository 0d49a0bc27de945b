package animator

// Observer receives Animator notifications. Embed BaseObserver to implement
// only the events a component cares about.
type Observer interface {
	StartMove(a *Animator)
	Move(a *Animator)
	EndMove(a *Animator)
	Animate(a *Animator)
	Hover(a *Animator)
}

// BaseObserver implements every Observer method as a no-op.
type BaseObserver struct{}

func (BaseObserver) StartMove(*Animator) {}
func (BaseObserver) Move(*Animator)      {}
func (BaseObserver) EndMove(*Animator)   {}
func (BaseObserver) Animate(*Animator)   {}
func (BaseObserver) Hover(*Animator)     {}

// dispatch delivers e to o.
func dispatch(o Observer, e Event, a *Animator) {
	switch e {
	case EventStartMove:
		o.StartMove(a)
	case EventMove:
		o.Move(a)
	case EventEndMove:
		o.EndMove(a)
	case EventAnimate:
		o.Animate(a)
	case EventHover:
		o.Hover(a)
	}
}
