package animator

// State is the interaction state of an Animator.
type State int

const (
	StateAnimate State = iota
	StateMouseDown
	StatePan
	StateZoom
)

func (s State) String() string {
	switch s {
	case StateAnimate:
		return "animate"
	case StateMouseDown:
		return "mouse-down"
	case StatePan:
		return "pan"
	case StateZoom:
		return "zoom"
	}
	return "unknown"
}

// Event names a notification delivered to observers.
type Event int

const (
	EventStartMove Event = iota
	EventMove
	EventEndMove
	EventAnimate
	EventHover
)

func (e Event) String() string {
	switch e {
	case EventStartMove:
		return "startMove"
	case EventMove:
		return "move"
	case EventEndMove:
		return "endMove"
	case EventAnimate:
		return "animate"
	case EventHover:
		return "hover"
	}
	return "unknown"
}
