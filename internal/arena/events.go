package arena

// EventKind identifies a discrete simulation event.
type EventKind int

const (
	// EventDamaged is emitted when a collision drains one strength point.
	EventDamaged EventKind = iota
	// EventDestroyed is emitted when a spent ball is reaped from the arena.
	EventDestroyed
)

// Event is a discrete occurrence produced by one tick. The simulation
// never calls into presentation code; audio and rendering collaborators
// consume these instead.
type Event struct {
	Kind EventKind
	ID   int
}

// String returns a readable name for logging.
func (k EventKind) String() string {
	switch k {
	case EventDamaged:
		return "damaged"
	case EventDestroyed:
		return "destroyed"
	default:
		return "unknown"
	}
}
