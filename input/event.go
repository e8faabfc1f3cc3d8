package input

import "fmt"

// Kind identifies a normalized pointer event.
type Kind int

const (
	Down Kind = iota
	Move
	Up
	Leave
)

func (k Kind) String() string {
	switch k {
	case Down:
		return "down"
	case Move:
		return "move"
	case Up:
		return "up"
	case Leave:
		return "leave"
	default:
		return "unknown"
	}
}

// Event is a pointer event in surface pixel coordinates.
type Event struct {
	Kind Kind
	X, Y int
}

func (e Event) String() string { return fmt.Sprintf("%s(%d,%d)", e.Kind, e.X, e.Y) }

// Handler consumes pointer events.
type Handler interface {
	Handle(Event)
}

// Queue buffers events until they are drained, preserving arrival order.
type Queue struct {
	events []Event
}

func (q *Queue) Push(ev ...Event) { q.events = append(q.events, ev...) }

func (q *Queue) Len() int { return len(q.events) }

// Drain delivers every queued event to h and empties the queue. Events
// pushed by h while draining are delivered in the same call.
func (q *Queue) Drain(h Handler) int {
	n := 0
	for len(q.events) > 0 {
		ev := q.events[0]
		q.events = q.events[1:]
		h.Handle(ev)
		n++
	}
	q.events = q.events[:0]
	return n
}
