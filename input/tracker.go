package input

// Tracker turns polled mouse state into pointer events. Positions are
// canvas-local; inside reports whether the cursor is over the canvas.
type Tracker struct {
	prevPressed bool
	prevInside  bool
	lastX       int
	lastY       int
}

// Sample compares the current state with the previous sample.
func (t *Tracker) Sample(x, y int, pressed, inside bool) []Event {
	var out []Event
	moved := x != t.lastX || y != t.lastY

	switch {
	case pressed && !t.prevPressed:
		if inside {
			out = append(out, Event{Kind: Down, X: x, Y: y})
		}
	case pressed && t.prevPressed:
		if inside && moved {
			out = append(out, Event{Kind: Move, X: x, Y: y})
		}
	case !pressed && t.prevPressed:
		out = append(out, Event{Kind: Up, X: x, Y: y})
	}

	if t.prevInside && !inside {
		out = append(out, Event{Kind: Leave, X: x, Y: y})
	}

	t.prevPressed = pressed
	t.prevInside = inside
	t.lastX, t.lastY = x, y
	return out
}
