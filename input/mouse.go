package input

import (
	"image"

	"github.com/hajimehoshi/ebiten/v2"
)

// MouseSource polls the left mouse button once per frame and queues events
// relative to the canvas rectangle on screen.
type MouseSource struct {
	// Canvas is the on-screen area the surface is drawn into.
	Canvas image.Rectangle
	// Blocked suppresses new presses, e.g. while a text field has focus.
	Blocked func() bool

	tracker Tracker
}

func (m *MouseSource) Poll(q *Queue) {
	mx, my := ebiten.CursorPosition()
	pressed := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	inside := image.Pt(mx, my).In(m.Canvas)
	if pressed && m.Blocked != nil && m.Blocked() && !m.tracker.prevPressed {
		pressed = false
	}
	q.Push(m.tracker.Sample(mx-m.Canvas.Min.X, my-m.Canvas.Min.Y, pressed, inside)...)
}
