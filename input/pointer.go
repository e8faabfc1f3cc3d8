package input

// Painter is the grid side of the pointer controller.
type Painter interface {
	InBounds(x, y int) bool
	Set(x, y, id int) error
}

// Selection reports the tile id to paint with.
type Selection interface {
	SelectedID() int
}

// PointerController turns pointer events into cell writes. It is idle until
// a Down event and paints on every Move until Up or Leave.
type PointerController struct {
	Grid      Painter
	Selection Selection
	TileSize  int
	// Redraw runs after each successful cell write.
	Redraw func()

	painting bool
}

func (c *PointerController) Painting() bool { return c.painting }

func (c *PointerController) Handle(ev Event) {
	switch ev.Kind {
	case Down:
		c.paintAt(ev.X, ev.Y)
		c.painting = true
	case Move:
		if c.painting {
			c.paintAt(ev.X, ev.Y)
		}
	case Up, Leave:
		c.painting = false
	}
}

// Cell maps surface pixels to grid coordinates.
func (c *PointerController) Cell(px, py int) (int, int) {
	return floorDiv(px, c.TileSize), floorDiv(py, c.TileSize)
}

func (c *PointerController) paintAt(px, py int) {
	if c.Grid == nil || c.Selection == nil || c.TileSize <= 0 {
		return
	}
	x, y := c.Cell(px, py)
	if !c.Grid.InBounds(x, y) {
		return
	}
	if err := c.Grid.Set(x, y, c.Selection.SelectedID()); err != nil {
		return
	}
	if c.Redraw != nil {
		c.Redraw()
	}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
