package palette

import (
	"errors"
	"fmt"

	"github.com/milk9111/tilepaint/tiles"
)

var ErrInvalidTileID = errors.New("palette: unknown tile id")

// Palette holds the tile currently chosen for painting.
type Palette struct {
	reg       *tiles.Registry
	selected  int
	listeners []func(tiles.Kind)
}

// New starts with initial selected, or the default tile when initial is unknown.
func New(reg *tiles.Registry, initial int) *Palette {
	p := &Palette{reg: reg, selected: tiles.DefaultID}
	if reg.Has(initial) {
		p.selected = initial
	}
	return p
}

// Select changes the selection. Unknown ids are rejected and the current
// selection is kept.
func (p *Palette) Select(id int) error {
	if !p.reg.Has(id) {
		return fmt.Errorf("%w: %d", ErrInvalidTileID, id)
	}
	if id == p.selected {
		return nil
	}
	p.selected = id
	k := p.reg.Resolve(id)
	for _, fn := range p.listeners {
		fn(k)
	}
	return nil
}

// SelectIndex selects the i-th kind in palette order.
func (p *Palette) SelectIndex(i int) error {
	kinds := p.reg.Kinds()
	if i < 0 || i >= len(kinds) {
		return fmt.Errorf("%w: palette slot %d", ErrInvalidTileID, i)
	}
	return p.Select(kinds[i].ID)
}

func (p *Palette) SelectedID() int { return p.selected }

func (p *Palette) Selected() tiles.Kind { return p.reg.Resolve(p.selected) }

func (p *Palette) Kinds() []tiles.Kind { return p.reg.Kinds() }

// OnChange registers fn to run after every selection change.
func (p *Palette) OnChange(fn func(tiles.Kind)) {
	if fn != nil {
		p.listeners = append(p.listeners, fn)
	}
}
