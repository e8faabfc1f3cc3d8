package tiles

import (
	"errors"
	"fmt"
	"image/color"
)

var (
	ErrNoDefaultTile = errors.New("tiles: registry has no tile with id 0")
	ErrDuplicateTile = errors.New("tiles: duplicate tile id")
	ErrNegativeID    = errors.New("tiles: negative tile id")
)

// DefaultID is the id every registry reserves for empty cells.
const DefaultID = 0

// Kind is a paintable tile: an id plus the color it is drawn with.
type Kind struct {
	ID    int
	Name  string
	Color color.RGBA
}

// Registry is an ordered, immutable set of tile kinds.
type Registry struct {
	kinds []Kind
	index map[int]int
	def   int
}

// NewRegistry validates kinds and keeps them in the given order.
func NewRegistry(kinds ...Kind) (*Registry, error) {
	r := &Registry{
		kinds: make([]Kind, len(kinds)),
		index: make(map[int]int, len(kinds)),
		def:   -1,
	}
	copy(r.kinds, kinds)
	for i, k := range r.kinds {
		if k.ID < 0 {
			return nil, fmt.Errorf("%w: %d", ErrNegativeID, k.ID)
		}
		if _, dup := r.index[k.ID]; dup {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateTile, k.ID)
		}
		r.index[k.ID] = i
		if k.ID == DefaultID {
			r.def = i
		}
	}
	if r.def < 0 {
		return nil, ErrNoDefaultTile
	}
	return r, nil
}

// Resolve returns the kind for id, or the default kind when id is unknown.
func (r *Registry) Resolve(id int) Kind {
	if i, ok := r.index[id]; ok {
		return r.kinds[i]
	}
	return r.kinds[r.def]
}

func (r *Registry) Has(id int) bool {
	_, ok := r.index[id]
	return ok
}

func (r *Registry) Default() Kind { return r.kinds[r.def] }

func (r *Registry) Len() int { return len(r.kinds) }

// Kinds returns a copy of the registered kinds in palette order.
func (r *Registry) Kinds() []Kind {
	out := make([]Kind, len(r.kinds))
	copy(out, r.kinds)
	return out
}
