package grid

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfBounds  = errors.New("grid: coordinates out of bounds")
	ErrInvalidSize  = errors.New("grid: width and height must be at least 1")
	ErrEmptyMatrix  = errors.New("grid: empty matrix")
	ErrRaggedMatrix = errors.New("grid: matrix rows differ in length")
)

// Generator computes the tile id for a cell. It must be a pure function of
// its arguments so a map can be regenerated from its dimensions alone.
type Generator func(x, y, width, height int) int

// Grid stores tile ids in row-major order.
type Grid struct {
	w, h  int
	cells []int
}

// New returns a width x height grid with every cell set to 0.
func New(width, height int) (*Grid, error) {
	if width < 1 || height < 1 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &Grid{w: width, h: height, cells: make([]int, width*height)}, nil
}

// FromGenerator fills a new grid cell by cell with gen.
func FromGenerator(width, height int, gen Generator) (*Grid, error) {
	g, err := New(width, height)
	if err != nil {
		return nil, err
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			g.cells[g.index(x, y)] = gen(x, y, width, height)
		}
	}
	return g, nil
}

// FromMatrix builds a grid from a copy of m.
func FromMatrix(m [][]int) (*Grid, error) {
	w, h, err := checkMatrix(m)
	if err != nil {
		return nil, err
	}
	g := &Grid{w: w, h: h, cells: make([]int, w*h)}
	for y, row := range m {
		copy(g.cells[y*w:(y+1)*w], row)
	}
	return g, nil
}

func (g *Grid) Width() int  { return g.w }
func (g *Grid) Height() int { return g.h }

func (g *Grid) InBounds(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.w && y < g.h
}

func (g *Grid) index(x, y int) int { return y*g.w + x }

// Get returns the tile id at (x, y).
func (g *Grid) Get(x, y int) (int, error) {
	if !g.InBounds(x, y) {
		return 0, fmt.Errorf("%w: (%d,%d) not in %dx%d", ErrOutOfBounds, x, y, g.w, g.h)
	}
	return g.cells[g.index(x, y)], nil
}

// Set overwrites the tile id at (x, y). Ids are not checked against any
// registry; unknown ids are resolved when the grid is drawn.
func (g *Grid) Set(x, y, id int) error {
	if !g.InBounds(x, y) {
		return fmt.Errorf("%w: (%d,%d) not in %dx%d", ErrOutOfBounds, x, y, g.w, g.h)
	}
	g.cells[g.index(x, y)] = id
	return nil
}

// Fill sets every cell to id.
func (g *Grid) Fill(id int) {
	for i := range g.cells {
		g.cells[i] = id
	}
}

// Snapshot returns a deep copy of the cells as rows.
func (g *Grid) Snapshot() [][]int {
	out := make([][]int, g.h)
	for y := range out {
		row := make([]int, g.w)
		copy(row, g.cells[y*g.w:(y+1)*g.w])
		out[y] = row
	}
	return out
}

// Replace swaps in the contents of m, taking its dimensions. The grid is
// left untouched when m is empty or ragged.
func (g *Grid) Replace(m [][]int) error {
	ng, err := FromMatrix(m)
	if err != nil {
		return err
	}
	*g = *ng
	return nil
}

func checkMatrix(m [][]int) (w, h int, err error) {
	if len(m) == 0 || len(m[0]) == 0 {
		return 0, 0, ErrEmptyMatrix
	}
	w = len(m[0])
	for y, row := range m {
		if len(row) != w {
			return 0, 0, fmt.Errorf("%w: row %d has %d cells, row 0 has %d", ErrRaggedMatrix, y, len(row), w)
		}
	}
	return w, len(m), nil
}
