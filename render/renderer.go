package render

import (
	"image/color"

	"github.com/milk9111/tilepaint/tiles"
)

// Surface is the drawing capability the renderer needs from a backend.
type Surface interface {
	Clear()
	FillRect(x, y, w, h int, c color.Color)
}

// Cells is the read side of a grid.
type Cells interface {
	Width() int
	Height() int
	Get(x, y int) (int, error)
}

// Renderer paints a grid as solid squares, one per cell.
type Renderer struct {
	Registry *tiles.Registry
	TileSize int
	// Outline, when set, is drawn as a one-pixel border inside every cell.
	Outline color.Color
}

func New(reg *tiles.Registry, tileSize int) *Renderer {
	return &Renderer{Registry: reg, TileSize: tileSize}
}

// Size returns the pixel dimensions needed to show g.
func (r *Renderer) Size(g Cells) (int, int) {
	return g.Width() * r.TileSize, g.Height() * r.TileSize
}

// Render clears dst and repaints every cell of g in row-major order.
func (r *Renderer) Render(dst Surface, g Cells) {
	dst.Clear()
	ts := r.TileSize
	for y := 0; y < g.Height(); y++ {
		for x := 0; x < g.Width(); x++ {
			id, err := g.Get(x, y)
			if err != nil {
				id = tiles.DefaultID
			}
			kind := r.Registry.Resolve(id)
			px, py := x*ts, y*ts
			dst.FillRect(px, py, ts, ts, kind.Color)
			if r.Outline != nil && ts > 2 {
				r.outline(dst, px, py)
			}
		}
	}
}

func (r *Renderer) outline(dst Surface, px, py int) {
	ts := r.TileSize
	dst.FillRect(px, py, ts, 1, r.Outline)
	dst.FillRect(px, py+ts-1, ts, 1, r.Outline)
	dst.FillRect(px, py+1, 1, ts-2, r.Outline)
	dst.FillRect(px+ts-1, py+1, 1, ts-2, r.Outline)
}
