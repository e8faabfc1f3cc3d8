package session

import (
	"context"
	"errors"
	"fmt"
	"image/color"

	"github.com/sirupsen/logrus"

	"github.com/milk9111/tilepaint/grid"
	"github.com/milk9111/tilepaint/input"
	"github.com/milk9111/tilepaint/palette"
	"github.com/milk9111/tilepaint/persist"
	"github.com/milk9111/tilepaint/render"
	"github.com/milk9111/tilepaint/tiles"
)

// Resizer is implemented by surfaces that can follow the grid's pixel size.
type Resizer interface {
	Resize(w, h int)
}

type Level int

const (
	Info Level = iota
	Success
	Failure
)

// Status is a message for the user.
type Status struct {
	Level Level
	Text  string
}

type Options struct {
	Registry  *tiles.Registry
	Width     int
	Height    int
	TileSize  int
	Generator grid.Generator
	// InitialTile is the selection at start; unknown ids select the default tile.
	InitialTile int
	Surface     render.Surface
	Gateway     *persist.Gateway
	Outline     color.Color
	Name        string
	Notify      func(Status)
}

// Session ties one editable map to its palette, renderer, pointer input and
// the map service.
type Session struct {
	reg      *tiles.Registry
	grid     *grid.Grid
	palette  *palette.Palette
	renderer *render.Renderer
	surface  render.Surface
	queue    input.Queue
	pointer  *input.PointerController
	gateway  *persist.Gateway
	name     string
	notify   func(Status)
	pending  []<-chan persist.Result
	renders  int
}

func New(opts Options) (*Session, error) {
	if opts.Registry == nil {
		opts.Registry = tiles.DefaultRegistry()
	}
	if opts.TileSize <= 0 {
		return nil, fmt.Errorf("session: tile size %d", opts.TileSize)
	}
	if opts.Generator == nil {
		opts.Generator = grid.Blank
	}
	g, err := grid.FromGenerator(opts.Width, opts.Height, opts.Generator)
	if err != nil {
		return nil, err
	}

	s := &Session{
		reg:      opts.Registry,
		grid:     g,
		palette:  palette.New(opts.Registry, opts.InitialTile),
		renderer: render.New(opts.Registry, opts.TileSize),
		surface:  opts.Surface,
		gateway:  opts.Gateway,
		name:     opts.Name,
		notify:   opts.Notify,
	}
	s.renderer.Outline = opts.Outline
	s.pointer = &input.PointerController{
		Grid:      g,
		Selection: s.palette,
		TileSize:  opts.TileSize,
		Redraw:    s.Redraw,
	}
	s.resize()
	s.Redraw()
	return s, nil
}

func (s *Session) Registry() *tiles.Registry { return s.reg }
func (s *Session) Grid() *grid.Grid { return s.grid }
func (s *Session) Palette() *palette.Palette { return s.palette }
func (s *Session) Renderer() *render.Renderer { return s.renderer }
func (s *Session) Controller() *input.PointerController { return s.pointer }
func (s *Session) Name() string { return s.name }
func (s *Session) SetName(name string) { s.name = name }

// Renders counts full repaints since the session started.
func (s *Session) Renders() int { return s.renders }

// Size is the canvas size in pixels.
func (s *Session) Size() (int, int) { return s.renderer.Size(s.grid) }

// Redraw repaints the whole grid onto the surface.
func (s *Session) Redraw() {
	if s.surface == nil {
		return
	}
	s.renderer.Render(s.surface, s.grid)
	s.renders++
}

// Pointer queues pointer events; Flush applies them in arrival order.
func (s *Session) Pointer(ev ...input.Event) { s.queue.Push(ev...) }

func (s *Session) Flush() int { return s.queue.Drain(s.pointer) }

func (s *Session) Queue() *input.Queue { return &s.queue }

// Snapshot is an independent copy of the current grid.
func (s *Session) Snapshot() [][]int { return s.grid.Snapshot() }

// Import replaces the grid with matrix, resizing the canvas when the
// dimensions change. A bad matrix leaves the session untouched.
func (s *Session) Import(name string, matrix [][]int) error {
	w, h := s.grid.Width(), s.grid.Height()
	if err := s.grid.Replace(matrix); err != nil {
		s.report(Failure, fmt.Sprintf("Import failed: %v", err))
		return err
	}
	if name != "" {
		s.name = name
	}
	if w != s.grid.Width() || h != s.grid.Height() {
		s.resize()
	}
	s.Redraw()
	logrus.WithFields(logrus.Fields{"map": s.name, "w": s.grid.Width(), "h": s.grid.Height()}).Info("session: map imported")
	return nil
}

// Reset regenerates every cell with gen at the current size.
func (s *Session) Reset(gen grid.Generator) error {
	ng, err := grid.FromGenerator(s.grid.Width(), s.grid.Height(), gen)
	if err != nil {
		return err
	}
	if err := s.grid.Replace(ng.Snapshot()); err != nil {
		return err
	}
	s.Redraw()
	return nil
}

// Clear sets every cell to the default tile.
func (s *Session) Clear() {
	s.grid.Fill(tiles.DefaultID)
	s.Redraw()
}

// Save checks the name and starts an asynchronous save of the current grid.
// Name and credential problems are reported at once; the outcome of the
// request arrives through Poll.
func (s *Session) Save(ctx context.Context, name string) error {
	if s.gateway == nil {
		err := errors.New("session: no map service configured")
		s.report(Failure, GenericSaveFailure)
		return err
	}
	clean, err := persist.ValidateName(name, s.gateway.MaxNameLen)
	if err != nil {
		s.report(Failure, s.saveMessage(err))
		return err
	}
	s.name = clean
	s.pending = append(s.pending, s.gateway.SaveAsync(ctx, clean, s.grid.Snapshot()))
	s.report(Info, fmt.Sprintf("Saving %s...", clean))
	return nil
}

// Pending is the number of saves still in flight.
func (s *Session) Pending() int { return len(s.pending) }

// Poll reports finished saves without blocking and returns how many finished.
func (s *Session) Poll() int {
	done := 0
	kept := s.pending[:0]
	for _, ch := range s.pending {
		select {
		case res := <-ch:
			done++
			if res.Err != nil {
				s.report(Failure, s.saveMessage(res.Err))
			} else {
				s.report(Success, fmt.Sprintf("Saved %s", res.Name))
			}
		default:
			kept = append(kept, ch)
		}
	}
	for i := len(kept); i < len(s.pending); i++ {
		s.pending[i] = nil
	}
	s.pending = kept
	return done
}

const GenericSaveFailure = "Save failed: " + persist.GenericFailure

func (s *Session) saveMessage(err error) string {
	var f *persist.Failure
	switch {
	case errors.Is(err, persist.ErrInvalidMapName):
		limit := persist.DefaultMaxNameLen
		if s.gateway != nil {
			limit = s.gateway.MaxNameLen
		}
		if limit <= 0 {
			return "Map name must not be empty"
		}
		return fmt.Sprintf("Map name must be 1-%d characters", limit)
	case errors.Is(err, persist.ErrCredentialsExpired):
		return "Save failed: login expired"
	case errors.As(err, &f):
		return "Save failed: " + f.Message()
	default:
		return GenericSaveFailure
	}
}

func (s *Session) report(level Level, text string) {
	entry := logrus.WithField("map", s.name)
	switch level {
	case Failure:
		entry.Warn(text)
	default:
		entry.Info(text)
	}
	if s.notify != nil {
		s.notify(Status{Level: level, Text: text})
	}
}

func (s *Session) resize() {
	r, ok := s.surface.(Resizer)
	if !ok {
		return
	}
	r.Resize(s.renderer.Size(s.grid))
}
