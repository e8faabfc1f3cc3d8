package main

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/tilepaint/config"
	"github.com/milk9111/tilepaint/grid"
	"github.com/milk9111/tilepaint/input"
	"github.com/milk9111/tilepaint/maps"
	"github.com/milk9111/tilepaint/prefs"
	"github.com/milk9111/tilepaint/render"
	"github.com/milk9111/tilepaint/session"
	"github.com/milk9111/tilepaint/tiles"
)

const minScreenHeight = 560

var digitKeys = []ebiten.Key{
	ebiten.KeyDigit0, ebiten.KeyDigit1, ebiten.KeyDigit2, ebiten.KeyDigit3, ebiten.KeyDigit4,
	ebiten.KeyDigit5, ebiten.KeyDigit6, ebiten.KeyDigit7, ebiten.KeyDigit8, ebiten.KeyDigit9,
}

type gameOptions struct {
	Config    config.Config
	Registry  *tiles.Registry
	Import    *maps.Document
	WatchPath string
	Prefs     *prefs.Store
	Clipboard *maps.Clipboard
}

// Game is the editor: a panel on the left and the painted canvas to its right.
type Game struct {
	frames int
	ctx    context.Context
	cancel context.CancelFunc

	cfg       config.Config
	session   *session.Session
	surface   *render.ImageSurface
	mouse     *input.MouseSource
	panel     *Panel
	prompt    *Prompt
	prefs     *prefs.Store
	clipboard *maps.Clipboard
	watcher   *maps.Watcher
}

func NewGame(opts gameOptions) (*Game, error) {
	cfg := opts.Config
	store := opts.Prefs
	if store == nil {
		store = prefs.NewStore(nil)
	}

	g := &Game{
		cfg:       cfg,
		surface:   render.NewImageSurface(1, 1),
		prompt:    NewPrompt(),
		prefs:     store,
		clipboard: opts.Clipboard,
	}
	g.ctx, g.cancel = context.WithCancel(context.Background())

	gen := grid.Generator(grid.Blank)
	if cfg.Example {
		gen = grid.Example
	}
	s, err := session.New(session.Options{
		Registry:    opts.Registry,
		Width:       cfg.Width,
		Height:      cfg.Height,
		TileSize:    cfg.TileSize,
		Generator:   gen,
		InitialTile: g.initialTile(opts.Registry),
		Surface:     g.surface,
		Gateway:     cfg.Gateway(),
		Outline:     g.outline(),
		Name:        store.MapName(),
		Notify:      g.onStatus,
	})
	if err != nil {
		return nil, err
	}
	g.session = s

	face, err := loadFontFace(14)
	if err != nil {
		return nil, fmt.Errorf("editor: load font: %w", err)
	}
	g.panel = buildPanel(&face, s.Palette().Kinds(), s.Palette().SelectedID(), cfg.NameMaxLen, panelHandlers{
		onTile:    g.selectTile,
		onSave:    g.openSavePrompt,
		onClear:   s.Clear,
		onExample: g.resetExample,
		onCopy:    g.copyToClipboard,
		onPaste:   g.pasteFromClipboard,
	})
	g.panel.SetMapName(s.Name())
	s.Palette().OnChange(func(k tiles.Kind) {
		g.panel.SetSelected(k.ID)
		g.prefs.SetTile(k.ID)
	})

	g.mouse = &input.MouseSource{
		Blocked: func() bool { return g.prompt.IsOpen() || g.panel.Typing() },
	}

	if opts.Import != nil {
		if err := s.Import(opts.Import.Name, opts.Import.Matrix); err != nil {
			return nil, err
		}
		g.panel.SetMapName(s.Name())
	}
	if opts.WatchPath != "" {
		w, err := maps.NewWatcher(opts.WatchPath)
		if err != nil {
			logrus.WithError(err).WithField("path", opts.WatchPath).Warn("editor: watch disabled")
		} else {
			g.watcher = w
		}
	}
	return g, nil
}

func (g *Game) initialTile(reg *tiles.Registry) int {
	if id, ok := g.prefs.Tile(); ok {
		return id
	}
	if reg == nil || reg.Has(grid.Grass) {
		return grid.Grass
	}
	return tiles.DefaultID
}

func (g *Game) outline() color.Color {
	if !g.cfg.GridLines {
		return nil
	}
	return color.RGBA{A: 48}
}

// Close stops background work and stores the editor prefs.
func (g *Game) Close() {
	g.cancel()
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
	if err := g.prefs.Save(); err != nil {
		logrus.WithError(err).Warn("editor: prefs not saved")
	}
}

func (g *Game) Update() error {
	g.frames++

	g.pollWatcher()
	g.session.Poll()

	if g.prompt.Update() {
		return nil
	}

	if !g.panel.Typing() {
		g.handleHotkeys()
	}

	g.panel.UI.Update()

	cw, ch := g.session.Size()
	g.mouse.Canvas = image.Rect(panelWidth, 0, panelWidth+cw, ch)
	g.mouse.Poll(g.session.Queue())
	g.session.Flush()
	return nil
}

func (g *Game) handleHotkeys() {
	ctrl := ebiten.IsKeyPressed(ebiten.KeyControl) || ebiten.IsKeyPressed(ebiten.KeyMeta)
	switch {
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyS):
		g.openSavePrompt()
		return
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyC):
		g.copyToClipboard()
		return
	case ctrl && inpututil.IsKeyJustPressed(ebiten.KeyV):
		g.pasteFromClipboard()
		return
	}
	for i, k := range digitKeys {
		if inpututil.IsKeyJustPressed(k) {
			if err := g.session.Palette().SelectIndex(i); err != nil {
				logrus.WithError(err).Debug("editor: no palette slot")
			}
			return
		}
	}
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(canvasBackground)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(panelWidth, 0)
	screen.DrawImage(g.surface.Image(), op)

	g.panel.UI.Draw(screen)
	g.prompt.Draw(screen)
}

func (g *Game) LayoutF(outsideWidth, outsideHeight float64) (float64, float64) {
	cw, ch := g.session.Size()
	return float64(panelWidth + cw), float64(max(ch, minScreenHeight))
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	panic("shouldn't use Layout")
}

func (g *Game) selectTile(id int) {
	if err := g.session.Palette().Select(id); err != nil {
		logrus.WithError(err).Warn("editor: tile not selected")
	}
}

func (g *Game) openSavePrompt() {
	name := g.panel.MapName()
	if name == "" {
		name = g.session.Name()
	}
	g.prompt.Open("Map name:", name, g.cfg.NameMaxLen, g.save)
}

func (g *Game) save(name string) {
	if err := g.session.Save(g.ctx, name); err != nil {
		return
	}
	g.panel.SetMapName(g.session.Name())
	g.prefs.SetMapName(g.session.Name())
}

func (g *Game) resetExample() {
	if err := g.session.Reset(grid.Example); err != nil {
		logrus.WithError(err).Warn("editor: reset failed")
	}
}

func (g *Game) copyToClipboard() {
	doc := maps.Document{Name: g.session.Name(), Matrix: g.session.Snapshot()}
	if err := g.clipboard.CopyMatrix(doc); err != nil {
		g.onStatus(session.Status{Level: session.Failure, Text: "Copy failed: clipboard unavailable"})
		return
	}
	g.onStatus(session.Status{Level: session.Success, Text: "Map copied"})
}

func (g *Game) pasteFromClipboard() {
	doc, err := g.clipboard.PasteMatrix()
	if err != nil {
		msg := "Paste failed: no map on the clipboard"
		if errors.Is(err, maps.ErrClipboardUnavailable) {
			msg = "Paste failed: clipboard unavailable"
		}
		g.onStatus(session.Status{Level: session.Failure, Text: msg})
		return
	}
	if err := g.session.Import(doc.Name, doc.Matrix); err != nil {
		return
	}
	g.panel.SetMapName(g.session.Name())
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	for {
		select {
		case path, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			doc, err := maps.LoadFile(path)
			if err != nil {
				logrus.WithError(err).WithField("path", path).Warn("editor: reload failed")
				continue
			}
			if err := g.session.Import(doc.Name, doc.Matrix); err == nil {
				g.onStatus(session.Status{Level: session.Info, Text: "Reloaded " + doc.Name})
			}
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			logrus.WithError(err).Warn("editor: watcher")
		default:
			return
		}
	}
}

func (g *Game) onStatus(st session.Status) {
	if g.panel != nil {
		g.panel.SetStatus(st)
	}
}
