package main

import (
	"flag"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/sirupsen/logrus"

	"github.com/milk9111/tilepaint/config"
	"github.com/milk9111/tilepaint/maps"
	"github.com/milk9111/tilepaint/prefs"
	"github.com/milk9111/tilepaint/tiles"
)

func main() {
	configPath := flag.String("config", "tilepaint.yaml", "editor config file (YAML, optional)")
	endpoint := flag.String("endpoint", "", "map service URL for saves")
	token := flag.String("token", "", "bearer token sent with saves")
	tileSize := flag.Int("tile", 0, "tile size in pixels")
	width := flag.Int("w", 0, "grid width in tiles")
	height := flag.Int("h", 0, "grid height in tiles")
	empty := flag.Bool("empty", false, "start with an empty grid instead of the example map")
	importName := flag.String("import", "", "map file or bundled map name to open")
	watch := flag.Bool("watch", false, "re-import the -import file whenever it changes")
	tilesPath := flag.String("tiles", "", "YAML tile list to use instead of the built-in palette")
	gridLines := flag.Bool("grid", false, "outline every cell")
	debug := flag.Bool("debug", false, "enable debug logging")
	flag.Parse()

	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if *debug {
		logrus.SetLevel(logrus.DebugLevel)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		logrus.Fatalf("Failed to load config: %v", err)
	}
	if *endpoint != "" {
		cfg.Endpoint = *endpoint
	}
	if *token != "" {
		cfg.Token = *token
	}
	if *tileSize > 0 {
		cfg.TileSize = *tileSize
	}
	if *width > 0 {
		cfg.Width = *width
	}
	if *height > 0 {
		cfg.Height = *height
	}
	if *empty {
		cfg.Example = false
	}
	if *tilesPath != "" {
		cfg.Tiles = *tilesPath
	}
	if *gridLines {
		cfg.GridLines = true
	}
	if err := cfg.Validate(); err != nil {
		logrus.Fatal(err)
	}

	reg := tiles.DefaultRegistry()
	if cfg.Tiles != "" {
		reg, err = tiles.LoadSpec(cfg.Tiles)
		if err != nil {
			logrus.Fatalf("Failed to load tiles: %v", err)
		}
	}

	opts := gameOptions{Config: cfg, Registry: reg}
	if *importName != "" {
		doc, path, err := openMap(*importName)
		if err != nil {
			logrus.Fatalf("Failed to import %s: %v", *importName, err)
		}
		opts.Import = &doc
		if *watch && path != "" {
			opts.WatchPath = path
		}
	} else if *watch {
		logrus.Warn("-watch needs -import; ignoring")
	}

	manager, err := prefs.Open()
	if err != nil {
		logrus.WithError(err).Warn("Prefs storage unavailable; preferences will not persist")
	}
	opts.Prefs = prefs.NewStore(manager)

	clip, err := maps.NewClipboard()
	if err != nil {
		logrus.WithError(err).Warn("Clipboard disabled")
	}
	opts.Clipboard = clip

	game, err := NewGame(opts)
	if err != nil {
		logrus.Fatalf("Failed to start editor: %v", err)
	}
	defer game.Close()

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowTitle("tilepaint")
	w, h := game.LayoutF(0, 0)
	ebiten.SetWindowSize(int(w), int(h))

	logrus.WithFields(logrus.Fields{"width": cfg.Width, "height": cfg.Height, "tile": cfg.TileSize}).Info("Editor starting")
	if err := ebiten.RunGame(game); err != nil {
		logrus.Error(err)
	}
}

// openMap loads a map file from disk, falling back to the bundled maps.
// The returned path is empty for bundled maps.
func openMap(name string) (maps.Document, string, error) {
	if _, err := os.Stat(name); err == nil {
		path, err := filepath.Abs(name)
		if err != nil {
			return maps.Document{}, "", err
		}
		doc, err := maps.LoadFile(path)
		return doc, path, err
	}
	doc, err := maps.LoadFromFS(name)
	return doc, "", err
}
