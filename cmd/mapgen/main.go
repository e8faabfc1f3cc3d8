package main

import (
	"flag"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/milk9111/tilepaint/grid"
	"github.com/milk9111/tilepaint/maps"
)

// mapgen writes the example layout (or an empty grid) as a map document the
// editor can -import.
func main() {
	w := flag.Int("w", 100, "grid width in tiles")
	h := flag.Int("h", 60, "grid height in tiles")
	empty := flag.Bool("empty", false, "write an all-empty grid")
	name := flag.String("name", "example", "map name stored in the document")
	out := flag.String("o", "", "output file (default stdout)")
	flag.Parse()

	doc, err := build(*w, *h, *empty, *name)
	if err != nil {
		logrus.Fatalf("mapgen: %v", err)
	}
	if *out == "" {
		data, err := maps.Encode(doc)
		if err != nil {
			logrus.Fatalf("mapgen: %v", err)
		}
		_, _ = os.Stdout.Write(data)
		return
	}
	if err := maps.WriteFile(*out, doc); err != nil {
		logrus.Fatalf("mapgen: %v", err)
	}
	logrus.WithFields(logrus.Fields{"width": *w, "height": *h, "path": *out}).Info("mapgen: map written")
}

func build(w, h int, empty bool, name string) (maps.Document, error) {
	gen := grid.Generator(grid.Example)
	if empty {
		gen = grid.Blank
	}
	g, err := grid.FromGenerator(w, h, gen)
	if err != nil {
		return maps.Document{}, err
	}
	return maps.Document{Name: name, Matrix: g.Snapshot()}, nil
}
