package maps

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"
)

//go:embed *.json
var MapsFS embed.FS

// LoadFromFS loads a bundled map by name; the .json suffix is optional.
func LoadFromFS(name string) (Document, error) {
	if path.Ext(name) == "" {
		name += ".json"
	}
	data, err := fs.ReadFile(MapsFS, name)
	if err != nil {
		return Document{}, fmt.Errorf("maps: read bundled map: %w", err)
	}
	doc, err := Decode(data)
	if err != nil {
		return Document{}, fmt.Errorf("maps: bundled %s: %w", name, err)
	}
	if doc.Name == "" {
		doc.Name = strings.TrimSuffix(name, ".json")
	}
	return doc, nil
}

// Names lists the bundled maps without their suffix.
func Names() []string {
	entries, err := fs.ReadDir(MapsFS, ".")
	if err != nil {
		return nil
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() || path.Ext(e.Name()) != ".json" {
			continue
		}
		out = append(out, strings.TrimSuffix(e.Name(), ".json"))
	}
	sort.Strings(out)
	return out
}
