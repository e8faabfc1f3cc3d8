package tiles

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed default.yaml
var defaultSpec []byte

// Spec is the on-disk form of a registry.
type Spec struct {
	Tiles []KindSpec `yaml:"tiles"`
}

type KindSpec struct {
	ID    int    `yaml:"id"`
	Name  string `yaml:"name"`
	Color string `yaml:"color"`
}

// ParseSpec decodes YAML and builds the registry it describes.
func ParseSpec(data []byte) (*Registry, error) {
	var spec Spec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return nil, fmt.Errorf("tiles: unmarshal spec: %w", err)
	}
	return spec.Registry()
}

// LoadSpec reads a registry spec file from disk.
func LoadSpec(path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("tiles: load %s: %w", path, err)
	}
	reg, err := ParseSpec(data)
	if err != nil {
		return nil, fmt.Errorf("tiles: %s: %w", path, err)
	}
	return reg, nil
}

// DefaultRegistry returns the built-in palette: empty, grass, dirt, water, rock.
func DefaultRegistry() *Registry {
	reg, err := ParseSpec(defaultSpec)
	if err != nil {
		panic("tiles: embedded default.yaml: " + err.Error())
	}
	return reg
}

func (s Spec) Registry() (*Registry, error) {
	kinds := make([]Kind, 0, len(s.Tiles))
	for _, ks := range s.Tiles {
		c, err := ParseColor(ks.Color)
		if err != nil {
			return nil, fmt.Errorf("tile %d: %w", ks.ID, err)
		}
		kinds = append(kinds, Kind{ID: ks.ID, Name: ks.Name, Color: c})
	}
	return NewRegistry(kinds...)
}
