package prefs

import (
	"fmt"

	"github.com/quasilyte/gdata/v2"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

const AppName = "tilepaint"

const (
	prefsObject   = "prefs"
	prefsProperty = "editor"
)

// Prefs is what the editor remembers between runs. Tile is nil until a
// tile has been picked.
type Prefs struct {
	Tile    *int   `yaml:"tile,omitempty"`
	MapName string `yaml:"map_name"`
}

// Store keeps Prefs in gdata storage. A nil manager keeps them in memory
// only.
type Store struct {
	manager *gdata.Manager
	prefs   Prefs
}

// Open opens the user's gdata storage for the editor.
func Open() (*gdata.Manager, error) {
	return gdata.Open(gdata.Config{AppName: AppName})
}

func NewStore(manager *gdata.Manager) *Store {
	s := &Store{manager: manager}
	if err := s.Load(); err != nil {
		logrus.WithError(err).Warn("prefs: using defaults")
	}
	return s
}

// Load reads stored prefs. Missing prefs leave the defaults in place.
func (s *Store) Load() error {
	s.prefs = Prefs{}
	if s.manager == nil || !s.manager.ObjectPropExists(prefsObject, prefsProperty) {
		return nil
	}
	data, err := s.manager.LoadObjectProp(prefsObject, prefsProperty)
	if err != nil {
		return fmt.Errorf("prefs: load: %w", err)
	}
	var p Prefs
	if err := yaml.Unmarshal(data, &p); err != nil {
		return fmt.Errorf("prefs: unmarshal: %w", err)
	}
	s.prefs = p
	return nil
}

func (s *Store) Save() error {
	if s.manager == nil {
		return nil
	}
	data, err := yaml.Marshal(s.prefs)
	if err != nil {
		return fmt.Errorf("prefs: marshal: %w", err)
	}
	if err := s.manager.SaveObjectProp(prefsObject, prefsProperty, data); err != nil {
		return fmt.Errorf("prefs: save: %w", err)
	}
	return nil
}

func (s *Store) Prefs() Prefs { return s.prefs }

// Tile returns the last picked tile and whether one was ever picked.
func (s *Store) Tile() (int, bool) {
	if s.prefs.Tile == nil {
		return 0, false
	}
	return *s.prefs.Tile, true
}

func (s *Store) SetTile(id int) { s.prefs.Tile = &id }

func (s *Store) MapName() string { return s.prefs.MapName }

func (s *Store) SetMapName(name string) { s.prefs.MapName = name }
