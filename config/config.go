package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"

	"github.com/milk9111/tilepaint/persist"
)

var ErrInvalid = errors.New("config: invalid")

const envPrefix = "TILEPAINT_"

// Config holds the editor settings. Zero values never reach the editor:
// Load starts from Default.
type Config struct {
	Endpoint   string        `yaml:"endpoint"`
	Token      string        `yaml:"token"`
	Cookie     string        `yaml:"cookie"`
	CookieName string        `yaml:"cookie_name"`
	Timeout    time.Duration `yaml:"timeout"`
	TileSize   int           `yaml:"tile_size"`
	Width      int           `yaml:"width"`
	Height     int           `yaml:"height"`
	Example    bool          `yaml:"example"`
	NameMaxLen int           `yaml:"name_max_len"`
	GridLines  bool          `yaml:"grid_lines"`
	// Tiles is an optional path to a YAML tile list.
	Tiles string `yaml:"tiles"`
}

func Default() Config {
	return Config{
		Endpoint:   persist.DefaultEndpoint,
		CookieName: persist.DefaultCookieName,
		Timeout:    10 * time.Second,
		TileSize:   8,
		Width:      100,
		Height:     60,
		Example:    true,
		NameMaxLen: persist.DefaultMaxNameLen,
	}
}

// Load layers defaults, the YAML file at path, a .env file in the working
// directory and TILEPAINT_* variables, in that order. Missing files are
// skipped.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logrus.WithError(err).Warn("config: .env not loaded")
	}
	if err := cfg.mergeEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		logrus.WithField("path", path).Info("config: no config file, using defaults")
		return nil
	}
	if err != nil {
		return fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("config: parse %s: %w", path, err)
	}
	return nil
}

func (c *Config) mergeEnv(lookup func(string) (string, bool)) error {
	str := func(key string, dst *string) {
		if v, ok := lookup(envPrefix + key); ok {
			*dst = v
		}
	}
	num := func(key string, dst *int) error {
		v, ok := lookup(envPrefix + key)
		if !ok || v == "" {
			return nil
		}
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q", ErrInvalid, envPrefix, key, v)
		}
		*dst = n
		return nil
	}

	str("ENDPOINT", &c.Endpoint)
	str("TOKEN", &c.Token)
	str("COOKIE", &c.Cookie)
	str("TILES", &c.Tiles)
	if err := num("TILE_SIZE", &c.TileSize); err != nil {
		return err
	}
	return num("NAME_MAX_LEN", &c.NameMaxLen)
}

func (c Config) Validate() error {
	switch {
	case c.TileSize <= 0:
		return fmt.Errorf("%w: tile size %d", ErrInvalid, c.TileSize)
	case c.Width <= 0 || c.Height <= 0:
		return fmt.Errorf("%w: grid %dx%d", ErrInvalid, c.Width, c.Height)
	case c.NameMaxLen < 0:
		return fmt.Errorf("%w: name cap %d", ErrInvalid, c.NameMaxLen)
	case c.Timeout < 0:
		return fmt.Errorf("%w: timeout %s", ErrInvalid, c.Timeout)
	}
	return nil
}

// Credentials builds the save credentials from the token and cookie settings.
func (c Config) Credentials() persist.Credentials {
	return persist.Credentials{Token: c.Token, Cookie: c.Cookie, CookieName: c.CookieName}
}

// Gateway builds a gateway for the configured endpoint.
func (c Config) Gateway() *persist.Gateway {
	gw := persist.NewGateway(c.Endpoint, c.Credentials(), c.Timeout)
	gw.MaxNameLen = c.NameMaxLen
	return gw
}
