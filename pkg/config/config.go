// Package config loads the notionmap.toml file that tunes layout, physics,
// interaction and rendering.
//
// Every field has a built-in default ([Default]); a file only needs the keys
// it changes:
//
//	[physics]
//	repulsion = -1200.0
//
//	[render]
//	palette = "ocean"
//
// [Load] overlays the file on the defaults and validates the result with
// go-playground/validator struct tags.
package config

import (
	"os"
	"path/filepath"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/notionmap/pkg/errors"
	"github.com/matzehuels/notionmap/pkg/interaction"
	"github.com/matzehuels/notionmap/pkg/layout"
	"github.com/matzehuels/notionmap/pkg/mindmap"
	"github.com/matzehuels/notionmap/pkg/physics"
	"github.com/matzehuels/notionmap/pkg/visibility"
)

const (
	appName  = "notionmap"
	fileName = "notionmap.toml"
)

// Default headless settle budget and render settings.
const (
	DefaultMaxTicks = 600
	DefaultEngine   = "svg"
	DefaultPalette  = "minimal"
	DefaultScale    = 2.0
	DefaultBackend  = "file"
)

// Config is the full on-disk configuration.
type Config struct {
	Physics     physics.Config    `toml:"physics"`
	Layout      LayoutConfig      `toml:"layout"`
	Links       layout.LinkPolicy `toml:"links"`
	Interaction InteractionConfig `toml:"interaction"`
	Visibility  visibility.Filter `toml:"visibility"`
	Render      RenderConfig      `toml:"render"`
	Cache       CacheConfig       `toml:"cache"`
}

// LayoutConfig sizes the canvas and the seeded rings.
type LayoutConfig struct {
	Width  float64       `toml:"width" validate:"gt=0"`
	Height float64       `toml:"height" validate:"gt=0"`
	Sizing layout.Sizing `toml:"sizing"`
	Rings  layout.Rings  `toml:"rings"`
}

// InteractionConfig holds gesture timing, zoom bounds and root locking.
type InteractionConfig struct {
	interaction.Config
	Zoom     interaction.ZoomConfig `toml:"zoom"`
	LockRoot bool                   `toml:"lock_root"`
}

// RenderConfig selects how headless output is drawn.
type RenderConfig struct {
	Engine   string  `toml:"engine" validate:"oneof=svg graphviz"`
	Palette  string  `toml:"palette" validate:"oneof=minimal forest ocean sunset candy slate aurora orchid"`
	Labels   bool    `toml:"labels"`
	MaxTicks int     `toml:"max_ticks" validate:"gte=1"`
	Scale    float64 `toml:"scale" validate:"gt=0,lte=8"` // PNG pixel density
}

// CacheConfig selects the settle cache backend.
type CacheConfig struct {
	Backend string        `toml:"backend" validate:"oneof=file redis none"`
	Dir     string        `toml:"dir,omitempty"`
	URL     string        `toml:"url,omitempty" validate:"required_if=Backend redis"`
	Prefix  string        `toml:"prefix,omitempty"`
	TTL     time.Duration `toml:"ttl,omitempty" validate:"gte=0"`
}

// Default returns the built-in configuration.
func Default() *Config {
	s := mindmap.DefaultSettings()
	return &Config{
		Physics: s.Physics,
		Layout: LayoutConfig{
			Width:  s.Width,
			Height: s.Height,
			Sizing: s.Sizing,
			Rings:  s.Rings,
		},
		Links: s.Links,
		Interaction: InteractionConfig{
			Config:   s.Interaction,
			Zoom:     s.Zoom,
			LockRoot: s.LockRoot,
		},
		Visibility: s.Filter,
		Render: RenderConfig{
			Engine:   DefaultEngine,
			Palette:  DefaultPalette,
			Labels:   true,
			MaxTicks: DefaultMaxTicks,
			Scale:    DefaultScale,
		},
		Cache: CacheConfig{Backend: DefaultBackend},
	}
}

// Settings converts the configuration into view settings.
func (c *Config) Settings() mindmap.Settings {
	return mindmap.Settings{
		Width:       c.Layout.Width,
		Height:      c.Layout.Height,
		Physics:     c.Physics,
		Sizing:      c.Layout.Sizing,
		Rings:       c.Layout.Rings,
		Links:       c.Links,
		Interaction: c.Interaction.Config,
		Zoom:        c.Interaction.Zoom,
		Filter:      c.Visibility.Clone(),
		LockRoot:    c.Interaction.LockRoot,
	}
}

// Dir returns the configuration directory ($XDG_CONFIG_HOME/notionmap).
func Dir() string {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, _ := os.UserHomeDir()
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, appName)
}

// DefaultPath returns the configuration file location.
func DefaultPath() string {
	return filepath.Join(Dir(), fileName)
}

// Load reads path over the defaults. A missing file yields the defaults; an
// empty path means [DefaultPath].
func Load(path string) (*Config, error) {
	if path == "" {
		path = DefaultPath()
	}
	cfg := Default()

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "read %s", path)
	}

	md, err := toml.Decode(string(data), cfg)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, errors.New(errors.ErrCodeInvalidConfig, "%s: unknown key %q", path, undecoded[0].String())
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes cfg to path, creating parent directories.
func Save(cfg *Config, path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return toml.NewEncoder(f).Encode(cfg)
}

// EnsureExists writes the defaults to path unless a file is already there.
// It reports whether a file was created.
func EnsureExists(path string) (bool, error) {
	if path == "" {
		path = DefaultPath()
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}
	return true, Save(Default(), path)
}

var validate = validator.New()

// Validate checks every range constraint.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return formatValidationError(err)
	}
	return nil
}

// formatValidationError reports the first failed constraint.
func formatValidationError(err error) error {
	verrs, ok := err.(validator.ValidationErrors)
	if !ok || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "invalid configuration")
	}
	e := verrs[0]
	field := e.Namespace()
	switch e.Tag() {
	case "required", "required_if":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: field is required", field)
	case "oneof":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must be one of %s", field, e.Param())
	case "ltfield":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: must be less than %s", field, e.Param())
	case "gt", "gte", "lt", "lte", "min", "max":
		return errors.New(errors.ErrCodeInvalidConfig, "%s: %v violates %s=%s", field, e.Value(), e.Tag(), e.Param())
	default:
		return errors.New(errors.ErrCodeInvalidConfig, "%s: validation failed (%s)", field, e.Tag())
	}
}
