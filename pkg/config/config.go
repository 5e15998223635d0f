// Package config loads agendagraph settings.
//
// Settings are layered, later sources overriding earlier ones:
//
//  1. built-in defaults ([Default])
//  2. a TOML file, by default $XDG_CONFIG_HOME/agendagraph/config.toml
//  3. a .env file in the working directory (existing variables win)
//  4. AGENDAGRAPH_* environment variables
//
// Command-line flags are applied on top by the CLI.
//
// # File Format
//
//	format         = "svg"
//	engine         = "graphviz"
//	orientation    = "horizontal"
//	phrases        = false
//	cache_url      = "redis://localhost:6379/0"
//	render_timeout = "30s"
//	listen         = ":8080"
//	watch_debounce = "150ms"
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/BurntSushi/toml"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"

	"github.com/matzehuels/agendagraph/pkg/errors"
	"github.com/matzehuels/agendagraph/pkg/pipeline"
)

// EnvPrefix prefixes every environment variable read by [Load].
const EnvPrefix = "AGENDAGRAPH_"

// Config holds every user-settable option.
type Config struct {
	Format        string        `toml:"format" validate:"oneof=mermaid dot svg png"`
	Engine        string        `toml:"engine" validate:"oneof=mermaid graphviz embedded"`
	Orientation   string        `toml:"orientation" validate:"oneof=vertical horizontal"`
	Phrases       bool          `toml:"phrases"`
	CacheURL      string        `toml:"cache_url"`
	RenderTimeout time.Duration `toml:"render_timeout" validate:"gte=0"`
	Listen        string        `toml:"listen" validate:"required"`
	WatchDebounce time.Duration `toml:"watch_debounce" validate:"gte=0"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Format:        pipeline.DefaultFormat,
		Engine:        pipeline.DefaultEngine,
		Orientation:   pipeline.DefaultOrientation,
		RenderTimeout: 2 * time.Minute,
		Listen:        ":8080",
		WatchDebounce: 150 * time.Millisecond,
	}
}

// Options returns the pipeline options selected by c.
func (c *Config) Options() pipeline.Options {
	return pipeline.Options{
		Format:      c.Format,
		Engine:      c.Engine,
		Orientation: c.Orientation,
		Phrases:     c.Phrases,
	}
}

// DefaultPath returns the config file location, honoring XDG_CONFIG_HOME.
func DefaultPath() (string, error) {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "agendagraph", "config.toml"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "agendagraph", "config.toml"), nil
}

// Load reads configuration from path, a .env file and the environment.
// An empty path uses [DefaultPath] and tolerates a missing file; an explicit
// path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err == nil {
			path = p
		}
	}

	cfg := Default()
	if path != "" {
		if err := cfg.decodeFile(path, explicit); err != nil {
			return nil, err
		}
	}

	if err := LoadDotEnv(".env"); err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(os.LookupEnv); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) decodeFile(path string, explicit bool) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "read config %s", path)
	}

	md, err := toml.DecodeFile(path, c)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "parse config %s", path)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return errors.New(errors.ErrCodeInvalidConfig, "unknown keys in %s: %s", path, strings.Join(keys, ", "))
	}
	return nil
}

// LoadDotEnv loads path into the process environment if it exists.
// Variables already set are not overridden.
func LoadDotEnv(path string) error {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "load %s", path)
	}
	return nil
}

// ApplyEnv overrides fields from AGENDAGRAPH_* variables found by lookup.
func (c *Config) ApplyEnv(lookup func(string) (string, bool)) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) error {
		v, ok := lookup(EnvPrefix + name)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%s%s", EnvPrefix, name)
		}
		*dst = d
		return nil
	}

	str("FORMAT", &c.Format)
	str("ENGINE", &c.Engine)
	str("ORIENTATION", &c.Orientation)
	str("CACHE_URL", &c.CacheURL)
	str("LISTEN", &c.Listen)

	if v, ok := lookup(EnvPrefix + "PHRASES"); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return errors.Wrap(errors.ErrCodeInvalidConfig, err, "%sPHRASES", EnvPrefix)
		}
		c.Phrases = b
	}
	if err := dur("RENDER_TIMEOUT", &c.RenderTimeout); err != nil {
		return err
	}
	return dur("WATCH_DEBOUNCE", &c.WatchDebounce)
}

var validate = validator.New()

// Validate checks every field.
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		if verrs, ok := err.(validator.ValidationErrors); ok && len(verrs) > 0 {
			e := verrs[0]
			return errors.New(errors.ErrCodeInvalidConfig, "%s: %s", fieldName(e.Field()), describe(e))
		}
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "validate config")
	}
	return nil
}

func describe(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "field is required"
	case "oneof":
		return fmt.Sprintf("%q is not one of: %s", fmt.Sprint(e.Value()), strings.ReplaceAll(e.Param(), " ", ", "))
	case "gte":
		return fmt.Sprintf("must be at least %s", e.Param())
	default:
		return fmt.Sprintf("validation failed (%s)", e.Tag())
	}
}

// fieldName converts a Go field name to its TOML key.
func fieldName(field string) string {
	var b strings.Builder
	var prev rune
	for i, r := range field {
		if i > 0 && unicode.IsUpper(r) && unicode.IsLower(prev) {
			b.WriteByte('_')
		}
		b.WriteRune(r)
		prev = r
	}
	return strings.ToLower(b.String())
}
