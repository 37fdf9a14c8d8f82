// Package config loads todo settings from defaults, a TOML file and the
// environment.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

// Environment overrides.
const (
	EnvConfig   = "TODO_CONFIG"
	EnvDataFile = "TODO_DATA_FILE"
	EnvTheme    = "TODO_THEME"
	EnvLogLevel = "TODO_LOG_LEVEL"
)

// DataFileName matches the file name the mobile app used.
const DataFileName = "ToDoList.json"

const defaultLockTimeout = 3 * time.Second

// Duration lets TOML carry values like "500ms".
type Duration struct {
	time.Duration
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText implements encoding.TextMarshaler.
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LogConfig controls the zap logger.
type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // console | json
	File   string `toml:"file"`   // empty means stderr
}

// Config is the resolved application configuration.
type Config struct {
	DataFile    string    `toml:"data_file"`
	Theme       string    `toml:"theme"`
	Color       string    `toml:"color"`
	LockTimeout Duration  `toml:"lock_timeout"`
	Log         LogConfig `toml:"log"`

	// Path is the config file that was read, if any.
	Path string `toml:"-"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		DataFile:    filepath.Join(DataDir(), DataFileName),
		Theme:       "classic",
		Color:       "auto",
		LockTimeout: Duration{defaultLockTimeout},
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// ConfigDir returns $XDG_CONFIG_HOME/todo.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns $XDG_DATA_HOME/todo.
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

func xdgDir(env, fallback string) string {
	base := os.Getenv(env)
	if base == "" {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, fallback)
	}
	return filepath.Join(base, "todo")
}

// DefaultPath returns the config file location, honouring TODO_CONFIG.
func DefaultPath() string {
	if p := strings.TrimSpace(os.Getenv(EnvConfig)); p != "" {
		return p
	}
	return filepath.Join(ConfigDir(), "config.toml")
}

// Load resolves defaults, then the TOML file at path (a missing file is not an
// error), then environment overrides. An empty path means DefaultPath().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		path = DefaultPath()
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else {
		cfg.Path = path
	}

	cfg.applyEnv()
	cfg.DataFile = expandHome(cfg.DataFile)
	cfg.Log.File = expandHome(cfg.Log.File)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv(EnvDataFile)); v != "" {
		c.DataFile = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvTheme)); v != "" {
		c.Theme = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		c.Log.Level = v
	}
}

// ErrInvalid matches every error returned by Validate.
var ErrInvalid = errors.New("invalid config")

// Validate reports the first invalid setting, wrapped in ErrInvalid.
func (c *Config) Validate() error {
	if err := c.validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	return nil
}

func (c *Config) validate() error {
	if strings.TrimSpace(c.DataFile) == "" {
		return fmt.Errorf("data_file is empty")
	}
	switch strings.ToLower(c.Theme) {
	case "classic", "neon", "mono":
	default:
		return fmt.Errorf("unknown theme %q (want classic, neon or mono)", c.Theme)
	}
	switch strings.ToLower(c.Color) {
	case "auto", "always", "never":
	default:
		return fmt.Errorf("unknown color mode %q (want auto, always or never)", c.Color)
	}
	if c.LockTimeout.Duration <= 0 {
		return fmt.Errorf("lock_timeout must be positive, got %s", c.LockTimeout.Duration)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level %q", c.Log.Level)
	}
	switch strings.ToLower(c.Log.Format) {
	case "console", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	return nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
