// Package config handles layered YAML configuration with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Config holds all contact book configuration.
type Config struct {
	Database Database `yaml:"database"`
	Log      Log      `yaml:"log"`
	UI       UI       `yaml:"ui"`
	HTTP     HTTP     `yaml:"http"`
}

// Database selects the store backend.
type Database struct {
	Driver string `yaml:"driver" env:"CONTACTBOOK_DB_DRIVER"` // "sqlite" | "mysql"
	Path   string `yaml:"path"   env:"CONTACTBOOK_DB_PATH"`   // SQLite file
	DSN    string `yaml:"dsn"    env:"CONTACTBOOK_DB_DSN"`    // MySQL only
}

// Log holds logger settings.
type Log struct {
	Level  string `yaml:"level"  env:"CONTACTBOOK_LOG_LEVEL"`
	Format string `yaml:"format" env:"CONTACTBOOK_LOG_FORMAT"` // "text" | "json"
	Output string `yaml:"output" env:"CONTACTBOOK_LOG_OUTPUT"` // file path, "stdout" or "stderr"
}

// UI holds terminal interface settings.
type UI struct {
	Theme       string        `yaml:"theme"        env:"CONTACTBOOK_THEME"` // "light" | "dark"
	NoticeDelay time.Duration `yaml:"notice_delay" env:"CONTACTBOOK_NOTICE_DELAY"`
}

// HTTP holds settings of the local JSON API.
type HTTP struct {
	Addr       string `yaml:"addr"        env:"CONTACTBOOK_HTTP_ADDR"`
	RequestLog bool   `yaml:"request_log" env:"CONTACTBOOK_HTTP_REQUEST_LOG"`
}

// DefaultDatabasePath returns data/contacts.db next to the running executable,
// or below the working directory if the executable cannot be located.
func DefaultDatabasePath() string {
	exe, err := os.Executable()
	if err != nil {
		return filepath.Join("data", "contacts.db")
	}
	return filepath.Join(filepath.Dir(exe), "data", "contacts.db")
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Database: Database{
			Driver: "sqlite",
			Path:   DefaultDatabasePath(),
		},
		Log: Log{
			Level:  "info",
			Format: "text",
			Output: "contactbook.log",
		},
		UI: UI{
			Theme:       "dark",
			NoticeDelay: 3 * time.Second,
		},
		HTTP: HTTP{
			Addr:       "localhost:8080",
			RequestLog: true,
		},
	}
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		layer, err := loadLayer(path)
		if err != nil {
			return nil, err
		}
		if layer == nil {
			continue
		}
		cfg.merge(layer)
	}

	return &cfg, nil
}

// DefaultPaths returns the user and project config files, lowest priority
// first.
func DefaultPaths() []string {
	return []string{
		os.ExpandEnv("$HOME/.config/contactbook/config.yaml"),
		"contactbook.yaml",
	}
}

// Load reads the default config files followed by the extra ones and then
// applies environment overrides. Empty extra paths are ignored.
func Load(extra ...string) (*Config, error) {
	paths := DefaultPaths()
	for _, path := range extra {
		if path != "" {
			paths = append(paths, path)
		}
	}
	cfg, err := LoadLayered(paths...)
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ApplyEnv applies CONTACTBOOK_* environment variable overrides. Variables
// that are not set leave the current value untouched.
func (c *Config) ApplyEnv() error {
	if err := env.Parse(c); err != nil {
		return fmt.Errorf("config: parse env: %w", err)
	}
	return nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite":
		if c.Database.Path == "" {
			return errors.New("config: database.path cannot be empty")
		}
	case "mysql":
		if c.Database.DSN == "" {
			return errors.New("config: database.dsn cannot be empty for the mysql driver")
		}
	default:
		return fmt.Errorf("config: database.driver must be \"sqlite\" or \"mysql\", got %q", c.Database.Driver)
	}
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("config: log.level must be one of debug, info, warn, error, got %q", c.Log.Level)
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("config: log.format must be \"text\" or \"json\", got %q", c.Log.Format)
	}
	if c.Log.Output == "" {
		return errors.New("config: log.output cannot be empty")
	}
	switch c.UI.Theme {
	case "light", "dark":
	default:
		return fmt.Errorf("config: ui.theme must be \"light\" or \"dark\", got %q", c.UI.Theme)
	}
	if c.UI.NoticeDelay <= 0 {
		return fmt.Errorf("config: ui.notice_delay must be positive, got %v", c.UI.NoticeDelay)
	}
	if c.HTTP.Addr == "" {
		return errors.New("config: http.addr cannot be empty")
	}
	return nil
}

// DatabaseSource returns the path or DSN handed to the store for the
// configured driver.
func (c *Config) DatabaseSource() string {
	if c.Database.Driver == "mysql" {
		return c.Database.DSN
	}
	return c.Database.Path
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Database *rawDatabase `yaml:"database"`
	Log      *rawLog      `yaml:"log"`
	UI       *rawUI       `yaml:"ui"`
	HTTP     *rawHTTP     `yaml:"http"`
}

type rawDatabase struct {
	Driver *string `yaml:"driver"`
	Path   *string `yaml:"path"`
	DSN    *string `yaml:"dsn"`
}

type rawLog struct {
	Level  *string `yaml:"level"`
	Format *string `yaml:"format"`
	Output *string `yaml:"output"`
}

type rawUI struct {
	Theme       *string        `yaml:"theme"`
	NoticeDelay *time.Duration `yaml:"notice_delay"`
}

type rawHTTP struct {
	Addr       *string `yaml:"addr"`
	RequestLog *bool   `yaml:"request_log"`
}

// loadLayer reads a single config file into a rawConfig for selective merging.
// Returns nil if the file does not exist. Rejects unknown fields.
func loadLayer(path string) (*rawConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}

	if len(data) == 0 {
		return nil, nil
	}

	var raw rawConfig
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&raw); err != nil {
		// Comment-only YAML files produce EOF with no decoded content.
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	return &raw, nil
}

// merge applies non-nil fields from a rawConfig layer onto this Config.
func (c *Config) merge(layer *rawConfig) {
	if layer.Database != nil {
		setString(&c.Database.Driver, layer.Database.Driver)
		setString(&c.Database.Path, layer.Database.Path)
		setString(&c.Database.DSN, layer.Database.DSN)
	}
	if layer.Log != nil {
		setString(&c.Log.Level, layer.Log.Level)
		setString(&c.Log.Format, layer.Log.Format)
		setString(&c.Log.Output, layer.Log.Output)
	}
	if layer.UI != nil {
		setString(&c.UI.Theme, layer.UI.Theme)
		if layer.UI.NoticeDelay != nil {
			c.UI.NoticeDelay = *layer.UI.NoticeDelay
		}
	}
	if layer.HTTP != nil {
		setString(&c.HTTP.Addr, layer.HTTP.Addr)
		if layer.HTTP.RequestLog != nil {
			c.HTTP.RequestLog = *layer.HTTP.RequestLog
		}
	}
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}
