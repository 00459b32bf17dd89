// Package config handles layered YAML settings with environment overrides.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

// Backend names accepted by database.backend.
const (
	BackendMongo  = "mongo"
	BackendSQLite = "sqlite"
	BackendFile   = "file"
)

// Config holds all phonebook settings.
type Config struct {
	Database Database `yaml:"database" envPrefix:"DB_"`
	Seed     Seed     `yaml:"seed" envPrefix:"SEED_"`
	Log      Log      `yaml:"log" envPrefix:"LOG_"`
}

// Database selects and addresses the contact store.
type Database struct {
	Backend    string        `yaml:"backend" env:"BACKEND"`       // "mongo" | "sqlite" | "file"
	Host       string        `yaml:"host" env:"HOST"`             // mongo only
	Port       int           `yaml:"port" env:"PORT"`             // mongo only
	Name       string        `yaml:"name" env:"NAME"`             // mongo database name
	Collection string        `yaml:"collection" env:"COLLECTION"` // mongo collection name
	Path       string        `yaml:"path" env:"PATH"`             // sqlite/file location
	Timeout    time.Duration `yaml:"timeout" env:"TIMEOUT"`       // per-call deadline
}

// Seed controls the first-initialization bulk load.
type Seed struct {
	FirstInit bool   `yaml:"first_init" env:"FIRST_INIT"`
	File      string `yaml:"file" env:"FILE"`
}

// Log controls the structured logger.
type Log struct {
	Level string `yaml:"level" env:"LEVEL"` // debug | info | warn | error
	File  string `yaml:"file" env:"FILE"`   // empty means stderr (discarded in the window)
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Database: Database{
			Backend:    BackendMongo,
			Host:       "localhost",
			Port:       27017,
			Name:       "phonebook",
			Collection: "contacts",
			Timeout:    5 * time.Second,
		},
		Seed: Seed{
			FirstInit: false,
			File:      "init_data.txt",
		},
		Log: Log{
			Level: "info",
		},
	}
}

// Load reads a single YAML config file at path and returns a Config.
// If the file does not exist, defaults are returned without error.
// If the file contains invalid YAML or unknown fields, an error is returned.
func Load(path string) (*Config, error) {
	return LoadLayered(path)
}

// LoadLayered loads config from multiple paths with increasing priority.
// Later paths override earlier ones. Missing files are skipped.
func LoadLayered(paths ...string) (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range paths {
		if path == "" {
			continue
		}
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

// ApplyEnv applies PHONEBOOK_* environment overrides, e.g. PHONEBOOK_DB_HOST
// or PHONEBOOK_SEED_FIRST_INIT. Unset variables leave the field untouched.
func (c *Config) ApplyEnv() error {
	return c.applyEnv(nil)
}

func (c *Config) applyEnv(environ map[string]string) error {
	opts := env.Options{Prefix: "PHONEBOOK_"}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.ParseWithOptions(c, opts); err != nil {
		return fmt.Errorf("config: environment: %w", err)
	}
	return nil
}

// Validate checks that config values are usable.
func (c *Config) Validate() error {
	switch c.Database.Backend {
	case BackendMongo:
		if c.Database.Host == "" {
			return errors.New("config: database.host cannot be empty")
		}
		if c.Database.Port <= 0 || c.Database.Port > 65535 {
			return fmt.Errorf("config: database.port must be in 1..65535, got %d", c.Database.Port)
		}
		if c.Database.Name == "" {
			return errors.New("config: database.name cannot be empty")
		}
		if c.Database.Collection == "" {
			return errors.New("config: database.collection cannot be empty")
		}
	case BackendSQLite, BackendFile:
		// Path falls back to a per-backend default.
	default:
		return fmt.Errorf("config: database.backend must be %q, %q or %q, got %q",
			BackendMongo, BackendSQLite, BackendFile, c.Database.Backend)
	}
	if c.Database.Timeout <= 0 {
		return fmt.Errorf("config: database.timeout must be positive, got %v", c.Database.Timeout)
	}
	if c.Seed.FirstInit && c.Seed.File == "" {
		return errors.New("config: seed.file cannot be empty when seed.first_init is set")
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
		// valid
	default:
		return fmt.Errorf("config: log.level must be debug, info, warn or error, got %q", c.Log.Level)
	}
	return nil
}

// StorePath returns database.path or the default location for the backend.
func (d Database) StorePath() string {
	if d.Path != "" {
		return d.Path
	}
	switch d.Backend {
	case BackendSQLite:
		return "phonebook.db"
	case BackendFile:
		return "phonebook.json"
	default:
		return ""
	}
}

// rawConfig mirrors Config but uses pointers to distinguish set vs unset fields.
type rawConfig struct {
	Database *rawDatabase `yaml:"database"`
	Seed     *rawSeed     `yaml:"seed"`
	Log      *rawLog      `yaml:"log"`
}

type rawDatabase struct {
	Backend    *string        `yaml:"backend"`
	Host       *string        `yaml:"host"`
	Port       *int           `yaml:"port"`
	Name       *string        `yaml:"name"`
	Collection *string        `yaml:"collection"`
	Path       *string        `yaml:"path"`
	Timeout    *time.Duration `yaml:"timeout"`
}

type rawSeed struct {
	FirstInit *bool   `yaml:"first_init"`
	File      *string `yaml:"file"`
}

type rawLog struct {
	Level *string `yaml:"level"`
	File  *string `yaml:"file"`
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
	if db := layer.Database; db != nil {
		setString(&c.Database.Backend, db.Backend)
		setString(&c.Database.Host, db.Host)
		if db.Port != nil {
			c.Database.Port = *db.Port
		}
		setString(&c.Database.Name, db.Name)
		setString(&c.Database.Collection, db.Collection)
		setString(&c.Database.Path, db.Path)
		if db.Timeout != nil {
			c.Database.Timeout = *db.Timeout
		}
	}
	if layer.Seed != nil {
		if layer.Seed.FirstInit != nil {
			c.Seed.FirstInit = *layer.Seed.FirstInit
		}
		setString(&c.Seed.File, layer.Seed.File)
	}
	if layer.Log != nil {
		setString(&c.Log.Level, layer.Log.Level)
		setString(&c.Log.File, layer.Log.File)
	}
}

func setString(dst *string, v *string) {
	if v != nil {
		*dst = *v
	}
}
