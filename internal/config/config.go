// Package config loads application settings from a TOML file with
// environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/pelletier/go-toml/v2"

	"ontomap/internal/dataset"
	"ontomap/internal/ontology"
)

// DefaultPath is the config file read when no path is given.
const DefaultPath = "ontomap.toml"

// AppConfig is the application configuration.
type AppConfig struct {
	Server ServerConfig `toml:"server"`
	Engine EngineConfig `toml:"engine"`
	Log    LogConfig    `toml:"log"`
}

// ServerConfig configures the HTTP server.
type ServerConfig struct {
	Port    int  `toml:"port"`
	DevMode bool `toml:"dev_mode"`
	// MaxUploadMB limits multipart uploads.
	MaxUploadMB int `toml:"max_upload_mb"`
}

// EngineConfig configures dataset sampling and the ontology source.
type EngineConfig struct {
	MaxSampleRows int `toml:"max_sample_rows"`
	// CatalogPath and SynonymsPath replace the embedded ontology when set.
	CatalogPath  string `toml:"catalog_path"`
	SynonymsPath string `toml:"synonyms_path"`
}

// LogConfig configures the logger.
type LogConfig struct {
	File  string `toml:"file"`
	Debug bool   `toml:"debug"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		Server: ServerConfig{
			Port:        8080,
			DevMode:     false,
			MaxUploadMB: 32,
		},
		Engine: EngineConfig{
			MaxSampleRows: dataset.DefaultMaxSampleRows,
		},
	}
}

// Load reads path over the defaults and then applies ONTOMAP_* environment
// overrides. A missing file at DefaultPath is not an error; a missing file
// that was asked for explicitly is.
func Load(path string) (*AppConfig, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		path = DefaultPath
	}

	data, err := os.ReadFile(path)

	switch {
	case err == nil:
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func applyEnv(cfg *AppConfig) error {
	if v := os.Getenv("ONTOMAP_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ONTOMAP_PORT %q: %w", v, err)
		}

		cfg.Server.Port = port
	}

	if v := os.Getenv("ONTOMAP_DEV_MODE"); v != "" {
		dev, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid ONTOMAP_DEV_MODE %q: %w", v, err)
		}

		cfg.Server.DevMode = dev
	}

	if v := os.Getenv("ONTOMAP_MAX_SAMPLE_ROWS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("invalid ONTOMAP_MAX_SAMPLE_ROWS %q: %w", v, err)
		}

		cfg.Engine.MaxSampleRows = n
	}

	if v := os.Getenv("ONTOMAP_CATALOG"); v != "" {
		cfg.Engine.CatalogPath = v
	}

	if v := os.Getenv("ONTOMAP_SYNONYMS"); v != "" {
		cfg.Engine.SynonymsPath = v
	}

	if v := os.Getenv("ONTOMAP_LOG_FILE"); v != "" {
		cfg.Log.File = v
	}

	return nil
}

// Save writes cfg as TOML.
func Save(cfg *AppConfig, path string) error {
	data, err := toml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

// DatasetOptions returns the loader options for cfg.
func (c *AppConfig) DatasetOptions() dataset.Options {
	return dataset.Options{MaxSampleRows: c.Engine.MaxSampleRows}
}

// LoadOntology returns the configured catalog and synonyms, falling back to
// the embedded ones for whichever path is unset.
func (c *AppConfig) LoadOntology() (*ontology.Catalog, ontology.Synonyms, error) {
	var (
		catalog  *ontology.Catalog
		synonyms ontology.Synonyms
		err      error
	)

	if c.Engine.CatalogPath != "" {
		catalog, err = ontology.LoadCatalogFile(c.Engine.CatalogPath)
	} else {
		catalog, err = ontology.Default()
	}

	if err != nil {
		return nil, nil, err
	}

	if c.Engine.SynonymsPath != "" {
		synonyms, err = ontology.LoadSynonymsFile(c.Engine.SynonymsPath)
	} else {
		synonyms, err = ontology.DefaultSynonyms()
	}

	if err != nil {
		return nil, nil, err
	}

	return catalog, synonyms, nil
}
