package engine

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"
	"github.com/spaghettifunk/rendercost/engine/cost"
	"github.com/spaghettifunk/rendercost/engine/renderer/metadata"
)

type ApplicationConfig struct {
	// The application name used in log lines and reports.
	Name string `toml:"name"`
	// One of debug, info, warn, error, fatal.
	LogLevel string `toml:"log_level"`
	// Directory indexed for textures and scenes. Empty disables indexing.
	AssetsDir string `toml:"assets_dir"`
	// current, v1/legacy, v2/revised or a version number.
	CostVersion string `toml:"cost_version"`
	// Triangle budget the radius based streaming cost is normalised by.
	TriangleBudget uint32 `toml:"triangle_budget"`
	// Worker goroutines evaluating avatars and linksets.
	Workers         int    `toml:"workers"`
	MaxTextureCount uint32 `toml:"max_texture_count"`
	// Keep re-evaluating the scene when it or its textures change.
	Watch bool `toml:"watch"`
}

func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		Name:            "rendercost",
		LogLevel:        "info",
		CostVersion:     cost.DefaultVersion.String(),
		TriangleBudget:  metadata.MeshTriangleBudget,
		Workers:         4,
		MaxTextureCount: 65536,
	}
}

/**
 * @brief Loads the application configuration from a TOML file on top of
 * the defaults.
 * @param path The file to read. A missing file yields the defaults.
 * @return The configuration, or an error if the file is malformed.
 */
func LoadConfig(path string) (*ApplicationConfig, error) {
	config := DefaultApplicationConfig()
	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return config, nil
	}
	if err != nil {
		return nil, err
	}

	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to read config %s: %w", path, err)
	}
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return config, nil
}

// Validate reports the first setting the engine could not run with.
func (c *ApplicationConfig) Validate() error {
	if _, err := cost.ParseVersion(c.CostVersion); err != nil {
		return err
	}
	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return err
	}
	if c.Workers <= 0 {
		return fmt.Errorf("workers must be > 0, got %d", c.Workers)
	}
	if c.TriangleBudget == 0 {
		return fmt.Errorf("triangle_budget must be > 0")
	}
	if c.MaxTextureCount == 0 {
		return fmt.Errorf("max_texture_count must be > 0")
	}
	return nil
}

// CostConfig is the estimator configuration the application settings describe.
func (c *ApplicationConfig) CostConfig() (*cost.Config, error) {
	version, err := cost.ParseVersion(c.CostVersion)
	if err != nil {
		return nil, err
	}
	return &cost.Config{
		DefaultVersion: version,
		TriangleBudget: c.TriangleBudget,
	}, nil
}
