package viewer

import (
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
)

// Config holds the viewer's file-backed configuration.
type Config struct {
	Viewer  ViewerConfig  `toml:"viewer" validate:"required"`
	Logging LoggingConfig `toml:"logging"`
	Import  ImportConfig  `toml:"import"`
}

// ViewerConfig groups the presentation-level settings.
type ViewerConfig struct {
	// AssetBasePath is the root directory model URLs resolve against when a
	// load request carries no explicit root.
	AssetBasePath string `toml:"asset_base_path" validate:"required"`
	// DefaultPlugin optionally forces an import backend by name for every
	// load dispatched through the viewer.
	DefaultPlugin string `toml:"default_plugin"`
	// WatchAssets enables reloading a model when its file changes on disk.
	WatchAssets bool `toml:"watch_assets"`
}

type LoggingConfig struct {
	Level string `toml:"level" validate:"omitempty,oneof=debug info warn error fatal"`
}

// ImportConfig tunes the importer engine worker pool.
type ImportConfig struct {
	Workers   int `toml:"workers" validate:"gte=0,lte=64"`
	QueueSize int `toml:"queue_size" validate:"gte=0"`
}

// DefaultConfig returns the configuration used when no file is present.
func DefaultConfig() *Config {
	return &Config{
		Viewer: ViewerConfig{
			AssetBasePath: "assets",
		},
		Logging: LoggingConfig{
			Level: "debug",
		},
	}
}

// LoadConfigFile reads a TOML configuration file over the defaults and
// validates the result.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	if err := validator.New().Struct(config); err != nil {
		return nil, fmt.Errorf("validate config %s: %w", path, err)
	}
	return config, nil
}
