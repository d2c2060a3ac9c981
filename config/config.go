package config

import (
	"fmt"

	"github.com/kbukum/datakit/dataprovider"
	"github.com/kbukum/datakit/logger"
	"github.com/kbukum/datakit/version"
)

// Config contains all datakit settings.
type Config struct {
	Name     string         `yaml:"name" mapstructure:"name"`
	Logger   logger.Config  `yaml:"logger" mapstructure:"logger"`
	Provider ProviderConfig `yaml:"provider" mapstructure:"provider"`
}

// ProviderConfig holds defaults applied to data providers.
type ProviderConfig struct {
	// DefaultFetchSize is the page size used when a fetch request does
	// not specify one.
	DefaultFetchSize int `yaml:"default_fetch_size" mapstructure:"default_fetch_size"`
}

// ApplyDefaults applies default values to the configuration.
func (c *Config) ApplyDefaults() {
	c.Logger.ApplyDefaults()
	if c.Provider.DefaultFetchSize == 0 {
		c.Provider.DefaultFetchSize = 25
	}
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := c.Logger.Validate(); err != nil {
		return err
	}
	if c.Provider.DefaultFetchSize < 0 {
		return fmt.Errorf("provider.default_fetch_size must be positive (got: %d)",
			c.Provider.DefaultFetchSize)
	}
	return nil
}

// Apply wires the configuration into the datakit packages: the global
// logger and the provider fetch-size default.
func Apply(cfg *Config) {
	logger.Init(cfg.Logger)
	dataprovider.SetDefaultFetchSize(cfg.Provider.DefaultFetchSize)
	logger.Debug("datakit configured", logger.Fields(
		"name", cfg.Name,
		"version", version.Short(),
	))
}
