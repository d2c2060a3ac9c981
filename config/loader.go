package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// LoaderConfig controls where Load looks for files. Empty fields fall
// back to the standard search locations.
type LoaderConfig struct {
	// ConfigFile is an explicit path to the YAML config file.
	ConfigFile string
	// EnvFile is an explicit path to a .env file.
	EnvFile string
}

// envKeys are the configuration keys overridable from the environment
// as DATAKIT_-prefixed variables (e.g. DATAKIT_LOGGER_LEVEL).
var envKeys = []string{
	"name",
	"logger.level",
	"logger.format",
	"logger.output",
	"provider.default_fetch_size",
}

// Load reads configuration for the named service. Explicit paths win;
// otherwise config.yml is searched in ./ and ./config, and .env in the
// working directory. A missing config file is not an error unless its
// path was explicit: environment variables and defaults still apply.
func Load(name string, opts LoaderConfig) (*Config, error) {
	loadEnvFile(opts.EnvFile)

	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("DATAKIT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("binding env key %s: %w", key, err)
		}
	}

	if opts.ConfigFile != "" {
		v.SetConfigFile(opts.ConfigFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", opts.ConfigFile, err)
		}
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("reading config: %w", err)
			}
		}
	}

	cfg := &Config{Name: name}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	if cfg.Name == "" {
		cfg.Name = name
	}

	cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func loadEnvFile(path string) {
	if path != "" {
		_ = godotenv.Load(path)
		return
	}
	if _, err := os.Stat(".env"); err == nil {
		_ = godotenv.Load(".env")
	}
}
