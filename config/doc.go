// Package config loads datakit settings from a YAML config file, an
// optional .env file, and DATAKIT_-prefixed environment variables.
//
//	cfg, err := config.Load("my-service", config.LoaderConfig{})
//	config.Apply(cfg)
package config
