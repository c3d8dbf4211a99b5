// Package config centralizes application configuration into typed structs.
// Defaults come from NewDefaultConfig; an optional YAML file can overlay
// individual values on top.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the top-level configuration container.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Matching MatchingConfig `yaml:"matching"`
	Store    StoreConfig    `yaml:"store"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr         string        `yaml:"addr"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// MatchingConfig controls how requests are grouped into rides.
type MatchingConfig struct {
	// WindowMinutes is the inclusive tolerance between a ride's departure
	// time and a request's time. A difference of exactly WindowMinutes
	// still matches.
	WindowMinutes int `yaml:"window_minutes"`
}

// StoreConfig controls ride store housekeeping.
type StoreConfig struct {
	// SweepInterval is how often the ride store drops rides dated before
	// the current day. Zero disables the sweeper.
	SweepInterval time.Duration `yaml:"sweep_interval"`
}

// NewDefaultConfig returns a Config populated with the defaults the service
// runs with when no file is given.
func NewDefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Addr:         ":8080",
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		Matching: MatchingConfig{
			WindowMinutes: 30,
		},
		Store: StoreConfig{
			SweepInterval: time.Hour,
		},
	}
}

// LoadFile overlays settings from a YAML file onto the defaults. Fields
// absent from the file keep their default values.
func LoadFile(path string) (*Config, error) {
	cfg := NewDefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}
