package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the Messagely CLI.
type Config struct {
	ServerEndpointAddr  string
	OnlineCheckInterval time.Duration
	RequestTimeout      time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.ServerEndpointAddr = "127.0.0.1:50051"
	c.OnlineCheckInterval = 3 * time.Second
	c.RequestTimeout = 5 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values from
// JSON (if present) and command-line flags (if present). Later sources take
// precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg, os.Args[1:])
	parseFlags(cfg, os.Args[1:])
	cfg.fallbackToDefaults()
	return cfg
}

// fallbackToDefaults replaces non-positive intervals, which time.NewTicker
// and context.WithTimeout cannot use, with their defaults.
func (c *Config) fallbackToDefaults() {
	d := &Config{}
	d.LoadDefaults()
	if c.OnlineCheckInterval <= 0 {
		c.OnlineCheckInterval = d.OnlineCheckInterval
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = d.RequestTimeout
	}
}
