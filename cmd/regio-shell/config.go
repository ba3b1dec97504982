package main

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/regio-project/regio-go/pkg/examples"
	"github.com/regio-project/regio-go/pkg/inspect"
)

// Config holds the shell configuration. A YAML file provides defaults that
// explicitly set flags override.
type Config struct {
	ConfigFile string        `yaml:"-"`
	Map        string        `yaml:"map"`
	Connect    string        `yaml:"connect"`
	Discover   bool          `yaml:"discover"`
	Instance   string        `yaml:"instance"`
	PSK        string        `yaml:"psk"`
	LogLevel   string        `yaml:"log_level"`
	Trace      string        `yaml:"trace"`
	Radix      string        `yaml:"radix"`
	Timeout    time.Duration `yaml:"timeout"`
}

func defaultConfig() Config {
	return Config{
		Map:      "uart",
		LogLevel: "info",
		Radix:    "hex",
		Timeout:  5 * time.Second,
	}
}

// loadConfigFile reads a YAML config file over cfg.
func loadConfigFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("reading config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config %s: %w", path, err)
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if _, ok := examples.Lookup(cfg.Map); !ok {
		return fmt.Errorf("unknown map %q (available: %v)", cfg.Map, examples.Names())
	}
	if cfg.Connect != "" && cfg.Discover {
		return errors.New("-connect and -discover are mutually exclusive")
	}
	if _, err := inspect.ParseRadix(cfg.Radix); err != nil {
		return err
	}
	if cfg.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", cfg.Timeout)
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %s", cfg.LogLevel)
	}
	return nil
}
