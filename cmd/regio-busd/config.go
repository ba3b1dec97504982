package main

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/regio-project/regio-go/pkg/discovery"
	"github.com/regio-project/regio-go/pkg/examples"
	"github.com/regio-project/regio-go/pkg/transport"
)

// RegionConfig describes one served memory window. Windows without a
// devmem path are simulated in process memory.
type RegionConfig struct {
	Name   string `yaml:"name"`
	Base   uint64 `yaml:"base"`
	Size   int    `yaml:"size"`
	DevMem string `yaml:"devmem"`
}

// Config holds the daemon configuration.
type Config struct {
	ConfigFile string         `yaml:"-"`
	Listen     string         `yaml:"listen"`
	PSK        string         `yaml:"psk"`
	Map        string         `yaml:"map"`
	Instance   string         `yaml:"instance"`
	Advertise  bool           `yaml:"advertise"`
	Interface  string         `yaml:"interface"`
	Trace      string         `yaml:"trace"`
	Unaligned  bool           `yaml:"unaligned"`
	LogLevel   string         `yaml:"log_level"`
	Regions    []RegionConfig `yaml:"regions"`
}

func defaultConfig() Config {
	return Config{
		Listen:   fmt.Sprintf(":%d", transport.DefaultPort),
		LogLevel: "info",
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

// applyDefaults fills in the instance name and, when no region is
// configured, one simulated window covering the example maps.
func applyDefaults(cfg *Config) {
	if len(cfg.Regions) == 0 {
		cfg.Regions = []RegionConfig{{Name: "window", Base: 0, Size: examples.WindowSize}}
	}
	if cfg.Instance == "" {
		host, err := os.Hostname()
		if err != nil || host == "" {
			host = "local"
		}
		cfg.Instance = "regbus-" + host
		if len(cfg.Instance) > discovery.MaxInstanceNameLen {
			cfg.Instance = cfg.Instance[:discovery.MaxInstanceNameLen]
		}
	}
}

func validateConfig(cfg *Config) error {
	if _, err := listenPort(cfg.Listen); err != nil {
		return err
	}
	if cfg.Map != "" {
		if _, ok := examples.Lookup(cfg.Map); !ok {
			return fmt.Errorf("unknown map %q (available: %v)", cfg.Map, examples.Names())
		}
	}
	if cfg.Advertise {
		if err := discovery.ValidateInstanceName(cfg.Instance); err != nil {
			return err
		}
	}
	if len(cfg.Regions) == 0 {
		return errors.New("no regions configured")
	}
	names := make(map[string]bool)
	for i, r := range cfg.Regions {
		if r.Name == "" {
			return fmt.Errorf("region %d: missing name", i)
		}
		if names[r.Name] {
			return fmt.Errorf("region %s: duplicate name", r.Name)
		}
		names[r.Name] = true
		if r.Size <= 0 {
			return fmt.Errorf("region %s: size must be positive", r.Name)
		}
	}
	switch cfg.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %s", cfg.LogLevel)
	}
	return nil
}

// listenPort returns the port of a listen address such as ":7483".
func listenPort(addr string) (uint16, error) {
	_, port, err := net.SplitHostPort(addr)
	if err != nil {
		return 0, fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	p, err := strconv.ParseUint(port, 10, 16)
	if err != nil {
		return 0, fmt.Errorf("invalid listen port %q", port)
	}
	return uint16(p), nil
}
