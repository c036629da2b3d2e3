// Package config loads engine settings from YAML.
//
//	delimiters:
//	  open: "<%"
//	  close: "%>"
//	builtins: true
//	filters:
//	  shout: "upper | append:!"
//	logging:
//	  level: debug
//	server:
//	  listen: ":8080"
package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tmplkit/interpolate"
	"github.com/tmplkit/interpolate/filterspec"
	"github.com/tmplkit/interpolate/scan"
)

const (
	defaultLogLevel = "info"
	defaultListen   = ":8080"
)

type DelimitersConfig struct {
	Open  string `yaml:"open"`
	Close string `yaml:"close"`
	// Pattern is a raw regular expression with exactly one capture group.
	// It cannot be combined with Open/Close.
	Pattern string `yaml:"pattern"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
}

type ServerConfig struct {
	Listen string `yaml:"listen"`
}

type Config struct {
	Delimiters DelimitersConfig `yaml:"delimiters"`
	// Builtins registers the built-in filters. Default true.
	Builtins *bool `yaml:"builtins"`
	// Filters defines derived filters as chains of other filters.
	Filters map[string]string `yaml:"filters"`
	Logging LoggingConfig     `yaml:"logging"`
	Server  ServerConfig      `yaml:"server"`

	pattern *scan.Pattern
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	var cfg Config
	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		panic(err)
	}
	return &cfg
}

func Load(path string) (*Config, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(b)
}

// Parse decodes a YAML document, applies defaults and environment overrides
// and validates the result.
func Parse(b []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Delimiters.Pattern == "" && cfg.Delimiters.Open == "" && cfg.Delimiters.Close == "" {
		cfg.Delimiters.Open = scan.DefaultOpen
		cfg.Delimiters.Close = scan.DefaultClose
	}
	if cfg.Builtins == nil {
		on := true
		cfg.Builtins = &on
	}
	if cfg.Filters == nil {
		cfg.Filters = map[string]string{}
	}
	if strings.TrimSpace(cfg.Logging.Level) == "" {
		cfg.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(cfg.Server.Listen) == "" {
		cfg.Server.Listen = defaultListen
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("INTERPOLATE_LOG_LEVEL")); v != "" {
		cfg.Logging.Level = v
	}
	if v := strings.TrimSpace(os.Getenv("INTERPOLATE_LISTEN")); v != "" {
		cfg.Server.Listen = v
	}
}

func validate(cfg *Config) error {
	d := cfg.Delimiters
	switch {
	case d.Pattern != "" && (d.Open != "" || d.Close != ""):
		return errors.New("delimiters.pattern cannot be combined with delimiters.open/close")
	case d.Pattern != "":
		p, err := scan.Compile(d.Pattern)
		if err != nil {
			return fmt.Errorf("delimiters.pattern: %w", err)
		}
		cfg.pattern = p
	default:
		p, err := scan.Delimiters(d.Open, d.Close)
		if err != nil {
			return fmt.Errorf("delimiters: %w", err)
		}
		cfg.pattern = p
	}

	switch strings.ToLower(cfg.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", cfg.Logging.Level)
	}

	deps := make(map[string][]string, len(cfg.Filters))
	for name, chain := range cfg.Filters {
		if strings.TrimSpace(name) == "" {
			return errors.New("filters: derived filter name must not be empty")
		}
		specs, err := filterspec.Parse(chain)
		if err != nil {
			return fmt.Errorf("filters.%s: %w", name, err)
		}
		if len(specs) == 0 {
			return fmt.Errorf("filters.%s: chain must not be empty", name)
		}
		for _, s := range specs {
			deps[strings.TrimSpace(name)] = append(deps[strings.TrimSpace(name)], s.Name)
		}
	}
	return checkCycles(deps)
}

// checkCycles rejects derived filters that reach themselves.
func checkCycles(deps map[string][]string) error {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[string]int, len(deps))
	var visit func(name string, path []string) error
	visit = func(name string, path []string) error {
		switch state[name] {
		case visiting:
			return fmt.Errorf("filters: cycle %s", strings.Join(append(path, name), " -> "))
		case done:
			return nil
		}
		state[name] = visiting
		for _, dep := range deps[name] {
			if _, derived := deps[dep]; !derived {
				continue
			}
			if err := visit(dep, append(path, name)); err != nil {
				return err
			}
		}
		state[name] = done
		return nil
	}

	names := make([]string, 0, len(deps))
	for name := range deps {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		if err := visit(name, nil); err != nil {
			return err
		}
	}
	return nil
}

// Pattern returns the validated placeholder pattern.
func (c *Config) Pattern() *scan.Pattern {
	return c.pattern
}

// BuiltinsEnabled reports whether the built-in filters are registered.
func (c *Config) BuiltinsEnabled() bool {
	return c.Builtins == nil || *c.Builtins
}

// Configurator applies the configuration to an engine: delimiters, the
// built-in filters when enabled, then the derived filters as engine aliases.
func (c *Config) Configurator() interpolate.Configurator {
	return func(e *interpolate.Engine) {
		e.Delimiters(c.pattern)
		if c.BuiltinsEnabled() {
			e.Use(interpolate.Builtins)
		}
		for name, chain := range c.Filters {
			e.Alias(name, chain)
		}
	}
}

// NewEngine returns an engine configured by c.
func (c *Config) NewEngine() *interpolate.Engine {
	return interpolate.New().Use(c.Configurator())
}
