package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/panyam/splcheck/decl"
	"gopkg.in/yaml.v3"
)

// Config holds checker settings read from a YAML file and the environment.
type Config struct {
	// User defined type names, eg `Voltage` or `units.Current`
	Types []string `yaml:"types"`

	// Extra entries for the compatibility table
	Widenings []decl.Widening `yaml:"widenings"`

	MaxErrors   int    `yaml:"maxErrors"`
	Parallelism int    `yaml:"parallelism"`
	Color       *bool  `yaml:"color"`
	LogLevel    string `yaml:"logLevel"`

	// Install the strict for/assignment rules
	Strict bool `yaml:"strict"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{LogLevel: "warn"}
}

// Load reads a YAML config file.  An empty path returns Default().
func Load(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("config: open %s: %w", path, err)
	}
	defer file.Close()
	if err := cfg.decode(file); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// Parse reads a YAML config from r on top of the defaults.
func Parse(r io.Reader) (*Config, error) {
	cfg := Default()
	if err := cfg.decode(r); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return cfg, nil
}

func (c *Config) decode(r io.Reader) error {
	decoder := yaml.NewDecoder(r)
	decoder.KnownFields(true)
	if err := decoder.Decode(c); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return c.validate()
}

func (c *Config) validate() error {
	var issues []string
	if c.MaxErrors < 0 {
		issues = append(issues, "maxErrors cannot be negative")
	}
	if c.Parallelism < 0 {
		issues = append(issues, "parallelism cannot be negative")
	}
	if _, err := ParseLevel(c.LogLevel); err != nil {
		issues = append(issues, err.Error())
	}
	for _, w := range c.Widenings {
		if w.From == "" || w.To == "" {
			issues = append(issues, fmt.Sprintf("widening %s needs both from and to", w))
		}
	}
	if len(issues) > 0 {
		return errors.New(strings.Join(issues, "; "))
	}
	return nil
}

// LoadEnv loads the given .env files (or ".env" when none are given).  Missing
// files are ignored.
func LoadEnv(files ...string) error {
	if len(files) == 0 {
		files = []string{".env"}
	}
	var present []string
	for _, f := range files {
		if _, err := os.Stat(f); err == nil {
			present = append(present, f)
		}
	}
	if len(present) == 0 {
		return nil
	}
	slog.Debug("loading env files", "files", present)
	return godotenv.Load(present...)
}

// ApplyEnv overrides values from SPLCHECK_* environment variables.
func (c *Config) ApplyEnv() error {
	if v, ok := os.LookupEnv("SPLCHECK_MAX_ERRORS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: SPLCHECK_MAX_ERRORS: %w", err)
		}
		c.MaxErrors = n
	}
	if v, ok := os.LookupEnv("SPLCHECK_PARALLELISM"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: SPLCHECK_PARALLELISM: %w", err)
		}
		c.Parallelism = n
	}
	if v, ok := os.LookupEnv("SPLCHECK_COLOR"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: SPLCHECK_COLOR: %w", err)
		}
		c.Color = &b
	}
	if v, ok := os.LookupEnv("SPLCHECK_STRICT"); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("config: SPLCHECK_STRICT: %w", err)
		}
		c.Strict = b
	}
	if v, ok := os.LookupEnv("SPLCHECK_LOG_LEVEL"); ok {
		c.LogLevel = v
	}
	if v, ok := os.LookupEnv("SPLCHECK_TYPES"); ok {
		for _, name := range strings.Split(v, ",") {
			if name = strings.TrimSpace(name); name != "" {
				c.Types = append(c.Types, name)
			}
		}
	}
	return c.validate()
}

// Apply registers the configured types and widenings.  Types are registered
// first so widenings may refer to them.
func (c *Config) Apply(ts *decl.TypeSystem) error {
	for _, name := range c.Types {
		if _, err := ts.Register(name); err != nil {
			return fmt.Errorf("config: type %q: %w", name, err)
		}
	}
	for _, w := range c.Widenings {
		if err := ts.AddWidening(w.From, w.To); err != nil {
			return fmt.Errorf("config: %w", err)
		}
	}
	return nil
}

// TypeSystem builds a fresh type system with the configuration applied.
func (c *Config) TypeSystem() (*decl.TypeSystem, error) {
	ts := decl.NewTypeSystem()
	if err := c.Apply(ts); err != nil {
		return nil, err
	}
	return ts, nil
}

// Level returns the configured slog level.
func (c *Config) Level() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

// ParseLevel maps debug/info/warn/error to a slog level.  Empty is warn.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "", "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelWarn, fmt.Errorf("unknown log level %q", s)
}
