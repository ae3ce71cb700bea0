// Package config loads rollup configuration from defaults, a YAML file,
// ROLLUP_ environment variables and command-line flags.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/zoobzio/rollup"
	"github.com/zoobzio/rollup/dialects"
	"github.com/zoobzio/rollup/internal/render"
)

// Defaults.
const (
	DefaultDialect   = "bigquery"
	DefaultTimezone  = "UTC"
	DefaultWeekStart = "monday"
	DefaultLogLevel  = "warn"
	EnvPrefix        = "ROLLUP_"
)

// DefaultFiles are searched in the working directory when no file is given.
var DefaultFiles = []string{"rollup.yaml", "rollup.yml"}

// Config holds all rollup configuration options.
type Config struct {
	Dialect   string `koanf:"dialect"`
	Timezone  string `koanf:"timezone"`
	WeekStart string `koanf:"week_start"`
	LogLevel  string `koanf:"log_level"`

	// Templates maps a template group ("functions", "expressions") to
	// NAME -> expr-lang source overrides.
	Templates map[string]map[string]string `koanf:"templates"`

	// FileUsed is the config file that was read, if any.
	FileUsed string `koanf:"-"`
}

// findConfigFile finds the config file to use.
// Priority: explicit path > rollup.yaml > rollup.yml
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range DefaultFiles {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load reads configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"dialect":    DefaultDialect,
		"timezone":   DefaultTimezone,
		"week_start": DefaultWeekStart,
		"log_level":  DefaultLogLevel,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment: ROLLUP_WEEK_START -> week_start
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.FileUsed = used
	return &cfg, nil
}

// Validate checks the configuration without building anything.
func (c *Config) Validate() error {
	if !dialects.IsRegistered(c.Dialect) {
		return &dialects.UnknownDialectError{Name: c.Dialect, Available: dialects.Names()}
	}
	if _, err := c.Weekday(); err != nil {
		return err
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid timezone %q: %w", c.Timezone, err)
	}
	return nil
}

// Weekday parses WeekStart ("monday", "Sun", ...).
func (c *Config) Weekday() (time.Weekday, error) {
	s := strings.ToLower(strings.TrimSpace(c.WeekStart))
	if len(s) >= 3 {
		for d := time.Sunday; d <= time.Saturday; d++ {
			name := strings.ToLower(d.String())
			if strings.HasPrefix(name, s) {
				return d, nil
			}
		}
	}
	return 0, fmt.Errorf("invalid week_start %q", c.WeekStart)
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return 0, fmt.Errorf("invalid log_level %q: %w", c.LogLevel, err)
	}
	return level, nil
}

// TemplateSources flattens Templates into "group.NAME" keys.
func (c *Config) TemplateSources() map[string]string {
	out := make(map[string]string)
	for group, entries := range c.Templates {
		for name, src := range entries {
			out[group+"."+name] = src
		}
	}
	return out
}

// DialectOptions builds the construction options for the dialect,
// compiling template overrides.
func (c *Config) DialectOptions() ([]rollup.DialectOption, error) {
	day, err := c.Weekday()
	if err != nil {
		return nil, err
	}
	opts := []rollup.DialectOption{
		rollup.WithTimezone(c.Timezone),
		rollup.WithWeekStart(day),
	}
	if sources := c.TemplateSources(); len(sources) > 0 {
		templates, err := render.CompileTemplates(sources)
		if err != nil {
			return nil, err
		}
		opts = append(opts, rollup.WithTemplates(templates))
	}
	return opts, nil
}

// OpenDialect validates the configuration and creates the dialect.
func (c *Config) OpenDialect() (rollup.Dialect, error) {
	if err := c.Validate(); err != nil {
		return nil, err
	}
	opts, err := c.DialectOptions()
	if err != nil {
		return nil, err
	}
	return dialects.Open(c.Dialect, opts...)
}
