// Package config loads run options from defaults, an optional YAML file,
// SIFT_ environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"

	"github.com/praetorian-inc/sift/pkg/enum"
	"github.com/praetorian-inc/sift/pkg/report"
	"github.com/praetorian-inc/sift/pkg/rule"
	"github.com/praetorian-inc/sift/pkg/selection"
)

// EnvPrefix prefixes environment overrides, e.g. SIFT_MAX_ITEMS.
const EnvPrefix = "SIFT_"

// DefaultFiles are looked up in the working directory when no file is given.
var DefaultFiles = []string{".sift.yaml", ".sift.yml"}

// ErrInvalidConfig is returned for option values outside their domain.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every option of a scan run.
type Config struct {
	With       []string `koanf:"with"`
	Without    []string `koanf:"without"`
	NoDefaults bool     `koanf:"no_defaults"`

	Analyze  bool `koanf:"analyze"`
	MaxItems int  `koanf:"max_items"` // 0 = unbounded

	Format string `koanf:"format"`
	Color  string `koanf:"color"`

	Workers       int `koanf:"workers"`
	MaxLineLength int `koanf:"max_line_length"`

	// Rules is a rule file whose recognizer replaces the builtin one of
	// the same type.
	Rules string `koanf:"rules"`

	Verbose bool `koanf:"verbose"`
	Quiet   bool `koanf:"quiet"`

	// File is the config file that was read, if any.
	File string `koanf:"-"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"no_defaults":     false,
		"analyze":         false,
		"max_items":       0,
		"format":          report.FormatHuman,
		"color":           report.ColorAuto,
		"workers":         1,
		"max_line_length": enum.DefaultMaxLineLength,
		"rules":           "",
		"verbose":         false,
		"quiet":           false,
	}
}

// Default returns the configuration of a run with no file, env or flags.
func Default() *Config {
	k := koanf.New(".")
	_ = k.Load(confmap.Provider(defaults(), "."), nil)
	var cfg Config
	_ = k.Unmarshal("", &cfg)
	return &cfg
}

// Load builds the configuration.
// Precedence (highest to lowest): flags > env vars > config file > defaults.
// Only flags the user changed override lower layers. An explicit cfgFile must
// exist; otherwise the first of DefaultFiles present is used.
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	path := findConfigFile(cfgFile)
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", path, err)
		}
	}

	// SIFT_MAX_ITEMS -> max_items
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed || f.Name == "config" {
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
	cfg.File = path
	cfg.With = rule.ParseNames(cfg.With...)
	cfg.Without = rule.ParseNames(cfg.Without...)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// findConfigFile returns explicit when set, else the first default file found.
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

// Validate checks option domains. Type and group names are checked later by
// the selection resolver.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(report.Formats, c.Format) {
		errs = append(errs, fmt.Errorf("%w: format must be one of %s, got %q",
			ErrInvalidConfig, strings.Join(report.Formats, ", "), c.Format))
	}
	if !slices.Contains(report.ColorModes, c.Color) {
		errs = append(errs, fmt.Errorf("%w: color must be one of %s, got %q",
			ErrInvalidConfig, strings.Join(report.ColorModes, ", "), c.Color))
	}
	if c.MaxItems < 0 {
		errs = append(errs, fmt.Errorf("%w: max_items must not be negative", ErrInvalidConfig))
	}
	if c.Workers < 1 {
		errs = append(errs, fmt.Errorf("%w: workers must be at least 1", ErrInvalidConfig))
	}
	if c.MaxLineLength < 1 {
		errs = append(errs, fmt.Errorf("%w: max_line_length must be positive", ErrInvalidConfig))
	}
	if c.Verbose && c.Quiet {
		errs = append(errs, fmt.Errorf("%w: verbose and quiet are mutually exclusive", ErrInvalidConfig))
	}
	return errors.Join(errs...)
}

// SelectionOptions returns the type selection directives.
func (c *Config) SelectionOptions() selection.Options {
	return selection.Options{
		With:       c.With,
		Without:    c.Without,
		NoDefaults: c.NoDefaults,
	}
}

// Mode returns the report mode.
func (c *Config) Mode() report.Mode {
	if c.Analyze {
		return report.Analyze
	}
	return report.Listing
}

// LogLevel maps verbosity flags to a slog level.
func (c *Config) LogLevel() slog.Level {
	switch {
	case c.Verbose:
		return slog.LevelDebug
	case c.Quiet:
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
