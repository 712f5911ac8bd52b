package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/praetorian-inc/sift/pkg/enum"
	"github.com/praetorian-inc/sift/pkg/report"
)

// newFlags mirrors the scan command's flag set.
func newFlags(t *testing.T, args ...string) *pflag.FlagSet {
	t.Helper()
	fs := pflag.NewFlagSet("scan", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.StringSlice("with", nil, "")
	fs.StringSlice("without", nil, "")
	fs.Bool("no-defaults", false, "")
	fs.Bool("analyze", false, "")
	fs.Int("max-items", 0, "")
	fs.String("format", report.FormatHuman, "")
	fs.String("color", report.ColorAuto, "")
	fs.Int("workers", 1, "")
	fs.Int("max-line-length", enum.DefaultMaxLineLength, "")
	fs.BoolP("verbose", "v", false, "")
	fs.BoolP("quiet", "q", false, "")
	require.NoError(t, fs.Parse(args))
	return fs
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, report.FormatHuman, cfg.Format)
	assert.Equal(t, report.ColorAuto, cfg.Color)
	assert.Equal(t, 1, cfg.Workers)
	assert.Equal(t, enum.DefaultMaxLineLength, cfg.MaxLineLength)
	assert.Zero(t, cfg.MaxItems)
	assert.False(t, cfg.Analyze)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_NoSources(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("", newFlags(t))
	require.NoError(t, err)
	assert.Empty(t, cfg.File)
	assert.Empty(t, cfg.With)
	assert.Equal(t, report.Listing, cfg.Mode())
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel())
}

func TestLoad_Precedence(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	path := writeFile(t, dir, "custom.yaml", `
with: [network, md5]
max_items: 5
format: table
workers: 2
`)

	t.Run("file", func(t *testing.T) {
		cfg, err := Load(path, newFlags(t))
		require.NoError(t, err)
		assert.Equal(t, path, cfg.File)
		assert.Equal(t, []string{"network", "md5"}, cfg.With)
		assert.Equal(t, 5, cfg.MaxItems)
		assert.Equal(t, report.FormatTable, cfg.Format)
		assert.Equal(t, 2, cfg.Workers)
	})

	t.Run("env over file", func(t *testing.T) {
		t.Setenv("SIFT_MAX_ITEMS", "7")
		t.Setenv("SIFT_WITH", "url,ipv4")
		cfg, err := Load(path, newFlags(t))
		require.NoError(t, err)
		assert.Equal(t, 7, cfg.MaxItems)
		assert.Equal(t, []string{"url", "ipv4"}, cfg.With)
		assert.Equal(t, report.FormatTable, cfg.Format)
	})

	t.Run("flags over env", func(t *testing.T) {
		t.Setenv("SIFT_MAX_ITEMS", "7")
		cfg, err := Load(path, newFlags(t, "--max-items", "1", "--with", "email", "--with", "uuid"))
		require.NoError(t, err)
		assert.Equal(t, 1, cfg.MaxItems)
		assert.Equal(t, []string{"email", "uuid"}, cfg.With)
	})

	t.Run("unchanged flags keep lower layers", func(t *testing.T) {
		cfg, err := Load(path, newFlags(t, "--analyze"))
		require.NoError(t, err)
		assert.True(t, cfg.Analyze)
		assert.Equal(t, report.Analyze, cfg.Mode())
		assert.Equal(t, 5, cfg.MaxItems)
		assert.Equal(t, 2, cfg.Workers)
	})
}

func TestLoad_DefaultFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	writeFile(t, dir, ".sift.yaml", "no_defaults: true\nwithout: [hex]\n")

	cfg, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, ".sift.yaml", cfg.File)
	opts := cfg.SelectionOptions()
	assert.True(t, opts.NoDefaults)
	assert.Equal(t, []string{"hex"}, opts.Without)
}

func TestLoad_CommaSeparatedFlags(t *testing.T) {
	t.Chdir(t.TempDir())
	cfg, err := Load("", newFlags(t, "--with", "url, ipv4", "--without", ",email,"))
	require.NoError(t, err)
	assert.Equal(t, []string{"url", "ipv4"}, cfg.With)
	assert.Equal(t, []string{"email"}, cfg.Without)
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	t.Run("missing explicit file", func(t *testing.T) {
		_, err := Load(filepath.Join(dir, "absent.yaml"), nil)
		assert.ErrorContains(t, err, "error reading config file")
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeFile(t, dir, "bad.yaml", "with: [unterminated\n")
		_, err := Load(path, nil)
		assert.Error(t, err)
	})

	t.Run("invalid values", func(t *testing.T) {
		_, err := Load("", newFlags(t, "--format", "xml", "--max-items", "-1"))
		assert.ErrorIs(t, err, ErrInvalidConfig)
		assert.ErrorContains(t, err, "format must be one of")
		assert.ErrorContains(t, err, "max_items")
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"default", func(*Config) {}, ""},
		{"json format", func(c *Config) { c.Format = report.FormatJSON }, ""},
		{"unknown format", func(c *Config) { c.Format = "yaml" }, "format"},
		{"unknown color", func(c *Config) { c.Color = "sometimes" }, "color"},
		{"negative max items", func(c *Config) { c.MaxItems = -3 }, "max_items"},
		{"zero workers", func(c *Config) { c.Workers = 0 }, "workers"},
		{"zero line length", func(c *Config) { c.MaxLineLength = 0 }, "max_line_length"},
		{"verbose and quiet", func(c *Config) { c.Verbose, c.Quiet = true, true }, "mutually exclusive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidConfig)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}

func TestLogLevel(t *testing.T) {
	assert.Equal(t, slog.LevelDebug, (&Config{Verbose: true}).LogLevel())
	assert.Equal(t, slog.LevelError, (&Config{Quiet: true}).LogLevel())
	assert.Equal(t, slog.LevelWarn, (&Config{}).LogLevel())
}
