// Package enum yields the input lines of a run.
package enum

import (
	"context"
	"io"
	"log/slog"
)

// DefaultMaxLineLength bounds a single line. Longer lines are truncated.
const DefaultMaxLineLength = 16 << 20

// Enumerator yields lines from a source in order.
type Enumerator interface {
	// Enumerate calls fn for every line with its 0-based index. Lines carry
	// no terminator and are valid UTF-8. A non-nil error from fn stops
	// enumeration and is returned.
	Enumerate(ctx context.Context, fn func(index int, line string) error) error
}

// Config for enumeration.
type Config struct {
	// MaxLineLength is the longest line kept, in bytes (0 = DefaultMaxLineLength).
	MaxLineLength int

	// Logger receives truncation and decode warnings. Nil discards them.
	Logger *slog.Logger
}

func (c Config) maxLineLength() int {
	if c.MaxLineLength <= 0 {
		return DefaultMaxLineLength
	}
	return c.MaxLineLength
}

func (c Config) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}

// Stats counts what an enumerator saw.
type Stats struct {
	Lines     int // lines yielded
	Lossy     int // lines with invalid UTF-8 replaced
	Truncated int // lines cut at MaxLineLength
}

// StatsReporter is implemented by enumerators that keep Stats.
type StatsReporter interface {
	Stats() Stats
}
