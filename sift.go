// Package sift classifies the lines of a text stream (log output, strings
// dumped from a binary) into semantic types such as urls, hashes, secrets and
// stack traces.
//
// # Basic Usage
//
// Create a classifier with the default type selection and classify a line:
//
//	c, err := sift.New()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	for _, m := range c.ClassifyString("visit https://example.com from 1.2.3.4") {
//	    fmt.Printf("%s: %s\n", m.Type, m.Text)
//	}
//
// # Reports
//
// Scan a whole stream into a capped per-type listing:
//
//	c, err := sift.New(sift.WithTypes("network"), sift.WithoutTypes("email"))
//	rep, _, err := c.Scan(ctx, os.Stdin, sift.Listing, 10)
package sift

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/praetorian-inc/sift/pkg/enum"
	"github.com/praetorian-inc/sift/pkg/matcher"
	"github.com/praetorian-inc/sift/pkg/report"
	"github.com/praetorian-inc/sift/pkg/scanner"
	"github.com/praetorian-inc/sift/pkg/selection"
	"github.com/praetorian-inc/sift/pkg/types"
)

// Re-export commonly used types for convenience.
// Users can import just "github.com/praetorian-inc/sift" without subpackages.
type (
	// Match is one extraction attributed to one type on one line.
	Match = types.Match

	// Type identifies a classification category.
	Type = types.Type

	// Rule defines the recognizer of one type.
	Rule = types.Rule

	// Selection is the resolved set of active types.
	Selection = types.Selection

	// ConfigError reports an unknown type or group name.
	ConfigError = types.ConfigError

	// Report is the result of a scan.
	Report = report.Report

	// Stats summarizes a scan.
	Stats = scanner.Stats
)

// Report modes.
const (
	Listing = report.Listing
	Analyze = report.Analyze
)

// Classifier runs the recognizers of a type selection.
type Classifier struct {
	matcher *matcher.Matcher
	config  *classifierConfig
}

type classifierConfig struct {
	rules         []*types.Rule
	selection     selection.Options
	workers       int
	maxLineLength int
	logger        *slog.Logger
}

// Option configures a Classifier.
type Option func(*classifierConfig)

// WithRules uses custom rules instead of the builtin ones. Every active type
// still needs exactly one rule.
func WithRules(rules []*Rule) Option {
	return func(c *classifierConfig) {
		c.rules = rules
	}
}

// WithTypes restricts classification to the named types and groups.
func WithTypes(names ...string) Option {
	return func(c *classifierConfig) {
		c.selection.With = append(c.selection.With, names...)
	}
}

// WithoutTypes removes the named types and groups from the selection.
func WithoutTypes(names ...string) Option {
	return func(c *classifierConfig) {
		c.selection.Without = append(c.selection.Without, names...)
	}
}

// WithNoDefaults includes the types hidden by default.
func WithNoDefaults() Option {
	return func(c *classifierConfig) {
		c.selection.NoDefaults = true
	}
}

// WithWorkers shards Scan across n goroutines. Default is 1.
func WithWorkers(n int) Option {
	return func(c *classifierConfig) {
		c.workers = n
	}
}

// WithMaxLineLength truncates longer lines during Scan.
func WithMaxLineLength(n int) Option {
	return func(c *classifierConfig) {
		c.maxLineLength = n
	}
}

// WithLogger sets the logger for warnings and debug output.
func WithLogger(l *slog.Logger) Option {
	return func(c *classifierConfig) {
		c.logger = l
	}
}

// New resolves the selection and compiles its recognizers. Unknown type or
// group names fail here with *ConfigError values.
//
// By default, the classifier:
//   - Uses the builtin rules
//   - Activates every type that is not hidden by default
//   - Scans sequentially
func New(opts ...Option) (*Classifier, error) {
	config := &classifierConfig{workers: 1}
	for _, opt := range opts {
		opt(config)
	}

	sel, err := selection.Resolve(config.selection)
	if err != nil {
		return nil, err
	}

	if config.rules == nil {
		rules, err := scanner.BuiltinRules()
		if err != nil {
			return nil, fmt.Errorf("loading builtin rules: %w", err)
		}
		config.rules = rules
	}

	m, err := matcher.New(matcher.Config{
		Rules:     config.rules,
		Selection: sel,
		Logger:    config.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating matcher: %w", err)
	}

	return &Classifier{matcher: m, config: config}, nil
}

// Selection returns the active types.
func (c *Classifier) Selection() Selection {
	return c.matcher.Selection()
}

// ClassifyString classifies a single line.
func (c *Classifier) ClassifyString(line string) []Match {
	return c.matcher.Classify(line, 0)
}

// ClassifyLines classifies lines in order; Match.Line is the slice index.
func (c *Classifier) ClassifyLines(lines []string) []Match {
	var out []Match
	for i, line := range lines {
		out = append(out, c.matcher.Classify(line, i)...)
	}
	return out
}

// Scan reads r line by line and builds a report. maxItems caps each type's
// listing (0 = unbounded) and is ignored in Analyze mode.
func (c *Classifier) Scan(ctx context.Context, r io.Reader, mode report.Mode, maxItems int) (*Report, Stats, error) {
	e := enum.NewReaderEnumerator(r, enum.Config{
		MaxLineLength: c.config.maxLineLength,
		Logger:        c.config.logger,
	})
	acc := report.New(mode, maxItems)
	s := &scanner.Scanner{
		Matcher: c.matcher,
		Workers: c.config.workers,
		Logger:  c.config.logger,
	}
	stats, err := s.Run(ctx, e, acc)
	if err != nil {
		return nil, stats, err
	}
	return acc.Report(), stats, nil
}

// LoadBuiltinRules returns the builtin rules, one per type.
func LoadBuiltinRules() ([]*Rule, error) {
	return scanner.BuiltinRules()
}
