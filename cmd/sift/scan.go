package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/praetorian-inc/sift/pkg/config"
	"github.com/praetorian-inc/sift/pkg/enum"
	"github.com/praetorian-inc/sift/pkg/matcher"
	"github.com/praetorian-inc/sift/pkg/report"
	"github.com/praetorian-inc/sift/pkg/rule"
	"github.com/praetorian-inc/sift/pkg/scanner"
	"github.com/praetorian-inc/sift/pkg/selection"
	"github.com/praetorian-inc/sift/pkg/types"
)

var scanCmd = &cobra.Command{
	Use:   "scan [file|-]",
	Short: "Classify every line of a file or stdin",
	Long: `Classify every line of a file, or of stdin when no file or "-" is given.

TYPE arguments accept a type name or a group name (see "sift types").
Options may also come from a config file or SIFT_ environment variables,
e.g. SIFT_MAX_ITEMS=10. Flags take precedence.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	addScanFlags(scanCmd.Flags())
}

func addScanFlags(fs *pflag.FlagSet) {
	d := config.Default()
	addSelectionFlags(fs)
	fs.Bool("analyze", false, "Report match counts per type instead of listing matches")
	fs.Int("max-items", d.MaxItems, "Maximum matches listed per type (0 = unbounded)")
	fs.String("format", d.Format, "Output format: human, json, table, sarif")
	fs.String("color", d.Color, "Color output: auto, always, never")
	addInputFlags(fs)
}

// addSelectionFlags registers the flags that pick the active types and
// their recognizers.
func addSelectionFlags(fs *pflag.FlagSet) {
	fs.StringSlice("with", nil, "Classify only these types or groups (repeatable, comma-separated)")
	fs.StringSlice("without", nil, "Never classify these types or groups (repeatable, comma-separated)")
	fs.Bool("no-defaults", false, "Include types hidden by default")
	fs.String("rules", "", "Rule file replacing the builtin recognizer of its type")
}

func addInputFlags(fs *pflag.FlagSet) {
	d := config.Default()
	fs.Int("workers", d.Workers, "Number of classification workers")
	fs.Int("max-line-length", d.MaxLineLength, "Lines longer than this many bytes are truncated")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	log := newLogger(cmd.ErrOrStderr(), cfg.LogLevel())
	if cfg.File != "" {
		log.Debug("loaded config", "file", cfg.File)
	}

	rep, err := classify(cmd, cfg, log, cfg.Mode(), args)
	if err != nil {
		return err
	}

	opts := report.RenderOptions{
		Format:      cfg.Format,
		Color:       cfg.Color,
		ToolVersion: version,
	}
	if len(args) > 0 {
		opts.Source = args[0]
	}
	return report.Render(cmd.OutOrStdout(), rep, opts)
}

// classify resolves the selection, builds the matcher and runs the scanner
// over the input named by args.
func classify(cmd *cobra.Command, cfg *config.Config, log *slog.Logger, mode report.Mode, args []string) (*report.Report, error) {
	// Unknown names fail here, before any input is opened.
	sel, err := selection.Resolve(cfg.SelectionOptions())
	if err != nil {
		return nil, err
	}
	log.Debug("selection resolved", "types", sel.String())

	m, err := newMatcher(cfg, sel, log)
	if err != nil {
		return nil, err
	}

	input, err := openInput(cmd, args, enum.Config{MaxLineLength: cfg.MaxLineLength, Logger: log})
	if err != nil {
		return nil, err
	}

	acc := report.New(mode, cfg.MaxItems)
	s := &scanner.Scanner{
		Matcher: m,
		Workers: cfg.Workers,
		Logger:  log,
	}
	stats, err := s.Run(cmd.Context(), input, acc)
	if err != nil {
		return nil, fmt.Errorf("scanning: %w", err)
	}
	logStats(log, stats)
	return acc.Report(), nil
}

// =============================================================================
// HELPERS
// =============================================================================

func newMatcher(cfg *config.Config, sel types.Selection, log *slog.Logger) (*matcher.Matcher, error) {
	rules, err := loadRules(cfg.Rules)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}
	m, err := matcher.New(matcher.Config{
		Rules:     rules,
		Selection: sel,
		Logger:    log,
	})
	if err != nil {
		return nil, fmt.Errorf("creating matcher: %w", err)
	}
	return m, nil
}

// loadRules returns the builtin rules, with the recognizer from path (if any)
// replacing the builtin one of its type.
func loadRules(path string) ([]*types.Rule, error) {
	builtin, err := scanner.BuiltinRules()
	if err != nil {
		return nil, err
	}
	if path == "" {
		return builtin, nil
	}

	custom, err := rule.NewLoader().LoadRuleFile(path)
	if err != nil {
		return nil, err
	}
	if err := rule.ValidateRule(custom); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := matcher.ValidateExamples(custom); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rule.Override(builtin, []*types.Rule{custom}), nil
}

// openInput returns the line source: stdin for no argument or "-", else the
// named file.
func openInput(cmd *cobra.Command, args []string, cfg enum.Config) (enum.Enumerator, error) {
	if len(args) == 0 || args[0] == "-" {
		return enum.NewReaderEnumerator(cmd.InOrStdin(), cfg), nil
	}

	target := args[0]
	info, err := os.Stat(target)
	if err != nil {
		return nil, fmt.Errorf("input does not exist: %s", target)
	}
	if info.IsDir() {
		return nil, fmt.Errorf("input is a directory: %s", target)
	}
	return enum.NewFileEnumerator(target, cfg), nil
}

func logStats(log *slog.Logger, stats scanner.Stats) {
	log.Debug("scan finished",
		"lines", stats.Lines,
		"matches", stats.Matches)
	if stats.LossyLines > 0 {
		log.Info("invalid UTF-8 replaced", "lines", stats.LossyLines)
	}
	if stats.TruncatedLines > 0 {
		log.Warn("long lines truncated", "lines", stats.TruncatedLines)
	}
	if stats.RegexFailures > 0 {
		log.Warn("recognizers timed out; affected lines report no match", "count", stats.RegexFailures)
	}
}
