package main

import (
	"context"
	"io"
	"log/slog"

	"github.com/spf13/cobra"
)

var (
	configFile string
	verbose    bool
	quiet      bool
)

var rootCmd = &cobra.Command{
	Use:   "sift",
	Short: "Sift - classify the lines of a text stream by what they contain",
	Long: `Sift reads lines from a file or stdin and reports the urls, addresses,
hashes, identifiers, secrets, data fragments and stack traces it recognizes.

Noisy types (hex, base64, git-hash and the C++ detail types) are hidden unless
requested with --with or --no-defaults.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default .sift.yaml in the working directory)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (errors only)")

	// Add subcommands
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(typesCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// newLogger writes text logs to w at level.
func newLogger(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}
