package main

import (
	"context"
	"errors"

	"github.com/spf13/cobra"

	"github.com/praetorian-inc/sift/pkg/config"
	"github.com/praetorian-inc/sift/pkg/selection"
	"github.com/praetorian-inc/sift/pkg/serve"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run as a streaming classification server",
	Long: `Run Sift as a long-lived server that accepts classify requests via stdin
and writes matches to stdout using NDJSON format.

The process resolves the type selection and compiles the recognizers once at
startup, then answers requests until stdin closes, a close request arrives or
SIGTERM is received. Line indexes continue across requests.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	addSelectionFlags(serveCmd.Flags())
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	log := newLogger(cmd.ErrOrStderr(), cfg.LogLevel())

	sel, err := selection.Resolve(cfg.SelectionOptions())
	if err != nil {
		return err
	}
	m, err := newMatcher(cfg, sel, log)
	if err != nil {
		return err
	}
	log.Debug("serving", "types", sel.String())

	srv := serve.NewServer(m, cmd.InOrStdin(), cmd.OutOrStdout())
	if err := srv.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
