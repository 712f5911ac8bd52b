package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/praetorian-inc/sift/pkg/config"
	"github.com/praetorian-inc/sift/pkg/explore"
	"github.com/praetorian-inc/sift/pkg/report"
)

var exploreCmd = &cobra.Command{
	Use:   "explore FILE",
	Short: "Interactively browse the classification of a file",
	Long: `Classify every line of FILE, then browse the matches in a terminal UI:
matched types on the left, the listed matches of the selected type on the
right. Press "o" to open the selected match's line in $PAGER.`,
	Args: cobra.ExactArgs(1),
	RunE: runExplore,
}

func init() {
	fs := exploreCmd.Flags()
	addSelectionFlags(fs)
	fs.Int("max-items", config.Default().MaxItems, "Maximum matches listed per type (0 = unbounded)")
	addInputFlags(fs)
}

func runExplore(cmd *cobra.Command, args []string) error {
	if args[0] == "-" {
		return fmt.Errorf("explore needs a file; stdin is reserved for the terminal")
	}

	cfg, err := config.Load(configFile, cmd.Flags())
	if err != nil {
		return err
	}
	log := newLogger(cmd.ErrOrStderr(), cfg.LogLevel())

	rep, err := classify(cmd, cfg, log, report.Listing, args)
	if err != nil {
		return err
	}

	p := tea.NewProgram(explore.New(rep, args[0]), tea.WithAltScreen(), tea.WithContext(cmd.Context()))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running explore TUI: %w", err)
	}
	return nil
}
