package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/praetorian-inc/sift/pkg/report"
	"github.com/praetorian-inc/sift/pkg/types"
)

var (
	rulesPath    string
	outputFormat string
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Manage recognizer rules",
	Long:  "Commands for listing and checking recognizer rules",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recognizer rules",
	Long:  "Display the recognizer rule of every type, with a custom rule file applied if given",
	Args:  cobra.NoArgs,
	RunE:  runRulesList,
}

func init() {
	rulesCmd.AddCommand(rulesListCmd)
	rulesListCmd.Flags().StringVar(&rulesPath, "rules", "", "Rule file replacing the builtin recognizer of its type")
	rulesListCmd.Flags().StringVar(&outputFormat, "format", report.FormatTable, "Output format: table, json")
}

func runRulesList(cmd *cobra.Command, args []string) error {
	rules, err := loadRules(rulesPath)
	if err != nil {
		return fmt.Errorf("loading rules: %w", err)
	}

	switch outputFormat {
	case report.FormatJSON:
		return outputRulesJSON(cmd, rules)
	case report.FormatTable:
		return outputRulesTable(cmd, rules)
	default:
		return fmt.Errorf("unknown output format: %s", outputFormat)
	}
}

// =============================================================================
// HELPERS
// =============================================================================

func outputRulesJSON(cmd *cobra.Command, rules []*types.Rule) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(rules)
}

func outputRulesTable(cmd *cobra.Command, rules []*types.Rule) error {
	t := table.NewWriter()
	t.SetOutputMirror(cmd.OutOrStdout())
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"ID", "Name", "Keywords", "Extraction"})

	for _, r := range rules {
		keywords := "-"
		if len(r.Keywords) > 0 {
			keywords = r.Keywords[0]
			if len(r.Keywords) > 1 {
				keywords += fmt.Sprintf(" (+%d)", len(r.Keywords)-1)
			}
		}
		t.AppendRow(table.Row{r.ID, r.Name, keywords, extraction(r)})
	}
	t.Render()
	return nil
}

// extraction describes what a rule reports for a match.
func extraction(r *types.Rule) string {
	var parts []string
	switch {
	case r.WholeLine:
		parts = append(parts, "whole line")
	case r.Group != "":
		parts = append(parts, "match, verified on "+r.Group)
	default:
		parts = append(parts, "match")
	}
	if r.Trim != "" {
		parts = append(parts, "trimmed")
	}
	return strings.Join(parts, ", ")
}
