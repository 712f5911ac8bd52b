package main

import (
	"github.com/spf13/cobra"

	"github.com/praetorian-inc/sift/pkg/report"
)

var typesFormat string

var typesCmd = &cobra.Command{
	Use:   "types",
	Short: "List classification types and groups",
	Long:  "Display every type with its category and default visibility, and every group with its members",
	Args:  cobra.NoArgs,
	RunE:  runTypes,
}

func init() {
	typesCmd.Flags().StringVar(&typesFormat, "format", report.FormatTable, "Output format: table, json")
}

func runTypes(cmd *cobra.Command, args []string) error {
	return report.RenderCatalog(cmd.OutOrStdout(), report.NewCatalog(), typesFormat)
}
