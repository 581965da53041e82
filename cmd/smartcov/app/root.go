package app

import (
	"github.com/spf13/cobra"
)

// NewSmartCovCommand creates the root command for the smartcov tool.
func NewSmartCovCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "smartcov",
		Short: "Coverage analysis for the files you actually changed.",
		Long: `smartcov parses an LCOV tracefile, narrows it to the files modified
against a base git revision, and renders console, HTML and JSON reports,
optionally with AI-generated insights about coverage gaps.`,
	}

	cmd.AddCommand(NewAnalyzeCommand())
	cmd.AddCommand(NewVersionCommand())

	return cmd
}
