package commands

import (
	"github.com/leapstack-labs/regdash/internal/cli/output"
	"github.com/leapstack-labs/regdash/internal/dashboard"
	"github.com/spf13/cobra"
)

// NewSummaryCommand creates the summary command.
func NewSummaryCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "summary",
		Short: "Show the regulation summary table",
		Long: `Show one row per regulation of the selected countries with the summary
columns: country, regulation name, enforcement level, penalties and
compliance steps. Rows missing any of these values are left out and the
table is sorted by country.

Output adapts to environment:
  - Terminal: Styled, colored output
  - Piped/Scripted: Markdown format (agent-friendly)

Use --output to override: auto, text, markdown, json`,
		Example: `  # Summary for the default selection
  regdash summary

  # Summary for two countries as JSON
  regdash summary -c France -c Germany --output json

  # Summary for every country
  regdash summary --all`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd, summaryJSON, renderSummary)
		},
	}
}

func summaryJSON(v dashboard.View) any {
	return output.SummaryOutput{
		Source:   v.Source,
		Selected: v.Selected,
		Columns:  v.Summary.Columns,
		Records:  v.Summary.Records,
		Count:    v.Summary.Len(),
	}
}
