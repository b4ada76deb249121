package commands

import (
	"github.com/leapstack-labs/regdash/internal/cli/output"
	"github.com/leapstack-labs/regdash/internal/dashboard"
	"github.com/spf13/cobra"
)

// NewRegulationsCommand creates the regulations command.
func NewRegulationsCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "regulations",
		Aliases: []string{"regs"},
		Short:   "List regulation names grouped by country",
		Long: `List the regulation names of each selected country, joined in row order
with ", ". Countries are sorted by name.`,
		Example: `  regdash regulations
  regdash regulations --all --output markdown`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd, func(v dashboard.View) any {
				return output.RegulationsOutput{Selected: v.Selected, Countries: v.Regulations}
			}, renderRegulations)
		},
	}
}
