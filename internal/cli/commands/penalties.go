package commands

import (
	"github.com/leapstack-labs/regdash/internal/cli/output"
	"github.com/leapstack-labs/regdash/internal/dashboard"
	"github.com/spf13/cobra"
)

// NewPenaltiesCommand creates the penalties command.
func NewPenaltiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "penalties",
		Short:   "Show penalties per regulation",
		Long:    `Show the penalties of every regulation of the selected countries, including regulations whose penalties are not recorded.`,
		Example: `  regdash penalties -c "European Union"`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd, func(v dashboard.View) any {
				return output.PenaltiesOutput{Selected: v.Selected, Penalties: v.Penalties}
			}, renderPenalties)
		},
	}
}
