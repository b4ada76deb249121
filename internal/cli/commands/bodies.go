package commands

import (
	"github.com/leapstack-labs/regdash/internal/cli/output"
	"github.com/leapstack-labs/regdash/internal/dashboard"
	"github.com/spf13/cobra"
)

// NewBodiesCommand creates the bodies command.
func NewBodiesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "bodies",
		Short: "Show the enforcement body of each regulation",
		Long: `Show one card per regulation of the selected countries with the body that
enforces it. Bodies come from the enforcement_bodies mapping; countries
without an entry show "-".`,
		Example: `  regdash bodies --all`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd, func(v dashboard.View) any {
				return output.BodiesOutput{Selected: v.Selected, Bodies: v.Bodies}
			}, renderBodies)
		},
	}
}
