package commands

import (
	"github.com/leapstack-labs/regdash/internal/cli/output"
	"github.com/leapstack-labs/regdash/internal/dashboard"
	"github.com/spf13/cobra"
)

// NewLinksCommand creates the links command.
func NewLinksCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "links",
		Short: "List links to the text of each regulation",
		Long: `List the regulations of the selected countries that carry a law link,
with their start and end years when the data provides them.`,
		Example: `  regdash links --all --output markdown`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd, func(v dashboard.View) any {
				return output.LinksOutput{Selected: v.Selected, Links: v.Links}
			}, renderLinks)
		},
	}
}
