package commands

import (
	"github.com/leapstack-labs/regdash/internal/cli/output"
	"github.com/leapstack-labs/regdash/internal/dashboard"
	"github.com/spf13/cobra"
)

// NewMapCommand creates the map command.
func NewMapCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "map",
		Short: "Show the enforcement-level map data",
		Long: `Show the ISO code and enforcement level of every regulation of the selected
countries, the data behind the choropleth map. Countries without an ISO
code cannot be placed on the map and are listed separately.`,
		Example: `  regdash map --all --output json`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd, func(v dashboard.View) any {
				return output.MapOutput{Selected: v.Selected, Regions: v.Geo, Unmapped: unmappedCountries(v)}
			}, renderMap)
		},
	}
}
