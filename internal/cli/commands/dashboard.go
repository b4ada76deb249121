package commands

import (
	"github.com/leapstack-labs/regdash/internal/cli/output"
	"github.com/leapstack-labs/regdash/internal/dashboard"
	"github.com/spf13/cobra"
)

// NewDashboardCommand creates the dashboard command.
func NewDashboardCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "dashboard",
		Short: "Show every dashboard panel for the selection",
		Long: `Show every panel of the dashboard for the selected countries: summary,
regulations by country, compliance steps, enforcement map, penalties,
enforcement bodies and law links.

With --output json the complete view is written as one document.`,
		Example: `  regdash dashboard -c France -c Germany
  regdash dashboard --all --output json > view.json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runView(cmd, func(v dashboard.View) any { return v }, renderDashboard)
		},
	}
}

// renderDashboard writes every panel of v.
func renderDashboard(r *output.Renderer, v dashboard.View) {
	renderSummary(r, v)
	r.Println()
	renderRegulations(r, v)
	r.Println()
	renderCompliance(r, v.Compliance)
	renderMap(r, v)
	r.Println()
	renderPenalties(r, v)
	r.Println()
	renderBodies(r, v)
	r.Println()
	renderLinks(r, v)
}
