package commands

import (
	"github.com/leapstack-labs/regdash/internal/cli/output"
	"github.com/leapstack-labs/regdash/pkg/regulation"
	"github.com/spf13/cobra"
)

// NewStepsCommand creates the steps command.
func NewStepsCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "steps [country...]",
		Short: "Show the compliance steps of each country",
		Long: `Show the compliance steps of each selected country, split on "," and
trimmed. Only the first regulation of a country contributes its steps.

Countries given as arguments replace the configured selection.`,
		Example: `  # Steps for the configured selection
  regdash steps

  # Steps for one country
  regdash steps "European Union"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSteps(cmd, args)
		},
	}
}

func runSteps(cmd *cobra.Command, args []string) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	var (
		selected []string
		steps    []regulation.CountrySteps
	)
	if len(args) > 0 {
		t, err := cmdCtx.LoadTable(cmd.Context())
		if err != nil {
			return err
		}
		selected = make([]string, 0, len(args))
		steps = make([]regulation.CountrySteps, 0, len(args))
		for _, c := range args {
			c = regulation.NormalizeCountry(c)
			selected = append(selected, c)
			steps = append(steps, regulation.CountrySteps{Country: c, Steps: regulation.ComplianceStepsFor(t, c)})
		}
	} else {
		v, err := cmdCtx.LoadView(cmd.Context())
		if err != nil {
			return err
		}
		selected = v.Selected
		steps = v.Compliance
	}

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.StepsOutput{Selected: selected, Countries: steps})
	}
	renderCompliance(r, steps)
	return nil
}
