package commands

import (
	"fmt"
	"slices"

	"github.com/leapstack-labs/regdash/internal/cli/output"
	"github.com/leapstack-labs/regdash/pkg/regulation"
	"github.com/spf13/cobra"
)

// NewCountriesCommand creates the countries command.
func NewCountriesCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "countries",
		Short: "List the countries in the data source",
		Long: `List every country or region of the data source in first-appearance order,
with its number of regulations and mapped ISO code and enforcement body.
Countries marked as default are selected when no --country is given.`,
		Example: `  regdash countries
  regdash countries --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCountries(cmd)
		},
	}
}

func runCountries(cmd *cobra.Command) error {
	cmdCtx := NewCommandContext(cmd)
	r := cmdCtx.Renderer

	t, err := cmdCtx.LoadTable(cmd.Context())
	if err != nil {
		return err
	}
	infos := countryInfos(t, cmdCtx.Cfg.RegulationMappings())

	switch r.EffectiveMode() {
	case output.ModeJSON:
		return r.JSON(output.CountriesOutput{Source: t.Source, Countries: infos})
	default:
		r.Header(1, fmt.Sprintf("Countries (%d total)", len(infos)))
		rows := make([][]string, 0, len(infos))
		for _, c := range infos {
			def := ""
			if c.Default {
				def = output.SymbolSuccess
			}
			rows = append(rows, []string{
				countryCell(r, c.Country),
				fmt.Sprintf("%d", c.Regulations),
				output.OrDash(c.ISOCode),
				output.OrDash(c.EnforcementBody),
				def,
			})
		}
		r.Table([]string{regulation.ColCountry, "Regulations", regulation.ColISOCode, regulation.ColEnforcementBody, "Default"}, rows)
		return nil
	}
}

func countryInfos(t *regulation.Table, m regulation.Mappings) []output.CountryInfo {
	counts := make(map[string]int)
	for _, rec := range t.Records {
		counts[rec.Country]++
	}
	defaults := regulation.DefaultSelection(t)

	countries := regulation.Countries(t)
	infos := make([]output.CountryInfo, 0, len(countries))
	for _, c := range countries {
		code, _ := m.ISOCode(c)
		body, _ := m.EnforcementBody(c)
		infos = append(infos, output.CountryInfo{
			Country:         c,
			Regulations:     counts[c],
			ISOCode:         code,
			EnforcementBody: body,
			Default:         slices.Contains(defaults, c),
		})
	}
	return infos
}
