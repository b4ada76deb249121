package commands

import (
	"fmt"
	"strings"

	"github.com/leapstack-labs/regdash/internal/cli/output"
	"github.com/leapstack-labs/regdash/internal/dashboard"
	"github.com/leapstack-labs/regdash/pkg/regulation"
	"github.com/spf13/cobra"
)

// runView loads the view for the configured selection and writes it as
// JSON or with render.
func runView(cmd *cobra.Command, toJSON func(dashboard.View) any, render func(*output.Renderer, dashboard.View)) error {
	cmdCtx := NewCommandContext(cmd)
	v, err := cmdCtx.LoadView(cmd.Context())
	if err != nil {
		return err
	}

	r := cmdCtx.Renderer
	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(toJSON(v))
	}
	renderSelection(r, v)
	render(r, v)
	return nil
}

// Panel renderers shared by the single-panel commands, the dashboard
// command and the explore REPL. They handle text and markdown; JSON is
// written by each command from its own output type.

func renderSelection(r *output.Renderer, v dashboard.View) {
	r.KeyValue("Source", v.Source)
	if len(v.Selected) == 0 {
		r.KeyValue("Selected", "(none)")
	} else {
		r.KeyValue("Selected", strings.Join(v.Selected, regulation.ListSeparator))
	}
	r.Println()
	if v.Empty() {
		r.Muted("No regulations match the selection.")
		r.Println()
	}
}

func levelCell(r *output.Renderer, level int) string {
	text := output.FormatLevel(level)
	if r.EffectiveMode() == output.ModeMarkdown {
		return text
	}
	return r.Styles().LevelStyle(level).Render(text)
}

func countryCell(r *output.Renderer, country string) string {
	if r.EffectiveMode() == output.ModeMarkdown {
		return country
	}
	return r.Styles().Country.Render(country)
}

func renderSummary(r *output.Renderer, v dashboard.View) {
	r.Header(2, "Summary")
	rows := make([][]string, 0, v.Summary.Len())
	if v.Summary != nil {
		for _, rec := range v.Summary.Records {
			rows = append(rows, []string{
				countryCell(r, rec.Country),
				rec.RegulationName,
				levelCell(r, rec.EnforcementLevel),
				rec.Penalties,
				rec.ComplianceSteps,
			})
		}
	}
	r.Table(regulation.SummaryColumns, rows)
}

func renderRegulations(r *output.Renderer, v dashboard.View) {
	r.Header(2, "Regulations by Country")
	rows := make([][]string, 0, len(v.Regulations))
	for _, g := range v.Regulations {
		rows = append(rows, []string{countryCell(r, g.Country), output.OrDash(g.Regulations)})
	}
	r.Table([]string{regulation.ColCountry, "Regulations"}, rows)
}

func renderCompliance(r *output.Renderer, steps []regulation.CountrySteps) {
	r.Header(2, "Compliance Steps")
	if len(steps) == 0 {
		r.Println("(0 rows)")
		return
	}
	for _, cs := range steps {
		r.Header(3, cs.Country)
		if len(cs.Steps) == 0 {
			r.Muted("No compliance steps recorded.")
		}
		for _, step := range cs.Steps {
			r.Bullet(output.OrDash(step))
		}
		r.Println()
	}
}

func renderMap(r *output.Renderer, v dashboard.View) {
	r.Header(2, "Enforcement Map")
	rows := make([][]string, 0, len(v.Geo))
	for _, g := range v.Geo {
		rows = append(rows, []string{countryCell(r, g.Country), g.ISOCode, levelCell(r, g.EnforcementLevel)})
	}
	r.Table([]string{regulation.ColCountry, regulation.ColISOCode, regulation.ColEnforcementLevel}, rows)
	if unmapped := unmappedCountries(v); len(unmapped) > 0 {
		r.Muted("Not on the map (no ISO code): " + strings.Join(unmapped, regulation.ListSeparator))
	}
}

func renderPenalties(r *output.Renderer, v dashboard.View) {
	r.Header(2, "Penalties")
	rows := make([][]string, 0, len(v.Penalties))
	for _, p := range v.Penalties {
		rows = append(rows, []string{countryCell(r, p.Country), output.OrDash(p.Penalties)})
	}
	r.Table([]string{regulation.ColCountry, regulation.ColPenalties}, rows)
}

func renderBodies(r *output.Renderer, v dashboard.View) {
	r.Header(2, "Enforcement Bodies")
	rows := make([][]string, 0, len(v.Bodies))
	for _, b := range v.Bodies {
		rows = append(rows, []string{
			countryCell(r, b.Country),
			output.OrDash(b.RegulationName),
			output.OrDash(b.EnforcementBody),
		})
	}
	r.Table([]string{regulation.ColCountry, regulation.ColRegulationName, regulation.ColEnforcementBody}, rows)
}

func renderLinks(r *output.Renderer, v dashboard.View) {
	r.Header(2, "Law Links")
	if r.EffectiveMode() == output.ModeMarkdown {
		if len(v.Links) == 0 {
			r.Println("(0 rows)")
			return
		}
		for _, l := range v.Links {
			r.Bullet(fmt.Sprintf("%s (%s, %s)",
				output.FormatLink(output.OrDash(l.RegulationName), l.URL), l.Country, formatYears(l.StartYear, l.EndYear)))
		}
		r.Println()
		return
	}

	rows := make([][]string, 0, len(v.Links))
	for _, l := range v.Links {
		rows = append(rows, []string{
			countryCell(r, l.Country),
			output.OrDash(l.RegulationName),
			formatYears(l.StartYear, l.EndYear),
			l.URL,
		})
	}
	r.Table([]string{regulation.ColCountry, regulation.ColRegulationName, "Years", regulation.ColLawLink}, rows)
}

func formatYears(start, end int) string {
	switch {
	case start == 0 && end == 0:
		return "-"
	case end == 0:
		return fmt.Sprintf("%d-", start)
	case start == 0:
		return fmt.Sprintf("-%d", end)
	}
	return fmt.Sprintf("%d-%d", start, end)
}

// unmappedCountries returns the selected countries with rows that the map
// view dropped for lack of an ISO code.
func unmappedCountries(v dashboard.View) []string {
	onMap := make(map[string]struct{}, len(v.Geo))
	for _, g := range v.Geo {
		onMap[g.Country] = struct{}{}
	}
	unmapped := []string{}
	for _, g := range v.Regulations {
		if _, ok := onMap[g.Country]; !ok {
			unmapped = append(unmapped, g.Country)
		}
	}
	return unmapped
}
