package dashboard

import (
	"github.com/leapstack-labs/regdash/pkg/regulation"
)

// View is every panel of the dashboard for one selection.
type View struct {
	Source      string                          `json:"source"`
	Countries   []string                        `json:"countries"`
	Selected    []string                        `json:"selected"`
	Rows        int                             `json:"rows"`
	Records     *regulation.Table               `json:"records"`
	Summary     *regulation.Table               `json:"summary"`
	Regulations []regulation.CountryRegulations `json:"regulations"`
	Compliance  []regulation.CountrySteps       `json:"compliance"`
	Geo         []regulation.GeoRow             `json:"geo"`
	Penalties   []regulation.PenaltyRow         `json:"penalties"`
	Bodies      []regulation.BodyCard           `json:"bodies"`
	Links       []regulation.LawLink            `json:"links"`
}

// Empty reports whether the selection matched no rows.
func (v View) Empty() bool {
	return v.Rows == 0
}

// Recompute filters t by the selection of s and derives every panel from
// the result. Records holds the selected rows with their enforcement body
// and ISO code set from m. It does not modify t.
func Recompute(t *regulation.Table, m regulation.Mappings, s State) View {
	filtered := regulation.Enrich(regulation.FilterByCountry(t, s.Selected), m)

	selected := s.Selected
	if selected == nil {
		selected = []string{}
	}

	v := View{
		Countries:   regulation.Countries(t),
		Selected:    append([]string{}, selected...),
		Rows:        filtered.Len(),
		Records:     filtered,
		Summary:     regulation.SummaryTable(filtered),
		Regulations: regulation.GroupedRegulations(filtered),
		Compliance:  regulation.ComplianceBreakdown(filtered),
		Geo:         regulation.GeoView(filtered, m),
		Penalties:   regulation.PenaltiesView(filtered),
		Bodies:      regulation.EnforcementBodyCards(filtered, m),
		Links:       regulation.LawLinks(filtered, m),
	}
	if t != nil {
		v.Source = t.Source
	}
	return v
}
