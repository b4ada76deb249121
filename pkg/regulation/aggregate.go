package regulation

import (
	"cmp"
	"slices"
	"strings"
)

// StepSeparator separates compliance steps inside one field.
const StepSeparator = ","

// ListSeparator joins lists for display.
const ListSeparator = ", "

// SummaryTable keeps the summary columns, drops every record missing one of
// them and sorts by country. The sort is stable, so records of the same
// country keep their relative order.
func SummaryTable(t *Table) *Table {
	var records []Record
	if t != nil {
		for _, r := range t.Records {
			if !r.Complete() {
				continue
			}
			records = append(records, Record{
				Country:          r.Country,
				RegulationName:   r.RegulationName,
				EnforcementLevel: r.EnforcementLevel,
				Penalties:        r.Penalties,
				ComplianceSteps:  r.ComplianceSteps,
			})
		}
	}
	slices.SortStableFunc(records, func(a, b Record) int {
		return cmp.Compare(a.Country, b.Country)
	})

	out := t.derive(records)
	out.Columns = slices.Clone(SummaryColumns)
	return out
}

// CountryRegulations is one entry of the grouped regulations view.
type CountryRegulations struct {
	Country     string `json:"country"`
	Regulations string `json:"regulations"`
}

// GroupedRegulations joins the regulation names of each country in row
// order with ", ", without removing duplicates. The result is sorted by
// country. Records without a regulation name add nothing to the join.
func GroupedRegulations(t *Table) []CountryRegulations {
	order := Countries(t)
	names := make(map[string][]string, len(order))
	if t != nil {
		for _, r := range t.Records {
			if r.RegulationName == "" {
				continue
			}
			names[r.Country] = append(names[r.Country], r.RegulationName)
		}
	}

	slices.Sort(order)
	out := make([]CountryRegulations, 0, len(order))
	for _, c := range order {
		out = append(out, CountryRegulations{
			Country:     c,
			Regulations: strings.Join(names[c], ListSeparator),
		})
	}
	return out
}

// ComplianceStepsFor splits the compliance steps of the first record for
// country on "," and trims each piece. Steps of later records for the same
// country are ignored. It returns an empty slice when there is no matching
// record or its steps are missing.
func ComplianceStepsFor(t *Table, country string) []string {
	if t == nil {
		return []string{}
	}
	country = NormalizeCountry(country)
	for _, r := range t.Records {
		if r.Country != country {
			continue
		}
		return SplitSteps(r.ComplianceSteps)
	}
	return []string{}
}

// SplitSteps splits a compliance-steps field and trims every piece. Empty
// pieces are kept so that joining the result reproduces the field.
func SplitSteps(field string) []string {
	if strings.TrimSpace(field) == "" {
		return []string{}
	}
	parts := strings.Split(field, StepSeparator)
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
	}
	return parts
}

// CountrySteps is the compliance-step breakdown of one country.
type CountrySteps struct {
	Country string   `json:"country"`
	Steps   []string `json:"steps"`
}

// ComplianceBreakdown returns the compliance steps of every country of t in
// first-appearance order, each computed by ComplianceStepsFor.
func ComplianceBreakdown(t *Table) []CountrySteps {
	countries := Countries(t)
	out := make([]CountrySteps, 0, len(countries))
	for _, c := range countries {
		out = append(out, CountrySteps{Country: c, Steps: ComplianceStepsFor(t, c)})
	}
	return out
}

// GeoRow is one region of the map view.
type GeoRow struct {
	Country          string `json:"country"`
	ISOCode          string `json:"iso_code"`
	EnforcementLevel int    `json:"enforcement_level,omitempty"`
}

// GeoView returns a row per record whose country has an ISO code.
// Records of unmapped countries are dropped.
func GeoView(t *Table, m Mappings) []GeoRow {
	out := []GeoRow{}
	if t == nil {
		return out
	}
	for _, r := range t.Records {
		code, ok := m.ISOCode(r.Country)
		if !ok {
			continue
		}
		out = append(out, GeoRow{
			Country:          r.Country,
			ISOCode:          code,
			EnforcementLevel: r.EnforcementLevel,
		})
	}
	return out
}

// PenaltyRow pairs a country with the penalties of one regulation.
type PenaltyRow struct {
	Country   string `json:"country"`
	Penalties string `json:"penalties"`
}

// PenaltiesView lists the penalties of every record, including records
// whose penalties are missing.
func PenaltiesView(t *Table) []PenaltyRow {
	out := []PenaltyRow{}
	if t == nil {
		return out
	}
	for _, r := range t.Records {
		out = append(out, PenaltyRow{Country: r.Country, Penalties: r.Penalties})
	}
	return out
}

// BodyCard is the enforcement-body card of one record.
type BodyCard struct {
	Country         string `json:"country"`
	RegulationName  string `json:"regulation_name"`
	EnforcementBody string `json:"enforcement_body,omitempty"`
}

// EnforcementBodyCards returns one card per record. The body is empty when
// the country is not in the enforcement-body mapping.
func EnforcementBodyCards(t *Table, m Mappings) []BodyCard {
	out := []BodyCard{}
	if t == nil {
		return out
	}
	for _, r := range t.Records {
		body, _ := m.EnforcementBody(r.Country)
		out = append(out, BodyCard{
			Country:         r.Country,
			RegulationName:  r.RegulationName,
			EnforcementBody: body,
		})
	}
	return out
}

// LawLink describes where the text of a regulation can be found.
type LawLink struct {
	Country         string `json:"country"`
	RegulationName  string `json:"regulation_name"`
	StartYear       int    `json:"start_year,omitempty"`
	EndYear         int    `json:"end_year,omitempty"`
	EnforcementBody string `json:"enforcement_body,omitempty"`
	URL             string `json:"url"`
}

// LawLinks returns the records that carry a law link.
func LawLinks(t *Table, m Mappings) []LawLink {
	out := []LawLink{}
	if t == nil {
		return out
	}
	for _, r := range t.Records {
		if r.LawLink == "" {
			continue
		}
		body, _ := m.EnforcementBody(r.Country)
		out = append(out, LawLink{
			Country:         r.Country,
			RegulationName:  r.RegulationName,
			StartYear:       r.StartYear,
			EndYear:         r.EndYear,
			EnforcementBody: body,
			URL:             r.LawLink,
		})
	}
	return out
}
