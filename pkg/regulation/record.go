// Package regulation provides the regulation-data model and the pure
// filtering, grouping and lookup operations that every dashboard panel is
// built from.
//
// A Table is loaded once from a Source and treated as immutable afterwards.
// Every operation in this package returns a new value and never modifies its
// input, so views can be recomputed freely on each selection change.
package regulation

import "slices"

// Source column names as they appear in the header row of a data file.
const (
	ColCountry          = "Country/Region"
	ColRegulationName   = "Regulation Name"
	ColEnforcementLevel = "Enforcement Level"
	ColPenalties        = "Penalties"
	ColComplianceSteps  = "Compliance Steps"
	ColEnforcementBody  = "Enforcement Body"
	ColISOCode          = "ISO_Code"
	ColLawLink          = "Law Link"
	ColStartYear        = "Start Year"
	ColEndYear          = "End Year"
)

// RequiredColumns must be present in the header of every source.
var RequiredColumns = []string{
	ColCountry,
	ColRegulationName,
	ColEnforcementLevel,
	ColPenalties,
	ColComplianceSteps,
}

// SummaryColumns is the column set of the summary view.
var SummaryColumns = RequiredColumns

// optionalColumns are parsed into typed fields when present.
var optionalColumns = []string{ColLawLink, ColStartYear, ColEndYear}

// Enforcement level bounds.
const (
	MinEnforcementLevel = 1
	MaxEnforcementLevel = 4
)

// Record is one row of regulation metadata for a country or region.
// Empty strings and zero numbers mean the value is missing.
type Record struct {
	Country          string `json:"country"`
	RegulationName   string `json:"regulation_name,omitempty"`
	EnforcementLevel int    `json:"enforcement_level,omitempty"`
	Penalties        string `json:"penalties,omitempty"`
	ComplianceSteps  string `json:"compliance_steps,omitempty"`

	// Derived by Enrich from the static mappings.
	EnforcementBody string `json:"enforcement_body,omitempty"`
	ISOCode         string `json:"iso_code,omitempty"`

	LawLink   string `json:"law_link,omitempty"`
	StartYear int    `json:"start_year,omitempty"`
	EndYear   int    `json:"end_year,omitempty"`

	// Extra holds columns the core does not interpret, keyed by header name.
	Extra map[string]string `json:"extra,omitempty"`
}

// Complete reports whether every required field is present.
func (r Record) Complete() bool {
	return r.Country != "" &&
		r.RegulationName != "" &&
		r.EnforcementLevel != 0 &&
		r.Penalties != "" &&
		r.ComplianceSteps != ""
}

// clone returns a copy of r that shares no mutable state with it.
func (r Record) clone() Record {
	if r.Extra != nil {
		extra := make(map[string]string, len(r.Extra))
		for k, v := range r.Extra {
			extra[k] = v
		}
		r.Extra = extra
	}
	return r
}

// Table is an ordered set of records plus the header it was read with.
type Table struct {
	// Source identifies where the table was loaded from.
	Source string `json:"source,omitempty"`
	// Columns lists header names in source order, including pass-through columns.
	Columns []string `json:"columns"`
	Records []Record `json:"records"`
}

// Len returns the number of records, treating a nil table as empty.
func (t *Table) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Records)
}

// Empty reports whether the table has no records.
func (t *Table) Empty() bool {
	return t.Len() == 0
}

// HasColumn reports whether the header contains name.
func (t *Table) HasColumn(name string) bool {
	if t == nil {
		return false
	}
	return slices.Contains(t.Columns, name)
}

// derive returns a table with the same source and columns holding records.
func (t *Table) derive(records []Record) *Table {
	out := &Table{Records: records}
	if t != nil {
		out.Source = t.Source
		out.Columns = slices.Clone(t.Columns)
	}
	if out.Records == nil {
		out.Records = []Record{}
	}
	return out
}

// Clone returns a deep copy of the table.
func (t *Table) Clone() *Table {
	if t == nil {
		return nil
	}
	records := make([]Record, len(t.Records))
	for i, r := range t.Records {
		records[i] = r.clone()
	}
	return t.derive(records)
}

// Countries returns the unique countries of the table in first-appearance order.
func Countries(t *Table) []string {
	seen := make(map[string]struct{})
	countries := []string{}
	if t == nil {
		return countries
	}
	for _, r := range t.Records {
		if _, ok := seen[r.Country]; ok {
			continue
		}
		seen[r.Country] = struct{}{}
		countries = append(countries, r.Country)
	}
	return countries
}

// DefaultSelection returns the first two countries of the table, the
// selection the dashboard starts with.
func DefaultSelection(t *Table) []string {
	countries := Countries(t)
	if len(countries) > 2 {
		countries = countries[:2]
	}
	return countries
}
