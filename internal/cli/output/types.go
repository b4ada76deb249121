package output

import "github.com/leapstack-labs/regdash/pkg/regulation"

// SummaryOutput is the JSON output of the summary command.
type SummaryOutput struct {
	Source   string              `json:"source"`
	Selected []string            `json:"selected"`
	Columns  []string            `json:"columns"`
	Records  []regulation.Record `json:"records"`
	Count    int                 `json:"count"`
}

// RegulationsOutput is the JSON output of the regulations command.
type RegulationsOutput struct {
	Selected  []string                        `json:"selected"`
	Countries []regulation.CountryRegulations `json:"countries"`
}

// StepsOutput is the JSON output of the steps command.
type StepsOutput struct {
	Selected  []string                  `json:"selected"`
	Countries []regulation.CountrySteps `json:"countries"`
}

// MapOutput is the JSON output of the map command.
type MapOutput struct {
	Selected []string            `json:"selected"`
	Regions  []regulation.GeoRow `json:"regions"`
	Unmapped []string            `json:"unmapped"`
}

// PenaltiesOutput is the JSON output of the penalties command.
type PenaltiesOutput struct {
	Selected  []string                `json:"selected"`
	Penalties []regulation.PenaltyRow `json:"penalties"`
}

// BodiesOutput is the JSON output of the bodies command.
type BodiesOutput struct {
	Selected []string              `json:"selected"`
	Bodies   []regulation.BodyCard `json:"bodies"`
}

// LinksOutput is the JSON output of the links command.
type LinksOutput struct {
	Selected []string             `json:"selected"`
	Links    []regulation.LawLink `json:"links"`
}

// CountryInfo describes one country of the data set.
type CountryInfo struct {
	Country         string `json:"country"`
	Regulations     int    `json:"regulations"`
	ISOCode         string `json:"iso_code,omitempty"`
	EnforcementBody string `json:"enforcement_body,omitempty"`
	Default         bool   `json:"default"`
}

// CountriesOutput is the JSON output of the countries command.
type CountriesOutput struct {
	Source    string        `json:"source"`
	Countries []CountryInfo `json:"countries"`
}

// InitOutput is the JSON output of the init command.
type InitOutput struct {
	Directory string   `json:"directory"`
	Files     []string `json:"files"`
}
