package regulation

import "maps"

// defaultISOCodes maps country names to ISO 3166-1 alpha-3 codes. The
// European Union has no alpha-3 code; "EU" is the reserved alpha-2 code.
var defaultISOCodes = map[string]string{
	"United States":  "USA",
	"Germany":        "DEU",
	"India":          "IND",
	"France":         "FRA",
	"Brazil":         "BRA",
	"European Union": "EU",
}

// defaultEnforcementBodies maps country or region keys to the authority
// that enforces their AI regulation.
var defaultEnforcementBodies = map[string]string{
	"EU": "European Commission",
	"US": "Federal Trade Commission",
	"UK": "UK Government",
}

// Mappings holds the static lookup tables used to derive columns.
// Unmapped keys are expected and simply leave the derived field unset.
type Mappings struct {
	ISOCodes          map[string]string `json:"iso_codes" koanf:"iso_codes"`
	EnforcementBodies map[string]string `json:"enforcement_bodies" koanf:"enforcement_bodies"`
}

// DefaultMappings returns a fresh copy of the built-in lookup tables.
func DefaultMappings() Mappings {
	return Mappings{
		ISOCodes:          maps.Clone(defaultISOCodes),
		EnforcementBodies: maps.Clone(defaultEnforcementBodies),
	}
}

// Merge returns mappings where entries of override replace or extend m.
// An override entry with an empty value removes the key.
func (m Mappings) Merge(override Mappings) Mappings {
	out := Mappings{
		ISOCodes:          mergeMap(m.ISOCodes, override.ISOCodes),
		EnforcementBodies: mergeMap(m.EnforcementBodies, override.EnforcementBodies),
	}
	return out
}

func mergeMap(base, override map[string]string) map[string]string {
	out := make(map[string]string, len(base)+len(override))
	for k, v := range base {
		out[NormalizeCountry(k)] = v
	}
	for k, v := range override {
		k = NormalizeCountry(k)
		if v == "" {
			delete(out, k)
			continue
		}
		out[k] = v
	}
	return out
}

// ISOCode looks up the ISO code for country.
func (m Mappings) ISOCode(country string) (string, bool) {
	code, ok := m.ISOCodes[country]
	return code, ok && code != ""
}

// EnforcementBody looks up the enforcement body for country.
func (m Mappings) EnforcementBody(country string) (string, bool) {
	body, ok := m.EnforcementBodies[country]
	return body, ok && body != ""
}

// ISOCodeFor looks country up in the built-in ISO code table.
func ISOCodeFor(country string) (string, bool) {
	code, ok := defaultISOCodes[country]
	return code, ok
}

// EnforcementBodyFor looks country up in the built-in enforcement body
// table. An absent key is not an error.
func EnforcementBodyFor(country string) (string, bool) {
	body, ok := defaultEnforcementBodies[country]
	return body, ok
}

// Enrich returns a copy of t with EnforcementBody and ISOCode set from m.
// Records whose country is unmapped keep the field empty.
func Enrich(t *Table, m Mappings) *Table {
	if t == nil {
		return nil
	}
	records := make([]Record, len(t.Records))
	for i, r := range t.Records {
		r = r.clone()
		r.ISOCode, _ = m.ISOCode(r.Country)
		r.EnforcementBody, _ = m.EnforcementBody(r.Country)
		records[i] = r
	}
	return t.derive(records)
}
