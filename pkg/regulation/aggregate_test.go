package regulation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummaryTable(t *testing.T) {
	got := SummaryTable(loadTestdata(t))

	assert.Equal(t, SummaryColumns, got.Columns)

	type row struct {
		country, name string
	}
	var rows []row
	for _, r := range got.Records {
		rows = append(rows, row{r.Country, r.RegulationName})
		assert.Empty(t, r.LawLink, "summary keeps only summary fields")
		assert.Nil(t, r.Extra)
	}
	assert.Equal(t, []row{
		{"Brazil", "AI Bill 2338"},
		{"European Union", "EU AI Act"},
		{"France", "Digital Republic Act"},
		{"France", "CNIL AI Guidance"},
		{"India", "Digital India Act"},
		{"United States", "Algorithmic Accountability Act"},
	}, rows, "Germany has no penalties and is dropped")
}

func TestSummaryTable_Empty(t *testing.T) {
	got := SummaryTable(nil)
	assert.True(t, got.Empty())
	assert.Equal(t, SummaryColumns, got.Columns)

	got = SummaryTable(&Table{Records: []Record{{Country: "EU"}}})
	assert.True(t, got.Empty())
}

func TestGroupedRegulations(t *testing.T) {
	tests := []struct {
		name    string
		records []Record
		want    []CountryRegulations
	}{
		{
			name: "joins in row order and sorts by country",
			records: []Record{
				{Country: "France", RegulationName: "Law1"},
				{Country: "Brazil", RegulationName: "Law2"},
				{Country: "France", RegulationName: "Law3"},
			},
			want: []CountryRegulations{
				{Country: "Brazil", Regulations: "Law2"},
				{Country: "France", Regulations: "Law1, Law3"},
			},
		},
		{
			name: "duplicates are kept",
			records: []Record{
				{Country: "France", RegulationName: "Law1"},
				{Country: "France", RegulationName: "Law1"},
			},
			want: []CountryRegulations{
				{Country: "France", Regulations: "Law1, Law1"},
			},
		},
		{
			name: "missing names add nothing",
			records: []Record{
				{Country: "France"},
				{Country: "France", RegulationName: "Law1"},
				{Country: "Germany"},
			},
			want: []CountryRegulations{
				{Country: "France", Regulations: "Law1"},
				{Country: "Germany", Regulations: ""},
			},
		},
		{
			name:    "empty table",
			records: nil,
			want:    []CountryRegulations{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tbl, err := NewTable("t", tt.records)
			require.NoError(t, err)
			assert.Equal(t, tt.want, GroupedRegulations(tbl))
		})
	}
}

func TestComplianceStepsFor(t *testing.T) {
	tbl := loadTestdata(t)

	tests := []struct {
		name    string
		country string
		want    []string
	}{
		{
			name:    "splits and trims",
			country: "European Union",
			want:    []string{"Risk classification", "Conformity assessment", "Registration in EU database"},
		},
		{
			name:    "first row wins",
			country: "France",
			want:    []string{"Transparency notices", "Algorithm disclosure"},
		},
		{
			name:    "unknown country",
			country: "Atlantis",
			want:    []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComplianceStepsFor(tbl, tt.country))
		})
	}
}

func TestSplitSteps(t *testing.T) {
	tests := []struct {
		field string
		want  []string
	}{
		{"Audit", []string{"Audit"}},
		{"Audit , Report,Register", []string{"Audit", "Report", "Register"}},
		{"Audit,,Report", []string{"Audit", "", "Report"}},
		{"", []string{}},
		{"   ", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.field, func(t *testing.T) {
			assert.Equal(t, tt.want, SplitSteps(tt.field))
		})
	}
}

func TestComplianceBreakdown(t *testing.T) {
	got := ComplianceBreakdown(FilterByCountry(loadTestdata(t), []string{"France", "Germany"}))

	assert.Equal(t, []CountrySteps{
		{Country: "France", Steps: []string{"Transparency notices", "Algorithm disclosure"}},
		{Country: "Germany", Steps: []string{"Ethics review", "Data governance"}},
	}, got)
}

func TestGeoView(t *testing.T) {
	tbl := loadTestdata(t)

	t.Run("default mappings", func(t *testing.T) {
		got := GeoView(tbl, DefaultMappings())
		require.Len(t, got, 7)
		assert.Equal(t, GeoRow{Country: "European Union", ISOCode: "EU", EnforcementLevel: 4}, got[0])
		assert.Equal(t, GeoRow{Country: "United States", ISOCode: "USA", EnforcementLevel: 3}, got[1])
	})

	t.Run("unmapped countries are dropped", func(t *testing.T) {
		m := DefaultMappings().Merge(Mappings{ISOCodes: map[string]string{"Brazil": ""}})

		got := GeoView(tbl, m)
		require.Len(t, got, 6)
		for _, row := range got {
			assert.NotEqual(t, "Brazil", row.Country)
		}

		// the summary is unaffected by the mapping
		assert.Equal(t, "Brazil", SummaryTable(tbl).Records[0].Country)
	})

	t.Run("nil table", func(t *testing.T) {
		assert.Empty(t, GeoView(nil, DefaultMappings()))
	})
}

func TestPenaltiesView(t *testing.T) {
	got := PenaltiesView(loadTestdata(t))

	require.Len(t, got, 7)
	assert.Equal(t, PenaltyRow{Country: "European Union", Penalties: "Fines up to 7% of global turnover"}, got[0])
	assert.Equal(t, PenaltyRow{Country: "Germany", Penalties: ""}, got[3])
}

func TestEnforcementBodyCards(t *testing.T) {
	tbl, err := NewTable("t", []Record{
		{Country: "EU", RegulationName: "EU AI Act"},
		{Country: "US", RegulationName: "AAA"},
		{Country: "France", RegulationName: "Digital Republic Act"},
	})
	require.NoError(t, err)

	assert.Equal(t, []BodyCard{
		{Country: "EU", RegulationName: "EU AI Act", EnforcementBody: "European Commission"},
		{Country: "US", RegulationName: "AAA", EnforcementBody: "Federal Trade Commission"},
		{Country: "France", RegulationName: "Digital Republic Act"},
	}, EnforcementBodyCards(tbl, DefaultMappings()))
}

func TestLawLinks(t *testing.T) {
	got := LawLinks(loadTestdata(t), DefaultMappings())

	require.Len(t, got, 2)
	assert.Equal(t, "EU AI Act", got[0].RegulationName)
	assert.Equal(t, 2021, got[0].StartYear)
	assert.Equal(t, 2024, got[0].EndYear)
	assert.Equal(t, "Algorithmic Accountability Act", got[1].RegulationName)
	assert.Empty(t, got[1].EnforcementBody, "\"United States\" is not a key of the body table")
}

func TestComplianceStepsFor_DecomposedCountry(t *testing.T) {
	tbl, err := FromRows("mem", RequiredColumns, [][]string{
		{"Co\u0302te d'Ivoire", "Digital Code", "2", "Fines", "Register, Audit"},
	})
	require.NoError(t, err)

	assert.Equal(t, []string{"Register", "Audit"}, ComplianceStepsFor(tbl, "Co\u0302te d'Ivoire"))
	assert.Equal(t, []string{"Register", "Audit"}, ComplianceStepsFor(tbl, "C\u00f4te d'Ivoire"))
}
