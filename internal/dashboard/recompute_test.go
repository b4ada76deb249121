package dashboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/regdash/pkg/regulation"
)

func exampleTable(t *testing.T) *regulation.Table {
	t.Helper()
	tbl, err := regulation.NewTable("example", []regulation.Record{
		{Country: "France", RegulationName: "Law1", EnforcementLevel: 3, Penalties: "Fines", ComplianceSteps: "A, B ,C"},
		{Country: "France", RegulationName: "Law2", EnforcementLevel: 2, Penalties: "Warnings", ComplianceSteps: "X,Y"},
		{Country: "Germany", RegulationName: "Law4", EnforcementLevel: 2, ComplianceSteps: "G"},
		{Country: "Brazil", RegulationName: "Law3", EnforcementLevel: 1, Penalties: "Fines", ComplianceSteps: "Z", LawLink: "https://example.br"},
	})
	require.NoError(t, err)
	return tbl
}

func TestRecompute(t *testing.T) {
	tbl := exampleTable(t)
	before := tbl.Clone()

	v := Recompute(tbl, regulation.DefaultMappings(), NewState("France", "Brazil"))

	assert.Equal(t, "example", v.Source)
	assert.Equal(t, []string{"France", "Germany", "Brazil"}, v.Countries)
	assert.Equal(t, []string{"France", "Brazil"}, v.Selected)
	assert.Equal(t, 3, v.Rows)
	assert.False(t, v.Empty())

	assert.Equal(t, []regulation.CountryRegulations{
		{Country: "Brazil", Regulations: "Law3"},
		{Country: "France", Regulations: "Law1, Law2"},
	}, v.Regulations)

	assert.Equal(t, []regulation.CountrySteps{
		{Country: "France", Steps: []string{"A", "B", "C"}},
		{Country: "Brazil", Steps: []string{"Z"}},
	}, v.Compliance)

	require.Equal(t, 3, v.Summary.Len())
	assert.Equal(t, "Brazil", v.Summary.Records[0].Country)

	assert.Len(t, v.Geo, 3)
	assert.Len(t, v.Penalties, 3)
	assert.Len(t, v.Bodies, 3)
	require.Len(t, v.Links, 1)
	assert.Equal(t, "https://example.br", v.Links[0].URL)

	require.Equal(t, 3, v.Records.Len())
	assert.Equal(t, "FRA", v.Records.Records[0].ISOCode)
	assert.Empty(t, v.Records.Records[0].EnforcementBody, "France has no default body")
	assert.Equal(t, "BRA", v.Records.Records[2].ISOCode)

	assert.Equal(t, before, tbl, "input table is not modified")
	assert.Empty(t, tbl.Records[0].ISOCode)
}

func TestRecompute_EmptySelection(t *testing.T) {
	v := Recompute(exampleTable(t), regulation.DefaultMappings(), State{})

	assert.True(t, v.Empty())
	assert.Equal(t, []string{}, v.Selected)
	assert.True(t, v.Summary.Empty())
	assert.Empty(t, v.Regulations)
	assert.Empty(t, v.Compliance)
	assert.Empty(t, v.Geo)
	assert.Len(t, v.Countries, 3, "available countries do not depend on the selection")
}

func TestRecompute_UnmappedCountry(t *testing.T) {
	m := regulation.DefaultMappings().Merge(regulation.Mappings{
		ISOCodes: map[string]string{"Brazil": ""},
	})

	v := Recompute(exampleTable(t), m, NewState("Brazil"))

	assert.Empty(t, v.Geo)
	require.Equal(t, 1, v.Summary.Len())
	assert.Equal(t, "Brazil", v.Summary.Records[0].Country)
}

func TestRecompute_NilTable(t *testing.T) {
	v := Recompute(nil, regulation.DefaultMappings(), NewState("France"))
	assert.True(t, v.Empty())
	assert.Empty(t, v.Source)
}

func TestRecompute_RecordsUseMappingOverrides(t *testing.T) {
	m := regulation.DefaultMappings().Merge(regulation.Mappings{
		EnforcementBodies: map[string]string{"France": "CNIL"},
		ISOCodes:          map[string]string{"Brazil": ""},
	})

	v := Recompute(exampleTable(t), m, NewState("France", "Brazil"))

	require.Equal(t, 3, v.Records.Len())
	assert.Equal(t, "CNIL", v.Records.Records[0].EnforcementBody)
	assert.Equal(t, "CNIL", v.Records.Records[1].EnforcementBody)
	assert.Empty(t, v.Records.Records[2].ISOCode)
	assert.Len(t, v.Geo, 2, "Brazil is no longer ISO-mapped")
}
