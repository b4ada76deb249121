// Package commands_test provides tests for CLI command creation.
package commands

import (
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
)

func TestCommandMetadata(t *testing.T) {
	tests := []struct {
		name    string
		cmd     *cobra.Command
		use     string
		aliases []string
		flags   []string
	}{
		{name: "summary", cmd: NewSummaryCommand(), use: "summary"},
		{name: "regulations", cmd: NewRegulationsCommand(), use: "regulations", aliases: []string{"regs"}},
		{name: "steps", cmd: NewStepsCommand(), use: "steps [country...]"},
		{name: "map", cmd: NewMapCommand(), use: "map"},
		{name: "penalties", cmd: NewPenaltiesCommand(), use: "penalties"},
		{name: "bodies", cmd: NewBodiesCommand(), use: "bodies"},
		{name: "links", cmd: NewLinksCommand(), use: "links"},
		{name: "countries", cmd: NewCountriesCommand(), use: "countries"},
		{name: "dashboard", cmd: NewDashboardCommand(), use: "dashboard"},
		{name: "explore", cmd: NewExploreCommand(), use: "explore", flags: []string{"history"}},
		{name: "ui", cmd: NewUICommand(), use: "ui", flags: []string{"port", "no-browser", "watch", "dev"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.use, tt.cmd.Use)
			assert.NotEmpty(t, tt.cmd.Short, "Short should not be empty")
			assert.NotEmpty(t, tt.cmd.Long, "Long should not be empty")
			assert.NotEmpty(t, tt.cmd.Example, "Example should not be empty")
			assert.NotNil(t, tt.cmd.RunE)
			for _, alias := range tt.aliases {
				assert.Contains(t, tt.cmd.Aliases, alias)
			}
			// --output and --country are global persistent flags on root, not local
			for _, flag := range tt.flags {
				assert.NotNil(t, tt.cmd.Flags().Lookup(flag), "flag %q should exist", flag)
			}
		})
	}
}

func TestUICommand_WatchDefaultsOn(t *testing.T) {
	cmd := NewUICommand()

	watch := cmd.Flags().Lookup("watch")
	assert.Equal(t, "true", watch.DefValue)
	assert.True(t, cmd.Flags().Lookup("dev").Hidden)
}

func TestSessionSecret(t *testing.T) {
	assert.Equal(t, "configured", sessionSecret("configured"))

	generated := sessionSecret("")
	assert.Len(t, generated, 72)
	assert.NotEqual(t, generated, sessionSecret(""), "generated secrets should differ")
}

func TestFormatYears(t *testing.T) {
	tests := []struct {
		start, end int
		want       string
	}{
		{0, 0, "-"},
		{2021, 0, "2021-"},
		{0, 2024, "-2024"},
		{2021, 2024, "2021-2024"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			assert.Equal(t, tt.want, formatYears(tt.start, tt.end))
		})
	}
}
