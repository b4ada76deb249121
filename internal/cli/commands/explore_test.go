package commands

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/regdash/internal/cli/testutil"
	"github.com/leapstack-labs/regdash/internal/dashboard"
	"github.com/leapstack-labs/regdash/pkg/regulation"
)

func newTestExplorer(t *testing.T, initial ...string) (*explorer, *testutil.TestRenderer, string) {
	t.Helper()

	dir := testutil.SetupTestProject(t, "")
	path := filepath.Join(dir, "data", "ai_regulations.csv")

	var sel []string
	if len(initial) > 0 {
		sel = initial
	}
	sess, err := dashboard.NewSession(context.Background(), dashboard.SessionConfig{
		Source:   regulation.FileSource{Path: path},
		Mappings: regulation.DefaultMappings(),
	}, sel)
	require.NoError(t, err)

	tr := testutil.NewTestRendererMarkdown()
	return newExplorer(sess, tr.Renderer), tr, path
}

func TestExplorer_Selection(t *testing.T) {
	tests := []struct {
		name  string
		lines []string
		want  []string
	}{
		{
			name: "default selection",
			want: []string{"European Union", "United States"},
		},
		{
			name:  "select matches case-insensitively",
			lines: []string{".select france, JAPAN"},
			want:  []string{"France", "Japan"},
		},
		{
			name:  "add appends",
			lines: []string{".add France"},
			want:  []string{"European Union", "United States", "France"},
		},
		{
			name:  "remove and rm",
			lines: []string{".remove european union", ".rm United States"},
			want:  []string{},
		},
		{
			name:  "toggle twice restores",
			lines: []string{".toggle Japan", ".toggle Japan"},
			want:  []string{"European Union", "United States"},
		},
		{
			name:  "clear",
			lines: []string{".clear"},
			want:  []string{},
		},
		{
			name:  "all",
			lines: []string{".clear", ".all"},
			want:  []string{"European Union", "United States", "France", "Japan"},
		},
		{
			name:  "select with no arguments selects nothing",
			lines: []string{".select"},
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, _ := newTestExplorer(t)
			for _, line := range tt.lines {
				assert.False(t, e.handle(context.Background(), line))
			}
			assert.Equal(t, tt.want, e.sess.State().Selected)
		})
	}
}

func TestExplorer_Messages(t *testing.T) {
	tests := []struct {
		name    string
		line    string
		wantOut string
		wantErr string
	}{
		{name: "help", line: ".help", wantOut: "Commands:"},
		{name: "countries", line: ".countries", wantOut: "Japan"},
		{name: "show panel", line: ".show steps", wantOut: "## Compliance Steps"},
		{name: "show all", line: ".show", wantOut: "## Law Links"},
		{name: "show selection", line: ".select Japan", wantOut: "**Selected:** Japan"},
		{name: "empty selection notice", line: ".clear", wantOut: "No regulations match the selection."},
		{name: "unknown panel", line: ".show chart", wantErr: `Unknown panel "chart"`},
		{name: "unknown command", line: ".bogus", wantErr: "Unknown command: .bogus"},
		{name: "missing dot", line: "France", wantErr: "commands start with a dot"},
		{name: "add without arguments", line: ".add", wantErr: "Usage: .add"},
		{name: "unknown country is title-cased", line: ".add atlantis", wantErr: "Atlantis is not in the data source"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, tr, _ := newTestExplorer(t)

			assert.False(t, e.handle(context.Background(), tt.line))
			if tt.wantOut != "" {
				assert.Contains(t, tr.Output(), tt.wantOut)
			}
			if tt.wantErr != "" {
				assert.Contains(t, tr.ErrorOutput(), tt.wantErr)
			}
		})
	}
}

func TestExplorer_Quit(t *testing.T) {
	e, _, _ := newTestExplorer(t)

	for _, line := range []string{".quit", ".exit", "  .QUIT  "} {
		assert.True(t, e.handle(context.Background(), line), line)
	}
	assert.False(t, e.handle(context.Background(), ""))
}

func TestExplorer_UnknownCountryStaysSelected(t *testing.T) {
	e, _, _ := newTestExplorer(t)

	e.handle(context.Background(), ".select atlantis, France")

	assert.Equal(t, []string{"Atlantis", "France"}, e.sess.State().Selected)
	assert.Equal(t, 2, e.sess.View().Rows)
}

func TestExplorer_Reload(t *testing.T) {
	e, tr, path := newTestExplorer(t, "Germany")
	assert.True(t, e.sess.View().Empty())

	content := testutil.TestCSV + "Germany,AI Strategy,2,Fines,Ethics review,,,\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))

	e.handle(context.Background(), ".reload")

	assert.Contains(t, tr.Output(), "Reloaded 6 rows")
	assert.Equal(t, []string{"Germany"}, e.sess.State().Selected)
	assert.Equal(t, 1, e.sess.View().Rows)
}

func TestExplorer_ReloadFailureKeepsTable(t *testing.T) {
	e, tr, path := newTestExplorer(t)
	require.NoError(t, os.Remove(path))

	e.handle(context.Background(), ".reload")

	assert.Contains(t, tr.ErrorOutput(), "failed to load regulation data")
	assert.Equal(t, 5, e.sess.Table().Len())
}

func TestSplitCountries(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"", nil},
		{"France", []string{"France"}},
		{"European Union, United States", []string{"European Union", "United States"}},
		{" , France,, ", []string{"France"}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, splitCountries(tt.in))
		})
	}
}

func TestExplorer_Completer(t *testing.T) {
	e, _, _ := newTestExplorer(t)

	var names []string
	for _, c := range e.completer().GetChildren() {
		names = append(names, string(c.GetName()))
	}
	assert.Contains(t, names, ".select ")
	assert.Contains(t, names, ".show ")
	assert.Len(t, names, 12)
}

func TestExplorer_SelectDecomposedName(t *testing.T) {
	sess, err := dashboard.NewSession(context.Background(), dashboard.SessionConfig{
		Source: regulation.RowsSource{
			Name:   "inline",
			Header: regulation.RequiredColumns,
			Rows: [][]string{
				{"Co\u0302te d'Ivoire", "Digital Code", "2", "Fines", "Register"},
				{"Ghana", "Data Act", "1", "Warnings", "Notify"},
			},
		},
	}, nil)
	require.NoError(t, err)

	tr := testutil.NewTestRendererMarkdown()
	e := newExplorer(sess, tr.Renderer)

	e.handle(context.Background(), ".select co\u0302te d'ivoire")

	assert.Equal(t, []string{"C\u00f4te d'Ivoire"}, sess.State().Selected)
	assert.Equal(t, 1, sess.View().Rows)
	assert.NotContains(t, tr.ErrorOutput(), "not in the data source")
}
