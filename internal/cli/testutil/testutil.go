// Package testutil provides test utilities for CLI testing.
package testutil

import (
	"bytes"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/leapstack-labs/regdash/internal/cli/config"
	"github.com/leapstack-labs/regdash/internal/cli/output"
)

// TestCSV is the data set written by SetupTestProject. France has two
// regulations; Japan has no ISO code and no enforcement body.
const TestCSV = `Country/Region,Regulation Name,Enforcement Level,Penalties,Compliance Steps,Law Link,Start Year,End Year
European Union,EU AI Act,4,Fines up to 7% of global turnover,"Risk classification, Conformity assessment",https://ec.europa.eu/ai-act,2021,2024
United States,Algorithmic Accountability Act,3,FTC enforcement actions,"Impact assessments, Reporting to FTC",,2022,
France,Digital Republic Act,3,Administrative fines,"Transparency notices, Algorithm disclosure",,,
Japan,AI Guidelines,1,,Voluntary review,https://www.meti.go.jp/ai,2019,
France,CNIL AI Guidance,2,Warnings,Data protection impact assessment,,,
`

// SetupTestProject creates a temporary project with a regdash.yaml and a
// data/ai_regulations.csv holding TestCSV. extraConfig is appended to the
// config file; it may set its own data key.
func SetupTestProject(t *testing.T, extraConfig string) string {
	t.Helper()

	tmpDir := t.TempDir()
	dataDir := filepath.Join(tmpDir, "data")
	if err := os.MkdirAll(dataDir, 0750); err != nil {
		t.Fatalf("failed to create directory %s: %v", dataDir, err)
	}

	if err := os.WriteFile(filepath.Join(dataDir, "ai_regulations.csv"), []byte(TestCSV), 0600); err != nil {
		t.Fatalf("failed to create ai_regulations.csv: %v", err)
	}

	cfg := extraConfig
	if !strings.HasPrefix(extraConfig, "data:") && !strings.Contains(extraConfig, "\ndata:") {
		cfg = "data: " + config.DefaultData + "\n" + extraConfig
	}
	if err := os.WriteFile(filepath.Join(tmpDir, config.ConfigFileYAML), []byte(cfg), 0600); err != nil {
		t.Fatalf("failed to create %s: %v", config.ConfigFileYAML, err)
	}

	return tmpDir
}

// TestRenderer wraps a Renderer for testing with captured output buffers.
type TestRenderer struct {
	*output.Renderer
	Out    *bytes.Buffer
	ErrOut *bytes.Buffer
}

// NewTestRenderer creates a new test renderer with the specified mode and TTY state.
// Output is captured in buffers for inspection.
func NewTestRenderer(mode output.OutputMode, isTTY bool) *TestRenderer {
	out := &bytes.Buffer{}
	errOut := &bytes.Buffer{}
	return &TestRenderer{
		Renderer: output.NewRendererWithTTY(out, errOut, isTTY, mode),
		Out:      out,
		ErrOut:   errOut,
	}
}

// NewTestRendererText creates a new test renderer in text mode (simulated TTY).
func NewTestRendererText() *TestRenderer {
	return NewTestRenderer(output.ModeText, true)
}

// NewTestRendererMarkdown creates a new test renderer in markdown mode.
func NewTestRendererMarkdown() *TestRenderer {
	return NewTestRenderer(output.ModeMarkdown, false)
}

// NewTestRendererJSON creates a new test renderer in JSON mode.
func NewTestRendererJSON() *TestRenderer {
	return NewTestRenderer(output.ModeJSON, false)
}

// Output returns the stdout output as a string.
func (tr *TestRenderer) Output() string {
	return tr.Out.String()
}

// ErrorOutput returns the stderr output as a string.
func (tr *TestRenderer) ErrorOutput() string {
	return tr.ErrOut.String()
}

// Reset clears both output buffers.
func (tr *TestRenderer) Reset() {
	tr.Out.Reset()
	tr.ErrOut.Reset()
}

// ansiPattern matches ANSI escape codes.
var ansiPattern = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// AssertNoANSI checks that a string contains no ANSI escape codes.
func AssertNoANSI(t *testing.T, s string) {
	t.Helper()
	if ansiPattern.MatchString(s) {
		t.Errorf("string contains ANSI escape codes: %q", s)
	}
}

// AssertValidMarkdown performs basic markdown validation.
// It checks for unclosed code fences and empty headers.
func AssertValidMarkdown(t *testing.T, md string) {
	t.Helper()

	fenceCount := strings.Count(md, "```")
	if fenceCount%2 != 0 {
		t.Errorf("unbalanced code fences in markdown: found %d occurrences", fenceCount)
	}

	lines := strings.Split(md, "\n")
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "#") && strings.TrimLeft(trimmed, "# ") == "" {
			t.Errorf("empty header at line %d: %q", i+1, line)
		}
	}
}
