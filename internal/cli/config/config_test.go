package config

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/regdash/internal/testutil"
)

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("config", "", "config file")
	flags.String("data", "", "data source")
	flags.StringSliceP("country", "c", nil, "countries")
	flags.Bool("all", false, "all countries")
	flags.StringP("output", "o", "", "output format")
	flags.BoolP("verbose", "v", false, "verbose")
	return flags
}

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileYAML)
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	ResetConfig()
	tmpDir := t.TempDir()
	t.Chdir(tmpDir)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	wd, _ := os.Getwd()
	assert.Equal(t, filepath.Join(wd, DefaultData), cfg.Data)
	assert.Empty(t, cfg.Countries)
	assert.False(t, cfg.All)
	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, DefaultCacheTTL, cfg.CacheTTL)
	assert.Equal(t, DefaultUIPort, cfg.GetUIConfig().Port)
	assert.True(t, cfg.GetUIConfig().Watch)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())
}

func TestLoadConfig_File(t *testing.T) {
	ResetConfig()
	tmpDir := t.TempDir()
	cfgPath := writeConfig(t, tmpDir, `data: regs/laws.tsv
countries:
  - France
  - Germany
output: json
cache_ttl: 30s
delimiter: "\t"
mappings:
  iso_codes:
    Japan: JPN
    Brazil: ""
  enforcement_bodies:
    France: CNIL
ui:
  port: 9000
  watch: false
  session_secret: ${TEST_REGDASH_SECRET}
`)
	t.Setenv("TEST_REGDASH_SECRET", "s3cret")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(tmpDir, "regs", "laws.tsv"), cfg.Data, "relative to the config file")
	assert.Equal(t, []string{"France", "Germany"}, cfg.Countries)
	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, 30*time.Second, cfg.CacheTTL)
	assert.Equal(t, '\t', cfg.DelimiterRune())
	assert.Equal(t, 9000, cfg.GetUIConfig().Port)
	assert.False(t, cfg.GetUIConfig().Watch)
	assert.Equal(t, "s3cret", cfg.GetUIConfig().SessionSecret)
	assert.Equal(t, cfgPath, GetConfigFileUsed())

	m := cfg.RegulationMappings()
	code, ok := m.ISOCode("Japan")
	assert.True(t, ok)
	assert.Equal(t, "JPN", code)
	_, ok = m.ISOCode("Brazil")
	assert.False(t, ok)
	body, _ := m.EnforcementBody("France")
	assert.Equal(t, "CNIL", body)
	body, _ = m.EnforcementBody("EU")
	assert.Equal(t, "European Commission", body)
}

func TestLoadConfig_UpwardSearch(t *testing.T) {
	ResetConfig()
	root := t.TempDir()
	writeConfig(t, root, "data: laws.csv\n")
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0o755))
	t.Chdir(nested)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "laws.csv", filepath.Base(cfg.Data))
	assert.Equal(t, filepath.Base(root), filepath.Base(filepath.Dir(cfg.Data)))
	assert.NotEmpty(t, GetConfigFileUsed())
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	ResetConfig()
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope.yaml")
}

func TestLoadConfig_InvalidYAML(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, t.TempDir(), "countries: [France\n")

	_, err := LoadConfig(cfgPath, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_Precedence(t *testing.T) {
	tests := []struct {
		name      string
		env       map[string]string
		flags     map[string]string
		wantOut   string
		wantCount []string
	}{
		{
			name:      "file only",
			wantOut:   "markdown",
			wantCount: []string{"France"},
		},
		{
			name:      "env overrides file",
			env:       map[string]string{"REGDASH_OUTPUT": "text", "REGDASH_COUNTRIES": "Brazil,India"},
			wantOut:   "text",
			wantCount: []string{"Brazil", "India"},
		},
		{
			name:      "flag overrides env",
			env:       map[string]string{"REGDASH_OUTPUT": "text", "REGDASH_COUNTRIES": "Brazil"},
			flags:     map[string]string{"output": "json", "country": "Germany,European Union"},
			wantOut:   "json",
			wantCount: []string{"Germany", "European Union"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ResetConfig()
			cfgPath := writeConfig(t, t.TempDir(), "output: markdown\ncountries: [France]\n")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			flags := newFlagSet()
			for k, v := range tt.flags {
				require.NoError(t, flags.Set(k, v))
			}

			cfg, err := LoadConfig(cfgPath, flags)
			require.NoError(t, err)

			assert.Equal(t, tt.wantOut, cfg.OutputFormat)
			assert.Equal(t, tt.wantCount, cfg.Countries)
		})
	}
}

func TestLoadConfig_NormalizesCountryFlag(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, t.TempDir(), "output: json\n")
	flags := newFlagSet()
	require.NoError(t, flags.Set("country", "Co\u0302te d'Ivoire, ,Ghana "))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	assert.Equal(t, []string{"C\u00f4te d'Ivoire", "Ghana"}, cfg.Countries)
}

func TestLoadConfig_UnsetFlagsDoNotOverride(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, t.TempDir(), "output: json\nall: true\n")

	cfg, err := LoadConfig(cfgPath, newFlagSet())
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.OutputFormat)
	assert.True(t, cfg.All)
}

func TestLoadConfig_DataFlagRelativeToWorkingDir(t *testing.T) {
	ResetConfig()
	cfgDir := t.TempDir()
	cfgPath := writeConfig(t, cfgDir, "data: from_file.csv\n")
	wd := t.TempDir()
	t.Chdir(wd)

	flags := newFlagSet()
	require.NoError(t, flags.Set("data", "local.csv"))

	cfg, err := LoadConfig(cfgPath, flags)
	require.NoError(t, err)

	cwd, _ := os.Getwd()
	assert.Equal(t, filepath.Join(cwd, "local.csv"), cfg.Data)
}

func TestLoadConfig_DatabaseDescriptor(t *testing.T) {
	ResetConfig()
	t.Setenv("TEST_PG_PASSWORD", "pw")
	cfgPath := writeConfig(t, t.TempDir(), "data: postgres://app:${TEST_PG_PASSWORD}@db/regs?table=laws\n")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, "postgres://app:pw@db/regs?table=laws", cfg.Data, "database descriptors are not resolved as paths")
	assert.NoError(t, cfg.ValidateData())
}

func TestLoadConfig_EnvSection(t *testing.T) {
	ResetConfig()
	cfgPath := writeConfig(t, t.TempDir(), "ui:\n  port: 9000\n")
	t.Setenv("REGDASH_UI_PORT", "9100")
	t.Setenv("REGDASH_CACHE_TTL", "1m")

	cfg, err := LoadConfig(cfgPath, nil)
	require.NoError(t, err)

	assert.Equal(t, 9100, cfg.GetUIConfig().Port)
	assert.Equal(t, time.Minute, cfg.CacheTTL)
}

func TestEnvKey(t *testing.T) {
	tests := map[string]string{
		"REGDASH_DATA":              "data",
		"REGDASH_CACHE_TTL":         "cache_ttl",
		"REGDASH_UI_PORT":           "ui.port",
		"REGDASH_UI_SESSION_SECRET": "ui.session_secret",
	}
	for in, want := range tests {
		assert.Equal(t, want, envKey(in), in)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name      string
		cfg       Config
		errSubstr string
	}{
		{name: "valid", cfg: Config{Data: "x.csv", OutputFormat: "auto"}},
		{name: "tab delimiter", cfg: Config{Data: "x.csv", Delimiter: "tab"}},
		{name: "missing data", cfg: Config{}, errSubstr: "data is required"},
		{name: "bad output", cfg: Config{Data: "x.csv", OutputFormat: "yaml"}, errSubstr: "invalid output format"},
		{name: "bad delimiter", cfg: Config{Data: "x.csv", Delimiter: ";;"}, errSubstr: "single character"},
		{name: "bad port", cfg: Config{Data: "x.csv", UI: &UIConfig{Port: 70000}}, errSubstr: "out of range"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if tt.errSubstr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestConfig_ValidateData(t *testing.T) {
	cfg := &Config{Data: filepath.Join(t.TempDir(), "missing.csv")}
	err := cfg.ValidateData()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "regdash init")
}

func TestConfig_DelimiterRune(t *testing.T) {
	assert.Equal(t, rune(0), (&Config{}).DelimiterRune())
	assert.Equal(t, ';', (&Config{Delimiter: ";"}).DelimiterRune())
	assert.Equal(t, '\t', (&Config{Delimiter: `\t`}).DelimiterRune())
}

func TestExpandEnvVars(t *testing.T) {
	t.Setenv("TEST_VAR_ONE", "value_one")

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"single variable", "${TEST_VAR_ONE}", "value_one"},
		{"unset variable stays as-is", "${UNSET_VARIABLE}", "${UNSET_VARIABLE}"},
		{"mixed", "${TEST_VAR_ONE}:${UNSET_VAR}", "value_one:${UNSET_VAR}"},
		{"no variables", "plain string", "plain string"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, expandEnvVars(tt.input))
		})
	}
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	logger := testutil.NewTestLogger(t)
	ctx := WithLogger(context.Background(), logger)
	assert.Same(t, logger, GetLogger(ctx))
	assert.Equal(t, loggerKey{}, LoggerKey())
}
