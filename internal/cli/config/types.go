// Package config provides configuration management for the regdash CLI.
package config

import (
	"time"

	"github.com/leapstack-labs/regdash/pkg/regulation"
)

// Config holds all CLI configuration options.
type Config struct {
	Data         string         `koanf:"data"`
	Countries    []string       `koanf:"countries"`
	All          bool           `koanf:"all"`
	OutputFormat string         `koanf:"output"`
	Verbose      bool           `koanf:"verbose"`
	Delimiter    string         `koanf:"delimiter"`
	CacheTTL     time.Duration  `koanf:"cache_ttl"`
	Mappings     MappingsConfig `koanf:"mappings"`
	UI           *UIConfig      `koanf:"ui"`
	ProjectRoot  string         `koanf:"-"`
}

// MappingsConfig overrides the built-in lookup tables. An entry with an
// empty value removes the built-in entry.
type MappingsConfig struct {
	ISOCodes          map[string]string `koanf:"iso_codes"`
	EnforcementBodies map[string]string `koanf:"enforcement_bodies"`
}

// UIConfig holds configuration for the UI server.
type UIConfig struct {
	Port          int    `koanf:"port"`
	Watch         bool   `koanf:"watch"`
	SessionSecret string `koanf:"session_secret"`
}

// Default configuration values.
const (
	DefaultData     = "data/ai_regulations.csv"
	DefaultOutput   = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultUIPort   = 8765
	DefaultCacheTTL = 10 * time.Minute
	ConfigFileYAML  = "regdash.yaml"
	ConfigFileYML   = "regdash.yml"
	EnvPrefix       = "REGDASH_"
)

// DefaultUIConfig returns a UIConfig with default values.
func DefaultUIConfig() *UIConfig {
	return &UIConfig{
		Port:  DefaultUIPort,
		Watch: true,
	}
}

// GetUIConfig returns the UI config with defaults applied for any unset values.
func (c *Config) GetUIConfig() *UIConfig {
	if c.UI == nil {
		return DefaultUIConfig()
	}
	ui := *c.UI
	if ui.Port == 0 {
		ui.Port = DefaultUIPort
	}
	return &ui
}

// RegulationMappings returns the built-in lookup tables with the configured
// overrides applied.
func (c *Config) RegulationMappings() regulation.Mappings {
	return regulation.DefaultMappings().Merge(regulation.Mappings{
		ISOCodes:          c.Mappings.ISOCodes,
		EnforcementBodies: c.Mappings.EnforcementBodies,
	})
}

// DelimiterRune returns the configured field delimiter, or zero to let the
// file extension decide.
func (c *Config) DelimiterRune() rune {
	switch c.Delimiter {
	case "":
		return 0
	case `\t`, "tab":
		return '\t'
	}
	return []rune(c.Delimiter)[0]
}
