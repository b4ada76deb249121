package config

import (
	"fmt"
	"os"
	"unicode/utf8"
)

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Data == "" {
		return fmt.Errorf("data is required")
	}

	switch c.OutputFormat {
	case "", "auto", "text", "txt", "markdown", "md", "json":
	default:
		return fmt.Errorf("invalid output format %q (want auto, text, markdown or json)", c.OutputFormat)
	}

	if c.Delimiter != "" && c.Delimiter != `\t` && c.Delimiter != "tab" && utf8.RuneCountInString(c.Delimiter) != 1 {
		return fmt.Errorf("delimiter must be a single character, got %q", c.Delimiter)
	}

	if c.UI != nil && (c.UI.Port < 0 || c.UI.Port > 65535) {
		return fmt.Errorf("ui.port %d out of range", c.UI.Port)
	}
	return nil
}

// ValidateData checks that a file data source exists.
// Database descriptors are checked when they are opened.
func (c *Config) ValidateData() error {
	if !isFileDescriptor(c.Data) {
		return nil
	}
	if _, err := os.Stat(c.Data); os.IsNotExist(err) {
		return fmt.Errorf("data file does not exist: %s\nHint: run 'regdash init' or use --data to specify a different file", c.Data)
	}
	return nil
}
