package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"github.com/google/uuid"
	"github.com/leapstack-labs/regdash/internal/cli/config"
	"github.com/leapstack-labs/regdash/internal/cli/output"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const initTemplate = "default"

// initConfig is the starter regdash.yaml.
type initConfig struct {
	Data      string       `yaml:"data"`
	Countries []string     `yaml:"countries"`
	Output    string       `yaml:"output"`
	CacheTTL  string       `yaml:"cache_ttl"`
	Mappings  initMappings `yaml:"mappings"`
	UI        initUI       `yaml:"ui"`
}

type initMappings struct {
	ISOCodes          map[string]string `yaml:"iso_codes"`
	EnforcementBodies map[string]string `yaml:"enforcement_bodies"`
}

type initUI struct {
	Port          int    `yaml:"port"`
	Watch         bool   `yaml:"watch"`
	SessionSecret string `yaml:"session_secret"`
}

// NewInitCommand creates the init command.
func NewInitCommand() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new regdash project",
		Long: `Initialize a new regdash project.

This creates:
  - regdash.yaml configuration file with a generated UI session secret
  - data/ai_regulations.csv sample data set
  - .gitignore excluding the REPL history

Existing data files are kept unless --force is given.`,
		Example: `  # Initialize in current directory
  regdash init

  # Initialize in a new directory
  regdash init my-dashboard

  # Force overwrite existing config
  regdash init --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) > 0 {
				dir = args[0]
			}

			cfg := getConfig()
			mode := output.Mode(cfg.OutputFormat)
			r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

			return runInit(r, dir, force)
		},
	}

	cmd.Flags().BoolVar(&force, "force", false, "Overwrite existing configuration and sample data")

	return cmd
}

func runInit(r *output.Renderer, dir string, force bool) error {
	if dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	configPath := filepath.Join(dir, config.ConfigFileYAML)
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("%s already exists. Use --force to overwrite", config.ConfigFileYAML)
	}

	written, err := copyTemplate(initTemplate, dir, force)
	if err != nil {
		return fmt.Errorf("failed to initialize project: %w", err)
	}

	content, err := starterConfig()
	if err != nil {
		return err
	}
	if err := os.WriteFile(configPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", config.ConfigFileYAML, err)
	}
	written = append([]string{config.ConfigFileYAML}, written...)

	all, _ := listTemplateFiles(initTemplate)

	if r.EffectiveMode() == output.ModeJSON {
		return r.JSON(output.InitOutput{Directory: dir, Files: written})
	}

	r.StatusLine(config.ConfigFileYAML, "success", "")
	for _, f := range all {
		if slices.Contains(written, f) {
			r.StatusLine(f, "success", "")
		} else {
			r.StatusLine(f, "skipped", "(exists)")
		}
	}

	r.Println("")
	r.Success("regdash project initialized!")
	r.Println("")
	r.Println("Next steps:")
	r.Println("  regdash countries   List the countries in the sample data")
	r.Println("  regdash dashboard   Show every panel for the default selection")
	r.Println("  regdash explore     Change the selection interactively")
	r.Println("  regdash ui          Open the web dashboard")

	return nil
}

func starterConfig() ([]byte, error) {
	cfg := initConfig{
		Data:      config.DefaultData,
		Countries: []string{},
		Output:    config.DefaultOutput,
		CacheTTL:  config.DefaultCacheTTL.String(),
		Mappings: initMappings{
			ISOCodes:          map[string]string{},
			EnforcementBodies: map[string]string{},
		},
		UI: initUI{
			Port:          config.DefaultUIPort,
			Watch:         true,
			SessionSecret: uuid.NewString(),
		},
	}

	content, err := yaml.Marshal(&cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode %s: %w", config.ConfigFileYAML, err)
	}
	header := "# regdash configuration\n# Entries under mappings replace the built-in tables; an empty value removes one.\n"
	return append([]byte(header), content...), nil
}
