// Package cli provides the command-line interface for regdash.
package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/leapstack-labs/regdash/internal/cli/commands"
	"github.com/leapstack-labs/regdash/internal/cli/config"
	"github.com/leapstack-labs/regdash/internal/cli/output"
	"github.com/leapstack-labs/regdash/internal/source"
	"github.com/leapstack-labs/regdash/pkg/regulation"
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	cfg     *config.Config
)

// Version information (set at build time).
var (
	Version   = "0.1.0"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

// configKey is used to store config in context.
type configKey struct{}

// rendererKey is used to store renderer in context.
type rendererKey struct{}

// NewRootCmd creates and returns the root command.
func NewRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "regdash",
		Short: "regdash - AI Regulation Comparative Dashboard",
		Long: `regdash compares AI regulations across countries and regions.

It reads a table of regulation metadata from a CSV/TSV file or a database,
filters it by a country selection and derives the dashboard panels: a
summary, regulations per country, compliance steps, an enforcement map,
penalties, enforcement bodies and law links. Panels are printed by the
subcommands, explored in a REPL or served as a web page.`,
		Version: Version,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip config loading for help and completion commands
			if cmd.Name() == "help" || cmd.Name() == "completion" || cmd.Name() == "__complete" {
				return nil
			}

			var err error
			cfg, err = config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
			if err != nil {
				return err
			}

			logger := newLogger(cmd, cfg.Verbose)

			ctx := context.WithValue(cmd.Context(), configKey{}, cfg)
			ctx = config.WithLogger(ctx, logger)

			mode := output.Mode(cfg.OutputFormat)
			renderer := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)
			ctx = context.WithValue(ctx, rendererKey{}, renderer)
			cmd.SetContext(ctx)

			if configFile := config.GetConfigFileUsed(); configFile != "" {
				logger.Debug("using config file", slog.String("path", configFile))
			}
			logger.Debug("using data source", slog.String("data", cfg.Data))

			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetVersionTemplate(`{{.Name}} {{.Version}}
AI regulation dashboard built with Go
`)

	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default: ./regdash.yaml)")
	rootCmd.PersistentFlags().String("data", "", "Data source: CSV/TSV path, sqlite:<path>[#table] or postgres://...[#table]")
	rootCmd.PersistentFlags().StringSliceP("country", "c", nil, "Countries to select (repeatable or comma-separated)")
	rootCmd.PersistentFlags().Bool("all", false, "Select every country in the data source")
	rootCmd.PersistentFlags().String("delimiter", "", `Field delimiter for file sources (default: by extension; "tab" for tabs)`)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Verbose output")
	rootCmd.PersistentFlags().StringP("output", "o", "", "Output format (auto|text|markdown|json)")

	_ = rootCmd.RegisterFlagCompletionFunc("output", func(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
		return []string{"auto", "text", "markdown", "json"}, cobra.ShellCompDirectiveNoFileComp
	})
	_ = rootCmd.RegisterFlagCompletionFunc("country", completeCountries)

	rootCmd.AddCommand(commands.NewVersionCommand(Version))
	rootCmd.AddCommand(commands.NewInitCommand())
	rootCmd.AddCommand(commands.NewCountriesCommand())
	rootCmd.AddCommand(commands.NewDashboardCommand())
	rootCmd.AddCommand(commands.NewSummaryCommand())
	rootCmd.AddCommand(commands.NewRegulationsCommand())
	rootCmd.AddCommand(commands.NewStepsCommand())
	rootCmd.AddCommand(commands.NewMapCommand())
	rootCmd.AddCommand(commands.NewPenaltiesCommand())
	rootCmd.AddCommand(commands.NewBodiesCommand())
	rootCmd.AddCommand(commands.NewLinksCommand())
	rootCmd.AddCommand(commands.NewExploreCommand())
	rootCmd.AddCommand(commands.NewUICommand())
	rootCmd.AddCommand(NewCompletionCommand())

	return rootCmd
}

// newLogger writes text logs to stderr; debug records only with --verbose.
func newLogger(cmd *cobra.Command, verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

// completeCountries offers the countries of the configured data source.
func completeCountries(cmd *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	c, err := config.LoadConfig(cfgFile, cmd.Root().PersistentFlags())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	src, err := source.ParseDescriptor(c.Data, c.DelimiterRune())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	t, err := regulation.Load(cmd.Context(), src)
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return regulation.Countries(t), cobra.ShellCompDirectiveNoFileComp
}

// Execute runs the root command.
func Execute() error {
	rootCmd := NewRootCmd()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return err
	}
	return nil
}

// GetConfig retrieves the config from the command context.
func GetConfig(ctx context.Context) *config.Config {
	if c, ok := ctx.Value(configKey{}).(*config.Config); ok {
		return c
	}
	// Return default config if none in context
	return &config.Config{
		Data:         config.DefaultData,
		OutputFormat: config.DefaultOutput,
		CacheTTL:     config.DefaultCacheTTL,
	}
}

// GetRenderer retrieves the renderer from the command context.
func GetRenderer(ctx context.Context) *output.Renderer {
	if r, ok := ctx.Value(rendererKey{}).(*output.Renderer); ok {
		return r
	}
	// Return default renderer if none in context
	return output.NewRenderer(os.Stdout, os.Stderr, output.ModeAuto)
}

// NewCompletionCommand creates the completion command.
func NewCompletionCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Generate shell completion scripts for regdash.

To load completions:

Bash:
  $ source <(regdash completion bash)

  # To load completions for each session, execute once:
  # Linux:
  $ regdash completion bash > /etc/bash_completion.d/regdash
  # macOS:
  $ regdash completion bash > $(brew --prefix)/etc/bash_completion.d/regdash

Zsh:
  # If shell completion is not already enabled in your environment,
  # you will need to enable it. Execute the following once:
  $ echo "autoload -U compinit; compinit" >> ~/.zshrc

  # To load completions for each session, execute once:
  $ regdash completion zsh > "${fpath[1]}/_regdash"

  # You will need to start a new shell for this setup to take effect.

Fish:
  $ regdash completion fish | source

  # To load completions for each session, execute once:
  $ regdash completion fish > ~/.config/fish/completions/regdash.fish

PowerShell:
  PS> regdash completion powershell | Out-String | Invoke-Expression

  # To load completions for every new session, run:
  PS> regdash completion powershell > regdash.ps1
  # and source this file from your PowerShell profile.
`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return cmd.Root().GenBashCompletion(out)
			case "zsh":
				return cmd.Root().GenZshCompletion(out)
			case "fish":
				return cmd.Root().GenFishCompletion(out, true)
			case "powershell":
				return cmd.Root().GenPowerShellCompletionWithDesc(out)
			}
			return nil
		},
	}
	return cmd
}
