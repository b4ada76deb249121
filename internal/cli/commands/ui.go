package commands

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"

	"github.com/google/uuid"
	"github.com/leapstack-labs/regdash/internal/ui"
	"github.com/spf13/cobra"
)

// UIOptions holds options for the ui command.
type UIOptions struct {
	Port      int
	NoBrowser bool
	Watch     bool
	Dev       bool
}

// NewUICommand creates the ui command.
func NewUICommand() *cobra.Command {
	opts := &UIOptions{}

	cmd := &cobra.Command{
		Use:   "ui",
		Short: "Serve the dashboard in the browser",
		Long: `Start a local web server with the interactive dashboard.

The page shows a country picker and every panel: summary, regulations,
compliance steps, enforcement map, penalties, enforcement bodies and law
links. Changing the selection updates the panels in place. With --watch a
file data source is re-read when it changes and open pages refresh.`,
		Example: `  # Start UI on default port
  regdash ui

  # Start on custom port without opening a browser
  regdash ui --port 3000 --no-browser`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runUI(cmd, opts)
		},
	}

	cmd.Flags().IntVar(&opts.Port, "port", 0, "Port to serve on (default: 8765)")
	cmd.Flags().BoolVar(&opts.NoBrowser, "no-browser", false, "Don't auto-open browser")
	cmd.Flags().BoolVar(&opts.Watch, "watch", true, "Reload when the data file changes")
	cmd.Flags().BoolVar(&opts.Dev, "dev", false, "Enable the live-reload endpoint")
	_ = cmd.Flags().MarkHidden("dev")

	return cmd
}

func runUI(cmd *cobra.Command, opts *UIOptions) error {
	cmdCtx := NewCommandContext(cmd)
	uiCfg := cmdCtx.Cfg.GetUIConfig()

	// CLI flags override config file
	port := uiCfg.Port
	if opts.Port != 0 {
		port = opts.Port
	}

	watch := uiCfg.Watch
	if cmd.Flags().Changed("watch") {
		watch = opts.Watch
	}

	src, err := cmdCtx.Source()
	if err != nil {
		return err
	}

	var initial []string
	if len(cmdCtx.Cfg.Countries) > 0 {
		initial = cmdCtx.Cfg.Countries
	}

	server := ui.NewServer(ui.Config{
		Loader:        cmdCtx.Loader,
		Source:        src,
		Mappings:      cmdCtx.Cfg.RegulationMappings(),
		Initial:       initial,
		Port:          port,
		Watch:         watch,
		Dev:           opts.Dev,
		SessionSecret: sessionSecret(uiCfg.SessionSecret),
		Logger:        cmdCtx.Logger,
	})

	url := fmt.Sprintf("http://localhost:%d", port)
	if !opts.NoBrowser {
		go openBrowser(url)
	}

	r := cmdCtx.Renderer
	r.Printf("Serving %s on %s\n", src.ID(), url)
	r.Muted("Press Ctrl+C to stop")

	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	return server.Serve(ctx)
}

// sessionSecret returns the configured cookie secret. Without one a random
// secret is used, so sessions end when the server stops.
func sessionSecret(configured string) string {
	if configured != "" {
		return configured
	}
	return uuid.NewString() + uuid.NewString()
}

// openBrowser opens the default browser to the specified URL.
func openBrowser(url string) {
	var cmd *exec.Cmd

	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url) //nolint:noctx
	case "linux":
		cmd = exec.Command("xdg-open", url) //nolint:noctx
	case "windows":
		cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", url) //nolint:noctx
	default:
		return
	}

	_ = cmd.Start()
}
