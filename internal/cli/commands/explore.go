package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/leapstack-labs/regdash/internal/cli/output"
	"github.com/leapstack-labs/regdash/internal/dashboard"
	"github.com/leapstack-labs/regdash/pkg/regulation"
	"github.com/spf13/cobra"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// historyFileName is the REPL history file, kept in the project root.
const historyFileName = ".regdash_history"

const explorePrompt = "regdash> "

// NewExploreCommand creates the explore command.
func NewExploreCommand() *cobra.Command {
	var historyFile string

	cmd := &cobra.Command{
		Use:   "explore",
		Short: "Explore the data interactively",
		Long: `Start an interactive session over the data source.

The session holds the country selection. Dot-commands change it and every
change recomputes the dashboard panels. Type .help for the list of commands.`,
		Example: `  regdash explore
  regdash explore -c France --all=false`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExplore(cmd, historyFile)
		},
	}

	cmd.Flags().StringVar(&historyFile, "history", "", "History file (default: .regdash_history in the project root)")

	return cmd
}

func runExplore(cmd *cobra.Command, historyFile string) error {
	ctx := cmd.Context()
	cmdCtx := NewCommandContext(cmd)

	sess, err := cmdCtx.NewSession(ctx)
	if err != nil {
		return err
	}

	if historyFile == "" && cmdCtx.Cfg.ProjectRoot != "" {
		historyFile = filepath.Join(cmdCtx.Cfg.ProjectRoot, historyFileName)
	}

	e := newExplorer(sess, cmdCtx.Renderer)

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          explorePrompt,
		HistoryFile:     historyFile,
		AutoComplete:    e.completer(),
		InterruptPrompt: "^C",
		EOFPrompt:       ".quit",
	})
	if err != nil {
		return fmt.Errorf("failed to initialize REPL: %w", err)
	}
	defer func() { _ = rl.Close() }()

	r := cmdCtx.Renderer
	r.Printf("regdash explore (source: %s)\n", sess.Table().Source)
	r.Println("Type .help for commands, .quit to exit")
	r.Println()
	renderSelection(r, sess.View())

	for {
		line, err := rl.Readline()
		if errors.Is(err, readline.ErrInterrupt) {
			continue
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		if quit := e.handle(ctx, line); quit {
			break
		}
	}

	return nil
}

// explorer runs REPL commands against a dashboard session.
type explorer struct {
	sess  *dashboard.Session
	r     *output.Renderer
	title cases.Caser
}

func newExplorer(sess *dashboard.Session, r *output.Renderer) *explorer {
	return &explorer{
		sess:  sess,
		r:     r,
		title: cases.Title(language.English),
	}
}

// handle runs one input line and reports whether the REPL should exit.
func (e *explorer) handle(ctx context.Context, line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	if !strings.HasPrefix(line, ".") {
		e.r.Error(fmt.Sprintf("Unknown input %q (commands start with a dot, type .help)", line))
		return false
	}

	command, rest, _ := strings.Cut(line, " ")
	command = strings.ToLower(command)
	args := splitCountries(rest)

	switch command {
	case ".quit", ".exit":
		return true

	case ".help":
		printExploreHelp(e.r.Writer())

	case ".countries":
		e.printCountries()

	case ".show":
		panel := strings.ToLower(strings.TrimSpace(rest))
		if !e.show(panel) {
			e.r.Error(fmt.Sprintf("Unknown panel %q (want one of %s)", panel, strings.Join(panelNames, ", ")))
		}

	case ".select":
		e.apply(e.sess.State().WithSelection(e.resolve(args)))

	case ".add":
		if e.requireArgs(command, args) {
			e.apply(e.sess.State().Add(e.resolve(args)...))
		}

	case ".remove", ".rm":
		if e.requireArgs(command, args) {
			e.apply(e.sess.State().Remove(e.resolve(args)...))
		}

	case ".toggle":
		if e.requireArgs(command, args) {
			next := e.sess.State()
			for _, c := range e.resolve(args) {
				next = next.Toggle(c)
			}
			e.apply(next)
		}

	case ".clear":
		e.apply(e.sess.State().Clear())

	case ".all":
		e.apply(dashboard.NewState(regulation.Countries(e.sess.Table())...))

	case ".reload":
		if err := e.sess.Reload(ctx); err != nil {
			e.r.Error(err.Error())
			return false
		}
		e.r.Success(fmt.Sprintf("Reloaded %d rows", e.sess.Table().Len()))

	default:
		e.r.Error(fmt.Sprintf("Unknown command: %s (type .help for commands)", command))
	}
	return false
}

func (e *explorer) requireArgs(command string, args []string) bool {
	if len(args) > 0 {
		return true
	}
	e.r.Error(fmt.Sprintf("Usage: %s <country>[, <country>...]", command))
	return false
}

func (e *explorer) apply(next dashboard.State) {
	renderSelection(e.r, e.sess.Apply(next))
}

// resolve maps user input onto the countries of the table ignoring case.
// Unknown names are title-cased and kept; they select nothing.
func (e *explorer) resolve(names []string) []string {
	known := regulation.Countries(e.sess.Table())
	out := make([]string, 0, len(names))
	for _, name := range names {
		name = regulation.NormalizeCountry(name)
		if c, ok := matchCountry(name, known); ok {
			out = append(out, c)
			continue
		}
		c := e.title.String(name)
		e.r.Warning(fmt.Sprintf("%s is not in the data source", c))
		out = append(out, c)
	}
	return out
}

func matchCountry(name string, known []string) (string, bool) {
	for _, c := range known {
		if strings.EqualFold(c, name) {
			return c, true
		}
	}
	return "", false
}

// splitCountries splits a comma-separated argument list; country names may
// contain spaces.
func splitCountries(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

var panelNames = []string{"all", "summary", "regulations", "steps", "map", "penalties", "bodies", "links"}

func (e *explorer) show(panel string) bool {
	v := e.sess.View()
	switch panel {
	case "", "all":
		renderDashboard(e.r, v)
	case "summary":
		renderSummary(e.r, v)
	case "regulations":
		renderRegulations(e.r, v)
	case "steps":
		renderCompliance(e.r, v.Compliance)
	case "map":
		renderMap(e.r, v)
	case "penalties":
		renderPenalties(e.r, v)
	case "bodies":
		renderBodies(e.r, v)
	case "links":
		renderLinks(e.r, v)
	default:
		return false
	}
	return true
}

func (e *explorer) printCountries() {
	state := e.sess.State()
	for _, c := range regulation.Countries(e.sess.Table()) {
		status := "pending"
		if state.Has(c) {
			status = "success"
		}
		e.r.StatusLine(c, status, "")
	}
}

func (e *explorer) completer() *readline.PrefixCompleter {
	countries := readline.PcItemDynamic(func(string) []string {
		return regulation.Countries(e.sess.Table())
	})

	panels := make([]readline.PrefixCompleterInterface, 0, len(panelNames))
	for _, p := range panelNames {
		panels = append(panels, readline.PcItem(p))
	}

	return readline.NewPrefixCompleter(
		readline.PcItem(".help"),
		readline.PcItem(".countries"),
		readline.PcItem(".show", panels...),
		readline.PcItem(".select", countries),
		readline.PcItem(".add", countries),
		readline.PcItem(".remove", countries),
		readline.PcItem(".toggle", countries),
		readline.PcItem(".clear"),
		readline.PcItem(".all"),
		readline.PcItem(".reload"),
		readline.PcItem(".quit"),
		readline.PcItem(".exit"),
	)
}

func printExploreHelp(w io.Writer) {
	help := `
Commands:
  .help                 Show this help message
  .countries            List countries, marking the selected ones
  .show [panel]         Show a panel (all, summary, regulations, steps,
                        map, penalties, bodies, links)
  .select <c>[, <c>]    Replace the selection
  .add <c>[, <c>]       Add countries to the selection
  .remove <c>[, <c>]    Remove countries from the selection
  .toggle <c>[, <c>]    Toggle countries
  .clear                Select nothing
  .all                  Select every country
  .reload               Re-read the data source
  .quit / .exit         Exit

Tips:
  - Country names are matched ignoring case
  - Separate several countries with commas
  - Tab completion works for commands and country names
`
	_, _ = fmt.Fprintln(w, help)
}
