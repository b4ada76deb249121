package dashboard

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strconv"
	"strings"

	"github.com/a-h/templ"

	dash "github.com/leapstack-labs/regdash/internal/dashboard"
	"github.com/leapstack-labs/regdash/internal/ui/resources"
	"github.com/leapstack-labs/regdash/pkg/regulation"
)

// Element IDs patched over SSE.
const (
	PanelsID    = "panels"
	SelectionID = "selection"
)

var esc = templ.EscapeString[string]

// Page renders the full dashboard document.
func Page(title string, isDev bool, v dash.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		selected, err := templ.JSONString(map[string][]string{"countries": v.Selected})
		if err != nil {
			return err
		}

		var b strings.Builder
		b.WriteString("<!doctype html>\n<html lang=\"en\">\n<head>\n")
		b.WriteString(`<meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1">`)
		fmt.Fprintf(&b, "<title>%s - regdash</title>\n", esc(title))
		fmt.Fprintf(&b, `<link rel="stylesheet" href="%s">`, esc(resources.StaticPath("app.css")))
		fmt.Fprintf(&b, `<script type="module" src="%s"></script>`, esc(resources.DatastarScript))
		b.WriteString("\n</head>\n")
		fmt.Fprintf(&b, `<body data-signals="%s" data-init="@get('/updates')">`, esc(selected))
		if isDev {
			b.WriteString(`<div data-init="@get('/reload', {retryMaxCount: 1000})"></div>`)
		}
		b.WriteString("\n<header class=\"ui-header\"><h1>AI Regulation Comparative Dashboard</h1>")
		fmt.Fprintf(&b, `<p class="muted">Source: %s</p></header>`, esc(v.Source))
		b.WriteString("\n<main class=\"ui-content\">\n")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}

		if err := Selection(v).Render(ctx, w); err != nil {
			return err
		}
		if err := Panels(v).Render(ctx, w); err != nil {
			return err
		}

		_, err = io.WriteString(w, "\n</main>\n</body>\n</html>\n")
		return err
	})
}

// Selection renders the country picker. Every change posts the bound
// countries signal to /select.
func Selection(v dash.View) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, `<form id="%s" class="selection">`, SelectionID)
		b.WriteString("<fieldset><legend>Select Countries or Regions for Comparison</legend>")
		for _, c := range v.Countries {
			checked := ""
			if slices.Contains(v.Selected, c) {
				checked = " checked"
			}
			fmt.Fprintf(&b, `<label><input type="checkbox" value="%s" data-bind:countries data-on:change="@post('/select')"%s> %s</label>`,
				esc(c), checked, esc(c))
		}
		b.WriteString("</fieldset></form>\n")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// Panels renders every dashboard panel for v.
func Panels(v dash.View) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, `<div id="%s" class="panels">`, PanelsID)
		if v.Empty() {
			b.WriteString(`<p class="muted empty">No regulations match the selection.</p>`)
		}
		writeSummary(&b, v)
		writeRegulations(&b, v)
		writeCompliance(&b, v)
		writeMap(&b, v)
		writePenalties(&b, v)
		writeBodies(&b, v)
		writeLinks(&b, v)
		b.WriteString("</div>\n")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func section(b *strings.Builder, id, title string) {
	fmt.Fprintf(b, `<section id="%s" class="panel"><h2>%s</h2>`, id, esc(title))
}

func table(b *strings.Builder, header []string, rows [][]string) {
	if len(rows) == 0 {
		b.WriteString(`<p class="muted">No rows.</p>`)
		return
	}
	b.WriteString("<table><thead><tr>")
	for _, h := range header {
		fmt.Fprintf(b, "<th>%s</th>", esc(h))
	}
	b.WriteString("</tr></thead><tbody>")
	for _, row := range rows {
		b.WriteString("<tr>")
		for _, cell := range row {
			fmt.Fprintf(b, "<td>%s</td>", esc(cell))
		}
		b.WriteString("</tr>")
	}
	b.WriteString("</tbody></table>")
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func level(l int) string {
	if l == 0 {
		return "-"
	}
	return strconv.Itoa(l)
}

func writeSummary(b *strings.Builder, v dash.View) {
	section(b, "summary", "Summary of Selected Data")
	var rows [][]string
	if v.Summary != nil {
		for _, r := range v.Summary.Records {
			rows = append(rows, []string{r.Country, r.RegulationName, level(r.EnforcementLevel), r.Penalties, r.ComplianceSteps})
		}
	}
	table(b, regulation.SummaryColumns, rows)
	b.WriteString("</section>")
}

func writeRegulations(b *strings.Builder, v dash.View) {
	section(b, "regulations", "List of Regulations for Selected Countries")
	var rows [][]string
	for _, g := range v.Regulations {
		rows = append(rows, []string{g.Country, orDash(g.Regulations)})
	}
	table(b, []string{regulation.ColCountry, "Regulations"}, rows)
	b.WriteString("</section>")
}

func writeCompliance(b *strings.Builder, v dash.View) {
	section(b, "compliance", "Compliance Steps Breakdown")
	for _, cs := range v.Compliance {
		fmt.Fprintf(b, "<details><summary><strong>%s</strong> Compliance Steps</summary><ul>", esc(cs.Country))
		for _, step := range cs.Steps {
			fmt.Fprintf(b, "<li>%s</li>", esc(step))
		}
		b.WriteString("</ul></details>")
	}
	b.WriteString("</section>")
}

func writeMap(b *strings.Builder, v dash.View) {
	section(b, "map", "Enforcement Level Map for Selected Countries")
	b.WriteString(`<ul class="levels">`)
	for _, g := range v.Geo {
		fmt.Fprintf(b, `<li class="level-%d" data-iso="%s"><span class="iso">%s</span> %s <span class="level">%s</span></li>`,
			g.EnforcementLevel, esc(g.ISOCode), esc(g.ISOCode), esc(g.Country), level(g.EnforcementLevel))
	}
	b.WriteString("</ul></section>")
}

func writePenalties(b *strings.Builder, v dash.View) {
	section(b, "penalties", "Penalties for Selected AI Regulations")
	var rows [][]string
	for _, p := range v.Penalties {
		rows = append(rows, []string{p.Country, orDash(p.Penalties)})
	}
	table(b, []string{regulation.ColCountry, regulation.ColPenalties}, rows)
	b.WriteString("</section>")
}

func writeBodies(b *strings.Builder, v dash.View) {
	section(b, "bodies", "Enforcement Bodies")
	b.WriteString(`<div class="cards">`)
	for _, c := range v.Bodies {
		fmt.Fprintf(b, `<div class="card"><h3>%s</h3><p>%s</p><p class="muted">%s</p></div>`,
			esc(c.Country), esc(orDash(c.RegulationName)), esc(orDash(c.EnforcementBody)))
	}
	b.WriteString("</div></section>")
}

func writeLinks(b *strings.Builder, v dash.View) {
	section(b, "links", "Law Links")
	b.WriteString("<ul>")
	for _, l := range v.Links {
		fmt.Fprintf(b, `<li><a href="%s" target="_blank" rel="noopener">%s</a> <span class="muted">%s</span></li>`,
			esc(string(templ.URL(l.URL))), esc(orDash(l.RegulationName)), esc(l.Country))
	}
	b.WriteString("</ul></section>")
}
