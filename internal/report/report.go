// Package report renders runner events and plans for a terminal.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/truestretch/truestretch/internal/stretch"
	"github.com/truestretch/truestretch/internal/types"
)

// Console writes human-readable output to w. Colors are used only when w is
// a terminal.
type Console struct {
	w io.Writer

	title   lipgloss.Style
	dim     lipgloss.Style
	success lipgloss.Style
	warning lipgloss.Style
	failure lipgloss.Style
	added   lipgloss.Style
	removed lipgloss.Style
	hunk    lipgloss.Style
}

// NewConsole creates a Console writing to w.
func NewConsole(w io.Writer) *Console {
	r := lipgloss.NewRenderer(w)
	base := r.NewStyle().TabWidth(lipgloss.NoTabConversion)
	return &Console{
		w:       w,
		title:   base.Bold(true).Foreground(lipgloss.Color("205")),
		dim:     base.Foreground(lipgloss.Color("240")),
		success: base.Foreground(lipgloss.Color("#4ade80")),
		warning: base.Foreground(lipgloss.Color("#fbbf24")),
		failure: base.Foreground(lipgloss.Color("#f87171")),
		added:   base.Foreground(lipgloss.Color("42")),
		removed: base.Foreground(lipgloss.Color("203")),
		hunk:    base.Foreground(lipgloss.Color("81")),
	}
}

func (c *Console) printf(format string, args ...any) {
	fmt.Fprintf(c.w, format, args...)
}

// Handle renders one event. It satisfies stretch.Sink.
func (c *Console) Handle(e stretch.Event) {
	switch e.Kind {
	case stretch.EventCheckPassed:
		c.printf("%s\n", c.success.Render(fmt.Sprintf("Native check passed (%s)", e.Native)))

	case stretch.EventCheckFailed:
		c.printf("%s\n", c.failure.Render("[!] Native check failed on "+e.Target.Path))
		c.printf("    Expected %s to match native %s / flags False. Got %s.\n",
			e.Mismatch.Key, e.Native, quoteActual(e))
		c.printf("    -> Open VALORANT on Fullscreen+Fill at native, then close and rerun.\n")

	case stretch.EventCheckBypassed:
		c.printf("%s\n", c.warning.Render(fmt.Sprintf(
			"[!] Native check failed but continuing (--force). Key %s got %s", e.Mismatch.Key, quoteActual(e))))

	case stretch.EventSkipped:
		c.printf("- Not found: %s -> %s (skipped)\n", e.Target.Label, e.Target.Path)

	case stretch.EventUnchanged:
		c.printf("- No changes needed: %s\n", e.Target.Label)

	case stretch.EventDiff:
		c.printf("\n%s\n", c.title.Render(">>> "+e.Target.Label))
		if strings.TrimSpace(e.Diff) == "" {
			c.printf("%s\n", c.dim.Render("(content replaced)"))
			return
		}
		c.printf("%s", c.colorDiff(e.Diff))

	case stretch.EventApplied:
		c.printf("%s\n", c.success.Render("-> Updated "+e.Target.Label+"."))

	case stretch.EventDryRun:
		c.printf("%s\n", c.dim.Render("-> Dry run (no write)."))
	}
}

func quoteActual(e stretch.Event) string {
	if e.Mismatch == nil || !e.Mismatch.Present {
		return "nothing"
	}
	return "'" + e.Mismatch.Actual + "'"
}

// colorDiff styles each diff line by its prefix, keeping line terminators.
func (c *Console) colorDiff(d string) string {
	var b strings.Builder
	for _, ln := range strings.SplitAfter(d, "\n") {
		if ln == "" {
			continue
		}
		body := strings.TrimRight(ln, "\r\n")
		eol := ln[len(body):]
		switch {
		case strings.HasPrefix(body, "+++"), strings.HasPrefix(body, "---"):
			body = c.title.Render(body)
		case strings.HasPrefix(body, "@@"):
			body = c.hunk.Render(body)
		case strings.HasPrefix(body, "+"):
			body = c.added.Render(body)
		case strings.HasPrefix(body, "-"):
			body = c.removed.Render(body)
		}
		b.WriteString(body + eol)
	}
	return b.String()
}

// Plan prints where the settings live and which files will be processed.
func (c *Console) Plan(p *stretch.Plan) {
	user := p.LastKnownUser
	if user == "" {
		user = "??"
	}
	folder := p.UserFolder
	if folder == "" {
		folder = "NOT FOUND (will still update root)"
	}

	c.printf("Base config: %s\n", p.BaseDir)
	c.printf("LastKnownUser: %s\n", user)
	c.printf("User folder: %s\n", folder)

	c.printf("\n%s\n", c.title.Render("Planned updates:"))
	for _, t := range p.Targets {
		c.printf(" - %s -> %s\n", t.Label, t.Path)
	}
}

// Summary prints the per-outcome counts of a finished run.
func (c *Console) Summary(r *stretch.Report) {
	counts := make(map[stretch.Outcome]int)
	for _, res := range r.Results {
		counts[res.Outcome]++
	}
	c.printf("\n%s\n", c.dim.Render(fmt.Sprintf("%d applied, %d previewed, %d unchanged, %d skipped",
		counts[stretch.OutcomeApplied], counts[stretch.OutcomePreviewed],
		counts[stretch.OutcomeUnchanged], counts[stretch.OutcomeSkipped])))
}

// NextSteps reminds the user what to do after the settings were written.
func (c *Console) NextSteps(target types.Resolution) {
	c.printf("\n%s\n", c.success.Render("Done."))
	c.printf("Next steps:\n")
	c.printf("  1) Change your Windows desktop resolution to %s.\n", target)
	c.printf("  2) Launch VALORANT.\n")
}

// Message prints a plain line.
func (c *Console) Message(format string, args ...any) {
	c.printf(format+"\n", args...)
}

// Presets lists the common native and target resolutions.
func (c *Console) Presets(native, target []string) {
	c.printf("%s\n", c.title.Render("Native resolutions:"))
	for _, r := range native {
		c.printf("  %s\n", r)
	}
	c.printf("%s\n", c.title.Render("Target resolutions:"))
	for _, r := range target {
		c.printf("  %s\n", r)
	}
}
