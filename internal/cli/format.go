package cli

import (
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/fatih/color"

	"github.com/danieljhkim/modlog/internal/installlog"
	"github.com/danieljhkim/modlog/internal/mutate"
	"github.com/danieljhkim/modlog/internal/task"
	"github.com/danieljhkim/modlog/internal/uninstall"
)

// fatih/color drops the escapes when stdout is not a TTY or NO_COLOR is set.
var (
	okColor    = color.New(color.FgGreen, color.Bold)
	warnColor  = color.New(color.FgYellow, color.Bold)
	failColor  = color.New(color.FgRed, color.Bold)
	titleColor = color.New(color.FgBlue, color.Bold)
	itemColor  = color.New(color.FgCyan)
	keyColor   = color.New(color.Bold)
	mutedColor = color.New(color.FgHiBlack)
)

// PrintError writes err to stderr. Used by main for the error Execute returns.
func PrintError(err error) {
	_, _ = failColor.Fprintf(os.Stderr, "✗ %v\n", err)
}

// plural renders n with the singular or plural noun.
func plural(n int, one, many string) string {
	if n == 1 {
		return "1 " + one
	}
	return strconv.Itoa(n) + " " + many
}

// printer writes the human-readable output of a command.
type printer struct {
	w io.Writer
}

func newPrinter(w io.Writer) *printer {
	if w == nil {
		w = os.Stdout
	}
	return &printer{w: w}
}

func (p *printer) title(s string) {
	_, _ = titleColor.Fprintf(p.w, "▸ %s\n", s)
}

func (p *printer) ok(format string, args ...any) {
	_, _ = okColor.Fprintf(p.w, "✓ "+format+"\n", args...)
}

func (p *printer) warn(format string, args ...any) {
	_, _ = warnColor.Fprintf(p.w, "⚠ "+format+"\n", args...)
}

func (p *printer) fail(format string, args ...any) {
	_, _ = failColor.Fprintf(p.w, "✗ "+format+"\n", args...)
}

func (p *printer) field(label, value string) {
	_, _ = keyColor.Fprintf(p.w, "  %-14s", label+":")
	_, _ = mutedColor.Fprintln(p.w, value)
}

func (p *printer) muted(msg string) {
	_, _ = mutedColor.Fprintf(p.w, "  %s\n", msg)
}

// section prints heading and one bullet per item. Empty sections print nothing.
func (p *printer) section(heading string, items []string) {
	if len(items) == 0 {
		return
	}
	_, _ = itemColor.Fprintf(p.w, "  %s (%d)\n", heading, len(items))
	for _, it := range items {
		_, _ = fmt.Fprintf(p.w, "    • %s\n", it)
	}
}

func editStrings(edits []installlog.ConfigEdit) []string {
	out := make([]string, len(edits))
	for i, e := range edits {
		out[i] = e.String()
	}
	return out
}

// owners prints one row per owner with right-aligned record counts.
func (p *printer) owners(rows []ownerSummary) {
	if len(rows) == 0 {
		p.muted("No recorded changes")
		return
	}
	width := len("OWNER")
	for _, r := range rows {
		width = max(width, len(r.Owner))
	}
	_, _ = titleColor.Fprintf(p.w, "  %-*s  %6s  %6s  %6s\n", width, "OWNER", "FILES", "CONFIG", "VALUES")
	for _, r := range rows {
		_, _ = fmt.Fprintf(p.w, "  %-*s  %6d  %6d  %6d\n", width, r.Owner, r.Files, r.ConfigEdits, r.ValueEdits)
	}
}

var driftColors = map[mutate.DriftStatus]*color.Color{
	mutate.DriftNone:     okColor,
	mutate.DriftModified: warnColor,
	mutate.DriftMissing:  failColor,
	mutate.DriftUnknown:  mutedColor,
}

// ownerLog prints everything recorded for one owner. drift is nil unless
// the files were verified, in which case it lines up with l.Files.
func (p *printer) ownerLog(l *installlog.OwnerLog, drift []mutate.FileDrift) {
	p.title(l.Owner)
	p.field("Records", plural(l.Len(), "record", "records"))

	if len(l.Files) > 0 {
		_, _ = itemColor.Fprintf(p.w, "  Files (%d)\n", len(l.Files))
		for i, f := range l.Files {
			_, _ = fmt.Fprintf(p.w, "    • %s", f.Path)
			if drift != nil {
				c := driftColors[drift[i].Status]
				_, _ = c.Fprintf(p.w, " [%s]", drift[i].Status)
			}
			_, _ = fmt.Fprintln(p.w)
		}
	}
	edits := make([]installlog.ConfigEdit, len(l.ConfigEdits))
	for i, e := range l.ConfigEdits {
		edits[i] = e.ConfigEdit
	}
	p.section("Config edits", editStrings(edits))
	keys := make([]string, len(l.ValueEdits))
	for i, v := range l.ValueEdits {
		keys[i] = v.Key
	}
	p.section("Value edits", keys)
}

// plan prints what an uninstall of snap would revert, in phase order.
func (p *printer) plan(snap installlog.Snapshot) {
	p.title("Dry run: " + snap.Owner)
	if snap.Len() == 0 {
		p.muted("Nothing recorded for " + snap.Owner)
		return
	}
	p.field("Would revert", plural(snap.Len(), "record", "records"))
	p.section(phaseHeading(uninstall.RunningFiles), snap.Files)
	p.section(phaseHeading(uninstall.RunningConfigEdits), editStrings(snap.ConfigEdits))
	p.section(phaseHeading(uninstall.RunningValueEdits), snap.ValueEdits)
}

func phaseHeading(ph uninstall.Phase) string {
	switch ph {
	case uninstall.RunningFiles:
		return "Files"
	case uninstall.RunningConfigEdits:
		return "Config edits"
	case uninstall.RunningValueEdits:
		return "Value edits"
	}
	return ph.String()
}

// report prints the outcome line, the failures grouped by phase and the
// reverted counts of an uninstall run.
func (p *printer) report(r uninstall.Report) {
	switch {
	case r.Status == task.Cancelled:
		p.warn("Uninstall of %s cancelled", r.Owner)
	case r.Status == task.Failed:
		p.fail("Uninstall of %s stopped", r.Owner)
	case len(r.Failures) > 0:
		p.warn("Uninstalled %s with %s", r.Owner, plural(len(r.Failures), "failure", "failures"))
	default:
		p.ok("Uninstalled %s", r.Owner)
	}

	byPhase := make(map[uninstall.Phase][]string)
	for _, f := range r.Failures {
		byPhase[f.Phase] = append(byPhase[f.Phase], fmt.Sprintf("%s: %v", f.Item, f.Err))
	}
	reverted := map[uninstall.Phase]int{
		uninstall.RunningFiles:       len(r.Files),
		uninstall.RunningConfigEdits: len(r.ConfigEdits),
		uninstall.RunningValueEdits:  len(r.ValueEdits),
	}
	for _, ph := range []uninstall.Phase{uninstall.RunningFiles, uninstall.RunningConfigEdits, uninstall.RunningValueEdits} {
		failed := byPhase[ph]
		status := plural(reverted[ph], "reverted", "reverted")
		if len(failed) > 0 {
			status += ", " + failColor.Sprintf("%d failed", len(failed))
		}
		p.field(phaseHeading(ph), status)
		for _, line := range failed {
			_, _ = failColor.Fprintf(p.w, "    ✗ %s\n", line)
		}
	}
	p.field("Run ID", r.RunID)
}
