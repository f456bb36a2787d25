package ui

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"golang.org/x/term"

	"github.com/danieljhkim/modlog/internal/task"
)

// Mode selects when the progress view draws.
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeAlways Mode = "always"
	ModeNever  Mode = "never"
)

// ParseMode parses a mode name. The empty string means auto.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeAuto:
		return ModeAuto, nil
	case ModeAlways:
		return ModeAlways, nil
	case ModeNever:
		return ModeNever, nil
	default:
		return "", fmt.Errorf("invalid progress mode %q (want auto, always or never)", s)
	}
}

const barWidth = 20

// ProgressView is a task.Observer that draws one status line per event.
// On a terminal the line is rewritten in place; otherwise each distinct
// line is written once.
type ProgressView struct {
	w       io.Writer
	enabled bool
	tty     bool

	mu   sync.Mutex
	last string
}

// NewProgressView creates a view writing to w. In auto mode it draws only
// when w is a terminal.
func NewProgressView(w io.Writer, mode Mode) *ProgressView {
	tty := isTerminal(w)
	enabled := mode == ModeAlways || (mode == ModeAuto && tty)
	return &ProgressView{w: w, enabled: enabled, tty: tty}
}

// Enabled reports whether the view draws anything.
func (v *ProgressView) Enabled() bool {
	return v.enabled
}

// OnTaskEvent implements task.Observer.
func (v *ProgressView) OnTaskEvent(e task.Event) {
	if !v.enabled {
		return
	}
	line := renderLine(e.Progress)

	v.mu.Lock()
	defer v.mu.Unlock()

	if v.tty {
		fmt.Fprintf(v.w, "\r\033[K%s", line)
		if e.Kind == task.Ended {
			fmt.Fprintln(v.w)
		}
		v.last = line
		return
	}
	if line == v.last {
		return
	}
	fmt.Fprintln(v.w, line)
	v.last = line
}

// renderLine formats "[1/3] Uninstalling files... ━━━━░░░░ 2/5".
func renderLine(p task.Progress) string {
	var b strings.Builder
	b.WriteString(stepStyle.Render(fmt.Sprintf("[%d/%d]", p.OverallValue, p.OverallMax)))
	if p.ItemMessage != "" {
		b.WriteString(" " + p.ItemMessage)
	} else if p.OverallMessage != "" {
		b.WriteString(" " + p.OverallMessage)
	}
	b.WriteString(" " + renderBar(p.ItemValue, p.ItemMax, barWidth))
	b.WriteString(mutedStyle.Render(fmt.Sprintf(" %d/%d", p.ItemValue, p.ItemMax)))
	if s := renderStatus(p.Status); s != "" {
		b.WriteString(" " + s)
	}
	return b.String()
}

func renderStatus(s task.Status) string {
	switch s {
	case task.Complete:
		return successStyle.Render(symbolSuccess + " " + s.String())
	case task.Failed:
		return errorStyle.Render(symbolError + " " + s.String())
	case task.Cancelling, task.Cancelled:
		return warningStyle.Render(symbolWarning + " " + s.String())
	default:
		return ""
	}
}

func renderBar(done, total, width int) string {
	if total <= 0 {
		return strings.Repeat("░", width)
	}
	filled := done * width / total
	if filled > width {
		filled = width
	}
	return strings.Repeat("━", filled) + strings.Repeat("░", width-filled)
}

func isTerminal(w io.Writer) bool {
	if f, ok := w.(*os.File); ok {
		return term.IsTerminal(int(f.Fd()))
	}
	return false
}
