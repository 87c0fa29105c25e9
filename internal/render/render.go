// Package render provides output formatting for uvstart commands: progress
// lines, the planned folder tree, build summaries and catalog listings.
//
// Machine-readable output is stable `key: value` lines. Styling is applied
// through a lipgloss renderer bound to the destination writer, so output to
// pipes and files stays plain.
package render

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Styles holds the styles used by command output.
type Styles struct {
	Progress lipgloss.Style
	Success  lipgloss.Style
	Failure  lipgloss.Style
	Warning  lipgloss.Style
	Faint    lipgloss.Style
}

// NewStyles returns styles that render for w's color profile.
func NewStyles(w io.Writer) Styles {
	r := lipgloss.NewRenderer(w)
	return Styles{
		Progress: r.NewStyle().Foreground(lipgloss.Color("6")),
		Success:  r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		Failure:  r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		Warning:  r.NewStyle().Foreground(lipgloss.Color("3")),
		Faint:    r.NewStyle().Faint(true),
	}
}

// ProgressPrefix starts every progress line.
const ProgressPrefix = "==> "

// Progress writes build progress lines.
type Progress struct {
	w      io.Writer
	styles Styles
}

// NewProgress creates a Progress writing to w.
func NewProgress(w io.Writer) *Progress {
	return &Progress{w: w, styles: NewStyles(w)}
}

// Step writes one progress line.
func (p *Progress) Step(msg string) {
	fmt.Fprintln(p.w, p.styles.Progress.Render(ProgressPrefix+msg))
}

// Done writes the final status line of a build.
func (p *Progress) Done(success bool, msg string) {
	style := p.styles.Success
	if !success {
		style = p.styles.Failure
	}
	fmt.Fprintln(p.w, style.Render(msg))
}

// Warning writes a "warning: <code>" line followed by the message, if any.
func Warning(w io.Writer, code, msg string) {
	st := NewStyles(w)
	line := "warning: " + code
	if msg != "" {
		line += " (" + msg + ")"
	}
	fmt.Fprintln(w, st.Warning.Render(line))
}

// joinOrNone renders a list as "a, b, c", or "none" when empty.
func joinOrNone(items []string) string {
	if len(items) == 0 {
		return "none"
	}
	return strings.Join(items, ", ")
}

func boolStr(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

func orNone(s string) string {
	if s == "" {
		return "none"
	}
	return s
}
