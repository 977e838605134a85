package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// DefaultDiagnosticLines is how many body lines a Diagnostic shows before truncating
const DefaultDiagnosticLines = 20

// Diagnostic is a boxed, verbatim service response body
type Diagnostic struct {
	Title    string // e.g., "PUT network/connections/eth0 → 422"
	Body     string
	MaxLines int // 0 shows everything
	Width    int
}

// NewDiagnostic creates a diagnostic box for a response body
func NewDiagnostic(title, body string) *Diagnostic {
	return &Diagnostic{Title: title, Body: body, MaxLines: DefaultDiagnosticLines, Width: GetTerminalWidth()}
}

// Lines returns the body lines that will be shown and how many were cut
func (d *Diagnostic) Lines() ([]string, int) {
	body := strings.TrimRight(d.Body, "\n")
	if body == "" {
		return nil, 0
	}
	lines := strings.Split(body, "\n")
	if d.MaxLines > 0 && len(lines) > d.MaxLines {
		return lines[:d.MaxLines], len(lines) - d.MaxLines
	}
	return lines, 0
}

// Render returns the styled box, or "" when the body is empty
func (d *Diagnostic) Render() string {
	lines, hidden := d.Lines()
	if len(lines) == 0 {
		return ""
	}
	width := clampWidth(d.Width)

	content := []string{DiagnosticTitleStyle.Render("Service response: " + d.Title), ""}
	text := lipgloss.NewStyle().Foreground(TextColor)
	for _, l := range lines {
		content = append(content, text.Render(l))
	}
	if hidden > 0 {
		content = append(content, StepNoteStyle.Render(fmt.Sprintf("... %d more line(s)", hidden)))
	}

	return lipgloss.NewStyle().
		Border(lipgloss.NormalBorder()).
		BorderForeground(MutedColor).
		Width(width-2).
		Padding(0, 1).
		Render(strings.Join(content, "\n"))
}

func (d *Diagnostic) String() string {
	return d.Render()
}
