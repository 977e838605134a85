package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Header is the banner printed before a command's output
type Header struct {
	Title   string            // e.g., "NETWORK CONNECTIONS"
	Command string            // e.g., "agama-net connections"
	Params  map[string]string // e.g., {"Service": "http://10.0.0.5/api"}
	Width   int
}

// NewHeader creates a header sized to the terminal
func NewHeader(title, command string, params map[string]string) *Header {
	return &Header{
		Title:   title,
		Command: command,
		Params:  params,
		Width:   GetTerminalWidth(),
	}
}

// SetWidth overrides the detected terminal width
func (h *Header) SetWidth(width int) *Header {
	h.Width = width
	return h
}

// Render returns the styled header. Parameters are listed in key order.
func (h *Header) Render() string {
	width := clampWidth(h.Width)

	top := lipgloss.JoinVertical(lipgloss.Left,
		HeaderTitleStyle.Render(strings.ToUpper(h.Title)),
		HeaderCommandStyle.Render(h.Command),
	)

	content := top
	if len(h.Params) > 0 {
		var lines []string
		for _, k := range sortedKeys(h.Params) {
			lines = append(lines, HeaderParamKeyStyle.Render(k+":")+" "+HeaderParamValueStyle.Render(h.Params[k]))
		}
		content = lipgloss.JoinVertical(lipgloss.Left,
			top,
			RenderHorizontalDivider(max(width-6, 10), "─"),
			strings.Join(lines, "\n"),
		)
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(PrimaryColor).
		Width(width - 2).
		Render(content)
}

func (h *Header) String() string {
	return h.Render()
}
