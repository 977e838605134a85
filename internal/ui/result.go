package ui

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ResultType selects the colour and marker of a result box
type ResultType int

const (
	ResultSuccess ResultType = iota
	ResultFailure
	ResultWarning
)

// Result is a boxed summary printed after an operation
type Result struct {
	Type    ResultType
	Title   string            // e.g., "Connection eth0 created"
	Details map[string]string // rendered in key order
	Error   error             // failure results only
	Hints   []string          // troubleshooting bullets, failure results only
	Width   int
}

// NewSuccessResult creates a success box
func NewSuccessResult(title string, details map[string]string) *Result {
	return &Result{Type: ResultSuccess, Title: title, Details: details, Width: GetTerminalWidth()}
}

// NewFailureResult creates a failure box
func NewFailureResult(title string, err error, hints []string) *Result {
	return &Result{Type: ResultFailure, Title: title, Error: err, Hints: hints, Width: GetTerminalWidth()}
}

// NewWarningResult creates a warning box
func NewWarningResult(title string, details map[string]string) *Result {
	return &Result{Type: ResultWarning, Title: title, Details: details, Width: GetTerminalWidth()}
}

func (r *Result) SetWidth(width int) *Result {
	r.Width = width
	return r
}

// AddDetail adds a key-value line to the box
func (r *Result) AddDetail(key, value string) *Result {
	if r.Details == nil {
		r.Details = make(map[string]string)
	}
	r.Details[key] = value
	return r
}

// Render returns the styled box
func (r *Result) Render() string {
	width := clampWidth(r.Width)

	var label, marker string
	var titleStyle lipgloss.Style
	var border lipgloss.TerminalColor
	switch r.Type {
	case ResultFailure:
		label, marker, titleStyle, border = "FAILED", FailureMarker, ErrorTitleStyle, ErrorColor
	case ResultWarning:
		label, marker, titleStyle, border = "WARNING", WarningMarker, WarningTitleStyle, WarningColor
	default:
		label, marker, titleStyle, border = "SUCCESS", SuccessMarker, SuccessTitleStyle, SuccessColor
	}

	lines := []string{"", titleStyle.Render(fmt.Sprintf("   %s  %s  ─  %s", marker, label, r.Title)), ""}

	if r.Type == ResultFailure && r.Error != nil {
		lines = append(lines, ErrorMessageStyle.Render("   Error: "+r.Error.Error()), "")
	}

	if len(r.Details) > 0 {
		for _, k := range sortedKeys(r.Details) {
			lines = append(lines, ResultKeyStyle.Render("   "+k+":")+" "+ResultValueStyle.Render(r.Details[k]))
		}
		lines = append(lines, "")
	}

	if r.Type == ResultFailure && len(r.Hints) > 0 {
		lines = append(lines, renderHints(r.Hints, width), "")
	}

	return lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(border).
		Width(width-2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))
}

func (r *Result) String() string {
	return r.Render()
}

func renderHints(hints []string, width int) string {
	lines := []string{HintTitleStyle.Render("Troubleshooting:"), ""}
	for _, h := range hints {
		lines = append(lines, HintItemStyle.Render("  • "+h))
	}
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(max(width-12, 40)).
		Padding(0, 1).
		MarginLeft(3).
		Render(strings.Join(lines, "\n"))
}

// SplitHint separates a multi-line troubleshooting text into its summary
// line and its bullet items.
func SplitHint(hint string) (summary string, items []string) {
	for _, line := range strings.Split(hint, "\n") {
		trimmed := strings.TrimSpace(line)
		switch {
		case trimmed == "" || trimmed == "Troubleshooting:":
		case strings.HasPrefix(trimmed, "•"):
			items = append(items, strings.TrimSpace(strings.TrimPrefix(trimmed, "•")))
		case summary == "":
			summary = trimmed
		default:
			items = append(items, trimmed)
		}
	}
	return summary, items
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
