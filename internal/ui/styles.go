package ui

import (
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

// Color palette
var (
	PrimaryColor = lipgloss.Color("#73BA25") // Green - headers, borders
	SuccessColor = lipgloss.Color("#43BF6D") // Green - success, checkmarks
	ErrorColor   = lipgloss.Color("#FF5555") // Red - errors, X marks
	WarningColor = lipgloss.Color("#FFA500") // Orange - warnings
	MutedColor   = lipgloss.Color("#626262") // Gray - secondary info
	TextColor    = lipgloss.Color("#FFFFFF") // White - main content
)

// Layout constants
const (
	MinTerminalWidth = 60
	MaxContentWidth  = 100
)

var (
	// HeaderTitleStyle is for the command title (e.g., "NETWORK CONNECTIONS")
	HeaderTitleStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				Bold(true).
				PaddingLeft(2)

	// HeaderCommandStyle is for the command line (e.g., "agama-net connections")
	HeaderCommandStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingLeft(2)

	HeaderParamKeyStyle = lipgloss.NewStyle().
				Foreground(MutedColor).
				PaddingLeft(2)

	HeaderParamValueStyle = lipgloss.NewStyle().
				Foreground(TextColor)

	ProgressLabelStyle = lipgloss.NewStyle().
				Foreground(TextColor).
				PaddingLeft(2)

	StepCompleteStyle = lipgloss.NewStyle().Foreground(SuccessColor)
	StepRunningStyle  = lipgloss.NewStyle().Foreground(WarningColor)
	StepPendingStyle  = lipgloss.NewStyle().Foreground(MutedColor)
	StepNoteStyle     = lipgloss.NewStyle().Foreground(MutedColor).Italic(true)

	SuccessTitleStyle = lipgloss.NewStyle().Foreground(SuccessColor).Bold(true)
	ErrorTitleStyle   = lipgloss.NewStyle().Foreground(ErrorColor).Bold(true)
	WarningTitleStyle = lipgloss.NewStyle().Foreground(WarningColor).Bold(true)
	ErrorMessageStyle = lipgloss.NewStyle().Foreground(ErrorColor)

	// ResultKeyStyle is for result detail keys
	ResultKeyStyle = lipgloss.NewStyle().
			Foreground(MutedColor).
			Width(15)

	ResultValueStyle = lipgloss.NewStyle().Foreground(TextColor)

	HintTitleStyle = lipgloss.NewStyle().Foreground(MutedColor).Bold(true)
	HintItemStyle  = lipgloss.NewStyle().Foreground(MutedColor)

	// DiagnosticTitleStyle is for the "Service response" header
	DiagnosticTitleStyle = lipgloss.NewStyle().Foreground(MutedColor).Bold(true)

	TableHeaderStyle = lipgloss.NewStyle().Foreground(PrimaryColor).Bold(true).Padding(0, 1)
	TableCellStyle   = lipgloss.NewStyle().Foreground(TextColor).Padding(0, 1)
)

// Markers
const (
	StepMarkerComplete = "✓"
	StepMarkerRunning  = "●"
	StepMarkerPending  = "·"
	StepMarkerSkipped  = "⊘"
	SuccessMarker      = "✓"
	FailureMarker      = "✗"
	WarningMarker      = "⚠"
)

// GetTerminalWidth returns the stdout terminal width clamped to
// [MinTerminalWidth, MaxContentWidth]
func GetTerminalWidth() int {
	width, _ := GetTerminalSize()
	return width
}

// GetTerminalSize returns the clamped terminal width and the height
func GetTerminalSize() (int, int) {
	width, height, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil {
		return MinTerminalWidth, 24
	}
	return clampWidth(width), height
}

// IsTerminal reports whether stdout is a terminal
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func clampWidth(width int) int {
	if width < MinTerminalWidth {
		return MinTerminalWidth
	}
	if width > MaxContentWidth {
		return MaxContentWidth
	}
	return width
}

// RenderHorizontalDivider creates a horizontal line of the given width
func RenderHorizontalDivider(width int, char string) string {
	if width < 1 {
		width = 1
	}
	return lipgloss.NewStyle().
		Foreground(PrimaryColor).
		Render(strings.Repeat(char, width))
}
