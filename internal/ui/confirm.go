package ui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// ConfirmPhrase is what the user must type to go ahead with a destructive change
const ConfirmPhrase = "yes"

// ConfirmDestructive prints the warning text in a box and reads one line from
// in. It returns true only if the line is ConfirmPhrase. An empty warning
// needs no confirmation.
func ConfirmDestructive(in io.Reader, out io.Writer, title, warning string) bool {
	warning = strings.TrimSpace(warning)
	if warning == "" {
		return true
	}
	width := GetTerminalWidth()

	lines := []string{"", WarningTitleStyle.Render(fmt.Sprintf("   %s  WARNING  ─  %s", WarningMarker, title)), ""}
	for _, w := range strings.Split(warning, "\n") {
		lines = append(lines, lipgloss.NewStyle().Foreground(TextColor).Render("   "+strings.TrimSpace(w)))
	}
	lines = append(lines, "")

	box := lipgloss.NewStyle().
		Border(lipgloss.DoubleBorder()).
		BorderForeground(WarningColor).
		Width(width-2).
		Padding(0, 2).
		Render(strings.Join(lines, "\n"))

	fmt.Fprintln(out, box)
	fmt.Fprintln(out)
	fmt.Fprint(out, WarningTitleStyle.Render(fmt.Sprintf("Type %q to continue: ", ConfirmPhrase)))

	input, err := bufio.NewReader(in).ReadString('\n')
	fmt.Fprintln(out)
	if err != nil && input == "" {
		return false
	}
	if strings.EqualFold(strings.TrimSpace(input), ConfirmPhrase) {
		return true
	}
	fmt.Fprintln(out, lipgloss.NewStyle().Foreground(MutedColor).Render("  Operation cancelled."))
	return false
}
