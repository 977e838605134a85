package ui

import (
	"fmt"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/jeffmahoney/agama/internal/resource"
)

// RunOnceModel is a Bubble Tea model that renders its content once and quits
type RunOnceModel struct {
	content string
}

// NewRunOnceModel creates a model that renders content and exits
func NewRunOnceModel(content string) RunOnceModel {
	return RunOnceModel{content: content}
}

// Init implements tea.Model
func (m RunOnceModel) Init() tea.Cmd {
	return tea.Quit
}

// Update implements tea.Model
func (m RunOnceModel) Update(tea.Msg) (tea.Model, tea.Cmd) {
	return m, nil
}

// View implements tea.Model
func (m RunOnceModel) View() string {
	return m.content
}

// RenderOnce draws content through the Bubble Tea renderer on out and exits
func RenderOnce(out io.Writer, content string) error {
	p := tea.NewProgram(NewRunOnceModel(content), tea.WithOutput(out), tea.WithInput(nil))
	_, err := p.Run()
	return err
}

// Printer writes UI components to a writer. When Styled is false, boxes and
// headers are skipped and tables are printed without borders.
type Printer struct {
	out    io.Writer
	width  int
	Styled bool
}

// NewPrinter creates a Printer. A nil writer means os.Stdout, which is styled
// only when it is a terminal.
func NewPrinter(w io.Writer) *Printer {
	styled := false
	if w == nil {
		w = os.Stdout
		styled = IsTerminal()
	}
	return &Printer{out: w, width: GetTerminalWidth(), Styled: styled}
}

// Width returns the terminal width used for layout
func (p *Printer) Width() int {
	return p.width
}

// Print writes content as is
func (p *Printer) Print(content string) {
	_, _ = fmt.Fprint(p.out, content)
}

// Println writes content followed by a newline
func (p *Printer) Println(content string) {
	_, _ = fmt.Fprintln(p.out, content)
}

// Newline writes an empty line
func (p *Printer) Newline() {
	_, _ = fmt.Fprintln(p.out)
}

// PrintHeader prints a command banner; plain output has none
func (p *Printer) PrintHeader(title, command string, params map[string]string) {
	if !p.Styled {
		return
	}
	header := NewHeader(title, command, params).SetWidth(p.width).Render()
	if err := RenderOnce(p.out, header+"\n"); err != nil {
		p.Println(header)
	}
}

// PrintTable prints rows under headers
func (p *Printer) PrintTable(headers []string, rows [][]string) {
	p.Println(RenderTable(headers, rows, p.Styled))
}

// PrintSuccess prints a success box, or "✓ title" followed by the details
func (p *Printer) PrintSuccess(title string, details map[string]string) {
	r := NewSuccessResult(title, details).SetWidth(p.width)
	if p.Styled {
		p.Println(r.Render())
		return
	}
	p.Println(SuccessMarker + " " + title)
	p.printDetails(details)
}

// PrintWarning prints a warning box with one detail per warning
func (p *Printer) PrintWarning(title string, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	if !p.Styled {
		p.Println(WarningMarker + " " + title)
		for _, w := range warnings {
			p.Println("  • " + w)
		}
		return
	}
	r := NewWarningResult(title, nil).SetWidth(p.width)
	for i, w := range warnings {
		r.AddDetail(fmt.Sprintf("%d", i+1), w)
	}
	p.Println(r.Render())
}

// PrintFailure prints err with the troubleshooting advice for its kind and,
// for service errors, the response body the service sent.
func (p *Printer) PrintFailure(title string, err error) {
	summary, hints := SplitHint(resource.TroubleshootingHint(err))
	if !p.Styled {
		p.Println(FailureMarker + " " + title + ": " + err.Error())
		if summary != "" {
			p.Println("  " + summary)
		}
		for _, h := range hints {
			p.Println("  • " + h)
		}
	} else {
		p.Println(NewFailureResult(title, err, hints).SetWidth(p.width).Render())
	}

	if se, ok := resource.AsServiceError(err); ok && se.Diagnostic() != "" {
		p.PrintDiagnostic(fmt.Sprintf("%s %s → %d", se.Method, se.Path, se.StatusCode), se.Diagnostic())
	}
}

// PrintDiagnostic prints a service response body
func (p *Printer) PrintDiagnostic(title, body string) {
	d := NewDiagnostic(title, body)
	d.Width = p.width
	if p.Styled {
		if out := d.Render(); out != "" {
			p.Println(out)
		}
		return
	}
	lines, hidden := d.Lines()
	if len(lines) == 0 {
		return
	}
	p.Println("Service response: " + title)
	for _, l := range lines {
		p.Println("  " + l)
	}
	if hidden > 0 {
		p.Println(fmt.Sprintf("  ... %d more line(s)", hidden))
	}
}

// PrintProgress prints the current state of a step list
func (p *Printer) PrintProgress(pr *Progress) {
	pr.ShowBar = p.Styled
	pr.SetWidth(p.width)
	p.Println(pr.Render())
}

func (p *Printer) printDetails(details map[string]string) {
	for _, k := range sortedKeys(details) {
		p.Println(fmt.Sprintf("  %s: %s", k, details[k]))
	}
}

// RenderTable lays out rows under headers. Styled tables get a rounded border
// and coloured headers; plain ones are space separated columns.
func RenderTable(headers []string, rows [][]string, styled bool) string {
	t := table.New().Headers(headers...).Rows(rows...)
	if styled {
		return t.Border(lipgloss.RoundedBorder()).
			BorderStyle(lipgloss.NewStyle().Foreground(PrimaryColor)).
			StyleFunc(func(row, col int) lipgloss.Style {
				if row == table.HeaderRow {
					return TableHeaderStyle
				}
				return TableCellStyle
			}).
			Render()
	}
	return t.Border(lipgloss.HiddenBorder()).
		BorderTop(false).
		BorderBottom(false).
		BorderLeft(false).
		BorderRight(false).
		BorderHeader(false).
		StyleFunc(func(row, col int) lipgloss.Style {
			return lipgloss.NewStyle().PaddingRight(2)
		}).
		Render()
}
