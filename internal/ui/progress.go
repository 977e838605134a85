package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/lipgloss"
)

// StepStatus is the state of one step of a multi-write operation
type StepStatus int

const (
	StepPending StepStatus = iota
	StepRunning
	StepComplete
	StepFailed
	StepSkipped
)

// Step is one line of a Progress display
type Step struct {
	Name    string
	Status  StepStatus
	Message string // e.g., "created", "replaced", "unchanged"
}

// Progress tracks a fixed list of named steps and renders them with a bar
type Progress struct {
	Label   string
	Steps   []Step
	Width   int
	ShowBar bool
	bar     progress.Model
}

// NewProgress creates a progress display with one pending step per name
func NewProgress(label string, names ...string) *Progress {
	steps := make([]Step, len(names))
	for i, name := range names {
		steps[i] = Step{Name: name}
	}
	p := &Progress{Label: label, Steps: steps, ShowBar: true}
	return p.SetWidth(GetTerminalWidth())
}

// SetWidth resizes the bar for the given terminal width
func (p *Progress) SetWidth(width int) *Progress {
	p.Width = width
	barWidth := min(max(width-20, 20), 50)
	p.bar = progress.New(progress.WithDefaultGradient(), progress.WithWidth(barWidth))
	return p
}

// Update sets the status of step i (0-based); out of range indexes are ignored
func (p *Progress) Update(i int, status StepStatus, message string) {
	if i < 0 || i >= len(p.Steps) {
		return
	}
	p.Steps[i].Status = status
	p.Steps[i].Message = message
}

func (p *Progress) Start(i int)                    { p.Update(i, StepRunning, "") }
func (p *Progress) Complete(i int, message string) { p.Update(i, StepComplete, message) }
func (p *Progress) Fail(i int, message string)     { p.Update(i, StepFailed, message) }

// SkipRemaining marks every step still pending as skipped
func (p *Progress) SkipRemaining(message string) {
	for i := range p.Steps {
		if p.Steps[i].Status == StepPending {
			p.Update(i, StepSkipped, message)
		}
	}
}

// Percent is the share of steps that are complete or skipped
func (p *Progress) Percent() float64 {
	if len(p.Steps) == 0 {
		return 1
	}
	done := 0
	for _, s := range p.Steps {
		if s.Status == StepComplete || s.Status == StepSkipped {
			done++
		}
	}
	return float64(done) / float64(len(p.Steps))
}

// Failed reports whether any step failed
func (p *Progress) Failed() bool {
	for _, s := range p.Steps {
		if s.Status == StepFailed {
			return true
		}
	}
	return false
}

// Render returns the label, the bar and the step list
func (p *Progress) Render() string {
	var b strings.Builder
	if p.Label != "" {
		b.WriteString(ProgressLabelStyle.Render(p.Label))
		b.WriteString("\n\n")
	}
	if p.ShowBar {
		pct := p.Percent()
		b.WriteString(lipgloss.NewStyle().PaddingLeft(2).Render(
			fmt.Sprintf("%s  %3.0f%%", p.bar.ViewAs(pct), pct*100)))
		b.WriteString("\n\n")
	}
	for i, s := range p.Steps {
		if i > 0 {
			b.WriteString("\n")
		}
		b.WriteString(p.renderStep(i, s))
	}
	return b.String()
}

func (p *Progress) renderStep(i int, s Step) string {
	var marker string
	var style lipgloss.Style
	switch s.Status {
	case StepComplete:
		marker, style = StepMarkerComplete, StepCompleteStyle
	case StepRunning:
		marker, style = StepMarkerRunning, StepRunningStyle
	case StepFailed:
		marker, style = FailureMarker, ErrorTitleStyle
	case StepSkipped:
		marker, style = StepMarkerSkipped, StepPendingStyle
	default:
		marker, style = StepMarkerPending, StepPendingStyle
	}

	var b strings.Builder
	fmt.Fprintf(&b, "  [%d/%d] ", i+1, len(p.Steps))
	b.WriteString(style.Render(s.Name))
	b.WriteString(strings.Repeat(" ", max(45-lipgloss.Width(s.Name), 1)))
	b.WriteString(style.Render(marker))
	if s.Message != "" {
		b.WriteString("  ")
		b.WriteString(StepNoteStyle.Render("(" + s.Message + ")"))
	}
	return b.String()
}

func (p *Progress) String() string {
	return p.Render()
}
