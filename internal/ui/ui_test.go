package ui

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/go-cmp/cmp"

	"github.com/jeffmahoney/agama/internal/resource"
)

func TestSplitHint(t *testing.T) {
	summary, items := SplitHint(strings.Join([]string{
		"The service refused the connection.",
		"Troubleshooting:",
		"  • Check that the service is running",
		"  • Verify the base URL",
	}, "\n"))

	if summary != "The service refused the connection." {
		t.Errorf("summary = %q", summary)
	}
	if diff := cmp.Diff([]string{"Check that the service is running", "Verify the base URL"}, items); diff != "" {
		t.Errorf("items mismatch (-want +got):\n%s", diff)
	}

	summary, items = SplitHint("The operation was canceled.")
	if summary != "The operation was canceled." || len(items) != 0 {
		t.Errorf("SplitHint(single line) = %q, %v", summary, items)
	}
}

func TestProgress(t *testing.T) {
	p := NewProgress("Loading", "eth0", "eth1", "apply")
	if p.Percent() != 0 {
		t.Errorf("Percent() = %v, want 0", p.Percent())
	}

	p.Complete(0, "replaced")
	p.Fail(1, "422")
	p.Update(7, StepComplete, "") // ignored
	p.SkipRemaining("not applied")

	if !p.Failed() {
		t.Error("Failed() = false")
	}
	if got := p.Steps[2].Status; got != StepSkipped {
		t.Errorf("apply step status = %v, want skipped", got)
	}
	if got, want := p.Percent(), 2.0/3.0; got != want {
		t.Errorf("Percent() = %v, want %v", got, want)
	}

	p.ShowBar = false
	out := p.Render()
	for _, want := range []string{"Loading", "[1/3] eth0", "(replaced)", FailureMarker, StepMarkerSkipped, "(not applied)"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q:\n%s", want, out)
		}
	}

	if NewProgress("empty").Percent() != 1 {
		t.Error("an empty progress is not complete")
	}
}

func TestDiagnostic_Lines(t *testing.T) {
	d := NewDiagnostic("GET x → 500", "a\nb\nc\n")
	d.MaxLines = 2

	lines, hidden := d.Lines()
	if diff := cmp.Diff([]string{"a", "b"}, lines); diff != "" || hidden != 1 {
		t.Errorf("Lines() = %v, %d", lines, hidden)
	}
	if out := d.Render(); !strings.Contains(out, "1 more line(s)") {
		t.Errorf("Render() = %s", out)
	}

	if out := NewDiagnostic("x", "\n").Render(); out != "" {
		t.Errorf("Render(empty body) = %q", out)
	}
}

func TestConfirmDestructive(t *testing.T) {
	tests := []struct {
		name    string
		warning string
		input   string
		want    bool
	}{
		{"nothing to confirm", "", "", true},
		{"confirmed", "Connection eth0 will be brought down", "yes\n", true},
		{"confirmed without newline", "Connection eth0 will be brought down", "YES", true},
		{"declined", "Connection eth0 will be brought down", "no\n", false},
		{"no input", "Connection eth0 will be brought down", "", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			got := ConfirmDestructive(strings.NewReader(tt.input), &out, "eth0", tt.warning)
			if got != tt.want {
				t.Errorf("ConfirmDestructive() = %v, want %v", got, tt.want)
			}
			if tt.warning != "" && !strings.Contains(out.String(), "brought down") {
				t.Errorf("warning not printed:\n%s", out.String())
			}
		})
	}
}

func TestHeader_Render(t *testing.T) {
	out := NewHeader("network connections", "agama-net connections", map[string]string{
		"Service": "http://10.0.0.5/api",
		"Format":  "text",
	}).SetWidth(80).Render()

	if !strings.Contains(out, "NETWORK CONNECTIONS") {
		t.Errorf("title is not upper case:\n%s", out)
	}
	if strings.Index(out, "Format:") > strings.Index(out, "Service:") {
		t.Errorf("parameters are not sorted:\n%s", out)
	}
}

func TestResult_Render(t *testing.T) {
	out := NewFailureResult("load failed", errors.New("boom"), []string{"check the file"}).SetWidth(80).Render()
	for _, want := range []string{"FAILED", "load failed", "Error: boom", "Troubleshooting:", "check the file"} {
		if !strings.Contains(out, want) {
			t.Errorf("Render() missing %q:\n%s", want, out)
		}
	}

	out = NewSuccessResult("applied", nil).AddDetail("Generation", "4").SetWidth(80).Render()
	if !strings.Contains(out, "SUCCESS") || !strings.Contains(out, "Generation:") {
		t.Errorf("Render() =\n%s", out)
	}
}

func TestPrinter_Plain(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)
	if p.Styled {
		t.Fatal("a printer on a buffer is styled")
	}

	p.PrintHeader("title", "cmd", nil)
	if buf.Len() != 0 {
		t.Errorf("plain header printed %q", buf.String())
	}

	p.PrintSuccess("Connection eth0 replaced", map[string]string{"Pending": "1"})
	p.PrintWarning("Check the connection", []string{"no gateway"})
	if out := buf.String(); !strings.Contains(out, "✓ Connection eth0 replaced\n  Pending: 1") || !strings.Contains(out, "  • no gateway") {
		t.Errorf("output =\n%s", out)
	}
}

func TestPrinter_PrintFailure(t *testing.T) {
	var buf bytes.Buffer
	p := NewPrinter(&buf)

	err := &resource.ServiceError{Op: "replace", Method: "PUT", Path: "network/connections/eth0", StatusCode: 422, Body: "invalid method4"}
	p.PrintFailure("Could not update eth0", err)

	out := buf.String()
	for _, want := range []string{"✗ Could not update eth0", "Service response: PUT network/connections/eth0 → 422", "  invalid method4"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestRenderTable_Plain(t *testing.T) {
	out := RenderTable([]string{"NAME", "TYPE"}, [][]string{{"eth0", "ethernet"}, {"wlan0", "wireless"}}, false)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	if len(lines) != 3 {
		t.Fatalf("RenderTable() has %d lines:\n%s", len(lines), out)
	}
	if !strings.Contains(lines[0], "NAME") || strings.Index(lines[1], "ethernet") != strings.Index(lines[2], "wireless") {
		t.Errorf("RenderTable() =\n%s", out)
	}
}

func TestRunOnceModel(t *testing.T) {
	m := NewRunOnceModel("banner")
	if m.View() != "banner" {
		t.Errorf("View() = %q", m.View())
	}
	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init() = nil, want quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Error("Init() does not quit")
	}
	if _, next := m.Update(tea.WindowSizeMsg{Width: 80}); next != nil {
		t.Error("Update() returned a command")
	}
}
