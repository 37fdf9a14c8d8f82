package ui

import (
	"bytes"
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
)

func TestProgressBar(t *testing.T) {
	tests := []struct {
		theme              string
		done, total, width int
		want               string
	}{
		{"classic", 0, 0, 10, "░░░░░░░░░░   0%"},
		{"classic", 1, 2, 10, "█████░░░░░  50%"},
		{"classic", 3, 3, 4, "█████ 100%"},
		{"classic", 5, 4, 5, "█████ 100%"},
		{"classic", -1, 4, 5, "░░░░░   0%"},
		{"mono", 1, 3, 6, "##....  33%"},
		{"neon", 2, 4, 6, "▰▰▰▱▱▱  50%"},
	}
	defer SetTheme("classic")
	for _, tt := range tests {
		SetTheme(tt.theme)
		if got := ProgressBar(tt.done, tt.total, tt.width); got != tt.want {
			t.Errorf("%s ProgressBar(%d, %d, %d) = %q, want %q", tt.theme, tt.done, tt.total, tt.width, got, tt.want)
		}
	}
}

func TestPanelAlignsWideAndColouredLines(t *testing.T) {
	SetTheme("mono")
	defer SetTheme("classic")

	var buf bytes.Buffer
	Panel(&buf, []string{"장보기", "\x1b[32mok\x1b[0m", "longer line"})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d:\n%s", len(lines), buf.String())
	}
	want := lipgloss.Width(lines[0])
	for _, ln := range lines {
		if w := lipgloss.Width(ln); w != want {
			t.Errorf("line %q has width %d, want %d", ln, w, want)
		}
	}
	if lines[0] != "+-------------+" {
		t.Errorf("top border = %q", lines[0])
	}
}

func TestSetThemeFallsBackToClassic(t *testing.T) {
	SetTheme("unknown")
	if Current().Name != "classic" {
		t.Errorf("theme = %s, want classic", Current().Name)
	}
	SetTheme("NEON")
	if Current().Name != "neon" {
		t.Errorf("theme = %s, want neon", Current().Name)
	}
	SetTheme("classic")
}

func TestOKAndFailWithoutColor(t *testing.T) {
	SetColorMode("never")
	defer SetColorMode("auto")

	var buf bytes.Buffer
	OK(&buf, "added")
	Fail(&buf, "boom")
	Warn(&buf, "careful")
	if got := buf.String(); got != "✔ added\n✖ boom\n! careful\n" {
		t.Errorf("output = %q", got)
	}
}
