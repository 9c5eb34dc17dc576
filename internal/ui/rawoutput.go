package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// RawOutput is a muted box holding unstyled text such as a datagram or a
// description document, shown in verbose mode.
type RawOutput struct {
	Title    string
	Lines    []string
	MaxLines int // 0 means no limit
	Width    int
}

// NewRawOutput splits content into lines. CRLF line endings are accepted and
// trailing blank lines are dropped.
func NewRawOutput(title, content string) *RawOutput {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	content = strings.TrimRight(content, "\n")

	var lines []string
	if content != "" {
		lines = strings.Split(content, "\n")
	}

	return &RawOutput{
		Title: title,
		Lines: lines,
		Width: GetTerminalWidth(),
	}
}

// SetWidth sets the terminal width for responsive rendering
func (r *RawOutput) SetWidth(width int) *RawOutput {
	r.Width = width
	return r
}

// SetMaxLines limits how many lines are rendered
func (r *RawOutput) SetMaxLines(max int) *RawOutput {
	r.MaxLines = max
	return r
}

// Render returns the styled box as a string
func (r *RawOutput) Render() string {
	width := r.Width
	if width < MinTerminalWidth {
		width = MinTerminalWidth
	}

	lines := r.Lines
	if r.MaxLines > 0 && len(lines) > r.MaxLines {
		hidden := len(lines) - r.MaxLines
		lines = append(lines[:r.MaxLines:r.MaxLines], fmt.Sprintf("... (%d more lines)", hidden))
	}

	inner := lipgloss.JoinVertical(lipgloss.Left,
		RawOutputTitleStyle.Render(r.Title),
		"",
		RawOutputContentStyle.Render(strings.Join(lines, "\n")),
	)

	boxWidth := width - 4
	if boxWidth < 40 {
		boxWidth = 40
	}

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(MutedColor).
		Width(boxWidth).
		Padding(0, 1).
		MarginLeft(2).
		Render(inner)
}

// String implements fmt.Stringer
func (r *RawOutput) String() string {
	return r.Render()
}
