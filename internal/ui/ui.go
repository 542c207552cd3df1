// Package ui renders the status lines the CLI prints as it works: a green
// check for completed steps, a red cross for failures, and dimmer marks for
// informational and warning output. Lipgloss handles terminal capability
// detection, so the marks degrade to plain text on dumb terminals and when
// NO_COLOR is set.
package ui

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	okStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	failStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	infoStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	warnStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
	dimStyle  = lipgloss.NewStyle().Faint(true)
)

// OkMark returns the styled success mark.
func OkMark() string { return okStyle.Render("✓") }

// FailMark returns the styled failure mark.
func FailMark() string { return failStyle.Render("✗") }

// InfoMark returns the styled informational mark.
func InfoMark() string { return infoStyle.Render("ℹ") }

// WarnMark returns the styled warning mark.
func WarnMark() string { return warnStyle.Render("⚠") }

// Ok prints a success line: "✓ <message>".
func Ok(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", OkMark(), fmt.Sprintf(format, args...))
}

// Fail prints a failure line: "✗ <message>".
func Fail(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", FailMark(), fmt.Sprintf(format, args...))
}

// Info prints an informational line: "ℹ <message>".
func Info(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", InfoMark(), fmt.Sprintf(format, args...))
}

// Warn prints a warning line: "⚠ <message>".
func Warn(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, "%s %s\n", WarnMark(), fmt.Sprintf(format, args...))
}

// Dim renders text in the faint style (used for paths in summaries).
func Dim(s string) string { return dimStyle.Render(s) }
