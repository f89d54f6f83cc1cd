package ui

import (
	"github.com/fatih/color"
)

// Color scheme constants matching the design specification
var (
	// Primary colors
	LoomPrimary = color.New(color.FgHiRed).Add(color.Bold)    // loom orange
	Success     = color.New(color.FgHiGreen).Add(color.Bold)  // success green
	Error       = color.New(color.FgHiRed).Add(color.Bold)    // error red
	Warning     = color.New(color.FgHiYellow).Add(color.Bold) // warning amber
	Info        = color.New(color.FgHiCyan).Add(color.Bold)   // info blue

	// Text colors
	TextPrimary   = color.New(color.FgHiWhite) // white
	TextSecondary = color.New(color.FgWhite)   // dimmed white
	TextMuted     = color.New(color.FgHiBlack) // gray text

	// Status colors
	StatusActive    = color.New(color.FgHiGreen)
	StatusInactive  = color.New(color.FgHiYellow)
	StatusConnected = color.New(color.FgHiCyan)
	StatusError     = color.New(color.FgHiRed)
)

// Style functions for consistent formatting
func Title(text string) string {
	return LoomPrimary.Sprint(text)
}

func Subtitle(text string) string {
	return Info.Sprint(text)
}

func SuccessMsg(text string) string {
	return Success.Sprint("✓ " + text)
}

func ErrorMsg(text string) string {
	return Error.Sprint("✗ " + text)
}

func WarningMsg(text string) string {
	return Warning.Sprint("⚠ " + text)
}

func InfoMsg(text string) string {
	return Info.Sprint("ℹ " + text)
}

func Highlight(text string) string {
	return LoomPrimary.Sprint(text)
}

func Dim(text string) string {
	return TextMuted.Sprint(text)
}

func Bold(text string) string {
	return color.New(color.Bold).Sprint(text)
}

func Prompt(text string) string {
	return LoomPrimary.Sprint("? ") + TextPrimary.Sprint(text)
}

// FormatTmuxStatus renders a session's reachability as reported by
// CheckSessionHealth: "reachable" when tmux still has the session,
// "missing" when it doesn't, "unknown" before the first check.
func FormatTmuxStatus(status string) string {
	switch status {
	case "reachable":
		return StatusActive.Sprint("●") + " " + StatusActive.Sprint(status)
	case "missing":
		return StatusError.Sprint("✗") + " " + StatusError.Sprint(status)
	default:
		return TextMuted.Sprint("?") + " " + TextMuted.Sprint(status)
	}
}

// Borders and separators
func HorizontalLine(length int) string {
	line := ""
	for range length {
		line += "─"
	}
	return TextMuted.Sprint(line)
}
