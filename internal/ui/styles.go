package ui

import "fmt"

// ANSI256 color codes matching the Ayu palette.
const (
	colorAccent  = 74  // blue
	colorCmd     = 250 // light gray
	colorMuted   = 245 // medium gray
	colorSuccess = 114 // green
	colorError   = 203 // red
	colorHint    = 221 // yellow
	colorInfo    = 80  // cyan
)

var noColor bool

func render(code int, s string) string {
	if noColor {
		return s
	}
	return fmt.Sprintf("\x1b[38;5;%dm%s\x1b[0m", code, s)
}

// RenderAccent returns s in the accent (blue) color.
func RenderAccent(s string) string {
	return render(colorAccent, s)
}

// RenderMuted returns s in the muted (gray) color.
func RenderMuted(s string) string {
	return render(colorMuted, s)
}

// RenderCommand returns s styled as a command name (light gray).
func RenderCommand(s string) string {
	return render(colorCmd, s)
}

// RenderSuccess returns s in green.
func RenderSuccess(s string) string {
	return render(colorSuccess, s)
}

// RenderError returns s in red.
func RenderError(s string) string {
	return render(colorError, s)
}

// RenderHint returns s in yellow.
func RenderHint(s string) string {
	return render(colorHint, s)
}

// RenderInfo returns s in cyan.
func RenderInfo(s string) string {
	return render(colorInfo, s)
}

// RenderBold returns s in bold.
func RenderBold(s string) string {
	if noColor {
		return s
	}
	return "\x1b[1m" + s + "\x1b[0m"
}

// ForceNoColor disables color output globally.
func ForceNoColor() {
	noColor = true
}

// SetColor enables or disables color output globally.
func SetColor(enabled bool) {
	noColor = !enabled
}
