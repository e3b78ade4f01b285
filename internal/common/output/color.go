// Package output colors terminal output. Colors follow fatih/color, which
// already disables them when stdout is not a terminal.
package output

import (
	"github.com/fatih/color"
)

var (
	// Level colors
	DebugLevel  = color.New(color.Faint)
	InfoLevel   = color.New(color.FgCyan)
	NoticeLevel = color.New(color.FgBlue, color.Bold)
	WarnLevel   = color.New(color.FgYellow)
	ErrorLevel  = color.New(color.FgRed, color.Bold)

	Success = color.New(color.FgGreen)
	Dim     = color.New(color.Faint)
	Header  = color.New(color.FgWhite, color.Bold)
	// Key highlights language and config keys
	Key = color.New(color.FgMagenta)
)

// NoColor disables color output
func NoColor() {
	color.NoColor = true
}

// ForceColor enables color output even when not a TTY
func ForceColor() {
	color.NoColor = false
}

// LevelColor returns the color used for a log level name
func LevelColor(level string) *color.Color {
	switch level {
	case "DEBUG":
		return DebugLevel
	case "INFO":
		return InfoLevel
	case "NOTICE":
		return NoticeLevel
	case "WARN":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	default:
		return color.New(color.Reset)
	}
}

// FormatLevel formats a log level name as a colored tag
func FormatLevel(level string) string {
	return LevelColor(level).Sprintf("[%s]", level)
}

// FormatKey formats a language or config key with color
func FormatKey(key string) string {
	return Key.Sprint(key)
}

// PrintSuccess prints a success message
func PrintSuccess(format string, args ...interface{}) {
	Success.Printf("✓ "+format+"\n", args...)
}
