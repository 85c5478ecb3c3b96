// File path: cmd/hipcore/ui.go
package main

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	uiRed    = color.New(color.FgRed)
	uiYellow = color.New(color.FgYellow)
	uiGreen  = color.New(color.FgGreen)
	uiCyan   = color.New(color.FgCyan)
	uiBold   = color.New(color.Bold)
	uiDim    = color.New(color.Faint)
)

// initColors configures global color output based on the --no-color flag.
func initColors(noColor bool) {
	color.NoColor = noColor
}

func uiSuccess(format string, args ...interface{}) {
	_, _ = uiGreen.Printf("✓ "+format+"\n", args...)
}

func uiWarn(format string, args ...interface{}) {
	_, _ = uiYellow.Printf("⚠ "+format+"\n", args...)
}

func uiError(format string, args ...interface{}) {
	_, _ = uiRed.Printf("✗ "+format+"\n", args...)
}

func uiInfo(format string, args ...interface{}) {
	_, _ = uiCyan.Printf("ℹ "+format+"\n", args...)
}

func uiHeader(text string) {
	_, _ = uiBold.Println(text)
	fmt.Println(strings.Repeat("=", len(text)))
}

func uiDimText(text string) string {
	return uiDim.Sprint(text)
}
