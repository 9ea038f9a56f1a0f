package logging

import (
	"fmt"

	"github.com/fatih/color"
	"github.com/pterm/pterm"
)

var (
	SuccessColorFG = pterm.FgLightGreen
	SuccessStyleBG = pterm.NewStyle(pterm.BgLightGreen, pterm.FgBlack)
	WarnColorFG    = pterm.FgYellow
	WarnStyleBG    = pterm.NewStyle(pterm.BgYellow, pterm.FgBlack)
	ErrorColorFG   = pterm.FgRed
	ErrorStyleBG   = pterm.NewStyle(pterm.BgRed, pterm.FgWhite)
	InfoColorFG    = SuccessColorFG
	InfoStyleBG    = SuccessStyleBG
	DebugColorFG   = pterm.FgCyan
	DebugStyleBG   = pterm.NewStyle(pterm.BgCyan, pterm.FgBlack)
)

var verbose bool

// SetVerbose turns Debugf output on or off.
func SetVerbose(v bool) {
	verbose = v
}

// DisableColor strips colour from both the status output and the
// diagnostics.
func DisableColor() {
	pterm.DisableColor()
	color.NoColor = true
}

// PrintErrorMessage prints a standard Go error to the console
func PrintErrorMessage(tag string, err error) {
	ErrorStyleBG.Print(tag)
	ErrorColorFG.Println(" " + err.Error())
}

// PrintWarningMessage prints a warning message to the console
func PrintWarningMessage(tag, msg string) {
	WarnStyleBG.Print(tag)
	WarnColorFG.Println(" " + msg)
}

// PrintInfoMessage prints an informational message to the user
func PrintInfoMessage(tag, msg string) {
	InfoStyleBG.Print(tag)
	InfoColorFG.Println(" " + msg)
}

// Debugf prints only when verbose output was requested.
func Debugf(format string, args ...interface{}) {
	if !verbose {
		return
	}
	DebugStyleBG.Print("Debug")
	DebugColorFG.Println(" " + fmt.Sprintf(format, args...))
}
