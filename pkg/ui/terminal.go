package ui

import (
	"fmt"
	"io"
	"os"
	"sort"
)

// Banner printed at startup
const Banner = `
  ╔═══════════════════════════════════════════╗
  ║  VK LEADS  ·  community engagement search ║
  ╚═══════════════════════════════════════════╝
`

// Output is where console messages are written
var Output io.Writer = os.Stdout

// Color functions for terminal output
var (
	Cyan    = colorize("\033[36m%s\033[0m")
	Blue    = colorize("\033[94m%s\033[0m")
	Yellow  = colorize("\033[33m%s\033[0m")
	Red     = colorize("\033[31m%s\033[0m")
	Green   = colorize("\033[32m%s\033[0m")
	Magenta = colorize("\033[35m%s\033[0m")
	Dim     = colorize("\033[2m%s\033[0m")
)

// colorize returns a function that wraps text with ANSI color codes
func colorize(colorString string) func(string) string {
	return func(text string) string {
		return fmt.Sprintf(colorString, text)
	}
}

// PrintBanner prints the banner with color
func PrintBanner() {
	fmt.Fprint(Output, Cyan(Banner))
}

// PrintError prints an error message in red
func PrintError(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(Output, Red(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(Output, Red(msg))
	}
}

// PrintSuccess prints a success message in green
func PrintSuccess(msg string) {
	fmt.Fprintln(Output, Green(msg))
}

// PrintInfo prints a labelled value
func PrintInfo(label string, value string) {
	fmt.Fprintf(Output, "%s: %s\n", Cyan(label), Yellow(value))
}

// PrintWarning prints a warning message in yellow
func PrintWarning(msg string, args ...interface{}) {
	if len(args) > 0 {
		fmt.Fprintln(Output, Yellow(msg+": "+fmt.Sprintf("%v", args[0])))
	} else {
		fmt.Fprintln(Output, Yellow(msg))
	}
}

// PrintHighlight prints a highlighted message in magenta
func PrintHighlight(msg string) {
	fmt.Fprintln(Output, Magenta(msg))
}

// PrintSaved reports a snapshot written by a stage
func PrintSaved(what string, count int, path string) {
	fmt.Fprintf(Output, "%s in %s\n", Green(fmt.Sprintf("Saved %d %s", count, what)), Blue(path))
}

// PrintStageSummary prints the counts of a finished stage in key order
func PrintStageSummary(stage string, counts map[string]int) {
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	fmt.Fprintf(Output, "\n%s\n", Magenta("["+stage+"]"))
	for _, k := range keys {
		fmt.Fprintf(Output, "  %s: %s\n", Cyan(k), Green(fmt.Sprint(counts[k])))
	}
}
