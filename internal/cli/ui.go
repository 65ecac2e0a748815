package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorCyan  = lipgloss.Color("36")  // spinner, explore header
	colorGreen = lipgloss.Color("35")  // success, cached
	colorRed   = lipgloss.Color("167") // errors
	colorBlue  = lipgloss.Color("75")  // links, commands
	colorWhite = lipgloss.Color("255") // values
	colorGray  = lipgloss.Color("245") // info, fresh
	colorDim   = lipgloss.Color("240") // muted text
)

var (
	// StyleDim for secondary text: stats, hints, the explore status line.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for file paths and values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleLink for node links shown in explore.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleCached      = lipgloss.NewStyle().Foreground(colorGreen)
	styleComputed    = lipgloss.NewStyle().Foreground(colorGray)
)

// status line markers
var (
	markSuccess = lipgloss.NewStyle().Foreground(colorGreen).Render("✓")
	markError   = lipgloss.NewStyle().Foreground(colorRed).Render("✗")
	markInfo    = lipgloss.NewStyle().Foreground(colorGray).Render("›")
	markFile    = StyleDim.Render("→")
)

// stdout receives command results and artifacts written to "-". Logs and
// the spinner use stderr.
var stdout io.Writer = os.Stdout

// =============================================================================
// Status Output
// =============================================================================

func printMarked(mark, format string, args ...any) {
	fmt.Fprintln(stdout, mark+" "+fmt.Sprintf(format, args...))
}

func printSuccess(format string, args ...any) { printMarked(markSuccess, format, args...) }
func printError(format string, args ...any)   { printMarked(markError, format, args...) }
func printInfo(format string, args ...any)    { printMarked(markInfo, format, args...) }

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+markFile+" "+StyleValue.Render(path))
}

// =============================================================================
// Stats
// =============================================================================

// statsLine summarizes a settle: "42 nodes · 17 visible · 180 ticks · fresh".
// Zero counts are left out.
func statsLine(nodeCount, visibleCount, ticks int, cached bool) string {
	var parts []string
	for _, p := range []struct {
		n    int
		unit string
	}{{nodeCount, "nodes"}, {visibleCount, "visible"}, {ticks, "ticks"}} {
		if p.n > 0 {
			parts = append(parts, StyleDim.Render(fmt.Sprintf("%d %s", p.n, p.unit)))
		}
	}
	if cached {
		parts = append(parts, styleCached.Render("cached"))
	} else {
		parts = append(parts, styleComputed.Render("fresh"))
	}
	return "  " + strings.Join(parts, StyleDim.Render(" · "))
}

func printStats(nodeCount, visibleCount, ticks int, cached bool) {
	fmt.Fprintln(stdout, statsLine(nodeCount, visibleCount, ticks, cached))
}

// printNextStep suggests the command that usually follows.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

func printNewline() { fmt.Fprintln(stdout) }
