package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// stdout receives all status output. Tests swap it for a buffer.
var stdout io.Writer = os.Stdout

// ANSI 256 palette. Modes in the editor reuse these, so delete mode is red
// and join picks are yellow everywhere.
var (
	colorCyan   = lipgloss.Color("37")
	colorGreen  = lipgloss.Color("71")
	colorYellow = lipgloss.Color("214")
	colorRed    = lipgloss.Color("203")
	colorBlue   = lipgloss.Color("68")
	colorWhite  = lipgloss.Color("254")
	colorGray   = lipgloss.Color("246")
	colorDim    = lipgloss.Color("241")
)

var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorWhite)

	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

// A statusKind is the leading glyph of a status line and its colour.
type statusKind struct {
	icon  string
	style lipgloss.Style
	body  *lipgloss.Style
}

var (
	warningStyle = lipgloss.NewStyle().Foreground(colorYellow)

	statusSuccess = statusKind{icon: "✓", style: lipgloss.NewStyle().Foreground(colorGreen)}
	statusError   = statusKind{icon: "✗", style: lipgloss.NewStyle().Foreground(colorRed)}
	statusWarning = statusKind{icon: "!", style: warningStyle, body: &warningStyle}
	statusInfo    = statusKind{icon: "›", style: lipgloss.NewStyle().Foreground(colorGray)}
)

const (
	iconCached = "cached"
	iconFresh  = "fresh"
)

func (k statusKind) print(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	if k.body != nil {
		msg = k.body.Render(msg)
	}
	fmt.Fprintln(stdout, k.style.Render(k.icon)+" "+msg)
}

func printSuccess(format string, args ...any) { statusSuccess.print(format, args...) }
func printError(format string, args ...any)   { statusError.print(format, args...) }
func printWarning(format string, args ...any) { statusWarning.print(format, args...) }
func printInfo(format string, args ...any)    { statusInfo.print(format, args...) }

// printDetail prints an indented, muted line under a status line.
func printDetail(format string, args ...any) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile lists a path that was written.
func printFile(path string) {
	fmt.Fprintln(stdout, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Fprintln(stdout, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints "G graphs · N nodes · E edges", then the cache state
// when cached is set.
func printStats(graphs, nodes, edges int, cached *bool) {
	fields := []string{plural(graphs, "graph"), plural(nodes, "node"), plural(edges, "edge")}
	var b strings.Builder
	b.WriteString("  ")
	b.WriteString(StyleDim.Render(strings.Join(fields, " · ")))
	if cached != nil {
		b.WriteString(StyleDim.Render(" · "))
		if *cached {
			b.WriteString(lipgloss.NewStyle().Foreground(colorGreen).Render(iconCached))
		} else {
			b.WriteString(lipgloss.NewStyle().Foreground(colorGray).Render(iconFresh))
		}
	}
	fmt.Fprintln(stdout, b.String())
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Fprintln(stdout, StyleDim.Render(description+":")+" "+styleCommand.Render(cmd))
}

// plural counts a noun: "1 graph", "2 nodes", "3 entries".
func plural(n int, noun string) string {
	switch {
	case n == 1:
		return "1 " + noun
	case strings.HasSuffix(noun, "y"):
		return fmt.Sprintf("%d %sies", n, noun[:len(noun)-1])
	default:
		return fmt.Sprintf("%d %ss", n, noun)
	}
}
