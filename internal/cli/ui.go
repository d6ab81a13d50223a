package cli

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/ratiochase/pkg/pipeline"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary values
	colorGreen  = lipgloss.Color("35")  // Green - proved
	colorYellow = lipgloss.Color("220") // Amber - not derived
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)

	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
)

// =============================================================================
// Status Output
// =============================================================================

func printSuccess(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconSuccess.Render(iconSuccess)+" "+fmt.Sprintf(format, args...))
}

func printError(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconError.Render(iconError)+" "+fmt.Sprintf(format, args...))
}

func printWarning(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconWarning.Render(iconWarning)+" "+StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, styleIconInfo.Render(iconInfo)+" "+fmt.Sprintf(format, args...))
}

// printDetail prints an indented dim line.
func printDetail(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printKeyValue prints a labeled value.
func printKeyValue(w io.Writer, key, value string) {
	fmt.Fprintln(w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// printStats prints dim facts on a single line separated by dots.
func printStats(w io.Writer, parts ...string) {
	var b strings.Builder
	b.WriteString("  ")
	for i, part := range parts {
		if i > 0 {
			b.WriteString(StyleDim.Render(" · "))
		}
		b.WriteString(StyleDim.Render(part))
	}
	fmt.Fprintln(w, b.String())
}

// =============================================================================
// Proof Summary
// =============================================================================

// printGoal prints one goal outcome.
func printGoal(w io.Writer, g pipeline.GoalResult) {
	took := g.Duration.Round(time.Microsecond)
	switch g.Status {
	case pipeline.StatusProved:
		printSuccess(w, "%s %s", StyleValue.Render(g.Text), StyleDim.Render(took.String()))
	case pipeline.StatusNumericallyFalse:
		printWarning(w, "%s is numerically false", g.Text)
	case pipeline.StatusError:
		printError(w, "%s: %v", g.Text, g.Err)
	default:
		printInfo(w, "%s %s", g.Text, StyleDim.Render("not derived"))
	}
}

// printSummary prints the outcome of a prove run.
func printSummary(w io.Writer, res *pipeline.Result) {
	fmt.Fprintln(w, StyleTitle.Render(res.Problem.Name)+" "+StyleDim.Render(res.SessionID))
	for _, g := range res.Goals {
		printGoal(w, g)
	}
	s := res.Stats
	printStats(w,
		fmt.Sprintf("%d/%d proved", res.Proved(), len(res.Goals)),
		fmt.Sprintf("%d premises", s.Premises),
		fmt.Sprintf("%d facts", s.Facts),
		fmt.Sprintf("%d ratio classes", s.Ratios.Classes),
		fmt.Sprintf("%d angle classes", s.Angles.Classes),
	)
	if res.Graph != nil {
		printStats(w,
			fmt.Sprintf("%d nodes", res.Graph.NodeCount()),
			fmt.Sprintf("%d rows", len(res.Graph.RowIDs())),
			fmt.Sprintf("%d crossings", s.Crossings),
		)
	}
	printStats(w,
		"load "+s.LoadTime.Round(time.Microsecond).String(),
		"prove "+s.ProveTime.Round(time.Microsecond).String(),
		"render "+s.RenderTime.Round(time.Microsecond).String(),
	)
}
