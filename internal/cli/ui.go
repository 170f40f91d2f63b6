package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	perrors "github.com/matzehuels/modpublish/pkg/errors"
	"github.com/matzehuels/modpublish/pkg/publish"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - success
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - errors
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleHighlight for emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleLink for URLs.
	StyleLink = lipgloss.NewStyle().Foreground(colorBlue).Underline(true)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleNumber for numeric values.
	StyleNumber = lipgloss.NewStyle().Foreground(colorCyan)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	stylePlatform = lipgloss.NewStyle().Bold(true).Foreground(colorWhite)
	styleHeader   = lipgloss.NewStyle().Bold(true).Foreground(colorGray).Padding(0, 1)
	styleCell     = lipgloss.NewStyle().Padding(0, 1)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// =============================================================================
// File Output
// =============================================================================

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// =============================================================================
// Key-Value Output
// =============================================================================

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Publish Output
// =============================================================================

// printResult prints the outcome of one platform upload.
func printResult(r publish.Result) {
	took := StyleDim.Render("(" + r.Duration.Round(time.Millisecond).String() + ")")
	if r.Err != nil {
		printError("%s %s", stylePlatform.Render(r.Platform.String()), took)
		printDetail("%s", perrors.UserMessage(r.Err))
		return
	}
	printSuccess("%s %s", stylePlatform.Render(r.Platform.String()), took)
	rep := r.Report
	if rep == nil {
		return
	}
	printKeyValue("  project", rep.ProjectID)
	printKeyValue("  version", rep.VersionID)
	if rep.URL != "" {
		printKeyValue("  url", StyleLink.Render(rep.URL))
	}
	for _, f := range rep.Files {
		printFile(f.Name + StyleDim.Render(" "+f.ID))
	}
	unfeatured := 0
	for _, u := range rep.Unfeatured {
		if u.Err == nil {
			unfeatured++
		}
	}
	if unfeatured > 0 {
		printDetail("unfeatured %d previous version(s)", unfeatured)
	}
	for _, u := range rep.UnfeatureFailures() {
		printWarning("could not unfeature %s: %s", u.VersionID, perrors.UserMessage(u.Err))
	}
}

// printRequest prints a resolved request for --dry-run.
func printRequest(p publish.Platform, r publish.Request) {
	fmt.Println(StyleTitle.Render(p.String()))
	printKeyValue("  id", r.ID)
	printKeyValue("  version", r.Version)
	printKeyValue("  name", r.Name)
	printKeyValue("  channel", r.EffectiveChannel().String())
	printKeyValue("  token", maskToken(r.Token))
	if len(r.Loaders) > 0 {
		printKeyValue("  loaders", strings.Join(r.Loaders, ", "))
	}
	if len(r.GameVersions) > 0 {
		printKeyValue("  game", strings.Join(r.GameVersions, ", "))
	}
	if len(r.JavaVersions) > 0 {
		printKeyValue("  java", strings.Join(r.JavaVersions, ", "))
	}
	for _, d := range r.Dependencies {
		if d.IsIgnored(p) {
			continue
		}
		printKeyValue("  depends", d.ResolveFor(p)+StyleDim.Render(" "+d.Kind.String()))
	}
	for _, f := range r.Files {
		printFile(f.Path)
	}
	printNewline()
}

func maskToken(token string) string {
	if token == "" {
		return StyleWarning.Render("missing")
	}
	return strings.Repeat("*", min(len(token), 8))
}

// renderTable renders rows under headers with the shared table styles.
func renderTable(headers []string, rows [][]string) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(StyleDim).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return styleHeader
			}
			return styleCell
		})
	return t.Render()
}

// =============================================================================
// Utilities
// =============================================================================

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}
