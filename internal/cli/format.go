package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

var (
	// stdout and stderr are where commands print; the root command points
	// them at cobra's writers before each run
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr

	// fatih/color disables these when output is not a TTY
	successColor = color.New(color.FgGreen, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	errorColor   = color.New(color.FgRed, color.Bold)
	infoColor    = color.New(color.FgCyan)
	headerColor  = color.New(color.FgBlue, color.Bold)
	labelColor   = color.New(color.FgWhite, color.Bold)
	valueColor   = color.New(color.FgHiBlack)
	dimColor     = color.New(color.FgHiBlack)
	homeColor    = color.New(color.FgMagenta, color.Bold)
)

// PrintSection prints a section header
func PrintSection(title string) {
	fmt.Fprintln(stdout)
	_, _ = headerColor.Fprintf(stdout, "▸ %s\n", title)
	fmt.Fprintln(stdout)
}

// PrintSubsection prints a subsection header
func PrintSubsection(title string) {
	_, _ = infoColor.Fprintf(stdout, "  %s\n", title)
}

// PrintSuccess prints a success message with a checkmark
func PrintSuccess(msg string) {
	_, _ = successColor.Fprintf(stdout, "✓ %s\n", msg)
}

// PrintWarning prints a warning message to stderr
func PrintWarning(msg string) {
	_, _ = warningColor.Fprintf(stderr, "⚠ %s\n", msg)
}

// PrintError prints an error message to stderr
func PrintError(msg string) {
	_, _ = errorColor.Fprintf(stderr, "✗ %s\n", msg)
}

// PrintInfo prints an informational message
func PrintInfo(msg string) {
	fmt.Fprintln(stdout, msg)
}

// PrintHint prints a dimmed follow-up suggestion
func PrintHint(msg string) {
	_, _ = dimColor.Fprintf(stdout, "  %s\n", msg)
}

// PrintLabelValue prints a label-value pair with proper formatting
func PrintLabelValue(label, value string) {
	_, _ = labelColor.Fprintf(stdout, "  %s: ", label)
	_, _ = valueColor.Fprintln(stdout, value)
}

// PrintList prints a list of items with bullet points
func PrintList(items []string, indent int) {
	indentStr := strings.Repeat("  ", indent)
	for _, item := range items {
		_, _ = infoColor.Fprintf(stdout, "%s• %s\n", indentStr, item)
	}
}

// PrintNumberedList prints a numbered list starting at 0, the index the
// move command takes
func PrintNumberedList(items []string, indent int) {
	indentStr := strings.Repeat("  ", indent)
	for i, item := range items {
		_, _ = infoColor.Fprintf(stdout, "%s%d. %s\n", indentStr, i, item)
	}
}

// PrintTable prints a simple aligned table
func PrintTable(headers []string, rows [][]string) {
	if len(headers) == 0 || len(rows) == 0 {
		return
	}

	// Calculate column widths
	colWidths := make([]int, len(headers))
	for i, header := range headers {
		colWidths[i] = len(header)
	}
	for _, row := range rows {
		for i, cell := range row {
			if i < len(colWidths) && len(cell) > colWidths[i] {
				colWidths[i] = len(cell)
			}
		}
	}

	// Print header
	fmt.Fprint(stdout, "  ")
	for i, header := range headers {
		if i > 0 {
			fmt.Fprint(stdout, "  ")
		}
		_, _ = headerColor.Fprintf(stdout, "%-*s", colWidths[i], header)
	}
	fmt.Fprintln(stdout)

	// Print separator
	fmt.Fprint(stdout, "  ")
	for i, width := range colWidths {
		if i > 0 {
			fmt.Fprint(stdout, "  ")
		}
		fmt.Fprint(stdout, strings.Repeat("-", width))
	}
	fmt.Fprintln(stdout)

	// Print rows
	for _, row := range rows {
		fmt.Fprint(stdout, "  ")
		for i, cell := range row {
			if i >= len(colWidths) {
				break
			}
			if i > 0 {
				fmt.Fprint(stdout, "  ")
			}
			_, _ = valueColor.Fprintf(stdout, "%-*s", colWidths[i], cell)
		}
		fmt.Fprintln(stdout)
	}
}

// PrintEmptyState prints a message when there's no data to show
func PrintEmptyState(msg string) {
	_, _ = dimColor.Fprintf(stdout, "  %s\n", msg)
}

// PrintCount prints a count with proper formatting
func PrintCount(count int, singular, plural string) string {
	if count == 1 {
		return fmt.Sprintf("%d %s", count, singular)
	}
	return fmt.Sprintf("%d %s", count, plural)
}

// homeBadge marks the home page in listings
func homeBadge(name string, home bool) string {
	if !home {
		return name
	}
	return name + " " + homeColor.Sprint("[home]")
}
