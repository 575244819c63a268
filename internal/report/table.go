package report

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/dmtruong/rightsizer/pkg/types"
)

// Box drawing characters
const (
	topLeft     = "╭"
	topRight    = "╮"
	bottomLeft  = "╰"
	bottomRight = "╯"
	horizontal  = "─"
	vertical    = "│"
	leftT       = "├"
	rightT      = "┤"
	topT        = "┬"
	bottomT     = "┴"
	cross       = "┼"
)

// Column widths: ID, Name, Region, Type, Avg CPU, Credits, Severity, Recommendation
var columnWidths = []int{20, 24, 14, 12, 8, 8, 9, 18}

// Styles
var (
	borderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	idStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	nameStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("81"))
	plainStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))

	mildStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	moderateStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	severeStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
)

// TableWriter renders the report as a styled box table on stdout.
type TableWriter struct{}

// Write prints the table and a metadata summary. The returned identifier
// is always "stdout".
func (TableWriter) Write(_ context.Context, report *types.Report) (string, error) {
	fmt.Print(RenderTable(report))
	return "stdout", nil
}

// RenderTable builds the full terminal output for a report.
func RenderTable(report *types.Report) string {
	var sb strings.Builder

	if len(report.Results) == 0 {
		sb.WriteString("No underutilized instances found.\n")
		renderSummary(&sb, report)
		return sb.String()
	}

	headers := []string{"ID", "Name", "Region", "Type", "Avg CPU", "Credits", "Severity", "Recommendation"}

	// Top border
	sb.WriteString(borderStyle.Render(topLeft))
	for i, w := range columnWidths {
		sb.WriteString(borderStyle.Render(strings.Repeat(horizontal, w+2)))
		if i < len(columnWidths)-1 {
			sb.WriteString(borderStyle.Render(topT))
		}
	}
	sb.WriteString(borderStyle.Render(topRight))
	sb.WriteString("\n")

	// Header row
	sb.WriteString(borderStyle.Render(vertical))
	for i, h := range headers {
		cell := fmt.Sprintf(" %-*s ", columnWidths[i], truncateStr(h, columnWidths[i]))
		sb.WriteString(headerStyle.Render(cell))
		sb.WriteString(borderStyle.Render(vertical))
	}
	sb.WriteString("\n")

	// Header separator
	sb.WriteString(borderStyle.Render(leftT))
	for i, w := range columnWidths {
		sb.WriteString(borderStyle.Render(strings.Repeat(horizontal, w+2)))
		if i < len(columnWidths)-1 {
			sb.WriteString(borderStyle.Render(cross))
		}
	}
	sb.WriteString(borderStyle.Render(rightT))
	sb.WriteString("\n")

	// Data rows
	for _, r := range report.Results {
		cells := []struct {
			text  string
			style lipgloss.Style
		}{
			{r.InstanceID, idStyle},
			{r.Name, nameStyle},
			{r.Region, plainStyle},
			{r.InstanceType, plainStyle},
			{formatCPU(r.Summary.CPU()), plainStyle},
			{formatCredits(r.Summary.CreditBalance()), plainStyle},
			{r.Severity.String(), severityStyle(r.Severity)},
			{r.Recommendation, dimStyle},
		}

		sb.WriteString(borderStyle.Render(vertical))
		for i, c := range cells {
			cell := fmt.Sprintf(" %-*s ", columnWidths[i], truncateStr(c.text, columnWidths[i]))
			sb.WriteString(c.style.Render(cell))
			sb.WriteString(borderStyle.Render(vertical))
		}
		sb.WriteString("\n")
	}

	// Bottom border
	sb.WriteString(borderStyle.Render(bottomLeft))
	for i, w := range columnWidths {
		sb.WriteString(borderStyle.Render(strings.Repeat(horizontal, w+2)))
		if i < len(columnWidths)-1 {
			sb.WriteString(borderStyle.Render(bottomT))
		}
	}
	sb.WriteString(borderStyle.Render(bottomRight))
	sb.WriteString("\n")

	renderSummary(&sb, report)
	return sb.String()
}

func severityStyle(s types.Severity) lipgloss.Style {
	switch s {
	case types.SeveritySevere:
		return severeStyle
	case types.SeverityModerate:
		return moderateStyle
	default:
		return mildStyle
	}
}

func renderSummary(sb *strings.Builder, report *types.Report) {
	fmt.Fprintf(sb, "  %d underutilized of %d evaluated (%d scanned across %d regions)\n",
		len(report.Results), report.InstancesEvaluated, report.InstancesScanned, report.RegionsScanned)

	for _, f := range report.Failures {
		sb.WriteString(dimStyle.Render(fmt.Sprintf("  degraded: %s [%s] %s", f.Region, f.Stage, f.Reason)))
		sb.WriteString("\n")
	}
}

func truncateStr(s string, max int) string {
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
