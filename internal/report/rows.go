package report

import (
	"fmt"

	"github.com/dmtruong/rightsizer/pkg/types"
)

// Header returns the column names shared by the tabular sinks (csv,
// sheets, terminal).
func Header() []string {
	return []string{
		"InstanceId", "Name", "Region", "InstanceType",
		"AvgCPU", "AvgCPUCredits", "Severity", "Reason", "Recommendation",
	}
}

// Row flattens one result into the shared column order.
func Row(r types.ClassificationResult) []string {
	return []string{
		r.InstanceID,
		r.Name,
		r.Region,
		r.InstanceType,
		formatCPU(r.Summary.CPU()),
		formatCredits(r.Summary.CreditBalance()),
		r.Severity.String(),
		r.Reason,
		r.Recommendation,
	}
}

// Rows flattens the whole result list, preserving report order.
func Rows(report *types.Report) [][]string {
	rows := make([][]string, 0, len(report.Results))
	for _, r := range report.Results {
		rows = append(rows, Row(r))
	}
	return rows
}

func formatCPU(stat types.Stat) string {
	if !stat.HasData() {
		return "N/A"
	}
	return fmt.Sprintf("%.2f", stat.Average)
}

func formatCredits(stat types.Stat) string {
	if !stat.HasData() {
		return "N/A"
	}
	return fmt.Sprintf("%.0f", stat.Average)
}
