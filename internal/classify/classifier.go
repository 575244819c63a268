// Package classify decides whether an instance is underutilized. The
// decision depends only on the instance's own metric summary and the
// configured thresholds, so results are order-insensitive and the whole
// package is free of I/O.
package classify

import (
	"fmt"

	"github.com/dmtruong/rightsizer/pkg/types"
)

// Thresholds are the static inputs to classification.
type Thresholds struct {
	// CPULowPercent is the average CPU percentage under which an
	// instance counts as underutilized.
	CPULowPercent float64

	// BurstHeadroom is the average credit balance at or above which a
	// burstable instance is considered to be sitting on unused burst
	// capacity.
	BurstHeadroom float64
}

// Severity bands, as a fraction of the low-CPU threshold.
const (
	severeBand   = 0.25
	moderateBand = 0.60
)

// Classify produces the verdict for one instance. Unknown families take
// the standard (non-burstable) path; there is no error case.
func Classify(record types.InstanceRecord, summary types.MetricSummary, t Thresholds) types.ClassificationResult {
	result := types.ClassificationResult{
		InstanceID:   record.ID,
		Name:         record.Name,
		Region:       record.Region,
		InstanceType: record.Type,
		Summary:      summary,
	}

	cpu := summary.CPU()
	if !cpu.HasData() {
		result.Reason = "insufficient monitoring data"
		return result
	}

	if cpu.Average >= t.CPULowPercent {
		result.Reason = "utilization within normal range"
		return result
	}

	// Low CPU on a burstable instance with a depleted credit reservoir is
	// more likely throttling than idleness; flag for review instead of
	// recommending a downsize.
	credit := summary.CreditBalance()
	if record.Family == types.FamilyBurstable && credit.HasData() && credit.Average < t.BurstHeadroom {
		result.Reason = fmt.Sprintf(
			"average CPU %.1f%% is low but credit balance %.0f is depleted; instance may be throttled, review manually",
			cpu.Average, credit.Average,
		)
		return result
	}

	result.Underutilized = true
	result.Severity = severityFor(cpu.Average, t.CPULowPercent)
	result.Reason = fmt.Sprintf("average CPU %.1f%% below %.0f%% threshold", cpu.Average, t.CPULowPercent)

	if record.Family == types.FamilyBurstable && credit.HasData() && credit.Average >= t.BurstHeadroom {
		result.Reason += "; burst capacity unused"
	}

	result.Recommendation = Recommend(record.Type)
	return result
}

func severityFor(avg, threshold float64) types.Severity {
	switch ratio := avg / threshold; {
	case ratio < severeBand:
		return types.SeveritySevere
	case ratio < moderateBand:
		return types.SeverityModerate
	default:
		return types.SeverityMild
	}
}

// stepDown maps each size to the next size down. Sizes absent from the
// map (including small and below) get a manual-review recommendation.
var stepDown = map[string]string{
	"32xlarge": "24xlarge",
	"24xlarge": "16xlarge",
	"16xlarge": "12xlarge",
	"12xlarge": "8xlarge",
	"8xlarge":  "4xlarge",
	"4xlarge":  "2xlarge",
	"2xlarge":  "xlarge",
	"xlarge":   "large",
	"large":    "medium",
	"medium":   "small",
}

// Recommend suggests the next smaller size in the same family.
func Recommend(instanceType string) string {
	family, size, ok := types.ParseInstanceType(instanceType)
	if !ok {
		return "review manually"
	}

	smaller, ok := stepDown[size]
	if !ok {
		return "review manually"
	}
	return family + "." + smaller
}
