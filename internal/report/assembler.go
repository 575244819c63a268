// Package report turns per-region scan output into the final report and
// renders it to the configured sink.
package report

import (
	"time"

	"github.com/dmtruong/rightsizer/pkg/types"
)

// RegionResult is one region's accumulator. Each concurrent region task
// owns exactly one of these; they are merged only at assembly.
type RegionResult struct {
	Region    string
	Results   []types.ClassificationResult // discovery order, all verdicts
	Scanned   int                          // instances seen before filtering
	Evaluated int                          // records that reached metrics
	Failures  []types.Failure
}

// Assemble merges per-region results into one report. The input slice
// must already be in canonical region order (the scanner indexes results
// by region, never by completion); within a region, discovery order is
// preserved. Only underutilized instances make the result list, but
// totals count everything scanned. An empty report is a valid outcome.
func Assemble(perRegion []RegionResult, account string, generatedAt time.Time) *types.Report {
	report := &types.Report{
		GeneratedAt:    generatedAt,
		Account:        account,
		RegionsScanned: len(perRegion),
		Results:        []types.ClassificationResult{},
	}

	for _, rr := range perRegion {
		report.InstancesScanned += rr.Scanned
		report.InstancesEvaluated += rr.Evaluated
		report.Failures = append(report.Failures, rr.Failures...)

		for _, result := range rr.Results {
			if result.Underutilized {
				report.Results = append(report.Results, result)
			}
		}
	}

	return report
}
