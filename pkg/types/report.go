package types

import "time"

// Severity orders how far below the utilization threshold an instance
// sits. None means not underutilized.
type Severity int

const (
	SeverityNone Severity = iota
	SeverityMild
	SeverityModerate
	SeveritySevere
)

func (s Severity) String() string {
	switch s {
	case SeverityMild:
		return "mild"
	case SeverityModerate:
		return "moderate"
	case SeveritySevere:
		return "severe"
	default:
		return "none"
	}
}

// ClassificationResult is the verdict for one evaluated instance.
// Every record that reaches the metrics stage produces exactly one
// result; instances without metric data are represented, not dropped.
type ClassificationResult struct {
	InstanceID     string
	Name           string
	Region         string
	InstanceType   string
	Summary        MetricSummary
	Underutilized  bool
	Severity       Severity
	Reason         string
	Recommendation string
}

// Failure annotates a degraded part of a run: a region that could not be
// inventoried, a metric batch that errored, or a region abandoned at the
// run deadline.
type Failure struct {
	Region string
	Stage  string // "inventory", "metrics", "timeout"
	Reason string
}

// Report is the final output of a run: underutilized instances in
// canonical region order plus run metadata. An empty Results slice is a
// valid terminal state.
type Report struct {
	GeneratedAt        time.Time
	Account            string
	RegionsScanned     int
	InstancesScanned   int // everything the inventory saw, pre-filter
	InstancesEvaluated int // records that reached the metrics stage
	Failures           []Failure
	Results            []ClassificationResult
}
