package types

// CloudWatch metric names the scanner requests.
const (
	MetricCPUUtilization   = "CPUUtilization"
	MetricCPUCreditBalance = "CPUCreditBalance"
	MetricCPUSurplusCredit = "CPUSurplusCreditBalance"
)

// Stat is the reduction of one metric's samples over the lookback window.
// A Stat with zero samples means the backend returned no data, which is
// distinct from an average of zero.
type Stat struct {
	Average float64
	Minimum float64
	Samples int
}

// HasData reports whether any samples were returned for the metric.
func (s Stat) HasData() bool {
	return s.Samples > 0
}

// MetricSummary maps metric name to its reduced statistic for one
// instance. A metric absent from the map was never requested; a metric
// present with zero samples was requested and returned nothing.
type MetricSummary map[string]Stat

// CPU returns the CPUUtilization stat.
func (m MetricSummary) CPU() Stat {
	return m[MetricCPUUtilization]
}

// CreditBalance returns the CPUCreditBalance stat.
func (m MetricSummary) CreditBalance() Stat {
	return m[MetricCPUCreditBalance]
}

// MetricsFor returns the metric names to request for a family variant.
// Credit metrics are meaningless (and usually absent) outside burstable
// families, so they are only requested there.
func MetricsFor(family Family) []string {
	if family == FamilyBurstable {
		return []string{MetricCPUUtilization, MetricCPUCreditBalance, MetricCPUSurplusCredit}
	}
	return []string{MetricCPUUtilization}
}
