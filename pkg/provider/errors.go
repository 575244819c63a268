package provider

import "fmt"

// RegionDiscoveryError means the enabled-region list could not be
// established. There is nothing to scan without it, so the run aborts.
type RegionDiscoveryError struct {
	Err error
}

func (e *RegionDiscoveryError) Error() string {
	return fmt.Sprintf("region discovery failed: %v", e.Err)
}

func (e *RegionDiscoveryError) Unwrap() error { return e.Err }

// RegionQueryError means a single region's inventory failed. The region
// is recorded as failed and the run continues.
type RegionQueryError struct {
	Region string
	Err    error
}

func (e *RegionQueryError) Error() string {
	return fmt.Sprintf("region %s: inventory failed: %v", e.Region, e.Err)
}

func (e *RegionQueryError) Unwrap() error { return e.Err }

// MetricQueryError means one metric batch failed. Instances in the batch
// are marked no-data for the affected metrics; the region continues.
type MetricQueryError struct {
	Region string
	Batch  int
	Err    error
}

func (e *MetricQueryError) Error() string {
	return fmt.Sprintf("region %s: metric batch %d failed: %v", e.Region, e.Batch, e.Err)
}

func (e *MetricQueryError) Unwrap() error { return e.Err }

// ClassificationError should not occur for well-formed input. When it
// does, the instance is excluded from the report and logged; the run is
// never crashed by it.
type ClassificationError struct {
	InstanceID string
	Err        error
}

func (e *ClassificationError) Error() string {
	return fmt.Sprintf("classification failed for %s: %v", e.InstanceID, e.Err)
}

func (e *ClassificationError) Unwrap() error { return e.Err }
