package provider

import (
	"context"
	"errors"

	"github.com/dmtruong/rightsizer/pkg/types"
)

// Common errors
var (
	ErrNotConfigured = errors.New("provider not configured")
	ErrNotFound      = errors.New("resource not found")
	ErrNoRegions     = errors.New("no enabled regions returned")
)

// RegionLister enumerates the account's enabled regions. Called once per
// run; a failure here is fatal to the run.
type RegionLister interface {
	ListEnabledRegions(ctx context.Context) ([]string, error)
}

// RegionScanner is the per-region surface the orchestrator drives. An
// implementation is bound to a single region.
type RegionScanner interface {
	// ListInstances returns qualifying instances in discovery order plus
	// the total number of instances seen before filtering.
	ListInstances(ctx context.Context) ([]types.InstanceRecord, int, error)

	// Summarize fetches and reduces metrics for the given records. Batch
	// failures are returned alongside the partial summaries; affected
	// instances carry no-data stats rather than being omitted.
	Summarize(ctx context.Context, records []types.InstanceRecord) (map[string]types.MetricSummary, []error)
}

// SecretSource resolves an opaque secret reference to its raw material.
// The scanner itself never touches credential bytes outside this
// abstraction.
type SecretSource interface {
	Get(ctx context.Context, ref string) ([]byte, error)
}

// ReportSink consumes a finished report and returns an identifier for
// where it landed (file path, sheet id).
type ReportSink interface {
	Write(ctx context.Context, report *types.Report) (string, error)
}
