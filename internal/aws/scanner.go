package aws

import (
	"context"
	"time"

	"github.com/dmtruong/rightsizer/pkg/types"
)

// RegionScanner binds an inventory and an aggregator to one region with a
// fixed lookback window, satisfying the orchestrator's per-region
// contract.
type RegionScanner struct {
	inventory  *Inventory
	aggregator *Aggregator
	start, end time.Time
}

// NewRegionScanner wires the per-region pipeline for a client.
func NewRegionScanner(client *Client, period time.Duration, batchSize int, start, end time.Time) *RegionScanner {
	return &RegionScanner{
		inventory:  NewInventory(client.EC2, client.Region()),
		aggregator: NewAggregator(client.CW, client.Region(), period, batchSize),
		start:      start,
		end:        end,
	}
}

// ListInstances lists qualifying instances in the scanner's region.
func (r *RegionScanner) ListInstances(ctx context.Context) ([]types.InstanceRecord, int, error) {
	return r.inventory.ListInstances(ctx)
}

// Summarize aggregates metrics for the records over the run's window.
func (r *RegionScanner) Summarize(ctx context.Context, records []types.InstanceRecord) (map[string]types.MetricSummary, []error) {
	return r.aggregator.Summarize(ctx, records, r.start, r.end)
}
