// Package scan orchestrates a full run: region discovery, bounded
// per-region fan-out, and assembly of the final report.
package scan

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/smithy-go"
	"golang.org/x/sync/errgroup"

	"github.com/dmtruong/rightsizer/internal/classify"
	"github.com/dmtruong/rightsizer/internal/config"
	"github.com/dmtruong/rightsizer/internal/report"
	"github.com/dmtruong/rightsizer/pkg/provider"
	"github.com/dmtruong/rightsizer/pkg/types"
)

// ScannerFactory builds the per-region scanner for a region.
type ScannerFactory func(region string) provider.RegionScanner

// Scanner runs the whole pipeline once.
type Scanner struct {
	cfg     *config.Config
	regions provider.RegionLister
	factory ScannerFactory
	account string

	now func() time.Time
}

// New creates a Scanner. account may be empty when identity lookup is
// unavailable; it only feeds report metadata.
func New(cfg *config.Config, regions provider.RegionLister, factory ScannerFactory, account string) *Scanner {
	return &Scanner{
		cfg:     cfg,
		regions: regions,
		factory: factory,
		account: account,
		now:     time.Now,
	}
}

// Run executes one scan. Region discovery failure is fatal; everything
// after that degrades per region or per batch into report metadata, so a
// partially failed run still yields a best-effort report.
func (s *Scanner) Run(ctx context.Context) (*types.Report, error) {
	ctx, cancel := context.WithTimeout(ctx, s.cfg.RunTimeout)
	defer cancel()

	regions, err := s.regions.ListEnabledRegions(ctx)
	if err != nil {
		return nil, &provider.RegionDiscoveryError{Err: err}
	}

	slog.Debug("region discovery complete", slog.Int("regions", len(regions)))

	// One slot per region, indexed by canonical order. Tasks never share
	// state; completion order cannot affect the report.
	results := make([]report.RegionResult, len(regions))

	g := new(errgroup.Group)
	g.SetLimit(s.cfg.RegionConcurrency)

	for i, region := range regions {
		g.Go(func() error {
			results[i] = s.scanRegion(ctx, region)
			return nil
		})
	}
	_ = g.Wait()

	return report.Assemble(results, s.account, s.now().UTC()), nil
}

// scanRegion owns one region's accumulator from inventory through
// classification.
func (s *Scanner) scanRegion(ctx context.Context, region string) report.RegionResult {
	rr := report.RegionResult{Region: region}
	scanner := s.factory(region)

	records, scanned, err := scanner.ListInstances(ctx)
	rr.Scanned = scanned
	if err != nil {
		rr.Failures = append(rr.Failures, failureFor(region, "inventory", &provider.RegionQueryError{Region: region, Err: err}))
		slog.Warn("region inventory failed", slog.String("region", region), slog.Any("error", err))
		return rr
	}

	slog.Debug("region inventory complete",
		slog.String("region", region),
		slog.Int("scanned", scanned),
		slog.Int("qualifying", len(records)),
	)

	summaries, metricErrs := scanner.Summarize(ctx, records)
	for _, merr := range metricErrs {
		rr.Failures = append(rr.Failures, failureFor(region, "metrics", merr))
	}

	thresholds := classify.Thresholds{
		CPULowPercent: s.cfg.CPULowPercent,
		BurstHeadroom: s.cfg.BurstHeadroom,
	}

	for _, record := range records {
		if record.ID == "" {
			// Malformed records are excluded, never fatal.
			slog.Error("dropping malformed record", slog.Any("error",
				&provider.ClassificationError{InstanceID: record.ID, Err: errors.New("missing instance id")}))
			continue
		}
		rr.Evaluated++
		rr.Results = append(rr.Results, classify.Classify(record, summaries[record.ID], thresholds))
	}

	return rr
}

// failureFor tags deadline-driven failures as timeouts so the report
// distinguishes abandoned regions from broken ones. API errors keep
// their service error code; that is what operators search for.
func failureFor(region, stage string, err error) types.Failure {
	if errors.Is(err, context.DeadlineExceeded) {
		return types.Failure{Region: region, Stage: "timeout", Reason: "abandoned at run deadline"}
	}
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		return types.Failure{
			Region: region,
			Stage:  stage,
			Reason: fmt.Sprintf("%s: %s", apiErr.ErrorCode(), apiErr.ErrorMessage()),
		}
	}
	return types.Failure{Region: region, Stage: stage, Reason: err.Error()}
}
