package aws

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"

	"github.com/dmtruong/rightsizer/pkg/provider"
	"github.com/dmtruong/rightsizer/pkg/types"
)

const metricNamespace = "AWS/EC2"

// Aggregator reduces CloudWatch time series to per-instance statistics.
// It packs the instance×metric cross-product into GetMetricData calls of
// at most batchSize queries each instead of calling per instance.
type Aggregator struct {
	client    cloudwatch.GetMetricDataAPIClient
	region    string
	period    time.Duration
	batchSize int
}

// NewAggregator creates an aggregator bound to one region. batchSize must
// respect CloudWatch's per-call query cap (500).
func NewAggregator(client cloudwatch.GetMetricDataAPIClient, region string, period time.Duration, batchSize int) *Aggregator {
	return &Aggregator{
		client:    client,
		region:    region,
		period:    period,
		batchSize: batchSize,
	}
}

// queryRef ties a GetMetricData query id back to its instance and metric.
type queryRef struct {
	instanceID string
	metric     string
}

// Summarize fetches and reduces metrics for the given records over the
// window. Every requested (instance, metric) pair appears in the result;
// pairs with no returned samples carry a zero-sample Stat. A failed batch
// degrades its instances to no-data and is reported in the error slice
// rather than aborting the region.
func (a *Aggregator) Summarize(ctx context.Context, records []types.InstanceRecord, start, end time.Time) (map[string]types.MetricSummary, []error) {
	summaries := make(map[string]types.MetricSummary, len(records))

	var queries []cwtypes.MetricDataQuery
	refs := make(map[string]queryRef)

	for i, record := range records {
		metrics := types.MetricsFor(record.Family)
		summary := make(types.MetricSummary, len(metrics))

		for j, metric := range metrics {
			// Query ids must start with a lowercase letter.
			id := fmt.Sprintf("q%d_%d", i, j)
			refs[id] = queryRef{instanceID: record.ID, metric: metric}
			summary[metric] = types.Stat{}

			queries = append(queries, cwtypes.MetricDataQuery{
				Id: aws.String(id),
				MetricStat: &cwtypes.MetricStat{
					Metric: &cwtypes.Metric{
						Namespace:  aws.String(metricNamespace),
						MetricName: aws.String(metric),
						Dimensions: []cwtypes.Dimension{
							{
								Name:  aws.String("InstanceId"),
								Value: aws.String(record.ID),
							},
						},
					},
					Period: aws.Int32(int32(a.period / time.Second)),
					Stat:   aws.String("Average"),
				},
				ReturnData: aws.Bool(true),
			})
		}

		summaries[record.ID] = summary
	}

	var failures []error
	for batch := 0; len(queries) > 0; batch++ {
		n := min(a.batchSize, len(queries))
		chunk := queries[:n]
		queries = queries[n:]

		if err := a.fetchBatch(ctx, chunk, refs, summaries, start, end); err != nil {
			// Instances in this chunk keep their zero-sample stats.
			failures = append(failures, &provider.MetricQueryError{
				Region: a.region,
				Batch:  batch,
				Err:    err,
			})
			slog.Warn("metric batch failed",
				slog.String("region", a.region),
				slog.Int("batch", batch),
				slog.Any("error", err),
			)
		}
	}

	return summaries, failures
}

// fetchBatch issues one GetMetricData call (following its internal
// pagination) and folds the returned series into the summaries.
func (a *Aggregator) fetchBatch(ctx context.Context, chunk []cwtypes.MetricDataQuery, refs map[string]queryRef, summaries map[string]types.MetricSummary, start, end time.Time) error {
	input := &cloudwatch.GetMetricDataInput{
		MetricDataQueries: chunk,
		StartTime:         aws.Time(start),
		EndTime:           aws.Time(end),
	}

	paginator := cloudwatch.NewGetMetricDataPaginator(a.client, input)
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return err
		}

		for _, result := range page.MetricDataResults {
			ref, ok := refs[deref(result.Id)]
			if !ok {
				continue
			}
			if len(result.Values) == 0 {
				continue
			}

			summary := summaries[ref.instanceID]
			stat := summary[ref.metric]
			stat = accumulate(stat, result.Values)
			summary[ref.metric] = stat
		}
	}

	return nil
}

// accumulate folds another page of samples into a Stat, keeping the
// running average exact across pages.
func accumulate(stat types.Stat, values []float64) types.Stat {
	sum := stat.Average * float64(stat.Samples)
	minimum := stat.Minimum
	if stat.Samples == 0 {
		minimum = values[0]
	}

	for _, v := range values {
		sum += v
		if v < minimum {
			minimum = v
		}
	}

	stat.Samples += len(values)
	stat.Average = sum / float64(stat.Samples)
	stat.Minimum = minimum
	return stat
}
