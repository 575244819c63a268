package aws

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmtruong/rightsizer/pkg/provider"
	"github.com/dmtruong/rightsizer/pkg/types"
)

type fakeMetricDataClient struct {
	// data maps "<instanceID>/<metric>" to the sample series returned.
	data      map[string][]float64
	failCalls map[int]bool

	calls      int
	gotBatches [][]cwtypes.MetricDataQuery
}

func (f *fakeMetricDataClient) GetMetricData(_ context.Context, params *cloudwatch.GetMetricDataInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricDataOutput, error) {
	idx := f.calls
	f.calls++
	f.gotBatches = append(f.gotBatches, params.MetricDataQueries)

	if f.failCalls[idx] {
		return nil, errors.New("rate exceeded")
	}

	out := &cloudwatch.GetMetricDataOutput{}
	for _, q := range params.MetricDataQueries {
		instanceID := *q.MetricStat.Metric.Dimensions[0].Value
		metric := *q.MetricStat.Metric.MetricName
		out.MetricDataResults = append(out.MetricDataResults, cwtypes.MetricDataResult{
			Id:     q.Id,
			Values: f.data[fmt.Sprintf("%s/%s", instanceID, metric)],
		})
	}
	return out, nil
}

func burstableRecord(id string) types.InstanceRecord {
	return types.InstanceRecord{ID: id, Type: "t3.medium", FamilyName: "t3", Size: "medium", Family: types.FamilyBurstable}
}

func standardRecord(id string) types.InstanceRecord {
	return types.InstanceRecord{ID: id, Type: "m5.large", FamilyName: "m5", Size: "large", Family: types.FamilyStandard}
}

func testWindow() (time.Time, time.Time) {
	end := time.Date(2026, 8, 23, 0, 0, 0, 0, time.UTC)
	return end.AddDate(0, 0, -14), end
}

func TestSummarizeBatchCount(t *testing.T) {
	// 3 burstable × 3 metrics + 4 standard × 1 metric = 13 queries.
	records := []types.InstanceRecord{
		burstableRecord("i-b1"), burstableRecord("i-b2"), burstableRecord("i-b3"),
		standardRecord("i-s1"), standardRecord("i-s2"), standardRecord("i-s3"), standardRecord("i-s4"),
	}

	client := &fakeMetricDataClient{data: map[string][]float64{}}
	agg := NewAggregator(client, "eu-west-1", time.Hour, 5)

	start, end := testWindow()
	summaries, failures := agg.Summarize(context.Background(), records, start, end)
	require.Empty(t, failures)

	// ceil(13/5) = 3 calls, none above the batch limit.
	assert.Equal(t, 3, client.calls)
	for _, batch := range client.gotBatches {
		assert.LessOrEqual(t, len(batch), 5)
	}

	assert.Len(t, summaries, len(records))
}

func TestSummarizeMetricSelectionByFamily(t *testing.T) {
	records := []types.InstanceRecord{burstableRecord("i-b"), standardRecord("i-s")}
	client := &fakeMetricDataClient{data: map[string][]float64{}}
	agg := NewAggregator(client, "eu-west-1", time.Hour, 500)

	start, end := testWindow()
	summaries, _ := agg.Summarize(context.Background(), records, start, end)

	burstable := summaries["i-b"]
	assert.Contains(t, burstable, types.MetricCPUUtilization)
	assert.Contains(t, burstable, types.MetricCPUCreditBalance)
	assert.Contains(t, burstable, types.MetricCPUSurplusCredit)

	// Credit metrics are never requested for standard families.
	standard := summaries["i-s"]
	assert.Contains(t, standard, types.MetricCPUUtilization)
	assert.NotContains(t, standard, types.MetricCPUCreditBalance)
	assert.NotContains(t, standard, types.MetricCPUSurplusCredit)
}

func TestSummarizeReduction(t *testing.T) {
	client := &fakeMetricDataClient{data: map[string][]float64{
		"i-b/CPUUtilization":   {4, 2, 6},
		"i-b/CPUCreditBalance": {100, 140, 120},
		// Surplus series intentionally absent: zero samples.
	}}
	agg := NewAggregator(client, "eu-west-1", time.Hour, 500)

	start, end := testWindow()
	summaries, failures := agg.Summarize(context.Background(), []types.InstanceRecord{burstableRecord("i-b")}, start, end)
	require.Empty(t, failures)

	summary := summaries["i-b"]

	cpu := summary.CPU()
	require.True(t, cpu.HasData())
	assert.InDelta(t, 4.0, cpu.Average, 1e-9)
	assert.InDelta(t, 2.0, cpu.Minimum, 1e-9)
	assert.Equal(t, 3, cpu.Samples)

	credits := summary.CreditBalance()
	assert.InDelta(t, 120.0, credits.Average, 1e-9)
	assert.InDelta(t, 100.0, credits.Minimum, 1e-9)

	// No samples means no data, never a defaulted zero.
	surplus := summary[types.MetricCPUSurplusCredit]
	assert.False(t, surplus.HasData())
	assert.Zero(t, surplus.Average)
}

func TestSummarizeQueryShape(t *testing.T) {
	client := &fakeMetricDataClient{data: map[string][]float64{}}
	agg := NewAggregator(client, "eu-west-1", time.Hour, 500)

	start, end := testWindow()
	agg.Summarize(context.Background(), []types.InstanceRecord{standardRecord("i-s")}, start, end)

	require.Len(t, client.gotBatches, 1)
	require.Len(t, client.gotBatches[0], 1)

	q := client.gotBatches[0][0]
	assert.Equal(t, "AWS/EC2", *q.MetricStat.Metric.Namespace)
	assert.Equal(t, "CPUUtilization", *q.MetricStat.Metric.MetricName)
	assert.Equal(t, "InstanceId", *q.MetricStat.Metric.Dimensions[0].Name)
	assert.Equal(t, "i-s", *q.MetricStat.Metric.Dimensions[0].Value)
	assert.Equal(t, int32(3600), *q.MetricStat.Period)
	assert.Equal(t, "Average", *q.MetricStat.Stat)
}

func TestSummarizeBatchFailureDegradesToNoData(t *testing.T) {
	// 6 standard instances with batch size 2: three batches; the first
	// fails, the rest succeed.
	var records []types.InstanceRecord
	data := map[string][]float64{}
	for i := 0; i < 6; i++ {
		id := fmt.Sprintf("i-%d", i)
		records = append(records, standardRecord(id))
		data[id+"/CPUUtilization"] = []float64{50}
	}

	client := &fakeMetricDataClient{data: data, failCalls: map[int]bool{0: true}}
	agg := NewAggregator(client, "us-east-1", time.Hour, 2)

	start, end := testWindow()
	summaries, failures := agg.Summarize(context.Background(), records, start, end)

	require.Len(t, failures, 1)
	var mqe *provider.MetricQueryError
	require.ErrorAs(t, failures[0], &mqe)
	assert.Equal(t, "us-east-1", mqe.Region)
	assert.Equal(t, 0, mqe.Batch)

	// Every instance is still represented; the failed batch's instances
	// just carry no data.
	require.Len(t, summaries, 6)
	assert.False(t, summaries["i-0"].CPU().HasData())
	assert.False(t, summaries["i-1"].CPU().HasData())
	for i := 2; i < 6; i++ {
		assert.True(t, summaries[fmt.Sprintf("i-%d", i)].CPU().HasData())
	}
}

func TestSummarizeNoRecords(t *testing.T) {
	client := &fakeMetricDataClient{}
	agg := NewAggregator(client, "us-east-1", time.Hour, 500)

	start, end := testWindow()
	summaries, failures := agg.Summarize(context.Background(), nil, start, end)

	assert.Empty(t, summaries)
	assert.Empty(t, failures)
	assert.Zero(t, client.calls, "no instances should mean no API calls")
}
