package aws

import (
	"context"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/dmtruong/rightsizer/pkg/types"
)

// Inventory lists a region's EC2 instances and applies the size floor.
type Inventory struct {
	client ec2.DescribeInstancesAPIClient
	region string
}

// NewInventory creates an inventory bound to one region.
func NewInventory(client ec2.DescribeInstancesAPIClient, region string) *Inventory {
	return &Inventory{client: client, region: region}
}

// ListInstances returns qualifying instances in discovery order plus the
// total instance count seen before filtering. Pagination is followed
// until the API signals completion. Only running instances are fetched;
// stopped instances have no recent metrics worth evaluating and are
// skipped rather than reported.
func (inv *Inventory) ListInstances(ctx context.Context) ([]types.InstanceRecord, int, error) {
	input := &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{
				Name:   aws.String("instance-state-name"),
				Values: []string{"running"},
			},
		},
	}

	paginator := ec2.NewDescribeInstancesPaginator(inv.client, input)

	var records []types.InstanceRecord
	scanned := 0
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, scanned, err
		}

		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				scanned++
				record, ok := inv.toRecord(inst)
				if !ok {
					continue
				}
				records = append(records, record)
			}
		}
	}

	return records, scanned, nil
}

// toRecord converts an API instance to the scanner's record type,
// reporting false for instances below the size floor or with types that
// don't parse.
func (inv *Inventory) toRecord(i ec2types.Instance) (types.InstanceRecord, bool) {
	instanceType := string(i.InstanceType)
	familyName, size, ok := types.ParseInstanceType(instanceType)
	if !ok {
		slog.Debug("skipping instance with unparseable type",
			slog.String("instance_id", deref(i.InstanceId)),
			slog.String("instance_type", instanceType),
		)
		return types.InstanceRecord{}, false
	}
	if types.SizeExcluded(size) {
		return types.InstanceRecord{}, false
	}

	record := types.InstanceRecord{
		ID:         deref(i.InstanceId),
		Region:     inv.region,
		Type:       instanceType,
		FamilyName: familyName,
		Size:       size,
		Family:     types.FamilyOf(familyName),
		Tags:       make(map[string]string, len(i.Tags)),
	}

	if i.State != nil {
		record.State = string(i.State.Name)
	}
	if i.LaunchTime != nil {
		record.LaunchTime = *i.LaunchTime
	}

	for _, tag := range i.Tags {
		key := deref(tag.Key)
		value := deref(tag.Value)
		record.Tags[key] = value
		if key == "Name" {
			record.Name = value
		}
	}

	return record, true
}

// deref safely dereferences a string pointer
func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
