package aws

import (
	"context"
	"sort"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"

	"github.com/dmtruong/rightsizer/pkg/provider"
)

// DescribeRegionsAPI is the slice of the EC2 client the catalog needs.
type DescribeRegionsAPI interface {
	DescribeRegions(ctx context.Context, params *ec2.DescribeRegionsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error)
}

// Catalog enumerates the account's enabled regions.
type Catalog struct {
	client DescribeRegionsAPI
}

// NewCatalog creates a region catalog backed by the given EC2 client.
func NewCatalog(client DescribeRegionsAPI) *Catalog {
	return &Catalog{client: client}
}

// ListEnabledRegions returns enabled region codes in a stable order. An
// empty result is treated as a configuration anomaly, not a legitimate
// zero-region account.
func (c *Catalog) ListEnabledRegions(ctx context.Context) ([]string, error) {
	output, err := c.client.DescribeRegions(ctx, &ec2.DescribeRegionsInput{
		AllRegions: aws.Bool(false),
	})
	if err != nil {
		return nil, err
	}

	regions := make([]string, 0, len(output.Regions))
	for _, r := range output.Regions {
		if r.RegionName != nil {
			regions = append(regions, *r.RegionName)
		}
	}
	if len(regions) == 0 {
		return nil, provider.ErrNoRegions
	}

	// The API does not guarantee ordering; canonical order keeps reports
	// diffable run over run.
	sort.Strings(regions)
	return regions, nil
}
