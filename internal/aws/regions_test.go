package aws

import (
	"context"
	"errors"
	"testing"

	awssdk "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmtruong/rightsizer/pkg/provider"
)

type fakeRegionsClient struct {
	regions []string
	err     error

	gotInput *ec2.DescribeRegionsInput
}

func (f *fakeRegionsClient) DescribeRegions(_ context.Context, params *ec2.DescribeRegionsInput, _ ...func(*ec2.Options)) (*ec2.DescribeRegionsOutput, error) {
	f.gotInput = params
	if f.err != nil {
		return nil, f.err
	}

	out := &ec2.DescribeRegionsOutput{}
	for _, r := range f.regions {
		out.Regions = append(out.Regions, ec2types.Region{RegionName: awssdk.String(r)})
	}
	return out, nil
}

func TestListEnabledRegionsSorted(t *testing.T) {
	client := &fakeRegionsClient{regions: []string{"us-east-1", "ap-southeast-1", "eu-west-1"}}
	catalog := NewCatalog(client)

	regions, err := catalog.ListEnabledRegions(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []string{"ap-southeast-1", "eu-west-1", "us-east-1"}, regions)

	require.NotNil(t, client.gotInput)
	require.NotNil(t, client.gotInput.AllRegions)
	assert.False(t, *client.gotInput.AllRegions, "only enabled regions should be requested")
}

func TestListEnabledRegionsEmptyIsAnomaly(t *testing.T) {
	catalog := NewCatalog(&fakeRegionsClient{})

	_, err := catalog.ListEnabledRegions(context.Background())
	assert.ErrorIs(t, err, provider.ErrNoRegions)
}

func TestListEnabledRegionsError(t *testing.T) {
	boom := errors.New("api unavailable")
	catalog := NewCatalog(&fakeRegionsClient{err: boom})

	_, err := catalog.ListEnabledRegions(context.Background())
	assert.ErrorIs(t, err, boom)
}
