package aws

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
)

// Client wraps the AWS SDK clients for a single region.
type Client struct {
	EC2 *ec2.Client
	CW  *cloudwatch.Client

	region string
}

// LoadOption customizes the shared AWS configuration.
type LoadOption func(*loadOptions)

type loadOptions struct {
	profile string
	region  string
}

// WithProfile sets the shared-config profile used for credentials.
func WithProfile(profile string) LoadOption {
	return func(o *loadOptions) {
		o.profile = profile
	}
}

// WithRegion sets the base region for discovery calls.
func WithRegion(region string) LoadOption {
	return func(o *loadOptions) {
		o.region = region
	}
}

// LoadConfig resolves the shared AWS configuration once per run. Regional
// clients are derived from it without reloading the credential chain.
func LoadConfig(ctx context.Context, opts ...LoadOption) (aws.Config, error) {
	var o loadOptions
	for _, opt := range opts {
		opt(&o)
	}

	var configOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		configOpts = append(configOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		configOpts = append(configOpts, config.WithRegion(o.region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, configOpts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS SDK config: %w", err)
	}

	return cfg, nil
}

// NewClient builds the service clients for one region from the shared
// configuration.
func NewClient(cfg aws.Config, region string) *Client {
	regional := cfg.Copy()
	regional.Region = region

	return &Client{
		EC2:    ec2.NewFromConfig(regional),
		CW:     cloudwatch.NewFromConfig(regional),
		region: region,
	}
}

// Region returns the region this client is bound to.
func (c *Client) Region() string {
	return c.region
}
