package common

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/sts"
)

// defaultHomeRegion is used when a profile has no region configured.
const defaultHomeRegion = "us-east-1"

// FallbackRegions is swept when region discovery fails for a profile.
var FallbackRegions = []string{
	"us-east-1",
	"us-east-2",
	"us-west-1",
	"us-west-2",
	"ca-central-1",
	"ap-south-1",
	"ap-northeast-1",
	"ap-northeast-2",
	"ap-southeast-1",
	"ap-southeast-2",
	"eu-central-1",
	"eu-west-1",
	"eu-west-2",
	"sa-east-1",
}

// DefaultAWSClientProvider is the production implementation of
// AWSClientProvider. Named profiles are read from the shared config and
// credentials files; the environment source uses the SDK default chain.
type DefaultAWSClientProvider struct {
	factory    ClientFactory
	maxRetries int

	// loadOpts are appended to every LoadDefaultConfig call.
	loadOpts []func(*awsconfig.LoadOptions) error
}

// NewDefaultAWSClientProvider returns a provider backed by the real AWS SDK.
// See NewRetryer for how maxRetries applies to SDK calls.
func NewDefaultAWSClientProvider(maxRetries int) *DefaultAWSClientProvider {
	return &DefaultAWSClientProvider{factory: NewClientSet, maxRetries: maxRetries}
}

// NewDefaultAWSClientProviderWithFactory returns a provider that uses f to
// create its ClientSet. Pass a stub factory in tests.
func NewDefaultAWSClientProviderWithFactory(f ClientFactory, maxRetries int) *DefaultAWSClientProvider {
	return &DefaultAWSClientProvider{factory: f, maxRetries: maxRetries}
}

// LoadProfile loads the SDK config for src and resolves its account ID.
func (p *DefaultAWSClientProvider) LoadProfile(ctx context.Context, src CredentialSource) (*ProfileConfig, error) {
	opts := []func(*awsconfig.LoadOptions) error{
		awsconfig.WithRetryer(NewRetryer(p.maxRetries)),
	}
	if !src.Environment && src.Profile != "" {
		opts = append(opts, awsconfig.WithSharedConfigProfile(src.Profile))
	}
	opts = append(opts, p.loadOpts...)

	cfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load AWS profile %q: %w", src.Name(), err)
	}
	if cfg.Region == "" {
		cfg.Region = defaultHomeRegion
	}

	clients := p.factory(cfg)

	accountID, err := resolveAccountID(ctx, clients.STS)
	if err != nil {
		return nil, fmt.Errorf("resolve account ID for profile %q: %w", src.Name(), err)
	}

	return &ProfileConfig{
		ProfileName: src.Name(),
		AccountID:   accountID,
		Region:      cfg.Region,
		Config:      cfg,
		Clients:     clients,
	}, nil
}

// GetActiveRegions returns the regions the account has enabled. EC2
// DescribeRegions is answered the same way from any home region.
func (p *DefaultAWSClientProvider) GetActiveRegions(ctx context.Context, cfg *ProfileConfig) ([]string, error) {
	out, err := cfg.Clients.EC2.DescribeRegions(ctx, &ec2.DescribeRegionsInput{
		// false excludes regions the account has not opted into.
		AllRegions: aws.Bool(false),
	})
	if err != nil {
		return nil, fmt.Errorf("describe regions for profile %q: %w", cfg.ProfileName, err)
	}

	regions := make([]string, 0, len(out.Regions))
	for _, r := range out.Regions {
		if r.RegionName != nil {
			regions = append(regions, *r.RegionName)
		}
	}
	return regions, nil
}

// ConfigForRegion returns a copy of cfg.Config with Region set to region.
func (p *DefaultAWSClientProvider) ConfigForRegion(cfg *ProfileConfig, region string) aws.Config {
	regional := cfg.Config.Copy()
	regional.Region = region
	return regional
}

// resolveAccountID calls STS GetCallerIdentity to retrieve the account ID for
// the credentials loaded in stsClient.
func resolveAccountID(ctx context.Context, stsClient STSClient) (string, error) {
	out, err := stsClient.GetCallerIdentity(ctx, &sts.GetCallerIdentityInput{})
	if err != nil {
		return "", fmt.Errorf("STS GetCallerIdentity: %w", err)
	}
	if out.Account == nil {
		return "", fmt.Errorf("STS GetCallerIdentity returned nil account")
	}
	return aws.ToString(out.Account), nil
}
