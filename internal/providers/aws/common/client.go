package common

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
)

// ProfileConfig is a credential source resolved into an SDK configuration,
// an account ID and initialised service clients. It is the unit the engine
// sweeps.
type ProfileConfig struct {
	// ProfileName is the profile name, or "environment" for ambient
	// environment credentials.
	ProfileName string

	// AccountID is the AWS account ID resolved through STS.
	AccountID string

	// Region is the home region of the loaded configuration.
	Region string

	// Config is the fully loaded AWS SDK v2 configuration.
	Config aws.Config

	// Clients holds clients scoped to the home region. Use ConfigForRegion to
	// obtain a configuration for per-region clients.
	Clients *ClientSet
}

// AWSClientProvider loads AWS configurations and resolves active regions.
// It is the only place credentials are turned into SDK configuration.
//
// Implementations must use the AWS SDK v2 only. Never call the aws CLI.
type AWSClientProvider interface {
	// LoadProfile returns a ProfileConfig for src.
	LoadProfile(ctx context.Context, src CredentialSource) (*ProfileConfig, error)

	// GetActiveRegions returns the regions enabled for the account behind cfg.
	GetActiveRegions(ctx context.Context, cfg *ProfileConfig) ([]string, error)

	// ConfigForRegion clones cfg with the target region set.
	ConfigForRegion(cfg *ProfileConfig, region string) aws.Config
}
