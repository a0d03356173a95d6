package checks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/elasticbeanstalk"
	elb "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancing"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	"github.com/aws/aws-sdk-go-v2/service/opsworks"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// ---------------------------------------------------------------------------
// Narrow client interfaces
//
// Each interface lists only the SDK operations the checks call. The real
// SDK clients satisfy them, and so do the per-operation *APIClient
// interfaces the SDK paginators expect.
// ---------------------------------------------------------------------------

// EC2API covers the EC2 operations used by the EC2 and EBS checks.
type EC2API interface {
	DescribeInstances(ctx context.Context, params *ec2.DescribeInstancesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error)
	DescribeVolumes(ctx context.Context, params *ec2.DescribeVolumesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error)
	DescribeSnapshots(ctx context.Context, params *ec2.DescribeSnapshotsInput, optFns ...func(*ec2.Options)) (*ec2.DescribeSnapshotsOutput, error)
	DescribeImages(ctx context.Context, params *ec2.DescribeImagesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error)
	DescribeAddresses(ctx context.Context, params *ec2.DescribeAddressesInput, optFns ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error)
	DescribeNatGateways(ctx context.Context, params *ec2.DescribeNatGatewaysInput, optFns ...func(*ec2.Options)) (*ec2.DescribeNatGatewaysOutput, error)
}

// CloudWatchAPI covers the metric query used to enrich EC2 findings.
type CloudWatchAPI interface {
	GetMetricStatistics(ctx context.Context, params *cloudwatch.GetMetricStatisticsInput, optFns ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error)
}

// ELBAPI covers Classic Load Balancer listing.
type ELBAPI interface {
	DescribeLoadBalancers(ctx context.Context, params *elb.DescribeLoadBalancersInput, optFns ...func(*elb.Options)) (*elb.DescribeLoadBalancersOutput, error)
}

// ELBv2API covers Application, Network and Gateway Load Balancer listing.
type ELBv2API interface {
	DescribeLoadBalancers(ctx context.Context, params *elbv2.DescribeLoadBalancersInput, optFns ...func(*elbv2.Options)) (*elbv2.DescribeLoadBalancersOutput, error)
	DescribeTargetGroups(ctx context.Context, params *elbv2.DescribeTargetGroupsInput, optFns ...func(*elbv2.Options)) (*elbv2.DescribeTargetGroupsOutput, error)
	DescribeTargetHealth(ctx context.Context, params *elbv2.DescribeTargetHealthInput, optFns ...func(*elbv2.Options)) (*elbv2.DescribeTargetHealthOutput, error)
}

// BeanstalkAPI covers Elastic Beanstalk environment listing.
type BeanstalkAPI interface {
	DescribeEnvironments(ctx context.Context, params *elasticbeanstalk.DescribeEnvironmentsInput, optFns ...func(*elasticbeanstalk.Options)) (*elasticbeanstalk.DescribeEnvironmentsOutput, error)
}

// OpsWorksAPI covers the stack and per-stack resource listings.
type OpsWorksAPI interface {
	DescribeStacks(ctx context.Context, params *opsworks.DescribeStacksInput, optFns ...func(*opsworks.Options)) (*opsworks.DescribeStacksOutput, error)
	DescribeEcsClusters(ctx context.Context, params *opsworks.DescribeEcsClustersInput, optFns ...func(*opsworks.Options)) (*opsworks.DescribeEcsClustersOutput, error)
	DescribeElasticIps(ctx context.Context, params *opsworks.DescribeElasticIpsInput, optFns ...func(*opsworks.Options)) (*opsworks.DescribeElasticIpsOutput, error)
	DescribeInstances(ctx context.Context, params *opsworks.DescribeInstancesInput, optFns ...func(*opsworks.Options)) (*opsworks.DescribeInstancesOutput, error)
	DescribeElasticLoadBalancers(ctx context.Context, params *opsworks.DescribeElasticLoadBalancersInput, optFns ...func(*opsworks.Options)) (*opsworks.DescribeElasticLoadBalancersOutput, error)
	DescribeRdsDbInstances(ctx context.Context, params *opsworks.DescribeRdsDbInstancesInput, optFns ...func(*opsworks.Options)) (*opsworks.DescribeRdsDbInstancesOutput, error)
	DescribeVolumes(ctx context.Context, params *opsworks.DescribeVolumesInput, optFns ...func(*opsworks.Options)) (*opsworks.DescribeVolumesOutput, error)
}

// RDSAPI covers DB instance and snapshot listing.
type RDSAPI interface {
	DescribeDBInstances(ctx context.Context, params *rds.DescribeDBInstancesInput, optFns ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error)
	DescribeDBSnapshots(ctx context.Context, params *rds.DescribeDBSnapshotsInput, optFns ...func(*rds.Options)) (*rds.DescribeDBSnapshotsOutput, error)
}

// S3API covers bucket listing.
type S3API interface {
	ListBuckets(ctx context.Context, params *s3.ListBucketsInput, optFns ...func(*s3.Options)) (*s3.ListBucketsOutput, error)
}

// ---------------------------------------------------------------------------
// Clients and factory
// ---------------------------------------------------------------------------

// Clients holds region-scoped service clients for one (profile, region).
// All fields are interfaces; tests fill only the ones a check uses.
type Clients struct {
	EC2        EC2API
	CloudWatch CloudWatchAPI
	ELB        ELBAPI
	ELBv2      ELBv2API
	Beanstalk  BeanstalkAPI
	OpsWorks   OpsWorksAPI
	RDS        RDSAPI
	S3         S3API
}

// ClientFactory creates Clients from a region-scoped aws.Config.
type ClientFactory func(cfg aws.Config) *Clients

// NewClients is the production ClientFactory.
func NewClients(cfg aws.Config) *Clients {
	return &Clients{
		EC2:        ec2.NewFromConfig(cfg),
		CloudWatch: cloudwatch.NewFromConfig(cfg),
		ELB:        elb.NewFromConfig(cfg),
		ELBv2:      elbv2.NewFromConfig(cfg),
		Beanstalk:  elasticbeanstalk.NewFromConfig(cfg),
		OpsWorks:   opsworks.NewFromConfig(cfg),
		RDS:        rds.NewFromConfig(cfg),
		S3:         s3.NewFromConfig(cfg),
	}
}
