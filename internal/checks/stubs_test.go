package checks

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	"github.com/aws/aws-sdk-go-v2/service/elasticbeanstalk"
	elb "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancing"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbv2types "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"
	"github.com/aws/aws-sdk-go-v2/service/opsworks"
	opswtypes "github.com/aws/aws-sdk-go-v2/service/opsworks/types"
	"github.com/aws/aws-sdk-go-v2/service/rds"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/smithy-go"
)

// ── test doubles ─────────────────────────────────────────────────────────────
//
// Each stub returns canned responses. A non-nil err field makes every call
// on that stub fail.

var testScope = Scope{Profile: "test", AccountID: "111122223333", Region: "us-east-1"}

func apiErr(code string) error {
	return &smithy.GenericAPIError{Code: code, Message: code + " message"}
}

type stubEC2 struct {
	instances   *ec2.DescribeInstancesOutput
	volumePages []*ec2.DescribeVolumesOutput
	snapshots   *ec2.DescribeSnapshotsOutput
	images      *ec2.DescribeImagesOutput
	addresses   *ec2.DescribeAddressesOutput
	nats        *ec2.DescribeNatGatewaysOutput
	err         error

	lastSnapshots *ec2.DescribeSnapshotsInput
	lastImages    *ec2.DescribeImagesInput
	lastInstances *ec2.DescribeInstancesInput
}

func (s *stubEC2) DescribeInstances(_ context.Context, in *ec2.DescribeInstancesInput, _ ...func(*ec2.Options)) (*ec2.DescribeInstancesOutput, error) {
	s.lastInstances = in
	if s.err != nil {
		return nil, s.err
	}
	if s.instances == nil {
		return &ec2.DescribeInstancesOutput{}, nil
	}
	return s.instances, nil
}

// DescribeVolumes serves volumePages in order, linking them through
// NextToken values "1", "2", ...
func (s *stubEC2) DescribeVolumes(_ context.Context, in *ec2.DescribeVolumesInput, _ ...func(*ec2.Options)) (*ec2.DescribeVolumesOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	if len(s.volumePages) == 0 {
		return &ec2.DescribeVolumesOutput{}, nil
	}
	idx := 0
	if in.NextToken != nil {
		for i := range s.volumePages {
			if pageToken(i) == *in.NextToken {
				idx = i
			}
		}
	}
	page := *s.volumePages[idx]
	page.NextToken = nil
	if idx+1 < len(s.volumePages) {
		page.NextToken = aws.String(pageToken(idx + 1))
	}
	return &page, nil
}

func pageToken(i int) string { return string(rune('0' + i)) }

func (s *stubEC2) DescribeSnapshots(_ context.Context, in *ec2.DescribeSnapshotsInput, _ ...func(*ec2.Options)) (*ec2.DescribeSnapshotsOutput, error) {
	s.lastSnapshots = in
	if s.err != nil {
		return nil, s.err
	}
	if s.snapshots == nil {
		return &ec2.DescribeSnapshotsOutput{}, nil
	}
	return s.snapshots, nil
}

func (s *stubEC2) DescribeImages(_ context.Context, in *ec2.DescribeImagesInput, _ ...func(*ec2.Options)) (*ec2.DescribeImagesOutput, error) {
	s.lastImages = in
	if s.err != nil {
		return nil, s.err
	}
	if s.images == nil {
		return &ec2.DescribeImagesOutput{}, nil
	}
	return s.images, nil
}

func (s *stubEC2) DescribeAddresses(_ context.Context, _ *ec2.DescribeAddressesInput, _ ...func(*ec2.Options)) (*ec2.DescribeAddressesOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.addresses == nil {
		return &ec2.DescribeAddressesOutput{}, nil
	}
	return s.addresses, nil
}

func (s *stubEC2) DescribeNatGateways(_ context.Context, _ *ec2.DescribeNatGatewaysInput, _ ...func(*ec2.Options)) (*ec2.DescribeNatGatewaysOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.nats == nil {
		return &ec2.DescribeNatGatewaysOutput{}, nil
	}
	return s.nats, nil
}

type stubCW struct {
	averages map[string][]float64
	err      error
}

func (s *stubCW) GetMetricStatistics(_ context.Context, in *cloudwatch.GetMetricStatisticsInput, _ ...func(*cloudwatch.Options)) (*cloudwatch.GetMetricStatisticsOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	out := &cloudwatch.GetMetricStatisticsOutput{}
	id := aws.ToString(in.Dimensions[0].Value)
	for _, v := range s.averages[id] {
		out.Datapoints = append(out.Datapoints, cwtypes.Datapoint{Average: aws.Float64(v)})
	}
	return out, nil
}

type stubELB struct {
	out *elb.DescribeLoadBalancersOutput
	err error
}

func (s *stubELB) DescribeLoadBalancers(_ context.Context, _ *elb.DescribeLoadBalancersInput, _ ...func(*elb.Options)) (*elb.DescribeLoadBalancersOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.out == nil {
		return &elb.DescribeLoadBalancersOutput{}, nil
	}
	return s.out, nil
}

// stubELBv2 serves lbs. groups maps a load balancer ARN to its target group
// ARNs and targets maps a target group ARN to its registered target count.
type stubELBv2 struct {
	lbs     []elbv2types.LoadBalancer
	groups  map[string][]string
	targets map[string]int
	err     error
}

func (s *stubELBv2) DescribeLoadBalancers(_ context.Context, _ *elbv2.DescribeLoadBalancersInput, _ ...func(*elbv2.Options)) (*elbv2.DescribeLoadBalancersOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &elbv2.DescribeLoadBalancersOutput{LoadBalancers: s.lbs}, nil
}

func (s *stubELBv2) DescribeTargetGroups(_ context.Context, in *elbv2.DescribeTargetGroupsInput, _ ...func(*elbv2.Options)) (*elbv2.DescribeTargetGroupsOutput, error) {
	out := &elbv2.DescribeTargetGroupsOutput{}
	for _, arn := range s.groups[aws.ToString(in.LoadBalancerArn)] {
		out.TargetGroups = append(out.TargetGroups, elbv2types.TargetGroup{TargetGroupArn: aws.String(arn)})
	}
	return out, nil
}

func (s *stubELBv2) DescribeTargetHealth(_ context.Context, in *elbv2.DescribeTargetHealthInput, _ ...func(*elbv2.Options)) (*elbv2.DescribeTargetHealthOutput, error) {
	out := &elbv2.DescribeTargetHealthOutput{}
	for i := 0; i < s.targets[aws.ToString(in.TargetGroupArn)]; i++ {
		out.TargetHealthDescriptions = append(out.TargetHealthDescriptions, elbv2types.TargetHealthDescription{})
	}
	return out, nil
}

type stubBeanstalk struct {
	pages []*elasticbeanstalk.DescribeEnvironmentsOutput
	calls []*elasticbeanstalk.DescribeEnvironmentsInput
	err   error
}

func (s *stubBeanstalk) DescribeEnvironments(_ context.Context, in *elasticbeanstalk.DescribeEnvironmentsInput, _ ...func(*elasticbeanstalk.Options)) (*elasticbeanstalk.DescribeEnvironmentsOutput, error) {
	copied := *in
	s.calls = append(s.calls, &copied)
	if s.err != nil {
		return nil, s.err
	}
	if len(s.calls) > len(s.pages) {
		return &elasticbeanstalk.DescribeEnvironmentsOutput{}, nil
	}
	return s.pages[len(s.calls)-1], nil
}

type stubOpsWorks struct {
	stacks   *opsworks.DescribeStacksOutput
	ecs      []*opsworks.DescribeEcsClustersOutput
	ecsCalls int
	eips     int
	insts    int
	elbs     int
	dbs      int
	vols     int
	err      error
}

func (s *stubOpsWorks) DescribeStacks(_ context.Context, _ *opsworks.DescribeStacksInput, _ ...func(*opsworks.Options)) (*opsworks.DescribeStacksOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.stacks == nil {
		return &opsworks.DescribeStacksOutput{}, nil
	}
	return s.stacks, nil
}

func (s *stubOpsWorks) DescribeEcsClusters(_ context.Context, _ *opsworks.DescribeEcsClustersInput, _ ...func(*opsworks.Options)) (*opsworks.DescribeEcsClustersOutput, error) {
	s.ecsCalls++
	if s.ecsCalls > len(s.ecs) {
		return &opsworks.DescribeEcsClustersOutput{}, nil
	}
	return s.ecs[s.ecsCalls-1], nil
}

func (s *stubOpsWorks) DescribeElasticIps(_ context.Context, _ *opsworks.DescribeElasticIpsInput, _ ...func(*opsworks.Options)) (*opsworks.DescribeElasticIpsOutput, error) {
	return &opsworks.DescribeElasticIpsOutput{ElasticIps: make([]opswtypes.ElasticIp, s.eips)}, nil
}

func (s *stubOpsWorks) DescribeInstances(_ context.Context, _ *opsworks.DescribeInstancesInput, _ ...func(*opsworks.Options)) (*opsworks.DescribeInstancesOutput, error) {
	return &opsworks.DescribeInstancesOutput{Instances: make([]opswtypes.Instance, s.insts)}, nil
}

func (s *stubOpsWorks) DescribeElasticLoadBalancers(_ context.Context, _ *opsworks.DescribeElasticLoadBalancersInput, _ ...func(*opsworks.Options)) (*opsworks.DescribeElasticLoadBalancersOutput, error) {
	return &opsworks.DescribeElasticLoadBalancersOutput{ElasticLoadBalancers: make([]opswtypes.ElasticLoadBalancer, s.elbs)}, nil
}

func (s *stubOpsWorks) DescribeRdsDbInstances(_ context.Context, _ *opsworks.DescribeRdsDbInstancesInput, _ ...func(*opsworks.Options)) (*opsworks.DescribeRdsDbInstancesOutput, error) {
	return &opsworks.DescribeRdsDbInstancesOutput{RdsDbInstances: make([]opswtypes.RdsDbInstance, s.dbs)}, nil
}

func (s *stubOpsWorks) DescribeVolumes(_ context.Context, _ *opsworks.DescribeVolumesInput, _ ...func(*opsworks.Options)) (*opsworks.DescribeVolumesOutput, error) {
	return &opsworks.DescribeVolumesOutput{Volumes: make([]opswtypes.Volume, s.vols)}, nil
}

type stubRDS struct {
	instances *rds.DescribeDBInstancesOutput
	snapshots *rds.DescribeDBSnapshotsOutput
	err       error
}

func (s *stubRDS) DescribeDBInstances(_ context.Context, _ *rds.DescribeDBInstancesInput, _ ...func(*rds.Options)) (*rds.DescribeDBInstancesOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.instances == nil {
		return &rds.DescribeDBInstancesOutput{}, nil
	}
	return s.instances, nil
}

func (s *stubRDS) DescribeDBSnapshots(_ context.Context, _ *rds.DescribeDBSnapshotsInput, _ ...func(*rds.Options)) (*rds.DescribeDBSnapshotsOutput, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.snapshots == nil {
		return &rds.DescribeDBSnapshotsOutput{}, nil
	}
	return s.snapshots, nil
}

type stubS3 struct {
	out  *s3.ListBucketsOutput
	last *s3.ListBucketsInput
	err  error
}

func (s *stubS3) ListBuckets(_ context.Context, in *s3.ListBucketsInput, _ ...func(*s3.Options)) (*s3.ListBucketsOutput, error) {
	s.last = in
	if s.err != nil {
		return nil, s.err
	}
	if s.out == nil {
		return &s3.ListBucketsOutput{}, nil
	}
	return s.out, nil
}
