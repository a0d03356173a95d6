package checks

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/cloudwatch"
	cwtypes "github.com/aws/aws-sdk-go-v2/service/cloudwatch/types"
	"github.com/aws/aws-sdk-go-v2/service/ec2"
	ec2types "github.com/aws/aws-sdk-go-v2/service/ec2/types"

	"github.com/pankaj-dahiya-devops/sweeper/internal/models"
)

// cpuLookbackDays is the window averaged for the avg_cpu_14d detail.
const cpuLookbackDays = 14

// EC2Instances flags running EC2 instances. Each finding carries the
// instance's 14-day average CPU when CloudWatch has data for it.
type EC2Instances struct {
	// Now anchors the CloudWatch window. Nil means time.Now.
	Now func() time.Time
}

func (EC2Instances) Name() string { return "ec2-instances" }
func (EC2Instances) Description() string {
	return "EC2 instances in the running state"
}

func (c EC2Instances) Run(ctx context.Context, clients *Clients, scope Scope) ([]models.Finding, error) {
	input := &ec2.DescribeInstancesInput{
		Filters: []ec2types.Filter{
			{Name: aws.String("instance-state-name"), Values: []string{"running"}},
		},
	}
	paginator := ec2.NewDescribeInstancesPaginator(clients.EC2, input)

	now := time.Now
	if c.Now != nil {
		now = c.Now
	}
	end := now().UTC()
	start := end.AddDate(0, 0, -cpuLookbackDays)

	var findings []models.Finding
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeInstances page: %w", err)
		}
		for _, reservation := range page.Reservations {
			for _, inst := range reservation.Instances {
				id := aws.ToString(inst.InstanceId)

				var launched string
				if inst.LaunchTime != nil {
					launched = inst.LaunchTime.UTC().Format(time.RFC3339)
				}
				var cpu string
				if clients.CloudWatch != nil {
					if avg, ok := averageCPU(ctx, clients.CloudWatch, id, start, end); ok {
						cpu = strconv.FormatFloat(avg, 'f', 1, 64) + "%"
					}
				}

				findings = append(findings, newFinding(c.Name(), scope, models.ResourceAWSEC2Instance, id,
					"instance is running",
					nonEmpty(
						detail("name", nameTag(inst.Tags)),
						detail("instance_type", string(inst.InstanceType)),
						detail("launch_time", launched),
						detail("avg_cpu_14d", cpu),
					)...,
				))
			}
		}
	}
	return findings, nil
}

// averageCPU returns the mean daily CPUUtilization average for instanceID
// over [start, end). ok is false when the call fails or returns no data,
// which is reported as a missing detail rather than 0%.
func averageCPU(ctx context.Context, cw CloudWatchAPI, instanceID string, start, end time.Time) (avg float64, ok bool) {
	out, err := cw.GetMetricStatistics(ctx, &cloudwatch.GetMetricStatisticsInput{
		Namespace:  aws.String("AWS/EC2"),
		MetricName: aws.String("CPUUtilization"),
		Dimensions: []cwtypes.Dimension{
			{Name: aws.String("InstanceId"), Value: aws.String(instanceID)},
		},
		StartTime:  aws.Time(start),
		EndTime:    aws.Time(end),
		Period:     aws.Int32(86400),
		Statistics: []cwtypes.Statistic{cwtypes.StatisticAverage},
	})
	if err != nil || len(out.Datapoints) == 0 {
		return 0, false
	}

	var total float64
	var count int
	for _, dp := range out.Datapoints {
		if dp.Average != nil {
			total += *dp.Average
			count++
		}
	}
	if count == 0 {
		return 0, false
	}
	return total / float64(count), true
}

// EBSVolumes flags EBS volumes with no attachments.
type EBSVolumes struct{}

func (EBSVolumes) Name() string { return "ebs-volumes" }
func (EBSVolumes) Description() string {
	return "EBS volumes not attached to any instance"
}

func (c EBSVolumes) Run(ctx context.Context, clients *Clients, scope Scope) ([]models.Finding, error) {
	paginator := ec2.NewDescribeVolumesPaginator(clients.EC2, &ec2.DescribeVolumesInput{})

	var findings []models.Finding
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeVolumes page: %w", err)
		}
		for _, v := range page.Volumes {
			if len(v.Attachments) > 0 {
				continue
			}
			findings = append(findings, newFinding(c.Name(), scope, models.ResourceAWSEBSVolume, aws.ToString(v.VolumeId),
				"volume has no attachments",
				nonEmpty(
					detail("name", nameTag(v.Tags)),
					detail("volume_type", string(v.VolumeType)),
					detail("size_gib", formatInt32(v.Size)),
					detail("state", string(v.State)),
				)...,
			))
		}
	}
	return findings, nil
}

// EBSSnapshots flags completed self-owned snapshots that no available
// self-owned AMI references through its block device mappings.
type EBSSnapshots struct{}

func (EBSSnapshots) Name() string { return "ebs-snapshots" }
func (EBSSnapshots) Description() string {
	return "completed EBS snapshots not referenced by any available AMI"
}

func (c EBSSnapshots) Run(ctx context.Context, clients *Clients, scope Scope) ([]models.Finding, error) {
	referenced, err := imageSnapshotIDs(ctx, clients.EC2)
	if err != nil {
		return nil, err
	}

	paginator := ec2.NewDescribeSnapshotsPaginator(clients.EC2, &ec2.DescribeSnapshotsInput{
		OwnerIds: []string{"self"},
		Filters: []ec2types.Filter{
			{Name: aws.String("status"), Values: []string{"completed"}},
		},
	})

	var findings []models.Finding
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeSnapshots page: %w", err)
		}
		for _, s := range page.Snapshots {
			id := aws.ToString(s.SnapshotId)
			if _, used := referenced[id]; used {
				continue
			}
			var started string
			if s.StartTime != nil {
				started = s.StartTime.UTC().Format(time.RFC3339)
			}
			findings = append(findings, newFinding(c.Name(), scope, models.ResourceAWSEBSSnapshot, id,
				"snapshot is not used by any AMI",
				nonEmpty(
					detail("volume_id", aws.ToString(s.VolumeId)),
					detail("size_gib", formatInt32(s.VolumeSize)),
					detail("start_time", started),
				)...,
			))
		}
	}
	return findings, nil
}

// imageSnapshotIDs returns the set of snapshot IDs referenced by available
// self-owned AMIs.
func imageSnapshotIDs(ctx context.Context, client EC2API) (map[string]struct{}, error) {
	paginator := ec2.NewDescribeImagesPaginator(client, &ec2.DescribeImagesInput{
		Owners: []string{"self"},
		Filters: []ec2types.Filter{
			{Name: aws.String("state"), Values: []string{"available"}},
		},
	})

	ids := make(map[string]struct{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeImages page: %w", err)
		}
		for _, img := range page.Images {
			for _, m := range img.BlockDeviceMappings {
				if m.Ebs != nil && m.Ebs.SnapshotId != nil {
					ids[*m.Ebs.SnapshotId] = struct{}{}
				}
			}
		}
	}
	return ids, nil
}

// ElasticIPs flags Elastic IP addresses not associated with anything.
type ElasticIPs struct{}

func (ElasticIPs) Name() string { return "ec2-eips" }
func (ElasticIPs) Description() string {
	return "Elastic IPs not associated with an instance or interface"
}

func (c ElasticIPs) Run(ctx context.Context, clients *Clients, scope Scope) ([]models.Finding, error) {
	out, err := clients.EC2.DescribeAddresses(ctx, &ec2.DescribeAddressesInput{})
	if err != nil {
		return nil, fmt.Errorf("DescribeAddresses: %w", err)
	}

	var findings []models.Finding
	for _, addr := range out.Addresses {
		if addr.AssociationId != nil || addr.InstanceId != nil {
			continue
		}
		findings = append(findings, newFinding(c.Name(), scope, models.ResourceAWSElasticIP, aws.ToString(addr.PublicIp),
			"address is not associated",
			nonEmpty(
				detail("name", nameTag(addr.Tags)),
				detail("allocation_id", aws.ToString(addr.AllocationId)),
				detail("domain", string(addr.Domain)),
			)...,
		))
	}
	return findings, nil
}

// NATGateways flags NAT gateways in the available state; they bill hourly
// whether or not traffic flows.
type NATGateways struct{}

func (NATGateways) Name() string { return "nat-gateways" }
func (NATGateways) Description() string {
	return "NAT gateways in the available state"
}

func (c NATGateways) Run(ctx context.Context, clients *Clients, scope Scope) ([]models.Finding, error) {
	paginator := ec2.NewDescribeNatGatewaysPaginator(clients.EC2, &ec2.DescribeNatGatewaysInput{
		Filter: []ec2types.Filter{
			{Name: aws.String("state"), Values: []string{"available"}},
		},
	})

	var findings []models.Finding
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeNatGateways page: %w", err)
		}
		for _, ng := range page.NatGateways {
			findings = append(findings, newFinding(c.Name(), scope, models.ResourceAWSNATGateway, aws.ToString(ng.NatGatewayId),
				"NAT gateway is available",
				nonEmpty(
					detail("name", nameTag(ng.Tags)),
					detail("vpc_id", aws.ToString(ng.VpcId)),
					detail("subnet_id", aws.ToString(ng.SubnetId)),
					detail("connectivity_type", string(ng.ConnectivityType)),
				)...,
			))
		}
	}
	return findings, nil
}
