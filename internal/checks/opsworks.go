package checks

import (
	"context"
	"fmt"
	"strconv"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/opsworks"

	"github.com/pankaj-dahiya-devops/sweeper/internal/models"
)

// OpsWorksStacks reports every OpsWorks stack with a count of the resources
// it manages. OpsWorks auto-healing can bring back resources that were
// removed elsewhere, so stacks are always listed.
type OpsWorksStacks struct{}

func (OpsWorksStacks) Name() string { return "opsworks" }
func (OpsWorksStacks) Description() string {
	return "OpsWorks stacks and the resources they manage"
}

func (c OpsWorksStacks) Run(ctx context.Context, clients *Clients, scope Scope) ([]models.Finding, error) {
	out, err := clients.OpsWorks.DescribeStacks(ctx, &opsworks.DescribeStacksInput{})
	if err != nil {
		return nil, fmt.Errorf("DescribeStacks: %w", err)
	}

	var findings []models.Finding
	for _, stack := range out.Stacks {
		counts, err := stackResourceCounts(ctx, clients.OpsWorks, stack.StackId)
		if err != nil {
			return nil, fmt.Errorf("stack %s: %w", aws.ToString(stack.StackId), err)
		}

		details := nonEmpty(detail("name", aws.ToString(stack.Name)))
		for _, rc := range counts {
			details = append(details, detail(rc.key, strconv.Itoa(rc.n)))
		}
		findings = append(findings, newFinding(c.Name(), scope, models.ResourceAWSOpsWorksStack, aws.ToString(stack.StackId),
			"stack is provisioned", details...))
	}
	return findings, nil
}

type resourceCount struct {
	key string
	n   int
}

// stackResourceCounts returns, in a fixed order, how many ECS clusters,
// Elastic IPs, instances, load balancers, RDS instances and volumes the
// stack manages.
func stackResourceCounts(ctx context.Context, client OpsWorksAPI, stackID *string) ([]resourceCount, error) {
	var counts []resourceCount

	ecs, err := countEcsClusters(ctx, client, stackID)
	if err != nil {
		return nil, err
	}
	counts = append(counts, resourceCount{"ecs_clusters", ecs})

	eips, err := client.DescribeElasticIps(ctx, &opsworks.DescribeElasticIpsInput{StackId: stackID})
	if err != nil {
		return nil, fmt.Errorf("DescribeElasticIps: %w", err)
	}
	counts = append(counts, resourceCount{"elastic_ips", len(eips.ElasticIps)})

	instances, err := client.DescribeInstances(ctx, &opsworks.DescribeInstancesInput{StackId: stackID})
	if err != nil {
		return nil, fmt.Errorf("DescribeInstances: %w", err)
	}
	counts = append(counts, resourceCount{"instances", len(instances.Instances)})

	elbs, err := client.DescribeElasticLoadBalancers(ctx, &opsworks.DescribeElasticLoadBalancersInput{StackId: stackID})
	if err != nil {
		return nil, fmt.Errorf("DescribeElasticLoadBalancers: %w", err)
	}
	counts = append(counts, resourceCount{"load_balancers", len(elbs.ElasticLoadBalancers)})

	dbs, err := client.DescribeRdsDbInstances(ctx, &opsworks.DescribeRdsDbInstancesInput{StackId: stackID})
	if err != nil {
		return nil, fmt.Errorf("DescribeRdsDbInstances: %w", err)
	}
	counts = append(counts, resourceCount{"rds_instances", len(dbs.RdsDbInstances)})

	vols, err := client.DescribeVolumes(ctx, &opsworks.DescribeVolumesInput{StackId: stackID})
	if err != nil {
		return nil, fmt.Errorf("DescribeVolumes: %w", err)
	}
	counts = append(counts, resourceCount{"volumes", len(vols.Volumes)})

	return counts, nil
}

func countEcsClusters(ctx context.Context, client OpsWorksAPI, stackID *string) (int, error) {
	input := &opsworks.DescribeEcsClustersInput{StackId: stackID}
	n := 0
	for {
		out, err := client.DescribeEcsClusters(ctx, input)
		if err != nil {
			return 0, fmt.Errorf("DescribeEcsClusters: %w", err)
		}
		n += len(out.EcsClusters)
		if aws.ToString(out.NextToken) == "" {
			return n, nil
		}
		input.NextToken = out.NextToken
	}
}
