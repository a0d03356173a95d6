package checks

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	elb "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancing"
	elbv2 "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2"
	elbv2types "github.com/aws/aws-sdk-go-v2/service/elasticloadbalancingv2/types"

	"github.com/pankaj-dahiya-devops/sweeper/internal/models"
)

// ClassicELBs flags Classic Load Balancers with no registered instances.
type ClassicELBs struct{}

func (ClassicELBs) Name() string { return "elb" }
func (ClassicELBs) Description() string {
	return "Classic Load Balancers without any attached instances"
}

func (c ClassicELBs) Run(ctx context.Context, clients *Clients, scope Scope) ([]models.Finding, error) {
	paginator := elb.NewDescribeLoadBalancersPaginator(clients.ELB, &elb.DescribeLoadBalancersInput{})

	var findings []models.Finding
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeLoadBalancers page: %w", err)
		}
		for _, lb := range page.LoadBalancerDescriptions {
			if len(lb.Instances) > 0 {
				continue
			}
			var created string
			if lb.CreatedTime != nil {
				created = lb.CreatedTime.UTC().Format(time.RFC3339)
			}
			findings = append(findings, newFinding(c.Name(), scope, models.ResourceAWSClassicELB, aws.ToString(lb.LoadBalancerName),
				"load balancer has no instances attached",
				nonEmpty(
					detail("dns_name", aws.ToString(lb.DNSName)),
					detail("created", created),
				)...,
			))
		}
	}
	return findings, nil
}

// LoadBalancersV2 flags Application, Network and Gateway Load Balancers
// whose target groups have no registered targets.
type LoadBalancersV2 struct{}

func (LoadBalancersV2) Name() string { return "elbv2" }
func (LoadBalancersV2) Description() string {
	return "Application, Network and Gateway Load Balancers without registered targets"
}

func (c LoadBalancersV2) Run(ctx context.Context, clients *Clients, scope Scope) ([]models.Finding, error) {
	paginator := elbv2.NewDescribeLoadBalancersPaginator(clients.ELBv2, &elbv2.DescribeLoadBalancersInput{})

	var findings []models.Finding
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeLoadBalancers page: %w", err)
		}
		for _, lb := range page.LoadBalancers {
			groups, targets, err := countTargets(ctx, clients.ELBv2, aws.ToString(lb.LoadBalancerArn))
			if err != nil {
				return nil, err
			}
			if targets > 0 {
				continue
			}
			findings = append(findings, toLoadBalancerFinding(c.Name(), scope, lb, groups))
		}
	}
	return findings, nil
}

// countTargets returns the number of target groups attached to lbARN and
// the total number of targets registered across them.
func countTargets(ctx context.Context, client ELBv2API, lbARN string) (groups, targets int, err error) {
	paginator := elbv2.NewDescribeTargetGroupsPaginator(client, &elbv2.DescribeTargetGroupsInput{
		LoadBalancerArn: aws.String(lbARN),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return 0, 0, fmt.Errorf("DescribeTargetGroups for %s: %w", lbARN, err)
		}
		for _, tg := range page.TargetGroups {
			groups++
			out, err := client.DescribeTargetHealth(ctx, &elbv2.DescribeTargetHealthInput{
				TargetGroupArn: tg.TargetGroupArn,
			})
			if err != nil {
				return 0, 0, fmt.Errorf("DescribeTargetHealth for %s: %w", aws.ToString(tg.TargetGroupArn), err)
			}
			targets += len(out.TargetHealthDescriptions)
		}
	}
	return groups, targets, nil
}

func toLoadBalancerFinding(check string, scope Scope, lb elbv2types.LoadBalancer, groups int) models.Finding {
	var state string
	if lb.State != nil {
		state = string(lb.State.Code)
	}
	return newFinding(check, scope, models.ResourceAWSLoadBalancer, aws.ToString(lb.LoadBalancerName),
		"load balancer has no registered targets",
		nonEmpty(
			detail("type", string(lb.Type)),
			detail("state", state),
			detail("target_groups", strconv.Itoa(groups)),
			detail("arn", aws.ToString(lb.LoadBalancerArn)),
		)...,
	)
}
