package checks

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/elasticbeanstalk"

	"github.com/pankaj-dahiya-devops/sweeper/internal/models"
)

// BeanstalkEnvironments flags every Elastic Beanstalk environment that has
// not been terminated.
type BeanstalkEnvironments struct{}

func (BeanstalkEnvironments) Name() string { return "elastic-beanstalk" }
func (BeanstalkEnvironments) Description() string {
	return "Elastic Beanstalk environments still running"
}

func (c BeanstalkEnvironments) Run(ctx context.Context, clients *Clients, scope Scope) ([]models.Finding, error) {
	input := &elasticbeanstalk.DescribeEnvironmentsInput{IncludeDeleted: aws.Bool(false)}

	var findings []models.Finding
	for {
		out, err := clients.Beanstalk.DescribeEnvironments(ctx, input)
		if err != nil {
			return nil, fmt.Errorf("DescribeEnvironments: %w", err)
		}
		for _, env := range out.Environments {
			findings = append(findings, newFinding(c.Name(), scope, models.ResourceAWSBeanstalkEnv, aws.ToString(env.EnvironmentName),
				"environment is still running",
				nonEmpty(
					detail("application", aws.ToString(env.ApplicationName)),
					detail("environment_id", aws.ToString(env.EnvironmentId)),
					detail("status", string(env.Status)),
					detail("health", string(env.Health)),
				)...,
			))
		}
		if aws.ToString(out.NextToken) == "" {
			return findings, nil
		}
		input.NextToken = out.NextToken
	}
}
