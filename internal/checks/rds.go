package checks

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/rds"

	"github.com/pankaj-dahiya-devops/sweeper/internal/models"
)

// RDSInstances flags DB instances that are not stopped.
type RDSInstances struct{}

func (RDSInstances) Name() string { return "rds-instances" }
func (RDSInstances) Description() string {
	return "RDS DB instances that are not stopped"
}

func (c RDSInstances) Run(ctx context.Context, clients *Clients, scope Scope) ([]models.Finding, error) {
	paginator := rds.NewDescribeDBInstancesPaginator(clients.RDS, &rds.DescribeDBInstancesInput{})

	var findings []models.Finding
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeDBInstances page: %w", err)
		}
		for _, db := range page.DBInstances {
			status := aws.ToString(db.DBInstanceStatus)
			if status == "stopped" {
				continue
			}
			findings = append(findings, newFinding(c.Name(), scope, models.ResourceAWSRDSInstance, aws.ToString(db.DBInstanceIdentifier),
				"DB instance is "+status,
				nonEmpty(
					detail("class", aws.ToString(db.DBInstanceClass)),
					detail("engine", aws.ToString(db.Engine)),
					detail("status", status),
					detail("multi_az", strconv.FormatBool(aws.ToBool(db.MultiAZ))),
				)...,
			))
		}
	}
	return findings, nil
}

// RDSSnapshots flags DB snapshots whose source DB instance no longer exists
// in the region.
type RDSSnapshots struct{}

func (RDSSnapshots) Name() string { return "rds-snapshots" }
func (RDSSnapshots) Description() string {
	return "RDS snapshots no longer tied to a DB instance"
}

func (c RDSSnapshots) Run(ctx context.Context, clients *Clients, scope Scope) ([]models.Finding, error) {
	live, err := dbInstanceIDs(ctx, clients.RDS)
	if err != nil {
		return nil, err
	}

	paginator := rds.NewDescribeDBSnapshotsPaginator(clients.RDS, &rds.DescribeDBSnapshotsInput{})

	var findings []models.Finding
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeDBSnapshots page: %w", err)
		}
		for _, snap := range page.DBSnapshots {
			source := aws.ToString(snap.DBInstanceIdentifier)
			if _, ok := live[source]; ok {
				continue
			}
			var created string
			if snap.SnapshotCreateTime != nil {
				created = snap.SnapshotCreateTime.UTC().Format(time.RFC3339)
			}
			findings = append(findings, newFinding(c.Name(), scope, models.ResourceAWSRDSSnapshot, aws.ToString(snap.DBSnapshotIdentifier),
				"snapshot is no longer tied to a DB instance",
				nonEmpty(
					detail("source_instance", source),
					detail("snapshot_type", aws.ToString(snap.SnapshotType)),
					detail("allocated_gib", formatInt32(snap.AllocatedStorage)),
					detail("created", created),
				)...,
			))
		}
	}
	return findings, nil
}

func dbInstanceIDs(ctx context.Context, client RDSAPI) (map[string]struct{}, error) {
	paginator := rds.NewDescribeDBInstancesPaginator(client, &rds.DescribeDBInstancesInput{})
	ids := make(map[string]struct{})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("DescribeDBInstances page: %w", err)
		}
		for _, db := range page.DBInstances {
			ids[aws.ToString(db.DBInstanceIdentifier)] = struct{}{}
		}
	}
	return ids, nil
}
