package checks

import (
	"context"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/pankaj-dahiya-devops/sweeper/internal/models"
)

// S3Buckets lists the buckets located in the scanned region. ListBuckets is
// global, so BucketRegion narrows it to the scope's region.
type S3Buckets struct{}

func (S3Buckets) Name() string { return "s3-buckets" }
func (S3Buckets) Description() string {
	return "S3 buckets located in the region"
}

func (c S3Buckets) Run(ctx context.Context, clients *Clients, scope Scope) ([]models.Finding, error) {
	paginator := s3.NewListBucketsPaginator(clients.S3, &s3.ListBucketsInput{
		BucketRegion: aws.String(scope.Region),
	})

	var findings []models.Finding
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("ListBuckets page: %w", err)
		}
		for _, b := range page.Buckets {
			var created string
			if b.CreationDate != nil {
				created = b.CreationDate.UTC().Format(time.RFC3339)
			}
			findings = append(findings, newFinding(c.Name(), scope, models.ResourceAWSS3Bucket, aws.ToString(b.Name),
				"bucket exists",
				nonEmpty(detail("created", created))...,
			))
		}
	}
	return findings, nil
}
