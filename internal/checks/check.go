package checks

import (
	"context"

	"github.com/pankaj-dahiya-devops/sweeper/internal/models"
)

// Scope identifies where a check runs. The credentials themselves travel in
// the region-scoped Clients passed alongside it.
type Scope struct {
	Profile   string
	AccountID string
	Region    string
}

// Check scans one AWS resource family in one region.
// Checks must only call describe/list operations and must be safe to run
// concurrently for different scopes.
type Check interface {
	// Name returns the stable identifier used in config and on the CLI
	// (e.g. "ebs-volumes").
	Name() string

	// Description returns a one-line summary of what the check flags.
	Description() string

	// Run returns the flagged resources in API arrival order. An empty
	// result means nothing is running. Errors are returned unclassified;
	// the engine decides whether they are retried, skipped or fatal.
	Run(ctx context.Context, clients *Clients, scope Scope) ([]models.Finding, error)
}

// newFinding fills the scope fields shared by every finding.
func newFinding(check string, scope Scope, rt models.ResourceType, id, message string, details ...models.Detail) models.Finding {
	return models.Finding{
		Check:        check,
		Region:       scope.Region,
		Profile:      scope.Profile,
		AccountID:    scope.AccountID,
		ResourceID:   id,
		ResourceType: rt,
		Message:      message,
		Details:      details,
	}
}

func detail(key, value string) models.Detail {
	return models.Detail{Key: key, Value: value}
}

// nonEmpty drops details with empty values.
func nonEmpty(details ...models.Detail) []models.Detail {
	out := details[:0]
	for _, d := range details {
		if d.Value != "" {
			out = append(out, d)
		}
	}
	return out
}
