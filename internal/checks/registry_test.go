package checks

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"testing"

	"github.com/pankaj-dahiya-devops/sweeper/internal/models"
)

type namedCheck string

func (n namedCheck) Name() string        { return string(n) }
func (n namedCheck) Description() string { return "test check " + string(n) }
func (n namedCheck) Run(context.Context, *Clients, Scope) ([]models.Finding, error) {
	return nil, nil
}

func TestDefault_RegistersEveryCheck(t *testing.T) {
	want := []string{
		"ebs-snapshots",
		"ebs-volumes",
		"ec2-eips",
		"ec2-instances",
		"elastic-beanstalk",
		"elb",
		"elbv2",
		"nat-gateways",
		"opsworks",
		"rds-instances",
		"rds-snapshots",
		"s3-buckets",
	}
	r := Default()
	if got := r.Names(); !slices.Equal(got, want) {
		t.Errorf("Names() = %v; want %v", got, want)
	}
	for _, c := range r.All() {
		if c.Description() == "" {
			t.Errorf("%s: empty description", c.Name())
		}
	}
}

func TestRegistry_AllSortedByName(t *testing.T) {
	r := NewRegistry()
	r.Register(namedCheck("zeta"))
	r.Register(namedCheck("alpha"))
	r.Register(namedCheck("mid"))

	var got []string
	for _, c := range r.All() {
		got = append(got, c.Name())
	}
	if !slices.Equal(got, []string{"alpha", "mid", "zeta"}) {
		t.Errorf("All() order = %v", got)
	}
}

func TestRegistry_Get(t *testing.T) {
	r := NewRegistry()
	r.Register(namedCheck("elb"))
	if _, ok := r.Get("elb"); !ok {
		t.Error("Get(elb) not found")
	}
	if _, ok := r.Get("nope"); ok {
		t.Error("Get(nope) found")
	}
}

func TestRegistry_DuplicatePanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic on duplicate name")
		}
	}()
	r := NewRegistry()
	r.Register(namedCheck("elb"))
	r.Register(namedCheck("elb"))
}

// ── error classification ─────────────────────────────────────────────────────

func TestIsThrottle(t *testing.T) {
	for _, code := range []string{"Throttling", "ThrottlingException", "RequestLimitExceeded", "TooManyRequestsException", "ProvisionedThroughputExceededException", "SlowDown"} {
		if !IsThrottle(fmt.Errorf("DescribeVolumes page: %w", apiErr(code))) {
			t.Errorf("%s: want throttle", code)
		}
	}
	for _, err := range []error{apiErr("AccessDenied"), errors.New("Throttling"), context.Canceled} {
		if IsThrottle(err) {
			t.Errorf("%v: want not throttle", err)
		}
	}
}

func TestSkipReason(t *testing.T) {
	if got := SkipReason(fmt.Errorf("DescribeStacks: %w", apiErr("OptInRequired"))); got != "OptInRequired: OptInRequired message" {
		t.Errorf("SkipReason = %q", got)
	}
	if got := SkipReason(errors.New("dial tcp: no such host")); got != "dial tcp: no such host" {
		t.Errorf("SkipReason = %q", got)
	}
}
