package checks

import (
	"fmt"
	"slices"
	"strings"
	"time"
)

// Registry is an in-memory set of checks keyed by name.
// Register panics on duplicate names to catch wiring mistakes at startup.
type Registry struct {
	checks []Check
	index  map[string]Check
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{index: make(map[string]Check)}
}

// Register adds c. Panics if the same name is registered twice.
func (r *Registry) Register(c Check) {
	if _, exists := r.index[c.Name()]; exists {
		panic(fmt.Sprintf("duplicate check name: %q", c.Name()))
	}
	r.checks = append(r.checks, c)
	r.index[c.Name()] = c
}

// Get returns the check registered under name.
func (r *Registry) Get(name string) (Check, bool) {
	c, ok := r.index[name]
	return c, ok
}

// All returns every registered check sorted by name.
func (r *Registry) All() []Check {
	out := slices.Clone(r.checks)
	slices.SortFunc(out, func(a, b Check) int {
		return strings.Compare(a.Name(), b.Name())
	})
	return out
}

// Names returns every registered check name, sorted.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.checks))
	for _, c := range r.checks {
		names = append(names, c.Name())
	}
	slices.Sort(names)
	return names
}

// Default returns a registry holding every built-in check.
func Default() *Registry {
	r := NewRegistry()
	r.Register(EBSSnapshots{})
	r.Register(EBSVolumes{})
	r.Register(ElasticIPs{})
	r.Register(EC2Instances{Now: time.Now})
	r.Register(BeanstalkEnvironments{})
	r.Register(ClassicELBs{})
	r.Register(LoadBalancersV2{})
	r.Register(NATGateways{})
	r.Register(OpsWorksStacks{})
	r.Register(RDSInstances{})
	r.Register(RDSSnapshots{})
	r.Register(S3Buckets{})
	return r
}
