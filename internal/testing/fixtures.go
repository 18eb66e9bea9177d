package testing

import (
	"context"
	"fmt"
	"sync"

	"github.com/tosin2013/vault-raft-bootstrap/internal/vault"
)

// ClusterFixture is an in-memory secret-store cluster with real seal
// semantics: initialization generates material exactly once, each node
// tracks distinct-share progress toward the threshold, and followers join
// (replicate the initialized state) once the leader is unsealed. Tests
// exercise the coordinator against it without scripting every call.
type ClusterFixture struct {
	mu        sync.Mutex
	nodes     map[string]*fixtureNode
	order     []string
	shares    int
	threshold int
	material  *vault.Material

	// InitializeCalls counts Initialize invocations, including rejected ones.
	InitializeCalls int
	// UnsealCalls counts Unseal invocations per node.
	UnsealCalls map[string]int
	// StatusErr, when set for a node, fails its status reads.
	StatusErr map[string]error
}

type fixtureNode struct {
	initialized bool
	sealed      bool
	progress    int
	seen        map[string]bool
}

// NewClusterFixture creates a cluster of nodes named vault-0..vault-(n-1),
// all sealed and uninitialized.
func NewClusterFixture(n, shares, threshold int) *ClusterFixture {
	f := &ClusterFixture{
		nodes:       make(map[string]*fixtureNode),
		shares:      shares,
		threshold:   threshold,
		UnsealCalls: make(map[string]int),
		StatusErr:   make(map[string]error),
	}
	for i := 0; i < n; i++ {
		name := fmt.Sprintf("vault-%d", i)
		f.order = append(f.order, name)
		f.nodes[name] = &fixtureNode{sealed: true, seen: make(map[string]bool)}
	}
	return f
}

// Initialized pre-initializes the cluster with the given material, as if a
// previous run completed the initialization step.
func (f *ClusterFixture) Initialized(material *vault.Material) *ClusterFixture {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.material = material
	for _, n := range f.nodes {
		n.initialized = true
	}
	return f
}

// Unsealed marks the named nodes unsealed.
func (f *ClusterFixture) Unsealed(names ...string) *ClusterFixture {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, name := range names {
		f.nodes[name].sealed = false
	}
	return f
}

// Material returns the generated or injected unseal material.
func (f *ClusterFixture) Material() *vault.Material {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.material
}

// Status implements vault.AdminClient.
func (f *ClusterFixture) Status(_ context.Context, node string) (vault.NodeStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.StatusErr[node]; err != nil {
		return vault.NodeStatus{}, err
	}
	n, ok := f.nodes[node]
	if !ok {
		return vault.NodeStatus{}, fmt.Errorf("unknown node %s", node)
	}

	// A follower reports initialized once any peer is unsealed: Raft
	// replication of cluster metadata requires a live leader.
	initialized := n.initialized
	if !initialized && f.material != nil && f.anyUnsealedLocked() {
		n.initialized = true
		initialized = true
	}

	return vault.NodeStatus{
		Initialized: initialized,
		Sealed:      n.sealed,
		Standby:     !n.sealed && node != f.leaderLocked(),
		Progress:    n.progress,
		Threshold:   f.threshold,
		Shares:      f.shares,
	}, nil
}

// Initialize implements vault.AdminClient.
func (f *ClusterFixture) Initialize(_ context.Context, node string, shares, threshold int) (*vault.Material, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.InitializeCalls++
	if f.material != nil {
		return nil, vault.ErrAlreadyInitialized
	}

	material := &vault.Material{Threshold: threshold, RootToken: "fixture-root-token"}
	for i := 0; i < shares; i++ {
		material.UnsealKeys = append(material.UnsealKeys, fmt.Sprintf("fixture-key-%d", i))
	}
	f.material = material
	f.nodes[node].initialized = true
	return material, nil
}

// Unseal implements vault.AdminClient.
func (f *ClusterFixture) Unseal(_ context.Context, node, key string) (vault.NodeStatus, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.UnsealCalls[node]++
	n, ok := f.nodes[node]
	if !ok {
		return vault.NodeStatus{}, fmt.Errorf("unknown node %s", node)
	}
	if f.material == nil {
		return vault.NodeStatus{}, fmt.Errorf("node %s is not initialized", node)
	}

	if f.validKeyLocked(key) && !n.seen[key] {
		n.seen[key] = true
		n.progress++
	}
	if n.progress >= f.threshold {
		n.sealed = false
		n.progress = 0
		n.seen = make(map[string]bool)
		n.initialized = true
	}

	return vault.NodeStatus{
		Initialized: n.initialized,
		Sealed:      n.sealed,
		Progress:    n.progress,
		Threshold:   f.threshold,
		Shares:      f.shares,
	}, nil
}

func (f *ClusterFixture) validKeyLocked(key string) bool {
	for _, k := range f.material.UnsealKeys {
		if k == key {
			return true
		}
	}
	return false
}

func (f *ClusterFixture) anyUnsealedLocked() bool {
	for _, n := range f.nodes {
		if !n.sealed {
			return true
		}
	}
	return false
}

// leaderLocked treats the lowest-index unsealed node as active.
func (f *ClusterFixture) leaderLocked() string {
	for _, name := range f.order {
		if !f.nodes[name].sealed {
			return name
		}
	}
	return ""
}

// ReadyProber reports every node ready immediately with a synthetic IP.
type ReadyProber struct{}

// WaitReady implements bootstrap.Prober.
func (ReadyProber) WaitReady(_ context.Context, node string) (string, error) {
	return "10.0.0.1", nil
}
