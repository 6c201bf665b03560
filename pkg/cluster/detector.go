// Copyright 2025 Certen Protocol

package cluster

import (
	"log"
	"sort"
	"sync"

	"github.com/certen-trust/reputation-core/pkg/address"
)

// heuristic weights for the confidence accumulator. A single common-input
// link between two addresses (0.35) stays below the 0.6 significance bar;
// each further address in the same co-spend adds another 0.35, and repeated
// or corroborated evidence saturates towards 1.0 (§4.3 still requires 5
// members).
const (
	weightCoSpend    = 0.35
	weightChangeLink = 0.20
	weightReuse      = 0.10
)

// Detector is C3 ClusterDetector: an in-process, rebuildable union-find
// index over observed co-ownership signals. It holds no canonical state -
// per §3 "Ownership / lifecycles", cluster summaries are process-local. A
// new Detector starts empty and is filled only through its Record* methods.
type Detector struct {
	mu     sync.RWMutex
	logger *log.Logger

	parent     map[address.Address]address.Address
	confidence map[address.Address]float64 // accumulator, keyed by the set's root
}

// Config holds Detector construction options.
type Config struct {
	Logger *log.Logger
}

// DefaultConfig returns the Detector default configuration.
func DefaultConfig() *Config {
	return &Config{
		Logger: log.New(log.Writer(), "[ClusterDetector] ", log.LstdFlags),
	}
}

// NewDetector builds an empty Detector.
func NewDetector(cfg *Config) *Detector {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	if cfg.Logger == nil {
		cfg.Logger = log.New(log.Writer(), "[ClusterDetector] ", log.LstdFlags)
	}
	return &Detector{
		logger:     cfg.Logger,
		parent:     make(map[address.Address]address.Address),
		confidence: make(map[address.Address]float64),
	}
}

func (d *Detector) find(a address.Address) address.Address {
	root, ok := d.parent[a]
	if !ok {
		d.parent[a] = a
		return a
	}
	if root == a {
		return a
	}
	r := d.find(root)
	d.parent[a] = r
	return r
}

func (d *Detector) union(a, b address.Address, bump float64) {
	ra, rb := d.find(a), d.find(b)
	ca := d.confidence[ra]
	cb := d.confidence[rb]
	merged := clamp01(ca + cb + bump)
	if ra == rb {
		d.confidence[ra] = clamp01(ca + bump)
		return
	}
	d.parent[rb] = ra
	delete(d.confidence, rb)
	d.confidence[ra] = merged
}

// RecordCoSpend ingests a set of addresses observed as joint inputs to a
// single transaction - the strongest of the three heuristics, since no
// wallet spends inputs it does not control.
func (d *Detector) RecordCoSpend(addrs []address.Address) {
	if len(addrs) < 2 {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	first := addrs[0]
	d.find(first)
	for _, a := range addrs[1:] {
		d.find(a)
		d.union(first, a, weightCoSpend)
	}
}

// RecordChangeLink ingests a weaker signal: an output heuristically
// identified as change returning to the sender's cluster.
func (d *Detector) RecordChangeLink(spender, changeOutput address.Address) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.find(spender)
	d.find(changeOutput)
	d.union(spender, changeOutput, weightChangeLink)
}

// RecordReuse ingests a standalone address-reuse observation, a weak
// corroborating signal that nudges confidence in an existing cluster
// without creating or merging one on its own.
func (d *Detector) RecordReuse(addr address.Address) {
	d.mu.Lock()
	defer d.mu.Unlock()
	root := d.find(addr)
	d.confidence[root] = clamp01(d.confidence[root] + weightReuse)
}

// MembershipOf returns addr's cluster, or ok=false if addr has not been
// observed in any heuristic yet.
func (d *Detector) MembershipOf(addr address.Address) (Cluster, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if _, ok := d.parent[addr]; !ok {
		return Cluster{}, false
	}
	root := d.find(addr)
	return d.clusterForRoot(root), true
}

// Clusters returns a snapshot of every cluster with 2 or more members.
func (d *Detector) Clusters() []Cluster {
	d.mu.RLock()
	defer d.mu.RUnlock()

	members := make(map[address.Address][]address.Address)
	for a := range d.parent {
		root := d.find(a)
		members[root] = append(members[root], a)
	}

	out := make([]Cluster, 0, len(members))
	for root, addrs := range members {
		if len(addrs) < 2 {
			continue
		}
		out = append(out, d.buildCluster(root, addrs))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (d *Detector) clusterForRoot(root address.Address) Cluster {
	var addrs []address.Address
	for a := range d.parent {
		if d.find(a) == root {
			addrs = append(addrs, a)
		}
	}
	return d.buildCluster(root, addrs)
}

func (d *Detector) buildCluster(root address.Address, addrs []address.Address) Cluster {
	address.Sort(addrs)
	return Cluster{
		ID:         int(root[len(root)-1]) | int(root[len(root)-2])<<8,
		Members:    addrs,
		Confidence: d.confidence[root],
	}
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
