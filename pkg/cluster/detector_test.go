package cluster

import (
	"testing"

	"github.com/certen-trust/reputation-core/pkg/address"
)

func a(b byte) address.Address {
	var x address.Address
	x[19] = b
	return x
}

func TestRecordCoSpendMergesAddresses(t *testing.T) {
	d := NewDetector(nil)
	d.RecordCoSpend([]address.Address{a(1), a(2), a(3)})

	m1, ok := d.MembershipOf(a(1))
	if !ok {
		t.Fatalf("expected membership for a(1)")
	}
	if len(m1.Members) != 3 {
		t.Fatalf("expected cluster of 3 members, got %d", len(m1.Members))
	}
	m2, _ := d.MembershipOf(a(2))
	if m1.ID != m2.ID {
		t.Fatalf("expected a(1) and a(2) in the same cluster")
	}
}

func TestUnknownAddressHasNoMembership(t *testing.T) {
	d := NewDetector(nil)
	if _, ok := d.MembershipOf(a(99)); ok {
		t.Fatalf("expected no membership for an unobserved address")
	}
}

func TestSignificantClusterThreshold(t *testing.T) {
	d := NewDetector(nil)
	members := []address.Address{a(1), a(2), a(3), a(4), a(5)}
	d.RecordCoSpend(members)
	for i := 0; i < 2; i++ {
		d.RecordChangeLink(a(1), a(2))
	}

	cl, ok := d.MembershipOf(a(1))
	if !ok {
		t.Fatalf("expected membership")
	}
	if len(cl.Members) < MinSignificantMembers {
		t.Fatalf("expected at least %d members, got %d", MinSignificantMembers, len(cl.Members))
	}
	if !cl.Significant() {
		t.Fatalf("expected cluster with %d members and confidence %v to be significant", len(cl.Members), cl.Confidence)
	}
}

func TestClustersExcludesSingletons(t *testing.T) {
	d := NewDetector(nil)
	d.RecordReuse(a(1)) // touches a(1) without merging it with anything
	for _, c := range d.Clusters() {
		if len(c.Members) < 2 {
			t.Fatalf("Clusters() should exclude singleton sets, found cluster %+v", c)
		}
	}
}
