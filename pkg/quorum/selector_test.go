package quorum

import (
	"testing"

	"github.com/certen-trust/reputation-core/pkg/address"
)

type fixedSet struct {
	addrs []address.Address
}

func (f fixedSet) EligibleValidators(blockHeight uint64, window uint64) ([]address.Address, error) {
	return f.addrs, nil
}

func buildAddrs(n int) []address.Address {
	out := make([]address.Address, n)
	for i := range out {
		var a address.Address
		a[18] = byte(i / 256)
		a[19] = byte(i % 256)
		out[i] = a
	}
	return out
}

func TestSelectIsDeterministic(t *testing.T) {
	sel, err := NewSelector(fixedSet{addrs: buildAddrs(30)}, nil)
	if err != nil {
		t.Fatalf("NewSelector: %v", err)
	}
	txHash := [32]byte{1, 2, 3}

	q1, err := sel.Select(txHash, 500)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	q2, err := sel.Select(txHash, 500)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(q1) != Size {
		t.Fatalf("expected quorum size %d, got %d", Size, len(q1))
	}
	for i := range q1 {
		if q1[i] != q2[i] {
			t.Fatalf("expected reproducible quorum at index %d", i)
		}
	}
}

func TestSelectDiffersByBlockHeight(t *testing.T) {
	sel, _ := NewSelector(fixedSet{addrs: buildAddrs(30)}, nil)
	txHash := [32]byte{9, 9, 9}

	q1, _ := sel.Select(txHash, 100)
	q2, _ := sel.Select(txHash, 101)

	same := true
	for i := range q1 {
		if q1[i] != q2[i] {
			same = false
			break
		}
	}
	if same {
		t.Fatalf("expected different quorums for different block heights")
	}
}

func TestSelectUndersubscribed(t *testing.T) {
	sel, _ := NewSelector(fixedSet{addrs: buildAddrs(4)}, nil)
	_, err := sel.Select([32]byte{1}, 1)
	if err == nil {
		t.Fatalf("expected undersubscribed error with only 4 eligible validators")
	}
}
