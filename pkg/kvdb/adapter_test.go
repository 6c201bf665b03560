package kvdb

import "testing"

func TestGetSetDelete(t *testing.T) {
	a := NewKVAdapter(NewMemDB())

	if v, err := a.Get([]byte("k")); err != nil || v != nil {
		t.Fatalf("expected missing key to return nil, got %v, %v", v, err)
	}
	if err := a.Set([]byte("k"), []byte("v")); err != nil {
		t.Fatalf("Set: %v", err)
	}
	v, err := a.Get([]byte("k"))
	if err != nil || string(v) != "v" {
		t.Fatalf("Get: %v, %v", v, err)
	}
	if err := a.Delete([]byte("k")); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if v, err := a.Get([]byte("k")); err != nil || v != nil {
		t.Fatalf("expected deleted key to return nil, got %v, %v", v, err)
	}
}

func TestIteratePrefix(t *testing.T) {
	a := NewKVAdapter(NewMemDB())
	a.Set([]byte("B:addr1"), []byte("1"))
	a.Set([]byte("B:addr2"), []byte("2"))
	a.Set([]byte("F:addr1"), []byte("3"))

	var keys []string
	err := a.Iterate([]byte("B:"), func(key, value []byte) bool {
		keys = append(keys, string(key))
		return true
	})
	if err != nil {
		t.Fatalf("Iterate: %v", err)
	}
	if len(keys) != 2 {
		t.Fatalf("expected 2 keys under B: prefix, got %v", keys)
	}
}
