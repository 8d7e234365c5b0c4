package types

import (
	"testing"

	"github.com/google/uuid"
)

func TestUUIDSetAddIsIdempotent(t *testing.T) {
	reader := uuid.New()
	other := uuid.New()

	set := UUIDSet{}
	if !set.Add(reader) {
		t.Fatal("first add should change the set")
	}
	if set.Add(reader) {
		t.Fatal("second add of same id should be a no-op")
	}
	if !set.Add(other) {
		t.Fatal("adding a distinct id should change the set")
	}
	if len(set) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(set))
	}
	if !set.Contains(reader) || !set.Contains(other) {
		t.Fatalf("set lost members: %v", set)
	}
}

func TestUUIDSetScanValueRoundTrip(t *testing.T) {
	id := uuid.MustParse("00000000-0000-0000-0000-000000000001")
	set := UUIDSet{id}

	raw, err := set.Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}

	var decoded UUIDSet
	if err := decoded.Scan(raw); err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !decoded.Contains(id) {
		t.Fatalf("round trip lost id, got %v", decoded)
	}

	var empty UUIDSet
	if err := empty.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if empty != nil {
		t.Fatalf("expected nil set, got %v", empty)
	}
}
