package ghostsync

import (
	"testing"
	"time"
)

// fakeReader serves a fixed downstream state and counts fetches.
type fakeReader struct {
	activities []Activity
	calls      int
}

func (r *fakeReader) Activities(accountID string) ([]Activity, error) {
	r.calls++
	return r.activities, nil
}

func TestGateFiltersSeenKeys(t *testing.T) {
	reader := &fakeReader{activities: []Activity{{Comment: "ID: abc123"}}}
	gate := NewGate(reader, "acc-1")

	fresh, err := gate.FilterNew([]Activity{
		{Comment: "ID: abc123"},
		{Comment: "ID: def456"},
	})
	if err != nil {
		t.Fatalf("FilterNew() unexpected error = %v", err)
	}
	if len(fresh) != 1 || fresh[0].Key() != "def456" {
		t.Errorf("FilterNew() = %v, want only def456", fresh)
	}
}

func TestGateFetchesDownstreamOnce(t *testing.T) {
	reader := &fakeReader{}
	gate := NewGate(reader, "acc-1")

	if _, err := gate.Seen("a"); err != nil {
		t.Fatal(err)
	}
	if _, err := gate.FilterNew(nil); err != nil {
		t.Fatal(err)
	}
	if _, err := gate.MaxDatetime(Epoch); err != nil {
		t.Fatal(err)
	}
	if reader.calls != 1 {
		t.Errorf("downstream fetched %d times, want 1 per run", reader.calls)
	}
}

func TestGateMaxDatetime(t *testing.T) {
	d1 := time.Date(2024, 2, 1, 10, 0, 0, 0, time.UTC)
	d2 := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	reader := &fakeReader{activities: []Activity{{Date: d1}, {Date: d2}}}

	max, err := NewGate(reader, "acc-1").MaxDatetime(Epoch)
	if err != nil {
		t.Fatalf("MaxDatetime() unexpected error = %v", err)
	}
	if !max.Equal(d2) {
		t.Errorf("MaxDatetime() = %s, want %s", max, d2)
	}
}

func TestGateMaxDatetimeFallback(t *testing.T) {
	max, err := NewGate(&fakeReader{}, "acc-1").MaxDatetime(Epoch)
	if err != nil {
		t.Fatalf("MaxDatetime() unexpected error = %v", err)
	}
	if !max.Equal(Epoch) {
		t.Errorf("MaxDatetime() on empty account = %s, want epoch", max)
	}
}

func TestReconcileIdempotent(t *testing.T) {
	// After a first run records its activities downstream, a second run over
	// unchanged upstream data must produce zero new activities.
	candidates := []Activity{{Comment: "ID: tx-1"}, {Comment: "ID: tx-2"}}

	first := NewGate(&fakeReader{}, "acc-1")
	fresh, err := first.FilterNew(candidates)
	if err != nil {
		t.Fatal(err)
	}
	if len(fresh) != 2 {
		t.Fatalf("first run = %d activities, want 2", len(fresh))
	}

	second := NewGate(&fakeReader{activities: fresh}, "acc-1")
	fresh, err = second.FilterNew(candidates)
	if err != nil {
		t.Fatal(err)
	}
	if len(fresh) != 0 {
		t.Errorf("second run = %d activities, want 0", len(fresh))
	}
}
