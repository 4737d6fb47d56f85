package gcprofile

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestRecordAllocationTracksLiveCount(t *testing.T) {
	p := New()
	p.RecordAllocation(16)
	p.RecordAllocation(16)
	p.RecordAllocation(32)

	snap := p.Snapshot()
	if snap.TotalAllocations != 3 {
		t.Fatalf("expected 3 total allocations, got %d", snap.TotalAllocations)
	}
	if snap.LiveObjects != 3 {
		t.Fatalf("expected 3 live objects, got %d", snap.LiveObjects)
	}

	var class16 *SizeClassStats
	for _, c := range snap.SizeClasses {
		if c.Size == 16 {
			class16 = c
		}
	}
	if class16 == nil {
		t.Fatal("expected a size class for size 16")
	}
	if class16.AllocCount != 2 || class16.LiveCount != 2 {
		t.Fatalf("unexpected size-16 stats: %+v", class16)
	}
}

func TestRecordFreeDecrementsLiveCount(t *testing.T) {
	p := New()
	p.RecordAllocation(16)
	p.RecordAllocation(16)
	p.RecordFree(16)

	snap := p.Snapshot()
	if snap.TotalFrees != 1 {
		t.Fatalf("expected 1 free, got %d", snap.TotalFrees)
	}
	if snap.LiveObjects != 1 {
		t.Fatalf("expected 1 live object, got %d", snap.LiveObjects)
	}
}

func TestFreeNeverGoesNegative(t *testing.T) {
	p := New()
	p.RecordFree(8)

	snap := p.Snapshot()
	if snap.LiveObjects != 0 {
		t.Fatalf("expected live objects clamped at 0, got %d", snap.LiveObjects)
	}
}

func TestWriteProfileText(t *testing.T) {
	p := New()
	p.RecordAllocation(24)

	var buf bytes.Buffer
	if err := p.WriteProfile(&buf, FormatText); err != nil {
		t.Fatalf("WriteProfile: %v", err)
	}
	if !strings.Contains(buf.String(), "allocation profile") {
		t.Fatalf("unexpected text output: %s", buf.String())
	}
}

func TestWriteProfileJSON(t *testing.T) {
	p := New()
	p.RecordAllocation(24)

	var buf bytes.Buffer
	if err := p.WriteProfile(&buf, FormatJSON); err != nil {
		t.Fatalf("WriteProfile: %v", err)
	}

	var decoded Profile
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("json.Unmarshal: %v", err)
	}
	if decoded.TotalAllocations != 1 {
		t.Fatalf("expected 1 allocation in decoded JSON, got %d", decoded.TotalAllocations)
	}
}
