package domain

import (
	"errors"
	"testing"
)

func TestParseTransportMode(t *testing.T) {
	for in, want := range map[string]TransportMode{
		"":         ModeDriving,
		"driving":  ModeDriving,
		" Walking": ModeWalking,
		"CYCLING":  ModeCycling,
	} {
		got, err := ParseTransportMode(in)
		if err != nil {
			t.Fatalf("ParseTransportMode(%q): unexpected error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseTransportMode(%q) = %q, want %q", in, got, want)
		}
	}

	if _, err := ParseTransportMode("flying"); !errors.Is(err, ErrInput) {
		t.Fatalf("expected ErrInput for unsupported mode, got %v", err)
	}
}

func TestParseCoordinates(t *testing.T) {
	c, ok, err := ParseCoordinates("22.2819, 114.1582")
	if err != nil || !ok {
		t.Fatalf("expected coordinate pair, got ok=%v err=%v", ok, err)
	}
	if c.Lat != 22.2819 || c.Lon != 114.1582 {
		t.Fatalf("got %+v", c)
	}

	if _, ok, _ := ParseCoordinates("Central, Hong Kong"); ok {
		t.Fatal("place name should not parse as coordinates")
	}

	if _, ok, err := ParseCoordinates("122.0, 114.0"); !ok || !errors.Is(err, ErrInput) {
		t.Fatalf("expected out-of-range ErrInput, got ok=%v err=%v", ok, err)
	}
}

func TestSnapshotTagsEveryRecord(t *testing.T) {
	records := map[string]WaitTimeRecord{
		"QMH": {WaitText: "Over 1 hour", WaitMinutes: 90},
		"QEH": {WaitText: "Around 2 hours", WaitMinutes: 120},
	}

	snap := Fallback(records, fixedTime)
	if snap.Source() != SourceFallback {
		t.Fatalf("source = %q, want fallback", snap.Source())
	}
	for id, r := range snap.Records() {
		if r.Source != SourceFallback {
			t.Errorf("record %s source = %q", id, r.Source)
		}
		if r.HospitalID != id {
			t.Errorf("record %s carries hospital id %q", id, r.HospitalID)
		}
		if !r.FetchedAt.Equal(fixedTime) {
			t.Errorf("record %s fetched at %v", id, r.FetchedAt)
		}
	}

	// Mutating the input map must not leak into the snapshot.
	delete(records, "QMH")
	if _, ok := snap.Record("QMH"); !ok {
		t.Fatal("snapshot shares storage with caller map")
	}

	var zero Snapshot
	if !zero.IsZero() {
		t.Fatal("zero snapshot should report IsZero")
	}
}
