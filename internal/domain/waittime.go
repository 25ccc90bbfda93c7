package domain

import (
	"maps"
	"time"
)

// Source tags where a snapshot's wait times came from.
type Source string

const (
	SourceLive     Source = "live"
	SourceFallback Source = "fallback"
)

// Severity buckets a wait time for display.
type Severity string

const (
	SeverityExcellent Severity = "excellent"
	SeverityGood      Severity = "good"
	SeverityModerate  Severity = "moderate"
	SeverityHigh      Severity = "high"
	SeveritySevere    Severity = "severe"
	SeverityCritical  Severity = "critical"
)

// Severities in ascending order.
var Severities = []Severity{
	SeverityExcellent,
	SeverityGood,
	SeverityModerate,
	SeverityHigh,
	SeveritySevere,
	SeverityCritical,
}

func SeverityFor(minutes int) Severity {
	switch {
	case minutes <= 30:
		return SeverityExcellent
	case minutes <= 60:
		return SeverityGood
	case minutes <= 120:
		return SeverityModerate
	case minutes <= 180:
		return SeverityHigh
	case minutes <= 300:
		return SeveritySevere
	default:
		return SeverityCritical
	}
}

// A single hospital's A&E waiting time from one refresh cycle.
// Records are replaced wholesale on every refresh, never merged.
type WaitTimeRecord struct {
	HospitalID  string
	WaitText    string
	WaitMinutes int
	Severity    Severity
	FetchedAt   time.Time
	Source      Source
}

// Snapshot is the result of one refresh: the hospital_id -> record mapping
// together with its source tag. The tag is only settable through Live and
// Fallback, and every record carries the same tag and fetch time.
type Snapshot struct {
	records   map[string]WaitTimeRecord
	source    Source
	fetchedAt time.Time
	updatedAt string
	dropped   []string
}

// Live wraps records parsed from the upstream feed.
// updatedAt is the feed's own timestamp string; dropped lists upstream
// hospital names that did not resolve to a catalog entry.
func Live(records map[string]WaitTimeRecord, fetchedAt time.Time, updatedAt string, dropped []string) Snapshot {
	return newSnapshot(SourceLive, records, fetchedAt, updatedAt, dropped)
}

// Fallback wraps the bundled static dataset.
func Fallback(records map[string]WaitTimeRecord, fetchedAt time.Time) Snapshot {
	return newSnapshot(SourceFallback, records, fetchedAt, "", nil)
}

func newSnapshot(src Source, records map[string]WaitTimeRecord, fetchedAt time.Time, updatedAt string, dropped []string) Snapshot {
	out := make(map[string]WaitTimeRecord, len(records))
	for id, r := range records {
		r.HospitalID = id
		r.Source = src
		r.FetchedAt = fetchedAt
		out[id] = r
	}

	return Snapshot{
		records:   out,
		source:    src,
		fetchedAt: fetchedAt,
		updatedAt: updatedAt,
		dropped:   append([]string(nil), dropped...),
	}
}

func (s Snapshot) Source() Source       { return s.source }
func (s Snapshot) FetchedAt() time.Time { return s.fetchedAt }
func (s Snapshot) UpdatedAt() string    { return s.updatedAt }
func (s Snapshot) Len() int             { return len(s.records) }

// IsZero reports whether the snapshot was never populated.
func (s Snapshot) IsZero() bool { return s.source == "" }

// Records returns a copy of the mapping.
func (s Snapshot) Records() map[string]WaitTimeRecord { return maps.Clone(s.records) }

func (s Snapshot) Record(hospitalID string) (WaitTimeRecord, bool) {
	r, ok := s.records[hospitalID]
	return r, ok
}

func (s Snapshot) Dropped() []string { return append([]string(nil), s.dropped...) }
