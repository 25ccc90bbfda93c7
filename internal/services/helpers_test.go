package services

import (
	"ae-dashboard-service/internal/catalog"
	"ae-dashboard-service/internal/domain"
	"context"
	"sync"
	"testing"
	"time"
)

var fixedTime = time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

func mustCatalog(t *testing.T) *catalog.Catalog {
	t.Helper()

	c, err := catalog.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return c
}

// stubFetcher hands out queued snapshots, repeating the last one.
type stubFetcher struct {
	mu    sync.Mutex
	queue []domain.Snapshot
	calls int
}

func (f *stubFetcher) Refresh(ctx context.Context) domain.Snapshot {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.calls++
	snap := f.queue[0]
	if len(f.queue) > 1 {
		f.queue = f.queue[1:]
	}
	return snap
}

func liveSnapshot(waits map[string]int) domain.Snapshot {
	records := make(map[string]domain.WaitTimeRecord, len(waits))
	for id, m := range waits {
		records[id] = domain.WaitTimeRecord{
			WaitText:    "test",
			WaitMinutes: m,
			Severity:    domain.SeverityFor(m),
		}
	}
	return domain.Live(records, fixedTime, "01/01/2026 8:00am", nil)
}
