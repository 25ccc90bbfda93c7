package feed

import (
	"ae-dashboard-service/internal/catalog"
	"ae-dashboard-service/internal/domain"
	"context"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func newTestFeed(t *testing.T, url string, timeout time.Duration) *HAFeed {
	t.Helper()

	cat, err := catalog.Default()
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	f, err := NewHAFeed(url, timeout, cat)
	if err != nil {
		t.Fatalf("new feed: %v", err)
	}
	return f
}

func serveBody(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestRefreshParsesLiveFeed(t *testing.T) {
	srv := serveBody(t, http.StatusOK, `{
		"waitTime": [
			{"hospName": "Queen Mary Hospital", "topWait": "Around 1 hour"},
			{"hospName": "Prince of Wales Hospital", "topWait": "Over 4 hours"},
			{"hospName": "Tuen Mun Hospital", "topWait": "45 minutes"}
		],
		"updateTime": "19/10/2026 9:15am"
	}`)

	snap := newTestFeed(t, srv.URL, time.Second).Refresh(context.Background())

	if snap.Source() != domain.SourceLive {
		t.Fatalf("source = %q, want live", snap.Source())
	}
	if snap.Len() != 3 {
		t.Fatalf("expected 3 records, got %d", snap.Len())
	}
	if snap.UpdatedAt() != "19/10/2026 9:15am" {
		t.Fatalf("updatedAt = %q", snap.UpdatedAt())
	}

	qmh, ok := snap.Record("QMH")
	if !ok {
		t.Fatal("QMH missing")
	}
	if qmh.WaitMinutes != 60 || qmh.Severity != domain.SeverityGood {
		t.Fatalf("QMH = %+v", qmh)
	}
	if qmh.Source != domain.SourceLive || qmh.FetchedAt.IsZero() {
		t.Fatalf("QMH not stamped: %+v", qmh)
	}

	pwh, _ := snap.Record("PWH")
	if pwh.WaitMinutes != 270 {
		t.Fatalf("PWH minutes = %d, want 270", pwh.WaitMinutes)
	}
}

func TestRefreshAcceptsListEntries(t *testing.T) {
	srv := serveBody(t, http.StatusOK, `{"waitTime": [["Kwong Wah Hospital", "Around 2 hours"], ["Yan Chai Hospital", "2-3 hours"]]}`)

	snap := newTestFeed(t, srv.URL, time.Second).Refresh(context.Background())

	if snap.Source() != domain.SourceLive || snap.Len() != 2 {
		t.Fatalf("source=%q len=%d", snap.Source(), snap.Len())
	}
	if r, _ := snap.Record("YCH"); r.WaitMinutes != 150 {
		t.Fatalf("YCH minutes = %d, want 150", r.WaitMinutes)
	}
}

func TestRefreshDropsUnknownAndInvalidEntries(t *testing.T) {
	srv := serveBody(t, http.StatusOK, `{"waitTime": [
		{"hospName": "Queen Elizabeth Hospital", "topWait": "Over 2 hours"},
		{"hospName": "Hong Kong Sanatorium", "topWait": "Around 1 hour"},
		{"hospName": "Ruttonjee Hospital", "topWait": "n/a"},
		{"hospName": "Tuen Mun Hospital", "topWait": "Over 99999999999999999999 hours"},
		{"hospName": "", "topWait": "1 hour"},
		42,
		{"hospName": "queen elizabeth hospital", "topWait": "Around 1 hour"}
	]}`)

	snap := newTestFeed(t, srv.URL, time.Second).Refresh(context.Background())

	if snap.Source() != domain.SourceLive {
		t.Fatalf("source = %q, want live", snap.Source())
	}
	if snap.Len() != 1 {
		t.Fatalf("expected 1 record, got %d: %v", snap.Len(), snap.Records())
	}
	if _, ok := snap.Record("RH"); ok {
		t.Fatal("unparseable wait text must be skipped")
	}
	if _, ok := snap.Record("TMH"); ok {
		t.Fatal("out-of-range wait text must be skipped")
	}

	qeh, _ := snap.Record("QEH")
	if qeh.WaitText != "Over 2 hours" {
		t.Fatalf("first duplicate must win, got %q", qeh.WaitText)
	}

	if !slices.Equal(snap.Dropped(), []string{"Hong Kong Sanatorium"}) {
		t.Fatalf("dropped = %v", snap.Dropped())
	}
}

func TestRefreshFallsBack(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
	}{
		{name: "server error", status: http.StatusInternalServerError, body: `oops`},
		{name: "malformed json", status: http.StatusOK, body: `{"waitTime": [`},
		{name: "missing waitTime", status: http.StatusOK, body: `{"updateTime": "now"}`},
		{name: "not an object", status: http.StatusOK, body: `[1, 2, 3]`},
		{name: "no known hospitals", status: http.StatusOK, body: `{"waitTime": [{"hospName": "Nowhere", "topWait": "1 hour"}]}`},
		{name: "empty list", status: http.StatusOK, body: `{"waitTime": []}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := serveBody(t, tt.status, tt.body)
			f := newTestFeed(t, srv.URL, time.Second)

			snap := f.Refresh(context.Background())

			if snap.Source() != domain.SourceFallback {
				t.Fatalf("source = %q, want fallback", snap.Source())
			}
			if snap.Len() != 18 {
				t.Fatalf("expected 18 fallback records, got %d", snap.Len())
			}
		})
	}
}

func TestRefreshFallsBackWhenUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	snap := newTestFeed(t, url, time.Second).Refresh(context.Background())

	if snap.Source() != domain.SourceFallback {
		t.Fatalf("source = %q, want fallback", snap.Source())
	}
	for id, r := range snap.Records() {
		if r.Source != domain.SourceFallback {
			t.Fatalf("%s tagged %q", id, r.Source)
		}
	}
}

func TestRefreshFallsBackOnTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(2 * time.Second):
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(srv.Close)

	f := newTestFeed(t, srv.URL, 50*time.Millisecond)

	start := time.Now()
	snap := f.Refresh(context.Background())

	if snap.Source() != domain.SourceFallback {
		t.Fatalf("source = %q, want fallback", snap.Source())
	}
	if time.Since(start) > time.Second {
		t.Fatalf("refresh did not honor the timeout: %v", time.Since(start))
	}
}

func TestFallbackCoversCatalog(t *testing.T) {
	f := newTestFeed(t, "http://127.0.0.1:0", time.Second)

	snap := f.Fallback()
	cat, _ := catalog.Default()
	for _, h := range cat.All() {
		r, ok := snap.Record(h.ID)
		if !ok {
			t.Fatalf("fallback missing %s", h.ID)
		}
		if r.WaitMinutes <= 0 {
			t.Fatalf("%s has no minutes: %+v", h.ID, r)
		}
	}
}

func TestLoadFallbackSkipsUnknownHospitals(t *testing.T) {
	cat, err := catalog.Load([]byte(`[{"id":"QMH","name":"Queen Mary Hospital","address":"x","lat":22.27,"lon":114.13}]`))
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}

	got, err := loadFallback([]byte(`[{"hospital_id":"QMH","wait_text":"Around 1 hour"},{"hospital_id":"ZZZ","wait_text":"1 hour"}]`), cat)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected 1 record, got %d", len(got))
	}

	if _, err := loadFallback([]byte(`[{"hospital_id":"QMH","wait_text":"soon"}]`), cat); err == nil {
		t.Fatal("expected error for unparseable fallback text")
	}
}

func TestNewHAFeedValidates(t *testing.T) {
	cat, _ := catalog.Default()

	if _, err := NewHAFeed("", time.Second, cat); err == nil {
		t.Fatal("expected error for empty url")
	}
	if _, err := NewHAFeed("http://example.invalid", time.Second, nil); err == nil {
		t.Fatal("expected error for nil catalog")
	}
}

func TestConcurrentRefreshesShareOneFetch(t *testing.T) {
	const callers = 8

	var hits atomic.Int32
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		<-release
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"waitTime": [{"hospName": "Queen Mary Hospital", "topWait": "Around 2 hours"}], "updateTime": "19/10/2026 9:15am"}`))
	}))
	t.Cleanup(srv.Close)

	f := newTestFeed(t, srv.URL, 5*time.Second)

	var started, done sync.WaitGroup
	snaps := make([]domain.Snapshot, callers)
	started.Add(callers)
	done.Add(callers)
	for i := range callers {
		go func() {
			defer done.Done()
			started.Done()
			snaps[i] = f.Refresh(context.Background())
		}()
	}

	started.Wait()
	// Let every caller join the in-flight request before it completes.
	deadline := time.Now().Add(2 * time.Second)
	for hits.Load() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	time.Sleep(100 * time.Millisecond)
	close(release)
	done.Wait()

	if n := hits.Load(); n != 1 {
		t.Fatalf("expected 1 upstream request, got %d", n)
	}

	for i, snap := range snaps {
		if snap.Source() != domain.SourceLive || snap.Len() != 1 {
			t.Fatalf("caller %d: source=%q len=%d", i, snap.Source(), snap.Len())
		}
		if !snap.FetchedAt().Equal(snaps[0].FetchedAt()) {
			t.Fatalf("caller %d got a different snapshot", i)
		}
		if r, _ := snap.Record("QMH"); r.WaitMinutes != 120 {
			t.Fatalf("caller %d: QMH minutes = %d", i, r.WaitMinutes)
		}
	}
}
