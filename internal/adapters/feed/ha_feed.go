package feed

import (
	"ae-dashboard-service/internal/catalog"
	"ae-dashboard-service/internal/domain"
	"ae-dashboard-service/internal/platform/obs"
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"
)

//go:embed fallback.json
var bundledFallback []byte

// Upper bound on the feed body; the real payload is a few kilobytes.
const maxFeedBytes = 2 << 20

// HAFeed implements WaitTimeFetcher against the Hospital Authority
// open-data A&E feed.
//
// A refresh is a single GET with a bounded timeout. Any failure degrades to
// the bundled static dataset tagged fallback; errors never reach callers.
// Concurrent refreshes share one upstream call.
//
// The feed is safe for concurrent use.
type HAFeed struct {
	session  *http.Client
	url      string
	catalog  *catalog.Catalog
	fallback map[string]domain.WaitTimeRecord
	group    singleflight.Group
}

func NewHAFeed(url string, timeout time.Duration, cat *catalog.Catalog) (*HAFeed, error) {
	if strings.TrimSpace(url) == "" {
		return nil, errors.New("new HA feed: url is empty")
	}

	if cat == nil {
		return nil, errors.New("new HA feed: catalog is nil")
	}

	fallback, err := loadFallback(bundledFallback, cat)
	if err != nil {
		return nil, fmt.Errorf("new HA feed: %w", err)
	}

	return &HAFeed{
		session:  &http.Client{Timeout: timeout},
		url:      url,
		catalog:  cat,
		fallback: fallback,
	}, nil
}

// Refresh fetches the live feed, or returns the fallback snapshot when the
// feed is unreachable or unusable.
func (f *HAFeed) Refresh(ctx context.Context) domain.Snapshot {
	v, _, _ := f.group.Do("refresh", func() (any, error) {
		snap, err := f.fetchLive(ctx)
		if err != nil {
			log.Printf("req_id=%s wait-time feed unavailable, serving fallback: %v", obs.RequestID(ctx), err)
			return f.Fallback(), nil
		}
		return snap, nil
	})

	return v.(domain.Snapshot)
}

// Fallback returns the static dataset stamped with the current time.
func (f *HAFeed) Fallback() domain.Snapshot {
	return domain.Fallback(f.fallback, time.Now())
}

func (f *HAFeed) fetchLive(ctx context.Context) (_ domain.Snapshot, err error) {
	defer obs.Time(ctx, "feed.fetchLive")(&err)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.url, nil)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("fetch wait times: create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Cache-Control", "no-cache")
	req.Header.Set("User-Agent", "ae-dashboard-service/1.0")

	resp, err := f.session.Do(req)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("fetch wait times: %w: %w", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.Snapshot{}, fmt.Errorf("fetch wait times: unexpected status %d: %w", resp.StatusCode, domain.ErrNetwork)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("fetch wait times: read body: %w: %w", domain.ErrNetwork, err)
	}

	fetchedAt := time.Now()
	records, updatedAt, dropped, err := parseFeed(body, f.catalog)
	if err != nil {
		return domain.Snapshot{}, fmt.Errorf("fetch wait times: %w", err)
	}

	if len(dropped) > 0 {
		log.Printf("req_id=%s feed: dropped unknown hospitals=%q", obs.RequestID(ctx), dropped)
	}

	return domain.Live(records, fetchedAt, updatedAt, dropped), nil
}

type fallbackSeed struct {
	HospitalID string `json:"hospital_id"`
	WaitText   string `json:"wait_text"`
}

// loadFallback builds the static dataset. Entries for hospitals missing from
// the catalog are skipped so a custom catalog cannot produce orphans.
func loadFallback(data []byte, cat *catalog.Catalog) (map[string]domain.WaitTimeRecord, error) {
	var seeds []fallbackSeed
	if err := json.Unmarshal(data, &seeds); err != nil {
		return nil, fmt.Errorf("load fallback: parse json: %w", err)
	}

	out := make(map[string]domain.WaitTimeRecord, len(seeds))
	for i, s := range seeds {
		h, ok := cat.Get(s.HospitalID)
		if !ok {
			log.Printf("fallback: skipping unknown hospital_id=%q", s.HospitalID)
			continue
		}

		minutes, ok := domain.ParseWaitText(s.WaitText)
		if !ok {
			return nil, fmt.Errorf("load fallback: item at index %d: unparseable wait text %q", i+1, s.WaitText)
		}

		out[h.ID] = domain.WaitTimeRecord{
			HospitalID:  h.ID,
			WaitText:    strings.TrimSpace(s.WaitText),
			WaitMinutes: minutes,
			Severity:    domain.SeverityFor(minutes),
		}
	}

	return out, nil
}
