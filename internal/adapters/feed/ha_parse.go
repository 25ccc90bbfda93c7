package feed

import (
	"ae-dashboard-service/internal/catalog"
	"ae-dashboard-service/internal/domain"
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

type feedPayload struct {
	WaitTime   *[]json.RawMessage `json:"waitTime"`
	UpdateTime string             `json:"updateTime"`
}

type feedEntry struct {
	HospName string `json:"hospName"`
	TopWait  string `json:"topWait"`
}

// parseFeed decodes the HA payload into records keyed by hospital id.
//
// Entries may be objects ({"hospName", "topWait"}) or two-element arrays.
// Malformed entries and entries with unparseable wait text are skipped;
// hospitals unknown to the catalog are skipped and reported in dropped.
// The first entry for a hospital wins. A payload with no usable entry is
// an ErrParse.
func parseFeed(body []byte, cat *catalog.Catalog) (map[string]domain.WaitTimeRecord, string, []string, error) {
	var p feedPayload
	if err := json.Unmarshal(body, &p); err != nil {
		return nil, "", nil, fmt.Errorf("decode feed: %w: %w", domain.ErrParse, err)
	}

	if p.WaitTime == nil {
		return nil, "", nil, fmt.Errorf("decode feed: missing waitTime array: %w", domain.ErrParse)
	}

	records := make(map[string]domain.WaitTimeRecord, len(*p.WaitTime))
	dropped := make([]string, 0)
	invalid := 0

	for _, raw := range *p.WaitTime {
		e, ok := decodeEntry(raw)
		if !ok {
			invalid++
			continue
		}

		minutes, ok := domain.ParseWaitText(e.TopWait)
		if !ok {
			invalid++
			continue
		}

		h, ok := cat.Lookup(e.HospName)
		if !ok {
			dropped = append(dropped, e.HospName)
			continue
		}

		if _, seen := records[h.ID]; seen {
			continue
		}

		records[h.ID] = domain.WaitTimeRecord{
			HospitalID:  h.ID,
			WaitText:    e.TopWait,
			WaitMinutes: minutes,
			Severity:    domain.SeverityFor(minutes),
		}
	}

	if len(records) == 0 {
		return nil, "", nil, fmt.Errorf(
			"decode feed: no usable entries (entries=%d invalid=%d unknown=%d): %w",
			len(*p.WaitTime), invalid, len(dropped), domain.ErrParse,
		)
	}

	return records, strings.TrimSpace(p.UpdateTime), dropped, nil
}

func decodeEntry(raw json.RawMessage) (feedEntry, bool) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return feedEntry{}, false
	}

	var e feedEntry
	switch raw[0] {
	case '{':
		if err := json.Unmarshal(raw, &e); err != nil {
			return feedEntry{}, false
		}
	case '[':
		var pair []string
		if err := json.Unmarshal(raw, &pair); err != nil || len(pair) < 2 {
			return feedEntry{}, false
		}
		e = feedEntry{HospName: pair[0], TopWait: pair[1]}
	default:
		return feedEntry{}, false
	}

	e.HospName = strings.Join(strings.Fields(e.HospName), " ")
	e.TopWait = strings.TrimSpace(e.TopWait)
	if e.HospName == "" || e.TopWait == "" {
		return feedEntry{}, false
	}

	return e, true
}
