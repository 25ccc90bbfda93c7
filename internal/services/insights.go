package services

import (
	"ae-dashboard-service/internal/catalog"
	"ae-dashboard-service/internal/domain"
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Entry joins a hospital with its wait-time record for display.
type Entry struct {
	Hospital domain.Hospital
	Record   domain.WaitTimeRecord
}

// Entries joins snap with the catalog, sorted by hospital name.
// Records without a catalog hospital are skipped.
func Entries(cat *catalog.Catalog, snap domain.Snapshot) []Entry {
	out := make([]Entry, 0, snap.Len())
	for id, r := range snap.Records() {
		h, ok := cat.Get(id)
		if !ok {
			continue
		}
		out = append(out, Entry{Hospital: h, Record: r})
	}

	slices.SortFunc(out, func(a, b Entry) int { return cmp.Compare(a.Hospital.Name, b.Hospital.Name) })
	return out
}

type SortOrder string

const (
	SortShortest SortOrder = "shortest"
	SortLongest  SortOrder = "longest"
	SortName     SortOrder = "name"
	SortNameDesc SortOrder = "name_desc"
)

type WaitBand string

const (
	WaitAll     WaitBand = ""
	WaitUnder2h WaitBand = "under_2h"
	Wait2to4h   WaitBand = "2_4h"
	WaitOver4h  WaitBand = "over_4h"
)

type RankOptions struct {
	Sort      SortOrder
	Districts []string
	Wait      WaitBand
}

// ParseRankOptions reads query-string style options. district may list
// several districts separated by commas.
func ParseRankOptions(sortBy, district, wait string) (RankOptions, error) {
	opts := RankOptions{Sort: SortShortest}

	switch s := SortOrder(strings.ToLower(strings.TrimSpace(sortBy))); s {
	case "":
	case SortShortest, SortLongest, SortName, SortNameDesc:
		opts.Sort = s
	default:
		return RankOptions{}, fmt.Errorf("unsupported sort %q: %w", sortBy, domain.ErrInput)
	}

	for _, d := range strings.Split(district, ",") {
		if d = strings.TrimSpace(d); d != "" {
			opts.Districts = append(opts.Districts, d)
		}
	}

	switch w := WaitBand(strings.ToLower(strings.TrimSpace(wait))); w {
	case WaitAll, "all", WaitUnder2h, Wait2to4h, WaitOver4h:
		if w != "all" {
			opts.Wait = w
		}
	default:
		return RankOptions{}, fmt.Errorf("unsupported wait filter %q: %w", wait, domain.ErrInput)
	}

	return opts, nil
}

// Rank filters and orders entries. The input slice is not modified.
func Rank(entries []Entry, opts RankOptions) []Entry {
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if !inDistricts(e.Hospital, opts.Districts) || !inBand(e.Record.WaitMinutes, opts.Wait) {
			continue
		}
		out = append(out, e)
	}

	byName := func(a, b Entry) int { return cmp.Compare(a.Hospital.Name, b.Hospital.Name) }

	switch opts.Sort {
	case SortLongest:
		slices.SortStableFunc(out, func(a, b Entry) int {
			if c := cmp.Compare(b.Record.WaitMinutes, a.Record.WaitMinutes); c != 0 {
				return c
			}
			return byName(a, b)
		})
	case SortName:
		slices.SortStableFunc(out, byName)
	case SortNameDesc:
		slices.SortStableFunc(out, func(a, b Entry) int { return byName(b, a) })
	default:
		slices.SortStableFunc(out, func(a, b Entry) int {
			if c := cmp.Compare(a.Record.WaitMinutes, b.Record.WaitMinutes); c != 0 {
				return c
			}
			return byName(a, b)
		})
	}

	return out
}

func inDistricts(h domain.Hospital, districts []string) bool {
	if len(districts) == 0 {
		return true
	}
	for _, d := range districts {
		if strings.EqualFold(d, h.District) || strings.EqualFold(d, h.Region) {
			return true
		}
	}
	return false
}

func inBand(minutes int, band WaitBand) bool {
	switch band {
	case WaitUnder2h:
		return minutes < 120
	case Wait2to4h:
		return minutes >= 120 && minutes <= 240
	case WaitOver4h:
		return minutes > 240
	default:
		return true
	}
}

// Stats summarizes wait minutes across entries.
type Stats struct {
	Count           int
	AverageMinutes  float64
	MedianMinutes   float64
	ShortestMinutes int
	LongestMinutes  int
	WithinHour      int
	OverThreeHours  int
	BySeverity      map[domain.Severity]int
}

func Summarize(entries []Entry) Stats {
	st := Stats{BySeverity: make(map[domain.Severity]int, len(domain.Severities))}
	for _, sev := range domain.Severities {
		st.BySeverity[sev] = 0
	}

	if len(entries) == 0 {
		return st
	}

	minutes := make([]int, 0, len(entries))
	sum := 0
	for _, e := range entries {
		m := e.Record.WaitMinutes
		minutes = append(minutes, m)
		sum += m

		if m <= 60 {
			st.WithinHour++
		}
		if m > 180 {
			st.OverThreeHours++
		}
		st.BySeverity[e.Record.Severity]++
	}

	slices.Sort(minutes)
	n := len(minutes)

	st.Count = n
	st.AverageMinutes = float64(sum) / float64(n)
	st.ShortestMinutes = minutes[0]
	st.LongestMinutes = minutes[n-1]
	if n%2 == 1 {
		st.MedianMinutes = float64(minutes[n/2])
	} else {
		st.MedianMinutes = float64(minutes[n/2-1]+minutes[n/2]) / 2
	}

	return st
}

// BestOptions returns up to n entries with the shortest waits.
func BestOptions(entries []Entry, n int) []Entry {
	ranked := Rank(entries, RankOptions{Sort: SortShortest})
	if n < len(ranked) {
		ranked = ranked[:n]
	}
	return ranked
}

// Freshness describes how long ago last was, relative to now.
func Freshness(last, now time.Time) string {
	if last.IsZero() {
		return "No data fetched yet"
	}

	minutes := int(now.Sub(last).Minutes())
	switch {
	case minutes < 1:
		return "Just now"
	case minutes < 60:
		return fmt.Sprintf("%d %s ago", minutes, plural(minutes, "minute"))
	default:
		hours := minutes / 60
		return fmt.Sprintf("%d %s ago", hours, plural(hours, "hour"))
	}
}

func plural(n int, unit string) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
