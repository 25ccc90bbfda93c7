package services

import (
	"ae-dashboard-service/internal/catalog"
	"ae-dashboard-service/internal/dashboard"
	"ae-dashboard-service/internal/domain"
	"ae-dashboard-service/internal/ports"
	"context"
	"fmt"
	"strings"
	"time"
)

// Dashboard wires the per-session State to the wait-time fetcher and the
// route service. Every call runs synchronously in the caller's goroutine.
type Dashboard struct {
	Catalog         *catalog.Catalog
	Fetcher         ports.WaitTimeFetcher
	Routes          *RouteService
	RefreshInterval time.Duration
	Now             func() time.Time
}

func NewDashboard(cat *catalog.Catalog, fetcher ports.WaitTimeFetcher, routes *RouteService, refreshInterval time.Duration) *Dashboard {
	return &Dashboard{
		Catalog:         cat,
		Fetcher:         fetcher,
		Routes:          routes,
		RefreshInterval: refreshInterval,
		Now:             time.Now,
	}
}

// Refresh fetches wait times unconditionally and stores them in st.
func (d *Dashboard) Refresh(ctx context.Context, st *dashboard.State) domain.Snapshot {
	snap := d.Fetcher.Refresh(ctx)
	st.ApplyRefresh(snap, d.now())
	return snap
}

// WaitTimes returns the session's snapshot, refreshing first when there is
// none yet or it is older than RefreshInterval.
func (d *Dashboard) WaitTimes(ctx context.Context, st *dashboard.State) domain.Snapshot {
	v := st.View()
	if v.Snapshot.IsZero() || d.stale(v.LastRefreshedAt) {
		return d.Refresh(ctx, st)
	}
	return v.Snapshot
}

func (d *Dashboard) stale(last time.Time) bool {
	return d.RefreshInterval > 0 && d.now().Sub(last) >= d.RefreshInterval
}

func (d *Dashboard) SelectHospital(st *dashboard.State, hospitalID string) (domain.Hospital, error) {
	h, ok := d.Catalog.Get(hospitalID)
	if !ok {
		return domain.Hospital{}, fmt.Errorf("select hospital %q: %w", hospitalID, domain.ErrNotFound)
	}

	st.SelectHospital(h.ID)
	return h, nil
}

// PlanRoute routes to hospitalID, or to the selected hospital when the id is
// empty. A successful route selects its hospital; a failure clears any
// previous route so a stale answer is never shown.
func (d *Dashboard) PlanRoute(ctx context.Context, st *dashboard.State, origin, hospitalID, mode string) (*domain.RouteResult, error) {
	if strings.TrimSpace(hospitalID) == "" {
		hospitalID = st.View().SelectedHospitalID
		if hospitalID == "" {
			return nil, fmt.Errorf("plan route: no hospital selected: %w", domain.ErrInput)
		}
	}

	res, err := d.Routes.GetRoute(ctx, origin, hospitalID, mode)
	if err != nil {
		st.ClearRoute()
		return nil, fmt.Errorf("plan route: %w", err)
	}

	st.SelectHospital(res.HospitalID)
	st.SetRoute(*res)
	return res, nil
}

func (d *Dashboard) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}
