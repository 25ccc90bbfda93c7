package dashboard

import (
	"ae-dashboard-service/internal/domain"
	"context"
	"sync"
	"testing"
	"time"
)

var fixedTime = time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)

func sampleRoute(hospitalID string) domain.RouteResult {
	return domain.RouteResult{
		Origin:     "Central",
		HospitalID: hospitalID,
		Mode:       domain.ModeDriving,
		Route: domain.RouteOption{
			DistanceMeters:  5000,
			DurationSeconds: 900,
			Geometry:        []domain.Coordinates{{Lon: 114.158, Lat: 22.2819}},
		},
		Alternatives: []domain.RouteOption{},
	}
}

func TestSelectHospitalLastWriteWins(t *testing.T) {
	st := NewState("s1")

	st.SelectHospital("QMH")
	st.SelectHospital("PWH")

	if got := st.View().SelectedHospitalID; got != "PWH" {
		t.Fatalf("selected = %q, want PWH", got)
	}
}

func TestSelectingAnotherHospitalDiscardsRoute(t *testing.T) {
	st := NewState("s1")
	st.SelectHospital("QMH")
	st.SetRoute(sampleRoute("QMH"))

	st.SelectHospital("QMH")
	if st.View().Route == nil {
		t.Fatal("reselecting the same hospital must keep the route")
	}

	st.SelectHospital("RH")
	if st.View().Route != nil {
		t.Fatal("route must be discarded when the selection changes")
	}
}

func TestApplyRefreshReplacesSnapshot(t *testing.T) {
	st := NewState("s1")

	first := domain.Live(map[string]domain.WaitTimeRecord{
		"QMH": {WaitText: "1 hour", WaitMinutes: 60},
		"PWH": {WaitText: "2 hours", WaitMinutes: 120},
	}, fixedTime, "", nil)
	second := domain.Live(map[string]domain.WaitTimeRecord{
		"RH": {WaitText: "30 minutes", WaitMinutes: 30},
	}, fixedTime.Add(time.Minute), "", nil)

	st.ApplyRefresh(first, fixedTime)
	st.ApplyRefresh(second, fixedTime.Add(time.Minute))

	v := st.View()
	if v.Snapshot.Len() != 1 {
		t.Fatalf("expected only the second snapshot, got %d records", v.Snapshot.Len())
	}
	if _, ok := v.Snapshot.Record("QMH"); ok {
		t.Fatal("records from the first refresh must not survive")
	}
	if !v.LastRefreshedAt.Equal(fixedTime.Add(time.Minute)) {
		t.Fatalf("lastRefreshedAt = %v", v.LastRefreshedAt)
	}
}

func TestViewIsACopy(t *testing.T) {
	st := NewState("s1")
	st.SetRoute(sampleRoute("QMH"))

	v := st.View()
	v.Route.Route.Geometry[0].Lon = 0
	v.Route.HospitalID = "XXX"

	again := st.View()
	if again.Route.HospitalID != "QMH" || again.Route.Route.Geometry[0].Lon != 114.158 {
		t.Fatalf("view mutation leaked into state: %+v", again.Route)
	}

	st.ClearRoute()
	if st.View().Route != nil {
		t.Fatal("ClearRoute left a route behind")
	}
}

func TestContextRoundTrip(t *testing.T) {
	st := NewState("s1")

	got, ok := FromContext(NewContext(context.Background(), st))
	if !ok || got != st {
		t.Fatal("state lost in context")
	}

	if _, ok := FromContext(context.Background()); ok {
		t.Fatal("empty context must not yield a state")
	}
}

func TestStateConcurrentUse(t *testing.T) {
	st := NewState("s1")
	snap := domain.Live(map[string]domain.WaitTimeRecord{
		"QMH": {WaitText: "1 hour", WaitMinutes: 60},
	}, fixedTime, "", nil)
	ids := []string{"QMH", "PWH", "RH"}

	var wg sync.WaitGroup
	for i := range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range 50 {
				id := ids[(i+j)%len(ids)]
				switch j % 4 {
				case 0:
					st.SelectHospital(id)
				case 1:
					st.ApplyRefresh(snap, fixedTime.Add(time.Duration(j)*time.Second))
				case 2:
					st.SetRoute(sampleRoute(id))
				default:
					v := st.View()
					if v.Route != nil && len(v.Route.Route.Geometry) != 1 {
						t.Errorf("torn route in view: %+v", v.Route)
					}
				}
			}
		}()
	}
	wg.Wait()

	v := st.View()
	if v.Snapshot.Len() != 1 {
		t.Fatalf("snapshot len = %d", v.Snapshot.Len())
	}
	if v.LastRefreshedAt.IsZero() {
		t.Fatal("lastRefreshedAt never set")
	}
}
