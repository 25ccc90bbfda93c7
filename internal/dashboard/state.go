package dashboard

import (
	"ae-dashboard-service/internal/domain"
	"sync"
	"time"
)

// State is one user's dashboard session: the selected hospital, the latest
// wait-time snapshot and the current route result.
//
// Handlers receive it explicitly; there is no package-level state. All
// methods are safe for concurrent use because one browser may issue
// overlapping requests.
type State struct {
	mu                 sync.Mutex
	id                 string
	selectedHospitalID string
	snapshot           domain.Snapshot
	lastRefreshedAt    time.Time
	route              *domain.RouteResult
	lastSeen           time.Time
}

// View is a consistent copy of a State for rendering.
type View struct {
	SessionID          string
	SelectedHospitalID string
	Snapshot           domain.Snapshot
	LastRefreshedAt    time.Time
	Route              *domain.RouteResult
}

func NewState(id string) *State {
	return &State{id: id, lastSeen: time.Now()}
}

func (s *State) ID() string { return s.id }

// SelectHospital records the user's selection; the last call wins.
// A route computed for another hospital is discarded.
func (s *State) SelectHospital(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.selectedHospitalID != id {
		s.route = nil
	}
	s.selectedHospitalID = id
}

// ApplyRefresh replaces the snapshot wholesale.
func (s *State) ApplyRefresh(snap domain.Snapshot, at time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.snapshot = snap
	s.lastRefreshedAt = at
}

func (s *State) SetRoute(r domain.RouteResult) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.route = copyRoute(&r)
}

func (s *State) ClearRoute() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.route = nil
}

func (s *State) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	return View{
		SessionID:          s.id,
		SelectedHospitalID: s.selectedHospitalID,
		Snapshot:           s.snapshot,
		LastRefreshedAt:    s.lastRefreshedAt,
		Route:              copyRoute(s.route),
	}
}

func (s *State) touch(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSeen = now
}

func (s *State) idleSince() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.lastSeen
}

func copyRoute(r *domain.RouteResult) *domain.RouteResult {
	if r == nil {
		return nil
	}

	out := *r
	out.Route = copyOption(r.Route)
	out.Alternatives = make([]domain.RouteOption, 0, len(r.Alternatives))
	for _, a := range r.Alternatives {
		out.Alternatives = append(out.Alternatives, copyOption(a))
	}
	return &out
}

func copyOption(o domain.RouteOption) domain.RouteOption {
	o.Geometry = append([]domain.Coordinates(nil), o.Geometry...)
	return o
}
