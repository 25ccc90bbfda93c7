package mcpserver

import (
	"ae-dashboard-service/internal/domain"
	"ae-dashboard-service/internal/platform/obs"
	"ae-dashboard-service/internal/services"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
)

const bestCount = 3

func getWaitTimesTool() mcp.Tool {
	return mcp.NewTool(
		"get_wait_times",
		mcp.WithDescription("List current A&E waiting times for Hong Kong public hospitals. Data older than the refresh interval is fetched again. When the live feed is unavailable the result is a static fallback dataset and source is \"fallback\"."),
		mcp.WithString("sort",
			mcp.Description("Ordering of the entries"),
			mcp.Enum("shortest", "longest", "name", "name_desc"),
		),
		mcp.WithString("district",
			mcp.Description("Comma-separated districts or regions to keep, e.g. \"Kowloon\" or \"Sha Tin,Tai Po\""),
		),
		mcp.WithString("wait",
			mcp.Description("Waiting time band to keep"),
			mcp.Enum("all", "under_2h", "2_4h", "over_4h"),
		),
	)
}

func refreshWaitTimesTool() mcp.Tool {
	return mcp.NewTool(
		"refresh_wait_times",
		mcp.WithDescription("Fetch waiting times from the Hospital Authority feed now, ignoring the refresh interval."),
	)
}

func searchHospitalsTool() mcp.Tool {
	return mcp.NewTool(
		"search_hospitals",
		mcp.WithDescription("Find hospitals by id, name or address. An empty query lists every hospital."),
		mcp.WithString("query",
			mcp.Description("Search term, case-insensitive"),
		),
	)
}

func selectHospitalTool() mcp.Tool {
	return mcp.NewTool(
		"select_hospital",
		mcp.WithDescription("Select a hospital by id. plan_route uses the selection when no hospital_id is given."),
		mcp.WithString("hospital_id",
			mcp.Required(),
			mcp.Description("Hospital id, e.g. QMH"),
		),
	)
}

func planRouteTool() mcp.Tool {
	return mcp.NewTool(
		"plan_route",
		mcp.WithDescription("Plan a route from an origin to a hospital. Returns the fastest option with distance, duration and traffic, plus alternatives."),
		mcp.WithString("origin",
			mcp.Required(),
			mcp.Description("Place name in Hong Kong, or a \"lat,lon\" pair"),
		),
		mcp.WithString("hospital_id",
			mcp.Description("Hospital id; defaults to the selected hospital"),
		),
		mcp.WithString("mode",
			mcp.Description("Transport mode"),
			mcp.Enum("driving", "walking", "cycling"),
		),
	)
}

func nearestHospitalsTool() mcp.Tool {
	return mcp.NewTool(
		"nearest_hospitals",
		mcp.WithDescription("List the hospitals closest to an origin by straight-line distance, with their current waiting times."),
		mcp.WithString("origin",
			mcp.Required(),
			mcp.Description("Place name in Hong Kong, or a \"lat,lon\" pair"),
		),
		mcp.WithNumber("limit",
			mcp.Description("How many hospitals to return, 1 to 20 (default 5)"),
		),
	)
}

type waitTimeEntry struct {
	HospitalID  string `json:"hospital_id"`
	Name        string `json:"name"`
	District    string `json:"district"`
	Region      string `json:"region"`
	WaitText    string `json:"wait_text"`
	WaitMinutes int    `json:"wait_minutes"`
	Severity    string `json:"severity"`
}

type waitTimesResult struct {
	Source    string          `json:"source"`
	UpdatedAt string          `json:"updated_at,omitempty"`
	Freshness string          `json:"freshness"`
	Entries   []waitTimeEntry `json:"entries"`
	Best      []waitTimeEntry `json:"best"`
	Summary   summary         `json:"summary"`
}

type hospitalResult struct {
	ID       string         `json:"id"`
	Name     string         `json:"name"`
	Address  string         `json:"address"`
	Phone    string         `json:"phone"`
	District string         `json:"district"`
	Region   string         `json:"region"`
	Lat      float64        `json:"lat"`
	Lon      float64        `json:"lon"`
	WaitTime *waitTimeEntry `json:"wait_time,omitempty"`
}

type summary struct {
	Count           int            `json:"count"`
	AverageMinutes  float64        `json:"average_minutes"`
	MedianMinutes   float64        `json:"median_minutes"`
	ShortestMinutes int            `json:"shortest_minutes"`
	LongestMinutes  int            `json:"longest_minutes"`
	WithinHour      int            `json:"within_hour"`
	OverThreeHours  int            `json:"over_three_hours"`
	BySeverity      map[string]int `json:"by_severity"`
}

type nearbyResult struct {
	Hospital       hospitalResult `json:"hospital"`
	DistanceMeters int            `json:"distance_meters"`
}

type routeOption struct {
	Name            string `json:"name"`
	DistanceMeters  int    `json:"distance_meters"`
	DurationSeconds int    `json:"duration_seconds"`
	DelaySeconds    int    `json:"traffic_delay_seconds"`
	Traffic         string `json:"traffic"`
}

type routeResult struct {
	Origin       string        `json:"origin"`
	HospitalID   string        `json:"hospital_id"`
	HospitalName string        `json:"hospital_name"`
	Mode         string        `json:"mode"`
	Route        routeOption   `json:"route"`
	Alternatives []routeOption `json:"alternatives"`
}

func (s *Server) handleGetWaitTimes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = withToolID(ctx)

	opts, err := services.ParseRankOptions(
		request.GetString("sort", ""),
		request.GetString("district", ""),
		request.GetString("wait", ""),
	)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	snap := s.dash.WaitTimes(ctx, s.state)
	return jsonResult(s.waitTimes(snap, opts))
}

func (s *Server) handleRefreshWaitTimes(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap := s.dash.Refresh(withToolID(ctx), s.state)
	return jsonResult(s.waitTimes(snap, services.RankOptions{Sort: services.SortShortest}))
}

func (s *Server) handleSearchHospitals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	found := s.dash.Catalog.Search(request.GetString("query", ""))

	res := make([]hospitalResult, 0, len(found))
	for _, h := range found {
		res = append(res, s.hospital(h))
	}
	return jsonResult(res)
}

func (s *Server) handleSelectHospital(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("hospital_id")
	if err != nil {
		return mcp.NewToolResultError("hospital_id is required"), nil
	}

	h, err := s.dash.SelectHospital(s.state, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("unknown hospital %q", id)), nil
	}
	return jsonResult(s.hospital(h))
}

func (s *Server) handlePlanRoute(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = withToolID(ctx)

	origin, err := request.RequireString("origin")
	if err != nil {
		return mcp.NewToolResultError("origin is required"), nil
	}

	res, err := s.dash.PlanRoute(ctx, s.state, origin, request.GetString("hospital_id", ""), request.GetString("mode", ""))
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrNotFound):
		return mcp.NewToolResultError("unknown hospital"), nil
	case errors.Is(err, domain.ErrInput):
		return mcp.NewToolResultError(err.Error()), nil
	default:
		log.Printf("req_id=%s route unavailable: %v", obs.RequestID(ctx), err)
		return mcp.NewToolResultError("route unavailable"), nil
	}

	h, _ := s.dash.Catalog.Get(res.HospitalID)
	out := routeResult{
		Origin:       res.Origin,
		HospitalID:   res.HospitalID,
		HospitalName: h.Name,
		Mode:         string(res.Mode),
		Route:        toRouteOption(res.Route),
		Alternatives: make([]routeOption, 0, len(res.Alternatives)),
	}
	for _, alt := range res.Alternatives {
		out.Alternatives = append(out.Alternatives, toRouteOption(alt))
	}
	return jsonResult(out)
}

func (s *Server) handleNearestHospitals(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	ctx = withToolID(ctx)

	origin, err := request.RequireString("origin")
	if err != nil {
		return mcp.NewToolResultError("origin is required"), nil
	}

	limit := request.GetInt("limit", 5)
	if limit < 1 || limit > 20 {
		return mcp.NewToolResultError("limit must be between 1 and 20"), nil
	}

	_, near, err := s.dash.Nearest(ctx, s.state, origin, limit)
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrInput):
		return mcp.NewToolResultError(err.Error()), nil
	default:
		log.Printf("req_id=%s location lookup unavailable: %v", obs.RequestID(ctx), err)
		return mcp.NewToolResultError("location lookup unavailable"), nil
	}

	out := make([]nearbyResult, 0, len(near))
	for _, n := range near {
		out = append(out, nearbyResult{Hospital: s.hospital(n.Hospital), DistanceMeters: n.DistanceMeters})
	}
	return jsonResult(out)
}

func (s *Server) waitTimes(snap domain.Snapshot, opts services.RankOptions) waitTimesResult {
	entries := services.Entries(s.dash.Catalog, snap)
	ranked := services.Rank(entries, opts)

	return waitTimesResult{
		Source:    string(snap.Source()),
		UpdatedAt: snap.UpdatedAt(),
		Freshness: services.Freshness(s.state.View().LastRefreshedAt, time.Now()),
		Entries:   toEntries(ranked),
		Best:      toEntries(services.BestOptions(entries, bestCount)),
		Summary:   toSummary(services.Summarize(ranked)),
	}
}

// hospital attaches the wait time from the current snapshot, if any.
// It never refreshes.
func (s *Server) hospital(h domain.Hospital) hospitalResult {
	res := hospitalResult{
		ID:       h.ID,
		Name:     h.Name,
		Address:  h.Address,
		Phone:    h.Phone,
		District: h.District,
		Region:   h.Region,
		Lat:      h.Coordinates.Lat,
		Lon:      h.Coordinates.Lon,
	}
	if rec, ok := s.state.View().Snapshot.Record(h.ID); ok {
		e := toEntry(services.Entry{Hospital: h, Record: rec})
		res.WaitTime = &e
	}
	return res
}

func toEntries(entries []services.Entry) []waitTimeEntry {
	out := make([]waitTimeEntry, 0, len(entries))
	for _, e := range entries {
		out = append(out, toEntry(e))
	}
	return out
}

func toEntry(e services.Entry) waitTimeEntry {
	return waitTimeEntry{
		HospitalID:  e.Hospital.ID,
		Name:        e.Hospital.Name,
		District:    e.Hospital.District,
		Region:      e.Hospital.Region,
		WaitText:    e.Record.WaitText,
		WaitMinutes: e.Record.WaitMinutes,
		Severity:    string(e.Record.Severity),
	}
}

func toSummary(st services.Stats) summary {
	out := summary{
		Count:           st.Count,
		AverageMinutes:  st.AverageMinutes,
		MedianMinutes:   st.MedianMinutes,
		ShortestMinutes: st.ShortestMinutes,
		LongestMinutes:  st.LongestMinutes,
		WithinHour:      st.WithinHour,
		OverThreeHours:  st.OverThreeHours,
		BySeverity:      make(map[string]int, len(st.BySeverity)),
	}
	for sev, n := range st.BySeverity {
		out.BySeverity[string(sev)] = n
	}
	return out
}

func toRouteOption(o domain.RouteOption) routeOption {
	return routeOption{
		Name:            o.Name,
		DistanceMeters:  o.DistanceMeters,
		DurationSeconds: o.DurationSeconds,
		DelaySeconds:    o.TrafficDelaySeconds,
		Traffic:         string(o.Traffic),
	}
}

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode tool result: %w", err)
	}
	return mcp.NewToolResultText(string(b)), nil
}

// withToolID tags a tool call for log correlation, like an HTTP request id.
func withToolID(ctx context.Context) context.Context {
	return obs.WithRequestID(ctx, "mcp-"+uuid.NewString()[:8])
}
