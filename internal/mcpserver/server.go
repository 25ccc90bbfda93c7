package mcpserver

import (
	"ae-dashboard-service/internal/dashboard"
	"ae-dashboard-service/internal/services"
	"log"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/server"
)

const (
	serverName    = "HK A&E Waiting Times"
	serverVersion = "1.0.0"
)

// Server exposes the dashboard operations as MCP tools. A stdio server has
// exactly one client, so it owns a single dashboard session.
type Server struct {
	dash  *services.Dashboard
	state *dashboard.State
	mcp   *server.MCPServer
}

func New(dash *services.Dashboard) *Server {
	s := &Server{
		dash:  dash,
		state: dashboard.NewState(uuid.NewString()),
		mcp: server.NewMCPServer(
			serverName,
			serverVersion,
			server.WithLogging(),
			server.WithRecovery(),
			server.WithToolCapabilities(false),
		),
	}

	for _, t := range s.tools() {
		s.mcp.AddTool(t.Tool, t.Handler)
	}

	return s
}

// ServeStdio blocks serving JSON-RPC over stdin/stdout.
func (s *Server) ServeStdio() error {
	names := make([]string, 0, len(s.tools()))
	for _, t := range s.tools() {
		names = append(names, t.Tool.Name)
	}
	slices.Sort(names)

	log.Printf("mcp server ready session=%s tools=%s", s.state.ID(), strings.Join(names, ","))
	return server.ServeStdio(s.mcp)
}

func (s *Server) tools() []server.ServerTool {
	return []server.ServerTool{
		{Tool: getWaitTimesTool(), Handler: s.handleGetWaitTimes},
		{Tool: refreshWaitTimesTool(), Handler: s.handleRefreshWaitTimes},
		{Tool: searchHospitalsTool(), Handler: s.handleSearchHospitals},
		{Tool: selectHospitalTool(), Handler: s.handleSelectHospital},
		{Tool: planRouteTool(), Handler: s.handlePlanRoute},
		{Tool: nearestHospitalsTool(), Handler: s.handleNearestHospitals},
	}
}
