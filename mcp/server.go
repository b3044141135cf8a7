// Package mcp provides the MCP (Model Context Protocol) inspection server for tripgraph.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/Benny93/tripgraph/internal/edgetype"
	"github.com/Benny93/tripgraph/internal/graph"
	"github.com/Benny93/tripgraph/internal/routing"
)

const (
	serverName    = "tripgraph"
	serverVersion = "0.1.0"
)

// Server exposes request validation, turn costs and router state as MCP
// tools and resources.
type Server struct {
	builder  atomic.Pointer[routing.Builder]
	gatherer prometheus.Gatherer
	logger   *zap.Logger
	server   *mcp.Server
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithGatherer sets the registry read by the trip://metrics resource.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) { s.gatherer = g }
}

// Tool represents an MCP tool.
type Tool struct {
	Name        string
	Description string
	InputSchema *jsonschema.Schema
}

// Resource represents an MCP resource.
type Resource struct {
	URI         string
	Name        string
	Description string
	MimeType    string
}

// NewServer creates a server that builds requests with b and registers
// every tool and resource with the protocol server.
func NewServer(b *routing.Builder, opts ...Option) *Server {
	s := &Server{
		logger: zap.NewNop(),
	}
	s.builder.Store(b)
	for _, opt := range opts {
		opt(s)
	}

	s.server = mcp.NewServer(&mcp.Implementation{
		Name:    serverName,
		Version: serverVersion,
	}, nil)

	for _, tool := range s.ListTools() {
		mcp.AddTool(s.server, &mcp.Tool{
			Name:        tool.Name,
			Description: tool.Description,
			InputSchema: tool.InputSchema,
		}, s.toolHandler(tool.Name))
	}
	for _, res := range s.ListResources() {
		s.server.AddResource(&mcp.Resource{
			URI:         res.URI,
			Name:        res.Name,
			Description: res.Description,
			MIMEType:    res.MimeType,
		}, s.resourceHandler(res.MimeType))
	}

	return s
}

// SetBuilder replaces the builder used by later tool calls. It is safe to
// call while the server runs.
func (s *Server) SetBuilder(b *routing.Builder) {
	s.builder.Store(b)
	s.logger.Info("builder replaced")
}

// Run serves one session over t until the peer disconnects or ctx is
// cancelled, in which case it returns ctx.Err().
func (s *Server) Run(ctx context.Context, t mcp.Transport) error {
	if t == nil {
		return errors.New("transport must not be nil")
	}
	return s.server.Run(ctx, t)
}

// ListTools returns all registered tools.
func (s *Server) ListTools() []Tool {
	num := func(desc string) *jsonschema.Schema { return &jsonschema.Schema{Type: "number", Description: desc} }
	integer := func(desc string) *jsonschema.Schema { return &jsonschema.Schema{Type: "integer", Description: desc} }
	str := func(desc string) *jsonschema.Schema { return &jsonschema.Schema{Type: "string", Description: desc} }
	boolean := func(desc string) *jsonschema.Schema { return &jsonschema.Schema{Type: "boolean", Description: desc} }

	return []Tool{
		{
			Name:        "trip_validate_request",
			Description: "Apply router defaults to trip parameters and validate them. Returns the effective request or the configuration error.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"from":      str("Origin, \"lat,lon\" or a vertex label"),
					"to":        str("Destination, \"lat,lon\" or a vertex label"),
					"date_time": str("Departure (or arrival) time in RFC 3339"),
					"arrive_by": boolean("Search backwards from the destination"),
					"intermediate_places": {
						Type:        "array",
						Items:       &jsonschema.Schema{Type: "string"},
						Description: "Places to visit between origin and destination",
					},
					"intermediate_places_ordered": boolean("Visit intermediate places in the given order"),
					"wheelchair":                  boolean("Require wheelchair accessible edges"),
					"walk_speed":                  num("Walking speed in m/s"),
					"max_walk_distance":           num("Maximum walking distance in metres"),
					"triangle_safety_factor":      num("Bicycle safety weight"),
					"triangle_slope_factor":       num("Bicycle slope weight"),
					"triangle_time_factor":        num("Bicycle time weight"),
					"optimize":                    str("QUICK, SAFE, FLAT, GREENWAYS, TRIANGLE or TRANSFERS"),
					"modes":                       str("Comma separated mode list, e.g. TRANSIT,WALK"),
					"min_transfer_time":           integer("Minimum transfer time in seconds"),
					"max_transfers":               integer("Maximum number of transfers"),
					"transfer_penalty":            integer("Extra weight per transfer"),
					"num_itineraries":             integer("Number of itineraries to return"),
					"preferred_routes":            str("Comma separated agency_route ids"),
					"unpreferred_routes":          str("Comma separated agency_route ids"),
					"banned_routes":               str("Comma separated agency_route ids"),
				},
			},
		},
		{
			Name:        "trip_turn_angle",
			Description: "Cost of turning from one street heading onto another.",
			InputSchema: &jsonschema.Schema{
				Type: "object",
				Properties: map[string]*jsonschema.Schema{
					"in":  num("Bearing of the arriving edge in degrees"),
					"out": num("Bearing of the departing edge in degrees"),
				},
				Required: []string{"in", "out"},
			},
		},
	}
}

// ListResources returns all registered resources.
func (s *Server) ListResources() []Resource {
	return []Resource{
		{
			URI:         "trip://defaults",
			Name:        "Router Defaults",
			Description: "Values applied to every parameter a request leaves unset",
			MimeType:    "application/json",
		},
		{
			URI:         "trip://metrics",
			Name:        "Metrics",
			Description: "Current values of the tripgraph counters",
			MimeType:    "text/plain",
		},
		{
			URI:         "trip://schema",
			Name:        "Graph Schema",
			Description: "Vertex types, edge kinds and traversal modes",
			MimeType:    "text/plain",
		},
	}
}

// CallTool executes a tool with the given arguments. Invalid trip
// parameters are reported in the result text, not as an error.
func (s *Server) CallTool(ctx context.Context, name string, args map[string]any) (string, error) {
	switch name {
	case "trip_validate_request":
		p, err := paramsFromArgs(args)
		if err != nil {
			return "", err
		}
		return handleValidateRequest(s.builder.Load(), p), nil
	case "trip_turn_angle":
		in, okIn := args["in"].(float64)
		out, okOut := args["out"].(float64)
		if !okIn || !okOut {
			return "", fmt.Errorf("in and out bearings are required")
		}
		return handleTurnAngle(s.builder.Load(), in, out)
	default:
		return "", fmt.Errorf("unknown tool: %s", name)
	}
}

// ReadResource reads a resource by URI.
func (s *Server) ReadResource(ctx context.Context, uri string) (string, error) {
	switch uri {
	case "trip://defaults":
		return getDefaults(s.builder.Load())
	case "trip://metrics":
		return getMetrics(s.gatherer)
	case "trip://schema":
		return getSchema(), nil
	default:
		return "", fmt.Errorf("unknown resource: %s", uri)
	}
}

// toolHandler adapts CallTool to the protocol server. Errors become tool
// results flagged IsError.
func (s *Server) toolHandler(name string) mcp.ToolHandlerFor[map[string]any, any] {
	return func(ctx context.Context, _ *mcp.CallToolRequest, args map[string]any) (*mcp.CallToolResult, any, error) {
		s.logger.Debug("handling tool call", zap.String("tool", name))
		text, err := s.CallTool(ctx, name, args)
		if err != nil {
			s.logger.Warn("tool call failed", zap.String("tool", name), zap.Error(err))
			return nil, nil, err
		}
		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: text}},
		}, nil, nil
	}
}

func (s *Server) resourceHandler(mimeType string) mcp.ResourceHandler {
	return func(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
		uri := req.Params.URI
		s.logger.Debug("reading resource", zap.String("uri", uri))
		text, err := s.ReadResource(ctx, uri)
		if err != nil {
			return nil, err
		}
		return &mcp.ReadResourceResult{
			Contents: []*mcp.ResourceContents{{URI: uri, MIMEType: mimeType, Text: text}},
		}, nil
	}
}

// Tool Handlers

func handleValidateRequest(b *routing.Builder, p routing.Params) string {
	req, err := b.Build(p)
	if err != nil {
		return fmt.Sprintf("## Request rejected\n\nReason: `%s`\n\n%s\n", routing.Reason(err), err)
	}
	return FormatRequest(req)
}

// FormatRequest renders the effective values of a validated request as markdown.
func FormatRequest(req *routing.Request) string {
	var sb strings.Builder
	sb.WriteString("## Request valid\n\n")
	fmt.Fprintf(&sb, "- **id:** %s\n", req.ID)
	if req.From != "" || req.To != "" {
		fmt.Fprintf(&sb, "- **from:** %s\n- **to:** %s\n", req.From, req.To)
	}
	fmt.Fprintf(&sb, "- **date_time:** %s (arrive_by: %t, planned_for_now: %t)\n",
		req.DateTime.Format("2006-01-02T15:04:05Z07:00"), req.ArriveBy, req.TripPlannedForNow)
	fmt.Fprintf(&sb, "- **modes:** %s\n", req.Modes)
	fmt.Fprintf(&sb, "- **optimize:** %s\n", req.Optimize)
	if req.Triangle != nil {
		fmt.Fprintf(&sb, "- **triangle:** safety %.3f, slope %.3f, time %.3f\n",
			req.Triangle.Safety, req.Triangle.Slope, req.Triangle.Time)
	}
	fmt.Fprintf(&sb, "- **walk:** %.2f m/s, max %.0f m, reluctance %.2f\n",
		req.WalkSpeed, req.MaxWalkDistance, req.WalkReluctance)
	fmt.Fprintf(&sb, "- **transfers:** max %d, min time %d s, penalty %d, board cost %d\n",
		req.MaxTransfers, req.MinTransferTime, req.TransferPenalty, req.BoardCost)
	fmt.Fprintf(&sb, "- **wheelchair:** %t\n", req.Wheelchair)
	if len(req.IntermediatePlaces) > 0 {
		fmt.Fprintf(&sb, "- **intermediate_places:** %s (ordered: %t)\n",
			strings.Join(req.IntermediatePlaces, "; "), req.IntermediatePlacesOrdered)
	}
	for _, r := range []struct {
		name string
		set  routing.RouteSet
	}{
		{"preferred_routes", req.PreferredRoutes},
		{"unpreferred_routes", req.UnpreferredRoutes},
		{"banned_routes", req.BannedRoutes},
	} {
		if r.set.Len() > 0 {
			fmt.Fprintf(&sb, "- **%s:** %s\n", r.name, r.set)
		}
	}
	fmt.Fprintf(&sb, "- **num_itineraries:** %d\n", req.NumItineraries)
	return sb.String()
}

// handleTurnAngle traverses a single turn from a fresh state so the
// reported cost is exactly what a search would pay.
func handleTurnAngle(b *routing.Builder, in, out float64) (string, error) {
	req, err := b.Build(routing.Params{})
	if err != nil {
		return "", fmt.Errorf("building default request: %w", err)
	}

	turn, err := edgetype.NewTurnFromBearings("in", "out", in, out)
	if err != nil {
		return "", err
	}
	start := graph.NewState(turn.From(), req)
	end, ok := turn.Traverse(start, req)
	if !ok {
		return "", fmt.Errorf("turn %s is not traversable", turn)
	}

	var sb strings.Builder
	sb.WriteString("## Turn cost\n\n")
	fmt.Fprintf(&sb, "- **bearings:** %.1f° -> %.1f°\n", in, out)
	fmt.Fprintf(&sb, "- **angle:** %d°\n", turn.Angle())
	fmt.Fprintf(&sb, "- **time:** %d s\n", end.ElapsedSeconds())
	fmt.Fprintf(&sb, "- **weight:** %.2f\n", end.Weight())
	return sb.String(), nil
}

// Resource Handlers

func getDefaults(b *routing.Builder) (string, error) {
	data, err := json.MarshalIndent(b.Defaults(), "", "  ")
	if err != nil {
		return "", fmt.Errorf("encoding defaults: %w", err)
	}
	return string(data), nil
}

func getMetrics(g prometheus.Gatherer) (string, error) {
	if g == nil {
		return "Metrics are not enabled.\n", nil
	}
	families, err := g.Gather()
	if err != nil {
		return "", fmt.Errorf("gathering metrics: %w", err)
	}

	var sb strings.Builder
	for _, mf := range families {
		fmt.Fprintf(&sb, "# HELP %s %s\n", mf.GetName(), mf.GetHelp())
		fmt.Fprintf(&sb, "# TYPE %s %s\n", mf.GetName(), strings.ToLower(mf.GetType().String()))
		for _, m := range mf.GetMetric() {
			labels := make([]string, 0, len(m.GetLabel()))
			for _, l := range m.GetLabel() {
				labels = append(labels, fmt.Sprintf("%s=%q", l.GetName(), l.GetValue()))
			}
			sort.Strings(labels)

			var value float64
			switch {
			case m.GetCounter() != nil:
				value = m.GetCounter().GetValue()
			case m.GetGauge() != nil:
				value = m.GetGauge().GetValue()
			case m.GetUntyped() != nil:
				value = m.GetUntyped().GetValue()
			default:
				continue
			}

			if len(labels) == 0 {
				fmt.Fprintf(&sb, "%s %g\n", mf.GetName(), value)
			} else {
				fmt.Fprintf(&sb, "%s{%s} %g\n", mf.GetName(), strings.Join(labels, ","), value)
			}
		}
	}
	if sb.Len() == 0 {
		return "No metrics recorded.\n", nil
	}
	return sb.String(), nil
}

func getSchema() string {
	var sb strings.Builder
	sb.WriteString("# tripgraph Graph Schema\n\n")
	sb.WriteString("## Vertex Types\n\n")
	sb.WriteString("| Type | Description |\n")
	sb.WriteString("|------|-------------|\n")
	for _, v := range []struct {
		kind graph.VertexType
		desc string
	}{
		{graph.VertexIntersection, "Street network node"},
		{graph.VertexTransitStop, "Stop where vehicles board and alight"},
		{graph.VertexElevatorOnboard, "Inside an elevator at one level"},
		{graph.VertexElevatorOffboard, "Outside an elevator at one level"},
		{graph.VertexStreetLocation, "Temporary vertex split into a street edge"},
	} {
		fmt.Fprintf(&sb, "| `%s` | %s |\n", v.kind, v.desc)
	}

	sb.WriteString("\n## Edge Kinds\n\n")
	sb.WriteString("| Kind | Effect on state |\n")
	sb.WriteString("|------|-----------------|\n")
	sb.WriteString("| `street` | time length/speed; weight by mode and objective; walk distance |\n")
	sb.WriteString("| `turn` | angle/20 seconds and weight |\n")
	sb.WriteString("| `elevator_board` | board cost and time |\n")
	sb.WriteString("| `elevator_hop` | hop cost and time per level |\n")
	sb.WriteString("| `elevator_alight` | weight 1 |\n")
	sb.WriteString("| `free` | weight 1 |\n")
	sb.WriteString("| `board` | boarding cost, transfer wait and penalties; enters the route |\n")
	sb.WriteString("| `hop` | scheduled run time between stops |\n")
	sb.WriteString("| `alight` | leaves the route |\n")

	sb.WriteString("\n## Permissions\n\n")
	for _, p := range []edgetype.Permission{
		edgetype.PermissionNone,
		edgetype.PermissionPedestrian,
		edgetype.PermissionBicycle,
		edgetype.PermissionCar,
		edgetype.PermissionPedestrianAndBicycle,
		edgetype.PermissionAll,
	} {
		fmt.Fprintf(&sb, "- `%s`\n", p)
	}

	sb.WriteString("\n## Optimize Types\n\n")
	for _, o := range []routing.OptimizeType{
		routing.OptimizeQuick,
		routing.OptimizeSafe,
		routing.OptimizeFlat,
		routing.OptimizeGreenways,
		routing.OptimizeTriangle,
		routing.OptimizeTransfers,
	} {
		fmt.Fprintf(&sb, "- `%s`\n", o)
	}
	return sb.String()
}
