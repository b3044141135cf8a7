// Package cmd provides the tripgraph command line.
package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/Benny93/tripgraph/internal/config"
	"github.com/Benny93/tripgraph/internal/edgetype"
	"github.com/Benny93/tripgraph/internal/graph"
	"github.com/Benny93/tripgraph/internal/metrics"
	"github.com/Benny93/tripgraph/internal/observability"
	"github.com/Benny93/tripgraph/internal/routing"
	"github.com/Benny93/tripgraph/mcp"
)

// Version is set at build time via ldflags.
var Version = "dev"

// App is the state shared by every command.
type App struct {
	ConfigPath string
	Config     *config.Config
	Builder    *routing.Builder
	Registry   *prometheus.Registry
	Metrics    *metrics.Metrics
	Logger     *zap.Logger

	// Transport carries the MCP session; stdio outside tests.
	Transport mcpsdk.Transport
	Stdout    io.Writer
}

// newBuilder creates a request builder for d that reports to the app's
// logger and metrics.
func (a *App) newBuilder(d routing.Defaults) (*routing.Builder, error) {
	return routing.NewBuilder(d,
		routing.WithLogger(a.Logger.Named("routing")),
		routing.WithMetrics(a.Metrics),
	)
}

// ValidateCmd builds a request from flags and prints its effective values.
type ValidateCmd struct {
	From     string `help:"Origin, \"lat,lon\" or a vertex label"`
	To       string `help:"Destination, \"lat,lon\" or a vertex label"`
	Date     string `help:"Departure (or arrival) time in RFC 3339, default now"`
	ArriveBy bool   `help:"Search backwards from the destination"`

	Intermediate        []string `sep:"none" help:"Intermediate place, repeatable"`
	IntermediateOrdered bool     `help:"Visit intermediate places in order"`

	Wheelchair      bool     `help:"Require wheelchair accessible edges"`
	WalkSpeed       *float64 `help:"Walking speed in m/s"`
	MaxWalkDistance *float64 `help:"Maximum walking distance in metres"`

	TriangleSafety *float64 `help:"Bicycle safety weight"`
	TriangleSlope  *float64 `help:"Bicycle slope weight"`
	TriangleTime   *float64 `help:"Bicycle time weight"`

	Optimize string `help:"QUICK, SAFE, FLAT, GREENWAYS, TRIANGLE or TRANSFERS"`
	Modes    string `help:"Comma separated mode list, e.g. TRANSIT,WALK"`

	MinTransferTime *int `help:"Minimum transfer time in seconds"`
	MaxTransfers    *int `help:"Maximum number of transfers"`
	TransferPenalty *int `help:"Extra weight per transfer"`
	NumItineraries  *int `help:"Number of itineraries"`

	PreferredRoutes   string `help:"Comma separated agency_route ids"`
	UnpreferredRoutes string `help:"Comma separated agency_route ids"`
	BannedRoutes      string `help:"Comma separated agency_route ids"`

	Watch bool `short:"w" help:"Re-validate whenever the config file changes"`
}

// params converts the flags into builder inputs.
func (c *ValidateCmd) params() (routing.Params, error) {
	p := routing.Params{
		From:                 c.From,
		To:                   c.To,
		IntermediatePlaces:   c.Intermediate,
		WalkSpeed:            c.WalkSpeed,
		MaxWalkDistance:      c.MaxWalkDistance,
		TriangleSafetyFactor: c.TriangleSafety,
		TriangleSlopeFactor:  c.TriangleSlope,
		TriangleTimeFactor:   c.TriangleTime,
		MinTransferTime:      c.MinTransferTime,
		MaxTransfers:         c.MaxTransfers,
		TransferPenalty:      c.TransferPenalty,
		NumItineraries:       c.NumItineraries,
		PreferredRoutes:      c.PreferredRoutes,
		UnpreferredRoutes:    c.UnpreferredRoutes,
		BannedRoutes:         c.BannedRoutes,
	}
	// Unset booleans mean false, which is also the builder default.
	if c.ArriveBy {
		p.ArriveBy = &c.ArriveBy
	}
	if c.IntermediateOrdered {
		p.IntermediatePlacesOrdered = &c.IntermediateOrdered
	}
	if c.Wheelchair {
		p.Wheelchair = &c.Wheelchair
	}
	if c.Date != "" {
		t, err := time.Parse(time.RFC3339, c.Date)
		if err != nil {
			return routing.Params{}, fmt.Errorf("parsing --date: %w", err)
		}
		p.DateTime = &t
	}
	if c.Optimize != "" {
		o, err := routing.ParseOptimizeType(c.Optimize)
		if err != nil {
			return routing.Params{}, err
		}
		p.Optimize = &o
	}
	if c.Modes != "" {
		m, err := routing.ParseModeSet(c.Modes)
		if err != nil {
			return routing.Params{}, err
		}
		p.Modes = &m
	}
	return p, nil
}

// Run executes the validate command.
func (c *ValidateCmd) Run(app *App) error {
	p, err := c.params()
	if err != nil {
		return err
	}

	if err := validateAndPrint(app.Stdout, app.Builder, p); err != nil && !c.Watch {
		return err
	}
	if !c.Watch {
		return nil
	}

	if app.ConfigPath == "" {
		return fmt.Errorf("--watch requires --config")
	}

	ctx, stop := signalContext()
	defer stop()

	fmt.Fprintf(app.Stdout, "\nWatching %s for changes (Ctrl+C to stop)\n", app.ConfigPath)
	err = config.Watch(ctx, app.ConfigPath, func(cfg *config.Config) {
		b, err := app.newBuilder(cfg.Routing)
		if err != nil {
			color.New(color.FgRed).Fprintf(app.Stdout, "✗ %v\n", err)
			return
		}
		fmt.Fprintln(app.Stdout)
		_ = validateAndPrint(app.Stdout, b, p)
	}, config.WithWatchLogger(app.Logger.Named("config")))
	if err != nil && !errors.Is(err, context.Canceled) {
		return fmt.Errorf("watch error: %w", err)
	}
	return nil
}

// validateAndPrint builds p with b and prints the outcome. A rejected
// request is printed and returned.
func validateAndPrint(w io.Writer, b *routing.Builder, p routing.Params) error {
	req, err := b.Build(p)
	if err != nil {
		color.New(color.FgRed).Fprintf(w, "✗ Request rejected (%s)\n", routing.Reason(err))
		fmt.Fprintf(w, "  %v\n", err)
		return err
	}

	color.New(color.FgGreen).Fprintln(w, "✓ Request valid")
	key := color.New(color.FgCyan).SprintFunc()
	row := func(name string, format string, args ...any) {
		fmt.Fprintf(w, "  %-18s %s\n", key(name+":"), fmt.Sprintf(format, args...))
	}

	row("id", "%s", req.ID)
	if req.From != "" || req.To != "" {
		row("from", "%s", req.From)
		row("to", "%s", req.To)
	}
	row("date_time", "%s", req.DateTime.Format(time.RFC3339))
	row("arrive_by", "%t", req.ArriveBy)
	row("planned_for_now", "%t", req.TripPlannedForNow)
	row("modes", "%s", req.Modes)
	row("optimize", "%s", req.Optimize)
	if req.Triangle != nil {
		row("triangle", "safety=%.3f slope=%.3f time=%.3f", req.Triangle.Safety, req.Triangle.Slope, req.Triangle.Time)
	}
	row("walk_speed", "%.2f m/s", req.WalkSpeed)
	row("max_walk_distance", "%.0f m", req.MaxWalkDistance)
	row("max_transfers", "%d", req.MaxTransfers)
	row("min_transfer_time", "%d s", req.MinTransferTime)
	row("transfer_penalty", "%d", req.TransferPenalty)
	row("wheelchair", "%t", req.Wheelchair)
	if len(req.IntermediatePlaces) > 0 {
		row("intermediate", "%v (ordered: %t)", req.IntermediatePlaces, req.IntermediatePlacesOrdered)
	}
	if req.BannedRoutes.Len() > 0 {
		row("banned_routes", "%s", req.BannedRoutes)
	}
	row("num_itineraries", "%d", req.NumItineraries)
	return nil
}

// TurnCmd prints the cost of a turn between two bearings.
type TurnCmd struct {
	In  float64 `required:"" help:"Bearing of the arriving edge in degrees"`
	Out float64 `required:"" help:"Bearing of the departing edge in degrees"`
}

// Run executes the turn command.
func (c *TurnCmd) Run(app *App) error {
	req, err := app.Builder.Build(routing.Params{})
	if err != nil {
		return fmt.Errorf("building default request: %w", err)
	}

	turn, err := edgetype.NewTurnFromBearings("in", "out", c.In, c.Out)
	if err != nil {
		return err
	}
	end, ok := turn.Traverse(graph.NewState(turn.From(), req), req)
	if !ok {
		return fmt.Errorf("turn %s is not traversable", turn)
	}

	fmt.Fprintf(app.Stdout, "Angle:   %d°\n", turn.Angle())
	fmt.Fprintf(app.Stdout, "Time:    %d s\n", end.ElapsedSeconds())
	fmt.Fprintf(app.Stdout, "Weight:  %.2f\n", end.Weight())
	return nil
}

// DefaultsCmd prints the effective router defaults.
type DefaultsCmd struct{}

// Run executes the defaults command.
func (c *DefaultsCmd) Run(app *App) error {
	data, err := json.MarshalIndent(app.Config.Routing, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding defaults: %w", err)
	}
	fmt.Fprintln(app.Stdout, string(data))
	return nil
}

// MCPCmd starts the MCP server.
type MCPCmd struct{}

// Run executes the mcp command. With --config the server picks up routing
// defaults from every valid edit of the file.
func (c *MCPCmd) Run(app *App) error {
	ctx, stop := signalContext()
	defer stop()

	server := mcp.NewServer(app.Builder,
		mcp.WithLogger(app.Logger.Named("mcp")),
		mcp.WithGatherer(app.Registry),
	)

	if app.ConfigPath != "" {
		go func() {
			err := config.Watch(ctx, app.ConfigPath, func(cfg *config.Config) {
				b, err := app.newBuilder(cfg.Routing)
				if err != nil {
					app.Logger.Warn("keeping previous defaults", zap.Error(err))
					return
				}
				server.SetBuilder(b)
			}, config.WithWatchLogger(app.Logger.Named("config")))
			if err != nil && !errors.Is(err, context.Canceled) {
				app.Logger.Error("config watch stopped", zap.Error(err))
			}
		}()
	}

	// stdout carries JSON-RPC only; diagnostics go to the logger.
	app.Logger.Info("mcp server starting")
	err := server.Run(ctx, app.Transport)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

// Helper functions

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
}

// CLI is the root Kong command structure.
type CLI struct {
	Version  kong.VersionFlag `help:"Show version information"`
	Config   string           `short:"c" type:"path" help:"Path to a YAML config file (default ./tripgraph.yaml if present)"`
	LogLevel string           `help:"Override the configured log level (debug, info, warn, error)"`

	// Commands
	Validate ValidateCmd `cmd:"" help:"Apply defaults to trip parameters and validate them"`
	Turn     TurnCmd     `cmd:"" help:"Show the cost of a turn between two bearings"`
	Defaults DefaultsCmd `cmd:"" help:"Print the effective router defaults as JSON"`
	MCP      MCPCmd      `cmd:"" help:"Start MCP server (stdio transport)"`

	transport mcpsdk.Transport
	stdout    io.Writer
	stderr    io.Writer
	newLogger func(config.LoggerConfig) *zap.Logger
}

// NewCLI creates a new CLI instance bound to the process streams.
func NewCLI() *CLI {
	return &CLI{
		transport: &mcpsdk.StdioTransport{},
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		newLogger: observability.InitializeLogger,
	}
}

// Execute parses command-line arguments and executes the selected command.
func (c *CLI) Execute(args []string) error {
	parser, err := kong.New(c,
		kong.Name("tripgraph"),
		kong.Description("Multimodal trip graph traversal core"),
		kong.UsageOnError(),
		kong.Writers(c.stdout, c.stderr),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{
			"version": Version,
		},
	)
	if err != nil {
		return err
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	app, err := c.newApp()
	if err != nil {
		return err
	}
	defer observability.Sync()

	return kongCtx.Run(app)
}

// newApp loads configuration and wires logging, metrics and the request
// builder.
func (c *CLI) newApp() (*App, error) {
	cfg, err := config.LoadFile(c.Config)
	if err != nil {
		return nil, err
	}
	if c.LogLevel != "" {
		if _, err := zapcore.ParseLevel(c.LogLevel); err != nil {
			return nil, fmt.Errorf("invalid --log-level: %w", err)
		}
		cfg.Logger.Level = c.LogLevel
	}

	reg := prometheus.NewRegistry()
	app := &App{
		ConfigPath: c.Config,
		Config:     cfg,
		Registry:   reg,
		Metrics:    metrics.New(reg),
		Logger:     c.newLogger(cfg.Logger),
		Transport:  c.transport,
		Stdout:     c.stdout,
	}

	app.Builder, err = app.newBuilder(cfg.Routing)
	if err != nil {
		return nil, fmt.Errorf("invalid routing defaults: %w", err)
	}
	return app, nil
}
