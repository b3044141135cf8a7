package routing

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Benny93/tripgraph/internal/metrics"
)

// Params are the already-parsed inputs of one query. A nil pointer or an
// empty string means the caller did not supply the value.
type Params struct {
	RouterID string
	From     string
	To       string

	IntermediatePlaces        []string
	IntermediatePlacesOrdered *bool

	DateTime *time.Time
	ArriveBy *bool

	Wheelchair      *bool
	WalkSpeed       *float64
	MaxWalkDistance *float64

	TriangleSafetyFactor *float64
	TriangleSlopeFactor  *float64
	TriangleTimeFactor   *float64

	Optimize *OptimizeType
	Modes    *ModeSet

	MinTransferTime *int
	MaxTransfers    *int
	TransferPenalty *int
	NumItineraries  *int

	// Route lists in ParseRouteSet syntax.
	PreferredRoutes   string
	UnpreferredRoutes string
	BannedRoutes      string

	ShowIntermediateStops *bool
	Batch                 *bool
}

// Builder turns Params into validated Requests using router defaults.
// A Builder is safe for concurrent use.
type Builder struct {
	defaults Defaults
	modes    ModeSet
	logger   *zap.Logger
	metrics  *metrics.Metrics
	now      func() time.Time
}

// BuilderOption configures a Builder.
type BuilderOption func(*Builder)

// WithLogger sets the logger used for build outcomes.
func WithLogger(l *zap.Logger) BuilderOption {
	return func(b *Builder) { b.logger = l }
}

// WithMetrics sets the collector for build outcomes.
func WithMetrics(m *metrics.Metrics) BuilderOption {
	return func(b *Builder) { b.metrics = m }
}

// WithClock replaces the wall clock used for the planned-for-now flag and
// for requests without a date-time.
func WithClock(now func() time.Time) BuilderOption {
	return func(b *Builder) { b.now = now }
}

// NewBuilder creates a Builder. It fails if the default mode list or
// objective cannot be parsed.
func NewBuilder(defaults Defaults, opts ...BuilderOption) (*Builder, error) {
	modes, err := ParseModeSet(defaults.Modes)
	if err != nil {
		return nil, fmt.Errorf("parsing default modes: %w", err)
	}
	if defaults.Optimize != OptimizeUnset {
		if _, err := ParseOptimizeType(string(defaults.Optimize)); err != nil {
			return nil, fmt.Errorf("parsing default optimize type: %w", err)
		}
	}

	b := &Builder{
		defaults: defaults,
		modes:    modes,
		logger:   zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b, nil
}

// Defaults returns the defaults the Builder applies.
func (b *Builder) Defaults() Defaults {
	return b.defaults
}

// Build applies defaults to p, validates the result and returns the
// request. The error wraps one of the package's configuration errors.
func (b *Builder) Build(p Params) (*Request, error) {
	req, err := b.build(p)
	reason := Reason(err)
	b.metrics.ObserveRequest(reason)

	if err != nil {
		b.logger.Debug("request rejected", zap.String("reason", reason), zap.Error(err))
		return nil, err
	}

	b.logger.Debug("request built",
		zap.Stringer("id", req.ID),
		zap.Stringer("modes", req.Modes),
		zap.String("optimize", string(req.Optimize)),
		zap.Bool("arrive_by", req.ArriveBy),
		zap.Bool("planned_for_now", req.TripPlannedForNow),
	)
	return req, nil
}

func (b *Builder) build(p Params) (*Request, error) {
	d := b.defaults
	now := b.now()

	req := Request{
		ID:                              uuid.New(),
		RouterID:                        p.RouterID,
		From:                            p.From,
		To:                              p.To,
		DateTime:                        get(p.DateTime, now),
		ArriveBy:                        get(p.ArriveBy, false),
		Modes:                           get(p.Modes, b.modes),
		Wheelchair:                      get(p.Wheelchair, false),
		WalkSpeed:                       get(p.WalkSpeed, d.WalkSpeed),
		BikeSpeed:                       d.BikeSpeed,
		CarSpeed:                        d.CarSpeed,
		WalkReluctance:                  d.WalkReluctance,
		MaxWalkDistance:                 get(p.MaxWalkDistance, d.MaxWalkDistance),
		MinTransferTime:                 get(p.MinTransferTime, d.MinTransferTime),
		MaxTransfers:                    get(p.MaxTransfers, d.MaxTransfers),
		TransferPenalty:                 get(p.TransferPenalty, d.TransferPenalty),
		BoardCost:                       d.BoardCost,
		UnpreferredRoutePenalty:         d.UnpreferredRoutePenalty,
		OtherThanPreferredRoutesPenalty: d.OtherThanPreferredRoutesPenalty,
		NumItineraries:                  get(p.NumItineraries, d.NumItineraries),
		Optimize:                        get(p.Optimize, OptimizeUnset),
		ShowIntermediateStops:           get(p.ShowIntermediateStops, false),
		Batch:                           get(p.Batch, false),
		ElevatorBoardCost:               d.ElevatorBoardCost,
		ElevatorBoardTime:               d.ElevatorBoardTime,
		ElevatorHopCost:                 d.ElevatorHopCost,
		ElevatorHopTime:                 d.ElevatorHopTime,
	}

	if p.TriangleSafetyFactor != nil || p.TriangleSlopeFactor != nil || p.TriangleTimeFactor != nil {
		if p.TriangleSafetyFactor == nil || p.TriangleSlopeFactor == nil || p.TriangleTimeFactor == nil {
			return nil, ErrUnderspecifiedTriangle
		}
		req.Triangle = &TriangleFactors{
			Safety: *p.TriangleSafetyFactor,
			Slope:  *p.TriangleSlopeFactor,
			Time:   *p.TriangleTimeFactor,
		}
	} else if req.Optimize == OptimizeUnset {
		req.Optimize = d.Optimize
	}

	if len(p.IntermediatePlaces) > 0 && p.IntermediatePlaces[0] != "" {
		req.IntermediatePlaces = append([]string(nil), p.IntermediatePlaces...)
		req.IntermediatePlacesOrdered = get(p.IntermediatePlacesOrdered, false)
	}

	var err error
	if req.PreferredRoutes, err = ParseRouteSet(p.PreferredRoutes); err != nil {
		return nil, fmt.Errorf("preferred routes: %w", err)
	}
	if req.UnpreferredRoutes, err = ParseRouteSet(p.UnpreferredRoutes); err != nil {
		return nil, fmt.Errorf("unpreferred routes: %w", err)
	}
	if req.BannedRoutes, err = ParseRouteSet(p.BannedRoutes); err != nil {
		return nil, fmt.Errorf("banned routes: %w", err)
	}

	offset := req.DateTime.Sub(now)
	req.TripPlannedForNow = offset > -NowThreshold && offset < NowThreshold

	validated, err := Validate(req)
	if err != nil {
		return nil, err
	}
	return &validated, nil
}

// get returns *p, or def when p is nil.
func get[T any](p *T, def T) T {
	if p == nil {
		return def
	}
	return *p
}
