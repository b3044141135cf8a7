package edgetype

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/Benny93/tripgraph/internal/geo"
	"github.com/Benny93/tripgraph/internal/graph"
	"github.com/Benny93/tripgraph/internal/routing"
)

// greenwaySafetyFactor is the bicycle safety factor at or below which a
// street counts as a greenway.
const greenwaySafetyFactor = 0.1

// greenwayBonus scales the weight of greenways under the GREENWAYS objective.
const greenwayBonus = 0.66

// StreetEdge is a street segment walked, cycled or driven in one direction.
type StreetEdge struct {
	graph.Endpoints
	access

	name     string
	geometry orb.LineString
	length   float64

	// bicycleSafety multiplies length into the safety-weighted length.
	// Values below 1 mark streets that are pleasant to cycle.
	bicycleSafety float64

	// slopeLength is the length adjusted for the effort of the gradient.
	slopeLength float64
}

// StreetOption configures a StreetEdge.
type StreetOption func(*StreetEdge)

// WithWheelchairAccessible sets whether wheelchair users can use the street.
// Streets are accessible by default.
func WithWheelchairAccessible(ok bool) StreetOption {
	return func(e *StreetEdge) { e.wheelchairAccessible = ok }
}

// WithBicycleSafety sets the bicycle safety factor. The default is 1.
func WithBicycleSafety(f float64) StreetOption {
	return func(e *StreetEdge) { e.bicycleSafety = f }
}

// WithSlopeLength sets the slope-adjusted length in metres. The default is
// the plain length.
func WithSlopeLength(m float64) StreetOption {
	return func(e *StreetEdge) { e.slopeLength = m }
}

// WithLength overrides the length computed from the geometry.
func WithLength(m float64) StreetOption {
	return func(e *StreetEdge) { e.length = m }
}

// NewStreetEdge creates a street edge. Its length is the great-circle length
// of geometry unless WithLength is given.
func NewStreetEdge(from, to, name string, geometry orb.LineString, perm Permission, opts ...StreetOption) *StreetEdge {
	e := &StreetEdge{
		Endpoints:     graph.NewEndpoints(from, to),
		access:        access{permission: perm, wheelchairAccessible: true},
		name:          name,
		geometry:      geometry,
		length:        geo.Length(geometry),
		bicycleSafety: 1,
		slopeLength:   -1,
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.slopeLength < 0 {
		e.slopeLength = e.length
	}
	return e
}

func (e *StreetEdge) Name() string { return e.name }
func (e *StreetEdge) Distance() float64 { return e.length }
func (e *StreetEdge) Geometry() orb.LineString { return e.geometry }

// BicycleSafety returns the bicycle safety factor.
func (e *StreetEdge) BicycleSafety() float64 { return e.bicycleSafety }

// SlopeLength returns the slope-adjusted length in metres.
func (e *StreetEdge) SlopeLength() float64 { return e.slopeLength }

// Traverse crosses the street in the state's mode. It rejects states riding
// a vehicle, modes the street does not permit, inaccessible streets for
// wheelchair requests and walks beyond the maximum walk distance.
func (e *StreetEdge) Traverse(s *graph.State, req *routing.Request) (*graph.State, bool) {
	if s.OnBoard() {
		return nil, false
	}
	mode := s.Mode()
	if !e.admits(mode, req) {
		return nil, false
	}
	walking := mode == routing.ModeWalk
	if walking && s.WalkDistance()+e.length > req.MaxWalkDistance {
		return nil, false
	}

	speed := req.SpeedFor(mode)
	secs := int(math.Ceil(e.length / speed))

	ed := s.Edit(e)
	ed.IncrementTimeInSeconds(secs)
	ed.IncrementWeight(e.weight(mode, secs, speed, req))
	if walking {
		ed.IncrementWalkDistance(e.length)
	}
	return ed.MakeState(), true
}

func (e *StreetEdge) weight(mode routing.TraverseMode, secs int, speed float64, req *routing.Request) float64 {
	switch mode {
	case routing.ModeWalk:
		return float64(secs) * req.WalkReluctance
	case routing.ModeBicycle:
	default:
		return float64(secs)
	}

	safetyLength := e.length * e.bicycleSafety
	switch req.Optimize {
	case routing.OptimizeSafe:
		return safetyLength / speed
	case routing.OptimizeFlat:
		return e.slopeLength / speed
	case routing.OptimizeGreenways:
		w := safetyLength / speed
		if e.bicycleSafety <= greenwaySafetyFactor {
			w *= greenwayBonus
		}
		return w
	case routing.OptimizeTriangle:
		t := req.Triangle
		if t == nil {
			return float64(secs)
		}
		return (t.Time*e.length + t.Slope*e.slopeLength + t.Safety*safetyLength) / speed
	default:
		return float64(secs)
	}
}

func (e *StreetEdge) String() string {
	return fmt.Sprintf("StreetEdge(%s, %s -> %s, %.1fm)", e.name, e.From(), e.To(), e.length)
}
