package edgetype

import (
	"fmt"
	"math"

	"github.com/paulmach/orb"

	"github.com/Benny93/tripgraph/internal/geo"
	"github.com/Benny93/tripgraph/internal/graph"
	"github.com/Benny93/tripgraph/internal/routing"
)

// turnDegreesPerSecond converts a turn angle into a delay: one second per
// twenty degrees.
const turnDegreesPerSecond = 20

// Turn is the cost of changing heading between two consecutive street
// edges. It runs from the end of the incoming edge to the start of the
// outgoing one.
type Turn struct {
	graph.Endpoints
	angle int
}

// NewTurn creates the turn from in onto out.
func NewTurn(in, out graph.Edge) (*Turn, error) {
	inBearing, ok := geo.LastBearing(in.Geometry())
	if !ok {
		return nil, fmt.Errorf("%w: incoming edge %s", ErrNoGeometry, in.Name())
	}
	outBearing, ok := geo.FirstBearing(out.Geometry())
	if !ok {
		return nil, fmt.Errorf("%w: outgoing edge %s", ErrNoGeometry, out.Name())
	}
	return NewTurnFromBearings(in.To(), out.From(), inBearing, outBearing)
}

// NewTurnFromBearings creates a turn between two vertices given the
// bearings, in degrees, of the arriving and departing directions. Any
// finite bearing is accepted.
func NewTurnFromBearings(from, to string, inBearing, outBearing float64) (*Turn, error) {
	if !finite(inBearing) || !finite(outBearing) {
		return nil, fmt.Errorf("%w: in=%v out=%v", ErrInvalidBearing, inBearing, outBearing)
	}
	return &Turn{
		Endpoints: graph.NewEndpoints(from, to),
		angle:     TurnAngle(inBearing, outBearing),
	}, nil
}

// TurnAngle returns the deflection between two bearings in whole degrees,
// in [0, 180]. The difference is reduced modulo 360 before truncation so
// huge bearings stay in range. A NaN or infinite input yields 0.
func TurnAngle(inBearing, outBearing float64) int {
	d := math.Mod(math.Abs(inBearing-outBearing), 360)
	if math.IsNaN(d) {
		return 0
	}
	a := int(d)
	if a > 180 {
		a = 360 - a
	}
	return a
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

// Angle returns the turn angle in degrees.
func (t *Turn) Angle() int { return t.angle }

func (t *Turn) Name() string { return "" }
func (t *Turn) Distance() float64 { return 0 }
func (t *Turn) Geometry() orb.LineString { return nil }

// Traverse adds angle/20 whole seconds and angle/20 weight.
func (t *Turn) Traverse(s *graph.State, _ *routing.Request) (*graph.State, bool) {
	ed := s.Edit(t)
	ed.IncrementTimeInSeconds(t.angle / turnDegreesPerSecond)
	ed.IncrementWeight(float64(t.angle) / turnDegreesPerSecond)
	return ed.MakeState(), true
}

func (t *Turn) String() string {
	return fmt.Sprintf("Turn(%s -> %s, %d°)", t.From(), t.To(), t.angle)
}
