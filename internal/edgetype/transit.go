package edgetype

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/Benny93/tripgraph/internal/graph"
	"github.com/Benny93/tripgraph/internal/routing"
)

// Transit edges connect a stop vertex to the onboard vertex of one route
// at that stop. BoardEdge runs stop to vehicle, HopEdge vehicle to vehicle
// and AlightEdge vehicle to stop. In a backward search BoardEdge alights
// and AlightEdge boards, so a reversed path applies the same policy.

type transitEdge struct {
	graph.Endpoints
	route                string
	mode                 routing.TraverseMode
	wheelchairAccessible bool
}

func newTransitEdge(from, to, route string, mode routing.TraverseMode, wheelchairAccessible bool) (transitEdge, error) {
	if !mode.IsTransit() {
		return transitEdge{}, fmt.Errorf("%w: %s", ErrNotTransitMode, mode)
	}
	return transitEdge{
		Endpoints:            graph.NewEndpoints(from, to),
		route:                route,
		mode:                 mode,
		wheelchairAccessible: wheelchairAccessible,
	}, nil
}

func (e *transitEdge) Name() string { return e.route }
func (e *transitEdge) Distance() float64 { return 0 }
func (e *transitEdge) Geometry() orb.LineString { return nil }
func (e *transitEdge) Route() string { return e.route }
func (e *transitEdge) Mode() routing.TraverseMode { return e.mode }
func (e *transitEdge) WheelchairAccessible() bool { return e.wheelchairAccessible }

// board puts s on the edge's route.
func (e *transitEdge) board(self graph.Edge, s *graph.State, req *routing.Request) (*graph.State, bool) {
	switch {
	case s.OnBoard(),
		!req.Modes.Contains(e.mode),
		req.BannedRoutes.Contains(e.route),
		req.Wheelchair && !e.wheelchairAccessible,
		s.NumBoardings() > req.MaxTransfers:
		return nil, false
	}

	ed := s.Edit(self)
	weight := float64(req.BoardCost)

	if at, ok := s.LastAlightedTime(); ok {
		weight += float64(req.TransferPenalty)
		waited := s.Time() - at
		if waited < 0 {
			waited = -waited
		}
		if wait := int64(req.MinTransferTime) - waited; wait > 0 {
			ed.IncrementTimeInSeconds(int(wait))
			weight += float64(wait)
		}
	}

	if req.UnpreferredRoutes.Contains(e.route) {
		weight += float64(req.UnpreferredRoutePenalty)
	}
	if req.PreferredRoutes.Len() > 0 && !req.PreferredRoutes.Contains(e.route) {
		weight += float64(req.OtherThanPreferredRoutesPenalty)
	}

	ed.SetMode(e.mode)
	ed.SetRoute(e.route)
	ed.IncrementNumBoardings()
	ed.IncrementWeight(weight)
	return ed.MakeState(), true
}

// alight takes s off the edge's route.
func (e *transitEdge) alight(self graph.Edge, s *graph.State, req *routing.Request) (*graph.State, bool) {
	if !s.OnBoard() || s.Route() != e.route {
		return nil, false
	}
	ed := s.Edit(self)
	ed.SetMode(s.NonTransitMode(req))
	ed.SetRoute("")
	ed.MarkAlighted()
	return ed.MakeState(), true
}

// BoardEdge boards a route at a stop.
type BoardEdge struct {
	transitEdge
}

// NewBoardEdge creates a boarding from stop vertex from onto the vehicle
// vertex to.
func NewBoardEdge(from, to, route string, mode routing.TraverseMode, wheelchairAccessible bool) (*BoardEdge, error) {
	te, err := newTransitEdge(from, to, route, mode, wheelchairAccessible)
	if err != nil {
		return nil, err
	}
	return &BoardEdge{te}, nil
}

func (e *BoardEdge) Traverse(s *graph.State, req *routing.Request) (*graph.State, bool) {
	if s.ArriveBy() {
		return e.alight(e, s, req)
	}
	return e.board(e, s, req)
}

func (e *BoardEdge) String() string {
	return fmt.Sprintf("BoardEdge(%s %s -> %s)", e.route, e.From(), e.To())
}

// AlightEdge leaves a route at a stop.
type AlightEdge struct {
	transitEdge
}

// NewAlightEdge creates an alighting from vehicle vertex from onto the stop
// vertex to.
func NewAlightEdge(from, to, route string, mode routing.TraverseMode, wheelchairAccessible bool) (*AlightEdge, error) {
	te, err := newTransitEdge(from, to, route, mode, wheelchairAccessible)
	if err != nil {
		return nil, err
	}
	return &AlightEdge{te}, nil
}

func (e *AlightEdge) Traverse(s *graph.State, req *routing.Request) (*graph.State, bool) {
	if s.ArriveBy() {
		return e.board(e, s, req)
	}
	return e.alight(e, s, req)
}

func (e *AlightEdge) String() string {
	return fmt.Sprintf("AlightEdge(%s %s -> %s)", e.route, e.From(), e.To())
}

// HopEdge rides a route between two consecutive stops.
type HopEdge struct {
	transitEdge
	runTime int
}

// NewHopEdge creates a ride of runTime seconds between two vehicle vertices.
func NewHopEdge(from, to, route string, mode routing.TraverseMode, runTime int) (*HopEdge, error) {
	if runTime < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidRunTime, runTime)
	}
	te, err := newTransitEdge(from, to, route, mode, true)
	if err != nil {
		return nil, err
	}
	return &HopEdge{transitEdge: te, runTime: runTime}, nil
}

// RunTime returns the ride time in seconds.
func (e *HopEdge) RunTime() int { return e.runTime }

func (e *HopEdge) Traverse(s *graph.State, _ *routing.Request) (*graph.State, bool) {
	if !s.OnBoard() || s.Route() != e.route {
		return nil, false
	}
	ed := s.Edit(e)
	ed.IncrementTimeInSeconds(e.runTime)
	ed.IncrementWeight(float64(e.runTime))
	return ed.MakeState(), true
}

func (e *HopEdge) String() string {
	return fmt.Sprintf("HopEdge(%s %s -> %s, %ds)", e.route, e.From(), e.To(), e.runTime)
}
