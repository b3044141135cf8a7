package edgetype

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/Benny93/tripgraph/internal/graph"
	"github.com/Benny93/tripgraph/internal/routing"
)

// An elevator is modelled as a chain: ElevatorBoardEdge from a street
// vertex onto a per-floor onboard vertex, ElevatorHopEdge between onboard
// vertices of adjacent floors, and ElevatorAlightEdge back off. All three
// check accessibility against the street mode the traveller would use and
// leave the state's mode unchanged.

type elevatorEdge struct {
	graph.Endpoints
	access
}

func newElevatorEdge(from, to string, perm Permission, wheelchairAccessible bool) elevatorEdge {
	return elevatorEdge{
		Endpoints: graph.NewEndpoints(from, to),
		access:    access{permission: perm, wheelchairAccessible: wheelchairAccessible},
	}
}

func (e *elevatorEdge) Name() string { return "" }
func (e *elevatorEdge) Distance() float64 { return 0 }
func (e *elevatorEdge) Geometry() orb.LineString { return nil }

// cross applies the shared checks and the given cost. self is the outer
// edge so the successor's back edge is the concrete kind.
func (e *elevatorEdge) cross(self graph.Edge, s *graph.State, req *routing.Request, cost, secs int) (*graph.State, bool) {
	if !e.admits(s.NonTransitMode(req), req) {
		return nil, false
	}
	ed := s.Edit(self)
	ed.IncrementWeight(float64(cost))
	ed.IncrementTimeInSeconds(secs)
	return ed.MakeState(), true
}

// ElevatorBoardEdge enters an elevator car.
type ElevatorBoardEdge struct {
	elevatorEdge
}

// NewElevatorBoardEdge creates an edge onto an elevator.
func NewElevatorBoardEdge(from, to string, perm Permission, wheelchairAccessible bool) *ElevatorBoardEdge {
	return &ElevatorBoardEdge{newElevatorEdge(from, to, perm, wheelchairAccessible)}
}

// Traverse adds the request's elevator boarding cost and time.
func (e *ElevatorBoardEdge) Traverse(s *graph.State, req *routing.Request) (*graph.State, bool) {
	return e.cross(e, s, req, req.ElevatorBoardCost, req.ElevatorBoardTime)
}

func (e *ElevatorBoardEdge) String() string {
	return fmt.Sprintf("ElevatorBoardEdge(%s -> %s)", e.From(), e.To())
}

// ElevatorHopEdge moves an elevator car one floor.
type ElevatorHopEdge struct {
	elevatorEdge
}

// NewElevatorHopEdge creates an edge between two floors of an elevator.
func NewElevatorHopEdge(from, to string, perm Permission, wheelchairAccessible bool) *ElevatorHopEdge {
	return &ElevatorHopEdge{newElevatorEdge(from, to, perm, wheelchairAccessible)}
}

// Traverse adds the request's elevator hop cost and time.
func (e *ElevatorHopEdge) Traverse(s *graph.State, req *routing.Request) (*graph.State, bool) {
	return e.cross(e, s, req, req.ElevatorHopCost, req.ElevatorHopTime)
}

func (e *ElevatorHopEdge) String() string {
	return fmt.Sprintf("ElevatorHopEdge(%s -> %s)", e.From(), e.To())
}

// ElevatorAlightEdge leaves an elevator car.
type ElevatorAlightEdge struct {
	elevatorEdge
}

// NewElevatorAlightEdge creates an edge off an elevator.
func NewElevatorAlightEdge(from, to string, perm Permission, wheelchairAccessible bool) *ElevatorAlightEdge {
	return &ElevatorAlightEdge{newElevatorEdge(from, to, perm, wheelchairAccessible)}
}

// Traverse adds a unit weight and no time.
func (e *ElevatorAlightEdge) Traverse(s *graph.State, req *routing.Request) (*graph.State, bool) {
	return e.cross(e, s, req, 1, 0)
}

func (e *ElevatorAlightEdge) String() string {
	return fmt.Sprintf("ElevatorAlightEdge(%s -> %s)", e.From(), e.To())
}
