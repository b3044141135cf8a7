package graph

import (
	"fmt"
	"time"

	"github.com/Benny93/tripgraph/internal/routing"
)

// State is one point of a search: where it is, what it has cost and how it
// got there. States are immutable; edges derive successors through
// Edit and StateEditor.
type State struct {
	vertex    string
	backEdge  Edge
	backState *State

	// Unix seconds.
	time      int64
	startTime int64

	weight       float64
	mode         routing.TraverseMode
	walkDistance float64

	numBoardings     int
	route            string
	lastAlightedTime int64
	alighted         bool
	everBoarded      bool

	arriveBy bool
}

// NewState returns the initial state of a search at vertex. The search
// runs backwards when req.ArriveBy is set.
func NewState(vertex string, req *routing.Request) *State {
	t := req.DateTime.Unix()
	return &State{
		vertex:    vertex,
		time:      t,
		startTime: t,
		mode:      streetMode(req),
		arriveBy:  req.ArriveBy,
	}
}

// streetMode is the first of WALK, BICYCLE and CAR that req enables, or
// WALK when none is.
func streetMode(req *routing.Request) routing.TraverseMode {
	for _, m := range []routing.TraverseMode{routing.ModeWalk, routing.ModeBicycle, routing.ModeCar} {
		if req.Modes.Contains(m) {
			return m
		}
	}
	return routing.ModeWalk
}

func (s *State) Vertex() string { return s.vertex }
func (s *State) BackEdge() Edge { return s.backEdge }
func (s *State) BackState() *State { return s.backState }
func (s *State) Time() int64 { return s.time }
func (s *State) StartTime() int64 { return s.startTime }
func (s *State) Weight() float64 { return s.weight }
func (s *State) Mode() routing.TraverseMode { return s.mode }
func (s *State) WalkDistance() float64 { return s.walkDistance }
func (s *State) NumBoardings() int { return s.numBoardings }
func (s *State) Route() string { return s.route }
func (s *State) EverBoarded() bool { return s.everBoarded }
func (s *State) ArriveBy() bool { return s.arriveBy }

// LastAlightedTime returns when the state last left a vehicle. The second
// result is false if it never has.
func (s *State) LastAlightedTime() (int64, bool) {
	return s.lastAlightedTime, s.alighted
}

// ElapsedSeconds returns the time between the start of the search and s.
// It grows along a path in both search directions.
func (s *State) ElapsedSeconds() int64 {
	d := s.time - s.startTime
	if d < 0 {
		return -d
	}
	return d
}

// At returns the state's clock as a time.
func (s *State) At() time.Time {
	return time.Unix(s.time, 0).UTC()
}

// NonTransitMode returns the street mode to continue in after leaving a
// vehicle. A state already in a street mode keeps it.
func (s *State) NonTransitMode(req *routing.Request) routing.TraverseMode {
	if !s.mode.IsTransit() {
		return s.mode
	}
	return streetMode(req)
}

// OnBoard reports whether the state is riding a transit vehicle.
func (s *State) OnBoard() bool {
	return s.mode.IsTransit()
}

// Path returns the states from the origin of the search to s.
func (s *State) Path() []*State {
	var path []*State
	for cur := s; cur != nil; cur = cur.backState {
		path = append(path, cur)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Edit starts a successor of s across e. In a forward search the successor
// is at e.To(), in a backward search at e.From().
func (s *State) Edit(e Edge) *StateEditor {
	child := *s
	child.backEdge = e
	child.backState = s
	if s.arriveBy {
		child.vertex = e.From()
	} else {
		child.vertex = e.To()
	}
	return &StateEditor{child: &child}
}

func (s *State) String() string {
	return fmt.Sprintf("<State %s t=%d w=%.2f %s>", s.vertex, s.time, s.weight, s.mode)
}
