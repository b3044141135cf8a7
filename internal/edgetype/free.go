package edgetype

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/Benny93/tripgraph/internal/graph"
	"github.com/Benny93/tripgraph/internal/routing"
)

// FreeEdge links two vertices that are the same place, such as a stop and
// its street location. Crossing it costs a unit weight and no time.
type FreeEdge struct {
	graph.Endpoints
}

// NewFreeEdge creates a free edge.
func NewFreeEdge(from, to string) *FreeEdge {
	return &FreeEdge{graph.NewEndpoints(from, to)}
}

func (e *FreeEdge) Name() string { return "" }
func (e *FreeEdge) Distance() float64 { return 0 }
func (e *FreeEdge) Geometry() orb.LineString { return nil }

func (e *FreeEdge) Traverse(s *graph.State, _ *routing.Request) (*graph.State, bool) {
	ed := s.Edit(e)
	ed.IncrementWeight(1)
	return ed.MakeState(), true
}

func (e *FreeEdge) String() string {
	return fmt.Sprintf("FreeEdge(%s -> %s)", e.From(), e.To())
}
