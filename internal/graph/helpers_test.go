package graph

import (
	"testing"
	"time"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/tripgraph/internal/routing"
)

// stepEdge costs one unit of weight and ten seconds.
type stepEdge struct {
	Endpoints
	name string
}

func newStepEdge(from, to string) *stepEdge {
	return &stepEdge{Endpoints: NewEndpoints(from, to), name: from + "->" + to}
}

func (e *stepEdge) Name() string { return e.name }
func (e *stepEdge) Distance() float64 { return 10 }
func (e *stepEdge) Geometry() orb.LineString { return nil }

func (e *stepEdge) Traverse(s *State, _ *routing.Request) (*State, bool) {
	ed := s.Edit(e)
	ed.IncrementWeight(1)
	ed.IncrementTimeInSeconds(10)
	return ed.MakeState(), true
}

var testTime = time.Date(2024, 5, 14, 8, 0, 0, 0, time.UTC)

func testRequest(arriveBy bool, modes routing.ModeSet) *routing.Request {
	return &routing.Request{DateTime: testTime, ArriveBy: arriveBy, Modes: modes}
}

// buildGraph adds one intersection per label.
func buildGraph(t *testing.T, labels ...string) *Graph {
	t.Helper()
	g := New()
	for i, l := range labels {
		require.NoError(t, g.AddVertex(NewVertex(l, -122.6+float64(i)*0.001, 45.5, VertexIntersection)))
	}
	return g
}

func mustAddEdge(t *testing.T, g *Graph, from, to string) EdgeID {
	t.Helper()
	id, err := g.AddEdge(newStepEdge(from, to))
	require.NoError(t, err)
	return id
}
