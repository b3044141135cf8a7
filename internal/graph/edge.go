package graph

import (
	"github.com/paulmach/orb"

	"github.com/Benny93/tripgraph/internal/routing"
)

// EdgeID identifies an edge within its Graph. Ids start at 1; zero means
// the edge has not been added.
type EdgeID int64

// Endpoints carries an edge's id and the labels of its endpoints. Edge
// kinds embed it; only the Graph assigns the id or re-points the endpoints.
type Endpoints struct {
	id   EdgeID
	from string
	to   string
}

// NewEndpoints returns endpoints for an edge from one vertex label to another.
func NewEndpoints(from, to string) Endpoints {
	return Endpoints{from: from, to: to}
}

func (e *Endpoints) ID() EdgeID { return e.id }
func (e *Endpoints) From() string { return e.from }
func (e *Endpoints) To() string { return e.to }
func (e *Endpoints) endpoints() *Endpoints { return e }

// Edge is a directed connection between two vertices.
//
// Traverse returns the state reached by crossing the edge from s, or false
// when the edge cannot be crossed under req. In a backward (arriveBy)
// search the traversal runs from To to From. Traverse must not modify s.
//
// The interface is sealed: implementations embed Endpoints.
type Edge interface {
	ID() EdgeID
	From() string
	To() string
	Name() string
	Distance() float64
	Geometry() orb.LineString
	Traverse(s *State, req *routing.Request) (*State, bool)

	endpoints() *Endpoints
}
