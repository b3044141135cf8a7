// Package graph provides the street and transit graph searched by the trip
// planner.
//
// Vertices are keyed by a unique label and hold ordered lists of incident
// edge ids. Edges live in an arena owned by the Graph and are looked up by
// EdgeID, so rewiring an edge never invalidates another vertex's lists.
package graph

import (
	"fmt"

	"github.com/paulmach/orb"

	"github.com/Benny93/tripgraph/internal/geo"
)

// VertexType classifies a vertex.
type VertexType string

const (
	VertexIntersection     VertexType = "intersection"
	VertexTransitStop      VertexType = "transit_stop"
	VertexElevatorOnboard  VertexType = "elevator_onboard"
	VertexElevatorOffboard VertexType = "elevator_offboard"
	VertexStreetLocation   VertexType = "street_location"
)

// Vertex is a point in the graph.
//
// The incident edge lists are maintained by the Graph that owns the vertex.
// Reading them while another goroutine edits the graph is a race; freeze the
// graph before serving searches.
type Vertex struct {
	label string
	coord orb.Point
	kind  VertexType
	name  string

	outgoing []EdgeID
	incoming []EdgeID
}

// NewVertex creates a vertex at longitude x and latitude y.
func NewVertex(label string, x, y float64, kind VertexType) *Vertex {
	return &Vertex{label: label, coord: orb.Point{x, y}, kind: kind}
}

// WithName sets the display name and returns v.
func (v *Vertex) WithName(name string) *Vertex {
	v.name = name
	return v
}

func (v *Vertex) Label() string { return v.label }
func (v *Vertex) X() float64 { return v.coord.X() }
func (v *Vertex) Y() float64 { return v.coord.Y() }
func (v *Vertex) Coordinate() orb.Point { return v.coord }
func (v *Vertex) Type() VertexType { return v.kind }
func (v *Vertex) Name() string { return v.name }
func (v *Vertex) DegreeOut() int { return len(v.outgoing) }
func (v *Vertex) DegreeIn() int { return len(v.incoming) }

// Outgoing returns a copy of the outgoing edge ids in insertion order.
func (v *Vertex) Outgoing() []EdgeID {
	return append([]EdgeID(nil), v.outgoing...)
}

// Incoming returns a copy of the incoming edge ids in insertion order.
func (v *Vertex) Incoming() []EdgeID {
	return append([]EdgeID(nil), v.incoming...)
}

// Distance estimates the distance to other in metres with the fast planar
// approximation.
func (v *Vertex) Distance(other *Vertex) float64 {
	return geo.FastDistance(v.coord, other.coord)
}

// DistanceTo returns the great-circle distance to p in metres.
func (v *Vertex) DistanceTo(p orb.Point) float64 {
	return geo.Distance(v.coord, p)
}

func (v *Vertex) String() string {
	return fmt.Sprintf("<%s %d %d>", v.label, len(v.outgoing), len(v.incoming))
}

// removeID deletes the first occurrence of id from ids, keeping order.
func removeID(ids []EdgeID, id EdgeID) []EdgeID {
	for i, cur := range ids {
		if cur == id {
			return append(ids[:i], ids[i+1:]...)
		}
	}
	return ids
}
