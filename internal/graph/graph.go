package graph

import (
	"fmt"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/Benny93/tripgraph/internal/metrics"
)

// Graph is a directed multigraph of vertices and edges.
//
// Parallel edges and self-loops are legal. A Graph is built by a single
// writer and then frozen; once frozen every structural edit fails with
// ErrGraphFrozen and any number of searches may read it concurrently.
type Graph struct {
	mu       sync.RWMutex
	vertices map[string]*Vertex
	edges    map[EdgeID]Edge
	lastID   EdgeID
	frozen   bool

	logger  *zap.Logger
	metrics *metrics.Metrics
}

// Option configures a Graph.
type Option func(*Graph)

// WithLogger sets the logger for structural edits.
func WithLogger(l *zap.Logger) Option {
	return func(g *Graph) { g.logger = l }
}

// WithMetrics sets the collector for structural edits.
func WithMetrics(m *metrics.Metrics) Option {
	return func(g *Graph) { g.metrics = m }
}

// New creates an empty graph.
func New(opts ...Option) *Graph {
	g := &Graph{
		vertices: make(map[string]*Vertex),
		edges:    make(map[EdgeID]Edge),
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// VertexCount returns the number of vertices.
func (g *Graph) VertexCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.vertices)
}

// EdgeCount returns the number of edges.
func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.edges)
}

// Stats returns the vertex and edge totals plus a count per vertex type.
func (g *Graph) Stats() map[string]int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	stats := map[string]int{
		"vertices": len(g.vertices),
		"edges":    len(g.edges),
	}
	for _, v := range g.vertices {
		stats["vertex_type:"+string(v.kind)]++
	}
	return stats
}

// Freeze ends the build phase. It is idempotent.
func (g *Graph) Freeze() {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.frozen {
		g.frozen = true
		g.logger.Info("graph frozen", zap.Int("vertices", len(g.vertices)), zap.Int("edges", len(g.edges)))
	}
}

// IsFrozen reports whether Freeze has been called.
func (g *Graph) IsFrozen() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.frozen
}

// AddVertex adds v to the graph.
func (g *Graph) AddVertex(v *Vertex) error {
	if v == nil || v.label == "" {
		return ErrInvalidVertex
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.frozen {
		return ErrGraphFrozen
	}
	if _, ok := g.vertices[v.label]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateVertex, v.label)
	}
	g.vertices[v.label] = v
	g.metrics.ObserveGraphEdit("add_vertex")
	return nil
}

// GetVertex returns the vertex with the given label, or nil.
func (g *Graph) GetVertex(label string) *Vertex {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.vertices[label]
}

// Vertices returns all vertices sorted by label.
func (g *Graph) Vertices() []*Vertex {
	g.mu.RLock()
	out := make([]*Vertex, 0, len(g.vertices))
	for _, v := range g.vertices {
		out = append(out, v)
	}
	g.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].label < out[j].label })
	return out
}

// RemoveVertex removes an isolated vertex. Edges must be removed first.
func (g *Graph) RemoveVertex(label string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.frozen {
		return ErrGraphFrozen
	}
	v, ok := g.vertices[label]
	if !ok {
		return fmt.Errorf("%w: %s", ErrVertexNotFound, label)
	}
	if len(v.outgoing) > 0 || len(v.incoming) > 0 {
		return fmt.Errorf("%w: %s", ErrVertexHasEdges, v)
	}
	delete(g.vertices, label)
	g.metrics.ObserveGraphEdit("remove_vertex")
	return nil
}

// AddEdge assigns e a fresh id and attaches it to both endpoints. Both
// endpoint vertices must already be in the graph.
func (g *Graph) AddEdge(e Edge) (EdgeID, error) {
	if e == nil {
		return 0, ErrInvalidEdge
	}
	ep := e.endpoints()

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.frozen {
		return 0, ErrGraphFrozen
	}
	if ep.id != 0 {
		return 0, fmt.Errorf("%w: id %d", ErrEdgeAlreadyAdded, ep.id)
	}
	from, ok := g.vertices[ep.from]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrVertexNotFound, ep.from)
	}
	to, ok := g.vertices[ep.to]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrVertexNotFound, ep.to)
	}

	g.lastID++
	ep.id = g.lastID
	g.edges[ep.id] = e
	from.outgoing = append(from.outgoing, ep.id)
	to.incoming = append(to.incoming, ep.id)

	g.metrics.ObserveGraphEdit("add_edge")
	return ep.id, nil
}

// GetEdge returns the edge with the given id, or nil.
func (g *Graph) GetEdge(id EdgeID) Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.edges[id]
}

// RemoveEdge detaches the edge from both endpoints and drops it.
func (g *Graph) RemoveEdge(id EdgeID) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.frozen {
		return ErrGraphFrozen
	}
	if _, ok := g.edges[id]; !ok {
		return fmt.Errorf("%w: id %d", ErrEdgeNotFound, id)
	}
	g.detach(id)
	g.metrics.ObserveGraphEdit("remove_edge")
	return nil
}

// Outgoing returns the edges leaving the vertex in insertion order.
func (g *Graph) Outgoing(label string) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.vertices[label]
	if !ok {
		return nil
	}
	return g.resolve(v.outgoing)
}

// Incoming returns the edges entering the vertex in insertion order.
func (g *Graph) Incoming(label string) []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()
	v, ok := g.vertices[label]
	if !ok {
		return nil
	}
	return g.resolve(v.incoming)
}

// MergeVertices folds source into target.
//
// Edges connecting target and source in either direction are dropped, as
// are self-loops on source. Every other edge incident to source is
// re-pointed at target and appended to target's lists. Source is then
// removed. Other vertices keep their lists unchanged.
func (g *Graph) MergeVertices(target, source string) error {
	if target == source {
		return fmt.Errorf("%w: %s", ErrSelfMerge, target)
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.frozen {
		return ErrGraphFrozen
	}
	tgt, ok := g.vertices[target]
	if !ok {
		return fmt.Errorf("%w: %s", ErrVertexNotFound, target)
	}
	src, ok := g.vertices[source]
	if !ok {
		return fmt.Errorf("%w: %s", ErrVertexNotFound, source)
	}

	links := func(label string) bool { return label == target || label == source }

	dropped := make(map[EdgeID]struct{})
	var moveOut, moveIn []EdgeID
	for _, id := range src.outgoing {
		if links(g.edges[id].To()) {
			dropped[id] = struct{}{}
			continue
		}
		moveOut = append(moveOut, id)
	}
	for _, id := range src.incoming {
		if links(g.edges[id].From()) {
			dropped[id] = struct{}{}
			continue
		}
		moveIn = append(moveIn, id)
	}

	for id := range dropped {
		g.detach(id)
	}
	for _, id := range moveOut {
		g.edges[id].endpoints().from = target
	}
	for _, id := range moveIn {
		g.edges[id].endpoints().to = target
	}
	tgt.outgoing = append(tgt.outgoing, moveOut...)
	tgt.incoming = append(tgt.incoming, moveIn...)

	src.outgoing, src.incoming = nil, nil
	delete(g.vertices, source)

	g.metrics.ObserveGraphEdit("merge")
	g.metrics.ObserveDroppedEdges(len(dropped))
	g.logger.Debug("merged vertices",
		zap.String("target", target),
		zap.String("source", source),
		zap.Int("moved", len(moveOut)+len(moveIn)),
		zap.Int("dropped", len(dropped)),
	)
	return nil
}

// detach removes id from both endpoint lists and from the arena, and
// clears the edge's id so it can be added again. The caller holds the
// write lock.
func (g *Graph) detach(id EdgeID) {
	e := g.edges[id]
	if from, ok := g.vertices[e.From()]; ok {
		from.outgoing = removeID(from.outgoing, id)
	}
	if to, ok := g.vertices[e.To()]; ok {
		to.incoming = removeID(to.incoming, id)
	}
	delete(g.edges, id)
	e.endpoints().id = 0
}

func (g *Graph) resolve(ids []EdgeID) []Edge {
	out := make([]Edge, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.edges[id])
	}
	return out
}
