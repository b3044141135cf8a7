package graph

import (
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/Benny93/tripgraph/internal/metrics"
)

func TestNew(t *testing.T) {
	t.Parallel()

	g := New()

	assert.NotNil(t, g)
	assert.Equal(t, 0, g.VertexCount())
	assert.Equal(t, 0, g.EdgeCount())
	assert.False(t, g.IsFrozen())
}

func TestGraph_AddVertex(t *testing.T) {
	t.Parallel()

	t.Run("AddSingle", func(t *testing.T) {
		t.Parallel()
		g := New()
		v := NewVertex("A", -122.6, 45.5, VertexIntersection)

		require.NoError(t, g.AddVertex(v))

		assert.Equal(t, 1, g.VertexCount())
		assert.Same(t, v, g.GetVertex("A"))
	})

	t.Run("Duplicate", func(t *testing.T) {
		t.Parallel()
		g := buildGraph(t, "A")
		err := g.AddVertex(NewVertex("A", 0, 0, VertexTransitStop))
		assert.ErrorIs(t, err, ErrDuplicateVertex)
		assert.Equal(t, VertexIntersection, g.GetVertex("A").Type())
	})

	t.Run("Invalid", func(t *testing.T) {
		t.Parallel()
		g := New()
		assert.ErrorIs(t, g.AddVertex(nil), ErrInvalidVertex)
		assert.ErrorIs(t, g.AddVertex(NewVertex("", 0, 0, VertexIntersection)), ErrInvalidVertex)
	})

	t.Run("Missing", func(t *testing.T) {
		t.Parallel()
		assert.Nil(t, New().GetVertex("nope"))
	})
}

func TestGraph_Vertices(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, "C", "A", "B")
	var labels []string
	for _, v := range g.Vertices() {
		labels = append(labels, v.Label())
	}
	assert.Equal(t, []string{"A", "B", "C"}, labels)
}

func TestGraph_AddEdge(t *testing.T) {
	t.Parallel()

	t.Run("AssignsIDsAndLists", func(t *testing.T) {
		t.Parallel()
		g := buildGraph(t, "A", "B")

		id1 := mustAddEdge(t, g, "A", "B")
		id2 := mustAddEdge(t, g, "B", "A")

		assert.Equal(t, EdgeID(1), id1)
		assert.Equal(t, EdgeID(2), id2)
		assert.Equal(t, 2, g.EdgeCount())
		assert.Equal(t, []EdgeID{id1}, g.GetVertex("A").Outgoing())
		assert.Equal(t, []EdgeID{id2}, g.GetVertex("A").Incoming())
		assert.Equal(t, id1, g.GetEdge(id1).ID())
	})

	t.Run("ParallelAndSelfLoop", func(t *testing.T) {
		t.Parallel()
		g := buildGraph(t, "A", "B")

		mustAddEdge(t, g, "A", "B")
		mustAddEdge(t, g, "A", "B")
		loop := mustAddEdge(t, g, "A", "A")

		a := g.GetVertex("A")
		assert.Equal(t, 3, a.DegreeOut())
		assert.Equal(t, 1, a.DegreeIn())
		assert.Contains(t, a.Incoming(), loop)
		assert.Equal(t, 2, g.GetVertex("B").DegreeIn())
	})

	t.Run("InsertionOrder", func(t *testing.T) {
		t.Parallel()
		g := buildGraph(t, "A", "B", "C", "D")
		mustAddEdge(t, g, "A", "C")
		mustAddEdge(t, g, "A", "B")
		mustAddEdge(t, g, "A", "D")

		var to []string
		for _, e := range g.Outgoing("A") {
			to = append(to, e.To())
		}
		assert.Equal(t, []string{"C", "B", "D"}, to)
	})

	t.Run("Errors", func(t *testing.T) {
		t.Parallel()
		g := buildGraph(t, "A")

		_, err := g.AddEdge(nil)
		assert.ErrorIs(t, err, ErrInvalidEdge)

		_, err = g.AddEdge(newStepEdge("A", "missing"))
		assert.ErrorIs(t, err, ErrVertexNotFound)

		_, err = g.AddEdge(newStepEdge("missing", "A"))
		assert.ErrorIs(t, err, ErrVertexNotFound)

		e := newStepEdge("A", "A")
		_, err = g.AddEdge(e)
		require.NoError(t, err)
		_, err = g.AddEdge(e)
		assert.ErrorIs(t, err, ErrEdgeAlreadyAdded)
	})
}

func TestGraph_RemoveEdge(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, "A", "B")
	first := mustAddEdge(t, g, "A", "B")
	second := mustAddEdge(t, g, "A", "B")

	require.NoError(t, g.RemoveEdge(first))

	assert.Nil(t, g.GetEdge(first))
	assert.Equal(t, []EdgeID{second}, g.GetVertex("A").Outgoing())
	assert.Equal(t, []EdgeID{second}, g.GetVertex("B").Incoming())
	assert.ErrorIs(t, g.RemoveEdge(first), ErrEdgeNotFound)

	t.Run("ReAddRemovedEdge", func(t *testing.T) {
		t.Parallel()
		g := buildGraph(t, "A", "B")
		e := newStepEdge("A", "B")
		id, err := g.AddEdge(e)
		require.NoError(t, err)

		require.NoError(t, g.RemoveEdge(id))
		assert.Zero(t, e.ID())

		again, err := g.AddEdge(e)
		require.NoError(t, err)
		assert.NotEqual(t, id, again)
		assert.Equal(t, again, e.ID())
		assert.Same(t, e, g.GetEdge(again))
		assert.Equal(t, []EdgeID{again}, g.GetVertex("A").Outgoing())
	})
}

func TestGraph_RemoveVertex(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, "A", "B")
	id := mustAddEdge(t, g, "A", "B")

	assert.ErrorIs(t, g.RemoveVertex("A"), ErrVertexHasEdges)
	assert.ErrorIs(t, g.RemoveVertex("missing"), ErrVertexNotFound)

	require.NoError(t, g.RemoveEdge(id))
	require.NoError(t, g.RemoveVertex("A"))
	assert.Nil(t, g.GetVertex("A"))
	assert.Equal(t, 1, g.VertexCount())
}

// assertConsistent checks that every listed id has the vertex as its
// endpoint and that every edge is listed at both endpoints.
func assertConsistent(t *testing.T, g *Graph) {
	t.Helper()
	listed := 0
	for _, v := range g.Vertices() {
		for _, id := range v.Outgoing() {
			e := g.GetEdge(id)
			require.NotNil(t, e, "dangling outgoing id %d on %s", id, v.Label())
			assert.Equal(t, v.Label(), e.From())
			listed++
		}
		for _, id := range v.Incoming() {
			e := g.GetEdge(id)
			require.NotNil(t, e, "dangling incoming id %d on %s", id, v.Label())
			assert.Equal(t, v.Label(), e.To())
		}
	}
	assert.Equal(t, g.EdgeCount(), listed)
}

func TestGraph_MergeVertices(t *testing.T) {
	t.Parallel()

	t.Run("RepointsAndDrops", func(t *testing.T) {
		t.Parallel()
		g := buildGraph(t, "A", "B", "C", "D")

		ab := mustAddEdge(t, g, "A", "B")
		ba := mustAddEdge(t, g, "B", "A")
		bc := mustAddEdge(t, g, "B", "C")
		db := mustAddEdge(t, g, "D", "B")
		ca := mustAddEdge(t, g, "C", "A")

		require.NoError(t, g.MergeVertices("A", "B"))

		assert.Nil(t, g.GetVertex("B"))
		assert.Nil(t, g.GetEdge(ab))
		assert.Nil(t, g.GetEdge(ba))
		assert.Equal(t, 3, g.EdgeCount())

		a := g.GetVertex("A")
		assert.Equal(t, []EdgeID{bc}, a.Outgoing())
		assert.Equal(t, []EdgeID{ca, db}, a.Incoming())
		assert.Equal(t, "A", g.GetEdge(bc).From())
		assert.Equal(t, "A", g.GetEdge(db).To())

		// Third-party lists still hold the same ids.
		assert.Equal(t, []EdgeID{bc}, g.GetVertex("C").Incoming())
		assert.Equal(t, []EdgeID{db}, g.GetVertex("D").Outgoing())

		for _, e := range append(g.Outgoing("C"), g.Outgoing("D")...) {
			assert.NotEqual(t, "B", e.From())
			assert.NotEqual(t, "B", e.To())
		}
		assertConsistent(t, g)
	})

	t.Run("DroppedEdgeCanBeReAdded", func(t *testing.T) {
		t.Parallel()
		g := buildGraph(t, "A", "B")
		link := newStepEdge("A", "B")
		_, err := g.AddEdge(link)
		require.NoError(t, err)

		require.NoError(t, g.MergeVertices("A", "B"))
		assert.Zero(t, link.ID())

		link.to = "A"
		id, err := g.AddEdge(link)
		require.NoError(t, err)
		assert.Equal(t, []EdgeID{id}, g.GetVertex("A").Outgoing())
		assertConsistent(t, g)
	})

	t.Run("SourceSelfLoopDropped", func(t *testing.T) {
		t.Parallel()
		g := buildGraph(t, "A", "B")
		loop := mustAddEdge(t, g, "B", "B")

		require.NoError(t, g.MergeVertices("A", "B"))

		assert.Nil(t, g.GetEdge(loop))
		assert.Equal(t, 0, g.GetVertex("A").DegreeOut())
		assert.Equal(t, 0, g.GetVertex("A").DegreeIn())
		assertConsistent(t, g)
	})

	t.Run("TargetSelfLoopKept", func(t *testing.T) {
		t.Parallel()
		g := buildGraph(t, "A", "B")
		loop := mustAddEdge(t, g, "A", "A")

		require.NoError(t, g.MergeVertices("A", "B"))

		assert.NotNil(t, g.GetEdge(loop))
		assertConsistent(t, g)
	})

	t.Run("ParallelLinksAllDropped", func(t *testing.T) {
		t.Parallel()
		g := buildGraph(t, "A", "B")
		mustAddEdge(t, g, "A", "B")
		mustAddEdge(t, g, "A", "B")
		mustAddEdge(t, g, "B", "A")

		require.NoError(t, g.MergeVertices("A", "B"))

		assert.Equal(t, 0, g.EdgeCount())
		assertConsistent(t, g)
	})

	t.Run("Errors", func(t *testing.T) {
		t.Parallel()
		g := buildGraph(t, "A", "B")
		assert.ErrorIs(t, g.MergeVertices("A", "A"), ErrSelfMerge)
		assert.ErrorIs(t, g.MergeVertices("A", "missing"), ErrVertexNotFound)
		assert.ErrorIs(t, g.MergeVertices("missing", "A"), ErrVertexNotFound)
	})

	t.Run("Observed", func(t *testing.T) {
		t.Parallel()
		core, logs := observer.New(zap.DebugLevel)
		m := metrics.New(prometheus.NewRegistry())
		g := New(WithLogger(zap.New(core)), WithMetrics(m))
		require.NoError(t, g.AddVertex(NewVertex("A", 0, 0, VertexIntersection)))
		require.NoError(t, g.AddVertex(NewVertex("B", 0, 0, VertexIntersection)))
		mustAddEdge(t, g, "A", "B")
		mustAddEdge(t, g, "B", "A")

		require.NoError(t, g.MergeVertices("A", "B"))

		assert.Equal(t, 2.0, testutil.ToFloat64(m.MergeDroppedEdges))
		assert.Equal(t, 1.0, testutil.ToFloat64(m.GraphEdits.WithLabelValues("merge")))
		assert.Equal(t, 2.0, testutil.ToFloat64(m.GraphEdits.WithLabelValues("add_edge")))
		require.Equal(t, 1, logs.FilterMessage("merged vertices").Len())
	})
}

func TestGraph_Freeze(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, "A", "B")
	id := mustAddEdge(t, g, "A", "B")
	g.Freeze()
	g.Freeze()

	assert.True(t, g.IsFrozen())
	assert.ErrorIs(t, g.AddVertex(NewVertex("C", 0, 0, VertexIntersection)), ErrGraphFrozen)
	_, err := g.AddEdge(newStepEdge("A", "B"))
	assert.ErrorIs(t, err, ErrGraphFrozen)
	assert.ErrorIs(t, g.RemoveEdge(id), ErrGraphFrozen)
	assert.ErrorIs(t, g.RemoveVertex("A"), ErrGraphFrozen)
	assert.ErrorIs(t, g.MergeVertices("A", "B"), ErrGraphFrozen)

	assert.Len(t, g.Outgoing("A"), 1)
}

func TestGraph_Stats(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, "A", "B")
	require.NoError(t, g.AddVertex(NewVertex("S", 0, 0, VertexTransitStop)))
	mustAddEdge(t, g, "A", "S")

	stats := g.Stats()
	assert.Equal(t, 3, stats["vertices"])
	assert.Equal(t, 1, stats["edges"])
	assert.Equal(t, 2, stats["vertex_type:intersection"])
	assert.Equal(t, 1, stats["vertex_type:transit_stop"])
}

func TestGraph_ConcurrentReads(t *testing.T) {
	t.Parallel()

	g := buildGraph(t, "A", "B", "C")
	mustAddEdge(t, g, "A", "B")
	mustAddEdge(t, g, "B", "C")
	g.Freeze()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 100 {
				assert.Len(t, g.Outgoing("A"), 1)
				assert.Len(t, g.Incoming("C"), 1)
				assert.Equal(t, 3, g.VertexCount())
			}
		}()
	}
	wg.Wait()
}

func TestGraph_OutgoingMissingVertex(t *testing.T) {
	t.Parallel()

	g := New()
	assert.Nil(t, g.Outgoing("x"))
	assert.Nil(t, g.Incoming("x"))
}
