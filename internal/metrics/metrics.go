// Package metrics provides the prometheus counters exported by tripgraph.
//
// Counters are per-request or per-structural-edit; nothing here is touched
// from inside an edge traversal.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "tripgraph"

// Metrics groups the collectors registered for one process.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	// RequestsBuilt counts request builds by result ("ok" or an error reason).
	RequestsBuilt *prometheus.CounterVec

	// GraphEdits counts structural graph edits by operation.
	GraphEdits *prometheus.CounterVec

	// MergeDroppedEdges counts edges discarded while merging vertices.
	MergeDroppedEdges prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		RequestsBuilt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_built_total",
			Help:      "Routing requests built, partitioned by validation result.",
		}, []string{"result"}),
		GraphEdits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "graph_edits_total",
			Help:      "Structural graph edits, partitioned by operation.",
		}, []string{"op"}),
		MergeDroppedEdges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "merge_dropped_edges_total",
			Help:      "Edges dropped because they linked two merged vertices.",
		}),
	}

	reg.MustRegister(m.RequestsBuilt, m.GraphEdits, m.MergeDroppedEdges)
	return m
}

// ObserveRequest records one request build outcome.
func (m *Metrics) ObserveRequest(result string) {
	if m == nil {
		return
	}
	m.RequestsBuilt.WithLabelValues(result).Inc()
}

// ObserveGraphEdit records one structural edit.
func (m *Metrics) ObserveGraphEdit(op string) {
	if m == nil {
		return
	}
	m.GraphEdits.WithLabelValues(op).Inc()
}

// ObserveDroppedEdges records edges discarded by a merge.
func (m *Metrics) ObserveDroppedEdges(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.MergeDroppedEdges.Add(float64(n))
}
