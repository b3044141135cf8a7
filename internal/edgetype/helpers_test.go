package edgetype

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/Benny93/tripgraph/internal/graph"
	"github.com/Benny93/tripgraph/internal/routing"
)

var departure = time.Date(2024, 5, 14, 8, 0, 0, 0, time.UTC)

func ptr[T any](v T) *T { return &v }

// newRequest builds a validated request from the stock defaults.
func newRequest(t *testing.T, p routing.Params) *routing.Request {
	t.Helper()
	b, err := routing.NewBuilder(routing.StandardDefaults(), routing.WithClock(func() time.Time { return departure }))
	require.NoError(t, err)
	req, err := b.Build(p)
	require.NoError(t, err)
	return req
}

func modes(ms ...routing.TraverseMode) *routing.ModeSet {
	s := routing.NewModeSet(ms...)
	return &s
}

// cross traverses e and requires success.
func cross(t *testing.T, e graph.Edge, s *graph.State, req *routing.Request) *graph.State {
	t.Helper()
	next, ok := e.Traverse(s, req)
	require.True(t, ok, "traversal of %v rejected", e)
	require.NotNil(t, next)
	return next
}
