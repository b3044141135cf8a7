package edgetype

import (
	"math"
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/tripgraph/internal/graph"
	"github.com/Benny93/tripgraph/internal/routing"
)

func TestTurnAngle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		in, out float64
		want    int
	}{
		{"Straight", 90, 90, 0},
		{"Right", 0, 90, 90},
		{"Reflex", 10, 200, 170},
		{"UTurn", 0, 180, 180},
		{"AcrossNorth", 350, 10, 20},
		{"SignedBearings", -170, 170, 20},
		{"Truncated", 0, 45.9, 45},
		{"FullCircle", 0, 360, 0},
		{"HugeBearing", 0, 1e19, 80},
		{"NaN", math.NaN(), 90, 0},
		{"Infinite", 0, math.Inf(1), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := TurnAngle(tt.in, tt.out)
			assert.Equal(t, tt.want, got)
			assert.GreaterOrEqual(t, got, 0)
			assert.LessOrEqual(t, got, 180)
		})
	}

	t.Run("StaysInRange", func(t *testing.T) {
		t.Parallel()
		for _, pair := range [][2]float64{{-1e300, 0}, {1e300, -1e300}, {math.MaxFloat64, 1}, {-7.5e18, 3}} {
			got := TurnAngle(pair[0], pair[1])
			assert.GreaterOrEqual(t, got, 0, "%v", pair)
			assert.LessOrEqual(t, got, 180, "%v", pair)
		}
	})
}

func TestNewTurnFromBearings(t *testing.T) {
	t.Parallel()

	turn, err := NewTurnFromBearings("B", "B2", -1e300, 0)
	require.NoError(t, err)
	assert.LessOrEqual(t, turn.Angle(), 180)

	for _, bad := range [][2]float64{{math.NaN(), 0}, {0, math.NaN()}, {math.Inf(1), 0}, {0, math.Inf(-1)}} {
		_, err := NewTurnFromBearings("B", "B2", bad[0], bad[1])
		assert.ErrorIs(t, err, ErrInvalidBearing, "%v", bad)
	}
}

func TestNewTurn(t *testing.T) {
	t.Parallel()

	east := NewStreetEdge("A", "B", "Main St", orb.LineString{{0, 0}, {0.001, 0}}, PermissionAll)
	north := NewStreetEdge("B2", "C", "Oak Ave", orb.LineString{{0.001, 0}, {0.001, 0.001}}, PermissionAll)

	t.Run("FromGeometry", func(t *testing.T) {
		t.Parallel()
		turn, err := NewTurn(east, north)
		require.NoError(t, err)
		assert.Equal(t, 90, turn.Angle())
		assert.Equal(t, "B", turn.From())
		assert.Equal(t, "B2", turn.To())
		assert.Zero(t, turn.Distance())
		assert.Nil(t, turn.Geometry())
	})

	t.Run("NoGeometry", func(t *testing.T) {
		t.Parallel()
		_, err := NewTurn(NewFreeEdge("X", "B2"), north)
		assert.ErrorIs(t, err, ErrNoGeometry)
		_, err = NewTurn(east, NewFreeEdge("B2", "Y"))
		assert.ErrorIs(t, err, ErrNoGeometry)
	})

	t.Run("DegenerateGeometry", func(t *testing.T) {
		t.Parallel()
		stub := NewStreetEdge("Z", "B2", "", orb.LineString{{1, 1}, {1, 1}}, PermissionAll)
		_, err := NewTurn(stub, north)
		assert.ErrorIs(t, err, ErrNoGeometry)
	})
}

func TestTurn_Traverse(t *testing.T) {
	t.Parallel()

	turn, err := NewTurnFromBearings("B", "B2", 10, 200)
	require.NoError(t, err)
	require.Equal(t, 170, turn.Angle())

	t.Run("Forward", func(t *testing.T) {
		t.Parallel()
		req := newRequest(t, routing.Params{})
		s0 := graph.NewState("B", req)
		s1 := cross(t, turn, s0, req)

		assert.Equal(t, "B2", s1.Vertex())
		assert.Equal(t, s0.Time()+8, s1.Time())
		assert.Equal(t, 8.5, s1.Weight())
		assert.Equal(t, s0.Mode(), s1.Mode())
	})

	t.Run("Backward", func(t *testing.T) {
		t.Parallel()
		req := newRequest(t, routing.Params{ArriveBy: ptr(true)})
		s0 := graph.NewState("B2", req)
		s1 := cross(t, turn, s0, req)

		assert.Equal(t, "B", s1.Vertex())
		assert.Equal(t, s0.Time()-8, s1.Time())
		assert.Equal(t, 8.5, s1.Weight())
	})
}
