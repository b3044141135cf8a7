package graph

import (
	"fmt"
	"math"

	"github.com/Benny93/tripgraph/internal/routing"
)

// StateEditor builds the successor of one state across one edge.
//
// Edges pass non-negative magnitudes. The editor adds time in a forward
// search and subtracts it in a backward search, so weight and elapsed time
// grow along every path. Violations are bugs in the calling edge and panic.
type StateEditor struct {
	child *State
	spent bool
}

func (ed *StateEditor) check() {
	if ed.spent {
		panic(ErrEditorSpent)
	}
}

func (ed *StateEditor) edgeID() EdgeID {
	if ed.child.backEdge == nil {
		return 0
	}
	return ed.child.backEdge.ID()
}

// IncrementWeight adds w to the weight.
func (ed *StateEditor) IncrementWeight(w float64) {
	ed.check()
	if w < 0 || math.IsNaN(w) {
		panic(fmt.Errorf("%w: %v on edge %d", ErrNegativeWeight, w, ed.edgeID()))
	}
	ed.child.weight += w
}

// IncrementTimeInSeconds advances the clock by secs in the search direction.
func (ed *StateEditor) IncrementTimeInSeconds(secs int) {
	ed.check()
	if secs < 0 {
		panic(fmt.Errorf("%w: %d on edge %d", ErrNegativeDuration, secs, ed.edgeID()))
	}
	if ed.child.arriveBy {
		ed.child.time -= int64(secs)
	} else {
		ed.child.time += int64(secs)
	}
}

// IncrementWalkDistance adds m metres to the walk distance.
func (ed *StateEditor) IncrementWalkDistance(m float64) {
	ed.check()
	if m < 0 || math.IsNaN(m) {
		panic(fmt.Errorf("%w: %v on edge %d", ErrNegativeDistance, m, ed.edgeID()))
	}
	ed.child.walkDistance += m
}

// SetMode sets the traverse mode.
func (ed *StateEditor) SetMode(m routing.TraverseMode) {
	ed.check()
	ed.child.mode = m
}

// SetRoute sets the route being ridden, or clears it with "".
func (ed *StateEditor) SetRoute(route string) {
	ed.check()
	ed.child.route = route
}

// IncrementNumBoardings records a boarding.
func (ed *StateEditor) IncrementNumBoardings() {
	ed.check()
	ed.child.numBoardings++
	ed.child.everBoarded = true
}

// MarkAlighted records leaving a vehicle at the current clock time.
func (ed *StateEditor) MarkAlighted() {
	ed.check()
	ed.child.lastAlightedTime = ed.child.time
	ed.child.alighted = true
}

// Time returns the successor's clock so far.
func (ed *StateEditor) Time() int64 {
	return ed.child.time
}

// Parent returns the state being extended.
func (ed *StateEditor) Parent() *State {
	return ed.child.backState
}

// MakeState returns the successor. The editor cannot be used afterwards.
func (ed *StateEditor) MakeState() *State {
	ed.check()
	ed.spent = true
	return ed.child
}
