// Package routing defines the validated trip-request configuration shared by
// every traversal decision of one search.
//
// A Request is built once per incoming query by a Builder (from the optional
// inputs in Params), validated, and then treated as immutable. Edges read it
// concurrently without synchronization.
package routing

import (
	"fmt"
	"sort"
	"strings"
)

// TraverseMode is a way of moving through the graph.
type TraverseMode string

const (
	ModeWalk      TraverseMode = "WALK"
	ModeBicycle   TraverseMode = "BICYCLE"
	ModeCar       TraverseMode = "CAR"
	ModeTram      TraverseMode = "TRAM"
	ModeSubway    TraverseMode = "SUBWAY"
	ModeRail      TraverseMode = "RAIL"
	ModeBus       TraverseMode = "BUS"
	ModeFerry     TraverseMode = "FERRY"
	ModeCableCar  TraverseMode = "CABLE_CAR"
	ModeGondola   TraverseMode = "GONDOLA"
	ModeFunicular TraverseMode = "FUNICULAR"
)

// modeBits assigns each mode its bit in a ModeSet. The order also fixes the
// order returned by ModeSet.Modes.
var modeBits = map[TraverseMode]ModeSet{
	ModeWalk:      1 << 0,
	ModeBicycle:   1 << 1,
	ModeCar:       1 << 2,
	ModeTram:      1 << 3,
	ModeSubway:    1 << 4,
	ModeRail:      1 << 5,
	ModeBus:       1 << 6,
	ModeFerry:     1 << 7,
	ModeCableCar:  1 << 8,
	ModeGondola:   1 << 9,
	ModeFunicular: 1 << 10,
}

const (
	transitBits  ModeSet = 0b111_1111_1000
	trainishBits ModeSet = 1<<3 | 1<<4 | 1<<5 | 1<<8 | 1<<9 | 1<<10
	busishBits   ModeSet = 1 << 6
)

// IsTransit reports whether the mode rides a scheduled vehicle.
func (m TraverseMode) IsTransit() bool {
	bit, ok := modeBits[m]
	return ok && bit&transitBits != 0
}

// IsValid reports whether m is a known mode.
func (m TraverseMode) IsValid() bool {
	_, ok := modeBits[m]
	return ok
}

// ModeSet is a set of traverse modes.
type ModeSet uint16

// NewModeSet returns the set containing modes. Unknown modes are ignored.
func NewModeSet(modes ...TraverseMode) ModeSet {
	var s ModeSet
	for _, m := range modes {
		s |= modeBits[m]
	}
	return s
}

// ParseModeSet parses a comma separated mode list such as "TRANSIT,WALK".
// TRANSIT, TRAINISH and BUSISH expand to the matching vehicle modes.
func ParseModeSet(s string) (ModeSet, error) {
	var set ModeSet
	for _, raw := range strings.Split(s, ",") {
		name := strings.ToUpper(strings.TrimSpace(raw))
		if name == "" {
			continue
		}
		switch name {
		case "TRANSIT":
			set |= transitBits
		case "TRAINISH":
			set |= trainishBits
		case "BUSISH":
			set |= busishBits
		default:
			bit, ok := modeBits[TraverseMode(name)]
			if !ok {
				return 0, fmt.Errorf("%w: %q", ErrUnknownMode, raw)
			}
			set |= bit
		}
	}
	if set == 0 {
		return 0, fmt.Errorf("%w: empty mode list", ErrUnknownMode)
	}
	return set, nil
}

// Contains reports whether m is in the set.
func (s ModeSet) Contains(m TraverseMode) bool {
	bit, ok := modeBits[m]
	return ok && s&bit != 0
}

// IsTransit reports whether any transit mode is enabled.
func (s ModeSet) IsTransit() bool {
	return s&transitBits != 0
}

// Modes returns the members of the set in bit order.
func (s ModeSet) Modes() []TraverseMode {
	modes := make([]TraverseMode, 0, len(modeBits))
	for m, bit := range modeBits {
		if s&bit != 0 {
			modes = append(modes, m)
		}
	}
	sort.Slice(modes, func(i, j int) bool { return modeBits[modes[i]] < modeBits[modes[j]] })
	return modes
}

// String returns the members joined by commas.
func (s ModeSet) String() string {
	modes := s.Modes()
	names := make([]string, len(modes))
	for i, m := range modes {
		names[i] = string(m)
	}
	return strings.Join(names, ",")
}
