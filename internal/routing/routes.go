package routing

import (
	"fmt"
	"sort"
	"strings"
)

// RouteSet is a set of route ids in agency_route form, e.g. "TriMet_100".
type RouteSet map[string]struct{}

// ParseRouteSet parses a comma separated list of agency_route ids.
// An empty string yields an empty set.
func ParseRouteSet(s string) (RouteSet, error) {
	set := RouteSet{}
	for _, raw := range strings.Split(s, ",") {
		id := strings.TrimSpace(raw)
		if id == "" {
			continue
		}
		agency, route, ok := strings.Cut(id, "_")
		if !ok || agency == "" || route == "" {
			return nil, fmt.Errorf("%w: %q", ErrMalformedRoute, id)
		}
		set[id] = struct{}{}
	}
	return set, nil
}

// Contains reports whether id is in the set. A nil set contains nothing.
func (s RouteSet) Contains(id string) bool {
	_, ok := s[id]
	return ok
}

// Len returns the number of routes.
func (s RouteSet) Len() int {
	return len(s)
}

// String returns the sorted ids joined by commas.
func (s RouteSet) String() string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return strings.Join(ids, ",")
}
