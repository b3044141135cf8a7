// Package edgetype implements the kinds of edge a trip search can cross:
// streets, turns, elevators, free links and scheduled transit.
//
// Every kind embeds graph.Endpoints and satisfies graph.Edge. Traversals
// read only the edge, the input state and the request.
package edgetype

import (
	"fmt"
	"strings"

	"github.com/Benny93/tripgraph/internal/routing"
)

// Permission is the set of street modes allowed on an edge.
type Permission uint8

const (
	PermissionNone       Permission = 0
	PermissionPedestrian Permission = 1 << 0
	PermissionBicycle    Permission = 1 << 1
	PermissionCar        Permission = 1 << 2

	PermissionPedestrianAndBicycle = PermissionPedestrian | PermissionBicycle
	PermissionAll                  = PermissionPedestrian | PermissionBicycle | PermissionCar
)

var permissionNames = map[Permission]string{
	PermissionNone:                 "NONE",
	PermissionPedestrian:           "PEDESTRIAN",
	PermissionBicycle:              "BICYCLE",
	PermissionCar:                  "CAR",
	PermissionPedestrianAndBicycle: "PEDESTRIAN_AND_BICYCLE",
	PermissionAll:                  "ALL",
}

// Allows reports whether every mode in other is permitted.
func (p Permission) Allows(other Permission) bool {
	return p&other == other
}

// PermitsMode reports whether mode may use an edge with this permission.
// Only WALK, BICYCLE and CAR are restricted.
func (p Permission) PermitsMode(mode routing.TraverseMode) bool {
	switch mode {
	case routing.ModeWalk:
		return p.Allows(PermissionPedestrian)
	case routing.ModeBicycle:
		return p.Allows(PermissionBicycle)
	case routing.ModeCar:
		return p.Allows(PermissionCar)
	default:
		return true
	}
}

func (p Permission) String() string {
	if name, ok := permissionNames[p]; ok {
		return name
	}
	var parts []string
	for _, bit := range []Permission{PermissionPedestrian, PermissionBicycle, PermissionCar} {
		if p&bit != 0 {
			parts = append(parts, permissionNames[bit])
		}
	}
	return strings.Join(parts, "|")
}

// ParsePermission parses a permission name such as "PEDESTRIAN_AND_BICYCLE"
// or a "|" separated list of single modes such as "PEDESTRIAN|CAR".
func ParsePermission(s string) (Permission, error) {
	name := strings.ToUpper(strings.TrimSpace(s))
	for p, n := range permissionNames {
		if n == name {
			return p, nil
		}
	}

	var p Permission
	for _, part := range strings.Split(name, "|") {
		switch strings.TrimSpace(part) {
		case "PEDESTRIAN":
			p |= PermissionPedestrian
		case "BICYCLE":
			p |= PermissionBicycle
		case "CAR":
			p |= PermissionCar
		default:
			return PermissionNone, fmt.Errorf("%w: %q", ErrUnknownPermission, s)
		}
	}
	return p, nil
}
