package edgetype

import (
	"github.com/Benny93/tripgraph/internal/routing"
)

// access is the accessibility and permission data shared by street-level
// edge kinds.
type access struct {
	permission           Permission
	wheelchairAccessible bool
}

// admits applies the shared street policy: a wheelchair request needs an
// accessible edge, and the mode must be permitted.
func (a access) admits(mode routing.TraverseMode, req *routing.Request) bool {
	if req.Wheelchair && !a.wheelchairAccessible {
		return false
	}
	return a.permission.PermitsMode(mode)
}

func (a access) Permission() Permission { return a.permission }
func (a access) WheelchairAccessible() bool { return a.wheelchairAccessible }
