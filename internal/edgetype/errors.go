package edgetype

import "errors"

var (
	// ErrNoGeometry is returned when a turn is built from an edge without
	// a usable geometry.
	ErrNoGeometry = errors.New("edge has no geometry")

	// ErrInvalidBearing is returned for a NaN or infinite bearing.
	ErrInvalidBearing = errors.New("bearing must be a finite number")

	// ErrUnknownPermission is returned for an unparseable permission.
	ErrUnknownPermission = errors.New("unknown street permission")

	// ErrNotTransitMode is returned when a transit edge is built with a
	// street mode.
	ErrNotTransitMode = errors.New("not a transit mode")

	// ErrInvalidRunTime is returned for a negative hop run time.
	ErrInvalidRunTime = errors.New("run time must not be negative")
)
