package routing

import "errors"

// Configuration errors. They are detected once, when a request is built,
// and are never retried.
var (
	// ErrUnderspecifiedTriangle is returned when some but not all of the
	// three triangle factors are supplied.
	ErrUnderspecifiedTriangle = errors.New("underspecified triangle: safety, slope and time factors are all required")

	// ErrConflictingOptimize is returned when triangle factors are supplied
	// together with an objective other than TRIANGLE.
	ErrConflictingOptimize = errors.New("triangle factors require the TRIANGLE optimize type")

	// ErrTriangleNotAffine is returned when the triangle factors do not sum to one.
	ErrTriangleNotAffine = errors.New("triangle factors must sum to 1")

	// ErrTriangleValuesNotSet is returned when the TRIANGLE objective is
	// requested without any factors.
	ErrTriangleValuesNotSet = errors.New("TRIANGLE optimize type requires triangle factors")

	// ErrOrderedIntermediatesWithTransit is returned for ordered
	// intermediate places on a request that enables transit.
	ErrOrderedIntermediatesWithTransit = errors.New("ordered intermediate places are not supported for transit trips")

	// ErrInvalidParameter is returned when a field is out of range.
	ErrInvalidParameter = errors.New("invalid parameter")

	// ErrUnknownMode is returned for an unparseable mode list.
	ErrUnknownMode = errors.New("unknown traverse mode")

	// ErrUnknownOptimize is returned for an unparseable objective name.
	ErrUnknownOptimize = errors.New("unknown optimize type")

	// ErrMalformedRoute is returned for a route id not in agency_route form.
	ErrMalformedRoute = errors.New("malformed route id")
)

// reasons maps each configuration error to its metric label.
var reasons = []struct {
	err    error
	reason string
}{
	{ErrUnderspecifiedTriangle, "underspecified_triangle"},
	{ErrConflictingOptimize, "conflicting_optimize"},
	{ErrTriangleNotAffine, "triangle_not_affine"},
	{ErrTriangleValuesNotSet, "triangle_values_not_set"},
	{ErrOrderedIntermediatesWithTransit, "ordered_intermediates_with_transit"},
	{ErrUnknownMode, "unknown_mode"},
	{ErrUnknownOptimize, "unknown_optimize"},
	{ErrMalformedRoute, "malformed_route"},
	{ErrInvalidParameter, "invalid_parameter"},
}

// Reason classifies err into a short label. It returns "ok" for nil and
// "other" for errors not raised by this package.
func Reason(err error) string {
	if err == nil {
		return "ok"
	}
	for _, r := range reasons {
		if errors.Is(err, r.err) {
			return r.reason
		}
	}
	return "other"
}
