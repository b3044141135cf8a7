package routing

import (
	"time"

	"github.com/google/uuid"
)

// NowThreshold bounds how far a request's date-time may be from the wall
// clock for the trip to count as planned for now.
const NowThreshold = 15 * time.Hour

// Request is the validated parameter set for one search.
//
// Build a Request with a Builder. After Build returns a Request is never
// mutated; every traversal in the search shares it read-only.
type Request struct {
	// ID correlates log lines of one search.
	ID uuid.UUID

	// RouterID selects a graph in multi-graph deployments.
	RouterID string

	// From and To are the origin and destination, either "lat,lon" or a
	// vertex label. They are resolved by the search loop.
	From string
	To   string

	// IntermediatePlaces lists places to visit between From and To.
	IntermediatePlaces []string

	// IntermediatePlacesOrdered requires visiting IntermediatePlaces in order.
	IntermediatePlacesOrdered bool

	// DateTime is the departure time, or the arrival time when ArriveBy is set.
	DateTime time.Time

	// ArriveBy makes the search run backwards from the destination.
	ArriveBy bool

	Modes      ModeSet `validate:"gt=0"`
	Wheelchair bool

	// Speeds in metres per second.
	WalkSpeed float64 `validate:"gt=0"`
	BikeSpeed float64 `validate:"gt=0"`
	CarSpeed  float64 `validate:"gt=0"`

	// WalkReluctance multiplies walking time into weight.
	WalkReluctance float64 `validate:"gt=0"`

	// MaxWalkDistance caps the walking distance of a path, in metres.
	MaxWalkDistance float64 `validate:"gt=0"`

	// MinTransferTime is the minimum time, in seconds, between alighting
	// one vehicle and boarding another.
	MinTransferTime int `validate:"gte=0"`

	// MaxTransfers caps the number of boardings after the first.
	MaxTransfers int `validate:"gte=0"`

	// TransferPenalty is added to the weight of every boarding after the first.
	TransferPenalty int `validate:"gte=0"`

	// BoardCost is added to the weight of every boarding.
	BoardCost int `validate:"gte=0"`

	PreferredRoutes   RouteSet
	UnpreferredRoutes RouteSet
	BannedRoutes      RouteSet

	UnpreferredRoutePenalty         int `validate:"gte=0"`
	OtherThanPreferredRoutesPenalty int `validate:"gte=0"`

	NumItineraries int `validate:"gte=1,lte=20"`

	Optimize OptimizeType

	// Triangle is non-nil exactly when triangle factors were supplied.
	Triangle *TriangleFactors

	ShowIntermediateStops bool

	// Batch disables goal direction so the search builds a full tree.
	Batch bool

	ElevatorBoardCost int `validate:"gte=0"`
	ElevatorBoardTime int `validate:"gte=0"`
	ElevatorHopCost   int `validate:"gte=0"`
	ElevatorHopTime   int `validate:"gte=0"`

	// TripPlannedForNow is set when DateTime is within NowThreshold of the
	// wall clock at build time. Collaborators use it to decide whether live
	// availability data applies.
	TripPlannedForNow bool
}

// SpeedFor returns the travel speed of a non-transit mode in metres per
// second. Transit modes report the walk speed.
func (r *Request) SpeedFor(mode TraverseMode) float64 {
	switch mode {
	case ModeBicycle:
		return r.BikeSpeed
	case ModeCar:
		return r.CarSpeed
	default:
		return r.WalkSpeed
	}
}
