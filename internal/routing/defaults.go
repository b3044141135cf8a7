package routing

// Defaults holds the router-wide values used for every parameter a caller
// leaves unset. It is loaded from configuration (see internal/config).
type Defaults struct {
	WalkSpeed       float64 `mapstructure:"walk_speed" json:"walk_speed"`
	BikeSpeed       float64 `mapstructure:"bike_speed" json:"bike_speed"`
	CarSpeed        float64 `mapstructure:"car_speed" json:"car_speed"`
	WalkReluctance  float64 `mapstructure:"walk_reluctance" json:"walk_reluctance"`
	MaxWalkDistance float64 `mapstructure:"max_walk_distance" json:"max_walk_distance"`
	NumItineraries  int     `mapstructure:"num_itineraries" json:"num_itineraries"`
	MinTransferTime int     `mapstructure:"min_transfer_time" json:"min_transfer_time"`
	MaxTransfers    int     `mapstructure:"max_transfers" json:"max_transfers"`
	TransferPenalty int     `mapstructure:"transfer_penalty" json:"transfer_penalty"`
	BoardCost       int     `mapstructure:"board_cost" json:"board_cost"`

	UnpreferredRoutePenalty         int `mapstructure:"unpreferred_route_penalty" json:"unpreferred_route_penalty"`
	OtherThanPreferredRoutesPenalty int `mapstructure:"other_than_preferred_routes_penalty" json:"other_than_preferred_routes_penalty"`

	ElevatorBoardCost int `mapstructure:"elevator_board_cost" json:"elevator_board_cost"`
	ElevatorBoardTime int `mapstructure:"elevator_board_time" json:"elevator_board_time"`
	ElevatorHopCost   int `mapstructure:"elevator_hop_cost" json:"elevator_hop_cost"`
	ElevatorHopTime   int `mapstructure:"elevator_hop_time" json:"elevator_hop_time"`

	// Modes is a mode list in ParseModeSet syntax.
	Modes string `mapstructure:"modes" json:"modes"`

	// Optimize is the objective used when neither an objective nor triangle
	// factors are requested.
	Optimize OptimizeType `mapstructure:"optimize" json:"optimize"`
}

// StandardDefaults returns the stock router defaults.
func StandardDefaults() Defaults {
	return Defaults{
		WalkSpeed:                       1.33,
		BikeSpeed:                       5,
		CarSpeed:                        15,
		WalkReluctance:                  2,
		MaxWalkDistance:                 800,
		NumItineraries:                  3,
		MinTransferTime:                 240,
		MaxTransfers:                    2,
		TransferPenalty:                 0,
		BoardCost:                       600,
		UnpreferredRoutePenalty:         300,
		OtherThanPreferredRoutesPenalty: 300,
		ElevatorBoardCost:               90,
		ElevatorBoardTime:               90,
		ElevatorHopCost:                 20,
		ElevatorHopTime:                 20,
		Modes:                           "TRANSIT,WALK",
		Optimize:                        OptimizeQuick,
	}
}
