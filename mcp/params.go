package mcp

import (
	"fmt"
	"math"
	"time"

	"github.com/Benny93/tripgraph/internal/routing"
)

// paramsFromArgs binds tool arguments to routing parameters. Absent keys
// stay unset so the builder applies its defaults. JSON numbers arrive as
// float64; integer fields reject fractional values.
func paramsFromArgs(args map[string]any) (routing.Params, error) {
	var p routing.Params
	b := binder{args: args}

	p.From = b.str("from")
	p.To = b.str("to")
	p.PreferredRoutes = b.str("preferred_routes")
	p.UnpreferredRoutes = b.str("unpreferred_routes")
	p.BannedRoutes = b.str("banned_routes")

	p.ArriveBy = b.boolean("arrive_by")
	p.Wheelchair = b.boolean("wheelchair")
	p.IntermediatePlacesOrdered = b.boolean("intermediate_places_ordered")

	p.WalkSpeed = b.number("walk_speed")
	p.MaxWalkDistance = b.number("max_walk_distance")
	p.TriangleSafetyFactor = b.number("triangle_safety_factor")
	p.TriangleSlopeFactor = b.number("triangle_slope_factor")
	p.TriangleTimeFactor = b.number("triangle_time_factor")

	p.MinTransferTime = b.integer("min_transfer_time")
	p.MaxTransfers = b.integer("max_transfers")
	p.TransferPenalty = b.integer("transfer_penalty")
	p.NumItineraries = b.integer("num_itineraries")

	if raw, ok := args["intermediate_places"].([]any); ok {
		for _, place := range raw {
			if s, ok := place.(string); ok {
				p.IntermediatePlaces = append(p.IntermediatePlaces, s)
			}
		}
	}

	if s := b.str("date_time"); s != "" && b.err == nil {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return routing.Params{}, fmt.Errorf("date_time: %w", err)
		}
		p.DateTime = &t
	}
	if s := b.str("optimize"); s != "" && b.err == nil {
		o, err := routing.ParseOptimizeType(s)
		if err != nil {
			return routing.Params{}, err
		}
		p.Optimize = &o
	}
	if s := b.str("modes"); s != "" && b.err == nil {
		m, err := routing.ParseModeSet(s)
		if err != nil {
			return routing.Params{}, err
		}
		p.Modes = &m
	}

	if b.err != nil {
		return routing.Params{}, b.err
	}
	return p, nil
}

// binder reads typed optional values from tool arguments and keeps the
// first type error.
type binder struct {
	args map[string]any
	err  error
}

func (b *binder) fail(key, want string, got any) {
	if b.err == nil {
		b.err = fmt.Errorf("argument %s: want %s, got %T", key, want, got)
	}
}

func (b *binder) str(key string) string {
	v, ok := b.args[key]
	if !ok || v == nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		b.fail(key, "string", v)
	}
	return s
}

func (b *binder) boolean(key string) *bool {
	v, ok := b.args[key]
	if !ok || v == nil {
		return nil
	}
	x, ok := v.(bool)
	if !ok {
		b.fail(key, "boolean", v)
		return nil
	}
	return &x
}

func (b *binder) number(key string) *float64 {
	v, ok := b.args[key]
	if !ok || v == nil {
		return nil
	}
	x, ok := v.(float64)
	if !ok {
		b.fail(key, "number", v)
		return nil
	}
	return &x
}

func (b *binder) integer(key string) *int {
	f := b.number(key)
	if f == nil {
		return nil
	}
	if *f != math.Trunc(*f) {
		b.fail(key, "integer", *f)
		return nil
	}
	n := int(*f)
	return &n
}
