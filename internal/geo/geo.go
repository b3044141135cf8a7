// Package geo provides the distance and bearing estimators used by graph
// vertices and edges.
//
// Coordinates are orb.Point values (x = longitude, y = latitude, degrees).
package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// MetersPerDegreeAtEquator is the length of one degree of longitude at the equator.
const MetersPerDegreeAtEquator = 111319.9

// cosMaxLat scales degrees to metres for the planar estimator. Fixed at 46°N,
// which overestimates distances south of that latitude.
var cosMaxLat = math.Cos(46 * math.Pi / 180)

// FastDistance returns an approximate planar distance in metres between two
// points. It is cheap enough to call inside a search heuristic.
func FastDistance(a, b orb.Point) float64 {
	xd := b.X() - a.X()
	yd := b.Y() - a.Y()
	return math.Sqrt(xd*xd+yd*yd) * MetersPerDegreeAtEquator * cosMaxLat
}

// Distance returns the great-circle distance in metres between two points.
func Distance(a, b orb.Point) float64 {
	return orbgeo.DistanceHaversine(a, b)
}

// Length returns the great-circle length in metres of a polyline.
func Length(ls orb.LineString) float64 {
	if len(ls) < 2 {
		return 0
	}
	return orbgeo.LengthHaversine(ls)
}

// FirstBearing returns the bearing in degrees of the first non-degenerate
// segment of ls. The second result is false when ls has fewer than two
// distinct points.
func FirstBearing(ls orb.LineString) (float64, bool) {
	for i := 1; i < len(ls); i++ {
		if !ls[i].Equal(ls[0]) {
			return orbgeo.Bearing(ls[0], ls[i]), true
		}
	}
	return 0, false
}

// LastBearing returns the bearing in degrees of the last non-degenerate
// segment of ls, travelling towards the final point.
func LastBearing(ls orb.LineString) (float64, bool) {
	last := len(ls) - 1
	for i := last - 1; i >= 0; i-- {
		if !ls[i].Equal(ls[last]) {
			return orbgeo.Bearing(ls[i], ls[last]), true
		}
	}
	return 0, false
}
