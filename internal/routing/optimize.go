package routing

import (
	"fmt"
	"math"
	"strings"
)

// OptimizeType is the objective a search minimizes.
type OptimizeType string

const (
	// OptimizeUnset means the caller did not choose; validation picks one.
	OptimizeUnset     OptimizeType = ""
	OptimizeQuick     OptimizeType = "QUICK"
	OptimizeSafe      OptimizeType = "SAFE"
	OptimizeFlat      OptimizeType = "FLAT"
	OptimizeGreenways OptimizeType = "GREENWAYS"
	OptimizeTriangle  OptimizeType = "TRIANGLE"

	// OptimizeTransfers is deprecated. Validation rewrites it to
	// OptimizeQuick plus TransfersSurcharge on the transfer penalty.
	OptimizeTransfers OptimizeType = "TRANSFERS"
)

// TransfersSurcharge is the transfer penalty added when the deprecated
// TRANSFERS objective is requested.
const TransfersSurcharge = 1800

// ParseOptimizeType parses an objective name, case-insensitively.
func ParseOptimizeType(s string) (OptimizeType, error) {
	switch o := OptimizeType(strings.ToUpper(strings.TrimSpace(s))); o {
	case OptimizeQuick, OptimizeSafe, OptimizeFlat, OptimizeGreenways, OptimizeTriangle, OptimizeTransfers:
		return o, nil
	default:
		return OptimizeUnset, fmt.Errorf("%w: %q", ErrUnknownOptimize, s)
	}
}

// affineTolerance is three units in the last place of 1.0.
var affineTolerance = 3 * (math.Nextafter(1, 2) - 1)

// TriangleFactors weights the bike triangle objective. The three factors
// are non-negative and sum to one.
type TriangleFactors struct {
	Safety float64 `validate:"gte=0,lte=1"`
	Slope  float64 `validate:"gte=0,lte=1"`
	Time   float64 `validate:"gte=0,lte=1"`
}

// Sum returns Safety + Slope + Time.
func (f TriangleFactors) Sum() float64 {
	return f.Safety + f.Slope + f.Time
}

// IsAffine reports whether the factors sum to one within affineTolerance.
func (f TriangleFactors) IsAffine() bool {
	return math.Abs(f.Sum()-1) <= affineTolerance
}
