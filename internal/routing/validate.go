package routing

import (
	"fmt"

	"github.com/go-playground/validator/v10"
)

// requestValidate checks field ranges declared with `validate` tags.
var requestValidate = validator.New(validator.WithRequiredStructEnabled())

// Validate applies the objective and ordering rules to r and returns the
// normalized request. It is a pure function of r's fields: validating an
// already validated request returns an equal request.
//
// Rules, in order:
//   - triangle factors force the TRIANGLE objective (an unset objective
//     defaults to it, any other objective conflicts) and must be affine;
//   - the TRIANGLE objective requires triangle factors;
//   - the deprecated TRANSFERS objective becomes QUICK plus
//     TransfersSurcharge on the transfer penalty;
//   - an unset objective becomes QUICK;
//   - ordered intermediate places are rejected when transit is enabled.
func Validate(r Request) (Request, error) {
	if r.Triangle != nil {
		switch r.Optimize {
		case OptimizeUnset:
			r.Optimize = OptimizeTriangle
		case OptimizeTriangle:
		default:
			return Request{}, fmt.Errorf("%w: got %s", ErrConflictingOptimize, r.Optimize)
		}
		if !r.Triangle.IsAffine() {
			return Request{}, fmt.Errorf("%w: sum is %v", ErrTriangleNotAffine, r.Triangle.Sum())
		}
	} else if r.Optimize == OptimizeTriangle {
		return Request{}, ErrTriangleValuesNotSet
	}

	switch r.Optimize {
	case OptimizeTransfers:
		r.Optimize = OptimizeQuick
		r.TransferPenalty += TransfersSurcharge
	case OptimizeUnset:
		r.Optimize = OptimizeQuick
	}

	if len(r.IntermediatePlaces) > 0 && r.IntermediatePlacesOrdered && r.Modes.IsTransit() {
		return Request{}, ErrOrderedIntermediatesWithTransit
	}

	if err := requestValidate.Struct(r); err != nil {
		return Request{}, fmt.Errorf("%w: %w", ErrInvalidParameter, err)
	}

	return r, nil
}
