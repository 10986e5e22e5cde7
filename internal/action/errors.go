package action

import (
	"errors"
	"fmt"
)

var (
	// ErrDimensionMismatch indicates a state, control or bound vector whose size
	// differs from the model's declared dimensions.
	ErrDimensionMismatch = errors.New("action: dimension mismatch")

	// ErrDataMismatch indicates a Data created for a model with other dimensions.
	ErrDataMismatch = errors.New("action: data does not belong to this model")

	// ErrInvalidBounds indicates a lower control bound above the upper one.
	ErrInvalidBounds = errors.New("action: lower control bound exceeds upper bound")

	// ErrParameterBounds indicates a construction parameter outside its valid range.
	ErrParameterBounds = errors.New("action: parameter out of valid bounds")

	// ErrNotConverged indicates QuasiStatic exhausted its iteration budget.
	ErrNotConverged = errors.New("action: quasi-static search did not converge")

	// ErrFactorization indicates the SVD of the control Jacobian failed.
	ErrFactorization = errors.New("action: singular value decomposition failed")
)

// DimensionError reports which argument of which operation had the wrong size.
type DimensionError struct {
	Op   string
	Arg  string
	Got  int
	Want int
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("%s: %s has size %d, want %d", e.Op, e.Arg, e.Got, e.Want)
}

func (e *DimensionError) Unwrap() error {
	return ErrDimensionMismatch
}
