package segfit

import "errors"

// Errors returned by the fitting routines. Rejected breaks and
// non-convergence are not errors; they surface as warnings on the Fit.
var (
	// ErrTooFewPoints indicates not enough finite data for the model.
	ErrTooFewPoints = errors.New("segfit: too few points")
	// ErrLengthMismatch indicates x and y of different lengths.
	ErrLengthMismatch = errors.New("segfit: length mismatch")
	// ErrBreakOutOfRange indicates an initial break guess outside the data.
	ErrBreakOutOfRange = errors.New("segfit: break outside data range")
	// ErrSingularFit indicates a rank-deficient design matrix.
	ErrSingularFit = errors.New("segfit: singular design matrix")
)
