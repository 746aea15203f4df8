package cube

import "errors"

// Errors returned by cube construction and regridding. No-op regrids and
// downsamples are not errors; they return the receiver with a warning.
var (
	// ErrTooFewChannels indicates fewer than 2 spectral channels.
	ErrTooFewChannels = errors.New("cube: too few channels")
	// ErrAxisMismatch indicates a spectral axis of the wrong length.
	ErrAxisMismatch = errors.New("cube: spectral axis length mismatch")
	// ErrEmptyPlane indicates a zero-sized spatial plane.
	ErrEmptyPlane = errors.New("cube: empty spatial plane")
	// ErrRaggedPlane indicates non-uniform spatial dimensions.
	ErrRaggedPlane = errors.New("cube: ragged spatial plane")
	// ErrNonUniformAxis indicates unequal channel separations.
	ErrNonUniformAxis = errors.New("cube: spectral axis is not uniform")
	// ErrBadFactor indicates an unusable downsampling factor.
	ErrBadFactor = errors.New("cube: invalid downsample factor")
	// ErrBadWidth indicates an unusable regrid target width.
	ErrBadWidth = errors.New("cube: invalid channel width")
	// ErrUpsample indicates a regrid target narrower than the current
	// resolution. Only coarsening is supported.
	ErrUpsample = errors.New("cube: upsampling the spectral grid is not supported")
)
