package pspec

import "errors"

// Errors returned by the pipeline. Degraded computations (rejected breaks,
// beam correction without a beam) are not errors; they are recorded in
// Warnings.
var (
	// ErrEmptyImage indicates a zero-sized input image.
	ErrEmptyImage = errors.New("pspec: empty image")
	// ErrRaggedImage indicates rows of unequal length.
	ErrRaggedImage = errors.New("pspec: ragged image")
	// ErrShapeMismatch indicates weights or beam of the wrong shape.
	ErrShapeMismatch = errors.New("pspec: shape mismatch")
	// ErrStageOrder indicates a pipeline method called before its
	// prerequisite stage completed.
	ErrStageOrder = errors.New("pspec: prerequisite stage not completed")
)
