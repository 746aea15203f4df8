package fft2

import "errors"

// Errors returned by 2D transform helpers.
var (
	// ErrEmptyImage indicates a zero-sized input array.
	ErrEmptyImage = errors.New("fft2: empty image")
	// ErrRaggedImage indicates rows of unequal length.
	ErrRaggedImage = errors.New("fft2: ragged image")
)
