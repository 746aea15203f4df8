package apod

import (
	"errors"
	"fmt"
)

var (
	errEmptyCoeffs = errors.New("apod: empty coefficients")
	errZeroSum     = errors.New("apod: coefficient sum is zero")

	// ErrInvalidSize indicates a non-positive kernel dimension.
	ErrInvalidSize = errors.New("apod: kernel dimensions must be positive")
	// ErrShapeMismatch indicates an image/kernel shape mismatch.
	ErrShapeMismatch = errors.New("apod: image and kernel shapes differ")
)

func errKernelSize(ny, nx int) error {
	return fmt.Errorf("%w: got %dx%d", ErrInvalidSize, ny, nx)
}

func errShapeMismatch(a, b int) error {
	return fmt.Errorf("%w: %d vs %d", ErrShapeMismatch, a, b)
}
