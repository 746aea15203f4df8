package radial

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptySpectrum indicates a zero-sized input spectrum.
	ErrEmptySpectrum = errors.New("radial: empty spectrum")
	// ErrRaggedSpectrum indicates rows of unequal length.
	ErrRaggedSpectrum = errors.New("radial: ragged spectrum")
	// ErrDegenerateRange indicates that no positive frequency range remains
	// after applying the cutoff.
	ErrDegenerateRange = errors.New("radial: degenerate frequency range")
)

func errRagged(row, got, want int) error {
	return fmt.Errorf("%w: row %d has %d columns, want %d", ErrRaggedSpectrum, row, got, want)
}

func errDegenerateRange(lo, hi float64) error {
	return fmt.Errorf("%w: [%g, %g]", ErrDegenerateRange, lo, hi)
}
