package fft2

import (
	"fmt"
	"math"

	algofft "github.com/MeKo-Christian/algo-fft"
	"github.com/cwbudde/algo-vecmath"
)

// dims validates a rectangular, non-empty 2D array and returns its shape.
func dims(img [][]float64) (int, int, error) {
	ny := len(img)
	if ny == 0 {
		return 0, 0, ErrEmptyImage
	}

	nx := len(img[0])
	for i := range img {
		if len(img[i]) != nx {
			return 0, 0, fmt.Errorf("%w: row %d has %d columns, want %d", ErrRaggedImage, i, len(img[i]), nx)
		}
	}

	if nx == 0 {
		return 0, 0, ErrEmptyImage
	}

	return ny, nx, nil
}

// Transform computes the full 2D DFT of a real-valued image.
//
// The transform is composed from 1D plans: one pass over rows, one over
// columns. The result is unshifted (zero frequency at index [0][0]); use
// Shift to center it. The input must be rectangular and free of NaN values.
func Transform(img [][]float64) ([][]complex128, error) {
	ny, nx, err := dims(img)
	if err != nil {
		return nil, err
	}

	rowPlan, err := algofft.NewPlan64(nx)
	if err != nil {
		return nil, fmt.Errorf("fft2: failed to create row plan: %w", err)
	}

	colPlan, err := algofft.NewPlan64(ny)
	if err != nil {
		return nil, fmt.Errorf("fft2: failed to create column plan: %w", err)
	}

	spec := make([][]complex128, ny)
	rowBuf := make([]complex128, nx)

	for i := range spec {
		for j, v := range img[i] {
			rowBuf[j] = complex(v, 0)
		}

		spec[i] = make([]complex128, nx)
		if err := rowPlan.Forward(spec[i], rowBuf); err != nil {
			return nil, fmt.Errorf("fft2: row transform failed: %w", err)
		}
	}

	colIn := make([]complex128, ny)
	colOut := make([]complex128, ny)

	for j := range nx {
		for i := range ny {
			colIn[i] = spec[i][j]
		}

		if err := colPlan.Forward(colOut, colIn); err != nil {
			return nil, fmt.Errorf("fft2: column transform failed: %w", err)
		}

		for i := range ny {
			spec[i][j] = colOut[i]
		}
	}

	return spec, nil
}

// Inverse computes the 2D inverse DFT, returning the real part.
//
// Inverse(Transform(img)) recovers img up to round-off.
func Inverse(spec [][]complex128) ([][]float64, error) {
	ny := len(spec)
	if ny == 0 {
		return nil, ErrEmptyImage
	}

	nx := len(spec[0])
	for i := range spec {
		if len(spec[i]) != nx {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrRaggedImage, i, len(spec[i]), nx)
		}
	}

	if nx == 0 {
		return nil, ErrEmptyImage
	}

	rowPlan, err := algofft.NewPlan64(nx)
	if err != nil {
		return nil, fmt.Errorf("fft2: failed to create row plan: %w", err)
	}

	colPlan, err := algofft.NewPlan64(ny)
	if err != nil {
		return nil, fmt.Errorf("fft2: failed to create column plan: %w", err)
	}

	work := make([][]complex128, ny)

	colIn := make([]complex128, ny)
	colOut := make([]complex128, ny)

	for j := range nx {
		for i := range ny {
			colIn[i] = spec[i][j]
		}

		if err := colPlan.Inverse(colOut, colIn); err != nil {
			return nil, fmt.Errorf("fft2: column transform failed: %w", err)
		}

		for i := range ny {
			if work[i] == nil {
				work[i] = make([]complex128, nx)
			}

			work[i][j] = colOut[i]
		}
	}

	out := make([][]float64, ny)
	rowOut := make([]complex128, nx)

	for i := range work {
		if err := rowPlan.Inverse(rowOut, work[i]); err != nil {
			return nil, fmt.Errorf("fft2: row transform failed: %w", err)
		}

		out[i] = make([]float64, nx)
		for j := range rowOut {
			out[i][j] = real(rowOut[j])
		}
	}

	return out, nil
}

// PowerSpectrum returns |X|^2 for every cell of a complex spectrum.
func PowerSpectrum(spec [][]complex128) [][]float64 {
	out := make([][]float64, len(spec))

	for i, row := range spec {
		re := make([]float64, len(row))
		im := make([]float64, len(row))

		for j, c := range row {
			re[j] = real(c)
			im[j] = imag(c)
		}

		out[i] = make([]float64, len(row))
		vecmath.Power(out[i], re, im)
	}

	return out
}

// Shift centers the zero-frequency cell of an unshifted 2D spectrum,
// swapping half-planes along both axes. For odd sizes the extra element
// lands in the leading half, matching the usual fftshift convention.
func Shift[T any](spec [][]T) [][]T {
	ny := len(spec)
	if ny == 0 {
		return spec
	}

	out := make([][]T, ny)
	splitY := (ny + 1) / 2

	for i := range out {
		src := spec[(i+splitY)%ny]

		nx := len(src)
		splitX := (nx + 1) / 2

		row := make([]T, nx)
		for j := range row {
			row[j] = src[(j+splitX)%nx]
		}

		out[i] = row
	}

	return out
}

// FreqCenter returns the index of the zero-frequency cell along an axis of
// length n after Shift.
func FreqCenter(n int) int {
	return n / 2
}

// FreqGrid returns the radial spatial frequency, in cycles per pixel, of
// every cell of a shifted ny x nx spectrum.
func FreqGrid(ny, nx int) [][]float64 {
	fy := shiftedFreqs(ny)
	fx := shiftedFreqs(nx)

	grid := make([][]float64, ny)
	for i := range grid {
		row := make([]float64, nx)
		for j := range row {
			row[j] = math.Hypot(fy[i], fx[j])
		}

		grid[i] = row
	}

	return grid
}

// shiftedFreqs returns fftshift(fftfreq(n)): per-axis frequencies in
// cycles per pixel with zero at index n/2.
func shiftedFreqs(n int) []float64 {
	out := make([]float64, n)
	split := (n + 1) / 2

	for i := range out {
		k := (i + split) % n
		if k < split {
			out[i] = float64(k) / float64(n)
		} else {
			out[i] = float64(k-n) / float64(n)
		}
	}

	return out
}
