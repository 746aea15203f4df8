// Package smooth provides Gaussian smoothing along a 1D axis, used when
// regridding the spectral dimension of data cubes.
package smooth

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidStddev indicates a negative or non-finite kernel width.
var ErrInvalidStddev = errors.New("smooth: kernel stddev must be finite and non-negative")

// GaussianKernel returns a normalized Gaussian kernel with the given
// standard deviation in samples, truncated at four standard deviations.
// A zero stddev yields the identity kernel.
func GaussianKernel(stddev float64) ([]float64, error) {
	if stddev < 0 || math.IsNaN(stddev) || math.IsInf(stddev, 0) {
		return nil, fmt.Errorf("%w: %v", ErrInvalidStddev, stddev)
	}

	radius := int(4*stddev + 0.5)
	if radius < 1 && stddev > 0 {
		radius = 1
	}

	kernel := make([]float64, 2*radius+1)

	var sum float64

	for i := range kernel {
		d := float64(i - radius)
		kernel[i] = math.Exp(-0.5 * d * d / (stddev * stddev))
		sum += kernel[i]
	}

	if stddev == 0 {
		kernel[radius] = 1
		sum = 1
	}

	for i := range kernel {
		kernel[i] /= sum
	}

	return kernel, nil
}

// Convolve1D convolves signal with a normalized kernel in "same" mode.
//
// NaN samples are excluded from each weighted sum and the remaining weights
// are renormalized, so invalid entries do not propagate into their
// neighborhood. Positions where no valid sample falls under the kernel
// return NaN. Edge handling uses the same renormalization, which keeps a
// constant signal constant.
func Convolve1D(signal, kernel []float64) []float64 {
	n := len(signal)
	if n == 0 || len(kernel) == 0 {
		return nil
	}

	radius := len(kernel) / 2
	out := make([]float64, n)

	for i := range out {
		var acc, norm float64

		for k, w := range kernel {
			j := i + k - radius
			if j < 0 || j >= n {
				continue
			}

			v := signal[j]
			if math.IsNaN(v) {
				continue
			}

			acc += w * v
			norm += w
		}

		if norm == 0 {
			out[i] = math.NaN()

			continue
		}

		out[i] = acc / norm
	}

	return out
}
