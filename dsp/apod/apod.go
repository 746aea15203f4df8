package apod

import (
	"math"

	"github.com/cwbudde/algo-vecmath"
)

// Type identifies an apodizing taper.
type Type int

const (
	TypeRectangular Type = iota
	TypeHann
	TypeCosineBell
	TypeSplitCosineBell
	TypeGauss
)

// Option configures taper generation.
type Option func(*config)

type config struct {
	alpha    float64
	periodic bool
}

func defaultConfig() config {
	return config{alpha: 0.2}
}

// WithAlpha configures the taper fraction for the split cosine bell
// (fraction of the extent occupied by the cosine ramps) or the relative
// standard deviation for the Gaussian taper.
func WithAlpha(v float64) Option {
	return func(c *config) {
		if v >= 0 {
			c.alpha = v
		}
	}
}

// WithPeriodic configures periodic form (FFT framing) instead of symmetric form.
func WithPeriodic() Option {
	return func(c *config) {
		c.periodic = true
	}
}

// Generate returns 1D taper coefficients of the given length.
func Generate(t Type, length int, opts ...Option) []float64 {
	if length <= 0 {
		return nil
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	out := make([]float64, length)
	if length == 1 {
		out[0] = 1

		return out
	}

	den := float64(length - 1)
	if cfg.periodic {
		den = float64(length)
	}

	for i := range out {
		x := float64(i) / den
		out[i] = taperAt(t, x, cfg)
	}

	return out
}

// taperAt evaluates the taper at normalized position x in [0, 1].
func taperAt(t Type, x float64, cfg config) float64 {
	switch t {
	case TypeHann:
		return 0.5 * (1 - math.Cos(2*math.Pi*x))
	case TypeCosineBell:
		return math.Sin(math.Pi * x)
	case TypeSplitCosineBell:
		return splitCosineBellAt(x, cfg.alpha)
	case TypeGauss:
		return gaussAt(x, cfg.alpha)
	case TypeRectangular:
		return 1
	default:
		return 1
	}
}

// splitCosineBellAt evaluates a flat-topped taper whose outer alpha fraction
// is a raised cosine ramp (the Tukey window).
func splitCosineBellAt(x, alpha float64) float64 {
	if alpha <= 0 {
		return 1
	}

	if alpha >= 1 {
		// Degenerates to the Hann taper.
		return 0.5 * (1 - math.Cos(2*math.Pi*x))
	}

	half := alpha / 2
	switch {
	case x < half:
		return 0.5 * (1 + math.Cos(math.Pi*(2*x/alpha-1)))
	case x > 1-half:
		return 0.5 * (1 + math.Cos(math.Pi*(2*(x-1)/alpha+1)))
	default:
		return 1
	}
}

func gaussAt(x, alpha float64) float64 {
	if alpha <= 0 {
		return 1
	}

	// alpha is the standard deviation relative to half the extent.
	sigma := alpha / 2

	d := x - 0.5

	return math.Exp(-0.5 * (d / sigma) * (d / sigma))
}

// Kernel2D returns a 2D apodizing kernel of shape ny x nx, formed as the
// outer product of the per-axis 1D tapers.
func Kernel2D(t Type, ny, nx int, opts ...Option) ([][]float64, error) {
	if ny <= 0 || nx <= 0 {
		return nil, errKernelSize(ny, nx)
	}

	wy := Generate(t, ny, opts...)
	wx := Generate(t, nx, opts...)

	kernel := make([][]float64, ny)
	for i := range kernel {
		row := make([]float64, nx)
		for j := range row {
			row[j] = wy[i] * wx[j]
		}

		kernel[i] = row
	}

	return kernel, nil
}

// Apply multiplies img by the kernel in place, row by row.
// Both must have identical shape.
func Apply(img, kernel [][]float64) error {
	if len(img) != len(kernel) {
		return errShapeMismatch(len(img), len(kernel))
	}

	for i := range img {
		if len(img[i]) != len(kernel[i]) {
			return errShapeMismatch(len(img[i]), len(kernel[i]))
		}

		vecmath.MulBlockInPlace(img[i], kernel[i])
	}

	return nil
}

// EquivalentNoiseBandwidth returns the ENBW in bins for a taper.
func EquivalentNoiseBandwidth(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	var sum, sumSq float64
	for _, c := range coeffs {
		sum += c
		sumSq += c * c
	}

	if sum == 0 {
		return 0, errZeroSum
	}

	return float64(len(coeffs)) * sumSq / (sum * sum), nil
}

// CoherentGain returns the normalized DC gain of a taper.
func CoherentGain(coeffs []float64) (float64, error) {
	if len(coeffs) == 0 {
		return 0, errEmptyCoeffs
	}

	var sum float64
	for _, c := range coeffs {
		sum += c
	}

	return sum / float64(len(coeffs)), nil
}
