package cube

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/interp"

	"github.com/cwbudde/algo-pspec/dsp/smooth"
	"github.com/cwbudde/algo-pspec/dsp/unit"
)

// fwhmFactor converts a full width at half maximum to a standard deviation.
var fwhmFactor = math.Sqrt(8 * math.Ln2)

// Regrid resamples the spectral axis to (approximately) the target channel
// width. The width may be a pixel multiple (unit.Pix) or a quantity in the
// cube's own spectral unit.
//
// The cube is first smoothed along the spectral axis with a Gaussian whose
// FWHM is the quadrature difference of the target and current widths, then
// interpolated onto a uniform axis spanning the original range with
// floor(N/ratio) samples, preserving the axis direction.
//
// A target narrower than the current width is a fatal error; an equal target
// returns the receiver unchanged with a warning.
func (c *Cube) Regrid(width unit.Quantity) (*Cube, []string, error) {
	current := math.Abs(c.ChannelWidth())

	var target float64

	switch width.Unit {
	case unit.Pix:
		target = width.Value * current
	case c.axisUnit:
		target = math.Abs(width.Value)
	default:
		return nil, nil, fmt.Errorf("%w: regrid width %s for a %s axis", unit.ErrIncompatibleUnits, width, c.axisUnit)
	}

	if target <= 0 || math.IsNaN(target) || math.IsInf(target, 0) {
		return nil, nil, fmt.Errorf("%w: %s", ErrBadWidth, width)
	}

	ratio := target / current

	if math.Abs(ratio-1) < 1e-9 {
		return c, []string{"cube: requested channel width matches the original, returning the cube unchanged"}, nil
	}

	if ratio < 1 {
		return nil, nil, fmt.Errorf("%w: requested width %g is a factor %g smaller than the current width %g",
			ErrUpsample, target, 1/ratio, current)
	}

	nOut := int(float64(c.NumChannels()) / ratio)
	if nOut < 2 {
		return nil, nil, fmt.Errorf("%w: width %s leaves %d channels, need at least 2", ErrBadWidth, width, nOut)
	}

	// Smoothing kernel: target width deconvolved from the current width.
	stddev := math.Sqrt(target*target-current*current) / current / fwhmFactor

	kernel, err := smooth.GaussianKernel(stddev)
	if err != nil {
		return nil, nil, err
	}

	descending := c.ChannelWidth() < 0

	// Ascending copy of the source axis for interpolation.
	srcAxis := c.SpectralAxis()
	if descending {
		reverse(srcAxis)
	}

	lo, hi := srcAxis[0], srcAxis[len(srcAxis)-1]

	newAxis := make([]float64, nOut)
	for i := range newAxis {
		newAxis[i] = lo + (hi-lo)*float64(i)/float64(nOut-1)
	}

	ny, nx := c.SpatialShape()
	nch := c.NumChannels()

	out := make([][][]float64, nOut)
	for o := range out {
		plane := make([][]float64, ny)
		for y := range plane {
			plane[y] = make([]float64, nx)
		}

		out[o] = plane
	}

	spec := make([]float64, nch)

	var pl interp.PiecewiseLinear

	for y := range ny {
		for x := range nx {
			for ch := range nch {
				spec[ch] = c.data[ch][y][x]
			}

			smoothed := smooth.Convolve1D(spec, kernel)
			if descending {
				reverse(smoothed)
			}

			if err := pl.Fit(srcAxis, smoothed); err != nil {
				return nil, nil, fmt.Errorf("cube: spectral interpolation failed at pixel (%d, %d): %w", y, x, err)
			}

			for o := range out {
				out[o][y][x] = pl.Predict(newAxis[o])
			}
		}
	}

	outAxis := append([]float64(nil), newAxis...)
	if descending {
		reverse(outAxis)
		reverseCube(out)
	}

	ncube, err := New(out, outAxis, c.axisUnit)
	if err != nil {
		return nil, nil, err
	}

	return ncube, nil, nil
}

func reverse(s []float64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

func reverseCube(s [][][]float64) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
