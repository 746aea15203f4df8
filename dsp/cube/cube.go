package cube

import (
	"fmt"
	"math"

	"github.com/montanaflynn/stats"

	"github.com/cwbudde/algo-pspec/dsp/unit"
)

// Cube is a spectral data cube: an ordered spectral axis with a 2D spatial
// plane per channel. The spectral axis must be uniform (constant channel
// separation); it may ascend or descend. The channel width is always derived
// from the axis, never stored.
type Cube struct {
	data     [][][]float64 // channel-major: data[ch][y][x]
	axis     []float64
	axisUnit unit.Unit
}

// New validates and wraps cube data. The data is referenced, not copied;
// callers must not mutate it afterwards.
func New(data [][][]float64, axis []float64, axisUnit unit.Unit) (*Cube, error) {
	if len(data) < 2 {
		return nil, fmt.Errorf("%w: got %d channels, need at least 2", ErrTooFewChannels, len(data))
	}

	if len(axis) != len(data) {
		return nil, fmt.Errorf("%w: %d axis samples for %d channels", ErrAxisMismatch, len(axis), len(data))
	}

	ny := len(data[0])
	if ny == 0 {
		return nil, ErrEmptyPlane
	}

	nx := len(data[0][0])
	if nx == 0 {
		return nil, ErrEmptyPlane
	}

	for ch := range data {
		if len(data[ch]) != ny {
			return nil, fmt.Errorf("%w: channel %d has %d rows, want %d", ErrRaggedPlane, ch, len(data[ch]), ny)
		}

		for y := range data[ch] {
			if len(data[ch][y]) != nx {
				return nil, fmt.Errorf("%w: channel %d row %d has %d columns, want %d",
					ErrRaggedPlane, ch, y, len(data[ch][y]), nx)
			}
		}
	}

	if err := validateAxis(axis); err != nil {
		return nil, err
	}

	return &Cube{data: data, axis: axis, axisUnit: axisUnit}, nil
}

// validateAxis requires a strictly monotonic axis with constant step.
func validateAxis(axis []float64) error {
	step := axis[1] - axis[0]
	if step == 0 || math.IsNaN(step) || math.IsInf(step, 0) {
		return fmt.Errorf("%w: first step is %v", ErrNonUniformAxis, step)
	}

	tol := 1e-6 * math.Abs(step)

	for i := 2; i < len(axis); i++ {
		d := axis[i] - axis[i-1]
		if math.Abs(d-step) > tol {
			return fmt.Errorf("%w: step %v at channel %d, want %v", ErrNonUniformAxis, d, i-1, step)
		}
	}

	return nil
}

// NumChannels returns the number of spectral channels.
func (c *Cube) NumChannels() int { return len(c.data) }

// SpatialShape returns the per-channel plane dimensions.
func (c *Cube) SpatialShape() (ny, nx int) { return len(c.data[0]), len(c.data[0][0]) }

// SpectralAxis returns a copy of the spectral axis.
func (c *Cube) SpectralAxis() []float64 {
	return append([]float64(nil), c.axis...)
}

// AxisUnit returns the unit of the spectral axis.
func (c *Cube) AxisUnit() unit.Unit { return c.axisUnit }

// ChannelWidth returns the signed spectral separation between consecutive
// channels.
func (c *Cube) ChannelWidth() float64 { return c.axis[1] - c.axis[0] }

// Channel returns the spatial plane of channel ch. The plane is shared, not
// copied.
func (c *Cube) Channel(ch int) [][]float64 { return c.data[ch] }

// Reducer aggregates a block of channel samples into one value.
type Reducer func([]float64) float64

// ReduceMean averages the finite samples of a block; all-NaN blocks reduce
// to NaN.
func ReduceMean(vals []float64) float64 {
	var sum float64

	n := 0

	for _, v := range vals {
		if math.IsNaN(v) {
			continue
		}

		sum += v
		n++
	}

	if n == 0 {
		return math.NaN()
	}

	return sum / float64(n)
}

// ReduceMedian returns the median of the finite samples of a block.
func ReduceMedian(vals []float64) float64 {
	finite := make([]float64, 0, len(vals))

	for _, v := range vals {
		if !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}

	m, err := stats.Median(finite)
	if err != nil {
		return math.NaN()
	}

	return m
}

// DownsampleOption configures Downsample.
type DownsampleOption func(*downsampleConfig)

type downsampleConfig struct {
	reduce Reducer
}

// WithReducer overrides the block reduction function (default ReduceMean).
func WithReducer(r Reducer) DownsampleOption {
	return func(c *downsampleConfig) {
		if r != nil {
			c.reduce = r
		}
	}
}

// Downsample aggregates every factor consecutive channels into one, using
// the configured reduction. The result has floor(N/factor) channels whose
// axis samples are the block means of the source axis. A factor of 1 is a
// no-op returning the receiver with a warning.
func (c *Cube) Downsample(factor int, opts ...DownsampleOption) (*Cube, []string, error) {
	if factor <= 0 {
		return nil, nil, fmt.Errorf("%w: %d", ErrBadFactor, factor)
	}

	if factor == 1 {
		return c, []string{"cube: downsample factor 1 leaves the cube unchanged"}, nil
	}

	nOut := c.NumChannels() / factor
	if nOut < 2 {
		return nil, nil, fmt.Errorf("%w: factor %d leaves %d channels from %d, need at least 2",
			ErrBadFactor, factor, nOut, c.NumChannels())
	}

	cfg := downsampleConfig{reduce: ReduceMean}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	ny, nx := c.SpatialShape()

	out := make([][][]float64, nOut)
	axis := make([]float64, nOut)
	block := make([]float64, factor)

	for o := range out {
		lo := o * factor

		var axisSum float64
		for k := range factor {
			axisSum += c.axis[lo+k]
		}

		axis[o] = axisSum / float64(factor)

		plane := make([][]float64, ny)
		for y := range plane {
			row := make([]float64, nx)
			for x := range row {
				for k := range factor {
					block[k] = c.data[lo+k][y][x]
				}

				row[x] = cfg.reduce(block)
			}

			plane[y] = row
		}

		out[o] = plane
	}

	ncube, err := New(out, axis, c.axisUnit)
	if err != nil {
		return nil, nil, err
	}

	return ncube, nil, nil
}
