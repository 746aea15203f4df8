package radial

import (
	"math"

	"gonum.org/v1/gonum/stat"

	"github.com/cwbudde/algo-pspec/dsp/fft2"
)

// Profile is a radially averaged power spectrum.
//
// Freqs is strictly increasing and starts above zero. Power has the same
// length. Stddev is nil unless requested; when present it holds the
// population standard deviation of the contributions in each bin.
type Profile struct {
	Freqs  []float64
	Power  []float64
	Stddev []float64
}

// Option configures the binning.
type Option func(*config)

type config struct {
	stddev     bool
	logSpacing bool
	maxFreq    float64
	binCount   int
}

func defaultConfig() config {
	return config{maxFreq: math.Inf(1)}
}

// WithStddev enables per-bin standard deviations.
func WithStddev() Option {
	return func(c *config) {
		c.stddev = true
	}
}

// WithLogSpacing uses logarithmically spaced bin edges instead of linear.
func WithLogSpacing() Option {
	return func(c *config) {
		c.logSpacing = true
	}
}

// WithMaxFreq caps the binned frequency range at f cycles per pixel.
func WithMaxFreq(f float64) Option {
	return func(c *config) {
		if f > 0 {
			c.maxFreq = f
		}
	}
}

// WithBinCount overrides the number of radial bins.
// The default is half the larger image dimension.
func WithBinCount(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.binCount = n
		}
	}
}

// BinPSpec reduces a frequency-centered 2D power spectrum to a 1D radial
// profile. Every cell is assigned to an annular bin by its distance from the
// zero-frequency cell; the mean power per bin is reported. Cells at zero
// radius and NaN cells are skipped, and bins with no members are dropped.
func BinPSpec(ps2D [][]float64, opts ...Option) (Profile, error) {
	ny, nx, err := dims(ps2D)
	if err != nil {
		return Profile{}, err
	}

	cfg := defaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.binCount <= 0 {
		cfg.binCount = max(ny, nx) / 2
		if cfg.binCount < 1 {
			cfg.binCount = 1
		}
	}

	dist := fft2.FreqGrid(ny, nx)

	minRadius, maxRadius := radiusRange(dist)
	if maxRadius > cfg.maxFreq {
		maxRadius = cfg.maxFreq
	}

	if !(maxRadius > minRadius) {
		return Profile{}, errDegenerateRange(minRadius, maxRadius)
	}

	edges := binEdges(minRadius, maxRadius, cfg.binCount, cfg.logSpacing)

	members := make([][]float64, cfg.binCount)

	for i := range ps2D {
		for j, p := range ps2D[i] {
			r := dist[i][j]
			if r <= 0 || r > maxRadius || math.IsNaN(p) {
				continue
			}

			b := findBin(edges, r)
			if b < 0 {
				continue
			}

			members[b] = append(members[b], p)
		}
	}

	prof := Profile{
		Freqs: make([]float64, 0, cfg.binCount),
		Power: make([]float64, 0, cfg.binCount),
	}
	if cfg.stddev {
		prof.Stddev = make([]float64, 0, cfg.binCount)
	}

	for b, vals := range members {
		if len(vals) == 0 {
			continue
		}

		prof.Freqs = append(prof.Freqs, binCenter(edges[b], edges[b+1], cfg.logSpacing))
		prof.Power = append(prof.Power, stat.Mean(vals, nil))

		if cfg.stddev {
			sd := 0.0
			if len(vals) > 1 {
				sd = stat.PopStdDev(vals, nil)
			}

			prof.Stddev = append(prof.Stddev, sd)
		}
	}

	return prof, nil
}

// radiusRange returns the smallest positive and the largest radius on the grid.
func radiusRange(dist [][]float64) (minR, maxR float64) {
	minR = math.Inf(1)

	for i := range dist {
		for _, r := range dist[i] {
			if r > 0 && r < minR {
				minR = r
			}

			if r > maxR {
				maxR = r
			}
		}
	}

	return minR, maxR
}

// binEdges returns n+1 edges spanning [lo, hi], log- or linearly spaced.
func binEdges(lo, hi float64, n int, logSpacing bool) []float64 {
	edges := make([]float64, n+1)

	if logSpacing {
		llo := math.Log10(lo)
		lhi := math.Log10(hi)

		for i := range edges {
			edges[i] = math.Pow(10, llo+(lhi-llo)*float64(i)/float64(n))
		}

		// Guard against round-off excluding the extremes.
		edges[0] = lo
		edges[n] = hi

		return edges
	}

	for i := range edges {
		edges[i] = lo + (hi-lo)*float64(i)/float64(n)
	}

	edges[n] = hi

	return edges
}

func binCenter(lo, hi float64, logSpacing bool) float64 {
	if logSpacing {
		return math.Sqrt(lo * hi)
	}

	return 0.5 * (lo + hi)
}

// findBin locates the bin whose half-open interval [edges[b], edges[b+1])
// contains r; the last bin is closed at the top. Returns -1 for r outside
// the edge range.
func findBin(edges []float64, r float64) int {
	n := len(edges) - 1
	if r < edges[0] || r > edges[n] {
		return -1
	}

	if r == edges[n] {
		return n - 1
	}

	lo, hi := 0, n
	for lo < hi-1 {
		mid := (lo + hi) / 2
		if r < edges[mid] {
			hi = mid
		} else {
			lo = mid
		}
	}

	return lo
}

func dims(ps [][]float64) (int, int, error) {
	ny := len(ps)
	if ny == 0 {
		return 0, 0, ErrEmptySpectrum
	}

	nx := len(ps[0])
	for i := range ps {
		if len(ps[i]) != nx {
			return 0, 0, errRagged(i, len(ps[i]), nx)
		}
	}

	if nx == 0 {
		return 0, 0, ErrEmptySpectrum
	}

	return ny, nx, nil
}
