package pspec

import (
	"fmt"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/cwbudde/algo-pspec/dsp/unit"
	"github.com/cwbudde/algo-pspec/stats/radial"
)

// DistanceConfig configures the comparison of two power spectra. The paired
// fields hold per-dataset overrides; use Pair to broadcast one value to both.
type DistanceConfig struct {
	Weights1, Weights2 [][]float64
	PixScale           *unit.PixelScale

	// Breaks are optional per-dataset breakpoint guesses.
	Breaks [2]*unit.Quantity
	// LowCut and HighCut are per-dataset fit limits. HighCut defaults to
	// 0.5 cycles per pixel for both datasets.
	LowCut  [2]*unit.Quantity
	HighCut [2]*unit.Quantity

	LogSpacing bool
	MinFitPts  int

	// Fiducial reuses an already-fitted pipeline for the first dataset,
	// avoiding recomputation when one spectrum is compared repeatedly.
	Fiducial *PowerSpectrum
}

// Pair broadcasts one quantity to both datasets of a paired setting.
func Pair(q unit.Quantity) [2]*unit.Quantity {
	return [2]*unit.Quantity{&q, &q}
}

// Distance compares the fitted power-law slopes of two images. The fitted
// pipelines remain accessible for inspection.
type Distance struct {
	p1, p2 *PowerSpectrum
	metric float64
}

// NewDistance builds and fits both pipelines with shared settings and
// computes the slope distance. The two pipelines share no state and are
// computed concurrently.
func NewDistance(data1, data2 [][]float64, cfg DistanceConfig) (*Distance, error) {
	for i := range cfg.HighCut {
		if cfg.HighCut[i] == nil {
			q := unit.PerPixel(0.5)
			cfg.HighCut[i] = &q
		}
	}

	var p1, p2 *PowerSpectrum

	var g errgroup.Group

	if cfg.Fiducial != nil {
		if cfg.Fiducial.stage < stageFitted {
			return nil, fmt.Errorf("%w: fiducial pipeline is at %q, want %q",
				ErrStageOrder, cfg.Fiducial.stage, stageFitted)
		}

		p1 = cfg.Fiducial
	} else {
		var err error

		p1, err = New(data1, Config{Weights: cfg.Weights1, PixScale: cfg.PixScale})
		if err != nil {
			return nil, fmt.Errorf("pspec: distance dataset 1: %w", err)
		}

		g.Go(func() error {
			if err := p1.Run(distanceRunOptions(cfg, 0)...); err != nil {
				return fmt.Errorf("pspec: distance dataset 1: %w", err)
			}

			return nil
		})
	}

	p2, err := New(data2, Config{Weights: cfg.Weights2, PixScale: cfg.PixScale})
	if err != nil {
		return nil, fmt.Errorf("pspec: distance dataset 2: %w", err)
	}

	g.Go(func() error {
		if err := p2.Run(distanceRunOptions(cfg, 1)...); err != nil {
			return fmt.Errorf("pspec: distance dataset 2: %w", err)
		}

		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	s1, err := p1.Slope()
	if err != nil {
		return nil, err
	}

	s2, err := p2.Slope()
	if err != nil {
		return nil, err
	}

	e1, err := p1.SlopeErr()
	if err != nil {
		return nil, err
	}

	e2, err := p2.SlopeErr()
	if err != nil {
		return nil, err
	}

	return &Distance{
		p1:     p1,
		p2:     p2,
		metric: math.Abs(s1-s2) / math.Sqrt(e1*e1+e2*e2),
	}, nil
}

func distanceRunOptions(cfg DistanceConfig, idx int) []RunOption {
	var fitOpts []FitOption

	if cfg.LowCut[idx] != nil {
		fitOpts = append(fitOpts, WithLowCut(*cfg.LowCut[idx]))
	}

	if cfg.HighCut[idx] != nil {
		fitOpts = append(fitOpts, WithHighCut(*cfg.HighCut[idx]))
	}

	if cfg.Breaks[idx] != nil {
		fitOpts = append(fitOpts, WithBreak(*cfg.Breaks[idx]))
	}

	if cfg.MinFitPts > 0 {
		fitOpts = append(fitOpts, WithMinFitPts(cfg.MinFitPts))
	}

	radialOpts := []radial.Option{radial.WithStddev()}
	if cfg.LogSpacing {
		radialOpts = append(radialOpts, radial.WithLogSpacing())
	}

	return []RunOption{
		WithRadialOptions(radialOpts...),
		WithFitOptions(fitOpts...),
	}
}

// Metric returns the standardized slope difference
// |s1-s2| / sqrt(e1^2 + e2^2). It is symmetric in the two datasets.
func (d *Distance) Metric() float64 { return d.metric }

// P1 returns the first fitted pipeline.
func (d *Distance) P1() *PowerSpectrum { return d.p1 }

// P2 returns the second fitted pipeline.
func (d *Distance) P2() *PowerSpectrum { return d.p2 }
