package pspec

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-pspec/dsp/apod"
	"github.com/cwbudde/algo-pspec/dsp/fft2"
	"github.com/cwbudde/algo-pspec/dsp/unit"
	"github.com/cwbudde/algo-pspec/stats/radial"
	"github.com/cwbudde/algo-pspec/stats/segfit"
)

// stage tracks pipeline progress. Each computation method requires its
// prerequisite stage and fails fast when called out of order.
type stage int

const (
	stageConstructed stage = iota
	stageSpectrum
	stageProfile
	stageFitted
)

func (s stage) String() string {
	switch s {
	case stageConstructed:
		return "constructed"
	case stageSpectrum:
		return "spectrum-computed"
	case stageProfile:
		return "profile-binned"
	case stageFitted:
		return "fitted"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Config holds construction-time collaborators for a PowerSpectrum.
type Config struct {
	// Weights is an optional pre-multiplier of the same shape as the image.
	Weights [][]float64
	// Beam is an optional instrument response kernel of the same shape as
	// the image, used for Fourier-space deconvolution.
	Beam [][]float64
	// PixScale converts physical cutoff and break quantities to pixel
	// frequencies. Nil restricts inputs to pixel-based units.
	PixScale *unit.PixelScale
}

// PowerSpectrum measures the spatial power-spectrum slope of one 2D image.
//
// The computation is staged: ComputePSpec, ComputeRadialPSpec, and FitPSpec
// must run in order (Run drives all three). Instances are not safe for
// concurrent use; independent instances may run in parallel.
type PowerSpectrum struct {
	data     [][]float64
	ny, nx   int
	beam     [][]float64
	pixScale *unit.PixelScale

	stage stage

	ps2D    [][]float64
	profile radial.Profile
	fit     *segfit.Fit

	lowCut  unit.Quantity
	highCut unit.Quantity

	hasBrk bool
	brk    unit.Quantity
	brkErr unit.Quantity

	warnings []string
}

// New constructs a pipeline over a copy of img. Invalid (NaN) image entries
// are replaced with zero before any Fourier step; weights, when given, are
// applied as a pre-multiplier with their own NaNs zeroed.
func New(img [][]float64, cfg Config) (*PowerSpectrum, error) {
	ny, nx, err := dims(img)
	if err != nil {
		return nil, err
	}

	data := make([][]float64, ny)
	for i := range data {
		row := make([]float64, nx)

		for j, v := range img[i] {
			if math.IsNaN(v) {
				v = 0
			}

			row[j] = v
		}

		data[i] = row
	}

	if cfg.Weights != nil {
		wy, wx, werr := dims(cfg.Weights)
		if werr != nil {
			return nil, fmt.Errorf("pspec: invalid weights: %w", werr)
		}

		if wy != ny || wx != nx {
			return nil, fmt.Errorf("%w: weights are %dx%d, image is %dx%d", ErrShapeMismatch, wy, wx, ny, nx)
		}

		for i := range data {
			for j := range data[i] {
				w := cfg.Weights[i][j]
				if math.IsNaN(w) {
					w = 0
				}

				data[i][j] *= w
			}
		}
	}

	if cfg.Beam != nil {
		by, bx, berr := dims(cfg.Beam)
		if berr != nil {
			return nil, fmt.Errorf("pspec: invalid beam: %w", berr)
		}

		if by != ny || bx != nx {
			return nil, fmt.Errorf("%w: beam kernel is %dx%d, image is %dx%d", ErrShapeMismatch, by, bx, ny, nx)
		}
	}

	return &PowerSpectrum{
		data:     data,
		ny:       ny,
		nx:       nx,
		beam:     cfg.Beam,
		pixScale: cfg.PixScale,
	}, nil
}

// SpectrumOption configures ComputePSpec.
type SpectrumOption func(*spectrumConfig)

type spectrumConfig struct {
	apodize     bool
	apodType    apod.Type
	alpha       float64
	beamCorrect bool
}

func defaultSpectrumConfig() spectrumConfig {
	return spectrumConfig{
		apodize:  true,
		apodType: apod.TypeSplitCosineBell,
		alpha:    0.2,
	}
}

// WithApodization selects the tapering kernel applied before the transform.
// The default is a split cosine bell with a taper fraction of 0.2.
func WithApodization(t apod.Type, alpha float64) SpectrumOption {
	return func(c *spectrumConfig) {
		c.apodize = true
		c.apodType = t

		if alpha >= 0 {
			c.alpha = alpha
		}
	}
}

// WithoutApodization disables pre-transform tapering.
func WithoutApodization() SpectrumOption {
	return func(c *spectrumConfig) {
		c.apodize = false
	}
}

// WithBeamCorrection divides the transform by the beam's transform before
// squaring. When no beam was supplied at construction the spectrum silently
// degrades to the uncorrected one and a warning is recorded.
func WithBeamCorrection() SpectrumOption {
	return func(c *spectrumConfig) {
		c.beamCorrect = true
	}
}

// ComputePSpec computes the frequency-centered 2D power spectrum as the
// squared magnitude of the (optionally apodized and beam-corrected) 2D
// Fourier transform. Recomputing resets the downstream stages.
func (p *PowerSpectrum) ComputePSpec(opts ...SpectrumOption) error {
	cfg := defaultSpectrumConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	work := make([][]float64, p.ny)
	for i := range work {
		work[i] = append([]float64(nil), p.data[i]...)
	}

	if cfg.apodize {
		kernel, err := apod.Kernel2D(cfg.apodType, p.ny, p.nx, apod.WithAlpha(cfg.alpha))
		if err != nil {
			return fmt.Errorf("pspec: apodization failed: %w", err)
		}

		if err := apod.Apply(work, kernel); err != nil {
			return fmt.Errorf("pspec: apodization failed: %w", err)
		}
	}

	spec, err := fft2.Transform(work)
	if err != nil {
		return fmt.Errorf("pspec: transform failed: %w", err)
	}

	shifted := fft2.Shift(spec)

	if cfg.beamCorrect {
		if p.beam == nil {
			p.warnings = append(p.warnings,
				"pspec: beam correction requested without a beam, computing uncorrected spectrum")
		} else {
			if err := p.divideBeam(shifted); err != nil {
				return err
			}
		}
	}

	p.ps2D = fft2.PowerSpectrum(shifted)

	p.stage = stageSpectrum
	p.profile = radial.Profile{}
	p.fit = nil
	p.hasBrk = false

	return nil
}

// divideBeam deconvolves the beam response in Fourier space. Cells where the
// beam transform vanishes are marked invalid so they drop out of the binning.
func (p *PowerSpectrum) divideBeam(shifted [][]complex128) error {
	bspec, err := fft2.Transform(p.beam)
	if err != nil {
		return fmt.Errorf("pspec: beam transform failed: %w", err)
	}

	bshift := fft2.Shift(bspec)

	for i := range shifted {
		for j := range shifted[i] {
			b := bshift[i][j]
			if b == 0 {
				shifted[i][j] = complex(math.NaN(), 0)

				continue
			}

			shifted[i][j] /= b
		}
	}

	return nil
}

// ComputeRadialPSpec bins the 2D spectrum into a 1D radial profile whose
// frequency axis is in cycles per pixel. Options are passed through to the
// binning engine.
func (p *PowerSpectrum) ComputeRadialPSpec(opts ...radial.Option) error {
	if err := p.requireStage(stageSpectrum, "ComputeRadialPSpec"); err != nil {
		return err
	}

	prof, err := radial.BinPSpec(p.ps2D, opts...)
	if err != nil {
		return fmt.Errorf("pspec: radial binning failed: %w", err)
	}

	p.profile = prof
	p.stage = stageProfile
	p.fit = nil
	p.hasBrk = false

	return nil
}

// FitOption configures FitPSpec.
type FitOption func(*fitConfig)

type fitConfig struct {
	lowCut     *unit.Quantity
	highCut    *unit.Quantity
	brk        *unit.Quantity
	logBrk     *float64
	minFitPts  int
	segfitOpts []segfit.Option
}

// WithLowCut sets the lowest frequency included in the fit. The default is
// the largest scale: half the larger image dimension.
func WithLowCut(q unit.Quantity) FitOption {
	return func(c *fitConfig) {
		c.lowCut = &q
	}
}

// WithHighCut sets the highest frequency included in the fit. The default is
// the maximum binned frequency.
func WithHighCut(q unit.Quantity) FitOption {
	return func(c *fitConfig) {
		c.highCut = &q
	}
}

// WithBreak supplies a breakpoint guess as a frequency or scale quantity,
// enabling the segmented fit.
func WithBreak(q unit.Quantity) FitOption {
	return func(c *fitConfig) {
		c.brk = &q
	}
}

// WithLogBreak supplies a breakpoint guess directly as log10 of a pixel
// frequency, enabling the segmented fit.
func WithLogBreak(v float64) FitOption {
	return func(c *fitConfig) {
		c.logBrk = &v
	}
}

// WithMinFitPts sets the minimum number of points required below an accepted
// break (default 10).
func WithMinFitPts(n int) FitOption {
	return func(c *fitConfig) {
		if n > 0 {
			c.minFitPts = n
		}
	}
}

// FitPSpec fits the log-log radial profile with a power law, optionally
// segmented at a breakpoint guess. Accepted breaks are reported in linear
// pixel frequency with the log-space uncertainty propagated.
func (p *PowerSpectrum) FitPSpec(opts ...FitOption) error {
	if err := p.requireStage(stageProfile, "FitPSpec"); err != nil {
		return err
	}

	cfg := fitConfig{}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	lowCut, highCut, err := p.fitLimits(cfg)
	if err != nil {
		return err
	}

	var x, y []float64

	for i, f := range p.profile.Freqs {
		if f < lowCut.Value || f > highCut.Value {
			continue
		}

		x = append(x, math.Log10(f))
		y = append(y, math.Log10(p.profile.Power[i]))
	}

	fit, err := p.runFit(cfg, x, y)
	if err != nil {
		return err
	}

	p.fit = fit
	p.lowCut = lowCut
	p.highCut = highCut
	p.warnings = append(p.warnings, fit.Warnings...)

	p.hasBrk = fit.HasBrk
	if fit.HasBrk {
		brkLin := math.Pow(10, fit.Brk)

		p.brk = unit.PerPixel(brkLin)
		p.brkErr = unit.PerPixel(math.Ln10 * brkLin * fit.BrkErr)
	}

	p.stage = stageFitted

	return nil
}

func (p *PowerSpectrum) fitLimits(cfg fitConfig) (lowCut, highCut unit.Quantity, err error) {
	if cfg.lowCut != nil {
		lowCut, err = p.pixScale.ToPixelFreq(*cfg.lowCut)
		if err != nil {
			return lowCut, highCut, fmt.Errorf("pspec: low cut: %w", err)
		}
	} else {
		// Largest scale: half the larger image dimension.
		lowCut = unit.PerPixel(1 / (0.5 * float64(max(p.ny, p.nx))))
	}

	if cfg.highCut != nil {
		highCut, err = p.pixScale.ToPixelFreq(*cfg.highCut)
		if err != nil {
			return lowCut, highCut, fmt.Errorf("pspec: high cut: %w", err)
		}
	} else {
		maxFreq := 0.0
		if n := len(p.profile.Freqs); n > 0 {
			maxFreq = p.profile.Freqs[n-1]
		}

		highCut = unit.PerPixel(maxFreq)
	}

	return lowCut, highCut, nil
}

func (p *PowerSpectrum) runFit(cfg fitConfig, x, y []float64) (*segfit.Fit, error) {
	logBrk := cfg.logBrk

	if cfg.brk != nil {
		q, err := p.pixScale.ToPixelFreq(*cfg.brk)
		if err != nil {
			return nil, fmt.Errorf("pspec: break: %w", err)
		}

		v := math.Log10(q.Value)
		logBrk = &v
	}

	if logBrk == nil {
		fit, err := segfit.FitLinear(x, y)
		if err != nil {
			return nil, fmt.Errorf("pspec: fit failed: %w", err)
		}

		return fit, nil
	}

	segOpts := cfg.segfitOpts
	if cfg.minFitPts > 0 {
		segOpts = append(segOpts, segfit.WithMinPtsBelow(cfg.minFitPts))
	}

	fit, err := segfit.FitSegmented(x, y, *logBrk, segOpts...)
	if err != nil {
		return nil, fmt.Errorf("pspec: fit failed: %w", err)
	}

	return fit, nil
}

// RunOption configures Run.
type RunOption func(*runConfig)

type runConfig struct {
	spectrum []SpectrumOption
	radial   []radial.Option
	fit      []FitOption
}

// WithSpectrumOptions forwards options to the spectrum stage.
func WithSpectrumOptions(opts ...SpectrumOption) RunOption {
	return func(c *runConfig) {
		c.spectrum = append(c.spectrum, opts...)
	}
}

// WithRadialOptions forwards options to the binning stage.
func WithRadialOptions(opts ...radial.Option) RunOption {
	return func(c *runConfig) {
		c.radial = append(c.radial, opts...)
	}
}

// WithFitOptions forwards options to the fitting stage.
func WithFitOptions(opts ...FitOption) RunOption {
	return func(c *runConfig) {
		c.fit = append(c.fit, opts...)
	}
}

// Run sequences the full slope measurement: spectrum, radial binning, fit.
// Per-bin standard deviations are enabled unless binning options are given.
func (p *PowerSpectrum) Run(opts ...RunOption) error {
	var cfg runConfig

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.radial == nil {
		cfg.radial = []radial.Option{radial.WithStddev()}
	}

	if err := p.ComputePSpec(cfg.spectrum...); err != nil {
		return err
	}

	if err := p.ComputeRadialPSpec(cfg.radial...); err != nil {
		return err
	}

	return p.FitPSpec(cfg.fit...)
}

func (p *PowerSpectrum) requireStage(need stage, op string) error {
	if p.stage < need {
		return fmt.Errorf("%w: %s requires stage %q, pipeline is at %q", ErrStageOrder, op, need, p.stage)
	}

	return nil
}

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
