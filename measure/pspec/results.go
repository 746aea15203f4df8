package pspec

import (
	"github.com/cwbudde/algo-pspec/dsp/unit"
	"github.com/cwbudde/algo-pspec/stats/segfit"
)

// PS2D returns the frequency-centered 2D power spectrum. The array is owned
// by the pipeline; callers must treat it as read-only.
func (p *PowerSpectrum) PS2D() ([][]float64, error) {
	if err := p.requireStage(stageSpectrum, "PS2D"); err != nil {
		return nil, err
	}

	return p.ps2D, nil
}

// Freqs returns the radial profile's frequency axis in cycles per pixel.
func (p *PowerSpectrum) Freqs() ([]float64, error) {
	if err := p.requireStage(stageProfile, "Freqs"); err != nil {
		return nil, err
	}

	return p.profile.Freqs, nil
}

// Power returns the radial profile's binned power values.
func (p *PowerSpectrum) Power() ([]float64, error) {
	if err := p.requireStage(stageProfile, "Power"); err != nil {
		return nil, err
	}

	return p.profile.Power, nil
}

// Stddev returns the per-bin standard deviations, or nil when binning ran
// without them.
func (p *PowerSpectrum) Stddev() ([]float64, error) {
	if err := p.requireStage(stageProfile, "Stddev"); err != nil {
		return nil, err
	}

	return p.profile.Stddev, nil
}

// Wavenumbers returns the profile frequencies scaled by the smaller image
// dimension.
func (p *PowerSpectrum) Wavenumbers() ([]float64, error) {
	if err := p.requireStage(stageProfile, "Wavenumbers"); err != nil {
		return nil, err
	}

	scale := float64(min(p.ny, p.nx))

	out := make([]float64, len(p.profile.Freqs))
	for i, f := range p.profile.Freqs {
		out[i] = f * scale
	}

	return out, nil
}

// Slope returns the fitted slope below the break (or the only slope).
func (p *PowerSpectrum) Slope() (float64, error) {
	if err := p.requireStage(stageFitted, "Slope"); err != nil {
		return 0, err
	}

	return p.fit.Slope(), nil
}

// SlopeErr returns the standard error of Slope.
func (p *PowerSpectrum) SlopeErr() (float64, error) {
	if err := p.requireStage(stageFitted, "SlopeErr"); err != nil {
		return 0, err
	}

	return p.fit.SlopeErr(), nil
}

// Slopes returns all fitted slopes: one entry without a break, two with.
func (p *PowerSpectrum) Slopes() ([]float64, error) {
	if err := p.requireStage(stageFitted, "Slopes"); err != nil {
		return nil, err
	}

	return p.fit.Slopes, nil
}

// SlopeErrs returns the standard errors matching Slopes.
func (p *PowerSpectrum) SlopeErrs() ([]float64, error) {
	if err := p.requireStage(stageFitted, "SlopeErrs"); err != nil {
		return nil, err
	}

	return p.fit.SlopeErrs, nil
}

// Brk returns the accepted breakpoint in cycles per pixel. ok is false when
// the fit used no break or the break was rejected.
func (p *PowerSpectrum) Brk() (q unit.Quantity, ok bool, err error) {
	if err := p.requireStage(stageFitted, "Brk"); err != nil {
		return unit.Quantity{}, false, err
	}

	return p.brk, p.hasBrk, nil
}

// BrkErr returns the 1-sigma uncertainty of the breakpoint in cycles per
// pixel, propagated from log space.
func (p *PowerSpectrum) BrkErr() (q unit.Quantity, ok bool, err error) {
	if err := p.requireStage(stageFitted, "BrkErr"); err != nil {
		return unit.Quantity{}, false, err
	}

	return p.brkErr, p.hasBrk, nil
}

// LowCut returns the low-frequency fit limit that was used.
func (p *PowerSpectrum) LowCut() (unit.Quantity, error) {
	if err := p.requireStage(stageFitted, "LowCut"); err != nil {
		return unit.Quantity{}, err
	}

	return p.lowCut, nil
}

// HighCut returns the high-frequency fit limit that was used.
func (p *PowerSpectrum) HighCut() (unit.Quantity, error) {
	if err := p.requireStage(stageFitted, "HighCut"); err != nil {
		return unit.Quantity{}, err
	}

	return p.highCut, nil
}

// Fit returns the underlying regression result, which can evaluate the
// fitted curve over the filtered domain for diagnostics.
func (p *PowerSpectrum) Fit() (*segfit.Fit, error) {
	if err := p.requireStage(stageFitted, "Fit"); err != nil {
		return nil, err
	}

	return p.fit, nil
}

// Warnings returns the non-fatal degradations recorded so far, such as a
// rejected break or beam correction without a beam.
func (p *PowerSpectrum) Warnings() []string {
	return append([]string(nil), p.warnings...)
}
