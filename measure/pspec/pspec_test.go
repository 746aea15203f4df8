package pspec

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-pspec/dsp/unit"
	"github.com/cwbudde/algo-pspec/internal/testutil"
)

func TestNewValidation(t *testing.T) {
	_, err := New(nil, Config{})
	assert.ErrorIs(t, err, ErrEmptyImage)

	_, err = New([][]float64{{1, 2}, {1}}, Config{})
	assert.ErrorIs(t, err, ErrRaggedImage)

	img := testutil.RandomField(1, 8, 8)

	_, err = New(img, Config{Weights: [][]float64{{1, 1}}})
	assert.ErrorIs(t, err, ErrShapeMismatch)

	_, err = New(img, Config{Beam: [][]float64{{1, 1}}})
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestStageOrder(t *testing.T) {
	p, err := New(testutil.RandomField(2, 16, 16), Config{})
	require.NoError(t, err)

	_, err = p.PS2D()
	assert.ErrorIs(t, err, ErrStageOrder)

	err = p.ComputeRadialPSpec()
	assert.ErrorIs(t, err, ErrStageOrder)

	err = p.FitPSpec()
	assert.ErrorIs(t, err, ErrStageOrder)

	require.NoError(t, p.ComputePSpec())

	_, err = p.Freqs()
	assert.ErrorIs(t, err, ErrStageOrder)

	err = p.FitPSpec()
	assert.ErrorIs(t, err, ErrStageOrder)

	require.NoError(t, p.ComputeRadialPSpec())

	_, err = p.Slope()
	assert.ErrorIs(t, err, ErrStageOrder)

	require.NoError(t, p.FitPSpec())

	_, err = p.Slope()
	assert.NoError(t, err)
}

func TestRecomputeResetsDownstream(t *testing.T) {
	p, err := New(testutil.RandomField(3, 16, 16), Config{})
	require.NoError(t, err)
	require.NoError(t, p.Run())

	// A fresh spectrum invalidates profile and fit.
	require.NoError(t, p.ComputePSpec())

	_, err = p.Freqs()
	assert.ErrorIs(t, err, ErrStageOrder)

	_, err = p.Slope()
	assert.ErrorIs(t, err, ErrStageOrder)
}

func TestNaNInputsAreZeroed(t *testing.T) {
	img := testutil.RandomField(4, 16, 16)
	img[3][5] = math.NaN()
	img[9][2] = math.NaN()

	p, err := New(img, Config{})
	require.NoError(t, err)
	require.NoError(t, p.ComputePSpec(WithoutApodization()))

	ps, err := p.PS2D()
	require.NoError(t, err)

	for i := range ps {
		for j := range ps[i] {
			assert.False(t, math.IsNaN(ps[i][j]), "ps[%d][%d]", i, j)
		}
	}
}

func TestWeightsScalePower(t *testing.T) {
	img := testutil.RandomField(5, 16, 16)

	weights := make([][]float64, 16)
	for i := range weights {
		weights[i] = make([]float64, 16)
		for j := range weights[i] {
			weights[i][j] = 2
		}
	}

	plain, err := New(img, Config{})
	require.NoError(t, err)
	require.NoError(t, plain.ComputePSpec(WithoutApodization()))

	weighted, err := New(img, Config{Weights: weights})
	require.NoError(t, err)
	require.NoError(t, weighted.ComputePSpec(WithoutApodization()))

	psP, err := plain.PS2D()
	require.NoError(t, err)
	psW, err := weighted.PS2D()
	require.NoError(t, err)

	// A uniform weight of 2 quadruples the power everywhere.
	for i := range psP {
		for j := range psP[i] {
			assert.InDelta(t, 4*psP[i][j], psW[i][j], 1e-6*math.Abs(psW[i][j])+1e-12)
		}
	}
}

func TestBeamCorrectionWithoutBeamDegrades(t *testing.T) {
	img := testutil.RandomField(6, 32, 32)

	corrected, err := New(img, Config{})
	require.NoError(t, err)
	require.NoError(t, corrected.ComputePSpec(WithBeamCorrection()))

	plain, err := New(img, Config{})
	require.NoError(t, err)
	require.NoError(t, plain.ComputePSpec())

	psC, err := corrected.PS2D()
	require.NoError(t, err)
	psP, err := plain.PS2D()
	require.NoError(t, err)

	for i := range psP {
		assert.Equal(t, psP[i], psC[i], "row %d", i)
	}

	warns := corrected.Warnings()
	require.Len(t, warns, 1)
	assert.Contains(t, warns[0], "without a beam")
	assert.Empty(t, plain.Warnings())
}

func TestBeamCorrectionDeltaBeam(t *testing.T) {
	img := testutil.RandomField(7, 16, 16)

	// A unit impulse at the origin has a flat unit transform, so dividing by
	// it must not change the spectrum.
	beam := make([][]float64, 16)
	for i := range beam {
		beam[i] = make([]float64, 16)
	}
	beam[0][0] = 1

	corrected, err := New(img, Config{Beam: beam})
	require.NoError(t, err)
	require.NoError(t, corrected.ComputePSpec(WithoutApodization(), WithBeamCorrection()))

	plain, err := New(img, Config{})
	require.NoError(t, err)
	require.NoError(t, plain.ComputePSpec(WithoutApodization()))

	psC, err := corrected.PS2D()
	require.NoError(t, err)
	psP, err := plain.PS2D()
	require.NoError(t, err)

	for i := range psP {
		for j := range psP[i] {
			assert.InDelta(t, psP[i][j], psC[i][j], 1e-6*math.Abs(psP[i][j])+1e-9)
		}
	}

	assert.Empty(t, corrected.Warnings())
}

func TestRunRecoversPowerLawSlope(t *testing.T) {
	img := testutil.PowerLawField(-3, 128, 128, 11)

	p, err := New(img, Config{})
	require.NoError(t, err)
	require.NoError(t, p.Run(WithSpectrumOptions(WithoutApodization())))

	slope, err := p.Slope()
	require.NoError(t, err)
	assert.InDelta(t, -3.0, slope, 0.3)

	slopeErr, err := p.SlopeErr()
	require.NoError(t, err)
	assert.Greater(t, slopeErr, 0.0)

	stddev, err := p.Stddev()
	require.NoError(t, err)
	assert.NotNil(t, stddev)
}

func TestRunDefaultCutoffs(t *testing.T) {
	p, err := New(testutil.RandomField(8, 64, 64), Config{})
	require.NoError(t, err)
	require.NoError(t, p.Run())

	lowCut, err := p.LowCut()
	require.NoError(t, err)
	assert.Equal(t, unit.PerPix, lowCut.Unit)
	assert.InDelta(t, 1.0/32.0, lowCut.Value, 1e-12)

	highCut, err := p.HighCut()
	require.NoError(t, err)
	assert.Equal(t, unit.PerPix, highCut.Unit)
	assert.Greater(t, highCut.Value, lowCut.Value)

	freqs, err := p.Freqs()
	require.NoError(t, err)
	assert.InDelta(t, freqs[len(freqs)-1], highCut.Value, 1e-12)
}

func TestWavenumbersScaling(t *testing.T) {
	p, err := New(testutil.RandomField(9, 16, 32), Config{})
	require.NoError(t, err)
	require.NoError(t, p.ComputePSpec())
	require.NoError(t, p.ComputeRadialPSpec())

	freqs, err := p.Freqs()
	require.NoError(t, err)
	wn, err := p.Wavenumbers()
	require.NoError(t, err)

	require.Len(t, wn, len(freqs))
	for i := range wn {
		assert.InDelta(t, freqs[i]*16, wn[i], 1e-12)
	}
}

func TestFitWithBreakGuess(t *testing.T) {
	img := testutil.PowerLawField(-2.5, 64, 64, 13)

	p, err := New(img, Config{})
	require.NoError(t, err)

	err = p.Run(
		WithSpectrumOptions(WithoutApodization()),
		WithFitOptions(WithBreak(unit.PerPixel(0.1))),
	)
	require.NoError(t, err)

	brk, ok, err := p.Brk()
	require.NoError(t, err)

	if ok {
		// An accepted break is reported in linear pixel frequency with a
		// propagated uncertainty.
		assert.Equal(t, unit.PerPix, brk.Unit)
		assert.Greater(t, brk.Value, 0.0)

		brkErr, _, err := p.BrkErr()
		require.NoError(t, err)
		assert.GreaterOrEqual(t, brkErr.Value, 0.0)
	} else {
		// A rejected or non-converged break leaves a warning behind.
		assert.NotEmpty(t, p.Warnings())
	}
}

func TestFitRejectsForeignUnits(t *testing.T) {
	p, err := New(testutil.RandomField(10, 32, 32), Config{})
	require.NoError(t, err)
	require.NoError(t, p.ComputePSpec())
	require.NoError(t, p.ComputeRadialPSpec())

	// No pixel scale was configured, so angular cutoffs cannot convert.
	err = p.FitPSpec(WithLowCut(unit.Arcseconds(30)))
	assert.ErrorIs(t, err, unit.ErrIncompatibleUnits)
}

func TestFitWithPixelScale(t *testing.T) {
	scale := &unit.PixelScale{ArcsecPerPix: 2}

	p, err := New(testutil.RandomField(12, 64, 64), Config{PixScale: scale})
	require.NoError(t, err)
	require.NoError(t, p.ComputePSpec())
	require.NoError(t, p.ComputeRadialPSpec())

	// 128 arcsec = 64 pixels at 2 arcsec/pix, so the cutoff lands on 1/64.
	require.NoError(t, p.FitPSpec(WithLowCut(unit.Arcseconds(128))))

	lowCut, err := p.LowCut()
	require.NoError(t, err)
	assert.Equal(t, unit.PerPix, lowCut.Unit)
	assert.InDelta(t, 1.0/64.0, lowCut.Value, 1e-12)
}
