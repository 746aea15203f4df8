package segfit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
)

const (
	defaultMinPtsBelow = 10
	defaultMaxIter     = 100
	defaultTol         = 1e-4
)

// Fit holds the result of a linear or segmented power-law fit.
//
// Slopes has one entry for a single-segment fit and two for an accepted
// break (below and above the breakpoint). Brk and BrkErr are NaN unless
// HasBrk is set. Warnings records non-fatal degradations such as a rejected
// break, so callers can detect fallbacks programmatically.
type Fit struct {
	X, Y []float64

	Intercept    float64
	InterceptErr float64
	Slopes       []float64
	SlopeErrs    []float64

	HasBrk bool
	Brk    float64
	BrkErr float64

	Coeffs    []float64
	Fitted    []float64
	Residuals []float64

	Warnings []string
}

// Eval returns the fitted model value at x.
func (f *Fit) Eval(x float64) float64 {
	y := f.Intercept + f.Slopes[0]*x
	if f.HasBrk && x > f.Brk {
		y += (f.Slopes[1] - f.Slopes[0]) * (x - f.Brk)
	}

	return y
}

// Slope returns the first (or only) fitted slope.
func (f *Fit) Slope() float64 { return f.Slopes[0] }

// SlopeErr returns the standard error of the first fitted slope.
func (f *Fit) SlopeErr() float64 { return f.SlopeErrs[0] }

// Option configures the segmented fit.
type Option func(*config)

type config struct {
	minPtsBelow int
	maxIter     int
	tol         float64
}

func defaultConfig() config {
	return config{
		minPtsBelow: defaultMinPtsBelow,
		maxIter:     defaultMaxIter,
		tol:         defaultTol,
	}
}

// WithMinPtsBelow sets the minimum number of points required strictly below
// an accepted breakpoint. A break leaving fewer points is rejected.
func WithMinPtsBelow(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.minPtsBelow = n
		}
	}
}

// WithMaxIter caps the breakpoint iteration count.
func WithMaxIter(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxIter = n
		}
	}
}

// WithTol sets the convergence tolerance on the breakpoint update step.
func WithTol(t float64) Option {
	return func(c *config) {
		if t > 0 {
			c.tol = t
		}
	}
}

// FitLinear fits y = a + b*x by ordinary least squares and reports the slope
// with its standard error. Non-finite pairs are dropped.
func FitLinear(x, y []float64) (*Fit, error) {
	xs, ys, err := cleanPairs(x, y)
	if err != nil {
		return nil, err
	}

	ones := make([]float64, len(xs))
	for i := range ones {
		ones[i] = 1
	}

	sol, err := solveOLS([][]float64{ones, xs}, ys)
	if err != nil {
		return nil, err
	}

	return &Fit{
		X:            xs,
		Y:            ys,
		Intercept:    sol.coef[0],
		InterceptErr: sol.se[0],
		Slopes:       []float64{sol.coef[1]},
		SlopeErrs:    []float64{sol.se[1]},
		Brk:          math.NaN(),
		BrkErr:       math.NaN(),
		Coeffs:       sol.coef,
		Fitted:       sol.fitted,
		Residuals:    sol.resid,
	}, nil
}

// FitSegmented fits a continuous two-segment linear model with a free
// breakpoint, seeded at brk0, using the iterative linearization of Muggeo.
// The design is augmented with U = (x-brk)*1[x>brk] and V = -1[x>brk]; at
// each step the breakpoint moves by the ratio of the V and U coefficients.
//
// If the iteration fails to converge, the breakpoint escapes the data range,
// or fewer than the minimum number of points lie strictly below the fitted
// break, the break is discarded and the plain linear fit is returned with a
// warning attached. Those conditions are degradations, not errors.
func FitSegmented(x, y []float64, brk0 float64, opts ...Option) (*Fit, error) {
	cfg := defaultConfig()

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	xs, ys, err := cleanPairs(x, y)
	if err != nil {
		return nil, err
	}

	if len(xs) < 6 {
		return nil, fmt.Errorf("%w: segmented model needs at least 6 points, got %d", ErrTooFewPoints, len(xs))
	}

	minX, maxX := minMax(xs)
	if brk0 <= minX || brk0 >= maxX {
		return nil, fmt.Errorf("%w: initial break %g outside data range (%g, %g)", ErrBreakOutOfRange, brk0, minX, maxX)
	}

	brk := brk0
	converged := false

	var sol *olsSolution

	for range cfg.maxIter {
		s, serr := solveOLS(segmentedDesign(xs, brk), ys)
		if serr != nil {
			break
		}

		sol = s

		beta := s.coef[2]
		gamma := s.coef[3]

		if beta == 0 || math.IsNaN(beta) {
			break
		}

		step := gamma / beta

		brk += step
		if brk <= minX || brk >= maxX {
			break
		}

		if math.Abs(step) < cfg.tol {
			converged = true

			break
		}
	}

	if !converged || sol == nil {
		return fallbackFit(xs, ys, "segfit: model with break failed to converge, reverting to model without break")
	}

	below := 0
	for _, v := range xs {
		if v < brk {
			below++
		}
	}

	if below < cfg.minPtsBelow {
		return fallbackFit(xs, ys,
			fmt.Sprintf("segfit: only %d points below break %g (need %d), ignoring break", below, brk, cfg.minPtsBelow))
	}

	// Final refit at the converged breakpoint.
	sol, err = solveOLS(segmentedDesign(xs, brk), ys)
	if err != nil {
		return fallbackFit(xs, ys, "segfit: model with break failed, reverting to model without break")
	}

	b1 := sol.coef[1]
	b2 := b1 + sol.coef[2]

	se1 := sol.se[1]
	se2 := math.Sqrt(sol.cov.At(1, 1) + sol.cov.At(2, 2) + 2*sol.cov.At(1, 2))

	brkErr := math.NaN()
	if sol.coef[2] != 0 {
		brkErr = sol.se[3] / math.Abs(sol.coef[2])
	}

	return &Fit{
		X:            xs,
		Y:            ys,
		Intercept:    sol.coef[0],
		InterceptErr: sol.se[0],
		Slopes:       []float64{b1, b2},
		SlopeErrs:    []float64{se1, se2},
		HasBrk:       true,
		Brk:          brk,
		BrkErr:       brkErr,
		Coeffs:       sol.coef,
		Fitted:       sol.fitted,
		Residuals:    sol.resid,
	}, nil
}

func fallbackFit(xs, ys []float64, warning string) (*Fit, error) {
	fit, err := FitLinear(xs, ys)
	if err != nil {
		return nil, err
	}

	fit.Warnings = append(fit.Warnings, warning)

	return fit, nil
}

// segmentedDesign returns the columns {1, x, U, V} for breakpoint brk.
func segmentedDesign(xs []float64, brk float64) [][]float64 {
	n := len(xs)

	ones := make([]float64, n)
	u := make([]float64, n)
	v := make([]float64, n)

	for i, x := range xs {
		ones[i] = 1
		if x > brk {
			u[i] = x - brk
			v[i] = -1
		}
	}

	return [][]float64{ones, xs, u, v}
}

type olsSolution struct {
	coef   []float64
	se     []float64
	cov    *mat.Dense
	fitted []float64
	resid  []float64
}

// solveOLS solves least squares for the given design columns and returns the
// coefficients with their covariance, fitted values, and residuals.
func solveOLS(cols [][]float64, y []float64) (*olsSolution, error) {
	n := len(y)
	p := len(cols)

	if n <= p {
		return nil, fmt.Errorf("%w: %d points for %d parameters", ErrTooFewPoints, n, p)
	}

	data := make([]float64, n*p)
	for i := range n {
		for j := range p {
			data[i*p+j] = cols[j][i]
		}
	}

	X := mat.NewDense(n, p, data)
	yv := mat.NewVecDense(n, append([]float64(nil), y...))

	var qr mat.QR
	qr.Factorize(X)

	var coefM mat.Dense
	if err := qr.SolveTo(&coefM, false, yv); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularFit, err)
	}

	coef := make([]float64, p)
	for j := range coef {
		coef[j] = coefM.At(j, 0)
	}

	fitted := make([]float64, n)
	resid := make([]float64, n)

	var rss float64

	for i := range n {
		var f float64
		for j := range p {
			f += cols[j][i] * coef[j]
		}

		fitted[i] = f
		resid[i] = y[i] - f
		rss += resid[i] * resid[i]
	}

	sigma2 := rss / float64(n-p)

	var xtx mat.Dense
	xtx.Mul(X.T(), X)

	var xtxInv mat.Dense
	if err := xtxInv.Inverse(&xtx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSingularFit, err)
	}

	var cov mat.Dense
	cov.Scale(sigma2, &xtxInv)

	se := make([]float64, p)
	for j := range se {
		se[j] = math.Sqrt(cov.At(j, j))
	}

	return &olsSolution{coef: coef, se: se, cov: &cov, fitted: fitted, resid: resid}, nil
}

// cleanPairs drops non-finite pairs and validates sizes.
func cleanPairs(x, y []float64) ([]float64, []float64, error) {
	if len(x) != len(y) {
		return nil, nil, fmt.Errorf("%w: len(x)=%d len(y)=%d", ErrLengthMismatch, len(x), len(y))
	}

	xs := make([]float64, 0, len(x))
	ys := make([]float64, 0, len(y))

	for i := range x {
		if math.IsNaN(x[i]) || math.IsInf(x[i], 0) || math.IsNaN(y[i]) || math.IsInf(y[i], 0) {
			continue
		}

		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}

	if len(xs) < 3 {
		return nil, nil, fmt.Errorf("%w: need at least 3 finite points, got %d", ErrTooFewPoints, len(xs))
	}

	return xs, ys, nil
}

func minMax(xs []float64) (minV, maxV float64) {
	minV = xs[0]
	maxV = xs[0]

	for _, v := range xs[1:] {
		if v < minV {
			minV = v
		}

		if v > maxV {
			maxV = v
		}
	}

	return minV, maxV
}
