// Package segfit fits single or two-segment linear models to log-log
// power-spectrum data.
//
// The segmented model is continuous at the breakpoint and is fitted by
// iterative linearization: the breakpoint is a free parameter updated from
// the coefficients of two auxiliary regressors until the update step falls
// below tolerance. When a break cannot be supported by the data the package
// falls back to the single-segment fit and records a warning instead of
// failing.
package segfit
