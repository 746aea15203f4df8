// Package pspec measures spatial power-spectrum scaling of 2D images and
// compares fitted slopes between images.
//
// A PowerSpectrum pipeline is staged: the 2D spectrum is computed first
// (apodization, transform, optional beam deconvolution), then reduced to a
// radial profile, then fitted with a (possibly broken) power law in log-log
// space. Each stage guards its prerequisite, so out-of-order calls fail fast
// rather than operating on missing data. Non-fatal degradations are recorded
// as warnings on the pipeline instead of being raised.
package pspec
