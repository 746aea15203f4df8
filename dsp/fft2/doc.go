// Package fft2 composes 1D FFT plans into the 2D transform operations needed
// for spatial power spectra: forward/inverse transforms, frequency centering,
// squared-magnitude extraction, and the centered radial frequency grid.
//
// The package does not implement FFT itself; transforms are delegated to the
// external plan-based FFT backend.
package fft2
