// Package apod provides apodizing kernels applied to images before a Fourier
// transform to suppress edge-discontinuity leakage.
//
// Kernels are separable: a 1D taper is generated per axis and combined as an
// outer product. The split cosine bell (Tukey) taper with a small taper
// fraction is the usual choice for power-spectrum work, since it leaves most
// of the image untouched while rolling the edges smoothly to zero.
package apod
