// Package radial reduces 2D power spectra to 1D radial profiles by azimuthal
// averaging over annuli in frequency space.
package radial
