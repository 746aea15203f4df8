// Package cube provides a uniform-axis spectral data cube and the two
// supported channel regridding methods: block downsampling with a reduction
// function, and Gaussian smoothing followed by interpolation onto a coarser
// uniform axis.
package cube
