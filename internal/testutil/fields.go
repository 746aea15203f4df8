package testutil

import (
	"math"
	"math/rand"

	"github.com/cwbudde/algo-pspec/dsp/fft2"
)

// RandomField generates a white-noise image with a fixed seed.
func RandomField(seed int64, ny, nx int) [][]float64 {
	rng := rand.New(rand.NewSource(seed))

	out := make([][]float64, ny)
	for i := range out {
		row := make([]float64, nx)
		for j := range row {
			row[j] = rng.NormFloat64()
		}

		out[i] = row
	}

	return out
}

// PowerLawField synthesizes a real-valued field whose 2D power spectrum
// follows P(k) ~ k^slope (slope is normally negative). The field is built in
// Fourier space from the target amplitude profile with random phases and
// transformed back; deterministic for a fixed seed.
func PowerLawField(slope float64, ny, nx int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	dist := fft2.FreqGrid(ny, nx)

	shifted := make([][]complex128, ny)
	for i := range shifted {
		row := make([]complex128, nx)
		for j := range row {
			r := dist[i][j]
			if r == 0 {
				continue
			}

			amp := math.Pow(r, slope/2)
			phase := 2 * math.Pi * rng.Float64()
			row[j] = complex(amp*math.Cos(phase), amp*math.Sin(phase))
		}

		shifted[i] = row
	}

	spec := unshift(shifted)

	field, err := fft2.Inverse(spec)
	if err != nil {
		panic(err)
	}

	return field
}

// unshift undoes fft2.Shift, returning the zero-frequency cell to [0][0].
func unshift(spec [][]complex128) [][]complex128 {
	ny := len(spec)
	out := make([][]complex128, ny)
	splitY := ny / 2

	for i := range out {
		src := spec[(i+splitY)%ny]

		nx := len(src)
		splitX := nx / 2

		row := make([]complex128, nx)
		for j := range row {
			row[j] = src[(j+splitX)%nx]
		}

		out[i] = row
	}

	return out
}

// GaussianBeam returns a centered, normalized 2D Gaussian kernel image.
func GaussianBeam(ny, nx int, stddev float64) [][]float64 {
	cy := float64(ny) / 2
	cx := float64(nx) / 2

	var sum float64

	out := make([][]float64, ny)
	for i := range out {
		row := make([]float64, nx)
		for j := range row {
			dy := float64(i) - cy
			dx := float64(j) - cx
			row[j] = math.Exp(-0.5 * (dy*dy + dx*dx) / (stddev * stddev))
			sum += row[j]
		}

		out[i] = row
	}

	for i := range out {
		for j := range out[i] {
			out[i][j] /= sum
		}
	}

	return out
}

// SyntheticCube builds a cube whose every spectrum is a Gaussian line plus a
// channel-index ramp, with a uniform spectral axis from start with the given
// step (negative steps give a descending axis).
func SyntheticCube(nchan, ny, nx int, start, step float64) ([][][]float64, []float64) {
	axis := make([]float64, nchan)
	for ch := range axis {
		axis[ch] = start + float64(ch)*step
	}

	center := start + float64(nchan-1)*step/2
	width := math.Abs(step) * float64(nchan) / 6

	data := make([][][]float64, nchan)
	for ch := range data {
		d := (axis[ch] - center) / width
		line := math.Exp(-0.5 * d * d)

		plane := make([][]float64, ny)
		for y := range plane {
			row := make([]float64, nx)
			for x := range row {
				row[x] = line + 0.01*float64(y*nx+x)
			}

			plane[y] = row
		}

		data[ch] = plane
	}

	return data, axis
}
