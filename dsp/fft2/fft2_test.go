package fft2

import (
	"errors"
	"math"
	"testing"
)

func constantImage(ny, nx int, v float64) [][]float64 {
	img := make([][]float64, ny)
	for i := range img {
		img[i] = make([]float64, nx)
		for j := range img[i] {
			img[i][j] = v
		}
	}
	return img
}

func TestTransformValidation(t *testing.T) {
	if _, err := Transform(nil); !errors.Is(err, ErrEmptyImage) {
		t.Fatalf("err = %v, want ErrEmptyImage", err)
	}
	if _, err := Transform([][]float64{{1, 2}, {1}}); !errors.Is(err, ErrRaggedImage) {
		t.Fatalf("err = %v, want ErrRaggedImage", err)
	}
}

func TestTransformConstantImage(t *testing.T) {
	const ny, nx = 8, 16
	spec, err := Transform(constantImage(ny, nx, 1))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	// All signal collapses into the zero-frequency cell.
	want := float64(ny * nx)
	if d := math.Abs(real(spec[0][0]) - want); d > 1e-9 {
		t.Fatalf("DC = %v, want %v", spec[0][0], want)
	}
	for i := range spec {
		for j := range spec[i] {
			if i == 0 && j == 0 {
				continue
			}
			if m := math.Hypot(real(spec[i][j]), imag(spec[i][j])); m > 1e-9 {
				t.Fatalf("spec[%d][%d] = %v, want 0", i, j, spec[i][j])
			}
		}
	}
}

func TestShiftCentersZeroFrequency(t *testing.T) {
	const ny, nx = 8, 16
	spec, err := Transform(constantImage(ny, nx, 1))
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	ps := PowerSpectrum(Shift(spec))

	cy, cx := FreqCenter(ny), FreqCenter(nx)
	want := float64(ny*nx) * float64(ny*nx)
	if d := math.Abs(ps[cy][cx] - want); d > 1e-6 {
		t.Fatalf("center power = %v, want %v", ps[cy][cx], want)
	}
}

func TestShiftOdd(t *testing.T) {
	in := [][]float64{{0, 1, 2, 3, 4}}
	got := Shift(in)
	want := []float64{3, 4, 0, 1, 2}
	for j := range want {
		if got[0][j] != want[j] {
			t.Fatalf("got %v, want %v", got[0], want)
		}
	}
}

func TestRoundTrip(t *testing.T) {
	img := [][]float64{
		{1, -2, 3, 0.5},
		{0, 1, -1, 2},
		{4, 0, 0, -3},
		{1, 1, 2, 2},
	}

	spec, err := Transform(img)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	back, err := Inverse(spec)
	if err != nil {
		t.Fatalf("Inverse: %v", err)
	}

	for i := range img {
		for j := range img[i] {
			if d := math.Abs(back[i][j] - img[i][j]); d > 1e-9 {
				t.Fatalf("back[%d][%d] = %v, want %v", i, j, back[i][j], img[i][j])
			}
		}
	}
}

func TestParseval(t *testing.T) {
	img := [][]float64{
		{1, -2, 3, 0.5},
		{0, 1, -1, 2},
		{4, 0, 0, -3},
		{1, 1, 2, 2},
	}

	spec, err := Transform(img)
	if err != nil {
		t.Fatalf("Transform: %v", err)
	}

	var imgSum float64
	for i := range img {
		for j := range img[i] {
			imgSum += img[i][j] * img[i][j]
		}
	}

	var specSum float64
	for _, p := range PowerSpectrum(spec) {
		for _, v := range p {
			specSum += v
		}
	}

	// Parseval: total spectral power equals N times the image energy for an
	// unnormalized forward transform.
	want := float64(len(img)*len(img[0])) * imgSum
	if d := math.Abs(specSum - want); d > 1e-9*want {
		t.Fatalf("spectral power = %v, want %v", specSum, want)
	}
}

func TestFreqGrid(t *testing.T) {
	grid := FreqGrid(8, 8)

	if grid[4][4] != 0 {
		t.Fatalf("center = %v, want 0", grid[4][4])
	}

	// Nearest neighbors of the center sit one frequency step away.
	if d := math.Abs(grid[4][5] - 0.125); d > 1e-15 {
		t.Fatalf("grid[4][5] = %v, want 0.125", grid[4][5])
	}

	// The corner holds the largest radius.
	want := math.Hypot(0.5, 0.5)
	if d := math.Abs(grid[0][0] - want); d > 1e-15 {
		t.Fatalf("corner = %v, want %v", grid[0][0], want)
	}
}

func TestPowerSpectrum(t *testing.T) {
	spec := [][]complex128{{3 + 4i, 1i}, {2, 0}}
	ps := PowerSpectrum(spec)

	want := [][]float64{{25, 1}, {4, 0}}
	for i := range want {
		for j := range want[i] {
			if d := math.Abs(ps[i][j] - want[i][j]); d > 1e-12 {
				t.Fatalf("ps[%d][%d] = %v, want %v", i, j, ps[i][j], want[i][j])
			}
		}
	}
}
