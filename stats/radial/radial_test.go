package radial

import (
	"errors"
	"math"
	"testing"

	"github.com/cwbudde/algo-pspec/internal/testutil"
)

func flatSpectrum(ny, nx int) [][]float64 {
	ps := make([][]float64, ny)
	for i := range ps {
		ps[i] = make([]float64, nx)
		for j := range ps[i] {
			ps[i][j] = 1
		}
	}
	return ps
}

func TestBinPSpecValidation(t *testing.T) {
	if _, err := BinPSpec(nil); !errors.Is(err, ErrEmptySpectrum) {
		t.Fatalf("err = %v, want ErrEmptySpectrum", err)
	}
	if _, err := BinPSpec([][]float64{{1, 2}, {1}}); !errors.Is(err, ErrRaggedSpectrum) {
		t.Fatalf("err = %v, want ErrRaggedSpectrum", err)
	}
}

func TestBinPSpecMonotonicFrequencies(t *testing.T) {
	for _, logSpacing := range []bool{false, true} {
		opts := []Option{WithStddev()}
		if logSpacing {
			opts = append(opts, WithLogSpacing())
		}

		prof, err := BinPSpec(flatSpectrum(32, 32), opts...)
		if err != nil {
			t.Fatalf("BinPSpec(log=%v): %v", logSpacing, err)
		}

		testutil.RequireStrictlyIncreasing(t, prof.Freqs)
		if prof.Freqs[0] <= 0 {
			t.Fatalf("first frequency = %v, want > 0", prof.Freqs[0])
		}
		if len(prof.Power) != len(prof.Freqs) || len(prof.Stddev) != len(prof.Freqs) {
			t.Fatalf("length mismatch: %d freqs, %d powers, %d stddevs",
				len(prof.Freqs), len(prof.Power), len(prof.Stddev))
		}
	}
}

func TestBinPSpecFlatSpectrum(t *testing.T) {
	prof, err := BinPSpec(flatSpectrum(16, 16), WithStddev())
	if err != nil {
		t.Fatalf("BinPSpec: %v", err)
	}

	for i := range prof.Power {
		if prof.Power[i] != 1 {
			t.Fatalf("bin %d: power = %v, want 1", i, prof.Power[i])
		}
		if prof.Stddev[i] != 0 {
			t.Fatalf("bin %d: stddev = %v, want 0", i, prof.Stddev[i])
		}
	}
}

func TestBinPSpecWithoutStddev(t *testing.T) {
	prof, err := BinPSpec(flatSpectrum(16, 16))
	if err != nil {
		t.Fatalf("BinPSpec: %v", err)
	}
	if prof.Stddev != nil {
		t.Fatalf("stddev = %v, want nil", prof.Stddev)
	}
}

func TestBinPSpecMaxFreq(t *testing.T) {
	prof, err := BinPSpec(flatSpectrum(32, 32), WithMaxFreq(0.25))
	if err != nil {
		t.Fatalf("BinPSpec: %v", err)
	}

	last := prof.Freqs[len(prof.Freqs)-1]
	if last > 0.25 {
		t.Fatalf("max binned frequency = %v, want <= 0.25", last)
	}
}

func TestBinPSpecSkipsNaN(t *testing.T) {
	ps := flatSpectrum(16, 16)
	ps[3][5] = math.NaN()
	ps[10][2] = math.NaN()

	prof, err := BinPSpec(ps, WithStddev())
	if err != nil {
		t.Fatalf("BinPSpec: %v", err)
	}

	testutil.RequireFinite(t, prof.Power)
}

func TestBinPSpecBinCount(t *testing.T) {
	prof, err := BinPSpec(flatSpectrum(32, 32), WithBinCount(4))
	if err != nil {
		t.Fatalf("BinPSpec: %v", err)
	}

	if len(prof.Freqs) > 4 {
		t.Fatalf("got %d bins, want <= 4", len(prof.Freqs))
	}
}
