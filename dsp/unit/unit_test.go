package unit

import (
	"errors"
	"math"
	"testing"
)

func TestToPixelFreq(t *testing.T) {
	scale := &PixelScale{ArcsecPerPix: 2}

	cases := []struct {
		name string
		in   Quantity
		want float64
	}{
		{"identity", PerPixel(0.25), 0.25},
		{"pixel scale", Pixels(8), 0.125},
		{"angular frequency", Quantity{Value: 0.1, Unit: PerArcsec}, 0.2},
		{"angular scale", Arcseconds(10), 0.2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := scale.ToPixelFreq(tc.in)
			if err != nil {
				t.Fatalf("ToPixelFreq(%v): %v", tc.in, err)
			}
			if got.Unit != PerPix {
				t.Fatalf("unit = %v, want PerPix", got.Unit)
			}
			if math.Abs(got.Value-tc.want) > 1e-12 {
				t.Fatalf("value = %v, want %v", got.Value, tc.want)
			}
		})
	}
}

func TestToPixelFreqNilScale(t *testing.T) {
	var scale *PixelScale

	if _, err := scale.ToPixelFreq(PerPixel(0.1)); err != nil {
		t.Fatalf("pixel frequency should not need a scale: %v", err)
	}

	_, err := scale.ToPixelFreq(Arcseconds(10))
	if !errors.Is(err, ErrIncompatibleUnits) {
		t.Fatalf("err = %v, want ErrIncompatibleUnits", err)
	}
}

func TestToPixelFreqRejectsSpectral(t *testing.T) {
	scale := &PixelScale{ArcsecPerPix: 2}

	_, err := scale.ToPixelFreq(VelocityWidth(1))
	if !errors.Is(err, ErrIncompatibleUnits) {
		t.Fatalf("err = %v, want ErrIncompatibleUnits", err)
	}
}

func TestToChannels(t *testing.T) {
	scale := &PixelScale{WidthPerChan: 0.5}

	got, err := scale.ToChannels(VelocityWidth(2))
	if err != nil {
		t.Fatalf("ToChannels: %v", err)
	}
	if got.Unit != Pix || got.Value != 4 {
		t.Fatalf("got %v, want 4 pix", got)
	}

	ident, err := scale.ToChannels(Pixels(3))
	if err != nil || ident.Value != 3 {
		t.Fatalf("identity conversion failed: %v %v", ident, err)
	}
}

func TestQuantityString(t *testing.T) {
	if s := PerPixel(0.5).String(); s != "0.5 1/pix" {
		t.Fatalf("String() = %q", s)
	}
	if s := (Quantity{Value: 2}).String(); s != "2" {
		t.Fatalf("String() = %q", s)
	}
}
