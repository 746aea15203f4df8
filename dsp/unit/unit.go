// Package unit provides the minimal quantity types exchanged between the
// spectral statistics and an external unit system.
//
// The package intentionally does not implement general unit conversion. It
// covers exactly the pixel <-> physical mappings needed to express fit
// cutoffs, breakpoints, and channel widths: angular scales via a known pixel
// scale and spectral scales via a known channel width.
package unit

import (
	"errors"
	"fmt"
	"math"
)

// ErrIncompatibleUnits indicates a conversion between unrelated units.
var ErrIncompatibleUnits = errors.New("unit: incompatible units")

// Unit identifies the dimension a Quantity is expressed in.
type Unit int

const (
	Dimensionless Unit = iota
	Pix                // pixels (or channels along a spectral axis)
	PerPix             // spatial frequency in cycles per pixel
	Arcsec             // angular scale
	PerArcsec          // angular frequency in cycles per arcsecond
	KmPerS             // spectral (velocity) scale
)

// String returns the conventional notation for the unit.
func (u Unit) String() string {
	switch u {
	case Dimensionless:
		return ""
	case Pix:
		return "pix"
	case PerPix:
		return "1/pix"
	case Arcsec:
		return "arcsec"
	case PerArcsec:
		return "1/arcsec"
	case KmPerS:
		return "km/s"
	default:
		return fmt.Sprintf("Unit(%d)", int(u))
	}
}

// Quantity is a value tagged with its unit.
type Quantity struct {
	Value float64
	Unit  Unit
}

// Pixels returns a quantity of v pixels.
func Pixels(v float64) Quantity { return Quantity{Value: v, Unit: Pix} }

// PerPixel returns a spatial frequency of v cycles per pixel.
func PerPixel(v float64) Quantity { return Quantity{Value: v, Unit: PerPix} }

// Arcseconds returns an angular scale of v arcseconds.
func Arcseconds(v float64) Quantity { return Quantity{Value: v, Unit: Arcsec} }

// VelocityWidth returns a spectral width of v km/s.
func VelocityWidth(v float64) Quantity { return Quantity{Value: v, Unit: KmPerS} }

func (q Quantity) String() string {
	if q.Unit == Dimensionless {
		return fmt.Sprintf("%g", q.Value)
	}
	return fmt.Sprintf("%g %s", q.Value, q.Unit)
}

// PixelScale relates pixel-based quantities to physical ones. The zero value
// declares no known scale; conversions then accept pixel units only.
type PixelScale struct {
	// ArcsecPerPix is the angular width of one image pixel.
	ArcsecPerPix float64
	// WidthPerChan is the spectral width of one cube channel in km/s.
	WidthPerChan float64
}

// ToPixelFreq converts a frequency or scale quantity to cycles per pixel.
//
// Accepted inputs: PerPix (identity), Pix (reciprocal), PerArcsec and Arcsec
// (via ArcsecPerPix). A nil receiver behaves like the zero scale.
func (s *PixelScale) ToPixelFreq(q Quantity) (Quantity, error) {
	var arcsecPerPix float64
	if s != nil {
		arcsecPerPix = s.ArcsecPerPix
	}

	switch q.Unit {
	case PerPix:
		return q, nil
	case Pix:
		if q.Value == 0 {
			return Quantity{}, fmt.Errorf("%w: cannot invert zero pixel scale", ErrIncompatibleUnits)
		}

		return PerPixel(1 / q.Value), nil
	case PerArcsec:
		if arcsecPerPix <= 0 || math.IsNaN(arcsecPerPix) {
			return Quantity{}, fmt.Errorf("%w: angular frequency %s requires a pixel scale", ErrIncompatibleUnits, q)
		}

		return PerPixel(q.Value * arcsecPerPix), nil
	case Arcsec:
		if arcsecPerPix <= 0 || math.IsNaN(arcsecPerPix) {
			return Quantity{}, fmt.Errorf("%w: angular scale %s requires a pixel scale", ErrIncompatibleUnits, q)
		}

		if q.Value == 0 {
			return Quantity{}, fmt.Errorf("%w: cannot invert zero angular scale", ErrIncompatibleUnits)
		}

		return PerPixel(arcsecPerPix / q.Value), nil
	default:
		return Quantity{}, fmt.Errorf("%w: cannot express %s in 1/pix", ErrIncompatibleUnits, q)
	}
}

// ToChannels converts a spectral width quantity to a channel count.
//
// Accepted inputs: Pix (identity) and KmPerS (via WidthPerChan).
func (s *PixelScale) ToChannels(q Quantity) (Quantity, error) {
	var widthPerChan float64
	if s != nil {
		widthPerChan = s.WidthPerChan
	}

	switch q.Unit {
	case Pix:
		return q, nil
	case KmPerS:
		if widthPerChan <= 0 || math.IsNaN(widthPerChan) {
			return Quantity{}, fmt.Errorf("%w: spectral width %s requires a channel width", ErrIncompatibleUnits, q)
		}

		return Pixels(q.Value / widthPerChan), nil
	default:
		return Quantity{}, fmt.Errorf("%w: cannot express %s in channels", ErrIncompatibleUnits, q)
	}
}
