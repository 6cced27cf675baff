/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package wcs

/*****************************************************************************************************************/

import (
	"github.com/arcfield/starcore/pkg/astrometry"
	"github.com/arcfield/starcore/pkg/transform"
)

/*****************************************************************************************************************/

// Projection identifies the celestial projection a WCS solution was fit under.
type Projection string

/*****************************************************************************************************************/

const (
	// RADEC_TAN is the gnomonic (tangent-plane) projection, the only projection
	// the Plate Solver fits.
	RADEC_TAN Projection = "TAN"
)

/*****************************************************************************************************************/

// WCSParams bundles the fitted affine tangent-plane transform and, optionally, a
// higher-order SIP distortion correction, ready to be folded into a WCS.
type WCSParams struct {
	Projection   Projection
	AffineParams transform.Affine2DParameters
	SIPParams    transform.SIP2DParameters
}

/*****************************************************************************************************************/

// WCS is a FITS-style World Coordinate System solution: a reference pixel and
// sky coordinate, a linear CD matrix mapping pixel offsets to intermediate
// world coordinates, and an optional SIP distortion correction.
type WCS struct {
	WCSAXES int     // Number of axes (always 2)
	CRPIX1  float64 // Reference pixel X
	CRPIX2  float64 // Reference pixel Y
	CRVAL1  float64 // Reference RA, at the reference pixel (in degrees)
	CRVAL2  float64 // Reference Dec, at the reference pixel (in degrees)
	CD1_1   float64 // Affine transform parameter A
	CD1_2   float64 // Affine transform parameter B
	CD2_1   float64 // Affine transform parameter D
	CD2_2   float64 // Affine transform parameter E
	CTYPE1  string  // Projection type for axis 1, e.g. "RA---TAN"
	CTYPE2  string  // Projection type for axis 2, e.g. "DEC--TAN"
	CDELT1  float64 // Pixel scale along axis 1 (in degrees/pixel)
	CDELT2  float64 // Pixel scale along axis 2 (in degrees/pixel)
	CUNIT1  string  // Axis 1 unit, always "deg"
	CUNIT2  string  // Axis 2 unit, always "deg"

	sip transform.SIP2DParameters
}

/*****************************************************************************************************************/

// NewWorldCoordinateSystem builds a WCS whose reference pixel is (crpixX,
// crpixY) and whose pixel-to-sky mapping is given by the fitted affine (and
// optional SIP) parameters. The affine's constant terms (C, F) give the
// reference RA/Dec, since the Plate Solver's affine is fit directly against
// equatorial coordinates rather than pixel offsets from the reference pixel.
func NewWorldCoordinateSystem(crpixX, crpixY float64, params WCSParams) WCS {
	a := params.AffineParams

	return WCS{
		WCSAXES: 2,
		CRPIX1:  crpixX,
		CRPIX2:  crpixY,
		CRVAL1:  a.A*crpixX + a.B*crpixY + a.C,
		CRVAL2:  a.D*crpixX + a.E*crpixY + a.F,
		CD1_1:   a.A,
		CD1_2:   a.B,
		CD2_1:   a.D,
		CD2_2:   a.E,
		CTYPE1:  "RA---" + string(params.Projection),
		CTYPE2:  "DEC--" + string(params.Projection),
		CDELT1:  a.A,
		CDELT2:  a.E,
		CUNIT1:  "deg",
		CUNIT2:  "deg",
		sip:     params.SIPParams,
	}
}

/*****************************************************************************************************************/

// PixelToEquatorialCoordinate maps a pixel-frame coordinate to its equatorial
// (RA, Dec) sky coordinate, applying the SIP distortion correction (if any)
// before the linear CD-matrix mapping.
func (wcs *WCS) PixelToEquatorialCoordinate(x, y float64) astrometry.ICRSEquatorialCoordinate {
	u := x - wcs.CRPIX1
	v := y - wcs.CRPIX2

	du, dv := wcs.sip.Evaluate(u, v)
	u += du
	v += dv

	return astrometry.ICRSEquatorialCoordinate{
		RA:  wcs.CRVAL1 + wcs.CD1_1*u + wcs.CD1_2*v,
		Dec: wcs.CRVAL2 + wcs.CD2_1*u + wcs.CD2_2*v,
	}
}

/*****************************************************************************************************************/

// EquatorialCoordinateToPixel inverts the CD-matrix mapping to recover the
// pixel-frame coordinate for a given sky coordinate. SIP distortion is not
// inverted (it is a second-order correction); callers needing exact round-trips
// through a SIP-tweaked solution should apply it iteratively.
func (wcs *WCS) EquatorialCoordinateToPixel(ra, dec float64) (x, y float64) {
	affine := transform.Affine2DParameters{
		A: wcs.CD1_1, B: wcs.CD1_2, C: wcs.CRVAL1,
		D: wcs.CD2_1, E: wcs.CD2_2, F: wcs.CRVAL2,
	}

	inverse, err := affine.Invert()
	if err != nil {
		return wcs.CRPIX1, wcs.CRPIX2
	}

	u, v := inverse.Apply(ra, dec)

	return wcs.CRPIX1 + u, wcs.CRPIX2 + v
}

/*****************************************************************************************************************/
