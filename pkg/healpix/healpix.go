/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package healpix

/*****************************************************************************************************************/

import (
	"math"

	"github.com/arcfield/starcore/pkg/astrometry"
	"github.com/arcfield/starcore/pkg/projection"
)

/*****************************************************************************************************************/

// Scheme selects the HEALPix pixel numbering convention. NESTED is accepted for
// compatibility with index files produced elsewhere, but the RING algorithm is used
// internally for both; this is an accepted simplification for the offline
// index-generation tool, which is not on the critical path of the three public
// entry points.
type Scheme int

/*****************************************************************************************************************/

const (
	RING Scheme = iota
	NESTED
)

/*****************************************************************************************************************/

type HealPIX struct {
	NSide                 int
	Scheme                Scheme
	Longitude             float64
	Latitude              float64
	PolarLatitudeBoundary float64
}

/*****************************************************************************************************************/

// NewHealPIX constructs a HEALPix pixelisation at the given resolution parameter
// (the number of divisions along a base-pixel side; total pixel count is 12*nside^2).
func NewHealPIX(nside int, scheme Scheme) *HealPIX {
	if nside < 1 {
		nside = 1
	}

	return &HealPIX{
		NSide:                 nside,
		Scheme:                scheme,
		Longitude:             180.0,
		Latitude:              0.0,
		PolarLatitudeBoundary: 2.0 / 3.0,
	}
}

/*****************************************************************************************************************/

// GetNumberOfPixels returns 12*NSide^2, the total number of equal-area pixels.
func (h *HealPIX) GetNumberOfPixels() int {
	return 12 * h.NSide * h.NSide
}

/*****************************************************************************************************************/

// GetNSide returns the resolution parameter this pixelisation was built with.
func (h *HealPIX) GetNSide() int {
	return h.NSide
}

/*****************************************************************************************************************/

// GetPixelArea returns the (equal, by construction) area of a single pixel in
// square degrees.
func (h *HealPIX) GetPixelArea() float64 {
	steradians := 4 * math.Pi / float64(h.GetNumberOfPixels())
	return steradians * (180.0 / math.Pi) * (180.0 / math.Pi)
}

/*****************************************************************************************************************/

// GetPixelIndicesFromEquatorialRadialRegion returns every pixel index whose
// centre falls within radius degrees of eq - a coarse, whole-pixel cover of a
// circular sky region.
func (h *HealPIX) GetPixelIndicesFromEquatorialRadialRegion(eq astrometry.ICRSEquatorialCoordinate, radius float64) []int {
	var indices []int

	for pixel := 0; pixel < h.GetNumberOfPixels(); pixel++ {
		centre := h.ConvertPixelIndexToEquatorial(pixel)

		dRA := (centre.RA - eq.RA) * math.Cos(projection.Radians(eq.Dec))
		dDec := centre.Dec - eq.Dec

		if math.Hypot(dRA, dDec) <= radius {
			indices = append(indices, pixel)
		}
	}

	return indices
}

/*****************************************************************************************************************/

// GetPixelRadialExtent returns an approximate angular radius (in degrees) covering
// a single pixel, derived from the equal-area pixel size.
func (h *HealPIX) GetPixelRadialExtent(pixel int) float64 {
	pixelAreaSteradians := 4 * math.Pi / float64(h.GetNumberOfPixels())
	// Treat the pixel as a disk of the same area: pi*r^2 = area:
	radiusRadians := math.Sqrt(pixelAreaSteradians / math.Pi)
	return projection.Degrees(radiusRadians)
}

/*****************************************************************************************************************/

// ConvertEquatorialToCartesian converts equatorial coordinates (RA, Dec) to cartesian
// coordinates (x, y) using the HEALPix projection: the interrupted Collignon
// projection near the poles and the Lambert-cylindrical projection closer to the
// equator.
func (h *HealPIX) ConvertEquatorialToCartesian(eq astrometry.ICRSEquatorialCoordinate) (x, y float64) {
	z := math.Sin(projection.Radians(eq.Dec))

	if math.Abs(z) <= h.PolarLatitudeBoundary {
		return projection.ConvertEquatorialToLambertCylindricalCartesian(eq, z)
	}

	return projection.ConvertEquatorialToInterruptedCollignonCartesian(eq, z)
}

/*****************************************************************************************************************/

// ConvertEquatorialToPixelIndex maps an equatorial coordinate to its RING-scheme
// HEALPix pixel index, following the standard ang2pix_ring construction.
func (h *HealPIX) ConvertEquatorialToPixelIndex(eq astrometry.ICRSEquatorialCoordinate) int {
	nside := float64(h.NSide)

	theta := math.Pi/2 - projection.Radians(eq.Dec)
	phi := projection.Radians(eq.RA)
	if phi < 0 {
		phi += 2 * math.Pi
	}

	z := math.Cos(theta)
	za := math.Abs(z)
	tt := phi / (math.Pi / 2)

	if za <= h.PolarLatitudeBoundary {
		temp1 := nside * (0.5 + tt)
		temp2 := nside * z * 0.75

		jp := math.Floor(temp1 - temp2)
		jm := math.Floor(temp1 + temp2)

		ir := nside + 1 + jp - jm
		kshift := 0.0
		if math.Mod(ir, 2) == 0 {
			kshift = 1
		}

		ip := math.Floor((jp + jm - nside + kshift + 1) / 2)
		ip = math.Mod(ip, 4*nside)

		ncap := 2 * nside * (nside - 1)

		return int(ncap + (ir-1)*4*nside + ip)
	}

	ntt := math.Min(3, math.Floor(tt))
	tp := tt - ntt
	tmp := nside * math.Sqrt(3*(1-za))

	jp := math.Floor(tp * tmp)
	jm := math.Floor((1 - tp) * tmp)

	ir := jp + jm + 1
	ip := math.Floor(tt * ir)
	ip = math.Mod(ip, 4*ir)

	npix := float64(h.GetNumberOfPixels())

	if z > 0 {
		return int(2*ir*(ir-1) + ip)
	}

	return int(npix - 2*ir*(ir+1) + ip)
}

/*****************************************************************************************************************/

// ConvertPixelIndexToEquatorial returns the equatorial coordinate of the centre of
// the given RING-scheme pixel, following the standard pix2ang_ring construction.
func (h *HealPIX) ConvertPixelIndexToEquatorial(pixel int) astrometry.ICRSEquatorialCoordinate {
	nside := float64(h.NSide)
	p := float64(pixel)

	ncap := 2 * nside * (nside - 1)
	npix := float64(h.GetNumberOfPixels())

	var z, phi float64

	switch {
	case p < ncap:
		// North polar cap:
		ir := math.Floor(0.5 * (1 + math.Sqrt(1+2*p)))
		ip := p - 2*ir*(ir-1)

		z = 1 - (ir*ir)/(3*nside*nside)
		phi = (ip + 0.5) / ir * (math.Pi / 2)

	case p < npix-ncap:
		// Equatorial belt:
		pp := p - ncap

		ir := math.Floor(pp/(4*nside)) + nside
		ip := math.Mod(pp, 4*nside)

		fodd := 0.5
		if math.Mod(ir+nside, 2) == 1 {
			fodd = 1.0
		}

		z = (2*nside - ir) * 2 / (3 * nside)
		phi = (ip + 1 - fodd) / nside * (math.Pi / 2)

	default:
		// South polar cap:
		pp := npix - p
		ir := math.Floor(0.5 * (1 + math.Sqrt(2*pp-1)))
		ip := 4*ir - (pp - 2*ir*(ir-1))
		if ip < 0 {
			ip = 0
		}

		z = -1 + (ir*ir)/(3*nside*nside)
		phi = (ip + 0.5) / ir * (math.Pi / 2)
	}

	theta := math.Acos(clampUnit(z))

	dec := projection.Degrees(math.Pi/2 - theta)
	ra := projection.Degrees(phi)

	return astrometry.ICRSEquatorialCoordinate{RA: ra, Dec: dec}
}

/*****************************************************************************************************************/

func clampUnit(v float64) float64 {
	if v > 1 {
		return 1
	}
	if v < -1 {
		return -1
	}
	return v
}

/*****************************************************************************************************************/
