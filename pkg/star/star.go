/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package star

/*****************************************************************************************************************/

import "github.com/arcfield/starcore/pkg/geometry"

/*****************************************************************************************************************/

// Star is a detected or catalogued point source. X, Y are subpixel pixel-frame
// coordinates for a detected star; RA, Dec are populated once a star has been
// matched against (or originates from) a sky-index catalogue. Flux is the
// background-subtracted integrated brightness; Background is the local sky level
// estimated at that position.
type Star struct {
	Designation string  // catalog ID or colloquial name, e.g. "Sirius", "HD 1", empty for a raw detection
	X           float64 // X pixel coordinate
	Y           float64 // Y pixel coordinate
	RA          float64 // right ascension, in degrees, once known
	Dec         float64 // declination, in degrees, once known
	Flux        float64 // background-subtracted integrated brightness
	Background  float64 // local sky level estimated at (X, Y)
}

/*****************************************************************************************************************/

// Signal is the raw, non-background-subtracted brightness: Flux + Background. The
// Star Orderer's second permutation sorts on this.
func (s Star) Signal() float64 {
	return s.Flux + s.Background
}

/*****************************************************************************************************************/

func (p Star) EuclidianDistanceTo(point Star) float64 {
	return geometry.DistanceBetweenTwoCartesianPoints(p.X, p.Y, point.X, point.Y)
}

/*****************************************************************************************************************/
