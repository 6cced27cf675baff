/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package astrometry

/*****************************************************************************************************************/

import (
	"github.com/arcfield/starcore/pkg/geometry"
	"github.com/arcfield/starcore/pkg/star"
)

/*****************************************************************************************************************/

type ICRSEquatorialCoordinate struct {
	RA  float64
	Dec float64
}

/*****************************************************************************************************************/

// Asterism is a three-star group with its canonicalised shape. The Frame
// Aligner's triangle matching does not use it; it works on
// geometry.TriangleDescriptor values instead.
type Asterism struct {
	A        star.Star
	B        star.Star
	C        star.Star
	Features geometry.InvariantFeatures
}

/*****************************************************************************************************************/
