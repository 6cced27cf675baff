/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package geometry

/*****************************************************************************************************************/

import (
	"errors"
	"math"
)

/*****************************************************************************************************************/

func DistanceBetweenTwoCartesianPoints(x1, y1, x2, y2 float64) float64 {
	return math.Hypot(x2-x1, y2-y1)
}

/*****************************************************************************************************************/

func AngleBetweenThreeCartesianPoints(x1, y1, x2, y2, x3, y3 float64) (float64, error) {
	a := DistanceBetweenTwoCartesianPoints(x2, y2, x3, y3) // Side opposite to point A (x1, y1)
	b := DistanceBetweenTwoCartesianPoints(x1, y1, x3, y3) // Side opposite to point B (x2, y2)
	c := DistanceBetweenTwoCartesianPoints(x1, y1, x2, y2) // Side opposite to point C (x3, y3)

	// Check for degenerate triangle (i.e. collinear points):
	if a == 0 || b == 0 || c == 0 {
		return 0, errors.New("degenerate triangle with zero-length sides")
	}

	// From the Law of Cosines, we can calculate the numerator of the arc-cosine:
	n := (math.Pow(b, 2) + math.Pow(c, 2) - math.Pow(a, 2))

	// From the Law of Cosines, we can calculate the denominator of the arc-cosine:
	d := 2 * b * c

	if d == 0 {
		return 0, errors.New("division by zero")
	}

	// Calculate the angle between the three points:
	return math.Acos(n/d) * 180 / math.Pi, nil
}

/*****************************************************************************************************************/

type InvariantFeatures struct {
	RatioAB float64
	RatioAC float64
	AngleA  float64
	AngleB  float64
}

/*****************************************************************************************************************/

func ComputeInvariantFeatures(x1, y1, x2, y2, x3, y3 float64) (InvariantFeatures, error) {
	// Compute side lengths of the triangle:
	a := DistanceBetweenTwoCartesianPoints(x2, y2, x3, y3) // BC
	b := DistanceBetweenTwoCartesianPoints(x1, y1, x3, y3) // AC
	c := DistanceBetweenTwoCartesianPoints(x1, y1, x2, y2) // AB

	// Check for degenerate triangle (i.e. collinear points):
	if a == 0 || b == 0 || c == 0 {
		return InvariantFeatures{}, errors.New("degenerate triangle with zero-length sides")
	}

	// Compute the angle A which is opposite to side a:
	angleA, err := AngleBetweenThreeCartesianPoints(x1, y1, x2, y2, x3, y3)
	if err != nil {
		return InvariantFeatures{}, err
	}

	// Compute the angle B which is opposite to side b:
	angleB, err := AngleBetweenThreeCartesianPoints(x2, y2, x1, y1, x3, y3)
	if err != nil {
		return InvariantFeatures{}, err
	}

	// Calculate ratios based on specific sides without normalization
	ratioAB := math.Min(c, a) / math.Max(c, a)
	ratioAC := math.Min(b, a) / math.Max(b, a)

	return InvariantFeatures{
		RatioAB: ratioAB,
		RatioAC: ratioAC,
		AngleA:  angleA,
		AngleB:  angleB,
	}, nil
}

/*****************************************************************************************************************/

// InvariantFeatureTolerance bounds how far two InvariantFeatures may diverge and
// still be considered the same triangle/quad shape.
type InvariantFeatureTolerance struct {
	LengthRatio float64
	Angle       float64
}

/*****************************************************************************************************************/

// CompareInvariantFeatures reports whether a and b agree within tolerance on both
// side-length ratios and both angles.
func CompareInvariantFeatures(a, b InvariantFeatures, tolerance InvariantFeatureTolerance) bool {
	if math.Abs(a.RatioAB-b.RatioAB) > tolerance.LengthRatio {
		return false
	}

	if math.Abs(a.RatioAC-b.RatioAC) > tolerance.LengthRatio {
		return false
	}

	if math.Abs(a.AngleA-b.AngleA) > tolerance.Angle {
		return false
	}

	if math.Abs(a.AngleB-b.AngleB) > tolerance.Angle {
		return false
	}

	return true
}

/*****************************************************************************************************************/

// TriangleDescriptor is the canonical, similarity-invariant description of a
// triangle formed by three points: the three vertex indices permuted so that
// Indices[k] is the vertex opposite the k-th shortest side, and the two ratios
// s1/s0, s2/s0 where s0 <= s1 <= s2 are the sorted side lengths.
type TriangleDescriptor struct {
	Indices [3]int
	RatioS1 float64 // s1/s0
	RatioS2 float64 // s2/s0
}

/*****************************************************************************************************************/

type side struct {
	length float64
	vertex int // the vertex opposite this side
}

/*****************************************************************************************************************/

// ComputeTriangleDescriptor builds the canonical descriptor for the triangle with
// vertices i, a, b at the given points. Side k is opposite vertex k in the local
// (i, a, b) = (0, 1, 2) numbering; Indices translates back to the caller's indices
// (idxI, idxA, idxB). Returns an error for degenerate triangles (any side < 1e-6).
func ComputeTriangleDescriptor(idxI, idxA, idxB int, xi, yi, xa, ya, xb, yb float64) (TriangleDescriptor, error) {
	// Side 0 is opposite vertex 0 (i), i.e., the side between a and b, and so on:
	sides := [3]side{
		{length: DistanceBetweenTwoCartesianPoints(xa, ya, xb, yb), vertex: idxI},
		{length: DistanceBetweenTwoCartesianPoints(xi, yi, xb, yb), vertex: idxA},
		{length: DistanceBetweenTwoCartesianPoints(xi, yi, xa, ya), vertex: idxB},
	}

	const epsilon = 1e-6

	for _, s := range sides {
		if s.length < epsilon {
			return TriangleDescriptor{}, errors.New("degenerate triangle with near-zero side")
		}
	}

	// Sort ascending by length, carrying the opposite-vertex mapping with it:
	if sides[0].length > sides[1].length {
		sides[0], sides[1] = sides[1], sides[0]
	}
	if sides[1].length > sides[2].length {
		sides[1], sides[2] = sides[2], sides[1]
	}
	if sides[0].length > sides[1].length {
		sides[0], sides[1] = sides[1], sides[0]
	}

	return TriangleDescriptor{
		Indices: [3]int{sides[0].vertex, sides[1].vertex, sides[2].vertex},
		RatioS1: sides[1].length / sides[0].length,
		RatioS2: sides[2].length / sides[0].length,
	}, nil
}

/*****************************************************************************************************************/
