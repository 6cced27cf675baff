/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package transform

/*****************************************************************************************************************/

import "github.com/arcfield/starcore/pkg/matrix"

/*****************************************************************************************************************/

// Affine2DParameters represents the parameters of a 2D affine transformation.
type Affine2DParameters struct {
	A, B, C float64 // Transformation for X: x' = A*x + B*y + C
	D, E, F float64 // Transformation for Y: y' = D*x + E*y + F
}

/*****************************************************************************************************************/

// Apply maps a pixel-frame point through the affine transformation.
func (p Affine2DParameters) Apply(x, y float64) (xp, yp float64) {
	return p.A*x + p.B*y + p.C, p.D*x + p.E*y + p.F
}

/*****************************************************************************************************************/

// Invert returns the affine transformation that undoes p, failing if p's linear
// part is singular.
func (p Affine2DParameters) Invert() (Affine2DParameters, error) {
	det := p.A*p.E - p.B*p.D

	if det > -1e-12 && det < 1e-12 {
		return Affine2DParameters{}, matrix.ErrSingularMatrix
	}

	a := p.E / det
	b := -p.B / det
	d := -p.D / det
	e := p.A / det

	c := -(a*p.C + b*p.F)
	f := -(d*p.C + e*p.F)

	return Affine2DParameters{A: a, B: b, C: c, D: d, E: e, F: f}, nil
}

/*****************************************************************************************************************/

// FitAffine2DParameters solves the least-squares affine transform x'=Ax+By+C,
// y'=Dx+Ey+F mapping each (x[i],y[i]) to (xp[i],yp[i]) via the normal equations
// A^T A p = A^T b, following the Plate Solver's own fit over its matches.
func FitAffine2DParameters(x, y, xp, yp []float64) (Affine2DParameters, error) {
	n := len(x)

	if n < 3 {
		return Affine2DParameters{}, matrix.ErrUnderdetermined
	}

	rows := make([]float64, 0, 2*n*6)
	b := make([]float64, 0, 2*n)

	for i := 0; i < n; i++ {
		rows = append(rows, x[i], y[i], 1, 0, 0, 0)
		b = append(b, xp[i])
		rows = append(rows, 0, 0, 0, x[i], y[i], 1)
		b = append(b, yp[i])
	}

	a, err := matrix.NewFromSlice(rows, 2*n, 6)
	if err != nil {
		return Affine2DParameters{}, err
	}

	bm, err := matrix.NewFromSlice(b, 2*n, 1)
	if err != nil {
		return Affine2DParameters{}, err
	}

	aT, err := a.Transpose()
	if err != nil {
		return Affine2DParameters{}, err
	}

	aTa, err := aT.Multiply(a)
	if err != nil {
		return Affine2DParameters{}, err
	}

	aTb, err := aT.Multiply(bm)
	if err != nil {
		return Affine2DParameters{}, err
	}

	aTaInv, err := aTa.Invert()
	if err != nil {
		return Affine2DParameters{}, err
	}

	params := make([]float64, 6)
	for i := 0; i < 6; i++ {
		for j := 0; j < 6; j++ {
			params[i] += aTaInv.Value[i*6+j] * aTb.Value[j]
		}
	}

	return Affine2DParameters{A: params[0], B: params[1], C: params[2], D: params[3], E: params[4], F: params[5]}, nil
}

/*****************************************************************************************************************/
