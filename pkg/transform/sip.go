/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package transform

/*****************************************************************************************************************/

import (
	"github.com/arcfield/starcore/pkg/matrix"
	"github.com/arcfield/starcore/pkg/utils"
)

/*****************************************************************************************************************/

// SIP (Simple Imaging Polynomial) is a convention used in FITS (Flexible Image Transport System)
// headers to describe complex distortions in astronomical images. It extends the standard World
// Coordinate System (WCS) by introducing higher-order polynomial terms that account for non-linear
// optical distortions, such as those introduced by telescope optics or atmospheric effects.
// @see https://fits.gsfc.nasa.gov/registry/sip/SIP_distortion_v1_0.pdf

/*****************************************************************************************************************/

// SIP2DParameters are the polynomial coefficients for the forward (pixel to
// intermediate world coordinate) distortion correction applied after the affine
// tangent-plane fit.
type SIP2DParameters struct {
	AOrder int
	APower map[string]float64
	BOrder int
	BPower map[string]float64
}

/*****************************************************************************************************************/

// IsZero reports whether the SIP correction is empty, e.g. a linear-only fit.
func (p SIP2DParameters) IsZero() bool {
	return len(p.APower) == 0 && len(p.BPower) == 0
}

/*****************************************************************************************************************/

// Evaluate applies the SIP polynomial correction at pixel offset (u, v) from the
// reference pixel, returning the (dx, dy) adjustment to add to the affine-mapped
// intermediate world coordinate.
func (p SIP2DParameters) Evaluate(u, v float64) (dx, dy float64) {
	if p.IsZero() {
		return 0, 0
	}

	order := p.AOrder
	if p.BOrder > order {
		order = p.BOrder
	}

	terms := utils.ComputePolynomialTerms(u, v, order)

	aKeys := utils.GeneratePolynomialTermKeys("A", p.AOrder)
	for i, key := range aKeys {
		if coeff, ok := p.APower[key]; ok && i < len(terms) {
			dx += coeff * terms[i]
		}
	}

	bKeys := utils.GeneratePolynomialTermKeys("B", p.BOrder)
	for i, key := range bKeys {
		if coeff, ok := p.BPower[key]; ok && i < len(terms) {
			dy += coeff * terms[i]
		}
	}

	return dx, dy
}

/*****************************************************************************************************************/

// FitSIP2DParameters fits order-sipOrder polynomials to the residuals (the
// affine-mapped position minus the observed position) left over after the
// linear tangent-plane fit, following the Plate Solver's own least-squares SIP
// fit over its matches. Returns a zero-valued SIP2DParameters, rather than an
// error, when there are too few residuals to constrain the fit - a SIP tweak is
// an enhancement, not a requirement, of a successful solve.
func FitSIP2DParameters(u, v, residualX, residualY []float64, sipOrder int) (SIP2DParameters, error) {
	n := len(u)
	numTerms := (sipOrder + 1) * (sipOrder + 2) / 2

	if n < numTerms {
		return SIP2DParameters{}, nil
	}

	design := make([]float64, 0, n*numTerms)

	for i := 0; i < n; i++ {
		design = append(design, utils.ComputePolynomialTerms(u[i], v[i], sipOrder)...)
	}

	aParams, err := fitPolynomial(design, residualX, n, numTerms)
	if err != nil {
		return SIP2DParameters{}, err
	}

	bParams, err := fitPolynomial(design, residualY, n, numTerms)
	if err != nil {
		return SIP2DParameters{}, err
	}

	aKeys := utils.GeneratePolynomialTermKeys("A", sipOrder)
	bKeys := utils.GeneratePolynomialTermKeys("B", sipOrder)

	aPower := make(map[string]float64, numTerms)
	bPower := make(map[string]float64, numTerms)

	for i, key := range aKeys {
		aPower[key] = aParams[i]
	}

	for i, key := range bKeys {
		bPower[key] = bParams[i]
	}

	return SIP2DParameters{AOrder: sipOrder, APower: aPower, BOrder: sipOrder, BPower: bPower}, nil
}

/*****************************************************************************************************************/

// fitPolynomial solves the least-squares normal equations A^T A p = A^T b for a
// flattened n x numTerms design matrix A and observation vector b.
func fitPolynomial(design []float64, b []float64, n, numTerms int) ([]float64, error) {
	a, err := matrix.NewFromSlice(design, n, numTerms)
	if err != nil {
		return nil, err
	}

	bm, err := matrix.NewFromSlice(b, n, 1)
	if err != nil {
		return nil, err
	}

	aT, err := a.Transpose()
	if err != nil {
		return nil, err
	}

	aTa, err := aT.Multiply(a)
	if err != nil {
		return nil, err
	}

	aTb, err := aT.Multiply(bm)
	if err != nil {
		return nil, err
	}

	aTaInv, err := aTa.Invert()
	if err != nil {
		return nil, err
	}

	params := make([]float64, numTerms)
	for i := 0; i < numTerms; i++ {
		for j := 0; j < numTerms; j++ {
			params[i] += aTaInv.Value[i*numTerms+j] * aTb.Value[j]
		}
	}

	return params, nil
}

/*****************************************************************************************************************/
