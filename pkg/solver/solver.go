/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package solver

/*****************************************************************************************************************/

import (
	"context"
	"math"

	"golang.org/x/sync/errgroup"

	"github.com/arcfield/starcore/internal/config"
	"github.com/arcfield/starcore/internal/errs"
	"github.com/arcfield/starcore/pkg/catalog"
	"github.com/arcfield/starcore/pkg/geometry"
	"github.com/arcfield/starcore/pkg/quad"
	"github.com/arcfield/starcore/pkg/spatial"
	"github.com/arcfield/starcore/pkg/star"
	"github.com/arcfield/starcore/pkg/transform"
	"github.com/arcfield/starcore/pkg/wcs"
)

/*****************************************************************************************************************/

// PlateSolver matches a brightness-ordered list of detected stars against a
// precomputed quad-code catalogue by scale/parity-invariant quad hashing,
// depth-iterating over a monotonically growing active pool of stars until a
// solution clears a log-odds confidence threshold. It never takes an
// approximate sky position: the field centre is a product of the solve, not an
// input to it.
type PlateSolver struct {
	params config.SolverConfig
}

/*****************************************************************************************************************/

func NewPlateSolver(params config.SolverConfig) *PlateSolver {
	return &PlateSolver{params: params}
}

/*****************************************************************************************************************/

// Solution is a verified plate solve: the fitted WCS, the matches that
// supported it, and the log-odds confidence that accrued during verification.
type Solution struct {
	WCS      wcs.WCS
	Matches  []Match
	LogOdds  float64
	Parity   int // +1 or -1, the sign of the fitted affine determinant
	Attempts int // number of depth-window/parity combinations tried
}

/*****************************************************************************************************************/

type Match struct {
	Star   star.Star
	Source catalog.Source
}

/*****************************************************************************************************************/

// Solve blindly astrometrically solves the field given by stars (assumed
// already brightness/spatially ordered, brightest-relevant-first), a pixel
// frame of size (width, height), and an ordered list of sky indexes queried as
// their quad-set union. scaleLow/scaleHigh bound the assumed plate scale in
// arcsec/pixel. It depth-iterates the active star pool in params.DepthStep
// increments up to params.DepthMax, at each depth forming quads from the
// active pool - rejecting any whose pixel diameter falls outside the range the
// scale bounds imply - hashing them against the index's quads_in_scale_range
// result, and accumulating Bayesian log-odds support for the best-matching
// hypothesis until params.LogOddsKeep is cleared.
func (ps *PlateSolver) Solve(ctx context.Context, stars []star.Star, width, height int, index *catalog.MultiIndex, scaleLow, scaleHigh float64) (*Solution, error) {
	if len(stars) < 4 {
		return nil, errs.New(errs.SolveFailed, "fewer than four stars to form a quad")
	}

	if scaleLow <= 0 || scaleHigh < scaleLow {
		return nil, errs.New(errs.SolveFailed, "invalid plate-scale bounds")
	}

	diagonal := math.Hypot(float64(width), float64(height))

	minDiameterPix := ps.params.QuadSizeFractionLow * diagonal
	maxDiameterPix := ps.params.QuadSizeFractionHigh * diagonal

	// The index's quads are catalogued in arcseconds, position-independent of
	// any particular frame; widen the pixel-diameter bound by the full
	// scale-uncertainty range so a true match is never excluded by it:
	minDiameterArcsec := minDiameterPix * scaleLow
	maxDiameterArcsec := maxDiameterPix * scaleHigh

	sourceQuads, err := index.QuadsInScaleRange(minDiameterArcsec, maxDiameterArcsec)
	if err != nil {
		return nil, errs.Newf(errs.SolveFailed, "index lookup failed: %v", err)
	}

	if len(sourceQuads) < 1 {
		return nil, errs.New(errs.SolveFailed, "no index quads within the configured scale range")
	}

	matcher, err := spatial.NewQuadMatcher(sourceQuads)
	if err != nil {
		return nil, errs.Newf(errs.SolveFailed, "failed to index catalog quads: %v", err)
	}

	parities := []int{+1, -1}
	switch ps.params.Parity {
	case "positive":
		parities = []int{+1}
	case "negative":
		parities = []int{-1}
	}

	type attempt struct {
		solution *Solution
	}

	results := make([]attempt, len(parities))

	g, gctx := errgroup.WithContext(ctx)

	for i, parity := range parities {
		i, parity := i, parity

		g.Go(func() error {
			sol := ps.solveForParity(gctx, stars, matcher, parity, minDiameterPix, maxDiameterPix)
			results[i] = attempt{solution: sol}
			return nil
		})
	}

	// solveForParity never returns an error itself (a failed solve is reported
	// as a nil Solution), so the only possible error here is context cancellation.
	_ = g.Wait()

	var best *Solution

	for _, r := range results {
		if r.solution == nil {
			continue
		}
		if best == nil || r.solution.LogOdds > best.LogOdds {
			best = r.solution
		}
	}

	if best == nil {
		return nil, errs.New(errs.SolveFailed, "no depth window and parity combination reached the confidence threshold")
	}

	return best, nil
}

/*****************************************************************************************************************/

func (ps *PlateSolver) solveForParity(ctx context.Context, stars []star.Star, matcher *spatial.QuadMatcher, parity int, minDiameterPix, maxDiameterPix float64) *Solution {
	logOdds := 0.0
	attempts := 0

	var best *Solution
	var bestPool []star.Star

	depthMax := ps.params.DepthMax
	depthStep := ps.params.DepthStep
	if depthStep <= 0 {
		depthStep = 10
	}

	for hi := depthStep; hi <= depthMax && hi <= len(stars); hi += depthStep {
		select {
		case <-ctx.Done():
			return ps.maybeTune(bestPool, best, logOdds)
		default:
		}

		// Per the monotonically growing active pool: quads at window [lo, hi]
		// are drawn from the whole prefix [0, hi], not just the new stars
		// added since the last window.
		pool := stars[:hi]

		starQuads := buildStarQuads(pool, parity, minDiameterPix, maxDiameterPix)

		for _, sq := range starQuads {
			attempts++

			match, err := matcher.MatchQuad(sq, ps.params.CodeTolerance)
			if err != nil {
				continue
			}

			solution, delta := ps.verify(pool, sq, match.Quad)

			if solution == nil {
				continue
			}

			logOdds += delta

			if best == nil || solution.LogOdds > best.LogOdds {
				solution.Attempts = attempts
				solution.Parity = parity
				best = solution
				bestPool = pool
			}

			if logOdds >= ps.params.LogOddsKeep && best != nil {
				return ps.maybeTune(bestPool, best, logOdds)
			}
		}
	}

	return ps.maybeTune(bestPool, best, logOdds)
}

/*****************************************************************************************************************/

// maybeTune runs the Tuning step once accumulated log-odds has cleared
// LogOddsTune, otherwise returns best unchanged.
func (ps *PlateSolver) maybeTune(pool []star.Star, best *Solution, logOdds float64) *Solution {
	if best == nil || logOdds < ps.params.LogOddsTune {
		return best
	}
	return ps.tune(pool, best)
}

/*****************************************************************************************************************/

// verify fits an affine transform from the quad's four star/source
// correspondences, then scores it by how many of the active star pool project
// within VerifyPix arcseconds of one of the matched quad's four catalog
// sources (no other catalog source is consulted), returning a candidate
// Solution and the log-odds increment this quad contributed.
func (ps *PlateSolver) verify(pool []star.Star, starQuad, sourceQuad quad.Quad) (*Solution, float64) {
	sx := []float64{starQuad.A.X, starQuad.B.X, starQuad.C.X, starQuad.D.X}
	sy := []float64{starQuad.A.Y, starQuad.B.Y, starQuad.C.Y, starQuad.D.Y}
	cra := []float64{sourceQuad.A.RA, sourceQuad.B.RA, sourceQuad.C.RA, sourceQuad.D.RA}
	cdec := []float64{sourceQuad.A.Dec, sourceQuad.B.Dec, sourceQuad.C.Dec, sourceQuad.D.Dec}

	affine, err := transform.FitAffine2DParameters(sx, sy, cra, cdec)
	if err != nil {
		return nil, 0
	}

	candidates := []star.Star{sourceQuad.A, sourceQuad.B, sourceQuad.C, sourceQuad.D}

	inliers := 0
	matches := make([]Match, 0, len(pool))

	toleranceDegrees := ps.params.VerifyPix / 3600.0

	for _, s := range pool {
		ra, dec := affine.Apply(s.X, s.Y)

		nearestDistance := math.Inf(1)
		var nearestSource catalog.Source

		for _, cand := range candidates {
			d := geometry.DistanceBetweenTwoCartesianPoints(ra, dec, cand.RA, cand.Dec)
			if d < nearestDistance {
				nearestDistance = d
				nearestSource = catalog.Source{RA: cand.RA, Dec: cand.Dec, Designation: cand.Designation}
			}
		}

		if nearestDistance <= toleranceDegrees {
			inliers++
			matches = append(matches, Match{Star: s, Source: nearestSource})
		}
	}

	if inliers < 4 {
		return nil, 0
	}

	delta := ps.logOddsIncrement(inliers, len(pool))

	crpixX, crpixY := centroid(pool)

	solved := wcs.NewWorldCoordinateSystem(crpixX, crpixY, wcs.WCSParams{
		Projection:   wcs.RADEC_TAN,
		AffineParams: affine,
	})

	return &Solution{WCS: solved, Matches: matches, LogOdds: delta}, delta
}

/*****************************************************************************************************************/

// logOddsIncrement approximates log(p(inliers observed | real match) / p(inliers
// observed | false match)) from the observed inlier fraction against the
// configured distractor rate.
func (ps *PlateSolver) logOddsIncrement(inliers, poolSize int) float64 {
	distractorRate := ps.params.DistractorRatio
	if distractorRate <= 0 {
		distractorRate = 0.25
	}

	fraction := float64(inliers) / float64(poolSize)
	delta := math.Log((fraction+1e-6)/(distractorRate+1e-6)) * float64(inliers)

	if delta < 0 {
		delta = 0
	}

	return delta
}

/*****************************************************************************************************************/

func centroid(pool []star.Star) (x, y float64) {
	for _, s := range pool {
		x += s.X
		y += s.Y
	}
	x /= float64(len(pool))
	y /= float64(len(pool))
	return x, y
}

/*****************************************************************************************************************/

// tune implements the Tuning step: the WCS is re-estimated from every inlier of
// the seeding solution (not just the four correspondences the matched quad
// supplied) by least squares, the result is re-verified against the active
// pool, and - if enough inliers survive to constrain it - a TweakOrder-degree
// SIP polynomial distortion is fit over the remaining pixel residuals and
// folded into the returned WCS. Returns sol unchanged if the refit, re-verify,
// or SIP fit can't improve on it.
func (ps *PlateSolver) tune(pool []star.Star, sol *Solution) *Solution {
	if sol == nil || len(sol.Matches) < 3 || len(pool) == 0 {
		return sol
	}

	sx := make([]float64, len(sol.Matches))
	sy := make([]float64, len(sol.Matches))
	cra := make([]float64, len(sol.Matches))
	cdec := make([]float64, len(sol.Matches))

	for i, m := range sol.Matches {
		sx[i], sy[i] = m.Star.X, m.Star.Y
		cra[i], cdec[i] = m.Source.RA, m.Source.Dec
	}

	affine, err := transform.FitAffine2DParameters(sx, sy, cra, cdec)
	if err != nil {
		return sol
	}

	crpixX, crpixY := centroid(pool)

	retuned := wcs.NewWorldCoordinateSystem(crpixX, crpixY, wcs.WCSParams{
		Projection:   wcs.RADEC_TAN,
		AffineParams: affine,
	})

	toleranceDegrees := ps.params.VerifyPix / 3600.0

	matches := make([]Match, 0, len(pool))
	for _, s := range pool {
		eq := retuned.PixelToEquatorialCoordinate(s.X, s.Y)

		nearestDistance := math.Inf(1)
		var nearestSource catalog.Source

		for _, m := range sol.Matches {
			d := geometry.DistanceBetweenTwoCartesianPoints(eq.RA, eq.Dec, m.Source.RA, m.Source.Dec)
			if d < nearestDistance {
				nearestDistance = d
				nearestSource = m.Source
			}
		}

		if nearestDistance <= toleranceDegrees {
			matches = append(matches, Match{Star: s, Source: nearestSource})
		}
	}

	if len(matches) < 4 {
		return sol
	}

	if sip, ok := ps.fitTweak(matches, crpixX, crpixY, &retuned); ok {
		retuned = wcs.NewWorldCoordinateSystem(crpixX, crpixY, wcs.WCSParams{
			Projection:   wcs.RADEC_TAN,
			AffineParams: affine,
			SIPParams:    sip,
		})
	}

	logOdds := ps.logOddsIncrement(len(matches), len(pool))

	return &Solution{
		WCS:      retuned,
		Matches:  matches,
		LogOdds:  logOdds,
		Parity:   sol.Parity,
		Attempts: sol.Attempts,
	}
}

/*****************************************************************************************************************/

// fitTweak fits the optional polynomial distortion correction over the
// re-verified inliers' pixel residuals: how far each inlier's catalog position,
// mapped back through the linear WCS, falls from the star's own pixel position.
func (ps *PlateSolver) fitTweak(matches []Match, crpixX, crpixY float64, linear *wcs.WCS) (transform.SIP2DParameters, bool) {
	order := ps.params.TweakOrder
	if order <= 0 {
		return transform.SIP2DParameters{}, false
	}

	numTerms := (order + 1) * (order + 2) / 2
	if len(matches) < numTerms {
		return transform.SIP2DParameters{}, false
	}

	u := make([]float64, len(matches))
	v := make([]float64, len(matches))
	residualX := make([]float64, len(matches))
	residualY := make([]float64, len(matches))

	for i, m := range matches {
		pu := m.Star.X - crpixX
		pv := m.Star.Y - crpixY

		idealX, idealY := linear.EquatorialCoordinateToPixel(m.Source.RA, m.Source.Dec)

		u[i] = pu
		v[i] = pv
		residualX[i] = (idealX - crpixX) - pu
		residualY[i] = (idealY - crpixY) - pv
	}

	sip, err := transform.FitSIP2DParameters(u, v, residualX, residualY, order)
	if err != nil || sip.IsZero() {
		return transform.SIP2DParameters{}, false
	}

	return sip, true
}

/*****************************************************************************************************************/

// buildStarQuads forms a quad from every combination of four stars in pool
// (capped to the first 12 of the ordered pool to bound combinatorial growth), per the
// canonical A/B/C/D assignment in pkg/quad, rejecting any whose |AB| falls
// outside [minDiameterPix, maxDiameterPix] - the pixel-scale range the quad
// formation step of the solve is configured to search. When parity is -1, the
// X axis of each star is mirrored first so a solve can be attempted against a
// flipped (e.g. meridian-flipped) image without a second star extraction pass.
func buildStarQuads(pool []star.Star, parity int, minDiameterPix, maxDiameterPix float64) []quad.Quad {
	quads := []quad.Quad{}

	n := len(pool)
	if n > 12 {
		n = 12
	}

	working := make([]star.Star, n)
	copy(working, pool[:n])

	if parity < 0 {
		for i := range working {
			working[i].X = -working[i].X
		}
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			for k := j + 1; k < n; k++ {
				for l := k + 1; l < n; l++ {
					q, err := quad.NewQuad(working[i], working[j], working[k], working[l], 3)
					if err != nil {
						continue
					}

					if d := q.Diameter(); d < minDiameterPix || d > maxDiameterPix {
						continue
					}

					quads = append(quads, q)
				}
			}
		}
	}

	return quads
}

/*****************************************************************************************************************/
