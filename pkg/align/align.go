/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package align implements the Frame Aligner: triangle-hash correspondence
// generation between two star lists followed by a RANSAC affine fit, in the same
// invariant-feature idiom the Plate Solver uses for quads.
package align

/*****************************************************************************************************************/

import (
	"math"
	"math/rand"
	"sort"

	"gonum.org/v1/gonum/mat"

	"github.com/arcfield/starcore/internal/config"
	"github.com/arcfield/starcore/internal/errs"
	"github.com/arcfield/starcore/pkg/geometry"
	"github.com/arcfield/starcore/pkg/star"
	"github.com/arcfield/starcore/pkg/transform"
)

/*****************************************************************************************************************/

// Result is a successful alignment: the fitted affine mapping reference pixel
// coordinates to new-frame pixel coordinates, the inlier count, and the RMS
// reprojection error of those inliers in pixels.
type Result struct {
	Affine    transform.Affine2DParameters
	Inliers   int
	RMS       float64
	Triangles int // correspondence count considered, for diagnostics
}

/*****************************************************************************************************************/

type correspondence struct {
	refX, refY float64
	newX, newY float64
}

/*****************************************************************************************************************/

// Align matches refStars (the Accumulator's stored reference frame) against
// newStars (the incoming frame) and returns the affine that maps reference pixel
// coordinates onto the new frame, or errs.ErrAlignFailed. rng must be the
// Accumulator's own local PRNG, never a shared/global one, so RANSAC's sampling is
// independent across concurrently running accumulators.
func Align(refStars, newStars []star.Star, cfg config.AlignerConfig, rng *rand.Rand) (*Result, error) {
	ref := topBrightest(refStars, cfg.MaxStars)
	new := topBrightest(newStars, cfg.MaxStars)

	if len(ref) < 3 || len(new) < 3 {
		return nil, errs.New(errs.AlignFailed, "fewer than three stars to form a triangle")
	}

	refTriangles := buildTriangles(ref, cfg.Neighbours)
	newTriangles := buildTriangles(new, cfg.Neighbours)

	correspondences := matchTriangles(refTriangles, ref, newTriangles, new, cfg.RatioTolerance, cfg.MaxCorrespondences)

	if len(correspondences) < 3 {
		return nil, errs.New(errs.AlignFailed, "fewer than three correspondences survived triangle matching")
	}

	result, err := ransac(correspondences, cfg.RansacIterations, cfg.InlierThresholdPx, rng)
	if err != nil {
		return nil, err
	}

	result.Triangles = len(correspondences)

	return result, nil
}

/*****************************************************************************************************************/

// topBrightest returns the n brightest stars by Flux, brightest first.
func topBrightest(stars []star.Star, n int) []star.Star {
	sorted := make([]star.Star, len(stars))
	copy(sorted, stars)

	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Flux > sorted[j].Flux
	})

	if len(sorted) > n {
		sorted = sorted[:n]
	}

	return sorted
}

/*****************************************************************************************************************/

type triangle struct {
	descriptor geometry.TriangleDescriptor
}

/*****************************************************************************************************************/

// buildTriangles forms, for every star i, a triangle with each pair of i's
// neighbours nearest neighbours, per the Frame Aligner's correspondence scheme.
func buildTriangles(stars []star.Star, neighbours int) []triangle {
	triangles := make([]triangle, 0, len(stars)*neighbours*(neighbours-1)/2)

	for i := range stars {
		nn := nearestNeighbours(stars, i, neighbours)

		for a := 0; a < len(nn); a++ {
			for b := a + 1; b < len(nn); b++ {
				ia, ib := nn[a], nn[b]

				d, err := geometry.ComputeTriangleDescriptor(
					i, ia, ib,
					stars[i].X, stars[i].Y,
					stars[ia].X, stars[ia].Y,
					stars[ib].X, stars[ib].Y,
				)
				if err != nil {
					continue
				}

				triangles = append(triangles, triangle{descriptor: d})
			}
		}
	}

	return triangles
}

/*****************************************************************************************************************/

// nearestNeighbours returns the indices of the n stars in stars closest to
// stars[i], excluding i itself.
func nearestNeighbours(stars []star.Star, i, n int) []int {
	type ranked struct {
		index    int
		distance float64
	}

	ranks := make([]ranked, 0, len(stars)-1)

	for j := range stars {
		if j == i {
			continue
		}
		ranks = append(ranks, ranked{index: j, distance: stars[i].EuclidianDistanceTo(stars[j])})
	}

	sort.Slice(ranks, func(a, b int) bool { return ranks[a].distance < ranks[b].distance })

	if len(ranks) > n {
		ranks = ranks[:n]
	}

	indices := make([]int, len(ranks))
	for k, r := range ranks {
		indices[k] = r.index
	}

	return indices
}

/*****************************************************************************************************************/

// matchTriangles pairs every new/ref triangle whose descriptors agree within
// tolerance on both side-length ratios, emitting one pixel-coordinate
// correspondence per canonical vertex (three per matched pair), capped at max.
func matchTriangles(refTriangles []triangle, ref []star.Star, newTriangles []triangle, new []star.Star, tolerance float64, maxCorrespondences int) []correspondence {
	correspondences := make([]correspondence, 0, maxCorrespondences)

	for _, nt := range newTriangles {
		for _, rt := range refTriangles {
			if !ratiosAgree(nt.descriptor, rt.descriptor, tolerance) {
				continue
			}

			for k := 0; k < 3; k++ {
				newIdx := nt.descriptor.Indices[k]
				refIdx := rt.descriptor.Indices[k]

				correspondences = append(correspondences, correspondence{
					refX: ref[refIdx].X, refY: ref[refIdx].Y,
					newX: new[newIdx].X, newY: new[newIdx].Y,
				})

				if len(correspondences) >= maxCorrespondences {
					return correspondences
				}
			}
		}
	}

	return correspondences
}

/*****************************************************************************************************************/

func ratiosAgree(a, b geometry.TriangleDescriptor, tolerance float64) bool {
	return abs(a.RatioS1-b.RatioS1) <= tolerance && abs(a.RatioS2-b.RatioS2) <= tolerance
}

/*****************************************************************************************************************/

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}

/*****************************************************************************************************************/

// ransac samples 3 distinct correspondences at a time, solves the exact 6x6
// linear system for the affine that satisfies them, and keeps the sample whose
// affine has the most inliers (breaking ties by lower RMS) across all
// correspondences, not just the sampled three.
func ransac(correspondences []correspondence, iterations int, inlierThreshold float64, rng *rand.Rand) (*Result, error) {
	var best *Result

	n := len(correspondences)

	for iter := 0; iter < iterations; iter++ {
		i, j, k := sampleThreeDistinct(n, rng)

		affine, ok := solveExactAffine(correspondences[i], correspondences[j], correspondences[k])
		if !ok {
			continue
		}

		inliers, rms := scoreAffine(affine, correspondences, inlierThreshold)

		if inliers == 0 {
			continue
		}

		if best == nil || inliers > best.Inliers || (inliers == best.Inliers && rms < best.RMS) {
			best = &Result{Affine: affine, Inliers: inliers, RMS: rms}
		}
	}

	if best == nil {
		return nil, errs.New(errs.AlignFailed, "no ransac sample produced an inlier")
	}

	return best, nil
}

/*****************************************************************************************************************/

func sampleThreeDistinct(n int, rng *rand.Rand) (int, int, int) {
	i := rng.Intn(n)

	j := rng.Intn(n)
	for j == i {
		j = rng.Intn(n)
	}

	k := rng.Intn(n)
	for k == i || k == j {
		k = rng.Intn(n)
	}

	return i, j, k
}

/*****************************************************************************************************************/

// solveExactAffine solves the 6x6 system for the affine that maps each sample's
// ref point exactly onto its new point: x'=Ax+By+C, y'=Dx+Ey+F. Reports ok=false
// (errs.Singular, handled internally by resampling) if the system is singular.
func solveExactAffine(p1, p2, p3 correspondence) (transform.Affine2DParameters, bool) {
	a := mat.NewDense(6, 6, []float64{
		p1.refX, p1.refY, 1, 0, 0, 0,
		p2.refX, p2.refY, 1, 0, 0, 0,
		p3.refX, p3.refY, 1, 0, 0, 0,
		0, 0, 0, p1.refX, p1.refY, 1,
		0, 0, 0, p2.refX, p2.refY, 1,
		0, 0, 0, p3.refX, p3.refY, 1,
	})

	b := mat.NewVecDense(6, []float64{p1.newX, p2.newX, p3.newX, p1.newY, p2.newY, p3.newY})

	var lu mat.LU
	lu.Factorize(a)

	if lu.Cond() > 1e14 {
		return transform.Affine2DParameters{}, false
	}

	var x mat.VecDense
	if err := lu.SolveVecTo(&x, false, b); err != nil {
		return transform.Affine2DParameters{}, false
	}

	return transform.Affine2DParameters{
		A: x.AtVec(0), B: x.AtVec(1), C: x.AtVec(2),
		D: x.AtVec(3), E: x.AtVec(4), F: x.AtVec(5),
	}, true
}

/*****************************************************************************************************************/

func scoreAffine(affine transform.Affine2DParameters, correspondences []correspondence, threshold float64) (inliers int, rms float64) {
	sumSq := 0.0

	for _, c := range correspondences {
		px, py := affine.Apply(c.refX, c.refY)

		err := geometry.DistanceBetweenTwoCartesianPoints(px, py, c.newX, c.newY)

		if err < threshold {
			inliers++
			sumSq += err * err
		}
	}

	if inliers == 0 {
		return 0, 0
	}

	return inliers, math.Sqrt(sumSq / float64(inliers))
}

/*****************************************************************************************************************/
