/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package star

/*****************************************************************************************************************/

import (
	"math"
	"sort"

	stats "github.com/observerly/iris/pkg/statistics"

	"github.com/arcfield/starcore/pkg/image"
)

/*****************************************************************************************************************/

// estimateBackground produces a slowly-varying background map by taking the median
// of non-overlapping halfbox x halfbox tiles and bilinearly interpolating between
// tile centres, following the grid-binned, block-median idiom used to estimate
// large-scale sky gradients ahead of per-pixel subtraction.
func estimateBackground(img *image.Image, halfbox int) []float64 {
	tile := halfbox
	if tile < 1 {
		tile = 1
	}

	tilesX := (img.Width + tile - 1) / tile
	tilesY := (img.Height + tile - 1) / tile

	if tilesX < 1 {
		tilesX = 1
	}
	if tilesY < 1 {
		tilesY = 1
	}

	medians := make([]float64, tilesX*tilesY)

	buf := make([]uint32, 0, tile*tile)

	for ty := 0; ty < tilesY; ty++ {
		for tx := 0; tx < tilesX; tx++ {
			buf = buf[:0]

			x0 := tx * tile
			y0 := ty * tile
			x1 := min(x0+tile, img.Width)
			y1 := min(y0+tile, img.Height)

			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					v := img.At(x, y)
					if v < 0 {
						v = 0
					}
					buf = append(buf, uint32(math.Round(v)))
				}
			}

			if len(buf) == 0 {
				medians[ty*tilesX+tx] = 0
				continue
			}

			s := stats.NewStats(buf, math.MaxInt32, x1-x0)
			medians[ty*tilesX+tx] = float64(s.FastMedian())
		}
	}

	// Bilinearly interpolate the tile medians back to full resolution, using tile
	// centres as sample points:
	background := make([]float64, img.Width*img.Height)

	for y := 0; y < img.Height; y++ {
		fy := (float64(y)/float64(tile) - 0.5)
		ty0 := int(math.Floor(fy))
		wy := fy - float64(ty0)

		ty0 = clampInt(ty0, 0, tilesY-1)
		ty1 := clampInt(ty0+1, 0, tilesY-1)

		for x := 0; x < img.Width; x++ {
			fx := (float64(x)/float64(tile) - 0.5)
			tx0 := int(math.Floor(fx))
			wx := fx - float64(tx0)

			tx0 = clampInt(tx0, 0, tilesX-1)
			tx1 := clampInt(tx0+1, 0, tilesX-1)

			v00 := medians[ty0*tilesX+tx0]
			v01 := medians[ty0*tilesX+tx1]
			v10 := medians[ty1*tilesX+tx0]
			v11 := medians[ty1*tilesX+tx1]

			top := v00*(1-wx) + v01*wx
			bot := v10*(1-wx) + v11*wx

			background[y*img.Width+x] = top*(1-wy) + bot*wy
		}
	}

	return background
}

/*****************************************************************************************************************/

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

/*****************************************************************************************************************/

// estimateNoiseSigma estimates the per-pixel noise sigma of the background-subtracted
// image using the median-absolute-deviation estimator (scaled by the standard 1.4826
// factor to be consistent with a Gaussian sigma). Unlike estimateBackground's tile
// medians, iris/pkg/statistics's Stats type is not reached for here: it operates on a
// fixed-width uint32 tile buffer (see the NewStats call above), and has no equivalent
// over an arbitrary flat float64 slice, which is what a MAD pass over background-
// subtracted residuals needs - so this is a stdlib sort.Float64s pass instead.
func estimateNoiseSigma(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	sample := values

	// For large images, sampling keeps this estimator fast without materially
	// changing the result:
	const maxSample = 200000

	if len(values) > maxSample {
		step := len(values) / maxSample
		sample = make([]float64, 0, maxSample+1)
		for i := 0; i < len(values); i += step {
			sample = append(sample, values[i])
		}
	}

	sorted := append([]float64(nil), sample...)
	sort.Float64s(sorted)

	median := percentile(sorted, 0.5)

	deviations := make([]float64, len(sorted))
	for i, v := range sorted {
		deviations[i] = math.Abs(v - median)
	}
	sort.Float64s(deviations)

	mad := percentile(deviations, 0.5)

	return mad * 1.4826
}

/*****************************************************************************************************************/

func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}

	idx := p * float64(len(sorted)-1)
	lo := int(math.Floor(idx))
	hi := int(math.Ceil(idx))

	if lo == hi {
		return sorted[lo]
	}

	w := idx - float64(lo)

	return sorted[lo]*(1-w) + sorted[hi]*w
}

/*****************************************************************************************************************/
