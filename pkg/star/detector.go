/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package star additionally implements C2 Star Detector: a PSF-based peak detector
// with adaptive background subtraction, following a background-subtract /
// convolve-and-threshold / connected-label / centroid-refine pipeline.
package star

/*****************************************************************************************************************/

import (
	"math"

	"github.com/arcfield/starcore/internal/errs"
	"github.com/arcfield/starcore/pkg/image"
)

/*****************************************************************************************************************/

// DetectorParams mirrors the detect() operation's tunables (§4.2 of the design).
type DetectorParams struct {
	Plim       float64 // peak significance, in sigma
	Dpsf       float64 // assumed PSF sigma, in pixels
	Dlim       float64 // minimum separation between peaks, in pixels
	Saddle     float64 // saddle-point rejection threshold, in sigma
	Halfbox    int     // half-size of the local-background median window
	Maxper     int     // max peaks per connected region
	Maxnpeaks  int     // max peaks before DetectionOverflow
	Maxsize    int     // max connected-region size considered
	Downsample int     // block-average factor D in {1,2,3,4}
}

/*****************************************************************************************************************/

// Detect locates stars in img and returns them in raw detection order (unordered;
// see package order for the canonical Ordered Star List). Zero peaks found is a
// normal outcome and is reported as an empty, non-error slice; exceeding Maxnpeaks
// is reported as an error.
func Detect(img *image.Image, params DetectorParams) ([]Star, error) {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return nil, errs.New(errs.InvalidInput, "image must have positive dimensions")
	}

	d := params.Downsample
	if d < 1 {
		d = 1
	}

	working := img
	if d > 1 {
		ds, err := img.Downsample(d)
		if err != nil {
			return nil, err
		}
		working = ds
	}

	halfbox := params.Halfbox
	if halfbox < 1 {
		halfbox = 1
	}

	background := estimateBackground(working, halfbox)

	subtracted := make([]float64, len(working.Pixels))
	for i, v := range working.Pixels {
		subtracted[i] = v - background[i]
	}

	sigma := estimateNoiseSigma(subtracted)
	if sigma <= 0 {
		sigma = 1
	}

	dpsf := params.Dpsf
	if dpsf <= 0 {
		dpsf = 1.0
	}

	convolved := gaussianConvolve(subtracted, working.Width, working.Height, dpsf)

	threshold := params.Plim * sigma

	mask := make([]bool, len(convolved))
	for i, v := range convolved {
		mask[i] = v >= threshold
	}

	regions := labelConnectedRegions(mask, working.Width, working.Height, params.Maxsize)

	dlim := params.Dlim
	if dlim <= 0 {
		dlim = 1.0
	}

	maxper := params.Maxper
	if maxper <= 0 {
		maxper = len(regions) + 1
	}

	var stars []Star

	for _, region := range regions {
		peaks := findLocalMaxima(convolved, working.Width, region, dlim, params.Saddle*sigma, maxper)

		for _, p := range peaks {
			x, y, ok := refineCentroid(subtracted, working.Width, working.Height, p.x, p.y, dpsf)
			if !ok {
				continue
			}

			flux, bg := measureFlux(subtracted, background, working.Width, working.Height, x, y, dpsf)

			stars = append(stars, Star{
				X:          x * float64(d),
				Y:          y * float64(d),
				Flux:       flux,
				Background: bg,
			})

			if params.Maxnpeaks > 0 && len(stars) > params.Maxnpeaks {
				return nil, errs.Newf(errs.InvalidInput, "detection overflow: more than %d peaks found", params.Maxnpeaks)
			}
		}
	}

	if len(stars) == 0 {
		return []Star{}, nil
	}

	return stars, nil
}

/*****************************************************************************************************************/

// gaussianConvolve applies a separable 2-D Gaussian of standard deviation sigma to
// a row-major W x H buffer.
func gaussianConvolve(values []float64, width, height int, sigma float64) []float64 {
	radius := int(math.Ceil(sigma * 3))
	if radius < 1 {
		radius = 1
	}

	kernel := make([]float64, 2*radius+1)
	sum := 0.0
	for i := -radius; i <= radius; i++ {
		v := math.Exp(-float64(i*i) / (2 * sigma * sigma))
		kernel[i+radius] = v
		sum += v
	}
	for i := range kernel {
		kernel[i] /= sum
	}

	// Horizontal pass:
	tmp := make([]float64, width*height)
	for y := 0; y < height; y++ {
		row := y * width
		for x := 0; x < width; x++ {
			acc := 0.0
			for k := -radius; k <= radius; k++ {
				xx := clampInt(x+k, 0, width-1)
				acc += values[row+xx] * kernel[k+radius]
			}
			tmp[row+x] = acc
		}
	}

	// Vertical pass:
	out := make([]float64, width*height)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			acc := 0.0
			for k := -radius; k <= radius; k++ {
				yy := clampInt(y+k, 0, height-1)
				acc += tmp[yy*width+x] * kernel[k+radius]
			}
			out[y*width+x] = acc
		}
	}

	return out
}

/*****************************************************************************************************************/

type region struct {
	pixels []int // flat indices into the W*H buffer
}

/*****************************************************************************************************************/

// labelConnectedRegions performs a 4-connected flood fill over the mask, discarding
// any region larger than maxsize (when maxsize > 0).
func labelConnectedRegions(mask []bool, width, height, maxsize int) []region {
	visited := make([]bool, len(mask))

	var regions []region

	stack := make([]int, 0, 64)

	for start := 0; start < len(mask); start++ {
		if !mask[start] || visited[start] {
			continue
		}

		stack = stack[:0]
		stack = append(stack, start)
		visited[start] = true

		var pixels []int

		for len(stack) > 0 {
			idx := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			pixels = append(pixels, idx)

			x := idx % width
			y := idx / width

			neighbours := [4]int{idx - 1, idx + 1, idx - width, idx + width}

			for n, ni := range neighbours {
				if ni < 0 || ni >= len(mask) {
					continue
				}
				// Guard against wraparound on the x-1/x+1 neighbours:
				if n == 0 && x == 0 {
					continue
				}
				if n == 1 && x == width-1 {
					continue
				}
				if n == 2 && y == 0 {
					continue
				}
				if n == 3 && y == height-1 {
					continue
				}

				if mask[ni] && !visited[ni] {
					visited[ni] = true
					stack = append(stack, ni)
				}
			}
		}

		if maxsize > 0 && len(pixels) > maxsize {
			continue
		}

		regions = append(regions, region{pixels: pixels})
	}

	return regions
}

/*****************************************************************************************************************/

type peak struct {
	x, y  int
	value float64
}

/*****************************************************************************************************************/

// findLocalMaxima locates local maxima within a region that are separated by at
// least dlim pixels and whose saddle to any brighter neighbour in the region is
// at least saddleThreshold above their own value, capped at maxper peaks.
func findLocalMaxima(values []float64, width int, r region, dlim, saddleThreshold float64, maxper int) []peak {
	candidates := make([]peak, 0, len(r.pixels))

	for _, idx := range r.pixels {
		x := idx % width
		y := idx / width
		candidates = append(candidates, peak{x: x, y: y, value: values[idx]})
	}

	// Sort candidates by descending value so brighter peaks claim their
	// exclusion radius first:
	for i := 1; i < len(candidates); i++ {
		for j := i; j > 0 && candidates[j].value > candidates[j-1].value; j-- {
			candidates[j], candidates[j-1] = candidates[j-1], candidates[j]
		}
	}

	var accepted []peak

	for _, c := range candidates {
		tooClose := false

		for _, a := range accepted {
			dx := float64(c.x - a.x)
			dy := float64(c.y - a.y)
			if math.Hypot(dx, dy) < dlim && a.value-c.value < saddleThreshold {
				// Within the exclusion radius and not enough of a dip back down
				// to the accepted (brighter) peak to count as an independently
				// resolved source: drop it rather than merge.
				tooClose = true
				break
			}
		}

		if tooClose {
			continue
		}

		accepted = append(accepted, c)

		if maxper > 0 && len(accepted) >= maxper {
			break
		}
	}

	return accepted
}

/*****************************************************************************************************************/

// refineCentroid refines an integer-pixel peak to subpixel precision via an
// intensity-weighted centre-of-mass computed over a small window and iterated to
// convergence, following the standard iterative moment-centroid approach.
func refineCentroid(values []float64, width, height, px, py int, dpsf float64) (float64, float64, bool) {
	radius := int(math.Ceil(dpsf * 2))
	if radius < 2 {
		radius = 2
	}

	cx := float64(px)
	cy := float64(py)

	for iter := 0; iter < 5; iter++ {
		sum := 0.0
		sumX := 0.0
		sumY := 0.0

		x0 := clampInt(int(math.Round(cx))-radius, 0, width-1)
		x1 := clampInt(int(math.Round(cx))+radius, 0, width-1)
		y0 := clampInt(int(math.Round(cy))-radius, 0, height-1)
		y1 := clampInt(int(math.Round(cy))+radius, 0, height-1)

		for y := y0; y <= y1; y++ {
			for x := x0; x <= x1; x++ {
				v := values[y*width+x]
				if v <= 0 {
					continue
				}
				sum += v
				sumX += v * float64(x)
				sumY += v * float64(y)
			}
		}

		if sum <= 0 {
			return 0, 0, false
		}

		nx := sumX / sum
		ny := sumY / sum

		converged := math.Abs(nx-cx) < 1e-4 && math.Abs(ny-cy) < 1e-4

		cx, cy = nx, ny

		if converged {
			break
		}
	}

	if cx < 0 || cx >= float64(width) || cy < 0 || cy >= float64(height) {
		return 0, 0, false
	}

	return cx, cy, true
}

/*****************************************************************************************************************/

// measureFlux integrates background-subtracted brightness in an aperture
// proportional to dpsf, and returns the local background level at (cx, cy).
func measureFlux(subtracted, background []float64, width, height int, cx, cy float64, dpsf float64) (flux, bg float64) {
	radius := dpsf * 3

	x0 := clampInt(int(math.Floor(cx-radius)), 0, width-1)
	x1 := clampInt(int(math.Ceil(cx+radius)), 0, width-1)
	y0 := clampInt(int(math.Floor(cy-radius)), 0, height-1)
	y1 := clampInt(int(math.Ceil(cy+radius)), 0, height-1)

	sum := 0.0

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			if dx*dx+dy*dy <= radius*radius {
				sum += subtracted[y*width+x]
			}
		}
	}

	xi := clampInt(int(math.Round(cx)), 0, width-1)
	yi := clampInt(int(math.Round(cy)), 0, height-1)

	return sum, background[yi*width+xi]
}

/*****************************************************************************************************************/
