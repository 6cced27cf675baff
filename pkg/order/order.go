/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package order implements C3 Star Orderer: producing a flux-interleaved, spatially
// uniform canonical ordering of a raw detected star list, following the teacher's
// practice of ordering candidates by brightness ahead of quad formation and
// generalising it with the spatial-uniformisation pass the design requires.
package order

/*****************************************************************************************************************/

import (
	"math"
	"sort"

	"github.com/arcfield/starcore/pkg/star"
)

/*****************************************************************************************************************/

// Order produces the canonical Ordered Star List for a raw detected list: brightness
// interleaving (step A) followed by spatial uniformisation over a bins x bins grid
// (step B), capped at maxStars entries.
func Order(stars []star.Star, bins, maxStars int) []star.Star {
	interleaved := interleaveByBrightness(stars)

	if bins < 1 {
		bins = 1
	}

	uniform := uniformise(interleaved, bins)

	if maxStars > 0 && len(uniform) > maxStars {
		uniform = uniform[:maxStars]
	}

	return uniform
}

/*****************************************************************************************************************/

// interleaveByBrightness emits, for i = 0, 1, 2, ..., first the i-th star by
// descending flux (if not yet emitted) then the i-th star by descending raw signal
// (flux+background) (if not yet emitted). Every star appears exactly once.
func interleaveByBrightness(stars []star.Star) []star.Star {
	n := len(stars)

	byFlux := make([]int, n)
	bySignal := make([]int, n)
	for i := range stars {
		byFlux[i] = i
		bySignal[i] = i
	}

	sort.SliceStable(byFlux, func(i, j int) bool {
		return stars[byFlux[i]].Flux > stars[byFlux[j]].Flux
	})

	sort.SliceStable(bySignal, func(i, j int) bool {
		return stars[bySignal[i]].Signal() > stars[bySignal[j]].Signal()
	})

	emitted := make([]bool, n)
	out := make([]star.Star, 0, n)

	for i := 0; i < n; i++ {
		a := byFlux[i]
		if !emitted[a] {
			emitted[a] = true
			out = append(out, stars[a])
		}

		b := bySignal[i]
		if !emitted[b] {
			emitted[b] = true
			out = append(out, stars[b])
		}
	}

	return out
}

/*****************************************************************************************************************/

// uniformise reorders an already brightness-interleaved list so that any prefix of
// length k >= bins is spatially well distributed: it computes the bounding box,
// chooses Nx x Ny bins targeting `bins` total cells, assigns each star to a bin, and
// round-robins through bins in row-major order, emitting each bin's next
// (brightness-order) star per round.
func uniformise(stars []star.Star, targetBins int) []star.Star {
	n := len(stars)
	if n == 0 {
		return stars
	}

	minX, maxX := stars[0].X, stars[0].X
	minY, maxY := stars[0].Y, stars[0].Y

	for _, s := range stars[1:] {
		minX = math.Min(minX, s.X)
		maxX = math.Max(maxX, s.X)
		minY = math.Min(minY, s.Y)
		maxY = math.Max(maxY, s.Y)
	}

	boxW := maxX - minX
	boxH := maxY - minY

	if boxW <= 0 {
		boxW = 1
	}
	if boxH <= 0 {
		boxH = 1
	}

	nx := int(math.Round(boxW * math.Sqrt(float64(targetBins)/(boxW*boxH))))
	if nx < 1 {
		nx = 1
	}

	ny := int(math.Round(float64(targetBins) / float64(nx)))
	if ny < 1 {
		ny = 1
	}

	bins := make([][]int, nx*ny)

	for i, s := range stars {
		bx := clamp(int((s.X-minX)/boxW*float64(nx)), 0, nx-1)
		by := clamp(int((s.Y-minY)/boxH*float64(ny)), 0, ny-1)
		bin := by*nx + bx
		bins[bin] = append(bins[bin], i)
	}

	out := make([]star.Star, 0, n)

	for round := 0; ; round++ {
		emittedThisRound := false

		for _, bin := range bins {
			if round < len(bin) {
				out = append(out, stars[bin[round]])
				emittedThisRound = true
			}
		}

		if !emittedThisRound {
			break
		}
	}

	return out
}

/*****************************************************************************************************************/

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

/*****************************************************************************************************************/
