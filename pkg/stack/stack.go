/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package stack implements C7 the Accumulator: a stateful, single-owner handle
// that registers successive frames of the same field against a reference frame via
// the Frame Aligner and reduces them to a running per-pixel mean.
package stack

/*****************************************************************************************************************/

import (
	"math"
	"math/rand"
	"time"

	"github.com/arcfield/starcore/internal/config"
	"github.com/arcfield/starcore/internal/errs"
	"github.com/arcfield/starcore/pkg/align"
	"github.com/arcfield/starcore/pkg/star"
	"github.com/arcfield/starcore/pkg/transform"
)

/*****************************************************************************************************************/

// AddResult reports the outcome of a single add_frame call: whether alignment
// succeeded, the inlier count and RMS of the fit (zero when it failed), and the
// accumulator's frame count after the call.
type AddResult struct {
	OK         bool
	Inliers    int
	RMS        float64
	FrameCount int
}

/*****************************************************************************************************************/

// Accumulator holds a fixed-size running sum and contributor count, the stored
// reference frame's star list, and a PRNG local to this handle - never a shared or
// global one - so RANSAC draws are independent of any other concurrently running
// Accumulator. A handle is exclusively owned by one caller at a time.
type Accumulator struct {
	Width, Height int
	IsColor       bool

	sum   []float64
	count []int

	referenceStars []star.Star
	frameCount     int

	cfg config.AlignerConfig
	rng *rand.Rand
}

/*****************************************************************************************************************/

// New creates an Accumulator for a fixed (W, H). The PRNG is seeded by mixing
// wall-clock time with the caller-supplied processID, so each handle draws its
// RANSAC samples from its own stream rather than a globally shared one; the draws
// are not reproducible from one run to the next.
func New(width, height int, isColor bool, cfg config.AlignerConfig, processID int64) (*Accumulator, error) {
	if width <= 0 || height <= 0 {
		return nil, errs.New(errs.InvalidInput, "accumulator dimensions must be positive")
	}

	seed := time.Now().UnixNano() ^ (processID * 0x9E3779B97F4A7C15)

	return &Accumulator{
		Width:   width,
		Height:  height,
		IsColor: isColor,
		sum:     make([]float64, width*height),
		count:   make([]int, width*height),
		cfg:     cfg,
		rng:     rand.New(rand.NewSource(seed)),
	}, nil
}

/*****************************************************************************************************************/

// AddFrame registers a new frame's pixels (row-major, length Width*Height) and its
// detected stars against the accumulator. The first call stores the frame as the
// reference under the identity transform; every subsequent call aligns against
// that reference via the Frame Aligner. A failed alignment leaves sum, count, and
// frame_count untouched.
func (a *Accumulator) AddFrame(pixels []float64, stars []star.Star) (AddResult, error) {
	if len(pixels) != a.Width*a.Height {
		return AddResult{}, errs.New(errs.InvalidInput, "frame buffer does not match accumulator dimensions")
	}

	if a.frameCount == 0 {
		a.referenceStars = topBrightest(stars, a.cfg.MaxStars)
		a.addIdentity(pixels)
		a.frameCount++
		return AddResult{OK: true, FrameCount: a.frameCount}, nil
	}

	result, err := align.Align(a.referenceStars, stars, a.cfg, a.rng)
	if err != nil {
		return AddResult{OK: false, FrameCount: a.frameCount}, nil
	}

	inverse, err := result.Affine.Invert()
	if err != nil {
		return AddResult{OK: false, FrameCount: a.frameCount}, nil
	}

	a.warpAndAccumulate(pixels, inverse)
	a.frameCount++

	return AddResult{OK: true, Inliers: result.Inliers, RMS: result.RMS, FrameCount: a.frameCount}, nil
}

/*****************************************************************************************************************/

// addIdentity adds the reference frame to the accumulator with the identity
// transform, i.e. every pixel maps to itself.
func (a *Accumulator) addIdentity(pixels []float64) {
	for i, v := range pixels {
		a.sum[i] += v
		a.count[i]++
	}
}

/*****************************************************************************************************************/

// warpAndAccumulate maps every integer reference-frame pixel (x, y) through
// inverse to locate the corresponding position in the new frame, bilinearly
// samples it if in-bounds, and adds the result to sum/count. Pixels whose mapped
// position falls outside the new frame contribute nothing.
func (a *Accumulator) warpAndAccumulate(pixels []float64, inverse transform.Affine2DParameters) {
	for y := 0; y < a.Height; y++ {
		for x := 0; x < a.Width; x++ {
			srcX, srcY := inverse.Apply(float64(x), float64(y))

			if srcX < 0 || srcX >= float64(a.Width-1) || srcY < 0 || srcY >= float64(a.Height-1) {
				continue
			}

			v := bilinearSample(pixels, a.Width, srcX, srcY)

			i := y*a.Width + x
			a.sum[i] += v
			a.count[i]++
		}
	}
}

/*****************************************************************************************************************/

// bilinearSample samples a row-major image of the given width at a fractional
// (x, y) already known to lie within (0, width-1) x (0, height-1).
func bilinearSample(pixels []float64, width int, x, y float64) float64 {
	x0 := int(math.Floor(x))
	y0 := int(math.Floor(y))
	x1 := x0 + 1
	y1 := y0 + 1

	fx := x - float64(x0)
	fy := y - float64(y0)

	p00 := pixels[y0*width+x0]
	p10 := pixels[y0*width+x1]
	p01 := pixels[y1*width+x0]
	p11 := pixels[y1*width+x1]

	top := p00*(1-fx) + p10*fx
	bottom := p01*(1-fx) + p11*fx

	return top*(1-fy) + bottom*fy
}

/*****************************************************************************************************************/

// Finish reduces the running sum/count to a byte image: each pixel is
// round(sum/count) clamped to [0,255], or 0 where no frame ever contributed.
func (a *Accumulator) Finish() []byte {
	out := make([]byte, len(a.sum))

	for i := range out {
		if a.count[i] == 0 {
			continue
		}

		mean := a.sum[i] / float64(a.count[i])
		rounded := math.Round(mean)

		switch {
		case rounded < 0:
			out[i] = 0
		case rounded > 255:
			out[i] = 255
		default:
			out[i] = byte(rounded)
		}
	}

	return out
}

/*****************************************************************************************************************/

// FrameCount returns the number of frames successfully incorporated so far.
func (a *Accumulator) FrameCount() int {
	return a.frameCount
}

/*****************************************************************************************************************/

// Release drops the accumulator's working buffers. The handle must not be used
// afterwards.
func (a *Accumulator) Release() {
	a.sum = nil
	a.count = nil
	a.referenceStars = nil
}

/*****************************************************************************************************************/

func topBrightest(stars []star.Star, n int) []star.Star {
	sorted := make([]star.Star, len(stars))
	copy(sorted, stars)

	for i := 1; i < len(sorted); i++ {
		for j := i; j > 0 && sorted[j-1].Flux < sorted[j].Flux; j-- {
			sorted[j-1], sorted[j] = sorted[j], sorted[j-1]
		}
	}

	if len(sorted) > n {
		sorted = sorted[:n]
	}

	return sorted
}

/*****************************************************************************************************************/
