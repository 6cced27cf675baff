/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package pipeline exposes the three public entry points over the otherwise
// independent detector/solver/aligner-accumulator subsystems: DetectStars,
// SolveField, and a stacking handle (NewAccumulator/AddFrame/GetStacked/
// FrameCount/Release). It is the only package a host embedding the core needs to
// import.
package pipeline

/*****************************************************************************************************************/

import (
	"context"
	"math"
	"math/rand"
	"time"

	"github.com/oklog/ulid"

	"github.com/arcfield/starcore/internal/config"
	"github.com/arcfield/starcore/pkg/catalog"
	"github.com/arcfield/starcore/pkg/image"
	"github.com/arcfield/starcore/pkg/order"
	"github.com/arcfield/starcore/pkg/solver"
	"github.com/arcfield/starcore/pkg/stack"
	"github.com/arcfield/starcore/pkg/star"
)

/*****************************************************************************************************************/

// newHandleID mints a sortable, collision-resistant identifier for a
// concurrently-created stacking handle, so a host juggling several
// Accumulators at once (possible per the concurrency model) can correlate
// them in logs.
func newHandleID() string {
	t := time.Now()
	entropy := ulid.Monotonic(rand.New(rand.NewSource(t.UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(t), entropy).String()
}

/*****************************************************************************************************************/

// DetectedStar is the flat (x, y, flux) triple the external detect-stars surface
// returns; an empty slice means no peaks were found, which is a normal outcome.
type DetectedStar struct {
	X, Y, Flux float64
}

/*****************************************************************************************************************/

// DetectStars widens a raw 8-bit pixel buffer, runs the Star Detector, and orders
// the result into the canonical Ordered Star List, per external interface (1).
func DetectStars(buffer []byte, width, height int, cfg config.DetectorConfig, orderer config.OrdererConfig) ([]DetectedStar, error) {
	img, err := image.New(buffer, width, height)
	if err != nil {
		return nil, err
	}

	detected, err := star.Detect(img, star.DetectorParams{
		Plim:       cfg.Plim,
		Dpsf:       cfg.Dpsf,
		Dlim:       cfg.Dlim,
		Saddle:     cfg.Saddle,
		Halfbox:    cfg.Halfbox,
		Maxper:     cfg.Maxper,
		Maxnpeaks:  cfg.Maxnpeaks,
		Maxsize:    cfg.Maxsize,
		Downsample: cfg.Downsample,
	})
	if err != nil {
		return nil, err
	}

	ordered := order.Order(detected, orderer.Bins, orderer.MaxStars)

	out := make([]DetectedStar, len(ordered))
	for i, s := range ordered {
		out[i] = DetectedStar{X: s.X, Y: s.Y, Flux: s.Flux}
	}

	return out, nil
}

/*****************************************************************************************************************/

// SolveResult is the external solve-field surface's 12-value result tuple,
// per external interface (2). Solved is false, rather than an error, when no
// depth window and parity combination reached the confidence threshold.
type SolveResult struct {
	Solved      bool
	RA, Dec     float64
	CRPixX      float64
	CRPixY      float64
	CD11, CD12  float64
	CD21, CD22  float64
	PixelScale  float64
	RotationDeg float64
	LogOdds     float64
}

/*****************************************************************************************************************/

// SolveField attempts to blindly plate-solve stars against the union of the
// given sky indexes, within the assumed plate-scale bounds (arcsec/pixel), per
// external interface (2). A failed solve is reported via Solved=false, not an
// error.
func SolveField(ctx context.Context, stars []DetectedStar, width, height int, index *catalog.MultiIndex, scaleLow, scaleHigh float64, cfg config.SolverConfig) (SolveResult, error) {
	starList := make([]star.Star, len(stars))
	for i, s := range stars {
		starList[i] = star.Star{X: s.X, Y: s.Y, Flux: s.Flux}
	}

	ps := solver.NewPlateSolver(cfg)

	solution, err := ps.Solve(ctx, starList, width, height, index, scaleLow, scaleHigh)
	if err != nil {
		return SolveResult{Solved: false}, nil
	}

	pixelScale, rotation := decomposeCD(solution.WCS.CD1_1, solution.WCS.CD1_2, solution.WCS.CD2_1, solution.WCS.CD2_2)

	return SolveResult{
		Solved:      true,
		RA:          solution.WCS.CRVAL1,
		Dec:         solution.WCS.CRVAL2,
		CRPixX:      solution.WCS.CRPIX1,
		CRPixY:      solution.WCS.CRPIX2,
		CD11:        solution.WCS.CD1_1,
		CD12:        solution.WCS.CD1_2,
		CD21:        solution.WCS.CD2_1,
		CD22:        solution.WCS.CD2_2,
		PixelScale:  pixelScale,
		RotationDeg: rotation,
		LogOdds:     solution.LogOdds,
	}, nil
}

/*****************************************************************************************************************/

// decomposeCD recovers an approximate pixel scale (degrees/pixel, averaged over
// both axes) and rotation (degrees) from a CD matrix, for the external result
// tuple's convenience fields; the matrix itself remains the authoritative solution.
func decomposeCD(cd11, cd12, cd21, cd22 float64) (pixelScale, rotationDeg float64) {
	scaleX := math.Hypot(cd11, cd21)
	scaleY := math.Hypot(cd12, cd22)
	pixelScale = (scaleX + scaleY) / 2

	rotationDeg = math.Atan2(cd21, cd11) * 180 / math.Pi

	return pixelScale, rotationDeg
}

/*****************************************************************************************************************/

// StackingHandle is the opaque external stacking handle, wrapping a single-owner
// Accumulator, per external interface (3).
type StackingHandle struct {
	id  string
	acc *stack.Accumulator
}

/*****************************************************************************************************************/

// NewStackingHandle initialises a stacking handle for a fixed (W, H), per
// external interface (3)'s init(W, H, is_color).
func NewStackingHandle(width, height int, isColor bool, cfg config.AlignerConfig, processID int64) (*StackingHandle, error) {
	acc, err := stack.New(width, height, isColor, cfg, processID)
	if err != nil {
		return nil, err
	}

	return &StackingHandle{id: newHandleID(), acc: acc}, nil
}

/*****************************************************************************************************************/

// ID returns the handle's unique identifier, for correlating logs across
// multiple concurrently-live handles.
func (h *StackingHandle) ID() string {
	return h.id
}

/*****************************************************************************************************************/

// AddFrameResult is the external add_frame surface's result tuple.
type AddFrameResult struct {
	OK         bool
	Inliers    int
	RMS        float64
	FrameCount int
}

/*****************************************************************************************************************/

// AddFrame registers a new frame's pixels and detected stars against the handle,
// per external interface (3)'s add_frame.
func (h *StackingHandle) AddFrame(pixels []float64, stars []DetectedStar) (AddFrameResult, error) {
	starList := make([]star.Star, len(stars))
	for i, s := range stars {
		starList[i] = star.Star{X: s.X, Y: s.Y, Flux: s.Flux}
	}

	result, err := h.acc.AddFrame(pixels, starList)
	if err != nil {
		return AddFrameResult{}, err
	}

	return AddFrameResult{OK: result.OK, Inliers: result.Inliers, RMS: result.RMS, FrameCount: result.FrameCount}, nil
}

/*****************************************************************************************************************/

// GetStacked returns the reduced byte image, per external interface (3)'s
// get_stacked.
func (h *StackingHandle) GetStacked() []byte {
	return h.acc.Finish()
}

/*****************************************************************************************************************/

// FrameCount returns the number of frames successfully incorporated so far, per
// external interface (3)'s frame_count.
func (h *StackingHandle) FrameCount() int {
	return h.acc.FrameCount()
}

/*****************************************************************************************************************/

// Release drops the handle's working buffers, per external interface (3)'s
// release. The handle must not be used afterwards.
func (h *StackingHandle) Release() {
	h.acc.Release()
}

/*****************************************************************************************************************/
