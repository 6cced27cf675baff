/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package config holds the tunable parameters of the detector, solver, aligner and
// accumulator, mirroring the defaults table of the external interface contract. A
// Config is a plain JSON-marshallable struct; DefaultConfig returns the documented
// defaults, and every public entry point falls back to it when none is supplied.
package config

/*****************************************************************************************************************/

import "math"

/*****************************************************************************************************************/

type DetectorConfig struct {
	Plim       float64 `json:"plim"`       // peak significance in sigma
	Dpsf       float64 `json:"dpsf"`       // assumed PSF sigma in pixels
	Dlim       float64 `json:"dlim"`       // minimum separation between peaks
	Saddle     float64 `json:"saddle"`     // saddle-point rejection threshold in sigma
	Halfbox    int     `json:"halfbox"`    // half-size of the local-background median window
	Maxper     int     `json:"maxper"`     // max peaks per image region
	Maxnpeaks  int     `json:"maxnpeaks"`  // max peaks before DetectionOverflow
	Maxsize    int     `json:"maxsize"`    // max connected-region size considered
	Downsample int     `json:"downsample"` // block-average factor D in {1,2,3,4}
}

/*****************************************************************************************************************/

type OrdererConfig struct {
	MaxStars int `json:"maxStars"` // cap on the Ordered Star List length
	Bins     int `json:"bins"`     // target bin count U for uniformisation
}

/*****************************************************************************************************************/

type SolverConfig struct {
	QuadSizeFractionLow  float64 `json:"quadSizeFractionLow"`  // of field diagonal
	QuadSizeFractionHigh float64 `json:"quadSizeFractionHigh"` // of field diagonal
	CodeTolerance        float64 `json:"codeTolerance"`
	VerifyPix            float64 `json:"verifyPix"`
	DistractorRatio      float64 `json:"distractorRatio"`
	DistanceFromQuadBonus bool   `json:"distanceFromQuadBonus"`
	LogOddsKeep          float64 `json:"logOddsKeep"`
	LogOddsTune          float64 `json:"logOddsTune"`
	TweakOrder           int     `json:"tweakOrder"`
	Parity               string  `json:"parity"` // "positive", "negative", "both"
	DepthStep            int     `json:"depthStep"`
	DepthMax             int     `json:"depthMax"`
}

/*****************************************************************************************************************/

type AlignerConfig struct {
	MaxStars          int     `json:"maxStars"`          // top-N brightest stars considered
	Neighbours        int     `json:"neighbours"`        // nearest neighbours per star for triangle formation
	RatioTolerance    float64 `json:"ratioTolerance"`    // triangle side-ratio match tolerance
	MaxCorrespondences int    `json:"maxCorrespondences"`
	RansacIterations  int     `json:"ransacIterations"`
	InlierThresholdPx float64 `json:"inlierThresholdPx"`
}

/*****************************************************************************************************************/

type Config struct {
	Detector DetectorConfig `json:"detector"`
	Orderer  OrdererConfig  `json:"orderer"`
	Solver   SolverConfig   `json:"solver"`
	Aligner  AlignerConfig  `json:"aligner"`
}

/*****************************************************************************************************************/

// DefaultConfig returns the documented defaults of the external interface contract.
func DefaultConfig() Config {
	return Config{
		Detector: DetectorConfig{
			Plim:       8.0,
			Dpsf:       1.0,
			Dlim:       1.0,
			Saddle:     5.0,
			Halfbox:    100,
			Maxper:     256,
			Maxnpeaks:  100000,
			Maxsize:    4096,
			Downsample: 1,
		},
		Orderer: OrdererConfig{
			MaxStars: 100000,
			Bins:     10,
		},
		Solver: SolverConfig{
			QuadSizeFractionLow:   0.1,
			QuadSizeFractionHigh:  1.0,
			CodeTolerance:         0.01,
			VerifyPix:             1.0,
			DistractorRatio:       0.25,
			DistanceFromQuadBonus: true,
			LogOddsKeep:           math.Log(1e6),
			LogOddsTune:           math.Log(1e6),
			TweakOrder:            2,
			Parity:                "both",
			DepthStep:             10,
			DepthMax:              200,
		},
		Aligner: AlignerConfig{
			MaxStars:           50,
			Neighbours:         5,
			RatioTolerance:     0.01,
			MaxCorrespondences: 10000,
			RansacIterations:   500,
			InlierThresholdPx:  3.0,
		},
	}
}

/*****************************************************************************************************************/
