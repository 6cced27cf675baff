/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package main

/*****************************************************************************************************************/

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcfield/starcore/internal/config"
	"github.com/arcfield/starcore/internal/logging"
	"github.com/arcfield/starcore/pkg/catalog"
	"github.com/arcfield/starcore/pkg/fov"
	"github.com/arcfield/starcore/pkg/pipeline"
)

/*****************************************************************************************************************/

func newSolveCommand() *cobra.Command {
	var (
		input               string
		indexPaths          []string
		scaleLow, scaleHigh float64
	)

	cmd := &cobra.Command{
		Use:   "solve",
		Short: "Blindly plate-solve a frame against an offline sky index",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(logLevel, logFormat)

			buffer, width, height, err := loadGrayscaleFrame(input)
			if err != nil {
				return err
			}

			cfg := config.DefaultConfig()

			stars, err := pipeline.DetectStars(buffer, width, height, cfg.Detector, cfg.Orderer)
			if err != nil {
				return err
			}

			logger.Info("stars detected", "count", len(stars))

			// Purely informational: lets an operator sanity-check their
			// --scale-low/--scale-high choice against the frame's dimensions
			// before a solve is attempted.
			extent := fov.GetRadialExtent(float64(width), float64(height), fov.PixelScale{
				X: scaleHigh / 3600.0,
				Y: scaleHigh / 3600.0,
			})
			logger.Info("worst-case field of view at the upper scale bound", "radius_deg", extent)

			index, err := catalog.OpenSkyIndices(indexPaths)
			if err != nil {
				return err
			}
			defer index.Close()

			logger.Info("sky index opened", "paths", index.Paths())

			result, err := pipeline.SolveField(context.Background(), stars, width, height, index, scaleLow, scaleHigh, cfg.Solver)
			if err != nil {
				return err
			}

			if !result.Solved {
				logger.Warn("solve failed")
				fmt.Println("solved: false")
				return nil
			}

			fmt.Printf("solved:      true\n")
			fmt.Printf("ra:          %.6f\n", result.RA)
			fmt.Printf("dec:         %.6f\n", result.Dec)
			fmt.Printf("crpix:       (%.3f, %.3f)\n", result.CRPixX, result.CRPixY)
			fmt.Printf("cd:          [%.8f %.8f; %.8f %.8f]\n", result.CD11, result.CD12, result.CD21, result.CD22)
			fmt.Printf("pixel scale: %.6f deg/px\n", result.PixelScale)
			fmt.Printf("rotation:    %.3f deg\n", result.RotationDeg)
			fmt.Printf("log-odds:    %.3f\n", result.LogOdds)

			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "path to a PNG frame")
	cmd.Flags().StringSliceVar(&indexPaths, "index", nil, "ordered list of sqlite sky index paths built by genindex, queried as their union")
	cmd.Flags().Float64Var(&scaleLow, "scale-low", 0, "lower bound of the assumed plate scale, arcsec/pixel")
	cmd.Flags().Float64Var(&scaleHigh, "scale-high", 0, "upper bound of the assumed plate scale, arcsec/pixel")

	cmd.MarkFlagRequired("input")
	cmd.MarkFlagRequired("index")
	cmd.MarkFlagRequired("scale-low")
	cmd.MarkFlagRequired("scale-high")

	return cmd
}

/*****************************************************************************************************************/
