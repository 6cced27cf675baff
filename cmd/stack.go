/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package main

/*****************************************************************************************************************/

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/arcfield/starcore/internal/config"
	"github.com/arcfield/starcore/internal/logging"
	"github.com/arcfield/starcore/pkg/pipeline"
)

/*****************************************************************************************************************/

func newStackCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "stack [frames...]",
		Short: "Align and stack a sequence of PNG frames",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(logLevel, logFormat)

			cfg := config.DefaultConfig()

			_, width, height, err := loadGrayscaleFrame(args[0])
			if err != nil {
				return err
			}

			handle, err := pipeline.NewStackingHandle(width, height, false, cfg.Aligner, int64(os.Getpid()))
			if err != nil {
				return err
			}
			defer handle.Release()

			logger.Info("stacking handle opened", "handle", handle.ID(), "width", width, "height", height)

			for _, path := range args {
				buffer, w, h, err := loadGrayscaleFrame(path)
				if err != nil {
					return err
				}

				if w != width || h != height {
					logger.Warn("skipping frame with mismatched dimensions", "frame", path)
					continue
				}

				detected, err := pipeline.DetectStars(buffer, w, h, cfg.Detector, cfg.Orderer)
				if err != nil {
					return err
				}

				pixels := make([]float64, len(buffer))
				for i, b := range buffer {
					pixels[i] = float64(b)
				}

				result, err := handle.AddFrame(pixels, detected)
				if err != nil {
					return err
				}

				if !result.OK {
					logger.Warn("frame rejected: could not align to reference", "frame", path)
					continue
				}

				logger.Info("frame stacked", "frame", path, "inliers", result.Inliers, "rms", result.RMS, "total", result.FrameCount)
			}

			if handle.FrameCount() == 0 {
				logger.Error("no frames were successfully stacked")
				return nil
			}

			return writeGrayscalePNG(output, handle.GetStacked(), width, height)
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "stacked.png", "path to write the stacked frame")

	return cmd
}

/*****************************************************************************************************************/
