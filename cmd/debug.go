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
	"github.com/arcfield/starcore/pkg/pipeline"
	"github.com/arcfield/starcore/pkg/render"
	"github.com/arcfield/starcore/pkg/star"
)

/*****************************************************************************************************************/

// newDebugCommand draws a PNG overlay of every detected star over the working
// grayscale frame, for visually inspecting the Star Detector's output.
func newDebugCommand() *cobra.Command {
	var (
		input  string
		output string
	)

	cmd := &cobra.Command{
		Use:   "debug",
		Short: "Render a detected-star overlay for a frame",
		RunE: func(cmd *cobra.Command, args []string) error {
			buffer, width, height, err := loadGrayscaleFrame(input)
			if err != nil {
				return err
			}

			pixels := make([]float64, len(buffer))
			for i, b := range buffer {
				pixels[i] = float64(b)
			}

			cfg := config.DefaultConfig()

			detected, err := pipeline.DetectStars(buffer, width, height, cfg.Detector, cfg.Orderer)
			if err != nil {
				return err
			}

			stars := make([]star.Star, len(detected))
			for i, s := range detected {
				stars[i] = star.Star{X: s.X, Y: s.Y, Flux: s.Flux}
			}

			f, err := os.Create(output)
			if err != nil {
				return err
			}
			defer f.Close()

			return render.DetectedStars(f, pixels, width, height, stars)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "path to a PNG frame")
	cmd.Flags().StringVarP(&output, "output", "o", "debug.png", "path to write the overlay PNG")

	cmd.MarkFlagRequired("input")

	return cmd
}

/*****************************************************************************************************************/
