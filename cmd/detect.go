/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package main

/*****************************************************************************************************************/

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/arcfield/starcore/internal/config"
	"github.com/arcfield/starcore/internal/logging"
	"github.com/arcfield/starcore/pkg/pipeline"
)

/*****************************************************************************************************************/

func newDetectCommand() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "detect",
		Short: "Detect stars in a frame and print the ordered star list",
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

			logger.Info("detection complete", "stars", len(stars))

			for i, s := range stars {
				fmt.Printf("%4d  x=%9.3f  y=%9.3f  flux=%10.2f\n", i, s.X, s.Y, s.Flux)
			}

			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "path to a PNG frame")
	cmd.MarkFlagRequired("input")

	return cmd
}

/*****************************************************************************************************************/
