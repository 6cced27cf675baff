/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package main

/*****************************************************************************************************************/

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/arcfield/starcore/internal/logging"
	"github.com/arcfield/starcore/pkg/catalog"
	"github.com/arcfield/starcore/pkg/healpix"
)

/*****************************************************************************************************************/

// newGenIndexCommand builds the sqlite-backed offline sky index the Plate
// Solver queries through its Index Provider contract: it walks a HEALPix grid
// at the requested resolution and, for every pixel, pulls the sources within
// that pixel's radial extent from a catalog service (live GAIA/SIMBAD, or an
// existing index with --source=offline), writes the raw
// sources into the index, and precomputes and persists the quad-code
// catalogue (quads_in_scale_range/codes_within) formed from them.
func newGenIndexCommand() *cobra.Command {
	var (
		output              string
		source              string
		inputIndex          string
		nside               int
		margin              float64
		limit               int
		threshold           float64
		rateLimitMs         int
		scaleLow, scaleHigh float64
	)

	cmd := &cobra.Command{
		Use:   "genindex",
		Short: "Build an offline sky index from a live catalog service, or re-derive one from an existing index",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := logging.New(logLevel, logFormat)

			var service *catalog.CatalogService

			switch strings.ToLower(source) {
			case "gaia":
				service = catalog.NewCatalogService(catalog.GAIA, catalog.Params{Limit: limit, Threshold: threshold})
			case "simbad":
				service = catalog.NewCatalogService(catalog.SIMBAD, catalog.Params{Limit: limit, Threshold: threshold})
			case "offline":
				if inputIndex == "" {
					return fmt.Errorf("--source=offline requires --input-index")
				}

				inputIdx, err := catalog.OpenSkyIndex(inputIndex)
				if err != nil {
					return fmt.Errorf("opening --input-index: %w", err)
				}
				defer inputIdx.Close()

				service = catalog.NewOfflineCatalogService(inputIdx, catalog.Params{Limit: limit, Threshold: threshold})
			default:
				return fmt.Errorf("unknown catalog source %q, want gaia, simbad, or offline", source)
			}

			index, err := catalog.OpenSkyIndex(output)
			if err != nil {
				return err
			}
			defer index.Close()

			if err := index.SetScaleRange(scaleLow, scaleHigh); err != nil {
				return fmt.Errorf("recording scale range: %w", err)
			}

			hp := healpix.NewHealPIX(nside, healpix.RING)
			total := hp.GetNumberOfPixels()

			logger.Info("building offline sky index", "index", index.ID(), "source", source, "nside", nside, "pixels", total, "output", output)

			for pixel := 0; pixel < total; pixel++ {
				centre := hp.ConvertPixelIndexToEquatorial(pixel)
				radius := hp.GetPixelRadialExtent(pixel) * margin

				sources, err := service.PerformRadialSearch(centre, radius)
				if err != nil {
					logger.Warn("pixel lookup failed, skipping", "pixel", pixel, "error", err)
					continue
				}

				if len(sources) == 0 {
					continue
				}

				if err := index.Put(pixel, sources); err != nil {
					return fmt.Errorf("pixel %d: %w", pixel, err)
				}

				if err := index.PutQuads(pixel, sources); err != nil {
					return fmt.Errorf("pixel %d: indexing quads: %w", pixel, err)
				}

				logger.Debug("pixel indexed", "pixel", pixel, "sources", len(sources))

				if rateLimitMs > 0 {
					time.Sleep(time.Duration(rateLimitMs) * time.Millisecond)
				}
			}

			logger.Info("index build complete")

			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "index.sqlite", "path to the sqlite index file to write")
	cmd.Flags().StringVar(&source, "source", "gaia", "catalog source: gaia, simbad, or offline (re-derive from --input-index)")
	cmd.Flags().StringVar(&inputIndex, "input-index", "", "path to an existing sky index to re-derive from, when --source=offline")
	cmd.Flags().IntVar(&nside, "nside", 8, "HEALPix resolution parameter")
	cmd.Flags().Float64Var(&margin, "margin", 1.5, "multiple of a pixel's radial extent to search around its centre")
	cmd.Flags().IntVar(&limit, "limit", 500, "max sources requested per pixel")
	cmd.Flags().Float64Var(&threshold, "threshold", 18.0, "faintest magnitude requested per pixel")
	cmd.Flags().IntVar(&rateLimitMs, "rate-limit-ms", 250, "pause between pixel requests, to stay within the catalog service's rate limit")
	cmd.Flags().Float64Var(&scaleLow, "scale-low", 0.5, "lower bound of the plate scale this index supports, arcsec/pixel")
	cmd.Flags().Float64Var(&scaleHigh, "scale-high", 10.0, "upper bound of the plate scale this index supports, arcsec/pixel")

	return cmd
}

/*****************************************************************************************************************/
