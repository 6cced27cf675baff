/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package render draws debug overlays over a detected/solved frame: the working
// grayscale image, detected stars, and the quad that produced a Plate Solver
// match. It exists for the debug CLI subcommand only and is never on the solving
// or stacking hot path.
package render

/*****************************************************************************************************************/

import (
	"image/color"
	"io"

	"github.com/fogleman/gg"

	"github.com/arcfield/starcore/pkg/solver"
	"github.com/arcfield/starcore/pkg/star"
)

/*****************************************************************************************************************/

var (
	colorStarMarker  = color.RGBA{R: 241, G: 245, B: 249, A: 255}
	colorMatchMarker = color.RGBA{R: 129, G: 140, B: 248, A: 255}
	colorLabel       = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

/*****************************************************************************************************************/

// DetectedStars draws the working grayscale image with a circle over every
// detected star, and writes the result as a PNG to w.
func DetectedStars(w io.Writer, pixels []float64, width, height int, stars []star.Star) error {
	dc := gg.NewContext(width, height)

	paintGrayscale(dc, pixels, width, height)

	dc.SetColor(colorStarMarker)
	dc.SetLineWidth(2)

	for _, s := range stars {
		dc.DrawCircle(s.X, s.Y, 6.0)
		dc.Stroke()
	}

	return dc.EncodePNG(w)
}

/*****************************************************************************************************************/

// SolvedField draws the working grayscale image with every matched star circled
// and labelled with its catalog designation, for inspecting a Plate Solver
// Solution visually.
func SolvedField(w io.Writer, pixels []float64, width, height int, solution *solver.Solution) error {
	dc := gg.NewContext(width, height)

	paintGrayscale(dc, pixels, width, height)

	for _, m := range solution.Matches {
		dc.SetColor(colorMatchMarker)
		dc.SetLineWidth(2)
		dc.DrawCircle(m.Star.X, m.Star.Y, 10.0)
		dc.Stroke()

		if m.Source.Designation != "" {
			dc.SetColor(colorLabel)
			dc.DrawString(m.Source.Designation, m.Star.X, m.Star.Y-14)
		}
	}

	return dc.EncodePNG(w)
}

/*****************************************************************************************************************/

// paintGrayscale writes a float pixel grid (values expected in [0,255]) into dc
// pixel-by-pixel.
func paintGrayscale(dc *gg.Context, pixels []float64, width, height int) {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := pixels[y*width+x] / 255.0

			switch {
			case v < 0:
				v = 0
			case v > 1:
				v = 1
			}

			dc.SetRGB(v, v, v)
			dc.SetPixel(x, y)
		}
	}
}

/*****************************************************************************************************************/
