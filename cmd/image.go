/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package main

/*****************************************************************************************************************/

import (
	"image"
	"image/color"
	"image/png"
	"os"
)

/*****************************************************************************************************************/

// loadGrayscaleFrame reads a PNG file from path and flattens it to an 8-bit
// grayscale buffer in row-major order, the shape every pkg/pipeline entry point
// expects. Colour input is flattened via Go's standard luminance weighting.
func loadGrayscaleFrame(path string) (buffer []byte, width, height int, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, 0, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, 0, 0, err
	}

	bounds := img.Bounds()
	width, height = bounds.Dx(), bounds.Dy()
	buffer = make([]byte, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			gray := color.GrayModel.Convert(img.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.Gray)
			buffer[y*width+x] = gray.Y
		}
	}

	return buffer, width, height, nil
}

/*****************************************************************************************************************/

// writeGrayscalePNG writes a row-major 8-bit grayscale buffer to path as a PNG.
func writeGrayscalePNG(path string, buffer []byte, width, height int) error {
	img := image.NewGray(image.Rect(0, 0, width, height))

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.SetGray(x, y, color.Gray{Y: buffer[y*width+x]})
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	return png.Encode(f, img)
}

/*****************************************************************************************************************/
