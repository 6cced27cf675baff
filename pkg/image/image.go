/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

// Package image implements C1 Image Prep: widening a raw byte buffer into the
// working float image the rest of the pipeline operates on, plus the block-average
// downsample the Star Detector applies ahead of peak finding.
package image

/*****************************************************************************************************************/

import (
	"github.com/arcfield/starcore/internal/errs"
)

/*****************************************************************************************************************/

// Image is an immutable W x H grid of single-channel float intensity, origin at
// top-left, x increasing rightward and y downward.
type Image struct {
	Width  int
	Height int
	Pixels []float64 // row-major, length Width*Height
}

/*****************************************************************************************************************/

// At returns the pixel value at (x, y) without bounds checking; callers in the hot
// path are expected to have already validated the index.
func (img *Image) At(x, y int) float64 {
	return img.Pixels[y*img.Width+x]
}

/*****************************************************************************************************************/

// New widens a raw 8-bit byte buffer of length W*H into a float image. The numeric
// value of each sample is carried verbatim; this step never rescales.
func New(buffer []byte, width, height int) (*Image, error) {
	if width <= 0 || height <= 0 {
		return nil, errs.New(errs.InvalidInput, "image dimensions must be positive")
	}

	if len(buffer) != width*height {
		return nil, errs.Newf(errs.InvalidInput, "buffer length %d does not match %dx%d", len(buffer), width, height)
	}

	pixels := make([]float64, width*height)

	for i, b := range buffer {
		pixels[i] = float64(b)
	}

	return &Image{Width: width, Height: height, Pixels: pixels}, nil
}

/*****************************************************************************************************************/

// Downsample block-averages the image by an integer factor D in {1,2,3,4}, producing
// a new image of size floor(W/D) x floor(H/D). D=1 returns the image unchanged.
func (img *Image) Downsample(d int) (*Image, error) {
	if d <= 0 {
		return nil, errs.New(errs.InvalidInput, "downsample factor must be positive")
	}

	if d == 1 {
		return img, nil
	}

	width := img.Width / d
	height := img.Height / d

	if width <= 0 || height <= 0 {
		return nil, errs.New(errs.InvalidInput, "downsample factor exceeds image dimensions")
	}

	out := make([]float64, width*height)

	inv := 1.0 / float64(d*d)

	for by := 0; by < height; by++ {
		for bx := 0; bx < width; bx++ {
			sum := 0.0
			for yy := 0; yy < d; yy++ {
				row := (by*d + yy) * img.Width
				for xx := 0; xx < d; xx++ {
					sum += img.Pixels[row+bx*d+xx]
				}
			}
			out[by*width+bx] = sum * inv
		}
	}

	return &Image{Width: width, Height: height, Pixels: out}, nil
}

/*****************************************************************************************************************/
