/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package star

/*****************************************************************************************************************/

import (
	"math"
	"testing"

	"github.com/arcfield/starcore/pkg/image"
)

/*****************************************************************************************************************/

func defaultParams() DetectorParams {
	return DetectorParams{
		Plim:      5,
		Dpsf:      1.5,
		Dlim:      4,
		Saddle:    2,
		Halfbox:   8,
		Maxper:    5,
		Maxnpeaks: 0,
		Maxsize:   0,
	}
}

/*****************************************************************************************************************/

// syntheticStarField renders width x height of flat background noise plus a
// handful of Gaussian point sources at the given (x, y, peak) triples.
func syntheticStarField(width, height int, background float64, sources [][3]float64) []byte {
	buf := make([]byte, width*height)

	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			v := background
			for _, s := range sources {
				dx := float64(x) - s[0]
				dy := float64(y) - s[1]
				v += s[2] * math.Exp(-(dx*dx+dy*dy)/(2*1.2*1.2))
			}
			if v > 255 {
				v = 255
			}
			buf[y*width+x] = byte(v)
		}
	}

	return buf
}

/*****************************************************************************************************************/

func TestDetectFindsIsolatedBrightStar(t *testing.T) {
	width, height := 64, 64

	buf := syntheticStarField(width, height, 10, [][3]float64{{32, 32, 200}})

	img, err := image.New(buf, width, height)
	if err != nil {
		t.Fatalf("image.New: %v", err)
	}

	stars, err := Detect(img, defaultParams())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if len(stars) != 1 {
		t.Fatalf("got %d stars, want 1: %+v", len(stars), stars)
	}

	if math.Abs(stars[0].X-32) > 1 || math.Abs(stars[0].Y-32) > 1 {
		t.Fatalf("centroid %v,%v too far from (32,32)", stars[0].X, stars[0].Y)
	}
}

/*****************************************************************************************************************/

func TestDetectEmptyFieldReturnsNoStars(t *testing.T) {
	width, height := 32, 32

	buf := syntheticStarField(width, height, 10, nil)

	img, err := image.New(buf, width, height)
	if err != nil {
		t.Fatalf("image.New: %v", err)
	}

	stars, err := Detect(img, defaultParams())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if len(stars) != 0 {
		t.Fatalf("got %d stars, want 0: %+v", len(stars), stars)
	}
}

/*****************************************************************************************************************/

func TestDetectSeparatesTwoWellSeparatedStars(t *testing.T) {
	width, height := 64, 64

	buf := syntheticStarField(width, height, 10, [][3]float64{
		{16, 16, 200},
		{48, 48, 180},
	})

	img, err := image.New(buf, width, height)
	if err != nil {
		t.Fatalf("image.New: %v", err)
	}

	stars, err := Detect(img, defaultParams())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}

	if len(stars) != 2 {
		t.Fatalf("got %d stars, want 2: %+v", len(stars), stars)
	}
}

/*****************************************************************************************************************/

func TestDetectRejectsNilImage(t *testing.T) {
	if _, err := Detect(nil, defaultParams()); err == nil {
		t.Fatal("expected an error for a nil image")
	}
}

/*****************************************************************************************************************/

func TestDetectOverflowReportsError(t *testing.T) {
	width, height := 128, 128

	var sources [][3]float64
	for y := 4; y < height; y += 8 {
		for x := 4; x < width; x += 8 {
			sources = append(sources, [3]float64{float64(x), float64(y), 200})
		}
	}

	buf := syntheticStarField(width, height, 10, sources)

	img, err := image.New(buf, width, height)
	if err != nil {
		t.Fatalf("image.New: %v", err)
	}

	params := defaultParams()
	params.Maxnpeaks = 3

	_, err = Detect(img, params)
	if err == nil {
		t.Fatal("expected a detection-overflow error")
	}
}

/*****************************************************************************************************************/

func TestFindLocalMaximaSaddleThresholdMergesShallowDip(t *testing.T) {
	// Two adjacent peaks of nearly equal height, closer than dlim: with a
	// generous saddleThreshold, the fainter one should be dropped rather than
	// kept as an independently-resolved source.
	width := 10
	values := make([]float64, width*width)
	values[5*width+4] = 100
	values[5*width+6] = 98

	r := region{pixels: []int{5*width + 4, 5*width + 6}}

	peaks := findLocalMaxima(values, width, r, 4, 50, 5)

	if len(peaks) != 1 {
		t.Fatalf("got %d peaks, want 1 (shallow dip should merge): %+v", len(peaks), peaks)
	}
}

/*****************************************************************************************************************/

func TestFindLocalMaximaSaddleThresholdResolvesDeepDip(t *testing.T) {
	// Same geometry, but the fainter candidate is now far enough below the
	// brighter one that it should count as its own resolved peak despite the
	// proximity.
	width := 10
	values := make([]float64, width*width)
	values[5*width+4] = 100
	values[5*width+6] = 10

	r := region{pixels: []int{5*width + 4, 5*width + 6}}

	peaks := findLocalMaxima(values, width, r, 4, 50, 5)

	if len(peaks) != 2 {
		t.Fatalf("got %d peaks, want 2 (deep dip should resolve both): %+v", len(peaks), peaks)
	}
}

/*****************************************************************************************************************/
