/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package pipeline

/*****************************************************************************************************************/

import (
	"math"
	"testing"

	"github.com/arcfield/starcore/internal/config"
)

/*****************************************************************************************************************/

// injectGaussian adds a Gaussian PSF of given peak (above background) at (cx, cy)
// with sigma into a W*H byte buffer already filled with background.
func injectGaussian(buffer []byte, width, height int, cx, cy, sigma, peak, background float64) {
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			dx := float64(x) - cx
			dy := float64(y) - cy
			v := background + peak*math.Exp(-(dx*dx+dy*dy)/(2*sigma*sigma))

			if v > 255 {
				v = 255
			}

			i := y*width + x
			if float64(buffer[i]) < v {
				buffer[i] = byte(v)
			}
		}
	}
}

/*****************************************************************************************************************/

// TestDetectStarsFindsInjectedPeaks exercises scenario S1: nine Gaussian PSFs on a
// 128x128 background must all be recovered within 0.3 px.
func TestDetectStarsFindsInjectedPeaks(t *testing.T) {
	const w, h = 128, 128

	positions := [][2]float64{
		{10, 10}, {20, 40}, {30, 70}, {50, 20}, {60, 60}, {70, 90}, {90, 30}, {100, 80}, {120, 60},
	}

	buffer := make([]byte, w*h)
	for i := range buffer {
		buffer[i] = 10
	}

	for _, p := range positions {
		injectGaussian(buffer, w, h, p[0], p[1], 1.0, 190, 10)
	}

	cfg := config.DefaultConfig()

	stars, err := DetectStars(buffer, w, h, cfg.Detector, cfg.Orderer)
	if err != nil {
		t.Fatalf("DetectStars() error: %v", err)
	}

	if len(stars) == 0 {
		t.Fatalf("expected at least one detected star")
	}

	for _, p := range positions {
		found := false
		for _, s := range stars {
			if math.Hypot(s.X-p[0], s.Y-p[1]) < 0.3 {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("no detected star near injected position (%v, %v)", p[0], p[1])
		}
	}
}

/*****************************************************************************************************************/

func TestStackingHandleIdentity(t *testing.T) {
	const w, h = 64, 64

	handle, err := NewStackingHandle(w, h, false, config.DefaultConfig().Aligner, 42)
	if err != nil {
		t.Fatalf("NewStackingHandle() error: %v", err)
	}
	defer handle.Release()

	frame := make([]float64, w*h)
	for i := range frame {
		frame[i] = 100
	}

	stars := []DetectedStar{
		{X: 10, Y: 10, Flux: 500}, {X: 50, Y: 10, Flux: 400}, {X: 50, Y: 50, Flux: 300},
		{X: 10, Y: 50, Flux: 200}, {X: 30, Y: 30, Flux: 100},
	}

	result, err := handle.AddFrame(frame, stars)
	if err != nil {
		t.Fatalf("AddFrame() error: %v", err)
	}

	if !result.OK {
		t.Fatalf("AddFrame() first frame not accepted")
	}

	out := handle.GetStacked()

	for i, v := range out {
		if v != 100 {
			t.Fatalf("pixel %d = %d, want 100", i, v)
		}
	}

	if handle.FrameCount() != 1 {
		t.Errorf("FrameCount() = %d, want 1", handle.FrameCount())
	}
}

/*****************************************************************************************************************/
