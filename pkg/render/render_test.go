/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package render

/*****************************************************************************************************************/

import (
	"bytes"
	"testing"

	"github.com/arcfield/starcore/pkg/star"
)

/*****************************************************************************************************************/

func TestDetectedStarsEncodesPNG(t *testing.T) {
	const w, h = 16, 16

	pixels := make([]float64, w*h)
	for i := range pixels {
		pixels[i] = 50
	}

	stars := []star.Star{{X: 4, Y: 4, Flux: 100}, {X: 10, Y: 10, Flux: 80}}

	var buf bytes.Buffer

	if err := DetectedStars(&buf, pixels, w, h, stars); err != nil {
		t.Fatalf("DetectedStars() error: %v", err)
	}

	if buf.Len() == 0 {
		t.Errorf("expected non-empty PNG output")
	}

	if !bytes.HasPrefix(buf.Bytes(), []byte("\x89PNG")) {
		t.Errorf("output does not look like a PNG")
	}
}

/*****************************************************************************************************************/
