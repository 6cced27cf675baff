/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package image

/*****************************************************************************************************************/

import "testing"

/*****************************************************************************************************************/

func TestNewWidensBufferVerbatim(t *testing.T) {
	buf := []byte{1, 2, 3, 4, 5, 6}

	img, err := New(buf, 3, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	for i, b := range buf {
		if img.Pixels[i] != float64(b) {
			t.Fatalf("pixel %d: got %v, want %v", i, img.Pixels[i], b)
		}
	}

	if img.At(2, 1) != 6 {
		t.Fatalf("At(2,1): got %v, want 6", img.At(2, 1))
	}
}

/*****************************************************************************************************************/

func TestNewRejectsMismatchedBufferLength(t *testing.T) {
	if _, err := New([]byte{1, 2, 3}, 2, 2); err == nil {
		t.Fatal("expected an error for a mismatched buffer length")
	}
}

/*****************************************************************************************************************/

func TestNewRejectsNonPositiveDimensions(t *testing.T) {
	if _, err := New([]byte{}, 0, 0); err == nil {
		t.Fatal("expected an error for zero dimensions")
	}
}

/*****************************************************************************************************************/

func TestDownsampleBlockAverages(t *testing.T) {
	// 4x4 image, 2x2 blocks of constant value 0, 4, 8, 12 in reading order.
	buf := []byte{
		0, 0, 4, 4,
		0, 0, 4, 4,
		8, 8, 12, 12,
		8, 8, 12, 12,
	}

	img, err := New(buf, 4, 4)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ds, err := img.Downsample(2)
	if err != nil {
		t.Fatalf("Downsample: %v", err)
	}

	if ds.Width != 2 || ds.Height != 2 {
		t.Fatalf("got %dx%d, want 2x2", ds.Width, ds.Height)
	}

	want := []float64{0, 4, 8, 12}
	for i, v := range want {
		if ds.Pixels[i] != v {
			t.Fatalf("pixel %d: got %v, want %v", i, ds.Pixels[i], v)
		}
	}
}

/*****************************************************************************************************************/

func TestDownsampleByOneIsIdentity(t *testing.T) {
	buf := []byte{1, 2, 3, 4}

	img, err := New(buf, 2, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	ds, err := img.Downsample(1)
	if err != nil {
		t.Fatalf("Downsample: %v", err)
	}

	if ds != img {
		t.Fatal("Downsample(1) should return the same image unchanged")
	}
}

/*****************************************************************************************************************/

func TestDownsampleRejectsFactorExceedingDimensions(t *testing.T) {
	img, err := New([]byte{1, 2, 3, 4}, 2, 2)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if _, err := img.Downsample(4); err == nil {
		t.Fatal("expected an error when the downsample factor exceeds the image dimensions")
	}
}

/*****************************************************************************************************************/
