/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package order

/*****************************************************************************************************************/

import (
	"testing"

	"github.com/arcfield/starcore/pkg/star"
)

/*****************************************************************************************************************/

func TestOrderEveryStarAppearsExactlyOnce(t *testing.T) {
	stars := []star.Star{
		{X: 0, Y: 0, Flux: 100, Background: 5},
		{X: 10, Y: 0, Flux: 50, Background: 5},
		{X: 0, Y: 10, Flux: 80, Background: 5},
		{X: 10, Y: 10, Flux: 10, Background: 5},
		{X: 5, Y: 5, Flux: 200, Background: 5},
	}

	ordered := Order(stars, 4, 0)

	if len(ordered) != len(stars) {
		t.Fatalf("got %d stars, want %d", len(ordered), len(stars))
	}

	seen := make(map[float64]bool)
	for _, s := range ordered {
		if seen[s.Flux] {
			t.Fatalf("star with flux %v emitted more than once", s.Flux)
		}
		seen[s.Flux] = true
	}
}

/*****************************************************************************************************************/

func TestOrderMaxStarsCapsOutput(t *testing.T) {
	stars := make([]star.Star, 20)
	for i := range stars {
		stars[i] = star.Star{X: float64(i), Y: float64(i), Flux: float64(20 - i)}
	}

	ordered := Order(stars, 4, 5)

	if len(ordered) != 5 {
		t.Fatalf("got %d stars, want 5", len(ordered))
	}
}

/*****************************************************************************************************************/

func TestOrderBrightestStarLeadsInterleaving(t *testing.T) {
	stars := []star.Star{
		{X: 0, Y: 0, Flux: 10},
		{X: 1, Y: 1, Flux: 1000},
		{X: 2, Y: 2, Flux: 5},
	}

	ordered := Order(stars, 1, 0)

	if ordered[0].Flux != 1000 {
		t.Fatalf("expected the brightest star first, got flux %v", ordered[0].Flux)
	}
}

/*****************************************************************************************************************/

func TestOrderEmptyInput(t *testing.T) {
	ordered := Order(nil, 4, 0)
	if len(ordered) != 0 {
		t.Fatalf("got %d stars, want 0", len(ordered))
	}
}

/*****************************************************************************************************************/

func TestOrderSpatiallyUniformPrefix(t *testing.T) {
	// Two tight clusters, far apart; a spatially uniform prefix of length 2
	// should draw one star from each cluster rather than both from the same one.
	stars := []star.Star{
		{X: 0, Y: 0, Flux: 100},
		{X: 1, Y: 0, Flux: 90},
		{X: 1000, Y: 1000, Flux: 80},
		{X: 1001, Y: 1000, Flux: 70},
	}

	ordered := Order(stars, 4, 0)

	prefix := ordered[:2]
	clusterA, clusterB := false, false
	for _, s := range prefix {
		if s.X < 500 {
			clusterA = true
		} else {
			clusterB = true
		}
	}

	if !clusterA || !clusterB {
		t.Fatalf("expected the 2-star prefix to span both clusters, got %+v", prefix)
	}
}

/*****************************************************************************************************************/
