/*****************************************************************************************************************/

//	@author		Michael Roberts <michael@observerly.com>
//	@package	@arcfield/starcore
//	@license	Copyright © 2021-2025 observerly

/*****************************************************************************************************************/

package stats

/*****************************************************************************************************************/

import (
	"math"
	"math/rand"
)

/*****************************************************************************************************************/

// NormalDistributedRandomNumber generates a normally distributed random number.
// mean: the mean of the distribution.
// stdDev: the standard deviation of the distribution.
func NormalDistributedRandomNumber(mean, stdDev float64) float64 {
	// Box-Muller transform; 1-rand.Float64() lies in (0, 1], so the log is finite:
	u1 := 1 - rand.Float64()
	u2 := rand.Float64()
	return mean + stdDev*math.Sqrt(-2*math.Log(u1))*math.Cos(2*math.Pi*u2)
}

/*****************************************************************************************************************/

// PoissonDistributedRandomNumber generates a Poisson-distributed random number
// with the given mean (Knuth's product-of-uniforms algorithm), used to simulate
// photon shot noise in dark current and sky background.
func PoissonDistributedRandomNumber(lambda float64) float64 {
	if lambda <= 0 {
		return 0
	}

	l := math.Exp(-lambda)
	k := 0.0
	p := 1.0

	for {
		k++
		p *= rand.Float64()
		if p <= l {
			break
		}
	}

	return k - 1
}

/*****************************************************************************************************************/
