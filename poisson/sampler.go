package poisson

import (
	"math"
	"math/rand/v2"
)

// maxChunkMean bounds the mean handled by a single Knuth pass so that
// exp(-mean) stays well inside float64 range.
const maxChunkMean = 30.0

// samplePoisson draws an exact Poisson-distributed count with the given
// mean using Knuth's product-of-uniforms method. Large means are split
// into chunks and summed; a sum of independent Poisson variables is
// Poisson with the summed mean, so the result stays exact.
func samplePoisson(rng *rand.Rand, mean float64) int {
	if mean <= 0 {
		return 0
	}

	total := 0
	for mean > maxChunkMean {
		total += knuthPoisson(rng, maxChunkMean)
		mean -= maxChunkMean
	}
	return total + knuthPoisson(rng, mean)
}

func knuthPoisson(rng *rand.Rand, mean float64) int {
	limit := math.Exp(-mean)
	k := 0
	p := 1.0
	for {
		p *= rng.Float64()
		if p <= limit {
			return k
		}
		k++
	}
}
