package study

import (
	"math/rand"

	"EventPulse/internal/domain/models"
)

// minBootstrapSlack is the extra history the resampler requires beyond one
// window length before an interval is considered estimable.
const minBootstrapSlack = 10

// BootstrapCARCI estimates an approximate 95% interval for a cumulative sum
// of windowLen consecutive returns under a no-event null. It draws nIter
// uniformly random contiguous windows from history, sums each, and takes the
// 2.5th/97.5th percentiles of the sums. The generator is built from seed
// inside the call, so identical inputs always produce identical intervals
// and no process-wide random state is touched.
//
// History shorter than windowLen+minBootstrapSlack returns an invalid
// interval: too little data to resample meaningfully.
func BootstrapCARCI(history []float64, windowLen, nIter int, seed int64) models.ConfidenceInterval {
	if windowLen <= 0 || nIter <= 0 || len(history) < windowLen+minBootstrapSlack {
		return models.ConfidenceInterval{}
	}

	rng := rand.New(rand.NewSource(seed))
	sums := make([]float64, nIter)
	for i := 0; i < nIter; i++ {
		start := rng.Intn(len(history) - windowLen)
		total := 0.0
		for j := start; j < start+windowLen; j++ {
			total += history[j]
		}
		sums[i] = total
	}

	return models.ConfidenceInterval{
		Low:   percentile(sums, 2.5),
		High:  percentile(sums, 97.5),
		Valid: true,
	}
}
