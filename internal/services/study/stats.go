package study

import (
	"math"
	"sort"
)

// percentile computes the p-th percentile (0..100) with linear interpolation
// between closest ranks, ignoring NaN entries. Returns NaN for empty input.
func percentile(xs []float64, p float64) float64 {
	clean := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			clean = append(clean, x)
		}
	}
	if len(clean) == 0 {
		return math.NaN()
	}
	sort.Float64s(clean)
	if len(clean) == 1 {
		return clean[0]
	}
	rank := p / 100 * float64(len(clean)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return clean[lo]
	}
	frac := rank - float64(lo)
	return clean[lo] + frac*(clean[hi]-clean[lo])
}

// mean averages the values, NaN entries excluded. Empty or all-NaN input
// yields NaN.
func mean(xs []float64) float64 {
	sum := 0.0
	n := 0
	for _, x := range xs {
		if !math.IsNaN(x) {
			sum += x
			n++
		}
	}
	if n == 0 {
		return math.NaN()
	}
	return sum / float64(n)
}

// cumSum returns the running sum of xs. A NaN entry leaves NaN at its own
// position; the running total continues past it, matching cumulative-sum
// semantics over a series with gaps.
func cumSum(xs []float64) []float64 {
	out := make([]float64, len(xs))
	total := 0.0
	for i, x := range xs {
		if math.IsNaN(x) {
			out[i] = math.NaN()
			continue
		}
		total += x
		out[i] = total
	}
	return out
}
