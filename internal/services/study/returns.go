package study

import (
	"math"

	"EventPulse/internal/domain/models"
)

// LogReturns converts a price series into log returns r_t = ln(P_t / P_{t-1}),
// indexed at the later timestamp of each pair. The first observation has no
// return and is dropped. Non-positive or missing prices make the adjacent
// returns NaN rather than failing the transform.
func LogReturns(prices models.Series) models.Series {
	var out models.Series
	if prices.Len() < 2 {
		return out
	}
	for i := 1; i < prices.Len(); i++ {
		prev := prices.Values[i-1]
		cur := prices.Values[i]
		r := math.NaN()
		if prev > 0 && cur > 0 {
			r = math.Log(cur / prev)
		}
		out.Append(prices.Times[i], r)
	}
	return out
}
