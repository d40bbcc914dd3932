package study

import (
	"math"

	"EventPulse/internal/domain/models"
)

// minPairedObs is the smallest paired sample the market-model fit accepts.
// Below it the fit degrades to a zero-impact model instead of failing, a
// deliberate leniency for sparse historical windows.
const minPairedObs = 10

// OLSAlphaBeta fits y = alpha + beta*x by ordinary least squares over the
// hours both series define. Pairs are matched on the relative-hour label,
// not position; a missing value on either side drops the pair. Fewer than
// minPairedObs pairs yields (0, 0).
func OLSAlphaBeta(x, y models.HourSeries) (alpha, beta float64) {
	xs := make([]float64, 0, x.Len())
	ys := make([]float64, 0, x.Len())
	for i, xv := range x.Values {
		yv, ok := y.At(x.StartHour + i)
		if !ok || math.IsNaN(xv) || math.IsNaN(yv) {
			continue
		}
		xs = append(xs, xv)
		ys = append(ys, yv)
	}
	if len(xs) < minPairedObs {
		return 0.0, 0.0
	}

	n := float64(len(xs))
	var sx, sy float64
	for i := range xs {
		sx += xs[i]
		sy += ys[i]
	}
	mx := sx / n
	my := sy / n

	var sxx, sxy float64
	for i := range xs {
		dx := xs[i] - mx
		sxx += dx * dx
		sxy += dx * (ys[i] - my)
	}
	// A constant benchmark leaves the slope unidentified. Summation rounding
	// makes sxx of a constant series tiny but nonzero, so the guard is
	// relative to the series magnitude rather than an exact zero check.
	if sxx <= 1e-12*n*mx*mx {
		return my, 0.0
	}
	beta = sxy / sxx
	alpha = my - beta*mx
	return alpha, beta
}
