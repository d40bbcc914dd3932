package study

import (
	"EventPulse/internal/domain/models"
)

// SelectSymbol filters bars down to one symbol, preserving order. An empty
// result is not an error here; sparse data degrades to NaN downstream.
func SelectSymbol(bars []models.Bar, symbol string) []models.Bar {
	out := make([]models.Bar, 0, len(bars))
	for _, b := range bars {
		if b.Symbol == symbol {
			out = append(out, b)
		}
	}
	return out
}

// CloseSeries extracts the close-price series from bars.
func CloseSeries(bars []models.Bar) models.Series {
	var s models.Series
	for _, b := range bars {
		s.Append(b.TS, b.Close)
	}
	return s
}
