package study

import (
	"math"
	"time"

	"EventPulse/internal/domain/models"
)

// SliceWindow reindexes a return series onto the exact hourly grid
// t0+w.Start .. t0+w.End inclusive. The output always has w.Len() entries;
// hours with no observation carry NaN. Sparse input is represented, never
// rejected, which keeps cross-event alignment by relative hour valid.
func SliceWindow(s models.Series, t0 time.Time, w models.Window) models.HourSeries {
	lookup := s.HourlyLookup()
	out := models.HourSeries{
		StartHour: w.Start,
		Values:    make([]float64, w.Len()),
	}
	for i := 0; i < w.Len(); i++ {
		ts := t0.Add(time.Duration(w.Start+i) * time.Hour)
		if v, ok := lookup[ts.Unix()]; ok {
			out.Values[i] = v
		} else {
			out.Values[i] = math.NaN()
		}
	}
	return out
}
