package models

import (
	"math"
	"time"
)

// Series is a float64 time series indexed by ascending UTC timestamps.
// NaN marks a missing observation; absence is represented, not rejected.
type Series struct {
	Times  []time.Time
	Values []float64
}

// NewSeries builds a series from parallel slices. Times must be ascending UTC;
// the shorter slice bounds the length.
func NewSeries(times []time.Time, values []float64) Series {
	n := len(times)
	if len(values) < n {
		n = len(values)
	}
	return Series{Times: times[:n], Values: values[:n]}
}

// Len returns the number of observations, missing ones included.
func (s Series) Len() int { return len(s.Values) }

// Append adds one observation. The caller keeps timestamps ascending.
func (s *Series) Append(ts time.Time, v float64) {
	s.Times = append(s.Times, ts.UTC())
	s.Values = append(s.Values, v)
}

// HourlyLookup returns values keyed by unix second for observations sitting
// exactly on an hour boundary. Off-grid observations are skipped, matching
// reindexing onto an hourly frequency.
func (s Series) HourlyLookup() map[int64]float64 {
	m := make(map[int64]float64, len(s.Values))
	for i, ts := range s.Times {
		if ts.Equal(ts.Truncate(time.Hour)) {
			m[ts.Unix()] = s.Values[i]
		}
	}
	return m
}

// HourSeries is a float64 series indexed by signed whole-hour offsets
// relative to an event anchor. Values[i] belongs to hour StartHour+i.
type HourSeries struct {
	StartHour int
	Values    []float64
}

// Len returns the number of hourly entries.
func (h HourSeries) Len() int { return len(h.Values) }

// EndHour returns the offset of the last entry.
func (h HourSeries) EndHour() int { return h.StartHour + len(h.Values) - 1 }

// At returns the value at the given hour offset, or (NaN, false) when the
// offset falls outside the series.
func (h HourSeries) At(hour int) (float64, bool) {
	i := hour - h.StartHour
	if i < 0 || i >= len(h.Values) {
		return math.NaN(), false
	}
	return h.Values[i], true
}

// Defined counts non-missing entries.
func (h HourSeries) Defined() int {
	n := 0
	for _, v := range h.Values {
		if !math.IsNaN(v) {
			n++
		}
	}
	return n
}

// DropNaN returns the non-missing values in order.
func (h HourSeries) DropNaN() []float64 {
	out := make([]float64, 0, len(h.Values))
	for _, v := range h.Values {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// LastDefined returns the last non-missing value, or (NaN, false) when the
// series has none.
func (h HourSeries) LastDefined() (float64, bool) {
	for i := len(h.Values) - 1; i >= 0; i-- {
		if !math.IsNaN(h.Values[i]) {
			return h.Values[i], true
		}
	}
	return math.NaN(), false
}
