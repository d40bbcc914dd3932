package models

import "time"

// Window is a pair of signed hour offsets relative to an event anchor t0,
// Start <= End, both inclusive.
type Window struct {
	Start int
	End   int
}

// Len returns the number of hourly entries the window covers.
func (w Window) Len() int { return w.End - w.Start + 1 }

// Windows names the two windows an event study needs. The estimation window
// should strictly precede the event window; overlap is not rejected here,
// validation stays with the caller.
type Windows struct {
	Estimation Window
	Event      Window
}

// DefaultWindows returns the standard hourly setup: ten days of history
// ending one day before the event, and a one-day band around it.
func DefaultWindows() Windows {
	return Windows{
		Estimation: Window{Start: -240, End: -24},
		Event:      Window{Start: -24, End: 24},
	}
}

// ConfidenceInterval is an approximate 95% interval for a statistic.
// Valid is false when the data was insufficient to estimate one; Low/High
// are meaningless in that case.
type ConfidenceInterval struct {
	Low   float64
	High  float64
	Valid bool
}

// EventResult holds the outcome of a single-event estimation. AR and CAR are
// indexed by relative hour over the event window. Beta is 0 under the
// mean-adjusted model.
type EventResult struct {
	EventID string
	Symbol  string
	T0      time.Time
	AR      HourSeries
	CAR     HourSeries
	Alpha   float64
	Beta    float64
	CARCI   ConfidenceInterval
}

// AggregateResult is the cross-event aggregation for one symbol: mean AR and
// CAR curves over the event window, an aggregate interval derived from the
// dispersion of terminal per-event CARs, and the contributing per-event
// results in event order.
type AggregateResult struct {
	Symbol   string
	Window   Window
	MeanAR   HourSeries
	MeanCAR  HourSeries
	CARCI    ConfidenceInterval
	PerEvent []EventResult
}
