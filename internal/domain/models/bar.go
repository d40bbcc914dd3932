package models

import "time"

// Bar represents one OHLCV observation for a symbol. Bars are keyed by
// (symbol, TS); TS is a UTC hour boundary for the default interval.
type Bar struct {
	TS     time.Time
	Symbol string
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// Trade is a single tick from the market stream, bucketed into Bars by the
// bar collector.
type Trade struct {
	Symbol    string
	Timestamp int64 // unix seconds
	Price     float64
	Volume    float64
}
