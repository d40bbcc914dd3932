package models

import "time"

// StudySummary is the compact study outcome published to Kafka for
// downstream alerting. Interval bounds are nil when no interval could be
// estimated, so the payload stays valid JSON.
type StudySummary struct {
	Symbol      string    `json:"symbol"`
	Benchmark   string    `json:"benchmark,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`
	Events      int       `json:"events"`
	TerminalCAR *float64  `json:"terminal_car,omitempty"`
	CARLow      *float64  `json:"car_low,omitempty"`
	CARHigh     *float64  `json:"car_high,omitempty"`
}
