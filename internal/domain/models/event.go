package models

import (
	"strings"
	"time"
)

// Direction is the annotated sentiment of an event.
type Direction string

const (
	DirectionPos     Direction = "pos"
	DirectionNeg     Direction = "neg"
	DirectionNeutral Direction = "neutral"
)

// NormalizeDirection maps free-form direction labels onto the three supported
// values. Unrecognized or empty input becomes neutral.
func NormalizeDirection(s string) Direction {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pos", "positive":
		return DirectionPos
	case "neg", "negative":
		return DirectionNeg
	case "neu", "neutral":
		return DirectionNeutral
	default:
		return DirectionNeutral
	}
}

// Event is a discrete calendar event (news item, announcement) annotated for
// a symbol. Immutable once loaded.
type Event struct {
	EventID   string
	TS        time.Time // UTC
	Symbol    string
	Category  string
	Headline  string
	Source    string
	Direction Direction
}
