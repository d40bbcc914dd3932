package api

import (
	"math"
	"time"

	"EventPulse/internal/domain/models"
)

// DTOs for the study endpoints. Domain results carry NaN for missing values;
// the wire format uses nil pointers instead, since encoding/json rejects NaN.

type IntervalDTO struct {
	Low  *float64 `json:"low"`
	High *float64 `json:"high"`
}

type CurvePointDTO struct {
	Hour int      `json:"hour"`
	AR   *float64 `json:"ar"`
	CAR  *float64 `json:"car"`
}

type EventResultDTO struct {
	EventID     string      `json:"event_id"`
	T0          time.Time   `json:"t0"`
	Alpha       float64     `json:"alpha"`
	Beta        float64     `json:"beta"`
	TerminalCAR *float64    `json:"terminal_car"`
	CARCI       IntervalDTO `json:"car_ci"`
}

type StudyResponse struct {
	Symbol    string           `json:"symbol"`
	Benchmark string           `json:"benchmark,omitempty"`
	Window    WindowDTO        `json:"window"`
	Events    int              `json:"events"`
	Curve     []CurvePointDTO  `json:"curve"`
	CARCI     IntervalDTO      `json:"car_ci"`
	PerEvent  []EventResultDTO `json:"per_event"`
}

type WindowDTO struct {
	Start int `json:"start"`
	End   int `json:"end"`
}

type EventDTO struct {
	EventID   string    `json:"event_id"`
	TS        time.Time `json:"ts_utc"`
	Symbol    string    `json:"symbol"`
	Category  string    `json:"category"`
	Headline  string    `json:"headline"`
	Source    string    `json:"source"`
	Direction string    `json:"direction"`
}

type BarDTO struct {
	TS     time.Time `json:"ts"`
	Symbol string    `json:"symbol"`
	Open   float64   `json:"open"`
	High   float64   `json:"high"`
	Low    float64   `json:"low"`
	Close  float64   `json:"close"`
	Volume float64   `json:"volume"`
}

type StudyQueuedResponse struct {
	Symbol string `json:"symbol"`
	Queued bool   `json:"queued"`
}

func fptr(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func intervalDTO(ci models.ConfidenceInterval) IntervalDTO {
	if !ci.Valid {
		return IntervalDTO{}
	}
	return IntervalDTO{Low: fptr(ci.Low), High: fptr(ci.High)}
}

// ToStudyResponse converts an aggregate result to its wire form.
func ToStudyResponse(res *models.AggregateResult, benchmark string) *StudyResponse {
	curve := make([]CurvePointDTO, res.MeanAR.Len())
	for i := range res.MeanAR.Values {
		curve[i] = CurvePointDTO{
			Hour: res.MeanAR.StartHour + i,
			AR:   fptr(res.MeanAR.Values[i]),
			CAR:  fptr(res.MeanCAR.Values[i]),
		}
	}

	perEvent := make([]EventResultDTO, len(res.PerEvent))
	for i, e := range res.PerEvent {
		dto := EventResultDTO{
			EventID: e.EventID,
			T0:      e.T0,
			Alpha:   e.Alpha,
			Beta:    e.Beta,
			CARCI:   intervalDTO(e.CARCI),
		}
		if v, ok := e.CAR.LastDefined(); ok {
			dto.TerminalCAR = fptr(v)
		}
		perEvent[i] = dto
	}

	return &StudyResponse{
		Symbol:    res.Symbol,
		Benchmark: benchmark,
		Window:    WindowDTO{Start: res.Window.Start, End: res.Window.End},
		Events:    len(res.PerEvent),
		Curve:     curve,
		CARCI:     intervalDTO(res.CARCI),
		PerEvent:  perEvent,
	}
}

func toEventDTOs(events []models.Event) []EventDTO {
	out := make([]EventDTO, len(events))
	for i, e := range events {
		out[i] = EventDTO{
			EventID:   e.EventID,
			TS:        e.TS,
			Symbol:    e.Symbol,
			Category:  e.Category,
			Headline:  e.Headline,
			Source:    e.Source,
			Direction: string(e.Direction),
		}
	}
	return out
}

func toBarDTOs(bars []models.Bar) []BarDTO {
	out := make([]BarDTO, len(bars))
	for i, b := range bars {
		out[i] = BarDTO{
			TS:     b.TS,
			Symbol: b.Symbol,
			Open:   b.Open,
			High:   b.High,
			Low:    b.Low,
			Close:  b.Close,
			Volume: b.Volume,
		}
	}
	return out
}
