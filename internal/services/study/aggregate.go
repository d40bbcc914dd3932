package study

import (
	"errors"
	"fmt"
	"math"

	"EventPulse/internal/domain/models"
)

// ErrNoEvents is returned when no event matches the target symbol. This is
// the only hard failure in the engine; everything else degrades to NaN or a
// zero-impact model.
var ErrNoEvents = errors.New("no matching events")

// minEventsForCI is the smallest number of defined terminal CARs needed to
// estimate the aggregate dispersion band.
const minEventsForCI = 5

// Run executes the event study for one symbol: it computes the target (and,
// under the market model, benchmark) return series once, evaluates every
// matching event, joins the per-event AR curves on their relative-hour
// labels, and aggregates.
func Run(bars []models.Bar, events []models.Event, symbol string, benchBars []models.Bar, cfg Config, wins models.Windows) (*models.AggregateResult, error) {
	symBars := SelectSymbol(bars, symbol)
	targetRets := LogReturns(CloseSeries(symBars))

	model := MeanAdjusted()
	if cfg.Benchmark != "" && cfg.Benchmark != symbol && len(benchBars) > 0 {
		bBars := SelectSymbol(benchBars, cfg.Benchmark)
		if len(bBars) > 0 {
			model = MarketModel(LogReturns(CloseSeries(bBars)))
		}
	}

	perEvent := make([]models.EventResult, 0, len(events))
	for _, ev := range events {
		if ev.Symbol != symbol {
			continue
		}
		perEvent = append(perEvent, EvaluateEvent(ev.EventID, symbol, targetRets, model, ev.TS.UTC(), wins, cfg))
	}
	if len(perEvent) == 0 {
		return nil, fmt.Errorf("event study %s (window %d..%d): %w", symbol, wins.Event.Start, wins.Event.End, ErrNoEvents)
	}

	// Every AR curve sits on the same hour-labeled grid; the slicer
	// guarantees the length, this guards against a caller mixing windows.
	for _, e := range perEvent {
		if e.AR.StartHour != wins.Event.Start || e.AR.Len() != wins.Event.Len() {
			return nil, fmt.Errorf("event study %s: event %s window misaligned", symbol, e.EventID)
		}
	}

	meanAR := models.HourSeries{StartHour: wins.Event.Start, Values: make([]float64, wins.Event.Len())}
	col := make([]float64, len(perEvent))
	for i := 0; i < wins.Event.Len(); i++ {
		for j, e := range perEvent {
			col[j] = e.AR.Values[i]
		}
		meanAR.Values[i] = mean(col)
	}
	meanCAR := models.HourSeries{StartHour: wins.Event.Start, Values: cumSum(meanAR.Values)}

	finalCARs := make([]float64, 0, len(perEvent))
	for _, e := range perEvent {
		if v, ok := e.CAR.LastDefined(); ok {
			finalCARs = append(finalCARs, v)
		}
	}
	aggCI := models.ConfidenceInterval{Low: math.NaN(), High: math.NaN()}
	if len(finalCARs) >= minEventsForCI {
		aggCI = models.ConfidenceInterval{
			Low:   percentile(finalCARs, 2.5),
			High:  percentile(finalCARs, 97.5),
			Valid: true,
		}
	}

	return &models.AggregateResult{
		Symbol:   symbol,
		Window:   wins.Event,
		MeanAR:   meanAR,
		MeanCAR:  meanCAR,
		CARCI:    aggCI,
		PerEvent: perEvent,
	}, nil
}
