package study

import (
	"math"
	"time"

	"EventPulse/internal/domain/models"
)

// minARForCI is the smallest count of defined abnormal returns for which a
// per-event bootstrap interval is attempted.
const minARForCI = 3

// EvaluateEvent estimates abnormal returns for a single event. It fits the
// expected-return model over the estimation window, scores the event window
// against it, and accumulates the abnormal returns. Pure function of its
// inputs; the passed-in series are never mutated.
func EvaluateEvent(eventID, symbol string, target models.Series, model Model, t0 time.Time, wins models.Windows, cfg Config) models.EventResult {
	est := SliceWindow(target, t0, wins.Estimation)
	estClean := est.DropNaN()

	var ar models.HourSeries
	var alpha, beta float64

	switch model.Kind {
	case KindMarketModel:
		estB := SliceWindow(model.Benchmark, t0, wins.Estimation)
		alpha, beta = OLSAlphaBeta(estB, est)

		evT := SliceWindow(target, t0, wins.Event)
		evB := SliceWindow(model.Benchmark, t0, wins.Event)
		ar = models.HourSeries{StartHour: wins.Event.Start, Values: make([]float64, evT.Len())}
		for i := range evT.Values {
			fitted := alpha + beta*evB.Values[i]
			ar.Values[i] = evT.Values[i] - fitted
		}

	default: // mean-adjusted
		mu := 0.0
		if len(estClean) > 0 {
			mu = mean(estClean)
		}
		alpha, beta = mu, 0.0

		evT := SliceWindow(target, t0, wins.Event)
		ar = models.HourSeries{StartHour: wins.Event.Start, Values: make([]float64, evT.Len())}
		for i := range evT.Values {
			ar.Values[i] = evT.Values[i] - mu
		}
	}

	car := models.HourSeries{StartHour: ar.StartHour, Values: cumSum(ar.Values)}

	ci := models.ConfidenceInterval{Low: math.NaN(), High: math.NaN()}
	if cfg.UseBootstrap {
		n := ar.Defined()
		if n > minARForCI && len(estClean) > n+minBootstrapSlack {
			ci = BootstrapCARCI(estClean, n, cfg.BootstrapIter, cfg.Seed)
		}
	}

	return models.EventResult{
		EventID: eventID,
		Symbol:  symbol,
		T0:      t0,
		AR:      ar,
		CAR:     car,
		Alpha:   alpha,
		Beta:    beta,
		CARCI:   ci,
	}
}
