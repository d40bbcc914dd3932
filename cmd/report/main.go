// Command report runs an offline event study from CSV files and prints the
// aggregate abnormal-return curve to stdout.
package main

import (
	"flag"
	"fmt"
	"math"
	"os"

	"EventPulse/internal/domain/models"
	"EventPulse/internal/repository"
	"EventPulse/internal/services/study"
)

func main() {
	var (
		pricesPath = flag.String("prices", "", "path to hourly bars CSV")
		eventsPath = flag.String("events", "", "path to events CSV")
		symbol     = flag.String("symbol", "", "target symbol")
		benchmark  = flag.String("benchmark", "", "benchmark symbol for the market model (optional)")
		estStart   = flag.Int("est-start", -240, "estimation window start, hours relative to event")
		estEnd     = flag.Int("est-end", -24, "estimation window end, hours relative to event")
		evStart    = flag.Int("event-start", -24, "event window start, hours relative to event")
		evEnd      = flag.Int("event-end", 24, "event window end, hours relative to event")
		bootstrap  = flag.Bool("bootstrap", false, "compute per-event bootstrap intervals")
		nBoot      = flag.Int("n-boot", 1000, "bootstrap iterations")
		seed       = flag.Int64("seed", 42, "bootstrap RNG seed")
	)
	flag.Parse()

	if *pricesPath == "" || *eventsPath == "" || *symbol == "" {
		fmt.Fprintln(os.Stderr, "usage: report -prices bars.csv -events events.csv -symbol BTC-USD [-benchmark BTC-USD]")
		os.Exit(2)
	}

	bars, err := repository.LoadBarsCSV(*pricesPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load prices: %v\n", err)
		os.Exit(1)
	}
	events, err := repository.LoadEventsCSV(*eventsPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load events: %v\n", err)
		os.Exit(1)
	}

	cfg := study.Config{
		Benchmark:     *benchmark,
		UseBootstrap:  *bootstrap,
		BootstrapIter: *nBoot,
		Seed:          *seed,
	}
	wins := models.Windows{
		Estimation: models.Window{Start: *estStart, End: *estEnd},
		Event:      models.Window{Start: *evStart, End: *evEnd},
	}

	// The benchmark series comes from the same price table; Run selects the
	// benchmark symbol's rows itself.
	res, err := study.Run(bars, events, *symbol, bars, cfg, wins)
	if err != nil {
		fmt.Fprintf(os.Stderr, "study: %v\n", err)
		os.Exit(1)
	}

	printReport(res, *benchmark)
}

func printReport(res *models.AggregateResult, benchmark string) {
	fmt.Printf("Event study: %s", res.Symbol)
	if benchmark != "" {
		fmt.Printf(" vs %s", benchmark)
	}
	fmt.Printf(" (%d events)\n", len(res.PerEvent))
	fmt.Printf("Event window: [%d, %d] hours\n\n", res.Window.Start, res.Window.End)

	fmt.Println("  hour    mean AR   mean CAR")
	for i, ar := range res.MeanAR.Values {
		hour := res.MeanAR.StartHour + i
		fmt.Printf("  %+4d  %s  %s\n", hour, fmtVal(ar), fmtVal(res.MeanCAR.Values[i]))
	}
	fmt.Println()

	if v, ok := res.MeanCAR.LastDefined(); ok {
		fmt.Printf("Terminal mean CAR: %+.6f\n", v)
	} else {
		fmt.Println("Terminal mean CAR: not available")
	}
	if res.CARCI.Valid {
		fmt.Printf("95%% CI (cross-event): [%+.6f, %+.6f]\n", res.CARCI.Low, res.CARCI.High)
	} else {
		fmt.Println("95% CI: not available (needs at least 5 events with a terminal CAR)")
	}

	for _, e := range res.PerEvent {
		line := fmt.Sprintf("  %s  t0=%s  alpha=%+.6f beta=%+.4f", e.EventID, e.T0.Format("2006-01-02 15:04"), e.Alpha, e.Beta)
		if v, ok := e.CAR.LastDefined(); ok {
			line += fmt.Sprintf("  car=%+.6f", v)
		}
		if e.CARCI.Valid {
			line += fmt.Sprintf("  ci=[%+.6f, %+.6f]", e.CARCI.Low, e.CARCI.High)
		}
		fmt.Println(line)
	}
}

func fmtVal(v float64) string {
	if math.IsNaN(v) {
		return "       --"
	}
	return fmt.Sprintf("%+.6f", v)
}
