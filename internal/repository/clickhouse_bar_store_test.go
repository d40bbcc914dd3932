package repository

import (
	"strings"
	"testing"

	"EventPulse/internal/domain/repository"
)

func TestBarsQueryHourlyReadsStoredRows(t *testing.T) {
	q := barsQuery(repository.IV1h)
	if !strings.Contains(q, "FROM bars_1h FINAL") {
		t.Fatalf("hourly query should read the base table FINAL, got:\n%s", q)
	}
	if strings.Contains(q, "toStartOfInterval") {
		t.Fatalf("hourly query should not resample, got:\n%s", q)
	}
}

func TestBarsQueryCoarserIntervalResamples(t *testing.T) {
	q := barsQuery(repository.IV4h)
	if !strings.Contains(q, "toStartOfInterval(ts, INTERVAL 14400 SECOND)") {
		t.Fatalf("4h query should bucket by 14400s, got:\n%s", q)
	}
	for _, agg := range []string{"argMin(open, ts)", "argMax(close, ts)", "max(high)", "min(low)", "sum(volume)"} {
		if !strings.Contains(q, agg) {
			t.Fatalf("4h query missing %s:\n%s", agg, q)
		}
	}
}
