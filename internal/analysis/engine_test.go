package analysis

import (
	"math"
	"math/rand"
	"testing"
	"time"

	"MacroPull/internal/domain/models"
)

func syntheticRows(n int) []models.AnalysisRow {
	rng := rand.New(rand.NewSource(99))
	rows := make([]models.AnalysisRow, n)
	d := time.Date(1948, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		x := 2 + 1.5*rng.NormFloat64()
		rows[i] = models.AnalysisRow{
			Date:              d,
			ProdYoYPct:        x,
			ProfitSharePct:    10 + 0.3*rng.NormFloat64(),
			WageSharePct:      56 + 0.3*rng.NormFloat64(),
			DProfitShareYoYPp: 0.25*x + 0.5*rng.NormFloat64(),
			DWageShareYoYPp:   -0.3*x + 0.5*rng.NormFloat64(),
		}
		d = d.AddDate(0, 3, 0)
	}
	return rows
}

func TestAnalyzeProducesFullResult(t *testing.T) {
	rows := syntheticRows(311)
	res, err := Analyze(rows, DefaultOptions())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(res.Rows) != 311 {
		t.Fatalf("rows = %d", len(res.Rows))
	}

	profit, ok := res.Regressions[models.GroupProfit]
	if !ok {
		t.Fatalf("missing profit regression")
	}
	wage, ok := res.Regressions[models.GroupWage]
	if !ok {
		t.Fatalf("missing wage regression")
	}
	if profit.N != 311 || wage.N != 311 {
		t.Fatalf("regression n = %d, %d", profit.N, wage.N)
	}
	if profit.Lag != 4 {
		t.Fatalf("lag = %d, want 4", profit.Lag)
	}
	if profit.Slope <= 0 {
		t.Fatalf("profit slope = %v, want positive", profit.Slope)
	}
	if wage.Slope >= 0 {
		t.Fatalf("wage slope = %v, want negative", wage.Slope)
	}
	if math.Abs(profit.Slope-0.25) > 0.1 {
		t.Fatalf("profit slope = %v, want near 0.25", profit.Slope)
	}

	for _, which := range []string{models.GroupProfit, models.GroupWage} {
		bins := res.Bins[which]
		if len(bins) == 0 {
			t.Fatalf("no bins for %s", which)
		}
		total := 0
		for _, b := range bins {
			total += b.N
		}
		if total != 311 {
			t.Fatalf("%s bin counts sum to %d", which, total)
		}
	}

	if len(res.Stationarity) != 3 {
		t.Fatalf("stationarity results = %d, want 3", len(res.Stationarity))
	}
	for _, v := range []string{models.VarProdYoY, models.VarDProfitShare, models.VarDWageShare} {
		if _, ok := res.Stationarity[v]; !ok {
			t.Fatalf("missing stationarity result for %s", v)
		}
	}
}

func TestAnalyzeTooFewRows(t *testing.T) {
	if _, err := Analyze(syntheticRows(1), DefaultOptions()); err == nil {
		t.Fatalf("expected error for a single row")
	}
}
