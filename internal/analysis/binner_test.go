package analysis

import (
	"math"
	"testing"

	"MacroPull/internal/domain/models"
)

func TestQuantileBinCountsSum(t *testing.T) {
	n := 311
	x := make([]float64, n)
	y := make([]float64, n)
	for i := 0; i < n; i++ {
		x[i] = float64(i) * 0.013
		y[i] = math.Sin(float64(i))
	}
	bins, err := QuantileBin(x, y, 20, models.GroupProfit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bins) != 20 {
		t.Fatalf("bins = %d, want 20 for distinct x", len(bins))
	}
	total := 0
	for _, b := range bins {
		total += b.N
		if b.Which != models.GroupProfit {
			t.Fatalf("which = %q", b.Which)
		}
		if b.N == 0 {
			t.Fatalf("empty bin emitted")
		}
	}
	if total != n {
		t.Fatalf("bin counts sum to %d, want %d", total, n)
	}
}

func TestQuantileBinXMeansAscending(t *testing.T) {
	x := []float64{9, 1, 7, 3, 5, 2, 8, 4, 6, 0, 10, 11}
	y := make([]float64, len(x))
	for i, v := range x {
		y[i] = 2 * v
	}
	bins, err := QuantileBin(x, y, 4, models.GroupWage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 1; i < len(bins); i++ {
		if bins[i].XMean <= bins[i-1].XMean {
			t.Fatalf("x means not ascending: %v", bins)
		}
	}
}

func TestQuantileBinHeavyTiesCollapse(t *testing.T) {
	x := make([]float64, 30)
	y := make([]float64, 30)
	for i := range x {
		if i >= 27 {
			x[i] = 1
		}
		y[i] = float64(i)
	}
	bins, err := QuantileBin(x, y, 10, models.GroupProfit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bins) >= 10 {
		t.Fatalf("ties should collapse edges: got %d bins", len(bins))
	}
	total := 0
	for _, b := range bins {
		total += b.N
	}
	if total != 30 {
		t.Fatalf("counts sum to %d, want 30", total)
	}
}

func TestQuantileBinSingletonStats(t *testing.T) {
	bins, err := QuantileBin([]float64{1}, []float64{5}, 20, models.GroupProfit)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bins) != 1 {
		t.Fatalf("bins = %d, want 1", len(bins))
	}
	b := bins[0]
	if b.N != 1 || b.YMean != 5 || b.YStd != 0 || b.YSE != 0 {
		t.Fatalf("singleton stats wrong: %+v", b)
	}
}

func TestQuantileBinStdAndSE(t *testing.T) {
	// One bin holding {1, 3}: mean 2, sample std sqrt(2), se 1.
	bins, err := QuantileBin([]float64{0, 0}, []float64{1, 3}, 1, models.GroupWage)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(bins) != 1 {
		t.Fatalf("bins = %d, want 1", len(bins))
	}
	b := bins[0]
	if !almostEqual(b.YMean, 2, 1e-12) {
		t.Fatalf("y mean = %v", b.YMean)
	}
	if !almostEqual(b.YStd, math.Sqrt2, 1e-12) {
		t.Fatalf("y std = %v, want sqrt(2)", b.YStd)
	}
	if !almostEqual(b.YSE, 1, 1e-12) {
		t.Fatalf("y se = %v, want 1", b.YSE)
	}
}

func TestQuantileEdgesInterpolation(t *testing.T) {
	edges := quantileEdges([]float64{0, 1, 2, 3, 4}, 4)
	want := []float64{0, 1, 2, 3, 4}
	if len(edges) != len(want) {
		t.Fatalf("edges = %v", edges)
	}
	for i := range want {
		if !almostEqual(edges[i], want[i], 1e-12) {
			t.Fatalf("edges = %v, want %v", edges, want)
		}
	}

	edges = quantileEdges([]float64{0, 10}, 2)
	if len(edges) != 3 || !almostEqual(edges[1], 5, 1e-12) {
		t.Fatalf("median edge = %v, want interpolated 5", edges)
	}
}

func TestBinIndexBoundaryGoesUp(t *testing.T) {
	edges := []float64{0, 1, 2, 3}
	cases := []struct {
		value float64
		want  int
	}{
		{-0.5, 0},
		{0, 0},
		{0.5, 0},
		{1, 1},
		{1.5, 1},
		{2, 2},
		{3, 2},
		{9, 2},
	}
	for _, c := range cases {
		if got := binIndex(edges, c.value); got != c.want {
			t.Fatalf("binIndex(%v) = %d, want %d", c.value, got, c.want)
		}
	}
}

func TestQuantileBinEmptyInput(t *testing.T) {
	_, err := QuantileBin(nil, nil, 20, models.GroupProfit)
	if err == nil {
		t.Fatalf("expected error for empty input")
	}
}
