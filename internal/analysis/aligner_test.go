package analysis

import (
	"errors"
	"testing"
	"time"

	"MacroPull/internal/domain/models"
)

func quarterly(id string, start time.Time, values []float64) *models.ObservationSeries {
	obs := make([]models.Observation, len(values))
	d := start
	for i, v := range values {
		obs[i] = models.Observation{Date: d, Value: v}
		d = d.AddDate(0, 3, 0)
	}
	return &models.ObservationSeries{ID: id, Observations: obs}
}

func TestAlignInnerJoin(t *testing.T) {
	start := time.Date(1947, 1, 1, 0, 0, 0, 0, time.UTC)
	a := quarterly("A", start, []float64{1, 2, 3, 4})
	// B starts one quarter later, so the join drops A's first row.
	b := quarterly("B", start.AddDate(0, 3, 0), []float64{20, 30, 40, 50})

	table, err := Align(map[string]*models.ObservationSeries{"A": a, "B": b},
		[]string{"A", "B"}, start.AddDate(0, 3, 0))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(table.Rows) != 3 {
		t.Fatalf("rows = %d, want 3", len(table.Rows))
	}
	first := table.Rows[0]
	if !first.Date.Equal(start.AddDate(0, 3, 0)) {
		t.Fatalf("first date = %v", first.Date)
	}
	if first.Values[0] != 2 || first.Values[1] != 20 {
		t.Fatalf("first values = %v", first.Values)
	}
	if table.Column("B") != 1 || table.Column("Z") != -1 {
		t.Fatalf("column lookup broken")
	}
}

func TestAlignFrequencyMismatch(t *testing.T) {
	start := time.Date(1947, 1, 1, 0, 0, 0, 0, time.UTC)
	a := quarterly("A", start, []float64{1, 2, 3, 4, 5, 6})
	// Puncture B so the joined axis skips a quarter.
	b := quarterly("B", start, []float64{1, 2, 3, 4, 5, 6})
	b.Observations = append(b.Observations[:2], b.Observations[3:]...)

	_, err := Align(map[string]*models.ObservationSeries{"A": a, "B": b},
		[]string{"A", "B"}, start)
	var freqErr *FrequencyMismatchError
	if !errors.As(err, &freqErr) {
		t.Fatalf("expected FrequencyMismatchError, got %v", err)
	}
}

func TestAlignSampleStartsTooLate(t *testing.T) {
	start := time.Date(1960, 1, 1, 0, 0, 0, 0, time.UTC)
	a := quarterly("A", start, []float64{1, 2, 3})
	b := quarterly("B", start, []float64{1, 2, 3})

	_, err := Align(map[string]*models.ObservationSeries{"A": a, "B": b},
		[]string{"A", "B"}, time.Date(1947, 1, 1, 0, 0, 0, 0, time.UTC))
	var rangeErr *SampleRangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("expected SampleRangeError, got %v", err)
	}
}

func TestAlignMissingSeries(t *testing.T) {
	start := time.Date(1947, 1, 1, 0, 0, 0, 0, time.UTC)
	a := quarterly("A", start, []float64{1})
	_, err := Align(map[string]*models.ObservationSeries{"A": a}, []string{"A", "B"}, start)
	if err == nil {
		t.Fatalf("expected error for missing series")
	}
}

func TestAlignNoCommonDates(t *testing.T) {
	a := quarterly("A", time.Date(1947, 1, 1, 0, 0, 0, 0, time.UTC), []float64{1, 2})
	b := quarterly("B", time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), []float64{1, 2})
	_, err := Align(map[string]*models.ObservationSeries{"A": a, "B": b},
		[]string{"A", "B"}, time.Date(1947, 1, 1, 0, 0, 0, 0, time.UTC))
	if err == nil {
		t.Fatalf("expected error for disjoint series")
	}
}
