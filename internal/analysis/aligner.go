package analysis

import (
	"fmt"
	"time"

	"MacroPull/internal/domain/models"
	"MacroPull/pkg/util"
)

// JoinedRow is one date present in every input series, with one value per
// series in column order.
type JoinedRow struct {
	Date   time.Time
	Values []float64
}

// JoinedTable is the inner join of all input series on exact date equality,
// ascending by date.
type JoinedTable struct {
	IDs  []string
	Rows []JoinedRow
}

// Column returns the index of a series id, or -1.
func (t *JoinedTable) Column(id string) int {
	for i, v := range t.IDs {
		if v == id {
			return i
		}
	}
	return -1
}

// Align inner-joins the given series on exact date equality, in the column
// order of ids, and enforces the quarterly-cadence and sample-start
// invariants. Either the whole table is valid or an error is returned.
func Align(series map[string]*models.ObservationSeries, ids []string, sampleStart time.Time) (*JoinedTable, error) {
	if len(ids) == 0 {
		return nil, fmt.Errorf("align: no series ids")
	}
	for _, id := range ids {
		s, ok := series[id]
		if !ok || s == nil || s.Len() == 0 {
			return nil, fmt.Errorf("align: series %s is missing or empty", id)
		}
	}

	// Per-series date index; the first series drives iteration order, which
	// is ascending because each ObservationSeries is date-ordered.
	lookups := make([]map[int64]float64, len(ids))
	for i, id := range ids {
		m := make(map[int64]float64, series[id].Len())
		for _, obs := range series[id].Observations {
			m[obs.Date.Unix()] = obs.Value
		}
		lookups[i] = m
	}

	var rows []JoinedRow
	for _, obs := range series[ids[0]].Observations {
		key := obs.Date.Unix()
		values := make([]float64, len(ids))
		values[0] = obs.Value
		joined := true
		for i := 1; i < len(ids); i++ {
			v, ok := lookups[i][key]
			if !ok {
				joined = false
				break
			}
			values[i] = v
		}
		if joined {
			rows = append(rows, JoinedRow{Date: obs.Date, Values: values})
		}
	}

	if len(rows) == 0 {
		return nil, fmt.Errorf("align: no common dates across %d series", len(ids))
	}

	// Cadence: every consecutive pair one quarter apart.
	for i := 1; i < len(rows); i++ {
		if util.QuartersBetween(rows[i-1].Date, rows[i].Date) != 1 {
			return nil, &FrequencyMismatchError{Prev: rows[i-1].Date, Next: rows[i].Date}
		}
	}

	// Sample start: the joined axis must begin no later than required.
	if rows[0].Date.After(sampleStart) {
		return nil, &SampleRangeError{Earliest: rows[0].Date, Required: sampleStart}
	}

	return &JoinedTable{IDs: ids, Rows: rows}, nil
}
