package analysis

import (
	"fmt"
	"math"

	"MacroPull/internal/domain/models"
)

// yoyLag is the year-over-year lookback in quarters.
const yoyLag = 4

// SeriesRoles maps the joined table's columns to their economic meaning.
type SeriesRoles struct {
	Productivity string
	GDP          string
	Profits      string
	Compensation string
}

// Transform derives the analysis table from a joined quarterly table:
// log-difference YoY productivity growth, profit and wage shares of GDP,
// and YoY share deltas in percentage points. The first yoyLag rows have no
// lookback and are dropped; every returned row is fully populated.
func Transform(t *JoinedTable, roles SeriesRoles) ([]models.AnalysisRow, error) {
	prodCol := t.Column(roles.Productivity)
	gdpCol := t.Column(roles.GDP)
	profitCol := t.Column(roles.Profits)
	compCol := t.Column(roles.Compensation)
	if prodCol < 0 || gdpCol < 0 || profitCol < 0 || compCol < 0 {
		return nil, fmt.Errorf("transform: joined table is missing a required series column")
	}

	n := len(t.Rows)

	// Shares are needed on the full axis so the YoY delta has its lag.
	logProd := make([]float64, n)
	profitShare := make([]float64, n)
	wageShare := make([]float64, n)
	for i, row := range t.Rows {
		prod := row.Values[prodCol]
		if prod <= 0 {
			return nil, &InvalidValueError{Series: roles.Productivity, Date: row.Date, Value: prod}
		}
		logProd[i] = math.Log(prod)

		gdp := row.Values[gdpCol]
		if gdp == 0 {
			return nil, &DivisionByZeroError{Series: roles.GDP, Date: row.Date}
		}
		profitShare[i] = 100 * row.Values[profitCol] / gdp
		wageShare[i] = 100 * row.Values[compCol] / gdp
	}

	if n <= yoyLag {
		return nil, nil
	}

	rows := make([]models.AnalysisRow, 0, n-yoyLag)
	for i := yoyLag; i < n; i++ {
		rows = append(rows, models.AnalysisRow{
			Date:              t.Rows[i].Date,
			ProdYoYPct:        100 * (logProd[i] - logProd[i-yoyLag]),
			ProfitSharePct:    profitShare[i],
			WageSharePct:      wageShare[i],
			DProfitShareYoYPp: profitShare[i] - profitShare[i-yoyLag],
			DWageShareYoYPp:   wageShare[i] - wageShare[i-yoyLag],
		})
	}
	return rows, nil
}

// Columns extracts the regression vectors from the analysis table.
func Columns(rows []models.AnalysisRow) (x, profit, wage []float64) {
	x = make([]float64, len(rows))
	profit = make([]float64, len(rows))
	wage = make([]float64, len(rows))
	for i, r := range rows {
		x[i] = r.ProdYoYPct
		profit[i] = r.DProfitShareYoYPp
		wage[i] = r.DWageShareYoYPp
	}
	return x, profit, wage
}
