package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"MacroPull/internal/domain/models"
	drepo "MacroPull/internal/domain/repository"
	"MacroPull/pkg/clickhouse"
)

const (
	rowsTable        = "macro_analysis_rows"
	regressionsTable = "macro_regressions"
)

var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS ` + rowsTable + ` (
		date Date,
		prod_yoy_pct Float64,
		profit_share_pct Float64,
		wage_share_pct Float64,
		d_profit_share_yoy_pp Float64,
		d_wage_share_yoy_pp Float64,
		inserted_at DateTime DEFAULT now()
	) ENGINE = ReplacingMergeTree(inserted_at)
	ORDER BY date`,
	`CREATE TABLE IF NOT EXISTS ` + regressionsTable + ` (
		dependent_variable String,
		intercept Float64,
		slope Float64,
		r_squared Float64,
		correlation Float64,
		hac_tstat Float64,
		lag Int32,
		n Int32,
		inserted_at DateTime DEFAULT now()
	) ENGINE = ReplacingMergeTree(inserted_at)
	ORDER BY dependent_variable`,
}

// ClickHouseResultStore persists analysis output to ClickHouse.
type ClickHouseResultStore struct {
	client *clickhouse.Client
	db     *sql.DB
}

// NewClickHouseResultStore wraps a ClickHouse client as a ResultStore.
func NewClickHouseResultStore(client *clickhouse.Client) drepo.ResultStore {
	return &ClickHouseResultStore{client: client, db: client.DB()}
}

func (s *ClickHouseResultStore) Init(ctx context.Context) error {
	return s.client.InitSchema(ctx, schemaStatements)
}

func (s *ClickHouseResultStore) Health(ctx context.Context) error {
	return s.client.Health(ctx)
}

func (s *ClickHouseResultStore) Close() error {
	return s.client.Close()
}

// StoreRows inserts the analysis table in chunks.
func (s *ClickHouseResultStore) StoreRows(ctx context.Context, rows []models.AnalysisRow) error {
	if len(rows) == 0 {
		return nil
	}
	const chunkSize = 1000
	for start := 0; start < len(rows); start += chunkSize {
		end := start + chunkSize
		if end > len(rows) {
			end = len(rows)
		}

		values := make([]string, 0, end-start)
		args := make([]interface{}, 0, (end-start)*6)
		for _, r := range rows[start:end] {
			values = append(values, "(?, ?, ?, ?, ?, ?)")
			args = append(args,
				r.Date,
				r.ProdYoYPct,
				r.ProfitSharePct,
				r.WageSharePct,
				r.DProfitShareYoYPp,
				r.DWageShareYoYPp,
			)
		}
		q := fmt.Sprintf(
			"INSERT INTO %s (date, prod_yoy_pct, profit_share_pct, wage_share_pct, d_profit_share_yoy_pp, d_wage_share_yoy_pp) VALUES %s",
			rowsTable, strings.Join(values, ","))
		if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
			return fmt.Errorf("clickhouse: store rows: %w", err)
		}
	}
	return nil
}

// StoreRegressions inserts regression results.
func (s *ClickHouseResultStore) StoreRegressions(ctx context.Context, results []models.RegressionResult) error {
	if len(results) == 0 {
		return nil
	}
	values := make([]string, 0, len(results))
	args := make([]interface{}, 0, len(results)*8)
	for _, r := range results {
		values = append(values, "(?, ?, ?, ?, ?, ?, ?, ?)")
		args = append(args,
			r.DependentVariable,
			r.Intercept,
			r.Slope,
			r.RSquared,
			r.Correlation,
			r.HACTStat,
			int32(r.Lag),
			int32(r.N),
		)
	}
	q := fmt.Sprintf(
		"INSERT INTO %s (dependent_variable, intercept, slope, r_squared, correlation, hac_tstat, lag, n) VALUES %s",
		regressionsTable, strings.Join(values, ","))
	if _, err := s.db.ExecContext(ctx, q, args...); err != nil {
		return fmt.Errorf("clickhouse: store regressions: %w", err)
	}
	return nil
}
