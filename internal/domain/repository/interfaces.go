package repository

import (
	"context"

	"MacroPull/internal/domain/models"
)

// SeriesSource fetches observation series and metadata, cache-backed.
type SeriesSource interface {
	Series(ctx context.Context, id string) (*models.ObservationSeries, error)
	Metadata(ctx context.Context, id string) (*models.SeriesMeta, error)
}

// ResultStore persists analysis output to a warehouse.
type ResultStore interface {
	Init(ctx context.Context) error // ensure tables, health checks
	StoreRows(ctx context.Context, rows []models.AnalysisRow) error
	StoreRegressions(ctx context.Context, results []models.RegressionResult) error
	Health(ctx context.Context) error
	Close() error
}

// RunPublisher announces completed runs to downstream consumers.
type RunPublisher interface {
	PublishRun(ctx context.Context, summary *models.RunSummary) error
	Close() error
}

// Exporter writes analysis output to files for external consumers.
type Exporter interface {
	ExportDataset(rows []models.AnalysisRow) (string, error)
	ExportRegressions(results map[string]models.RegressionResult) (jsonPath, csvPath string, err error)
	ExportBins(which string, bins []models.BinRecord) (string, error)
	ExportStationarity(results map[string]models.StationarityResult) (jsonPath, csvPath string, err error)
}

// Metrics records pipeline instrumentation.
type Metrics interface {
	RecordSeriesFetched(series, source string)
	RecordError(kind string)
	RecordRows(table string, n int)
	RecordLatency(stage string, seconds float64)
}
