package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"MacroPull/internal/analysis"
	"MacroPull/internal/domain/models"
	drepo "MacroPull/internal/domain/repository"
	"MacroPull/pkg/config"
	"MacroPull/pkg/logger"
)

// Pipeline runs the fetch, transform, analyze, export sequence and
// keeps the latest result for the API layer.
type Pipeline struct {
	cfg      *config.Config
	source   drepo.SeriesSource
	exporter drepo.Exporter
	store    drepo.ResultStore
	pub      drepo.RunPublisher
	metrics  drepo.Metrics
	log      *logger.Logger

	mu     sync.RWMutex
	latest *models.AnalysisResult
	last   *models.RunSummary
}

// PipelineOption configures optional collaborators.
type PipelineOption func(*Pipeline)

// WithResultStore attaches a warehouse sink.
func WithResultStore(store drepo.ResultStore) PipelineOption {
	return func(p *Pipeline) { p.store = store }
}

// WithRunPublisher attaches a run announcement sink.
func WithRunPublisher(pub drepo.RunPublisher) PipelineOption {
	return func(p *Pipeline) { p.pub = pub }
}

// NewPipeline creates a pipeline instance.
func NewPipeline(cfg *config.Config, source drepo.SeriesSource, exporter drepo.Exporter, metrics drepo.Metrics, log *logger.Logger, opts ...PipelineOption) *Pipeline {
	p := &Pipeline{
		cfg:      cfg,
		source:   source,
		exporter: exporter,
		metrics:  metrics,
		log:      log,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Run executes one full pipeline pass. Fetch, analysis and file-export
// errors are fatal; warehouse and broker failures after the files are
// written are logged but do not fail the run.
func (p *Pipeline) Run(ctx context.Context) (*models.AnalysisResult, error) {
	started := time.Now().UTC()

	series, metadata, err := p.fetchAll(ctx)
	if err != nil {
		return nil, err
	}

	result, err := p.analyze(series)
	if err != nil {
		p.metrics.RecordError("analysis")
		return nil, err
	}
	result.Metadata = metadata

	if err := p.export(result); err != nil {
		p.metrics.RecordError("export")
		return nil, err
	}
	p.storeResults(ctx, result)

	summary := p.buildSummary(result, started)
	p.publish(ctx, summary)

	p.mu.Lock()
	p.latest = result
	p.last = summary
	p.mu.Unlock()

	p.log.Info("pipeline run finished",
		logger.Int("rows", len(result.Rows)),
		logger.Duration("elapsed", time.Since(started)))
	return result, nil
}

// Latest returns the most recent result, or nil before the first run.
func (p *Pipeline) Latest() *models.AnalysisResult {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.latest
}

// LastSummary returns the most recent run summary, or nil.
func (p *Pipeline) LastSummary() *models.RunSummary {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.last
}

func (p *Pipeline) fetchAll(ctx context.Context) (map[string]*models.ObservationSeries, map[string]*models.SeriesMeta, error) {
	start := time.Now()
	defer func() { p.metrics.RecordLatency("fetch", time.Since(start).Seconds()) }()

	series := make(map[string]*models.ObservationSeries, 4)
	metadata := make(map[string]*models.SeriesMeta, 4)
	for _, id := range p.cfg.SeriesIDs() {
		s, err := p.source.Series(ctx, id)
		if err != nil {
			return nil, nil, fmt.Errorf("pipeline: fetch %s: %w", id, err)
		}
		series[id] = s

		meta, err := p.source.Metadata(ctx, id)
		if err != nil {
			p.log.Warn("metadata unavailable", logger.String("series", id), logger.Error(err))
		} else {
			metadata[id] = meta
		}
	}
	return series, metadata, nil
}

func (p *Pipeline) analyze(series map[string]*models.ObservationSeries) (*models.AnalysisResult, error) {
	start := time.Now()
	defer func() { p.metrics.RecordLatency("analyze", time.Since(start).Seconds()) }()

	table, err := analysis.Align(series, p.cfg.SeriesIDs(), p.cfg.SampleStartDate())
	if err != nil {
		return nil, fmt.Errorf("pipeline: align: %w", err)
	}

	rows, err := analysis.Transform(table, analysis.SeriesRoles{
		Productivity: p.cfg.Fred.Series.Productivity,
		GDP:          p.cfg.Fred.Series.GDP,
		Profits:      p.cfg.Fred.Series.Profits,
		Compensation: p.cfg.Fred.Series.Compensation,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: transform: %w", err)
	}

	result, err := analysis.Analyze(rows, analysis.Options{
		HACLags:    p.cfg.Analysis.HACLags,
		Bins:       p.cfg.Analysis.Bins,
		ADFMaxLags: p.cfg.Analysis.ADFMaxLags,
	})
	if err != nil {
		return nil, fmt.Errorf("pipeline: analyze: %w", err)
	}
	return result, nil
}

// export writes the output files. The files are the primary
// deliverable of a run, so any failure here is fatal.
func (p *Pipeline) export(result *models.AnalysisResult) error {
	start := time.Now()
	defer func() { p.metrics.RecordLatency("export", time.Since(start).Seconds()) }()

	path, err := p.exporter.ExportDataset(result.Rows)
	if err != nil {
		return fmt.Errorf("pipeline: export dataset: %w", err)
	}
	p.metrics.RecordRows("dataset_csv", len(result.Rows))
	p.log.Debug("exported dataset", logger.String("path", path))

	if _, _, err := p.exporter.ExportRegressions(result.Regressions); err != nil {
		return fmt.Errorf("pipeline: export regressions: %w", err)
	}
	for which, bins := range result.Bins {
		if _, err := p.exporter.ExportBins(which, bins); err != nil {
			return fmt.Errorf("pipeline: export bins %s: %w", which, err)
		}
	}
	if _, _, err := p.exporter.ExportStationarity(result.Stationarity); err != nil {
		return fmt.Errorf("pipeline: export stationarity: %w", err)
	}
	return nil
}

func (p *Pipeline) storeResults(ctx context.Context, result *models.AnalysisResult) {
	if p.store == nil {
		return
	}
	start := time.Now()
	defer func() { p.metrics.RecordLatency("store", time.Since(start).Seconds()) }()

	if err := p.store.StoreRows(ctx, result.Rows); err != nil {
		p.logSinkError("store rows", err)
	} else {
		p.metrics.RecordRows("clickhouse_rows", len(result.Rows))
	}
	regs := make([]models.RegressionResult, 0, len(result.Regressions))
	for _, key := range []string{models.GroupProfit, models.GroupWage} {
		if r, ok := result.Regressions[key]; ok {
			regs = append(regs, r)
		}
	}
	if err := p.store.StoreRegressions(ctx, regs); err != nil {
		p.logSinkError("store regressions", err)
	}
}

func (p *Pipeline) buildSummary(result *models.AnalysisResult, started time.Time) *models.RunSummary {
	summary := &models.RunSummary{
		Environment: p.cfg.Environment,
		StartedAt:   started,
		FinishedAt:  time.Now().UTC(),
		Rows:        len(result.Rows),
		Annotations: make(map[string]string, len(result.Regressions)),
	}
	if len(result.Rows) > 0 {
		summary.FirstDate = result.Rows[0].Date
		summary.LastDate = result.Rows[len(result.Rows)-1].Date
	}
	for _, key := range []string{models.GroupProfit, models.GroupWage} {
		if r, ok := result.Regressions[key]; ok {
			summary.Regressions = append(summary.Regressions, r)
			summary.Annotations[key] = analysis.Annotation(&r)
		}
	}
	return summary
}

func (p *Pipeline) publish(ctx context.Context, summary *models.RunSummary) {
	if p.pub == nil {
		return
	}
	if err := p.pub.PublishRun(ctx, summary); err != nil {
		p.logSinkError("publish run", err)
	}
}

func (p *Pipeline) logSinkError(what string, err error) {
	p.metrics.RecordError("sink")
	p.log.Error(what+" failed", logger.Error(err))
}
