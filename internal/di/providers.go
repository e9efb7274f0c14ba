package di

import (
	"fmt"
	"time"

	"MacroPull/internal/domain/repository"
	"MacroPull/internal/handler/api"
	internalrepo "MacroPull/internal/repository"
	"MacroPull/internal/service/fred"
	"MacroPull/internal/usecase"
	"MacroPull/pkg/cache"
	pkgch "MacroPull/pkg/clickhouse"
	"MacroPull/pkg/config"
	xhttp "MacroPull/pkg/http"
	pkgkafka "MacroPull/pkg/kafka"
	applogger "MacroPull/pkg/logger"
	"MacroPull/pkg/metrics"
	"MacroPull/pkg/server"
)

// Flags carries per-invocation switches that are not configuration.
type Flags struct {
	NoNetwork bool
	Refresh   bool
}

// ProvideLogger creates the application logger. Development gets a
// console format, everything else JSON.
func ProvideLogger(cfg *config.Config) (*applogger.Logger, error) {
	format := "json"
	if cfg.Environment == "development" {
		format = "console"
	}
	return applogger.New(&applogger.Config{
		Level:  "info",
		Format: format,
		Output: "stdout",
	})
}

// ProvideMetrics creates the Prometheus metrics recorder.
func ProvideMetrics() repository.Metrics {
	return metrics.New()
}

// ProvideCache builds the layered series cache: in-memory L1 over a
// durable backing. File backing keeps the no-network mode working
// across process restarts; Redis replaces it for shared deployments.
func ProvideCache(cfg *config.Config) (cache.Service, error) {
	var backing cache.Service
	if cfg.Cache.Redis.Enabled {
		rc, err := cache.NewRedisCache(
			cache.WithRedisAddr(cfg.Cache.Redis.Addr),
			cache.WithRedisPassword(cfg.Cache.Redis.Password),
			cache.WithRedisDB(cfg.Cache.Redis.DB),
		)
		if err != nil {
			return nil, fmt.Errorf("redis cache: %w", err)
		}
		backing = rc
	} else {
		fc, err := cache.NewFileCache(cfg.Cache.Dir)
		if err != nil {
			return nil, fmt.Errorf("file cache: %w", err)
		}
		backing = fc
	}
	return cache.NewLayeredCache(backing), nil
}

// ProvideHTTPClient creates the outbound HTTP client.
func ProvideHTTPClient(cfg *config.Config) *xhttp.Client {
	return xhttp.NewClient(
		xhttp.WithTimeout(cfg.Fred.Timeout),
		xhttp.WithRetries(2, time.Second),
	)
}

// ProvideSeriesSource creates the cache-backed FRED client.
func ProvideSeriesSource(
	cfg *config.Config,
	flags Flags,
	client *xhttp.Client,
	cacheSvc cache.Service,
	log *applogger.Logger,
	m repository.Metrics,
) (repository.SeriesSource, error) {
	return fred.New(cfg.Fred.APIKey, cfg.Fred.BaseURL, client, cacheSvc, log,
		fred.WithNoNetwork(flags.NoNetwork),
		fred.WithForceRefresh(flags.Refresh),
		fred.WithCacheTTL(cfg.Cache.TTL),
		fred.WithMetrics(m),
	)
}

// ProvideExporter creates the file exporter.
func ProvideExporter(cfg *config.Config) (repository.Exporter, error) {
	return internalrepo.NewFileExporter(cfg.Output.ProcessedDir, cfg.Output.ResultsDir)
}

// ProvideResultStore creates the ClickHouse sink, or nil when disabled.
func ProvideResultStore(cfg *config.Config) (repository.ResultStore, error) {
	if !cfg.ClickHouse.Enabled {
		return nil, nil
	}
	client, err := pkgch.NewClient(
		pkgch.WithHost(cfg.ClickHouse.Host),
		pkgch.WithPort(cfg.ClickHouse.Port),
		pkgch.WithDatabase(cfg.ClickHouse.Database),
		pkgch.WithCredentials(cfg.ClickHouse.User, cfg.ClickHouse.Password),
		pkgch.WithHTTP(cfg.ClickHouse.UseHTTP),
		pkgch.WithMaxConnections(10, 5),
		pkgch.WithTimeouts(cfg.ClickHouse.DialTimeout, cfg.ClickHouse.ReadTimeout, cfg.ClickHouse.WriteTimeout),
		pkgch.WithMaxExecutionTime(cfg.ClickHouse.MaxExecutionTime),
	)
	if err != nil {
		return nil, fmt.Errorf("clickhouse client: %w", err)
	}
	return internalrepo.NewClickHouseResultStore(client), nil
}

// ProvideRunPublisher creates the Kafka sink, or nil when disabled.
func ProvideRunPublisher(cfg *config.Config) (repository.RunPublisher, error) {
	if !cfg.Kafka.Enabled {
		return nil, nil
	}
	producer, err := pkgkafka.NewProducer(
		pkgkafka.WithBrokers(cfg.Kafka.Brokers),
		pkgkafka.WithCompression(cfg.Kafka.Compression),
		pkgkafka.WithRequiredAcks(cfg.Kafka.RequiredAcks),
		pkgkafka.WithMaxAttempts(cfg.Kafka.Producer.MaxAttempts),
		pkgkafka.WithBatchSize(cfg.Kafka.Producer.BatchSize),
		pkgkafka.WithBatchTimeout(cfg.Kafka.Producer.Linger),
		pkgkafka.WithTimeouts(cfg.Kafka.Producer.WriteTimeout, cfg.Kafka.Producer.ReadTimeout),
	)
	if err != nil {
		return nil, fmt.Errorf("kafka producer: %w", err)
	}
	return internalrepo.NewKafkaRunPublisher(producer, cfg.Kafka.Topic), nil
}

// ProvidePipeline assembles the analysis pipeline with its sinks.
func ProvidePipeline(
	cfg *config.Config,
	source repository.SeriesSource,
	exporter repository.Exporter,
	m repository.Metrics,
	log *applogger.Logger,
	store repository.ResultStore,
	pub repository.RunPublisher,
) *usecase.Pipeline {
	opts := make([]usecase.PipelineOption, 0, 2)
	if store != nil {
		opts = append(opts, usecase.WithResultStore(store))
	}
	if pub != nil {
		opts = append(opts, usecase.WithRunPublisher(pub))
	}
	return usecase.NewPipeline(cfg, source, exporter, m, log, opts...)
}

// ProvideResultsHandler creates the API handler.
func ProvideResultsHandler(pipeline *usecase.Pipeline, log *applogger.Logger) xhttp.Handler {
	return api.NewResultsHandler(pipeline, log)
}

// ProvideApp creates the application server.
func ProvideApp(
	cfg *config.Config,
	log *applogger.Logger,
	pipeline *usecase.Pipeline,
	handler xhttp.Handler,
	store repository.ResultStore,
	pub repository.RunPublisher,
) *server.App {
	return server.New(cfg, log, pipeline, handler, store, pub)
}
