//go:build wireinject
// +build wireinject

package di

import (
	"MacroPull/pkg/config"
	"MacroPull/pkg/server"

	"github.com/google/wire"
)

// InitializeApp wires up all dependencies and returns the application.
// Wire generates the implementation of this function.
func InitializeApp(cfg *config.Config, flags Flags) (*server.App, error) {
	wire.Build(
		ProvideLogger,
		ProvideMetrics,

		// Infrastructure
		ProvideCache,
		ProvideHTTPClient,
		ProvideResultStore,
		ProvideRunPublisher,

		// Repositories
		ProvideSeriesSource,
		ProvideExporter,

		// Use cases
		ProvidePipeline,

		// API and application server
		ProvideResultsHandler,
		ProvideApp,
	)
	return &server.App{}, nil
}
