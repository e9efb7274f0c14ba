package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"

	drepo "MacroPull/internal/domain/repository"
	"MacroPull/internal/usecase"
	"MacroPull/pkg/config"
	xhttp "MacroPull/pkg/http"
	applogger "MacroPull/pkg/logger"
)

// App encapsulates the application lifecycle: one pipeline pass in run
// mode, pipeline plus the results API in serve mode.
type App struct {
	cfg        *config.Config
	log        *applogger.Logger
	pipeline   *usecase.Pipeline
	handler    xhttp.Handler
	store      drepo.ResultStore
	pub        drepo.RunPublisher
	httpServer *xhttp.Server
}

// New creates the App. Store and publisher are nil when disabled.
func New(
	cfg *config.Config,
	log *applogger.Logger,
	pipeline *usecase.Pipeline,
	handler xhttp.Handler,
	store drepo.ResultStore,
	pub drepo.RunPublisher,
) *App {
	return &App{
		cfg:      cfg,
		log:      log,
		pipeline: pipeline,
		handler:  handler,
		store:    store,
		pub:      pub,
	}
}

// RunOnce executes a single pipeline pass and releases sinks.
func (a *App) RunOnce(ctx context.Context) error {
	defer a.closeSinks()

	if err := a.initStore(ctx); err != nil {
		return err
	}
	_, err := a.pipeline.Run(ctx)
	return err
}

// Serve runs the pipeline once, then serves the results API until a
// termination signal arrives.
func (a *App) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	defer a.closeSinks()

	if err := a.initStore(ctx); err != nil {
		return err
	}
	if _, err := a.pipeline.Run(ctx); err != nil {
		return err
	}

	a.httpServer = xhttp.NewServer(a.handler,
		xhttp.WithPort(a.cfg.Server.Port),
		xhttp.WithTimeouts(a.cfg.Server.ReadTimeout, a.cfg.Server.WriteTimeout, a.cfg.Server.ShutdownTimeout),
		xhttp.WithLogger(a.log),
	)
	a.httpServer.Echo().GET("/healthz", a.health)

	if err := a.httpServer.Start(); err != nil {
		return err
	}
	a.log.Info("serving results api", applogger.Int("port", a.cfg.Server.Port))

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case <-sigCh:
		a.log.Info("shutdown signal received")
	case <-ctx.Done():
	}
	return a.shutdown()
}

func (a *App) initStore(ctx context.Context) error {
	if a.store == nil {
		return nil
	}
	if err := a.store.Init(ctx); err != nil {
		return err
	}
	return nil
}

func (a *App) health(c echo.Context) error {
	status := map[string]string{"status": "ok"}
	if a.store != nil {
		if err := a.store.Health(c.Request().Context()); err != nil {
			status["status"] = "degraded"
			status["clickhouse"] = err.Error()
			return c.JSON(http.StatusServiceUnavailable, status)
		}
		status["clickhouse"] = "ok"
	}
	return c.JSON(http.StatusOK, status)
}

// shutdown uses a fresh context so a canceled run context still allows
// a graceful drain.
func (a *App) shutdown() error {
	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := a.httpServer.Stop(shutdownCtx); err != nil {
		a.log.Error("http shutdown error", applogger.Error(err))
		return err
	}
	a.log.Info("shutdown complete")
	return nil
}

func (a *App) closeSinks() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.log.Warn("result store close error", applogger.Error(err))
		}
	}
	if a.pub != nil {
		if err := a.pub.Close(); err != nil {
			a.log.Warn("run publisher close error", applogger.Error(err))
		}
	}
}
