package api

import (
	"github.com/labstack/echo/v4"

	"MacroPull/internal/domain/models"
	"MacroPull/internal/usecase"
	xhttp "MacroPull/pkg/http"
	applogger "MacroPull/pkg/logger"
	"MacroPull/pkg/util"
)

// ResultsHandler serves analysis output over HTTP. All endpoints read
// the pipeline's latest in-memory result; a 404 before the first run
// means no analysis has finished yet.
type ResultsHandler struct {
	pipeline *usecase.Pipeline
	log      *applogger.Logger
}

// NewResultsHandler creates the results handler.
func NewResultsHandler(pipeline *usecase.Pipeline, log *applogger.Logger) *ResultsHandler {
	return &ResultsHandler{pipeline: pipeline, log: log}
}

// RegisterRoutes mounts the API endpoints.
func (h *ResultsHandler) RegisterRoutes(e *echo.Echo) {
	g := e.Group("/api")
	g.GET("/dataset", h.Dataset)
	g.GET("/regressions", h.Regressions)
	g.GET("/regressions/:which", h.Regression)
	g.GET("/bins/:which", h.Bins)
	g.GET("/stationarity", h.Stationarity)
	g.GET("/summary", h.Summary)
}

func (h *ResultsHandler) latest() (*models.AnalysisResult, error) {
	result := h.pipeline.Latest()
	if result == nil {
		return nil, xhttp.NotFoundError("no analysis result available yet")
	}
	return result, nil
}

// Dataset returns the analysis table, optionally filtered by date
// range and truncated to a row limit.
func (h *ResultsHandler) Dataset(c echo.Context) error {
	result, err := h.latest()
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}

	req := new(models.DatasetRequest)
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	rows := result.Rows
	if req.From != "" {
		from, ok := util.ParseDate(req.From)
		if !ok {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("invalid from date %q", req.From))
		}
		for len(rows) > 0 && rows[0].Date.Before(from) {
			rows = rows[1:]
		}
	}
	if req.To != "" {
		to, ok := util.ParseDate(req.To)
		if !ok {
			return xhttp.AppErrorResponse(c, xhttp.BadRequestErrorf("invalid to date %q", req.To))
		}
		for len(rows) > 0 && rows[len(rows)-1].Date.After(to) {
			rows = rows[:len(rows)-1]
		}
	}
	if req.Limit > 0 && len(rows) > req.Limit {
		rows = rows[:req.Limit]
	}

	return xhttp.ListResponse(c, rows, int64(len(rows)))
}

// Regressions returns both fitted regressions.
func (h *ResultsHandler) Regressions(c echo.Context) error {
	result, err := h.latest()
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, result.Regressions)
}

// Regression returns one regression by group name.
func (h *ResultsHandler) Regression(c echo.Context) error {
	result, err := h.latest()
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}

	req := new(models.WhichRequest)
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	r, ok := result.Regressions[req.Which]
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no regression for %q", req.Which))
	}
	return xhttp.SuccessResponse(c, r)
}

// Bins returns one binscatter summary by group name.
func (h *ResultsHandler) Bins(c echo.Context) error {
	result, err := h.latest()
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}

	req := new(models.WhichRequest)
	if verr := xhttp.ReadAndValidateRequest(c, req); verr != nil {
		return xhttp.BadRequestResponse(c, verr)
	}

	bins, ok := result.Bins[req.Which]
	if !ok {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundErrorf("no bins for %q", req.Which))
	}
	return xhttp.ListResponse(c, bins, int64(len(bins)))
}

// Stationarity returns the stationarity test results.
func (h *ResultsHandler) Stationarity(c echo.Context) error {
	result, err := h.latest()
	if err != nil {
		return xhttp.AppErrorResponse(c, err)
	}
	return xhttp.SuccessResponse(c, result.Stationarity)
}

// Summary returns the latest run summary with its annotations.
func (h *ResultsHandler) Summary(c echo.Context) error {
	summary := h.pipeline.LastSummary()
	if summary == nil {
		return xhttp.AppErrorResponse(c, xhttp.NotFoundError("no run summary available yet"))
	}
	return xhttp.SuccessResponse(c, summary)
}
