package http

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"volcanotrends/internal/charts"
	"volcanotrends/internal/config"
	apierrors "volcanotrends/internal/errors"
	custommw "volcanotrends/internal/middleware"
)

// ChartHandler serves server-rendered chart images
type ChartHandler struct {
	service      DashboardServiceInterface
	defaults     charts.Size
	validator    *custommw.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewChartHandler creates a chart handler. defaults is used for any missing
// width or height.
func NewChartHandler(service DashboardServiceInterface, defaults charts.Size, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ChartHandler {
	return &ChartHandler{
		service:      service,
		defaults:     defaults.Clamp(),
		validator:    custommw.NewQueryParamValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "chart_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the chart image routes
func (h *ChartHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{chart}.png", h.RenderChart)
	return r
}

// RenderChart handles GET /api/charts/{chart}.png?width=&height=
func (h *ChartHandler) RenderChart(w http.ResponseWriter, r *http.Request) {
	kind, ok := h.validator.ValidateEnum(w, r, "chart", chi.URLParam(r, "chart"), charts.Kinds, apierrors.ErrChartNotFound)
	if !ok {
		return
	}

	width, ok := h.validator.ValidateInt(w, r, "width", config.MinChartSize, config.MaxChartSize, h.defaults.Width)
	if !ok {
		return
	}
	height, ok := h.validator.ValidateInt(w, r, "height", config.MinChartSize, config.MaxChartSize, h.defaults.Height)
	if !ok {
		return
	}

	img, err := h.service.RenderChart(r.Context(), kind, charts.Size{Width: width, Height: height})
	if err != nil {
		h.logger.DebugContext(r.Context(), "chart render failed",
			slog.String("chart", kind),
			slog.String("error", err.Error()))
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Length", strconv.Itoa(len(img)))
	w.Header().Set("Cache-Control", "no-cache")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(img); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write chart image",
			slog.String("chart", kind),
			slog.String("error", err.Error()))
	}
}
