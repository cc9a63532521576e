package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"

	"volcanotrends/internal/config"
	apierrors "volcanotrends/internal/errors"
	custommw "volcanotrends/internal/middleware"
)

// DashboardHandler serves the dashboard JSON API
type DashboardHandler struct {
	service      DashboardServiceInterface
	validator    *custommw.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *DashboardHandler {
	return &DashboardHandler{
		service:      service,
		validator:    custommw.NewQueryParamValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "dashboard_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the dashboard routes
func (h *DashboardHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Use(render.SetContentType(render.ContentTypeJSON))

	r.Get("/", h.GetDashboard)
	r.Get("/stats", h.GetStats)
	r.Get("/insights", h.GetInsights)
	r.Get("/records", h.GetRecords)
	r.Get("/genres", h.GetGenres)
	r.Get("/charts/{chart}", h.GetChartData)
	r.Post("/reload", h.Reload)

	return r
}

// GetDashboard handles GET /api/dashboard
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	dash, err := h.service.Snapshot(r.Context())
	if err != nil {
		h.fail(w, r, "snapshot", err)
		return
	}
	h.success(w, r, dash)
}

// GetStats handles GET /api/dashboard/stats
func (h *DashboardHandler) GetStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.Stats(r.Context())
	if err != nil {
		h.fail(w, r, "stats", err)
		return
	}
	h.success(w, r, stats)
}

// GetInsights handles GET /api/dashboard/insights
func (h *DashboardHandler) GetInsights(w http.ResponseWriter, r *http.Request) {
	insights, err := h.service.Insights(r.Context())
	if err != nil {
		h.fail(w, r, "insights", err)
		return
	}
	h.success(w, r, insights)
}

// GetRecords handles GET /api/dashboard/records
func (h *DashboardHandler) GetRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.service.Records(r.Context())
	if err != nil {
		h.fail(w, r, "records", err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"count":  len(records),
		"data":   records,
	})
}

// GetGenres handles GET /api/dashboard/genres?limit=K
func (h *DashboardHandler) GetGenres(w http.ResponseWriter, r *http.Request) {
	// 0 leaves the configured top-K in place
	limit, ok := h.validator.ValidateInt(w, r, "limit", 1, config.MaxGenreLimit, 0)
	if !ok {
		return
	}

	genres, err := h.service.Genres(r.Context(), limit)
	if err != nil {
		h.fail(w, r, "genres", err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"count":  len(genres),
		"data":   genres,
	})
}

// GetChartData handles GET /api/dashboard/charts/{chart}
func (h *DashboardHandler) GetChartData(w http.ResponseWriter, r *http.Request) {
	kind := chi.URLParam(r, "chart")

	data, err := h.service.ChartData(r.Context(), kind)
	if err != nil {
		h.fail(w, r, "chart data", err)
		return
	}
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"chart":  kind,
		"data":   data,
	})
}

// Reload handles POST /api/dashboard/reload
func (h *DashboardHandler) Reload(w http.ResponseWriter, r *http.Request) {
	info, err := h.service.Reload(r.Context())
	if err != nil {
		h.fail(w, r, "reload", err)
		return
	}

	h.logger.InfoContext(r.Context(), "dataset reloaded",
		slog.String("source", string(info.Source)),
		slog.Int("records", info.Records))
	h.success(w, r, info)
}

func (h *DashboardHandler) success(w http.ResponseWriter, r *http.Request, data interface{}) {
	render.JSON(w, r, map[string]interface{}{
		"status": "success",
		"data":   data,
	})
}

func (h *DashboardHandler) fail(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.DebugContext(r.Context(), "dashboard request failed",
		slog.String("operation", op),
		slog.String("error", err.Error()))
	h.errorHandler.HandleError(w, r, mapServiceError(err))
}
