package http

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	apierrors "volcanotrends/internal/errors"
	"volcanotrends/internal/exporter"
	custommw "volcanotrends/internal/middleware"
)

// ExportHandler serves dataset downloads
type ExportHandler struct {
	service      DashboardServiceInterface
	validator    *custommw.QueryParamValidator
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewExportHandler creates a new export handler
func NewExportHandler(service DashboardServiceInterface, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ExportHandler {
	return &ExportHandler{
		service:      service,
		validator:    custommw.NewQueryParamValidator(logger, errorHandler),
		logger:       logger.With(slog.String("component", "export_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the export routes
func (h *ExportHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/{format}", h.Export)
	return r
}

// Export handles GET /api/export/{format}
func (h *ExportHandler) Export(w http.ResponseWriter, r *http.Request) {
	name := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "format")))
	if _, ok := h.validator.ValidateEnum(w, r, "format", name, exporter.Formats, apierrors.ErrFormatNotFound); !ok {
		return
	}
	format, err := exporter.ParseFormat(name)
	if err != nil {
		h.errorHandler.HandleError(w, r, mapServiceError(err))
		return
	}

	data, err := h.service.Export(r.Context(), format)
	if err != nil {
		h.errorHandler.HandleError(w, r, exportFailure(format, err))
		return
	}

	h.logger.InfoContext(r.Context(), "serving export",
		slog.String("format", string(format)),
		slog.Int("bytes", len(data)))

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", format.FileName()))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(data); err != nil {
		h.logger.WarnContext(r.Context(), "failed to write export",
			slog.String("error", err.Error()))
	}
}

// exportFailure keeps known service and context errors and reports any other
// failure as an export error.
func exportFailure(format exporter.Format, err error) error {
	mapped := mapServiceError(err)
	var apiErr *apierrors.APIError
	if errors.As(mapped, &apiErr) || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return mapped
	}
	return apierrors.ExportError(string(format), err)
}
