package http

import (
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"

	apierrors "volcanotrends/internal/errors"
)

// FrontendHandler serves the embedded dashboard page and its assets
type FrontendHandler struct {
	fsys         fs.FS
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewFrontendHandler creates a handler over fsys, whose root holds index.html
func NewFrontendHandler(fsys fs.FS, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *FrontendHandler {
	return &FrontendHandler{
		fsys:         fsys,
		logger:       logger.With(slog.String("handler", "frontend")),
		errorHandler: errorHandler,
	}
}

// ServeHTTP serves index.html for "/" and the named asset otherwise
func (h *FrontendHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimPrefix(path.Clean("/"+r.URL.Path), "/")
	if name == "" {
		name = "index.html"
	}

	file, err := h.fsys.Open(name)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			h.logger.WarnContext(r.Context(), "failed to open frontend file",
				slog.String("path", name),
				slog.String("error", err.Error()))
		}
		h.errorHandler.NotFound(w, r)
		return
	}
	defer file.Close()

	if stat, err := file.Stat(); err != nil || stat.IsDir() {
		h.errorHandler.NotFound(w, r)
		return
	}

	w.Header().Set("Content-Type", contentType(name))
	w.Header().Set("X-Content-Type-Options", "nosniff")
	if name == "index.html" {
		w.Header().Set("Cache-Control", "no-cache")
	} else {
		w.Header().Set("Cache-Control", "public, max-age=3600")
	}

	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, file); err != nil {
		h.logger.DebugContext(r.Context(), "frontend copy interrupted",
			slog.String("path", name),
			slog.String("error", err.Error()))
	}
}

func contentType(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".html":
		return "text/html; charset=utf-8"
	case ".js":
		return "application/javascript"
	case ".css":
		return "text/css; charset=utf-8"
	case ".json":
		return "application/json"
	case ".svg":
		return "image/svg+xml"
	case ".png":
		return "image/png"
	case ".ico":
		return "image/x-icon"
	default:
		return "application/octet-stream"
	}
}
