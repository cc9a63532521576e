package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	apierrors "volcanotrends/internal/errors"
)

// QueryParamValidator validates query and path parameters and answers
// with a problem response when a value is rejected.
type QueryParamValidator struct {
	validate     *validator.Validate
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewQueryParamValidator creates a new query parameter validator
func NewQueryParamValidator(logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *QueryParamValidator {
	return &QueryParamValidator{
		validate:     validator.New(),
		logger:       logger.With(slog.String("component", "query_validator")),
		errorHandler: errorHandler,
	}
}

// ValidateInt validates an integer query parameter within [min, max].
// An absent parameter yields defaultValue.
func (v *QueryParamValidator) ValidateInt(w http.ResponseWriter, r *http.Request, param string, min, max int, defaultValue int) (int, bool) {
	value := r.URL.Query().Get(param)
	if value == "" {
		return defaultValue, true
	}

	intValue, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		v.reject(w, r, param, fmt.Sprintf("%s must be a valid integer", param))
		return 0, false
	}

	if err := v.validate.Var(intValue, fmt.Sprintf("min=%d,max=%d", min, max)); err != nil {
		v.reject(w, r, param, fmt.Sprintf("%s must be between %d and %d", param, min, max))
		return 0, false
	}

	return intValue, true
}

// ValidateEnum checks value against the allowed set. Allowed values must not
// contain spaces. A rejected value is answered with notAllowed, or with a
// validation failure when notAllowed is nil.
func (v *QueryParamValidator) ValidateEnum(w http.ResponseWriter, r *http.Request, param, value string, allowed []string, notAllowed *apierrors.APIError) (string, bool) {
	if err := v.validate.Var(value, "required,oneof="+strings.Join(allowed, " ")); err != nil {
		message := fmt.Sprintf("%s must be one of: %s", param, strings.Join(allowed, ", "))
		if notAllowed == nil {
			v.reject(w, r, param, message)
			return "", false
		}
		v.logger.DebugContext(r.Context(), "parameter rejected",
			slog.String("param", param),
			slog.String("path", r.URL.Path))
		v.errorHandler.HandleError(w, r, apierrors.NewWithDetails(notAllowed.StatusCode, notAllowed.ErrorCode, notAllowed.Message,
			apierrors.ValidationError{Field: param, Message: message}))
		return "", false
	}
	return value, true
}

func (v *QueryParamValidator) reject(w http.ResponseWriter, r *http.Request, param, message string) {
	v.logger.DebugContext(r.Context(), "parameter rejected",
		slog.String("param", param),
		slog.String("path", r.URL.Path))
	v.errorHandler.HandleError(w, r, apierrors.ErrValidation(param, message))
}
