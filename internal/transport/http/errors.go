package http

import (
	"errors"

	apierrors "volcanotrends/internal/errors"
	"volcanotrends/internal/services"
)

// mapServiceError converts service sentinels to API errors. Anything else is
// returned unchanged for the error handler to classify.
func mapServiceError(err error) error {
	switch {
	case errors.Is(err, services.ErrDatasetNotLoaded):
		return apierrors.ErrDatasetNotReady
	case errors.Is(err, services.ErrUnknownChart):
		return apierrors.ErrChartNotFound
	case errors.Is(err, services.ErrUnsupportedFormat):
		return apierrors.ErrFormatNotFound
	case errors.Is(err, services.ErrNoChartData):
		return apierrors.ErrNoChartData
	case errors.Is(err, services.ErrReloadInProgress):
		return apierrors.ErrReloadInProgress
	default:
		return err
	}
}
