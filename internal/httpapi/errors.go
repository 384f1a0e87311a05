package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/erauner12/catalogview/internal/catalog"
	"github.com/erauner12/catalogview/internal/export"
	"github.com/erauner12/catalogview/internal/listview"
	"github.com/erauner12/catalogview/internal/productapi"
	"github.com/erauner12/catalogview/internal/service/catalogservice"
	"github.com/rs/zerolog/log"
)

// writeServiceError maps service and upstream errors to a status code.
// Anything unrecognized came from the product API call and is a 502.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation  *catalog.ValidationError
		statusErr   *productapi.StatusError
		rateLimited productapi.ErrRateLimited
	)

	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusBadRequest, errorResp{
			Error:         validation.Error(),
			Field:         validation.Field,
			CorrelationID: GetCorrelationID(r.Context()),
		})
		return

	case errors.Is(err, listview.ErrInvalidPageSize),
		errors.Is(err, catalogservice.ErrPageSizeTooLarge):
		writeError(w, r, http.StatusBadRequest, err.Error())

	case errors.Is(err, export.ErrEmptyExport):
		writeError(w, r, http.StatusUnprocessableEntity, err.Error())

	case errors.Is(err, catalogservice.ErrNotLoaded):
		writeError(w, r, http.StatusServiceUnavailable, err.Error())

	case productapi.IsNotFound(err):
		writeError(w, r, http.StatusNotFound, "product not found upstream")

	case errors.As(err, &rateLimited):
		writeError(w, r, http.StatusBadGateway, err.Error())

	case errors.Is(err, context.DeadlineExceeded):
		writeError(w, r, http.StatusGatewayTimeout, "product API timed out")

	case errors.As(err, &statusErr):
		writeError(w, r, http.StatusBadGateway, err.Error())

	default:
		log.Ctx(r.Context()).Error().Err(err).Msg("product API request failed")
		writeError(w, r, http.StatusBadGateway, err.Error())
	}
}
