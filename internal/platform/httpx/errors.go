package httpx

import (
	"errors"
	"net/http"

	"github.com/ifinance-app/ifinance/internal/shared"
)

// RespondError maps ledger domain errors to HTTP problem responses.
func RespondError(w http.ResponseWriter, err error) {
	if ve, ok := shared.AsValidationError(err); ok {
		ValidationProblem(w, ve.Fields)
		return
	}
	switch {
	case errors.Is(err, shared.ErrNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case errors.Is(err, shared.ErrForbidden):
		Problem(w, http.StatusForbidden, "Forbidden", err.Error())
	case errors.Is(err, shared.ErrConflict):
		Problem(w, http.StatusConflict, "Conflict", err.Error())
	case errors.Is(err, shared.ErrInsufficientFunds):
		Problem(w, http.StatusUnprocessableEntity, "Insufficient Funds", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
