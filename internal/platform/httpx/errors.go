package httpx

import (
	"errors"
	"net/http"

	"github.com/daftar-ledger/daftar/internal/shared"
)

// RespondError maps the closed error taxonomy to status codes and localized
// envelope messages. This is the single conversion point between domain
// errors and what callers see.
func RespondError(w http.ResponseWriter, err error) {
	Fail(w, statusFor(err), shared.UserSafeMessage(err))
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrInvalidCredentials):
		return http.StatusUnauthorized
	case errors.Is(err, shared.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrDuplicate), errors.Is(err, shared.ErrAccountInUse):
		return http.StatusConflict
	case errors.Is(err, shared.ErrStorageTimeout):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
