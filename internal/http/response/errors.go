package response

import (
	"errors"
	"net/http"

	"github.com/magabrotheeeer/mining-portal/internal/lib/apperr"
)

// DomainError сопоставляет доменную ошибку HTTP-статусу и телу ответа.
// Виды ошибок отображаются на статусы один к одному; всё неожиданное
// наружу уходит одинаковым ответом 500 без деталей.
func DomainError(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, apperr.ErrValidation):
		return http.StatusBadRequest, Error("invalid request")
	case errors.Is(err, apperr.ErrConflict):
		return http.StatusConflict, Error("email or username already exists")
	case errors.Is(err, apperr.ErrInvalidCredentials):
		return http.StatusUnauthorized, Error("invalid username or password")
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden, Error("forbidden")
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound, Error("not found")
	default:
		return http.StatusInternalServerError, Error("internal server error")
	}
}
