package common

import (
	"errors"
	"net/http"

	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrNotFound             = errors.New("requested resource not found")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrDuplicateEmail       = errors.New("email has already been taken")
	ErrIncorrectOldPassword = errors.New("old password is incorrect")
)

// HTTPStatusFromError maps domain errors to HTTP status codes.
func HTTPStatusFromError(err error) int {
	if err == nil {
		return http.StatusOK
	}
	if errors.Is(err, ErrNotFound) {
		return http.StatusNotFound
	}
	if errors.Is(err, ErrInvalidCredentials) || errors.Is(err, ErrIncorrectOldPassword) {
		return http.StatusUnauthorized
	}
	if errors.Is(err, ErrDuplicateEmail) {
		return http.StatusBadRequest
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		if pgErr.Code == "23505" { // Unique violation
			return http.StatusConflict
		}
	}

	return http.StatusInternalServerError
}
