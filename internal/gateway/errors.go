package gateway

import (
	"errors"
	"net/http"
)

// Error is the single failure shape that leaves the gateway: a human-readable
// message plus an HTTP-like status code. Code 0 means the request never
// reached a backend (transport failure).
type Error struct {
	Code    int
	Message string
}

func (e *Error) Error() string { return e.Message }

func notFound(msg string) *Error {
	return &Error{Code: http.StatusNotFound, Message: msg}
}

func invalid(msg string) *Error {
	return &Error{Code: http.StatusBadRequest, Message: msg}
}

func unauthorized(msg string) *Error {
	return &Error{Code: http.StatusUnauthorized, Message: msg}
}

func conflict(msg string) *Error {
	return &Error{Code: http.StatusConflict, Message: msg}
}

func internal(msg string) *Error {
	return &Error{Code: http.StatusInternalServerError, Message: msg}
}

func transport(msg string) *Error {
	return &Error{Code: 0, Message: msg}
}

// StatusCode extracts the HTTP-like code from a gateway error, or 0.
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}

func IsNotFound(err error) bool     { return StatusCode(err) == http.StatusNotFound }
func IsValidation(err error) bool   { return StatusCode(err) == http.StatusBadRequest }
func IsUnauthorized(err error) bool { return StatusCode(err) == http.StatusUnauthorized }
