// internal/handler/response.go
package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	appErrors "github.com/unclebandit/leadreach-backend/internal/errors"
	"github.com/unclebandit/leadreach-backend/internal/insights"
)

// BadRequestError marks a request body that could not be decoded.
type BadRequestError struct {
	Err error
}

func (e *BadRequestError) Error() string { return "invalid request body: " + e.Err.Error() }
func (e *BadRequestError) Unwrap() error { return e.Err }

// DecodeJSON reads the request body into v.
func DecodeJSON(r *http.Request, v any) error {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return &BadRequestError{Err: err}
	}
	return nil
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("handler: encode response", zap.Error(err))
	}
}

// WriteError maps err to a status code and writes {"error": msg}.
func WriteError(w http.ResponseWriter, err error) {
	status, msg := StatusOf(err)
	if status == http.StatusInternalServerError {
		zap.L().Error("handler: request failed", zap.Error(err))
	}
	WriteJSON(w, status, map[string]string{"error": msg})
}

// StatusOf returns the HTTP status and client-facing message for err.
func StatusOf(err error) (int, string) {
	var (
		badReq   *BadRequestError
		verr     *appErrors.ValidationError
		upstream *appErrors.UpstreamError
		ierr     *insights.Error
	)
	switch {
	case errors.As(err, &badReq):
		return http.StatusBadRequest, badReq.Error()
	case errors.Is(err, appErrors.ErrUnauthenticated):
		return http.StatusUnauthorized, appErrors.ErrUnauthenticated.Error()
	case errors.As(err, &verr):
		return http.StatusUnprocessableEntity, verr.Error()
	case errors.Is(err, appErrors.ErrNothingSelected):
		return http.StatusUnprocessableEntity, appErrors.ErrNothingSelected.Error()
	case errors.Is(err, appErrors.ErrNothingToExport):
		return http.StatusUnprocessableEntity, appErrors.ErrNothingToExport.Error()
	case appErrors.IsNotFound(err):
		return http.StatusNotFound, eris.Cause(err).Error()
	case errors.Is(err, appErrors.ErrInvalidTransition):
		return http.StatusConflict, appErrors.ErrInvalidTransition.Error()
	case errors.As(err, &upstream):
		return http.StatusBadGateway, upstream.Error()
	case errors.As(err, &ierr):
		return ierr.StatusCode, ierr.Message
	}
	return http.StatusInternalServerError, "internal server error"
}
