package common

import (
	"encoding/json"
	"errors"
	"net/http"

	"household-app-go/internal/domain/access"
	"household-app-go/pkg/logger"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, errorEnvelope{Error: errorBody{Code: code, Message: message}})
}

func WriteJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func DecodeJSON(r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

// StatusOf maps a domain error class to its HTTP status.
func StatusOf(err error) int {
	switch {
	case errors.Is(err, access.ErrNotAuthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, access.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, access.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, access.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, access.ErrInvalid):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

// WriteDomainError logs err under op and writes the error envelope. Business
// errors keep their code and message; anything else becomes internal_error.
func WriteDomainError(w http.ResponseWriter, log logger.Logger, op string, err error, args ...any) {
	var domainErr *access.Error
	if errors.As(err, &domainErr) {
		log.BusinessError(op+": "+domainErr.Code, err, args...)
		WriteError(w, StatusOf(err), domainErr.Code, domainErr.Message)
		return
	}
	log.InternalError(op+": failed", err, args...)
	WriteError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

// PathUUID reads a uuid path parameter. A malformed id cannot name a row, so
// it is answered with notFound.
func PathUUID(w http.ResponseWriter, r *http.Request, name string, notFound *access.Error) (string, bool) {
	value := chi.URLParam(r, name)
	if _, err := uuid.Parse(value); err != nil {
		WriteError(w, StatusOf(notFound), notFound.Code, notFound.Message)
		return "", false
	}
	return value, true
}
