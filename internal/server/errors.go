package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/hyperjump/electrolight/internal/auth"
	"github.com/hyperjump/electrolight/internal/models"
	"github.com/hyperjump/electrolight/internal/storage"
)

// errorHandler tries to handle a domain error. Returns true if handled.
// notFound is the message used when err is a missing record.
type errorHandler func(w http.ResponseWriter, err error, notFound string) bool

type errorBody struct {
	Message string `json:"message"`
}

func defaultErrorHandlers() []errorHandler {
	return []errorHandler{
		notFoundHandler,
		sentinelHandler(storage.ErrAlreadyExists, http.StatusConflict),
		sentinelHandler(models.ErrValidation, http.StatusBadRequest),
		sentinelHandler(auth.ErrInvalidCredentials, http.StatusUnauthorized),
		sentinelHandler(auth.ErrUnauthenticated, http.StatusUnauthorized),
	}
}

func notFoundHandler(w http.ResponseWriter, err error, notFound string) bool {
	if !errors.Is(err, storage.ErrNotFound) {
		return false
	}
	if notFound == "" {
		notFound = "Not found"
	}
	respondError(w, http.StatusNotFound, notFound)
	return true
}

// sentinelHandler maps errors wrapping sentinel to status, with the error text as message.
func sentinelHandler(sentinel error, status int) errorHandler {
	return func(w http.ResponseWriter, err error, _ string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		respondError(w, status, err.Error())
		return true
	}
}

// handleError writes the response for err. Unrecognized errors are logged and
// reported as a generic 500.
func (s *Server) handleError(w http.ResponseWriter, r *http.Request, err error, notFound string) {
	for _, h := range s.errorHandlers {
		if h(w, err, notFound) {
			return
		}
	}
	s.logger.Error("request failed",
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	respondError(w, http.StatusInternalServerError, "Internal server error")
}

func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, errorBody{Message: message})
}

// decodeJSON decodes the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

func validationError(msg string) error {
	return fmt.Errorf("%w: %s", models.ErrValidation, msg)
}
