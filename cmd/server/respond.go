package main

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/icco/pokejournal"
	"go.uber.org/zap"
)

// api holds what the JSON handlers share.
type api struct {
	store *pokejournal.Store
	auth  *authenticator
}

// ErrorResponse is the body of every failed JSON request.
type ErrorResponse struct {
	Error string `json:"error" example:"Invalid request"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message" example:"Game deleted successfully"`
}

// HealthResponse reports the running build.
type HealthResponse struct {
	Healthy  string `json:"healthy" example:"true"`
	Revision string `json:"revision"`
	Tag      string `json:"tag"`
	Branch   string `json:"branch"`
}

func renderJSON(w http.ResponseWriter, status int, v any) {
	if err := Renderer.JSON(w, status, v); err != nil {
		log.Errorw("failed to render JSON", zap.Error(err))
	}
}

func renderError(w http.ResponseWriter, status int, msg string) {
	renderJSON(w, status, ErrorResponse{Error: msg})
}

func renderMessage(w http.ResponseWriter, status int, msg string) {
	renderJSON(w, status, MessageResponse{Message: msg})
}

// renderStoreError maps a store error onto a status code. Unexpected errors
// are logged and reported with the generic fallback message.
func renderStoreError(w http.ResponseWriter, r *http.Request, err error, fallback string) {
	var ve *pokejournal.ValidationError
	switch {
	case errors.As(err, &ve):
		renderError(w, http.StatusBadRequest, ve.Message)
	case errors.Is(err, pokejournal.ErrForbidden):
		renderError(w, http.StatusForbidden, "Access denied")
	case errors.Is(err, pokejournal.ErrNotFound):
		renderError(w, http.StatusNotFound, err.Error())
	default:
		log.Errorw(fallback, "path", r.URL.Path, zap.Error(err))
		renderError(w, http.StatusInternalServerError, fallback)
	}
}

// pathID reads a positive numeric URL parameter.
func pathID(r *http.Request, key string) (int64, bool) {
	raw := ugcPolicy.Sanitize(chi.URLParam(r, key))
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		log.Warnw("invalid request body", "path", r.URL.Path, "error", err.Error())
		renderError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// queryID reads an optional numeric query parameter. A present but
// malformed value is reported as not ok.
func queryID(r *http.Request, key string) (*int64, bool) {
	raw := ugcPolicy.Sanitize(r.URL.Query().Get(key))
	if raw == "" {
		return nil, true
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return nil, false
	}
	return &id, true
}
