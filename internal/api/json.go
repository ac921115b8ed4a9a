package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/starford/herbscope/internal/apperr"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("json encode failed", slog.String("error", err.Error()))
	}
}

type errResponse struct {
	Error string `json:"error" validate:"required"`
}

func errorBody(msg string) errResponse {
	return errResponse{Error: msg}
}

// statusFor maps a domain error to an HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, apperr.ErrUnknownHerb), errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, apperr.ErrUnknownModel),
		errors.Is(err, apperr.ErrUnknownSymptom),
		errors.Is(err, apperr.ErrInvalidGrid),
		errors.Is(err, apperr.ErrInvalidArgument),
		errors.Is(err, apperr.ErrInvalidDataset):
		return http.StatusBadRequest
	case errors.Is(err, apperr.ErrEmptyDataset):
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// writeError writes err with its mapped status. Server errors are logged and
// masked; client errors echo the message.
func writeError(w http.ResponseWriter, op string, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeJSON(w, status, errorBody("internal error"))
		return
	}
	writeJSON(w, status, errorBody(err.Error()))
}
