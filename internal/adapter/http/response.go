package httpadapter

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"traffic-analyzer/internal/core/domain"
	"traffic-analyzer/internal/core/extractor"
	"traffic-analyzer/internal/core/port"
)

type errorResponse struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("encode response error", slog.Any("error", err))
	}
}

func writeError(w http.ResponseWriter, logger *slog.Logger, code int, msg string) {
	writeJSON(w, logger, code, errorResponse{Error: msg})
}

// decodeJSON reads a single JSON value from the body into v.
func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(v); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.NewValidationError("body", "must not be empty")
		}
		return domain.NewValidationError("body", "invalid JSON")
	}
	return nil
}

// fail maps a use case error to a status code. Unexpected errors are logged
// and reported without detail.
func (h *Handler) fail(w http.ResponseWriter, r *http.Request, err error) {
	var (
		xerr   *extractor.Error
		verr   *domain.ValidationError
		maxErr *http.MaxBytesError
	)
	switch {
	case errors.As(err, &xerr):
		writeError(w, h.logger, http.StatusUnprocessableEntity, err.Error())
	case errors.As(err, &verr):
		writeError(w, h.logger, http.StatusBadRequest, verr.Error())
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, h.logger, http.StatusNotFound, err.Error())
	case errors.As(err, &maxErr):
		writeError(w, h.logger, http.StatusRequestEntityTooLarge, "upload too large")
	case errors.Is(err, port.ErrIngestionDisabled):
		writeError(w, h.logger, http.StatusServiceUnavailable, err.Error())
	default:
		h.logger.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.Any("error", err),
		)
		writeError(w, h.logger, http.StatusInternalServerError, "internal error")
	}
}
