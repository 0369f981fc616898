package httpadapter

import (
	"errors"
	"log/slog"
	"net/http"

	"traffic-analyzer/internal/core/port"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type messageRequest struct {
	Text string `json:"text"`
}

// handleLogin checks a credential pair. It answers 204 when the pair is
// accepted and 401 otherwise; no session is issued, clients send the same
// pair as Basic auth on later calls.
func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	if h.verifier == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.verifier.Verify(r.Context(), req.Email, req.Password); err != nil {
		if !errors.Is(err, port.ErrInvalidCredentials) {
			h.logger.Error("verify credentials", slog.Any("error", err))
		}
		writeError(w, h.logger, http.StatusUnauthorized, "invalid credentials")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleIngestMessage feeds a free-text report through the extractor and
// returns the stored campaign. Extraction failures answer 422.
func (h *Handler) handleIngestMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	c, err := h.svc.IngestMessage(r.Context(), req.Text)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, c)
}

func (h *Handler) handleActivity(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.svc.Activity())
}
