package httpadapter

import (
	"net/http"
	"strings"

	"traffic-analyzer/internal/core/domain"
)

type userRequest struct {
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  domain.Role `json:"role"`
}

type settingsPayload struct {
	MetaPixelID string `json:"metaPixelId"`
}

func (h *Handler) handleListUsers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.svc.ListUsers())
}

func (h *Handler) handleAddUser(w http.ResponseWriter, r *http.Request) {
	var req userRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	u, err := h.svc.AddUser(r.Context(), domain.User{
		Name:  strings.TrimSpace(req.Name),
		Email: req.Email,
		Role:  domain.Role(strings.ToLower(string(req.Role))),
	})
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, u)
}

func (h *Handler) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, settingsPayload{MetaPixelID: h.svc.PixelID()})
}

func (h *Handler) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var req settingsPayload
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.svc.SetPixelID(r.Context(), req.MetaPixelID); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, settingsPayload{MetaPixelID: h.svc.PixelID()})
}

// handleClearData wipes products, campaigns and the pixel id.
func (h *Handler) handleClearData(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.ClearAll(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
