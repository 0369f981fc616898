package httpadapter

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"traffic-analyzer/internal/core/domain"
)

type productRequest struct {
	Name         string  `json:"name"`
	QuantitySold int64   `json:"quantitySold"`
	Revenue      float64 `json:"revenue"`
	CostPerUnit  float64 `json:"costPerUnit"`
}

func (h *Handler) decodeProduct(r *http.Request) (domain.Product, error) {
	var req productRequest
	if err := decodeJSON(r, &req); err != nil {
		return domain.Product{}, err
	}
	return domain.Product{
		Name:         strings.TrimSpace(req.Name),
		QuantitySold: req.QuantitySold,
		Revenue:      req.Revenue,
		CostPerUnit:  req.CostPerUnit,
	}, nil
}

func (h *Handler) handleListProducts(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.svc.ListProducts(r.URL.Query().Get("q")))
}

func (h *Handler) handleCreateProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.decodeProduct(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	created, err := h.svc.CreateProduct(r.Context(), p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, created)
}

func (h *Handler) handleUpdateProduct(w http.ResponseWriter, r *http.Request) {
	p, err := h.decodeProduct(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	updated, err := h.svc.UpdateProduct(r.Context(), chi.URLParam(r, "id"), p)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, updated)
}

func (h *Handler) handleDeleteProduct(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteProduct(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
