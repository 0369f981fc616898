package httpadapter

import (
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"traffic-analyzer/internal/core/domain"
	"traffic-analyzer/internal/core/importer"
)

// campaignRequest is the campaign form. Platform is matched
// case-insensitively; status and date default on the server.
type campaignRequest struct {
	Name        string                `json:"name"`
	Platform    string                `json:"platform"`
	Spend       float64               `json:"spend"`
	Impressions int64                 `json:"impressions"`
	Clicks      int64                 `json:"clicks"`
	Conversions int64                 `json:"conversions"`
	Status      domain.CampaignStatus `json:"status"`
	Date        string                `json:"date"`
}

func (req campaignRequest) toDomain() (domain.Campaign, error) {
	c := domain.Campaign{
		Name:        strings.TrimSpace(req.Name),
		Platform:    domain.Platform(req.Platform),
		Spend:       req.Spend,
		Impressions: req.Impressions,
		Clicks:      req.Clicks,
		Conversions: req.Conversions,
		Status:      req.Status,
	}
	if p, ok := domain.ParsePlatform(req.Platform); ok {
		c.Platform = p
	}
	if req.Date != "" {
		d, err := domain.ParseDate(req.Date)
		if err != nil {
			return domain.Campaign{}, domain.NewValidationError("date", "expected YYYY-MM-DD")
		}
		c.Date = d
	}
	return c, nil
}

func (h *Handler) decodeCampaign(r *http.Request) (domain.Campaign, error) {
	var req campaignRequest
	if err := decodeJSON(r, &req); err != nil {
		return domain.Campaign{}, err
	}
	return req.toDomain()
}

// handleListCampaigns returns campaigns with their metrics, filtered by the
// optional q parameter.
func (h *Handler) handleListCampaigns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, h.logger, http.StatusOK, h.svc.ListCampaigns(r.URL.Query().Get("q")))
}

func (h *Handler) handleCreateCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := h.decodeCampaign(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	created, err := h.svc.CreateCampaign(r.Context(), c)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusCreated, created)
}

func (h *Handler) handleUpdateCampaign(w http.ResponseWriter, r *http.Request) {
	c, err := h.decodeCampaign(r)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	updated, err := h.svc.UpdateCampaign(r.Context(), chi.URLParam(r, "id"), c)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, h.logger, http.StatusOK, updated)
}

func (h *Handler) handleDeleteCampaign(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.DeleteCampaign(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleImportCampaigns accepts the spreadsheet either as the raw body or as
// the "file" part of a multipart form.
func (h *Handler) handleImportCampaigns(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUpload)

	var src io.Reader = r.Body
	if mt, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type")); mt == "multipart/form-data" {
		f, _, err := r.FormFile("file")
		if err != nil {
			var mbe *http.MaxBytesError
			if errors.As(err, &mbe) {
				h.fail(w, r, err)
				return
			}
			writeError(w, h.logger, http.StatusBadRequest, "missing file field")
			return
		}
		defer f.Close()
		src = f
	}

	n, err := h.svc.ImportCampaigns(r.Context(), src)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Debug("spreadsheet imported", slog.Int("rows", n))
	writeJSON(w, h.logger, http.StatusOK, map[string]int{"imported": n})
}

// handleCampaignTemplate serves the import template as a CSV download.
func (h *Handler) handleCampaignTemplate(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": importer.TemplateFilename}))
	if err := importer.WriteTemplate(w); err != nil {
		h.logger.Error("write template error", slog.Any("error", err))
	}
}
