package httpadapter

import (
	"net/http"
	"strconv"

	"traffic-analyzer/internal/core/kpi"
)

// handleDashboard returns the global figures and the spend distribution,
// rounded to two decimals for display.
func (h *Handler) handleDashboard(w http.ResponseWriter, _ *http.Request) {
	s := h.svc.Summary()
	s.Totals = roundSummary(s.Totals)
	for i := range s.Distribution {
		s.Distribution[i].Spend = kpi.Round(s.Distribution[i].Spend, 2)
	}
	writeJSON(w, h.logger, http.StatusOK, s)
}

// handleReports returns the top products and campaigns. The optional limit
// parameter must be a positive integer.
func (h *Handler) handleReports(w http.ResponseWriter, r *http.Request) {
	n := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		var err error
		n, err = strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(w, h.logger, http.StatusBadRequest, "invalid 'limit'")
			return
		}
	}
	writeJSON(w, h.logger, http.StatusOK, h.svc.Report(n))
}

func roundSummary(s kpi.Summary) kpi.Summary {
	for _, f := range []*float64{
		&s.TotalSpend, &s.TotalRevenue, &s.TotalProfit,
		&s.ROAS, &s.CTR, &s.CPC, &s.CPA, &s.ConversionRate, &s.Margin,
	} {
		*f = kpi.Round(*f, 2)
	}
	return s
}
