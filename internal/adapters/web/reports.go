package web

import "net/http"

func (h *Handler) lowStockReport(w http.ResponseWriter, r *http.Request) {
	items, err := h.svc.GetLowStockReport(r.Context(), queryIntPtr(r, "threshold"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"items": items, "count": len(items)})
}

func (h *Handler) valuationReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.svc.GetInventoryValuation(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}

// salesSummaryReport covers all time when no period is given.
func (h *Handler) salesSummaryReport(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.GetSalesSummary(r.Context(), queryTimePtr(r, "from"), queryTimePtr(r, "to"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}

func (h *Handler) stockLevelsReport(w http.ResponseWriter, r *http.Request) {
	lowOnly := r.URL.Query().Get("low_only") == "true"
	levels, err := h.svc.GetStockLevels(r.Context(), lowOnly)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"levels": levels, "count": len(levels)})
}

func (h *Handler) dashboard(w http.ResponseWriter, r *http.Request) {
	summary, err := h.svc.GetDashboard(r.Context())
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, summary)
}
