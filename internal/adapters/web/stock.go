package web

import (
	"net/http"

	"inventory-backend/internal/app"
)

func (h *Handler) listMovements(w http.ResponseWriter, r *http.Request) {
	req := app.ListMovementsRequest{
		ItemID:   queryIntPtr(r, "item_id"),
		Type:     r.URL.Query().Get("movement_type"),
		From:     queryTimePtr(r, "from"),
		To:       queryTimePtr(r, "to"),
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "size"),
	}
	result, err := h.svc.ListMovements(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) recordMovement(w http.ResponseWriter, r *http.Request) {
	var req app.RecordMovementRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if claims := authFromContext(r.Context()); claims != nil {
		req.CreatedBy = claims.Username
	}
	mv, err := h.svc.RecordMovement(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, mv)
}
