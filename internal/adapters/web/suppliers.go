package web

import (
	"net/http"

	"inventory-backend/internal/app"
)

func (h *Handler) listSuppliers(w http.ResponseWriter, r *http.Request) {
	req := app.ListSuppliersRequest{
		Search:   r.URL.Query().Get("search"),
		IsActive: queryBoolPtr(r, "is_active"),
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "size"),
	}
	result, err := h.svc.ListSuppliers(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) getSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	supplier, err := h.svc.GetSupplier(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, supplier)
}

func (h *Handler) createSupplier(w http.ResponseWriter, r *http.Request) {
	var req app.CreateSupplierRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	supplier, err := h.svc.CreateSupplier(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, supplier)
}

func (h *Handler) updateSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req app.UpdateSupplierRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	supplier, err := h.svc.UpdateSupplier(r.Context(), id, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, supplier)
}

func (h *Handler) deleteSupplier(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.DeleteSupplier(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
