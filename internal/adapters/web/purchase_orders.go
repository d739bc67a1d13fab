package web

import (
	"net/http"

	"inventory-backend/internal/app"
)

func (h *Handler) listPurchaseOrders(w http.ResponseWriter, r *http.Request) {
	req := app.ListPurchaseOrdersRequest{
		Status:     r.URL.Query().Get("status"),
		SupplierID: queryIntPtr(r, "supplier_id"),
		Page:       queryInt(r, "page"),
		PageSize:   queryInt(r, "size"),
	}
	result, err := h.svc.ListPurchaseOrders(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) getPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	po, err := h.svc.GetPurchaseOrder(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, po)
}

func (h *Handler) createPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	var req app.CreatePurchaseOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	po, err := h.svc.CreatePurchaseOrder(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, po)
}

func (h *Handler) receivePurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req app.ReceivePurchaseOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if claims := authFromContext(r.Context()); claims != nil {
		req.ReceivedBy = claims.Username
	}
	po, err := h.svc.ReceivePurchaseOrder(r.Context(), id, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, po)
}

func (h *Handler) cancelPurchaseOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	po, err := h.svc.CancelPurchaseOrder(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, po)
}
