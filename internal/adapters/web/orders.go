package web

import (
	"net/http"

	"inventory-backend/internal/app"
)

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	req := app.ListOrdersRequest{
		Status:     r.URL.Query().Get("status"),
		CustomerID: queryIntPtr(r, "customer_id"),
		From:       queryTimePtr(r, "from"),
		To:         queryTimePtr(r, "to"),
		Page:       queryInt(r, "page"),
		PageSize:   queryInt(r, "size"),
	}
	result, err := h.svc.ListOrders(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	order, err := h.svc.GetOrder(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) createOrder(w http.ResponseWriter, r *http.Request) {
	var req app.CreateOrderRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if claims := authFromContext(r.Context()); claims != nil {
		req.CreatedBy = claims.Username
	}
	order, err := h.svc.CreateOrder(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, order)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req struct {
		Status string `json:"status"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	order, err := h.svc.UpdateOrderStatus(r.Context(), id, req.Status)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var cancelledBy string
	if claims := authFromContext(r.Context()); claims != nil {
		cancelledBy = claims.Username
	}
	order, err := h.svc.CancelOrder(r.Context(), id, cancelledBy)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, order)
}
