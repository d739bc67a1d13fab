package web

import (
	"net/http"

	"inventory-backend/internal/app"
)

func (h *Handler) listCustomers(w http.ResponseWriter, r *http.Request) {
	req := app.ListCustomersRequest{
		Search:   r.URL.Query().Get("search"),
		IsActive: queryBoolPtr(r, "is_active"),
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "size"),
	}
	result, err := h.svc.ListCustomers(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) getCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	customer, err := h.svc.GetCustomer(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *Handler) createCustomer(w http.ResponseWriter, r *http.Request) {
	var req app.CreateCustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	customer, err := h.svc.CreateCustomer(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, customer)
}

func (h *Handler) updateCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req app.UpdateCustomerRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	customer, err := h.svc.UpdateCustomer(r.Context(), id, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customer)
}

func (h *Handler) deleteCustomer(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.DeleteCustomer(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
