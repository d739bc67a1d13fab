package web

import (
	"net/http"

	"inventory-backend/internal/app"
	"inventory-backend/internal/core"

	"github.com/go-chi/chi/v5"
)

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string][]core.Category{"categories": core.Categories()})
}

func (h *Handler) listItems(w http.ResponseWriter, r *http.Request) {
	req := app.ListItemsRequest{
		Search:   r.URL.Query().Get("search"),
		Category: r.URL.Query().Get("category"),
		IsActive: queryBoolPtr(r, "is_active"),
		Page:     queryInt(r, "page"),
		PageSize: queryInt(r, "size"),
	}
	result, err := h.svc.ListItems(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) getItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	item, err := h.svc.GetItem(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) getItemBySKU(w http.ResponseWriter, r *http.Request) {
	item, err := h.svc.GetItemBySKU(r.Context(), chi.URLParam(r, "sku"))
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) createItem(w http.ResponseWriter, r *http.Request) {
	var req app.CreateItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.svc.CreateItem(r.Context(), req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, item)
}

func (h *Handler) updateItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req app.UpdateItemRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	item, err := h.svc.UpdateItem(r.Context(), id, req)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

func (h *Handler) deleteItem(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	result, err := h.svc.DeleteItem(r.Context(), id)
	if err != nil {
		respondError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
