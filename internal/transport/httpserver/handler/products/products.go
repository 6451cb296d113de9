package products

import (
	"net/http"
	"strings"

	productsdomain "household-app-go/internal/domain/products"
	"household-app-go/internal/transport/httpserver/handler/common"
	"household-app-go/internal/transport/httpserver/middleware"
)

func (h *Handlers) ListProducts(w http.ResponseWriter, r *http.Request) {
	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}

	var category *productsdomain.Category
	if value := strings.TrimSpace(r.URL.Query().Get("category")); value != "" {
		parsed := productsdomain.Category(value)
		if !parsed.Valid() {
			common.WriteError(w, http.StatusBadRequest, "invalid_request", "unknown category")
			return
		}
		category = &parsed
	}

	items, err := h.Products.List(r.Context(), ac, category)
	if err != nil {
		common.WriteDomainError(w, h.logger(r), "products.list", err, "user_id", ac.UserID)
		return
	}

	resp := make([]Response, 0, len(items))
	for _, item := range items {
		resp = append(resp, ToResponse(item))
	}
	common.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) GetProduct(w http.ResponseWriter, r *http.Request) {
	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}
	productID, ok := common.PathUUID(w, r, "product_id", productsdomain.ErrProductNotFound)
	if !ok {
		return
	}

	result, err := h.Products.Get(r.Context(), ac, productID)
	if err != nil {
		common.WriteDomainError(w, h.logger(r), "products.get", err, "product_id", productID, "user_id", ac.UserID)
		return
	}

	common.WriteJSON(w, http.StatusOK, ToResponse(*result))
}

func (h *Handlers) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}

	result, err := h.Products.Create(r.Context(), ac, req.input())
	if err != nil {
		common.WriteDomainError(w, h.logger(r), "products.create", err, "user_id", ac.UserID)
		return
	}

	common.WriteJSON(w, http.StatusCreated, ToResponse(*result))
}

func (h *Handlers) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}
	productID, ok := common.PathUUID(w, r, "product_id", productsdomain.ErrProductNotFound)
	if !ok {
		return
	}

	result, err := h.Products.Update(r.Context(), ac, productID, req.input())
	if err != nil {
		common.WriteDomainError(w, h.logger(r), "products.update", err, "product_id", productID, "user_id", ac.UserID)
		return
	}

	common.WriteJSON(w, http.StatusOK, ToResponse(*result))
}

func (h *Handlers) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}
	productID, ok := common.PathUUID(w, r, "product_id", productsdomain.ErrProductNotFound)
	if !ok {
		return
	}

	if err := h.Products.Delete(r.Context(), ac, productID); err != nil {
		common.WriteDomainError(w, h.logger(r), "products.delete", err, "product_id", productID, "user_id", ac.UserID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
