package recipes

import (
	"net/http"

	recipesdomain "household-app-go/internal/domain/recipes"
	"household-app-go/internal/transport/httpserver/handler/common"
	"household-app-go/internal/transport/httpserver/middleware"
)

func (h *Handlers) ListRecipes(w http.ResponseWriter, r *http.Request) {
	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}

	items, err := h.Recipes.List(r.Context(), ac)
	if err != nil {
		common.WriteDomainError(w, h.logger(r), "recipes.list", err, "user_id", ac.UserID)
		return
	}

	resp := make([]recipeResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toRecipeResponse(item))
	}
	common.WriteJSON(w, http.StatusOK, resp)
}

func (h *Handlers) GetRecipe(w http.ResponseWriter, r *http.Request) {
	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}
	recipeID, ok := common.PathUUID(w, r, "recipe_id", recipesdomain.ErrRecipeNotFound)
	if !ok {
		return
	}

	result, err := h.Recipes.Get(r.Context(), ac, recipeID)
	if err != nil {
		common.WriteDomainError(w, h.logger(r), "recipes.get", err, "recipe_id", recipeID, "user_id", ac.UserID)
		return
	}

	common.WriteJSON(w, http.StatusOK, toDetailsResponse(*result))
}

func (h *Handlers) CreateRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}

	result, err := h.Recipes.Create(r.Context(), ac, req.input())
	if err != nil {
		common.WriteDomainError(w, h.logger(r), "recipes.create", err, "user_id", ac.UserID)
		return
	}

	common.WriteJSON(w, http.StatusCreated, toDetailsResponse(*result))
}

func (h *Handlers) UpdateRecipe(w http.ResponseWriter, r *http.Request) {
	var req recipeRequest
	if err := common.DecodeJSON(r, &req); err != nil {
		common.WriteError(w, http.StatusBadRequest, "invalid_json", "invalid json body")
		return
	}

	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}
	recipeID, ok := common.PathUUID(w, r, "recipe_id", recipesdomain.ErrRecipeNotFound)
	if !ok {
		return
	}

	result, err := h.Recipes.Update(r.Context(), ac, recipeID, req.input())
	if err != nil {
		common.WriteDomainError(w, h.logger(r), "recipes.update", err, "recipe_id", recipeID, "user_id", ac.UserID)
		return
	}

	common.WriteJSON(w, http.StatusOK, toDetailsResponse(*result))
}

func (h *Handlers) DeleteRecipe(w http.ResponseWriter, r *http.Request) {
	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}
	recipeID, ok := common.PathUUID(w, r, "recipe_id", recipesdomain.ErrRecipeNotFound)
	if !ok {
		return
	}

	if err := h.Recipes.Delete(r.Context(), ac, recipeID); err != nil {
		common.WriteDomainError(w, h.logger(r), "recipes.delete", err, "recipe_id", recipeID, "user_id", ac.UserID)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) ToggleFavorite(w http.ResponseWriter, r *http.Request) {
	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}
	recipeID, ok := common.PathUUID(w, r, "recipe_id", recipesdomain.ErrRecipeNotFound)
	if !ok {
		return
	}

	isFavorite, err := h.Recipes.ToggleFavorite(r.Context(), ac, recipeID)
	if err != nil {
		common.WriteDomainError(w, h.logger(r), "recipes.favorite", err, "recipe_id", recipeID, "user_id", ac.UserID)
		return
	}

	common.WriteJSON(w, http.StatusOK, favoriteResponse{IsFavorite: isFavorite})
}

func (h *Handlers) ListFavorites(w http.ResponseWriter, r *http.Request) {
	ac, ok := middleware.RequireAccess(w, r)
	if !ok {
		return
	}

	items, err := h.Recipes.ListFavorites(r.Context(), ac)
	if err != nil {
		common.WriteDomainError(w, h.logger(r), "recipes.favorites", err, "user_id", ac.UserID)
		return
	}

	resp := make([]recipeResponse, 0, len(items))
	for _, item := range items {
		resp = append(resp, toRecipeResponse(item))
	}
	common.WriteJSON(w, http.StatusOK, resp)
}
