package recipes

import "household-app-go/internal/domain/access"

var (
	ErrRecipeNotFound   = access.NotFound("recipe_not_found", "recipe not found")
	ErrFavoriteNotFound = access.NotFound("favorite_not_found", "favorite not found")
	ErrNameTaken        = access.Conflict("recipe_name_taken", "a recipe with this name already exists in the household")
	ErrAlreadyFavorite  = access.Conflict("already_favorite", "recipe is already a favorite")
	ErrUnknownProduct   = access.Invalid("invalid_request", "ingredient references an unknown product")
)
