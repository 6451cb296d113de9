package recipes

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	List(ctx context.Context, householdID string) ([]Recipe, error)
	ListByIDs(ctx context.Context, householdID string, ids []string) ([]Recipe, error)
	Get(ctx context.Context, householdID, id string) (*Recipe, error)
	IsNameTaken(ctx context.Context, householdID, name, excludeID string) (bool, error)
	Create(ctx context.Context, recipe *Recipe) error
	Update(ctx context.Context, recipe *Recipe) error
	// Delete removes the recipe with its ingredients and favorites.
	Delete(ctx context.Context, householdID, id string) error

	ListIngredients(ctx context.Context, recipeID string) ([]Ingredient, error)
	ReplaceIngredients(ctx context.Context, recipeID string, ingredients []Ingredient) error

	FindFavorite(ctx context.Context, recipeID, userID string) (*Favorite, error)
	ListFavorites(ctx context.Context, householdID, userID string) ([]Favorite, error)
	AddFavorite(ctx context.Context, favorite *Favorite) error
	DeleteFavorite(ctx context.Context, id string) error
}
