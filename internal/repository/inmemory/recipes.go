package inmemory

import (
	"context"
	"slices"
	"sort"

	"household-app-go/internal/domain/recipes"
)

type RecipeRepository struct {
	store *Store
	inTx  bool
}

func (r *RecipeRepository) Transaction(_ context.Context, fn func(recipes.Repository) error) error {
	return r.store.transaction(r.inTx, func() error {
		return fn(&RecipeRepository{store: r.store, inTx: true})
	})
}

func (r *RecipeRepository) List(_ context.Context, householdID string) ([]recipes.Recipe, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]recipes.Recipe, 0)
	for _, item := range r.store.data.recipes {
		if item.HouseholdID == householdID {
			result = append(result, cloneRecipe(item))
		}
	}
	sortRecipes(result)
	return result, nil
}

func (r *RecipeRepository) ListByIDs(_ context.Context, householdID string, ids []string) ([]recipes.Recipe, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]recipes.Recipe, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if item, ok := r.store.data.recipes[id]; ok && item.HouseholdID == householdID {
			result = append(result, cloneRecipe(item))
		}
	}
	sortRecipes(result)
	return result, nil
}

func (r *RecipeRepository) Get(_ context.Context, householdID, id string) (*recipes.Recipe, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.data.recipes[id]
	if !ok || item.HouseholdID != householdID {
		return nil, recipes.ErrRecipeNotFound
	}
	item = cloneRecipe(item)
	return &item, nil
}

func (r *RecipeRepository) IsNameTaken(_ context.Context, householdID, name, excludeID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, item := range r.store.data.recipes {
		if item.HouseholdID == householdID && item.Name == name && item.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *RecipeRepository) Create(_ context.Context, item *recipes.Recipe) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	item.CreatedAt = now
	item.UpdatedAt = now
	r.store.data.recipes[item.ID] = cloneRecipe(*item)
	return nil
}

func (r *RecipeRepository) Update(_ context.Context, item *recipes.Recipe) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.data.recipes[item.ID]
	if !ok || existing.HouseholdID != item.HouseholdID {
		return recipes.ErrRecipeNotFound
	}
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = r.store.now()
	r.store.data.recipes[item.ID] = cloneRecipe(*item)
	return nil
}

func (r *RecipeRepository) Delete(_ context.Context, householdID, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.data.recipes[id]
	if !ok || existing.HouseholdID != householdID {
		return nil
	}
	delete(r.store.data.recipes, id)
	r.store.data.deleteRecipeRowsWhere(func(recipeID, _ string) bool { return recipeID == id })
	return nil
}

func (r *RecipeRepository) ListIngredients(_ context.Context, recipeID string) ([]recipes.Ingredient, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]recipes.Ingredient, 0)
	for _, item := range r.store.data.ingredients {
		if item.RecipeID == recipeID {
			result = append(result, item)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Position < result[j].Position })
	return result, nil
}

func (r *RecipeRepository) ReplaceIngredients(_ context.Context, recipeID string, ingredients []recipes.Ingredient) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for id, item := range r.store.data.ingredients {
		if item.RecipeID == recipeID {
			delete(r.store.data.ingredients, id)
		}
	}
	for _, item := range ingredients {
		r.store.data.ingredients[item.ID] = item
	}
	return nil
}

func (r *RecipeRepository) FindFavorite(_ context.Context, recipeID, userID string) (*recipes.Favorite, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, item := range r.store.data.favorites {
		if item.RecipeID == recipeID && item.UserID == userID {
			return &item, nil
		}
	}
	return nil, recipes.ErrFavoriteNotFound
}

func (r *RecipeRepository) ListFavorites(_ context.Context, householdID, userID string) ([]recipes.Favorite, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]recipes.Favorite, 0)
	for _, item := range r.store.data.favorites {
		if item.HouseholdID == householdID && item.UserID == userID {
			result = append(result, item)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.After(result[j].CreatedAt) })
	return result, nil
}

func (r *RecipeRepository) AddFavorite(_ context.Context, item *recipes.Favorite) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.data.favorites {
		if existing.RecipeID == item.RecipeID && existing.UserID == item.UserID {
			return recipes.ErrAlreadyFavorite
		}
	}
	item.CreatedAt = r.store.now()
	r.store.data.favorites[item.ID] = *item
	return nil
}

func (r *RecipeRepository) DeleteFavorite(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.data.favorites, id)
	return nil
}

func cloneRecipe(item recipes.Recipe) recipes.Recipe {
	item.Instructions = slices.Clone(item.Instructions)
	return item
}

func sortRecipes(items []recipes.Recipe) {
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
}
