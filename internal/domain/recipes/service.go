package recipes

import (
	"context"
	"errors"
	"sort"
	"strings"

	"household-app-go/internal/domain/access"
	"household-app-go/internal/domain/products"

	"github.com/google/uuid"
)

// ProductLookup resolves product ids of the scoped household.
type ProductLookup interface {
	Lookup(ctx context.Context, ac *access.Context, ids []string) (map[string]products.Product, error)
}

type Service struct {
	repo     Repository
	products ProductLookup
}

func NewService(repo Repository, products ProductLookup) *Service {
	return &Service{repo: repo, products: products}
}

func (s *Service) List(ctx context.Context, ac *access.Context) ([]Recipe, error) {
	items, err := s.repo.List(ctx, ac.HouseholdID())
	if err != nil {
		return nil, err
	}
	return access.Filter(ctx, ac, access.KindRecipes, items)
}

func (s *Service) Get(ctx context.Context, ac *access.Context, id string) (*Details, error) {
	recipe, err := s.repo.Get(ctx, ac.HouseholdID(), id)
	if err != nil {
		return nil, err
	}
	if err := access.Visible(ctx, ac, access.KindRecipes, recipe, ErrRecipeNotFound); err != nil {
		return nil, err
	}
	return s.details(ctx, s.repo, ac, recipe)
}

func (s *Service) Create(ctx context.Context, ac *access.Context, input Input) (*Details, error) {
	input, err := normalizeInput(input)
	if err != nil {
		return nil, err
	}

	recipe := Recipe{
		ID:          uuid.NewString(),
		HouseholdID: ac.HouseholdID(),
	}
	input.applyTo(&recipe)

	var result *Details
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := ac.Authorize(ctx, access.KindRecipes, access.VerbInsert, recipe); err != nil {
			return err
		}
		taken, err := tx.IsNameTaken(ctx, recipe.HouseholdID, recipe.Name, "")
		if err != nil {
			return err
		}
		if taken {
			return ErrNameTaken
		}

		ingredients, err := s.buildIngredients(ctx, ac, recipe, input.Ingredients)
		if err != nil {
			return err
		}
		if err := tx.Create(ctx, &recipe); err != nil {
			return err
		}
		if err := tx.ReplaceIngredients(ctx, recipe.ID, ingredients); err != nil {
			return err
		}

		result, err = s.details(ctx, tx, ac, &recipe)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Update replaces the recipe fields and its full ingredient list.
func (s *Service) Update(ctx context.Context, ac *access.Context, id string, input Input) (*Details, error) {
	input, err := normalizeInput(input)
	if err != nil {
		return nil, err
	}

	var result *Details
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		recipe, err := tx.Get(ctx, ac.HouseholdID(), id)
		if err != nil {
			return err
		}
		if err := access.Visible(ctx, ac, access.KindRecipes, recipe, ErrRecipeNotFound); err != nil {
			return err
		}
		if err := ac.Authorize(ctx, access.KindRecipes, access.VerbModify, recipe); err != nil {
			return err
		}

		taken, err := tx.IsNameTaken(ctx, recipe.HouseholdID, input.Name, recipe.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrNameTaken
		}

		current, err := tx.ListIngredients(ctx, recipe.ID)
		if err != nil {
			return err
		}
		for _, ingredient := range current {
			if err := ac.Authorize(ctx, access.KindRecipeProducts, access.VerbModify, ingredient); err != nil {
				return err
			}
		}

		input.applyTo(recipe)
		ingredients, err := s.buildIngredients(ctx, ac, *recipe, input.Ingredients)
		if err != nil {
			return err
		}
		if err := tx.Update(ctx, recipe); err != nil {
			return err
		}
		if err := tx.ReplaceIngredients(ctx, recipe.ID, ingredients); err != nil {
			return err
		}

		result, err = s.details(ctx, tx, ac, recipe)
		return err
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a recipe together with its ingredients and every user's
// favorite of it.
func (s *Service) Delete(ctx context.Context, ac *access.Context, id string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		recipe, err := tx.Get(ctx, ac.HouseholdID(), id)
		if err != nil {
			return err
		}
		if err := access.Visible(ctx, ac, access.KindRecipes, recipe, ErrRecipeNotFound); err != nil {
			return err
		}
		if err := ac.Authorize(ctx, access.KindRecipes, access.VerbModify, recipe); err != nil {
			return err
		}
		return tx.Delete(ctx, recipe.HouseholdID, recipe.ID)
	})
}

// ToggleFavorite flips the caller's favorite on a recipe and reports the
// new state.
func (s *Service) ToggleFavorite(ctx context.Context, ac *access.Context, recipeID string) (bool, error) {
	var isFavorite bool
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		recipe, err := tx.Get(ctx, ac.HouseholdID(), recipeID)
		if err != nil {
			return err
		}
		if err := access.Visible(ctx, ac, access.KindRecipes, recipe, ErrRecipeNotFound); err != nil {
			return err
		}

		existing, err := tx.FindFavorite(ctx, recipe.ID, ac.UserID)
		switch {
		case err == nil:
			if err := ac.Authorize(ctx, access.KindRecipeFavorites, access.VerbModify, existing); err != nil {
				return err
			}
			isFavorite = false
			return tx.DeleteFavorite(ctx, existing.ID)
		case !errors.Is(err, ErrFavoriteNotFound):
			return err
		}

		favorite := Favorite{
			ID:          uuid.NewString(),
			RecipeID:    recipe.ID,
			UserID:      ac.UserID,
			HouseholdID: recipe.HouseholdID,
		}
		if err := ac.Authorize(ctx, access.KindRecipeFavorites, access.VerbInsert, favorite); err != nil {
			return err
		}
		isFavorite = true
		return tx.AddFavorite(ctx, &favorite)
	})
	if err != nil {
		return false, err
	}
	return isFavorite, nil
}

// ListFavorites returns the recipes the caller marked as favorite in the
// scoped household.
func (s *Service) ListFavorites(ctx context.Context, ac *access.Context) ([]Recipe, error) {
	favorites, err := s.repo.ListFavorites(ctx, ac.HouseholdID(), ac.UserID)
	if err != nil {
		return nil, err
	}
	favorites, err = access.Filter(ctx, ac, access.KindRecipeFavorites, favorites)
	if err != nil {
		return nil, err
	}
	if len(favorites) == 0 {
		return []Recipe{}, nil
	}

	ids := make([]string, 0, len(favorites))
	for _, favorite := range favorites {
		ids = append(ids, favorite.RecipeID)
	}
	items, err := s.repo.ListByIDs(ctx, ac.HouseholdID(), ids)
	if err != nil {
		return nil, err
	}
	return access.Filter(ctx, ac, access.KindRecipes, items)
}

func (s *Service) details(ctx context.Context, repo Repository, ac *access.Context, recipe *Recipe) (*Details, error) {
	ingredients, err := repo.ListIngredients(ctx, recipe.ID)
	if err != nil {
		return nil, err
	}
	ingredients, err = access.Filter(ctx, ac, access.KindRecipeProducts, ingredients)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(ingredients))
	for _, ingredient := range ingredients {
		ids = append(ids, ingredient.ProductID)
	}
	known, err := s.products.Lookup(ctx, ac, ids)
	if err != nil {
		return nil, err
	}

	result := Details{
		Recipe:      *recipe,
		Ingredients: make([]IngredientDetails, 0, len(ingredients)),
	}
	for _, ingredient := range ingredients {
		item := IngredientDetails{Ingredient: ingredient}
		if product, ok := known[ingredient.ProductID]; ok {
			item.Product = &product
		}
		result.Ingredients = append(result.Ingredients, item)
	}

	_, err = repo.FindFavorite(ctx, recipe.ID, ac.UserID)
	switch {
	case err == nil:
		result.IsFavorite = true
	case !errors.Is(err, ErrFavoriteNotFound):
		return nil, err
	}
	return &result, nil
}

func (s *Service) buildIngredients(ctx context.Context, ac *access.Context, recipe Recipe, inputs []IngredientInput) ([]Ingredient, error) {
	ids := make([]string, 0, len(inputs))
	for _, input := range inputs {
		ids = append(ids, input.ProductID)
	}
	known, err := s.products.Lookup(ctx, ac, ids)
	if err != nil {
		return nil, err
	}

	result := make([]Ingredient, 0, len(inputs))
	for i, input := range inputs {
		if _, ok := known[input.ProductID]; !ok {
			return nil, ErrUnknownProduct
		}
		ingredient := Ingredient{
			ID:          uuid.NewString(),
			RecipeID:    recipe.ID,
			ProductID:   input.ProductID,
			HouseholdID: recipe.HouseholdID,
			Quantity:    input.Quantity,
			Unit:        input.Unit,
			Position:    i,
		}
		if err := ac.Authorize(ctx, access.KindRecipeProducts, access.VerbInsert, ingredient); err != nil {
			return nil, err
		}
		result = append(result, ingredient)
	}
	return result, nil
}

func (in Input) applyTo(recipe *Recipe) {
	recipe.Name = in.Name
	recipe.Instructions = in.Instructions
	recipe.Servings = in.Servings
	recipe.PrepTime = in.PrepTime
	recipe.CookTime = in.CookTime
	recipe.Difficulty = in.Difficulty
}

func normalizeInput(input Input) (Input, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return Input{}, access.Invalid("invalid_request", "name is required")
	}
	if !input.Difficulty.Valid() {
		return Input{}, access.Invalid("invalid_request", "difficulty must be easy, medium or hard")
	}
	if input.Servings < 1 {
		return Input{}, access.Invalid("invalid_request", "servings must be positive")
	}
	if input.PrepTime < 0 || input.CookTime < 0 {
		return Input{}, access.Invalid("invalid_request", "times must not be negative")
	}

	steps := make([]Step, 0, len(input.Instructions))
	for _, step := range input.Instructions {
		step.Text = strings.TrimSpace(step.Text)
		if step.Text == "" {
			continue
		}
		steps = append(steps, step)
	}
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Order < steps[j].Order })
	for i := range steps {
		steps[i].Order = i + 1
	}
	input.Instructions = steps

	seen := make(map[string]struct{}, len(input.Ingredients))
	ingredients := make([]IngredientInput, 0, len(input.Ingredients))
	for _, ingredient := range input.Ingredients {
		ingredient.ProductID = strings.TrimSpace(ingredient.ProductID)
		if ingredient.ProductID == "" {
			return Input{}, access.Invalid("invalid_request", "ingredient product is required")
		}
		if _, dup := seen[ingredient.ProductID]; dup {
			return Input{}, access.Invalid("invalid_request", "ingredient listed twice")
		}
		seen[ingredient.ProductID] = struct{}{}
		if ingredient.Quantity <= 0 {
			return Input{}, access.Invalid("invalid_request", "ingredient quantity must be positive")
		}
		if !ingredient.Unit.Valid() {
			return Input{}, access.Invalid("invalid_request", "unknown unit")
		}
		ingredients = append(ingredients, ingredient)
	}
	input.Ingredients = ingredients
	return input, nil
}
