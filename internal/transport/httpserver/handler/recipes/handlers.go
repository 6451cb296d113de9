package recipes

import (
	"net/http"
	"time"

	productsdomain "household-app-go/internal/domain/products"
	recipesdomain "household-app-go/internal/domain/recipes"
	productshandler "household-app-go/internal/transport/httpserver/handler/products"
	"household-app-go/pkg/logger"
)

type Handlers struct {
	Recipes *recipesdomain.Service
	log     logger.Logger
}

func New(recipes *recipesdomain.Service, log logger.Logger) *Handlers {
	return &Handlers{
		Recipes: recipes,
		log:     log,
	}
}

func (h *Handlers) logger(r *http.Request) logger.Logger {
	return logger.FromContext(r.Context(), h.log)
}

type ingredientRequest struct {
	ProductID string              `json:"product_id"`
	Quantity  float64             `json:"quantity"`
	Unit      productsdomain.Unit `json:"unit"`
}

type recipeRequest struct {
	Name         string                   `json:"name"`
	Instructions []recipesdomain.Step     `json:"instructions"`
	Servings     int                      `json:"servings"`
	PrepTime     int                      `json:"prep_time"`
	CookTime     int                      `json:"cook_time"`
	Difficulty   recipesdomain.Difficulty `json:"difficulty"`
	Ingredients  []ingredientRequest      `json:"ingredients"`
}

func (req recipeRequest) input() recipesdomain.Input {
	ingredients := make([]recipesdomain.IngredientInput, 0, len(req.Ingredients))
	for _, item := range req.Ingredients {
		ingredients = append(ingredients, recipesdomain.IngredientInput{
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Unit:      item.Unit,
		})
	}
	return recipesdomain.Input{
		Name:         req.Name,
		Instructions: req.Instructions,
		Servings:     req.Servings,
		PrepTime:     req.PrepTime,
		CookTime:     req.CookTime,
		Difficulty:   req.Difficulty,
		Ingredients:  ingredients,
	}
}

type recipeResponse struct {
	ID           string                   `json:"id"`
	Name         string                   `json:"name"`
	Instructions []recipesdomain.Step     `json:"instructions"`
	Servings     int                      `json:"servings"`
	PrepTime     int                      `json:"prep_time"`
	CookTime     int                      `json:"cook_time"`
	Difficulty   recipesdomain.Difficulty `json:"difficulty"`
	CreatedAt    time.Time                `json:"created_at"`
	UpdatedAt    time.Time                `json:"updated_at"`
}

type ingredientResponse struct {
	ID        string                    `json:"id"`
	ProductID string                    `json:"product_id"`
	Quantity  float64                   `json:"quantity"`
	Unit      productsdomain.Unit       `json:"unit"`
	Product   *productshandler.Response `json:"product"`
}

type recipeDetailsResponse struct {
	recipeResponse
	Ingredients []ingredientResponse `json:"ingredients"`
	IsFavorite  bool                 `json:"is_favorite"`
}

type favoriteResponse struct {
	IsFavorite bool `json:"is_favorite"`
}

func toRecipeResponse(recipe recipesdomain.Recipe) recipeResponse {
	instructions := recipe.Instructions
	if instructions == nil {
		instructions = []recipesdomain.Step{}
	}
	return recipeResponse{
		ID:           recipe.ID,
		Name:         recipe.Name,
		Instructions: instructions,
		Servings:     recipe.Servings,
		PrepTime:     recipe.PrepTime,
		CookTime:     recipe.CookTime,
		Difficulty:   recipe.Difficulty,
		CreatedAt:    recipe.CreatedAt,
		UpdatedAt:    recipe.UpdatedAt,
	}
}

func toDetailsResponse(details recipesdomain.Details) recipeDetailsResponse {
	ingredients := make([]ingredientResponse, 0, len(details.Ingredients))
	for _, item := range details.Ingredients {
		resp := ingredientResponse{
			ID:        item.ID,
			ProductID: item.ProductID,
			Quantity:  item.Quantity,
			Unit:      item.Unit,
		}
		if item.Product != nil {
			product := productshandler.ToResponse(*item.Product)
			resp.Product = &product
		}
		ingredients = append(ingredients, resp)
	}
	return recipeDetailsResponse{
		recipeResponse: toRecipeResponse(details.Recipe),
		Ingredients:    ingredients,
		IsFavorite:     details.IsFavorite,
	}
}
