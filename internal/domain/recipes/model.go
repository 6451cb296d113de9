package recipes

import (
	"time"

	"household-app-go/internal/domain/products"
)

type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	default:
		return false
	}
}

type Step struct {
	Order int    `json:"order"`
	Text  string `json:"text"`
}

type Recipe struct {
	ID           string     `gorm:"type:uuid;primaryKey"`
	HouseholdID  string     `gorm:"type:uuid;not null;index:idx_recipes_household_name,priority:1"`
	Name         string     `gorm:"not null;index:idx_recipes_household_name,priority:2"`
	Instructions []Step     `gorm:"type:jsonb;serializer:json;not null"`
	Servings     int        `gorm:"not null"`
	PrepTime     int        `gorm:"not null"`
	CookTime     int        `gorm:"not null"`
	Difficulty   Difficulty `gorm:"type:varchar(16);not null"`
	CreatedAt    time.Time  `gorm:"autoCreateTime"`
	UpdatedAt    time.Time  `gorm:"autoUpdateTime"`
}

func (r Recipe) HouseholdKey() string {
	return r.HouseholdID
}

// Ingredient is a recipe_products row.
type Ingredient struct {
	ID          string        `gorm:"type:uuid;primaryKey"`
	RecipeID    string        `gorm:"type:uuid;not null;index"`
	ProductID   string        `gorm:"type:uuid;not null;index"`
	HouseholdID string        `gorm:"type:uuid;not null;index"`
	Quantity    float64       `gorm:"not null"`
	Unit        products.Unit `gorm:"type:varchar(16);not null"`
	Position    int           `gorm:"not null;default:0"`
}

func (Ingredient) TableName() string {
	return "recipe_products"
}

func (i Ingredient) HouseholdKey() string {
	return i.HouseholdID
}

type Favorite struct {
	ID          string    `gorm:"type:uuid;primaryKey"`
	RecipeID    string    `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_favorites_user_recipe,priority:2"`
	UserID      string    `gorm:"type:uuid;not null;uniqueIndex:idx_recipe_favorites_user_recipe,priority:1"`
	HouseholdID string    `gorm:"type:uuid;not null;index"`
	CreatedAt   time.Time `gorm:"autoCreateTime"`
}

func (Favorite) TableName() string {
	return "recipe_favorites"
}

func (f Favorite) HouseholdKey() string {
	return f.HouseholdID
}

func (f Favorite) OwnerKey() string {
	return f.UserID
}

// IngredientDetails carries the referenced product, nil when it was deleted.
type IngredientDetails struct {
	Ingredient
	Product *products.Product
}

type Details struct {
	Recipe
	Ingredients []IngredientDetails
	IsFavorite  bool
}

type IngredientInput struct {
	ProductID string
	Quantity  float64
	Unit      products.Unit
}

type Input struct {
	Name         string
	Instructions []Step
	Servings     int
	PrepTime     int
	CookTime     int
	Difficulty   Difficulty
	Ingredients  []IngredientInput
}
