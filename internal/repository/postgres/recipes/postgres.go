package recipes

import (
	"context"
	"errors"

	domain "household-app-go/internal/domain/recipes"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) List(ctx context.Context, householdID string) ([]domain.Recipe, error) {
	var items []domain.Recipe
	if err := r.db.WithContext(ctx).
		Where("household_id = ?", householdID).
		Order("name asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) ListByIDs(ctx context.Context, householdID string, ids []string) ([]domain.Recipe, error) {
	if len(ids) == 0 {
		return []domain.Recipe{}, nil
	}
	var items []domain.Recipe
	if err := r.db.WithContext(ctx).
		Where("household_id = ? AND id IN ?", householdID, ids).
		Order("name asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) Get(ctx context.Context, householdID, id string) (*domain.Recipe, error) {
	var recipe domain.Recipe
	if err := r.db.WithContext(ctx).Where("household_id = ? AND id = ?", householdID, id).First(&recipe).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}
	return &recipe, nil
}

func (r *PostgresRepository) IsNameTaken(ctx context.Context, householdID, name, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&domain.Recipe{}).Where("household_id = ? AND name = ?", householdID, name)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) Create(ctx context.Context, recipe *domain.Recipe) error {
	return r.db.WithContext(ctx).Create(recipe).Error
}

func (r *PostgresRepository) Update(ctx context.Context, recipe *domain.Recipe) error {
	return r.db.WithContext(ctx).
		Model(recipe).
		Select("name", "instructions", "servings", "prep_time", "cook_time", "difficulty", "updated_at").
		Updates(recipe).Error
}

// Delete removes the recipe. Ingredients and favorites cascade in the schema.
func (r *PostgresRepository) Delete(ctx context.Context, householdID, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Recipe{}, "household_id = ? AND id = ?", householdID, id).Error
}

func (r *PostgresRepository) ListIngredients(ctx context.Context, recipeID string) ([]domain.Ingredient, error) {
	var items []domain.Ingredient
	if err := r.db.WithContext(ctx).
		Where("recipe_id = ?", recipeID).
		Order("position asc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) ReplaceIngredients(ctx context.Context, recipeID string, ingredients []domain.Ingredient) error {
	if err := r.db.WithContext(ctx).Where("recipe_id = ?", recipeID).Delete(&domain.Ingredient{}).Error; err != nil {
		return err
	}
	if len(ingredients) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&ingredients).Error
}

func (r *PostgresRepository) FindFavorite(ctx context.Context, recipeID, userID string) (*domain.Favorite, error) {
	var favorite domain.Favorite
	if err := r.db.WithContext(ctx).Where("recipe_id = ? AND user_id = ?", recipeID, userID).First(&favorite).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrFavoriteNotFound
		}
		return nil, err
	}
	return &favorite, nil
}

func (r *PostgresRepository) ListFavorites(ctx context.Context, householdID, userID string) ([]domain.Favorite, error) {
	var items []domain.Favorite
	if err := r.db.WithContext(ctx).
		Where("household_id = ? AND user_id = ?", householdID, userID).
		Order("created_at desc").
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) AddFavorite(ctx context.Context, favorite *domain.Favorite) error {
	err := r.db.WithContext(ctx).Create(favorite).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrAlreadyFavorite
	}
	return err
}

func (r *PostgresRepository) DeleteFavorite(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Favorite{}, "id = ?", id).Error
}
