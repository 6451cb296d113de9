package products

import (
	"context"
	"errors"

	domain "household-app-go/internal/domain/products"

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

func (r *PostgresRepository) List(ctx context.Context, householdID string, category *domain.Category) ([]domain.Product, error) {
	query := r.db.WithContext(ctx).Where("household_id = ?", householdID)
	if category != nil {
		query = query.Where("category = ?", *category)
	}
	var items []domain.Product
	if err := query.Order("name asc").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) Get(ctx context.Context, householdID, id string) (*domain.Product, error) {
	var product domain.Product
	if err := r.db.WithContext(ctx).Where("household_id = ? AND id = ?", householdID, id).First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrProductNotFound
		}
		return nil, err
	}
	return &product, nil
}

func (r *PostgresRepository) ListByIDs(ctx context.Context, householdID string, ids []string) ([]domain.Product, error) {
	if len(ids) == 0 {
		return []domain.Product{}, nil
	}
	var items []domain.Product
	if err := r.db.WithContext(ctx).
		Where("household_id = ? AND id IN ?", householdID, ids).
		Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *PostgresRepository) IsNameTaken(ctx context.Context, householdID, name, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&domain.Product{}).Where("household_id = ? AND name = ?", householdID, name)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) Create(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).Create(product).Error
}

func (r *PostgresRepository) Update(ctx context.Context, product *domain.Product) error {
	return r.db.WithContext(ctx).
		Model(&domain.Product{}).
		Where("household_id = ? AND id = ?", product.HouseholdID, product.ID).
		Updates(map[string]interface{}{
			"icon":         product.Icon,
			"name":         product.Name,
			"description":  product.Description,
			"category":     product.Category,
			"default_unit": product.DefaultUnit,
		}).Error
}

func (r *PostgresRepository) Delete(ctx context.Context, householdID, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Product{}, "household_id = ? AND id = ?", householdID, id).Error
}
