package products

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	List(ctx context.Context, householdID string, category *Category) ([]Product, error)
	Get(ctx context.Context, householdID, id string) (*Product, error)
	ListByIDs(ctx context.Context, householdID string, ids []string) ([]Product, error)
	IsNameTaken(ctx context.Context, householdID, name, excludeID string) (bool, error)
	Create(ctx context.Context, product *Product) error
	Update(ctx context.Context, product *Product) error
	Delete(ctx context.Context, householdID, id string) error
}
