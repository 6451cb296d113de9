package inmemory

import (
	"context"
	"sort"

	"household-app-go/internal/domain/products"
)

type ProductRepository struct {
	store *Store
	inTx  bool
}

func (r *ProductRepository) Transaction(_ context.Context, fn func(products.Repository) error) error {
	return r.store.transaction(r.inTx, func() error {
		return fn(&ProductRepository{store: r.store, inTx: true})
	})
}

func (r *ProductRepository) List(_ context.Context, householdID string, category *products.Category) ([]products.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]products.Product, 0)
	for _, item := range r.store.data.products {
		if item.HouseholdID != householdID {
			continue
		}
		if category != nil && item.Category != *category {
			continue
		}
		result = append(result, item)
	}
	sortProducts(result)
	return result, nil
}

func (r *ProductRepository) Get(_ context.Context, householdID, id string) (*products.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.data.products[id]
	if !ok || item.HouseholdID != householdID {
		return nil, products.ErrProductNotFound
	}
	return &item, nil
}

func (r *ProductRepository) ListByIDs(_ context.Context, householdID string, ids []string) ([]products.Product, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]products.Product, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if item, ok := r.store.data.products[id]; ok && item.HouseholdID == householdID {
			result = append(result, item)
		}
	}
	sortProducts(result)
	return result, nil
}

func (r *ProductRepository) IsNameTaken(_ context.Context, householdID, name, excludeID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, item := range r.store.data.products {
		if item.HouseholdID == householdID && item.Name == name && item.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *ProductRepository) Create(_ context.Context, item *products.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	item.CreatedAt = now
	item.UpdatedAt = now
	r.store.data.products[item.ID] = *item
	return nil
}

func (r *ProductRepository) Update(_ context.Context, item *products.Product) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.data.products[item.ID]
	if !ok || existing.HouseholdID != item.HouseholdID {
		return products.ErrProductNotFound
	}
	item.CreatedAt = existing.CreatedAt
	item.UpdatedAt = r.store.now()
	r.store.data.products[item.ID] = *item
	return nil
}

// Delete leaves recipe ingredients that reference the product untouched.
func (r *ProductRepository) Delete(_ context.Context, householdID, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if existing, ok := r.store.data.products[id]; ok && existing.HouseholdID == householdID {
		delete(r.store.data.products, id)
	}
	return nil
}

func sortProducts(items []products.Product) {
	sort.Slice(items, func(i, j int) bool { return items[i].Name < items[j].Name })
}
