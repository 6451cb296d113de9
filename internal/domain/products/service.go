package products

import (
	"context"
	"strings"

	"household-app-go/internal/domain/access"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// List returns the readable products of the scoped household, optionally
// narrowed to one category.
func (s *Service) List(ctx context.Context, ac *access.Context, category *Category) ([]Product, error) {
	if category != nil && !category.Valid() {
		return nil, ErrInvalidCategory
	}
	items, err := s.repo.List(ctx, ac.HouseholdID(), category)
	if err != nil {
		return nil, err
	}
	return access.Filter(ctx, ac, access.KindProducts, items)
}

func (s *Service) Get(ctx context.Context, ac *access.Context, id string) (*Product, error) {
	product, err := s.repo.Get(ctx, ac.HouseholdID(), id)
	if err != nil {
		return nil, err
	}
	if err := access.Visible(ctx, ac, access.KindProducts, product, ErrProductNotFound); err != nil {
		return nil, err
	}
	return product, nil
}

// Lookup returns the readable products among ids keyed by id. Unknown ids
// are skipped.
func (s *Service) Lookup(ctx context.Context, ac *access.Context, ids []string) (map[string]Product, error) {
	result := make(map[string]Product, len(ids))
	if len(ids) == 0 {
		return result, nil
	}
	items, err := s.repo.ListByIDs(ctx, ac.HouseholdID(), ids)
	if err != nil {
		return nil, err
	}
	items, err = access.Filter(ctx, ac, access.KindProducts, items)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		result[item.ID] = item
	}
	return result, nil
}

func (s *Service) Create(ctx context.Context, ac *access.Context, input Input) (*Product, error) {
	input, err := normalizeInput(input)
	if err != nil {
		return nil, err
	}

	product := Product{
		ID:          uuid.NewString(),
		HouseholdID: ac.HouseholdID(),
		Icon:        input.Icon,
		Name:        input.Name,
		Description: input.Description,
		Category:    input.Category,
		DefaultUnit: input.DefaultUnit,
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := ac.Authorize(ctx, access.KindProducts, access.VerbInsert, product); err != nil {
			return err
		}
		taken, err := tx.IsNameTaken(ctx, product.HouseholdID, product.Name, "")
		if err != nil {
			return err
		}
		if taken {
			return ErrNameTaken
		}
		return tx.Create(ctx, &product)
	})
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (s *Service) Update(ctx context.Context, ac *access.Context, id string, input Input) (*Product, error) {
	input, err := normalizeInput(input)
	if err != nil {
		return nil, err
	}

	var result Product
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		product, err := tx.Get(ctx, ac.HouseholdID(), id)
		if err != nil {
			return err
		}
		if err := access.Visible(ctx, ac, access.KindProducts, product, ErrProductNotFound); err != nil {
			return err
		}
		if err := ac.Authorize(ctx, access.KindProducts, access.VerbModify, product); err != nil {
			return err
		}

		taken, err := tx.IsNameTaken(ctx, product.HouseholdID, input.Name, product.ID)
		if err != nil {
			return err
		}
		if taken {
			return ErrNameTaken
		}

		product.Icon = input.Icon
		product.Name = input.Name
		product.Description = input.Description
		product.Category = input.Category
		product.DefaultUnit = input.DefaultUnit
		if err := tx.Update(ctx, product); err != nil {
			return err
		}
		result = *product
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete removes a product. Recipe ingredients pointing at it are left in
// place and render without a product.
func (s *Service) Delete(ctx context.Context, ac *access.Context, id string) error {
	return s.repo.Transaction(ctx, func(tx Repository) error {
		product, err := tx.Get(ctx, ac.HouseholdID(), id)
		if err != nil {
			return err
		}
		if err := access.Visible(ctx, ac, access.KindProducts, product, ErrProductNotFound); err != nil {
			return err
		}
		if err := ac.Authorize(ctx, access.KindProducts, access.VerbModify, product); err != nil {
			return err
		}
		return tx.Delete(ctx, product.HouseholdID, product.ID)
	})
}

func normalizeInput(input Input) (Input, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return Input{}, access.Invalid("invalid_request", "name is required")
	}
	input.Icon = strings.TrimSpace(input.Icon)
	if input.Icon == "" {
		return Input{}, access.Invalid("invalid_request", "icon is required")
	}
	if input.Description != nil {
		description := strings.TrimSpace(*input.Description)
		if description == "" {
			input.Description = nil
		} else {
			input.Description = &description
		}
	}
	if !input.Category.Valid() {
		return Input{}, ErrInvalidCategory
	}
	if !input.DefaultUnit.Valid() {
		return Input{}, ErrInvalidUnit
	}
	return input, nil
}
