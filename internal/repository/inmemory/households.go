package inmemory

import (
	"context"
	"sort"

	"household-app-go/internal/domain/access"
	"household-app-go/internal/domain/household"
)

type HouseholdRepository struct {
	store *Store
	inTx  bool
}

func (r *HouseholdRepository) Transaction(_ context.Context, fn func(household.Repository) error) error {
	return r.store.transaction(r.inTx, func() error {
		return fn(&HouseholdRepository{store: r.store, inTx: true})
	})
}

func (r *HouseholdRepository) GetByPublicID(_ context.Context, publicID string) (*household.Household, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, item := range r.store.data.households {
		if item.PublicID == publicID {
			return &item, nil
		}
	}
	return nil, household.ErrHouseholdNotFound
}

func (r *HouseholdRepository) GetByID(_ context.Context, id string) (*household.Household, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.data.households[id]
	if !ok {
		return nil, household.ErrHouseholdNotFound
	}
	return &item, nil
}

func (r *HouseholdRepository) ListByIDs(_ context.Context, ids []string) ([]household.Household, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]household.Household, 0, len(ids))
	seen := make(map[string]struct{}, len(ids))
	for _, id := range ids {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if item, ok := r.store.data.households[id]; ok {
			result = append(result, item)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Name < result[j].Name })
	return result, nil
}

func (r *HouseholdRepository) IsNameTaken(_ context.Context, name, excludeID string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, item := range r.store.data.households {
		if item.Name == name && item.ID != excludeID {
			return true, nil
		}
	}
	return false, nil
}

func (r *HouseholdRepository) Create(_ context.Context, item *household.Household) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.store.now()
	item.CreatedAt = now
	item.UpdatedAt = now
	r.store.data.households[item.ID] = *item
	return nil
}

func (r *HouseholdRepository) Update(_ context.Context, item *household.Household) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.data.households[item.ID]
	if !ok {
		return household.ErrHouseholdNotFound
	}
	existing.Name = item.Name
	existing.JoinQuestion = item.JoinQuestion
	existing.JoinAnswer = item.JoinAnswer
	existing.UpdatedAt = r.store.now()
	r.store.data.households[item.ID] = existing
	return nil
}

// Delete removes the household and every row that belongs to it.
func (r *HouseholdRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	data := r.store.data
	delete(data.households, id)
	data.deleteMembersWhere(func(member household.Member) bool { return member.HouseholdID == id })
	for productID, product := range data.products {
		if product.HouseholdID == id {
			delete(data.products, productID)
		}
	}
	for recipeID, recipe := range data.recipes {
		if recipe.HouseholdID == id {
			delete(data.recipes, recipeID)
		}
	}
	data.deleteRecipeRowsWhere(func(_, householdID string) bool { return householdID == id })
	return nil
}

func (r *HouseholdRepository) GetMember(_ context.Context, householdID, memberID string) (*household.Member, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.data.members[memberID]
	if !ok || item.HouseholdID != householdID {
		return nil, household.ErrMemberNotFound
	}
	return &item, nil
}

func (r *HouseholdRepository) FindMember(_ context.Context, householdID, userID string) (*household.Member, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, item := range r.store.data.members {
		if item.HouseholdID == householdID && item.UserID == userID {
			return &item, nil
		}
	}
	return nil, household.ErrMemberNotFound
}

func (r *HouseholdRepository) ListMembers(_ context.Context, householdID string) ([]household.MemberProfile, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]household.MemberProfile, 0)
	for _, item := range r.store.data.members {
		if item.HouseholdID != householdID {
			continue
		}
		profile := household.MemberProfile{Member: item}
		if u, ok := r.store.data.users[item.UserID]; ok {
			profile.Name = u.Name
			profile.Email = u.Email
			profile.Image = u.Image
		}
		result = append(result, profile)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *HouseholdRepository) ListMembersByUser(_ context.Context, userID string) ([]household.Member, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]household.Member, 0)
	for _, item := range r.store.data.members {
		if item.UserID == userID {
			result = append(result, item)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].CreatedAt.Before(result[j].CreatedAt) })
	return result, nil
}

func (r *HouseholdRepository) AddMember(_ context.Context, item *household.Member) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.data.members {
		if existing.HouseholdID == item.HouseholdID && existing.UserID == item.UserID {
			return household.ErrAlreadyMember
		}
	}
	now := r.store.now()
	item.CreatedAt = now
	item.UpdatedAt = now
	r.store.data.members[item.ID] = *item
	return nil
}

func (r *HouseholdRepository) UpdateMember(_ context.Context, item *household.Member) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.data.members[item.ID]
	if !ok || existing.HouseholdID != item.HouseholdID {
		return household.ErrMemberNotFound
	}
	existing.Role = item.Role
	existing.Status = item.Status
	existing.CanEditHousehold = item.CanEditHousehold
	existing.CanManageProducts = item.CanManageProducts
	existing.UpdatedAt = r.store.now()
	r.store.data.members[item.ID] = existing
	return nil
}

func (r *HouseholdRepository) DeleteMember(_ context.Context, householdID, memberID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if existing, ok := r.store.data.members[memberID]; ok && existing.HouseholdID == householdID {
		delete(r.store.data.members, memberID)
	}
	return nil
}

func (r *HouseholdRepository) DeleteMembersByHousehold(_ context.Context, householdID string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	r.store.data.deleteMembersWhere(func(member household.Member) bool { return member.HouseholdID == householdID })
	return nil
}

func (r *HouseholdRepository) CountAcceptedAdmins(_ context.Context, householdID, excludeMemberID string) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	var count int64
	for _, item := range r.store.data.members {
		if item.HouseholdID != householdID || item.ID == excludeMemberID {
			continue
		}
		if item.Role == access.RoleAdmin && item.Status == access.StatusAccepted {
			count++
		}
	}
	return count, nil
}
