package inmemory

import (
	"context"
	"errors"
	"sort"

	"household-app-go/internal/domain/household"
	"household-app-go/internal/domain/user"
)

var errDuplicateExternalID = errors.New("inmemory: duplicate external id")

type UserRepository struct {
	store *Store
	inTx  bool
}

func (r *UserRepository) Transaction(_ context.Context, fn func(user.Repository) error) error {
	return r.store.transaction(r.inTx, func() error {
		return fn(&UserRepository{store: r.store, inTx: true})
	})
}

func (r *UserRepository) GetByID(_ context.Context, id string) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	item, ok := r.store.data.users[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &item, nil
}

func (r *UserRepository) GetByExternalID(_ context.Context, externalID string) (*user.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, item := range r.store.data.users {
		if item.ExternalID == externalID {
			return &item, nil
		}
	}
	return nil, user.ErrUserNotFound
}

func (r *UserRepository) Create(_ context.Context, item *user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.data.users {
		if existing.ExternalID == item.ExternalID {
			return errDuplicateExternalID
		}
	}
	now := r.store.now()
	item.CreatedAt = now
	item.UpdatedAt = now
	r.store.data.users[item.ID] = *item
	return nil
}

func (r *UserRepository) UpdateProfile(_ context.Context, item *user.User) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	existing, ok := r.store.data.users[item.ID]
	if !ok {
		return user.ErrUserNotFound
	}
	existing.Name = item.Name
	existing.Email = item.Email
	existing.Image = item.Image
	existing.UpdatedAt = r.store.now()
	r.store.data.users[item.ID] = existing
	return nil
}

func (r *UserRepository) Delete(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.data.users[id]; !ok {
		return user.ErrUserNotFound
	}
	delete(r.store.data.users, id)
	r.store.data.deleteMembersWhere(func(member household.Member) bool { return member.UserID == id })
	for favoriteID, favorite := range r.store.data.favorites {
		if favorite.UserID == id {
			delete(r.store.data.favorites, favoriteID)
		}
	}
	return nil
}

func (r *UserRepository) IsEmailAllowed(_ context.Context, email string) (bool, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	_, ok := r.store.data.allowed[email]
	return ok, nil
}

func (r *UserRepository) AllowEmail(_ context.Context, email string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.data.allowed[email]; ok {
		return nil
	}
	r.store.data.allowed[email] = user.AllowedEmail{Email: email, CreatedAt: r.store.now()}
	return nil
}

func (r *UserRepository) DisallowEmail(_ context.Context, email string) (bool, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.data.allowed[email]; !ok {
		return false, nil
	}
	delete(r.store.data.allowed, email)
	return true, nil
}

func (r *UserRepository) ListAllowedEmails(_ context.Context) ([]user.AllowedEmail, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	result := make([]user.AllowedEmail, 0, len(r.store.data.allowed))
	for _, item := range r.store.data.allowed {
		result = append(result, item)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Email < result[j].Email })
	return result, nil
}
