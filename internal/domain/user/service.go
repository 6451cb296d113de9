package user

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
)

type Service struct {
	repo  Repository
	cache Cache
}

func NewService(repo Repository, cache Cache) *Service {
	if cache == nil {
		cache = noopCache{}
	}
	return &Service{repo: repo, cache: cache}
}

// ResolveUser maps an external identity to the internal user id. A missing
// user is reported with ok=false, not an error.
func (s *Service) ResolveUser(ctx context.Context, externalID string) (string, bool, error) {
	externalID = strings.TrimSpace(externalID)
	if externalID == "" {
		return "", false, nil
	}
	if userID, ok := s.cache.Get(externalID); ok {
		return userID, true, nil
	}

	user, err := s.repo.GetByExternalID(ctx, externalID)
	if errors.Is(err, ErrUserNotFound) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}

	s.cache.Set(externalID, user.ID)
	return user.ID, true, nil
}

func (s *Service) Get(ctx context.Context, id string) (*User, error) {
	return s.repo.GetByID(ctx, id)
}

// SyncIdentity returns the user bound to identity, creating it on first
// sight when the email is on the allow-list. Profile fields follow the
// identity provider.
func (s *Service) SyncIdentity(ctx context.Context, identity Identity) (*User, error) {
	identity.ExternalID = strings.TrimSpace(identity.ExternalID)
	if identity.ExternalID == "" {
		return nil, ErrInvalidIdentity
	}
	email := NormalizeEmail(identity.Email)
	name := strings.TrimSpace(identity.Name)
	if name == "" {
		name = email
	}

	var result User
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		existing, err := tx.GetByExternalID(ctx, identity.ExternalID)
		switch {
		case err == nil:
			if profileChanged(existing, name, email, identity.Image) {
				existing.Name = name
				existing.Email = email
				existing.Image = optionalString(identity.Image)
				if err := tx.UpdateProfile(ctx, existing); err != nil {
					return err
				}
			}
			result = *existing
			return nil
		case !errors.Is(err, ErrUserNotFound):
			return err
		}

		if email == "" {
			return ErrEmailNotAllowed
		}
		allowed, err := tx.IsEmailAllowed(ctx, email)
		if err != nil {
			return err
		}
		if !allowed {
			return ErrEmailNotAllowed
		}

		user := User{
			ID:         uuid.NewString(),
			ExternalID: identity.ExternalID,
			Name:       name,
			Email:      email,
			Image:      optionalString(identity.Image),
		}
		if err := tx.Create(ctx, &user); err != nil {
			return err
		}
		result = user
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.cache.Set(result.ExternalID, result.ID)
	return &result, nil
}

// DeleteIdentity removes the user bound to externalID. Memberships and
// favorites go with it. The cached id is evicted once the row is gone.
func (s *Service) DeleteIdentity(ctx context.Context, externalID string) error {
	externalID = strings.TrimSpace(externalID)

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		user, err := tx.GetByExternalID(ctx, externalID)
		if err != nil {
			return err
		}
		return tx.Delete(ctx, user.ID)
	})
	s.cache.Delete(externalID)
	return err
}

func (s *Service) AllowEmail(ctx context.Context, email string) error {
	email = NormalizeEmail(email)
	if email == "" {
		return ErrInvalidEmail
	}
	return s.repo.Transaction(ctx, func(tx Repository) error {
		return tx.AllowEmail(ctx, email)
	})
}

func (s *Service) DisallowEmail(ctx context.Context, email string) (bool, error) {
	email = NormalizeEmail(email)
	if email == "" {
		return false, ErrInvalidEmail
	}
	var removed bool
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		var err error
		removed, err = tx.DisallowEmail(ctx, email)
		return err
	})
	return removed, err
}

func (s *Service) ListAllowedEmails(ctx context.Context) ([]AllowedEmail, error) {
	return s.repo.ListAllowedEmails(ctx)
}

func profileChanged(user *User, name, email, image string) bool {
	current := ""
	if user.Image != nil {
		current = *user.Image
	}
	return user.Name != name || user.Email != email || current != strings.TrimSpace(image)
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
