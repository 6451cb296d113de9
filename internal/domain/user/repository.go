package user

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByExternalID(ctx context.Context, externalID string) (*User, error)
	Create(ctx context.Context, user *User) error
	UpdateProfile(ctx context.Context, user *User) error
	Delete(ctx context.Context, id string) error
	IsEmailAllowed(ctx context.Context, email string) (bool, error)
	AllowEmail(ctx context.Context, email string) error
	DisallowEmail(ctx context.Context, email string) (bool, error)
	ListAllowedEmails(ctx context.Context) ([]AllowedEmail, error)
}
