package user

import "household-app-go/internal/domain/access"

var (
	ErrUserNotFound    = access.NotFound("user_not_found", "user not found")
	ErrEmailNotAllowed = access.Forbidden("email_not_allowed", "email is not on the allow-list")
	ErrInvalidIdentity = access.Invalid("invalid_identity", "identity has no external id")
	ErrInvalidEmail    = access.Invalid("invalid_email", "email is required")
)
