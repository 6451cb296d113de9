package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"household-app-go/internal/config"
	userdomain "household-app-go/internal/domain/user"
	"household-app-go/internal/transport/httpserver/handler/common"
	"household-app-go/pkg/logger"
)

var ErrInvalidToken = errors.New("invalid token")

// IdentityVerifier turns a bearer token into a verified external identity.
type IdentityVerifier interface {
	Verify(ctx context.Context, token string) (userdomain.Identity, error)
}

// UserDirectory resolves external identities to internal users.
type UserDirectory interface {
	ResolveUser(ctx context.Context, externalID string) (string, bool, error)
	SyncIdentity(ctx context.Context, identity userdomain.Identity) (*userdomain.User, error)
}

// SyncRecorder counts identity provisioning outcomes.
type SyncRecorder interface {
	RecordIdentitySync(source string, err error)
}

type contextKey int

const (
	userIDKey contextKey = iota
	identityKey
	accessKey
)

type Auth struct {
	verifier IdentityVerifier
	users    UserDirectory
	recorder SyncRecorder
	skipAuth bool
	mockUser userdomain.Identity
	log      logger.Logger
}

func NewAuth(cfg config.AuthConfig, verifier IdentityVerifier, users UserDirectory, recorder SyncRecorder, log logger.Logger) *Auth {
	return &Auth{
		verifier: verifier,
		users:    users,
		recorder: recorder,
		skipAuth: cfg.SkipAuth,
		mockUser: userdomain.Identity{
			ExternalID: strings.TrimSpace(cfg.MockUser.ExternalID),
			Email:      strings.TrimSpace(cfg.MockUser.Email),
			Name:       strings.TrimSpace(cfg.MockUser.Name),
			Image:      strings.TrimSpace(cfg.MockUser.Image),
		},
		log: log,
	}
}

// Middleware verifies the caller and resolves the internal user. Users seen
// for the first time are provisioned when their email is allow-listed.
func (a *Auth) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := a.identify(w, r)
		if !ok {
			return
		}

		userID, found, err := a.users.ResolveUser(r.Context(), identity.ExternalID)
		if err != nil {
			common.WriteDomainError(w, a.log, "auth.resolve", err, "external_id", identity.ExternalID)
			return
		}
		if !found {
			user, err := a.users.SyncIdentity(r.Context(), identity)
			if a.recorder != nil {
				a.recorder.RecordIdentitySync("request", err)
			}
			if err != nil {
				common.WriteDomainError(w, a.log, "auth.provision", err, "external_id", identity.ExternalID, "email", identity.Email)
				return
			}
			a.log.Info("auth: user provisioned", "user_id", user.ID, "external_id", identity.ExternalID)
			userID = user.ID
		}

		ctx := WithIdentity(r.Context(), identity)
		ctx = WithUserID(ctx, userID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (a *Auth) identify(w http.ResponseWriter, r *http.Request) (userdomain.Identity, bool) {
	if a.skipAuth {
		if a.mockUser.ExternalID == "" {
			common.WriteError(w, http.StatusInternalServerError, "auth_not_configured", "auth mock user id not configured")
			return userdomain.Identity{}, false
		}
		return a.mockUser, true
	}

	if a.verifier == nil {
		common.WriteError(w, http.StatusInternalServerError, "auth_not_configured", "auth not configured")
		return userdomain.Identity{}, false
	}

	token, ok := bearerToken(r.Header.Get("Authorization"))
	if !ok {
		unauthorized(w)
		return userdomain.Identity{}, false
	}

	identity, err := a.verifier.Verify(r.Context(), token)
	if err != nil {
		a.log.Debug("auth: token rejected", "err", err)
		unauthorized(w)
		return userdomain.Identity{}, false
	}
	return identity, true
}

func bearerToken(value string) (string, bool) {
	parts := strings.Fields(value)
	if len(parts) != 2 {
		return "", false
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return "", false
	}
	return parts[1], true
}

func unauthorized(w http.ResponseWriter) {
	common.WriteError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, userIDKey, userID)
}

func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(userIDKey).(string)
	if !ok || userID == "" {
		return "", false
	}
	return userID, true
}

func WithIdentity(ctx context.Context, identity userdomain.Identity) context.Context {
	return context.WithValue(ctx, identityKey, identity)
}

func IdentityFromContext(ctx context.Context) (userdomain.Identity, bool) {
	identity, ok := ctx.Value(identityKey).(userdomain.Identity)
	if !ok || identity.ExternalID == "" {
		return userdomain.Identity{}, false
	}
	return identity, true
}

// IdentityFromMetadata builds an identity from provider user metadata.
func IdentityFromMetadata(externalID, email string, metadata map[string]interface{}) userdomain.Identity {
	return userdomain.Identity{
		ExternalID: externalID,
		Email:      email,
		Name:       firstNonEmpty(stringFromMap(metadata, "name"), stringFromMap(metadata, "full_name")),
		Image:      firstNonEmpty(stringFromMap(metadata, "avatar_url"), stringFromMap(metadata, "picture")),
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if value != "" {
			return value
		}
	}
	return ""
}

func stringFromMap(values map[string]interface{}, key string) string {
	if values == nil {
		return ""
	}
	parsed, _ := values[key].(string)
	return parsed
}
