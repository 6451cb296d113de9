package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"household-app-go/internal/config"
	userdomain "household-app-go/internal/domain/user"
	"household-app-go/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

type fakeDirectory struct {
	users   map[string]string
	allowed map[string]bool
	synced  int
}

func (d *fakeDirectory) ResolveUser(_ context.Context, externalID string) (string, bool, error) {
	id, ok := d.users[externalID]
	return id, ok, nil
}

func (d *fakeDirectory) SyncIdentity(_ context.Context, identity userdomain.Identity) (*userdomain.User, error) {
	d.synced++
	if !d.allowed[identity.Email] {
		return nil, userdomain.ErrEmailNotAllowed
	}
	id := "user-" + identity.ExternalID
	d.users[identity.ExternalID] = id
	return &userdomain.User{ID: id, ExternalID: identity.ExternalID, Email: identity.Email}, nil
}

type syncCounter struct {
	outcomes []error
}

func (c *syncCounter) RecordIdentitySync(_ string, err error) {
	c.outcomes = append(c.outcomes, err)
}

func signToken(t *testing.T, secret, subject, email string, expiresIn time.Duration) string {
	t.Helper()
	claims := supabaseClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(expiresIn)),
		},
		Email:        email,
		UserMetadata: map[string]interface{}{"full_name": "Test User", "picture": "https://example.com/a.png"},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func newTestAuth(cfg config.AuthConfig, directory *fakeDirectory, recorder SyncRecorder) *Auth {
	return NewAuth(cfg, NewVerifier(cfg), directory, recorder, logger.Discard())
}

func serveAuth(auth *Auth, token string) (*httptest.ResponseRecorder, string) {
	var seen string
	handler := auth.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = UserIDFromContext(r.Context())
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/me", nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec, seen
}

func TestAuthMiddlewareResolvesKnownUser(t *testing.T) {
	directory := &fakeDirectory{users: map[string]string{"ext-1": "user-1"}}
	auth := newTestAuth(config.AuthConfig{JWTSecret: testSecret}, directory, nil)

	rec, userID := serveAuth(auth, signToken(t, testSecret, "ext-1", "a@example.com", time.Hour))

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "user-1", userID)
	assert.Zero(t, directory.synced)
}

func TestAuthMiddlewareProvisionsAllowedEmail(t *testing.T) {
	directory := &fakeDirectory{users: map[string]string{}, allowed: map[string]bool{"new@example.com": true}}
	recorder := &syncCounter{}
	auth := newTestAuth(config.AuthConfig{JWTSecret: testSecret}, directory, recorder)

	rec, userID := serveAuth(auth, signToken(t, testSecret, "ext-2", "new@example.com", time.Hour))

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "user-ext-2", userID)
	require.Len(t, recorder.outcomes, 1)
	assert.NoError(t, recorder.outcomes[0])
}

func TestAuthMiddlewareRejectsUnlistedEmail(t *testing.T) {
	directory := &fakeDirectory{users: map[string]string{}, allowed: map[string]bool{}}
	recorder := &syncCounter{}
	auth := newTestAuth(config.AuthConfig{JWTSecret: testSecret}, directory, recorder)

	rec, userID := serveAuth(auth, signToken(t, testSecret, "ext-3", "nope@example.com", time.Hour))

	require.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "email_not_allowed")
	assert.Empty(t, userID)
	require.Len(t, recorder.outcomes, 1)
	assert.ErrorIs(t, recorder.outcomes[0], userdomain.ErrEmailNotAllowed)
}

func TestAuthMiddlewareRejectsBadTokens(t *testing.T) {
	directory := &fakeDirectory{users: map[string]string{"ext-1": "user-1"}}
	auth := newTestAuth(config.AuthConfig{JWTSecret: testSecret}, directory, nil)

	tests := map[string]string{
		"missing":      "",
		"garbage":      "not-a-jwt",
		"wrong secret": signToken(t, "other-secret", "ext-1", "a@example.com", time.Hour),
		"expired":      signToken(t, testSecret, "ext-1", "a@example.com", -time.Minute),
	}
	for name, token := range tests {
		t.Run(name, func(t *testing.T) {
			rec, _ := serveAuth(auth, token)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), "invalid_token")
		})
	}
}

func TestAuthMiddlewareSkipUsesMockUser(t *testing.T) {
	directory := &fakeDirectory{users: map[string]string{}, allowed: map[string]bool{"dev@example.com": true}}
	auth := newTestAuth(config.AuthConfig{
		SkipAuth: true,
		MockUser: config.MockUser{ExternalID: "mock", Email: "dev@example.com"},
	}, directory, nil)

	rec, userID := serveAuth(auth, "")

	require.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "user-mock", userID)
}

func TestAuthMiddlewareWithoutVerifier(t *testing.T) {
	auth := newTestAuth(config.AuthConfig{}, &fakeDirectory{}, nil)

	rec, _ := serveAuth(auth, "token")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "auth_not_configured")
}

func TestJWTVerifierReadsMetadata(t *testing.T) {
	identity, err := NewJWTVerifier(testSecret).Verify(context.Background(), signToken(t, testSecret, "ext-9", "u@example.com", time.Hour))

	require.NoError(t, err)
	assert.Equal(t, userdomain.Identity{
		ExternalID: "ext-9",
		Email:      "u@example.com",
		Name:       "Test User",
		Image:      "https://example.com/a.png",
	}, identity)
}

func TestSupabaseVerifier(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/auth/v1/user" || r.Header.Get("apikey") != "key" || r.Header.Get("Authorization") != "Bearer good" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id":"ext-5","email":"s@example.com","user_metadata":{"name":"Sam"}}`))
	}))
	defer provider.Close()

	verifier := NewVerifier(config.AuthConfig{SupabaseURL: provider.URL, PublishableKey: "key", Timeout: time.Second})
	require.IsType(t, &SupabaseVerifier{}, verifier)

	identity, err := verifier.Verify(context.Background(), "good")
	require.NoError(t, err)
	assert.Equal(t, "ext-5", identity.ExternalID)
	assert.Equal(t, "Sam", identity.Name)

	_, err = verifier.Verify(context.Background(), "bad")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestBearerToken(t *testing.T) {
	token, ok := bearerToken("bearer abc")
	assert.True(t, ok)
	assert.Equal(t, "abc", token)

	_, ok = bearerToken("Basic abc")
	assert.False(t, ok)
	_, ok = bearerToken("Bearer")
	assert.False(t, ok)
}
