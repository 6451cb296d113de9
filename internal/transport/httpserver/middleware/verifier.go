package middleware

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"household-app-go/internal/config"
	userdomain "household-app-go/internal/domain/user"

	"github.com/golang-jwt/jwt/v5"
)

// NewVerifier prefers local HS256 verification and falls back to asking the
// identity provider. It returns nil when neither is configured.
func NewVerifier(cfg config.AuthConfig) IdentityVerifier {
	if cfg.JWTSecret != "" {
		return NewJWTVerifier(cfg.JWTSecret)
	}
	if cfg.SupabaseURL != "" && cfg.PublishableKey != "" {
		return NewSupabaseVerifier(cfg)
	}
	return nil
}

type supabaseClaims struct {
	jwt.RegisteredClaims
	Email        string                 `json:"email"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
}

// JWTVerifier validates HS256 access tokens signed with the project secret.
type JWTVerifier struct {
	secret []byte
}

func NewJWTVerifier(secret string) *JWTVerifier {
	return &JWTVerifier{secret: []byte(secret)}
}

func (v *JWTVerifier) Verify(_ context.Context, token string) (userdomain.Identity, error) {
	claims := &supabaseClaims{}
	parsed, err := jwt.ParseWithClaims(token, claims, func(*jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
	if err != nil {
		return userdomain.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid || claims.Subject == "" {
		return userdomain.Identity{}, ErrInvalidToken
	}

	return IdentityFromMetadata(claims.Subject, claims.Email, claims.UserMetadata), nil
}

type userResponse struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	Sub          string                 `json:"sub"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	User         struct {
		ID  string `json:"id"`
		Sub string `json:"sub"`
	} `json:"user"`
}

// SupabaseVerifier asks the identity provider who owns the token.
type SupabaseVerifier struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

func NewSupabaseVerifier(cfg config.AuthConfig) *SupabaseVerifier {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}
	return &SupabaseVerifier{
		baseURL: strings.TrimRight(cfg.SupabaseURL, "/"),
		apiKey:  cfg.PublishableKey,
		client:  &http.Client{Timeout: timeout},
	}
}

func (v *SupabaseVerifier) Verify(ctx context.Context, token string) (userdomain.Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return userdomain.Identity{}, err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", v.apiKey)

	resp, err := v.client.Do(req)
	if err != nil {
		return userdomain.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return userdomain.Identity{}, fmt.Errorf("%w: provider returned %d", ErrInvalidToken, resp.StatusCode)
	}

	var payload userResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return userdomain.Identity{}, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	externalID := firstNonEmpty(payload.ID, payload.Sub, payload.User.ID, payload.User.Sub)
	if externalID == "" {
		return userdomain.Identity{}, ErrInvalidToken
	}

	return IdentityFromMetadata(externalID, payload.Email, payload.UserMetadata), nil
}
