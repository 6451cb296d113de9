package middleware

import (
	"context"
	"net/http"

	"household-app-go/internal/domain/access"
	"household-app-go/internal/transport/httpserver/handler/common"
	"household-app-go/pkg/logger"

	"github.com/go-chi/chi/v5"
)

// Gate builds the per-request access context.
type Gate interface {
	Identity(ctx context.Context, userID string) (*access.Context, error)
	Enter(ctx context.Context, userID, publicID string) (*access.Context, error)
}

// Scope attaches an access.Context to authenticated requests. Handlers read
// it back with AccessFromContext and pass it to services explicitly.
type Scope struct {
	gate Gate
	log  logger.Logger
}

func NewScope(gate Gate, log logger.Logger) *Scope {
	return &Scope{gate: gate, log: log}
}

// Identity scopes a request to the caller only.
func (s *Scope) Identity(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := UserIDFromContext(r.Context())
		ac, err := s.gate.Identity(r.Context(), userID)
		if err != nil {
			common.WriteDomainError(w, s.log, "scope.identity", err)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAccess(r.Context(), ac)))
	})
}

// Household scopes a request to the household named by the public_id path
// parameter.
func (s *Scope) Household(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, _ := UserIDFromContext(r.Context())
		publicID := chi.URLParam(r, "public_id")
		ac, err := s.gate.Enter(r.Context(), userID, publicID)
		if err != nil {
			common.WriteDomainError(w, s.log, "scope.household", err, "public_id", publicID, "user_id", userID)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithAccess(r.Context(), ac)))
	})
}

func WithAccess(ctx context.Context, ac *access.Context) context.Context {
	return context.WithValue(ctx, accessKey, ac)
}

func AccessFromContext(ctx context.Context) (*access.Context, bool) {
	ac, ok := ctx.Value(accessKey).(*access.Context)
	return ac, ok && ac != nil
}

// RequireAccess reads the access context placed by Scope. Handlers mounted
// outside a scope get a 401.
func RequireAccess(w http.ResponseWriter, r *http.Request) (*access.Context, bool) {
	ac, ok := AccessFromContext(r.Context())
	if !ok {
		common.WriteError(w, http.StatusUnauthorized, "invalid_token", "invalid token")
		return nil, false
	}
	return ac, true
}
