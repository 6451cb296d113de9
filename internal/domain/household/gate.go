package household

import (
	"context"
	"errors"
	"strings"

	"household-app-go/internal/domain/access"

	"github.com/google/uuid"
)

// Gate resolves the household a request names and the caller's membership
// in it, and builds the access context handed to every service call.
type Gate struct {
	repo      Repository
	cache     Cache
	evaluator *access.Evaluator
}

func NewGate(repo Repository, cache Cache, evaluator *access.Evaluator) *Gate {
	if cache == nil {
		cache = noopCache{}
	}
	return &Gate{repo: repo, cache: cache, evaluator: evaluator}
}

// Identity builds a household-less context. Predicates still apply per row.
func (g *Gate) Identity(ctx context.Context, userID string) (*access.Context, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, access.ErrNoIdentity
	}
	return access.NewContext(g.evaluator, access.NewCaller(userID, g), nil, nil), nil
}

// Enter scopes a request to the household identified by publicID. A missing
// membership is not an error; the context carries a nil Membership.
func (g *Gate) Enter(ctx context.Context, userID, publicID string) (*access.Context, error) {
	if strings.TrimSpace(userID) == "" {
		return nil, access.ErrNoIdentity
	}

	ref, err := g.lookup(ctx, publicID)
	if err != nil {
		return nil, err
	}

	caller := access.NewCaller(userID, g)
	membership, err := g.FindMembership(ctx, ref.ID, userID)
	if err != nil {
		return nil, err
	}

	return access.NewContext(g.evaluator, caller, ref, membership), nil
}

// FindMembership implements access.MembershipSource.
func (g *Gate) FindMembership(ctx context.Context, householdID, userID string) (*access.Membership, error) {
	member, err := g.repo.FindMember(ctx, householdID, userID)
	if errors.Is(err, ErrMemberNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return member.Access(), nil
}

// Forget evicts a household from the lookup cache.
func (g *Gate) Forget(publicID string) {
	g.cache.Delete(publicID)
}

func (g *Gate) lookup(ctx context.Context, publicID string) (*access.HouseholdRef, error) {
	publicID = strings.TrimSpace(publicID)
	if _, err := uuid.Parse(publicID); err != nil {
		return nil, ErrHouseholdNotFound
	}
	if ref, ok := g.cache.Get(publicID); ok {
		return ref, nil
	}

	household, err := g.repo.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}

	ref := household.Ref()
	g.cache.Set(publicID, ref)
	return ref, nil
}
