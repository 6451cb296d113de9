package access

import (
	"context"
	"sync"
)

// MembershipSource looks up the membership row binding a user to a household.
// It returns nil, nil when no row exists.
type MembershipSource interface {
	FindMembership(ctx context.Context, householdID, userID string) (*Membership, error)
}

// Caller is the authenticated user a request runs as. Membership lookups are
// memoised for the lifetime of the request.
type Caller struct {
	UserID string

	source MembershipSource
	mu     sync.Mutex
	memo   map[string]*Membership
}

func NewCaller(userID string, source MembershipSource) *Caller {
	return &Caller{
		UserID: userID,
		source: source,
		memo:   make(map[string]*Membership),
	}
}

// Membership returns the caller's membership in householdID, or nil.
func (c *Caller) Membership(ctx context.Context, householdID string) (*Membership, error) {
	if c == nil || c.UserID == "" || householdID == "" {
		return nil, nil
	}

	c.mu.Lock()
	member, ok := c.memo[householdID]
	c.mu.Unlock()
	if ok {
		return member, nil
	}

	if c.source == nil {
		return nil, nil
	}
	member, err := c.source.FindMembership(ctx, householdID, c.UserID)
	if err != nil {
		return nil, err
	}

	c.remember(householdID, member)
	return member, nil
}

func (c *Caller) remember(householdID string, member *Membership) {
	c.mu.Lock()
	c.memo[householdID] = member
	c.mu.Unlock()
}

// Forget drops a memoised membership, used after the caller's own row changes.
func (c *Caller) Forget(householdID string) {
	c.mu.Lock()
	delete(c.memo, householdID)
	c.mu.Unlock()
}
