package access

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	members map[string]*Membership
	calls   int
}

func (s *fakeSource) FindMembership(_ context.Context, householdID, userID string) (*Membership, error) {
	s.calls++
	return s.members[householdID+"/"+userID], nil
}

type testRow struct {
	household string
	owner     string
}

func (r testRow) HouseholdKey() string { return r.household }
func (r testRow) OwnerKey() string     { return r.owner }

type householdOnly struct{ household string }

func (r householdOnly) HouseholdKey() string { return r.household }

type countingRecorder struct {
	allowed, denied int
}

func (r *countingRecorder) RecordDecision(_ Kind, _ Verb, allowed bool) {
	if allowed {
		r.allowed++
		return
	}
	r.denied++
}

func newCaller(userID string, m *Membership) *Caller {
	source := &fakeSource{members: map[string]*Membership{}}
	if m != nil {
		source.members[m.HouseholdID+"/"+userID] = m
	}
	return NewCaller(userID, source)
}

func TestDefaultPredicates(t *testing.T) {
	ctx := context.Background()
	row := testRow{household: "h1", owner: "u1"}

	accepted := &Membership{HouseholdID: "h1", UserID: "u1", Role: RoleMember, Status: StatusAccepted}
	pending := &Membership{HouseholdID: "h1", UserID: "u1", Role: RoleMember, Status: StatusPending}
	editor := &Membership{HouseholdID: "h1", UserID: "u1", Role: RoleMember, Status: StatusAccepted, CanEditHousehold: true}
	manager := &Membership{HouseholdID: "h1", UserID: "u1", Role: RoleMember, Status: StatusAccepted, CanManageProducts: true}
	bannedManager := &Membership{HouseholdID: "h1", UserID: "u1", Role: RoleMember, Status: StatusBanned, CanManageProducts: true}

	tests := []struct {
		name       string
		kind       Kind
		verb       Verb
		membership *Membership
		want       bool
	}{
		{"household insert without membership", KindHouseholds, VerbInsert, nil, true},
		{"household read accepted", KindHouseholds, VerbRead, accepted, true},
		{"household read pending", KindHouseholds, VerbRead, pending, false},
		{"household read stranger", KindHouseholds, VerbRead, nil, false},
		{"household modify without flag", KindHouseholds, VerbModify, accepted, false},
		{"household modify editor", KindHouseholds, VerbModify, editor, true},
		{"members insert stranger", KindHouseholdMembers, VerbInsert, nil, true},
		{"members read pending", KindHouseholdMembers, VerbRead, pending, true},
		{"members read stranger", KindHouseholdMembers, VerbRead, nil, false},
		{"members modify pending", KindHouseholdMembers, VerbModify, pending, true},
		{"product insert without flag", KindProducts, VerbInsert, accepted, false},
		{"product insert manager", KindProducts, VerbInsert, manager, true},
		{"product insert banned manager", KindProducts, VerbInsert, bannedManager, false},
		{"product read accepted", KindProducts, VerbRead, accepted, true},
		{"product read pending", KindProducts, VerbRead, pending, false},
		{"product modify manager", KindProducts, VerbModify, manager, true},
		{"recipe insert accepted", KindRecipes, VerbInsert, accepted, true},
		{"recipe insert pending", KindRecipes, VerbInsert, pending, false},
		{"recipe product modify accepted", KindRecipeProducts, VerbModify, accepted, true},
		{"recipe product read stranger", KindRecipeProducts, VerbRead, nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			evaluator := NewEvaluator(nil)
			got, err := evaluator.Evaluate(ctx, newCaller("u1", tt.membership), tt.kind, tt.verb, row)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFavoritesAreOwnerOnly(t *testing.T) {
	ctx := context.Background()
	evaluator := NewEvaluator(nil)
	owner := newCaller("u1", nil)
	other := newCaller("u2", &Membership{HouseholdID: "h1", UserID: "u2", Role: RoleAdmin, Status: StatusAccepted})

	for _, verb := range []Verb{VerbInsert, VerbRead, VerbModify} {
		allowed, err := evaluator.Evaluate(ctx, owner, KindRecipeFavorites, verb, testRow{household: "h1", owner: "u1"})
		require.NoError(t, err)
		assert.True(t, allowed, verb)

		allowed, err = evaluator.Evaluate(ctx, other, KindRecipeFavorites, verb, testRow{household: "h1", owner: "u1"})
		require.NoError(t, err)
		assert.False(t, allowed, verb)
	}

	_, err := evaluator.Evaluate(ctx, owner, KindRecipeFavorites, VerbRead, householdOnly{household: "h1"})
	assert.Error(t, err)
}

func TestCallerMemoisesMemberships(t *testing.T) {
	source := &fakeSource{members: map[string]*Membership{
		"h1/u1": {HouseholdID: "h1", UserID: "u1", Status: StatusAccepted},
	}}
	caller := NewCaller("u1", source)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		member, err := caller.Membership(ctx, "h1")
		require.NoError(t, err)
		require.NotNil(t, member)
	}
	missing, err := caller.Membership(ctx, "h2")
	require.NoError(t, err)
	assert.Nil(t, missing)
	_, _ = caller.Membership(ctx, "h2")

	assert.Equal(t, 2, source.calls)

	caller.Forget("h1")
	_, _ = caller.Membership(ctx, "h1")
	assert.Equal(t, 3, source.calls)
}

func TestFilterAndVisible(t *testing.T) {
	ctx := context.Background()
	recorder := &countingRecorder{}
	caller := newCaller("u1", &Membership{HouseholdID: "h1", UserID: "u1", Status: StatusAccepted})
	ac := NewContext(NewEvaluator(recorder), caller, nil, nil)

	rows := []householdOnly{{"h1"}, {"h2"}, {"h1"}}
	visible, err := Filter(ctx, ac, KindProducts, rows)
	require.NoError(t, err)
	assert.Len(t, visible, 2)
	assert.Equal(t, 2, recorder.allowed)
	assert.Equal(t, 1, recorder.denied)

	notFound := NotFound("thing_not_found", "thing not found")
	assert.NoError(t, Visible(ctx, ac, KindProducts, householdOnly{"h1"}, notFound))
	assert.ErrorIs(t, Visible(ctx, ac, KindProducts, householdOnly{"h2"}, notFound), ErrNotFound)
}

func TestAuthorizeDeniedIsForbidden(t *testing.T) {
	ctx := context.Background()
	member := &Membership{HouseholdID: "h1", UserID: "u1", Status: StatusPending}
	caller := newCaller("u1", member)
	ac := NewContext(NewEvaluator(nil), caller, &HouseholdRef{ID: "h1", PublicID: "p1"}, member)

	err := ac.Authorize(ctx, KindRecipes, VerbInsert, householdOnly{"h1"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrForbidden))

	var accessErr *Error
	require.ErrorAs(t, err, &accessErr)
	assert.Equal(t, "unauthorized", accessErr.Code)
}

func TestContextPrimesScopedMembership(t *testing.T) {
	source := &fakeSource{members: map[string]*Membership{}}
	caller := NewCaller("u1", source)
	member := &Membership{HouseholdID: "h1", UserID: "u1", Status: StatusAccepted}
	ac := NewContext(NewEvaluator(nil), caller, &HouseholdRef{ID: "h1", PublicID: "p1"}, member)

	allowed, err := ac.Can(context.Background(), KindRecipes, VerbRead, householdOnly{"h1"})
	require.NoError(t, err)
	assert.True(t, allowed)
	assert.Equal(t, 0, source.calls)
	assert.Equal(t, "h1", ac.HouseholdID())
}
