package access

import (
	"context"
	"fmt"
)

// Predicates gates the three verbs for one table. Each check is evaluated
// per row.
type Predicates interface {
	CanInsert(ctx context.Context, caller *Caller, row Row) (bool, error)
	CanRead(ctx context.Context, caller *Caller, row Row) (bool, error)
	CanModify(ctx context.Context, caller *Caller, row Row) (bool, error)
}

type check func(ctx context.Context, caller *Caller, row Row) (bool, error)

type rule struct {
	insert check
	read   check
	modify check
}

func (r rule) CanInsert(ctx context.Context, caller *Caller, row Row) (bool, error) {
	return r.insert(ctx, caller, row)
}

func (r rule) CanRead(ctx context.Context, caller *Caller, row Row) (bool, error) {
	return r.read(ctx, caller, row)
}

func (r rule) CanModify(ctx context.Context, caller *Caller, row Row) (bool, error) {
	return r.modify(ctx, caller, row)
}

// DefaultPredicates returns the rule set for every protected table.
func DefaultPredicates() map[Kind]Predicates {
	recipes := rule{insert: acceptedMember, read: acceptedMember, modify: acceptedMember}
	products := membershipWith(func(m *Membership) bool {
		return m.Accepted() && m.CanManageProducts
	})

	return map[Kind]Predicates{
		KindHouseholds: rule{
			insert: always,
			read:   acceptedMember,
			modify: membershipWith(func(m *Membership) bool {
				return m.Accepted() && m.CanEditHousehold
			}),
		},
		KindHouseholdMembers: rule{insert: always, read: anyMember, modify: anyMember},
		KindProducts:         rule{insert: products, read: acceptedMember, modify: products},
		KindRecipes:          recipes,
		KindRecipeProducts:   recipes,
		KindRecipeFavorites:  rule{insert: rowOwner, read: rowOwner, modify: rowOwner},
	}
}

func always(context.Context, *Caller, Row) (bool, error) {
	return true, nil
}

func membershipWith(allowed func(*Membership) bool) check {
	return func(ctx context.Context, caller *Caller, row Row) (bool, error) {
		member, err := caller.Membership(ctx, row.HouseholdKey())
		if err != nil {
			return false, err
		}
		if member == nil {
			return false, nil
		}
		return allowed(member), nil
	}
}

var (
	acceptedMember = membershipWith(func(m *Membership) bool { return m.Accepted() })
	anyMember      = membershipWith(func(*Membership) bool { return true })
)

func rowOwner(_ context.Context, caller *Caller, row Row) (bool, error) {
	owned, ok := row.(OwnedRow)
	if !ok {
		return false, fmt.Errorf("access: %T has no owner", row)
	}
	return caller != nil && caller.UserID != "" && owned.OwnerKey() == caller.UserID, nil
}
