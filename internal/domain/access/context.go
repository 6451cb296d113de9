package access

import "context"

// Context is built once per request and passed explicitly to every service
// call. Household is nil for identity-scoped operations; Membership is nil
// when the caller has no row in the household.
type Context struct {
	UserID     string
	Household  *HouseholdRef
	Membership *Membership

	caller    *Caller
	evaluator *Evaluator
}

func NewContext(evaluator *Evaluator, caller *Caller, household *HouseholdRef, membership *Membership) *Context {
	if household != nil {
		caller.remember(household.ID, membership)
	}
	return &Context{
		UserID:     caller.UserID,
		Household:  household,
		Membership: membership,
		caller:     caller,
		evaluator:  evaluator,
	}
}

func (c *Context) HouseholdID() string {
	if c.Household == nil {
		return ""
	}
	return c.Household.ID
}

func (c *Context) Caller() *Caller {
	return c.caller
}

func (c *Context) Can(ctx context.Context, kind Kind, verb Verb, row Row) (bool, error) {
	return c.evaluator.Evaluate(ctx, c.caller, kind, verb, row)
}

// Authorize fails loudly with ErrUnauthorized when a write is denied.
func (c *Context) Authorize(ctx context.Context, kind Kind, verb Verb, row Row) error {
	allowed, err := c.Can(ctx, kind, verb, row)
	if err != nil {
		return err
	}
	if !allowed {
		return ErrUnauthorized
	}
	return nil
}

// Refresh reloads the caller's membership in the scoped household after it
// changed within the request.
func (c *Context) Refresh(ctx context.Context) error {
	if c.Household == nil {
		return nil
	}
	c.caller.Forget(c.Household.ID)
	member, err := c.caller.Membership(ctx, c.Household.ID)
	if err != nil {
		return err
	}
	c.Membership = member
	return nil
}

// Filter drops the rows the caller cannot read. Denied rows are not an error.
func Filter[T Row](ctx context.Context, c *Context, kind Kind, rows []T) ([]T, error) {
	result := make([]T, 0, len(rows))
	for _, row := range rows {
		allowed, err := c.Can(ctx, kind, VerbRead, row)
		if err != nil {
			return nil, err
		}
		if allowed {
			result = append(result, row)
		}
	}
	return result, nil
}

// Visible returns notFound when the caller cannot read row, so an unreadable
// row is indistinguishable from a missing one.
func Visible(ctx context.Context, c *Context, kind Kind, row Row, notFound error) error {
	allowed, err := c.Can(ctx, kind, VerbRead, row)
	if err != nil {
		return err
	}
	if !allowed {
		return notFound
	}
	return nil
}
