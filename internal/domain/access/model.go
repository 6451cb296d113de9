package access

type Role string

const (
	RoleAdmin  Role = "admin"
	RoleMember Role = "member"
)

func (r Role) Valid() bool {
	return r == RoleAdmin || r == RoleMember
}

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusBanned   Status = "banned"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusAccepted, StatusBanned:
		return true
	default:
		return false
	}
}

// Membership is the authorization view of a household member row.
type Membership struct {
	ID                string
	HouseholdID       string
	UserID            string
	Role              Role
	Status            Status
	CanEditHousehold  bool
	CanManageProducts bool
}

func (m *Membership) Accepted() bool {
	return m != nil && m.Status == StatusAccepted
}

func (m *Membership) AcceptedAdmin() bool {
	return m.Accepted() && m.Role == RoleAdmin
}

// HouseholdRef identifies the household a request is scoped to.
type HouseholdRef struct {
	ID       string
	PublicID string
}

// Kind names a protected table.
type Kind string

const (
	KindHouseholds       Kind = "households"
	KindHouseholdMembers Kind = "household_members"
	KindProducts         Kind = "products"
	KindRecipes          Kind = "recipes"
	KindRecipeProducts   Kind = "recipe_products"
	KindRecipeFavorites  Kind = "recipe_favorites"
)

var Kinds = []Kind{
	KindHouseholds,
	KindHouseholdMembers,
	KindProducts,
	KindRecipes,
	KindRecipeProducts,
	KindRecipeFavorites,
}

type Verb string

const (
	VerbInsert Verb = "insert"
	VerbRead   Verb = "read"
	VerbModify Verb = "modify"
)

// Row is any record that belongs to a household.
type Row interface {
	HouseholdKey() string
}

// OwnedRow is a row owned by a single user.
type OwnedRow interface {
	Row
	OwnerKey() string
}
