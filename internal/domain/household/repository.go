package household

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetByPublicID(ctx context.Context, publicID string) (*Household, error)
	GetByID(ctx context.Context, id string) (*Household, error)
	ListByIDs(ctx context.Context, ids []string) ([]Household, error)
	IsNameTaken(ctx context.Context, name, excludeID string) (bool, error)
	Create(ctx context.Context, household *Household) error
	Update(ctx context.Context, household *Household) error
	Delete(ctx context.Context, id string) error

	GetMember(ctx context.Context, householdID, memberID string) (*Member, error)
	FindMember(ctx context.Context, householdID, userID string) (*Member, error)
	ListMembers(ctx context.Context, householdID string) ([]MemberProfile, error)
	ListMembersByUser(ctx context.Context, userID string) ([]Member, error)
	AddMember(ctx context.Context, member *Member) error
	UpdateMember(ctx context.Context, member *Member) error
	DeleteMember(ctx context.Context, householdID, memberID string) error
	DeleteMembersByHousehold(ctx context.Context, householdID string) error
	CountAcceptedAdmins(ctx context.Context, householdID, excludeMemberID string) (int64, error)
}
