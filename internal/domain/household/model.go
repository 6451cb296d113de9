package household

import (
	"time"

	"household-app-go/internal/domain/access"
)

type Household struct {
	ID           string    `gorm:"type:uuid;primaryKey"`
	PublicID     string    `gorm:"type:uuid;not null;uniqueIndex"`
	Name         string    `gorm:"not null;index"`
	JoinQuestion string    `gorm:"not null"`
	JoinAnswer   string    `gorm:"not null"`
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

func (h Household) HouseholdKey() string {
	return h.ID
}

func (h Household) Ref() *access.HouseholdRef {
	return &access.HouseholdRef{ID: h.ID, PublicID: h.PublicID}
}

type Member struct {
	ID                string        `gorm:"type:uuid;primaryKey"`
	HouseholdID       string        `gorm:"type:uuid;not null;index;uniqueIndex:idx_household_members_user_household,priority:2"`
	UserID            string        `gorm:"type:uuid;not null;uniqueIndex:idx_household_members_user_household,priority:1"`
	Role              access.Role   `gorm:"type:varchar(16);not null"`
	Status            access.Status `gorm:"type:varchar(16);not null"`
	CanEditHousehold  bool          `gorm:"not null"`
	CanManageProducts bool          `gorm:"not null"`
	CreatedAt         time.Time     `gorm:"autoCreateTime"`
	UpdatedAt         time.Time     `gorm:"autoUpdateTime"`
}

func (Member) TableName() string {
	return "household_members"
}

func (m Member) HouseholdKey() string {
	return m.HouseholdID
}

func (m Member) Access() *access.Membership {
	return &access.Membership{
		ID:                m.ID,
		HouseholdID:       m.HouseholdID,
		UserID:            m.UserID,
		Role:              m.Role,
		Status:            m.Status,
		CanEditHousehold:  m.CanEditHousehold,
		CanManageProducts: m.CanManageProducts,
	}
}

// MemberProfile is a member row joined with the user's profile.
type MemberProfile struct {
	Member
	Name  string
	Email string
	Image *string
}

// Membership pairs a caller's member row with its household.
type Membership struct {
	Member    Member
	Household Household
}

// JoinInfo is what a non-member may see before joining.
type JoinInfo struct {
	PublicID     string
	Name         string
	JoinQuestion string
	Status       *access.Status
}

type CreateInput struct {
	Name         string
	JoinQuestion string
	JoinAnswer   string
}

// UpdateInput carries a partial update; nil fields keep their value.
type UpdateInput struct {
	Name         *string
	JoinQuestion *string
	JoinAnswer   *string
}

type PermissionsInput struct {
	CanEditHousehold  *bool
	CanManageProducts *bool
}
