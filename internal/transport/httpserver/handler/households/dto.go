package households

import (
	"time"

	"household-app-go/internal/domain/access"
	householddomain "household-app-go/internal/domain/household"
)

type householdRequest struct {
	Name         *string `json:"name"`
	JoinQuestion *string `json:"join_question"`
	JoinAnswer   *string `json:"join_answer"`
}

type joinRequest struct {
	Answer string `json:"answer"`
}

type roleRequest struct {
	Role access.Role `json:"role"`
}

type statusRequest struct {
	Status access.Status `json:"status"`
}

type permissionsRequest struct {
	CanEditHousehold  *bool `json:"can_edit_household"`
	CanManageProducts *bool `json:"can_manage_products"`
}

type householdResponse struct {
	PublicID     string    `json:"public_id"`
	Name         string    `json:"name"`
	JoinQuestion string    `json:"join_question"`
	JoinAnswer   *string   `json:"join_answer,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type joinInfoResponse struct {
	PublicID     string         `json:"public_id"`
	Name         string         `json:"name"`
	JoinQuestion string         `json:"join_question"`
	Status       *access.Status `json:"status"`
}

type memberResponse struct {
	ID                string        `json:"id"`
	UserID            string        `json:"user_id"`
	Name              string        `json:"name,omitempty"`
	Email             string        `json:"email,omitempty"`
	Image             *string       `json:"image,omitempty"`
	Role              access.Role   `json:"role"`
	Status            access.Status `json:"status"`
	CanEditHousehold  bool          `json:"can_edit_household"`
	CanManageProducts bool          `json:"can_manage_products"`
	JoinedAt          time.Time     `json:"joined_at"`
}

type membershipResponse struct {
	Household householdSummary `json:"household"`
	Member    memberResponse   `json:"member"`
}

type householdSummary struct {
	PublicID string `json:"public_id"`
	Name     string `json:"name"`
}

// toHouseholdResponse reveals the join answer only to members allowed to
// change it.
func toHouseholdResponse(household householddomain.Household, viewer *access.Membership) householdResponse {
	resp := householdResponse{
		PublicID:     household.PublicID,
		Name:         household.Name,
		JoinQuestion: household.JoinQuestion,
		CreatedAt:    household.CreatedAt,
		UpdatedAt:    household.UpdatedAt,
	}
	if viewer.Accepted() && (viewer.Role == access.RoleAdmin || viewer.CanEditHousehold) {
		answer := household.JoinAnswer
		resp.JoinAnswer = &answer
	}
	return resp
}

func toJoinInfoResponse(info householddomain.JoinInfo) joinInfoResponse {
	return joinInfoResponse{
		PublicID:     info.PublicID,
		Name:         info.Name,
		JoinQuestion: info.JoinQuestion,
		Status:       info.Status,
	}
}

func toMemberResponse(member householddomain.Member) memberResponse {
	return memberResponse{
		ID:                member.ID,
		UserID:            member.UserID,
		Role:              member.Role,
		Status:            member.Status,
		CanEditHousehold:  member.CanEditHousehold,
		CanManageProducts: member.CanManageProducts,
		JoinedAt:          member.CreatedAt,
	}
}

func toMemberProfileResponse(profile householddomain.MemberProfile) memberResponse {
	resp := toMemberResponse(profile.Member)
	resp.Name = profile.Name
	resp.Email = profile.Email
	resp.Image = profile.Image
	return resp
}
