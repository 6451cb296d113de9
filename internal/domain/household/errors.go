package household

import "household-app-go/internal/domain/access"

var (
	ErrHouseholdNotFound       = access.NotFound("household_not_found", "household not found")
	ErrMemberNotFound          = access.NotFound("member_not_found", "member not found")
	ErrNotMember               = access.NotFound("membership_not_found", "not a member of this household")
	ErrNameTaken               = access.Conflict("household_name_taken", "a household with this name already exists")
	ErrAlreadyMember           = access.Conflict("already_member", "already a member of this household")
	ErrWrongAnswer             = access.Forbidden("wrong_answer", "join answer does not match")
	ErrNotAdmin                = access.Forbidden("not_admin", "only accepted admins can manage members")
	ErrCannotModifySelf        = access.Forbidden("cannot_modify_self", "cannot modify your own membership")
	ErrLastAdmin               = access.Conflict("last_admin", "cannot remove the last admin")
	ErrInvalidStatusTransition = access.Conflict("invalid_status_transition", "status transition not allowed")
)
