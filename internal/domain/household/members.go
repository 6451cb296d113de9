package household

import (
	"context"

	"household-app-go/internal/domain/access"
)

var statusTransitions = map[access.Status][]access.Status{
	access.StatusPending:  {access.StatusAccepted, access.StatusBanned},
	access.StatusAccepted: {access.StatusBanned},
	access.StatusBanned:   {access.StatusAccepted},
}

func canTransition(from, to access.Status) bool {
	for _, next := range statusTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// memberChange mutates target in place and reports whether the result drops
// target out of the accepted admin set.
type memberChange func(target *Member) (demotes bool, err error)

func (s *Service) UpdateMemberRole(ctx context.Context, ac *access.Context, memberID string, role access.Role) (*Member, error) {
	if !role.Valid() {
		return nil, access.Invalid("invalid_request", "role must be admin or member")
	}
	return s.manage(ctx, ac, memberID, func(target *Member) (bool, error) {
		target.Role = role
		return role != access.RoleAdmin, nil
	})
}

func (s *Service) UpdateMemberStatus(ctx context.Context, ac *access.Context, memberID string, status access.Status) (*Member, error) {
	if !status.Valid() {
		return nil, access.Invalid("invalid_request", "status must be pending, accepted or banned")
	}
	return s.manage(ctx, ac, memberID, func(target *Member) (bool, error) {
		if !canTransition(target.Status, status) {
			return false, ErrInvalidStatusTransition
		}
		target.Status = status
		return status != access.StatusAccepted, nil
	})
}

func (s *Service) UpdateMemberPermissions(ctx context.Context, ac *access.Context, memberID string, input PermissionsInput) (*Member, error) {
	if input.CanEditHousehold == nil && input.CanManageProducts == nil {
		return nil, access.Invalid("invalid_request", "no permission given")
	}
	return s.manage(ctx, ac, memberID, func(target *Member) (bool, error) {
		if input.CanEditHousehold != nil {
			target.CanEditHousehold = *input.CanEditHousehold
		}
		if input.CanManageProducts != nil {
			target.CanManageProducts = *input.CanManageProducts
		}
		return false, nil
	})
}

func (s *Service) RemoveMember(ctx context.Context, ac *access.Context, memberID string) error {
	_, err := s.manage(ctx, ac, memberID, nil)
	return err
}

// manage runs the member management checks in order: caller is an accepted
// admin, target exists in the household, target is not the caller, and the
// household keeps an accepted admin. A nil change removes the target.
func (s *Service) manage(ctx context.Context, ac *access.Context, memberID string, change memberChange) (*Member, error) {
	if !ac.Membership.AcceptedAdmin() {
		return nil, ErrNotAdmin
	}

	var result Member
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		target, err := tx.GetMember(ctx, ac.HouseholdID(), memberID)
		if err != nil {
			return err
		}
		if target.UserID == ac.UserID {
			return ErrCannotModifySelf
		}

		wasAdmin := target.Access().AcceptedAdmin()
		demotes := true
		if change != nil {
			demotes, err = change(target)
			if err != nil {
				return err
			}
		}
		if wasAdmin && demotes {
			if err := ensureOtherAdmin(ctx, tx, target); err != nil {
				return err
			}
		}

		if err := ac.Authorize(ctx, access.KindHouseholdMembers, access.VerbModify, target); err != nil {
			return err
		}
		if change == nil {
			return tx.DeleteMember(ctx, target.HouseholdID, target.ID)
		}
		if err := tx.UpdateMember(ctx, target); err != nil {
			return err
		}
		result = *target
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func ensureOtherAdmin(ctx context.Context, tx Repository, target *Member) error {
	remaining, err := tx.CountAcceptedAdmins(ctx, target.HouseholdID, target.ID)
	if err != nil {
		return err
	}
	if remaining < 1 {
		return ErrLastAdmin
	}
	return nil
}
