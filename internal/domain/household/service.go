package household

import (
	"context"
	"errors"
	"strings"

	"household-app-go/internal/domain/access"

	"github.com/google/uuid"
)

type Service struct {
	repo Repository
	gate *Gate
}

func NewService(repo Repository, gate *Gate) *Service {
	return &Service{repo: repo, gate: gate}
}

// Create makes a household; the caller becomes its first accepted admin.
func (s *Service) Create(ctx context.Context, ac *access.Context, input CreateInput) (*Household, error) {
	input, err := normalizeInput(input.Name, input.JoinQuestion, input.JoinAnswer)
	if err != nil {
		return nil, err
	}

	household := Household{
		ID:           uuid.NewString(),
		PublicID:     uuid.NewString(),
		Name:         input.Name,
		JoinQuestion: input.JoinQuestion,
		JoinAnswer:   input.JoinAnswer,
	}
	member := Member{
		ID:                uuid.NewString(),
		HouseholdID:       household.ID,
		UserID:            ac.UserID,
		Role:              access.RoleAdmin,
		Status:            access.StatusAccepted,
		CanEditHousehold:  true,
		CanManageProducts: true,
	}

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		taken, err := tx.IsNameTaken(ctx, household.Name, "")
		if err != nil {
			return err
		}
		if taken {
			return ErrNameTaken
		}

		if err := ac.Authorize(ctx, access.KindHouseholds, access.VerbInsert, household); err != nil {
			return err
		}
		if err := tx.Create(ctx, &household); err != nil {
			return err
		}
		if err := ac.Authorize(ctx, access.KindHouseholdMembers, access.VerbInsert, member); err != nil {
			return err
		}
		return tx.AddMember(ctx, &member)
	})
	if err != nil {
		return nil, err
	}

	ac.Caller().Forget(household.ID)
	return &household, nil
}

func (s *Service) Get(ctx context.Context, ac *access.Context) (*Household, error) {
	household, err := s.repo.GetByID(ctx, ac.HouseholdID())
	if err != nil {
		return nil, err
	}
	if err := access.Visible(ctx, ac, access.KindHouseholds, household, ErrHouseholdNotFound); err != nil {
		return nil, err
	}
	return household, nil
}

// JoinInfo exposes the name and join question to anyone holding the public
// id. The answer is never returned.
func (s *Service) JoinInfo(ctx context.Context, ac *access.Context) (*JoinInfo, error) {
	household, err := s.repo.GetByID(ctx, ac.HouseholdID())
	if err != nil {
		return nil, err
	}

	info := JoinInfo{
		PublicID:     household.PublicID,
		Name:         household.Name,
		JoinQuestion: household.JoinQuestion,
	}
	if ac.Membership != nil {
		status := ac.Membership.Status
		info.Status = &status
	}
	return &info, nil
}

func (s *Service) Update(ctx context.Context, ac *access.Context, input UpdateInput) (*Household, error) {
	var result Household
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		household, err := tx.GetByID(ctx, ac.HouseholdID())
		if err != nil {
			return err
		}
		if err := ac.Authorize(ctx, access.KindHouseholds, access.VerbModify, household); err != nil {
			return err
		}

		normalized, err := normalizeInput(
			valueOr(input.Name, household.Name),
			valueOr(input.JoinQuestion, household.JoinQuestion),
			valueOr(input.JoinAnswer, household.JoinAnswer),
		)
		if err != nil {
			return err
		}

		if normalized.Name != household.Name {
			taken, err := tx.IsNameTaken(ctx, normalized.Name, household.ID)
			if err != nil {
				return err
			}
			if taken {
				return ErrNameTaken
			}
		}

		household.Name = normalized.Name
		household.JoinQuestion = normalized.JoinQuestion
		household.JoinAnswer = normalized.JoinAnswer
		if err := tx.Update(ctx, household); err != nil {
			return err
		}
		result = *household
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &result, nil
}

// Delete removes the household with every membership, product and recipe in
// it. Only accepted admins may delete; the edit flag does not apply.
func (s *Service) Delete(ctx context.Context, ac *access.Context) error {
	if !ac.Membership.AcceptedAdmin() {
		return ErrNotAdmin
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		household, err := tx.GetByID(ctx, ac.HouseholdID())
		if err != nil {
			return err
		}
		if err := tx.DeleteMembersByHousehold(ctx, household.ID); err != nil {
			return err
		}
		return tx.Delete(ctx, household.ID)
	})
	if err != nil {
		return err
	}

	s.gate.Forget(ac.Household.PublicID)
	ac.Caller().Forget(ac.HouseholdID())
	return nil
}

// Join files a pending membership request. The answer must match exactly.
func (s *Service) Join(ctx context.Context, ac *access.Context, answer string) (*Member, error) {
	if ac.Membership != nil {
		return nil, ErrAlreadyMember
	}

	member := Member{
		ID:          uuid.NewString(),
		HouseholdID: ac.HouseholdID(),
		UserID:      ac.UserID,
		Role:        access.RoleMember,
		Status:      access.StatusPending,
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		household, err := tx.GetByID(ctx, ac.HouseholdID())
		if err != nil {
			return err
		}

		_, err = tx.FindMember(ctx, household.ID, ac.UserID)
		switch {
		case err == nil:
			return ErrAlreadyMember
		case !errors.Is(err, ErrMemberNotFound):
			return err
		}

		if answer != household.JoinAnswer {
			return ErrWrongAnswer
		}
		if err := ac.Authorize(ctx, access.KindHouseholdMembers, access.VerbInsert, member); err != nil {
			return err
		}
		return tx.AddMember(ctx, &member)
	})
	if err != nil {
		return nil, err
	}

	if err := ac.Refresh(ctx); err != nil {
		return nil, err
	}
	return &member, nil
}

// Leave removes the caller's own membership. The last accepted admin cannot
// leave.
func (s *Service) Leave(ctx context.Context, ac *access.Context) error {
	if ac.Membership == nil {
		return ErrNotMember
	}

	err := s.repo.Transaction(ctx, func(tx Repository) error {
		member, err := tx.FindMember(ctx, ac.HouseholdID(), ac.UserID)
		if errors.Is(err, ErrMemberNotFound) {
			return ErrNotMember
		}
		if err != nil {
			return err
		}

		if member.Access().AcceptedAdmin() {
			if err := ensureOtherAdmin(ctx, tx, member); err != nil {
				return err
			}
		}
		if err := ac.Authorize(ctx, access.KindHouseholdMembers, access.VerbModify, member); err != nil {
			return err
		}
		return tx.DeleteMember(ctx, member.HouseholdID, member.ID)
	})
	if err != nil {
		return err
	}

	return ac.Refresh(ctx)
}

// ListOwn returns the households the caller can read, i.e. where the caller
// is an accepted member.
func (s *Service) ListOwn(ctx context.Context, ac *access.Context) ([]Household, error) {
	members, err := s.repo.ListMembersByUser(ctx, ac.UserID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return []Household{}, nil
	}

	ids := make([]string, 0, len(members))
	for _, member := range members {
		ids = append(ids, member.HouseholdID)
	}

	households, err := s.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	return access.Filter(ctx, ac, access.KindHouseholds, households)
}

// ListMemberships returns the caller's own membership rows in any status.
func (s *Service) ListMemberships(ctx context.Context, ac *access.Context) ([]Membership, error) {
	members, err := s.repo.ListMembersByUser(ctx, ac.UserID)
	if err != nil {
		return nil, err
	}
	members, err = access.Filter(ctx, ac, access.KindHouseholdMembers, members)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return []Membership{}, nil
	}

	ids := make([]string, 0, len(members))
	for _, member := range members {
		ids = append(ids, member.HouseholdID)
	}
	households, err := s.repo.ListByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]Household, len(households))
	for _, household := range households {
		byID[household.ID] = household
	}

	result := make([]Membership, 0, len(members))
	for _, member := range members {
		household, ok := byID[member.HouseholdID]
		if !ok {
			continue
		}
		result = append(result, Membership{Member: member, Household: household})
	}
	return result, nil
}

func (s *Service) ListMembers(ctx context.Context, ac *access.Context) ([]MemberProfile, error) {
	members, err := s.repo.ListMembers(ctx, ac.HouseholdID())
	if err != nil {
		return nil, err
	}
	return access.Filter(ctx, ac, access.KindHouseholdMembers, members)
}

func normalizeInput(name, question, answer string) (CreateInput, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return CreateInput{}, access.Invalid("invalid_request", "name is required")
	}
	question = strings.TrimSpace(question)
	if question == "" {
		return CreateInput{}, access.Invalid("invalid_request", "join question is required")
	}
	if strings.TrimSpace(answer) == "" {
		return CreateInput{}, access.Invalid("invalid_request", "join answer is required")
	}
	return CreateInput{Name: name, JoinQuestion: question, JoinAnswer: answer}, nil
}

func valueOr(value *string, fallback string) string {
	if value == nil {
		return fallback
	}
	return *value
}
