package household

import (
	"context"
	"errors"

	"household-app-go/internal/domain/access"
	domain "household-app-go/internal/domain/household"

	"gorm.io/gorm"
)

type PostgresRepository struct {
	db *gorm.DB
}

func NewPostgres(db *gorm.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) Transaction(ctx context.Context, fn func(domain.Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&PostgresRepository{db: tx})
	})
}

func (r *PostgresRepository) GetByPublicID(ctx context.Context, publicID string) (*domain.Household, error) {
	var household domain.Household
	if err := r.db.WithContext(ctx).Where("public_id = ?", publicID).First(&household).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrHouseholdNotFound
		}
		return nil, err
	}
	return &household, nil
}

func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.Household, error) {
	var household domain.Household
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&household).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrHouseholdNotFound
		}
		return nil, err
	}
	return &household, nil
}

func (r *PostgresRepository) ListByIDs(ctx context.Context, ids []string) ([]domain.Household, error) {
	if len(ids) == 0 {
		return []domain.Household{}, nil
	}
	var households []domain.Household
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Order("name asc").
		Find(&households).Error; err != nil {
		return nil, err
	}
	return households, nil
}

func (r *PostgresRepository) IsNameTaken(ctx context.Context, name, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&domain.Household{}).Where("name = ?", name)
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *PostgresRepository) Create(ctx context.Context, household *domain.Household) error {
	return r.db.WithContext(ctx).Create(household).Error
}

func (r *PostgresRepository) Update(ctx context.Context, household *domain.Household) error {
	return r.db.WithContext(ctx).
		Model(&domain.Household{}).
		Where("id = ?", household.ID).
		Updates(map[string]interface{}{
			"name":          household.Name,
			"join_question": household.JoinQuestion,
			"join_answer":   household.JoinAnswer,
		}).Error
}

// Delete removes the household. Products, recipes and their rows cascade
// in the schema.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.db.WithContext(ctx).Delete(&domain.Household{}, "id = ?", id).Error
}

func (r *PostgresRepository) GetMember(ctx context.Context, householdID, memberID string) (*domain.Member, error) {
	var member domain.Member
	if err := r.db.WithContext(ctx).Where("household_id = ? AND id = ?", householdID, memberID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) FindMember(ctx context.Context, householdID, userID string) (*domain.Member, error) {
	var member domain.Member
	if err := r.db.WithContext(ctx).Where("household_id = ? AND user_id = ?", householdID, userID).First(&member).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrMemberNotFound
		}
		return nil, err
	}
	return &member, nil
}

func (r *PostgresRepository) ListMembers(ctx context.Context, householdID string) ([]domain.MemberProfile, error) {
	var rows []domain.MemberProfile
	if err := r.db.WithContext(ctx).
		Table("household_members").
		Select("household_members.*, users.name, users.email, users.image").
		Joins("join users on users.id = household_members.user_id").
		Where("household_members.household_id = ?", householdID).
		Order("household_members.created_at asc").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *PostgresRepository) ListMembersByUser(ctx context.Context, userID string) ([]domain.Member, error) {
	var members []domain.Member
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&members).Error; err != nil {
		return nil, err
	}
	return members, nil
}

func (r *PostgresRepository) AddMember(ctx context.Context, member *domain.Member) error {
	err := r.db.WithContext(ctx).Create(member).Error
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return domain.ErrAlreadyMember
	}
	return err
}

func (r *PostgresRepository) UpdateMember(ctx context.Context, member *domain.Member) error {
	return r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("household_id = ? AND id = ?", member.HouseholdID, member.ID).
		Updates(map[string]interface{}{
			"role":                member.Role,
			"status":              member.Status,
			"can_edit_household":  member.CanEditHousehold,
			"can_manage_products": member.CanManageProducts,
		}).Error
}

func (r *PostgresRepository) DeleteMember(ctx context.Context, householdID, memberID string) error {
	return r.db.WithContext(ctx).Delete(&domain.Member{}, "household_id = ? AND id = ?", householdID, memberID).Error
}

func (r *PostgresRepository) DeleteMembersByHousehold(ctx context.Context, householdID string) error {
	return r.db.WithContext(ctx).Where("household_id = ?", householdID).Delete(&domain.Member{}).Error
}

func (r *PostgresRepository) CountAcceptedAdmins(ctx context.Context, householdID, excludeMemberID string) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&domain.Member{}).
		Where("household_id = ? AND role = ? AND status = ?", householdID, access.RoleAdmin, access.StatusAccepted)
	if excludeMemberID != "" {
		query = query.Where("id <> ?", excludeMemberID)
	}
	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
