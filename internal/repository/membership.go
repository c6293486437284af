package repository

import (
	"context"
	"errors"

	"groupmeet-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MembershipRepository handles database operations for group memberships
type MembershipRepository struct {
	db *gorm.DB
}

// NewMembershipRepository creates a new membership repository
func NewMembershipRepository(db *gorm.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// Create inserts a membership row. The store's composite primary key rejects
// a second row for the same (group_id, user_id); that surfaces as
// gorm.ErrDuplicatedKey for the service layer to translate.
func (r *MembershipRepository) Create(ctx context.Context, membership *models.GroupMembership) error {
	return r.db.WithContext(ctx).Create(membership).Error
}

// Delete removes a membership row by composite key. Deleting a row that does
// not exist is a no-op, not an error.
func (r *MembershipRepository) Delete(ctx context.Context, groupID uuid.UUID, userID string) error {
	return r.db.WithContext(ctx).
		Delete(&models.GroupMembership{}, "group_id = ? AND user_id = ?", groupID, userID).Error
}

// GetByGroupID retrieves all memberships of a group, oldest member first
func (r *MembershipRepository) GetByGroupID(ctx context.Context, groupID uuid.UUID) ([]models.GroupMembership, error) {
	var memberships []models.GroupMembership
	err := r.db.WithContext(ctx).
		Where("group_id = ?", groupID).
		Order("created_at ASC, user_id ASC").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

// GetByUserID retrieves all memberships of a user, most recently joined
// first. The ordering intentionally differs from GetByGroupID.
func (r *MembershipRepository) GetByUserID(ctx context.Context, userID string) ([]models.GroupMembership, error) {
	var memberships []models.GroupMembership
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, group_id DESC").
		Find(&memberships).Error
	if err != nil {
		return nil, err
	}
	return memberships, nil
}

// Exists reports whether a membership row exists. Absence is a valid
// outcome and returns false with a nil error.
func (r *MembershipRepository) Exists(ctx context.Context, userID string, groupID uuid.UUID) (bool, error) {
	var membership models.GroupMembership
	err := r.db.WithContext(ctx).
		Select("user_id").
		First(&membership, "user_id = ? AND group_id = ?", userID, groupID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// CountByGroup returns the number of membership rows for a group
func (r *MembershipRepository) CountByGroup(ctx context.Context, groupID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&models.GroupMembership{}).
		Where("group_id = ?", groupID).
		Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// CountByGroups returns member counts for a batch of groups in one query.
// Every requested id is present in the result; groups with no memberships
// map to 0 rather than being omitted.
func (r *MembershipRepository) CountByGroups(ctx context.Context, groupIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts := make(map[uuid.UUID]int64, len(groupIDs))
	for _, id := range groupIDs {
		counts[id] = 0
	}
	if len(groupIDs) == 0 {
		return counts, nil
	}

	var rows []struct {
		GroupID uuid.UUID
		Count   int64
	}
	err := r.db.WithContext(ctx).
		Model(&models.GroupMembership{}).
		Select("group_id, COUNT(*) AS count").
		Where("group_id IN ?", groupIDs).
		Group("group_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		counts[row.GroupID] = row.Count
	}
	return counts, nil
}
