package repository

import (
	"context"

	"groupmeet-backend/internal/database/models"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GroupRepository handles database operations for groups
type GroupRepository struct {
	db *gorm.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *gorm.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// Create creates a new group
func (r *GroupRepository) Create(ctx context.Context, group *models.Group) error {
	return r.db.WithContext(ctx).Create(group).Error
}

// GetByID retrieves a group by ID
func (r *GroupRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error) {
	var group models.Group
	err := r.db.WithContext(ctx).First(&group, "id = ?", id).Error
	if err != nil {
		return nil, err
	}
	return &group, nil
}

// GetAll retrieves groups with pagination, newest first. Rows with equal
// created_at are tie-broken by id so page boundaries are deterministic.
func (r *GroupRepository) GetAll(ctx context.Context, limit, offset int) ([]models.Group, int64, error) {
	var groups []models.Group
	var total int64

	// Get total count
	if err := r.db.WithContext(ctx).Model(&models.Group{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	// Get paginated results
	err := r.db.WithContext(ctx).
		Order("created_at DESC, id DESC").
		Limit(limit).Offset(offset).
		Find(&groups).Error
	if err != nil {
		return nil, 0, err
	}

	return groups, total, nil
}

// Search searches for groups by name or description. An empty query matches
// every group. Results are ordered newest first.
func (r *GroupRepository) Search(ctx context.Context, query string) ([]models.Group, error) {
	var groups []models.Group

	searchQuery := "%" + query + "%"
	err := r.db.WithContext(ctx).
		Where("name ILIKE ? OR description ILIKE ?", searchQuery, searchQuery).
		Order("created_at DESC, id DESC").
		Find(&groups).Error
	if err != nil {
		return nil, err
	}

	return groups, nil
}

// Update updates a group using a map of updates
func (r *GroupRepository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	return r.db.WithContext(ctx).Model(&models.Group{}).Where("id = ?", id).Updates(updates).Error
}

// Delete deletes a group and its membership rows in one transaction.
// The membership delete is explicit rather than relying on the store's
// cascade, so no orphan rows survive even without the FK constraint.
// Deleting an absent group is not an error.
func (r *GroupRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(&models.GroupMembership{}, "group_id = ?", id).Error; err != nil {
			return err
		}
		return tx.Delete(&models.Group{}, "id = ?", id).Error
	})
}
