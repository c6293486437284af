package repository

import (
	"context"

	"groupmeet-backend/internal/database/models"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/repository_mocks.go -package=mocks

// GroupRepositoryInterface defines the interface for group repository operations
type GroupRepositoryInterface interface {
	Create(ctx context.Context, group *models.Group) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Group, error)
	GetAll(ctx context.Context, limit, offset int) ([]models.Group, int64, error)
	Search(ctx context.Context, query string) ([]models.Group, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// MembershipRepositoryInterface defines the interface for membership repository operations
type MembershipRepositoryInterface interface {
	Create(ctx context.Context, membership *models.GroupMembership) error
	Delete(ctx context.Context, groupID uuid.UUID, userID string) error
	GetByGroupID(ctx context.Context, groupID uuid.UUID) ([]models.GroupMembership, error)
	GetByUserID(ctx context.Context, userID string) ([]models.GroupMembership, error)
	Exists(ctx context.Context, userID string, groupID uuid.UUID) (bool, error)
	CountByGroup(ctx context.Context, groupID uuid.UUID) (int64, error)
	CountByGroups(ctx context.Context, groupIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}
