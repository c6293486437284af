package service

import (
	"context"

	"github.com/google/uuid"
)

//go:generate mockgen -source=interfaces.go -destination=../mocks/service_mocks.go -package=mocks

// GroupServiceInterface defines the interface for group directory operations
type GroupServiceInterface interface {
	Create(ctx context.Context, req *CreateGroupRequest) (*GroupResponse, error)
	GetByID(ctx context.Context, id uuid.UUID) (*GroupResponse, error)
	List(ctx context.Context, page, pageSize int) (*GroupListResponse, error)
	Search(ctx context.Context, query string) ([]GroupResponse, error)
	Update(ctx context.Context, id uuid.UUID, req *UpdateGroupRequest) (*GroupResponse, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// MembershipServiceInterface defines the interface for membership operations
type MembershipServiceInterface interface {
	Join(ctx context.Context, groupID uuid.UUID, userID string) (*MembershipResponse, error)
	Leave(ctx context.Context, groupID uuid.UUID, userID string) error
	ListByGroup(ctx context.Context, groupID uuid.UUID) ([]MembershipResponse, error)
	ListByUser(ctx context.Context, userID string) ([]MembershipResponse, error)
	IsMember(ctx context.Context, userID string, groupID uuid.UUID) (bool, error)
	CountByGroup(ctx context.Context, groupID uuid.UUID) (int64, error)
	CountByGroups(ctx context.Context, groupIDs []uuid.UUID) (map[uuid.UUID]int64, error)
}
