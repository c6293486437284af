package service

import (
	"context"
	"errors"
	"time"

	"groupmeet-backend/internal/database/models"
	apperrors "groupmeet-backend/internal/errors"
	"groupmeet-backend/internal/logger"
	"groupmeet-backend/internal/repository"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// MembershipService handles business logic for group memberships
type MembershipService struct {
	repo      repository.MembershipRepositoryInterface
	groupRepo repository.GroupRepositoryInterface
	validator *validator.Validate
}

// NewMembershipService creates a new membership service
func NewMembershipService(repo repository.MembershipRepositoryInterface, groupRepo repository.GroupRepositoryInterface, validator *validator.Validate) *MembershipService {
	return &MembershipService{
		repo:      repo,
		groupRepo: groupRepo,
		validator: validator,
	}
}

// MembershipResponse represents the response for membership operations
type MembershipResponse struct {
	GroupID   uuid.UUID `json:"group_id"`
	UserID    string    `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
}

// Join creates a membership row for the user and group. Joining a group the
// user already belongs to is a conflict, not a silent merge; the store's
// uniqueness constraint is the final arbiter when two join attempts race.
func (s *MembershipService) Join(ctx context.Context, groupID uuid.UUID, userID string) (*MembershipResponse, error) {
	if userID == "" {
		return nil, apperrors.NewValidationError("user_id", "must not be empty")
	}

	// Verify the group exists
	if _, err := s.groupRepo.GetByID(ctx, groupID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, apperrors.NewStoreError("groups.get", err)
	}

	exists, err := s.repo.Exists(ctx, userID, groupID)
	if err != nil {
		return nil, apperrors.NewStoreError("memberships.exists", err)
	}
	if exists {
		return nil, apperrors.ErrMembershipExists
	}

	membership := &models.GroupMembership{
		GroupID: groupID,
		UserID:  userID,
	}
	if err := s.repo.Create(ctx, membership); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, apperrors.ErrMembershipExists
		}
		return nil, apperrors.NewStoreError("memberships.create", err)
	}

	logger.WithContext(ctx).WithField("group_id", groupID).Info("User joined group")
	return s.toResponse(membership), nil
}

// Leave deletes the membership row for the user and group. Leaving a group
// the user is not a member of is not an error.
func (s *MembershipService) Leave(ctx context.Context, groupID uuid.UUID, userID string) error {
	if userID == "" {
		return apperrors.NewValidationError("user_id", "must not be empty")
	}

	if err := s.repo.Delete(ctx, groupID, userID); err != nil {
		return apperrors.NewStoreError("memberships.delete", err)
	}

	logger.WithContext(ctx).WithField("group_id", groupID).Info("User left group")
	return nil
}

// ListByGroup retrieves a group's memberships, oldest member first
func (s *MembershipService) ListByGroup(ctx context.Context, groupID uuid.UUID) ([]MembershipResponse, error) {
	memberships, err := s.repo.GetByGroupID(ctx, groupID)
	if err != nil {
		return nil, apperrors.NewStoreError("memberships.listByGroup", err)
	}
	return s.toResponses(memberships), nil
}

// ListByUser retrieves a user's memberships, most recently joined first
func (s *MembershipService) ListByUser(ctx context.Context, userID string) ([]MembershipResponse, error) {
	memberships, err := s.repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, apperrors.NewStoreError("memberships.listByUser", err)
	}
	return s.toResponses(memberships), nil
}

// IsMember reports whether the user belongs to the group. Absence maps to
// false; only genuine backend failures return an error.
func (s *MembershipService) IsMember(ctx context.Context, userID string, groupID uuid.UUID) (bool, error) {
	exists, err := s.repo.Exists(ctx, userID, groupID)
	if err != nil {
		return false, apperrors.NewStoreError("memberships.exists", err)
	}
	return exists, nil
}

// CountByGroup returns the member count of a group, recomputed from the
// membership rows
func (s *MembershipService) CountByGroup(ctx context.Context, groupID uuid.UUID) (int64, error) {
	count, err := s.repo.CountByGroup(ctx, groupID)
	if err != nil {
		return 0, apperrors.NewStoreError("memberships.count", err)
	}
	return count, nil
}

// CountByGroups returns member counts for a batch of groups; every requested
// id is a key in the result, with 0 for groups that have no members
func (s *MembershipService) CountByGroups(ctx context.Context, groupIDs []uuid.UUID) (map[uuid.UUID]int64, error) {
	counts, err := s.repo.CountByGroups(ctx, groupIDs)
	if err != nil {
		return nil, apperrors.NewStoreError("memberships.countBatch", err)
	}
	return counts, nil
}

// toResponse converts a membership model to a response
func (s *MembershipService) toResponse(m *models.GroupMembership) *MembershipResponse {
	return &MembershipResponse{
		GroupID:   m.GroupID,
		UserID:    m.UserID,
		CreatedAt: m.CreatedAt,
	}
}

func (s *MembershipService) toResponses(memberships []models.GroupMembership) []MembershipResponse {
	responses := make([]MembershipResponse, len(memberships))
	for i, m := range memberships {
		responses[i] = *s.toResponse(&m)
	}
	return responses
}
