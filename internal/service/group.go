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

// GroupService handles business logic for the group directory
type GroupService struct {
	repo      repository.GroupRepositoryInterface
	validator *validator.Validate
}

// NewGroupService creates a new group service
func NewGroupService(repo repository.GroupRepositoryInterface, validator *validator.Validate) *GroupService {
	return &GroupService{
		repo:      repo,
		validator: validator,
	}
}

// CreateGroupRequest represents the request to create a group
type CreateGroupRequest struct {
	Name        string `json:"name" validate:"required,min=1,max=100"`
	Description string `json:"description"`
}

// UpdateGroupRequest represents a partial update. Nil fields are left
// unchanged.
type UpdateGroupRequest struct {
	Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
	Description *string `json:"description"`
}

// GroupResponse represents the response for group operations
type GroupResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// GroupListResponse represents a paginated list of groups
type GroupListResponse struct {
	Groups   []GroupResponse `json:"groups"`
	Total    int64           `json:"total"`
	Page     int             `json:"page"`
	PageSize int             `json:"page_size"`
}

// Create creates a new group. Invalid input never reaches the store.
func (s *GroupService) Create(ctx context.Context, req *CreateGroupRequest) (*GroupResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("name", "must be between 1 and 100 characters")
	}

	group := &models.Group{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := s.repo.Create(ctx, group); err != nil {
		return nil, apperrors.NewStoreError("groups.create", err)
	}

	logger.WithContext(ctx).WithField("group_id", group.ID).Info("Group created")
	return s.toResponse(group), nil
}

// GetByID retrieves a group by ID. Absence is reported as the
// distinguishable ErrGroupNotFound, not as a store failure.
func (s *GroupService) GetByID(ctx context.Context, id uuid.UUID) (*GroupResponse, error) {
	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, apperrors.NewStoreError("groups.get", err)
	}

	return s.toResponse(group), nil
}

// List retrieves groups with pagination, newest first. Page is 1-indexed
// and Total is the true row count, independent of the page length.
func (s *GroupService) List(ctx context.Context, page, pageSize int) (*GroupListResponse, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	offset := (page - 1) * pageSize
	groups, total, err := s.repo.GetAll(ctx, pageSize, offset)
	if err != nil {
		return nil, apperrors.NewStoreError("groups.list", err)
	}

	responses := make([]GroupResponse, len(groups))
	for i, group := range groups {
		responses[i] = *s.toResponse(&group)
	}

	return &GroupListResponse{
		Groups:   responses,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

// Search finds groups whose name or description contains the query,
// case-insensitively. An empty query returns all groups, newest first.
func (s *GroupService) Search(ctx context.Context, query string) ([]GroupResponse, error) {
	groups, err := s.repo.Search(ctx, query)
	if err != nil {
		return nil, apperrors.NewStoreError("groups.search", err)
	}

	responses := make([]GroupResponse, len(groups))
	for i, group := range groups {
		responses[i] = *s.toResponse(&group)
	}
	return responses, nil
}

// Update applies a partial update to a group
func (s *GroupService) Update(ctx context.Context, id uuid.UUID, req *UpdateGroupRequest) (*GroupResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, apperrors.NewValidationError("name", "must be between 1 and 100 characters")
	}

	// Verify the group exists so a missing id is not silently a no-op
	if _, err := s.repo.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrGroupNotFound
		}
		return nil, apperrors.NewStoreError("groups.get", err)
	}

	updates := map[string]interface{}{}
	if req.Name != nil {
		updates["name"] = *req.Name
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}

	if len(updates) > 0 {
		if err := s.repo.Update(ctx, id, updates); err != nil {
			return nil, apperrors.NewStoreError("groups.update", err)
		}
	}

	group, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.NewStoreError("groups.get", err)
	}
	return s.toResponse(group), nil
}

// Delete removes a group and all of its membership rows. Deleting a group
// that does not exist is treated as success.
func (s *GroupService) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return apperrors.NewStoreError("groups.delete", err)
	}

	logger.WithContext(ctx).WithField("group_id", id).Info("Group deleted")
	return nil
}

// toResponse converts a group model to a response
func (s *GroupService) toResponse(group *models.Group) *GroupResponse {
	return &GroupResponse{
		ID:          group.ID,
		Name:        group.Name,
		Description: group.Description,
		CreatedAt:   group.CreatedAt,
		UpdatedAt:   group.UpdatedAt,
	}
}
