package testutils

import (
	"time"

	"groupmeet-backend/internal/database/models"

	"github.com/google/uuid"
)

// GroupFactory provides methods to create test Group data
type GroupFactory struct{}

// NewGroupFactory creates a new GroupFactory
func NewGroupFactory() *GroupFactory {
	return &GroupFactory{}
}

// Create creates a test Group with default values
func (f *GroupFactory) Create() *models.Group {
	return &models.Group{
		ID:          uuid.New(),
		Name:        "Test Group",
		Description: "A test group for testing purposes",
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}
}

// WithName sets a custom name for the group
func (f *GroupFactory) WithName(name string) *models.Group {
	group := f.Create()
	group.Name = name
	return group
}

// WithCreatedAt sets a custom creation time, useful for ordering tests
func (f *GroupFactory) WithCreatedAt(createdAt time.Time) *models.Group {
	group := f.Create()
	group.CreatedAt = createdAt
	return group
}

// MembershipFactory provides methods to create test GroupMembership data
type MembershipFactory struct{}

// NewMembershipFactory creates a new MembershipFactory
func NewMembershipFactory() *MembershipFactory {
	return &MembershipFactory{}
}

// Create creates a test membership for the given group and user
func (f *MembershipFactory) Create(groupID uuid.UUID, userID string) *models.GroupMembership {
	return &models.GroupMembership{
		GroupID:   groupID,
		UserID:    userID,
		CreatedAt: time.Now(),
	}
}

// FactorySet bundles all factories for convenience
type FactorySet struct {
	Group      *GroupFactory
	Membership *MembershipFactory
}

// NewFactorySet creates a new FactorySet
func NewFactorySet() *FactorySet {
	return &FactorySet{
		Group:      NewGroupFactory(),
		Membership: NewMembershipFactory(),
	}
}
