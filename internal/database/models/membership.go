package models

import (
	"time"

	"github.com/google/uuid"
)

// GroupMembership is the join row asserting a user belongs to a group.
// Its existence is the sole source of truth for "is member"; there is no
// separate membership-state field, and rows are never updated in place.
// UserID is an opaque identifier owned by the external identity provider.
type GroupMembership struct {
	GroupID   uuid.UUID `json:"group_id" gorm:"type:uuid;primaryKey"`
	UserID    string    `json:"user_id" gorm:"size:64;primaryKey" validate:"required,max=64"`
	CreatedAt time.Time `json:"created_at"`

	// Relationships
	Group Group `json:"group,omitempty" gorm:"foreignKey:GroupID;constraint:OnDelete:CASCADE"`
}

// TableName returns the table name for GroupMembership
func (GroupMembership) TableName() string {
	return "group_memberships"
}
