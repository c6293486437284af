package handlers

import (
	"errors"
	"net/http"

	"groupmeet-backend/internal/auth"
	apperrors "groupmeet-backend/internal/errors"
	"groupmeet-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MembershipHandler handles HTTP requests for group memberships
type MembershipHandler struct {
	service service.MembershipServiceInterface
}

// NewMembershipHandler creates a new membership handler
func NewMembershipHandler(service service.MembershipServiceInterface) *MembershipHandler {
	return &MembershipHandler{service: service}
}

// JoinGroup adds the authenticated user to a group
func (h *MembershipHandler) JoinGroup(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	userID, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrMissingUserIdentity.Error()})
		return
	}

	membership, err := h.service.Join(c.Request.Context(), groupID, userID)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrGroupNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case apperrors.IsAlreadyExists(err):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		case apperrors.IsValidation(err):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, membership)
}

// LeaveGroup removes the authenticated user from a group. Leaving a group
// the user is not in still returns success.
func (h *MembershipHandler) LeaveGroup(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	userID, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrMissingUserIdentity.Error()})
		return
	}

	if err := h.service.Leave(c.Request.Context(), groupID, userID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// ListGroupMembers lists a group's memberships, oldest member first
func (h *MembershipHandler) ListGroupMembers(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	memberships, err := h.service.ListByGroup(c.Request.Context(), groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"memberships": memberships})
}

// ListMyMemberships lists the authenticated user's memberships, most
// recently joined first
func (h *MembershipHandler) ListMyMemberships(c *gin.Context) {
	userID, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrMissingUserIdentity.Error()})
		return
	}

	memberships, err := h.service.ListByUser(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"memberships": memberships})
}

// GetGroupMemberCount returns the member count of one group
func (h *MembershipHandler) GetGroupMemberCount(c *gin.Context) {
	groupID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}

	count, err := h.service.CountByGroup(c.Request.Context(), groupID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"group_id": groupID, "member_count": count})
}

// MemberCountsRequest is the batch count request body
type MemberCountsRequest struct {
	GroupIDs []uuid.UUID `json:"group_ids" binding:"required"`
}

// GetGroupMemberCounts returns member counts for a batch of groups; ids
// with no memberships are reported as 0
func (h *MembershipHandler) GetGroupMemberCounts(c *gin.Context) {
	var req MemberCountsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	counts, err := h.service.CountByGroups(c.Request.Context(), req.GroupIDs)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"member_counts": counts})
}
