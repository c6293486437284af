package handlers

import (
	"errors"
	"net/http"

	"groupmeet-backend/internal/auth"
	apperrors "groupmeet-backend/internal/errors"
	"groupmeet-backend/internal/roster"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RosterHandler exposes the discover view: the reconciled group list with
// counts and joined flags, plus join/leave entry points that keep the view
// consistent with the store
type RosterHandler struct {
	manager *roster.Manager
}

// NewRosterHandler creates a new roster handler
func NewRosterHandler(manager *roster.Manager) *RosterHandler {
	return &RosterHandler{manager: manager}
}

// Discover returns the visible group list for the authenticated user,
// filtered by q and ordered by sort (popular, newest or name). Filtering
// and sorting happen in memory over the loaded view.
func (h *RosterHandler) Discover(c *gin.Context) {
	userID, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrMissingUserIdentity.Error()})
		return
	}

	r := h.manager.ForUser(userID)
	if _, err := r.Snapshot(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	mode := roster.ParseSortMode(c.Query("sort"))
	groups := r.Visible(mode, c.Query("q"))

	c.JSON(http.StatusOK, gin.H{"groups": groups, "sort": mode})
}

// Refresh resynchronizes the user's view from the store, discarding any
// locally patched counts
func (h *RosterHandler) Refresh(c *gin.Context) {
	userID, ok := auth.CurrentUser(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": apperrors.ErrMissingUserIdentity.Error()})
		return
	}

	if err := h.manager.ForUser(userID).Load(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}

// Join joins the authenticated user to a group through the roster, so the
// local view is patched once the store confirms
func (h *RosterHandler) Join(c *gin.Context) {
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

	if err := h.manager.ForUser(userID).Join(c.Request.Context(), groupID); err != nil {
		switch {
		case errors.Is(err, apperrors.ErrGroupNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case apperrors.IsAlreadyExists(err):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.Status(http.StatusNoContent)
}

// Leave removes the authenticated user from a group through the roster
func (h *RosterHandler) Leave(c *gin.Context) {
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

	if err := h.manager.ForUser(userID).Leave(c.Request.Context(), groupID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Status(http.StatusNoContent)
}
