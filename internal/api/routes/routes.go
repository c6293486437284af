package routes

import (
	"groupmeet-backend/internal/api/handlers"
	"groupmeet-backend/internal/api/middleware"
	"groupmeet-backend/internal/auth"
	"groupmeet-backend/internal/config"
	"groupmeet-backend/internal/repository"
	"groupmeet-backend/internal/roster"
	"groupmeet-backend/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Create router
	router := gin.New()

	// Add middleware
	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.CORS(cfg))
	router.Use(middleware.Timeout(cfg))

	// Initialize validator
	validate := validator.New()

	// Initialize repositories: the single store-client handle is injected
	// here rather than constructed ambiently per call
	groupRepo := repository.NewGroupRepository(db)
	membershipRepo := repository.NewMembershipRepository(db)

	// Initialize services
	groupService := service.NewGroupService(groupRepo, validate)
	membershipService := service.NewMembershipService(membershipRepo, groupRepo, validate)

	// Initialize roster manager (one session-scoped view per user)
	rosterManager := roster.NewManager(cfg.RosterPageSize, groupService, membershipService)

	// Initialize auth
	authService := auth.NewService(cfg.JWTSecret)
	authMiddleware := auth.NewMiddleware(authService)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	groupHandler := handlers.NewGroupHandler(groupService)
	membershipHandler := handlers.NewMembershipHandler(membershipService)
	rosterHandler := handlers.NewRosterHandler(rosterManager)

	// Health check
	router.GET("/health", healthHandler.Health)

	// API routes
	v1 := router.Group("/api/v1")
	v1.Use(authMiddleware.RequireAuth())
	{
		groups := v1.Group("/groups")
		{
			groups.POST("", groupHandler.CreateGroup)
			groups.GET("", groupHandler.ListGroups)
			groups.GET("/:id", groupHandler.GetGroup)
			groups.PUT("/:id", groupHandler.UpdateGroup)
			groups.DELETE("/:id", groupHandler.DeleteGroup)

			groups.POST("/:id/members", membershipHandler.JoinGroup)
			groups.DELETE("/:id/members", membershipHandler.LeaveGroup)
			groups.GET("/:id/members", membershipHandler.ListGroupMembers)
			groups.GET("/:id/members/count", membershipHandler.GetGroupMemberCount)
		}

		v1.POST("/member-counts", membershipHandler.GetGroupMemberCounts)
		v1.GET("/users/me/memberships", membershipHandler.ListMyMemberships)

		discover := v1.Group("/discover")
		{
			discover.GET("", rosterHandler.Discover)
			discover.POST("/refresh", rosterHandler.Refresh)
			discover.POST("/groups/:id/join", rosterHandler.Join)
			discover.POST("/groups/:id/leave", rosterHandler.Leave)
		}
	}

	return router
}
