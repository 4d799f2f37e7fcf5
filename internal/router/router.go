package router

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/hackhub-dev/hackhub/internal/auth"
	"github.com/hackhub-dev/hackhub/internal/handlers"
	"github.com/hackhub-dev/hackhub/internal/middleware"
	"github.com/hackhub-dev/hackhub/internal/types"
)

func NewRouter(sessions auth.SessionStore) *gin.Engine {
	r := gin.Default()

	// Add CORS middleware
	r.Use(cors.New(cors.Config{
		AllowOrigins:     types.AllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "HEAD", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	authRequired := middleware.AuthMiddleware(sessions)

	api := r.Group("/api")
	{
		api.GET("/health", handlers.HealthCheck)
		api.GET("/ws/audit", authRequired, middleware.RequireOrganizer(), handlers.AuditFeed)

		authRoutes := api.Group("/auth")
		{
			authRoutes.POST("/register", handlers.CreateUser)
			authRoutes.POST("/login", handlers.LoginUser)
			authRoutes.POST("/logout", authRequired, handlers.LogoutUser)
			authRoutes.GET("/me", authRequired, handlers.Me)
		}

		hackathons := api.Group("/hackathons")
		{
			hackathons.GET("", handlers.ListHackathons)
			hackathons.POST("", authRequired, middleware.RequireOrganizer(), handlers.CreateHackathon)
		}

		registrations := api.Group("/registrations", authRequired)
		{
			registrations.POST("/apply", handlers.Apply)
			registrations.GET("/me", handlers.MyRegistration)
		}

		teams := api.Group("/teams")
		{
			teams.GET("/available", handlers.AvailableTeams)

			teams.POST("/create", authRequired, handlers.CreateTeam)
			teams.POST("/join", authRequired, handlers.JoinTeam)
			teams.POST("/join-by-id", authRequired, handlers.JoinTeamByID)
			teams.POST("/leave", authRequired, handlers.LeaveTeam)
			teams.POST("/toggle-public", authRequired, handlers.TogglePublic)
			teams.GET("/me", authRequired, handlers.MyTeam)
			teams.POST("/invite", authRequired, handlers.InviteToTeam)
			teams.POST("/invite/respond", authRequired, handlers.RespondToInvite)
			teams.GET("/invites/me", authRequired, handlers.MyInvites)
		}

		admin := api.Group("/admin", authRequired, middleware.RequireOrganizer())
		{
			admin.GET("/registrations", handlers.AdminListRegistrations)
			admin.POST("/registrations/decision", handlers.DecideRegistration)
			admin.GET("/users", handlers.ListUsers)
			admin.POST("/users/block", handlers.BlockUser)
			admin.POST("/users/unblock", handlers.UnblockUser)
			admin.POST("/users/role", handlers.ChangeUserRole)
			admin.POST("/teams/add-member", handlers.AddTeamMember)
			admin.POST("/teams/remove-member", handlers.RemoveTeamMember)
			admin.GET("/audit", handlers.AuditTrail)
		}
	}

	return r
}
