package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/hackhub-dev/hackhub/db"
	"github.com/hackhub-dev/hackhub/internal/auth"
	"github.com/hackhub-dev/hackhub/internal/models"
	"github.com/hackhub-dev/hackhub/internal/types"
)

// AuthenticatedUser is the identity attached to every request. Core
// operations receive it explicitly instead of reading ambient state.
type AuthenticatedUser struct {
	ID     uint              `json:"id"`
	Email  string            `json:"email"`
	Role   models.UserRole   `json:"role"`
	Status models.UserStatus `json:"status"`
}

func AuthMiddleware(sessions auth.SessionStore) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		authHeader := ctx.GetHeader("Authorization")

		if authHeader == "" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization token is required"})
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)

		if len(parts) != 2 || parts[0] != "Bearer" {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authorization header format must be Bearer {token}"})
			return
		}

		tokenString := parts[1]

		token, err := auth.VerifyJWT(tokenString)

		if err != nil || !token.Valid {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}

		claims, ok := token.Claims.(jwt.MapClaims)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token claims"})
			return
		}

		userIDFloat, ok := claims["user_id"].(float64)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid user ID in token claims"})
			return
		}

		sessionID, ok := claims["sid"].(string)

		if !ok {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid session in token claims"})
			return
		}

		live, err := sessions.IsLive(ctx.Request.Context(), sessionID)

		if err != nil || !live {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session is no longer valid"})
			return
		}

		userID := uint(userIDFloat)

		var user models.User

		if err := db.DB.Where("id = ?", userID).First(&user).Error; err != nil {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not found"})
			return
		}

		if user.Status == models.UserStatusBlocked {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Account blocked", "reason": user.BlockedReason})
			return
		}

		ctx.Set(types.ContextUserKey, AuthenticatedUser{
			ID:     user.ID,
			Email:  user.Email,
			Role:   user.Role,
			Status: user.Status,
		})
		ctx.Set(types.ContextSessionKey, sessionID)
		ctx.Next()
	}
}

// RequireOrganizer gates the admin surface. Organizers and admins both pass,
// matching the roles allowed to review registrations.
func RequireOrganizer() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		user, exists := ctx.Get(types.ContextUserKey)

		if !exists {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
			return
		}

		authenticatedUser, ok := user.(AuthenticatedUser)

		if !ok || (authenticatedUser.Role != models.RoleOrganizer && authenticatedUser.Role != models.RoleAdmin) {
			ctx.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Admin access required"})
			return
		}

		ctx.Next()
	}
}
