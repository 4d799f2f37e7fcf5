package utils

import (
	"fmt"

	"github.com/gin-gonic/gin"
	"github.com/hackhub-dev/hackhub/internal/middleware"
	"github.com/hackhub-dev/hackhub/internal/types"
)

func GetCurrentUser(ctx *gin.Context) (middleware.AuthenticatedUser, error) {
	user, exists := ctx.Get(types.ContextUserKey)

	if !exists {
		return middleware.AuthenticatedUser{}, fmt.Errorf("User not authenticated")
	}

	authenticatedUser, ok := user.(middleware.AuthenticatedUser)

	if !ok {
		return middleware.AuthenticatedUser{}, fmt.Errorf("Invalid user type in context")
	}

	return authenticatedUser, nil
}

func GetCurrentUserID(ctx *gin.Context) (uint, error) {
	user, err := GetCurrentUser(ctx)

	if err != nil {
		return 0, err
	}

	return user.ID, nil
}

func GetCurrentSessionID(ctx *gin.Context) (string, error) {
	sessionID, exists := ctx.Get(types.ContextSessionKey)

	if !exists {
		return "", fmt.Errorf("No session in context")
	}

	id, ok := sessionID.(string)

	if !ok {
		return "", fmt.Errorf("Invalid session type in context")
	}

	return id, nil
}
