package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hackhub-dev/hackhub/internal/utils"
)

type ApplyRequest struct {
	HackathonID uint `json:"hackathon_id" binding:"required"`
}

func Apply(ctx *gin.Context) {
	var body ApplyRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "hackathon_id is required"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	registration, err := registrationsService.Apply(userID, body.HackathonID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"registration": registration})
}

func MyRegistration(ctx *gin.Context) {
	hackathonID, ok := queryUint(ctx, "hackathon_id")

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "hackathon_id query param is required"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	registration, err := registrationsService.GetMine(userID, hackathonID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"registration": registration})
}
