package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/hackhub-dev/hackhub/db"
	"github.com/hackhub-dev/hackhub/internal/models"
)

type CreateHackathonRequest struct {
	Name                string    `json:"name" binding:"required"`
	Description         string    `json:"description"`
	StartAt             time.Time `json:"start_at" binding:"required"`
	EndAt               time.Time `json:"end_at" binding:"required"`
	RegistrationOpenAt  time.Time `json:"registration_open_at" binding:"required"`
	RegistrationCloseAt time.Time `json:"registration_close_at" binding:"required"`
	MinTeamSize         int       `json:"min_team_size"`
	MaxTeamSize         int       `json:"max_team_size"`
	IsActive            *bool     `json:"is_active"`
}

func CreateHackathon(ctx *gin.Context) {
	var body CreateHackathonRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
		return
	}

	if body.MinTeamSize <= 0 {
		body.MinTeamSize = 1
	}

	if body.MaxTeamSize <= 0 {
		body.MaxTeamSize = 4
	}

	isActive := true

	if body.IsActive != nil {
		isActive = *body.IsActive
	}

	hackathon := models.Hackathon{
		Name:                body.Name,
		Description:         body.Description,
		StartAt:             body.StartAt,
		EndAt:               body.EndAt,
		RegistrationOpenAt:  body.RegistrationOpenAt,
		RegistrationCloseAt: body.RegistrationCloseAt,
		MinTeamSize:         body.MinTeamSize,
		MaxTeamSize:         body.MaxTeamSize,
		IsActive:            isActive,
	}

	if err := db.DB.Create(&hackathon).Error; err != nil {
		log.Printf("Failed to create hackathon: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create hackathon"})
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"hackathon": hackathon})
}

func ListHackathons(ctx *gin.Context) {
	var hackathons []models.Hackathon

	if err := db.DB.Where("is_active = ?", true).Order("start_at ASC").Find(&hackathons).Error; err != nil {
		log.Printf("Failed to list hackathons: %v", err)
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve hackathons"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"hackathons": hackathons})
}
