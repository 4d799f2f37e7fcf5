package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hackhub-dev/hackhub/internal/models"
	"github.com/hackhub-dev/hackhub/internal/utils"
)

type DecisionRequest struct {
	RegistrationID uint   `json:"registration_id" binding:"required"`
	Decision       string `json:"decision" binding:"required"`
	Reason         string `json:"reason"`
}

type BlockUserRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

type UnblockUserRequest struct {
	UserID uint `json:"user_id" binding:"required"`
}

type ChangeRoleRequest struct {
	UserID uint   `json:"user_id" binding:"required"`
	Role   string `json:"role" binding:"required"`
}

type MembershipRequest struct {
	TeamID uint `json:"team_id" binding:"required"`
	UserID uint `json:"user_id" binding:"required"`
}

func AdminListRegistrations(ctx *gin.Context) {
	hackathonID, ok := queryUint(ctx, "hackathon_id")

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "hackathon_id query param is required"})
		return
	}

	status := models.RegistrationStatus(ctx.DefaultQuery("status", string(models.RegistrationPending)))

	registrations, err := adminService.ListRegistrations(hackathonID, status)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"registrations": registrations})
}

func DecideRegistration(ctx *gin.Context) {
	var body DecisionRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "registration_id and decision are required"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	registration, err := adminService.DecideRegistration(currentUser.ID, body.RegistrationID, models.RegistrationStatus(body.Decision), body.Reason)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"registration": registration})
}

func BlockUser(ctx *gin.Context) {
	var body BlockUserRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "user_id and reason are required"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := adminService.BlockUser(currentUser.ID, body.UserID, body.Reason)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": userResponse(*user)})
}

func UnblockUser(ctx *gin.Context) {
	var body UnblockUserRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "user_id is required"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := adminService.UnblockUser(currentUser.ID, body.UserID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": userResponse(*user)})
}

func ListUsers(ctx *gin.Context) {
	status := models.UserStatus(ctx.DefaultQuery("status", string(models.UserStatusActive)))

	if status != models.UserStatusActive && status != models.UserStatusBlocked {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid status filter"})
		return
	}

	users, err := adminService.ListUsers(status)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"users": users})
}

func ChangeUserRole(ctx *gin.Context) {
	var body ChangeRoleRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "user_id and role are required"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	user, err := adminService.ChangeUserRole(currentUser.ID, body.UserID, models.UserRole(body.Role))

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": userResponse(*user)})
}

func AddTeamMember(ctx *gin.Context) {
	var body MembershipRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "team_id and user_id are required"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	member, err := adminService.AddMember(currentUser.ID, body.TeamID, body.UserID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"member": member})
}

func RemoveTeamMember(ctx *gin.Context) {
	var body MembershipRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "team_id and user_id are required"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	if err := adminService.RemoveMember(currentUser.ID, body.TeamID, body.UserID); err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true})
}

func AuditTrail(ctx *gin.Context) {
	targetUserID, ok := queryUint(ctx, "target_user_id")

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "target_user_id query param is required"})
		return
	}

	logs, err := adminService.AuditTrail(targetUserID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"logs": logs})
}
