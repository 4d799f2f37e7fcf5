package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/hackhub-dev/hackhub/internal/utils"
)

type CreateTeamRequest struct {
	HackathonID uint   `json:"hackathon_id" binding:"required"`
	Name        string `json:"name" binding:"required"`
	IsPublic    bool   `json:"is_public"`
}

type JoinTeamRequest struct {
	TeamCode string `json:"team_code" binding:"required"`
}

type JoinTeamByIDRequest struct {
	TeamID uint `json:"team_id" binding:"required"`
}

type LeaveTeamRequest struct {
	HackathonID uint `json:"hackathon_id" binding:"required"`
}

type TogglePublicRequest struct {
	TeamID   uint  `json:"team_id" binding:"required"`
	IsPublic *bool `json:"is_public" binding:"required"`
}

type InviteRequest struct {
	TeamID         uint   `json:"team_id" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	ExpiresInHours int    `json:"expires_in_hours"`
}

type RespondInviteRequest struct {
	InviteID uint   `json:"invite_id" binding:"required"`
	Action   string `json:"action" binding:"required"`
}

func CreateTeam(ctx *gin.Context) {
	var body CreateTeamRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "hackathon_id and name are required"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	team, err := teamsService.Create(userID, body.HackathonID, body.Name, body.IsPublic)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"team": team})
}

func JoinTeam(ctx *gin.Context) {
	var body JoinTeamRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "team_code is required"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	team, err := teamsService.JoinByCode(userID, body.TeamCode)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true, "team": team})
}

func JoinTeamByID(ctx *gin.Context) {
	var body JoinTeamByIDRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "team_id is required"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	team, err := teamsService.JoinByID(userID, body.TeamID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true, "team": team})
}

func LeaveTeam(ctx *gin.Context) {
	var body LeaveTeamRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "hackathon_id is required"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	disbanded, err := teamsService.Leave(userID, body.HackathonID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true, "disbanded": disbanded})
}

func TogglePublic(ctx *gin.Context) {
	var body TogglePublicRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "team_id and is_public (boolean) are required"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	team, err := teamsService.TogglePublic(userID, body.TeamID, *body.IsPublic)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"team": team})
}

func MyTeam(ctx *gin.Context) {
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

	team, members, invites, err := teamsService.TeamForUser(userID, hackathonID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	if team == nil {
		ctx.JSON(http.StatusOK, gin.H{"team": nil})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"team": team, "members": members, "invites": invites})
}

func AvailableTeams(ctx *gin.Context) {
	hackathonID, ok := queryUint(ctx, "hackathon_id")

	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "hackathon_id query param is required"})
		return
	}

	teams, err := teamsService.Available(hackathonID)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"teams": teams})
}

func InviteToTeam(ctx *gin.Context) {
	var body InviteRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "team_id and email are required"})
		return
	}

	userID, err := utils.GetCurrentUserID(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	invite, err := invitesService.Create(userID, body.TeamID, body.Email, body.ExpiresInHours)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusCreated, gin.H{"invite": invite})
}

func RespondToInvite(ctx *gin.Context) {
	var body RespondInviteRequest

	if err := ctx.BindJSON(&body); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "invite_id and action(accept|decline) are required"})
		return
	}

	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	invite, err := invitesService.Respond(currentUser.ID, currentUser.Email, body.InviteID, body.Action)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"ok": true, "invite": invite})
}

func MyInvites(ctx *gin.Context) {
	currentUser, err := utils.GetCurrentUser(ctx)

	if err != nil {
		ctx.JSON(http.StatusUnauthorized, gin.H{"error": "User not authenticated"})
		return
	}

	invites, err := invitesService.ListMine(currentUser.ID, currentUser.Email)

	if err != nil {
		respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"invites": invites})
}
