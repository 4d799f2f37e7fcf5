package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/hackhub-dev/hackhub/db"
	"github.com/hackhub-dev/hackhub/internal/auth"
	"github.com/hackhub-dev/hackhub/internal/services"
)

var (
	sessionStore         auth.SessionStore
	registrationsService *services.Registrations
	teamsService         *services.Teams
	invitesService       *services.Invites
	adminService         *services.Admin
)

// Init wires the handler package to the shared database and session store.
// Must run after db.ConnectDatabase.
func Init(sessions auth.SessionStore) {
	sessionStore = sessions
	registrationsService = services.NewRegistrations(db.DB)
	teamsService = services.NewTeams(db.DB)
	invitesService = services.NewInvites(db.DB)
	adminService = services.NewAdmin(db.DB, sessions)
	adminService.Broadcast = BroadcastAudit
}

func queryUint(ctx *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(ctx.Query(name), 10, 32)

	if err != nil || value == 0 {
		return 0, false
	}

	return uint(value), true
}
