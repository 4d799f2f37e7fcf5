package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hackhub-dev/hackhub/internal/models"
	"gorm.io/gorm"
)

const defaultInviteHours = 72

// Invites is the leader-issued membership channel, independent of the code
// and public join paths.
type Invites struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewInvites(db *gorm.DB) *Invites {
	return &Invites{DB: db, Now: time.Now}
}

// Create issues a time-boxed pending invite. The target email may not have
// an account yet; the invite still works once they sign up with it.
func (s *Invites) Create(leaderID, teamID uint, email string, expiresInHours int) (*models.TeamInvite, error) {
	normalizedEmail := strings.ToLower(strings.TrimSpace(email))

	if teamID == 0 || normalizedEmail == "" {
		return nil, fmt.Errorf("%w: teamId and email are required", ErrValidation)
	}

	isLeader, err := userIsTeamLeader(s.DB, leaderID, teamID)

	if err != nil {
		return nil, err
	}

	if !isLeader {
		return nil, fmt.Errorf("only team leader can invite: %w", ErrForbidden)
	}

	var invitedUserID *uint

	var user models.User

	err = s.DB.Where("email = ?", normalizedEmail).First(&user).Error

	if err == nil {
		invitedUserID = &user.ID
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	if expiresInHours <= 0 {
		expiresInHours = defaultInviteHours
	}

	now := s.Now()

	invite := models.TeamInvite{
		TeamID:        teamID,
		InvitedUserID: invitedUserID,
		InvitedEmail:  normalizedEmail,
		InvitedBy:     leaderID,
		Status:        models.InvitePending,
		InvitedAt:     now,
		ExpiresAt:     now.Add(time.Duration(expiresInHours) * time.Hour),
	}

	if err := s.DB.Create(&invite).Error; err != nil {
		return nil, err
	}

	return &invite, nil
}

// Respond resolves a pending invite. Expiry is checked lazily: an accept or
// decline attempt past expires_at flips the invite to expired and fails.
// The status updates are conditional on the invite still being pending, so
// two concurrent responses cannot both win.
func (s *Invites) Respond(userID uint, userEmail string, inviteID uint, action string) (*models.TeamInvite, error) {
	if inviteID == 0 || (action != "accept" && action != "decline") {
		return nil, fmt.Errorf("%w: inviteId and action(accept|decline) are required", ErrValidation)
	}

	var invite models.TeamInvite

	if err := s.DB.First(&invite, inviteID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("invite not found: %w", ErrNotFound)
		}
		return nil, err
	}

	if invite.Status != models.InvitePending {
		return nil, ErrNotPending
	}

	now := s.Now()

	if now.After(invite.ExpiresAt) {
		err := s.DB.Model(&models.TeamInvite{}).
			Where("id = ? AND status = ?", invite.ID, models.InvitePending).
			Updates(map[string]interface{}{"status": models.InviteExpired, "responded_at": now}).Error

		if err != nil {
			return nil, err
		}

		return nil, ErrExpired
	}

	userMatch := invite.InvitedUserID != nil && *invite.InvitedUserID == userID
	emailMatch := invite.InvitedEmail != "" && invite.InvitedEmail == strings.ToLower(strings.TrimSpace(userEmail))

	if !userMatch && !emailMatch {
		return nil, fmt.Errorf("not your invite: %w", ErrForbidden)
	}

	if action == "decline" {
		result := s.DB.Model(&models.TeamInvite{}).
			Where("id = ? AND status = ?", invite.ID, models.InvitePending).
			Updates(map[string]interface{}{"status": models.InviteDeclined, "responded_at": now})

		if result.Error != nil {
			return nil, result.Error
		}

		if result.RowsAffected == 0 {
			return nil, ErrNotPending
		}

		return s.reload(invite.ID)
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var team models.Team

		if err := tx.First(&team, invite.TeamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("team not found: %w", ErrNotFound)
			}
			return err
		}

		accepted, err := hasAcceptedRegistration(tx, userID, team.HackathonID)

		if err != nil {
			return err
		}

		if !accepted {
			return fmt.Errorf("accepted registration required: %w", ErrForbidden)
		}

		if _, err := addTeamMember(tx, &team, userID, models.TeamRoleMember, now); err != nil {
			return err
		}

		result := tx.Model(&models.TeamInvite{}).
			Where("id = ? AND status = ?", invite.ID, models.InvitePending).
			Updates(map[string]interface{}{"status": models.InviteAccepted, "responded_at": now})

		if result.Error != nil {
			return result.Error
		}

		if result.RowsAffected == 0 {
			return ErrNotPending
		}

		return nil
	})

	if err != nil {
		return nil, err
	}

	return s.reload(invite.ID)
}

// ListMine returns the caller's pending invites, matched by user id or by
// the email the invite was addressed to.
func (s *Invites) ListMine(userID uint, userEmail string) ([]models.TeamInvite, error) {
	var invites []models.TeamInvite

	err := s.DB.Preload("Team").
		Where("status = ? AND (invited_user_id = ? OR invited_email = ?)",
			models.InvitePending, userID, strings.ToLower(strings.TrimSpace(userEmail))).
		Order("invited_at DESC").
		Find(&invites).Error

	if err != nil {
		return nil, err
	}

	return invites, nil
}

func (s *Invites) reload(inviteID uint) (*models.TeamInvite, error) {
	var invite models.TeamInvite

	if err := s.DB.First(&invite, inviteID).Error; err != nil {
		return nil, err
	}

	return &invite, nil
}
