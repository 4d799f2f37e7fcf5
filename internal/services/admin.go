package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/hackhub-dev/hackhub/internal/auth"
	"github.com/hackhub-dev/hackhub/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const auditTrailLimit = 200

// Admin holds the privileged mutations. Every mutation goes through audited,
// so the audit append and the state change commit or roll back together and
// no privileged path can skip logging.
type Admin struct {
	DB        *gorm.DB
	Now       func() time.Time
	Sessions  auth.SessionStore
	Broadcast func(models.AuditLog)
}

func NewAdmin(db *gorm.DB, sessions auth.SessionStore) *Admin {
	return &Admin{DB: db, Now: time.Now, Sessions: sessions}
}

type auditEntry struct {
	action       string
	targetUserID *uint
	hackathonID  *uint
	details      map[string]interface{}
}

func (s *Admin) audited(actorID uint, mutate func(tx *gorm.DB) (auditEntry, error)) (*models.AuditLog, error) {
	var logEntry models.AuditLog

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		entry, err := mutate(tx)

		if err != nil {
			return err
		}

		var details datatypes.JSON

		if entry.details != nil {
			payload, err := json.Marshal(entry.details)

			if err != nil {
				return err
			}

			details = datatypes.JSON(payload)
		}

		logEntry = models.AuditLog{
			ActorUserID:  actorID,
			TargetUserID: entry.targetUserID,
			HackathonID:  entry.hackathonID,
			Action:       entry.action,
			Details:      details,
			CreatedAt:    s.Now(),
		}

		return tx.Create(&logEntry).Error
	})

	if err != nil {
		return nil, err
	}

	if s.Broadcast != nil {
		s.Broadcast(logEntry)
	}

	return &logEntry, nil
}

// DecideRegistration sets any of the five statuses, including reverting to
// pending. Team membership is deliberately untouched when a previously
// accepted user is demoted; organizers remove members explicitly if needed.
func (s *Admin) DecideRegistration(adminID, registrationID uint, decision models.RegistrationStatus, reason string) (*models.Registration, error) {
	switch decision {
	case models.RegistrationAccepted, models.RegistrationRejected, models.RegistrationWaitlisted,
		models.RegistrationPending, models.RegistrationCancelled:
	default:
		return nil, fmt.Errorf("%w: registrationId and a valid decision are required", ErrValidation)
	}

	if registrationID == 0 {
		return nil, fmt.Errorf("%w: registrationId and a valid decision are required", ErrValidation)
	}

	var registration models.Registration

	_, err := s.audited(adminID, func(tx *gorm.DB) (auditEntry, error) {
		if err := tx.First(&registration, registrationID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return auditEntry{}, fmt.Errorf("registration not found: %w", ErrNotFound)
			}
			return auditEntry{}, err
		}

		now := s.Now()
		registration.Status = decision
		registration.ReviewedBy = &adminID
		registration.ReviewedAt = &now
		registration.DecisionReason = reason

		if err := tx.Save(&registration).Error; err != nil {
			return auditEntry{}, err
		}

		return auditEntry{
			action:       "registration.decision",
			targetUserID: &registration.UserID,
			hackathonID:  &registration.HackathonID,
			details:      map[string]interface{}{"decision": decision, "reason": reason},
		}, nil
	})

	if err != nil {
		return nil, err
	}

	return &registration, nil
}

// BlockUser marks the account blocked and revokes every active session, so
// the user's next authenticated request fails. Organizers cannot be blocked.
func (s *Admin) BlockUser(adminID, userID uint, reason string) (*models.User, error) {
	if userID == 0 || reason == "" {
		return nil, fmt.Errorf("%w: userId and reason are required", ErrValidation)
	}

	var user models.User

	_, err := s.audited(adminID, func(tx *gorm.DB) (auditEntry, error) {
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return auditEntry{}, fmt.Errorf("user not found: %w", ErrNotFound)
			}
			return auditEntry{}, err
		}

		if user.Role == models.RoleOrganizer {
			return auditEntry{}, fmt.Errorf("organizers cannot be blocked: %w", ErrForbidden)
		}

		now := s.Now()
		user.Status = models.UserStatusBlocked
		user.BlockedReason = reason
		user.BlockedAt = &now
		user.BlockedBy = &adminID

		if err := tx.Save(&user).Error; err != nil {
			return auditEntry{}, err
		}

		return auditEntry{
			action:       "user.block",
			targetUserID: &user.ID,
			details:      map[string]interface{}{"reason": reason},
		}, nil
	})

	if err != nil {
		return nil, err
	}

	if err := s.Sessions.RevokeAll(context.Background(), userID); err != nil {
		return nil, fmt.Errorf("revoking sessions for user %d: %w", userID, err)
	}

	return &user, nil
}

func (s *Admin) UnblockUser(adminID, userID uint) (*models.User, error) {
	if userID == 0 {
		return nil, fmt.Errorf("%w: userId is required", ErrValidation)
	}

	var user models.User

	_, err := s.audited(adminID, func(tx *gorm.DB) (auditEntry, error) {
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return auditEntry{}, fmt.Errorf("user not found: %w", ErrNotFound)
			}
			return auditEntry{}, err
		}

		user.Status = models.UserStatusActive
		user.BlockedReason = ""
		user.BlockedAt = nil
		user.BlockedBy = nil

		if err := tx.Save(&user).Error; err != nil {
			return auditEntry{}, err
		}

		return auditEntry{action: "user.unblock", targetUserID: &user.ID}, nil
	})

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// ChangeUserRole switches a user between participant and organizer. The
// admin role can never be granted this way.
func (s *Admin) ChangeUserRole(adminID, userID uint, role models.UserRole) (*models.User, error) {
	if userID == 0 || (role != models.RoleParticipant && role != models.RoleOrganizer) {
		return nil, fmt.Errorf("%w: userId and role(participant|organizer) are required", ErrValidation)
	}

	var user models.User

	_, err := s.audited(adminID, func(tx *gorm.DB) (auditEntry, error) {
		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return auditEntry{}, fmt.Errorf("user not found: %w", ErrNotFound)
			}
			return auditEntry{}, err
		}

		previousRole := user.Role
		user.Role = role

		if err := tx.Save(&user).Error; err != nil {
			return auditEntry{}, err
		}

		return auditEntry{
			action:       "user.role_change",
			targetUserID: &user.ID,
			details:      map[string]interface{}{"from": previousRole, "to": role},
		}, nil
	})

	if err != nil {
		return nil, err
	}

	return &user, nil
}

// RemoveMember force-deletes a membership regardless of role. Removing a
// leader leaves the team leaderless on purpose; the action is audited and
// organizers are expected to follow up deliberately.
func (s *Admin) RemoveMember(adminID, teamID, userID uint) error {
	if teamID == 0 || userID == 0 {
		return fmt.Errorf("%w: teamId and userId are required", ErrValidation)
	}

	_, err := s.audited(adminID, func(tx *gorm.DB) (auditEntry, error) {
		var team models.Team

		if err := tx.First(&team, teamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return auditEntry{}, fmt.Errorf("team not found: %w", ErrNotFound)
			}
			return auditEntry{}, err
		}

		result := tx.Where("team_id = ? AND user_id = ?", teamID, userID).Delete(&models.TeamMember{})

		if result.Error != nil {
			return auditEntry{}, result.Error
		}

		if result.RowsAffected == 0 {
			return auditEntry{}, fmt.Errorf("membership not found: %w", ErrNotFound)
		}

		return auditEntry{
			action:       "team.remove_member",
			targetUserID: &userID,
			hackathonID:  &team.HackathonID,
			details:      map[string]interface{}{"team_id": teamID},
		}, nil
	})

	return err
}

// AddMember force-inserts a membership, but still honors capacity and the
// one-team-per-hackathon rule; this path has always been stricter than the
// self-service joins.
func (s *Admin) AddMember(adminID, teamID, userID uint) (*models.TeamMember, error) {
	if teamID == 0 || userID == 0 {
		return nil, fmt.Errorf("%w: teamId and userId are required", ErrValidation)
	}

	var member models.TeamMember

	_, err := s.audited(adminID, func(tx *gorm.DB) (auditEntry, error) {
		var team models.Team

		if err := tx.First(&team, teamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return auditEntry{}, fmt.Errorf("team not found: %w", ErrNotFound)
			}
			return auditEntry{}, err
		}

		var user models.User

		if err := tx.First(&user, userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return auditEntry{}, fmt.Errorf("user not found: %w", ErrNotFound)
			}
			return auditEntry{}, err
		}

		alreadyMember, err := addTeamMember(tx, &team, userID, models.TeamRoleMember, s.Now())

		if err != nil {
			return auditEntry{}, err
		}

		if alreadyMember {
			return auditEntry{}, fmt.Errorf("user is already a member of this team: %w", ErrConflict)
		}

		if err := tx.Where("team_id = ? AND user_id = ?", teamID, userID).First(&member).Error; err != nil {
			return auditEntry{}, err
		}

		return auditEntry{
			action:       "team.add_member",
			targetUserID: &userID,
			hackathonID:  &team.HackathonID,
			details:      map[string]interface{}{"team_id": teamID},
		}, nil
	})

	if err != nil {
		return nil, err
	}

	return &member, nil
}

func (s *Admin) ListRegistrations(hackathonID uint, status models.RegistrationStatus) ([]models.Registration, error) {
	if hackathonID == 0 {
		return nil, fmt.Errorf("%w: hackathonId is required", ErrValidation)
	}

	var registrations []models.Registration

	err := s.DB.Preload("User").
		Where("hackathon_id = ? AND status = ?", hackathonID, status).
		Order("applied_at ASC").
		Find(&registrations).Error

	if err != nil {
		return nil, err
	}

	return registrations, nil
}

func (s *Admin) ListUsers(status models.UserStatus) ([]models.User, error) {
	var users []models.User

	err := s.DB.Where("status = ?", status).Order("created_at DESC").Find(&users).Error

	if err != nil {
		return nil, err
	}

	return users, nil
}

// AuditTrail returns the most recent audit entries for a target user.
func (s *Admin) AuditTrail(targetUserID uint) ([]models.AuditLog, error) {
	if targetUserID == 0 {
		return nil, fmt.Errorf("%w: targetUserId is required", ErrValidation)
	}

	var logs []models.AuditLog

	err := s.DB.Where("target_user_id = ?", targetUserID).
		Order("created_at DESC").
		Limit(auditTrailLimit).
		Find(&logs).Error

	if err != nil {
		return nil, err
	}

	return logs, nil
}
