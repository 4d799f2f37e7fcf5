package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/hackhub-dev/hackhub/internal/models"
	"github.com/hackhub-dev/hackhub/internal/utils"
	"gorm.io/gorm"
)

const codeAttempts = 8

// Teams owns the per-hackathon membership state machine: NoTeam -> InTeam,
// and back via leave or disband.
type Teams struct {
	DB           *gorm.DB
	Now          func() time.Time
	GenerateCode func() (string, error)
}

func NewTeams(db *gorm.DB) *Teams {
	return &Teams{DB: db, Now: time.Now, GenerateCode: utils.GenerateTeamCode}
}

type TeamSummary struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	TeamCode    string `json:"team_code"`
	IsPublic    bool   `json:"is_public"`
	IsLocked    bool   `json:"is_locked"`
	MemberCount int    `json:"member_count"`
}

// Create inserts the team and its leader membership atomically: a team never
// exists without exactly one leader.
func (s *Teams) Create(userID, hackathonID uint, name string, isPublic bool) (*models.Team, error) {
	if hackathonID == 0 || strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: hackathonId and name are required", ErrValidation)
	}

	var team models.Team

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		accepted, err := hasAcceptedRegistration(tx, userID, hackathonID)

		if err != nil {
			return err
		}

		if !accepted {
			return fmt.Errorf("accepted registration required: %w", ErrForbidden)
		}

		inTeam, err := userInHackathonTeam(tx, userID, hackathonID)

		if err != nil {
			return err
		}

		if inTeam {
			return fmt.Errorf("already in a team for this hackathon: %w", ErrConflict)
		}

		teamCode, err := s.uniqueTeamCode(tx)

		if err != nil {
			return err
		}

		team = models.Team{
			HackathonID: hackathonID,
			Name:        strings.TrimSpace(name),
			TeamCode:    teamCode,
			CreatedBy:   userID,
			IsPublic:    isPublic,
		}

		if err := tx.Create(&team).Error; err != nil {
			return err
		}

		leader := models.TeamMember{
			TeamID:   team.ID,
			UserID:   userID,
			Role:     models.TeamRoleLeader,
			JoinedAt: s.Now(),
		}

		return tx.Create(&leader).Error
	})

	if err != nil {
		return nil, err
	}

	return &team, nil
}

// JoinByCode adds the caller as a member of the team behind the code. Joining
// a team the caller already belongs to is a no-op.
func (s *Teams) JoinByCode(userID uint, teamCode string) (*models.Team, error) {
	code := strings.ToUpper(strings.TrimSpace(teamCode))

	if code == "" {
		return nil, fmt.Errorf("%w: teamCode is required", ErrValidation)
	}

	var team models.Team

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("team_code = ?", code).First(&team).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("team not found: %w", ErrNotFound)
			}
			return err
		}

		if team.IsLocked {
			return ErrLocked
		}

		return s.joinAsMember(tx, &team, userID)
	})

	if err != nil {
		return nil, err
	}

	return &team, nil
}

// JoinByID is the public-team path: no code needed, but the team must have
// opted in via is_public.
func (s *Teams) JoinByID(userID, teamID uint) (*models.Team, error) {
	if teamID == 0 {
		return nil, fmt.Errorf("%w: teamId is required", ErrValidation)
	}

	var team models.Team

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&team, teamID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("team not found: %w", ErrNotFound)
			}
			return err
		}

		if team.IsLocked {
			return ErrLocked
		}

		if !team.IsPublic {
			return fmt.Errorf("team is not public: %w", ErrForbidden)
		}

		return s.joinAsMember(tx, &team, userID)
	})

	if err != nil {
		return nil, err
	}

	return &team, nil
}

func (s *Teams) joinAsMember(tx *gorm.DB, team *models.Team, userID uint) error {
	accepted, err := hasAcceptedRegistration(tx, userID, team.HackathonID)

	if err != nil {
		return err
	}

	if !accepted {
		return fmt.Errorf("accepted registration required: %w", ErrForbidden)
	}

	_, err = addTeamMember(tx, team, userID, models.TeamRoleMember, s.Now())
	return err
}

// Leave removes the caller's membership for the hackathon. A leader leaving
// alone disbands the team; a leader with co-members cannot leave.
func (s *Teams) Leave(userID, hackathonID uint) (bool, error) {
	if hackathonID == 0 {
		return false, fmt.Errorf("%w: hackathonId is required", ErrValidation)
	}

	var disbanded bool

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var membership models.TeamMember

		err := tx.Joins("JOIN teams ON teams.id = team_members.team_id").
			Where("team_members.user_id = ? AND teams.hackathon_id = ?", userID, hackathonID).
			First(&membership).Error

		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("not in a team for this hackathon: %w", ErrNotFound)
			}
			return err
		}

		var memberCount int64

		if err := tx.Model(&models.TeamMember{}).Where("team_id = ?", membership.TeamID).Count(&memberCount).Error; err != nil {
			return err
		}

		if membership.Role == models.TeamRoleLeader && memberCount > 1 {
			return fmt.Errorf("leader cannot leave while other members remain: %w", ErrConflict)
		}

		if membership.Role == models.TeamRoleLeader {
			if err := tx.Where("team_id = ?", membership.TeamID).Delete(&models.TeamMember{}).Error; err != nil {
				return err
			}
			if err := tx.Where("team_id = ?", membership.TeamID).Delete(&models.TeamInvite{}).Error; err != nil {
				return err
			}
			if err := tx.Delete(&models.Team{}, membership.TeamID).Error; err != nil {
				return err
			}
			disbanded = true
			return nil
		}

		return tx.Delete(&models.TeamMember{}, membership.ID).Error
	})

	if err != nil {
		return false, err
	}

	return disbanded, nil
}

// TogglePublic flips the public-join flag. Leader only.
func (s *Teams) TogglePublic(userID, teamID uint, isPublic bool) (*models.Team, error) {
	if teamID == 0 {
		return nil, fmt.Errorf("%w: teamId is required", ErrValidation)
	}

	isLeader, err := userIsTeamLeader(s.DB, userID, teamID)

	if err != nil {
		return nil, err
	}

	if !isLeader {
		return nil, fmt.Errorf("only team leader can change public status: %w", ErrForbidden)
	}

	if err := s.DB.Model(&models.Team{}).Where("id = ?", teamID).Update("is_public", isPublic).Error; err != nil {
		return nil, err
	}

	var team models.Team

	if err := s.DB.First(&team, teamID).Error; err != nil {
		return nil, err
	}

	return &team, nil
}

// TeamForUser returns the caller's team for the hackathon with its members
// and invites, or a nil team when the caller has none.
func (s *Teams) TeamForUser(userID, hackathonID uint) (*models.Team, []models.TeamMember, []models.TeamInvite, error) {
	if hackathonID == 0 {
		return nil, nil, nil, fmt.Errorf("%w: hackathonId is required", ErrValidation)
	}

	var team models.Team

	err := s.DB.Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ? AND teams.hackathon_id = ?", userID, hackathonID).
		First(&team).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, nil, nil
	}

	if err != nil {
		return nil, nil, nil, err
	}

	var members []models.TeamMember

	if err := s.DB.Preload("User").Where("team_id = ?", team.ID).Order("joined_at ASC").Find(&members).Error; err != nil {
		return nil, nil, nil, err
	}

	var invites []models.TeamInvite

	if err := s.DB.Where("team_id = ?", team.ID).Order("invited_at DESC").Find(&invites).Error; err != nil {
		return nil, nil, nil, err
	}

	return &team, members, invites, nil
}

// Available lists unlocked teams of a hackathon that still have room.
func (s *Teams) Available(hackathonID uint) ([]TeamSummary, error) {
	if hackathonID == 0 {
		return nil, fmt.Errorf("%w: hackathonId is required", ErrValidation)
	}

	var hackathon models.Hackathon

	if err := s.DB.First(&hackathon, hackathonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("hackathon not found: %w", ErrNotFound)
		}
		return nil, err
	}

	var teams []TeamSummary

	err := s.DB.Model(&models.Team{}).
		Select("teams.id, teams.name, teams.team_code, teams.is_public, teams.is_locked, COUNT(team_members.id) AS member_count").
		Joins("LEFT JOIN team_members ON team_members.team_id = teams.id").
		Where("teams.hackathon_id = ? AND teams.is_locked = ?", hackathonID, false).
		Group("teams.id, teams.name, teams.team_code, teams.is_public, teams.is_locked, teams.created_at").
		Having("COUNT(team_members.id) < ?", hackathon.MaxTeamSize).
		Order("teams.is_public DESC, teams.created_at DESC").
		Scan(&teams).Error

	if err != nil {
		return nil, err
	}

	return teams, nil
}

func (s *Teams) uniqueTeamCode(tx *gorm.DB) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := s.GenerateCode()

		if err != nil {
			return "", err
		}

		var count int64

		if err := tx.Model(&models.Team{}).Where("team_code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}

		if count == 0 {
			return code, nil
		}
	}

	return "", ErrCodeExhausted
}

func userInHackathonTeam(tx *gorm.DB, userID, hackathonID uint) (bool, error) {
	var count int64

	err := tx.Model(&models.TeamMember{}).
		Joins("JOIN teams ON teams.id = team_members.team_id").
		Where("team_members.user_id = ? AND teams.hackathon_id = ?", userID, hackathonID).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

func userIsTeamLeader(tx *gorm.DB, userID, teamID uint) (bool, error) {
	var count int64

	err := tx.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ? AND role = ?", teamID, userID, models.TeamRoleLeader).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}

// addTeamMember inserts a membership while holding the invariants: one team
// per user per hackathon, and never more members than the hackathon allows.
// Inserting an existing (team, user) membership reports alreadyMember and
// changes nothing. Must run inside the caller's transaction so the capacity
// check and the insert cannot be split by a concurrent join.
func addTeamMember(tx *gorm.DB, team *models.Team, userID uint, role models.TeamMemberRole, joinedAt time.Time) (bool, error) {
	var existing int64

	err := tx.Model(&models.TeamMember{}).
		Where("team_id = ? AND user_id = ?", team.ID, userID).
		Count(&existing).Error

	if err != nil {
		return false, err
	}

	if existing > 0 {
		return true, nil
	}

	inTeam, err := userInHackathonTeam(tx, userID, team.HackathonID)

	if err != nil {
		return false, err
	}

	if inTeam {
		return false, fmt.Errorf("already in a team for this hackathon: %w", ErrConflict)
	}

	var hackathon models.Hackathon

	if err := tx.First(&hackathon, team.HackathonID).Error; err != nil {
		return false, err
	}

	var memberCount int64

	if err := tx.Model(&models.TeamMember{}).Where("team_id = ?", team.ID).Count(&memberCount).Error; err != nil {
		return false, err
	}

	if memberCount >= int64(hackathon.MaxTeamSize) {
		return false, fmt.Errorf("team is full: %w", ErrConflict)
	}

	member := models.TeamMember{
		TeamID:   team.ID,
		UserID:   userID,
		Role:     role,
		JoinedAt: joinedAt,
	}

	return false, tx.Create(&member).Error
}
