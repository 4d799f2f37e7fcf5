package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/hackhub-dev/hackhub/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Registrations manages one application per (user, hackathon).
type Registrations struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewRegistrations(db *gorm.DB) *Registrations {
	return &Registrations{DB: db, Now: time.Now}
}

// Apply upserts the caller's registration back to pending. Re-applying after
// a rejection or cancellation always restarts review.
func (s *Registrations) Apply(userID, hackathonID uint) (*models.Registration, error) {
	if hackathonID == 0 {
		return nil, fmt.Errorf("%w: hackathonId is required", ErrValidation)
	}

	var hackathon models.Hackathon

	if err := s.DB.First(&hackathon, hackathonID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("hackathon not found or inactive: %w", ErrNotFound)
		}
		return nil, err
	}

	if !hackathon.IsActive {
		return nil, fmt.Errorf("hackathon not found or inactive: %w", ErrNotFound)
	}

	now := s.Now()

	if now.Before(hackathon.RegistrationOpenAt) || now.After(hackathon.RegistrationCloseAt) {
		return nil, ErrWindowClosed
	}

	registration := models.Registration{
		HackathonID: hackathonID,
		UserID:      userID,
		Status:      models.RegistrationPending,
		AppliedAt:   now,
	}

	err := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "hackathon_id"}, {Name: "user_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"status":     models.RegistrationPending,
			"applied_at": now,
		}),
	}).Create(&registration).Error

	if err != nil {
		return nil, err
	}

	var current models.Registration

	if err := s.DB.Where("hackathon_id = ? AND user_id = ?", hackathonID, userID).First(&current).Error; err != nil {
		return nil, err
	}

	return &current, nil
}

// GetMine returns nil when the user never applied, which callers must treat
// as distinct from a cancelled registration.
func (s *Registrations) GetMine(userID, hackathonID uint) (*models.Registration, error) {
	if hackathonID == 0 {
		return nil, fmt.Errorf("%w: hackathonId is required", ErrValidation)
	}

	var registration models.Registration

	err := s.DB.Where("hackathon_id = ? AND user_id = ?", hackathonID, userID).First(&registration).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &registration, nil
}

func hasAcceptedRegistration(tx *gorm.DB, userID, hackathonID uint) (bool, error) {
	var count int64

	err := tx.Model(&models.Registration{}).
		Where("user_id = ? AND hackathon_id = ? AND status = ?", userID, hackathonID, models.RegistrationAccepted).
		Count(&count).Error

	if err != nil {
		return false, err
	}

	return count > 0, nil
}
