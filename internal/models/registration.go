package models

import "time"

type RegistrationStatus string

const (
	RegistrationPending    RegistrationStatus = "pending"
	RegistrationAccepted   RegistrationStatus = "accepted"
	RegistrationRejected   RegistrationStatus = "rejected"
	RegistrationWaitlisted RegistrationStatus = "waitlisted"
	RegistrationCancelled  RegistrationStatus = "cancelled"
)

// Registration rows are never hard-deleted; re-applying resets an existing
// row back to pending instead of inserting a second one.
type Registration struct {
	ID             uint               `gorm:"primarykey" json:"id"`
	HackathonID    uint               `gorm:"not null;uniqueIndex:idx_registration_hackathon_user" json:"hackathon_id"`
	UserID         uint               `gorm:"not null;uniqueIndex:idx_registration_hackathon_user" json:"user_id"`
	Status         RegistrationStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	AppliedAt      time.Time          `gorm:"not null" json:"applied_at"`
	ReviewedBy     *uint              `json:"reviewed_by,omitempty"`
	ReviewedAt     *time.Time         `json:"reviewed_at,omitempty"`
	DecisionReason string             `json:"decision_reason,omitempty"`
	CreatedAt      time.Time          `json:"created_at"`
	UpdatedAt      time.Time          `json:"updated_at"`

	// Relationships
	Hackathon Hackathon `gorm:"foreignKey:HackathonID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	User      User      `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"user,omitempty"`
}
