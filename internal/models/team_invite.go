package models

import "time"

type InviteStatus string

const (
	InvitePending  InviteStatus = "pending"
	InviteAccepted InviteStatus = "accepted"
	InviteDeclined InviteStatus = "declined"
	InviteExpired  InviteStatus = "expired"
)

// TeamInvite may target an email with no account yet, so InvitedUserID is
// nullable and authorization on respond also matches by email.
type TeamInvite struct {
	ID            uint         `gorm:"primarykey" json:"id"`
	TeamID        uint         `gorm:"not null;index" json:"team_id"`
	InvitedUserID *uint        `gorm:"index" json:"invited_user_id,omitempty"`
	InvitedEmail  string       `gorm:"not null;index" json:"invited_email"`
	InvitedBy     uint         `gorm:"not null" json:"invited_by"`
	Status        InviteStatus `gorm:"type:varchar(20);not null;default:'pending'" json:"status"`
	InvitedAt     time.Time    `gorm:"not null" json:"invited_at"`
	RespondedAt   *time.Time   `json:"responded_at,omitempty"`
	ExpiresAt     time.Time    `gorm:"not null" json:"expires_at"`

	// Relationships
	Team Team `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"team,omitempty"`
}
