package models

import "time"

type UserRole string
type UserStatus string

const (
	RoleParticipant UserRole = "participant"
	RoleOrganizer   UserRole = "organizer"
	RoleAdmin       UserRole = "admin"

	UserStatusActive  UserStatus = "active"
	UserStatusBlocked UserStatus = "blocked"
)

type User struct {
	ID            uint       `gorm:"primarykey" json:"id"`
	Email         string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash  string     `gorm:"not null" json:"-"`
	FirstName     string     `json:"first_name,omitempty"`
	LastName      string     `json:"last_name,omitempty"`
	Role          UserRole   `gorm:"type:varchar(20);not null;default:'participant'" json:"role"`
	Status        UserStatus `gorm:"type:varchar(20);not null;default:'active'" json:"status"`
	BlockedReason string     `json:"blocked_reason,omitempty"`
	BlockedAt     *time.Time `json:"blocked_at,omitempty"`
	BlockedBy     *uint      `json:"blocked_by,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	// Relationships
	Registrations   []Registration `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	TeamMemberships []TeamMember   `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
