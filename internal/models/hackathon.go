package models

import "time"

type Hackathon struct {
	ID                  uint      `gorm:"primarykey" json:"id"`
	Name                string    `gorm:"not null" json:"name"`
	Description         string    `json:"description,omitempty"`
	StartAt             time.Time `gorm:"not null" json:"start_at"`
	EndAt               time.Time `gorm:"not null" json:"end_at"`
	RegistrationOpenAt  time.Time `gorm:"not null" json:"registration_open_at"`
	RegistrationCloseAt time.Time `gorm:"not null" json:"registration_close_at"`
	MinTeamSize         int       `gorm:"not null;default:1" json:"min_team_size"`
	MaxTeamSize         int       `gorm:"not null;default:4" json:"max_team_size"`
	IsActive            bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`

	// Relationships
	Registrations []Registration `gorm:"foreignKey:HackathonID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Teams         []Team         `gorm:"foreignKey:HackathonID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
