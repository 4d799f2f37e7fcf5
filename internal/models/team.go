package models

import "time"

type Team struct {
	ID          uint      `gorm:"primarykey" json:"id"`
	HackathonID uint      `gorm:"not null;index" json:"hackathon_id"`
	Name        string    `gorm:"not null" json:"name"`
	TeamCode    string    `gorm:"size:16;uniqueIndex;not null" json:"team_code"`
	CreatedBy   uint      `gorm:"not null" json:"created_by"`
	IsPublic    bool      `gorm:"not null;default:false" json:"is_public"`
	IsLocked    bool      `gorm:"not null;default:false" json:"is_locked"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Relationships
	Hackathon Hackathon    `gorm:"foreignKey:HackathonID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	Members   []TeamMember `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"members,omitempty"`
	Invites   []TeamInvite `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
}
