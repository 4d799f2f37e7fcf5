package models

import "time"

type TeamMemberRole string

const (
	TeamRoleLeader TeamMemberRole = "leader"
	TeamRoleMember TeamMemberRole = "member"
)

type TeamMember struct {
	ID       uint           `gorm:"primarykey" json:"id"`
	TeamID   uint           `gorm:"not null;uniqueIndex:idx_team_member_team_user" json:"team_id"`
	UserID   uint           `gorm:"not null;uniqueIndex:idx_team_member_team_user" json:"user_id"`
	Role     TeamMemberRole `gorm:"type:varchar(20);not null;default:'member'" json:"role"`
	JoinedAt time.Time      `gorm:"not null" json:"joined_at"`

	// Relationships
	Team Team `gorm:"foreignKey:TeamID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"-"`
	User User `gorm:"foreignKey:UserID;constraint:OnUpdate:Cascade,OnDelete:CASCADE" json:"user,omitempty"`
}
