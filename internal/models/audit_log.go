package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog is append-only: rows are written once by the admin layer and are
// never updated or deleted.
type AuditLog struct {
	ID           uint           `gorm:"primarykey" json:"id"`
	ActorUserID  uint           `gorm:"not null;index" json:"actor_user_id"`
	TargetUserID *uint          `gorm:"index" json:"target_user_id,omitempty"`
	HackathonID  *uint          `json:"hackathon_id,omitempty"`
	Action       string         `gorm:"not null" json:"action"`
	Details      datatypes.JSON `gorm:"type:jsonb" json:"details,omitempty"`
	CreatedAt    time.Time      `json:"created_at"`
}
