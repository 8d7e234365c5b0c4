package models

import (
	"time"

	"github.com/google/uuid"
)

// User mirrors an identity minted by the upstream auth provider. Rows are
// created lazily the first time a verified token subject is seen.
type User struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ExternalID string     `gorm:"column:external_id;type:text;not null;uniqueIndex"`
	Email      string     `gorm:"type:text;not null;uniqueIndex"`
	Name       string     `gorm:"column:name;not null"`
	AvatarURL  *string    `gorm:"column:avatar_url"`
	IsHost     bool       `gorm:"column:is_host;not null;default:false"`
	IsActive   bool       `gorm:"column:is_active;not null;default:true"`
	LastSeenAt *time.Time `gorm:"column:last_seen_at"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}
