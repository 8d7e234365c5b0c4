package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/flexbnb/flexbnb-backend/pkg/enums"
)

// PoolInvitation is a creator-issued invite, addressed by email so users
// who have not signed up yet can still be invited. Expiry is checked
// lazily when the invite is answered.
type PoolInvitation struct {
	ID            uuid.UUID              `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PoolID        uuid.UUID              `gorm:"column:pool_id;type:uuid;not null;index"`
	InvitedUserID *uuid.UUID             `gorm:"column:invited_user_id;type:uuid;index"`
	InvitedEmail  string                 `gorm:"column:invited_email;not null;index"`
	InvitedByID   uuid.UUID              `gorm:"column:invited_by_id;type:uuid;not null"`
	Status        enums.InvitationStatus `gorm:"column:status;not null;default:'pending'"`
	Message       *string                `gorm:"column:message"`
	ExpiresAt     time.Time              `gorm:"column:expires_at;not null"`
	RespondedAt   *time.Time             `gorm:"column:responded_at"`
	CreatedAt     time.Time              `gorm:"column:created_at;autoCreateTime"`
}
