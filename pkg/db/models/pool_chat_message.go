package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/flexbnb/flexbnb-backend/pkg/enums"
	"github.com/flexbnb/flexbnb-backend/pkg/types"
)

// PoolChatMessage is an append-only pool chat entry. SenderID is nil for
// system notices (joins, leaves, payments, booking confirmations).
type PoolChatMessage struct {
	ID          uuid.UUID             `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PoolID      uuid.UUID             `gorm:"column:pool_id;type:uuid;not null;index"`
	SenderID    *uuid.UUID            `gorm:"column:sender_id;type:uuid"`
	MessageType enums.ChatMessageType `gorm:"column:message_type;not null;default:'text'"`
	Body        string                `gorm:"column:body;not null"`
	Metadata    types.JSONMap         `gorm:"column:metadata;type:jsonb;default:'{}'"`
	IsReadBy    types.UUIDSet         `gorm:"column:is_read_by;type:jsonb;default:'[]'"`
	CreatedAt   time.Time             `gorm:"column:created_at;autoCreateTime;index"`
}
