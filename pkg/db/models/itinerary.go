package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/flexbnb/flexbnb-backend/pkg/enums"
	"github.com/flexbnb/flexbnb-backend/pkg/types"
)

// Itinerary is a generated day-by-day trip plan. The plan body (days,
// restaurants, tips) is denormalized JSONB since it is write-once.
type Itinerary struct {
	ID          uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      uuid.UUID        `gorm:"column:user_id;type:uuid;not null;index"`
	Destination string           `gorm:"column:destination;not null"`
	StartDate   time.Time        `gorm:"column:start_date;not null"`
	EndDate     time.Time        `gorm:"column:end_date;not null"`
	Pace        enums.TravelPace `gorm:"column:pace;not null;default:'moderate'"`
	Interests   pq.StringArray   `gorm:"column:interests;type:text[];default:ARRAY[]::text[]"`
	Plan        types.JSONMap    `gorm:"column:plan;type:jsonb;default:'{}'"`
	CreatedAt   time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt   time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// ChatbotConversation accumulates one session's exchange with the travel
// assistant. Messages is an append-only JSONB array of role/text/intent
// entries.
type ChatbotConversation struct {
	ID        uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    *uuid.UUID    `gorm:"column:user_id;type:uuid;index"`
	SessionID string        `gorm:"column:session_id;not null;uniqueIndex"`
	Messages  types.JSONMap `gorm:"column:messages;type:jsonb;default:'{}'"`
	CreatedAt time.Time     `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time     `gorm:"column:updated_at;autoUpdateTime"`
}

// LocationPriceIndex is a per-market average nightly rate snapshot used by
// pricing insights when a market has history.
type LocationPriceIndex struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Location     string          `gorm:"column:location;not null;uniqueIndex"`
	AveragePrice decimal.Decimal `gorm:"column:average_price;type:numeric(12,2);not null"`
	SampleSize   int             `gorm:"column:sample_size;not null;default:0"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}
