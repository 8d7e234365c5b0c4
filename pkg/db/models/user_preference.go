package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// UserPreference is the explicit travel-preference profile feeding
// content-based recommendations and guest matching. One row per user.
type UserPreference struct {
	ID                  uuid.UUID        `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID              uuid.UUID        `gorm:"column:user_id;type:uuid;not null;uniqueIndex"`
	PreferredCategories pq.StringArray   `gorm:"column:preferred_categories;type:text[];default:ARRAY[]::text[]"`
	PreferredLocations  pq.StringArray   `gorm:"column:preferred_locations;type:text[];default:ARRAY[]::text[]"`
	PreferredAmenities  pq.StringArray   `gorm:"column:preferred_amenities;type:text[];default:ARRAY[]::text[]"`
	MinPrice            *decimal.Decimal `gorm:"column:min_price;type:numeric(12,2)"`
	MaxPrice            *decimal.Decimal `gorm:"column:max_price;type:numeric(12,2)"`
	TravelStyle         *string          `gorm:"column:travel_style"`
	CreatedAt           time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt           time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// SearchHistory is one recorded property search. Anonymous visitors are
// keyed by session ID.
type SearchHistory struct {
	ID          uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID      *uuid.UUID `gorm:"column:user_id;type:uuid;index"`
	SessionID   *string    `gorm:"column:session_id;index"`
	Location    string     `gorm:"column:location;not null;default:''"`
	Category    string     `gorm:"column:category;not null;default:''"`
	GuestsCount int        `gorm:"column:guests_count;not null;default:0"`
	CheckIn     *time.Time `gorm:"column:check_in"`
	CheckOut    *time.Time `gorm:"column:check_out"`
	CreatedAt   time.Time  `gorm:"column:created_at;autoCreateTime;index"`
}

// PropertyView is one recorded listing view, feeding trending counts and
// viewed-not-booked recall.
type PropertyView struct {
	ID         uuid.UUID  `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID     *uuid.UUID `gorm:"column:user_id;type:uuid;index"`
	SessionID  *string    `gorm:"column:session_id;index"`
	PropertyID uuid.UUID  `gorm:"column:property_id;type:uuid;not null;index"`
	CreatedAt  time.Time  `gorm:"column:created_at;autoCreateTime;index"`
}

// GuestMatch is a precomputed property suggestion with a weighted fit
// score. Rows expire and are regenerated when preferences change.
type GuestMatch struct {
	ID           uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	UserID       uuid.UUID       `gorm:"column:user_id;type:uuid;not null;index"`
	PropertyID   uuid.UUID       `gorm:"column:property_id;type:uuid;not null"`
	Score        decimal.Decimal `gorm:"column:score;type:numeric(5,2);not null"`
	MatchReasons pq.StringArray  `gorm:"column:match_reasons;type:text[];default:ARRAY[]::text[]"`
	ExpiresAt    time.Time       `gorm:"column:expires_at;not null"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}
