package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

// Property is a host listing. Pool-related columns gate whether room
// pooling can be opened against the listing and how large a pool may grow.
type Property struct {
	ID               uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	HostID           uuid.UUID       `gorm:"column:host_id;type:uuid;not null;index"`
	Title            string          `gorm:"column:title;not null"`
	Description      string          `gorm:"column:description;not null;default:''"`
	Location         string          `gorm:"column:location;not null;index"`
	Country          string          `gorm:"column:country;not null;default:''"`
	CountryCode      string          `gorm:"column:country_code;not null;default:''"`
	Category         string          `gorm:"column:category;not null;index"`
	PricePerNight    decimal.Decimal `gorm:"column:price_per_night;type:numeric(12,2);not null"`
	Bedrooms         int             `gorm:"column:bedrooms;not null;default:1"`
	Bathrooms        int             `gorm:"column:bathrooms;not null;default:1"`
	Guests           int             `gorm:"column:guests;not null;default:1"`
	Amenities        pq.StringArray  `gorm:"column:amenities;type:text[];default:ARRAY[]::text[]"`
	AllowRoomPooling bool            `gorm:"column:allow_room_pooling;not null;default:false"`
	MaxPoolMembers   int             `gorm:"column:max_pool_members;not null;default:6"`
	IsActive         bool            `gorm:"column:is_active;not null;default:true"`
	Images           []PropertyImage `gorm:"foreignKey:PropertyID;constraint:OnDelete:CASCADE"`
	CreatedAt        time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt        time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

// PropertyImage is an ordered gallery entry for a listing.
type PropertyImage struct {
	ID         uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PropertyID uuid.UUID `gorm:"column:property_id;type:uuid;not null;index"`
	URL        string    `gorm:"column:url;not null"`
	Position   int       `gorm:"column:position;not null;default:0"`
	CreatedAt  time.Time `gorm:"column:created_at;autoCreateTime"`
}
