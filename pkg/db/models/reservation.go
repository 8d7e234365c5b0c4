package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flexbnb/flexbnb-backend/pkg/enums"
)

// Reservation is a confirmed or requested stay. Pool finalization creates
// one with the pool creator as guest; direct bookings create them too.
type Reservation struct {
	ID           uuid.UUID               `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PropertyID   uuid.UUID               `gorm:"column:property_id;type:uuid;not null;index"`
	GuestID      uuid.UUID               `gorm:"column:guest_id;type:uuid;not null;index"`
	CheckIn      time.Time               `gorm:"column:check_in;not null"`
	CheckOut     time.Time               `gorm:"column:check_out;not null"`
	GuestsCount  int                     `gorm:"column:guests_count;not null;default:1"`
	TotalPrice   decimal.Decimal         `gorm:"column:total_price;type:numeric(12,2);not null"`
	BookingFee   decimal.Decimal         `gorm:"column:booking_fee;type:numeric(12,2);not null;default:0"`
	HostEarnings decimal.Decimal         `gorm:"column:host_earnings;type:numeric(12,2);not null;default:0"`
	Status       enums.ReservationStatus `gorm:"column:status;not null;default:'pending';index"`
	CreatedAt    time.Time               `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time               `gorm:"column:updated_at;autoUpdateTime"`
}

// HostEarning is the payout record cut when a host approves a reservation.
// At most one row per reservation.
type HostEarning struct {
	ID            uuid.UUID       `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	HostID        uuid.UUID       `gorm:"column:host_id;type:uuid;not null;index"`
	ReservationID uuid.UUID       `gorm:"column:reservation_id;type:uuid;not null;uniqueIndex"`
	GrossAmount   decimal.Decimal `gorm:"column:gross_amount;type:numeric(12,2);not null"`
	PlatformFee   decimal.Decimal `gorm:"column:platform_fee;type:numeric(12,2);not null"`
	NetAmount     decimal.Decimal `gorm:"column:net_amount;type:numeric(12,2);not null"`
	CreatedAt     time.Time       `gorm:"column:created_at;autoCreateTime"`
}

// HostMessage is a guest/host thread entry attached to a reservation.
type HostMessage struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	ReservationID uuid.UUID `gorm:"column:reservation_id;type:uuid;not null;index"`
	SenderID      uuid.UUID `gorm:"column:sender_id;type:uuid;not null"`
	Body          string    `gorm:"column:body;not null"`
	IsRead        bool      `gorm:"column:is_read;not null;default:false"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}
