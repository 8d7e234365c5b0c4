package models

import (
	"time"

	"github.com/google/uuid"
)

// PropertyReview is a guest's review of a completed stay. One per
// reservation, enforced at the database.
type PropertyReview struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	PropertyID    uuid.UUID `gorm:"column:property_id;type:uuid;not null;index"`
	ReservationID uuid.UUID `gorm:"column:reservation_id;type:uuid;not null;uniqueIndex"`
	GuestID       uuid.UUID `gorm:"column:guest_id;type:uuid;not null"`
	Rating        int       `gorm:"column:rating;not null"`
	Comment       string    `gorm:"column:comment;not null"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}

// GuestReview is a host's review of a guest after a stay.
type GuestReview struct {
	ID            uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	GuestID       uuid.UUID `gorm:"column:guest_id;type:uuid;not null;index"`
	HostID        uuid.UUID `gorm:"column:host_id;type:uuid;not null"`
	ReservationID uuid.UUID `gorm:"column:reservation_id;type:uuid;not null;uniqueIndex"`
	Rating        int       `gorm:"column:rating;not null"`
	Comment       string    `gorm:"column:comment;not null;default:''"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime"`
}
