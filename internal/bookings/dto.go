package bookings

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
)

// CreateReservationInput books a stay. TotalPrice is optional; when
// omitted it is derived from the property's nightly rate.
type CreateReservationInput struct {
	PropertyID  uuid.UUID        `json:"property_id" validate:"required"`
	CheckIn     time.Time        `json:"check_in" validate:"required"`
	CheckOut    time.Time        `json:"check_out" validate:"required"`
	GuestsCount int              `json:"guests_count" validate:"min=1"`
	TotalPrice  *decimal.Decimal `json:"total_price,omitempty"`
}

// ReservationDTO is the outward shape of a reservation.
type ReservationDTO struct {
	ID           uuid.UUID               `json:"id"`
	PropertyID   uuid.UUID               `json:"property_id"`
	GuestID      uuid.UUID               `json:"guest_id"`
	CheckIn      time.Time               `json:"check_in"`
	CheckOut     time.Time               `json:"check_out"`
	GuestsCount  int                     `json:"guests_count"`
	TotalPrice   decimal.Decimal         `json:"total_price"`
	BookingFee   decimal.Decimal         `json:"booking_fee"`
	HostEarnings decimal.Decimal         `json:"host_earnings"`
	Status       enums.ReservationStatus `json:"status"`
	HasReview    bool                    `json:"has_review"`
	CreatedAt    time.Time               `json:"created_at"`
}

// DashboardStatsDTO aggregates a host's portfolio at a glance.
type DashboardStatsDTO struct {
	TotalProperties   int64           `json:"total_properties"`
	TotalReservations int64           `json:"total_reservations"`
	PendingRequests   int64           `json:"pending_requests"`
	TotalEarnings     decimal.Decimal `json:"total_earnings"`
	ThisMonthEarnings decimal.Decimal `json:"this_month_earnings"`
	AverageRating     float64         `json:"average_rating"`
	UnreadMessages    int64           `json:"unread_messages"`
}

// EarningDTO is one payout record.
type EarningDTO struct {
	ID            uuid.UUID       `json:"id"`
	ReservationID uuid.UUID       `json:"reservation_id"`
	GrossAmount   decimal.Decimal `json:"gross_amount"`
	PlatformFee   decimal.Decimal `json:"platform_fee"`
	NetAmount     decimal.Decimal `json:"net_amount"`
	CreatedAt     time.Time       `json:"created_at"`
}

// HostMessageDTO is one guest/host thread entry.
type HostMessageDTO struct {
	ID            uuid.UUID `json:"id"`
	ReservationID uuid.UUID `json:"reservation_id"`
	SenderID      uuid.UUID `json:"sender_id"`
	Body          string    `json:"body"`
	IsRead        bool      `json:"is_read"`
	CreatedAt     time.Time `json:"created_at"`
}

// SubmitReviewInput covers both property and guest reviews.
type SubmitReviewInput struct {
	ReservationID uuid.UUID `json:"reservation_id" validate:"required"`
	Rating        int       `json:"rating" validate:"required,min=1,max=5"`
	Comment       string    `json:"comment" validate:"max=4000"`
}

// PropertyReviewDTO is the public shape of a property review.
type PropertyReviewDTO struct {
	ID            uuid.UUID `json:"id"`
	PropertyID    uuid.UUID `json:"property_id"`
	ReservationID uuid.UUID `json:"reservation_id"`
	GuestID       uuid.UUID `json:"guest_id"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}

// ReviewPageDTO is a paginated review listing.
type ReviewPageDTO struct {
	Count    int64               `json:"count"`
	Page     int                 `json:"page"`
	PageSize int                 `json:"page_size"`
	Results  []PropertyReviewDTO `json:"results"`
}

// GuestReviewDTO is a host's review of a guest.
type GuestReviewDTO struct {
	ID            uuid.UUID `json:"id"`
	ReservationID uuid.UUID `json:"reservation_id"`
	GuestID       uuid.UUID `json:"guest_id"`
	HostID        uuid.UUID `json:"host_id"`
	Rating        int       `json:"rating"`
	Comment       string    `json:"comment"`
	CreatedAt     time.Time `json:"created_at"`
}

// CanReviewDTO answers the review-eligibility probe.
type CanReviewDTO struct {
	CanReview     bool       `json:"can_review"`
	ReservationID *uuid.UUID `json:"reservation_id,omitempty"`
	Reason        string     `json:"reason,omitempty"`
}

func toReservationDTO(reservation models.Reservation) ReservationDTO {
	return ReservationDTO{
		ID:           reservation.ID,
		PropertyID:   reservation.PropertyID,
		GuestID:      reservation.GuestID,
		CheckIn:      reservation.CheckIn,
		CheckOut:     reservation.CheckOut,
		GuestsCount:  reservation.GuestsCount,
		TotalPrice:   reservation.TotalPrice,
		BookingFee:   reservation.BookingFee,
		HostEarnings: reservation.HostEarnings,
		Status:       reservation.Status,
		CreatedAt:    reservation.CreatedAt,
	}
}

func toEarningDTO(earning models.HostEarning) EarningDTO {
	return EarningDTO{
		ID:            earning.ID,
		ReservationID: earning.ReservationID,
		GrossAmount:   earning.GrossAmount,
		PlatformFee:   earning.PlatformFee,
		NetAmount:     earning.NetAmount,
		CreatedAt:     earning.CreatedAt,
	}
}

func toHostMessageDTO(message models.HostMessage) HostMessageDTO {
	return HostMessageDTO{
		ID:            message.ID,
		ReservationID: message.ReservationID,
		SenderID:      message.SenderID,
		Body:          message.Body,
		IsRead:        message.IsRead,
		CreatedAt:     message.CreatedAt,
	}
}

func toPropertyReviewDTO(review models.PropertyReview) PropertyReviewDTO {
	return PropertyReviewDTO{
		ID:            review.ID,
		PropertyID:    review.PropertyID,
		ReservationID: review.ReservationID,
		GuestID:       review.GuestID,
		Rating:        review.Rating,
		Comment:       review.Comment,
		CreatedAt:     review.CreatedAt,
	}
}

func toGuestReviewDTO(review models.GuestReview) GuestReviewDTO {
	return GuestReviewDTO{
		ID:            review.ID,
		ReservationID: review.ReservationID,
		GuestID:       review.GuestID,
		HostID:        review.HostID,
		Rating:        review.Rating,
		Comment:       review.Comment,
		CreatedAt:     review.CreatedAt,
	}
}
