package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/flexbnb/flexbnb-backend/pkg/db/models"
	"github.com/flexbnb/flexbnb-backend/pkg/enums"
)

// Repository is the persistence surface for reservations, earnings,
// host messaging and reviews. WithTx returns a copy bound to the given
// transaction.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	CreateReservation(ctx context.Context, reservation *models.Reservation) error
	SaveReservation(ctx context.Context, reservation *models.Reservation) error
	FindReservation(ctx context.Context, id uuid.UUID) (*models.Reservation, error)
	ListReservationsByGuest(ctx context.Context, guestID uuid.UUID, status *enums.ReservationStatus, limit int) ([]models.Reservation, error)
	ListReservationsByHost(ctx context.Context, hostID uuid.UUID, status *enums.ReservationStatus, limit int) ([]models.Reservation, error)
	CountReservationsByHost(ctx context.Context, hostID uuid.UUID, status *enums.ReservationStatus) (int64, error)
	FindEligibleReviewReservation(ctx context.Context, guestID, propertyID uuid.UUID, cutoff time.Time) (*models.Reservation, error)

	FindProperty(ctx context.Context, id uuid.UUID) (*models.Property, error)
	CountPropertiesByHost(ctx context.Context, hostID uuid.UUID) (int64, error)

	CreateHostEarning(ctx context.Context, earning *models.HostEarning) error
	HasHostEarning(ctx context.Context, reservationID uuid.UUID) (bool, error)
	ListHostEarnings(ctx context.Context, hostID uuid.UUID, from, to *time.Time) ([]models.HostEarning, error)
	SumHostEarnings(ctx context.Context, hostID uuid.UUID, since *time.Time) (decimal.Decimal, error)

	CreateHostMessage(ctx context.Context, message *models.HostMessage) error
	ListHostMessages(ctx context.Context, userID uuid.UUID, limit int) ([]models.HostMessage, error)
	MarkHostMessagesRead(ctx context.Context, receiverID uuid.UUID) error
	CountUnreadHostMessages(ctx context.Context, receiverID uuid.UUID) (int64, error)

	CreatePropertyReview(ctx context.Context, review *models.PropertyReview) error
	HasPropertyReview(ctx context.Context, reservationID uuid.UUID) (bool, error)
	ListPropertyReviews(ctx context.Context, propertyID uuid.UUID, offset, limit int) ([]models.PropertyReview, int64, error)
	ListPropertyReviewsByHost(ctx context.Context, hostID uuid.UUID, offset, limit int) ([]models.PropertyReview, int64, error)
	AveragePropertyRatingForHost(ctx context.Context, hostID uuid.UUID) (float64, error)
	ReviewedReservationIDs(ctx context.Context, guestID uuid.UUID) (map[uuid.UUID]bool, error)

	CreateGuestReview(ctx context.Context, review *models.GuestReview) error
	HasGuestReview(ctx context.Context, reservationID uuid.UUID) (bool, error)
	ListGuestReviewsGiven(ctx context.Context, hostID uuid.UUID) ([]models.GuestReview, error)
	ListGuestReviewsReceived(ctx context.Context, guestID uuid.UUID) ([]models.GuestReview, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}
